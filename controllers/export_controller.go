package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/visa-rent-server/models"
	"github.com/vnkhanh/visa-rent-server/utils"
)

const (
	csvContentType  = "text/csv; charset=utf-8"
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	exportDateTime  = "02.01.2006 15:04"
	exportDate      = "02.01.2006"
)

var statusLabels = map[string]map[models.RequestStatus]string{
	"ru": {models.StatusNew: "Новая", models.StatusContacted: "Связались", models.StatusCompleted: "Завершена", models.StatusCancelled: "Отменена"},
	"en": {models.StatusNew: "New", models.StatusContacted: "Contacted", models.StatusCompleted: "Completed", models.StatusCancelled: "Cancelled"},
	"vi": {models.StatusNew: "Mới", models.StatusContacted: "Đã liên hệ", models.StatusCompleted: "Hoàn thành", models.StatusCancelled: "Đã hủy"},
}

var viewingTypeLabels = map[string]map[string]string{
	"ru": {models.ViewingTypeViewing: "Просмотр", models.ViewingTypeVideoCall: "Видеозвонок"},
	"en": {models.ViewingTypeViewing: "Viewing", models.ViewingTypeVideoCall: "Video call"},
	"vi": {models.ViewingTypeViewing: "Xem nhà", models.ViewingTypeVideoCall: "Gọi video"},
}

var messengerLabels = map[string]map[string]string{
	"ru": {"whatsapp": "WhatsApp", "telegram": "Telegram", "zalo": "Zalo", "viber": "Viber", "phone": "Телефон"},
	"en": {"whatsapp": "WhatsApp", "telegram": "Telegram", "zalo": "Zalo", "viber": "Viber", "phone": "Phone"},
	"vi": {"whatsapp": "WhatsApp", "telegram": "Telegram", "zalo": "Zalo", "viber": "Viber", "phone": "Điện thoại"},
}

var viewingHeaders = map[string][]string{
	"ru": {"ID", "Дата заявки", "Имя", "Телефон", "Мессенджер", "Тип", "Желаемая дата", "Квартира", "Комментарий", "Статус"},
	"en": {"ID", "Created", "Name", "Phone", "Messenger", "Type", "Desired date", "Apartment", "Comment", "Status"},
	"vi": {"ID", "Ngày tạo", "Tên", "Điện thoại", "Ứng dụng nhắn tin", "Loại", "Ngày mong muốn", "Căn hộ", "Ghi chú", "Trạng thái"},
}

var contactHeaders = map[string][]string{
	"ru": {"ID", "Дата заявки", "Имя", "Телефон", "Email", "Мессенджер", "Тип визы", "Сообщение", "Статус"},
	"en": {"ID", "Created", "Name", "Phone", "Email", "Messenger", "Visa type", "Message", "Status"},
	"vi": {"ID", "Ngày tạo", "Tên", "Điện thoại", "Email", "Ứng dụng nhắn tin", "Loại visa", "Tin nhắn", "Trạng thái"},
}

var sheetNames = map[string][2]string{
	"ru": {"Просмотры", "Заявки"},
	"en": {"Viewings", "Contacts"},
	"vi": {"Lich xem", "Lien he"},
}

// label looks v up in the locale table, falling back to the raw value.
func label[K comparable](table map[string]map[K]string, lang string, v K) string {
	if s, ok := table[lang][v]; ok {
		return s
	}
	return fmt.Sprint(v)
}

func formatTime(t *time.Time, layout string) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(layout)
}

// ViewingRequestRows renders requests as export rows for lang.
func ViewingRequestRows(list []models.ViewingRequest, lang string) [][]string {
	rows := make([][]string, 0, len(list))
	for _, r := range list {
		title := ""
		if r.Apartment != nil {
			title = r.Apartment.TitleRu
		}
		created := r.CreatedAt
		rows = append(rows, []string{
			strconv.FormatUint(uint64(r.ID), 10),
			formatTime(&created, exportDateTime),
			r.Name,
			r.Phone,
			label(messengerLabels, lang, r.Messenger),
			label(viewingTypeLabels, lang, r.Type),
			formatTime(r.DesiredDate, exportDate),
			title,
			r.Comment,
			label(statusLabels, lang, r.Status),
		})
	}
	return rows
}

// ContactRequestRows renders requests as export rows for lang.
func ContactRequestRows(list []models.ContactRequest, lang string) [][]string {
	rows := make([][]string, 0, len(list))
	for _, r := range list {
		created := r.CreatedAt
		rows = append(rows, []string{
			strconv.FormatUint(uint64(r.ID), 10),
			formatTime(&created, exportDateTime),
			r.Name,
			r.Phone,
			r.Email,
			label(messengerLabels, lang, r.Messenger),
			r.VisaType,
			r.Message,
			label(statusLabels, lang, r.Status),
		})
	}
	return rows
}

// writeExport answers with CSV (default) or XLSX per ?format=.
func writeExport(c *gin.Context, base, sheet string, header []string, rows [][]string) {
	stamp := time.Now().Format("2006-01-02")
	switch c.DefaultQuery("format", "csv") {
	case "csv":
		var buf bytes.Buffer
		if err := utils.WriteCSV(&buf, header, rows); err != nil {
			respondError(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s-%s.csv"`, base, stamp))
		c.Data(http.StatusOK, csvContentType, buf.Bytes())
	case "xlsx":
		data, err := utils.BuildXLSX(sheet, header, rows)
		if err != nil {
			respondError(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s-%s.xlsx"`, base, stamp))
		c.Data(http.StatusOK, xlsxContentType, data)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"message": "format must be csv or xlsx"})
	}
}

/* ========== Admin: exports ========== */

func ExportViewingRequests(c *gin.Context) {
	db, ok := getDB(c)
	if !ok {
		return
	}
	q, ok := statusFilter(c, db.Model(&models.ViewingRequest{}))
	if !ok {
		return
	}
	var list []models.ViewingRequest
	if err := preloadRequestApartment(q).Order("created_at DESC, id DESC").Find(&list).Error; err != nil {
		respondError(c, err)
		return
	}
	lang := locale(c)
	writeExport(c, "viewing-requests", sheetNames[lang][0], viewingHeaders[lang], ViewingRequestRows(list, lang))
}

func ExportContactRequests(c *gin.Context) {
	db, ok := getDB(c)
	if !ok {
		return
	}
	q, ok := statusFilter(c, db.Model(&models.ContactRequest{}))
	if !ok {
		return
	}
	var list []models.ContactRequest
	if err := q.Order("created_at DESC, id DESC").Find(&list).Error; err != nil {
		respondError(c, err)
		return
	}
	lang := locale(c)
	writeExport(c, "contact-requests", sheetNames[lang][1], contactHeaders[lang], ContactRequestRows(list, lang))
}
