package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/vnkhanh/visa-rent-server/models"
	"github.com/vnkhanh/visa-rent-server/notify"
)

const (
	requestsPageSize = 20
	requestsMaxPage  = 200
)

// parseDate accepts RFC 3339 or a bare YYYY-MM-DD.
func parseDate(s string) (*time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, true
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, true
		}
	}
	return nil, false
}

/* ========== Public: viewing requests ========== */

type viewingReq struct {
	Name        string `json:"name" binding:"required,max=100"`
	Phone       string `json:"phone" binding:"required,max=50"`
	Messenger   string `json:"messenger" binding:"max=30"`
	Type        string `json:"type" binding:"omitempty,oneof=viewing video_call"`
	DesiredDate string `json:"desiredDate"`
	Comment     string `json:"comment" binding:"max=2000"`
	ApartmentID uint   `json:"apartmentId" binding:"required"`
}

// CreateViewingRequest stores the request and waits for the team
// notification; a failed notification is logged and still answers 201.
func CreateViewingRequest(c *gin.Context) {
	var req viewingReq
	if !bindJSON(c, &req) {
		return
	}
	desired, ok := parseDate(req.DesiredDate)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid desiredDate"})
		return
	}
	db, ok := getDB(c)
	if !ok {
		return
	}

	var apt models.Apartment
	if err := db.Select("id", "title_ru").Where("can_be_shown = ?", true).First(&apt, req.ApartmentID).Error; err != nil {
		respondError(c, err)
		return
	}

	vr := models.ViewingRequest{
		Name:        strings.TrimSpace(req.Name),
		Phone:       strings.TrimSpace(req.Phone),
		Messenger:   req.Messenger,
		Type:        req.Type,
		DesiredDate: desired,
		Comment:     req.Comment,
		Status:      models.StatusNew,
		ApartmentID: &apt.ID,
	}
	if vr.Type == "" {
		vr.Type = models.ViewingTypeViewing
	}
	if err := db.Create(&vr).Error; err != nil {
		respondError(c, err)
		return
	}

	err := current().Notifier.NewViewingRequest(c.Request.Context(), notify.ViewingRequestMessage{
		ID:             vr.ID,
		Name:           vr.Name,
		Phone:          vr.Phone,
		Messenger:      vr.Messenger,
		Type:           vr.Type,
		DesiredDate:    vr.DesiredDate,
		Comment:        vr.Comment,
		ApartmentID:    apt.ID,
		ApartmentTitle: apt.TitleRu,
	})
	if err != nil {
		logrus.WithError(err).WithField("viewingRequestId", vr.ID).Warn("viewing request notification failed")
	}

	c.JSON(http.StatusCreated, vr)
}

/* ========== Public: contact requests ========== */

type contactReq struct {
	Name      string `json:"name" binding:"required,max=100"`
	Phone     string `json:"phone" binding:"max=50"`
	Email     string `json:"email" binding:"omitempty,email,max=100"`
	Messenger string `json:"messenger" binding:"max=30"`
	VisaType  string `json:"visaType" binding:"max=150"`
	Message   string `json:"message" binding:"max=5000"`
}

// notifyTimeout bounds the detached contact notification.
const notifyTimeout = 15 * time.Second

// CreateContactRequest stores the request and answers right away; the team
// notification runs in the background.
func CreateContactRequest(c *gin.Context) {
	var req contactReq
	if !bindJSON(c, &req) {
		return
	}
	if strings.TrimSpace(req.Phone) == "" && strings.TrimSpace(req.Email) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "phone or email is required"})
		return
	}
	db, ok := getDB(c)
	if !ok {
		return
	}

	cr := models.ContactRequest{
		Name:      strings.TrimSpace(req.Name),
		Phone:     strings.TrimSpace(req.Phone),
		Email:     strings.TrimSpace(req.Email),
		Messenger: req.Messenger,
		VisaType:  req.VisaType,
		Message:   req.Message,
		Status:    models.StatusNew,
	}
	if err := db.Create(&cr).Error; err != nil {
		respondError(c, err)
		return
	}

	n := current().Notifier
	msg := notify.ContactRequestMessage{
		ID:        cr.ID,
		Name:      cr.Name,
		Phone:     cr.Phone,
		Email:     cr.Email,
		Messenger: cr.Messenger,
		VisaType:  cr.VisaType,
		Message:   cr.Message,
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := n.NewContactRequest(ctx, msg); err != nil {
			logrus.WithError(err).WithField("contactRequestId", msg.ID).Warn("contact request notification failed")
		}
	}()

	c.JSON(http.StatusCreated, cr)
}

/* ========== Admin: lead requests ========== */

// statusFilter applies ?status= and answers 400 on an unknown value.
func statusFilter(c *gin.Context, q *gorm.DB) (*gorm.DB, bool) {
	raw := c.Query("status")
	if raw == "" {
		return q, true
	}
	st, err := models.ParseStatus(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid status"})
		return nil, false
	}
	return q.Where("status = ?", st), true
}

func listRequests[T any](c *gin.Context, q *gorm.DB) {
	q, ok := statusFilter(c, q)
	if !ok {
		return
	}
	page, limit, offset := pagination(c, requestsPageSize, requestsMaxPage)

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		respondError(c, err)
		return
	}
	var list []T
	if err := q.Order("created_at DESC, id DESC").Limit(limit).Offset(offset).Find(&list).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": list, "total": total, "page": page, "limit": limit})
}

func preloadRequestApartment(db *gorm.DB) *gorm.DB {
	return db.Preload("Apartment", func(db *gorm.DB) *gorm.DB {
		return db.Select("id", "title_ru", "price_usd", "district_id")
	})
}

func ListViewingRequests(c *gin.Context) {
	db, ok := getDB(c)
	if !ok {
		return
	}
	listRequests[models.ViewingRequest](c, preloadRequestApartment(db.Model(&models.ViewingRequest{})))
}

func GetViewingRequest(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	db, ok := getDB(c)
	if !ok {
		return
	}
	var vr models.ViewingRequest
	if err := preloadRequestApartment(db).First(&vr, id).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, vr)
}

func ListContactRequests(c *gin.Context) {
	db, ok := getDB(c)
	if !ok {
		return
	}
	listRequests[models.ContactRequest](c, db.Model(&models.ContactRequest{}))
}

func GetContactRequest(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	db, ok := getDB(c)
	if !ok {
		return
	}
	var cr models.ContactRequest
	if err := db.First(&cr, id).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cr)
}

type statusReq struct {
	Status string `json:"status" binding:"required"`
}

// updateStatus sets any of the four statuses; transitions are unrestricted.
func updateStatus(c *gin.Context, model interface{}) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req statusReq
	if !bindJSON(c, &req) {
		return
	}
	st, err := models.ParseStatus(req.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid status", "allowed": models.AllStatuses})
		return
	}
	db, ok := getDB(c)
	if !ok {
		return
	}

	res := db.Model(model).Where("id = ?", id).Update("status", st)
	if res.Error != nil {
		respondError(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "Request not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "status": st})
}

func deleteRequest(c *gin.Context, model interface{}) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	db, ok := getDB(c)
	if !ok {
		return
	}
	res := db.Delete(model, id)
	if res.Error != nil {
		respondError(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "Request not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Request deleted"})
}

func UpdateViewingRequestStatus(c *gin.Context) {
	updateStatus(c, &models.ViewingRequest{})
}

func UpdateContactRequestStatus(c *gin.Context) {
	updateStatus(c, &models.ContactRequest{})
}

func DeleteViewingRequest(c *gin.Context) {
	deleteRequest(c, &models.ViewingRequest{})
}

func DeleteContactRequest(c *gin.Context) {
	deleteRequest(c, &models.ContactRequest{})
}
