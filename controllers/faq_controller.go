package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/visa-rent-server/models"
)

/* ========== Public: FAQ ========== */

func ListFAQ(c *gin.Context) {
	db, ok := getDB(c)
	if !ok {
		return
	}
	q := db.Where("is_active = ?", true)
	if cat := c.Query("category"); cat != "" {
		if !models.ValidFAQCategory(cat) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid category"})
			return
		}
		q = q.Where("category = ?", cat)
	}
	var list []models.FAQ
	if err := q.Order("sort_order ASC, id ASC").Find(&list).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func GetFAQ(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	db, ok := getDB(c)
	if !ok {
		return
	}
	var f models.FAQ
	if err := db.Where("is_active = ?", true).First(&f, id).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

/* ========== Admin: FAQ ========== */

type faqReq struct {
	QuestionRu string `json:"questionRu" binding:"required"`
	QuestionEn string `json:"questionEn"`
	QuestionVi string `json:"questionVi"`
	AnswerRu   string `json:"answerRu" binding:"required"`
	AnswerEn   string `json:"answerEn"`
	AnswerVi   string `json:"answerVi"`
	Category   string `json:"category" binding:"omitempty,oneof=general visa rent"`
	SortOrder  int    `json:"sortOrder"`
	IsActive   *bool  `json:"isActive"`
}

func (r faqReq) fill(f *models.FAQ) {
	f.QuestionRu, f.QuestionEn, f.QuestionVi = r.QuestionRu, r.QuestionEn, r.QuestionVi
	f.AnswerRu, f.AnswerEn, f.AnswerVi = r.AnswerRu, r.AnswerEn, r.AnswerVi
	f.Category = r.Category
	f.SortOrder = r.SortOrder
	f.IsActive = boolOr(r.IsActive, true)
	f.ApplyDefaults()
}

func AdminListFAQ(c *gin.Context) {
	db, ok := getDB(c)
	if !ok {
		return
	}
	q := db.Order("category ASC, sort_order ASC, id ASC")
	if cat := c.Query("category"); cat != "" {
		q = q.Where("category = ?", cat)
	}
	var list []models.FAQ
	if err := q.Find(&list).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func AdminGetFAQ(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	db, ok := getDB(c)
	if !ok {
		return
	}
	var f models.FAQ
	if err := db.First(&f, id).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

func CreateFAQ(c *gin.Context) {
	var req faqReq
	if !bindJSON(c, &req) {
		return
	}
	db, ok := getDB(c)
	if !ok {
		return
	}
	var f models.FAQ
	req.fill(&f)
	if err := db.Create(&f).Error; err != nil {
		respondError(c, err)
		return
	}
	purge("/api/faq")
	c.JSON(http.StatusCreated, f)
}

func UpdateFAQ(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req faqReq
	if !bindJSON(c, &req) {
		return
	}
	db, ok := getDB(c)
	if !ok {
		return
	}
	var f models.FAQ
	if err := db.First(&f, id).Error; err != nil {
		respondError(c, err)
		return
	}
	req.fill(&f)
	if err := db.Omit("CreatedAt").Save(&f).Error; err != nil {
		respondError(c, err)
		return
	}
	purge("/api/faq")
	c.JSON(http.StatusOK, f)
}

func DeleteFAQ(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	db, ok := getDB(c)
	if !ok {
		return
	}
	res := db.Delete(&models.FAQ{}, id)
	if res.Error != nil {
		respondError(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "FAQ not found"})
		return
	}
	purge("/api/faq")
	c.JSON(http.StatusOK, gin.H{"message": "FAQ deleted"})
}
