package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/vnkhanh/visa-rent-server/models"
	"github.com/vnkhanh/visa-rent-server/services"
)

const (
	blogPageSize = 9
	blogMaxPage  = 50
)

/* ========== Public: blog ========== */

// ListBlogPosts returns published posts, newest first, filtered by category or tag.
func ListBlogPosts(c *gin.Context) {
	db, ok := getDB(c)
	if !ok {
		return
	}
	page, limit, offset := pagination(c, blogPageSize, blogMaxPage)

	q := db.Model(&models.BlogPost{}).Where("published = ?", true)
	if cat := c.Query("category"); cat != "" {
		q = q.Where("category = ?", cat)
	}
	if tag := c.Query("tag"); tag != "" {
		q = q.Where("CAST(tags AS TEXT) LIKE ?", tagPattern(tag))
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		respondError(c, err)
		return
	}
	var list []models.BlogPost
	if err := q.Order("published_at DESC, id DESC").Limit(limit).Offset(offset).Find(&list).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": list, "total": total, "page": page, "limit": limit})
}

func GetBlogPost(c *gin.Context) {
	db, ok := getDB(c)
	if !ok {
		return
	}
	var p models.BlogPost
	if err := db.Where("slug = ? AND published = ?", c.Param("slug"), true).First(&p).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// tagPattern matches the JSON-encoded tag inside the stored array text.
func tagPattern(tag string) string {
	b, _ := json.Marshal(tag)
	return "%" + string(b) + "%"
}

/* ========== Admin: blog ========== */

type blogReq struct {
	Slug       string   `json:"slug" binding:"max=200"`
	TitleRu    string   `json:"titleRu" binding:"required,max=255"`
	TitleEn    string   `json:"titleEn" binding:"max=255"`
	TitleVi    string   `json:"titleVi" binding:"max=255"`
	ExcerptRu  string   `json:"excerptRu"`
	ExcerptEn  string   `json:"excerptEn"`
	ExcerptVi  string   `json:"excerptVi"`
	ContentRu  string   `json:"contentRu"`
	ContentEn  string   `json:"contentEn"`
	ContentVi  string   `json:"contentVi"`
	CoverImage string   `json:"coverImage"`
	Category   string   `json:"category" binding:"max=50"`
	Tags       []string `json:"tags"`
	ReadTime   int      `json:"readTime" binding:"gte=0"`
	Published  bool     `json:"published"`
}

// fill copies the payload; publishedAt is left to SaveBlogPost.
func (r blogReq) fill(p *models.BlogPost) {
	p.Slug = r.Slug
	p.TitleRu, p.TitleEn, p.TitleVi = r.TitleRu, r.TitleEn, r.TitleVi
	p.ExcerptRu, p.ExcerptEn, p.ExcerptVi = r.ExcerptRu, r.ExcerptEn, r.ExcerptVi
	p.ContentRu, p.ContentEn, p.ContentVi = r.ContentRu, r.ContentEn, r.ContentVi
	p.CoverImage = r.CoverImage
	p.Category = r.Category
	p.Tags = datatypes.JSONSlice[string](r.Tags)
	p.ReadTime = r.ReadTime
	p.Published = r.Published
}

func purgeBlog() {
	purge("/api/blog", "/sitemap.xml")
}

func AdminListBlogPosts(c *gin.Context) {
	db, ok := getDB(c)
	if !ok {
		return
	}
	page, limit, offset := pagination(c, 20, 100)
	q := db.Model(&models.BlogPost{})
	switch c.Query("published") {
	case "true":
		q = q.Where("published = ?", true)
	case "false":
		q = q.Where("published = ?", false)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		respondError(c, err)
		return
	}
	var list []models.BlogPost
	if err := q.Order("created_at DESC, id DESC").Limit(limit).Offset(offset).Find(&list).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": list, "total": total, "page": page, "limit": limit})
}

func AdminGetBlogPost(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	db, ok := getDB(c)
	if !ok {
		return
	}
	var p models.BlogPost
	if err := db.First(&p, id).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func CreateBlogPost(c *gin.Context) {
	var req blogReq
	if !bindJSON(c, &req) {
		return
	}
	db, ok := getDB(c)
	if !ok {
		return
	}
	var p models.BlogPost
	req.fill(&p)
	if err := services.SaveBlogPost(db, &p, current().Now()); err != nil {
		respondError(c, err)
		return
	}
	purgeBlog()
	c.JSON(http.StatusCreated, p)
}

func UpdateBlogPost(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req blogReq
	if !bindJSON(c, &req) {
		return
	}
	db, ok := getDB(c)
	if !ok {
		return
	}
	var p models.BlogPost
	if err := db.First(&p, id).Error; err != nil {
		respondError(c, err)
		return
	}
	if req.Slug == "" {
		req.Slug = p.Slug
	}
	req.fill(&p)
	if err := services.SaveBlogPost(db, &p, current().Now()); err != nil {
		respondError(c, err)
		return
	}
	purgeBlog()
	c.JSON(http.StatusOK, p)
}

func DeleteBlogPost(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	db, ok := getDB(c)
	if !ok {
		return
	}
	res := db.Delete(&models.BlogPost{}, id)
	if res.Error != nil {
		respondError(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "Post not found"})
		return
	}
	purgeBlog()
	c.JSON(http.StatusOK, gin.H{"message": "Post deleted"})
}
