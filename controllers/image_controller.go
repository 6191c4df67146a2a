package controllers

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/vnkhanh/visa-rent-server/models"
	"github.com/vnkhanh/visa-rent-server/services"
	"github.com/vnkhanh/visa-rent-server/utils"
)

// maxUploadBytes caps one uploaded image before conversion.
const maxUploadBytes = 15 << 20

// uploadImage converts the "file" form field to WebP and stores it under folder.
// It answers the request itself when it fails.
func uploadImage(c *gin.Context, folder string) (string, bool) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "file is required"})
		return "", false
	}
	if fh.Size > maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"message": "File is too large"})
		return "", false
	}
	if ct := fh.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "image/") {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Only images are accepted"})
		return "", false
	}

	f, err := fh.Open()
	if err != nil {
		respondError(c, err)
		return "", false
	}
	defer f.Close()

	data, err := utils.ToWebP(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Cannot read image", "error": err.Error()})
		return "", false
	}

	objectPath := utils.NewObjectPath(folder, ".webp")
	url, err := current().Blobs.Upload(c.Request.Context(), objectPath, bytes.NewReader(data), "image/webp")
	if err != nil {
		respondError(c, err)
		return "", false
	}
	logrus.WithFields(logrus.Fields{"path": objectPath, "bytes": len(data)}).Info("image uploaded")
	return url, true
}

/* ========== Admin: apartment images ========== */

func ListApartmentImages(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	db, ok := getDB(c)
	if !ok {
		return
	}
	imgs, err := services.ListImages(db, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, imgs)
}

type imageURLReq struct {
	URL string `json:"url" binding:"required,url"`
}

// AddApartmentImage accepts either a multipart "file" (resized, converted to
// WebP and uploaded) or a JSON {"url": ...} of an already hosted image.
func AddApartmentImage(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	db, ok := getDB(c)
	if !ok {
		return
	}

	var apt models.Apartment
	if err := db.Select("id").First(&apt, id).Error; err != nil {
		respondError(c, err)
		return
	}

	var url string
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		if url, ok = uploadImage(c, "apartments"); !ok {
			return
		}
	} else {
		var req imageURLReq
		if !bindJSON(c, &req) {
			return
		}
		url = req.URL
	}

	img, err := services.AddImage(db, id, url)
	if err != nil {
		respondError(c, err)
		return
	}
	purgeApartments()
	c.JSON(http.StatusCreated, img)
}

type reorderReq struct {
	Order []uint `json:"order" binding:"required,min=1"`
}

func ReorderApartmentImages(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req reorderReq
	if !bindJSON(c, &req) {
		return
	}
	db, ok := getDB(c)
	if !ok {
		return
	}
	if err := services.ReorderImages(db, id, req.Order); err != nil {
		respondError(c, err)
		return
	}
	purgeApartments()

	imgs, err := services.ListImages(db, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, imgs)
}

func SetApartmentCover(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	imageID, ok := parseID(c, "imageId")
	if !ok {
		return
	}
	db, ok := getDB(c)
	if !ok {
		return
	}
	if err := services.SetCover(db, id, imageID); err != nil {
		respondError(c, err)
		return
	}
	purgeApartments()
	c.JSON(http.StatusOK, gin.H{"message": "Cover updated"})
}

func DeleteApartmentImage(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	imageID, ok := parseID(c, "imageId")
	if !ok {
		return
	}
	db, ok := getDB(c)
	if !ok {
		return
	}
	if err := services.DeleteImage(c.Request.Context(), db, current().Blobs, id, imageID); err != nil {
		respondError(c, err)
		return
	}
	purgeApartments()
	c.JSON(http.StatusOK, gin.H{"message": "Image deleted"})
}

// UploadFile stores a standalone image (blog covers) and returns its URL.
func UploadFile(c *gin.Context) {
	folder := "uploads"
	if f := c.Query("folder"); f == "blog" {
		folder = "blog"
	}
	url, ok := uploadImage(c, folder)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Uploaded", "url": url})
}
