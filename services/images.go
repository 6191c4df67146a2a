package services

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vnkhanh/visa-rent-server/models"
	"github.com/vnkhanh/visa-rent-server/utils"
)

func ListImages(db *gorm.DB, apartmentID uint) ([]models.ApartmentImage, error) {
	var imgs []models.ApartmentImage
	err := db.Where("apartment_id = ?", apartmentID).Order("sort_order ASC, id ASC").Find(&imgs).Error
	return imgs, err
}

// AddImage appends an image at the end of the gallery. The first image of an
// apartment becomes its cover.
func AddImage(db *gorm.DB, apartmentID uint, url string) (*models.ApartmentImage, error) {
	var img models.ApartmentImage
	err := db.Transaction(func(tx *gorm.DB) error {
		// concurrent uploads to one apartment queue on this row lock
		var a models.Apartment
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Select("id").First(&a, apartmentID).Error; err != nil {
			return err
		}

		var stats struct {
			Next  int
			Count int64
		}
		if err := tx.Model(&models.ApartmentImage{}).
			Where("apartment_id = ?", apartmentID).
			Select("COALESCE(MAX(sort_order), -1) + 1 AS next, COUNT(*) AS count").
			Scan(&stats).Error; err != nil {
			return err
		}

		img = models.ApartmentImage{
			ApartmentID: apartmentID,
			URL:         url,
			SortOrder:   stats.Next,
			IsCover:     stats.Count == 0,
		}
		return tx.Create(&img).Error
	})
	if err != nil {
		return nil, err
	}
	return &img, nil
}

// ReorderImages sets sort_order to the position of each id in order. The
// order must list every image of the apartment exactly once.
// All updates run in one transaction so a failure leaves the old order intact.
func ReorderImages(db *gorm.DB, apartmentID uint, order []uint) error {
	if len(order) == 0 {
		return ErrInvalidImageOrder
	}
	if len(uniqueIDs(order)) != len(order) {
		return ErrInvalidImageOrder
	}

	var listed, total int64
	if err := db.Model(&models.ApartmentImage{}).
		Where("apartment_id = ? AND id IN ?", apartmentID, order).
		Count(&listed).Error; err != nil {
		return err
	}
	if err := db.Model(&models.ApartmentImage{}).
		Where("apartment_id = ?", apartmentID).
		Count(&total).Error; err != nil {
		return err
	}
	if listed != int64(len(order)) || total != listed {
		return ErrInvalidImageOrder
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for idx, id := range order {
			if err := tx.Model(&models.ApartmentImage{}).
				Where("id = ? AND apartment_id = ?", id, apartmentID).
				Update("sort_order", idx).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// SetCover flags imageID as the only cover of its apartment.
func SetCover(db *gorm.DB, apartmentID, imageID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var img models.ApartmentImage
		if err := tx.Where("id = ? AND apartment_id = ?", imageID, apartmentID).First(&img).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.ApartmentImage{}).
			Where("apartment_id = ? AND id <> ?", apartmentID, imageID).
			Update("is_cover", false).Error; err != nil {
			return err
		}
		return tx.Model(&img).Update("is_cover", true).Error
	})
}

// DeleteImage removes the blob and the row. A failed blob delete is logged
// and the row is deleted anyway. When the cover goes, the next image takes over.
func DeleteImage(ctx context.Context, db *gorm.DB, blobs utils.BlobStore, apartmentID, imageID uint) error {
	var img models.ApartmentImage
	if err := db.Where("id = ? AND apartment_id = ?", imageID, apartmentID).First(&img).Error; err != nil {
		return err
	}

	deleteBlob(ctx, blobs, img)

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&img).Error; err != nil {
			return err
		}
		if !img.IsCover {
			return nil
		}
		var next models.ApartmentImage
		err := tx.Where("apartment_id = ?", apartmentID).Order("sort_order ASC, id ASC").First(&next).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return tx.Model(&next).Update("is_cover", true).Error
	})
}
