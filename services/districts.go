package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/vnkhanh/visa-rent-server/models"
	"github.com/vnkhanh/visa-rent-server/utils"
)

var ErrDistrictInUse = errors.New("district has apartments")

// DeleteDistrict removes a district and detaches subscriptions filtered by it.
// Without cascade a district that still has apartments is left alone and
// ErrDistrictInUse is returned; with cascade its apartments go in the same
// transaction. The count of apartments found in the district is returned
// either way.
func DeleteDistrict(ctx context.Context, db *gorm.DB, blobs utils.BlobStore, id uint, cascade bool) (int, error) {
	var apts []models.Apartment
	err := db.Transaction(func(tx *gorm.DB) error {
		var d models.District
		if err := tx.First(&d, id).Error; err != nil {
			return err
		}
		if err := tx.Preload("Images").Where("district_id = ?", id).Find(&apts).Error; err != nil {
			return err
		}
		if len(apts) > 0 && !cascade {
			return ErrDistrictInUse
		}
		for i := range apts {
			if err := removeApartment(tx, &apts[i]); err != nil {
				return err
			}
		}
		if err := tx.Model(&models.ApartmentSubscription{}).
			Where("district_id = ?", id).
			Update("district_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&d).Error
	})
	if err != nil {
		return len(apts), err
	}

	for _, a := range apts {
		for _, img := range a.Images {
			deleteBlob(ctx, blobs, img)
		}
	}
	return len(apts), nil
}
