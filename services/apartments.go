// Package services holds the persistence logic shared by the HTTP handlers.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/vnkhanh/visa-rent-server/geo"
	"github.com/vnkhanh/visa-rent-server/models"
	"github.com/vnkhanh/visa-rent-server/notify"
	"github.com/vnkhanh/visa-rent-server/utils"
)

var (
	ErrInvalidImageOrder = errors.New("order must list every image of this apartment once")
	ErrDistrictNotFound  = errors.New("district not found")
	ErrAmenityNotFound   = errors.New("amenity not found")
)

// PreloadApartment eager-loads district, ordered images and amenities.
func PreloadApartment(db *gorm.DB) *gorm.DB {
	return db.
		Preload("District").
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC, id ASC") }).
		Preload("Amenities")
}

func GetApartment(db *gorm.DB, id uint) (*models.Apartment, error) {
	var a models.Apartment
	if err := PreloadApartment(db).First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// PrepareApartment applies defaults and derived fields before a save.
func PrepareApartment(a *models.Apartment) {
	a.ApplyDefaults()
	if a.Latitude != nil && a.Longitude != nil {
		a.Geohash = geo.Geohash(geo.Point{Lat: *a.Latitude, Lng: *a.Longitude})
	} else {
		a.Geohash = ""
	}
}

func loadAmenities(db *gorm.DB, ids []uint) ([]models.Amenity, error) {
	if len(ids) == 0 {
		return []models.Amenity{}, nil
	}
	var list []models.Amenity
	if err := db.Where("id IN ?", ids).Find(&list).Error; err != nil {
		return nil, err
	}
	if len(list) != len(uniqueIDs(ids)) {
		return nil, ErrAmenityNotFound
	}
	return list, nil
}

func uniqueIDs(ids []uint) map[uint]struct{} {
	m := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		m[id] = struct{}{}
	}
	return m
}

func checkDistrict(db *gorm.DB, id uint) error {
	var n int64
	if err := db.Model(&models.District{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return ErrDistrictNotFound
	}
	return nil
}

// CreateApartment persists a, links amenityIDs, then notifies the team and
// matching subscribers. Notification failures are logged, never returned.
func CreateApartment(ctx context.Context, db *gorm.DB, n notify.Notifier, a *models.Apartment, amenityIDs []uint) error {
	if err := checkDistrict(db, a.DistrictID); err != nil {
		return err
	}
	amenities, err := loadAmenities(db, amenityIDs)
	if err != nil {
		return err
	}

	PrepareApartment(a)
	a.Amenities = amenities
	if err := db.Create(a).Error; err != nil {
		return fmt.Errorf("create apartment: %w", err)
	}

	NotifyNewApartment(ctx, db, n, a)
	return nil
}

// MatchingSubscriptions returns active subscriptions whose bounds admit a.
// A NULL bound never excludes.
func MatchingSubscriptions(db *gorm.DB, a *models.Apartment) ([]models.ApartmentSubscription, error) {
	var subs []models.ApartmentSubscription
	err := db.
		Where("is_active = ?", true).
		Where("min_price IS NULL OR min_price <= ?", a.PriceUsd).
		Where("max_price IS NULL OR max_price >= ?", a.PriceUsd).
		Where("min_rooms IS NULL OR min_rooms <= ?", a.Rooms).
		Where("max_rooms IS NULL OR max_rooms >= ?", a.Rooms).
		Where("district_id IS NULL OR district_id = ?", a.DistrictID).
		Order("id ASC").
		Find(&subs).Error
	return subs, err
}

// NotifyNewApartment sends the admin summary and, when anyone matched, one
// batch alert with the subscriber emails.
func NotifyNewApartment(ctx context.Context, db *gorm.DB, n notify.Notifier, a *models.Apartment) {
	log := logrus.WithField("apartmentId", a.ID)

	subs, err := MatchingSubscriptions(db, a)
	if err != nil {
		log.WithError(err).Warn("failed to match apartment subscriptions")
		subs = nil
	}

	districtName := ""
	if a.District != nil {
		districtName = a.District.NameRu
	} else {
		var d models.District
		if db.Select("name_ru").First(&d, a.DistrictID).Error == nil {
			districtName = d.NameRu
		}
	}

	if err := n.NewApartment(ctx, notify.ApartmentMessage{
		ID:           a.ID,
		Title:        a.TitleRu,
		PriceUsd:     a.PriceUsd,
		Rooms:        a.Rooms,
		District:     districtName,
		MatchedCount: len(subs),
	}); err != nil {
		log.WithError(err).Warn("admin notification failed")
	}

	if len(subs) == 0 {
		return
	}

	emails := make([]string, 0, len(subs))
	seen := make(map[string]struct{}, len(subs))
	for _, s := range subs {
		if _, ok := seen[s.Email]; ok {
			continue
		}
		seen[s.Email] = struct{}{}
		emails = append(emails, s.Email)
	}
	if err := n.SubscriberAlert(ctx, notify.SubscriberAlertMessage{
		ApartmentID: a.ID,
		Title:       a.TitleRu,
		PriceUsd:    a.PriceUsd,
		Rooms:       a.Rooms,
		Emails:      emails,
	}); err != nil {
		log.WithError(err).Warn("subscriber alert failed")
	}
}

// UpdateApartment saves every column of a. amenityIDs replaces the links when non-nil.
func UpdateApartment(db *gorm.DB, a *models.Apartment, amenityIDs []uint) error {
	if err := checkDistrict(db, a.DistrictID); err != nil {
		return err
	}
	PrepareApartment(a)

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("District", "Images", "Amenities", "CreatedAt", "ViewCount").Save(a).Error; err != nil {
			return err
		}
		if amenityIDs == nil {
			return nil
		}
		amenities, err := loadAmenities(tx, amenityIDs)
		if err != nil {
			return err
		}
		a.Amenities = amenities
		return tx.Model(a).Association("Amenities").Replace(amenities)
	})
}

// IncrementViews bumps the counter without touching updated_at.
func IncrementViews(db *gorm.DB, id uint) error {
	res := db.Model(&models.Apartment{}).
		Where("id = ? AND can_be_shown = ?", id, true).
		UpdateColumn("view_count", gorm.Expr("view_count + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteApartment removes the apartment with its images and amenity links.
// Viewing requests stay and lose their apartment reference. Blob removal is
// best effort and happens after the rows are gone.
func DeleteApartment(ctx context.Context, db *gorm.DB, blobs utils.BlobStore, id uint) error {
	var a models.Apartment
	if err := db.Preload("Images").First(&a, id).Error; err != nil {
		return err
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		return removeApartment(tx, &a)
	})
	if err != nil {
		return err
	}

	for _, img := range a.Images {
		deleteBlob(ctx, blobs, img)
	}
	return nil
}

func removeApartment(tx *gorm.DB, a *models.Apartment) error {
	if err := tx.Model(a).Association("Amenities").Clear(); err != nil {
		return err
	}
	if err := tx.Where("apartment_id = ?", a.ID).Delete(&models.ApartmentImage{}).Error; err != nil {
		return err
	}
	if err := tx.Model(&models.ViewingRequest{}).
		Where("apartment_id = ?", a.ID).
		Update("apartment_id", nil).Error; err != nil {
		return err
	}
	return tx.Delete(a).Error
}

func deleteBlob(ctx context.Context, blobs utils.BlobStore, img models.ApartmentImage) {
	if err := blobs.DeleteByURL(ctx, img.URL); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"imageId": img.ID,
			"url":     img.URL,
		}).Warn("failed to delete image blob")
	}
}
