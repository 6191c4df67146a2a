package models

import "time"

// ApartmentSubscription is a saved search; nil bounds do not constrain.
type ApartmentSubscription struct {
	ID         uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Email      string    `gorm:"column:email;size:100;not null;index" json:"email"`
	MinPrice   *int      `gorm:"column:min_price" json:"minPrice"`
	MaxPrice   *int      `gorm:"column:max_price" json:"maxPrice"`
	MinRooms   *int      `gorm:"column:min_rooms" json:"minRooms"`
	MaxRooms   *int      `gorm:"column:max_rooms" json:"maxRooms"`
	DistrictID *uint     `gorm:"column:district_id;index" json:"districtId"`
	IsActive   bool      `gorm:"column:is_active;not null" json:"isActive"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

func (ApartmentSubscription) TableName() string {
	return "apartment_subscriptions"
}

// Matches reports whether s admits the apartment on every dimension.
func (s *ApartmentSubscription) Matches(a *Apartment) bool {
	if s.MinPrice != nil && a.PriceUsd < *s.MinPrice {
		return false
	}
	if s.MaxPrice != nil && a.PriceUsd > *s.MaxPrice {
		return false
	}
	if s.MinRooms != nil && a.Rooms < *s.MinRooms {
		return false
	}
	if s.MaxRooms != nil && a.Rooms > *s.MaxRooms {
		return false
	}
	if s.DistrictID != nil && a.DistrictID != *s.DistrictID {
		return false
	}
	return true
}
