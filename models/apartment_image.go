package models

import "time"

type ApartmentImage struct {
	ID          uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ApartmentID uint      `gorm:"column:apartment_id;not null;index" json:"apartmentId"`
	URL         string    `gorm:"column:url;type:text;not null" json:"url"`
	SortOrder   int       `gorm:"column:sort_order;not null;default:0;index" json:"sortOrder"`
	IsCover     bool      `gorm:"column:is_cover;not null;default:false" json:"isCover"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

func (ApartmentImage) TableName() string {
	return "apartment_images"
}
