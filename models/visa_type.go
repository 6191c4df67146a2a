package models

import "time"

type VisaType struct {
	ID            uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	NameRu        string    `gorm:"column:name_ru;size:150;not null" json:"nameRu"`
	NameEn        string    `gorm:"column:name_en;size:150" json:"nameEn"`
	NameVi        string    `gorm:"column:name_vi;size:150" json:"nameVi"`
	DescriptionRu string    `gorm:"column:description_ru;type:text" json:"descriptionRu"`
	DescriptionEn string    `gorm:"column:description_en;type:text" json:"descriptionEn"`
	DescriptionVi string    `gorm:"column:description_vi;type:text" json:"descriptionVi"`
	Icon          string    `gorm:"column:icon;size:50" json:"icon"`
	Duration      string    `gorm:"column:duration;size:100" json:"duration"`
	Price         int       `gorm:"column:price" json:"price"`
	IsPopular     bool      `gorm:"column:is_popular;not null;default:false" json:"isPopular"`
	IsActive      bool      `gorm:"column:is_active;not null" json:"isActive"`
	SortOrder     int       `gorm:"column:sort_order;not null;default:0" json:"sortOrder"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (VisaType) TableName() string {
	return "visa_types"
}

func (v *VisaType) ApplyDefaults() {
	v.NameEn = Fallback(v.NameEn, v.NameRu)
	v.NameVi = Fallback(v.NameVi, v.NameRu)
	v.DescriptionEn = Fallback(v.DescriptionEn, v.DescriptionRu)
	v.DescriptionVi = Fallback(v.DescriptionVi, v.DescriptionRu)
}
