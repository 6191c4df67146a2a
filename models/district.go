package models

import "time"

type District struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	NameRu    string    `gorm:"column:name_ru;size:100;not null" json:"nameRu"`
	NameEn    string    `gorm:"column:name_en;size:100" json:"nameEn"`
	NameVi    string    `gorm:"column:name_vi;size:100" json:"nameVi"`
	SortOrder int       `gorm:"column:sort_order;not null;default:0" json:"sortOrder"`
	IsActive  bool      `gorm:"column:is_active;not null" json:"isActive"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`

	Apartments []Apartment `gorm:"foreignKey:DistrictID" json:"-"`
}

func (District) TableName() string {
	return "districts"
}

func (d *District) ApplyDefaults() {
	d.NameEn = Fallback(d.NameEn, d.NameRu)
	d.NameVi = Fallback(d.NameVi, d.NameRu)
}
