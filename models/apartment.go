package models

import (
	"time"

	"gorm.io/datatypes"
)

// UsdToVndRate is the fixed rate used when priceVnd is not supplied.
const UsdToVndRate = 25000

type Apartment struct {
	ID            uint                       `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	TitleRu       string                     `gorm:"column:title_ru;size:255;not null" json:"titleRu"`
	TitleEn       string                     `gorm:"column:title_en;size:255" json:"titleEn"`
	TitleVi       string                     `gorm:"column:title_vi;size:255" json:"titleVi"`
	DescriptionRu string                     `gorm:"column:description_ru;type:text" json:"descriptionRu"`
	DescriptionEn string                     `gorm:"column:description_en;type:text" json:"descriptionEn"`
	DescriptionVi string                     `gorm:"column:description_vi;type:text" json:"descriptionVi"`
	PriceUsd      int                        `gorm:"column:price_usd;not null;index" json:"priceUsd"`
	PriceVnd      int64                      `gorm:"column:price_vnd" json:"priceVnd"`
	Rooms         int                        `gorm:"column:rooms;not null;index" json:"rooms"`
	Area          float64                    `gorm:"column:area" json:"area"`
	Floor         *int                       `gorm:"column:floor" json:"floor"`
	TotalFloors   *int                       `gorm:"column:total_floors" json:"totalFloors"`
	AddressRu     string                     `gorm:"column:address_ru;size:255" json:"addressRu"`
	AddressEn     string                     `gorm:"column:address_en;size:255" json:"addressEn"`
	AddressVi     string                     `gorm:"column:address_vi;size:255" json:"addressVi"`
	Latitude      *float64                   `gorm:"column:latitude" json:"latitude"`
	Longitude     *float64                   `gorm:"column:longitude" json:"longitude"`
	Geohash       string                     `gorm:"column:geohash;size:12;index" json:"geohash,omitempty"`
	Features      datatypes.JSONSlice[string] `gorm:"column:features" json:"features"`
	IsAvailable   bool                       `gorm:"column:is_available;not null" json:"isAvailable"`
	CanBeShown    bool                       `gorm:"column:can_be_shown;not null" json:"canBeShown"`
	ViewCount     int                        `gorm:"column:view_count;not null;default:0" json:"viewCount"`
	DistrictID    uint                       `gorm:"column:district_id;not null;index" json:"districtId"`
	CreatedAt     time.Time                  `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time                  `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`

	District  *District        `gorm:"foreignKey:DistrictID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"district,omitempty"`
	Images    []ApartmentImage `gorm:"foreignKey:ApartmentID;constraint:OnDelete:CASCADE" json:"images"`
	Amenities []Amenity        `gorm:"many2many:apartment_amenities;constraint:OnDelete:CASCADE" json:"amenities"`
}

func (Apartment) TableName() string {
	return "apartments"
}

// ApplyDefaults fills translations from the Russian fields and derives priceVnd.
func (a *Apartment) ApplyDefaults() {
	a.TitleEn = Fallback(a.TitleEn, a.TitleRu)
	a.TitleVi = Fallback(a.TitleVi, a.TitleRu)
	a.DescriptionEn = Fallback(a.DescriptionEn, a.DescriptionRu)
	a.DescriptionVi = Fallback(a.DescriptionVi, a.DescriptionRu)
	a.AddressEn = Fallback(a.AddressEn, a.AddressRu)
	a.AddressVi = Fallback(a.AddressVi, a.AddressRu)
	if a.PriceVnd == 0 {
		a.PriceVnd = VndFromUsd(a.PriceUsd)
	}
}

// Cover returns the cover image, or the first image when none is flagged.
func (a *Apartment) Cover() *ApartmentImage {
	for i := range a.Images {
		if a.Images[i].IsCover {
			return &a.Images[i]
		}
	}
	if len(a.Images) > 0 {
		return &a.Images[0]
	}
	return nil
}

// Title picks the title for locale, falling back to Russian.
func (a *Apartment) Title(locale string) string {
	switch locale {
	case "en":
		return Fallback(a.TitleEn, a.TitleRu)
	case "vi":
		return Fallback(a.TitleVi, a.TitleRu)
	}
	return a.TitleRu
}

func VndFromUsd(usd int) int64 {
	return int64(usd) * UsdToVndRate
}

// Fallback returns v unless it is blank.
func Fallback(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
