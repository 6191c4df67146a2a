package models

type Amenity struct {
	ID       uint   `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	NameRu   string `gorm:"column:name_ru;size:100;not null" json:"nameRu"`
	NameEn   string `gorm:"column:name_en;size:100" json:"nameEn"`
	NameVi   string `gorm:"column:name_vi;size:100" json:"nameVi"`
	Icon     string `gorm:"column:icon;size:50" json:"icon"`
	Category string `gorm:"column:category;size:50;index" json:"category"`
}

func (Amenity) TableName() string {
	return "amenities"
}

func (a *Amenity) ApplyDefaults() {
	a.NameEn = Fallback(a.NameEn, a.NameRu)
	a.NameVi = Fallback(a.NameVi, a.NameRu)
	if a.Category == "" {
		a.Category = "general"
	}
}
