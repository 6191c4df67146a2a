package models

import "time"

const (
	ViewingTypeViewing   = "viewing"
	ViewingTypeVideoCall = "video_call"
)

type ViewingRequest struct {
	ID          uint          `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name        string        `gorm:"column:name;size:100;not null" json:"name"`
	Phone       string        `gorm:"column:phone;size:50;not null" json:"phone"`
	Messenger   string        `gorm:"column:messenger;size:30" json:"messenger"`
	Type        string        `gorm:"column:type;size:20;not null;default:'viewing'" json:"type"`
	DesiredDate *time.Time    `gorm:"column:desired_date" json:"desiredDate"`
	Comment     string        `gorm:"column:comment;type:text" json:"comment"`
	Status      RequestStatus `gorm:"column:status;size:20;not null;default:'new';index" json:"status"`
	ApartmentID *uint         `gorm:"column:apartment_id;index" json:"apartmentId"`
	CreatedAt   time.Time     `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time     `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`

	Apartment *Apartment `gorm:"foreignKey:ApartmentID;constraint:OnDelete:SET NULL" json:"apartment,omitempty"`
}

func (ViewingRequest) TableName() string {
	return "viewing_requests"
}

func ValidViewingType(t string) bool {
	return t == ViewingTypeViewing || t == ViewingTypeVideoCall
}
