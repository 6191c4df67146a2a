package models

import "time"

type ContactRequest struct {
	ID        uint          `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name      string        `gorm:"column:name;size:100;not null" json:"name"`
	Phone     string        `gorm:"column:phone;size:50" json:"phone"`
	Email     string        `gorm:"column:email;size:100" json:"email"`
	Messenger string        `gorm:"column:messenger;size:30" json:"messenger"`
	VisaType  string        `gorm:"column:visa_type;size:150" json:"visaType"`
	Message   string        `gorm:"column:message;type:text" json:"message"`
	Status    RequestStatus `gorm:"column:status;size:20;not null;default:'new';index" json:"status"`
	CreatedAt time.Time     `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time     `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (ContactRequest) TableName() string {
	return "contact_requests"
}
