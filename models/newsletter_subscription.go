package models

import "time"

type NewsletterSubscription struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Email     string    `gorm:"column:email;size:100;uniqueIndex;not null" json:"email"`
	Locale    string    `gorm:"column:locale;size:5;default:'ru'" json:"locale"`
	IsActive  bool      `gorm:"column:is_active;not null" json:"isActive"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (NewsletterSubscription) TableName() string {
	return "newsletter_subscriptions"
}
