package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/vnkhanh/visa-rent-server/models"
)

var ErrAlreadySubscribed = errors.New("email is already subscribed")

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Subscribe creates a subscription, or reactivates a deactivated one.
// An email that is already active yields ErrAlreadySubscribed.
func Subscribe(db *gorm.DB, email, locale string) (*models.NewsletterSubscription, bool, error) {
	email = NormalizeEmail(email)
	if locale == "" {
		locale = "ru"
	}

	var sub models.NewsletterSubscription
	err := db.Where("email = ?", email).First(&sub).Error
	switch {
	case err == nil:
		if sub.IsActive {
			return &sub, false, ErrAlreadySubscribed
		}
		if err := db.Model(&sub).Updates(map[string]interface{}{"is_active": true, "locale": locale}).Error; err != nil {
			return nil, false, err
		}
		sub.IsActive = true
		sub.Locale = locale
		return &sub, false, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		sub = models.NewsletterSubscription{Email: email, Locale: locale, IsActive: true}
		if err := db.Create(&sub).Error; err != nil {
			return nil, false, err
		}
		return &sub, true, nil
	default:
		return nil, false, err
	}
}

// Unsubscribe deactivates the email; the row stays for later reactivation.
func Unsubscribe(db *gorm.DB, email string) error {
	res := db.Model(&models.NewsletterSubscription{}).
		Where("email = ? AND is_active = ?", NormalizeEmail(email), true).
		Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
