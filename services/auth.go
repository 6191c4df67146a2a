package services

import (
	"errors"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/vnkhanh/visa-rent-server/models"
	"github.com/vnkhanh/visa-rent-server/utils"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

// FallbackAdmin is the built-in account used when the users table cannot answer.
type FallbackAdmin struct {
	Email        string
	PasswordHash string
}

// Authenticate checks email/password against the users table. When db is nil,
// the query fails, or no such user exists, the fallback admin is tried.
func Authenticate(db *gorm.DB, fallback FallbackAdmin, email, password string) (*models.User, error) {
	email = NormalizeEmail(email)

	if db != nil {
		var u models.User
		err := db.Where("email = ?", email).First(&u).Error
		switch {
		case err == nil:
			if !utils.CheckPassword(u.PasswordHash, password) {
				return nil, ErrInvalidCredentials
			}
			return &u, nil
		case errors.Is(err, gorm.ErrRecordNotFound):
		default:
			logrus.WithError(err).Warn("user lookup failed, trying fallback admin")
		}
	}

	if fallback.Email == "" || fallback.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if email != strings.ToLower(fallback.Email) || !utils.CheckPassword(fallback.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return &models.User{Email: fallback.Email, Name: "Administrator", Role: models.RoleAdmin}, nil
}

// CreateUser stores a new admin with a bcrypt hash of password.
func CreateUser(db *gorm.DB, email, password, name string) (*models.User, error) {
	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}
	u := models.User{Email: NormalizeEmail(email), PasswordHash: hash, Name: name, Role: models.RoleAdmin}
	if err := db.Create(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}
