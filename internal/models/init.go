package models

import (
	"strings"

	"github.com/palmapernia/tp-django/internal/constants"
	"github.com/palmapernia/tp-django/internal/logger"

	"golang.org/x/crypto/bcrypt"
)

const (
	defaultStaffUsername = "admin"
	defaultStaffPassword = "admin12345"
)

// InitDefaultStaff 初始化默认后台账号
func InitDefaultStaff(username, password string) (*User, error) {
	var count int64
	if err := DB.Model(&User{}).Where("is_staff = ?", true).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, nil
	}

	username = strings.TrimSpace(username)
	if username == "" {
		username = defaultStaffUsername
	}
	if password == "" {
		password = defaultStaffPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := User{
		Username:     username,
		PasswordHash: string(hash),
		Status:       constants.UserStatusActive,
		IsStaff:      true,
		IsSuperuser:  true,
	}
	if err := DB.Create(&user).Error; err != nil {
		return nil, err
	}

	if password == defaultStaffPassword {
		logger.Warnw("default_staff_created_with_default_password", "username", username)
		logger.Warnw("default_staff_password_change_required", "username", username)
	} else {
		logger.Warnw("default_staff_created", "username", username, "password_hidden", true)
	}
	return &user, nil
}
