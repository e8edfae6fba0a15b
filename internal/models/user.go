package models

import (
	"strings"
	"time"
)

// User 用户表
type User struct {
	ID           uint       `gorm:"primarykey" json:"id"`                                 // 主键
	Username     string     `gorm:"type:varchar(150);uniqueIndex;not null" json:"username"` // 用户名
	Email        string     `gorm:"type:varchar(254);index;not null;default:''" json:"email"`
	FirstName    string     `gorm:"type:varchar(150);not null;default:''" json:"first_name"`
	LastName     string     `gorm:"type:varchar(150);not null;default:''" json:"last_name"`
	PasswordHash string     `gorm:"not null" json:"-"`                    // 密码哈希（不返回给前端）
	Status       string     `gorm:"default:'active'" json:"status"`       // 账号状态
	IsStaff      bool       `gorm:"not null;default:false" json:"is_staff"` // 可访问后台
	IsSuperuser  bool       `gorm:"not null;default:false" json:"is_superuser"`
	TokenVersion uint64     `gorm:"not null;default:0" json:"-"` // Token 版本（用于全量失效）
	LastLoginAt  *time.Time `json:"last_login_at"`               // 最后登录时间
	CreatedAt    time.Time  `gorm:"index" json:"date_joined"`    // 注册时间
	UpdatedAt    time.Time  `json:"updated_at"`
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}

// FullName 返回姓名，未设置时回退到用户名
func (u *User) FullName() string {
	if u == nil {
		return ""
	}
	full := strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
	if full == "" {
		return u.Username
	}
	return full
}
