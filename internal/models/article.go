package models

import (
	"time"

	"github.com/palmapernia/tp-django/internal/constants"
)

// Article 博客文章
type Article struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Title     string    `gorm:"type:varchar(200);not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	AuthorID  uint      `gorm:"index;not null" json:"author_id"`
	Author    *User     `gorm:"constraint:OnDelete:CASCADE" json:"author,omitempty"`
	ImageURL  string    `gorm:"type:varchar(500);not null;default:''" json:"image_url"`
	Comments  []Comment `gorm:"foreignKey:ArticleID" json:"comments,omitempty"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// TableName 指定表名
func (Article) TableName() string {
	return "articles"
}

// Summary 截取前 150 个字符作为摘要
func (a *Article) Summary() string {
	if a == nil {
		return ""
	}
	runes := []rune(a.Content)
	if len(runes) <= constants.ArticleSummaryLength {
		return a.Content
	}
	return string(runes[:constants.ArticleSummaryLength]) + constants.ArticleSummarySuffix
}
