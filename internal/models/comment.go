package models

import "time"

// Comment 文章评论
type Comment struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	ArticleID uint      `gorm:"index;not null" json:"article_id"`
	Article   *Article  `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	AuthorID  uint      `gorm:"index;not null" json:"author_id"`
	Author    *User     `gorm:"constraint:OnDelete:CASCADE" json:"author,omitempty"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// TableName 指定表名
func (Comment) TableName() string {
	return "comments"
}
