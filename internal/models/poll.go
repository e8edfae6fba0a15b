package models

import "time"

// Question 投票问题
type Question struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	QuestionText string    `gorm:"type:varchar(200);not null" json:"question_text"`
	PubDate      time.Time `gorm:"index;not null" json:"pub_date"`
	AuthorID     uint      `gorm:"index;not null" json:"author_id"`
	Author       *User     `gorm:"constraint:OnDelete:CASCADE" json:"author,omitempty"`
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`
	Choices      []Choice  `gorm:"foreignKey:QuestionID" json:"choices,omitempty"`
}

// TableName 指定表名
func (Question) TableName() string {
	return "questions"
}

// WasPublishedRecently 是否在最近一天内发布（未来时间不算）
func (q *Question) WasPublishedRecently(now time.Time) bool {
	if q == nil {
		return false
	}
	return !q.PubDate.After(now) && !q.PubDate.Before(now.Add(-24*time.Hour))
}

// Choice 投票选项
type Choice struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	QuestionID uint      `gorm:"index;not null" json:"question_id"`
	Question   *Question `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	ChoiceText string    `gorm:"type:varchar(200);not null" json:"choice_text"`
	Votes      int64     `gorm:"not null;default:0" json:"votes"`
}

// TableName 指定表名
func (Choice) TableName() string {
	return "choices"
}
