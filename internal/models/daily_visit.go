package models

// DailyVisit 每日访问汇总
// 说明：每个自然日一行，计数只通过原子自增更新。
type DailyVisit struct {
	ID             uint   `gorm:"primarykey" json:"id"`
	Date           string `gorm:"type:varchar(10);uniqueIndex;not null" json:"date"` // YYYY-MM-DD
	TotalVisits    int64  `gorm:"not null;default:0" json:"total_visits"`
	UniqueVisitors int64  `gorm:"not null;default:0" json:"unique_visitors"`
}

// TableName 指定表名
func (DailyVisit) TableName() string {
	return "daily_visits"
}
