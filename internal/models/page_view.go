package models

import "time"

// PageView 页面访问记录
// 说明：每次被统计的页面请求写入一条，只追加不修改；UserID 为弱引用，用户删除时置空。
type PageView struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	URL        string    `gorm:"type:varchar(500);not null" json:"url"`
	UserID     *uint     `gorm:"index" json:"user_id"`
	User       *User     `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	IPAddress  string    `gorm:"type:varchar(64);not null;default:''" json:"ip_address"`
	UserAgent  string    `gorm:"type:text" json:"user_agent"`
	Browser    string    `gorm:"type:varchar(64);not null;default:''" json:"browser"`
	OS         string    `gorm:"type:varchar(64);not null;default:''" json:"os"`
	Device     string    `gorm:"type:varchar(16);not null;default:''" json:"device"`
	SessionKey string    `gorm:"type:varchar(40);not null;default:''" json:"session_key"`
	VisitorID  string    `gorm:"type:varchar(36);index;not null" json:"visitor_id"`
	Timestamp  time.Time `gorm:"autoCreateTime;index" json:"timestamp"`
}

// TableName 指定表名
func (PageView) TableName() string {
	return "page_views"
}
