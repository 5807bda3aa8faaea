package models

import (
	"time"
)

type Comment struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CommentText string    `gorm:"size:1024;not null" json:"comment_text"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	PoshtID     uint      `gorm:"not null;index" json:"posht_id"`
	Posht       *Posht    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	User        *User     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	IsBlocked   bool      `gorm:"default:false;not null" json:"is_blocked"`
	AutoCreated bool      `gorm:"default:false;not null" json:"auto_created"` // 机器人自动回复
}

// DailyCommentStats 每日评论统计
type DailyCommentStats struct {
	Date         string `json:"date"` // YYYY-MM-DD (UTC)
	Count        int64  `json:"count"`
	BlockedCount int64  `json:"blocked_count"`
}
