package models

import (
	"time"
)

type Posht struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:15;not null" json:"title"`
	PoshtText string    `gorm:"size:1024" json:"posht_text"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      *User     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	IsBlocked bool      `gorm:"default:false;not null" json:"is_blocked"`
}

// PoshtDetail 详情页额外返回渲染后的 HTML
type PoshtDetail struct {
	Posht
	PoshtHTML string `json:"posht_html"`
}
