package models

import (
	"time"
)

// BadgeUnlock 徽章解锁记录，(user_id, badge_id)唯一，只创建不修改
type BadgeUnlock struct {
	ID         string    `gorm:"type:varchar(50);primaryKey" json:"id"`
	UserID     string    `gorm:"type:varchar(50);uniqueIndex:idx_badge_user" json:"user_id"`
	BadgeID    string    `gorm:"type:varchar(50);uniqueIndex:idx_badge_user" json:"badgeId"`
	UnlockedAt time.Time `json:"unlockedAt"`
}

// BadgeInfo 徽章定义加解锁状态的展示结构
type BadgeInfo struct {
	BadgeID     string     `json:"badgeId"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Icon        string     `json:"icon"`
	Unlocked    bool       `json:"unlocked"`
	UnlockedAt  *time.Time `json:"unlockedAt,omitempty"`
}
