package models

import (
	"time"
)

// SessionKind 练习类型
const (
	SessionMindfulness = "mindfulness"
	SessionBreathing   = "breathing"
)

// MindfulnessSession 正念/呼吸练习完成记录
type MindfulnessSession struct {
	ID          string    `gorm:"type:varchar(50);primaryKey" json:"id"`
	UserID      string    `gorm:"type:varchar(50);index:idx_session_user_time" json:"user_id"`
	Kind        string    `gorm:"type:varchar(20)" json:"kind"` // mindfulness / breathing
	DurationSec int       `json:"durationSec"`
	CompletedAt time.Time `gorm:"index:idx_session_user_time" json:"completedAt"`
}
