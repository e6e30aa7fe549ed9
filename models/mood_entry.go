package models

import (
	"time"
)

// MoodRating 心情评级，从好到差
const (
	MoodGreat    = "great"
	MoodGood     = "good"
	MoodOkay     = "okay"
	MoodBad      = "bad"
	MoodTerrible = "terrible"
)

// ValidMoodRating 校验心情评级
func ValidMoodRating(rating string) bool {
	switch rating {
	case MoodGreat, MoodGood, MoodOkay, MoodBad, MoodTerrible:
		return true
	}
	return false
}

// MoodEntry 快速心情记录模型
type MoodEntry struct {
	ID          string    `gorm:"type:varchar(50);primaryKey" json:"id"`
	UserID      string    `gorm:"type:varchar(50);index:idx_mood_user_time" json:"user_id"`
	Rating      string    `gorm:"type:varchar(20)" json:"rating"`
	StressLevel int       `json:"stressLevel"` // 1-10
	Emotions    string    `gorm:"type:text" json:"emotions"` // 逗号分隔的情绪标签
	Note        string    `gorm:"type:text" json:"note"`
	RecordedAt  time.Time `gorm:"index:idx_mood_user_time" json:"recordedAt"`
}
