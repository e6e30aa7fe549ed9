package models

import (
	"time"
)

// ActivityType 目标追踪的活动类型
type ActivityType string

const (
	ActivityCheckin     ActivityType = "check_in"
	ActivityQuickMood   ActivityType = "quick_mood"
	ActivityMindfulness ActivityType = "mindfulness"
	ActivityBreathing   ActivityType = "breathing"
	ActivityJournaling  ActivityType = "journaling"
)

// TimeFrame 目标的评估周期
type TimeFrame string

const (
	TimeFrameDaily   TimeFrame = "daily"
	TimeFrameWeekly  TimeFrame = "weekly"
	TimeFrameMonthly TimeFrame = "monthly"
)

// MaxActiveGoals 单个用户同时激活目标的上限
const MaxActiveGoals = 10

// Goal 目标模型
type Goal struct {
	ID           string       `gorm:"type:varchar(50);primaryKey" json:"id"`
	UserID       string       `gorm:"type:varchar(50);index" json:"user_id"`
	Title        string       `gorm:"type:varchar(50)" json:"title"`
	ActivityType ActivityType `gorm:"type:varchar(30)" json:"activityType"`
	TargetCount  int          `json:"targetCount"`
	TimeFrame    TimeFrame    `gorm:"type:varchar(20)" json:"timeFrame"`
	IsActive     bool         `gorm:"default:true;index" json:"isActive"`
	CompletedAt  *time.Time   `json:"completedAt,omitempty"`
	CreatedAt    time.Time    `json:"createdAt"`
}

// ValidActivityType 校验活动类型是否在固定集合内
func ValidActivityType(t ActivityType) bool {
	switch t {
	case ActivityCheckin, ActivityQuickMood, ActivityMindfulness, ActivityBreathing, ActivityJournaling:
		return true
	}
	return false
}

// ValidTimeFrame 校验评估周期是否在固定集合内
func ValidTimeFrame(f TimeFrame) bool {
	switch f {
	case TimeFrameDaily, TimeFrameWeekly, TimeFrameMonthly:
		return true
	}
	return false
}

// ExpiresAt 返回目标评估窗口的截止时间，以创建时间为锚点。
// daily为创建当天UTC午夜结束，weekly为创建后7天，monthly为创建后30天。
func (g *Goal) ExpiresAt() time.Time {
	created := g.CreatedAt.UTC()
	switch g.TimeFrame {
	case TimeFrameDaily:
		day := time.Date(created.Year(), created.Month(), created.Day(), 0, 0, 0, 0, time.UTC)
		return day.AddDate(0, 0, 1)
	case TimeFrameWeekly:
		return created.AddDate(0, 0, 7)
	case TimeFrameMonthly:
		return created.AddDate(0, 0, 30)
	}
	return created
}
