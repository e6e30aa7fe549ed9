package models

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// RegisterRequest 注册请求结构体
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest 登录请求结构体
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// CreateGoalRequest 创建目标请求结构体
type CreateGoalRequest struct {
	Title        string       `json:"title" binding:"required"`
	ActivityType ActivityType `json:"activityType" binding:"required"`
	TargetCount  int          `json:"targetCount" binding:"required"`
	TimeFrame    TimeFrame    `json:"timeFrame" binding:"required"`
}

func (r *CreateGoalRequest) Validate() error {
	if utf8.RuneCountInString(r.Title) > 50 {
		return fmt.Errorf("title must be at most 50 characters")
	}
	if r.TargetCount < 1 || r.TargetCount > 100 {
		return fmt.Errorf("targetCount must be between 1 and 100")
	}
	if !ValidActivityType(r.ActivityType) {
		return fmt.Errorf("invalid activityType, must be one of: check_in, quick_mood, mindfulness, breathing, journaling")
	}
	if !ValidTimeFrame(r.TimeFrame) {
		return fmt.Errorf("invalid timeFrame, must be one of: daily, weekly, monthly")
	}
	return nil
}

// UpdateGoalRequest 更新目标请求结构体，仅允许修改标题/目标次数/评估周期
type UpdateGoalRequest struct {
	Title       *string    `json:"title"`
	TargetCount *int       `json:"targetCount"`
	TimeFrame   *TimeFrame `json:"timeFrame"`
}

func (r *UpdateGoalRequest) Validate() error {
	if r.Title != nil && utf8.RuneCountInString(*r.Title) > 50 {
		return fmt.Errorf("title must be at most 50 characters")
	}
	if r.TargetCount != nil && (*r.TargetCount < 1 || *r.TargetCount > 100) {
		return fmt.Errorf("targetCount must be between 1 and 100")
	}
	if r.TimeFrame != nil && !ValidTimeFrame(*r.TimeFrame) {
		return fmt.Errorf("invalid timeFrame, must be one of: daily, weekly, monthly")
	}
	return nil
}

// CreateCheckinRequest 签到请求结构体
type CreateCheckinRequest struct {
	Text        string   `json:"text"`
	MoodRating  string   `json:"moodRating" binding:"required"`
	StressLevel int      `json:"stressLevel"`
	Emotions    []string `json:"emotions"`
}

func (r *CreateCheckinRequest) Validate() error {
	if !ValidMoodRating(r.MoodRating) {
		return fmt.Errorf("invalid moodRating, must be one of: great, good, okay, bad, terrible")
	}
	if r.StressLevel < 0 || r.StressLevel > 10 {
		return fmt.Errorf("stressLevel must be between 0 and 10")
	}
	return nil
}

// CreateMoodRequest 快速心情记录请求结构体
type CreateMoodRequest struct {
	Rating      string   `json:"rating" binding:"required"`
	StressLevel int      `json:"stressLevel"`
	Emotions    []string `json:"emotions"`
	Note        string   `json:"note"`
}

func (r *CreateMoodRequest) Validate() error {
	if !ValidMoodRating(r.Rating) {
		return fmt.Errorf("invalid rating, must be one of: great, good, okay, bad, terrible")
	}
	if r.StressLevel < 0 || r.StressLevel > 10 {
		return fmt.Errorf("stressLevel must be between 0 and 10")
	}
	return nil
}

// EmotionsString 把情绪标签拼成存储用的逗号分隔串
func (r *CreateMoodRequest) EmotionsString() string {
	return strings.Join(r.Emotions, ",")
}

// CreateSessionRequest 正念/呼吸练习记录请求结构体
type CreateSessionRequest struct {
	Kind        string `json:"kind" binding:"required"`
	DurationSec int    `json:"durationSec" binding:"required"`
}

func (r *CreateSessionRequest) Validate() error {
	if r.Kind != SessionMindfulness && r.Kind != SessionBreathing {
		return fmt.Errorf("invalid kind, must be one of: mindfulness, breathing")
	}
	if r.DurationSec < 1 {
		return fmt.Errorf("durationSec must be positive")
	}
	return nil
}

// AddCareMemberRequest 添加信任联系人请求结构体
type AddCareMemberRequest struct {
	Name           string `json:"name" binding:"required"`
	Relationship   string `json:"relationship"`
	ContactUserID  string `json:"contactUserId"`
	NotifyOnCrisis *bool  `json:"notifyOnCrisis"`
}

func (r *AddCareMemberRequest) Validate() error {
	if utf8.RuneCountInString(r.Name) > 100 {
		return fmt.Errorf("name must be at most 100 characters")
	}
	return nil
}
