package models

import "time"

// UserResponse 用户响应结构体
type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Avatar   string `json:"avatar"`
}

// AuthResponse 登录/注册响应结构体
type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// ProgressResponse 目标进度响应结构体
type ProgressResponse struct {
	Current         int       `json:"current"`
	Target          int       `json:"target"`
	PercentComplete int       `json:"percentComplete"`
	WindowStart     time.Time `json:"windowStart"`
	WindowEnd       time.Time `json:"windowEnd"`
}

// GoalWithProgressResponse 携带实时进度的目标响应结构体
type GoalWithProgressResponse struct {
	Goal        Goal              `json:"goal"`
	Progress    *ProgressResponse `json:"progress,omitempty"`
	IsCompleted bool              `json:"isCompleted"`
	Error       string            `json:"error,omitempty"` // 批量计算中单个目标的失败原因
}

// TimeRemainingResponse 目标剩余时间响应结构体
type TimeRemainingResponse struct {
	EndDate        time.Time `json:"endDate"`
	HoursRemaining int       `json:"hoursRemaining"`
	DaysRemaining  int       `json:"daysRemaining"`
}

// StreaksResponse 连续天数响应结构体
type StreaksResponse struct {
	Checkin     int `json:"checkin"`
	Mindfulness int `json:"mindfulness"`
	Mood        int `json:"mood"`
	Overall     int `json:"overall"`
}
