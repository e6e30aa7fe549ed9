package services

import (
	"SoulbloomGo/models"
	"context"
	"time"
)

// maxStreakDays 回溯上限，防止无界遍历
const maxStreakDays = 365

// StreakService 连续天数计算。从今天开始逐日回溯；
// 今天没有记录时允许且仅允许检查一次昨天（宽限期），
// 昨天也没有才算断档。这个不对称行为是刻意保留的产品契约。
type StreakService struct {
	Counters CounterRegistry
	Now      func() time.Time
}

func NewStreakService(counters CounterRegistry) *StreakService {
	return &StreakService{
		Counters: counters,
		Now:      time.Now,
	}
}

func dayWindow(day time.Time) TimeWindow {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	return TimeWindow{Start: start, End: start.AddDate(0, 0, 1)}
}

func (s *StreakService) hasActivityOn(ctx context.Context, counter ActivityCounter, userID string, day time.Time) (bool, error) {
	window := dayWindow(day)
	n, err := counter.Count(ctx, userID, window.Start, window.End)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// StreakFor 计算某活动类型的连续天数
func (s *StreakService) StreakFor(ctx context.Context, userID string, activityType models.ActivityType) (int, error) {
	counter, ok := s.Counters[activityType]
	if !ok {
		return 0, &ValidationError{Field: "activityType", Reason: "unknown activity type"}
	}

	today := s.Now().UTC()
	day := today

	active, err := s.hasActivityOn(ctx, counter, userID, day)
	if err != nil {
		return 0, err
	}
	if !active {
		// 宽限：今天还没打卡不立刻清零，再看一次昨天
		day = today.AddDate(0, 0, -1)
		active, err = s.hasActivityOn(ctx, counter, userID, day)
		if err != nil {
			return 0, err
		}
		if !active {
			return 0, nil
		}
	}

	streak := 0
	for streak < maxStreakDays {
		streak++
		day = day.AddDate(0, 0, -1)
		active, err = s.hasActivityOn(ctx, counter, userID, day)
		if err != nil {
			return 0, err
		}
		if !active {
			break
		}
	}
	return streak, nil
}

// OverallStreak 整体连续天数：签到、正念、心情三条链同时保持，取最小值
func (s *StreakService) OverallStreak(ctx context.Context, userID string) (int, error) {
	overall := maxStreakDays
	for _, activityType := range []models.ActivityType{
		models.ActivityCheckin,
		models.ActivityMindfulness,
		models.ActivityQuickMood,
	} {
		streak, err := s.StreakFor(ctx, userID, activityType)
		if err != nil {
			return 0, err
		}
		if streak < overall {
			overall = streak
		}
	}
	return overall, nil
}
