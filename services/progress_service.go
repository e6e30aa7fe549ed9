package services

import (
	"SoulbloomGo/models"
	"context"
	"fmt"
	"math"
	"sync"
	"time"
)

// TimeWindow 目标评估窗口，[Start, End)
type TimeWindow struct {
	Start time.Time
	End   time.Time
}

// Progress 实时进度快照，每次读取重新计算，从不缓存
type Progress struct {
	Current         int
	Target          int
	PercentComplete int
	Window          TimeWindow
}

// TimeRemaining 当前评估窗口的剩余时间
type TimeRemaining struct {
	EndDate        time.Time
	HoursRemaining int
	DaysRemaining  int
}

// GoalProgress 批量进度计算中单个目标的结果，Err非空时其余字段无效
type GoalProgress struct {
	Goal     models.Goal
	Progress Progress
	Err      error
}

// ProgressService 目标进度引擎
type ProgressService struct {
	Counters CounterRegistry
	Now      func() time.Time // 可注入的时钟，便于测试
}

func NewProgressService(counters CounterRegistry) *ProgressService {
	return &ProgressService{
		Counters: counters,
		Now:      time.Now,
	}
}

// TimeWindowFor 根据评估周期计算窗口。daily为参考时刻所在UTC日，
// weekly/monthly为截止到参考时刻的滚动7天/30天，不是日历周期。
func TimeWindowFor(frame models.TimeFrame, ref time.Time) TimeWindow {
	ref = ref.UTC()
	switch frame {
	case models.TimeFrameDaily:
		start := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, time.UTC)
		return TimeWindow{Start: start, End: start.AddDate(0, 0, 1)}
	case models.TimeFrameWeekly:
		return TimeWindow{Start: ref.AddDate(0, 0, -7), End: ref}
	case models.TimeFrameMonthly:
		return TimeWindow{Start: ref.AddDate(0, 0, -30), End: ref}
	}
	return TimeWindow{Start: ref, End: ref}
}

// countQualifyingActivities 按活动类型路由到对应计数器
func (s *ProgressService) countQualifyingActivities(ctx context.Context, userID string, activityType models.ActivityType, window TimeWindow) (int, error) {
	counter, ok := s.Counters[activityType]
	if !ok {
		return 0, &ValidationError{Field: "activityType", Reason: fmt.Sprintf("no counter for %q", activityType)}
	}
	n, err := counter.Count(ctx, userID, window.Start, window.End)
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// CalculateProgress 计算目标当前进度，百分比封顶100
func (s *ProgressService) CalculateProgress(ctx context.Context, goal models.Goal) (Progress, error) {
	return s.calculateProgressAt(ctx, goal, TimeWindowFor(goal.TimeFrame, s.Now()))
}

// CalculateProgressInWindow 在指定窗口内计算进度，清扫任务用它评估已关闭的窗口
func (s *ProgressService) CalculateProgressInWindow(ctx context.Context, goal models.Goal, window TimeWindow) (Progress, error) {
	return s.calculateProgressAt(ctx, goal, window)
}

func (s *ProgressService) calculateProgressAt(ctx context.Context, goal models.Goal, window TimeWindow) (Progress, error) {
	current, err := s.countQualifyingActivities(ctx, goal.UserID, goal.ActivityType, window)
	if err != nil {
		return Progress{}, err
	}

	percent := 0
	if goal.TargetCount > 0 {
		percent = int(math.Round(math.Min(100, float64(current)/float64(goal.TargetCount)*100)))
	}

	return Progress{
		Current:         current,
		Target:          goal.TargetCount,
		PercentComplete: percent,
		Window:          window,
	}, nil
}

// IsGoalCompleted 判断目标是否达成，每次调用重新计算
func (s *ProgressService) IsGoalCompleted(ctx context.Context, goal models.Goal) (bool, Progress, error) {
	progress, err := s.CalculateProgress(ctx, goal)
	if err != nil {
		return false, Progress{}, err
	}
	return progress.Current >= progress.Target, progress, nil
}

// GetTimeRemaining 计算当前评估窗口的剩余时间
func (s *ProgressService) GetTimeRemaining(frame models.TimeFrame) TimeRemaining {
	now := s.Now().UTC()
	window := TimeWindowFor(frame, now)

	end := window.End
	if frame != models.TimeFrameDaily {
		// 滚动窗口截止于当前时刻，剩余时间按窗口长度重新起算
		switch frame {
		case models.TimeFrameWeekly:
			end = now.AddDate(0, 0, 7)
		case models.TimeFrameMonthly:
			end = now.AddDate(0, 0, 30)
		}
	}

	remaining := end.Sub(now)
	if remaining < 0 {
		remaining = 0
	}
	return TimeRemaining{
		EndDate:        end,
		HoursRemaining: int(remaining.Hours()),
		DaysRemaining:  int(remaining.Hours() / 24),
	}
}

// CalculateProgressForGoals 并发计算一组目标的进度，目标之间互不影响，
// 单个目标的失败不会中断其余目标的计算。
func (s *ProgressService) CalculateProgressForGoals(ctx context.Context, goals []models.Goal) []GoalProgress {
	results := make([]GoalProgress, len(goals))

	var wg sync.WaitGroup
	for i, goal := range goals {
		wg.Add(1)
		go func(i int, goal models.Goal) {
			defer wg.Done()
			progress, err := s.CalculateProgress(ctx, goal)
			results[i] = GoalProgress{Goal: goal, Progress: progress, Err: err}
		}(i, goal)
	}
	wg.Wait()

	return results
}
