package services

import (
	"SoulbloomGo/config"
	"SoulbloomGo/models"
	"context"
	"errors"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GoalStore 目标存储接口
type GoalStore interface {
	CountActive(ctx context.Context, userID string) (int64, error)
	Create(ctx context.Context, goal *models.Goal) error
	FindByID(ctx context.Context, userID, goalID string) (models.Goal, error)
	Save(ctx context.Context, goal *models.Goal) error
	ListByUser(ctx context.Context, userID string, activeOnly bool) ([]models.Goal, error)
	ListActive(ctx context.Context) ([]models.Goal, error)
	CountByUser(ctx context.Context, userID string) (created int64, completed int64, err error)
}

// GormGoalStore GoalStore的PostgreSQL实现
type GormGoalStore struct {
	DB *gorm.DB
}

func (s *GormGoalStore) CountActive(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := s.DB.WithContext(ctx).Model(&models.Goal{}).
		Where("user_id = ? AND is_active = ?", userID, true).
		Count(&n).Error
	if err != nil {
		return 0, &DataUnavailableError{Store: "postgres/goals", Err: err}
	}
	return n, nil
}

func (s *GormGoalStore) Create(ctx context.Context, goal *models.Goal) error {
	if err := s.DB.WithContext(ctx).Create(goal).Error; err != nil {
		return &DataUnavailableError{Store: "postgres/goals", Err: err}
	}
	return nil
}

func (s *GormGoalStore) FindByID(ctx context.Context, userID, goalID string) (models.Goal, error) {
	var goal models.Goal
	err := s.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", goalID, userID).
		First(&goal).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Goal{}, ErrNotFound
		}
		return models.Goal{}, &DataUnavailableError{Store: "postgres/goals", Err: err}
	}
	return goal, nil
}

func (s *GormGoalStore) Save(ctx context.Context, goal *models.Goal) error {
	if err := s.DB.WithContext(ctx).Save(goal).Error; err != nil {
		return &DataUnavailableError{Store: "postgres/goals", Err: err}
	}
	return nil
}

func (s *GormGoalStore) ListByUser(ctx context.Context, userID string, activeOnly bool) ([]models.Goal, error) {
	query := s.DB.WithContext(ctx).Where("user_id = ?", userID)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var goals []models.Goal
	if err := query.Order("created_at desc").Find(&goals).Error; err != nil {
		return nil, &DataUnavailableError{Store: "postgres/goals", Err: err}
	}
	return goals, nil
}

func (s *GormGoalStore) ListActive(ctx context.Context) ([]models.Goal, error) {
	var goals []models.Goal
	err := s.DB.WithContext(ctx).
		Where("is_active = ?", true).
		Find(&goals).Error
	if err != nil {
		return nil, &DataUnavailableError{Store: "postgres/goals", Err: err}
	}
	return goals, nil
}

func (s *GormGoalStore) CountByUser(ctx context.Context, userID string) (int64, int64, error) {
	var created, completed int64
	if err := s.DB.WithContext(ctx).Model(&models.Goal{}).
		Where("user_id = ?", userID).Count(&created).Error; err != nil {
		return 0, 0, &DataUnavailableError{Store: "postgres/goals", Err: err}
	}
	if err := s.DB.WithContext(ctx).Model(&models.Goal{}).
		Where("user_id = ? AND completed_at IS NOT NULL", userID).Count(&completed).Error; err != nil {
		return 0, 0, &DataUnavailableError{Store: "postgres/goals", Err: err}
	}
	return created, completed, nil
}

// GoalService 目标生命周期状态机：
// active -> completed（终态）和 active -> inactive（放弃，终态）。
type GoalService struct {
	Store    GoalStore
	Progress *ProgressService
	Events   *GoalEventBus
	Now      func() time.Time
}

func NewGoalService(store GoalStore, progress *ProgressService, events *GoalEventBus) *GoalService {
	return &GoalService{
		Store:    store,
		Progress: progress,
		Events:   events,
		Now:      time.Now,
	}
}

// Create 创建目标，校验全部通过后才写入
func (s *GoalService) Create(ctx context.Context, userID string, req models.CreateGoalRequest) (models.Goal, error) {
	if utf8.RuneCountInString(req.Title) > 50 {
		return models.Goal{}, &ValidationError{Field: "title", Reason: "must be at most 50 characters"}
	}
	if req.TargetCount < 1 || req.TargetCount > 100 {
		return models.Goal{}, &ValidationError{Field: "targetCount", Reason: "must be between 1 and 100"}
	}
	if !models.ValidActivityType(req.ActivityType) {
		return models.Goal{}, &ValidationError{Field: "activityType", Reason: "unknown activity type"}
	}
	if !models.ValidTimeFrame(req.TimeFrame) {
		return models.Goal{}, &ValidationError{Field: "timeFrame", Reason: "unknown time frame"}
	}

	active, err := s.Store.CountActive(ctx, userID)
	if err != nil {
		return models.Goal{}, err
	}
	if active >= models.MaxActiveGoals {
		return models.Goal{}, ErrCapacityExceeded
	}

	goal := models.Goal{
		ID:           uuid.New().String(),
		UserID:       userID,
		Title:        req.Title,
		ActivityType: req.ActivityType,
		TargetCount:  req.TargetCount,
		TimeFrame:    req.TimeFrame,
		IsActive:     true,
		CreatedAt:    s.Now().UTC(),
	}
	if err := s.Store.Create(ctx, &goal); err != nil {
		return models.Goal{}, err
	}
	return goal, nil
}

// Get 查询单个目标
func (s *GoalService) Get(ctx context.Context, userID, goalID string) (models.Goal, error) {
	return s.Store.FindByID(ctx, userID, goalID)
}

// Complete 完成目标。仅允许active且未完成的目标，且必须确实达成，
// 否则返回NotYetAchievedError并携带当前进度。
func (s *GoalService) Complete(ctx context.Context, userID, goalID string) (models.Goal, error) {
	goal, err := s.Store.FindByID(ctx, userID, goalID)
	if err != nil {
		return models.Goal{}, err
	}
	if !goal.IsActive || goal.CompletedAt != nil {
		return models.Goal{}, &ValidationError{Field: "goal", Reason: "goal is not active"}
	}

	completed, progress, err := s.Progress.IsGoalCompleted(ctx, goal)
	if err != nil {
		return models.Goal{}, err
	}
	if !completed {
		return models.Goal{}, &NotYetAchievedError{Progress: progress}
	}

	now := s.Now().UTC()
	goal.CompletedAt = &now
	goal.IsActive = false
	if err := s.Store.Save(ctx, &goal); err != nil {
		return models.Goal{}, err
	}

	if s.Events != nil {
		s.Events.Publish(GoalEvent{Type: EventGoalCompleted, Goal: goal, OccurredAt: now})
	}
	return goal, nil
}

// Abandon 放弃目标（软删除），completed_at保持为空
func (s *GoalService) Abandon(ctx context.Context, userID, goalID string) (models.Goal, error) {
	goal, err := s.Store.FindByID(ctx, userID, goalID)
	if err != nil {
		return models.Goal{}, err
	}
	if !goal.IsActive {
		return models.Goal{}, &ValidationError{Field: "goal", Reason: "goal is not active"}
	}

	goal.IsActive = false
	if err := s.Store.Save(ctx, &goal); err != nil {
		return models.Goal{}, err
	}
	return goal, nil
}

// Update 更新目标，仅active状态允许，活动类型创建后不可变
func (s *GoalService) Update(ctx context.Context, userID, goalID string, req models.UpdateGoalRequest) (models.Goal, error) {
	goal, err := s.Store.FindByID(ctx, userID, goalID)
	if err != nil {
		return models.Goal{}, err
	}
	if !goal.IsActive {
		return models.Goal{}, &ValidationError{Field: "goal", Reason: "goal is not active"}
	}

	if req.Title != nil {
		if utf8.RuneCountInString(*req.Title) > 50 {
			return models.Goal{}, &ValidationError{Field: "title", Reason: "must be at most 50 characters"}
		}
		goal.Title = *req.Title
	}
	if req.TargetCount != nil {
		if *req.TargetCount < 1 || *req.TargetCount > 100 {
			return models.Goal{}, &ValidationError{Field: "targetCount", Reason: "must be between 1 and 100"}
		}
		goal.TargetCount = *req.TargetCount
	}
	if req.TimeFrame != nil {
		if !models.ValidTimeFrame(*req.TimeFrame) {
			return models.Goal{}, &ValidationError{Field: "timeFrame", Reason: "unknown time frame"}
		}
		goal.TimeFrame = *req.TimeFrame
	}

	if err := s.Store.Save(ctx, &goal); err != nil {
		return models.Goal{}, err
	}
	return goal, nil
}

// ListWithProgress 返回用户目标及实时进度，单个目标进度计算失败不影响其他目标
func (s *GoalService) ListWithProgress(ctx context.Context, userID string, activeOnly bool) ([]GoalProgress, error) {
	goals, err := s.Store.ListByUser(ctx, userID, activeOnly)
	if err != nil {
		return nil, err
	}
	return s.Progress.CalculateProgressForGoals(ctx, goals), nil
}

// creationWindow 返回以创建时间为锚点的评估窗口，清扫时用于评估已关闭的窗口
func creationWindow(goal models.Goal) TimeWindow {
	created := goal.CreatedAt.UTC()
	start := created
	if goal.TimeFrame == models.TimeFrameDaily {
		start = time.Date(created.Year(), created.Month(), created.Day(), 0, 0, 0, 0, time.UTC)
	}
	return TimeWindow{Start: start, End: goal.ExpiresAt()}
}

// SweepResult 一次过期清扫的统计
type SweepResult struct {
	Scanned   int
	Completed int
	Expired   int
	Failed    int
}

// SweepExpired 过期目标清扫。对每个评估窗口已关闭的active目标重新计算进度：
// 达成则迁移到completed，否则迁移到inactive并发出通知事件。
// 单条记录的失败只记日志，清扫继续处理下一条。
func (s *GoalService) SweepExpired(ctx context.Context) SweepResult {
	var result SweepResult

	now := s.Now().UTC()
	goals, err := s.Store.ListActive(ctx)
	if err != nil {
		config.Logger.Errorw("清扫任务读取目标失败", "error", err)
		result.Failed++
		return result
	}

	for _, goal := range goals {
		if goal.ExpiresAt().After(now) {
			continue
		}
		result.Scanned++

		progress, err := s.Progress.CalculateProgressInWindow(ctx, goal, creationWindow(goal))
		if err != nil {
			config.Logger.Errorw("清扫任务计算进度失败", "error", err, "goalID", goal.ID)
			result.Failed++
			continue
		}

		if progress.Current >= progress.Target {
			completedAt := now
			goal.CompletedAt = &completedAt
			goal.IsActive = false
			if err := s.Store.Save(ctx, &goal); err != nil {
				config.Logger.Errorw("清扫任务保存完成目标失败", "error", err, "goalID", goal.ID)
				result.Failed++
				continue
			}
			result.Completed++
			if s.Events != nil {
				s.Events.Publish(GoalEvent{Type: EventGoalCompleted, Goal: goal, OccurredAt: now})
			}
			continue
		}

		goal.IsActive = false
		if err := s.Store.Save(ctx, &goal); err != nil {
			config.Logger.Errorw("清扫任务保存过期目标失败", "error", err, "goalID", goal.ID)
			result.Failed++
			continue
		}
		result.Expired++
		if s.Events != nil {
			s.Events.Publish(GoalEvent{Type: EventGoalExpired, Goal: goal, OccurredAt: now})
		}
	}

	return result
}
