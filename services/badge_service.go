package services

import (
	"SoulbloomGo/config"
	"SoulbloomGo/models"
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// UsageStats 徽章判定所需的累计使用统计
type UsageStats struct {
	TotalCheckins       int64
	UniqueDays          int64
	OverallStreak       int
	MoodEntries         int64
	MindfulnessSessions int64
	JournalWords        int64
	GoalsCreated        int64
	GoalsCompleted      int64
}

// StatsSource 统计来源接口
type StatsSource interface {
	UsageStatsFor(ctx context.Context, userID string) (UsageStats, error)
}

// BadgeStore 徽章解锁存储接口。Insert对重复解锁必须是无害的no-op，
// 并发的重复尝试依赖(user_id, badge_id)唯一约束兜底。
type BadgeStore interface {
	UnlockedSet(ctx context.Context, userID string) (map[string]time.Time, error)
	Insert(ctx context.Context, unlock models.BadgeUnlock) error
}

// BadgeDef 徽章定义：固定的(badge_id -> 判定谓词)表，规则即数据
type BadgeDef struct {
	ID          string
	Name        string
	Description string
	Icon        string
	Predicate   func(UsageStats) bool
}

// badgeDefs 徽章规则表。解锁一次后永不重评、永不撤销。
var badgeDefs = []BadgeDef{
	{
		ID: "first_checkin", Name: "First Steps", Icon: "🌱",
		Description: "Complete your first check-in",
		Predicate:   func(s UsageStats) bool { return s.TotalCheckins >= 1 },
	},
	{
		ID: "checkin_10", Name: "Regular", Icon: "📅",
		Description: "Complete 10 check-ins",
		Predicate:   func(s UsageStats) bool { return s.TotalCheckins >= 10 },
	},
	{
		ID: "checkin_100", Name: "Century Club", Icon: "💯",
		Description: "Complete 100 check-ins",
		Predicate:   func(s UsageStats) bool { return s.TotalCheckins >= 100 },
	},
	{
		ID: "week_streak", Name: "One Week Strong", Icon: "🔥",
		Description: "Keep a 7-day overall streak",
		Predicate:   func(s UsageStats) bool { return s.OverallStreak >= 7 },
	},
	{
		ID: "month_streak", Name: "Monthly Master", Icon: "🏆",
		Description: "Keep a 30-day overall streak",
		Predicate:   func(s UsageStats) bool { return s.OverallStreak >= 30 },
	},
	{
		ID: "mood_tracker", Name: "Mood Mapper", Icon: "🎭",
		Description: "Log 30 mood entries",
		Predicate:   func(s UsageStats) bool { return s.MoodEntries >= 30 },
	},
	{
		ID: "mindful_beginner", Name: "Mindful Moment", Icon: "🧘",
		Description: "Complete 10 mindfulness sessions",
		Predicate:   func(s UsageStats) bool { return s.MindfulnessSessions >= 10 },
	},
	{
		ID: "wordsmith", Name: "Wordsmith", Icon: "✍️",
		Description: "Write 1000 words across your journal entries",
		Predicate:   func(s UsageStats) bool { return s.JournalWords >= 1000 },
	},
	{
		ID: "goal_setter", Name: "Goal Setter", Icon: "🎯",
		Description: "Create your first goal",
		Predicate:   func(s UsageStats) bool { return s.GoalsCreated >= 1 },
	},
	{
		ID: "goal_crusher", Name: "Goal Crusher", Icon: "⚡",
		Description: "Complete 10 goals",
		Predicate:   func(s UsageStats) bool { return s.GoalsCompleted >= 10 },
	},
	{
		ID: "two_weeks_active", Name: "Habit Builder", Icon: "🗓️",
		Description: "Use Soulbloom on 14 different days",
		Predicate:   func(s UsageStats) bool { return s.UniqueDays >= 14 },
	},
}

// BadgeService 徽章评估服务。评估是幂等的：已解锁的跳过，
// 并发重复插入被唯一约束挡下并忽略。
type BadgeService struct {
	Stats      StatsSource
	Store      BadgeStore
	Dispatcher NotificationDispatcher
	Now        func() time.Time
}

func NewBadgeService(stats StatsSource, store BadgeStore, dispatcher NotificationDispatcher) *BadgeService {
	return &BadgeService{
		Stats:      stats,
		Store:      store,
		Dispatcher: dispatcher,
		Now:        time.Now,
	}
}

// Evaluate 评估并解锁用户当前满足条件的徽章，返回本次新解锁的徽章
func (s *BadgeService) Evaluate(ctx context.Context, userID string) ([]models.BadgeUnlock, error) {
	stats, err := s.Stats.UsageStatsFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	unlocked, err := s.Store.UnlockedSet(ctx, userID)
	if err != nil {
		return nil, err
	}

	var newUnlocks []models.BadgeUnlock
	for _, def := range badgeDefs {
		if _, done := unlocked[def.ID]; done {
			continue
		}
		if !def.Predicate(stats) {
			continue
		}

		unlock := models.BadgeUnlock{
			ID:         uuid.New().String(),
			UserID:     userID,
			BadgeID:    def.ID,
			UnlockedAt: s.Now().UTC(),
		}
		if err := s.Store.Insert(ctx, unlock); err != nil {
			config.Logger.Errorw("徽章解锁写入失败", "error", err, "userID", userID, "badgeID", def.ID)
			continue
		}
		newUnlocks = append(newUnlocks, unlock)

		if s.Dispatcher != nil {
			if err := s.Dispatcher.Dispatch(ctx, userID, "badge_unlocked",
				"Badge unlocked: "+def.Name, def.Description,
				map[string]string{"badge_id": def.ID}); err != nil {
				config.Logger.Errorw("徽章通知发送失败", "error", err, "badgeID", def.ID)
			}
		}
	}
	return newUnlocks, nil
}

// ListBadges 返回全部徽章定义及用户的解锁状态
func (s *BadgeService) ListBadges(ctx context.Context, userID string) ([]models.BadgeInfo, error) {
	unlocked, err := s.Store.UnlockedSet(ctx, userID)
	if err != nil {
		return nil, err
	}

	infos := make([]models.BadgeInfo, 0, len(badgeDefs))
	for _, def := range badgeDefs {
		info := models.BadgeInfo{
			BadgeID:     def.ID,
			Name:        def.Name,
			Description: def.Description,
			Icon:        def.Icon,
		}
		if at, ok := unlocked[def.ID]; ok {
			info.Unlocked = true
			unlockedAt := at
			info.UnlockedAt = &unlockedAt
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// GormBadgeStore BadgeStore的PostgreSQL实现
type GormBadgeStore struct {
	DB *gorm.DB
}

func (s *GormBadgeStore) UnlockedSet(ctx context.Context, userID string) (map[string]time.Time, error) {
	var unlocks []models.BadgeUnlock
	err := s.DB.WithContext(ctx).Where("user_id = ?", userID).Find(&unlocks).Error
	if err != nil {
		return nil, &DataUnavailableError{Store: "postgres/badge_unlocks", Err: err}
	}

	set := make(map[string]time.Time, len(unlocks))
	for _, u := range unlocks {
		set[u.BadgeID] = u.UnlockedAt
	}
	return set, nil
}

func (s *GormBadgeStore) Insert(ctx context.Context, unlock models.BadgeUnlock) error {
	err := s.DB.WithContext(ctx).Create(&unlock).Error
	if err != nil {
		// 并发的重复解锁被唯一约束挡下，第二个写入者按no-op处理
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return &DataUnavailableError{Store: "postgres/badge_unlocks", Err: err}
	}
	return nil
}

// DefaultStatsSource 跨两个数据库聚合使用统计
type DefaultStatsSource struct {
	DB       *gorm.DB
	Checkins *mongo.Collection
	Streaks  *StreakService
	Goals    GoalStore
}

func (s *DefaultStatsSource) UsageStatsFor(ctx context.Context, userID string) (UsageStats, error) {
	var stats UsageStats

	total, err := s.Checkins.CountDocuments(ctx, bson.M{"user_id": userID})
	if err != nil {
		return stats, &DataUnavailableError{Store: "mongodb/checkins", Err: err}
	}
	stats.TotalCheckins = total

	uniqueDays, err := s.countUniqueDays(ctx, userID)
	if err != nil {
		return stats, err
	}
	stats.UniqueDays = uniqueDays

	journalWords, err := s.countJournalWords(ctx, userID)
	if err != nil {
		return stats, err
	}
	stats.JournalWords = journalWords

	if err := s.DB.WithContext(ctx).Model(&models.MoodEntry{}).
		Where("user_id = ?", userID).Count(&stats.MoodEntries).Error; err != nil {
		return stats, &DataUnavailableError{Store: "postgres/mood_entries", Err: err}
	}
	if err := s.DB.WithContext(ctx).Model(&models.MindfulnessSession{}).
		Where("user_id = ?", userID).Count(&stats.MindfulnessSessions).Error; err != nil {
		return stats, &DataUnavailableError{Store: "postgres/mindfulness_sessions", Err: err}
	}

	created, completed, err := s.Goals.CountByUser(ctx, userID)
	if err != nil {
		return stats, err
	}
	stats.GoalsCreated = created
	stats.GoalsCompleted = completed

	streak, err := s.Streaks.OverallStreak(ctx, userID)
	if err != nil {
		return stats, err
	}
	stats.OverallStreak = streak

	return stats, nil
}

func (s *DefaultStatsSource) countUniqueDays(ctx context.Context, userID string) (int64, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"user_id": userID}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id": bson.M{"$dateToString": bson.M{"format": "%Y-%m-%d", "date": "$created_at"}},
		}}},
		bson.D{{Key: "$count", Value: "days"}},
	}
	cursor, err := s.Checkins.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, &DataUnavailableError{Store: "mongodb/checkins", Err: err}
	}
	defer cursor.Close(ctx)

	var results []struct {
		Days int64 `bson:"days"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, &DataUnavailableError{Store: "mongodb/checkins", Err: err}
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].Days, nil
}

func (s *DefaultStatsSource) countJournalWords(ctx context.Context, userID string) (int64, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{
			"user_id": userID,
			"text":    bson.M{"$nin": bson.A{"", nil}},
		}}},
		bson.D{{Key: "$project", Value: bson.M{
			"words": bson.M{"$size": bson.M{"$split": bson.A{"$text", " "}}},
		}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": "$words"},
		}}},
	}
	cursor, err := s.Checkins.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, &DataUnavailableError{Store: "mongodb/checkins", Err: err}
	}
	defer cursor.Close(ctx)

	var results []struct {
		Total int64 `bson:"total"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, &DataUnavailableError{Store: "mongodb/checkins", Err: err}
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].Total, nil
}
