package services

import (
	"SoulbloomGo/models"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// ActivityCounter 统计某用户在[start, end)内的合格活动数。
// 目标进度引擎只依赖这个接口，不关心活动存在哪个库。
type ActivityCounter interface {
	Count(ctx context.Context, userID string, start, end time.Time) (int64, error)
}

// CounterRegistry 按活动类型路由到对应存储的计数器
type CounterRegistry map[models.ActivityType]ActivityCounter

// NewCounterRegistry 组装默认路由：签到/日记走MongoDB，心情/练习走PostgreSQL
func NewCounterRegistry(db *gorm.DB, checkins *mongo.Collection) CounterRegistry {
	return CounterRegistry{
		models.ActivityCheckin:     &CheckinCounter{Checkins: checkins},
		models.ActivityJournaling:  &JournalCounter{Checkins: checkins},
		models.ActivityQuickMood:   &MoodCounter{DB: db},
		models.ActivityMindfulness: &SessionCounter{DB: db, Kind: models.SessionMindfulness},
		models.ActivityBreathing:   &SessionCounter{DB: db, Kind: models.SessionBreathing},
	}
}

// CheckinCounter 统计MongoDB中的签到文档
type CheckinCounter struct {
	Checkins *mongo.Collection
}

func (c *CheckinCounter) Count(ctx context.Context, userID string, start, end time.Time) (int64, error) {
	filter := bson.M{
		"user_id":    userID,
		"created_at": bson.M{"$gte": start, "$lt": end},
	}
	n, err := c.Checkins.CountDocuments(ctx, filter)
	if err != nil {
		return 0, &DataUnavailableError{Store: "mongodb/checkins", Err: err}
	}
	return n, nil
}

// JournalCounter 统计带有非空正文的签到文档，空文本的签到不算日记
type JournalCounter struct {
	Checkins *mongo.Collection
}

func (c *JournalCounter) Count(ctx context.Context, userID string, start, end time.Time) (int64, error) {
	filter := bson.M{
		"user_id":    userID,
		"created_at": bson.M{"$gte": start, "$lt": end},
		"text":       bson.M{"$nin": bson.A{"", nil}},
	}
	n, err := c.Checkins.CountDocuments(ctx, filter)
	if err != nil {
		return 0, &DataUnavailableError{Store: "mongodb/checkins", Err: err}
	}
	return n, nil
}

// MoodCounter 统计PostgreSQL中的快速心情记录
type MoodCounter struct {
	DB *gorm.DB
}

func (c *MoodCounter) Count(ctx context.Context, userID string, start, end time.Time) (int64, error) {
	var n int64
	err := c.DB.WithContext(ctx).Model(&models.MoodEntry{}).
		Where("user_id = ? AND recorded_at >= ? AND recorded_at < ?", userID, start, end).
		Count(&n).Error
	if err != nil {
		return 0, &DataUnavailableError{Store: "postgres/mood_entries", Err: err}
	}
	return n, nil
}

// SessionCounter 统计PostgreSQL中指定类型的练习完成记录
type SessionCounter struct {
	DB   *gorm.DB
	Kind string
}

func (c *SessionCounter) Count(ctx context.Context, userID string, start, end time.Time) (int64, error) {
	var n int64
	err := c.DB.WithContext(ctx).Model(&models.MindfulnessSession{}).
		Where("user_id = ? AND kind = ? AND completed_at >= ? AND completed_at < ?", userID, c.Kind, start, end).
		Count(&n).Error
	if err != nil {
		return 0, &DataUnavailableError{Store: "postgres/mindfulness_sessions", Err: err}
	}
	return n, nil
}
