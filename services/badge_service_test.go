package services

import (
	"SoulbloomGo/models"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubStats 固定的使用统计
type stubStats struct {
	stats UsageStats
	err   error
}

func (s *stubStats) UsageStatsFor(ctx context.Context, userID string) (UsageStats, error) {
	return s.stats, s.err
}

// memBadgeStore BadgeStore的内存实现，重复插入模拟唯一约束的no-op行为
type memBadgeStore struct {
	mu        sync.Mutex
	unlocks   map[string]time.Time
	failBadge string
}

func newMemBadgeStore() *memBadgeStore {
	return &memBadgeStore{unlocks: make(map[string]time.Time)}
}

func (s *memBadgeStore) UnlockedSet(ctx context.Context, userID string) (map[string]time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	set := make(map[string]time.Time, len(s.unlocks))
	for id, at := range s.unlocks {
		set[id] = at
	}
	return set, nil
}

func (s *memBadgeStore) Insert(ctx context.Context, unlock models.BadgeUnlock) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if unlock.BadgeID == s.failBadge {
		return &DataUnavailableError{Store: "postgres/badge_unlocks", Err: errors.New("down")}
	}
	if _, exists := s.unlocks[unlock.BadgeID]; exists {
		return nil
	}
	s.unlocks[unlock.BadgeID] = unlock.UnlockedAt
	return nil
}

// recordDispatcher 收集派发的通知
type recordDispatcher struct {
	mu    sync.Mutex
	types []string
}

func (d *recordDispatcher) Dispatch(ctx context.Context, userID, notifType, title, body string, data map[string]string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.types = append(d.types, notifType)
	return nil
}

func newTestBadges(stats UsageStats) (*BadgeService, *memBadgeStore, *recordDispatcher) {
	store := newMemBadgeStore()
	dispatcher := &recordDispatcher{}
	svc := NewBadgeService(&stubStats{stats: stats}, store, dispatcher)
	svc.Now = fixedNow(time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))
	return svc, store, dispatcher
}

func badgeIDs(unlocks []models.BadgeUnlock) []string {
	var ids []string
	for _, u := range unlocks {
		ids = append(ids, u.BadgeID)
	}
	return ids
}

func TestEvaluateUnlocksFirstCheckin(t *testing.T) {
	svc, _, dispatcher := newTestBadges(UsageStats{TotalCheckins: 1})

	unlocks, err := svc.Evaluate(context.Background(), "u1")
	require.NoError(t, err)

	assert.Equal(t, []string{"first_checkin"}, badgeIDs(unlocks))
	assert.Equal(t, []string{"badge_unlocked"}, dispatcher.types)
}

func TestEvaluateIsIdempotent(t *testing.T) {
	svc, _, dispatcher := newTestBadges(UsageStats{TotalCheckins: 1})

	first, err := svc.Evaluate(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, first, 1)

	// 统计没变，第二轮不应再解锁或再通知
	second, err := svc.Evaluate(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, second)
	assert.Len(t, dispatcher.types, 1)
}

func TestEvaluatePredicateThresholds(t *testing.T) {
	svc, _, _ := newTestBadges(UsageStats{OverallStreak: 7})

	unlocks, err := svc.Evaluate(context.Background(), "u1")
	require.NoError(t, err)

	ids := badgeIDs(unlocks)
	assert.Contains(t, ids, "week_streak")
	assert.NotContains(t, ids, "month_streak")
}

func TestEvaluateUnlocksMultipleAtOnce(t *testing.T) {
	svc, _, _ := newTestBadges(UsageStats{
		TotalCheckins:  12,
		GoalsCreated:   2,
		GoalsCompleted: 10,
	})

	unlocks, err := svc.Evaluate(context.Background(), "u1")
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"first_checkin", "checkin_10", "goal_setter", "goal_crusher"}, badgeIDs(unlocks))
}

func TestEvaluateInsertFailureSkipsOnlyThatBadge(t *testing.T) {
	store := newMemBadgeStore()
	store.failBadge = "first_checkin"
	svc := NewBadgeService(&stubStats{stats: UsageStats{TotalCheckins: 1, GoalsCreated: 1}}, store, nil)
	svc.Now = fixedNow(time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))

	unlocks, err := svc.Evaluate(context.Background(), "u1")
	require.NoError(t, err)

	// 写入失败的徽章跳过，其余照常解锁，下一轮还会重试
	assert.Equal(t, []string{"goal_setter"}, badgeIDs(unlocks))
}

func TestEvaluateStatsFailurePropagates(t *testing.T) {
	store := newMemBadgeStore()
	svc := NewBadgeService(&stubStats{err: &DataUnavailableError{Store: "mongodb/checkins", Err: errors.New("down")}}, store, nil)

	_, err := svc.Evaluate(context.Background(), "u1")
	var dataErr *DataUnavailableError
	assert.ErrorAs(t, err, &dataErr)
}

func TestListBadgesMarksUnlocked(t *testing.T) {
	svc, _, _ := newTestBadges(UsageStats{TotalCheckins: 1})

	_, err := svc.Evaluate(context.Background(), "u1")
	require.NoError(t, err)

	infos, err := svc.ListBadges(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, infos, len(badgeDefs))

	unlocked := 0
	for _, info := range infos {
		if info.Unlocked {
			unlocked++
			assert.Equal(t, "first_checkin", info.BadgeID)
			assert.NotNil(t, info.UnlockedAt)
		} else {
			assert.Nil(t, info.UnlockedAt)
		}
	}
	assert.Equal(t, 1, unlocked)
}
