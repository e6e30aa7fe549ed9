package services

import (
	"SoulbloomGo/models"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// dayCounter 按日期键模拟"某天是否有活动"
type dayCounter struct {
	days map[string]bool
	err  error
}

func (c *dayCounter) Count(ctx context.Context, userID string, start, end time.Time) (int64, error) {
	if c.err != nil {
		return 0, c.err
	}
	if c.days[start.UTC().Format("2006-01-02")] {
		return 1, nil
	}
	return 0, nil
}

// allDaysCounter 每天都有活动
type allDaysCounter struct{}

func (allDaysCounter) Count(ctx context.Context, userID string, start, end time.Time) (int64, error) {
	return 1, nil
}

func newTestStreak(counters CounterRegistry) *StreakService {
	s := NewStreakService(counters)
	s.Now = fixedNow(time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC))
	return s
}

func TestStreakCountsConsecutiveDays(t *testing.T) {
	counter := &dayCounter{days: map[string]bool{
		"2026-03-10": true,
		"2026-03-09": true,
		"2026-03-08": true,
		// 03-07 断档
		"2026-03-06": true,
	}}
	svc := newTestStreak(CounterRegistry{models.ActivityCheckin: counter})

	streak, err := svc.StreakFor(context.Background(), "u1", models.ActivityCheckin)
	require.NoError(t, err)
	assert.Equal(t, 3, streak)
}

func TestStreakGraceForToday(t *testing.T) {
	// 今天还没打卡，昨天和前天有：宽限期内连续为2
	counter := &dayCounter{days: map[string]bool{
		"2026-03-09": true,
		"2026-03-08": true,
	}}
	svc := newTestStreak(CounterRegistry{models.ActivityCheckin: counter})

	streak, err := svc.StreakFor(context.Background(), "u1", models.ActivityCheckin)
	require.NoError(t, err)
	assert.Equal(t, 2, streak)
}

func TestStreakBrokenWhenTodayAndYesterdayEmpty(t *testing.T) {
	// 宽限只看一次昨天，前天再多记录也算断档
	counter := &dayCounter{days: map[string]bool{
		"2026-03-08": true,
		"2026-03-07": true,
	}}
	svc := newTestStreak(CounterRegistry{models.ActivityCheckin: counter})

	streak, err := svc.StreakFor(context.Background(), "u1", models.ActivityCheckin)
	require.NoError(t, err)
	assert.Equal(t, 0, streak)
}

func TestStreakTodayOnly(t *testing.T) {
	counter := &dayCounter{days: map[string]bool{"2026-03-10": true}}
	svc := newTestStreak(CounterRegistry{models.ActivityCheckin: counter})

	streak, err := svc.StreakFor(context.Background(), "u1", models.ActivityCheckin)
	require.NoError(t, err)
	assert.Equal(t, 1, streak)
}

func TestStreakIsCapped(t *testing.T) {
	svc := newTestStreak(CounterRegistry{models.ActivityCheckin: allDaysCounter{}})

	streak, err := svc.StreakFor(context.Background(), "u1", models.ActivityCheckin)
	require.NoError(t, err)
	assert.Equal(t, maxStreakDays, streak)
}

func TestStreakUnknownActivityType(t *testing.T) {
	svc := newTestStreak(CounterRegistry{})

	_, err := svc.StreakFor(context.Background(), "u1", "swimming")
	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestOverallStreakIsMinimum(t *testing.T) {
	checkins := &dayCounter{days: map[string]bool{
		"2026-03-10": true, "2026-03-09": true, "2026-03-08": true,
	}}
	mindfulness := &dayCounter{days: map[string]bool{
		"2026-03-10": true,
	}}
	moods := &dayCounter{days: map[string]bool{
		"2026-03-10": true, "2026-03-09": true,
	}}
	svc := newTestStreak(CounterRegistry{
		models.ActivityCheckin:     checkins,
		models.ActivityMindfulness: mindfulness,
		models.ActivityQuickMood:   moods,
	})

	overall, err := svc.OverallStreak(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, overall)
}

func TestOverallStreakZeroWhenOneChainBroken(t *testing.T) {
	active := &dayCounter{days: map[string]bool{"2026-03-10": true, "2026-03-09": true}}
	empty := &dayCounter{days: map[string]bool{}}
	svc := newTestStreak(CounterRegistry{
		models.ActivityCheckin:     active,
		models.ActivityMindfulness: empty,
		models.ActivityQuickMood:   active,
	})

	overall, err := svc.OverallStreak(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, overall)
}
