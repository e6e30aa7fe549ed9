package services

import (
	"SoulbloomGo/models"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubCounter 用固定的时间戳列表模拟活动存储
type stubCounter struct {
	times []time.Time
	err   error
}

func (c *stubCounter) Count(ctx context.Context, userID string, start, end time.Time) (int64, error) {
	if c.err != nil {
		return 0, c.err
	}
	var n int64
	for _, t := range c.times {
		if !t.Before(start) && t.Before(end) {
			n++
		}
	}
	return n, nil
}

func day(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return parsed
}

func newTestProgress(counters CounterRegistry, now time.Time) *ProgressService {
	s := NewProgressService(counters)
	s.Now = fixedNow(now)
	return s
}

func TestTimeWindowForDaily(t *testing.T) {
	ref := day(t, "2026-03-10T15:04:05Z")
	window := TimeWindowFor(models.TimeFrameDaily, ref)

	assert.Equal(t, day(t, "2026-03-10T00:00:00Z"), window.Start)
	assert.Equal(t, day(t, "2026-03-11T00:00:00Z"), window.End)
}

func TestTimeWindowForWeeklyIsTrailing(t *testing.T) {
	ref := day(t, "2026-03-10T15:04:05Z")
	window := TimeWindowFor(models.TimeFrameWeekly, ref)

	assert.Equal(t, ref.AddDate(0, 0, -7), window.Start)
	assert.Equal(t, ref, window.End)
}

func TestTimeWindowForMonthlyIsTrailing(t *testing.T) {
	ref := day(t, "2026-03-10T15:04:05Z")
	window := TimeWindowFor(models.TimeFrameMonthly, ref)

	assert.Equal(t, ref.AddDate(0, 0, -30), window.Start)
	assert.Equal(t, ref, window.End)
}

func TestCalculateProgressPercentNeverExceeds100(t *testing.T) {
	now := day(t, "2026-03-10T12:00:00Z")
	counter := &stubCounter{}
	for i := 0; i < 12; i++ {
		counter.times = append(counter.times, now.Add(-time.Duration(i)*time.Minute))
	}
	svc := newTestProgress(CounterRegistry{models.ActivityCheckin: counter}, now)

	goal := models.Goal{UserID: "u1", ActivityType: models.ActivityCheckin, TargetCount: 5, TimeFrame: models.TimeFrameDaily}
	progress, err := svc.CalculateProgress(context.Background(), goal)
	require.NoError(t, err)

	assert.Equal(t, 12, progress.Current)
	assert.Equal(t, 100, progress.PercentComplete)
}

func TestCalculateProgressRounds(t *testing.T) {
	now := day(t, "2026-03-10T12:00:00Z")
	counter := &stubCounter{times: []time.Time{now.Add(-time.Hour)}}
	svc := newTestProgress(CounterRegistry{models.ActivityCheckin: counter}, now)

	goal := models.Goal{UserID: "u1", ActivityType: models.ActivityCheckin, TargetCount: 3, TimeFrame: models.TimeFrameDaily}
	progress, err := svc.CalculateProgress(context.Background(), goal)
	require.NoError(t, err)

	assert.Equal(t, 33, progress.PercentComplete)
}

func TestCalculateProgressOnlyCountsWindow(t *testing.T) {
	now := day(t, "2026-03-10T12:00:00Z")
	counter := &stubCounter{times: []time.Time{
		now.Add(-time.Hour),          // 今天，计入
		now.AddDate(0, 0, -1),        // 昨天，daily窗口外
		day(t, "2026-03-10T00:00:00Z"), // 窗口起点，计入
	}}
	svc := newTestProgress(CounterRegistry{models.ActivityCheckin: counter}, now)

	goal := models.Goal{UserID: "u1", ActivityType: models.ActivityCheckin, TargetCount: 5, TimeFrame: models.TimeFrameDaily}
	progress, err := svc.CalculateProgress(context.Background(), goal)
	require.NoError(t, err)

	assert.Equal(t, 2, progress.Current)
}

func TestIsGoalCompletedIdempotent(t *testing.T) {
	now := day(t, "2026-03-10T12:00:00Z")
	counter := &stubCounter{times: []time.Time{now.Add(-time.Hour), now.Add(-2 * time.Hour)}}
	svc := newTestProgress(CounterRegistry{models.ActivityQuickMood: counter}, now)

	goal := models.Goal{UserID: "u1", ActivityType: models.ActivityQuickMood, TargetCount: 2, TimeFrame: models.TimeFrameDaily}

	for i := 0; i < 3; i++ {
		completed, progress, err := svc.IsGoalCompleted(context.Background(), goal)
		require.NoError(t, err)
		assert.True(t, completed)
		assert.Equal(t, 2, progress.Current)
	}
}

func TestWeeklyGoalRoundTrip(t *testing.T) {
	now := day(t, "2026-03-10T12:00:00Z")
	counter := &stubCounter{times: []time.Time{
		now.AddDate(0, 0, -1),
		now.AddDate(0, 0, -2),
		now.AddDate(0, 0, -3),
		now.AddDate(0, 0, -5),
		now.Add(-time.Hour),
	}}
	svc := newTestProgress(CounterRegistry{models.ActivityMindfulness: counter}, now)

	goal := models.Goal{UserID: "u1", ActivityType: models.ActivityMindfulness, TargetCount: 5, TimeFrame: models.TimeFrameWeekly}
	completed, progress, err := svc.IsGoalCompleted(context.Background(), goal)
	require.NoError(t, err)

	assert.True(t, completed)
	assert.Equal(t, 100, progress.PercentComplete)
}

func TestCalculateProgressDataUnavailable(t *testing.T) {
	now := day(t, "2026-03-10T12:00:00Z")
	counter := &stubCounter{err: &DataUnavailableError{Store: "postgres/mood_entries", Err: errors.New("connection refused")}}
	svc := newTestProgress(CounterRegistry{models.ActivityQuickMood: counter}, now)

	goal := models.Goal{UserID: "u1", ActivityType: models.ActivityQuickMood, TargetCount: 5, TimeFrame: models.TimeFrameDaily}
	_, err := svc.CalculateProgress(context.Background(), goal)

	var dataErr *DataUnavailableError
	require.ErrorAs(t, err, &dataErr)
	assert.Equal(t, "postgres/mood_entries", dataErr.Store)
}

func TestBatchIsolatesFailures(t *testing.T) {
	now := day(t, "2026-03-10T12:00:00Z")
	healthy := &stubCounter{times: []time.Time{now.Add(-time.Hour)}}
	broken := &stubCounter{err: &DataUnavailableError{Store: "mongodb/checkins", Err: errors.New("timeout")}}
	svc := newTestProgress(CounterRegistry{
		models.ActivityQuickMood: healthy,
		models.ActivityCheckin:   broken,
	}, now)

	goals := []models.Goal{
		{ID: "g1", UserID: "u1", ActivityType: models.ActivityQuickMood, TargetCount: 1, TimeFrame: models.TimeFrameDaily},
		{ID: "g2", UserID: "u1", ActivityType: models.ActivityCheckin, TargetCount: 1, TimeFrame: models.TimeFrameDaily},
		{ID: "g3", UserID: "u1", ActivityType: models.ActivityQuickMood, TargetCount: 2, TimeFrame: models.TimeFrameDaily},
	}
	results := svc.CalculateProgressForGoals(context.Background(), goals)
	require.Len(t, results, 3)

	assert.NoError(t, results[0].Err)
	assert.Equal(t, 100, results[0].Progress.PercentComplete)

	var dataErr *DataUnavailableError
	assert.ErrorAs(t, results[1].Err, &dataErr)

	assert.NoError(t, results[2].Err)
	assert.Equal(t, 50, results[2].Progress.PercentComplete)
}

func TestGetTimeRemainingDaily(t *testing.T) {
	now := day(t, "2026-03-10T18:00:00Z")
	svc := newTestProgress(CounterRegistry{}, now)

	remaining := svc.GetTimeRemaining(models.TimeFrameDaily)
	assert.Equal(t, day(t, "2026-03-11T00:00:00Z"), remaining.EndDate)
	assert.Equal(t, 6, remaining.HoursRemaining)
	assert.Equal(t, 0, remaining.DaysRemaining)
}

func TestGetTimeRemainingWeekly(t *testing.T) {
	now := day(t, "2026-03-10T18:00:00Z")
	svc := newTestProgress(CounterRegistry{}, now)

	remaining := svc.GetTimeRemaining(models.TimeFrameWeekly)
	assert.Equal(t, now.AddDate(0, 0, 7), remaining.EndDate)
	assert.Equal(t, 7, remaining.DaysRemaining)
}

func TestUnknownActivityTypeIsValidationError(t *testing.T) {
	now := day(t, "2026-03-10T12:00:00Z")
	svc := newTestProgress(CounterRegistry{}, now)

	goal := models.Goal{UserID: "u1", ActivityType: "swimming", TargetCount: 1, TimeFrame: models.TimeFrameDaily}
	_, err := svc.CalculateProgress(context.Background(), goal)

	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)
}
