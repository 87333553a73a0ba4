package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"screenbreak/internal/core/schedule"
)

func setupTestDB(t *testing.T) *Store {
	t.Helper()
	store := New(filepath.Join(t.TempDir(), "nested", "test.db"))
	require.NoError(t, store.Init(context.Background()), "Failed to initialize test database")
	t.Cleanup(func() {
		assert.NoError(t, store.Close())
	})
	return store
}

func day(offset int, hour int) time.Time {
	return time.Date(2026, time.March, 10+offset, hour, 0, 0, 0, time.Local)
}

func TestSummary_TotalsAndHistory(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	records := []struct {
		kind    schedule.BreakKind
		outcome schedule.Outcome
		at      time.Time
	}{
		{schedule.KindEyeRest, schedule.OutcomeTaken, day(-2, 9)},
		{schedule.KindMicroPause, schedule.OutcomeSkipped, day(-2, 11)},
		{schedule.KindEyeRest, schedule.OutcomeTaken, day(-1, 10)},
		{schedule.KindScheduled, schedule.OutcomeTaken, day(0, 9)},
		{schedule.KindEyeRest, schedule.OutcomeTaken, day(0, 10)},
		{schedule.KindEyeRest, schedule.OutcomeSkipped, day(0, 11)},
		{schedule.KindEyeRest, schedule.OutcomeTaken, day(-20, 10)},
	}
	for _, record := range records {
		require.NoError(t, store.RecordBreak(ctx, record.kind, record.outcome, record.at))
	}

	summary, err := store.Summary(ctx, day(0, 18), 7)
	require.NoError(t, err)

	assert.Equal(t, Counts{Taken: 1, Skipped: 1}, summary.Today[schedule.KindEyeRest])
	assert.Equal(t, Counts{Taken: 1}, summary.Today[schedule.KindScheduled])
	assert.Equal(t, Counts{Taken: 4, Skipped: 1}, summary.Lifetime[schedule.KindEyeRest])
	assert.Equal(t, Counts{Skipped: 1}, summary.Lifetime[schedule.KindMicroPause])

	require.Len(t, summary.History, 7)
	assert.Equal(t, schedule.DateOf(day(-6, 12)), summary.History[0].Date)
	assert.Equal(t, schedule.DateOf(day(0, 12)), summary.History[6].Date)
	assert.Equal(t, 2, summary.History[6].TotalTaken())
	assert.Equal(t, 1, summary.History[5].TotalTaken())
	assert.Equal(t, 0, summary.History[3].TotalTaken())

	assert.Equal(t, 3, summary.Streak)
}

func TestSummary_StreakSurvivesUntilTodaysFirstBreak(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, store.RecordBreak(ctx, schedule.KindEyeRest, schedule.OutcomeTaken, day(-2, 9)))
	require.NoError(t, store.RecordBreak(ctx, schedule.KindEyeRest, schedule.OutcomeTaken, day(-1, 9)))

	summary, err := store.Summary(ctx, day(0, 8), 7)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Streak)

	summary, err = store.Summary(ctx, day(1, 8), 7)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Streak)
}

func TestSummary_SkippedDoesNotExtendStreak(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, store.RecordBreak(ctx, schedule.KindMicroPause, schedule.OutcomeSkipped, day(0, 9)))

	summary, err := store.Summary(ctx, day(0, 18), 7)
	require.NoError(t, err)
	assert.Zero(t, summary.Streak)
}

func TestClockState_SaveAndLoad(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	_, ok, err := store.LoadClock(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	now := day(0, 12)
	snapshot := schedule.Snapshot{
		SavedAt:        now,
		LastEyeRest:    now.Add(-5 * time.Minute),
		LastMicroPause: now.Add(-30 * time.Minute),
		LastAnyBreak:   now.Add(-5 * time.Minute),
		Acknowledged: map[string]schedule.Date{
			"09:45": schedule.DateOf(now),
			"11:30": schedule.DateOf(now),
		},
	}
	require.NoError(t, store.SaveClock(ctx, snapshot))

	snapshot.LastEyeRest = now.Add(-time.Minute)
	delete(snapshot.Acknowledged, "11:30")
	require.NoError(t, store.SaveClock(ctx, snapshot))

	loaded, ok, err := store.LoadClock(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, loaded.SavedAt.Equal(now))
	assert.True(t, loaded.LastEyeRest.Equal(now.Add(-time.Minute)))
	assert.True(t, loaded.LastMicroPause.Equal(now.Add(-30*time.Minute)))
	assert.Equal(t, map[string]schedule.Date{"09:45": schedule.DateOf(now)}, loaded.Acknowledged)
}
