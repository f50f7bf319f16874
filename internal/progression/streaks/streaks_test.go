package streaks_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/Majdiscode/calinode/internal/docstore"
	"github.com/Majdiscode/calinode/internal/progression/streaks"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestStreakData_ConsecutiveDays(t *testing.T) {
	now := time.Date(2026, 8, 31, 14, 0, 0, 0, time.UTC)
	s := streaks.NewStreakData()

	require.True(t, s.RecordWorkoutCompletion(now.AddDate(0, 0, -2)))
	require.True(t, s.RecordWorkoutCompletion(now.AddDate(0, 0, -1)))
	require.True(t, s.RecordWorkoutCompletion(now))

	assert.Equal(t, 3, s.CurrentWorkoutStreak)
	assert.Equal(t, 3, s.LongestWorkoutStreak)
	assert.True(t, s.IsWorkoutStreakActive(now))
}

func TestStreakData_GapResetsStreak(t *testing.T) {
	now := time.Date(2026, 8, 31, 14, 0, 0, 0, time.UTC)
	s := streaks.NewStreakData()

	require.True(t, s.RecordWorkoutCompletion(now.AddDate(0, 0, -5)))
	require.True(t, s.RecordWorkoutCompletion(now))

	assert.Equal(t, 1, s.CurrentWorkoutStreak)
	assert.Equal(t, 1, s.LongestWorkoutStreak)
}

func TestStreakData_RecordIsIdempotentPerDay(t *testing.T) {
	now := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	s := streaks.NewStreakData()

	require.True(t, s.RecordWorkoutCompletion(now))
	assert.False(t, s.RecordWorkoutCompletion(now))
	assert.False(t, s.RecordWorkoutCompletion(now.Add(5*time.Hour)))

	assert.Len(t, s.WorkoutDates, 1)
	assert.Equal(t, 1, s.CurrentWorkoutStreak)
}

func TestStreakData_LongestIsRunningMax(t *testing.T) {
	now := time.Date(2026, 8, 31, 14, 0, 0, 0, time.UTC)
	s := streaks.NewStreakData()

	// three day run, then a gap, then a single day
	s.RecordWorkoutCompletion(now.AddDate(0, 0, -9))
	s.RecordWorkoutCompletion(now.AddDate(0, 0, -8))
	s.RecordWorkoutCompletion(now.AddDate(0, 0, -7))
	s.RecordWorkoutCompletion(now)

	assert.Equal(t, 1, s.CurrentWorkoutStreak)
	assert.Equal(t, 3, s.LongestWorkoutStreak)
}

func TestStreakData_ActivePredicates(t *testing.T) {
	now := time.Date(2026, 8, 31, 14, 0, 0, 0, time.UTC)

	s := streaks.NewStreakData()
	assert.False(t, s.IsWorkoutStreakActive(now))

	s.RecordWorkoutCompletion(now.AddDate(0, 0, -1))
	assert.True(t, s.IsWorkoutStreakActive(now))
	assert.False(t, s.IsWorkoutStreakActive(now.AddDate(0, 0, 1)))

	s.RecordQuestCompletion(now.AddDate(0, 0, -2))
	assert.False(t, s.IsQuestStreakActive(now))
}

func TestStreakData_QuestStreakIndependent(t *testing.T) {
	now := time.Date(2026, 8, 31, 14, 0, 0, 0, time.UTC)
	s := streaks.NewStreakData()

	s.RecordWorkoutCompletion(now.AddDate(0, 0, -1))
	s.RecordWorkoutCompletion(now)
	s.RecordQuestCompletion(now)

	assert.Equal(t, 2, s.CurrentWorkoutStreak)
	assert.Equal(t, 1, s.CurrentQuestStreak)
}

func TestStreakData_WeeklyView(t *testing.T) {
	now := time.Date(2026, 8, 31, 14, 0, 0, 0, time.UTC)
	s := streaks.NewStreakData()

	s.RecordWorkoutCompletion(now)
	s.RecordWorkoutCompletion(now.AddDate(0, 0, -3))

	view := s.WeeklyWorkoutView(now)
	require.Len(t, view, 7)
	assert.Equal(t, "2026-08-25", view[0].Date)
	assert.Equal(t, "2026-08-31", view[6].Date)
	assert.True(t, view[6].Completed)
	assert.True(t, view[3].Completed)
	assert.False(t, view[0].Completed)
}

func TestStreakData_MonthlyRatio(t *testing.T) {
	// 10th of the month, 5 workout days so far
	now := time.Date(2026, 8, 10, 14, 0, 0, 0, time.UTC)
	s := streaks.NewStreakData()
	for i := 0; i < 5; i++ {
		s.RecordWorkoutCompletion(now.AddDate(0, 0, -i))
	}
	// previous month days never count
	s.RecordWorkoutCompletion(time.Date(2026, 7, 20, 0, 0, 0, 0, time.UTC))

	assert.InDelta(t, 0.5, s.MonthlyWorkoutRatio(now), 0.0001)
	assert.Zero(t, s.MonthlyQuestRatio(now))
}

func TestTracker_RecordAndReset(t *testing.T) {
	ctx := context.Background()
	store, err := docstore.NewDisk(t.TempDir())
	require.NoError(t, err)
	tracker := streaks.NewTracker(streaks.NewRepo(store))

	now := time.Date(2026, 8, 31, 14, 0, 0, 0, time.UTC)

	s, err := tracker.RecordWorkout(ctx, "user-a", now.AddDate(0, 0, -1))
	require.NoError(t, err)
	assert.Equal(t, 1, s.CurrentWorkoutStreak)

	s, err = tracker.RecordWorkout(ctx, "user-a", now)
	require.NoError(t, err)
	assert.Equal(t, 2, s.CurrentWorkoutStreak)

	// persisted across loads
	s, err = tracker.Get(ctx, "user-a")
	require.NoError(t, err)
	assert.Equal(t, 2, s.CurrentWorkoutStreak)
	assert.Len(t, s.WorkoutDates, 2)

	require.NoError(t, tracker.Reset(ctx, "user-a"))
	s, err = tracker.Get(ctx, "user-a")
	require.NoError(t, err)
	assert.Empty(t, s.WorkoutDates)
	assert.Zero(t, s.CurrentWorkoutStreak)
}
