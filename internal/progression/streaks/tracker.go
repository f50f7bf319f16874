package streaks

import (
	"context"
	"fmt"
	"time"

	"github.com/Majdiscode/calinode/internal/telemetry/tracing"
)

// Tracker loads, updates and persists streak ledgers.
type Tracker struct {
	repo *Repo
}

func NewTracker(repo *Repo) *Tracker {
	return &Tracker{repo: repo}
}

func (t *Tracker) Get(ctx context.Context, userID string) (*StreakData, error) {
	return t.repo.Get(ctx, userID)
}

// RecordWorkout marks the given day as a workout day and persists the
// updated ledger. Safe to call multiple times per day.
func (t *Tracker) RecordWorkout(ctx context.Context, userID string, day time.Time) (_ *StreakData, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "streaksTracker.recordWorkout")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	s, err := t.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !s.RecordWorkoutCompletion(day) {
		return s, nil
	}
	if err := t.repo.Save(ctx, userID, s); err != nil {
		return nil, fmt.Errorf("record workout for %s: %w", userID, err)
	}
	return s, nil
}

// RecordQuestCompletion marks the given day as an all-quests-completed day
// and persists the updated ledger. Safe to call multiple times per day.
func (t *Tracker) RecordQuestCompletion(ctx context.Context, userID string, day time.Time) (_ *StreakData, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "streaksTracker.recordQuestCompletion")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	s, err := t.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !s.RecordQuestCompletion(day) {
		return s, nil
	}
	if err := t.repo.Save(ctx, userID, s); err != nil {
		return nil, fmt.Errorf("record quest completion for %s: %w", userID, err)
	}
	return s, nil
}

func (t *Tracker) Reset(ctx context.Context, userID string) error {
	return t.repo.Reset(ctx, userID)
}
