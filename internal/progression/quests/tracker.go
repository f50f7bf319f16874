package quests

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/Majdiscode/calinode/internal/progression/events"
	"github.com/Majdiscode/calinode/internal/progression/profile"
	"github.com/Majdiscode/calinode/internal/progression/progress"
	"github.com/Majdiscode/calinode/internal/progression/readiness"
	"github.com/Majdiscode/calinode/internal/progression/streaks"
	"github.com/Majdiscode/calinode/internal/telemetry/metrics"
	"github.com/Majdiscode/calinode/internal/telemetry/tracing"
)

// Tracker applies finished workouts to the day's quest set and keeps the
// progression ledger, streaks and readiness tests in sync.
type Tracker struct {
	repo         *Repo
	generator    *Generator
	progressRepo *progress.Repo
	profiles     *profile.Repo
	streaks      *streaks.Tracker
	detector     *readiness.Detector
	metrics      *metrics.Manager
	now          func() time.Time
}

func NewTracker(
	repo *Repo,
	generator *Generator,
	progressRepo *progress.Repo,
	profiles *profile.Repo,
	streaksTracker *streaks.Tracker,
	detector *readiness.Detector,
	metricsManager *metrics.Manager,
) *Tracker {
	return &Tracker{
		repo:         repo,
		generator:    generator,
		progressRepo: progressRepo,
		profiles:     profiles,
		streaks:      streaksTracker,
		detector:     detector,
		metrics:      metricsManager,
		now:          time.Now,
	}
}

// UpdateQuestProgress applies one finished workout to every non-completed
// quest of the day, recomputing each quest's progress in full from the
// event. Completion is terminal: a quest awards its rewards exactly once.
func (t *Tracker) UpdateQuestProgress(ctx context.Context, userID string, event events.WorkoutEvent) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "questsTracker.updateProgress")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	// always go through the generator: a stored set from an earlier day is
	// expired and must be replaced before the workout is applied to it
	ds, err := t.generator.EnsureDailyQuests(ctx, userID)
	if err != nil {
		return err
	}

	up, err := t.progressRepo.Get(ctx, userID)
	if err != nil {
		return err
	}

	// a fresh set rolled in since the flags were last raised
	if up.AllQuestsCompletedToday && !ds.AllCompleted() {
		up.AllQuestsCompletedToday = false
		up.ShowTomorrowPreview = false
	}

	for i := range ds.Quests {
		q := &ds.Quests[i]
		if q.IsCompleted {
			continue
		}
		t.applyEvent(ctx, userID, q, up, event)
	}

	finishedAt := event.FinishedAt
	up.LastWorkoutDate = &finishedAt
	for _, exerciseID := range event.ExerciseIDs() {
		up.RecordPerformance(exerciseID, event.BestSetReps(exerciseID))
	}

	if unlocked := t.detector.DetectNewTests(up); len(unlocked) > 0 {
		up.AvailableReadinessTests = append(up.AvailableReadinessTests, unlocked...)
		t.metrics.CounterReadinessTestsUnlocked.Add(float64(len(unlocked)))
		for _, test := range unlocked {
			log.Debugf("readiness test %s unlocked for user %s", test.TargetSkillID, userID)
		}
	}

	if event.Completed {
		s, err := t.streaks.RecordWorkout(ctx, userID, t.now())
		if err != nil {
			return fmt.Errorf("record workout streak: %w", err)
		}
		up.CurrentStreak = s.CurrentWorkoutStreak
		up.LongestStreak = s.LongestWorkoutStreak
	}

	if ds.AllCompleted() && !up.AllQuestsCompletedToday {
		up.AllQuestsCompletedToday = true
		up.ShowTomorrowPreview = true
		if _, err := t.streaks.RecordQuestCompletion(ctx, userID, t.now()); err != nil {
			return fmt.Errorf("record quest streak: %w", err)
		}
	}

	return t.persist(ctx, userID, ds, up)
}

// applyEvent recomputes one quest's progress from the workout event and
// completes the quest when the target is reached.
func (t *Tracker) applyEvent(ctx context.Context, userID string, q *Quest, up *progress.UserProgress, event events.WorkoutEvent) {
	switch q.Type {
	case TypeWorkoutCompletion:
		if event.Completed {
			q.Progress = 1
		}
	case TypeExploration:
		// assessment quests are finished by the assessment itself
		if q.Action == ActionOpenAssessment {
			return
		}
		if event.Completed {
			q.Progress = 1
		}
	case TypeTimeBased:
		q.Progress = event.DurationSeconds()
	case TypeRepsBased, TypeImprovement:
		q.Progress = event.TotalReps(q.ExerciseID)
	case TypeConsistency:
		// reserved for streak based rules, not driven by single workouts
		return
	}

	if q.Progress < q.TargetValue {
		return
	}
	t.completeQuest(q, up)

	if q.Type == TypeImprovement {
		t.raisePersonalBest(ctx, userID, q.ExerciseID, q.Progress)
	}
}

func (t *Tracker) completeQuest(q *Quest, up *progress.UserProgress) {
	q.IsCompleted = true
	up.AwardQuest(q.ID, q.XPReward, q.CoinReward)
	t.metrics.CounterQuestsCompleted.Inc()
}

// raisePersonalBest lifts the stored push-up maximum when an improvement
// quest was beaten with a higher total.
func (t *Tracker) raisePersonalBest(ctx context.Context, userID, exerciseID string, achieved int) {
	if exerciseID != events.ExercisePushUps {
		return
	}
	p, err := t.profiles.Get(ctx, userID)
	if err != nil {
		log.Errorf("raise personal best for %s: %s", userID, err)
		return
	}
	if achieved <= p.MaxPushUps {
		return
	}
	p.MaxPushUps = achieved
	if err := t.profiles.Save(ctx, userID, p); err != nil {
		log.Errorf("save raised personal best for %s: %s", userID, err)
	}
}

// CompleteAssessmentQuest finishes the onboarding assessment quest, if one
// is pending, and credits its rewards.
func (t *Tracker) CompleteAssessmentQuest(ctx context.Context, userID string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "questsTracker.completeAssessmentQuest")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	ds, err := t.repo.GetDailySet(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNoDailySet) {
			return nil
		}
		return err
	}

	var assessmentQuest *Quest
	for i := range ds.Quests {
		q := &ds.Quests[i]
		if q.Action == ActionOpenAssessment && !q.IsCompleted {
			assessmentQuest = q
			break
		}
	}
	if assessmentQuest == nil {
		return nil
	}

	up, err := t.progressRepo.Get(ctx, userID)
	if err != nil {
		return err
	}

	assessmentQuest.Progress = assessmentQuest.TargetValue
	t.completeQuest(assessmentQuest, up)

	if ds.AllCompleted() && !up.AllQuestsCompletedToday {
		up.AllQuestsCompletedToday = true
		up.ShowTomorrowPreview = true
		if _, err := t.streaks.RecordQuestCompletion(ctx, userID, t.now()); err != nil {
			return fmt.Errorf("record quest streak: %w", err)
		}
	}

	return t.persist(ctx, userID, ds, up)
}

// Regenerate forces a fresh daily quest set and clears the daily
// completion flags on the ledger.
func (t *Tracker) Regenerate(ctx context.Context, userID string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "questsTracker.regenerate")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if _, err := t.generator.Regenerate(ctx, userID); err != nil {
		return err
	}

	up, err := t.progressRepo.Get(ctx, userID)
	if err != nil {
		return err
	}
	up.AllQuestsCompletedToday = false
	up.ShowTomorrowPreview = false
	return t.progressRepo.Save(ctx, userID, up)
}

// Reset wipes the user's current quest set and quest history.
func (t *Tracker) Reset(ctx context.Context, userID string) error {
	return t.repo.Reset(ctx, userID)
}

func (t *Tracker) persist(ctx context.Context, userID string, ds *DailySet, up *progress.UserProgress) error {
	if err := t.repo.SaveDailySet(ctx, userID, ds); err != nil {
		return err
	}
	if err := t.repo.ArchiveDay(ctx, userID, Summarize(ds, t.now().Format(dayFormat))); err != nil {
		return err
	}
	return t.progressRepo.Save(ctx, userID, up)
}
