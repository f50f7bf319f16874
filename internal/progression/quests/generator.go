package quests

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/Majdiscode/calinode/internal/progression/events"
	"github.com/Majdiscode/calinode/internal/progression/profile"
	"github.com/Majdiscode/calinode/internal/telemetry/metrics"
	"github.com/Majdiscode/calinode/internal/telemetry/tracing"
)

// Reward amounts per difficulty tier.
const (
	starterXP       = 50
	starterCoins    = 10
	challengerXP    = 100
	challengerCoins = 25
	beastModeXP     = 200
	beastModeCoins  = 50

	assessmentXP    = 25
	assessmentCoins = 5
)

const challengerMinTargetReps = 5

const dayFormat = "2006-01-02"

func sameDay(a, b time.Time) bool {
	return a.Format(dayFormat) == b.Format(dayFormat)
}

// Generator builds the daily quest set for a user, scaled to their
// capability profile when one exists.
type Generator struct {
	profiles *profile.Repo
	repo     *Repo
	metrics  *metrics.Manager
	randIntn func(n int) int
	now      func() time.Time
}

func NewGenerator(profiles *profile.Repo, repo *Repo, metricsManager *metrics.Manager) *Generator {
	return &Generator{
		profiles: profiles,
		repo:     repo,
		metrics:  metricsManager,
		randIntn: rand.Intn,
		now:      time.Now,
	}
}

// EnsureDailyQuests returns the user's quest set for today, generating and
// persisting a fresh one only when the stored set is from an earlier day.
// Idempotent within a calendar day.
func (g *Generator) EnsureDailyQuests(ctx context.Context, userID string) (_ *DailySet, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "questsGenerator.ensureDailyQuests")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	existing, err := g.repo.GetDailySet(ctx, userID)
	if err != nil && !errors.Is(err, ErrNoDailySet) {
		return nil, err
	}
	if existing != nil && sameDay(existing.GeneratedDay(), g.now()) {
		log.Tracef("daily quests for %s already generated, reusing", userID)
		return existing, nil
	}

	return g.Regenerate(ctx, userID)
}

// Regenerate builds, persists and archives a fresh daily quest set,
// replacing whatever set was stored before.
func (g *Generator) Regenerate(ctx context.Context, userID string) (_ *DailySet, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "questsGenerator.regenerate")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	now := g.now()

	var p *profile.CapabilityProfile
	p, err = g.profiles.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, profile.ErrProfileNotFound) {
			return nil, err
		}
		p = nil
	}

	ds := &DailySet{
		Quests:      g.generateSet(p, now),
		GeneratedAt: now,
	}

	if err := g.repo.SaveDailySet(ctx, userID, ds); err != nil {
		return nil, fmt.Errorf("persist daily quests for %s: %w", userID, err)
	}
	if err := g.repo.ArchiveDay(ctx, userID, Summarize(ds, now.Format(dayFormat))); err != nil {
		return nil, fmt.Errorf("archive daily quests for %s: %w", userID, err)
	}

	g.metrics.CounterQuestSetsGenerated.Inc()
	log.Debugf("generated %d daily quests for user %s", len(ds.Quests), userID)

	return ds, nil
}

// generateSet produces one quest per tier, or the two fixed onboarding
// quests when the user never completed an assessment.
func (g *Generator) generateSet(p *profile.CapabilityProfile, now time.Time) []Quest {
	expiration := now.Add(24 * time.Hour)

	if p == nil {
		return []Quest{
			{
				ID:             uuid.NewString(),
				Title:          "Start Your Journey",
				Description:    "Complete your first workout",
				Emoji:          "🚀",
				Type:           TypeWorkoutCompletion,
				Difficulty:     DifficultyStarter,
				Action:         ActionStartWorkout,
				TargetValue:    1,
				XPReward:       starterXP,
				CoinReward:     starterCoins,
				ExpirationDate: expiration,
			},
			{
				ID:             uuid.NewString(),
				Title:          "Take the Assessment",
				Description:    "Measure your maxes to unlock scaled quests",
				Emoji:          "📋",
				Type:           TypeExploration,
				Difficulty:     DifficultyStarter,
				Action:         ActionOpenAssessment,
				TargetValue:    1,
				XPReward:       assessmentXP,
				CoinReward:     assessmentCoins,
				ExpirationDate: expiration,
			},
		}
	}

	return []Quest{
		g.starterQuest(expiration),
		g.challengerQuest(p, expiration),
		g.beastModeQuest(p, expiration),
	}
}

// starterQuest is picked from a small fixed pool, choice is random
// by design.
func (g *Generator) starterQuest(expiration time.Time) Quest {
	if g.randIntn(2) == 0 {
		return Quest{
			ID:             uuid.NewString(),
			Title:          "Show Up",
			Description:    "Complete 1 workout today",
			Emoji:          "🏃",
			Type:           TypeWorkoutCompletion,
			Difficulty:     DifficultyStarter,
			Action:         ActionStartWorkout,
			TargetValue:    1,
			XPReward:       starterXP,
			CoinReward:     starterCoins,
			ExpirationDate: expiration,
		}
	}
	return Quest{
		ID:             uuid.NewString(),
		Title:          "Move for 2 Minutes",
		Description:    "Train for at least 2 minutes",
		Emoji:          "⏱️",
		Type:           TypeTimeBased,
		Difficulty:     DifficultyStarter,
		Action:         ActionStartWorkout,
		TargetValue:    120,
		XPReward:       starterXP,
		CoinReward:     starterCoins,
		ExpirationDate: expiration,
	}
}

func (g *Generator) challengerQuest(p *profile.CapabilityProfile, expiration time.Time) Quest {
	if p.MaxPushUps == 0 {
		return Quest{
			ID:             uuid.NewString(),
			Title:          "Train for 15 Minutes",
			Description:    "Put in a solid 15 minute session",
			Emoji:          "💪",
			Type:           TypeTimeBased,
			Difficulty:     DifficultyChallenger,
			Action:         ActionStartWorkout,
			TargetValue:    900,
			XPReward:       challengerXP,
			CoinReward:     challengerCoins,
			ExpirationDate: expiration,
		}
	}

	target := int(math.Floor(float64(p.MaxPushUps) * p.WeeklyGoalMultiplier * 0.8))
	if target < challengerMinTargetReps {
		target = challengerMinTargetReps
	}
	return Quest{
		ID:             uuid.NewString(),
		Title:          "Push-Up Challenge",
		Description:    fmt.Sprintf("Hit %d push-ups across today's workout", target),
		Emoji:          "💪",
		Type:           TypeRepsBased,
		Difficulty:     DifficultyChallenger,
		Action:         ActionStartWorkout,
		ExerciseID:     events.ExercisePushUps,
		TargetValue:    target,
		XPReward:       challengerXP,
		CoinReward:     challengerCoins,
		ExpirationDate: expiration,
	}
}

func (g *Generator) beastModeQuest(p *profile.CapabilityProfile, expiration time.Time) Quest {
	if p.MaxPushUps == 0 {
		return Quest{
			ID:             uuid.NewString(),
			Title:          "Train for 30 Minutes",
			Description:    "Go long: a full 30 minute session",
			Emoji:          "🔥",
			Type:           TypeTimeBased,
			Difficulty:     DifficultyBeastMode,
			Action:         ActionStartWorkout,
			TargetValue:    1800,
			XPReward:       beastModeXP,
			CoinReward:     beastModeCoins,
			ExpirationDate: expiration,
		}
	}

	target := int(math.Floor(float64(p.MaxPushUps) * 1.1))
	return Quest{
		ID:             uuid.NewString(),
		Title:          "Beast Mode: Beyond Limits",
		Description:    fmt.Sprintf("Beat your push-up best: %d reps in one workout", target),
		Emoji:          "🔥",
		Type:           TypeImprovement,
		Difficulty:     DifficultyBeastMode,
		Action:         ActionStartWorkout,
		ExerciseID:     events.ExercisePushUps,
		TargetValue:    target,
		XPReward:       beastModeXP,
		CoinReward:     beastModeCoins,
		ExpirationDate: expiration,
	}
}
