package profile

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/Majdiscode/calinode/internal/telemetry/tracing"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=profile_test

// questRefresher is implemented by the quest tracker: completing an
// assessment both finishes the onboarding assessment quest and forces a
// fresh daily quest set scaled to the new profile.
type questRefresher interface {
	CompleteAssessmentQuest(ctx context.Context, userID string) error
	Regenerate(ctx context.Context, userID string) error
}

type Service struct {
	repo   *Repo
	quests questRefresher
	now    func() time.Time
}

func NewService(repo *Repo, quests questRefresher) *Service {
	return &Service{
		repo:   repo,
		quests: quests,
		now:    time.Now,
	}
}

// CompleteAssessment classifies the measured maxes, persists the new
// capability profile and regenerates the daily quest set around it.
func (s *Service) CompleteAssessment(ctx context.Context, userID string, result AssessmentResult) (_ *CapabilityProfile, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "profileService.completeAssessment")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	multiplier := DefaultWeeklyGoalMultiplier
	if existing, err := s.repo.Get(ctx, userID); err == nil {
		multiplier = existing.WeeklyGoalMultiplier
	}

	p := &CapabilityProfile{
		MaxPushUps:           result.PushUps,
		MaxPullUps:           result.PullUps,
		MaxPlankSeconds:      result.PlankSeconds,
		MaxSquats:            result.Squats,
		FitnessLevel:         Classify(result),
		WeeklyGoalMultiplier: multiplier,
		LastAssessment:       s.now(),
	}

	if err := s.repo.Save(ctx, userID, p); err != nil {
		return nil, fmt.Errorf("save profile for %s: %w", userID, err)
	}

	if err := s.quests.CompleteAssessmentQuest(ctx, userID); err != nil {
		log.Errorf("complete assessment quest for %s: %s", userID, err)
	}
	if err := s.quests.Regenerate(ctx, userID); err != nil {
		return nil, fmt.Errorf("regenerate quests for %s: %w", userID, err)
	}

	return p, nil
}

func (s *Service) GetProfile(ctx context.Context, userID string) (*CapabilityProfile, error) {
	return s.repo.Get(ctx, userID)
}
