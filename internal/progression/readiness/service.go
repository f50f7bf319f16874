package readiness

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/Majdiscode/calinode/internal/progression/progress"
	"github.com/Majdiscode/calinode/internal/telemetry/tracing"
)

// ErrTestNotFound is returned when the given readiness test is not
// currently offered to the user.
var ErrTestNotFound = errors.New("readiness test not found")

type Service struct {
	progressRepo *progress.Repo
	now          func() time.Time
}

func NewService(progressRepo *progress.Repo) *Service {
	return &Service{
		progressRepo: progressRepo,
		now:          time.Now,
	}
}

// AvailableTests returns the readiness tests currently offered to the user.
func (s *Service) AvailableTests(ctx context.Context, userID string) ([]progress.SkillReadinessTest, error) {
	up, err := s.progressRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return up.AvailableReadinessTests, nil
}

// CompleteReadinessTest grades a test attempt. A passed test is removed
// from the offered list and never offered again, a failed attempt keeps
// the test available with its latest results recorded.
func (s *Service) CompleteReadinessTest(ctx context.Context, userID, testID string, results map[string]int) (passed bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "readinessService.completeTest")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	up, err := s.progressRepo.Get(ctx, userID)
	if err != nil {
		return false, err
	}

	testIndex := -1
	for i := range up.AvailableReadinessTests {
		if up.AvailableReadinessTests[i].ID == testID {
			testIndex = i
			break
		}
	}
	if testIndex < 0 {
		return false, ErrTestNotFound
	}

	test := &up.AvailableReadinessTests[testIndex]
	passed = Grade(test, results, s.now())

	if passed {
		up.CompletedReadinessTests = append(up.CompletedReadinessTests, test.TargetSkillID)
		up.AvailableReadinessTests = append(
			up.AvailableReadinessTests[:testIndex],
			up.AvailableReadinessTests[testIndex+1:]...,
		)
		s.scheduleSkillReminder(userID, testID)
	}

	if err := s.progressRepo.Save(ctx, userID, up); err != nil {
		return false, fmt.Errorf("save readiness test result for %s: %w", userID, err)
	}
	return passed, nil
}

// scheduleSkillReminder will nudge the user to try the unlocked skill.
// Push delivery is not hooked up yet, for now the unlock is only logged.
func (s *Service) scheduleSkillReminder(userID, testID string) {
	log.Debugf("skill unlocked for user %s via readiness test %s, reminder delivery skipped", userID, testID)
}
