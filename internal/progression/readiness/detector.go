package readiness

import (
	"time"

	"github.com/google/uuid"

	"github.com/Majdiscode/calinode/internal/progression/progress"
)

// Detector inspects recent workout performance and decides which skill
// readiness tests should be offered to a user.
type Detector struct {
	configs []SkillConfig
	now     func() time.Time
}

func NewDetector() *Detector {
	return &Detector{
		configs: skillConfigs,
		now:     time.Now,
	}
}

// DetectNewTests returns readiness tests unlocked by the current ledger
// state. Skills with an already offered or already passed test are skipped.
func (d *Detector) DetectNewTests(up *progress.UserProgress) []progress.SkillReadinessTest {
	var unlocked []progress.SkillReadinessTest
	for _, cfg := range d.configs {
		if up.HasCompletedReadinessTest(cfg.SkillID) || up.HasAvailableReadinessTest(cfg.SkillID) {
			continue
		}
		if !d.eligible(cfg, up.RecentWorkoutPerformance) {
			continue
		}
		unlocked = append(unlocked, progress.SkillReadinessTest{
			ID:              uuid.NewString(),
			TargetSkillID:   cfg.SkillID,
			TargetSkillName: cfg.SkillName,
			Title:           cfg.Title,
			Description:     cfg.Description,
			Requirements:    cfg.Requirements,
			UnlockDate:      d.now(),
		})
	}
	return unlocked
}

func (d *Detector) eligible(cfg SkillConfig, performance map[string][]int) bool {
	for _, rule := range cfg.Eligibility {
		window := performance[rule.ExerciseID]
		if len(window) < rule.MinPerformances {
			return false
		}
		recent := window[len(window)-rule.MinPerformances:]
		sum := 0
		for _, reps := range recent {
			sum += reps
		}
		if float64(sum)/float64(rule.MinPerformances) < rule.MinAvgReps {
			return false
		}
	}
	return true
}

// Grade evaluates submitted test results against the test requirements,
// records the results on the test and, on a pass, marks it completed.
// The test passes only if every requirement is met.
func Grade(test *progress.SkillReadinessTest, results map[string]int, completedAt time.Time) (passed bool) {
	passed = true
	for _, req := range test.Requirements {
		if results[req.ExerciseID] < req.TargetReps {
			passed = false
		}
	}

	test.TestResults = results
	if passed {
		test.IsCompleted = true
		test.CompletionDate = &completedAt
	}
	return passed
}
