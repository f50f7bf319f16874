package readiness

import (
	"github.com/Majdiscode/calinode/internal/progression/events"
	"github.com/Majdiscode/calinode/internal/progression/progress"
)

// EligibilityRule gates a skill readiness test on recent performance: the
// user needs at least MinPerformances recorded entries for the exercise,
// and the mean of the most recent MinPerformances entries has to reach
// MinAvgReps.
type EligibilityRule struct {
	ExerciseID      string
	MinPerformances int
	MinAvgReps      float64
}

// SkillConfig describes one unlockable skill: when its readiness test is
// offered and what the test demands.
type SkillConfig struct {
	SkillID      string
	SkillName    string
	Title        string
	Description  string
	Eligibility  []EligibilityRule
	Requirements []progress.ReadinessRequirement
}

// skillConfigs is the static catalog of detectable skills.
var skillConfigs = []SkillConfig{
	{
		SkillID:     "muscleUp",
		SkillName:   "Muscle-Up",
		Title:       "Muscle-Up Readiness Test",
		Description: "Your pull-ups and dips are strong enough to attempt the muscle-up. Pass this test to unlock it.",
		Eligibility: []EligibilityRule{
			{ExerciseID: events.ExercisePullUps, MinPerformances: 5, MinAvgReps: 8},
			{ExerciseID: events.ExerciseDips, MinPerformances: 5, MinAvgReps: 15},
		},
		Requirements: []progress.ReadinessRequirement{
			{
				ExerciseID:       events.ExercisePullUps,
				ExerciseName:     "Pull-Ups",
				TargetReps:       10,
				TimeLimitSeconds: 180,
				Description:      "10 strict pull-ups within 3 minutes",
			},
			{
				ExerciseID:       events.ExerciseDips,
				ExerciseName:     "Dips",
				TargetReps:       20,
				TimeLimitSeconds: 180,
				Description:      "20 dips within 3 minutes",
			},
		},
	},
}
