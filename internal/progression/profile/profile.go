package profile

import (
	"time"
)

type FitnessLevel string

const (
	LevelBeginner     FitnessLevel = "beginner"
	LevelNovice       FitnessLevel = "novice"
	LevelIntermediate FitnessLevel = "intermediate"
	LevelAdvanced     FitnessLevel = "advanced"
)

func (fl FitnessLevel) String() string {
	return string(fl)
}

func (fl FitnessLevel) IsValid() bool {
	switch fl {
	case LevelBeginner, LevelNovice, LevelIntermediate, LevelAdvanced:
		return true
	}
	return false
}

// DefaultWeeklyGoalMultiplier scales quest targets for users
// who never changed their weekly goal.
const DefaultWeeklyGoalMultiplier = 0.8

// CapabilityProfile holds the measured maxes from the latest assessment
// and the fitness level derived from them. Quest generation scales its
// targets off this profile.
type CapabilityProfile struct {
	MaxPushUps           int          `json:"maxPushUps"`
	MaxPullUps           int          `json:"maxPullUps"`
	MaxPlankSeconds      int          `json:"maxPlankSeconds"`
	MaxSquats            int          `json:"maxSquats"`
	FitnessLevel         FitnessLevel `json:"fitnessLevel"`
	WeeklyGoalMultiplier float64      `json:"weeklyGoalMultiplier"`
	LastAssessment       time.Time    `json:"lastAssessment"`
}

// AssessmentResult carries the raw maxes measured by the in-app assessment.
type AssessmentResult struct {
	PushUps      int `json:"pushUps"`
	PullUps      int `json:"pullUps"`
	PlankSeconds int `json:"plankSeconds"`
	Squats       int `json:"squats"`
}

// Classify maps assessment maxes to a fitness level. Each exercise gets a
// subscore from 0 to 3, the average of the four subscores decides the level.
func Classify(result AssessmentResult) FitnessLevel {
	score := pushUpScore(result.PushUps) +
		pullUpScore(result.PullUps) +
		plankScore(result.PlankSeconds) +
		squatScore(result.Squats)

	avg := float64(score) / 4

	switch {
	case avg >= 2.5:
		return LevelAdvanced
	case avg >= 1.5:
		return LevelIntermediate
	case avg >= 0.5:
		return LevelNovice
	default:
		return LevelBeginner
	}
}

func pushUpScore(reps int) int {
	switch {
	case reps >= 30:
		return 3
	case reps >= 15:
		return 2
	case reps >= 5:
		return 1
	default:
		return 0
	}
}

func pullUpScore(reps int) int {
	switch {
	case reps >= 10:
		return 3
	case reps >= 3:
		return 2
	case reps >= 1:
		return 1
	default:
		return 0
	}
}

func plankScore(seconds int) int {
	switch {
	case seconds >= 120:
		return 3
	case seconds >= 60:
		return 2
	case seconds >= 30:
		return 1
	default:
		return 0
	}
}

func squatScore(reps int) int {
	switch {
	case reps >= 50:
		return 3
	case reps >= 25:
		return 2
	case reps >= 10:
		return 1
	default:
		return 0
	}
}
