package events

import (
	"time"
)

// Exercise ids used across quest scaling and readiness detection.
const (
	ExercisePushUps = "pushups"
	ExercisePullUps = "pullups"
	ExerciseDips    = "dips"
	ExercisePlank   = "plank"
	ExerciseSquats  = "squats"
)

type ExerciseSet struct {
	ExerciseID string `json:"exerciseId"`
	Reps       int    `json:"reps"`
}

// WorkoutEvent is sent from the CaliNode iOS app when a workout finishes.
// It is the single input feed for quest progress, streaks and readiness
// detection.
type WorkoutEvent struct {
	ID         string        `json:"id"`
	UserID     string        `json:"userId"`
	StartedAt  time.Time     `json:"startedAt"`
	FinishedAt time.Time     `json:"finishedAt"`
	Completed  bool          `json:"completed"`
	Sets       []ExerciseSet `json:"sets"`
}

// DurationSeconds returns the elapsed workout duration in whole seconds.
func (e WorkoutEvent) DurationSeconds() int {
	if e.FinishedAt.Before(e.StartedAt) {
		return 0
	}
	return int(e.FinishedAt.Sub(e.StartedAt).Seconds())
}

// TotalReps sums the logged reps for the given exercise across all sets.
func (e WorkoutEvent) TotalReps(exerciseID string) int {
	total := 0
	for _, set := range e.Sets {
		if set.ExerciseID == exerciseID {
			total += set.Reps
		}
	}
	return total
}

// BestSetReps returns the maximum reps achieved in a single set
// of the given exercise.
func (e WorkoutEvent) BestSetReps(exerciseID string) int {
	best := 0
	for _, set := range e.Sets {
		if set.ExerciseID == exerciseID && set.Reps > best {
			best = set.Reps
		}
	}
	return best
}

// ExerciseIDs returns the distinct exercise ids touched by the event,
// in order of first appearance.
func (e WorkoutEvent) ExerciseIDs() []string {
	var ids []string
	seen := make(map[string]bool)
	for _, set := range e.Sets {
		if !seen[set.ExerciseID] {
			seen[set.ExerciseID] = true
			ids = append(ids, set.ExerciseID)
		}
	}
	return ids
}
