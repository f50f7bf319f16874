package progress

import (
	"time"
)

// recentPerformanceWindow caps the per-exercise FIFO of best set reps.
const recentPerformanceWindow = 10

// successRateWindow caps how many recent quests count towards the
// quest success rate.
const successRateWindow = 10

// ReadinessRequirement is a single rep target a user has to hit, within a
// time limit, to pass a skill readiness test.
type ReadinessRequirement struct {
	ExerciseID       string `json:"exerciseId"`
	ExerciseName     string `json:"exerciseName"`
	TargetReps       int    `json:"targetReps"`
	TimeLimitSeconds int    `json:"timeLimitSeconds"`
	Description      string `json:"description"`
}

// SkillReadinessTest is offered to a user once their recent performance
// suggests they are ready to attempt a new skill.
type SkillReadinessTest struct {
	ID              string                 `json:"id"`
	TargetSkillID   string                 `json:"targetSkillId"`
	TargetSkillName string                 `json:"targetSkillName"`
	Title           string                 `json:"title"`
	Description     string                 `json:"description"`
	Requirements    []ReadinessRequirement `json:"requirements"`
	UnlockDate      time.Time              `json:"unlockDate"`
	IsCompleted     bool                   `json:"isCompleted"`
	CompletionDate  *time.Time             `json:"completionDate,omitempty"`
	TestResults     map[string]int         `json:"testResults,omitempty"`
}

// UserProgress is the per-user progression ledger: earned rewards, streak
// mirrors, recent performance windows and readiness test state.
type UserProgress struct {
	CurrentStreak            int                  `json:"currentStreak"`
	LongestStreak            int                  `json:"longestStreak"`
	LastWorkoutDate          *time.Time           `json:"lastWorkoutDate,omitempty"`
	TotalXP                  int                  `json:"totalXP"`
	CaliCoins                int                  `json:"caliCoins"`
	CompletedQuests          []string             `json:"completedQuests"`
	QuestSuccessRate         float64              `json:"questSuccessRate"`
	AllQuestsCompletedToday  bool                 `json:"allQuestsCompletedToday"`
	ShowTomorrowPreview      bool                 `json:"showTomorrowPreview"`
	RecentWorkoutPerformance map[string][]int     `json:"recentWorkoutPerformance"`
	AvailableReadinessTests  []SkillReadinessTest `json:"availableReadinessTests"`
	CompletedReadinessTests  []string             `json:"completedReadinessTests"`
}

// NewUserProgress returns an empty ledger with all collections initialized.
func NewUserProgress() *UserProgress {
	return &UserProgress{
		CompletedQuests:          []string{},
		RecentWorkoutPerformance: map[string][]int{},
		AvailableReadinessTests:  []SkillReadinessTest{},
		CompletedReadinessTests:  []string{},
	}
}

// fillDefaults repairs collections after decoding documents written by
// older versions with missing fields.
func (up *UserProgress) fillDefaults() {
	if up.CompletedQuests == nil {
		up.CompletedQuests = []string{}
	}
	if up.RecentWorkoutPerformance == nil {
		up.RecentWorkoutPerformance = map[string][]int{}
	}
	if up.AvailableReadinessTests == nil {
		up.AvailableReadinessTests = []SkillReadinessTest{}
	}
	if up.CompletedReadinessTests == nil {
		up.CompletedReadinessTests = []string{}
	}
}

// AwardQuest credits the rewards of a completed quest and records its id.
func (up *UserProgress) AwardQuest(questID string, xp, coins int) {
	up.TotalXP += xp
	up.CaliCoins += coins
	up.CompletedQuests = append(up.CompletedQuests, questID)
	up.RecomputeSuccessRate()
}

// RecomputeSuccessRate recalculates the rate over the most recent quests,
// capped at the success rate window.
func (up *UserProgress) RecomputeSuccessRate() {
	recent := len(up.CompletedQuests)
	if recent > successRateWindow {
		recent = successRateWindow
	}
	up.QuestSuccessRate = float64(recent) / float64(successRateWindow)
}

// RecordPerformance appends the best set reps of an exercise to its FIFO
// window, evicting the oldest entry beyond the window size.
func (up *UserProgress) RecordPerformance(exerciseID string, bestReps int) {
	window := append(up.RecentWorkoutPerformance[exerciseID], bestReps)
	if len(window) > recentPerformanceWindow {
		window = window[len(window)-recentPerformanceWindow:]
	}
	up.RecentWorkoutPerformance[exerciseID] = window
}

// HasCompletedReadinessTest reports whether the skill's readiness test was
// already passed. Passed tests are never offered again.
func (up *UserProgress) HasCompletedReadinessTest(skillID string) bool {
	for _, id := range up.CompletedReadinessTests {
		if id == skillID {
			return true
		}
	}
	return false
}

// HasAvailableReadinessTest reports whether a test for the skill is
// currently offered.
func (up *UserProgress) HasAvailableReadinessTest(skillID string) bool {
	for _, t := range up.AvailableReadinessTests {
		if t.TargetSkillID == skillID {
			return true
		}
	}
	return false
}
