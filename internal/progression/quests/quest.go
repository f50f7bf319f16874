package quests

import (
	"time"
)

type QuestType string

const (
	TypeWorkoutCompletion QuestType = "workoutCompletion"
	TypeRepsBased         QuestType = "repsBased"
	TypeTimeBased         QuestType = "timeBased"
	TypeExploration       QuestType = "exploration"
	TypeConsistency       QuestType = "consistency"
	TypeImprovement       QuestType = "improvement"
)

type QuestDifficulty string

const (
	DifficultyStarter       QuestDifficulty = "starter"
	DifficultyChallenger    QuestDifficulty = "challenger"
	DifficultyBeastMode     QuestDifficulty = "beastMode"
	DifficultyReadinessTest QuestDifficulty = "readinessTest"
)

// QuestAction tells the app what tapping a quest should do. Set at
// generation time, never inferred from display text.
type QuestAction string

const (
	ActionNone           QuestAction = "none"
	ActionStartWorkout   QuestAction = "startWorkout"
	ActionOpenAssessment QuestAction = "openAssessment"
	ActionOpenSkillTree  QuestAction = "openSkillTree"
)

// Quest is a one-day objective with a numeric target and a reward.
// Everything except IsCompleted and Progress is immutable after generation.
type Quest struct {
	ID             string          `json:"id"`
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	Emoji          string          `json:"emoji"`
	Type           QuestType       `json:"type"`
	Difficulty     QuestDifficulty `json:"difficulty"`
	Action         QuestAction     `json:"action"`
	ExerciseID     string          `json:"exerciseId,omitempty"`
	TargetValue    int             `json:"targetValue"`
	XPReward       int             `json:"xpReward"`
	CoinReward     int             `json:"coinReward"`
	ExpirationDate time.Time       `json:"expirationDate"`
	IsCompleted    bool            `json:"isCompleted"`
	Progress       int             `json:"progress"`
}

// CompletionPercentage reports progress towards the target, capped at 1.
// Progress itself is never clamped to the target.
func (q *Quest) CompletionPercentage() float64 {
	if q.TargetValue <= 0 {
		return 0
	}
	pct := float64(q.Progress) / float64(q.TargetValue)
	if pct > 1 {
		return 1
	}
	return pct
}

// DailySet is the quest set generated for one calendar day.
type DailySet struct {
	Quests      []Quest   `json:"quests"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// GeneratedDay returns the calendar day the set belongs to, derived from
// the one day quest lifetime: a day before the quests' expiration. The set
// is current while this equals today.
func (ds *DailySet) GeneratedDay() time.Time {
	if len(ds.Quests) > 0 {
		return ds.Quests[0].ExpirationDate.Add(-24 * time.Hour)
	}
	return ds.GeneratedAt
}

// AllCompleted reports whether every quest in the set is done.
func (ds *DailySet) AllCompleted() bool {
	if len(ds.Quests) == 0 {
		return false
	}
	for i := range ds.Quests {
		if !ds.Quests[i].IsCompleted {
			return false
		}
	}
	return true
}

// DaySummary is the denormalized completion summary archived with a day's
// quest set.
type DaySummary struct {
	TotalQuests      int            `json:"totalQuests"`
	CompletedQuests  int            `json:"completedQuests"`
	CompletionRate   float64        `json:"completionRate"`
	TotalXPEarned    int            `json:"totalXPEarned"`
	TotalCoinsEarned int            `json:"totalCoinsEarned"`
	PerDifficulty    map[string]int `json:"perDifficulty"`
}

// ArchivedQuest is the per-quest snapshot stored in daily history.
type ArchivedQuest struct {
	Quest
	CompletionPercentage float64 `json:"completionPercentage"`
}

// ArchivedDay is a dated snapshot of a daily quest set plus its summary.
type ArchivedDay struct {
	Date    string          `json:"date"`
	Quests  []ArchivedQuest `json:"quests"`
	Summary DaySummary      `json:"summary"`
}

// Summarize builds the archival snapshot of a daily set for the given day.
func Summarize(ds *DailySet, day string) ArchivedDay {
	archived := ArchivedDay{
		Date: day,
		Summary: DaySummary{
			TotalQuests:   len(ds.Quests),
			PerDifficulty: map[string]int{},
		},
	}
	for i := range ds.Quests {
		q := ds.Quests[i]
		archived.Quests = append(archived.Quests, ArchivedQuest{
			Quest:                q,
			CompletionPercentage: q.CompletionPercentage(),
		})
		archived.Summary.PerDifficulty[string(q.Difficulty)]++
		if q.IsCompleted {
			archived.Summary.CompletedQuests++
			archived.Summary.TotalXPEarned += q.XPReward
			archived.Summary.TotalCoinsEarned += q.CoinReward
		}
	}
	if archived.Summary.TotalQuests > 0 {
		archived.Summary.CompletionRate =
			float64(archived.Summary.CompletedQuests) / float64(archived.Summary.TotalQuests)
	}
	return archived
}
