package streaks

import (
	"sort"
	"time"
)

// DayFormat is the calendar day key used in streak ledgers.
const DayFormat = "2006-01-02"

// DayStatus is one day of a weekly streak view.
type DayStatus struct {
	Date      string `json:"date"`
	Completed bool   `json:"completed"`
}

// StreakData is the per-user streak ledger. Dates are calendar day strings,
// recorded at most once per day. The ledger is the authoritative source for
// streak counts, derived numbers are recomputed on every record.
type StreakData struct {
	WorkoutDates         []string `json:"workoutDates"`
	QuestCompletionDates []string `json:"questCompletionDates"`
	CurrentWorkoutStreak int      `json:"currentWorkoutStreak"`
	LongestWorkoutStreak int      `json:"longestWorkoutStreak"`
	CurrentQuestStreak   int      `json:"currentQuestStreak"`
	LongestQuestStreak   int      `json:"longestQuestStreak"`
}

func NewStreakData() *StreakData {
	return &StreakData{
		WorkoutDates:         []string{},
		QuestCompletionDates: []string{},
	}
}

func (s *StreakData) fillDefaults() {
	if s.WorkoutDates == nil {
		s.WorkoutDates = []string{}
	}
	if s.QuestCompletionDates == nil {
		s.QuestCompletionDates = []string{}
	}
}

// RecordWorkoutCompletion records a workout for the given day and recomputes
// the workout streak counters. Recording the same day twice is a no-op,
// the returned bool tells whether the ledger changed.
func (s *StreakData) RecordWorkoutCompletion(day time.Time) bool {
	dates, changed := recordDay(s.WorkoutDates, day)
	if !changed {
		return false
	}
	s.WorkoutDates = dates
	s.CurrentWorkoutStreak = currentStreak(s.WorkoutDates, day)
	if s.CurrentWorkoutStreak > s.LongestWorkoutStreak {
		s.LongestWorkoutStreak = s.CurrentWorkoutStreak
	}
	return true
}

// RecordQuestCompletion records a day on which all daily quests were
// completed. Idempotent per day, like RecordWorkoutCompletion.
func (s *StreakData) RecordQuestCompletion(day time.Time) bool {
	dates, changed := recordDay(s.QuestCompletionDates, day)
	if !changed {
		return false
	}
	s.QuestCompletionDates = dates
	s.CurrentQuestStreak = currentStreak(s.QuestCompletionDates, day)
	if s.CurrentQuestStreak > s.LongestQuestStreak {
		s.LongestQuestStreak = s.CurrentQuestStreak
	}
	return true
}

// IsWorkoutStreakActive reports whether the most recent recorded workout
// was today or yesterday.
func (s *StreakData) IsWorkoutStreakActive(now time.Time) bool {
	return streakActive(s.WorkoutDates, now)
}

// IsQuestStreakActive reports whether the most recent all-quests day
// was today or yesterday.
func (s *StreakData) IsQuestStreakActive(now time.Time) bool {
	return streakActive(s.QuestCompletionDates, now)
}

// WeeklyWorkoutView returns completion flags for the 7 calendar days
// ending today.
func (s *StreakData) WeeklyWorkoutView(now time.Time) []DayStatus {
	return weeklyView(s.WorkoutDates, now)
}

// WeeklyQuestView returns all-quests-completed flags for the 7 calendar
// days ending today.
func (s *StreakData) WeeklyQuestView(now time.Time) []DayStatus {
	return weeklyView(s.QuestCompletionDates, now)
}

// MonthlyWorkoutRatio returns the share of days in the current calendar
// month, up to and including today, with a recorded workout.
func (s *StreakData) MonthlyWorkoutRatio(now time.Time) float64 {
	return monthlyRatio(s.WorkoutDates, now)
}

// MonthlyQuestRatio returns the share of days in the current calendar
// month, up to and including today, on which all quests were completed.
func (s *StreakData) MonthlyQuestRatio(now time.Time) float64 {
	return monthlyRatio(s.QuestCompletionDates, now)
}

func recordDay(dates []string, day time.Time) (_ []string, changed bool) {
	key := day.Format(DayFormat)
	for _, d := range dates {
		if d == key {
			return dates, false
		}
	}
	dates = append(dates, key)
	sort.Strings(dates)
	return dates, true
}

// currentStreak counts consecutive recorded days backward from today.
// A day without a record yet still counts the run ending yesterday.
func currentStreak(dates []string, now time.Time) int {
	recorded := make(map[string]bool, len(dates))
	for _, d := range dates {
		recorded[d] = true
	}

	day := now
	if !recorded[day.Format(DayFormat)] {
		day = day.AddDate(0, 0, -1)
	}

	streak := 0
	for recorded[day.Format(DayFormat)] {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

func streakActive(dates []string, now time.Time) bool {
	if len(dates) == 0 {
		return false
	}
	last := dates[len(dates)-1]
	return last == now.Format(DayFormat) ||
		last == now.AddDate(0, 0, -1).Format(DayFormat)
}

func weeklyView(dates []string, now time.Time) []DayStatus {
	recorded := make(map[string]bool, len(dates))
	for _, d := range dates {
		recorded[d] = true
	}

	view := make([]DayStatus, 0, 7)
	for i := 6; i >= 0; i-- {
		key := now.AddDate(0, 0, -i).Format(DayFormat)
		view = append(view, DayStatus{
			Date:      key,
			Completed: recorded[key],
		})
	}
	return view
}

func monthlyRatio(dates []string, now time.Time) float64 {
	monthPrefix := now.Format("2006-01")
	today := now.Format(DayFormat)

	completed := 0
	for _, d := range dates {
		if len(d) >= len(monthPrefix) && d[:len(monthPrefix)] == monthPrefix && d <= today {
			completed++
		}
	}
	return float64(completed) / float64(now.Day())
}
