package progression

import "time"

// StreakState is the per (student, scope) consecutive-day counter. Scope is
// an optional exam; the zero value is a never-active streak.
type StreakState struct {
	CurrentStreak      int
	LastActivityDate   *time.Time
	LongestStreak      int
	LongestStreakStart *time.Time
	LongestStreakEnd   *time.Time
	TotalActiveDays    int
}

// DateOf truncates t to its calendar date in UTC. All streak arithmetic is
// done on midnight-UTC dates.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// RecordActivity advances the streak for one activity date. Calling it twice
// with the same date is a no-op the second time: counters are only bumped
// once per distinct calendar date.
//
// An activityDate earlier than the last recorded date falls into the reset
// branch, the same as any non-consecutive date. Backdated events are not
// given special treatment.
func RecordActivity(state StreakState, activityDate time.Time) StreakState {
	day := DateOf(activityDate)

	switch {
	case state.LastActivityDate == nil:
		state.CurrentStreak = 1
	case day.Equal(*state.LastActivityDate):
		return state
	case day.Equal(state.LastActivityDate.AddDate(0, 0, 1)):
		state.CurrentStreak++
	default:
		state.CurrentStreak = 1
	}

	state.LastActivityDate = &day
	state.TotalActiveDays++

	if state.CurrentStreak > state.LongestStreak {
		state.LongestStreak = state.CurrentStreak
		end := day
		start := day.AddDate(0, 0, -(state.CurrentStreak - 1))
		state.LongestStreakEnd = &end
		state.LongestStreakStart = &start
	}
	return state
}
