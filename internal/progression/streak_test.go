package progression

import (
	"reflect"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestRecordActivity_FirstActivity(t *testing.T) {
	d := date(2024, 1, 5)
	state := RecordActivity(StreakState{}, d)
	if state.CurrentStreak != 1 {
		t.Fatalf("current streak: want=1 got=%d", state.CurrentStreak)
	}
	if state.TotalActiveDays != 1 {
		t.Fatalf("total active days: want=1 got=%d", state.TotalActiveDays)
	}
	if state.LastActivityDate == nil || !state.LastActivityDate.Equal(d) {
		t.Fatalf("last activity date: want=%v got=%v", d, state.LastActivityDate)
	}
	if state.LongestStreak != 1 {
		t.Fatalf("longest streak: want=1 got=%d", state.LongestStreak)
	}
}

func TestRecordActivity_SameDayIdempotent(t *testing.T) {
	d := date(2024, 1, 5)
	once := RecordActivity(StreakState{}, d)
	twice := RecordActivity(once, d)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("same-day re-entry changed state: %+v vs %+v", once, twice)
	}
}

func TestRecordActivity_ConsecutiveDays(t *testing.T) {
	state := RecordActivity(StreakState{}, date(2024, 1, 5))
	state = RecordActivity(state, date(2024, 1, 6))
	state = RecordActivity(state, date(2024, 1, 7))
	if state.CurrentStreak != 3 {
		t.Fatalf("current streak: want=3 got=%d", state.CurrentStreak)
	}
	if state.LongestStreak != 3 {
		t.Fatalf("longest streak: want=3 got=%d", state.LongestStreak)
	}
	if !state.LongestStreakStart.Equal(date(2024, 1, 5)) || !state.LongestStreakEnd.Equal(date(2024, 1, 7)) {
		t.Fatalf("longest streak window: got %v..%v", state.LongestStreakStart, state.LongestStreakEnd)
	}
	if state.TotalActiveDays != 3 {
		t.Fatalf("total active days: want=3 got=%d", state.TotalActiveDays)
	}
}

func TestRecordActivity_GapBreaksStreak(t *testing.T) {
	last := date(2024, 1, 5)
	state := StreakState{
		CurrentStreak:    4,
		LastActivityDate: &last,
		LongestStreak:    4,
		TotalActiveDays:  4,
	}
	state = RecordActivity(state, date(2024, 1, 7))
	if state.CurrentStreak != 1 {
		t.Fatalf("current streak after 2-day gap: want=1 got=%d", state.CurrentStreak)
	}
	if !state.LastActivityDate.Equal(date(2024, 1, 7)) {
		t.Fatalf("last activity date: want=%v got=%v", date(2024, 1, 7), state.LastActivityDate)
	}
	if state.LongestStreak != 4 {
		t.Fatalf("longest streak must survive reset: want=4 got=%d", state.LongestStreak)
	}
	if state.TotalActiveDays != 5 {
		t.Fatalf("total active days: want=5 got=%d", state.TotalActiveDays)
	}
}

func TestRecordActivity_AnyGapSizeResets(t *testing.T) {
	for _, gap := range []int{2, 10, 365} {
		last := date(2024, 1, 5)
		state := StreakState{CurrentStreak: 9, LastActivityDate: &last, LongestStreak: 9}
		state = RecordActivity(state, last.AddDate(0, 0, gap))
		if state.CurrentStreak != 1 {
			t.Fatalf("gap=%d: current streak want=1 got=%d", gap, state.CurrentStreak)
		}
	}
}

func TestRecordActivity_BackdatedFallsIntoReset(t *testing.T) {
	last := date(2024, 1, 5)
	state := StreakState{CurrentStreak: 3, LastActivityDate: &last, LongestStreak: 3}
	state = RecordActivity(state, date(2024, 1, 2))
	if state.CurrentStreak != 1 {
		t.Fatalf("backdated date: current streak want=1 got=%d", state.CurrentStreak)
	}
	if !state.LastActivityDate.Equal(date(2024, 1, 2)) {
		t.Fatalf("last activity date: want=%v got=%v", date(2024, 1, 2), state.LastActivityDate)
	}
}

func TestRecordActivity_TruncatesToCalendarDate(t *testing.T) {
	state := RecordActivity(StreakState{}, time.Date(2024, 1, 5, 9, 30, 0, 0, time.UTC))
	state = RecordActivity(state, time.Date(2024, 1, 5, 23, 59, 0, 0, time.UTC))
	if state.CurrentStreak != 1 || state.TotalActiveDays != 1 {
		t.Fatalf("two timestamps on one day must count once: streak=%d days=%d", state.CurrentStreak, state.TotalActiveDays)
	}
}
