package services

import (
	"testing"
	"time"
)

func TestPeriodWindow_Daily(t *testing.T) {
	now := time.Date(2026, 3, 11, 15, 30, 0, 0, time.UTC)
	start, end, err := PeriodWindow(PeriodDaily, now)
	if err != nil {
		t.Fatalf("PeriodWindow: %v", err)
	}
	want := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)
	if !start.Equal(want) || !end.Equal(want) {
		t.Fatalf("daily window: want=%v got start=%v end=%v", want, start, end)
	}
}

func TestPeriodWindow_WeeklyStartsMonday(t *testing.T) {
	cases := []struct {
		day  time.Time
		want time.Time
	}{
		// Wednesday -> preceding Monday
		{time.Date(2026, 3, 11, 10, 0, 0, 0, time.UTC), time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)},
		// Monday -> same day
		{time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)},
		// Sunday -> Monday six days earlier
		{time.Date(2026, 3, 15, 23, 59, 0, 0, time.UTC), time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		start, _, err := PeriodWindow(PeriodWeekly, tc.day)
		if err != nil {
			t.Fatalf("PeriodWindow(%v): %v", tc.day, err)
		}
		if !start.Equal(tc.want) {
			t.Fatalf("weekly start for %v: want=%v got=%v", tc.day, tc.want, start)
		}
	}
}

func TestPeriodWindow_MonthlyStartsFirst(t *testing.T) {
	now := time.Date(2026, 2, 28, 12, 0, 0, 0, time.UTC)
	start, _, err := PeriodWindow(PeriodMonthly, now)
	if err != nil {
		t.Fatalf("PeriodWindow: %v", err)
	}
	want := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	if !start.Equal(want) {
		t.Fatalf("monthly start: want=%v got=%v", want, start)
	}
}

func TestPeriodWindow_UnknownPeriod(t *testing.T) {
	if _, _, err := PeriodWindow("hourly", time.Now()); err == nil {
		t.Fatalf("expected error for unknown period")
	}
}
