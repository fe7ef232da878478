package progression

import "testing"

func TestXPForQuiz(t *testing.T) {
	cases := []struct {
		accuracy  float64
		questions int
		daily     bool
		want      int
	}{
		{100, 10, false, 50},
		{80, 10, false, 40},
		{80, 10, true, 60},
		{0, 10, false, 0},
		{100, 0, false, 0},
		{50, 7, false, 17}, // floor(35 * 0.5)
	}
	for _, tc := range cases {
		if got := XPForQuiz(tc.accuracy, tc.questions, tc.daily); got != tc.want {
			t.Fatalf("XPForQuiz(%v, %d, %v): want=%d got=%d", tc.accuracy, tc.questions, tc.daily, tc.want, got)
		}
	}
}

func TestStreakBonus(t *testing.T) {
	cases := []struct {
		days int
		want int
	}{
		{0, 0},
		{-3, 0},
		{1, 10},
		{6, 60},
		{7, 70},
		{29, 400},
		{30, 415},
		{31, 435},
	}
	for _, tc := range cases {
		if got := StreakBonus(tc.days); got != tc.want {
			t.Fatalf("StreakBonus(%d): want=%d got=%d", tc.days, tc.want, got)
		}
	}
}
