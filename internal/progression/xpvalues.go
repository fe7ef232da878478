package progression

// XPForQuiz computes the XP credit for a completed quiz: 5 XP per question
// scaled by accuracy, with a 50% bonus for daily challenges.
func XPForQuiz(accuracy float64, questionCount int, dailyChallenge bool) int {
	if questionCount <= 0 || accuracy <= 0 {
		return 0
	}
	baseXP := questionCount * 5
	xp := int(float64(baseXP) * accuracy / 100)
	if dailyChallenge {
		xp = xp * 3 / 2
	}
	return xp
}

// StreakBonus is the bonus XP for maintaining a streak of the given length.
// The per-day rate steps up at one week and one month.
func StreakBonus(streakDays int) int {
	switch {
	case streakDays <= 0:
		return 0
	case streakDays < 7:
		return streakDays * 10
	case streakDays < 30:
		return 70 + (streakDays-7)*15
	default:
		return 415 + (streakDays-30)*20
	}
}
