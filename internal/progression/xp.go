package progression

import (
	"fmt"

	"github.com/google/uuid"
)

// TransactionType enumerates the ledger row kinds.
type TransactionType string

const (
	TxQuizComplete TransactionType = "quiz_complete"
	TxMockTest     TransactionType = "mock_test"
	TxDailyGoal    TransactionType = "daily_goal"
	TxStreakBonus  TransactionType = "streak_bonus"
	TxBadgeEarned  TransactionType = "badge_earned"
	TxLevelUp      TransactionType = "level_up"
	TxReferral     TransactionType = "referral"
	TxChallengeWin TransactionType = "challenge_win"
	TxManual       TransactionType = "manual"
)

// ValidTransactionType reports whether t is a known ledger row kind.
func ValidTransactionType(t TransactionType) bool {
	switch t {
	case TxQuizComplete, TxMockTest, TxDailyGoal, TxStreakBonus,
		TxBadgeEarned, TxLevelUp, TxReferral, TxChallengeWin, TxManual:
		return true
	}
	return false
}

// XPTotals is the slice of StudentProfile the ledger mutates.
type XPTotals struct {
	TotalXP      int
	CurrentLevel int
}

// LedgerRow is one immutable XP transaction to append. BalanceAfter is the
// cumulative total after this row, in write order.
type LedgerRow struct {
	Type         TransactionType
	Amount       int
	Description  string
	ReferenceID  *uuid.UUID
	BalanceAfter int
}

// AwardResult is the full outcome of one Award call: the updated totals and
// the ordered ledger rows to append (the primary transaction, then the
// level-up bonus row when a level-up occurred).
type AwardResult struct {
	Totals     XPTotals
	NewBalance int
	LeveledUp  bool
	NewLevel   int
	LevelBonus int
	Rows       []LedgerRow
}

const (
	levelBaseRequirement = 100
	levelUpBonusPerLevel = 50
)

// Award applies a signed XP amount to the totals and derives the level.
// Negative amounts are only accepted for manual adjustments. A level-up
// credits a new_level*50 bonus as a second, separate ledger row; the bonus
// itself never cascades into a further level check.
func Award(totals XPTotals, amount int, txType TransactionType, description string, referenceID *uuid.UUID) (AwardResult, error) {
	if !ValidTransactionType(txType) {
		return AwardResult{}, fmt.Errorf("%w: unknown transaction type %q", ErrInvalidInput, txType)
	}
	if amount < 0 && txType != TxManual {
		return AwardResult{}, fmt.Errorf("%w: negative amount %d for transaction type %q", ErrInvalidInput, amount, txType)
	}
	if totals.CurrentLevel < 1 {
		totals.CurrentLevel = 1
	}

	totals.TotalXP += amount
	primary := LedgerRow{
		Type:         txType,
		Amount:       amount,
		Description:  description,
		ReferenceID:  referenceID,
		BalanceAfter: totals.TotalXP,
	}

	result := AwardResult{
		NewLevel: totals.CurrentLevel,
		Rows:     []LedgerRow{primary},
	}

	newLevel := LevelForXP(totals.TotalXP)
	if newLevel > totals.CurrentLevel {
		totals.CurrentLevel = newLevel
		bonus := newLevel * levelUpBonusPerLevel
		totals.TotalXP += bonus
		result.LeveledUp = true
		result.NewLevel = newLevel
		result.LevelBonus = bonus
		result.Rows = append(result.Rows, LedgerRow{
			Type:         TxLevelUp,
			Amount:       bonus,
			Description:  fmt.Sprintf("Level %d reached!", newLevel),
			BalanceAfter: totals.TotalXP,
		})
	}

	result.Totals = totals
	result.NewBalance = totals.TotalXP
	return result, nil
}

// LevelForXP maps a cumulative XP total to a level. Level 1 starts at 0 XP;
// each tier requires floor(previous*1.5) more XP than the last, starting at
// 100. Pure function of totalXP.
func LevelForXP(totalXP int) int {
	xp := totalXP
	level := 1
	required := levelBaseRequirement
	for xp >= required {
		xp -= required
		level++
		required = required * 3 / 2
	}
	return level
}

// NextLevelThreshold returns the cumulative XP total at which a student at
// the given level reaches level+1: LevelForXP(threshold-1) == level and
// LevelForXP(threshold) == level+1.
func NextLevelThreshold(level int) int {
	if level < 1 {
		level = 1
	}
	required := levelBaseRequirement
	total := levelBaseRequirement
	for l := 1; l < level; l++ {
		required = required * 3 / 2
		total += required
	}
	return total
}
