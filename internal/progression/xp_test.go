package progression

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestAward_SimpleCredit(t *testing.T) {
	ref := uuid.New()
	res, err := Award(XPTotals{TotalXP: 40, CurrentLevel: 1}, 20, TxQuizComplete, "Quiz completed", &ref)
	if err != nil {
		t.Fatalf("Award: %v", err)
	}
	if res.NewBalance != 60 {
		t.Fatalf("balance: want=60 got=%d", res.NewBalance)
	}
	if res.LeveledUp {
		t.Fatalf("unexpected level-up at 60 XP")
	}
	if len(res.Rows) != 1 {
		t.Fatalf("rows: want=1 got=%d", len(res.Rows))
	}
	row := res.Rows[0]
	if row.Type != TxQuizComplete || row.Amount != 20 || row.BalanceAfter != 60 {
		t.Fatalf("unexpected primary row: %+v", row)
	}
	if row.ReferenceID == nil || *row.ReferenceID != ref {
		t.Fatalf("reference id not carried: %+v", row.ReferenceID)
	}
}

func TestAward_LevelUpWritesTwoRows(t *testing.T) {
	res, err := Award(XPTotals{TotalXP: 95, CurrentLevel: 1}, 10, TxQuizComplete, "Quiz completed", nil)
	if err != nil {
		t.Fatalf("Award: %v", err)
	}
	if !res.LeveledUp || res.NewLevel != 2 {
		t.Fatalf("expected level-up to 2, got leveled=%v level=%d", res.LeveledUp, res.NewLevel)
	}
	if res.LevelBonus != 100 {
		t.Fatalf("level bonus: want=100 got=%d", res.LevelBonus)
	}
	if res.NewBalance != 205 {
		t.Fatalf("final balance: want=205 got=%d", res.NewBalance)
	}
	if len(res.Rows) != 2 {
		t.Fatalf("rows: want=2 got=%d", len(res.Rows))
	}
	primary, bonus := res.Rows[0], res.Rows[1]
	if primary.Amount != 10 || primary.BalanceAfter != 105 {
		t.Fatalf("primary row: %+v", primary)
	}
	if bonus.Type != TxLevelUp || bonus.Amount != 100 || bonus.BalanceAfter != 205 {
		t.Fatalf("level-up row: %+v", bonus)
	}
	if res.Totals.CurrentLevel != 2 || res.Totals.TotalXP != 205 {
		t.Fatalf("totals: %+v", res.Totals)
	}
}

func TestAward_LedgerConservation(t *testing.T) {
	totals := XPTotals{CurrentLevel: 1}
	var sum int
	amounts := []int{10, 250, 5, 999, 1, 40, 4000, 17}
	for _, amount := range amounts {
		res, err := Award(totals, amount, TxQuizComplete, "", nil)
		if err != nil {
			t.Fatalf("Award(%d): %v", amount, err)
		}
		for _, row := range res.Rows {
			sum += row.Amount
			if sum != row.BalanceAfter {
				t.Fatalf("balance_after mismatch: row=%+v running sum=%d", row, sum)
			}
		}
		totals = res.Totals
	}
	if sum != totals.TotalXP {
		t.Fatalf("ledger sum %d != final total %d", sum, totals.TotalXP)
	}
}

func TestAward_ManualDeduction(t *testing.T) {
	res, err := Award(XPTotals{TotalXP: 500, CurrentLevel: 3}, -50, TxManual, "Adjustment", nil)
	if err != nil {
		t.Fatalf("Award: %v", err)
	}
	if res.NewBalance != 450 {
		t.Fatalf("balance: want=450 got=%d", res.NewBalance)
	}
	// Levels never go down, even when XP does.
	if res.Totals.CurrentLevel != 3 {
		t.Fatalf("level: want=3 got=%d", res.Totals.CurrentLevel)
	}
}

func TestAward_RejectsNegativeNonManual(t *testing.T) {
	for _, txType := range []TransactionType{TxQuizComplete, TxMockTest, TxDailyGoal, TxStreakBonus, TxBadgeEarned, TxReferral, TxChallengeWin} {
		_, err := Award(XPTotals{TotalXP: 100, CurrentLevel: 1}, -10, txType, "", nil)
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("type=%s: want ErrInvalidInput, got %v", txType, err)
		}
	}
}

func TestAward_RejectsUnknownType(t *testing.T) {
	_, err := Award(XPTotals{CurrentLevel: 1}, 10, TransactionType("jackpot"), "", nil)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("want ErrInvalidInput, got %v", err)
	}
}

func TestLevelForXP_Boundaries(t *testing.T) {
	if LevelForXP(0) != 1 {
		t.Fatalf("level at 0 XP: want=1 got=%d", LevelForXP(0))
	}
	if LevelForXP(99) != 1 {
		t.Fatalf("level at 99 XP: want=1 got=%d", LevelForXP(99))
	}
	if LevelForXP(100) != 2 {
		t.Fatalf("level at 100 XP: want=2 got=%d", LevelForXP(100))
	}
	// 100 + 150 = 250 is the level-3 boundary.
	if LevelForXP(249) != 2 || LevelForXP(250) != 3 {
		t.Fatalf("level-3 boundary: got %d at 249, %d at 250", LevelForXP(249), LevelForXP(250))
	}
}

func TestLevelCurve_RoundTrip(t *testing.T) {
	for level := 1; level <= 20; level++ {
		threshold := NextLevelThreshold(level)
		if got := LevelForXP(threshold - 1); got != level {
			t.Fatalf("LevelForXP(%d): want=%d got=%d", threshold-1, level, got)
		}
		if got := LevelForXP(threshold); got != level+1 {
			t.Fatalf("LevelForXP(%d): want=%d got=%d", threshold, level+1, got)
		}
	}
}
