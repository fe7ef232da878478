package progression

import (
	"bytes"
	"sort"

	"github.com/google/uuid"
)

// WindowMetrics are one student's aggregate metrics over a ranking window.
type WindowMetrics struct {
	XPEarned          int
	QuestionsAnswered int
	CorrectAnswers    int
	StudyTimeMinutes  int
}

// RankedEntry is one row of a leaderboard snapshot.
type RankedEntry struct {
	StudentID         uuid.UUID
	XPEarned          int
	QuestionsAnswered int
	Accuracy          float64 // 0-100
	StudyTimeMinutes  int
	Rank              int  // dense, 1-based
	PreviousRank      *int // nil when absent from the previous snapshot
	RankChange        int  // previous - new; positive = moved up
}

// Rank builds a fully-ordered snapshot from per-student window metrics.
// Students with no XP and no answered questions are excluded. Ordering is
// XP descending, then accuracy descending, then student id, so identical
// input always yields identical ranks. Ranks are dense and 1-based; exact
// ties still get distinct ranks in sort order.
func Rank(metrics map[uuid.UUID]WindowMetrics, previousRanks map[uuid.UUID]int) []RankedEntry {
	entries := make([]RankedEntry, 0, len(metrics))
	for studentID, m := range metrics {
		if m.XPEarned <= 0 && m.QuestionsAnswered <= 0 {
			continue
		}
		accuracy := 0.0
		if m.QuestionsAnswered > 0 {
			accuracy = float64(m.CorrectAnswers) / float64(m.QuestionsAnswered) * 100
		}
		entries = append(entries, RankedEntry{
			StudentID:         studentID,
			XPEarned:          m.XPEarned,
			QuestionsAnswered: m.QuestionsAnswered,
			Accuracy:          accuracy,
			StudyTimeMinutes:  m.StudyTimeMinutes,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].XPEarned != entries[j].XPEarned {
			return entries[i].XPEarned > entries[j].XPEarned
		}
		if entries[i].Accuracy != entries[j].Accuracy {
			return entries[i].Accuracy > entries[j].Accuracy
		}
		return bytes.Compare(entries[i].StudentID[:], entries[j].StudentID[:]) < 0
	})

	for i := range entries {
		entries[i].Rank = i + 1
		if prev, ok := previousRanks[entries[i].StudentID]; ok {
			p := prev
			entries[i].PreviousRank = &p
			entries[i].RankChange = prev - entries[i].Rank
		}
	}
	return entries
}
