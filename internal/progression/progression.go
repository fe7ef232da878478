// Package progression implements the derived-signal rules of the platform:
// per-topic mastery, daily streaks, the XP ledger and level curve, badge
// evaluation, and leaderboard ranking.
//
// Everything in this package is pure computation over caller-provided state.
// Nothing here touches the database, the clock, or any other process-wide
// resource; callers pass timestamps in and persist the returned state.
package progression

import "errors"

var (
	// ErrInvalidInput rejects negative counts, malformed dates and
	// non-positive XP amounts for non-manual transaction types.
	ErrInvalidInput = errors.New("progression: invalid input")

	// ErrInconsistentState flags aggregate state that violates an internal
	// invariant (e.g. more correct answers than attempts). Callers must not
	// persist state when this is returned.
	ErrInconsistentState = errors.New("progression: inconsistent state")
)
