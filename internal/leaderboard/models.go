package leaderboard

import (
	"fmt"

	"github.com/M4ts99/friendspo-sub000/internal/stats"
)

// Category selects the metric a friends leaderboard ranks by.
type Category string

const (
	CategoryStreak      Category = "streak"
	CategorySpeed       Category = "speed"
	CategoryActivity    Category = "activity"
	CategoryConsistency Category = "consistency"
)

// Score extracts the category's value from a snapshot. Unknown categories are
// an error so a typo can't silently rank by the zero value.
func (c Category) Score(snap stats.Snapshot) (int, error) {
	switch c {
	case CategoryStreak:
		return snap.CurrentStreak, nil
	case CategorySpeed:
		return snap.AverageDurationSec, nil
	case CategoryActivity:
		return snap.WeeklySessionCount, nil
	case CategoryConsistency:
		return snap.RegularityScore, nil
	}
	return 0, fmt.Errorf("unknown leaderboard category %q", string(c))
}

// Valid reports whether the category is one of the known four.
func (c Category) Valid() bool {
	switch c {
	case CategoryStreak, CategorySpeed, CategoryActivity, CategoryConsistency:
		return true
	}
	return false
}

// Ascending reports whether lower scores rank better for the category.
// Only speed inverts: a lower average duration wins.
func (c Category) Ascending() bool {
	return c == CategorySpeed
}

// Entry is one ranked row of a friends leaderboard.
type Entry struct {
	UserID string `json:"user_id"`
	Score  int    `json:"score"`
	Rank   int    `json:"rank"`
}

// LeagueMemberStats are a league member's lifetime totals. Ordering is by
// session count only; total minutes is reported but not a tiebreak.
type LeagueMemberStats struct {
	UserID        string `json:"user_id"`
	Nickname      string `json:"nickname"`
	TotalSessions int    `json:"total_sessions"`
	TotalMinutes  int    `json:"total_minutes"`
	Rank          int    `json:"rank"`
}
