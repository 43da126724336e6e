package leaderboard

import (
	"context"
	"sort"

	"github.com/M4ts99/friendspo-sub000/internal/db"
	"github.com/M4ts99/friendspo-sub000/internal/social"
	"github.com/M4ts99/friendspo-sub000/internal/stats"
)

type Service struct {
	db     db.Querier
	stats  *stats.Service
	social *social.Service
}

func NewService(db db.Querier, statsSvc *stats.Service, socialSvc *social.Service) *Service {
	return &Service{db: db, stats: statsSvc, social: socialSvc}
}

// Friends ranks the user's friends by the chosen category. Each friend gets a
// full snapshot; the sort is stable so exact ties keep fetch order, and ranks
// are strictly sequential from 1.
func (s *Service) Friends(ctx context.Context, userID string, category Category) ([]Entry, error) {
	friendIDs, err := s.social.FriendIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(friendIDs))
	for _, friendID := range friendIDs {
		snap, err := s.stats.SnapshotForUser(ctx, friendID)
		if err != nil {
			return nil, err
		}
		score, err := category.Score(snap)
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{UserID: friendID, Score: score})
	}

	return sortAndRank(entries, category), nil
}

// sortAndRank orders entries per category direction and assigns 1-based
// sequential ranks. Stable, so exact ties keep their input order.
func sortAndRank(entries []Entry, category Category) []Entry {
	if category.Ascending() {
		sort.SliceStable(entries, func(i, j int) bool { return entries[i].Score < entries[j].Score })
	} else {
		sort.SliceStable(entries, func(i, j int) bool { return entries[i].Score > entries[j].Score })
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

// League aggregates lifetime totals per member in the store and orders by
// session count alone.
func (s *Service) League(ctx context.Context, leagueID string) ([]LeagueMemberStats, error) {
	rows, err := s.db.Query(ctx, `
		SELECT u.id, u.nickname,
		       COUNT(s.id),
		       COALESCE(SUM(s.duration_sec), 0) / 60
		FROM league_members lm
		JOIN users u ON u.id = lm.user_id
		LEFT JOIN sessions s ON s.user_id = u.id AND s.ended_at IS NOT NULL
		WHERE lm.league_id = $1
		GROUP BY u.id, u.nickname
		ORDER BY COUNT(s.id) DESC
	`, leagueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []LeagueMemberStats
	for rows.Next() {
		var m LeagueMemberStats
		if err := rows.Scan(&m.UserID, &m.Nickname, &m.TotalSessions, &m.TotalMinutes); err != nil {
			return nil, err
		}
		m.Rank = len(members) + 1
		members = append(members, m)
	}
	return members, rows.Err()
}
