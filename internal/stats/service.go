package stats

import (
	"context"
	"time"

	"github.com/M4ts99/friendspo-sub000/internal/session"
)

// Windows bounds the history each metric reads. The three metrics reading
// different windows is inherited product behavior; see config defaults.
type Windows struct {
	HistoryLimit         int
	StreakDays           int
	RegularitySampleSize int
}

type Service struct {
	sessions *session.Service
	windows  Windows
	now      func() time.Time
}

func NewService(sessions *session.Service, windows Windows) *Service {
	return &Service{
		sessions: sessions,
		windows:  windows,
		now:      time.Now,
	}
}

// SnapshotForUser fetches each metric's window and assembles the full
// snapshot. Any fetch failure aborts the whole computation; no partial
// snapshot is ever returned.
func (s *Service) SnapshotForUser(ctx context.Context, userID string) (Snapshot, error) {
	now := s.now()

	history, err := s.sessions.Closed(ctx, userID, s.windows.HistoryLimit)
	if err != nil {
		return Snapshot{}, err
	}
	snap := Calculate(history, now)

	streak, err := s.StreakForUser(ctx, userID)
	if err != nil {
		return Snapshot{}, err
	}
	snap.CurrentStreak = streak

	regularity, err := s.RegularityForUser(ctx, userID)
	if err != nil {
		return Snapshot{}, err
	}
	snap.RegularityScore = regularity

	return snap, nil
}

func (s *Service) StreakForUser(ctx context.Context, userID string) (int, error) {
	now := s.now()
	from := now.AddDate(0, 0, -s.windows.StreakDays)
	windowed, err := s.sessions.InRange(ctx, userID, from, now)
	if err != nil {
		return 0, err
	}
	return Streak(windowed, now, s.windows.StreakDays), nil
}

func (s *Service) RegularityForUser(ctx context.Context, userID string) (int, error) {
	recent, err := s.sessions.Closed(ctx, userID, s.windows.RegularitySampleSize)
	if err != nil {
		return 0, err
	}
	return Regularity(recent), nil
}

// CalendarForUser returns the per-day activity calendar for one month.
func (s *Service) CalendarForUser(ctx context.Context, userID string, year int, month time.Month) ([]CalendarDay, error) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	to := from.AddDate(0, 1, 0)
	monthSessions, err := s.sessions.InRange(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	return Calendar(monthSessions, year, month), nil
}
