package stats

import (
	"math"
	"time"

	"github.com/M4ts99/friendspo-sub000/internal/session"
)

const dateLayout = "2006-01-02"

// Calculate computes the aggregate fields of a snapshot from closed sessions.
// Streak and regularity are filled in by the service from their own history
// windows. An empty input yields the zero snapshot.
func Calculate(sessions []session.Session, now time.Time) Snapshot {
	if len(sessions) == 0 {
		return Snapshot{}
	}

	var snap Snapshot
	snap.TotalSessions = len(sessions)

	weekStart := now.AddDate(0, 0, -7)
	monthStart := now.AddDate(0, 0, -30)

	total := 0
	longest := sessions[0].DurationSec
	shortest := sessions[0].DurationSec
	var hourCounts [24]int

	for _, s := range sessions {
		total += s.DurationSec
		if s.DurationSec > longest {
			longest = s.DurationSec
		}
		if s.DurationSec < shortest {
			shortest = s.DurationSec
		}
		if !s.StartedAt.Before(weekStart) {
			snap.WeeklySessionCount++
			snap.WeeklySeconds += s.DurationSec
		}
		if !s.StartedAt.Before(monthStart) {
			snap.MonthlySessionCount++
			snap.MonthlySeconds += s.DurationSec
		}
		hourCounts[s.StartedAt.Local().Hour()]++
	}

	snap.AverageDurationSec = total / len(sessions)
	snap.LongestSessionSec = longest
	snap.ShortestSessionSec = shortest

	// Strict > keeps the lowest hour on ties.
	best := 0
	for h, count := range hourCounts {
		if count > best {
			best = count
			snap.MostActiveHour = h
		}
	}
	return snap
}

// Streak counts consecutive active calendar days walking backward from today.
// Today having no session yet does not end the streak; any missing day before
// that does.
func Streak(sessions []session.Session, now time.Time, windowDays int) int {
	if len(sessions) == 0 {
		return 0
	}

	active := make(map[string]struct{}, len(sessions))
	for _, s := range sessions {
		active[s.StartedAt.Local().Format(dateLayout)] = struct{}{}
	}

	streak := 0
	for offset := 0; offset < windowDays; offset++ {
		day := now.AddDate(0, 0, -offset).Local().Format(dateLayout)
		if _, ok := active[day]; ok {
			streak++
			continue
		}
		if offset > 0 {
			break
		}
	}
	return streak
}

// Calendar buckets the month's sessions by local date and returns one entry
// per day of the month in ascending order. Callers pass sessions already
// filtered to the month.
func Calendar(sessions []session.Session, year int, month time.Month) []CalendarDay {
	counts := make(map[string]int, len(sessions))
	for _, s := range sessions {
		counts[s.StartedAt.Local().Format(dateLayout)]++
	}

	daysInMonth := time.Date(year, month+1, 0, 0, 0, 0, 0, time.Local).Day()
	days := make([]CalendarDay, 0, daysInMonth)
	for d := 1; d <= daysInMonth; d++ {
		date := time.Date(year, month, d, 0, 0, 0, 0, time.Local).Format(dateLayout)
		count := counts[date]
		days = append(days, CalendarDay{
			Date:         date,
			HasSession:   count > 0,
			SessionCount: count,
		})
	}
	return days
}

// Regularity scores how evenly spaced the user's recent sessions are, from the
// coefficient of variation of the gaps between consecutive starts. Input is
// ordered most recent first. Fewer than 3 sessions is a defined zero, not an
// error. A zero mean gap pins CV to 1, which lands on a score of 50.
func Regularity(sessions []session.Session) int {
	if len(sessions) < 3 {
		return 0
	}

	gaps := make([]float64, 0, len(sessions)-1)
	for i := 0; i < len(sessions)-1; i++ {
		gaps = append(gaps, sessions[i].StartedAt.Sub(sessions[i+1].StartedAt).Hours())
	}

	mean := 0.0
	for _, g := range gaps {
		mean += g
	}
	mean /= float64(len(gaps))

	variance := 0.0
	for _, g := range gaps {
		variance += (g - mean) * (g - mean)
	}
	variance /= float64(len(gaps))

	cv := 1.0
	if mean != 0 {
		cv = math.Sqrt(variance) / mean
	}

	score := math.Round(100 - cv*50)
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return int(score)
}
