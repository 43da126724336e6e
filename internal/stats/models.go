package stats

// Snapshot is a derived aggregate over a user's closed sessions. It is never
// persisted; every read recomputes it from the store.
type Snapshot struct {
	TotalSessions       int `json:"total_sessions"`
	AverageDurationSec  int `json:"average_duration_sec"`
	LongestSessionSec   int `json:"longest_session_sec"`
	ShortestSessionSec  int `json:"shortest_session_sec"`
	CurrentStreak       int `json:"current_streak"`
	WeeklySessionCount  int `json:"weekly_session_count"`
	WeeklySeconds       int `json:"weekly_seconds"`
	MonthlySessionCount int `json:"monthly_session_count"`
	MonthlySeconds      int `json:"monthly_seconds"`
	MostActiveHour      int `json:"most_active_hour"`
	RegularityScore     int `json:"regularity_score"`
}

// CalendarDay is one day of a month's activity calendar.
type CalendarDay struct {
	Date         string `json:"date"`
	HasSession   bool   `json:"has_session"`
	SessionCount int    `json:"session_count"`
}
