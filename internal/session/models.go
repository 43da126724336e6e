package session

import "time"

// Session is one timed tracked activity. EndedAt is nil while the session is
// running; DurationSec is computed once at close time.
type Session struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	StartedAt   time.Time  `json:"started_at"`
	EndedAt     *time.Time `json:"ended_at,omitempty"`
	DurationSec int        `json:"duration_sec"`
	IsPrivate   bool       `json:"is_private"`
	Message     *string    `json:"message,omitempty"`
	Rating      *int       `json:"rating,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Closed reports whether the session has an end timestamp.
func (s Session) Closed() bool {
	return s.EndedAt != nil
}

type StopRequest struct {
	Message   *string `json:"message,omitempty"`
	Rating    *int    `json:"rating,omitempty"`
	IsPrivate bool    `json:"is_private"`
}

// ActivityEvent is what gets published to the live feed when a session closes.
type ActivityEvent struct {
	SessionID   string    `json:"session_id"`
	UserID      string    `json:"user_id"`
	StartedAt   time.Time `json:"started_at"`
	EndedAt     time.Time `json:"ended_at"`
	DurationSec int       `json:"duration_sec"`
}
