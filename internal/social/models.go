package social

import "time"

const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
)

// Friendship is a directed request; a pair of users is friends only once a
// matching accepted row exists.
type Friendship struct {
	ID          string     `json:"id"`
	RequesterID string     `json:"requester_id"`
	AddresseeID string     `json:"addressee_id"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	RespondedAt *time.Time `json:"responded_at,omitempty"`
}

// Friend is an accepted friendship seen from one user's side.
type Friend struct {
	UserID    string `json:"user_id"`
	Nickname  string `json:"nickname"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// FeedEntry is one friend's published session in the activity feed.
type FeedEntry struct {
	SessionID   string    `json:"session_id"`
	UserID      string    `json:"user_id"`
	Nickname    string    `json:"nickname"`
	StartedAt   time.Time `json:"started_at"`
	EndedAt     time.Time `json:"ended_at"`
	DurationSec int       `json:"duration_sec"`
	Message     *string   `json:"message,omitempty"`
	Rating      *int      `json:"rating,omitempty"`
}
