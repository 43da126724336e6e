package league

import "time"

type League struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	JoinCode  string    `json:"join_code"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

type Member struct {
	LeagueID string    `json:"league_id"`
	UserID   string    `json:"user_id"`
	Nickname string    `json:"nickname"`
	JoinedAt time.Time `json:"joined_at"`
}
