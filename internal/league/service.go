package league

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/M4ts99/friendspo-sub000/internal/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound      = errors.New("league not found")
	ErrInvalidCode   = errors.New("invalid join code")
	ErrAlreadyMember = errors.New("user is already a member of this league")
)

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

// Create makes a league and auto-joins the creator. Join-code collisions are
// not retried; the unique constraint on join_code surfaces them.
func (s *Service) Create(ctx context.Context, name, createdBy string) (League, error) {
	if name == "" {
		return League{}, errors.New("name required")
	}
	lg := League{
		ID:        uuid.NewString(),
		Name:      name,
		JoinCode:  GenerateJoinCode(name),
		CreatedBy: createdBy,
	}
	row := s.db.QueryRow(ctx, `
		INSERT INTO leagues (id, name, join_code, created_by)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`, lg.ID, lg.Name, lg.JoinCode, lg.CreatedBy)
	if err := row.Scan(&lg.CreatedAt); err != nil {
		return League{}, err
	}

	if _, err := s.db.Exec(ctx, `
		INSERT INTO league_members (league_id, user_id)
		VALUES ($1, $2)
	`, lg.ID, lg.CreatedBy); err != nil {
		return League{}, err
	}
	return lg, nil
}

// Join adds the user to the league matching the code.
func (s *Service) Join(ctx context.Context, userID, code string) (League, error) {
	var lg League
	row := s.db.QueryRow(ctx, `
		SELECT id, name, join_code, created_by, created_at
		FROM leagues WHERE join_code = $1
	`, code)
	if err := row.Scan(&lg.ID, &lg.Name, &lg.JoinCode, &lg.CreatedBy, &lg.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return League{}, ErrInvalidCode
		}
		return League{}, err
	}

	if _, err := s.db.Exec(ctx, `
		INSERT INTO league_members (league_id, user_id)
		VALUES ($1, $2)
	`, lg.ID, userID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return League{}, ErrAlreadyMember
		}
		return League{}, err
	}
	return lg, nil
}

func (s *Service) Leave(ctx context.Context, userID, leagueID string) error {
	tag, err := s.db.Exec(ctx, `
		DELETE FROM league_members WHERE league_id = $1 AND user_id = $2
	`, leagueID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Service) Get(ctx context.Context, leagueID string) (League, error) {
	var lg League
	row := s.db.QueryRow(ctx, `
		SELECT id, name, join_code, created_by, created_at
		FROM leagues WHERE id = $1
	`, leagueID)
	if err := row.Scan(&lg.ID, &lg.Name, &lg.JoinCode, &lg.CreatedBy, &lg.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return League{}, ErrNotFound
		}
		return League{}, err
	}
	return lg, nil
}

func (s *Service) Members(ctx context.Context, leagueID string) ([]Member, error) {
	rows, err := s.db.Query(ctx, `
		SELECT lm.league_id, lm.user_id, u.nickname, lm.joined_at
		FROM league_members lm
		JOIN users u ON u.id = lm.user_id
		WHERE lm.league_id = $1
		ORDER BY lm.joined_at
	`, leagueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []Member
	for rows.Next() {
		var m Member
		if err := rows.Scan(&m.LeagueID, &m.UserID, &m.Nickname, &m.JoinedAt); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// Leagues lists the leagues the user belongs to.
func (s *Service) Leagues(ctx context.Context, userID string) ([]League, error) {
	rows, err := s.db.Query(ctx, `
		SELECT l.id, l.name, l.join_code, l.created_by, l.created_at
		FROM league_members lm
		JOIN leagues l ON l.id = lm.league_id
		WHERE lm.user_id = $1
		ORDER BY l.created_at
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leagues []League
	for rows.Next() {
		var lg League
		if err := rows.Scan(&lg.ID, &lg.Name, &lg.JoinCode, &lg.CreatedBy, &lg.CreatedAt); err != nil {
			return nil, err
		}
		leagues = append(leagues, lg)
	}
	return leagues, rows.Err()
}

// GenerateJoinCode builds a code like "RUNC-0482": the league name stripped of
// non-alphanumerics, uppercased and truncated to 4 chars, plus a 4-digit
// pseudorandom suffix.
func GenerateJoinCode(name string) string {
	var prefix strings.Builder
	for _, r := range strings.ToUpper(name) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			prefix.WriteRune(r)
			if prefix.Len() == 4 {
				break
			}
		}
	}
	return fmt.Sprintf("%s-%04d", prefix.String(), rand.Intn(10000))
}
