package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/M4ts99/friendspo-sub000/internal/db"
	"github.com/M4ts99/friendspo-sub000/internal/stream"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const maxMessageLen = 100

var (
	ErrActiveSessionExists = errors.New("an active session already exists for this user")
	ErrNotFound            = errors.New("session not found")
	ErrMessageTooLong      = errors.New("message exceeds 100 characters")
	ErrInvalidRating       = errors.New("rating must be between 0 and 10")
)

type Service struct {
	db  db.Querier
	hub *stream.Hub
}

func NewService(db db.Querier, hub *stream.Hub) *Service {
	return &Service{db: db, hub: hub}
}

// Start opens a new session for the user. The sessions table carries a partial
// unique index on (user_id) WHERE ended_at IS NULL, so a second concurrent
// start surfaces as a unique violation rather than a duplicate active session.
func (s *Service) Start(ctx context.Context, userID string) (Session, error) {
	sess := Session{
		ID:     uuid.NewString(),
		UserID: userID,
	}
	row := s.db.QueryRow(ctx, `
		INSERT INTO sessions (id, user_id, started_at)
		VALUES ($1, $2, now())
		RETURNING started_at, created_at
	`, sess.ID, sess.UserID)
	if err := row.Scan(&sess.StartedAt, &sess.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return Session{}, ErrActiveSessionExists
		}
		return Session{}, err
	}
	return sess, nil
}

// Stop closes the session, computing duration_sec at the store so it is
// derived from the same clock as started_at. Stopping a session that is
// missing or already closed returns ErrNotFound.
func (s *Service) Stop(ctx context.Context, sessionID string, req StopRequest) (Session, error) {
	if req.Message != nil && len([]rune(*req.Message)) > maxMessageLen {
		return Session{}, ErrMessageTooLong
	}
	if req.Rating != nil && (*req.Rating < 0 || *req.Rating > 10) {
		return Session{}, ErrInvalidRating
	}

	sess := Session{ID: sessionID, Message: req.Message, Rating: req.Rating, IsPrivate: req.IsPrivate}
	row := s.db.QueryRow(ctx, `
		UPDATE sessions
		SET ended_at = now(),
		    duration_sec = EXTRACT(EPOCH FROM (now() - started_at))::int,
		    message = $2,
		    rating = $3,
		    is_private = $4
		WHERE id = $1 AND ended_at IS NULL
		RETURNING user_id, started_at, ended_at, duration_sec, created_at
	`, sess.ID, req.Message, req.Rating, req.IsPrivate)
	if err := row.Scan(&sess.UserID, &sess.StartedAt, &sess.EndedAt, &sess.DurationSec, &sess.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Session{}, ErrNotFound
		}
		return Session{}, err
	}

	if s.hub != nil && !sess.IsPrivate {
		payload, _ := json.Marshal(ActivityEvent{
			SessionID:   sess.ID,
			UserID:      sess.UserID,
			StartedAt:   sess.StartedAt,
			EndedAt:     *sess.EndedAt,
			DurationSec: sess.DurationSec,
		})
		s.hub.Broadcast(sess.UserID, payload)
	}
	return sess, nil
}

// Discard removes a session outright. The product allows throwing away a
// just-stopped session before it is published.
func (s *Service) Discard(ctx context.Context, sessionID string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, sessionID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Active returns the user's running session, or nil when there is none.
func (s *Service) Active(ctx context.Context, userID string) (*Session, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, user_id, started_at, ended_at, COALESCE(duration_sec, 0), is_private, message, rating, created_at
		FROM sessions
		WHERE user_id = $1 AND ended_at IS NULL
	`, userID)
	var sess Session
	if err := row.Scan(&sess.ID, &sess.UserID, &sess.StartedAt, &sess.EndedAt, &sess.DurationSec, &sess.IsPrivate, &sess.Message, &sess.Rating, &sess.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &sess, nil
}

// Closed returns the user's closed sessions, most recent first.
func (s *Service) Closed(ctx context.Context, userID string, limit int) ([]Session, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, user_id, started_at, ended_at, duration_sec, is_private, message, rating, created_at
		FROM sessions
		WHERE user_id = $1 AND ended_at IS NOT NULL
		ORDER BY started_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSessions(rows)
}

// InRange returns closed sessions with from <= started_at < to, ascending.
func (s *Service) InRange(ctx context.Context, userID string, from, to time.Time) ([]Session, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, user_id, started_at, ended_at, duration_sec, is_private, message, rating, created_at
		FROM sessions
		WHERE user_id = $1 AND ended_at IS NOT NULL AND started_at >= $2 AND started_at < $3
		ORDER BY started_at
	`, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSessions(rows)
}

func scanSessions(rows pgx.Rows) ([]Session, error) {
	var sessions []Session
	for rows.Next() {
		var sess Session
		if err := rows.Scan(&sess.ID, &sess.UserID, &sess.StartedAt, &sess.EndedAt, &sess.DurationSec, &sess.IsPrivate, &sess.Message, &sess.Rating, &sess.CreatedAt); err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
