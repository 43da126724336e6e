package social

import (
	"context"
	"errors"

	"github.com/M4ts99/friendspo-sub000/internal/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const feedLimit = 50

var (
	ErrAlreadyFriends = errors.New("users are already friends")
	ErrRequestExists  = errors.New("a friend request already exists between these users")
	ErrSelfRequest    = errors.New("cannot send a friend request to yourself")
	ErrNotFound       = errors.New("friendship not found")
)

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

// Request creates a pending friendship. Both directions are checked first: an
// accepted row in either direction rejects with ErrAlreadyFriends, a pending
// row in either direction with ErrRequestExists.
func (s *Service) Request(ctx context.Context, requesterID, addresseeID string) (Friendship, error) {
	if requesterID == addresseeID {
		return Friendship{}, ErrSelfRequest
	}

	var status string
	err := s.db.QueryRow(ctx, `
		SELECT status FROM friendships
		WHERE (requester_id = $1 AND addressee_id = $2)
		   OR (requester_id = $2 AND addressee_id = $1)
	`, requesterID, addresseeID).Scan(&status)
	switch {
	case err == nil && status == StatusAccepted:
		return Friendship{}, ErrAlreadyFriends
	case err == nil:
		return Friendship{}, ErrRequestExists
	case !errors.Is(err, pgx.ErrNoRows):
		return Friendship{}, err
	}

	f := Friendship{
		ID:          uuid.NewString(),
		RequesterID: requesterID,
		AddresseeID: addresseeID,
		Status:      StatusPending,
	}
	row := s.db.QueryRow(ctx, `
		INSERT INTO friendships (id, requester_id, addressee_id, status)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`, f.ID, f.RequesterID, f.AddresseeID, f.Status)
	if err := row.Scan(&f.CreatedAt); err != nil {
		return Friendship{}, err
	}
	return f, nil
}

// Accept marks a pending request accepted. Only the addressee may accept.
func (s *Service) Accept(ctx context.Context, requestID, userID string) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE friendships
		SET status = $3, responded_at = now()
		WHERE id = $1 AND addressee_id = $2 AND status = $4
	`, requestID, userID, StatusAccepted, StatusPending)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Decline removes a pending request. Only the addressee may decline.
func (s *Service) Decline(ctx context.Context, requestID, userID string) error {
	tag, err := s.db.Exec(ctx, `
		DELETE FROM friendships
		WHERE id = $1 AND addressee_id = $2 AND status = $3
	`, requestID, userID, StatusPending)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Unfriend hard-deletes the accepted row matching either direction. No
// historical record is kept.
func (s *Service) Unfriend(ctx context.Context, userID, friendID string) error {
	tag, err := s.db.Exec(ctx, `
		DELETE FROM friendships
		WHERE status = $3
		  AND ((requester_id = $1 AND addressee_id = $2)
		    OR (requester_id = $2 AND addressee_id = $1))
	`, userID, friendID, StatusAccepted)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Friends lists the user's accepted friends with their profiles.
func (s *Service) Friends(ctx context.Context, userID string) ([]Friend, error) {
	rows, err := s.db.Query(ctx, `
		SELECT u.id, u.nickname, COALESCE(u.avatar_url, '')
		FROM friendships f
		JOIN users u ON u.id = CASE WHEN f.requester_id = $1 THEN f.addressee_id ELSE f.requester_id END
		WHERE f.status = $2 AND (f.requester_id = $1 OR f.addressee_id = $1)
		ORDER BY u.nickname
	`, userID, StatusAccepted)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var friends []Friend
	for rows.Next() {
		var f Friend
		if err := rows.Scan(&f.UserID, &f.Nickname, &f.AvatarURL); err != nil {
			return nil, err
		}
		friends = append(friends, f)
	}
	return friends, rows.Err()
}

// FriendIDs returns just the ids of the user's accepted friends.
func (s *Service) FriendIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := s.db.Query(ctx, `
		SELECT CASE WHEN requester_id = $1 THEN addressee_id ELSE requester_id END
		FROM friendships
		WHERE status = $2 AND (requester_id = $1 OR addressee_id = $1)
	`, userID, StatusAccepted)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Requests lists pending requests addressed to the user.
func (s *Service) Requests(ctx context.Context, userID string) ([]Friendship, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, requester_id, addressee_id, status, created_at, responded_at
		FROM friendships
		WHERE addressee_id = $1 AND status = $2
		ORDER BY created_at DESC
	`, userID, StatusPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []Friendship
	for rows.Next() {
		var f Friendship
		if err := rows.Scan(&f.ID, &f.RequesterID, &f.AddresseeID, &f.Status, &f.CreatedAt, &f.RespondedAt); err != nil {
			return nil, err
		}
		requests = append(requests, f)
	}
	return requests, rows.Err()
}

// Feed returns friends' recently published sessions, newest first. Private
// sessions never appear.
func (s *Service) Feed(ctx context.Context, userID string) ([]FeedEntry, error) {
	rows, err := s.db.Query(ctx, `
		SELECT s.id, s.user_id, u.nickname, s.started_at, s.ended_at, s.duration_sec, s.message, s.rating
		FROM sessions s
		JOIN users u ON u.id = s.user_id
		WHERE s.ended_at IS NOT NULL
		  AND s.is_private = FALSE
		  AND s.user_id IN (
			SELECT CASE WHEN requester_id = $1 THEN addressee_id ELSE requester_id END
			FROM friendships
			WHERE status = $2 AND (requester_id = $1 OR addressee_id = $1)
		  )
		ORDER BY s.ended_at DESC
		LIMIT $3
	`, userID, StatusAccepted, feedLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var feed []FeedEntry
	for rows.Next() {
		var e FeedEntry
		if err := rows.Scan(&e.SessionID, &e.UserID, &e.Nickname, &e.StartedAt, &e.EndedAt, &e.DurationSec, &e.Message, &e.Rating); err != nil {
			return nil, err
		}
		feed = append(feed, e)
	}
	return feed, rows.Err()
}
