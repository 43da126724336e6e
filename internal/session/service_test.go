package session

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
)

var errSession = errors.New("session store failure")

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock
}

func TestStartThenActiveRoundTrip(t *testing.T) {
	mock := newMock(t)
	svc := NewService(mock, nil)

	startedAt := time.Now()
	mock.ExpectQuery(`INSERT INTO sessions`).
		WithArgs(pgxmock.AnyArg(), "user-1").
		WillReturnRows(pgxmock.NewRows([]string{"started_at", "created_at"}).AddRow(startedAt, startedAt))

	sess, err := svc.Start(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if sess.ID == "" || sess.Closed() {
		t.Fatalf("expected open session, got %+v", sess)
	}

	mock.ExpectQuery(`SELECT id, user_id, started_at, ended_at`).
		WithArgs("user-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "started_at", "ended_at", "duration_sec", "is_private", "message", "rating", "created_at"}).
			AddRow(sess.ID, "user-1", startedAt, nil, 0, false, nil, nil, startedAt))

	active, err := svc.Active(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("active: %v", err)
	}
	if active == nil || active.EndedAt != nil {
		t.Fatalf("expected active session with nil ended_at, got %+v", active)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestStartRejectsSecondActiveSession(t *testing.T) {
	mock := newMock(t)
	svc := NewService(mock, nil)

	mock.ExpectQuery(`INSERT INTO sessions`).
		WithArgs(pgxmock.AnyArg(), "user-1").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := svc.Start(context.Background(), "user-1")
	if !errors.Is(err, ErrActiveSessionExists) {
		t.Fatalf("expected ErrActiveSessionExists, got %v", err)
	}
}

func TestStopClosesSession(t *testing.T) {
	mock := newMock(t)
	svc := NewService(mock, nil)

	startedAt := time.Now().Add(-10 * time.Minute)
	endedAt := time.Now()
	note := "good one"
	rating := 8

	mock.ExpectQuery(`UPDATE sessions`).
		WithArgs("sess-1", &note, &rating, false).
		WillReturnRows(pgxmock.NewRows([]string{"user_id", "started_at", "ended_at", "duration_sec", "created_at"}).
			AddRow("user-1", startedAt, &endedAt, 600, startedAt))

	sess, err := svc.Stop(context.Background(), "sess-1", StopRequest{Message: &note, Rating: &rating})
	if err != nil {
		t.Fatalf("stop: %v", err)
	}
	if !sess.Closed() || sess.DurationSec != 600 {
		t.Fatalf("unexpected closed session: %+v", sess)
	}

	// Once stopped there is no active session left.
	mock.ExpectQuery(`SELECT id, user_id, started_at, ended_at`).
		WithArgs("user-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "started_at", "ended_at", "duration_sec", "is_private", "message", "rating", "created_at"}))

	active, err := svc.Active(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("active: %v", err)
	}
	if active != nil {
		t.Fatalf("expected no active session, got %+v", active)
	}
}

func TestStopValidation(t *testing.T) {
	svc := NewService(newMock(t), nil)

	long := strings.Repeat("x", 101)
	if _, err := svc.Stop(context.Background(), "sess-1", StopRequest{Message: &long}); !errors.Is(err, ErrMessageTooLong) {
		t.Fatalf("expected ErrMessageTooLong, got %v", err)
	}

	bad := 11
	if _, err := svc.Stop(context.Background(), "sess-1", StopRequest{Rating: &bad}); !errors.Is(err, ErrInvalidRating) {
		t.Fatalf("expected ErrInvalidRating, got %v", err)
	}

	negative := -1
	if _, err := svc.Stop(context.Background(), "sess-1", StopRequest{Rating: &negative}); !errors.Is(err, ErrInvalidRating) {
		t.Fatalf("expected ErrInvalidRating, got %v", err)
	}
}

func TestStopMissingSession(t *testing.T) {
	mock := newMock(t)
	svc := NewService(mock, nil)

	mock.ExpectQuery(`UPDATE sessions`).
		WithArgs("missing", pgxmock.AnyArg(), pgxmock.AnyArg(), false).
		WillReturnRows(pgxmock.NewRows([]string{"user_id", "started_at", "ended_at", "duration_sec", "created_at"}))

	_, err := svc.Stop(context.Background(), "missing", StopRequest{})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDiscard(t *testing.T) {
	mock := newMock(t)
	svc := NewService(mock, nil)

	mock.ExpectExec(`DELETE FROM sessions`).
		WithArgs("sess-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	if err := svc.Discard(context.Background(), "sess-1"); err != nil {
		t.Fatalf("discard: %v", err)
	}

	mock.ExpectExec(`DELETE FROM sessions`).
		WithArgs("missing").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	if err := svc.Discard(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestClosedOrderAndScan(t *testing.T) {
	mock := newMock(t)
	svc := NewService(mock, nil)

	newer := time.Now()
	older := newer.Add(-2 * time.Hour)
	newerEnd := newer.Add(time.Minute)
	olderEnd := older.Add(time.Minute)

	mock.ExpectQuery(`SELECT id, user_id, started_at, ended_at`).
		WithArgs("user-1", 10).
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "started_at", "ended_at", "duration_sec", "is_private", "message", "rating", "created_at"}).
			AddRow("s-new", "user-1", newer, &newerEnd, 60, false, nil, nil, newer).
			AddRow("s-old", "user-1", older, &olderEnd, 60, false, nil, nil, older))

	sessions, err := svc.Closed(context.Background(), "user-1", 10)
	if err != nil {
		t.Fatalf("closed: %v", err)
	}
	if len(sessions) != 2 || sessions[0].ID != "s-new" {
		t.Fatalf("unexpected result: %+v", sessions)
	}
}

func TestInRangeQueryError(t *testing.T) {
	mock := newMock(t)
	svc := NewService(mock, nil)

	mock.ExpectQuery(`SELECT id, user_id, started_at, ended_at`).
		WithArgs("user-1", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(errSession)

	if _, err := svc.InRange(context.Background(), "user-1", time.Now().Add(-time.Hour), time.Now()); err == nil {
		t.Fatalf("expected error")
	}
}
