package partydb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

type (
	// SessionRecord is a session token joined with the profile of the
	// guest owning it. Sessions are created by the login frontend, this
	// service only ever reads them.
	SessionRecord struct {
		Token     string
		UserID    string
		ExpiresAt time.Time
		Email     string
		Name      string
		Phone     string
	}
)

// LookupSession fetches the session row for token joined with its
// owning guest. Expiry is not checked here, the validator owns that
// decision.
func (s *Store) LookupSession(ctx context.Context, token string) (*SessionRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`select s.token, s.user_id, s.expires_at, g.email, g.name, g.phone
		from session s
		inner join guest g on g.guest_id = s.user_id
		where s.token = ?`, token)
	var rec SessionRecord
	err := row.Scan(&rec.Token, &rec.UserID, &rec.ExpiresAt, &rec.Email, &rec.Name, &rec.Phone)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("unable to load session, cause %w", err)
	}
	return &rec, nil
}

// PutSession stores a session row. The API never calls this, it exists
// for seeding and tests.
func (s *Store) PutSession(ctx context.Context, token, userID string, expiresAt time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`insert into session (token, user_id, expires_at) values (?, ?, ?)
		on conflict (token) do update set user_id = excluded.user_id, expires_at = excluded.expires_at`,
		token, userID, expiresAt)
	if err != nil {
		return fmt.Errorf("unable to store session, cause %w", err)
	}
	return nil
}
