package partydb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type (
	// Status is an rsvp answer as stored in the database.
	Status string

	Rsvp struct {
		RsvpID    string    `json:"rsvp_id"`
		PartyID   string    `json:"party_id"`
		GuestID   string    `json:"guest_id"`
		Status    Status    `json:"status"`
		CreatedAt time.Time `json:"created_at"`
		UpdatedAt time.Time `json:"updated_at"`
	}
)

const (
	StatusPending  Status = "pending"
	StatusGoing    Status = "going"
	StatusMaybe    Status = "maybe"
	StatusDeclined Status = "declined"
)

// ParseStatus decodes a status string. The second return value is
// false for unrecognized values, which callers must surface as an
// error instead of aborting.
func ParseStatus(v string) (Status, bool) {
	switch Status(v) {
	case StatusPending, StatusGoing, StatusMaybe, StatusDeclined:
		return Status(v), true
	}
	return "", false
}

const rsvpColumns = `rsvp_id, party_id, guest_id, status, created_at, updated_at`

func scanRsvp(row interface{ Scan(...interface{}) error }) (*Rsvp, error) {
	var r Rsvp
	var status string
	err := row.Scan(&r.RsvpID, &r.PartyID, &r.GuestID, &status, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	parsed, ok := ParseStatus(status)
	if !ok {
		return nil, fmt.Errorf("rsvp %v holds unrecognized status %q", r.RsvpID, status)
	}
	r.Status = parsed
	return &r, nil
}

func (s *Store) ListPartyRsvps(ctx context.Context, partyID string) ([]Rsvp, error) {
	rows, err := s.db.QueryContext(ctx,
		`select `+rsvpColumns+` from rsvp
		where party_id = ? and deleted_at is null order by created_at asc`, partyID)
	if err != nil {
		return nil, fmt.Errorf("unable to list rsvps for party %v, cause %w", partyID, err)
	}
	defer rows.Close()
	var out []Rsvp
	for rows.Next() {
		r, err := scanRsvp(rows)
		if err != nil {
			return nil, fmt.Errorf("unable to scan rsvp row, cause %w", err)
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

// GetOrCreateRsvp returns the guest's rsvp for the party, creating a
// pending one on first sight. ErrNotFound is returned when the party
// does not exist (or was deleted).
func (s *Store) GetOrCreateRsvp(ctx context.Context, partyID, guestID string) (*Rsvp, error) {
	_, err := s.GetParty(ctx, partyID)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	_, err = s.db.ExecContext(ctx,
		`insert into rsvp (rsvp_id, party_id, guest_id, status, created_at, updated_at)
		values (?, ?, ?, ?, ?, ?)
		on conflict (party_id, guest_id) do nothing`,
		uuid.NewString(), partyID, guestID, string(StatusPending), now, now)
	if err != nil {
		return nil, fmt.Errorf("unable to insert rsvp, cause %w", err)
	}
	row := s.db.QueryRowContext(ctx,
		`select `+rsvpColumns+` from rsvp
		where party_id = ? and guest_id = ? and deleted_at is null`, partyID, guestID)
	r, err := scanRsvp(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("unable to load rsvp, cause %w", err)
	}
	return r, nil
}

// UpdateRsvp changes the status of an rsvp owned by guestID.
func (s *Store) UpdateRsvp(ctx context.Context, rsvpID, guestID string, status Status) (*Rsvp, error) {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`update rsvp set status = ?, updated_at = ?
		where rsvp_id = ? and guest_id = ? and deleted_at is null`,
		string(status), now, rsvpID, guestID)
	if err != nil {
		return nil, fmt.Errorf("unable to update rsvp %v, cause %w", rsvpID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("unable to update rsvp %v, cause %w", rsvpID, err)
	}
	if n == 0 {
		return nil, ErrNotFound
	}
	row := s.db.QueryRowContext(ctx,
		`select `+rsvpColumns+` from rsvp where rsvp_id = ?`, rsvpID)
	return scanRsvp(row)
}

// SoftDeleteRsvp removes the guest's rsvp for the party.
func (s *Store) SoftDeleteRsvp(ctx context.Context, partyID, guestID string) error {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`update rsvp set deleted_at = ?, updated_at = ?
		where party_id = ? and guest_id = ? and deleted_at is null`,
		now, now, partyID, guestID)
	if err != nil {
		return fmt.Errorf("unable to delete rsvp, cause %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("unable to delete rsvp, cause %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
