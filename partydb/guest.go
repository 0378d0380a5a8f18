package partydb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

type (
	// Guest is the local record for a party invitee, keyed by the
	// identity id assigned by the external provider.
	Guest struct {
		GuestID            string    `json:"guest_id"`
		ProviderIdentityID string    `json:"provider_identity_id"`
		Name               string    `json:"name"`
		Email              string    `json:"email"`
		Phone              string    `json:"phone"`
		CreatedAt          time.Time `json:"created_at"`
		UpdatedAt          time.Time `json:"updated_at"`
	}
)

const guestColumns = `guest_id, provider_identity_id, name, email, phone, created_at, updated_at`

func scanGuest(row interface{ Scan(...interface{}) error }) (*Guest, error) {
	var g Guest
	err := row.Scan(&g.GuestID, &g.ProviderIdentityID, &g.Name, &g.Email, &g.Phone, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *Store) GetGuest(ctx context.Context, guestID string) (*Guest, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+guestColumns+` from guest where guest_id = ? and deleted_at is null`, guestID)
	g, err := scanGuest(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("unable to load guest %v, cause %w", guestID, err)
	}
	return g, nil
}

func (s *Store) GetGuestByProviderIdentity(ctx context.Context, providerIdentityID string) (*Guest, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+guestColumns+` from guest where provider_identity_id = ? and deleted_at is null`,
		providerIdentityID)
	g, err := scanGuest(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("unable to load guest by identity, cause %w", err)
	}
	return g, nil
}

// InsertGuest stores a new guest row. ErrGuestExists is returned when
// another row already claims the same provider identity id, which
// callers should treat as "lookup again" rather than a failure.
func (s *Store) InsertGuest(ctx context.Context, g Guest) error {
	_, err := s.db.ExecContext(ctx,
		`insert into guest (guest_id, provider_identity_id, name, email, phone, created_at, updated_at)
		values (?, ?, ?, ?, ?, ?, ?)`,
		g.GuestID, g.ProviderIdentityID, g.Name, g.Email, g.Phone, g.CreatedAt, g.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrGuestExists
	} else if err != nil {
		return fmt.Errorf("unable to insert guest, cause %w", err)
	}
	return nil
}

// ErrGuestExists signals a unique-constraint conflict on the provider
// identity column.
var ErrGuestExists = errors.New("guest already exists")

// UpdateGuestTraits overwrites name, email and phone for an existing
// guest. Used by the explicit trait-sync operation only, never by the
// authentication hot path.
func (s *Store) UpdateGuestTraits(ctx context.Context, guestID, name, email, phone string) (*Guest, error) {
	res, err := s.db.ExecContext(ctx,
		`update guest set name = ?, email = ?, phone = ?, updated_at = ?
		where guest_id = ? and deleted_at is null`,
		name, email, phone, time.Now().UTC(), guestID)
	if err != nil {
		return nil, fmt.Errorf("unable to update guest %v, cause %w", guestID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("unable to update guest %v, cause %w", guestID, err)
	}
	if n == 0 {
		return nil, ErrNotFound
	}
	return s.GetGuest(ctx, guestID)
}

func (s *Store) SoftDeleteGuest(ctx context.Context, guestID string) error {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`update guest set deleted_at = ?, updated_at = ? where guest_id = ? and deleted_at is null`,
		now, now, guestID)
	if err != nil {
		return fmt.Errorf("unable to delete guest %v, cause %w", guestID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("unable to delete guest %v, cause %w", guestID, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
