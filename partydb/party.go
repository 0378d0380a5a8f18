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
	Party struct {
		PartyID     string     `json:"party_id"`
		Name        string     `json:"name"`
		Time        *time.Time `json:"time,omitempty"`
		Location    string     `json:"location"`
		Description string     `json:"description"`
		Slug        string     `json:"slug"`
		CreatedAt   time.Time  `json:"created_at"`
		UpdatedAt   time.Time  `json:"updated_at"`
	}

	// PartyFields carries the caller-controlled attributes of a party.
	PartyFields struct {
		Name        string     `json:"name"`
		Time        *time.Time `json:"time"`
		Location    string     `json:"location"`
		Description string     `json:"description"`
		Slug        string     `json:"slug"`
	}
)

const partyColumns = `party_id, name, time, location, description, slug, created_at, updated_at`

func scanParty(row interface{ Scan(...interface{}) error }) (*Party, error) {
	var p Party
	var at sql.NullTime
	err := row.Scan(&p.PartyID, &p.Name, &at, &p.Location, &p.Description, &p.Slug, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if at.Valid {
		p.Time = &at.Time
	}
	return &p, nil
}

func (s *Store) CreateParty(ctx context.Context, fields PartyFields) (*Party, error) {
	now := time.Now().UTC()
	p := Party{
		PartyID:     uuid.NewString(),
		Name:        fields.Name,
		Time:        fields.Time,
		Location:    fields.Location,
		Description: fields.Description,
		Slug:        fields.Slug,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	var at sql.NullTime
	if p.Time != nil {
		at = sql.NullTime{Time: *p.Time, Valid: true}
	}
	_, err := s.db.ExecContext(ctx,
		`insert into party (party_id, name, time, location, description, slug, created_at, updated_at)
		values (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.PartyID, p.Name, at, p.Location, p.Description, p.Slug, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("unable to insert party, cause %w", err)
	}
	return &p, nil
}

func (s *Store) GetParty(ctx context.Context, partyID string) (*Party, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+partyColumns+` from party where party_id = ? and deleted_at is null`, partyID)
	p, err := scanParty(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("unable to load party %v, cause %w", partyID, err)
	}
	return p, nil
}

// ListParties returns all live parties ordered by their scheduled
// time, soonest first. Parties without a time sort last.
func (s *Store) ListParties(ctx context.Context) ([]Party, error) {
	rows, err := s.db.QueryContext(ctx,
		`select `+partyColumns+` from party where deleted_at is null order by time is null, time asc`)
	if err != nil {
		return nil, fmt.Errorf("unable to list parties, cause %w", err)
	}
	defer rows.Close()
	var out []Party
	for rows.Next() {
		p, err := scanParty(rows)
		if err != nil {
			return nil, fmt.Errorf("unable to scan party row, cause %w", err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (s *Store) UpdateParty(ctx context.Context, partyID string, fields PartyFields) (*Party, error) {
	var at sql.NullTime
	if fields.Time != nil {
		at = sql.NullTime{Time: *fields.Time, Valid: true}
	}
	res, err := s.db.ExecContext(ctx,
		`update party set name = ?, time = ?, location = ?, description = ?, slug = ?, updated_at = ?
		where party_id = ? and deleted_at is null`,
		fields.Name, at, fields.Location, fields.Description, fields.Slug, time.Now().UTC(), partyID)
	if err != nil {
		return nil, fmt.Errorf("unable to update party %v, cause %w", partyID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("unable to update party %v, cause %w", partyID, err)
	}
	if n == 0 {
		return nil, ErrNotFound
	}
	return s.GetParty(ctx, partyID)
}

func (s *Store) SoftDeleteParty(ctx context.Context, partyID string) error {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`update party set deleted_at = ?, updated_at = ? where party_id = ? and deleted_at is null`,
		now, now, partyID)
	if err != nil {
		return fmt.Errorf("unable to delete party %v, cause %w", partyID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("unable to delete party %v, cause %w", partyID, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
