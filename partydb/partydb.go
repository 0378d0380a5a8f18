package partydb

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

type (
	// Store wraps the relational database holding parties, guests,
	// rsvps and auth sessions.
	Store struct {
		db *sql.DB
	}
)

// Open opens (creating if needed) the database at path and prepares
// the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	connstr := fmt.Sprintf("file:%v?_journal=wal&_fk=on&_loc=UTC&mode=rwc", path)
	conn, err := sql.Open("sqlite3", connstr)
	if err != nil {
		return nil, fmt.Errorf("unable to open %v, cause %w", path, err)
	}
	err = conn.PingContext(ctx)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("unable to ping database %v, cause %w", path, err)
	}
	s := &Store{db: conn}
	err = s.setup(ctx)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("unable to init database %v, cause %w", path, err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) setup(ctx context.Context) error {
	stmts := []string{
		`create table if not exists party(
			party_id text primary key,
			name text not null,
			time timestamp,
			location text not null default '',
			description text not null default '',
			slug text not null default '',
			created_at timestamp not null,
			updated_at timestamp not null,
			deleted_at timestamp)`,
		`create table if not exists guest(
			guest_id text primary key,
			provider_identity_id text not null unique,
			name text not null default '',
			email text not null default '',
			phone text not null default '',
			created_at timestamp not null,
			updated_at timestamp not null,
			deleted_at timestamp)`,
		`create table if not exists rsvp(
			rsvp_id text primary key,
			party_id text not null references party(party_id),
			guest_id text not null references guest(guest_id),
			status text not null,
			created_at timestamp not null,
			updated_at timestamp not null,
			deleted_at timestamp,
			unique(party_id, guest_id))`,
		`create table if not exists session(
			token text primary key,
			user_id text not null references guest(guest_id),
			expires_at timestamp not null)`,
	}
	for _, stmt := range stmts {
		_, err := s.db.ExecContext(ctx, stmt)
		if err != nil {
			return fmt.Errorf("unable to create schema, cause %w", err)
		}
	}
	return nil
}
