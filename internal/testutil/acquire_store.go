package testutil

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/pregame-dev/pregame/partydb"
)

type (
	TestLog interface {
		Fatal(...interface{})
		Log(...interface{})
	}
)

// AcquireStore opens a throwaway database in a temp directory.
func AcquireStore(ctx context.Context, t TestLog) (*partydb.Store, func()) {
	dir, err := os.MkdirTemp("", "pregame-tests")
	if err != nil {
		t.Fatal(err)
	}
	store, err := partydb.Open(ctx, filepath.Join(dir, "pregame.db"))
	if err != nil {
		t.Fatal(err)
	}
	return store, func() {
		err := store.Close()
		if err != nil {
			t.Log("unable to close store", err)
		}
		err = os.RemoveAll(dir)
		if err != nil {
			t.Log("unable to cleanup temp dir", dir)
		}
	}
}

// SeedGuestSession inserts a guest and a session owned by it, expiring
// at the given time. Tests stand in for the login frontend this way.
func SeedGuestSession(ctx context.Context, t TestLog, store *partydb.Store, g partydb.Guest, token string, expiresAt time.Time) {
	now := time.Now().UTC()
	if g.CreatedAt.IsZero() {
		g.CreatedAt, g.UpdatedAt = now, now
	}
	if err := store.InsertGuest(ctx, g); err != nil {
		t.Fatal(err)
	}
	if err := store.PutSession(ctx, token, g.GuestID, expiresAt); err != nil {
		t.Fatal(err)
	}
}
