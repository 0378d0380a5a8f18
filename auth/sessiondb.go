package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pregame-dev/pregame/partydb"
)

type (
	// SessionValidator checks the credential against the session table,
	// joined with the owning guest's profile.
	SessionValidator struct {
		store *partydb.Store
		now   func() time.Time
	}
)

func NewSessionValidator(store *partydb.Store) *SessionValidator {
	return &SessionValidator{store: store, now: time.Now}
}

func (v *SessionValidator) Validate(ctx context.Context, cred Credential) (*Identity, error) {
	rec, err := v.store.LookupSession(ctx, cred.Value)
	if errors.Is(err, partydb.ErrNotFound) {
		return nil, ErrUnauthorized
	} else if err != nil {
		return nil, fmt.Errorf("unable to check session, cause %w", err)
	}
	// a session expiring strictly in the past is treated exactly like
	// one that never existed
	if rec.ExpiresAt.Before(v.now()) {
		return nil, ErrUnauthorized
	}
	return &Identity{
		UserID:    rec.UserID,
		SessionID: rec.Token,
		Email:     rec.Email,
		Name:      rec.Name,
		Phone:     rec.Phone,
	}, nil
}
