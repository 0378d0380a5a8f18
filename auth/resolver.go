package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pregame-dev/pregame/partydb"
)

type (
	// GuestResolver maps a validated provider identity to the local
	// guest record, creating one on first sight.
	GuestResolver struct {
		store *partydb.Store
	}
)

func NewGuestResolver(store *partydb.Store) *GuestResolver {
	return &GuestResolver{store: store}
}

// GetOrCreateGuest looks a guest up by the provider identity id and
// creates one when absent. Two concurrent first logins for the same
// identity may both miss the lookup and race on the insert; the loser
// hits the unique constraint and simply retries the lookup instead of
// failing the request.
func (r *GuestResolver) GetOrCreateGuest(ctx context.Context, id *Identity) (*partydb.Guest, error) {
	if id.ProviderID == "" {
		return nil, fmt.Errorf("provider identity has no id")
	}
	guest, err := r.store.GetGuestByProviderIdentity(ctx, id.ProviderID)
	if err == nil {
		// traits are not synced here; SyncGuestTraits is a separate,
		// explicitly invoked operation
		return guest, nil
	}
	if !errors.Is(err, partydb.ErrNotFound) {
		return nil, err
	}
	// the provider's identity schema guarantees name and email; their
	// absence means the provider response is broken, not that the
	// caller is unauthorized
	if id.Name == "" || id.Email == "" {
		return nil, fmt.Errorf("provider identity %v is missing required traits", id.ProviderID)
	}
	now := time.Now().UTC()
	fresh := partydb.Guest{
		GuestID:            uuid.NewString(),
		ProviderIdentityID: id.ProviderID,
		Name:               id.Name,
		Email:              id.Email,
		Phone:              id.Phone,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	err = r.store.InsertGuest(ctx, fresh)
	if errors.Is(err, partydb.ErrGuestExists) {
		return r.store.GetGuestByProviderIdentity(ctx, id.ProviderID)
	} else if err != nil {
		return nil, err
	}
	return &fresh, nil
}

// SyncGuestTraits overwrites the stored guest profile with the traits
// currently reported by the provider. Never called on the hot path.
func (r *GuestResolver) SyncGuestTraits(ctx context.Context, guestID string, id *Identity) (*partydb.Guest, error) {
	return r.store.UpdateGuestTraits(ctx, guestID, id.Name, id.Email, id.Phone)
}
