// Package gate holds the middleware that stands between the router and
// any handler requiring an authenticated caller.
package gate

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pregame-dev/pregame/auth"
	"github.com/pregame-dev/pregame/internal/logutil"
)

type (
	// Realm wires one extractor and one validator (plus, for provider
	// deployments, the guest resolver) in front of sensitive handlers.
	// It never branches on which validator strategy is active.
	Realm struct {
		extract   auth.Extractor
		validator auth.Validator
		resolver  *auth.GuestResolver
	}

	key struct{}
)

var identityKey = key{}

func NewRealm(extract auth.Extractor, validator auth.Validator) *Realm {
	return &Realm{extract: extract, validator: validator}
}

// WithResolver makes the realm map provider identities to local guests
// before attaching them.
func (s *Realm) WithResolver(resolver *auth.GuestResolver) *Realm {
	s.resolver = resolver
	return s
}

// Protect rejects requests without a valid credential before they
// reach sensitive. On success the resolved identity is attached to the
// request context. A rejected request is terminal at this layer, any
// retry policy belongs to the client.
func (s *Realm) Protect(sensitive http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := s.authenticate(r)
		if errors.Is(err, auth.ErrUnauthorized) {
			Deny(w, http.StatusUnauthorized)
			return
		} else if err != nil {
			// the cause stays in the logs, callers only ever see the
			// generic body
			logger := logutil.RequestLogger(r)
			logger.Error().Err(err).Msg("Unable to authenticate request")
			Deny(w, http.StatusInternalServerError)
			return
		}
		sensitive.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
	})
}

func (s *Realm) authenticate(r *http.Request) (*auth.Identity, error) {
	cred, ok := s.extract(r)
	if !ok {
		// no recognized credential marker at all; the validator is
		// never consulted
		return nil, auth.ErrUnauthorized
	}
	identity, err := s.validator.Validate(r.Context(), cred)
	if err != nil {
		return nil, err
	}
	if s.resolver != nil {
		guest, err := s.resolver.GetOrCreateGuest(r.Context(), identity)
		if err != nil {
			return nil, err
		}
		identity.UserID = guest.GuestID
		identity.Name = guest.Name
		identity.Email = guest.Email
		identity.Phone = guest.Phone
	}
	return identity, nil
}

// Deny writes the generic JSON body for a 401 or 500 rejection.
func Deny(w http.ResponseWriter, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	body := "Internal Server Error"
	if status == http.StatusUnauthorized {
		body = "Unauthorized"
	}
	json.NewEncoder(w).Encode(body)
}

// WithIdentity attaches the authenticated identity to ctx.
func WithIdentity(ctx context.Context, id *auth.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromContext returns the identity attached by Protect.
// Handlers requiring authentication must fail closed when it is
// absent.
func IdentityFromContext(ctx context.Context) (*auth.Identity, bool) {
	id, ok := ctx.Value(identityKey).(*auth.Identity)
	return id, ok
}
