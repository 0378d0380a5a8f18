// Package auth decides whether an inbound request carries a valid
// credential and, when it does, who the caller is.
//
// A credential is pulled out of the request by one of the extractors
// and handed to exactly one Validator. Three validators exist: a local
// check of an HMAC-signed token, a remote call to the identity
// provider's whoami endpoint, and a lookup of a session row in the
// database. Deployments pick one, they are never mixed within a
// request.
//
// Validators distinguish two failures only: ErrUnauthorized (the
// credential is missing, malformed, expired or rejected) and anything
// else (the validator could not decide, a downstream fault). The gate
// maps the former to 401 and the latter to 500 and must never conflate
// them, otherwise a provider outage silently turns into a wave of
// logged-out users.
package auth

import (
	"context"
	"errors"
)

type (
	// Credential is the opaque value a client presented for this
	// request, plus the header or cookie name it came from.
	Credential struct {
		Value  string
		Source string
	}

	// Identity is the validated principal attached to a request. It
	// lives for one request and is never persisted.
	Identity struct {
		// UserID is the local user owning the session. In provider
		// deployments it is filled by the resolver, not the validator.
		UserID string `json:"user_id"`
		// ProviderID is the external identity id, set only by the
		// provider validator.
		ProviderID string `json:"provider_id,omitempty"`
		SessionID  string `json:"session_id,omitempty"`
		Email      string `json:"email,omitempty"`
		Name       string `json:"name,omitempty"`
		Phone      string `json:"phone,omitempty"`
	}

	// Validator decides if a credential is currently valid.
	Validator interface {
		Validate(ctx context.Context, cred Credential) (*Identity, error)
	}
)

// ErrUnauthorized rejects a request because of its credential, not
// because of a fault on our side.
var ErrUnauthorized = errors.New("unauthorized")
