package auth

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"

	"github.com/golang-jwt/jwt/v5"
)

type (
	// PasscodeValidator checks tokens signed locally with a shared
	// HMAC-SHA256 key. No storage or network is involved, validation
	// never suspends and cannot fail transiently.
	PasscodeValidator struct {
		key []byte
	}
)

// guestClaim is the claim carrying the guest name in signed passcode
// tokens.
const guestClaim = "guest"

func NewPasscodeValidator(key []byte) *PasscodeValidator {
	return &PasscodeValidator{key: key}
}

// KeyFromEnv reads a base64-encoded signing key from the named
// environment variable and clears the variable afterwards, so the key
// does not linger in the process environment.
func KeyFromEnv(varname string) ([]byte, error) {
	val := os.Getenv(varname)
	os.Setenv(varname, "")
	key, err := base64.StdEncoding.DecodeString(val)
	if err != nil {
		return nil, fmt.Errorf("auth: cannot decode %v to a valid key, cause %w", varname, err)
	}
	if len(key) == 0 {
		return nil, fmt.Errorf("auth: %v holds an empty key", varname)
	}
	return key, nil
}

func (v *PasscodeValidator) Validate(_ context.Context, cred Credential) (*Identity, error) {
	token, err := jwt.Parse(cred.Value, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method %v", t.Method.Alg())
		}
		return v.key, nil
	})
	if err != nil || !token.Valid {
		// any verification failure, including a single flipped byte,
		// is a bad credential
		return nil, ErrUnauthorized
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrUnauthorized
	}
	guest, _ := claims[guestClaim].(string)
	if guest == "" {
		return nil, ErrUnauthorized
	}
	return &Identity{UserID: guest, Name: guest}, nil
}

// Sign mints a token for the given guest name. Used by the token
// command, the server side only ever verifies.
func (v *PasscodeValidator) Sign(guest string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{guestClaim: guest})
	signed, err := token.SignedString(v.key)
	if err != nil {
		return "", fmt.Errorf("unable to sign token, cause %w", err)
	}
	return signed, nil
}
