package auth

import (
	"context"
	"encoding/base64"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPasscodeRoundTrip(t *testing.T) {
	ctx := context.Background()
	v := NewPasscodeValidator([]byte("dumb key"))
	signed, err := v.Sign("Sanjana")
	require.NoError(t, err)

	id, err := v.Validate(ctx, Credential{Value: signed, Source: "Authorization"})
	require.NoError(t, err)
	require.Equal(t, "Sanjana", id.Name)

	other := NewPasscodeValidator([]byte("another key"))
	_, err = other.Validate(ctx, Credential{Value: signed})
	require.ErrorIs(t, err, ErrUnauthorized, "a different key must reject the token")
}

func TestPasscodeRejectsTampering(t *testing.T) {
	ctx := context.Background()
	v := NewPasscodeValidator([]byte("dumb key"))
	signed, err := v.Sign("X")
	require.NoError(t, err)

	for i := range signed {
		tampered := []byte(signed)
		tampered[i] ^= 1
		_, err := v.Validate(ctx, Credential{Value: string(tampered)})
		require.ErrorIs(t, err, ErrUnauthorized, "flipping byte %d must reject", i)
	}
}

func TestKeyFromEnv(t *testing.T) {
	t.Setenv("PG_TEST_KEY", base64.StdEncoding.EncodeToString([]byte("dumb key")))
	key, err := KeyFromEnv("PG_TEST_KEY")
	require.NoError(t, err)
	require.Equal(t, []byte("dumb key"), key)
	require.Empty(t, os.Getenv("PG_TEST_KEY"), "reading the key should remove it from the environment")

	t.Setenv("PG_TEST_KEY", "not base64!!")
	_, err = KeyFromEnv("PG_TEST_KEY")
	require.Error(t, err)
}
