package auth

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractBearer(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	_, ok := ExtractBearer(r)
	require.False(t, ok, "no header means no credential")

	r.Header.Set("Authorization", "Bearer abc123")
	cred, ok := ExtractBearer(r)
	require.True(t, ok)
	require.Equal(t, Credential{Value: "abc123", Source: "Authorization"}, cred)

	r.Header.Set("Authorization", "Basic abc123")
	_, ok = ExtractBearer(r)
	require.False(t, ok)
}

func TestExtractProviderCookie(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Cookie", "theme=dark; ory_session_playground=tok%2Fen; other=1")
	cred, ok := ExtractProviderCookie(r)
	require.True(t, ok)
	require.Equal(t, "ory_session_playground", cred.Source)
	require.Equal(t, "tok/en", cred.Value, "value must be percent-decoded")

	r = httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Cookie", "theme=dark; other=1")
	_, ok = ExtractProviderCookie(r)
	require.False(t, ok)
}

func TestExtractSessionCookie(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Cookie", "better-auth.session_token=abc123.SIGNATURE")
	cred, ok := ExtractSessionCookie(r)
	require.True(t, ok)
	require.Equal(t, "abc123", cred.Value, "only the part before the first dot is the token")
	require.Equal(t, SessionCookieName, cred.Source)

	// unsigned values are used verbatim
	r.Header.Set("Cookie", "better-auth.session_token=abc123")
	cred, ok = ExtractSessionCookie(r)
	require.True(t, ok)
	require.Equal(t, "abc123", cred.Value)

	r.Header.Set("Cookie", "some-other.session_token=abc123")
	_, ok = ExtractSessionCookie(r)
	require.False(t, ok)
}
