package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func fakeProvider(t *testing.T, status int, body string) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/sessions/whoami" {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestProviderValidateActiveSession(t *testing.T) {
	srv := fakeProvider(t, http.StatusOK, `{
		"active": true,
		"id": "sess-1",
		"identity": {
			"id": "ext-1",
			"traits": {
				"email": "a@b.com",
				"phone": "555-0100",
				"name": {"first": "Ada", "last": "Lovelace"}
			}
		}
	}`)
	v := NewProviderValidator(srv.URL, srv.Client())
	id, err := v.Validate(context.Background(), Credential{Source: "ory_session_x", Value: "tok"})
	require.NoError(t, err)
	require.Equal(t, "sess-1", id.SessionID)
	require.Equal(t, "ext-1", id.ProviderID)
	require.Equal(t, "a@b.com", id.Email)
	require.Equal(t, "Ada Lovelace", id.Name)
	require.Equal(t, "555-0100", id.Phone)
}

func TestProviderValidateInactiveSession(t *testing.T) {
	srv := fakeProvider(t, http.StatusOK, `{"active": false, "id": "s1"}`)
	v := NewProviderValidator(srv.URL, srv.Client())
	_, err := v.Validate(context.Background(), Credential{Source: "ory_session_x", Value: "tok"})
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestProviderOutageIsNotUnauthorized(t *testing.T) {
	srv := fakeProvider(t, http.StatusServiceUnavailable, `oops`)
	v := NewProviderValidator(srv.URL, srv.Client())
	_, err := v.Validate(context.Background(), Credential{Source: "ory_session_x", Value: "tok"})
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrUnauthorized, "a 503 from the provider is our fault, not the caller's")
}

func TestProviderMalformedResponses(t *testing.T) {
	for _, body := range []string{`{not json`, `{"id": "s1"}`, `{"active": "yes"}`} {
		srv := fakeProvider(t, http.StatusOK, body)
		v := NewProviderValidator(srv.URL, srv.Client())
		_, err := v.Validate(context.Background(), Credential{Source: "ory_session_x", Value: "tok"})
		require.Error(t, err, "body %q must fail", body)
		require.NotErrorIs(t, err, ErrUnauthorized, "body %q must not look like a bad login", body)
	}
}

func TestProviderPartialNameTrait(t *testing.T) {
	srv := fakeProvider(t, http.StatusOK, `{
		"active": true, "id": "s1",
		"identity": {"id": "ext-1", "traits": {"name": {"first": "Ada"}}}}`)
	v := NewProviderValidator(srv.URL, srv.Client())
	id, err := v.Validate(context.Background(), Credential{Source: "ory_session_x", Value: "tok"})
	require.NoError(t, err)
	require.Equal(t, "Ada", id.Name)
	require.Empty(t, id.Email)
}
