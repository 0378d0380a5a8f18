package auth

import (
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/pregame-dev/pregame/internal/logutil"
)

type (
	// Extractor pulls a credential out of a request. A false return
	// means "no credential present", which callers treat as
	// unauthenticated, never as a distinct error.
	Extractor func(r *http.Request) (Credential, bool)
)

const (
	// ProviderCookiePrefix matches the session cookies issued by the
	// identity provider, e.g. ory_session_playground.
	ProviderCookiePrefix = "ory_session_"

	// SessionCookieName is the cookie carrying a database-backed
	// session token.
	SessionCookieName = "better-auth.session_token"
)

var bearerTokenRE = regexp.MustCompile(`^Bearer ([^\s]+)$`)

// ExtractBearer reads a token from the Authorization header.
func ExtractBearer(r *http.Request) (Credential, bool) {
	groups := bearerTokenRE.FindStringSubmatch(r.Header.Get("Authorization"))
	if len(groups) == 0 {
		return Credential{}, false
	}
	return Credential{Value: groups[1], Source: "Authorization"}, true
}

// ExtractProviderCookie scans the Cookie header for the first cookie
// whose name starts with ProviderCookiePrefix and percent-decodes its
// value. The frontend serving the login flow url-encodes the token, so
// the raw value is not usable as-is.
func ExtractProviderCookie(r *http.Request) (Credential, bool) {
	name, value, ok := scanCookies(r.Header, func(name string) bool {
		return strings.HasPrefix(name, ProviderCookiePrefix)
	})
	if !ok {
		return Credential{}, false
	}
	decoded, err := url.PathUnescape(value)
	if err != nil {
		return Credential{}, false
	}
	return Credential{Value: decoded, Source: name}, true
}

// ExtractSessionCookie reads the database session token from its fixed
// cookie. The stored value is token.signature; only the part before
// the first dot is the lookup key. The signature is produced and
// verified by the framework issuing the cookie, this service never
// checks it independently, so a debug line is emitted to keep that
// asymmetry visible in deployments.
func ExtractSessionCookie(r *http.Request) (Credential, bool) {
	name, value, ok := scanCookies(r.Header, func(name string) bool {
		return name == SessionCookieName
	})
	if !ok {
		return Credential{}, false
	}
	decoded, err := url.PathUnescape(value)
	if err != nil {
		return Credential{}, false
	}
	token, _, signed := strings.Cut(decoded, ".")
	if signed {
		logger := logutil.GetOrDefault(r.Context())
		logger.Debug().
			Msg("session cookie carries a signature suffix, which is not verified here")
	}
	if token == "" {
		return Credential{}, false
	}
	return Credential{Value: token, Source: name}, true
}

func scanCookies(h http.Header, match func(name string) bool) (name, value string, ok bool) {
	for _, header := range h.Values("Cookie") {
		for _, cookie := range strings.Split(header, ";") {
			cookie = strings.TrimSpace(cookie)
			name, value, found := strings.Cut(cookie, "=")
			if found && match(name) {
				return name, value, true
			}
		}
	}
	return "", "", false
}
