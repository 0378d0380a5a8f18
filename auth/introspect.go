package auth

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

type (
	// ProviderValidator forwards the extracted credential to the
	// identity provider's session endpoint and trusts its verdict.
	//
	// Both fields are set once at startup and shared read-only across
	// requests; the client keeps a connection pool to the provider.
	ProviderValidator struct {
		baseURL string
		client  *http.Client
	}
)

// sessionEndpoint reports whether the session attached to the
// forwarded cookie is still valid.
//
// https://www.ory.com/docs/reference/api#tag/frontend/operation/toSession
const sessionEndpoint = "/sessions/whoami"

func NewProviderValidator(baseURL string, client *http.Client) *ProviderValidator {
	if client == nil {
		client = http.DefaultClient
	}
	return &ProviderValidator{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  client,
	}
}

// Validate forwards the credential as a cookie to the whoami endpoint.
// A provider fault (transport error, non-2xx status, unparseable body)
// is NOT ErrUnauthorized: transient provider outages must not look
// like bad logins.
func (v *ProviderValidator) Validate(ctx context.Context, cred Credential) (*Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.baseURL+sessionEndpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("unable to build whoami request, cause %w", err)
	}
	req.Header.Set("Cookie", fmt.Sprintf("%v=%v", cred.Source, cred.Value))
	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unable to reach identity provider, cause %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("identity provider returned status %v", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("unable to read whoami response, cause %w", err)
	}
	return parseWhoami(body)
}

func parseWhoami(body []byte) (*Identity, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("identity provider returned malformed JSON")
	}
	doc := gjson.ParseBytes(body)
	active := doc.Get("active")
	if !active.Exists() || !active.IsBool() {
		return nil, fmt.Errorf("whoami response is missing the active flag")
	}
	if !active.Bool() {
		return nil, ErrUnauthorized
	}
	id := &Identity{
		SessionID:  doc.Get("id").String(),
		ProviderID: doc.Get("identity.id").String(),
		Email:      doc.Get("identity.traits.email").String(),
		Phone:      doc.Get("identity.traits.phone").String(),
		Name:       fullName(doc.Get("identity.traits.name")),
	}
	return id, nil
}

// fullName flattens the provider's {first, last} name trait into a
// single display name.
func fullName(name gjson.Result) string {
	first := name.Get("first").String()
	last := name.Get("last").String()
	switch {
	case first != "" && last != "":
		return first + " " + last
	case first != "":
		return first
	default:
		return last
	}
}
