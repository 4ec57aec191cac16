// Package gigachat is the GigaChat completion provider and its client-credentials token exchange
package gigachat

import (
	"context"
	"net/http"
	"time"

	perr "zhkh/internal/platform/errors"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	// DefaultOAuthURL is the Sber token endpoint
	DefaultOAuthURL = "https://ngw.devices.sberbank.ru:9443/api/v2/oauth"

	// Scope is the personal API scope
	Scope = "GIGACHAT_API"

	tokenTimeout = 10 * time.Second
)

// Credentials are the pre-shared client id and secret
type Credentials struct {
	ClientID     string
	ClientSecret string
	OAuthURL     string
}

// TokenProvider exchanges credentials for a bearer token, one fresh exchange per call
type TokenProvider struct {
	cfg  clientcredentials.Config
	base http.RoundTripper
	uuid func() string
}

// NewTokenProvider does not validate creds; Token reports missing ones
func NewTokenProvider(c Credentials, base http.RoundTripper) *TokenProvider {
	if c.OAuthURL == "" {
		c.OAuthURL = DefaultOAuthURL
	}
	if base == nil {
		base = http.DefaultTransport
	}
	return &TokenProvider{
		cfg: clientcredentials.Config{
			ClientID:     c.ClientID,
			ClientSecret: c.ClientSecret,
			TokenURL:     c.OAuthURL,
			Scopes:       []string{Scope},
			AuthStyle:    oauth2.AuthStyleInParams,
		},
		base: base,
		uuid: uuid.NewString,
	}
}

// Configured reports whether both credentials are present
func (p *TokenProvider) Configured() bool {
	return p.cfg.ClientID != "" && p.cfg.ClientSecret != ""
}

// Token runs one client-credentials exchange
func (p *TokenProvider) Token(ctx context.Context) (string, error) {
	if !p.Configured() {
		return "", perr.AuthConfigf("gigachat: GIGACHAT_CLIENT_ID and GIGACHAT_CLIENT_SECRET must be set")
	}

	ctx, cancel := context.WithTimeout(ctx, tokenTimeout)
	defer cancel()
	hc := &http.Client{Transport: rqUID{base: p.base, id: p.uuid}}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, hc)

	tok, err := p.cfg.Token(ctx)
	if err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeAuthFailure, "gigachat: token exchange failed")
	}
	if tok.AccessToken == "" {
		return "", perr.AuthFailuref("gigachat: token response without access_token")
	}
	return tok.AccessToken, nil
}

// rqUID stamps every request with a fresh RqUID header
type rqUID struct {
	base http.RoundTripper
	id   func() string
}

func (t rqUID) RoundTrip(r *http.Request) (*http.Response, error) {
	r = r.Clone(r.Context())
	r.Header.Set("RqUID", t.id())
	return t.base.RoundTrip(r)
}
