package identity

import (
	"context"
	"fmt"
	"net/http"

	"github.com/earthdaily/geosys-go/common"
	"golang.org/x/oauth2"
)

// Credentials to authenticate against the identity server (resource-owner
// password grant).
type Credentials struct {
	ClientID     string
	ClientSecret string
	Username     string
	Password     string
}

// NewTokenSource authenticates against the identity server of the
// region/environment and returns a self-refreshing token source.
func NewTokenSource(ctx context.Context, credentials Credentials, region common.Region, env common.Env) (oauth2.TokenSource, error) {
	tokenURL, err := common.IdentityURL(region, env)
	if err != nil {
		return nil, fmt.Errorf("NewTokenSource: %w", err)
	}

	conf := oauth2.Config{
		ClientID:     credentials.ClientID,
		ClientSecret: credentials.ClientSecret,
		Endpoint:     oauth2.Endpoint{TokenURL: tokenURL},
	}
	token, err := conf.PasswordCredentialsToken(ctx, credentials.Username, credentials.Password)
	if err != nil {
		return nil, fmt.Errorf("NewTokenSource.PasswordCredentialsToken: %w", err)
	}
	return conf.TokenSource(ctx, token), nil
}

// StaticTokenSource wraps an externally-obtained bearer token. The token is
// never refreshed.
func StaticTokenSource(bearer string) oauth2.TokenSource {
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: bearer, TokenType: "Bearer"})
}

type transportBearer struct {
	originalTransport http.RoundTripper
	tokenSource       oauth2.TokenSource
}

func (t *transportBearer) RoundTrip(req *http.Request) (*http.Response, error) {
	token, err := t.tokenSource.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to refresh token: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	return t.originalTransport.RoundTrip(req)
}

// NewClient returns an http client injecting a bearer token from the token
// source into every request. base may be nil.
func NewClient(tokenSource oauth2.TokenSource, base *http.Client) *http.Client {
	if base == nil {
		base = &http.Client{}
	}
	originalTransport := base.Transport
	if originalTransport == nil {
		originalTransport = http.DefaultTransport
	}
	return &http.Client{
		Transport:     &transportBearer{originalTransport: originalTransport, tokenSource: tokenSource},
		CheckRedirect: base.CheckRedirect,
		Jar:           base.Jar,
		Timeout:       base.Timeout,
	}
}
