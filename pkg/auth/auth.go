// Package auth exchanges IT Glue credentials for the header set the API
// client sends on every request.
//
// Two modes exist upstream. API keys need no network call and talk to the
// public API host. User credentials run a two-step flow (login for a refresh
// token, then a token exchange for a JWT access token) and all subsequent
// calls must target a different, mobile-API host. That host split is a
// documented quirk of the vendor, not an accident of this package; both auth
// paths are kept exactly as the vendor expects even though two API hosts for
// one product is a design smell.
package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/deskhound/itglue-go/pkg/client"
)

const (
	// DefaultBaseURL is the public API host used with API keys.
	DefaultBaseURL = "https://api.itglue.com"

	// EUBaseURL is the public API host for EU-hosted accounts.
	EUBaseURL = "https://api.eu.itglue.com"

	// MobileBaseURL is the host every call after a user-credential login
	// must target.
	MobileBaseURL = "https://api-mobile-prod.itglue.com/api"

	// ContentType is the JSON:API media type the vendor requires.
	ContentType = "application/vnd.api+json"
)

// Credentials is either an API key or an email/password pair. Construct with
// APIKey or UserCredentials.
type Credentials struct {
	apiKey   string
	email    string
	password string
}

// APIKey returns credentials for static API-key authentication.
func APIKey(key string) Credentials {
	return Credentials{apiKey: key}
}

// UserCredentials returns credentials for the two-step JWT login flow.
func UserCredentials(email, password string) Credentials {
	return Credentials{email: email, password: password}
}

// IsAPIKey reports whether these credentials use the static API-key mode.
func (c Credentials) IsAPIKey() bool {
	return c.apiKey != ""
}

// Session is the outcome of authentication: the headers to send, the base
// URL subsequent calls must use, and the access token expiry when known.
type Session struct {
	Headers map[string]string
	BaseURL string

	// ExpiresAt is the access token expiry from its exp claim; zero for
	// API-key sessions and tokens without an exp claim.
	ExpiresAt time.Time
}

// Expired reports whether the session's access token has expired. API-key
// sessions never expire.
func (s *Session) Expired() bool {
	return !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt)
}

// Authenticator exchanges credentials for a Session.
type Authenticator struct {
	creds   Credentials
	baseURL string
	rest    *resty.Client
	logger  zerolog.Logger
}

// Option configures an Authenticator.
type Option func(*Authenticator)

// WithBaseURL overrides the API host the flow starts against (EU accounts,
// test servers).
func WithBaseURL(baseURL string) Option {
	return func(a *Authenticator) {
		if baseURL != "" {
			a.baseURL = baseURL
		}
	}
}

// WithRestClient overrides the resty client used for the login flow.
func WithRestClient(rest *resty.Client) Option {
	return func(a *Authenticator) {
		if rest != nil {
			a.rest = rest
		}
	}
}

// New creates an Authenticator for the given credentials.
func New(creds Credentials, opts ...Option) *Authenticator {
	a := &Authenticator{
		creds:   creds,
		baseURL: DefaultBaseURL,
		rest:    resty.New().SetTimeout(30 * time.Second),
		logger:  log.With().Str("component", "authenticator").Logger(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// tokenResponse is the body of both auth endpoints.
type tokenResponse struct {
	Token string `json:"token"`
}

// Authenticate returns the Session for the configured credentials. API keys
// resolve locally; user credentials run the two-step login flow. Auth
// failures are fatal and never retried.
func (a *Authenticator) Authenticate(ctx context.Context) (*Session, error) {
	if a.creds.IsAPIKey() {
		return &Session{
			Headers: map[string]string{
				"x-api-key":    a.creds.apiKey,
				"content-type": ContentType,
			},
			BaseURL: a.baseURL,
		}, nil
	}
	return a.login(ctx)
}

// login performs the two-step user-credential flow. Step one failure means
// step two is never attempted.
func (a *Authenticator) login(ctx context.Context) (*Session, error) {
	// Step 1: exchange email/password for a refresh token.
	var loginBody tokenResponse
	resp, err := a.rest.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]any{
			"user": map[string]string{
				"email":    a.creds.email,
				"password": a.creds.password,
			},
		}).
		SetQueryParam("generate_jwt", "1").
		SetQueryParam("sso_disabled", "1").
		SetResult(&loginBody).
		Post(a.baseURL + "/login")
	if err != nil {
		return nil, &client.APIError{Kind: client.KindAuthFailed, Err: fmt.Errorf("login request: %w", err)}
	}
	if resp.IsError() || loginBody.Token == "" {
		a.logger.Error().Int("status", resp.StatusCode()).Msg("Login failed")
		return nil, &client.APIError{
			Kind:       client.KindAuthFailed,
			StatusCode: resp.StatusCode(),
			Title:      "login failed",
		}
	}

	// Step 2: exchange the refresh token for a JWT access token.
	var jwtBody tokenResponse
	resp, err = a.rest.R().
		SetContext(ctx).
		SetQueryParam("refresh_token", loginBody.Token).
		SetResult(&jwtBody).
		Get(a.baseURL + "/jwt/token")
	if err != nil {
		return nil, &client.APIError{Kind: client.KindAuthFailed, Err: fmt.Errorf("token exchange: %w", err)}
	}
	if resp.IsError() || jwtBody.Token == "" {
		a.logger.Error().Int("status", resp.StatusCode()).Msg("Token exchange failed")
		return nil, &client.APIError{
			Kind:       client.KindAuthFailed,
			StatusCode: resp.StatusCode(),
			Title:      "token exchange failed",
		}
	}

	a.logger.Info().Msg("Authenticated with user credentials")

	return &Session{
		Headers: map[string]string{
			"authorization": "Bearer " + jwtBody.Token,
			"content-type":  ContentType,
			"cache-control": "no-cache",
		},
		BaseURL:   MobileBaseURL,
		ExpiresAt: tokenExpiry(jwtBody.Token),
	}, nil
}

// tokenExpiry reads the exp claim without verifying the signature; the
// client has no key material and only needs the expiry for proactive
// re-authentication. Returns zero time when the claim is absent or the
// token is not parseable.
func tokenExpiry(token string) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}
