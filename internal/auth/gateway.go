// Package auth performs the operator login handshake against the OAuth
// token endpoint and session teardown. It is the only component besides
// the upstream client's 401 handler that mutates the session store.
package auth

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"dinardap-console/internal/platform/metrics"
	"dinardap-console/internal/session"
	"dinardap-console/internal/upstream"
	dErrors "dinardap-console/pkg/domain-errors"
	"dinardap-console/pkg/requestcontext"
)

// Gateway drives the Unauthenticated ↔ Authenticated transitions.
type Gateway struct {
	// The token endpoint is called with a bare client: the credential
	// exchange must not travel through the bearer-injecting pipeline.
	http     *http.Client
	tokenURL string
	upstream *upstream.Client
	sessions session.Store
	log      *slog.Logger
	metrics  *metrics.Metrics
}

// New builds a Gateway. timeout matches the upstream client's threshold.
func New(tokenURL string, timeout time.Duration, up *upstream.Client, sessions session.Store, logger *slog.Logger, m *metrics.Metrics) *Gateway {
	return &Gateway{
		http:     &http.Client{Timeout: timeout},
		tokenURL: tokenURL,
		upstream: up,
		sessions: sessions,
		log:      logger,
		metrics:  m,
	}
}

// Login exchanges operator credentials for an access token using the
// client-credentials grant. Failures always come back as coded domain
// errors with a fixed user-facing message, never as raw OAuth codes.
func (g *Gateway) Login(ctx context.Context, identifier, secret string) (*LoginResult, error) {
	if strings.TrimSpace(identifier) == "" || secret == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, msgIncompleteRequest)
	}

	g.sessions.SetBusy(true)
	defer g.sessions.SetBusy(false)

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", identifier)
	form.Set("client_secret", secret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, msgLoginGeneric)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := g.http.Do(req)
	if err != nil {
		g.countLogin("transport_error")
		return nil, upstream.NormalizeTransportError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		g.countLogin("transport_error")
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, upstream.MsgConnectivity)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		g.countLogin("rejected")
		return nil, normalizeOAuthError(resp.StatusCode, raw)
	}

	var tok tokenResponse
	if err := json.Unmarshal(raw, &tok); err != nil || tok.AccessToken == "" {
		g.countLogin("bad_response")
		return nil, dErrors.New(dErrors.CodeUpstream, msgLoginGeneric)
	}

	// The token endpoint returns no profile data; the identifier stands in
	// for id, email, and display name.
	user := session.Identity{ID: identifier, Email: identifier, DisplayName: identifier}
	expiresAt := tokenExpiry(tok)

	if err := g.sessions.SetAuthenticated(ctx, user, tok.AccessToken, expiresAt); err != nil {
		// A vault outage must not fail an otherwise successful login.
		g.log.WarnContext(ctx, "could not persist session token", "error", err)
	}

	g.countLogin("success")
	g.log.InfoContext(ctx, "operator logged in",
		"operator", identifier,
		"device", requestcontext.DeviceName(ctx),
		"client_ip", requestcontext.ClientIP(ctx),
		"expires_at", expiresAt,
	)

	return &LoginResult{Token: tok.AccessToken, User: user, ExpiresAt: expiresAt}, nil
}

// Logout invalidates the remote session best-effort and always clears the
// local one. The console must never remain logged in because the remote
// call failed or hung.
func (g *Gateway) Logout(ctx context.Context) {
	g.sessions.SetBusy(true)
	defer g.sessions.SetBusy(false)

	if _, err := g.upstream.Post(ctx, "logout", "/auth/logout", nil); err != nil {
		g.log.WarnContext(ctx, "remote logout failed, clearing local session anyway", "error", err)
	}

	if err := g.sessions.Clear(ctx); err != nil {
		g.log.WarnContext(ctx, "could not remove persisted session token", "error", err)
	}
}

// Refresh exchanges the current token for a fresh one.
func (g *Gateway) Refresh(ctx context.Context) (*LoginResult, error) {
	env, err := g.upstream.Post(ctx, "auth_refresh", "/auth/refresh", nil)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Token string `json:"token"`
	}
	if err := env.DecodeData(&payload); err != nil {
		return nil, err
	}
	if payload.Token == "" {
		return nil, dErrors.New(dErrors.CodeUpstream, msgLoginGeneric)
	}

	current := g.sessions.Get()
	expiresAt := tokenExpiry(tokenResponse{AccessToken: payload.Token})
	if err := g.sessions.SetAuthenticated(ctx, current.User, payload.Token, expiresAt); err != nil {
		g.log.WarnContext(ctx, "could not persist refreshed token", "error", err)
	}

	return &LoginResult{Token: payload.Token, User: current.User, ExpiresAt: expiresAt}, nil
}

// CurrentUser fetches the operator profile from the backend and folds it
// into the session. Used after rehydration, when only the token survives.
func (g *Gateway) CurrentUser(ctx context.Context) (session.Identity, error) {
	env, err := g.upstream.Get(ctx, "auth_me", "/auth/me", nil)
	if err != nil {
		return session.Identity{}, err
	}

	var user struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := env.DecodeData(&user); err != nil {
		return session.Identity{}, err
	}

	identity := session.Identity{ID: user.ID, Email: user.Email, DisplayName: user.Name}
	current := g.sessions.Get()
	if current.Authenticated {
		if err := g.sessions.SetAuthenticated(ctx, identity, current.Token, current.ExpiresAt); err != nil {
			g.log.WarnContext(ctx, "could not persist session after profile fetch", "error", err)
		}
	}
	return identity, nil
}

func (g *Gateway) countLogin(outcome string) {
	if g.metrics != nil {
		g.metrics.LoginAttempts.WithLabelValues(outcome).Inc()
	}
}

// normalizeOAuthError maps token endpoint failures onto fixed messages.
// Known OAuth codes win; otherwise the server description is used when
// present, then an HTTP-status fallback.
func normalizeOAuthError(status int, body []byte) error {
	var oe oauthError
	_ = json.Unmarshal(body, &oe)

	switch oe.Error {
	case "invalid_client":
		return dErrors.New(dErrors.CodeUnauthorized, msgIncorrectCredentials)
	case "unsupported_grant_type":
		return dErrors.New(dErrors.CodeUnsupported, msgUnsupportedGrant)
	case "invalid_request":
		return dErrors.New(dErrors.CodeInvalidInput, msgIncompleteRequest)
	}

	if oe.ErrorDescription != "" {
		code := dErrors.CodeUpstream
		if status == http.StatusUnauthorized {
			code = dErrors.CodeUnauthorized
		}
		return dErrors.New(code, oe.ErrorDescription)
	}

	switch status {
	case http.StatusUnauthorized:
		return dErrors.New(dErrors.CodeUnauthorized, msgInvalidCredentials401)
	case http.StatusBadRequest:
		return dErrors.New(dErrors.CodeInvalidInput, msgInvalidRequest400)
	case http.StatusInternalServerError:
		return dErrors.New(dErrors.CodeUpstream, msgLoginServerError)
	default:
		return dErrors.New(dErrors.CodeUpstream, msgLoginGeneric)
	}
}

// tokenExpiry derives when the access token lapses: the exp claim for
// JWT-shaped tokens, expires_in otherwise, zero when unknown.
func tokenExpiry(tok tokenResponse) time.Time {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(tok.AccessToken, claims); err == nil {
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			return exp.Time
		}
	}
	if tok.ExpiresIn > 0 {
		return time.Now().Add(time.Duration(tok.ExpiresIn) * time.Second)
	}
	return time.Time{}
}
