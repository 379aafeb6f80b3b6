package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ngmaloney/tokyo-weekend/internal/models"
)

// Login posts the credentials to /token, keeps the returned access token and
// then fetches the current user with it. A failure of either step ends the
// chain; the user fetch error is returned unchanged.
func (c *Client) Login(ctx context.Context, email, password string) (*models.User, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	var token models.Token
	err := c.do(ctx, request{
		op:          "Login",
		method:      http.MethodPost,
		path:        "/token",
		body:        strings.NewReader(form.Encode()),
		contentType: "application/x-www-form-urlencoded",
		auth:        authNone,
	}, &token)
	if err != nil {
		return nil, err
	}

	c.setCredential(token.AccessToken)
	c.logger.Info().Str("token_type", token.TokenType).Msg("logged in")

	return c.FetchCurrentUser(ctx)
}

type userCreate struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates an account. The caller still has to Login.
func (c *Client) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	body, err := json.Marshal(userCreate{Username: username, Email: email, Password: password})
	if err != nil {
		return nil, &Error{Kind: KindInvalidRequest, Op: "Register", Err: fmt.Errorf("encoding body: %w", err)}
	}

	var user models.User
	err = c.do(ctx, request{
		op:          "Register",
		method:      http.MethodPost,
		path:        "/users/register",
		body:        bytes.NewReader(body),
		contentType: "application/json",
		auth:        authNone,
	}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FetchCurrentUser returns the account that owns the stored credential
func (c *Client) FetchCurrentUser(ctx context.Context) (*models.User, error) {
	var user models.User
	err := c.do(ctx, request{
		op:     "FetchCurrentUser",
		method: http.MethodGet,
		path:   "/users/me",
		auth:   authRequired,
	}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Logout drops the credential from memory and from the store. Store failures
// are logged, not returned.
func (c *Client) Logout() {
	c.setCredential("")
	c.logger.Info().Msg("logged out")
}

// Session describes the stored access token as read from its JWT claims.
type Session struct {
	Subject   string // the backend uses the account email
	IssuedAt  time.Time
	ExpiresAt time.Time // zero when the token carries no expiry
}

// Expired reports whether the session has lapsed at now.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// Session decodes the claims of the stored token. ok is false when there is
// no credential or it is not a JWT. The signature is not verified; the server
// remains the authority.
func (c *Client) Session() (Session, bool) {
	token := c.credential()
	if token == "" {
		return Session{}, false
	}
	s, err := ParseSession(token)
	if err != nil {
		c.logger.Debug().Err(err).Msg("access token is not a JWT")
		return Session{}, false
	}
	return s, true
}

// ParseSession reads the registered claims of a JWT access token without
// verifying it.
func ParseSession(token string) (Session, error) {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return Session{}, fmt.Errorf("parsing access token: %w", err)
	}

	s := Session{Subject: claims.Subject}
	if claims.IssuedAt != nil {
		s.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.Time
	}
	return s, nil
}
