package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"bdportal/api/internal/models"
)

// Mode selects the identity-provider entry screen.
type Mode string

const (
	ModeLogin    Mode = "login"
	ModeRegister Mode = "register"
)

// Client talks to the shared auth service (profile, refresh, logout) and
// builds the redirect URLs for the SSO handshake. Tokens are opaque here;
// the client never verifies them.
type Client struct {
	apiURL      string
	providerURL string
	client      *http.Client
	log         zerolog.Logger
}

func New(apiURL, providerURL string, timeout time.Duration, log zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		apiURL:      apiURL,
		providerURL: providerURL,
		client:      &http.Client{Timeout: timeout},
		log:         log,
	}
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

type profilePayload struct {
	ID            string   `json:"id"`
	Email         string   `json:"email"`
	FullName      string   `json:"full_name"`
	FirstName     string   `json:"first_name"`
	AvatarURL     string   `json:"avatar_url"`
	Roles         []string `json:"roles"`
	Permissions   []string `json:"permissions"`
	EmailVerified bool     `json:"email_verified"`
}

// Me fetches the profile for the bearer token.
func (c *Client) Me(ctx context.Context, accessToken string) (models.User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+"/api/v1/users/me", nil)
	if err != nil {
		return models.User{}, fmt.Errorf("build profile request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	var payload profilePayload
	if err := c.do(req, &payload); err != nil {
		return models.User{}, fmt.Errorf("load profile: %w", err)
	}

	return normalizeUser(payload), nil
}

type refreshPayload struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Refresh exchanges a refresh token for a new token pair. The provider may
// omit the rotated refresh token, in which case the old one stays valid.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (models.TokenPair, error) {
	req, err := c.jsonRequest(ctx, c.apiURL+"/api/v1/auth/refresh", map[string]string{"refresh_token": refreshToken})
	if err != nil {
		return models.TokenPair{}, err
	}

	var payload refreshPayload
	if err := c.do(req, &payload); err != nil {
		return models.TokenPair{}, fmt.Errorf("refresh session: %w", err)
	}
	if payload.AccessToken == "" {
		return models.TokenPair{}, fmt.Errorf("refresh session: empty access token in response")
	}

	return models.TokenPair{
		AccessToken:  payload.AccessToken,
		RefreshToken: payload.RefreshToken,
	}, nil
}

// Logout notifies the auth service that the refresh token should be revoked.
// Callers treat this as best effort.
func (c *Client) Logout(ctx context.Context, refreshToken string) error {
	req, err := c.jsonRequest(ctx, c.apiURL+"/api/v1/auth/logout", map[string]string{"refresh_token": refreshToken})
	if err != nil {
		return err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("logout: upstream status %d", resp.StatusCode)
	}
	return nil
}

// RedirectURL builds the identity-provider URL for phase one of the SSO
// handshake. The provider calls back to callbackURL with token query
// parameters once the user has authenticated.
func (c *Client) RedirectURL(mode Mode, callbackURL string) string {
	u, err := url.Parse(c.providerURL)
	if err != nil {
		return c.providerURL
	}
	q := u.Query()
	q.Set("redirect_url", callbackURL)
	if mode == ModeRegister {
		q.Set("mode", "register")
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func (c *Client) jsonRequest(ctx context.Context, url string, body any) (*http.Request, error) {
	buf, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env envelope
	decodeErr := json.NewDecoder(resp.Body).Decode(&env)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if decodeErr == nil && env.Error != nil && env.Error.Message != "" {
			return fmt.Errorf("upstream status %d: %s", resp.StatusCode, env.Error.Message)
		}
		return fmt.Errorf("upstream status %d", resp.StatusCode)
	}
	if decodeErr != nil {
		return fmt.Errorf("decode response: %w", decodeErr)
	}
	if len(env.Data) == 0 {
		return fmt.Errorf("missing data in response")
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}

func normalizeUser(p profilePayload) models.User {
	name := p.FullName
	if name == "" {
		name = p.FirstName
	}
	if name == "" {
		name = p.Email
	}
	if name == "" {
		name = "User"
	}

	avatar := p.AvatarURL
	if avatar == "" {
		avatar = avatarFallback(name)
	}

	return models.User{
		ID:            p.ID,
		Name:          name,
		Email:         p.Email,
		AvatarURL:     avatar,
		Roles:         p.Roles,
		Permissions:   p.Permissions,
		EmailVerified: p.EmailVerified,
	}
}

func avatarFallback(displayName string) string {
	return "https://ui-avatars.com/api/?name=" + url.QueryEscape(displayName) + "&background=16a34a&color=fff"
}
