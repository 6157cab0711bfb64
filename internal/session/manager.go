package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"bdportal/api/internal/authclient"
	"bdportal/api/internal/models"
)

var (
	// ErrNoRefreshToken is returned when a refresh is requested but the store
	// holds no refresh token. The session is cleared without network I/O.
	ErrNoRefreshToken = errors.New("no refresh token")

	// ErrNotAuthenticated is returned by operations that require a live
	// session.
	ErrNotAuthenticated = errors.New("not authenticated")
)

const (
	// refreshLead is how long before access-token expiry the silent refresh
	// fires.
	refreshLead = time.Minute
	// minRefreshDelay is the floor applied when the token is already about to
	// expire.
	minRefreshDelay = 5 * time.Second

	refreshTimeout = 30 * time.Second
)

// AuthAPI is the slice of the auth service the manager needs.
type AuthAPI interface {
	Me(ctx context.Context, accessToken string) (models.User, error)
	Refresh(ctx context.Context, refreshToken string) (models.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	RedirectURL(mode authclient.Mode, callbackURL string) string
}

// Manager owns exactly one authenticated session: the token pair, the profile
// snapshot derived from it, and at most one pending auto-refresh timer. A
// session is either fully authenticated or fully logged out; every
// unrecoverable failure collapses to a full clear. Consumers read state
// through the accessors and never mutate it directly.
type Manager struct {
	api         AuthAPI
	store       Store
	callbackURL string
	log         zerolog.Logger

	now       func() time.Time
	afterFunc func(d time.Duration, f func()) *time.Timer

	mu          sync.Mutex
	accessToken string
	user        *models.User
	timer       *time.Timer
	closed      bool
}

// Option configures a Manager.
type Option func(*Manager)

// WithNowTime sets the clock (for tests).
func WithNowTime(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithAfterFunc sets the timer factory (for tests).
func WithAfterFunc(afterFunc func(time.Duration, func()) *time.Timer) Option {
	return func(m *Manager) { m.afterFunc = afterFunc }
}

func NewManager(api AuthAPI, store Store, callbackURL string, log zerolog.Logger, opts ...Option) *Manager {
	m := &Manager{
		api:         api,
		store:       store,
		callbackURL: callbackURL,
		log:         log,
		now:         time.Now,
		afterFunc:   time.AfterFunc,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// RefreshDelay computes how long to wait before silently refreshing a token
// that expires at expiresAt: one minute before expiry, floored at five
// seconds.
func RefreshDelay(expiresAt, now time.Time) time.Duration {
	d := expiresAt.Sub(now) - refreshLead
	if d < minRefreshDelay {
		return minRefreshDelay
	}
	return d
}

// Bootstrap restores the session from stored credentials on startup. With no
// stored access token the manager stays logged out. A failing profile load
// falls back to one refresh attempt when a refresh token exists; any further
// failure clears the session.
func (m *Manager) Bootstrap(ctx context.Context) error {
	accessToken, err := m.store.AccessToken(ctx)
	if err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}
	if accessToken == "" {
		return nil
	}

	user, err := m.api.Me(ctx, accessToken)
	if err == nil {
		m.mu.Lock()
		m.accessToken = accessToken
		m.user = &user
		m.scheduleLocked(ctx, accessToken)
		m.mu.Unlock()
		return nil
	}
	m.log.Debug().Err(err).Msg("bootstrap profile load failed")

	refreshToken, storeErr := m.store.RefreshToken(ctx)
	if storeErr != nil || refreshToken == "" {
		m.Clear(ctx)
		return fmt.Errorf("bootstrap: %w", err)
	}

	if err := m.Refresh(ctx); err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}
	return nil
}

// Refresh exchanges the stored refresh token for a new pair, reloads the
// profile with the new access token, and reschedules the silent refresh. Any
// failure clears the session; the caller must re-authenticate interactively.
func (m *Manager) Refresh(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	refreshToken, err := m.store.RefreshToken(ctx)
	if err != nil {
		m.clearLocked(ctx)
		return fmt.Errorf("refresh: %w", err)
	}
	if refreshToken == "" {
		m.clearLocked(ctx)
		return ErrNoRefreshToken
	}

	pair, err := m.api.Refresh(ctx, refreshToken)
	if err != nil {
		m.clearLocked(ctx)
		return fmt.Errorf("refresh: %w", err)
	}
	if pair.RefreshToken == "" {
		pair.RefreshToken = refreshToken
	}

	if err := m.store.SetTokens(ctx, pair.AccessToken, pair.RefreshToken); err != nil {
		m.clearLocked(ctx)
		return fmt.Errorf("refresh: %w", err)
	}

	// The profile load must use the token just issued, never a stale capture.
	user, err := m.api.Me(ctx, pair.AccessToken)
	if err != nil {
		m.clearLocked(ctx)
		return fmt.Errorf("refresh: %w", err)
	}

	m.accessToken = pair.AccessToken
	m.user = &user
	m.scheduleLocked(ctx, pair.AccessToken)
	return nil
}

// CompleteLogin is phase two of the SSO handshake: the identity provider has
// redirected back with tokens. The pair is persisted, the profile loaded, and
// the session becomes authenticated. On failure nothing partial survives.
func (m *Manager) CompleteLogin(ctx context.Context, accessToken, refreshToken string) (models.User, error) {
	if accessToken == "" {
		return models.User{}, fmt.Errorf("complete login: missing access token")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.SetTokens(ctx, accessToken, refreshToken); err != nil {
		m.clearLocked(ctx)
		return models.User{}, fmt.Errorf("complete login: %w", err)
	}

	user, err := m.api.Me(ctx, accessToken)
	if err != nil {
		m.clearLocked(ctx)
		return models.User{}, fmt.Errorf("complete login: %w", err)
	}

	m.accessToken = accessToken
	m.user = &user
	m.scheduleLocked(ctx, accessToken)
	return user, nil
}

// LoginURL saves the post-login redirect path and returns the provider URL to
// send the user to. Phase one of the handshake ends here; control returns via
// the callback route.
func (m *Manager) LoginURL(ctx context.Context, redirectPath string) string {
	return m.handshakeURL(ctx, authclient.ModeLogin, redirectPath)
}

// RegisterURL is LoginURL with the provider's registration screen selected.
func (m *Manager) RegisterURL(ctx context.Context, redirectPath string) string {
	return m.handshakeURL(ctx, authclient.ModeRegister, redirectPath)
}

func (m *Manager) handshakeURL(ctx context.Context, mode authclient.Mode, redirectPath string) string {
	if redirectPath == "" || redirectPath == "/login" {
		redirectPath = "/"
	}
	if err := m.store.SetRedirectPath(ctx, redirectPath); err != nil {
		m.log.Warn().Err(err).Msg("save post-login redirect failed")
	}
	return m.api.RedirectURL(mode, m.callbackURL)
}

// TakeRedirectPath returns the saved one-shot post-login path, defaulting to
// "/".
func (m *Manager) TakeRedirectPath(ctx context.Context) string {
	path, err := m.store.TakeRedirectPath(ctx)
	if err != nil {
		m.log.Warn().Err(err).Msg("read post-login redirect failed")
	}
	if path == "" {
		return "/"
	}
	return path
}

// Logout notifies the auth service (best effort) and unconditionally clears
// the session.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	refreshToken, err := m.store.RefreshToken(ctx)
	if err == nil && refreshToken != "" {
		if err := m.api.Logout(ctx, refreshToken); err != nil {
			m.log.Warn().Err(err).Msg("upstream logout failed")
		}
	}

	m.clearLocked(ctx)
}

// Clear drops all session state without contacting the auth service.
func (m *Manager) Clear(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clearLocked(ctx)
}

// Close cancels the pending refresh timer. The manager keeps its stored
// credentials; it is teardown for the process, not a logout.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.cancelTimerLocked()
}

// User returns the profile snapshot of the live session.
func (m *Manager) User() (models.User, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return models.User{}, false
	}
	return *m.user, true
}

// AccessToken returns the current access token, empty when logged out.
func (m *Manager) AccessToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.accessToken
}

func (m *Manager) IsAuthenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user != nil
}

func (m *Manager) clearLocked(ctx context.Context) {
	m.cancelTimerLocked()
	if err := m.store.ClearTokens(ctx); err != nil {
		m.log.Warn().Err(err).Msg("clear token store failed")
	}
	m.accessToken = ""
	m.user = nil
}

func (m *Manager) cancelTimerLocked() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}

// scheduleLocked arranges the single silent-refresh timer for the token. The
// previous timer is always cancelled first; a token without a decodable exp
// claim gets no timer and the session simply lives until an API call fails.
func (m *Manager) scheduleLocked(ctx context.Context, accessToken string) {
	m.cancelTimerLocked()
	if m.closed {
		return
	}

	refreshToken, err := m.store.RefreshToken(ctx)
	if err != nil || refreshToken == "" {
		return
	}

	expiresAt, ok := tokenExpiry(accessToken)
	if !ok {
		m.log.Debug().Msg("access token has no decodable expiry, skipping auto refresh")
		return
	}

	delay := RefreshDelay(expiresAt, m.now())
	m.timer = m.afterFunc(delay, m.autoRefresh)
	m.log.Debug().Dur("delay", delay).Time("expires_at", expiresAt).Msg("auto refresh scheduled")
}

func (m *Manager) autoRefresh() {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	if err := m.Refresh(ctx); err != nil {
		m.log.Info().Err(err).Msg("silent refresh failed, session cleared")
	}
}

// tokenExpiry reads the exp claim without verifying the signature. The value
// is advisory, used only to time the silent refresh; authorization stays the
// server's job.
func tokenExpiry(raw string) (time.Time, bool) {
	token, _, err := jwt.NewParser().ParseUnverified(raw, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}
	exp, err := token.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
