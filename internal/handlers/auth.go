package handlers

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"bdportal/api/internal/ids"
	"bdportal/api/internal/session"
)

// sessionID reads the gateway session cookie, minting a new ID (and cookie)
// when absent.
func (h HandlerSet) sessionID(c *gin.Context) string {
	sid, err := c.Cookie(h.cfg.Auth.CookieName)
	if err == nil && sid != "" {
		return sid
	}

	sid = ids.New()
	h.setSessionCookie(c, sid, int(h.cfg.Auth.SessionTTL.Seconds()))
	return sid
}

func (h HandlerSet) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cfg.Auth.CookieName, value, maxAge, "/", "", h.cfg.Auth.CookieSecure, true)
}

func (h HandlerSet) manager(c *gin.Context) (*session.Manager, string) {
	sid := h.sessionID(c)
	return h.sessions.Get(sid), sid
}

// AuthLogin is phase one of the SSO handshake: remember where the user wanted
// to go, then hand the browser to the identity provider.
func (h HandlerSet) AuthLogin(c *gin.Context) {
	m, _ := h.manager(c)
	c.Redirect(http.StatusFound, m.LoginURL(c.Request.Context(), c.Query("redirect")))
}

func (h HandlerSet) AuthRegister(c *gin.Context) {
	m, _ := h.manager(c)
	c.Redirect(http.StatusFound, m.RegisterURL(c.Request.Context(), c.Query("redirect")))
}

// AuthCallback is phase two: the provider redirects back here with tokens, or
// with an error.
func (h HandlerSet) AuthCallback(c *gin.Context) {
	m, _ := h.manager(c)

	if errMsg := c.Query("error"); errMsg != "" {
		h.log.Warn().Str("error", errMsg).Msg("sso callback returned error")
		c.Redirect(http.StatusFound, "/?auth_error="+url.QueryEscape(errMsg))
		return
	}

	accessToken := c.Query("token")
	refreshToken := c.Query("refresh_token")
	if accessToken == "" {
		c.Redirect(http.StatusFound, "/?auth_error="+url.QueryEscape("missing token"))
		return
	}

	if _, err := m.CompleteLogin(c.Request.Context(), accessToken, refreshToken); err != nil {
		h.log.Warn().Err(err).Msg("complete login failed")
		c.Redirect(http.StatusFound, "/?auth_error="+url.QueryEscape("login failed"))
		return
	}

	c.Redirect(http.StatusFound, m.TakeRedirectPath(c.Request.Context()))
}

// Me returns the live session's profile. After a gateway restart the manager
// is empty even though redis still holds credentials, so a miss triggers one
// bootstrap before giving up.
func (h HandlerSet) Me(c *gin.Context) {
	m, _ := h.manager(c)

	if !m.IsAuthenticated() {
		if err := m.Bootstrap(c.Request.Context()); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "not authenticated"}})
			return
		}
	}

	user, ok := m.User()
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "not authenticated"}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": user})
}

// AuthRefresh forces a refresh now instead of waiting for the silent timer.
func (h HandlerSet) AuthRefresh(c *gin.Context) {
	m, _ := h.manager(c)

	if err := m.Refresh(c.Request.Context()); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "session expired"}})
		return
	}

	user, _ := m.User()
	c.JSON(http.StatusOK, gin.H{"data": user})
}

func (h HandlerSet) AuthLogout(c *gin.Context) {
	sid, err := c.Cookie(h.cfg.Auth.CookieName)
	if err == nil && sid != "" {
		h.sessions.Get(sid).Logout(c.Request.Context())
		h.sessions.Remove(sid)
	}

	h.setSessionCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"logged_out": true}})
}
