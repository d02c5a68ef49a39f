package auth

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	CookieName       = "session-token"
	SecureCookieName = "__Secure-session-token"

	sessionKey = "session"
)

var (
	protectedPrefixes = []string{"/account", "/checkout", "/orders"}
	authPagePrefixes  = []string{"/login", "/auth/register", "/forgot-password"}
)

// Manager reads, renews and writes session cookies.
type Manager struct {
	tokens *Tokens
	secure bool
	log    *slog.Logger
}

// NewManager uses the __Secure- cookie name and the Secure flag when
// secure is set, which is the production setting.
func NewManager(tokens *Tokens, secure bool, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{tokens: tokens, secure: secure, log: log}
}

func (m *Manager) cookieName() string {
	if m.secure {
		return SecureCookieName
	}
	return CookieName
}

// Start issues a token for the session and sets it as the session cookie.
func (m *Manager) Start(c *gin.Context, s Session) (string, *Session, error) {
	token, issued, err := m.tokens.Issue(s)
	if err != nil {
		return "", nil, err
	}
	m.setCookie(c, token, int(m.tokens.MaxAge().Seconds()))
	return token, issued, nil
}

func (m *Manager) End(c *gin.Context) {
	m.setCookie(c, "", -1)
}

func (m *Manager) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cookieName(), value, maxAge, "/", "", m.secure, true)
}

func (m *Manager) tokenFrom(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	if v, err := c.Cookie(m.cookieName()); err == nil {
		return v
	}
	return ""
}

// Authenticate attaches the session, when there is a valid one, to the
// request context and renews tokens older than the update age.
func (m *Manager) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := m.tokenFrom(c)
		if tokenStr == "" {
			c.Next()
			return
		}
		s, err := m.tokens.Parse(tokenStr)
		if err != nil {
			m.log.Debug("ignoring invalid session token", slog.Any("err", err))
			c.Next()
			return
		}
		if m.tokens.NeedsRenewal(s) {
			if _, renewed, err := m.Start(c, *s); err == nil {
				s = renewed
			} else {
				m.log.Warn("failed to renew session", slog.Any("err", err))
			}
		}
		c.Set(sessionKey, s)
		c.Next()
	}
}

// RequireSession rejects requests without a session with 401.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := SessionFrom(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			return
		}
		c.Next()
	}
}

// PageGuard redirects page requests: protected pages need a session and
// the login pages are skipped when one exists. API paths pass through.
func PageGuard() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/api/") {
			c.Next()
			return
		}
		_, loggedIn := SessionFrom(c)

		if !loggedIn && hasPrefix(path, protectedPrefixes) {
			c.Redirect(http.StatusFound, "/login?callbackUrl="+url.QueryEscape(path))
			c.Abort()
			return
		}
		if loggedIn && hasPrefix(path, authPagePrefixes) {
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}
		c.Next()
	}
}

func hasPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

func SessionFrom(c *gin.Context) (*Session, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil, false
	}
	s, ok := v.(*Session)
	return s, ok && s != nil
}
