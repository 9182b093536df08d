package frontend

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/angaddubey10/oauth-demo/internal/authz"
	"github.com/angaddubey10/oauth-demo/internal/metrics"
	"github.com/angaddubey10/oauth-demo/internal/session"
)

// loginErrorMessages maps callback reason codes to the text shown on
// the login page. Unknown codes render no banner.
var loginErrorMessages = map[string]string{
	"state_mismatch":        "Authentication failed due to security check. Please try again.",
	"no_code":               "Authentication was cancelled or failed.",
	"token_exchange_failed": "Failed to complete authentication with Google.",
	"invalid_token":         "Authentication token is invalid.",
	"internal_error":        "An internal error occurred during authentication.",
	"session_expired":       "Your session has expired. Please sign in again.",
	"auth_service_error":    "The authentication service is unavailable. Please try again later.",
	"no_token":              "No authentication token was received.",
}

const defaultSessionTTL = 8 * time.Hour

// Config wires a gateway Handler.
type Config struct {
	Sessions     session.Store
	Auth         *AuthClient
	Resources    *ResourceClient
	Metrics      *metrics.Gateway
	SessionTTL   time.Duration
	CookieSecure bool
}

// Handler serves the browser-facing pages and relays API calls to the
// resource service. It holds tokens server-side, keyed by the session
// cookie, and never mints or verifies them locally.
type Handler struct {
	sessions   session.Store
	auth       *AuthClient
	resources  *ResourceClient
	metrics    *metrics.Gateway
	sessionTTL time.Duration
	cookieOpts session.CookieOptions
	now        func() time.Time
}

func New(cfg Config) *Handler {
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &Handler{
		sessions:   cfg.Sessions,
		auth:       cfg.Auth,
		resources:  cfg.Resources,
		metrics:    cfg.Metrics,
		sessionTTL: ttl,
		cookieOpts: session.CookieOptions{Secure: cfg.CookieSecure},
		now:        time.Now,
	}
}

// RegisterRoutes mounts the page and API routes. The router must have
// Templates installed via SetHTMLTemplate.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/", h.Index)
	r.GET("/login", h.Login)
	r.GET("/auth/initiate", h.Initiate)
	r.GET("/auth/success", h.AuthSuccess)
	r.GET("/dashboard", h.Dashboard)
	r.GET("/logout", h.Logout)

	api := r.Group("/api")
	api.GET("/user/resources", h.relayTo("/resources/user"))
	api.GET("/admin/resources", h.relayTo("/resources/admin"))
	api.GET("/user/profile", h.relayTo("/user/profile"))
	api.GET("/admin/stats", h.relayTo("/admin/stats"))
	api.GET("/admin/users", h.relayTo("/admin/users"))
	api.POST("/session/refresh", h.RefreshSession)
}

// Index routes the browser by session state.
func (h *Handler) Index(c *gin.Context) {
	if sess, ok := h.currentSession(c); ok {
		identity, err := h.auth.Verify(c.Request.Context(), sess.Token)
		if err == nil && identity != nil {
			c.Redirect(http.StatusFound, "/dashboard")
			return
		}
	}
	c.Redirect(http.StatusFound, "/login")
}

// Login renders the sign-in page, with an error banner when the auth
// service redirected back with a reason code.
func (h *Handler) Login(c *gin.Context) {
	c.HTML(http.StatusOK, "login", gin.H{
		"Error": loginErrorMessages[c.Query("error")],
	})
}

// Initiate asks the auth service to begin a login and sends the
// browser to the provider.
func (h *Handler) Initiate(c *gin.Context) {
	authURL, err := h.auth.LoginURL(c.Request.Context())
	if err != nil {
		slog.Error("auth service login failed", "error", err)
		c.Redirect(http.StatusFound, "/login?error=auth_service_error")
		return
	}
	c.Redirect(http.StatusFound, authURL)
}

// AuthSuccess receives the token minted by the auth service, verifies
// it, and opens a server-side session for it.
func (h *Handler) AuthSuccess(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.Redirect(http.StatusFound, "/login?error=no_token")
		return
	}

	identity, err := h.auth.Verify(c.Request.Context(), token)
	if err != nil {
		slog.Error("token verification unavailable", "error", err)
		c.Redirect(http.StatusFound, "/login?error=auth_service_error")
		return
	}
	if identity == nil {
		c.Redirect(http.StatusFound, "/login?error=invalid_token")
		return
	}

	now := h.now()
	sess := session.Session{
		ID:        session.GenerateID(),
		Token:     token,
		User:      *identity,
		CreatedAt: now,
		ExpiresAt: now.Add(h.sessionTTL),
	}
	if err := h.sessions.Create(c.Request.Context(), sess); err != nil {
		slog.Error("session create failed", "error", err)
		c.Redirect(http.StatusFound, "/login?error=internal_error")
		return
	}

	session.SetCookie(c.Writer, sess.ID, sess.ExpiresAt, h.cookieOpts)
	h.metrics.RecordSession("created")
	slog.Info("session created", "email", identity.Email, "role", identity.Role)
	c.Redirect(http.StatusFound, "/dashboard")
}

// Dashboard renders the signed-in page. The stored token is
// re-verified on every view; a rejected token ends the session.
func (h *Handler) Dashboard(c *gin.Context) {
	sess, ok := h.currentSession(c)
	if !ok {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	identity, err := h.auth.Verify(c.Request.Context(), sess.Token)
	if err != nil {
		slog.Error("token verification unavailable", "error", err)
		c.Redirect(http.StatusFound, "/login?error=auth_service_error")
		return
	}
	if identity == nil {
		h.dropSession(c, sess.ID)
		c.Redirect(http.StatusFound, "/login?error=session_expired")
		return
	}

	c.HTML(http.StatusOK, "dashboard", gin.H{
		"User":    identity,
		"IsAdmin": identity.Role == authz.RoleAdmin,
	})
}

// Logout drops the session and returns the browser to the sign-in
// page.
func (h *Handler) Logout(c *gin.Context) {
	if sess, ok := h.currentSession(c); ok {
		h.dropSession(c, sess.ID)
	} else {
		session.ClearCookie(c.Writer, h.cookieOpts)
	}
	c.Redirect(http.StatusFound, "/login")
}

// RefreshSession swaps the stored token for a freshly issued one,
// sliding the session window with it.
func (h *Handler) RefreshSession(c *gin.Context) {
	sess, ok := h.currentSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	refreshed, err := h.auth.Refresh(c.Request.Context(), sess.Token)
	if err != nil {
		slog.Error("token refresh unavailable", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Service unavailable"})
		return
	}
	if refreshed == "" {
		h.dropSession(c, sess.ID)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session expired"})
		return
	}

	now := h.now()
	sess.Token = refreshed
	sess.ExpiresAt = now.Add(h.sessionTTL)
	if err := h.sessions.Update(c.Request.Context(), *sess); err != nil {
		slog.Error("session update failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	session.SetCookie(c.Writer, sess.ID, sess.ExpiresAt, h.cookieOpts)
	h.metrics.RecordSession("refreshed")
	c.JSON(http.StatusOK, gin.H{
		"refreshed":  true,
		"expires_at": sess.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

// relayTo forwards the request to a resource service path with the
// session's bearer token. Upstream responses pass through verbatim.
func (h *Handler) relayTo(path string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := h.currentSession(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			return
		}

		status, body, err := h.resources.Get(c.Request.Context(), path, sess.Token)
		if err != nil {
			slog.Error("resource relay failed", "path", path, "error", err)
			h.metrics.RecordRelay(path, http.StatusBadGateway)
			c.JSON(http.StatusBadGateway, gin.H{"error": "Service unavailable"})
			return
		}
		h.metrics.RecordRelay(path, status)
		c.Data(status, "application/json", body)
	}
}

func (h *Handler) currentSession(c *gin.Context) (*session.Session, bool) {
	id, err := c.Cookie(session.CookieName)
	if err != nil || id == "" {
		return nil, false
	}
	sess, err := h.sessions.Get(c.Request.Context(), id)
	if err != nil {
		slog.Error("session lookup failed", "error", err)
		return nil, false
	}
	if sess == nil {
		return nil, false
	}
	return sess, true
}

// dropSession removes the server-side record and expires the cookie.
func (h *Handler) dropSession(c *gin.Context, id string) {
	if err := h.sessions.Delete(c.Request.Context(), id); err != nil {
		slog.Error("session delete failed", "error", err)
	}
	session.ClearCookie(c.Writer, h.cookieOpts)
	h.metrics.RecordSession("cleared")
}
