// Package handler exposes the authentication service's HTTP surface:
// beginning and completing logins, verifying and refreshing session
// tokens, and the optional debug routes.
package handler

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/angaddubey10/oauth-demo/internal/auth"
	"github.com/angaddubey10/oauth-demo/internal/metrics"
	"github.com/angaddubey10/oauth-demo/internal/state"
	"github.com/angaddubey10/oauth-demo/internal/token"
)

// OAuthInfo is the sanitized provider configuration exposed by the debug
// config route. The client secret is never part of it.
type OAuthInfo struct {
	ClientID    string `json:"client_id"`
	RedirectURL string `json:"redirect_uri"`
	Scope       string `json:"scope"`
	FrontendURL string `json:"frontend_url"`
}

// Config wires a Handler.
type Config struct {
	Exchange    *auth.Exchange
	Codec       *token.Codec
	States      state.Store
	Metrics     *metrics.Auth
	FrontendURL string

	// Debug exposes the state-store and configuration introspection
	// routes. Keep it off on any exposed deployment.
	Debug bool
	OAuth OAuthInfo
}

// Handler implements the /auth routes.
type Handler struct {
	exchange    *auth.Exchange
	codec       *token.Codec
	states      state.Store
	metrics     *metrics.Auth
	frontendURL string
	debug       bool
	oauthInfo   OAuthInfo
}

// New builds a Handler from cfg. All of Exchange, Codec, States, and
// Metrics are required.
func New(cfg Config) *Handler {
	return &Handler{
		exchange:    cfg.Exchange,
		codec:       cfg.Codec,
		states:      cfg.States,
		metrics:     cfg.Metrics,
		frontendURL: cfg.FrontendURL,
		debug:       cfg.Debug,
		oauthInfo:   cfg.OAuth,
	}
}

// RegisterRoutes installs the auth routes. The optional middleware in
// limit (typically a rate limiter) guards the two browser-facing routes
// only; service-to-service verification is not limited.
func (h *Handler) RegisterRoutes(r *gin.Engine, limit ...gin.HandlerFunc) {
	r.GET("/auth/login", append(limit, h.Login)...)
	r.GET("/auth/callback", append(limit, h.Callback)...)
	r.POST("/auth/verify", h.Verify)
	r.POST("/auth/refresh", h.Refresh)

	if h.debug {
		r.GET("/auth/config", h.DebugConfig)
		r.GET("/auth/debug", h.DebugStates)
		r.POST("/auth/clear", h.ClearStates)
	}
}

// Login begins a login attempt and returns the provider authorization
// URL for the browser to follow.
func (h *Handler) Login(c *gin.Context) {
	authURL, err := h.exchange.Begin(c.Request.Context())
	if err != nil {
		slog.Error("begin login failed", slog.String("error", err.Error()))
		h.metrics.RecordLogin("begin_failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to begin login"})
		return
	}

	h.metrics.RecordLogin("initiated")
	c.JSON(http.StatusOK, gin.H{"auth_url": authURL})
}

// Callback resumes the login attempt from the provider redirect and
// hands the outcome back to the frontend. Failures carry a reason code
// only, never provider detail.
func (h *Handler) Callback(c *gin.Context) {
	code := c.Query("code")
	if errParam := c.Query("error"); errParam != "" {
		// The provider reported a denial (user cancelled consent, for
		// example). Treat it as an attempt without a code.
		slog.Warn("provider callback returned error", slog.String("error", errParam))
		code = ""
	}

	identity, err := h.exchange.Complete(c.Request.Context(), c.Query("state"), code)
	if err != nil {
		h.redirectFailure(c, auth.ReasonCode(err))
		return
	}

	signed, err := h.codec.Issue(identity)
	if err != nil {
		slog.Error("issue session token failed", slog.String("error", err.Error()))
		h.redirectFailure(c, "internal_error")
		return
	}

	h.metrics.RecordLogin("success")
	slog.Info("login completed",
		slog.String("role", string(identity.Role)),
		slog.String("client_ip", c.ClientIP()),
	)
	c.Redirect(http.StatusFound, h.frontendURL+"/auth/success?token="+url.QueryEscape(signed))
}

func (h *Handler) redirectFailure(c *gin.Context, reason string) {
	h.metrics.RecordLogin(reason)
	c.Redirect(http.StatusFound, h.frontendURL+"/login?error="+url.QueryEscape(reason))
}

type tokenRequest struct {
	Token string `json:"token"`
}

// Verify reports whether a session token is currently valid and returns
// its claims. Expired and forged tokens are indistinguishable to the
// caller.
func (h *Handler) Verify(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Token required"})
		return
	}

	identity, err := h.codec.Verify(req.Token)
	if err != nil {
		h.metrics.RecordTokenOp("verify", "rejected")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
		return
	}

	h.metrics.RecordTokenOp("verify", "ok")
	c.JSON(http.StatusOK, gin.H{"valid": true, "user": identity})
}

// Refresh reissues a currently valid token with a fresh validity window.
func (h *Handler) Refresh(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Token required"})
		return
	}

	signed, err := h.codec.Refresh(req.Token)
	if err != nil {
		h.metrics.RecordTokenOp("refresh", "rejected")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
		return
	}

	h.metrics.RecordTokenOp("refresh", "ok")
	c.JSON(http.StatusOK, gin.H{"token": signed})
}

// DebugConfig returns the sanitized OAuth client configuration.
func (h *Handler) DebugConfig(c *gin.Context) {
	c.JSON(http.StatusOK, h.oauthInfo)
}

// DebugStates reports the depth of the state store. Raw state tokens are
// never exposed, even here.
func (h *Handler) DebugStates(c *gin.Context) {
	pending, err := h.states.Pending(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "state store unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"pending_states": pending})
}

// ClearStates drops every in-flight login attempt.
func (h *Handler) ClearStates(c *gin.Context) {
	if err := h.states.Clear(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "state store unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "OAuth states cleared"})
}
