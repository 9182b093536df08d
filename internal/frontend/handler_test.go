package frontend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/angaddubey10/oauth-demo/internal/auth"
	"github.com/angaddubey10/oauth-demo/internal/authz"
	"github.com/angaddubey10/oauth-demo/internal/metrics"
	"github.com/angaddubey10/oauth-demo/internal/session"
)

const (
	goodToken    = "good-token"
	adminToken   = "admin-token"
	staleToken   = "stale-token"
	rotatedToken = "rotated-token"
	providerURL  = "https://accounts.google.com/o/oauth2/auth?client_id=demo&state=abc"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func userIdentity() auth.Identity {
	return auth.Identity{Subject: "sub-user", Email: "user@example.com", Name: "Demo User", Role: authz.RoleUser}
}

func adminIdentity() auth.Identity {
	return auth.Identity{Subject: "sub-admin", Email: "admin@example.com", Name: "Demo Admin", Role: authz.RoleAdmin}
}

func knownTokens() map[string]auth.Identity {
	return map[string]auth.Identity{
		goodToken:    userIdentity(),
		adminToken:   adminIdentity(),
		rotatedToken: userIdentity(),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func tokenFrom(r *http.Request) string {
	var req struct {
		Token string `json:"token"`
	}
	json.NewDecoder(r.Body).Decode(&req)
	return req.Token
}

func newAuthServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"auth_url": providerURL})
	})
	mux.HandleFunc("/auth/verify", func(w http.ResponseWriter, r *http.Request) {
		identity, ok := knownTokens()[tokenFrom(r)]
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "invalid or expired token"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"valid": true, "user": identity})
	})
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		if tokenFrom(r) != goodToken {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "invalid or expired token"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"token": rotatedToken})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// resourceCapture records what the gateway forwarded upstream.
type resourceCapture struct {
	mu     sync.Mutex
	path   string
	bearer string
}

func (rc *resourceCapture) record(r *http.Request) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.path = r.URL.Path
	rc.bearer = r.Header.Get("Authorization")
}

func (rc *resourceCapture) last() (string, string) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return rc.path, rc.bearer
}

func newResourceServer(t *testing.T, capture *resourceCapture) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capture.record(r)
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/resources/admin" {
			w.WriteHeader(http.StatusForbidden)
			io.WriteString(w, `{"error":"Admin access required"}`)
			return
		}
		io.WriteString(w, `{"status":"success"}`)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// closedServerURL returns a URL nothing is listening on.
func closedServerURL(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.NewServeMux())
	url := srv.URL
	srv.Close()
	return url
}

type fixture struct {
	router   *gin.Engine
	sessions *session.MemoryStore
	resource *resourceCapture
}

func buildFixture(t *testing.T, authURL, resourceURL string, capture *resourceCapture) *fixture {
	t.Helper()

	sessions := session.NewMemoryStore()
	h := New(Config{
		Sessions:   sessions,
		Auth:       NewAuthClient(authURL, nil),
		Resources:  NewResourceClient(resourceURL, nil),
		Metrics:    metrics.NewGateway(prometheus.NewRegistry()),
		SessionTTL: time.Hour,
	})

	router := gin.New()
	router.SetHTMLTemplate(Templates)
	h.RegisterRoutes(router)

	return &fixture{router: router, sessions: sessions, resource: capture}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	capture := &resourceCapture{}
	return buildFixture(t, newAuthServer(t).URL, newResourceServer(t, capture).URL, capture)
}

func (f *fixture) do(method, target, sessionID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if sessionID != "" {
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: sessionID})
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) seedSession(t *testing.T, token string, identity auth.Identity) string {
	t.Helper()

	id := session.GenerateID()
	now := time.Now()
	err := f.sessions.Create(context.Background(), session.Session{
		ID:        id,
		Token:     token,
		User:      identity,
		CreatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	return id
}

func assertRedirect(t *testing.T, rec *httptest.ResponseRecorder, want string) {
	t.Helper()
	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, http.StatusFound, rec.Body.String())
	}
	if got := rec.Header().Get("Location"); got != want {
		t.Fatalf("Location = %q, want %q", got, want)
	}
}

func setCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	raw := rec.Header().Get("Set-Cookie")
	if raw == "" {
		t.Fatal("no Set-Cookie header written")
	}
	cookies := (&http.Response{Header: http.Header{"Set-Cookie": []string{raw}}}).Cookies()
	if len(cookies) == 0 {
		t.Fatalf("failed to parse Set-Cookie %q", raw)
	}
	return cookies[0]
}

func TestLoginPageMessages(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/login?error=state_mismatch", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	want := "Authentication failed due to security check. Please try again."
	if !strings.Contains(rec.Body.String(), want) {
		t.Fatalf("login page missing error banner %q:\n%s", want, rec.Body.String())
	}

	rec = f.do(http.MethodGet, "/login?error=not_a_real_code", "")
	if strings.Contains(rec.Body.String(), `class="error"`) {
		t.Fatalf("login page shows banner for unknown code:\n%s", rec.Body.String())
	}
}

func TestInitiateRedirectsToProvider(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/auth/initiate", "")
	assertRedirect(t, rec, providerURL)
}

func TestInitiateAuthServiceDown(t *testing.T) {
	capture := &resourceCapture{}
	f := buildFixture(t, closedServerURL(t), newResourceServer(t, capture).URL, capture)

	rec := f.do(http.MethodGet, "/auth/initiate", "")
	assertRedirect(t, rec, "/login?error=auth_service_error")
}

func TestAuthSuccessCreatesSession(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/auth/success?token="+goodToken, "")
	assertRedirect(t, rec, "/dashboard")

	cookie := setCookie(t, rec)
	if cookie.Name != session.CookieName {
		t.Fatalf("cookie name = %q, want %q", cookie.Name, session.CookieName)
	}
	if !cookie.HttpOnly {
		t.Error("session cookie not HttpOnly")
	}

	sess, err := f.sessions.Get(context.Background(), cookie.Value)
	if err != nil || sess == nil {
		t.Fatalf("session Get(%q) = (%v, %v), want stored session", cookie.Value, sess, err)
	}
	if sess.Token != goodToken {
		t.Errorf("stored token = %q, want %q", sess.Token, goodToken)
	}
	if sess.User.Email != "user@example.com" {
		t.Errorf("stored user = %q, want user@example.com", sess.User.Email)
	}
}

func TestAuthSuccessMissingToken(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/auth/success", "")
	assertRedirect(t, rec, "/login?error=no_token")
}

func TestAuthSuccessRejectedToken(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/auth/success?token="+staleToken, "")
	assertRedirect(t, rec, "/login?error=invalid_token")
	if rec.Header().Get("Set-Cookie") != "" {
		t.Error("rejected token still set a cookie")
	}
}

func TestIndexRedirects(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/", "")
	assertRedirect(t, rec, "/login")

	id := f.seedSession(t, goodToken, userIdentity())
	rec = f.do(http.MethodGet, "/", id)
	assertRedirect(t, rec, "/dashboard")
}

func TestDashboardWithoutSession(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/dashboard", "")
	assertRedirect(t, rec, "/login")
}

func TestDashboardRendersUser(t *testing.T) {
	f := newFixture(t)

	id := f.seedSession(t, goodToken, userIdentity())
	rec := f.do(http.MethodGet, "/dashboard", id)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "user@example.com") {
		t.Fatalf("dashboard missing user email:\n%s", rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "Admin resources") {
		t.Fatal("dashboard shows admin links to a user")
	}

	id = f.seedSession(t, adminToken, adminIdentity())
	rec = f.do(http.MethodGet, "/dashboard", id)
	if !strings.Contains(rec.Body.String(), "Admin resources") {
		t.Fatalf("dashboard missing admin links for admin:\n%s", rec.Body.String())
	}
}

func TestDashboardDropsRejectedSession(t *testing.T) {
	f := newFixture(t)

	id := f.seedSession(t, staleToken, userIdentity())
	rec := f.do(http.MethodGet, "/dashboard", id)
	assertRedirect(t, rec, "/login?error=session_expired")

	if cookie := setCookie(t, rec); cookie.MaxAge >= 0 {
		t.Errorf("cookie MaxAge = %d, want negative", cookie.MaxAge)
	}
	if sess, _ := f.sessions.Get(context.Background(), id); sess != nil {
		t.Fatal("session survived a rejected token")
	}
}

func TestRelayForwardsBearer(t *testing.T) {
	f := newFixture(t)

	id := f.seedSession(t, goodToken, userIdentity())
	rec := f.do(http.MethodGet, "/api/user/resources", id)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if body := rec.Body.String(); body != `{"status":"success"}` {
		t.Fatalf("body = %s, want upstream body verbatim", body)
	}

	path, bearer := f.resource.last()
	if path != "/resources/user" {
		t.Errorf("upstream path = %q, want /resources/user", path)
	}
	if bearer != "Bearer "+goodToken {
		t.Errorf("upstream Authorization = %q, want bearer token", bearer)
	}
}

func TestRelayPassesUpstreamStatus(t *testing.T) {
	f := newFixture(t)

	id := f.seedSession(t, goodToken, userIdentity())
	rec := f.do(http.MethodGet, "/api/admin/resources", id)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403 passed through", rec.Code)
	}
	if body := rec.Body.String(); body != `{"error":"Admin access required"}` {
		t.Fatalf("body = %s, want upstream body verbatim", body)
	}
}

func TestRelayWithoutSession(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/api/user/resources", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Not authenticated") {
		t.Fatalf("body = %s, want Not authenticated", rec.Body.String())
	}
}

func TestRelayUpstreamDown(t *testing.T) {
	f := buildFixture(t, newAuthServer(t).URL, closedServerURL(t), &resourceCapture{})

	id := f.seedSession(t, goodToken, userIdentity())
	rec := f.do(http.MethodGet, "/api/user/resources", id)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Service unavailable") {
		t.Fatalf("body = %s, want Service unavailable", rec.Body.String())
	}
}

func TestSessionRefresh(t *testing.T) {
	f := newFixture(t)

	id := f.seedSession(t, goodToken, userIdentity())
	rec := f.do(http.MethodPost, "/api/session/refresh", id)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}

	sess, err := f.sessions.Get(context.Background(), id)
	if err != nil || sess == nil {
		t.Fatalf("session Get() = (%v, %v) after refresh", sess, err)
	}
	if sess.Token != rotatedToken {
		t.Errorf("stored token = %q, want %q", sess.Token, rotatedToken)
	}
	if setCookie(t, rec).Value != id {
		t.Error("refresh did not re-issue the session cookie")
	}
}

func TestSessionRefreshRejected(t *testing.T) {
	f := newFixture(t)

	id := f.seedSession(t, staleToken, userIdentity())
	rec := f.do(http.MethodPost, "/api/session/refresh", id)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if sess, _ := f.sessions.Get(context.Background(), id); sess != nil {
		t.Fatal("session survived a rejected refresh")
	}
}

func TestLogoutClearsSession(t *testing.T) {
	f := newFixture(t)

	id := f.seedSession(t, goodToken, userIdentity())
	rec := f.do(http.MethodGet, "/logout", id)
	assertRedirect(t, rec, "/login")

	if cookie := setCookie(t, rec); cookie.MaxAge >= 0 {
		t.Errorf("cookie MaxAge = %d, want negative", cookie.MaxAge)
	}
	if sess, _ := f.sessions.Get(context.Background(), id); sess != nil {
		t.Fatal("session survived logout")
	}
}
