// Package metrics defines the Prometheus collectors each service
// registers on its own registry and exposes on /metrics.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Auth collects authentication-service metrics.
type Auth struct {
	logins   *prometheus.CounterVec
	tokenOps *prometheus.CounterVec
}

// NewAuth registers the authentication collectors with reg.
func NewAuth(reg prometheus.Registerer) *Auth {
	a := &Auth{
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_login_attempts_total",
			Help: "Login attempts by outcome (success or reject reason).",
		}, []string{"outcome"}),
		tokenOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_token_operations_total",
			Help: "Session token operations by kind and result.",
		}, []string{"op", "result"}),
	}
	reg.MustRegister(a.logins, a.tokenOps)
	return a
}

// RecordLogin counts one login attempt outcome.
func (a *Auth) RecordLogin(outcome string) {
	a.logins.WithLabelValues(outcome).Inc()
}

// RecordTokenOp counts one verify or refresh call.
func (a *Auth) RecordTokenOp(op, result string) {
	a.tokenOps.WithLabelValues(op, result).Inc()
}

// Resource collects resource-service metrics.
type Resource struct {
	requests *prometheus.CounterVec
}

// NewResource registers the resource collectors with reg.
func NewResource(reg prometheus.Registerer) *Resource {
	r := &Resource{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "resource_requests_total",
			Help: "Resource requests by route and status code.",
		}, []string{"route", "status"}),
	}
	reg.MustRegister(r.requests)
	return r
}

// RecordRequest counts one handled resource request.
func (r *Resource) RecordRequest(route string, status int) {
	r.requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
}

// Gateway collects frontend gateway metrics.
type Gateway struct {
	relays   *prometheus.CounterVec
	sessions *prometheus.CounterVec
}

// NewGateway registers the gateway collectors with reg.
func NewGateway(reg prometheus.Registerer) *Gateway {
	g := &Gateway{
		relays: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gateway_relay_total",
			Help: "Relayed API requests by upstream path and status code.",
		}, []string{"upstream", "status"}),
		sessions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gateway_sessions_total",
			Help: "Session lifecycle events.",
		}, []string{"event"}),
	}
	reg.MustRegister(g.relays, g.sessions)
	return g
}

// RecordRelay counts one relayed request.
func (g *Gateway) RecordRelay(upstream string, status int) {
	g.relays.WithLabelValues(upstream, strconv.Itoa(status)).Inc()
}

// RecordSession counts one session lifecycle event (created, refreshed,
// cleared).
func (g *Gateway) RecordSession(event string) {
	g.sessions.WithLabelValues(event).Inc()
}

// Handler returns the scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
