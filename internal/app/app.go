// Package app assembles the three services. Each constructor wires one
// service's dependencies and returns an App ready to Run.
package app

import (
	"context"
	"errors"
	"net/http"
)

// App is one HTTP service plus the cleanup its wiring owns.
type App struct {
	httpServer *http.Server
	cleanup    func() error
}

func newApp(port string, handler http.Handler, cleanup func() error) *App {
	return &App{
		httpServer: &http.Server{Addr: ":" + port, Handler: handler},
		cleanup:    cleanup,
	}
}

// Run serves until Shutdown is called. A clean shutdown returns nil.
func (a *App) Run() error {
	if err := a.httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests, then releases wiring resources.
func (a *App) Shutdown(ctx context.Context) error {
	if err := a.httpServer.Shutdown(ctx); err != nil {
		return err
	}
	if a.cleanup != nil {
		return a.cleanup()
	}
	return nil
}
