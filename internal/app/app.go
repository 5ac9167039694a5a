// Package app initializes and runs the main application service.
// It configures logging, the in-memory stores, authentication, and
// routing, and handles graceful shutdown.
package app

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/patric-chuzhbe/tinylink/internal/auth"
	"github.com/patric-chuzhbe/tinylink/internal/config"
	"github.com/patric-chuzhbe/tinylink/internal/db/urlstore"
	"github.com/patric-chuzhbe/tinylink/internal/db/userstore"
	"github.com/patric-chuzhbe/tinylink/internal/logger"
	"github.com/patric-chuzhbe/tinylink/internal/router"
	"github.com/patric-chuzhbe/tinylink/internal/service"
)

// App encapsulates the configuration, the HTTP handler and the stores
// needed to run the shortener service.
type App struct {
	cfg         *config.Config
	httpHandler http.Handler
}

// New initializes a new instance of App by:
// - loading configuration
// - initializing logger
// - creating the user and URL stores
// - setting up the session authentication middleware
// - setting up the router
func New(configOptions ...config.InitOption) (*App, error) {
	var err error
	app := &App{}

	app.cfg, err = config.New(configOptions...)
	if err != nil {
		return nil, err
	}

	err = logger.Init(app.cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	authCookieSigningSecretKey, err := base64.URLEncoding.DecodeString(app.cfg.AuthCookieSigningSecretKey)
	if err != nil {
		return nil, err
	}

	users := userstore.New(app.cfg.PasswordHashCost)
	urls := urlstore.New()

	app.httpHandler, err = router.New(
		service.New(urls, users, app.cfg.ShortURLBase),
		auth.New(
			users,
			app.cfg.AuthCookieName,
			authCookieSigningSecretKey,
			app.cfg.SessionTTL,
		),
	)
	if err != nil {
		return nil, err
	}

	return app, nil
}

// Run starts the HTTP server with graceful shutdown support.
// It listens for system signals and cleans up resources upon termination.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Log.Infoln("server running", "RunAddr", a.cfg.RunAddr)

	server := &http.Server{
		Addr:    a.cfg.RunAddr,
		Handler: a.httpHandler,
	}

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Log.Infoln("Received shutdown signal. Exiting...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}

		return nil

	case err := <-serverErrCh:
		return fmt.Errorf("server error: %w", err)
	}
}

// Close finalizes resources used by App such as logging.
func (a *App) Close() {
	if err := logger.Sync(); err != nil {
		fmt.Println("Logger sync error:", err)
	}
}
