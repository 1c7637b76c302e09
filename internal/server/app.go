// Package server wires the mock backend: in-memory tables, the operator
// account, image and mail delivery, and the gin HTTP server with graceful
// shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/buildhub/internal/logging"
	"github.com/dmitrijs2005/buildhub/internal/server/accounts"
	"github.com/dmitrijs2005/buildhub/internal/server/config"
	"github.com/dmitrijs2005/buildhub/internal/server/httpapi"
	"github.com/dmitrijs2005/buildhub/internal/server/images"
	"github.com/dmitrijs2005/buildhub/internal/server/mail"
	"github.com/dmitrijs2005/buildhub/internal/server/memstore"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	config  *config.Config
	logger  logging.Logger
	handler *httpapi.Handler
}

// newImageStore is a seam for tests.
var newImageStore = func(ctx context.Context, c *config.Config) (images.Store, error) {
	if !c.S3Enabled() {
		return images.NewMemoryStore(httpapi.UploadsPath), nil
	}
	return images.NewS3Store(ctx, images.S3Config{
		RootUser:     c.S3RootUser,
		RootPassword: c.S3RootPassword,
		Bucket:       c.S3Bucket,
		Region:       c.S3Region,
		BaseEndpoint: c.S3BaseEndpoint,
	})
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, err := logging.New(c.LogBackend, c.Environment)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}
	if c.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db := memstore.NewDatabase()
	if c.SeedDemoData {
		if err := db.SeedDemo(time.Now().UTC()); err != nil {
			return nil, fmt.Errorf("seed error: %w", err)
		}
	}

	sender := mail.NewSender(c.MailgunDomain, c.MailgunAPIKey, c.MailSender, logger)
	acc := accounts.NewService(db, sender, c, logger)
	admin, err := acc.EnsureAdmin(c.AdminEmail, c.AdminPassword, c.AdminName)
	if err != nil {
		return nil, fmt.Errorf("admin init error: %w", err)
	}
	logger.Info(ctx, "operator account ready", "email", admin.Email)

	store, err := newImageStore(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("image store init error: %w", err)
	}

	return &App{
		config:  c,
		logger:  logger,
		handler: httpapi.NewHandler(db, acc, store, logger),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// serve runs srv until ctx is cancelled, then shuts it down.
func (app *App) serve(ctx context.Context, cancelFunc context.CancelFunc, srv *http.Server) {
	errCh := make(chan error, 1)
	go func() {
		app.logger.Info(ctx, "http server listening", "addr", srv.Addr, "base", app.config.BasePath)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.logger.Error(ctx, "http server failed", "error", err)
		}
		cancelFunc()
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(shutdownCtx, "http server shutdown failed", "error", err)
		}
	}
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting mock backend...")

	app.initSignalHandler(cancelFunc)

	srv := &http.Server{
		Addr:              app.config.ListenAddr,
		Handler:           app.handler.Router(app.config.BasePath),
		ReadHeaderTimeout: 10 * time.Second,
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.serve(ctx, cancelFunc, srv)
	}()

	wg.Wait()
	app.logger.Info(context.Background(), "mock backend stopped")
}
