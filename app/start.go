package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
)

// Start runs the modules, the Watermill router and the HTTP server until ctx
// is canceled or a shutdown signal arrives.
func (app *App) Start(ctx context.Context) error {
	logger := app.Observability.Logger
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	app.Observability.ServeMetrics()

	var wg sync.WaitGroup
	for _, m := range app.modules {
		wg.Add(1)
		go m.Run(ctx, &wg)
	}

	errCh := make(chan error, 2)
	go func() {
		if err := app.Router.Run(ctx); err != nil {
			errCh <- fmt.Errorf("watermill router: %w", err)
		}
	}()
	go func() {
		logger.Info("Starting HTTP server", slog.String("address", app.HTTPServer.Addr))
		if err := app.HTTPServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	var runErr error
	select {
	case runErr = <-errCh:
		logger.Error("Component failed, shutting down", slog.Any("error", runErr))
	case <-app.WaitForShutdown(ctx):
	}

	cancel()
	closeErr := app.Close()
	wg.Wait()
	return errors.Join(runErr, closeErr)
}
