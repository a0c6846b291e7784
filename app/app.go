package app

import (
	"context"

	"log/slog"

	"github.com/hdnguyen/salesboard/config"
	httpapi "github.com/hdnguyen/salesboard/internal/api/http"
	"github.com/hdnguyen/salesboard/internal/dataset"
	"github.com/hdnguyen/salesboard/internal/report"
	"github.com/hdnguyen/salesboard/internal/rules"
)

// App is the main application.
type App struct {
	hs   *httpapi.Server
	c    *config.Config
	done chan struct{}
}

// New returns a new instance of App.
func New(c *config.Config) *App {
	return &App{
		c:    c,
		done: make(chan struct{}),
	}
}

// Start starts the app.
func (a *App) Start(ctx context.Context) error {
	slog.Default().InfoContext(ctx, "starting salesboard")

	ruleSet, err := rules.Load(a.c.Rules)
	if err != nil {
		slog.Default().With("err", err.Error()).ErrorContext(ctx, "couldn't load business rules")
		return err
	}

	registry := dataset.NewRegistry()
	reports := report.NewService(ruleSet)

	a.hs = httpapi.New(&a.c.HTTP, a.c.Ingest)
	if err := a.hs.Start(ctx, registry, reports); err != nil {
		slog.Default().With("err", err.Error()).ErrorContext(ctx, "cannot start http server")
		return err
	}

	go func() {
		<-a.hs.Done()
		close(a.done)
	}()
	return nil
}

// Stop stops the application and waits for all services to exit.
func (a *App) Stop(ctx context.Context) {
	if a.hs != nil {
		_ = a.hs.Stop(ctx)
	}
}

// Done returns a channel that is closed after the application has exited.
func (a *App) Done() chan struct{} {
	return a.done
}
