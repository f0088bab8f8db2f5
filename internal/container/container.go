package container

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"partsdash/adapters/excel"
	"partsdash/app"
	"partsdash/internal"
	"partsdash/internal/config"
	"partsdash/internal/loader"
	"partsdash/internal/session"
	"partsdash/ports"
	"partsdash/ui"

	"github.com/gin-gonic/gin"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config

	// Infrastructure
	Reader   ports.TabularReaderPort
	Registry *session.Registry

	// Services
	Dashboard *app.DashboardService

	// HTTP surface
	API *ui.Server
	App *ui.App

	stopSweeper context.CancelFunc
	sweeperDone sync.WaitGroup
}

// New creates a new dependency injection container
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	internal.DefaultLogger.SetLevel(internal.ParseLogLevel(cfg.LogLevel))
	gin.SetMode(cfg.Server.GinMode)

	c := &Container{
		Config: cfg,
		Reader: excel.NewDataReader(excel.DefaultReaderConfig()),
	}
	c.Registry = session.NewRegistry(c.NewLoader, cfg.Session.TTL)
	c.Dashboard = app.NewDashboardService(app.DashboardConfig{
		FilterAllLabel:   cfg.Pipeline.FilterAllLabel,
		CollisionPolicy:  cfg.Pipeline.CollisionPolicy,
		AdhocMaxDistinct: cfg.Pipeline.AdhocMaxDistinct,
	})
	c.API = ui.NewServer(c.Registry, c.Dashboard, ui.ServerOptions{MaxUploadBytes: cfg.Server.MaxUploadBytes})

	uiApp, err := ui.NewApp(ui.Config{
		Port:           cfg.Server.Port,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	}, c.API, c.Registry)
	if err != nil {
		return nil, fmt.Errorf("failed to create UI app: %w", err)
	}
	c.App = uiApp

	return c, nil
}

// NewLoader creates an empty table cache decoding through the shared reader.
// Every session gets its own.
func (c *Container) NewLoader() *loader.Loader {
	return loader.New(c.Reader, loader.Config{
		MaxEntries:  c.Config.Pipeline.CacheMaxEntries,
		FoldAccents: c.Config.Pipeline.FoldHeaderAccents,
	})
}

// StartSweeper expires idle sessions in the background until Shutdown.
func (c *Container) StartSweeper(ctx context.Context) {
	interval := c.Config.Session.SweepInterval
	if interval <= 0 || c.Config.Session.TTL <= 0 {
		return
	}

	ctx, c.stopSweeper = context.WithCancel(ctx)
	c.sweeperDone.Add(1)
	go func() {
		defer c.sweeperDone.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.Registry.Sweep()
			}
		}
	}()
	log.Printf("Session sweeper started (ttl %s, every %s)", c.Config.Session.TTL, interval)
}

// Shutdown gracefully shuts down all components
func (c *Container) Shutdown(ctx context.Context) error {
	if c.stopSweeper != nil {
		c.stopSweeper()
	}

	done := make(chan struct{})
	go func() {
		c.sweeperDone.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
