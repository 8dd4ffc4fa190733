package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/mzavel/fasting-cli/internal/adapters/api"
	"github.com/mzavel/fasting-cli/internal/adapters/connectivity"
	"github.com/mzavel/fasting-cli/internal/adapters/notification"
	"github.com/mzavel/fasting-cli/internal/adapters/storage"
	"github.com/mzavel/fasting-cli/internal/config"
	"github.com/mzavel/fasting-cli/internal/ports"
	"github.com/mzavel/fasting-cli/internal/services"
)

// appDeps groups all service-layer dependencies initialized at startup.
type appDeps struct {
	config    *config.Config
	local     ports.LocalStore
	api       *api.Client
	conn      *connectivity.Prober
	notifier  *notification.Notifier
	syncSvc   *services.SyncService
	lifecycle *services.Lifecycle
	schedules *services.ScheduleService
	health    *services.HealthService
	state     *services.StateService
	monitor   *services.Monitor
}

// app holds all initialized service dependencies.
// Populated by initializeServices() and accessible to all commands.
var app appDeps

// initializeServices sets up all the required services and adapters.
func initializeServices() error {
	// Load configuration
	var err error
	app.config, err = config.Load()
	if err != nil {
		// If config loading fails, use defaults
		app.config = config.DefaultConfig()
	}

	// Initialize notifier
	app.notifier = notification.New(&app.config.Notifications)

	// Determine database path
	if dbPath == "" {
		dbPath = config.GetDBPath(app.config)
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0750); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	// Initialize local storage
	app.local, err = storage.New(dbPath)
	if err != nil {
		return fmt.Errorf("failed to initialize local storage: %w", err)
	}

	// Initialize the API client and connectivity prober
	url := app.config.Server.URL
	if serverURL != "" {
		url = serverURL
	}
	app.api = api.New(url, time.Duration(app.config.Server.Timeout))
	app.conn = connectivity.New(app.api)
	app.conn.SetInterval(time.Duration(app.config.Sync.ProbeInterval))

	// Initialize services
	app.syncSvc = services.NewSyncService(app.api, app.local, app.conn, app.notifier)
	app.lifecycle = services.NewLifecycle(app.api, app.local, app.syncSvc, app.conn, app.notifier)
	app.schedules = services.NewScheduleService(app.api, app.local, app.syncSvc, app.conn, app.lifecycle)
	app.health = services.NewHealthService(app.api, app.syncSvc, app.conn)
	app.state = services.NewStateService(app.lifecycle, app.schedules, app.syncSvc, app.conn)
	app.monitor = services.NewMonitor(app.lifecycle, app.schedules, app.local.Markers(), app.notifier)
	app.monitor.SetIntervals(
		time.Duration(app.config.Monitor.ScanInterval),
		time.Duration(app.config.Monitor.RefreshInterval),
		time.Duration(app.config.Monitor.StartWindow),
	)

	// Queued changes drain whenever connectivity returns.
	app.syncSvc.Watch()

	// One quick probe so commands know whether they are online.
	probeCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	app.conn.Probe(probeCtx)

	return nil
}

// cleanupServices closes all resources.
func cleanupServices() error {
	if app.lifecycle != nil {
		app.lifecycle.Close()
	}
	if app.local != nil {
		return app.local.Close()
	}
	return nil
}

// setupSignalHandler sets up a context that cancels on interrupt signals.
func setupSignalHandler() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		cancel()
	}()

	return ctx
}

// parseTimeFlag parses a user-supplied time. It accepts RFC3339, a
// date-time, or a bare clock time which resolves to today.
func parseTimeFlag(value string, now time.Time) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02 15:04", value, now.Location()); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("15:04", value, now.Location()); err == nil {
		return time.Date(now.Year(), now.Month(), now.Day(), t.Hour(), t.Minute(), 0, 0, now.Location()), nil
	}
	return time.Time{}, fmt.Errorf("invalid time %q (want RFC3339, \"2006-01-02 15:04\" or \"15:04\")", value)
}
