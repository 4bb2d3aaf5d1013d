// Package orchestrator owns the process lifecycle: the embedded NATS
// server, the template store and run metadata on top of it, the optional
// metrics and MCP endpoints, and the TUI.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/mark3labs/mailman/internal/events"
	"github.com/mark3labs/mailman/internal/hooks"
	"github.com/mark3labs/mailman/internal/logger"
	"github.com/mark3labs/mailman/internal/mcpserver"
	"github.com/mark3labs/mailman/internal/metadata"
	"github.com/mark3labs/mailman/internal/metrics"
	"github.com/mark3labs/mailman/internal/nats"
	"github.com/mark3labs/mailman/internal/store"
	"github.com/mark3labs/mailman/internal/tui"
)

// Config holds configuration for the orchestrator.
type Config struct {
	DataDir     string        // Data directory for NATS storage and UI state
	Owner       string        // Stamped on new templates
	EditorApp   string        // Editor for long card fields
	MetricsAddr string        // Serve /metrics here when set
	MCPPort     int           // MCP port when ServeMCP is set (0 = random)
	ServeMCP    bool          // Start the MCP tool server
	MinLoading  time.Duration // Minimum loading screen time
	Headless    bool          // Run without TUI
	HooksDir    string        // Load .mailman.hooks.yml from here when set
}

// Orchestrator wires the components together and tears them down.
type Orchestrator struct {
	cfg      Config
	embedded *nats.Embedded
	bus      *events.Bus
	store    *store.Store
	runs     *metadata.KV
	metrics  *metrics.Metrics
	mcp      *mcpserver.Server
	hooks    *hooks.Config

	tuiApp     *tui.App
	tuiProgram *tea.Program

	ctx     context.Context
	cancel  context.CancelFunc
	stopped bool
}

// New creates a new Orchestrator with the given configuration.
func New(cfg Config) (*Orchestrator, error) {
	if cfg.DataDir == "" {
		cfg.DataDir = ".mailman"
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Orchestrator{
		cfg:     cfg,
		ctx:     ctx,
		cancel:  cancel,
		metrics: metrics.New(),
	}, nil
}

// Start initializes all components. In headless mode the template log is
// replayed here; otherwise the TUI replays it behind its loading screen.
func (o *Orchestrator) Start() error {
	logger.Info("Starting mailman in %s", o.cfg.DataDir)

	if err := o.ensureNATS(); err != nil {
		logger.Error("Failed to start NATS: %v", err)
		return fmt.Errorf("failed to start NATS: %w", err)
	}

	if err := o.setupJetStream(); err != nil {
		logger.Error("Failed to setup JetStream: %v", err)
		return fmt.Errorf("failed to setup JetStream: %w", err)
	}

	if o.cfg.HooksDir != "" {
		h, err := hooks.LoadConfig(o.cfg.HooksDir)
		if err != nil {
			return err
		}
		o.hooks = h
	}

	if o.cfg.Headless {
		if err := o.store.Load(o.ctx); err != nil {
			return fmt.Errorf("failed to load templates: %w", err)
		}
	}

	if o.cfg.MetricsAddr != "" {
		go func() {
			if err := o.metrics.Serve(o.ctx, o.cfg.MetricsAddr); err != nil {
				logger.Error("Metrics server failed: %v", err)
			}
		}()
	}

	if o.cfg.ServeMCP {
		o.mcp = mcpserver.New(o.store, o.runs)
		if _, err := o.mcp.Start(o.ctx, o.cfg.MCPPort); err != nil {
			return fmt.Errorf("failed to start MCP server: %w", err)
		}
	}

	logger.Info("Mailman started")
	return nil
}

// ensureNATS starts the embedded server under the data directory.
func (o *Orchestrator) ensureNATS() error {
	dataDir := filepath.Join(o.cfg.DataDir, "nats")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("failed to create NATS data directory: %w", err)
	}

	e, err := nats.Start(dataDir)
	if err != nil {
		return err
	}
	o.embedded = e
	return nil
}

// setupJetStream creates the stream, the metadata bucket and the bus, and
// builds the store on them.
func (o *Orchestrator) setupJetStream() error {
	stream, err := nats.SetupStream(o.ctx, o.embedded.JS)
	if err != nil {
		return fmt.Errorf("failed to setup stream: %w", err)
	}

	kv, err := nats.SetupMetadataBucket(o.ctx, o.embedded.JS)
	if err != nil {
		return fmt.Errorf("failed to setup metadata bucket: %w", err)
	}

	bus, err := events.New(o.embedded.Conn)
	if err != nil {
		return fmt.Errorf("failed to create event bus: %w", err)
	}

	o.bus = bus
	o.runs = metadata.NewKV(kv)
	o.store = store.New(o.embedded.JS, stream, bus,
		store.WithOwner(o.cfg.Owner),
		store.WithMetrics(o.metrics),
	)
	return nil
}

// Run blocks until the TUI quits, or in headless mode until Stop is called.
func (o *Orchestrator) Run() error {
	if o.cfg.Headless {
		<-o.ctx.Done()
		return nil
	}

	app, err := tui.NewApp(o.ctx, tui.Options{
		Store:      o.store,
		Runs:       o.runs,
		Bus:        o.bus,
		Metrics:    o.metrics,
		DataDir:    o.cfg.DataDir,
		Owner:      o.cfg.Owner,
		EditorApp:  o.cfg.EditorApp,
		MinLoading: o.cfg.MinLoading,
		Settings:   o.settingRows(),
		Hooks:      o.hooks,
		HooksDir:   o.cfg.HooksDir,
	})
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	o.tuiApp = app
	o.tuiProgram = tea.NewProgram(app)
	app.SetSender(o.tuiProgram.Send)

	if _, err := o.tuiProgram.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

func (o *Orchestrator) settingRows() []tui.SettingRow {
	mcpURL := ""
	if o.mcp != nil {
		mcpURL = o.mcp.URL()
	}
	return []tui.SettingRow{
		{Label: "Data dir", Value: o.cfg.DataDir},
		{Label: "Owner", Value: o.cfg.Owner},
		{Label: "Editor", Value: o.cfg.EditorApp},
		{Label: "Metrics", Value: o.cfg.MetricsAddr},
		{Label: "MCP", Value: mcpURL},
		{Label: "Min loading", Value: o.cfg.MinLoading.String()},
		{Label: "Hooks", Value: o.hooksSummary()},
	}
}

func (o *Orchestrator) hooksSummary() string {
	if o.hooks == nil {
		return ""
	}
	return fmt.Sprintf("%d on save, %d on run", len(o.hooks.For(hooks.PostSave)), len(o.hooks.For(hooks.PostRun)))
}

// Store returns the template store. It is nil before Start.
func (o *Orchestrator) Store() *store.Store { return o.store }

// Runs returns the run metadata service. It is nil before Start.
func (o *Orchestrator) Runs() *metadata.KV { return o.runs }

// Metrics returns the process metrics.
func (o *Orchestrator) Metrics() *metrics.Metrics { return o.metrics }

// MCPURL returns the MCP endpoint, or "" when it is not served.
func (o *Orchestrator) MCPURL() string {
	if o.mcp == nil {
		return ""
	}
	return o.mcp.URL()
}

// Stop gracefully shuts down all components.
// Multiple calls to Stop() are safe and idempotent.
func (o *Orchestrator) Stop() error {
	if o.stopped {
		return nil
	}
	o.stopped = true

	logger.Info("Stopping mailman")
	var errs []error

	o.cancel()

	if o.tuiProgram != nil {
		o.tuiProgram.Quit()
		o.tuiProgram = nil
	}
	if o.tuiApp != nil {
		if err := o.tuiApp.Close(); err != nil {
			errs = append(errs, fmt.Errorf("TUI close failed: %w", err))
		}
	}

	if o.mcp != nil {
		if err := o.mcp.Stop(); err != nil {
			errs = append(errs, err)
		}
	}

	if o.bus != nil {
		if err := o.bus.Close(); err != nil {
			errs = append(errs, fmt.Errorf("event bus close failed: %w", err))
		}
	}

	if err := o.embedded.Close(); err != nil {
		logger.Error("NATS shutdown failed: %v", err)
		errs = append(errs, fmt.Errorf("NATS shutdown failed: %w", err))
	}

	logger.Info("Mailman stopped")
	return errors.Join(errs...)
}
