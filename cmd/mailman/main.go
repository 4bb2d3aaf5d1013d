package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/mark3labs/mailman/internal/config"
	"github.com/mark3labs/mailman/internal/logger"
	"github.com/mark3labs/mailman/internal/orchestrator"
	"github.com/mark3labs/mailman/internal/tui/theme"
	"github.com/spf13/cobra"
)

const (
	logoText1 = "█▄█▀█ ▄▀█ █ █   █▄█▀█ ▄▀█ █▄ █"
	logoText2 = "█ ▀ █ █▀█ █ █▄▄ █ ▀ █ █▀█ █ ▀█"
)

// Version set via ldflags during build
var version = "dev"

var rootFlags struct {
	dataDir string
	owner   string
}

// cfg is loaded before any command runs.
var cfg *config.Config

func main() {
	defer func() { _ = logger.Close() }()

	if err := fang.Execute(context.Background(), rootCmd, fang.WithVersion(version)); err != nil {
		logger.Error("Command execution failed: %v", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:               "mailman",
	Short:             "Author and manage mail merge templates",
	PersistentPreRunE: loadConfig,
	RunE:              runTUI,
}

// renderLogo creates the logo with gradient colors
func renderLogo() string {
	t := theme.NewCatppuccinMocha()
	line1 := theme.Gradient(logoText1, t.Primary, t.Secondary)
	line2 := theme.Gradient(logoText2, t.Primary, t.Secondary)
	return strings.Join([]string{line1, line2}, "\n")
}

func init() {
	rootCmd.Long = renderLogo() + `

mailman steps you through a short series of cards to build a mail merge
template: a title, the sheet holding one row per recipient, the header row,
recipients, a subject, the document to merge and an optional condition.
Templates are kept in an embedded NATS JetStream log and browsed in a
full-screen TUI.`

	rootCmd.PersistentFlags().StringVar(&rootFlags.dataDir, "data-dir", "", "Data directory (overrides data_dir)")
	rootCmd.PersistentFlags().StringVar(&rootFlags.owner, "owner", "", "Owner stamped on new templates (overrides owner)")

	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
}

// loadConfig applies config files, env and flags, then configures logging.
func loadConfig(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if rootFlags.dataDir != "" {
		loaded.DataDir = rootFlags.dataDir
	}
	if rootFlags.owner != "" {
		loaded.Owner = rootFlags.owner
	}
	if err := loaded.Validate(); err != nil {
		return err
	}
	cfg = loaded

	if err := logger.Default.Configure(cfg.LogLevel, cfg.LogFile); err != nil {
		return fmt.Errorf("failed to configure logger: %w", err)
	}
	logger.Debug("Config loaded: data_dir=%s", cfg.DataDir)
	return nil
}

func orchestratorConfig(headless bool) orchestrator.Config {
	return orchestrator.Config{
		DataDir:     cfg.DataDir,
		Owner:       cfg.Owner,
		EditorApp:   cfg.EditorApp,
		MetricsAddr: cfg.MetricsAddr,
		MCPPort:     cfg.MCPPort,
		MinLoading:  cfg.MinLoading,
		Headless:    headless,
		HooksDir:    cfg.HooksDir,
	}
}

// startHeadless starts the runtime for a one-shot command. The caller
// must Stop it.
func startHeadless() (*orchestrator.Orchestrator, error) {
	oc := orchestratorConfig(true)
	oc.MetricsAddr = ""

	orch, err := orchestrator.New(oc)
	if err != nil {
		return nil, fmt.Errorf("failed to create orchestrator: %w", err)
	}
	if err := orch.Start(); err != nil {
		_ = orch.Stop()
		return nil, fmt.Errorf("failed to start: %w", err)
	}
	return orch, nil
}

// stopOnSignal stops orch on SIGINT or SIGTERM.
func stopOnSignal(orch *orchestrator.Orchestrator) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\nShutting down gracefully...")
		if err := orch.Stop(); err != nil {
			fmt.Fprintf(os.Stderr, "Error during shutdown: %v\n", err)
		}
	}()
}

func runTUI(cmd *cobra.Command, args []string) error {
	orch, err := orchestrator.New(orchestratorConfig(false))
	if err != nil {
		return fmt.Errorf("failed to create orchestrator: %w", err)
	}
	if err := orch.Start(); err != nil {
		_ = orch.Stop()
		return fmt.Errorf("failed to start: %w", err)
	}
	defer func() {
		if err := orch.Stop(); err != nil {
			fmt.Fprintf(os.Stderr, "Error during shutdown: %v\n", err)
		}
	}()
	stopOnSignal(orch)

	return orch.Run()
}
