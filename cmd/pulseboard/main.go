package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"pulseboard/internal/config"
	"pulseboard/internal/log"
	"pulseboard/internal/service"
	"pulseboard/internal/store"
	"pulseboard/internal/syncwatch"
	"pulseboard/internal/tracker"
	"pulseboard/internal/tui"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	var showVersion, resetCache bool
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.BoolVar(&resetCache, "reset-cache", false, "delete cached dashboard data and exit")
	flag.Parse()

	if showVersion {
		fmt.Printf("pulseboard %s\n", Version)
		return
	}

	if resetCache {
		if err := config.ClearCache(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Cache cleared.")
		return
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := log.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = log.NullLogger()
	}
	slog.SetDefault(logger)

	logger.Info("starting pulseboard", "version", Version)

	if !cfg.IsConfigured() {
		return runSetupFlow(cfg, logger)
	}

	client := tracker.NewClient(cfg.Server.URL, cfg.Server.Token, logger)

	st, err := store.NewDashboardStore(config.CachePath(), cfg.Server.URL)
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}
	defer st.Close()

	dashboardSvc := service.NewDashboardService(client, st, logger)
	filterSvc := service.NewFilterService(logger)

	// Each UI surface gets its own watcher; all of them feed one channel.
	feed := tui.NewSyncFeed()
	newWatcher := func(scope string) *syncwatch.Watcher {
		return syncwatch.New(client, syncwatch.Options{
			Scope:    scope,
			OnChange: feed.OnChange(scope),
			OnReload: feed.OnReload(scope),
			Logger:   logger,
		})
	}

	model := tui.NewModel(dashboardSvc, filterSvc, feed, newWatcher, cfg.UI.TimelineWeeks, cfg.UI.DefaultView)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	logger.Info("starting TUI")

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}

// runSetupFlow handles the initial setup when not configured
func runSetupFlow(cfg *config.Config, logger *slog.Logger) error {
	fmt.Println()
	fmt.Println("Welcome to pulseboard!")
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)

	var serverURL string
	for {
		fmt.Print("Enter your tracker URL (e.g., https://tracker.example.com): ")
		input, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		serverURL = strings.TrimRight(strings.TrimSpace(input), "/")

		if serverURL == "" {
			fmt.Println("Tracker URL cannot be empty. Please try again.")
			continue
		}
		break
	}

	fmt.Print("Enter your API token (input hidden): ")
	tokenBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("failed to read token: %w", err)
	}
	token := strings.TrimSpace(string(tokenBytes))
	if token == "" {
		return fmt.Errorf("API token cannot be empty")
	}

	// Verify the credentials before saving
	fmt.Println()
	fmt.Println("Checking connection...")

	client := tracker.NewClient(serverURL, token, logger)
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if _, err := client.SyncStatus(ctx); err != nil {
		return fmt.Errorf("could not reach tracker: %w", err)
	}

	cfg.Server.URL = serverURL
	cfg.Server.Token = token

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println("✓ Configuration saved!")
	fmt.Println()
	fmt.Println("Run pulseboard again to start the application.")

	return nil
}
