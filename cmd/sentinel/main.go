package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/crowdguardian/sentinel/internal/api"
	"github.com/crowdguardian/sentinel/internal/config"
	"github.com/crowdguardian/sentinel/internal/dashboard"
	"github.com/crowdguardian/sentinel/internal/logger"
	"github.com/crowdguardian/sentinel/pkg/version"
)

func main() {
	var (
		configPath  string
		showVersion bool
	)

	flag.StringVar(&configPath, "config", "configs/default.yaml", "Path to configuration file")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.Parse()

	if showVersion {
		fmt.Println(version.GetInfo().String())
		os.Exit(0)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// The terminal belongs to the dashboard; route logs to a file instead.
	if cfg.Logging.Output == "stdout" || cfg.Logging.Output == "stderr" {
		cfg.Logging.Output = "sentinel-client.log"
	}

	logrusLogger, err := logger.New(&cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	log := logger.NewLogrusAdapter(logrusLogger.WithField("component", "client"))

	log.WithField("version", version.GetInfo().Short()).Info("Starting Sentinel dashboard")

	client := api.NewClient(&cfg.Client, log)
	model := dashboard.NewModel(&cfg.Client, client, log)

	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		log.WithError(err).Error("Dashboard terminated with error")
		fmt.Fprintf(os.Stderr, "Dashboard error: %v\n", err)
		os.Exit(1)
	}

	log.Info("Dashboard shutdown complete")
}
