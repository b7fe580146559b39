// Command budgetbox is the local-first budget client.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/baharkarakas/budgetbox/internal/budgetstate"
	"github.com/baharkarakas/budgetbox/internal/client"
	"github.com/baharkarakas/budgetbox/internal/config"
	"github.com/baharkarakas/budgetbox/internal/logger"
	"github.com/baharkarakas/budgetbox/internal/syncer"
)

var (
	flagConfig  string
	flagServer  string
	flagEmail   string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:           "budgetbox",
	Short:         "Local-first budgeting",
	Long:          "Edit your monthly budget offline and sync it to a BudgetBox server when you are online.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runShow,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default "+config.ClientPath()+")")
	rootCmd.PersistentFlags().StringVar(&flagServer, "server", "", "Server URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagEmail, "email", "", "Account email (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errStyle.Render("  error: "+err.Error()))
		os.Exit(1)
	}
}

var (
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#DC2626"))
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#D97706"))
)

// app is what every command works with.
type app struct {
	cfg   config.ClientConfig
	store *budgetstate.Store
	api   *client.Client
	coord *syncer.Coordinator
	log   *slog.Logger
}

func loadConfig() (config.ClientConfig, error) {
	cfg, err := config.LoadClient(flagConfig)
	if err != nil {
		return cfg, err
	}
	if flagServer != "" {
		cfg.ServerURL = flagServer
	}
	if flagEmail != "" {
		cfg.Email = flagEmail
	}
	return cfg, nil
}

// newApp opens the local state. logOut receives the CLI's own logs.
func newApp(logOut io.Writer) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	level := slog.LevelWarn
	if flagVerbose {
		level = slog.LevelDebug
	}
	log := logger.NewLevel(logOut, level)

	store, err := budgetstate.Open(budgetstate.NewFilePersister(cfg.StatePath))
	if err != nil {
		return nil, err
	}
	api := client.New(cfg.ServerURL, cfg.Email, cfg.RequestTimeout.Duration)
	notify := func(msg string) { fmt.Fprintln(os.Stderr, noticeStyle.Render("  "+msg)) }
	return &app{
		cfg:   cfg,
		store: store,
		api:   api,
		coord: syncer.NewCoordinator(store, api, notify, log),
		log:   log,
	}, nil
}
