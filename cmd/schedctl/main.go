package main

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"scheduling-assistant/config"
	"scheduling-assistant/internal/task/repository"
	"scheduling-assistant/internal/task/repository/sqlite"
	"scheduling-assistant/pkg/datemath"
	"scheduling-assistant/pkg/log"
)

var rootCmd = &cobra.Command{
	Use:   "schedctl",
	Short: "schedctl - operate the scheduling assistant locally",
	Long: `schedctl drives the scheduling engine against the local task store:
replay structured intents as a conversation, list tasks and print statistics.`,
	SilenceUsage: true,
}

var (
	dbPath   string
	timezone string
	logLevel string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite task store (default: store.path from config)")
	rootCmd.PersistentFlags().StringVar(&timezone, "tz", "", "Timezone for relative dates (default: scheduler.timezone from config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level written to stderr")

	rootCmd.AddCommand(replCmd)
	rootCmd.AddCommand(tasksCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// env is what every subcommand needs: configuration, a logger and the open store.
type env struct {
	cfg      *config.Config
	l        log.Logger
	db       *sql.DB
	repo     repository.Repository
	dateMath *datemath.Parser
}

func openEnv() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if dbPath != "" {
		cfg.Store.Path = dbPath
	}
	if timezone != "" {
		cfg.Scheduler.Timezone = timezone
	}

	l := log.Init(log.ZapConfig{Level: logLevel, Mode: cfg.Logger.Mode, Encoding: "console"})

	if err := os.MkdirAll(filepath.Dir(cfg.Store.Path), 0o755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	db, err := sqlite.Open(cfg.Store.Path)
	if err != nil {
		return nil, err
	}
	repo, err := sqlite.New(l, db)
	if err != nil {
		db.Close()
		return nil, err
	}
	parser, err := datemath.NewParser(cfg.Scheduler.Timezone)
	if err != nil {
		db.Close()
		return nil, err
	}
	return &env{cfg: cfg, l: l, db: db, repo: repo, dateMath: parser}, nil
}

func (e *env) Close() error {
	return e.db.Close()
}
