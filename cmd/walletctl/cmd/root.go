package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/simaogato/paperwallet-backend/internal/app"
	"github.com/simaogato/paperwallet-backend/internal/config"
	"github.com/simaogato/paperwallet-backend/internal/logger"
)

var (
	cfgFile   string
	storeFlag string
	dbPath    string
	logLevel  string

	// application is opened per command and closed by closeApp
	application *app.App
)

var rootCmd = &cobra.Command{
	Use:   "walletctl",
	Short: "Paper-trade cryptocurrencies with a virtual cash balance",
	Long: `walletctl manages a simulated crypto wallet.

It starts with a virtual cash balance, buys and sells coins at the live
Coinranking price and keeps the wallet in a local store so it survives
restarts. No real money is involved.

Examples:
  walletctl balance
  walletctl buy BTC 0.25
  walletctl sell ethereum 1
  walletctl history --limit 10
  walletctl serve`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "YAML config file (overrides CONFIG_FILE)")
	rootCmd.PersistentFlags().StringVar(&storeFlag, "store", "", "store driver: sqlite, postgres or memory")
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "path to the SQLite wallet DB")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (default from LOG_LEVEL or warn)")
}

// loadConfig resolves configuration with command-line flags taking precedence
func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		if err := os.Setenv("CONFIG_FILE", cfgFile); err != nil {
			return nil, err
		}
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if storeFlag != "" {
		cfg.StoreDriver = storeFlag
	}
	if dbPath != "" {
		cfg.DatabasePath = dbPath
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	} else if os.Getenv("LOG_LEVEL") == "" {
		// keep command output readable
		cfg.LogLevel = "warn"
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// openApp wires the store and services; callers defer closeApp
func openApp(ctx context.Context) (*app.App, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	a, err := app.New(ctx, cfg, logger.New(cfg.LogLevel, true), nil)
	if err != nil {
		return nil, fmt.Errorf("open wallet: %w", err)
	}
	application = a
	return a, nil
}

func closeApp() {
	if application != nil {
		_ = application.Close()
		application = nil
	}
}
