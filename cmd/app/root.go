package main

import (
	"fmt"

	"StockPulse/pkg/config"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "stockpulse",
	Short: "Next-day stock direction predictions and market sentiment",
	Long: `StockPulse trains a random forest on daily price history to predict
whether a symbol closes higher tomorrow, and serves the result together
with historical prices, news sentiment and a watchlist over HTTP.`,
	Version:      "1.0.0",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/config.yaml", "config file path")
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("config load failed: %w", err)
	}
	return cfg, nil
}
