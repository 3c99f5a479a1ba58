package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"StockPulse/internal/di"
	"StockPulse/internal/usecase"
	"StockPulse/pkg/util"

	"github.com/spf13/cobra"
)

var (
	predictSymbol  string
	predictPeriod  string
	predictHeldOut bool
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Run one prediction and print it as JSON",
	Example: `  stockpulse predict --symbol AAPL
  stockpulse predict --symbol ^GSPC --period max --held-out`,
	RunE: runPredict,
}

func init() {
	rootCmd.AddCommand(predictCmd)
	predictCmd.Flags().StringVarP(&predictSymbol, "symbol", "s", "", "ticker symbol")
	predictCmd.Flags().StringVar(&predictPeriod, "period", "max", "history period ("+strings.Join(util.Periods, ", ")+")")
	predictCmd.Flags().BoolVar(&predictHeldOut, "held-out", false, "measure precision on the held-out slice only")
	_ = predictCmd.MarkFlagRequired("symbol")
}

func runPredict(cmd *cobra.Command, _ []string) error {
	if !util.ValidPeriod(predictPeriod) {
		return fmt.Errorf("invalid period %q", predictPeriod)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	uc, cleanup, err := di.InitializePredictionUseCase(cfg)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}
	defer cleanup()

	p := usecase.PredictParams{Symbol: predictSymbol, Period: predictPeriod}
	if cmd.Flags().Changed("held-out") {
		p.HeldOut = &predictHeldOut
	}

	res, err := uc.Predict(cmd.Context(), p)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
