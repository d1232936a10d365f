package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/vitos/xau_money_management/internal/config"
	"github.com/vitos/xau_money_management/internal/usecase"
)

// NewRootCmd builds the mmctl command tree.
func NewRootCmd() *cobra.Command {
	var cfgFile string

	root := &cobra.Command{
		Use:   "mmctl",
		Short: "Inspect the XAUUSD money-management level table",
		Long: `mmctl evaluates the money-management engine offline.

It resolves the tier for a balance, shows progress toward the next level
and the daily target, and reports whether the daily target stops trading.
The level table comes from the same YAML config the server uses.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "config/config.yaml", "config file")

	manager := func() (*usecase.MoneyManager, error) {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return nil, err
		}
		table, err := cfg.MoneyManagement.Table()
		if err != nil {
			return nil, err
		}
		return usecase.NewMoneyManager(table, cfg.MoneyManagement.Currency), nil
	}

	root.AddCommand(
		newLevelsCmd(manager),
		newTierCmd(manager),
		newProgressCmd(manager),
		newGateCmd(manager),
	)
	return root
}

// Execute runs the CLI.
func Execute() error {
	return NewRootCmd().Execute()
}

type managerFunc func() (*usecase.MoneyManager, error)

func parseAmount(name, raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s %q is not a number", name, raw)
	}
	return v, nil
}
