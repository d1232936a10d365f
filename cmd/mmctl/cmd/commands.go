package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/vitos/xau_money_management/internal/usecase"
)

func newLevelsCmd(manager managerFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "levels",
		Short: "Print the level table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mm, err := manager()
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintln(w, "LEVEL\tTHRESHOLD\tLOT\tDAILY\tWEEKLY\tMONTHLY\t")
			for _, t := range mm.Table().Tiers() {
				fmt.Fprintf(w, "%d\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t\n",
					t.Level, t.BalanceThreshold, t.LotSize, t.DailyTarget, t.WeeklyTarget, t.MonthlyTarget)
			}
			return w.Flush()
		},
	}
}

func newTierCmd(manager managerFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "tier <balance>",
		Short: "Resolve the current and next tier for a balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			balance, err := parseAmount("balance", args[0])
			if err != nil {
				return err
			}
			mm, err := manager()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			cur := mm.CurrentTier(balance)
			fmt.Fprintf(out, "level %d  lot %.2f  daily target %.2f\n", cur.Level, cur.LotSize, cur.DailyTarget)
			if next, ok := mm.NextTier(balance); ok {
				fmt.Fprintf(out, "next level %d at %.2f\n", next.Level, next.BalanceThreshold)
			} else {
				fmt.Fprintln(out, "max level reached")
			}
			return nil
		},
	}
}

func newProgressCmd(manager managerFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "progress <balance> [daily_profit]",
		Short: "Show progress toward the next level and the daily target",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			balance, err := parseAmount("balance", args[0])
			if err != nil {
				return err
			}
			var profit float64
			if len(args) == 2 {
				if profit, err = parseAmount("daily_profit", args[1]); err != nil {
					return err
				}
			}
			mm, err := manager()
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "next level %.1f%%  daily target %.1f%%\n",
				mm.ProgressToNextLevel(balance), mm.DailyTargetProgress(balance, profit))
			return nil
		},
	}
}

func newGateCmd(manager managerFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "gate <balance> <daily_profit>",
		Short: "Check whether the daily target stops trading",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			balance, err := parseAmount("balance", args[0])
			if err != nil {
				return err
			}
			profit, err := parseAmount("daily_profit", args[1])
			if err != nil {
				return err
			}
			mm, err := manager()
			if err != nil {
				return err
			}

			d := mm.ShouldStopTrading(balance, profit)
			if !d.Stop {
				tier := mm.CurrentTier(balance)
				fmt.Fprintf(cmd.OutOrStdout(), "trading allowed: %s of %s\n",
					usecase.FormatCurrency(profit, mm.Currency()), usecase.FormatCurrency(tier.DailyTarget, mm.Currency()))
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "STOP: %s\n", *d.Reason)
			return nil
		},
	}
}
