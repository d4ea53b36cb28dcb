package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var coinsCmd = &cobra.Command{
	Use:   "coins",
	Short: "List coins with their current prices",
	Args:  cobra.NoArgs,
	RunE:  runCoins,
}

var valueCmd = &cobra.Command{
	Use:   "value",
	Short: "Value the wallet at current prices",
	Args:  cobra.NoArgs,
	RunE:  runValue,
}

var coinsLimit int

func init() {
	rootCmd.AddCommand(coinsCmd)
	rootCmd.AddCommand(valueCmd)

	coinsCmd.Flags().IntVarP(&coinsLimit, "limit", "n", 20, "number of coins to show (0 for all)")
}

func runCoins(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer closeApp()

	coins, err := a.Prices.ListCoins(cmd.Context())
	if err != nil {
		return fmt.Errorf("list coins: %w", err)
	}
	if coinsLimit > 0 && len(coins) > coinsLimit {
		coins = coins[:coinsLimit]
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tSYMBOL\tNAME\tPRICE\t24H\tMARKET CAP")
	for _, c := range coins {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s%%\t%s\n",
			c.Rank, c.Symbol, c.Name, formatMoney(c.Price, a.Config.Currency),
			c.Change.StringFixed(2), formatCompact(c.MarketCap))
	}
	return w.Flush()
}

func runValue(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer closeApp()

	value, err := a.Board.GetPortfolioValue(cmd.Context())
	if err != nil {
		return fmt.Errorf("portfolio value: %w", err)
	}

	cur := a.Config.Currency
	out := cmd.OutOrStdout()

	if len(value.Holdings) > 0 {
		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "COIN\tQUANTITY\tPRICE\tVALUE\t")
		for _, h := range value.Holdings {
			stale := ""
			if h.Stale {
				stale = "(no live price)"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				h.Coin, h.NetQuantity, formatMoney(h.Price, cur), formatMoney(h.MarketValue, cur), stale)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Fprintln(out)
	}

	fmt.Fprintf(out, "Cash:     %s\n", formatMoney(value.CashBalance, cur))
	fmt.Fprintf(out, "Holdings: %s\n", formatMoney(value.HoldingsValue, cur))
	fmt.Fprintf(out, "Total:    %s\n", formatMoney(value.Total, cur))
	fmt.Fprintf(out, "Profit:   %s\n", formatSignedMoney(value.Profit, cur))
	return nil
}
