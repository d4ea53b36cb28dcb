package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/simaogato/paperwallet-backend/internal/domain"
	"github.com/simaogato/paperwallet-backend/internal/usecase/wallet"
)

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Show the virtual cash balance",
	Args:  cobra.NoArgs,
	RunE:  runBalance,
}

var buyCmd = &cobra.Command{
	Use:   "buy <coin> <quantity>",
	Short: "Buy a coin at its current price",
	Long: `Buy quantity units of a coin at the current catalog price.

The coin may be given by symbol (BTC), name (Bitcoin) or catalog id.`,
	Args: cobra.ExactArgs(2),
	RunE: runTrade(domain.TransactionTypeBuy),
}

var sellCmd = &cobra.Command{
	Use:   "sell <coin> <quantity>",
	Short: "Sell a coin at its current price",
	Args:  cobra.ExactArgs(2),
	RunE:  runTrade(domain.TransactionTypeSell),
}

var holdingsCmd = &cobra.Command{
	Use:   "holdings",
	Short: "List the coins currently owned",
	Args:  cobra.NoArgs,
	RunE:  runHoldings,
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past trades, newest first",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Discard all trades and restore the initial balance",
	Args:  cobra.NoArgs,
	RunE:  runReset,
}

var (
	historyLimit  int
	historyOffset int
	resetConfirm  bool
)

func init() {
	rootCmd.AddCommand(balanceCmd)
	rootCmd.AddCommand(buyCmd)
	rootCmd.AddCommand(sellCmd)
	rootCmd.AddCommand(holdingsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(resetCmd)

	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of trades to show (0 for all)")
	historyCmd.Flags().IntVar(&historyOffset, "offset", 0, "number of trades to skip")
	resetCmd.Flags().BoolVarP(&resetConfirm, "yes", "y", false, "confirm the reset")
}

func runBalance(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer closeApp()

	balance, err := a.Wallet.Balance(cmd.Context())
	if err != nil {
		return fmt.Errorf("balance: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Balance: %s\n", formatMoney(balance, a.Config.Currency))
	return nil
}

func runTrade(txType domain.TransactionType) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		quantity, err := decimal.NewFromString(args[1])
		if err != nil {
			return fmt.Errorf("invalid quantity %q: %w", args[1], err)
		}

		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer closeApp()

		var result *wallet.TradeResult
		switch txType {
		case domain.TransactionTypeBuy:
			result, err = a.Wallet.Buy(cmd.Context(), args[0], quantity)
		default:
			result, err = a.Wallet.Sell(cmd.Context(), args[0], quantity)
		}
		if err != nil && result == nil {
			return fmt.Errorf("%s: %w", txType, err)
		}

		tx := result.Transaction
		out := cmd.OutOrStdout()
		verb := "Bought"
		if tx.Type == domain.TransactionTypeSell {
			verb = "Sold"
		}
		fmt.Fprintf(out, "%s %s %s @ %s (%s)\n", verb, tx.Quantity, tx.Coin,
			formatMoney(tx.Price, a.Config.Currency), formatMoney(tx.Amount(), a.Config.Currency))
		fmt.Fprintf(out, "Balance: %s\n", formatMoney(result.Balance, a.Config.Currency))

		// the trade stands even if it could not be saved
		return err
	}
}

func runHoldings(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer closeApp()

	holdings, err := a.Wallet.Holdings(cmd.Context())
	if err != nil {
		return fmt.Errorf("holdings: %w", err)
	}

	if len(holdings) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No holdings")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "COIN\tQUANTITY\tFIRST PRICE")
	for _, h := range holdings {
		fmt.Fprintf(w, "%s\t%s\t%s\n", h.Coin, h.NetQuantity, formatMoney(h.ReferencePrice, a.Config.Currency))
	}
	return w.Flush()
}

func runHistory(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer closeApp()

	page, err := a.Wallet.Transactions(cmd.Context(), wallet.TransactionQuery{
		Limit:       historyLimit,
		Offset:      historyOffset,
		NewestFirst: true,
	})
	if err != nil {
		return fmt.Errorf("history: %w", err)
	}

	if page.Total == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No trades yet")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tTYPE\tCOIN\tQUANTITY\tPRICE\tAMOUNT")
	for _, tx := range page.Transactions {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			formatWhen(tx.Timestamp), tx.Type, tx.Coin, tx.Quantity,
			formatMoney(tx.Price, a.Config.Currency), formatMoney(tx.Amount(), a.Config.Currency))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%d of %d trades\n", len(page.Transactions), page.Total)
	return nil
}

func runReset(cmd *cobra.Command, args []string) error {
	if !resetConfirm {
		return fmt.Errorf("reset discards every trade; rerun with --yes to confirm")
	}

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer closeApp()

	if err := a.Wallet.Reset(cmd.Context()); err != nil {
		return fmt.Errorf("reset: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wallet reset to %s\n", formatMoney(a.Config.InitialBalance, a.Config.Currency))
	return nil
}
