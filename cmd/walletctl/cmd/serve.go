package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the wallet over gRPC",
	Long: `Start the paperwallet.v1.WalletService gRPC server on GRPC_ADDR.

Clients authenticate with the API_TOKEN, or with an HS256 JWT when
JWT_SECRET is set. The server stops on SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var serveAddr string

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides GRPC_ADDR)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer closeApp()

	if serveAddr != "" {
		a.Config.GRPCAddr = serveAddr
	}
	if err := a.Wallet.Load(ctx); err != nil {
		return fmt.Errorf("load wallet: %w", err)
	}

	srv := a.NewGRPCServer()
	errc := make(chan error, 1)
	go func() {
		a.Logger.Warn().Str("addr", a.Config.GRPCAddr).Msg("gRPC server listening")
		errc <- srv.Start()
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	srv.Stop()
	return nil
}
