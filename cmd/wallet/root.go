package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/AlexZinkM/devnet-wallet/internal/client"
	"github.com/AlexZinkM/devnet-wallet/internal/config"
	"github.com/AlexZinkM/devnet-wallet/internal/keystore"
	"github.com/AlexZinkM/devnet-wallet/internal/logger"
	"github.com/AlexZinkM/devnet-wallet/internal/model"
	"github.com/AlexZinkM/devnet-wallet/internal/retry"
	"github.com/AlexZinkM/devnet-wallet/solana"

	"github.com/gagliardetto/solana-go/rpc"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// errOperationFailed is returned after the failure line has been printed
var errOperationFailed = errors.New("operation failed")

var (
	log     *zap.Logger
	ledger  *client.SolanaClient
	service *solana.Service
)

var rootCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Solana devnet wallet",
	Long: `A minimal wallet for one keypair-controlled Solana devnet account.
The keypair is stored in wallet.json (WALLET_FILE_PATH) in plain JSON.
Never use it for real funds.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// setup loads config and wires the single ledger connection shared by every operation
func setup(cmd *cobra.Command, args []string) error {
	if err := config.Init(); err != nil {
		return err
	}
	cfg := config.Get()

	var err error
	log, err = logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}

	ledger, err = client.NewSolanaClient(client.Options{
		RPCURL:     cfg.SolanaRPCURL,
		Commitment: rpc.CommitmentType(cfg.SolanaCommitment),
		RateLimit:  cfg.RPCRateLimit,
	}, log)
	if err != nil {
		return err
	}

	store := keystore.New(cfg.WalletFilePath, log)
	service = solana.NewService(store, ledger, log, solana.WithAirdropPolicy(retry.Policy{
		MaxAttempts: cfg.AirdropMaxAttempts,
		BaseDelay:   cfg.AirdropBaseDelay(),
		MaxDelay:    cfg.AirdropMaxDelay(),
	}))
	return nil
}

// teardown releases what setup opened, it is safe to call when setup failed
func teardown() {
	if ledger != nil {
		if err := ledger.Close(); err != nil {
			log.Debug("failed to close ledger client", zap.Error(err))
		}
		ledger = nil
	}
	if log != nil {
		_ = log.Sync()
	}
}

// report runs fn through the service and prints its outcome line
func report(ctx context.Context, op model.Operation, fn func(ctx context.Context) (string, error)) model.Outcome {
	outcome := service.Report(ctx, op, fn)
	if outcome.OK {
		fmt.Fprintln(os.Stdout, outcome.String())
		return outcome
	}

	fmt.Fprintln(os.Stderr, outcome.String())
	for _, line := range outcome.Diagnostics {
		fmt.Fprintln(os.Stderr, "  "+line)
	}
	return outcome
}

// exitStatus turns a failed outcome into a non-zero exit
func exitStatus(outcome model.Outcome) error {
	if outcome.OK {
		return nil
	}
	return errOperationFailed
}

func init() {
	rootCmd.AddCommand(createCmd, fundCmd, balanceCmd, transferCmd, demoCmd, backupCmd, restoreCmd, qrCmd, serveCmd)
}
