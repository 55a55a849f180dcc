package main

import (
	"context"
	"fmt"

	"github.com/AlexZinkM/devnet-wallet/internal/common"
	"github.com/AlexZinkM/devnet-wallet/internal/model"
	"github.com/AlexZinkM/devnet-wallet/solana"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var createForce bool

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Generate a new keypair and write wallet.json",
	Example: `  wallet create
  wallet create --force`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return exitStatus(runCreate(cmd.Context(), createForce))
	},
}

var fundCmd = &cobra.Command{
	Use:   "fund [amount]",
	Short: "Request a devnet airdrop (default 1 SOL)",
	Example: `  wallet fund
  wallet fund 2`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount := ""
		if len(args) == 1 {
			amount = args[0]
		}
		return exitStatus(runFund(cmd.Context(), amount))
	},
}

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Show the wallet balance",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return exitStatus(runBalance(cmd.Context()))
	},
}

var transferCmd = &cobra.Command{
	Use:     "transfer <address> <amount>",
	Short:   "Send SOL to another address",
	Example: `  wallet transfer 5vxsN5T7YfByi8E8yp5wB5HJ1xcwzYKHyq41utZvaaP5 0.5`,
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return exitStatus(runTransfer(cmd.Context(), args[0], args[1]))
	},
}

func init() {
	createCmd.Flags().BoolVarP(&createForce, "force", "f", false, "Replace an existing wallet file")
}

func runCreate(ctx context.Context, force bool) model.Outcome {
	return report(ctx, model.OperationCreate, func(ctx context.Context) (string, error) {
		resp, err := service.CreateWallet(ctx, force)
		if err != nil {
			return "", err
		}
		if resp.QR != "" {
			fmt.Print(resp.QR)
		}
		return resp.Message, nil
	})
}

func runFund(ctx context.Context, amount string) model.Outcome {
	return report(ctx, model.OperationFund, func(ctx context.Context) (string, error) {
		sol, err := parseAmount(amount)
		if err != nil {
			return "", err
		}
		resp, err := service.Fund(ctx, sol)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Airdrop of %s %s requested: %s", resp.Amount, common.SOLSymbol, resp.Signature), nil
	})
}

func runBalance(ctx context.Context) model.Outcome {
	return report(ctx, model.OperationBalance, func(ctx context.Context) (string, error) {
		resp, err := service.CheckBalance(ctx)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Balance: %s", common.FormatSOL(resp.Lamports)), nil
	})
}

func runTransfer(ctx context.Context, to, amount string) model.Outcome {
	return report(ctx, model.OperationTransfer, func(ctx context.Context) (string, error) {
		sol, err := parseAmount(amount)
		if err != nil {
			return "", err
		}
		resp, err := service.Transfer(ctx, to, sol)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Transfer sent: %s", resp.TxID), nil
	})
}

// parseAmount parses a SOL amount, empty means the default airdrop amount
func parseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return solana.DefaultFundAmount, nil
	}
	d, err := common.ParseSOL(s)
	if err != nil {
		return decimal.Zero, &model.ValidationError{Kind: model.InvalidAmount, Value: s, Err: err}
	}
	return d, nil
}
