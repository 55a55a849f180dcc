package main

import (
	"github.com/spf13/cobra"
)

const (
	demoRecipient = "5vxsN5T7YfByi8E8yp5wB5HJ1xcwzYKHyq41utZvaaP5"
	demoFund      = "2"
	demoTransfer  = "1"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run create, fund, balance and transfer in sequence",
	Long: `Runs create, fund 2, balance and transfer 1 SOL to a fixed devnet address.
Each step reports its own result and the next step runs regardless.
An existing wallet is reused. The command always exits 0.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		runCreate(ctx, false)
		runFund(ctx, demoFund)
		runBalance(ctx)
		runTransfer(ctx, demoRecipient, demoTransfer)
	},
}
