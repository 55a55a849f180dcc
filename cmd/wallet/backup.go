package main

import (
	"context"
	"fmt"
	"os"

	"github.com/AlexZinkM/devnet-wallet/internal/config"
	"github.com/AlexZinkM/devnet-wallet/internal/model"

	"github.com/spf13/cobra"
)

var (
	restoreForce bool
	qrPNGPath    string
	qrPNGSize    int
)

var backupCmd = &cobra.Command{
	Use:     "backup <file.cwt>",
	Short:   "Write a password-encrypted copy of the wallet",
	Example: `  WALLET_BACKUP_PASSWORD=secret wallet backup wallet.cwt`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		outcome := report(cmd.Context(), model.OperationBackup, func(ctx context.Context) (string, error) {
			password, err := config.Get().ReadPassword("Backup password: ")
			if err != nil {
				return "", err
			}
			defer clear(password) // Always clear password from memory

			address, err := service.Backup(ctx, args[0], password)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Wallet %s backed up to %s", address, args[0]), nil
		})
		return exitStatus(outcome)
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore <file.cwt>",
	Short: "Restore wallet.json from an encrypted backup",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		outcome := report(cmd.Context(), model.OperationRestore, func(ctx context.Context) (string, error) {
			password, err := config.Get().ReadPassword("Backup password: ")
			if err != nil {
				return "", err
			}
			defer clear(password)

			address, err := service.Restore(ctx, args[0], password, restoreForce)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Wallet %s restored to %s", address, service.WalletPath()), nil
		})
		return exitStatus(outcome)
	},
}

var qrCmd = &cobra.Command{
	Use:   "qr",
	Short: "Show the wallet address as a QR code",
	Example: `  wallet qr
  wallet qr --png address.png`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if qrPNGPath == "" {
			qr, err := service.AddressQR()
			if err != nil {
				return err
			}
			fmt.Print(qr)
			return nil
		}

		png, err := service.AddressQRPNG(qrPNGSize)
		if err != nil {
			return err
		}
		if err := os.WriteFile(qrPNGPath, png, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", qrPNGPath, err)
		}
		fmt.Printf("QR code written to %s\n", qrPNGPath)
		return nil
	},
}

func init() {
	restoreCmd.Flags().BoolVarP(&restoreForce, "force", "f", false, "Replace an existing wallet file")
	qrCmd.Flags().StringVar(&qrPNGPath, "png", "", "Write a PNG image instead of printing to the terminal")
	qrCmd.Flags().IntVar(&qrPNGSize, "size", 256, "PNG size in pixels")
}
