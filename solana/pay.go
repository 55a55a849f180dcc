package solana

import (
	"context"
	"fmt"

	"github.com/AlexZinkM/devnet-wallet/internal/common"
	"github.com/AlexZinkM/devnet-wallet/internal/model"
	"github.com/AlexZinkM/devnet-wallet/internal/transfer"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Transfer sends amount SOL from the stored wallet to toAddress and returns the signature.
// Submission is attempted once; a rejected transaction is not retried.
func (s *Service) Transfer(ctx context.Context, toAddress string, amount decimal.Decimal) (*model.PayResponse, error) {
	// Validate input before touching the file or the network
	if _, err := transfer.ValidateRecipient(toAddress); err != nil {
		return nil, err
	}
	lamports, err := transfer.ValidateAmount(amount)
	if err != nil {
		return nil, err
	}

	record, err := s.store.Load()
	if err != nil {
		return nil, err
	}
	// Always clear private key from memory
	defer clear(record.PrivateKey)

	fromPubkey, err := solana.PublicKeyFromBase58(record.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("invalid wallet address: %w", err)
	}

	// Check SOL sufficiency (amount + fee)
	balance, err := s.ledger.GetBalance(ctx, fromPubkey)
	if err != nil {
		return nil, fmt.Errorf("failed to check balance: %w", err)
	}
	if err := checkSufficient(balance, lamports); err != nil {
		return nil, err
	}

	anchor, err := s.ledger.GetLatestAnchor(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent blockhash: %w", err)
	}

	signed, err := transfer.Build(transfer.Intent{
		From:       record.PublicKey,
		PrivateKey: solana.PrivateKey(record.PrivateKey),
		To:         toAddress,
		Amount:     amount,
	}, anchor)
	if err != nil {
		return nil, err
	}

	sig, err := s.ledger.SendTransaction(ctx, signed.Tx)
	if err != nil {
		return nil, fmt.Errorf("failed to send transaction: %w", err)
	}

	s.log.Info("transfer submitted",
		zap.String("from", record.PublicKey),
		zap.String("to", signed.To.String()),
		zap.Uint64("lamports", signed.Lamports),
		zap.Stringer("blockhash", anchor.Blockhash),
		zap.Stringer("signature", sig),
	)

	return &model.PayResponse{
		TxID: sig.String(),
	}, nil
}

func checkSufficient(balance, lamports uint64) error {
	required := lamports + transfer.DefaultFeeLamports
	if required >= lamports && balance >= required {
		return nil
	}

	// Calculate max amount user can send
	var maxLamports uint64
	if balance > transfer.DefaultFeeLamports {
		maxLamports = balance - transfer.DefaultFeeLamports
	}
	return &model.ValidationError{
		Kind: model.InsufficientFunds,
		Value: fmt.Sprintf("Transaction fee: %s SOL. Max you can send: %s SOL",
			common.LamportsToSOL(transfer.DefaultFeeLamports), common.LamportsToSOL(maxLamports)),
	}
}
