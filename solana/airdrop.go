package solana

import (
	"context"
	"fmt"

	"github.com/AlexZinkM/devnet-wallet/internal/common"
	"github.com/AlexZinkM/devnet-wallet/internal/model"
	"github.com/AlexZinkM/devnet-wallet/internal/retry"
	"github.com/AlexZinkM/devnet-wallet/internal/transfer"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DefaultFundAmount is requested when fund is called without an amount
var DefaultFundAmount = decimal.NewFromInt(1)

// Fund requests a devnet airdrop of amount SOL to the stored wallet.
// Rate limited requests are retried with exponential backoff; other failures are returned at once.
func (s *Service) Fund(ctx context.Context, amount decimal.Decimal) (*model.FundResponse, error) {
	record, err := s.store.Load()
	if err != nil {
		return nil, err
	}
	clear(record.PrivateKey)

	lamports, err := transfer.ValidateAmount(amount)
	if err != nil {
		return nil, err
	}

	owner, err := solana.PublicKeyFromBase58(record.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("invalid wallet address: %w", err)
	}

	opts := append([]retry.Option{
		retry.WithName("airdrop"),
		retry.WithLogger(s.log),
	}, s.retryOpts...)

	sig, attempts, err := retry.Do(ctx, s.airdropPolicy, func(ctx context.Context) (solana.Signature, error) {
		return s.ledger.RequestAirdrop(ctx, owner, lamports)
	}, model.IsRateLimited, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to request airdrop after %d attempt(s): %w", attempts, err)
	}

	s.log.Info("airdrop requested",
		zap.String("address", record.PublicKey),
		zap.Uint64("lamports", lamports),
		zap.Int("attempts", attempts),
		zap.Stringer("signature", sig),
	)

	return &model.FundResponse{
		Address:   record.PublicKey,
		Amount:    common.LamportsToSOL(lamports),
		Signature: sig.String(),
		Attempts:  attempts,
	}, nil
}
