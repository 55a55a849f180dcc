package solana

import (
	"context"
	"fmt"

	"github.com/AlexZinkM/devnet-wallet/internal/common"
	"github.com/AlexZinkM/devnet-wallet/internal/model"

	"github.com/gagliardetto/solana-go"
)

// CheckBalance gets the wallet balance from the ledger.
// The balance field of the wallet record is not touched.
func (s *Service) CheckBalance(ctx context.Context) (*model.BalanceResponse, error) {
	address, err := s.Address()
	if err != nil {
		return nil, err
	}

	owner, err := solana.PublicKeyFromBase58(address)
	if err != nil {
		return nil, fmt.Errorf("invalid wallet address: %w", err)
	}

	lamports, err := s.ledger.GetBalance(ctx, owner)
	if err != nil {
		return nil, err
	}

	return &model.BalanceResponse{
		Address:  address,
		Lamports: lamports,
		SOL:      common.LamportsToSOL(lamports),
	}, nil
}
