package solana

import (
	"context"

	"github.com/AlexZinkM/devnet-wallet/internal/keystore"
	"github.com/AlexZinkM/devnet-wallet/internal/logger"
	"github.com/AlexZinkM/devnet-wallet/internal/retry"
	"github.com/AlexZinkM/devnet-wallet/internal/transfer"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
)

const networkSolana = "solana-devnet"

// Ledger is the subset of the RPC node the wallet talks to.
// *client.SolanaClient implements it.
type Ledger interface {
	GetBalance(ctx context.Context, owner solana.PublicKey) (uint64, error)
	GetLatestAnchor(ctx context.Context) (transfer.Anchor, error)
	RequestAirdrop(ctx context.Context, owner solana.PublicKey, lamports uint64) (solana.Signature, error)
	SendTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error)
}

// Service runs wallet operations against one key store and one ledger connection
type Service struct {
	store         *keystore.KeyStore
	ledger        Ledger
	airdropPolicy retry.Policy
	retryOpts     []retry.Option
	log           *zap.Logger
}

// Option configures a Service
type Option func(*Service)

// WithAirdropPolicy overrides the airdrop retry policy
func WithAirdropPolicy(p retry.Policy) Option {
	return func(s *Service) { s.airdropPolicy = p }
}

// WithRetryOptions passes extra options to every retry loop
func WithRetryOptions(opts ...retry.Option) Option {
	return func(s *Service) { s.retryOpts = append(s.retryOpts, opts...) }
}

// NewService creates a Service. The ledger is owned by the caller and shared by all operations.
func NewService(store *keystore.KeyStore, ledger Ledger, log *zap.Logger, opts ...Option) *Service {
	s := &Service{
		store:         store,
		ledger:        ledger,
		airdropPolicy: retry.DefaultPolicy(),
		log:           logger.OrNop(log).Named("wallet"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WalletPath returns the location of the wallet record
func (s *Service) WalletPath() string {
	return s.store.Path()
}
