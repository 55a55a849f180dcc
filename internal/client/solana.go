package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/AlexZinkM/devnet-wallet/internal/logger"
	"github.com/AlexZinkM/devnet-wallet/internal/model"
	"github.com/AlexZinkM/devnet-wallet/internal/transfer"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/jsonrpc"
	"go.uber.org/zap"
)

const (
	opGetBalance     = "getBalance"
	opLatestBlock    = "getLatestBlockhash"
	opRequestAirdrop = "requestAirdrop"
	opSendTx         = "sendTransaction"
)

// Options configures SolanaClient
type Options struct {
	RPCURL     string
	Commitment rpc.CommitmentType
	RateLimit  int // requests per second, 0 = unlimited
}

// SolanaClient is a client for working with Solana RPC.
// One instance is shared by all wallet operations.
type SolanaClient struct {
	rpcClient  *rpc.Client
	rpcURL     string
	commitment rpc.CommitmentType
	log        *zap.Logger
}

// NewSolanaClient creates a new Solana client for the given endpoint
func NewSolanaClient(opts Options, log *zap.Logger) (*SolanaClient, error) {
	if opts.RPCURL == "" {
		return nil, errors.New("rpc url is empty")
	}
	if opts.Commitment == "" {
		opts.Commitment = rpc.CommitmentConfirmed
	}

	var rpcClient *rpc.Client
	if opts.RateLimit > 0 {
		rpcClient = rpc.NewWithCustomRPCClient(rpc.NewWithRateLimit(opts.RPCURL, opts.RateLimit))
	} else {
		rpcClient = rpc.New(opts.RPCURL)
	}

	return &SolanaClient{
		rpcClient:  rpcClient,
		rpcURL:     opts.RPCURL,
		commitment: opts.Commitment,
		log:        logger.OrNop(log).Named("rpc").With(zap.String("endpoint", opts.RPCURL)),
	}, nil
}

// Close releases idle HTTP connections
func (c *SolanaClient) Close() error {
	return c.rpcClient.Close()
}

// GetBalance gets balance in lamports
func (c *SolanaClient) GetBalance(ctx context.Context, owner solana.PublicKey) (uint64, error) {
	balance, err := c.rpcClient.GetBalance(ctx, owner, c.commitment)
	if err != nil {
		return 0, c.classify(opGetBalance, err)
	}
	if balance == nil {
		return 0, &model.NetworkError{Op: opGetBalance, Err: errors.New("empty response")}
	}
	c.log.Debug("balance fetched", zap.Stringer("address", owner), zap.Uint64("lamports", balance.Value))
	return balance.Value, nil
}

// GetLatestAnchor gets the latest blockhash to sign a transaction against
func (c *SolanaClient) GetLatestAnchor(ctx context.Context) (transfer.Anchor, error) {
	// GetRecentBlockhash is deprecated, use GetLatestBlockhash
	recent, err := c.rpcClient.GetLatestBlockhash(ctx, c.commitment)
	if err != nil {
		return transfer.Anchor{}, c.classify(opLatestBlock, err)
	}
	if recent == nil || recent.Value == nil {
		return transfer.Anchor{}, &model.NetworkError{Op: opLatestBlock, Err: errors.New("empty response")}
	}
	c.log.Debug("blockhash fetched",
		zap.Stringer("blockhash", recent.Value.Blockhash),
		zap.Uint64("last_valid_block_height", recent.Value.LastValidBlockHeight),
	)
	return transfer.Anchor{
		Blockhash:            recent.Value.Blockhash,
		LastValidBlockHeight: recent.Value.LastValidBlockHeight,
	}, nil
}

// RequestAirdrop asks the devnet faucet to credit lamports to owner
func (c *SolanaClient) RequestAirdrop(ctx context.Context, owner solana.PublicKey, lamports uint64) (solana.Signature, error) {
	sig, err := c.rpcClient.RequestAirdrop(ctx, owner, lamports, c.commitment)
	if err != nil {
		return solana.Signature{}, c.classify(opRequestAirdrop, err)
	}
	return sig, nil
}

// SendTransaction submits a signed transaction with preflight simulation
func (c *SolanaClient) SendTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	sig, err := c.rpcClient.SendTransactionWithOpts(
		ctx,
		tx,
		rpc.TransactionOpts{
			SkipPreflight:       false, // Transaction validation before node
			PreflightCommitment: c.commitment,
		},
	)
	if err != nil {
		return solana.Signature{}, c.classify(opSendTx, err)
	}
	return sig, nil
}

// classify maps RPC failures to the wallet error taxonomy
func (c *SolanaClient) classify(op string, err error) error {
	classified := ClassifyError(op, err)
	c.log.Debug("rpc call failed", zap.String("op", op), zap.Error(err))
	return classified
}

// ClassifyError maps an RPC error to RateLimitError, SubmissionError or NetworkError.
// Context cancellation is returned unchanged.
func ClassifyError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	if isRateLimitError(err) {
		return &model.RateLimitError{Op: op, Err: err}
	}

	var rpcErr *jsonrpc.RPCError
	if errors.As(err, &rpcErr) {
		if op == opSendTx {
			return &model.SubmissionError{
				Message:     rpcErr.Message,
				Diagnostics: logsFromData(rpcErr.Data),
				Err:         err,
			}
		}
		return &model.NetworkError{Op: op, Err: fmt.Errorf("rpc error %d: %s", rpcErr.Code, rpcErr.Message)}
	}

	return &model.NetworkError{Op: op, Err: err}
}

// isRateLimitError checks for HTTP 429 or a "too many requests" message
func isRateLimitError(err error) bool {
	var httpErr *jsonrpc.HTTPError
	if errors.As(err, &httpErr) && httpErr.Code == http.StatusTooManyRequests {
		return true
	}

	var rpcErr *jsonrpc.RPCError
	if errors.As(err, &rpcErr) {
		if rpcErr.Code == http.StatusTooManyRequests {
			return true
		}
		return strings.Contains(strings.ToLower(rpcErr.Message), "too many requests")
	}

	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "too many requests") ||
		strings.Contains(errStr, "status code: 429")
}

// logsFromData extracts preflight program logs from RPC error data
func logsFromData(data interface{}) []string {
	m, ok := data.(map[string]interface{})
	if !ok {
		return nil
	}
	raw, ok := m["logs"].([]interface{})
	if !ok {
		return nil
	}

	logs := make([]string, 0, len(raw))
	for _, entry := range raw {
		if s, ok := entry.(string); ok {
			logs = append(logs, s)
		}
	}
	return logs
}
