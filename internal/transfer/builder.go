package transfer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/AlexZinkM/devnet-wallet/internal/common"
	"github.com/AlexZinkM/devnet-wallet/internal/crypto"
	"github.com/AlexZinkM/devnet-wallet/internal/model"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/shopspring/decimal"
)

// DefaultFeeLamports is the base fee for a single-signature transaction (0.000005 SOL)
const DefaultFeeLamports = 5000

// ErrNoAnchor is returned when Build is called without a blockhash
var ErrNoAnchor = errors.New("missing recent blockhash")

// Intent describes a SOL transfer before it is bound to a blockhash
type Intent struct {
	From       string            // sender address (base58)
	PrivateKey solana.PrivateKey // 64-byte sender key, caller should zero it after use
	To         string            // recipient address, surrounding whitespace is ignored
	Amount     decimal.Decimal   // SOL
}

// Anchor is the recent blockhash a transaction is signed against.
// It expires once the chain passes LastValidBlockHeight.
type Anchor struct {
	Blockhash            solana.Hash
	LastValidBlockHeight uint64
}

// SignedTransaction is a transfer signed against one Anchor.
// Rebuild it to use a newer blockhash.
type SignedTransaction struct {
	From      solana.PublicKey
	To        solana.PublicKey
	Lamports  uint64
	Anchor    Anchor
	Tx        *solana.Transaction
	Signature solana.Signature
}

// ValidateRecipient trims and decodes a recipient address
func ValidateRecipient(address string) (solana.PublicKey, error) {
	trimmed := strings.TrimSpace(address)
	pubkey, err := solana.PublicKeyFromBase58(trimmed)
	if err != nil {
		return solana.PublicKey{}, &model.ValidationError{Kind: model.InvalidAddress, Value: address, Err: err}
	}
	return pubkey, nil
}

// ValidateAmount converts a positive SOL amount to lamports
func ValidateAmount(amount decimal.Decimal) (uint64, error) {
	lamports, err := common.ToLamports(amount)
	if err != nil {
		return 0, &model.ValidationError{Kind: model.InvalidAmount, Value: amount.String(), Err: err}
	}
	return lamports, nil
}

// Build validates intent and returns a system transfer signed by the sender.
// It does not touch the network.
func Build(intent Intent, anchor Anchor) (*SignedTransaction, error) {
	toPubkey, err := ValidateRecipient(intent.To)
	if err != nil {
		return nil, err
	}

	lamports, err := ValidateAmount(intent.Amount)
	if err != nil {
		return nil, err
	}

	if anchor.Blockhash == (solana.Hash{}) {
		return nil, ErrNoAnchor
	}

	fromPubkey, err := crypto.VerifyAddress(intent.PrivateKey, intent.From)
	if err != nil {
		return nil, fmt.Errorf("invalid sender key: %w", err)
	}

	transferInstruction := system.NewTransferInstruction(
		lamports,
		fromPubkey,
		toPubkey,
	).Build()

	tx, err := solana.NewTransaction(
		[]solana.Instruction{transferInstruction},
		anchor.Blockhash,
		solana.TransactionPayer(fromPubkey),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	wallet := intent.PrivateKey
	_, err = tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if fromPubkey.Equals(key) {
			return &wallet
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}

	return &SignedTransaction{
		From:      fromPubkey,
		To:        toPubkey,
		Lamports:  lamports,
		Anchor:    anchor,
		Tx:        tx,
		Signature: tx.Signatures[0],
	}, nil
}
