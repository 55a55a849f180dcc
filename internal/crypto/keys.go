package crypto

import (
	"bytes"
	"crypto/ed25519"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// ErrKeyMismatch is returned when stored key halves do not belong together
var ErrKeyMismatch = errors.New("private key does not match address")

// NewPrivateKey generates a fresh 64-byte Solana private key from crypto/rand
func NewPrivateKey() (solana.PrivateKey, error) {
	key, err := solana.NewRandomPrivateKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate private key: %w", err)
	}
	return key, nil
}

// DerivePublicKey derives the address from the seed half of a 64-byte key.
// The public half stored in the key must match the derivation.
func DerivePublicKey(privateKey []byte) (solana.PublicKey, error) {
	if len(privateKey) != ed25519.PrivateKeySize {
		return solana.PublicKey{}, fmt.Errorf("invalid private key length: expected %d bytes, got %d",
			ed25519.PrivateKeySize, len(privateKey))
	}

	derived := ed25519.NewKeyFromSeed(privateKey[:ed25519.SeedSize])
	defer clear(derived)

	if !bytes.Equal(derived, privateKey) {
		return solana.PublicKey{}, ErrKeyMismatch
	}
	return solana.PublicKeyFromBytes(derived[ed25519.SeedSize:]), nil
}

// VerifyAddress checks that address is the derivation of privateKey
func VerifyAddress(privateKey []byte, address string) (solana.PublicKey, error) {
	derived, err := DerivePublicKey(privateKey)
	if err != nil {
		return solana.PublicKey{}, err
	}

	stored, err := solana.PublicKeyFromBase58(address)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("invalid address: %w", err)
	}

	if !derived.Equals(stored) {
		return solana.PublicKey{}, ErrKeyMismatch
	}
	return derived, nil
}
