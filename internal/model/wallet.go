package model

import (
	"encoding/json"
	"fmt"
)

// WalletRecord represents wallet.json structure
type WalletRecord struct {
	PrivateKey KeyBytes `json:"privateKey"` // 64 bytes: ed25519 seed || public key
	PublicKey  string   `json:"publicKey"`  // base58 address
	Balance    uint64   `json:"balance"`    // advisory, not refreshed from the ledger
}

// KeyBytes is a byte slice stored as a JSON array of numbers ([12, 250, ...])
// instead of the base64 string encoding/json uses for []byte.
type KeyBytes []byte

// MarshalJSON implements json.Marshaler
func (k KeyBytes) MarshalJSON() ([]byte, error) {
	ints := make([]int, len(k))
	for i, b := range k {
		ints[i] = int(b)
	}
	return json.Marshal(ints)
}

// UnmarshalJSON implements json.Unmarshaler
func (k *KeyBytes) UnmarshalJSON(data []byte) error {
	var ints []int
	if err := json.Unmarshal(data, &ints); err != nil {
		return err
	}
	out := make([]byte, len(ints))
	for i, v := range ints {
		if v < 0 || v > 255 {
			return fmt.Errorf("byte %d out of range: %d", i, v)
		}
		out[i] = byte(v)
	}
	*k = out
	return nil
}

// CWTFile represents encrypted .cwt backup file structure
type CWTFile struct {
	Network    string `json:"network"`
	Address    string `json:"address"`
	QR         string `json:"QR"`
	Salt       string `json:"salt"`
	Nonce      string `json:"nonce"`
	CipherText string `json:"cipherText"`
}

// WalletData represents decrypted backup payload
type WalletData struct {
	PrivateKey []byte `json:"privateKey"` // 64 bytes (stored as base64 in JSON)
	CreatedAt  string `json:"createdAt"`
}
