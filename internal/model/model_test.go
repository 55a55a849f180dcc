package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyBytesJSON(t *testing.T) {
	data, err := json.Marshal(KeyBytes{0, 1, 255})
	require.NoError(t, err)
	assert.JSONEq(t, `[0,1,255]`, string(data))

	var k KeyBytes
	require.NoError(t, json.Unmarshal([]byte(`[7,8,9]`), &k))
	assert.Equal(t, KeyBytes{7, 8, 9}, k)

	assert.Error(t, json.Unmarshal([]byte(`[-1]`), &k))
	assert.Error(t, json.Unmarshal([]byte(`"AQI="`), &k))
}

func TestErrorClassification(t *testing.T) {
	notFound := fmt.Errorf("failed to load wallet: %w", &StorageError{Kind: StorageNotFound, Path: "wallet.json"})
	assert.True(t, IsNotFound(notFound))
	assert.False(t, IsCorruptRecord(notFound))
	assert.Equal(t, "failed to load wallet: wallet file wallet.json does not exist", notFound.Error())

	badAddr := &ValidationError{Kind: InvalidAddress, Value: "not-an-address"}
	assert.True(t, IsInvalidAddress(badAddr))
	assert.False(t, IsInvalidAmount(badAddr))
	assert.True(t, IsValidation(badAddr))

	cause := errors.New("429 Too Many Requests")
	limited := fmt.Errorf("airdrop: %w", &RateLimitError{Op: "requestAirdrop", Err: cause})
	assert.True(t, IsRateLimited(limited))
	assert.ErrorIs(t, limited, cause)
	assert.False(t, IsRateLimited(&NetworkError{Op: "getBalance", Err: cause}))

	rejected := &SubmissionError{Message: "insufficient funds for rent", Diagnostics: []string{"Program 111 invoke [1]", "Program 111 failed"}}
	assert.True(t, IsSubmission(rejected))
	assert.Equal(t, rejected.Diagnostics, Diagnostics(fmt.Errorf("wrap: %w", rejected)))
	assert.Nil(t, Diagnostics(cause))
	assert.Contains(t, rejected.Error(), "Program 111 failed")
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "Wallet balance: 2 SOL", Outcome{Operation: OperationBalance, OK: true, Message: "Wallet balance: 2 SOL"}.String())
	assert.Equal(t, "transfer failed: boom", Outcome{Operation: OperationTransfer, Message: "boom"}.String())
}
