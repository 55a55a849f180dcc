package transfer

import (
	"encoding/binary"
	"testing"

	"github.com/AlexZinkM/devnet-wallet/internal/crypto"
	"github.com/AlexZinkM/devnet-wallet/internal/model"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const recipient = "5vxsN5T7YfByi8E8yp5wB5HJ1xcwzYKHyq41utZvaaP5"

var testAnchor = Anchor{
	Blockhash:            solana.MustHashFromBase58("EkSnNWid2cvwEVnVx9aBqawnmiCNiDgp3gUdkDPTKN1N"),
	LastValidBlockHeight: 150,
}

func newIntent(t *testing.T, to string, amount decimal.Decimal) Intent {
	t.Helper()
	key, err := crypto.NewPrivateKey()
	require.NoError(t, err)
	return Intent{
		From:       key.PublicKey().String(),
		PrivateKey: key,
		To:         to,
		Amount:     amount,
	}
}

func TestBuild(t *testing.T) {
	intent := newIntent(t, recipient, decimal.RequireFromString("1.25"))

	signed, err := Build(intent, testAnchor)
	require.NoError(t, err)

	assert.Equal(t, uint64(1_250_000_000), signed.Lamports)
	assert.Equal(t, recipient, signed.To.String())
	assert.Equal(t, intent.From, signed.From.String())
	assert.Equal(t, testAnchor, signed.Anchor)

	tx := signed.Tx
	require.NoError(t, tx.VerifySignatures())
	assert.Equal(t, tx.Signatures[0], signed.Signature)
	assert.Equal(t, testAnchor.Blockhash, tx.Message.RecentBlockhash)
	assert.Equal(t, signed.From, tx.Message.AccountKeys[0], "sender pays the fee")
	assert.True(t, tx.Message.AccountKeys.Has(signed.To))
	assert.True(t, tx.Message.AccountKeys.Has(solana.SystemProgramID))

	require.Len(t, tx.Message.Instructions, 1)
	data := tx.Message.Instructions[0].Data
	require.Len(t, data, 12)
	assert.Equal(t, uint32(2), binary.LittleEndian.Uint32(data[:4]), "system Transfer instruction")
	assert.Equal(t, uint64(1_250_000_000), binary.LittleEndian.Uint64(data[4:]))
}

func TestBuild_TrimsRecipient(t *testing.T) {
	intent := newIntent(t, "  "+recipient+"\n", decimal.NewFromInt(1))

	signed, err := Build(intent, testAnchor)
	require.NoError(t, err)
	assert.Equal(t, recipient, signed.To.String())
}

func TestBuild_RejectsAmount(t *testing.T) {
	for _, amount := range []decimal.Decimal{
		decimal.Zero,
		decimal.NewFromInt(-5),
		decimal.RequireFromString("0.0000000001"),
	} {
		_, err := Build(newIntent(t, recipient, amount), testAnchor)
		require.Error(t, err, amount.String())
		assert.True(t, model.IsInvalidAmount(err), "amount %s: %v", amount, err)
	}
}

func TestBuild_RejectsAddress(t *testing.T) {
	for _, to := range []string{"not-an-address", "", "   ", "5vxsN5T7YfByi8E8yp5w"} {
		_, err := Build(newIntent(t, to, decimal.NewFromInt(1)), testAnchor)
		require.Error(t, err, to)
		assert.True(t, model.IsInvalidAddress(err), "address %q: %v", to, err)
	}
}

// A bad address is reported before the amount is looked at.
func TestBuild_AddressCheckedFirst(t *testing.T) {
	_, err := Build(newIntent(t, "not-an-address", decimal.Zero), testAnchor)
	assert.True(t, model.IsInvalidAddress(err))
}

func TestBuild_RequiresAnchor(t *testing.T) {
	_, err := Build(newIntent(t, recipient, decimal.NewFromInt(1)), Anchor{})
	assert.ErrorIs(t, err, ErrNoAnchor)
}

func TestBuild_RejectsForeignKey(t *testing.T) {
	intent := newIntent(t, recipient, decimal.NewFromInt(1))
	other, err := crypto.NewPrivateKey()
	require.NoError(t, err)
	intent.From = other.PublicKey().String()

	_, err = Build(intent, testAnchor)
	assert.ErrorIs(t, err, crypto.ErrKeyMismatch)
}

// A new anchor means a new signature.
func TestBuild_SignatureBoundToAnchor(t *testing.T) {
	intent := newIntent(t, recipient, decimal.NewFromInt(1))

	first, err := Build(intent, testAnchor)
	require.NoError(t, err)

	newer := Anchor{Blockhash: solana.MustHashFromBase58("4sGjMW1sUnHzSxGspuhpqLDx6wiyjNtZAMdL4VZHirAn")}
	second, err := Build(intent, newer)
	require.NoError(t, err)

	assert.NotEqual(t, first.Signature, second.Signature)
	assert.NotEqual(t, first.Tx.Message.RecentBlockhash, second.Tx.Message.RecentBlockhash)
}
