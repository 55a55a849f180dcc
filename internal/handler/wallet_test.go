package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/AlexZinkM/devnet-wallet/internal/keystore"
	"github.com/AlexZinkM/devnet-wallet/internal/model"
	"github.com/AlexZinkM/devnet-wallet/internal/retry"
	"github.com/AlexZinkM/devnet-wallet/internal/transfer"
	"github.com/AlexZinkM/devnet-wallet/solana"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLedger struct {
	balance    uint64
	airdropErr error
	sendErr    error
}

func (s *stubLedger) GetBalance(context.Context, solanago.PublicKey) (uint64, error) {
	return s.balance, nil
}

func (s *stubLedger) GetLatestAnchor(context.Context) (transfer.Anchor, error) {
	return transfer.Anchor{Blockhash: solanago.MustHashFromBase58("EkSnNWid2cvwEVnVx9aBqawnmiCNiDgp3gUdkDPTKN1N")}, nil
}

func (s *stubLedger) RequestAirdrop(_ context.Context, _ solanago.PublicKey, lamports uint64) (solanago.Signature, error) {
	if s.airdropErr != nil {
		return solanago.Signature{}, s.airdropErr
	}
	s.balance += lamports
	return solanago.Signature{7}, nil
}

func (s *stubLedger) SendTransaction(_ context.Context, tx *solanago.Transaction) (solanago.Signature, error) {
	if s.sendErr != nil {
		return solanago.Signature{}, s.sendErr
	}
	return tx.Signatures[0], nil
}

func newTestHandler(t *testing.T, ledger *stubLedger) *WalletHandler {
	t.Helper()
	store := keystore.New(filepath.Join(t.TempDir(), "wallet.json"), nil)
	noWait := retry.WithSleep(func(ctx context.Context, _ time.Duration) error { return ctx.Err() })
	h, err := NewWalletHandler(solana.NewService(store, ledger, nil, solana.WithRetryOptions(noWait)))
	require.NoError(t, err)
	return h
}

func do(h http.HandlerFunc, method, target string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) model.ErrorResponse {
	t.Helper()
	var resp model.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestNewWalletHandler_NilService(t *testing.T) {
	_, err := NewWalletHandler(nil)
	assert.Error(t, err)
}

func TestWalletFlow(t *testing.T) {
	h := newTestHandler(t, &stubLedger{})

	rec := do(h.Create, http.MethodPost, "/wallet/create", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var created model.GenerateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.True(t, created.Success)
	assert.NotEmpty(t, created.Address)

	rec = do(h.Create, http.MethodPost, "/wallet/create", model.GenerateRequest{})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "wallet_exists", decodeError(t, rec).Code)

	rec = do(h.Fund, http.MethodPost, "/wallet/fund", model.FundRequest{Amount: "2"})
	require.Equal(t, http.StatusOK, rec.Code)
	var funded model.FundResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &funded))
	assert.Equal(t, "2", funded.Amount)
	assert.Equal(t, 1, funded.Attempts)

	rec = do(h.GetBalance, http.MethodGet, "/wallet/balance", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var balance model.BalanceResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &balance))
	assert.Equal(t, created.Address, balance.Address)
	assert.Equal(t, "2", balance.SOL)

	rec = do(h.Transfer, http.MethodPost, "/wallet/transfer", model.PayRequest{
		ToAddress: "5vxsN5T7YfByi8E8yp5wB5HJ1xcwzYKHyq41utZvaaP5",
		Amount:    "1",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var paid model.PayResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &paid))
	assert.NotEmpty(t, paid.TxID)

	rec = do(h.QR, http.MethodGet, "/wallet/qr?size=128", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
}

func TestFund_DefaultAmount(t *testing.T) {
	h := newTestHandler(t, &stubLedger{})
	require.Equal(t, http.StatusOK, do(h.Create, http.MethodPost, "/wallet/create", nil).Code)

	rec := do(h.Fund, http.MethodPost, "/wallet/fund", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var funded model.FundResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &funded))
	assert.Equal(t, "1", funded.Amount)
}

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		name     string
		ledger   *stubLedger
		create   bool
		handler  func(h *WalletHandler) http.HandlerFunc
		method   string
		target   string
		body     any
		wantCode int
		wantErr  string
	}{
		{
			name:     "no wallet",
			ledger:   &stubLedger{},
			handler:  func(h *WalletHandler) http.HandlerFunc { return h.GetBalance },
			method:   http.MethodGet,
			target:   "/wallet/balance",
			wantCode: http.StatusNotFound,
			wantErr:  "wallet_not_found",
		},
		{
			name:     "invalid address",
			ledger:   &stubLedger{balance: 5_000_000_000},
			create:   true,
			handler:  func(h *WalletHandler) http.HandlerFunc { return h.Transfer },
			method:   http.MethodPost,
			target:   "/wallet/transfer",
			body:     model.PayRequest{ToAddress: "not-an-address", Amount: "1"},
			wantCode: http.StatusBadRequest,
			wantErr:  "invalid_request",
		},
		{
			name:     "invalid amount",
			ledger:   &stubLedger{},
			create:   true,
			handler:  func(h *WalletHandler) http.HandlerFunc { return h.Fund },
			method:   http.MethodPost,
			target:   "/wallet/fund",
			body:     model.FundRequest{Amount: "lots"},
			wantCode: http.StatusBadRequest,
			wantErr:  "invalid_request",
		},
		{
			name:     "insufficient funds",
			ledger:   &stubLedger{},
			create:   true,
			handler:  func(h *WalletHandler) http.HandlerFunc { return h.Transfer },
			method:   http.MethodPost,
			target:   "/wallet/transfer",
			body:     model.PayRequest{ToAddress: "5vxsN5T7YfByi8E8yp5wB5HJ1xcwzYKHyq41utZvaaP5", Amount: "1"},
			wantCode: http.StatusBadRequest,
			wantErr:  "insufficient_funds",
		},
		{
			name:     "rate limited",
			ledger:   &stubLedger{airdropErr: &model.RateLimitError{Op: "requestAirdrop", Err: errors.New("429")}},
			create:   true,
			handler:  func(h *WalletHandler) http.HandlerFunc { return h.Fund },
			method:   http.MethodPost,
			target:   "/wallet/fund",
			wantCode: http.StatusTooManyRequests,
			wantErr:  "rate_limited",
		},
		{
			name:     "ledger down",
			ledger:   &stubLedger{airdropErr: &model.NetworkError{Op: "requestAirdrop", Err: errors.New("connection refused")}},
			create:   true,
			handler:  func(h *WalletHandler) http.HandlerFunc { return h.Fund },
			method:   http.MethodPost,
			target:   "/wallet/fund",
			wantCode: http.StatusBadGateway,
			wantErr:  "ledger_unavailable",
		},
		{
			name: "rejected",
			ledger: &stubLedger{
				balance: 5_000_000_000,
				sendErr: &model.SubmissionError{Message: "simulation failed", Diagnostics: []string{"Program log: boom"}},
			},
			create:   true,
			handler:  func(h *WalletHandler) http.HandlerFunc { return h.Transfer },
			method:   http.MethodPost,
			target:   "/wallet/transfer",
			body:     model.PayRequest{ToAddress: "5vxsN5T7YfByi8E8yp5wB5HJ1xcwzYKHyq41utZvaaP5", Amount: "1"},
			wantCode: http.StatusBadGateway,
			wantErr:  "transaction_rejected",
		},
		{
			name:     "bad qr size",
			ledger:   &stubLedger{},
			create:   true,
			handler:  func(h *WalletHandler) http.HandlerFunc { return h.QR },
			method:   http.MethodGet,
			target:   "/wallet/qr?size=10",
			wantCode: http.StatusBadRequest,
			wantErr:  "bad_request",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(t, tt.ledger)
			if tt.create {
				require.Equal(t, http.StatusOK, do(h.Create, http.MethodPost, "/wallet/create", nil).Code)
			}

			rec := do(tt.handler(h), tt.method, tt.target, tt.body)
			assert.Equal(t, tt.wantCode, rec.Code)
			resp := decodeError(t, rec)
			assert.Equal(t, tt.wantErr, resp.Code)
			assert.NotEmpty(t, resp.Error)
			if tt.wantErr == "transaction_rejected" {
				assert.Equal(t, []string{"Program log: boom"}, resp.Diagnostics)
			}
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	h := newTestHandler(t, &stubLedger{})

	assert.Equal(t, http.StatusMethodNotAllowed, do(h.Create, http.MethodGet, "/wallet/create", nil).Code)
	assert.Equal(t, http.StatusMethodNotAllowed, do(h.GetBalance, http.MethodPost, "/wallet/balance", nil).Code)
	assert.Equal(t, http.StatusMethodNotAllowed, do(h.Transfer, http.MethodGet, "/wallet/transfer", nil).Code)
}

func TestRequestBodyLimit(t *testing.T) {
	h := newTestHandler(t, &stubLedger{balance: 5_000_000_000})
	require.Equal(t, http.StatusOK, do(h.Create, http.MethodPost, "/wallet/create", nil).Code)

	huge := strings.Repeat("a", maxBodyBytes+1)

	rec := do(h.Transfer, http.MethodPost, "/wallet/transfer", model.PayRequest{ToAddress: huge, Amount: "1"})
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "body_too_large", decodeError(t, rec).Code)

	rec = do(h.Fund, http.MethodPost, "/wallet/fund", model.FundRequest{Amount: huge})
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	rec = do(h.Create, http.MethodPost, "/wallet/create", map[string]string{"pad": huge})
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestTransfer_EmptyBody(t *testing.T) {
	h := newTestHandler(t, &stubLedger{})

	rec := do(h.Transfer, http.MethodPost, "/wallet/transfer", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "bad_request", decodeError(t, rec).Code)
}
