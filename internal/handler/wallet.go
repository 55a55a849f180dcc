package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/AlexZinkM/devnet-wallet/internal/common"
	"github.com/AlexZinkM/devnet-wallet/internal/model"
	"github.com/AlexZinkM/devnet-wallet/solana"

	"github.com/shopspring/decimal"
)

// maxBodyBytes bounds JSON request bodies
const maxBodyBytes = 1 << 20

// WalletHandler exposes wallet operations over HTTP
type WalletHandler struct {
	service *solana.Service
}

// NewWalletHandler creates a new WalletHandler
func NewWalletHandler(service *solana.Service) (*WalletHandler, error) {
	if service == nil {
		return nil, errors.New("wallet service not set")
	}
	return &WalletHandler{service: service}, nil
}

// Create handles POST /wallet/create
// @Summary      Create new wallet
// @Description  Generates a new keypair and writes wallet.json. Existing wallet is kept unless force is true
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Param        request  body      model.GenerateRequest  false  "Create options"
// @Success      200      {object}  model.GenerateResponse
// @Failure      409      {object}  model.ErrorResponse
// @Router       /wallet/create [post]
func (h *WalletHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.GenerateRequest
	if err := decodeBody(w, r, &req, true); err != nil {
		writeDecodeError(w, err)
		return
	}

	resp, err := h.service.CreateWallet(r.Context(), req.Force)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Fund handles POST /wallet/fund
// @Summary      Request devnet airdrop
// @Description  Requests an airdrop to the wallet, retrying with backoff when rate limited
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Param        request  body      model.FundRequest  false  "Amount in SOL (default 1)"
// @Success      200      {object}  model.FundResponse
// @Failure      429      {object}  model.ErrorResponse
// @Router       /wallet/fund [post]
func (h *WalletHandler) Fund(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.FundRequest
	if err := decodeBody(w, r, &req, true); err != nil {
		writeDecodeError(w, err)
		return
	}

	amount := solana.DefaultFundAmount
	if strings.TrimSpace(req.Amount) != "" {
		var err error
		if amount, err = parseAmount(req.Amount); err != nil {
			writeServiceError(w, err)
			return
		}
	}

	resp, err := h.service.Fund(r.Context(), amount)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetBalance handles GET /wallet/balance
// @Summary      Get wallet balance
// @Description  Gets SOL balance of the wallet from the ledger
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  model.BalanceResponse
// @Failure      404  {object}  model.ErrorResponse
// @Router       /wallet/balance [get]
func (h *WalletHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	balance, err := h.service.CheckBalance(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, balance)
}

// Transfer handles POST /wallet/transfer
// @Summary      Send SOL
// @Description  Signs a system transfer against a fresh blockhash and submits it once
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Param        request  body      model.PayRequest  true  "Payment data"
// @Success      200      {object}  model.PayResponse
// @Failure      400      {object}  model.ErrorResponse
// @Failure      502      {object}  model.ErrorResponse
// @Router       /wallet/transfer [post]
func (h *WalletHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.PayRequest
	if err := decodeBody(w, r, &req, false); err != nil {
		writeDecodeError(w, err)
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	payResp, err := h.service.Transfer(r.Context(), req.ToAddress, amount)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, payResp)
}

// QR handles GET /wallet/qr
// @Summary      Wallet address QR code
// @Description  Returns the wallet address as a PNG QR code
// @Tags         wallet
// @Produce      png
// @Param        size  query  int  false  "Image size in pixels (default 256)"
// @Success      200
// @Router       /wallet/qr [get]
func (h *WalletHandler) QR(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	size := 256
	if sizeStr := r.URL.Query().Get("size"); sizeStr != "" {
		n, err := strconv.Atoi(sizeStr)
		if err != nil || n < 64 || n > 2048 {
			writeError(w, http.StatusBadRequest, "bad_request", errors.New("size must be between 64 and 2048"))
			return
		}
		size = n
	}

	png, err := h.service.AddressQRPNG(size)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

func parseAmount(s string) (decimal.Decimal, error) {
	amount, err := common.ParseSOL(s)
	if err != nil {
		return decimal.Zero, &model.ValidationError{Kind: model.InvalidAmount, Value: s, Err: err}
	}
	return amount, nil
}

// decodeBody decodes a JSON body of at most maxBodyBytes.
// When optional is set an empty body leaves v untouched.
func decodeBody(w http.ResponseWriter, r *http.Request, v any, optional bool) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	err := json.NewDecoder(r.Body).Decode(v)
	if optional && errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func writeDecodeError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, "body_too_large", err)
		return
	}
	writeError(w, http.StatusBadRequest, "bad_request", err)
}

// statusFor maps wallet errors to HTTP status and error code
func statusFor(err error) (int, string) {
	switch {
	case model.IsFileExists(err):
		return http.StatusConflict, "wallet_exists"
	case model.IsInsufficientFunds(err):
		return http.StatusBadRequest, "insufficient_funds"
	case model.IsValidation(err):
		return http.StatusBadRequest, "invalid_request"
	case model.IsNotFound(err):
		return http.StatusNotFound, "wallet_not_found"
	case model.IsRateLimited(err):
		return http.StatusTooManyRequests, "rate_limited"
	case model.IsSubmission(err):
		return http.StatusBadGateway, "transaction_rejected"
	case model.IsNetwork(err):
		return http.StatusBadGateway, "ledger_unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	status, code := statusFor(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(model.ErrorResponse{
		Error:       err.Error(),
		Code:        code,
		Diagnostics: model.Diagnostics(err),
	})
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(model.ErrorResponse{Error: err.Error(), Code: code})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
