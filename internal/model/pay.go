package model

// FundRequest represents request for POST /wallet/fund
type FundRequest struct {
	Amount string `json:"amount"` // SOL, defaults to 1
}

// FundResponse represents response for POST /wallet/fund
type FundResponse struct {
	Address   string `json:"address"`
	Amount    string `json:"amount"`
	Signature string `json:"signature"`
	Attempts  int    `json:"attempts"`
}

// PayRequest represents request for POST /wallet/transfer
type PayRequest struct {
	ToAddress string `json:"toAddress"`
	Amount    string `json:"amount"`
}

// PayResponse represents response for POST /wallet/transfer
type PayResponse struct {
	TxID string `json:"txId"`
}
