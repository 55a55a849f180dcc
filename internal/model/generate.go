package model

// GenerateRequest represents request for POST /wallet/create
type GenerateRequest struct {
	Force bool `json:"force"`
}

// GenerateResponse represents response for POST /wallet/create
type GenerateResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Address string `json:"address,omitempty"`
	QR      string `json:"-"` // terminal rendering, CLI only
}
