package solana

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/AlexZinkM/devnet-wallet/internal/model"

	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"
)

// CreateWallet generates a new keypair and writes the wallet record.
// An existing record is kept unless force is true.
func (s *Service) CreateWallet(ctx context.Context, force bool) (*model.GenerateResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	record, err := s.store.Create(force)
	if err != nil {
		return nil, err
	}
	defer clear(record.PrivateKey)

	qr, err := terminalQR(record.PublicKey)
	if err != nil {
		// the wallet is already on disk, a missing QR is not fatal
		s.log.Warn("failed to render address QR", zap.Error(err))
	}

	return &model.GenerateResponse{
		Success: true,
		Message: "Wallet created: " + record.PublicKey,
		Address: record.PublicKey,
		QR:      qr,
	}, nil
}

// Address returns the public address of the stored wallet
func (s *Service) Address() (string, error) {
	record, err := s.store.Load()
	if err != nil {
		return "", err
	}
	clear(record.PrivateKey)
	return record.PublicKey, nil
}

// AddressQR renders the wallet address as a terminal QR code
func (s *Service) AddressQR() (string, error) {
	address, err := s.Address()
	if err != nil {
		return "", err
	}
	return terminalQR(address)
}

// AddressQRPNG renders the wallet address as a PNG image of size x size pixels
func (s *Service) AddressQRPNG(size int) ([]byte, error) {
	address, err := s.Address()
	if err != nil {
		return nil, err
	}
	return generateQRCode(address, size)
}

// generateQRCode generates PNG QR code of address
func generateQRCode(address string, size int) ([]byte, error) {
	qr, err := qrcode.New(address, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("failed to create QR code: %w", err)
	}

	png, err := qr.PNG(size)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PNG: %w", err)
	}
	return png, nil
}

func terminalQR(address string) (string, error) {
	qr, err := qrcode.New(address, qrcode.Medium)
	if err != nil {
		return "", fmt.Errorf("failed to create QR code: %w", err)
	}
	return qr.ToSmallString(false), nil
}

func encodePNG(png []byte) string {
	return base64.StdEncoding.EncodeToString(png)
}
