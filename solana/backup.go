package solana

import (
	"context"
	"fmt"
	"time"

	"github.com/AlexZinkM/devnet-wallet/internal/crypto"
	"github.com/AlexZinkM/devnet-wallet/internal/model"

	"go.uber.org/zap"
)

// Backup encrypts the stored wallet into a .cwt file.
// password must be []byte for security (caller should zero it after use)
func (s *Service) Backup(ctx context.Context, filePath string, password []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	record, err := s.store.Load()
	if err != nil {
		return "", err
	}
	defer clear(record.PrivateKey)

	png, err := generateQRCode(record.PublicKey, 256)
	if err != nil {
		return "", err
	}

	walletData := &model.WalletData{
		PrivateKey: record.PrivateKey,
		CreatedAt:  time.Now().Format(time.RFC3339),
	}

	if err := crypto.EncryptBackup(filePath, networkSolana, record.PublicKey, encodePNG(png), walletData, password); err != nil {
		return "", fmt.Errorf("failed to encrypt wallet: %w", err)
	}

	s.log.Info("wallet backed up", zap.String("file", filePath), zap.String("address", record.PublicKey))
	return record.PublicKey, nil
}

// Restore decrypts a .cwt file and writes it as the wallet record.
// An existing record is kept unless force is true.
// password must be []byte for security (caller should zero it after use)
func (s *Service) Restore(ctx context.Context, filePath string, password []byte, force bool) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	cwtFile, walletData, err := crypto.DecryptBackup(filePath, password)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt wallet: %w", err)
	}
	defer clear(walletData.PrivateKey)

	record := &model.WalletRecord{
		PrivateKey: model.KeyBytes(walletData.PrivateKey),
		PublicKey:  cwtFile.Address,
		Balance:    0,
	}
	if err := s.store.Save(record, force); err != nil {
		return "", err
	}

	s.log.Info("wallet restored", zap.String("file", filePath), zap.String("address", cwtFile.Address))
	return cwtFile.Address, nil
}
