package keystore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/AlexZinkM/devnet-wallet/internal/crypto"
	"github.com/AlexZinkM/devnet-wallet/internal/logger"
	"github.com/AlexZinkM/devnet-wallet/internal/model"

	"go.uber.org/zap"
)

// DefaultFileName is the wallet record in the working directory
const DefaultFileName = "wallet.json"

// KeyStore persists a single wallet record as a JSON file.
// Access is serialised in-process; other processes are not coordinated with.
type KeyStore struct {
	path string
	mu   sync.Mutex
	log  *zap.Logger
}

// New creates a KeyStore for the record at path
func New(path string, log *zap.Logger) *KeyStore {
	if path == "" {
		path = DefaultFileName
	}
	return &KeyStore{
		path: path,
		log:  logger.OrNop(log).Named("keystore"),
	}
}

// Path returns the wallet record location
func (s *KeyStore) Path() string {
	return s.path
}

// Create generates a new keypair and writes it with balance 0.
// An existing non-empty record is only replaced when force is true.
func (s *KeyStore) Create(force bool) (*model.WalletRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkConflict(force); err != nil {
		return nil, err
	}

	key, err := crypto.NewPrivateKey()
	if err != nil {
		return nil, err
	}

	record := &model.WalletRecord{
		PrivateKey: model.KeyBytes(key),
		PublicKey:  key.PublicKey().String(),
		Balance:    0,
	}

	if err := s.write(record); err != nil {
		return nil, err
	}

	s.log.Info("wallet created", zap.String("path", s.path), zap.String("address", record.PublicKey), zap.Bool("force", force))
	return record, nil
}

// Save writes record after validating the key derivation.
// An existing non-empty record is only replaced when force is true.
func (s *KeyStore) Save(record *model.WalletRecord, force bool) error {
	if _, err := crypto.VerifyAddress(record.PrivateKey, record.PublicKey); err != nil {
		return fmt.Errorf("refusing to save wallet: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkConflict(force); err != nil {
		return err
	}
	if err := s.write(record); err != nil {
		return err
	}

	s.log.Info("wallet saved", zap.String("path", s.path), zap.String("address", record.PublicKey))
	return nil
}

// Load reads the record and checks that the stored address derives from the private key
func (s *KeyStore) Load() (*model.WalletRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &model.StorageError{Kind: model.StorageNotFound, Path: s.path}
		}
		return nil, &model.StorageError{Kind: model.StorageIO, Path: s.path, Message: "failed to read file", Err: err}
	}
	if len(data) == 0 {
		return nil, &model.StorageError{Kind: model.StorageCorrupt, Path: s.path, Message: "file is empty"}
	}

	var record model.WalletRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, &model.StorageError{Kind: model.StorageCorrupt, Path: s.path, Message: "failed to unmarshal wallet", Err: err}
	}

	if _, err := crypto.VerifyAddress(record.PrivateKey, record.PublicKey); err != nil {
		clear(record.PrivateKey)
		return nil, &model.StorageError{Kind: model.StorageCorrupt, Path: s.path, Err: err}
	}

	s.log.Debug("wallet loaded", zap.String("address", record.PublicKey))
	return &record, nil
}

// checkConflict must be called with mu held
func (s *KeyStore) checkConflict(force bool) error {
	fileInfo, err := os.Stat(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return &model.StorageError{Kind: model.StorageIO, Path: s.path, Message: "failed to stat file", Err: err}
	}
	if fileInfo.IsDir() {
		return &model.StorageError{Kind: model.StorageIO, Path: s.path, Message: "path is a directory"}
	}
	if fileInfo.Size() > 0 && !force {
		return &model.StorageError{Kind: model.StorageExists, Path: s.path, Message: "use force to overwrite"}
	}
	if fileInfo.Size() > 0 {
		s.log.Warn("overwriting existing wallet file", zap.String("path", s.path))
	}
	return nil
}

// write must be called with mu held
func (s *KeyStore) write(record *model.WalletRecord) error {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return &model.StorageError{Kind: model.StorageIO, Path: s.path, Message: "failed to marshal wallet", Err: err}
	}
	defer clear(data)

	// Write next to the record and rename over it, the old key survives a crash mid-write
	tmp, err := os.CreateTemp(filepath.Dir(s.path), "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return &model.StorageError{Kind: model.StorageIO, Path: s.path, Message: "failed to create temp file", Err: err}
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			os.Remove(tmpPath)
		}
	}()

	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return &model.StorageError{Kind: model.StorageIO, Path: s.path, Message: "failed to set permissions", Err: err}
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return &model.StorageError{Kind: model.StorageIO, Path: s.path, Message: "failed to write file", Err: err}
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return &model.StorageError{Kind: model.StorageIO, Path: s.path, Message: "failed to sync file", Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &model.StorageError{Kind: model.StorageIO, Path: s.path, Message: "failed to close file", Err: err}
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return &model.StorageError{Kind: model.StorageIO, Path: s.path, Message: "failed to replace file", Err: err}
	}
	committed = true
	return nil
}
