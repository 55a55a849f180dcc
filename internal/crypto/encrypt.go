package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/AlexZinkM/devnet-wallet/internal/model"

	"golang.org/x/crypto/scrypt"
)

const (
	BackupExt = ".cwt"

	saltLen  = 32
	nonceLen = 12
)

// KDFParams are the scrypt cost parameters for backup files
type KDFParams struct {
	N      int
	R      int
	P      int
	KeyLen int
}

// DefaultKDF is N=2^18 (~256MB RAM, 0.5-2s per derivation)
var DefaultKDF = KDFParams{N: 1 << 18, R: 8, P: 1, KeyLen: 32}

var kdf = DefaultKDF

// SetKDFParams replaces the scrypt parameters and returns the previous ones.
// Files written with one set of parameters only decrypt with the same set.
func SetKDFParams(p KDFParams) KDFParams {
	prev := kdf
	kdf = p
	return prev
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// EncryptBackup encrypts walletData and writes it to a .cwt file.
// The address and its QR stay readable without the password.
// password must be []byte for security (caller should zero it after use)
func EncryptBackup(filePath, network, address, qrCode string, walletData *model.WalletData, password []byte) error {
	if filepath.Ext(filePath) != BackupExt {
		return fmt.Errorf("file must have %s extension", BackupExt)
	}
	if len(password) == 0 {
		return errors.New("password cannot be empty")
	}

	if fileInfo, err := os.Stat(filePath); err == nil && fileInfo.Size() > 0 {
		return fmt.Errorf("file is not empty: %w", os.ErrExist)
	}

	salt := make([]byte, saltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return fmt.Errorf("failed to generate salt: %w", err)
	}

	nonce := make([]byte, nonceLen)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return fmt.Errorf("failed to generate nonce: %w", err)
	}

	aesGCM, err := newGCM(password, salt)
	if err != nil {
		return err
	}

	plaintext, err := json.Marshal(walletData)
	if err != nil {
		return fmt.Errorf("failed to marshal wallet data: %w", err)
	}
	defer clear(plaintext)

	ciphertext := aesGCM.Seal(nil, nonce, plaintext, nil)

	cwtFile := model.CWTFile{
		Network:    network,
		Address:    address,
		QR:         qrCode,
		Salt:       base64.StdEncoding.EncodeToString(salt),
		Nonce:      base64.StdEncoding.EncodeToString(nonce),
		CipherText: base64.StdEncoding.EncodeToString(ciphertext),
	}

	fileData, err := json.MarshalIndent(cwtFile, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cwt file: %w", err)
	}

	// BOM for proper display in Windows editors
	if err := os.WriteFile(filePath, append(append([]byte{}, utf8BOM...), fileData...), 0600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

// newGCM derives the AES-256 key from password and salt
func newGCM(password, salt []byte) (cipher.AEAD, error) {
	key, err := scrypt.Key(password, salt, kdf.N, kdf.R, kdf.P, kdf.KeyLen)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	defer clear(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return aesGCM, nil
}
