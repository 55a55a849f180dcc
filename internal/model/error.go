package model

import (
	"errors"
	"fmt"
	"strings"
)

// StorageErrorKind classifies wallet file failures
type StorageErrorKind int

const (
	StorageNotFound StorageErrorKind = iota + 1
	StorageCorrupt
	StorageIO
	StorageExists
)

func (k StorageErrorKind) String() string {
	switch k {
	case StorageNotFound:
		return "not found"
	case StorageCorrupt:
		return "corrupt"
	case StorageIO:
		return "inaccessible"
	case StorageExists:
		return "exists"
	default:
		return "unknown"
	}
}

// StorageError is returned when the wallet record is missing, corrupt or cannot be written
type StorageError struct {
	Kind    StorageErrorKind
	Path    string
	Message string
	Err     error
}

func (e *StorageError) Error() string {
	var msg string
	switch e.Kind {
	case StorageNotFound:
		msg = fmt.Sprintf("wallet file %s does not exist", e.Path)
	case StorageExists:
		msg = fmt.Sprintf("wallet file %s already exists", e.Path)
	case StorageCorrupt:
		msg = fmt.Sprintf("wallet file %s is corrupt", e.Path)
	default:
		msg = fmt.Sprintf("wallet file %s is %s", e.Path, e.Kind)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// IsNotFound checks if error means no wallet record exists
func IsNotFound(err error) bool {
	return isStorageKind(err, StorageNotFound)
}

// IsCorruptRecord checks if error means the wallet record could not be decoded
func IsCorruptRecord(err error) bool {
	return isStorageKind(err, StorageCorrupt)
}

// IsFileExists checks if error means create was refused because a record exists
func IsFileExists(err error) bool {
	return isStorageKind(err, StorageExists)
}

func isStorageKind(err error, kind StorageErrorKind) bool {
	var se *StorageError
	return errors.As(err, &se) && se.Kind == kind
}

// ValidationErrorKind classifies rejected user input
type ValidationErrorKind int

const (
	InvalidAddress ValidationErrorKind = iota + 1
	InvalidAmount
	InsufficientFunds
)

// ValidationError is returned before any network call for bad recipient, amount or balance
type ValidationError struct {
	Kind  ValidationErrorKind
	Value string
	Err   error
}

func (e *ValidationError) Error() string {
	var msg string
	switch e.Kind {
	case InvalidAddress:
		msg = fmt.Sprintf("invalid Solana address %q", e.Value)
	case InvalidAmount:
		msg = fmt.Sprintf("invalid amount %q", e.Value)
	case InsufficientFunds:
		msg = "insufficient SOL balance"
		if e.Value != "" {
			msg += ". " + e.Value
		}
	default:
		msg = "validation failed"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// IsInvalidAddress checks if error is a recipient address validation failure
func IsInvalidAddress(err error) bool {
	return isValidationKind(err, InvalidAddress)
}

// IsInvalidAmount checks if error is an amount validation failure
func IsInvalidAmount(err error) bool {
	return isValidationKind(err, InvalidAmount)
}

// IsInsufficientFunds checks if error means the balance cannot cover amount + fee
func IsInsufficientFunds(err error) bool {
	return isValidationKind(err, InsufficientFunds)
}

func isValidationKind(err error, kind ValidationErrorKind) bool {
	var ve *ValidationError
	return errors.As(err, &ve) && ve.Kind == kind
}

// IsValidation checks if error is any ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// NetworkError means the RPC endpoint could not be reached or answered unexpectedly
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network error: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// IsNetwork checks if error is a NetworkError
func IsNetwork(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// RateLimitError means the RPC node answered 429 Too Many Requests
type RateLimitError struct {
	Op  string
	Err error
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s: rate limit exceeded: %v", e.Op, e.Err)
}

func (e *RateLimitError) Unwrap() error {
	return e.Err
}

// IsRateLimited checks if error is retryable rate limiting
func IsRateLimited(err error) bool {
	var re *RateLimitError
	return errors.As(err, &re)
}

// SubmissionError means the ledger rejected a transaction.
// Diagnostics holds the program logs returned by preflight simulation, if any.
type SubmissionError struct {
	Message     string
	Diagnostics []string
	Err         error
}

func (e *SubmissionError) Error() string {
	msg := "transaction rejected"
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if len(e.Diagnostics) > 0 {
		msg += " (logs: " + strings.Join(e.Diagnostics, "; ") + ")"
	}
	return msg
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// IsSubmission checks if error is a SubmissionError
func IsSubmission(err error) bool {
	var se *SubmissionError
	return errors.As(err, &se)
}

// Diagnostics returns ledger logs attached to err, or nil
func Diagnostics(err error) []string {
	var se *SubmissionError
	if errors.As(err, &se) {
		return se.Diagnostics
	}
	return nil
}

// ErrorResponse is the consistent JSON structure for all API error responses.
type ErrorResponse struct {
	Error       string   `json:"error"`
	Code        string   `json:"code,omitempty"`
	Diagnostics []string `json:"diagnostics,omitempty"`
}
