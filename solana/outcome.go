package solana

import (
	"context"
	"errors"

	"github.com/AlexZinkM/devnet-wallet/internal/model"

	"go.uber.org/zap"
)

// Report runs fn as one wallet operation and turns its result into an Outcome.
// Errors do not propagate past this point.
func (s *Service) Report(ctx context.Context, op model.Operation, fn func(ctx context.Context) (string, error)) model.Outcome {
	message, err := fn(ctx)
	if err == nil {
		s.log.Info("operation succeeded", zap.String("op", string(op)))
		return model.Outcome{Operation: op, OK: true, Message: message}
	}

	outcome := model.Outcome{
		Operation:   op,
		Message:     describe(err),
		Diagnostics: model.Diagnostics(err),
		Err:         err,
	}
	s.log.Error("operation failed",
		zap.String("op", string(op)),
		zap.Error(err),
		zap.Strings("diagnostics", outcome.Diagnostics),
	)
	return outcome
}

// describe picks the operator-facing line for err
func describe(err error) string {
	switch {
	case errors.Is(err, context.Canceled):
		return "interrupted"
	case errors.Is(err, context.DeadlineExceeded):
		return "timed out"
	case model.IsNotFound(err):
		return err.Error() + " (run create first)"
	case model.IsFileExists(err):
		return err.Error() + " (use --force to replace it)"
	default:
		return err.Error()
	}
}
