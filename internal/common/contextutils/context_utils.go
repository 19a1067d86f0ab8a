package contextutils

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
)

// ContextCheckResult represents the result of a context cancellation check
type ContextCheckResult struct {
	Cancelled bool
	Error     error
}

// CheckCancellation reports whether ctx is done without blocking. A nil
// context is never cancelled.
func CheckCancellation(ctx context.Context) ContextCheckResult {
	if ctx == nil {
		return ContextCheckResult{}
	}
	select {
	case <-ctx.Done():
		return ContextCheckResult{Cancelled: true, Error: ctx.Err()}
	default:
		return ContextCheckResult{}
	}
}

// CheckCancellationWithLog is CheckCancellation plus an Info log naming the
// interrupted operation.
func CheckCancellationWithLog(ctx context.Context, logger zerolog.Logger, operation string) ContextCheckResult {
	result := CheckCancellation(ctx)
	if result.Cancelled {
		logger.Info().Str("operation", operation).Err(result.Error).Msg("Context cancelled")
	}
	return result
}

// IsCancellationError reports whether err came from a cancelled or expired context.
func IsCancellationError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
