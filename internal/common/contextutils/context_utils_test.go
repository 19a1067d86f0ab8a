package contextutils

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func createCancelledContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	return ctx
}

func createDeadlineExceededContext() context.Context {
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	_ = cancel
	return ctx
}

func TestCheckCancellationWithLog(t *testing.T) {
	logger := zerolog.Nop()

	tests := []struct {
		name        string
		ctx         context.Context
		expectError error
	}{
		{name: "normal context", ctx: context.Background()},
		{name: "nil context", ctx: nil},
		{name: "cancelled context", ctx: createCancelledContext(), expectError: context.Canceled},
		{name: "deadline exceeded context", ctx: createDeadlineExceededContext(), expectError: context.DeadlineExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CheckCancellationWithLog(tt.ctx, logger, "crawl")

			if tt.expectError != nil {
				assert.True(t, result.Cancelled)
				assert.ErrorIs(t, result.Error, tt.expectError)
			} else {
				assert.False(t, result.Cancelled)
				assert.NoError(t, result.Error)
			}
		})
	}
}

func TestIsCancellationError(t *testing.T) {
	assert.True(t, IsCancellationError(context.Canceled))
	assert.True(t, IsCancellationError(fmt.Errorf("fetch: %w", context.DeadlineExceeded)))
	assert.False(t, IsCancellationError(errors.New("connection refused")))
	assert.False(t, IsCancellationError(nil))
}
