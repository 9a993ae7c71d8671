package retry

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDo_SucceedsAfterFailures(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), Fixed(3, time.Millisecond, time.Second), func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return fmt.Errorf("transient")
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestDo_ExhaustsAttempts(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), Fixed(3, time.Millisecond, time.Second), func(ctx context.Context) error {
		attempts++
		return fmt.Errorf("always failing")
	})

	assert.Error(t, err)
	assert.Equal(t, 3, attempts)
	assert.Contains(t, err.Error(), "max retry attempts")
}

func TestDo_PermanentStopsImmediately(t *testing.T) {
	attempts := 0
	cause := fmt.Errorf("permission denied")
	err := Do(context.Background(), Fixed(5, time.Millisecond, time.Second), func(ctx context.Context) error {
		attempts++
		return Permanent(cause)
	})

	assert.Equal(t, cause, err)
	assert.Equal(t, 1, attempts)
}

func TestDo_RespectsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Do(ctx, Fixed(3, time.Millisecond, time.Second), func(ctx context.Context) error {
		return fmt.Errorf("should not matter")
	})

	assert.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
