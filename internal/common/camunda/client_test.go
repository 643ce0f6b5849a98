package camunda

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"caregiver-matcher/internal/common/config"
	apperrors "caregiver-matcher/internal/common/errors"
	"caregiver-matcher/internal/common/logger"
	"caregiver-matcher/internal/common/retry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetry() retry.Config {
	return retry.Config{MaxRetries: 2, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond}
}

func TestExecute_RetriesTransientErrors(t *testing.T) {
	calls := 0
	err := Execute(context.Background(), fastRetry(), "complete job", func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return stderrors.New("rpc error: code = Unavailable desc = connection refused")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestExecute_MapsErrors(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		code      apperrors.ErrorCode
		retryable bool
		calls     int
	}{
		{
			name:      "unavailable gateway",
			err:       stderrors.New("connection refused"),
			code:      apperrors.ErrCodeExternalService,
			retryable: true,
			calls:     3,
		},
		{
			name:      "deadline",
			err:       context.DeadlineExceeded,
			code:      apperrors.ErrCodeMatchingTimeout,
			retryable: true,
			calls:     3,
		},
		{
			name:      "job not found",
			err:       stderrors.New("rpc error: code = NotFound desc = job not found"),
			code:      apperrors.ErrCodeExternalService,
			retryable: false,
			calls:     1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := Execute(context.Background(), fastRetry(), "complete job", func(ctx context.Context) error {
				calls++
				return tt.err
			})

			require.Error(t, err)
			assert.Equal(t, tt.code, apperrors.CodeOf(err))
			assert.Equal(t, tt.calls, calls)

			var stdErr *apperrors.StandardError
			require.True(t, stderrors.As(err, &stdErr))
			assert.Equal(t, tt.retryable, stdErr.Retryable)
		})
	}
}

func TestManager_SkipsDisabledWorkers(t *testing.T) {
	m := NewManager(nil, logger.NewTestLogger(t))

	assert.False(t, m.Register("find-caregiver-matches", config.WorkerConfig{Enabled: false}, nil))
	assert.Empty(t, m.TaskTypes())
	m.Close()
}
