// internal/common/camunda/client.go
package camunda

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"caregiver-matcher/internal/common/errors"
	"caregiver-matcher/internal/common/retry"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

// Client wraps the Zeebe gRPC client with error mapping and retries.
type Client struct {
	client zbc.Client
	config *ClientConfig
}

type ClientConfig struct {
	GatewayAddress         string
	UsePlaintextConnection bool
	ConnectionTimeout      time.Duration
	RequestTimeout         time.Duration
	Retry                  retry.Config
}

// DefaultRetryConfig is used when ClientConfig.Retry is zero.
var DefaultRetryConfig = retry.DefaultConfig

// NewClient connects with plaintext and default timeouts, for local setups.
func NewClient(address string) (*Client, error) {
	return NewClientWithConfig(&ClientConfig{
		GatewayAddress:         address,
		UsePlaintextConnection: true,
		ConnectionTimeout:      10 * time.Second,
		RequestTimeout:         30 * time.Second,
		Retry:                  DefaultRetryConfig,
	})
}

// NewClientWithConfig creates the client and checks the broker topology,
// retrying while the gateway is unreachable.
func NewClientWithConfig(config *ClientConfig) (*Client, error) {
	if config.Retry == (retry.Config{}) {
		config.Retry = DefaultRetryConfig
	}
	if config.ConnectionTimeout <= 0 {
		config.ConnectionTimeout = 10 * time.Second
	}

	zeebeClient, err := zbc.NewClient(&zbc.ClientConfig{
		GatewayAddress:         config.GatewayAddress,
		UsePlaintextConnection: config.UsePlaintextConnection,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Zeebe client: %w", err)
	}

	c := &Client{client: zeebeClient, config: config}
	if err := c.ExecuteWithRetry(context.Background(), "topology", c.HealthCheck); err != nil {
		zeebeClient.Close()
		return nil, fmt.Errorf("failed to connect to Zeebe broker at %s: %w", config.GatewayAddress, err)
	}

	return c, nil
}

// GetClient returns the raw Zeebe client for job workers.
func (c *Client) GetClient() zbc.Client {
	return c.client
}

func (c *Client) Close() error {
	return c.client.Close()
}

// ExecuteWithRetry runs a Zeebe command with the client's retry policy.
func (c *Client) ExecuteWithRetry(ctx context.Context, operationName string, command func(context.Context) error) error {
	return Execute(ctx, c.config.Retry, operationName, command)
}

// Execute runs command, retrying transient failures with backoff, and maps the
// final error into the application error taxonomy.
func Execute(ctx context.Context, cfg retry.Config, operationName string, command func(context.Context) error) error {
	attempts := 0
	err := retry.Do(ctx, cfg, errors.IsTransient, func(ctx context.Context) error {
		attempts++
		return command(ctx)
	})
	if err == nil {
		return nil
	}
	return mapZeebeError(err, operationName, attempts)
}

// mapZeebeError converts Zeebe errors into application errors.
func mapZeebeError(err error, operation string, attempts int) error {
	enhancedMsg := fmt.Sprintf("Zeebe operation '%s' failed", operation)
	if attempts > 1 {
		enhancedMsg += fmt.Sprintf(" after %d attempts", attempts)
	}
	wrapped := fmt.Errorf("%s: %w", enhancedMsg, err)

	lowerMsg := strings.ToLower(err.Error())
	if stderrors.Is(err, context.DeadlineExceeded) ||
		strings.Contains(lowerMsg, "deadline exceeded") ||
		strings.Contains(lowerMsg, "timeout") {
		return errors.NewTimeoutError("zeebe "+operation, wrapped)
	}

	stdErr := errors.NewExternalServiceError("zeebe", wrapped)
	stdErr.Retryable = errors.IsTransient(err)
	return stdErr
}

// HealthCheck asks the gateway for the cluster topology.
func (c *Client) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.config.ConnectionTimeout)
	defer cancel()

	if _, err := c.client.NewTopologyCommand().Send(ctx); err != nil {
		return fmt.Errorf("zeebe health check failed: %w", err)
	}
	return nil
}
