// Package delivery holds the transports that feed the use cases: the REST API,
// the worker HTTP receiver and the broker consumer.
package delivery

import (
	"context"
	"time"

	"ministry/config"
	"ministry/internal/domain/lifecycle"
)

// Delivery is a long running transport started by the cmd entrypoints.
type Delivery interface {
	Serve(ctx context.Context) error
}

// ShutdownTimeout is how long a server drains in-flight requests on stop.
func ShutdownTimeout(cfg *config.Config) time.Duration {
	if cfg == nil || cfg.HTTP.Timeouts.ShutdownTimeout <= 0 {
		return lifecycle.DefaultTimeout
	}

	return cfg.HTTP.Timeouts.ShutdownTimeout
}
