package intent

import (
	"context"
	"fmt"
	"time"

	"bayan-ai-be/internal/pkg/logger"
	"bayan-ai-be/pkg/store"
)

// DefaultRouterTimeout bounds a single router attempt
const DefaultRouterTimeout = 20 * time.Second

// Chain tries each router in order and returns the first decision. When every
// router fails it returns New with no focus. It never returns an error.
type Chain struct {
	routers []Router
	timeout time.Duration
	logger  logger.ILogger
}

func NewChain(log logger.ILogger, timeout time.Duration, routers ...Router) *Chain {
	if timeout <= 0 {
		timeout = DefaultRouterTimeout
	}
	return &Chain{
		routers: routers,
		timeout: timeout,
		logger:  log,
	}
}

func (c *Chain) Route(ctx context.Context, text string, st *store.SessionState) (Decision, error) {
	for _, r := range c.routers {
		d, err := c.try(ctx, r, text, st)
		if err == nil && d != nil {
			return d, nil
		}
		if err == nil {
			err = fmt.Errorf("router returned no decision")
		}
		c.logger.Warn("Router", "Router failed, falling through", map[string]interface{}{
			"router": fmt.Sprintf("%T", r),
			"error":  err.Error(),
		})
	}
	return New{}, nil
}

func (c *Chain) try(ctx context.Context, r Router, text string, st *store.SessionState) (d Decision, err error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	defer func() {
		if rec := recover(); rec != nil {
			d, err = nil, fmt.Errorf("router panic: %v", rec)
		}
	}()

	return r.Route(ctx, text, st)
}
