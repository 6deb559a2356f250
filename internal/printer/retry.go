package printer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// backoffDelay returns the retry delay for attempt n, capped at maxSeconds.
func backoffDelay(attempt int, maxSeconds int) time.Duration {
	max := time.Duration(maxSeconds) * time.Second
	if attempt > 30 {
		return max
	}
	delay := time.Duration(1<<uint(attempt)) * time.Second
	if delay > max {
		return max
	}
	return delay
}

// ConnectWithRetry calls Connect up to attempts times, backing off between
// tries. Only ErrLinkFailed is retried; an incompatible printer is not.
func (s *Service) ConnectWithRetry(ctx context.Context, dev Device, attempts int) (*Channel, error) {
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			delay := backoffDelay(attempt-1, s.opts.RetryMaxBackoff)
			slog.Info("[PRINTER] connect backoff", "attempt", attempt+1, "delay", delay)
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %w", ErrLinkFailed, ctx.Err())
			case <-s.after(delay):
			}
		}

		ch, err := s.Connect(ctx, dev)
		if err == nil {
			return ch, nil
		}
		if !errors.Is(err, ErrLinkFailed) {
			return nil, err
		}
		slog.Warn("[PRINTER] connect failed", "attempt", attempt+1, "error", err)
		lastErr = err
	}
	return nil, lastErr
}
