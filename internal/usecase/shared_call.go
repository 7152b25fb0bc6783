package usecase

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/hszk-dev/tubeproxy/internal/infrastructure/metrics"
)

// DefaultCallTimeout bounds a shared upstream call when no timeout is configured.
const DefaultCallTimeout = 30 * time.Second

// doShared runs fn once per key across concurrent callers.
//
// fn runs on a context detached from the caller's cancellation and bounded by
// timeout, so one caller going away does not fail the others or discard the
// result. Each caller still returns as soon as its own ctx is done.
func doShared(
	ctx context.Context,
	group *singleflight.Group,
	key string,
	timeout time.Duration,
	fn func(ctx context.Context) (any, error),
) (any, error) {
	if timeout <= 0 {
		timeout = DefaultCallTimeout
	}

	ch := group.DoChan(key, func() (any, error) {
		callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
		defer cancel()
		return fn(callCtx)
	})

	select {
	case res := <-ch:
		metrics.RecordSingleflight(res.Shared)
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
