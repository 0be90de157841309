// Package batch bounds concurrent fan-out against shared signer endpoints.
//
// Remote, extension and external signers have real per-call latency and may
// throttle; unbounded fan-out risks request storms while full serialisation
// makes bulk decryption crawl. Map caps in-flight work and keeps results in
// input order regardless of completion order.
package batch

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// DefaultLimit is the concurrency bound when callers pass limit <= 0.
const DefaultLimit = 8

// Map applies fn to every item with at most limit calls in flight, returning
// results in input order. Every item runs to completion: a failing item does
// not abort the batch, its error is reported per index and joined into the
// returned error. Callers that want all-or-nothing can discard the partial
// results on error.
func Map[T, R any](ctx context.Context, limit int, in []T, fn func(context.Context, T) (R, error)) ([]R, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	out := make([]R, len(in))
	errs := make([]error, len(in))

	var g errgroup.Group
	g.SetLimit(limit)
	for i, item := range in {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return nil
			}
			out[i], errs[i] = fn(ctx, item)
			return nil
		})
	}
	_ = g.Wait()

	var failed []error
	for i, err := range errs {
		if err != nil {
			failed = append(failed, fmt.Errorf("item %d: %w", i, err))
		}
	}
	if len(failed) > 0 {
		return out, errors.Join(failed...)
	}
	return out, nil
}
