package dispatch

import (
	"context"

	"github.com/danmuck/nexrmc/internal/protocol/nex"
	"golang.org/x/sync/errgroup"
)

// BatchResult is the outcome for raws[Index]. Err is set when that message
// alone failed to parse or decode.
type BatchResult struct {
	Index   int
	Decoded *Decoded
	Err     error
}

// DecodeBatch decodes independent messages concurrently with at most workers
// in flight. A malformed message only fails its own result; the returned
// error is set only when ctx is cancelled.
func (d *Dispatcher) DecodeBatch(ctx context.Context, raws [][]byte, nexCtx nex.Context, workers int) ([]BatchResult, error) {
	results := make([]BatchResult, len(raws))
	g, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, raw := range raws {
		if gctx.Err() != nil {
			break
		}
		i, raw := i, raw
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			decoded, err := d.DecodeRaw(raw, nexCtx)
			results[i] = BatchResult{Index: i, Decoded: decoded, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	if err := ctx.Err(); err != nil {
		return results, err
	}
	return results, nil
}
