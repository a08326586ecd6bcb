package document

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// ExtractBatch extracts every request and returns the results in input
// order. Items run concurrently up to Options.Concurrency; items that never
// started because ctx ended carry the context error.
func (e *Extractor) ExtractBatch(ctx context.Context, reqs []Request) []Result {
	results := make([]Result, len(reqs))
	started := make([]bool, len(reqs))

	g := new(errgroup.Group)
	g.SetLimit(e.opts.Concurrency)

	for i := range reqs {
		if ctx.Err() != nil {
			break
		}
		started[i] = true
		g.Go(func() error {
			results[i] = e.Extract(ctx, reqs[i])
			return nil
		})
	}
	_ = g.Wait()

	for i, ok := range started {
		if ok {
			continue
		}
		results[i] = Result{
			FileName: reqs[i].FileName,
			Format:   ExtensionFormat(reqs[i].FileName),
			Size:     len(reqs[i].Content),
			Error:    ctx.Err().Error(),
		}
	}

	return results
}
