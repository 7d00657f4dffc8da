package fastimage

import (
	"context"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// BatchOptions controls AnalyzeAll.
type BatchOptions struct {
	// Concurrency is the maximum number of analyses in flight. Values below
	// one mean one.
	Concurrency int

	// RequestsPerSecond limits how fast analyses start. Zero means no limit.
	RequestsPerSecond float64
}

// BatchResult holds the outcome for one locator.
type BatchResult struct {
	Locator string
	Info    *ImageInfo
	Err     error
}

// AnalyzeAll analyzes every locator and returns the results in input order.
// A failed analysis does not stop the others; its error is kept in the
// result. AnalyzeAll returns an error only when ctx ends while waiting to
// start the next analysis; locators not yet started have neither Info nor Err.
func (a *Analyzer) AnalyzeAll(ctx context.Context, locators []string, opts BatchOptions) ([]BatchResult, error) {
	results := make([]BatchResult, len(locators))
	for i, locator := range locators {
		results[i].Locator = locator
	}

	concurrency := opts.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	var limiter *rate.Limiter
	if opts.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}

	var g errgroup.Group
	g.SetLimit(concurrency)

	for i, locator := range locators {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				g.Wait()
				return results, err
			}
		}
		g.Go(func() error {
			info, err := a.Analyze(ctx, locator)
			results[i].Info = info
			results[i].Err = err
			return nil
		})
	}

	g.Wait()
	return results, nil
}

// AnalyzeAll analyzes locators with the default Analyzer.
func AnalyzeAll(ctx context.Context, locators []string, opts BatchOptions) ([]BatchResult, error) {
	return Default().AnalyzeAll(ctx, locators, opts)
}
