// Package analyzer sequences discovery and extraction: it feeds the
// finder's output through the container extractor, each call wrapped by
// the retrier, and merges the per-script results.
package analyzer

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/configured/adobe-launch-analyzer/internal/pkg/extractor"
	"github.com/configured/adobe-launch-analyzer/internal/pkg/fetcher"
	"github.com/configured/adobe-launch-analyzer/internal/pkg/finder"
	"github.com/configured/adobe-launch-analyzer/internal/pkg/log"
	"github.com/configured/adobe-launch-analyzer/internal/pkg/retrier"
	"github.com/configured/adobe-launch-analyzer/pkg/models"
)

// Options configures the retry policy applied to every fetch+extract
// call.
type Options struct {
	MaxAttempts  int
	Backoff      retrier.Backoff
	InitialDelay time.Duration
	// Clock defaults to the real clock; tests inject a fake one.
	Clock clockwork.Clock
}

// Analyzer owns one fetcher/extractor/finder trio and runs extractions
// against them sequentially, keeping discovery order deterministic.
type Analyzer struct {
	fetcher   *fetcher.Client
	extractor *extractor.Extractor
	finder    *finder.Finder
	clock     clockwork.Clock
	opts      Options
}

// New wires an Analyzer together.
func New(client *fetcher.Client, ex *extractor.Extractor, fi *finder.Finder, opts Options) *Analyzer {
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 1
	}
	return &Analyzer{
		fetcher:   client,
		extractor: ex,
		finder:    fi,
		clock:     clock,
		opts:      opts,
	}
}

// AnalyzeURL fetches a single script URL and extracts its container.
// Terminal failures (retry budget exhausted, no container found,
// malformed URL) are returned to the caller.
func (a *Analyzer) AnalyzeURL(ctx context.Context, rawURL string) (*models.ExtractionResult, error) {
	normalized, ok := finder.Normalize(rawURL)
	if !ok {
		return nil, &finder.InvalidURLError{Raw: rawURL}
	}

	container, err := a.extractFromURL(ctx, normalized)
	if err != nil {
		return nil, err
	}

	return &models.ExtractionResult{
		ID:          uuid.NewString(),
		URL:         normalized,
		Container:   container,
		ExtractedAt: a.clock.Now(),
	}, nil
}

// AnalyzeRecursive discovers every reachable tag-management script from
// startURL and extracts each one independently. Individual script
// failures are recorded and do not abort the run.
func (a *Analyzer) AnalyzeRecursive(ctx context.Context, startURL string, maxDepth int) (*models.MergedResult, error) {
	logger := log.NewFieldedLogger(&log.Fields{
		"component": "analyzer",
	})

	normalized, ok := finder.Normalize(startURL)
	if !ok {
		return nil, &finder.InvalidURLError{Raw: startURL}
	}

	scripts, err := a.finder.Discover(ctx, normalized, maxDepth)
	if err != nil {
		return nil, err
	}
	logger.Info("discovery finished", "startUrl", normalized, "scripts", len(scripts))

	result := &models.MergedResult{
		ID:        uuid.NewString(),
		StartURL:  normalized,
		Sources:   []string{},
		Container: models.NewContainer(),
		Scripts:   []models.ScriptRecord{},
	}

	for _, script := range scripts {
		record := models.ScriptRecord{URL: script.URL}

		container, err := a.extractFromURL(ctx, script.URL)
		if err != nil {
			record.Error = err.Error()
			logger.Warn("script extraction failed", "url", script.URL, "err", err.Error())
		} else {
			record.Success = true
			record.RuleCount = len(container.Rules)
			mergeInto(result.Container, container)
		}

		result.Sources = append(result.Sources, script.URL)
		result.Scripts = append(result.Scripts, record)
	}

	return result, nil
}

// extractFromURL runs one retry-wrapped fetch+extract cycle.
func (a *Analyzer) extractFromURL(ctx context.Context, url string) (*models.Container, error) {
	opts := retrier.Options{
		Context:      "extract " + url,
		MaxAttempts:  a.opts.MaxAttempts,
		Backoff:      a.opts.Backoff,
		InitialDelay: a.opts.InitialDelay,
		Classify:     extractionRetryable,
		Clock:        a.clock,
	}

	return retrier.Do(ctx, opts, func(ctx context.Context) (*models.Container, error) {
		body, _, err := a.fetcher.Fetch(ctx, url)
		if err != nil {
			return nil, err
		}
		container, err := a.extractor.Extract(body)
		if err != nil {
			var notFound *extractor.NotFoundError
			if errors.As(err, &notFound) {
				// annotate with the source URL before surfacing
				return nil, &extractor.NotFoundError{URL: url}
			}
			return nil, err
		}
		return container, nil
	})
}

// extractionRetryable retries transient transport failures only; a
// missing container is terminal no matter how often we fetch the same
// script.
func extractionRetryable(err error) bool {
	var notFound *extractor.NotFoundError
	if errors.As(err, &notFound) {
		return false
	}
	return retrier.Retryable(err)
}
