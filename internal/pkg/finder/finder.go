// Package finder discovers tag-management scripts reachable from a
// starting URL by following page and script references down to a bounded
// depth.
package finder

import (
	"context"
	"strings"

	"github.com/jonboulle/clockwork"
	"github.com/zeebo/xxh3"
	"mvdan.cc/xurls/v2"

	"github.com/configured/adobe-launch-analyzer/internal/pkg/fetcher"
	"github.com/configured/adobe-launch-analyzer/internal/pkg/log"
	"github.com/configured/adobe-launch-analyzer/pkg/models"
)

// DefaultMaxDepth bounds a crawl when no depth is configured.
const DefaultMaxDepth = 3

// Finder crawls pages and scripts for tag-management runtime bundles.
// It is stateless across runs; each Discover call owns its own visited
// set and discovery list.
type Finder struct {
	fetcher          *fetcher.Client
	clock            clockwork.Clock
	followScriptRefs bool
}

// New returns a Finder using the given HTTP client. When
// followScriptRefs is set, recognized scripts are themselves fetched and
// scanned for further vendor-hosted script URLs.
func New(client *fetcher.Client, clock clockwork.Clock, followScriptRefs bool) *Finder {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Finder{
		fetcher:          client,
		clock:            clock,
		followScriptRefs: followScriptRefs,
	}
}

// run is the state of one crawl: a monotonically growing visited set
// keyed on the hashed normalized URL, and the ordered discovery list.
type run struct {
	visited    map[uint64]struct{}
	discovered []models.DiscoveredScript
	maxDepth   int
}

// Discover walks the reference graph from startURL down to maxDepth and
// returns the recognized scripts in traversal order. Per-URL fetch or
// parse failures are logged and treated as dead ends; they never abort
// the crawl.
func (f *Finder) Discover(ctx context.Context, startURL string, maxDepth int) ([]models.DiscoveredScript, error) {
	normalized, ok := Normalize(startURL)
	if !ok {
		return nil, &InvalidURLError{Raw: startURL}
	}
	if maxDepth < 0 {
		maxDepth = DefaultMaxDepth
	}

	r := &run{
		visited:  make(map[uint64]struct{}),
		maxDepth: maxDepth,
	}
	f.visit(ctx, r, normalized, 0)

	return r.discovered, nil
}

func (f *Finder) visit(ctx context.Context, r *run, u string, depth int) {
	if depth > r.maxDepth || ctx.Err() != nil {
		return
	}

	// Mark before any network call so re-entrant cycles stop here.
	key := xxh3.HashString(u)
	if _, seen := r.visited[key]; seen {
		return
	}
	r.visited[key] = struct{}{}

	logger := log.NewFieldedLogger(&log.Fields{
		"component": "finder",
	})

	if IsScriptURL(u) {
		if !IsRecognizedScript(u) {
			return
		}
		r.discovered = append(r.discovered, models.DiscoveredScript{
			URL:          u,
			DiscoveredAt: f.clock.Now(),
		})
		logger.Info("discovered tag-management script", "url", u, "depth", depth)

		if !f.followScriptRefs {
			return
		}
		body, _, err := f.fetcher.Fetch(ctx, u)
		if err != nil {
			logger.Warn("unable to fetch script content", "url", u, "err", err.Error())
			return
		}
		for _, ref := range scriptURLsInText(body) {
			f.visit(ctx, r, ref, depth+1)
		}
		return
	}

	body, _, err := f.fetcher.Fetch(ctx, u)
	if err != nil {
		logger.Warn("unable to fetch page", "url", u, "err", err.Error())
		return
	}
	for _, ref := range ScriptReferences(body, u) {
		f.visit(ctx, r, ref, depth+1)
	}
}

var textURLs = xurls.Strict()

// scriptURLsInText pulls recognized script URLs straight out of raw
// script text. Minified bundles embed loader URLs as string literals, so
// trailing quote characters are trimmed before normalization.
func scriptURLsInText(text string) []string {
	var found []string
	for _, match := range textURLs.FindAllString(text, -1) {
		normalized, ok := Normalize(strings.TrimRight(match, `"'`))
		if !ok {
			continue
		}
		if IsScriptURL(normalized) && IsRecognizedScript(normalized) {
			found = append(found, normalized)
		}
	}
	return found
}
