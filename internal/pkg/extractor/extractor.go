package extractor

import (
	"strings"
	"time"

	"github.com/configured/adobe-launch-analyzer/internal/pkg/log"
	"github.com/configured/adobe-launch-analyzer/pkg/models"
)

// Assignment markers for the pattern-scan strategies. The primary form
// is how deployed bundles assign the container; the secondary form
// covers scripts that reference the runtime global directly in local
// scope.
const (
	primaryMarker   = "window._satellite.container"
	secondaryMarker = "_satellite.container"
)

// NotFoundError reports that no extraction strategy produced a usable
// container. It makes no distinction between a script that is not a
// tag-management bundle and one in an unrecognized format.
type NotFoundError struct {
	URL string
}

func (e *NotFoundError) Error() string {
	if e.URL == "" {
		return "no container found in script"
	}
	return "no container found in script at " + e.URL
}

// Extractor recovers a container from raw script text by trying, in
// order: full sandboxed execution, the primary assignment marker and the
// secondary assignment marker. Individual strategy failures are
// recoverable and silently skipped; only exhausting all strategies is an
// error.
type Extractor struct {
	sandbox *Sandbox
	literal *LiteralEvaluator
}

// New returns an Extractor with the given sandbox and literal execution
// budgets. Non-positive values fall back to the package defaults.
func New(sandboxTimeout, literalTimeout time.Duration) *Extractor {
	return &Extractor{
		sandbox: NewSandbox(sandboxTimeout),
		literal: NewLiteralEvaluator(literalTimeout),
	}
}

// Extract runs the strategy chain over scriptText and normalizes the
// first usable result.
func (e *Extractor) Extract(scriptText string) (*models.Container, error) {
	logger := log.NewFieldedLogger(&log.Fields{
		"component": "extractor",
	})

	if strings.TrimSpace(scriptText) == "" {
		return nil, &NotFoundError{}
	}

	if raw, ok := e.sandbox.Run(scriptText); ok {
		if container, usable := normalizeContainer(raw); usable {
			return container, nil
		}
		logger.Debug("sandboxed execution produced an unusable value")
	}

	for _, marker := range []string{primaryMarker, secondaryMarker} {
		raw, ok := e.extractByMarker(scriptText, marker)
		if !ok {
			continue
		}
		if container, usable := normalizeContainer(raw); usable {
			return container, nil
		}
		logger.Debug("marker scan produced an unusable value", "marker", marker)
	}

	return nil, &NotFoundError{}
}

// extractByMarker finds the first occurrence of the assignment pattern
// "<marker> = {", takes the balanced span from its opening brace and
// evaluates it as an object literal.
func (e *Extractor) extractByMarker(text, marker string) (models.Value, bool) {
	for offset := 0; offset < len(text); {
		idx := strings.Index(text[offset:], marker)
		if idx == -1 {
			return models.Absent(), false
		}
		idx += offset

		braceIdx := assignedBrace(text, idx+len(marker))
		if braceIdx == -1 {
			offset = idx + len(marker)
			continue
		}

		span, ok := FindBalancedSpan(text, braceIdx)
		if !ok {
			return models.Absent(), false
		}

		return e.literal.Evaluate(span)
	}
	return models.Absent(), false
}

// assignedBrace returns the index of the opening brace of an
// "= {" sequence starting at i, or -1 when the text at i is not an
// assignment of an object literal.
func assignedBrace(text string, i int) int {
	i = skipSpace(text, i)
	if i >= len(text) || text[i] != '=' {
		return -1
	}
	i = skipSpace(text, i+1)
	if i < len(text) && text[i] == '{' {
		return i
	}
	return -1
}

func skipSpace(text string, i int) int {
	for i < len(text) {
		switch text[i] {
		case ' ', '\t', '\n', '\r':
			i++
		default:
			return i
		}
	}
	return i
}
