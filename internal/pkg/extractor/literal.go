package extractor

import (
	"errors"
	"time"

	"github.com/dop251/goja"

	"github.com/configured/adobe-launch-analyzer/internal/pkg/log"
	"github.com/configured/adobe-launch-analyzer/pkg/models"
)

// DefaultLiteralTimeout is the execution budget for evaluating a single
// object literal.
const DefaultLiteralTimeout = 5 * time.Second

var errEvaluationTimeout = errors.New("evaluation time budget exceeded")

// LiteralEvaluator evaluates a self-contained object-literal string in an
// isolated VM with no ambient globals beyond an inert window stand-in.
type LiteralEvaluator struct {
	timeout time.Duration
}

// NewLiteralEvaluator returns an evaluator with the given execution
// budget. A non-positive timeout falls back to DefaultLiteralTimeout.
func NewLiteralEvaluator(timeout time.Duration) *LiteralEvaluator {
	if timeout <= 0 {
		timeout = DefaultLiteralTimeout
	}
	return &LiteralEvaluator{timeout: timeout}
}

// Evaluate wraps literalText in a parenthesized expression, runs it and
// returns the structured result. Any evaluation error, panic or timeout
// yields ok == false; nothing propagates to the caller.
func (e *LiteralEvaluator) Evaluate(literalText string) (val models.Value, ok bool) {
	logger := log.NewFieldedLogger(&log.Fields{
		"component": "extractor.literal",
	})

	defer func() {
		if r := recover(); r != nil {
			logger.Debug("literal evaluation panicked", "panic", r)
			val, ok = models.Absent(), false
		}
	}()

	vm := goja.New()
	vm.Set("window", vm.NewObject())

	timer := time.AfterFunc(e.timeout, func() {
		vm.Interrupt(errEvaluationTimeout)
	})
	defer timer.Stop()

	result, err := vm.RunString("(" + literalText + ")")
	if err != nil {
		logger.Debug("literal evaluation failed", "err", err.Error())
		return models.Absent(), false
	}

	serialized, err := serialize(vm, result)
	if err != nil {
		logger.Debug("literal serialization failed", "err", err.Error())
		return models.Absent(), false
	}

	return serialized, true
}
