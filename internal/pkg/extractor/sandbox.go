package extractor

import (
	"time"

	"github.com/dop251/goja"

	"github.com/configured/adobe-launch-analyzer/internal/pkg/log"
	"github.com/configured/adobe-launch-analyzer/pkg/models"
)

// DefaultSandboxTimeout is the execution budget for running a whole
// fetched script. Launch bundles can be megabytes of minified code, so
// it is more generous than the literal budget.
const DefaultSandboxTimeout = 10 * time.Second

// Sandbox executes an entire script inside an isolated VM populated with
// inert stand-ins for the globals a tag-management bundle expects, then
// reads the container off the stand-in state. It has no network,
// filesystem or timer capability.
type Sandbox struct {
	timeout time.Duration
}

// NewSandbox returns a sandbox with the given execution budget. A
// non-positive timeout falls back to DefaultSandboxTimeout.
func NewSandbox(timeout time.Duration) *Sandbox {
	if timeout <= 0 {
		timeout = DefaultSandboxTimeout
	}
	return &Sandbox{timeout: timeout}
}

// Run executes scriptText and returns the container value found on
// window._satellite.container or _satellite.container. Any execution
// error is the expected failure mode for many real-world scripts and
// yields ok == false without aborting the caller's fallback chain.
func (s *Sandbox) Run(scriptText string) (val models.Value, ok bool) {
	logger := log.NewFieldedLogger(&log.Fields{
		"component": "extractor.sandbox",
	})

	defer func() {
		if r := recover(); r != nil {
			logger.Debug("sandboxed execution panicked", "panic", r)
			val, ok = models.Absent(), false
		}
	}()

	vm := goja.New()

	satellite := vm.NewObject()
	window := vm.NewObject()
	window.Set("_satellite", satellite)
	window.Set("location", vm.NewObject())
	vm.Set("window", window)
	vm.Set("_satellite", satellite)
	vm.Set("self", window)
	vm.Set("document", vm.NewObject())
	vm.Set("navigator", vm.NewObject())
	vm.Set("localStorage", vm.NewObject())

	// Timer primitives are no-ops so scheduling code neither hangs the
	// evaluator nor has visible side effects.
	noop := func(call goja.FunctionCall) goja.Value { return goja.Undefined() }
	for _, name := range []string{"setTimeout", "setInterval", "clearTimeout", "clearInterval"} {
		vm.Set(name, noop)
	}

	timer := time.AfterFunc(s.timeout, func() {
		vm.Interrupt(errEvaluationTimeout)
	})
	defer timer.Stop()

	if _, err := vm.RunString(scriptText); err != nil {
		logger.Debug("sandboxed execution failed", "err", err.Error())
		return models.Absent(), false
	}

	container := lookupContainer(vm)
	if container == nil {
		return models.Absent(), false
	}

	serialized, err := serialize(vm, container)
	if err != nil {
		logger.Debug("container serialization failed", "err", err.Error())
		return models.Absent(), false
	}

	return serialized, true
}

// lookupContainer checks the two conventional container locations on the
// stand-in globals, re-reading them from the VM since a script may have
// replaced either binding wholesale.
func lookupContainer(vm *goja.Runtime) goja.Value {
	if window, isObj := vm.Get("window").(*goja.Object); isObj {
		if c := containerOn(window.Get("_satellite")); c != nil {
			return c
		}
	}
	return containerOn(vm.Get("_satellite"))
}

func containerOn(v goja.Value) goja.Value {
	obj, isObj := v.(*goja.Object)
	if !isObj {
		return nil
	}
	c := obj.Get("container")
	if c == nil || goja.IsUndefined(c) || goja.IsNull(c) {
		return nil
	}
	return c
}
