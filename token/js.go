package token

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dop251/goja"
	"github.com/kissbridge/kissbridge/constant"
)

var (
	// ErrTimeout is returned when a script exceeds its execution budget.
	ErrTimeout = errors.New("token script timed out")
	// ErrNoFunction is returned when the script does not define the token function.
	ErrNoFunction = errors.New("token function not defined")
)

var programCache sync.Map

// JSEngine evaluates the upstream bundle in an isolated goja runtime. Each evaluation gets a
// fresh runtime that exposes only a window object carrying an origin URL and a navigator;
// there is no module loader, filesystem, network or process access.
type JSEngine struct {
	function string
	origin   string
	timeout  time.Duration
}

// NewJSEngine returns an engine calling function with the given page origin and time budget.
func NewJSEngine(function, origin string, timeout time.Duration) *JSEngine {
	return &JSEngine{function: function, origin: origin, timeout: timeout}
}

// Eval runs script and calls the token function with the arguments of call.
// A nil, null or undefined result is an empty token, not an error.
func (e *JSEngine) Eval(ctx context.Context, script string, call Call) (string, error) {
	program, err := compile(script)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	vm := goja.New()
	if err := e.install(vm); err != nil {
		return "", err
	}

	stop := context.AfterFunc(ctx, func() {
		vm.Interrupt(ErrTimeout)
	})
	defer stop()

	if _, err := vm.RunProgram(program); err != nil {
		return "", e.wrap(ctx, err)
	}

	fn, ok := goja.AssertFunction(vm.Get(e.function))
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNoFunction, e.function)
	}

	value, err := fn(goja.Undefined(), call.jsArgs(vm)...)
	if err != nil {
		return "", e.wrap(ctx, err)
	}

	if value == nil || goja.IsUndefined(value) || goja.IsNull(value) {
		return "", nil
	}

	return value.String(), nil
}

func (e *JSEngine) install(vm *goja.Runtime) error {
	navigator := vm.NewObject()
	for k, v := range map[string]string{
		"userAgent":   constant.UserAgent,
		"platform":    "Win32",
		"appCodeName": "Mozilla",
		"appName":     "Netscape",
	} {
		if err := navigator.Set(k, v); err != nil {
			return err
		}
	}

	document := vm.NewObject()
	if err := document.Set("URL", e.origin); err != nil {
		return err
	}

	window := vm.NewObject()
	if err := window.Set("document", document); err != nil {
		return err
	}
	if err := window.Set("navigator", navigator); err != nil {
		return err
	}

	return vm.Set("window", window)
}

func (e *JSEngine) wrap(ctx context.Context, err error) error {
	var interrupted *goja.InterruptedError
	if errors.As(err, &interrupted) || ctx.Err() != nil {
		return fmt.Errorf("%w after %s", ErrTimeout, e.timeout)
	}

	return fmt.Errorf("token script: %w", err)
}

// compile parses script once per distinct content and reuses the program afterwards.
func compile(script string) (*goja.Program, error) {
	sum := sha256.Sum256([]byte(script))
	hash := hex.EncodeToString(sum[:])

	if cached, ok := programCache.Load(hash); ok {
		return cached.(*goja.Program), nil
	}

	program, err := goja.Compile("common.js", script, false)
	if err != nil {
		return nil, fmt.Errorf("compile token script: %w", err)
	}

	programCache.Store(hash, program)
	return program, nil
}
