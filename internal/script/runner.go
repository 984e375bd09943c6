// Package script runs Lua edit scripts against a document.
//
// A script sees the document as the global table doc:
//
//	local n = doc.line_count()
//	doc.group("Number lines", function()
//	    for i = n - 1, 0, -1 do
//	        local start = 0
//	        -- ...
//	        doc.insert(start, i .. ": ")
//	    end
//	end)
//
// Every edit goes through the document's undo history. Edit failures raise
// Lua errors whose message starts with the error kind, such as
// "OutOfRange: ...", so scripts can pcall them and inspect the message.
//
// Scripts run in a sandbox: only the base, table, string and math
// libraries are available, and load, dofile, loadfile and require are
// removed.
package script

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/textcore/internal/engine"
)

// DefaultTimeout bounds script execution when no timeout is configured.
const DefaultTimeout = 5 * time.Second

// Runner executes Lua scripts. A Runner holds no Lua state between runs
// and may be reused.
type Runner struct {
	timeout time.Duration
	output  io.Writer
	logger  *slog.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithTimeout bounds how long a script may run. 0 means no limit.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) {
		if d >= 0 {
			r.timeout = d
		}
	}
}

// WithOutput sets where the Lua print function writes.
func WithOutput(w io.Writer) Option {
	return func(r *Runner) {
		if w != nil {
			r.output = w
		}
	}
}

// WithLogger sets the logger for script events.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New creates a Runner.
func New(opts ...Option) *Runner {
	r := &Runner{
		timeout: DefaultTimeout,
		output:  os.Stdout,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RunFile runs the script at path against doc.
func (r *Runner) RunFile(ctx context.Context, doc *engine.Document, path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading script: %w", err)
	}
	return r.Run(ctx, doc, path, string(src))
}

// Run runs source against doc. name identifies the script in errors.
// Edits made before a failure stay applied and can be undone.
func (r *Runner) Run(ctx context.Context, doc *engine.Document, name, source string) error {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	L := newSandboxedState(r.output)
	defer L.Close()
	L.SetContext(ctx)

	mod := &docModule{doc: doc}
	mod.register(L)

	fn, err := L.Load(strings.NewReader(source), name)
	if err != nil {
		return &Error{Script: name, Message: err.Error(), Err: err}
	}

	start := time.Now()
	L.Push(fn)
	err = r.protect(func() error { return L.PCall(0, lua.MultRet, nil) })

	r.logger.Debug("script finished",
		slog.String("script", name),
		slog.Duration("elapsed", time.Since(start)),
		slog.Bool("ok", err == nil))

	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return &Error{Script: name, Message: ErrTimeout.Error(), Err: ErrTimeout}
		}
		return &Error{Script: name, Message: ctxErr.Error(), Err: ctxErr}
	}
	return mod.wrap(name, err)
}

// protect runs fn, converting a Go panic raised inside Lua into an error.
func (r *Runner) protect(fn func() error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("lua panic: %v", p)
		}
	}()
	return fn()
}

// wrap builds the Error for a failed run, attributing it to the last edit
// error when that error is what reached the top.
func (m *docModule) wrap(name string, err error) error {
	msg := err.Error()
	var apiErr *lua.ApiError
	if errors.As(err, &apiErr) && apiErr.Object != nil {
		msg = apiErr.Object.String()
	}

	cause := err
	if m.lastErr != nil && strings.Contains(msg, m.lastMsg) {
		cause = m.lastErr
	}
	return &Error{Script: name, Message: msg, Err: cause}
}

// newSandboxedState creates a Lua state with only safe libraries opened.
func newSandboxedState(out io.Writer) *lua.LState {
	L := lua.NewState(lua.Options{
		SkipOpenLibs: true, // We'll open selectively
	})

	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	// Remove functions that load code from outside the script
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "module"} {
		L.SetGlobal(name, lua.LNil)
	}

	L.SetGlobal("print", L.NewFunction(func(L *lua.LState) int {
		parts := make([]string, L.GetTop())
		for i := range parts {
			parts[i] = L.ToStringMeta(L.Get(i + 1)).String()
		}
		fmt.Fprintln(out, strings.Join(parts, "\t"))
		return 0
	}))

	return L
}
