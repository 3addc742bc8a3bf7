/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package runner

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"

	liberr "github.com/bjornaugestad/highlander-go/errors"
)

// Process hosts an ordered sequence of Runnables and drives their
// lifecycle: privilege drop, ordered startup with rollback on
// failure, then orderly shutdown on SIGTERM/SIGINT.
type Process struct {
	Root     string
	Username string

	mu        sync.Mutex
	runnables []Runnable
	started   []Runnable

	shuttingDown atomic.Bool
}

// NewProcess builds a Process hosting runnables in the given order.
func NewProcess(runnables ...Runnable) *Process {
	return &Process{runnables: runnables}
}

// ShuttingDown reports whether WaitForShutdown has begun tearing the
// process down. Runnables whose Run loop cannot otherwise observe
// context cancellation (e.g. one still blocked in accept()) can poll
// this instead.
func (p *Process) ShuttingDown() bool {
	return p.shuttingDown.Load()
}

// Start optionally daemonizes and drops privileges, then calls Do on
// every runnable in order. If any Do fails, Undo runs on every
// previously-succeeded runnable in reverse order and Start returns
// the failure. On success, Run is called on every runnable in order;
// Run is expected to return promptly, having started its own
// background goroutines.
func (p *Process) Start(ctx context.Context, forkAndClose bool) liberr.Error {
	if forkAndClose {
		if err := Daemonize(); err != nil {
			return err
		}
	}

	if p.Root != "" || p.Username != "" {
		if err := DropPrivileges(p.Root, p.Username); err != nil {
			return err
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	for _, r := range p.runnables {
		if err := r.Do(ctx); err != nil {
			p.unwindLocked(ctx)
			return liberr.New(ErrorDoFailed, "runnable startup failed", err)
		}
		p.started = append(p.started, r)
	}

	for _, r := range p.runnables {
		if err := r.Run(ctx); err != nil {
			return liberr.New(ErrorDoFailed, "runnable run failed", err)
		}
	}

	return nil
}

func (p *Process) unwindLocked(ctx context.Context) {
	for i := len(p.started) - 1; i >= 0; i-- {
		_ = p.started[i].Undo(ctx)
	}
	p.started = nil
}

// WaitForShutdown blocks until SIGTERM or SIGINT arrives, or ctx is
// cancelled. SIGPIPE is ignored from this call on. Once
// woken it sets the shutting-down flag, calls Shutdown on every
// runnable in reverse startup order, and returns the first error.
func (p *Process) WaitForShutdown(ctx context.Context) error {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGTERM, syscall.SIGINT)
	signal.Ignore(syscall.SIGPIPE)
	defer signal.Stop(sig)

	select {
	case <-sig:
	case <-ctx.Done():
	}

	return p.Shutdown(ctx)
}

// Shutdown calls Shutdown on every runnable in reverse startup order
// and returns the first error encountered, continuing to shut down
// the rest regardless.
func (p *Process) Shutdown(ctx context.Context) error {
	p.shuttingDown.Store(true)

	p.mu.Lock()
	order := p.started
	p.mu.Unlock()

	var firstErr error
	for i := len(order) - 1; i >= 0; i-- {
		if err := order[i].Shutdown(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
