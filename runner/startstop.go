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
	"sync"
	"sync/atomic"
)

// StartStop turns a blocking start function and a stop function into
// the Run/Shutdown half of a Runnable. start is launched in its own
// goroutine and is expected to block until its context is cancelled;
// Shutdown calls stop, cancels that context, and waits for start to
// return.
type StartStop struct {
	start func(ctx context.Context) error
	stop  func(ctx context.Context) error

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	running atomic.Bool
	lastErr error
}

// NewStartStop builds a StartStop around the given start/stop pair.
// stop may be nil if cancelling the context is enough to unblock
// start.
func NewStartStop(start func(ctx context.Context) error, stop func(ctx context.Context) error) *StartStop {
	return &StartStop{start: start, stop: stop}
}

// Run launches start in a new goroutine, first stopping any instance
// already running.
func (s *StartStop) Run(ctx context.Context) error {
	if s.running.Load() {
		_ = s.Shutdown(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	done := make(chan struct{})
	s.done = done
	s.running.Store(true)

	go func() {
		defer close(done)
		defer s.running.Store(false)
		s.lastErr = s.start(runCtx)
	}()

	return nil
}

// Shutdown calls stop (if set), cancels start's context, and waits
// for start to return or ctx to expire, whichever comes first.
func (s *StartStop) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	cancel := s.cancel
	done := s.done
	s.mu.Unlock()

	if cancel == nil {
		return nil
	}

	var stopErr error
	if s.stop != nil {
		stopErr = s.stop(ctx)
	}
	cancel()

	if done != nil {
		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return stopErr
}

// IsRunning reports whether start is currently executing.
func (s *StartStop) IsRunning() bool { return s.running.Load() }

// Err returns the error start last returned, once it has returned.
func (s *StartStop) Err() error { return s.lastErr }
