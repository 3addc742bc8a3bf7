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

// Package runner hosts an ordered sequence of Runnables: components
// that acquire a resource (Do), release it on startup failure (Undo),
// start doing work in the background (Run), and tear that work down
// on shutdown (Shutdown).
package runner

import "context"

// Runnable is one component managed by a Process. Do and Undo are
// paired acquire/release steps run once at startup; Run starts the
// component's background work and must return promptly; Shutdown
// stops that work.
type Runnable interface {
	Do(ctx context.Context) error
	Undo(ctx context.Context) error
	Run(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// Func adapts four plain functions into a Runnable. Any nil function
// is treated as a no-op, so callers only need to supply the steps
// that matter for their component.
type Func struct {
	DoFunc       func(ctx context.Context) error
	UndoFunc     func(ctx context.Context) error
	RunFunc      func(ctx context.Context) error
	ShutdownFunc func(ctx context.Context) error
}

func (f Func) Do(ctx context.Context) error {
	if f.DoFunc == nil {
		return nil
	}
	return f.DoFunc(ctx)
}

func (f Func) Undo(ctx context.Context) error {
	if f.UndoFunc == nil {
		return nil
	}
	return f.UndoFunc(ctx)
}

func (f Func) Run(ctx context.Context) error {
	if f.RunFunc == nil {
		return nil
	}
	return f.RunFunc(ctx)
}

func (f Func) Shutdown(ctx context.Context) error {
	if f.ShutdownFunc == nil {
		return nil
	}
	return f.ShutdownFunc(ctx)
}
