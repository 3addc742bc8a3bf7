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

// Package threadpool is a fixed-size worker pool draining a bounded
// FIFO of work items. Each item carries an optional init callback, a
// work callback, and an optional cleanup callback, all run on the same
// worker goroutine in that order. Admission to the FIFO when it is
// full follows one of two policies: block the caller until room
// appears, or reject immediately and count the rejection.
package threadpool

import (
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/semaphore"

	liberr "github.com/bjornaugestad/highlander-go/errors"
)

// Policy selects what AddWork does when the FIFO is full.
type Policy int

const (
	// Block makes AddWork wait until a slot frees up.
	Block Policy = iota
	// Reject makes AddWork fail immediately and count a discard.
	Reject
)

// WorkItem is one unit of work: an optional Init, a required Work, and
// an optional Cleanup, each called with its own argument.
type WorkItem struct {
	Init    func(arg any)
	InitArg any

	Work    func(arg any)
	WorkArg any

	Cleanup    func(arg any)
	CleanupArg any
}

func (w WorkItem) run() {
	if w.Init != nil {
		w.Init(w.InitArg)
	}
	if w.Work != nil {
		w.Work(w.WorkArg)
	}
	if w.Cleanup != nil {
		w.Cleanup(w.CleanupArg)
	}
}

// Pool is a fixed number of worker goroutines servicing a bounded FIFO.
type Pool struct {
	policy  Policy
	queue   chan WorkItem
	done    chan struct{}
	workers int64
	sem     *semaphore.Weighted
	wg      sync.WaitGroup

	closed atomic.Bool

	added     atomic.Int64
	discarded atomic.Int64
	blocked   atomic.Int64
}

// New starts a Pool with numWorkers worker goroutines and a FIFO
// bounded at queueSize items.
func New(numWorkers, queueSize int, policy Policy) *Pool {
	if numWorkers < 1 {
		numWorkers = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}

	p := &Pool{
		policy:  policy,
		queue:   make(chan WorkItem, queueSize),
		done:    make(chan struct{}),
		workers: int64(numWorkers),
		sem:     semaphore.NewWeighted(int64(numWorkers)),
	}

	p.wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go p.worker()
	}

	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for item := range p.queue {
		_ = p.sem.Acquire(context.Background(), 1)
		item.run()
		p.sem.Release(1)
	}
}

// AddWork enqueues item. Under Block policy it waits for room; under
// Reject policy it fails immediately when the FIFO is full.
func (p *Pool) AddWork(item WorkItem) liberr.Error {
	if p.closed.Load() {
		return liberr.New(ErrorShutdown, "pool closed")
	}

	select {
	case p.queue <- item:
		p.added.Add(1)
		return nil
	default:
	}

	if p.policy == Reject {
		p.discarded.Add(1)
		return liberr.New(ErrorQueueFull, "queue full")
	}

	p.blocked.Add(1)
	select {
	case p.queue <- item:
		p.added.Add(1)
		return nil
	case <-p.done:
		return liberr.New(ErrorShutdown, "pool closed while waiting for room")
	}
}

// WaitAll blocks until no worker is currently executing an item. It
// does not drain the queue; items already queued but not yet picked up
// by a worker are unaffected. Mirrors the acquire-the-full-weight
// idiom used to implement WaitAll over a weighted semaphore.
func (p *Pool) WaitAll(ctx context.Context) error {
	if err := p.sem.Acquire(ctx, p.workers); err != nil {
		return err
	}
	p.sem.Release(p.workers)
	return nil
}

// Shutdown stops accepting new work and waits for queued and in-flight
// work to complete. It is Destroy(true).
func (p *Pool) Shutdown() {
	p.Destroy(true)
}

// Destroy stops accepting new work. If finish is true, items already
// queued are allowed to run before the pool stops; if false, queued
// items are drained and counted as discards, while workers keep taking
// items from the same queue until it is empty, so some queued items
// may still run. Either way Destroy waits for every worker to exit
// before returning.
func (p *Pool) Destroy(finish bool) {
	if !p.closed.CompareAndSwap(false, true) {
		p.wg.Wait()
		return
	}

	close(p.done)

	if !finish {
		go func() {
			for range p.queue {
				p.discarded.Add(1)
			}
		}()
	}

	close(p.queue)
	p.wg.Wait()
}

// Added returns the number of items successfully enqueued.
func (p *Pool) Added() int64 { return p.added.Load() }

// Discarded returns the number of items rejected because the FIFO was
// full under Reject policy, plus those drained by Destroy(false).
func (p *Pool) Discarded() int64 { return p.discarded.Load() }

// Blocked returns the number of AddWork calls that had to wait for
// room under Block policy.
func (p *Pool) Blocked() int64 { return p.blocked.Load() }
