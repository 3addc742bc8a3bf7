package threadpool_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bjornaugestad/highlander-go/threadpool"
)

func TestAddWorkRunsWork(t *testing.T) {
	p := threadpool.New(2, 4, threadpool.Reject)
	defer p.Shutdown()

	var ran atomic.Bool
	done := make(chan struct{})

	err := p.AddWork(threadpool.WorkItem{
		Work: func(any) {
			ran.Store(true)
			close(done)
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("work item never ran")
	}

	if !ran.Load() {
		t.Fatal("expected work to have run")
	}
}

func TestInitWorkCleanupOrder(t *testing.T) {
	p := threadpool.New(1, 1, threadpool.Reject)
	defer p.Shutdown()

	var order []string
	done := make(chan struct{})

	err := p.AddWork(threadpool.WorkItem{
		Init:    func(any) { order = append(order, "init") },
		Work:    func(any) { order = append(order, "work") },
		Cleanup: func(any) { order = append(order, "cleanup"); close(done) },
	})
	if err != nil {
		t.Fatal(err)
	}

	<-done

	want := []string{"init", "work", "cleanup"}
	if len(order) != 3 {
		t.Fatalf("expected 3 steps, got %v", order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, order)
		}
	}
}

func TestRejectPolicyDiscardsWhenFull(t *testing.T) {
	block := make(chan struct{})
	p := threadpool.New(1, 1, threadpool.Reject)
	defer func() {
		close(block)
		p.Shutdown()
	}()

	// Occupy the single worker.
	_ = p.AddWork(threadpool.WorkItem{Work: func(any) { <-block }})
	// Fill the single queue slot.
	_ = p.AddWork(threadpool.WorkItem{Work: func(any) { <-block }})

	time.Sleep(20 * time.Millisecond)

	if err := p.AddWork(threadpool.WorkItem{Work: func(any) {}}); err == nil {
		t.Fatal("expected the third item to be rejected")
	}
	if p.Discarded() != 1 {
		t.Fatalf("expected 1 discarded item, got %d", p.Discarded())
	}
}

func TestBlockPolicyWaitsForRoom(t *testing.T) {
	release := make(chan struct{})
	p := threadpool.New(1, 1, threadpool.Block)
	defer p.Shutdown()

	_ = p.AddWork(threadpool.WorkItem{Work: func(any) { <-release }})
	_ = p.AddWork(threadpool.WorkItem{Work: func(any) {}})

	addResult := make(chan error, 1)
	go func() {
		addResult <- p.AddWork(threadpool.WorkItem{Work: func(any) {}})
	}()

	select {
	case <-addResult:
		t.Fatal("AddWork should block while the queue is full")
	case <-time.After(30 * time.Millisecond):
	}

	close(release)

	select {
	case err := <-addResult:
		if err != nil {
			t.Fatalf("expected blocked AddWork to eventually succeed, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("blocked AddWork never returned")
	}

	if p.Blocked() == 0 {
		t.Fatal("expected Blocked() to record at least one wait")
	}
}

func TestDestroyFalseDiscardsQueuedWork(t *testing.T) {
	p := threadpool.New(1, 4, threadpool.Reject)

	release := make(chan struct{})
	_ = p.AddWork(threadpool.WorkItem{Work: func(any) { <-release }})

	var ranCount atomic.Int32
	for i := 0; i < 3; i++ {
		_ = p.AddWork(threadpool.WorkItem{Work: func(any) { ranCount.Add(1) }})
	}

	close(release)
	p.Destroy(false)

	if ranCount.Load()+p.Discarded() != 3 {
		t.Fatalf("expected queued items to either run or be discarded, got ran=%d discarded=%d", ranCount.Load(), p.Discarded())
	}
}

func TestWaitAllBlocksUntilWorkersIdle(t *testing.T) {
	p := threadpool.New(2, 2, threadpool.Reject)
	defer p.Shutdown()

	release := make(chan struct{})
	_ = p.AddWork(threadpool.WorkItem{Work: func(any) { <-release }})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := p.WaitAll(ctx); err == nil {
		t.Fatal("expected WaitAll to time out while a worker is busy")
	}

	close(release)

	ctx2, cancel2 := context.WithTimeout(context.Background(), time.Second)
	defer cancel2()
	if err := p.WaitAll(ctx2); err != nil {
		t.Fatalf("expected WaitAll to succeed once the worker is idle, got %v", err)
	}
}
