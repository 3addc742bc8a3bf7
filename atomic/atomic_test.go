package atomic_test

import (
	"testing"

	libatm "github.com/bjornaugestad/highlander-go/atomic"
)

func TestValueZeroBeforeStore(t *testing.T) {
	v := libatm.NewValue[int]()
	if got := v.Load(); got != 0 {
		t.Fatalf("expected zero value, got %d", got)
	}
}

func TestValueStoreLoad(t *testing.T) {
	v := libatm.NewValue[string]()
	v.Store("hello")
	if got := v.Load(); got != "hello" {
		t.Fatalf("expected %q, got %q", "hello", got)
	}
	v.Store("world")
	if got := v.Load(); got != "world" {
		t.Fatalf("expected %q, got %q", "world", got)
	}
}

func TestMapTypedLoadMissing(t *testing.T) {
	m := libatm.NewMapTyped[string, int]()
	if _, ok := m.Load("missing"); ok {
		t.Fatal("expected ok=false for missing key")
	}
}

func TestMapTypedStoreLoadDelete(t *testing.T) {
	m := libatm.NewMapTyped[string, int]()
	m.Store("a", 1)

	v, ok := m.Load("a")
	if !ok || v != 1 {
		t.Fatalf("expected (1, true), got (%d, %v)", v, ok)
	}

	m.Delete("a")
	if _, ok := m.Load("a"); ok {
		t.Fatal("expected key to be gone after Delete")
	}
}

func TestMapTypedLoadOrStore(t *testing.T) {
	m := libatm.NewMapTyped[string, int]()

	actual, loaded := m.LoadOrStore("a", 1)
	if loaded || actual != 1 {
		t.Fatalf("expected (1, false) on first store, got (%d, %v)", actual, loaded)
	}

	actual, loaded = m.LoadOrStore("a", 2)
	if !loaded || actual != 1 {
		t.Fatalf("expected (1, true) on existing key, got (%d, %v)", actual, loaded)
	}
}

func TestMapTypedRange(t *testing.T) {
	m := libatm.NewMapTyped[string, int]()
	m.Store("a", 1)
	m.Store("b", 2)

	seen := map[string]int{}
	m.Range(func(k string, v int) bool {
		seen[k] = v
		return true
	})

	if len(seen) != 2 || seen["a"] != 1 || seen["b"] != 2 {
		t.Fatalf("unexpected range result: %v", seen)
	}
}
