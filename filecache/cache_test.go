package filecache_test

import (
	"testing"
	"time"

	"github.com/bjornaugestad/highlander-go/filecache"
)

func TestAddGetRoundTrip(t *testing.T) {
	c, err := filecache.New(1<<20, 8)
	if err != nil {
		t.Fatal(err)
	}

	if err := c.Add(1, "/a.txt", "text/plain", time.Now(), []byte("hello"), false); err != nil {
		t.Fatal(err)
	}

	data, n, ver, ok := c.Get(1)
	if !ok || string(data) != "hello" || n != 5 || ver != 1 {
		t.Fatalf("unexpected get result: %q %d %d %v", data, n, ver, ok)
	}
}

func TestReplaceBumpsVersion(t *testing.T) {
	c, _ := filecache.New(1<<20, 8)
	_ = c.Add(1, "/a.txt", "text/plain", time.Now(), []byte("v1"), false)
	_ = c.Add(1, "/a.txt", "text/plain", time.Now(), []byte("v2"), false)

	data, _, ver, ok := c.Get(1)
	if !ok || string(data) != "v2" || ver != 2 {
		t.Fatalf("expected v2/version 2, got %q/%d", data, ver)
	}
}

func TestRemove(t *testing.T) {
	c, _ := filecache.New(1<<20, 8)
	_ = c.Add(1, "/a.txt", "text/plain", time.Now(), []byte("hello"), false)
	c.Remove(1)

	if c.Exists(1) {
		t.Fatal("expected id to be gone after Remove")
	}
}

func TestInvalidateMarksStaleButKeepsReadable(t *testing.T) {
	c, _ := filecache.New(1<<20, 8)
	_ = c.Add(1, "/a.txt", "text/plain", time.Now(), []byte("hello"), false)

	c.Invalidate()
	if !c.Stale(1) {
		t.Fatal("expected entry to be marked stale")
	}

	data, _, _, ok := c.Get(1)
	if !ok || string(data) != "hello" {
		t.Fatal("stale entry must remain readable until next Add")
	}

	_ = c.Add(1, "/a.txt", "text/plain", time.Now(), []byte("hello2"), false)
	if c.Stale(1) {
		t.Fatal("Add must clear stale")
	}
}

func TestPinnedEntriesAreNeverEvicted(t *testing.T) {
	c, _ := filecache.New(10, 1)

	if err := c.Add(1, "/a", "text/plain", time.Now(), []byte("0123456789"), true); err != nil {
		t.Fatal(err)
	}

	// Budget is fully consumed by the pinned entry's bytes, but pinned
	// entries do not count toward the budget, so a second small entry
	// still fits.
	if err := c.Add(2, "/b", "text/plain", time.Now(), []byte("ab"), false); err != nil {
		t.Fatal(err)
	}

	if !c.Exists(1) || !c.Exists(2) {
		t.Fatal("expected both entries present")
	}
}

func TestBudgetExceededWithNoEvictionCandidate(t *testing.T) {
	c, _ := filecache.New(4, 8)

	// id 1 sits in the hotlist, so it is exempt from eviction.
	_ = c.Add(1, "/a", "text/plain", time.Now(), []byte("1234"), false)
	c.Get(1)

	err := c.Add(2, "/b", "text/plain", time.Now(), []byte("5678"), false)
	if err == nil {
		t.Fatal("expected budget-exceeded error when the only occupant is hotlisted")
	}
}

func TestEvictsLeastRecentlyAccessedNonHotlisted(t *testing.T) {
	c, _ := filecache.New(5, 1)

	_ = c.Add(1, "/a", "text/plain", time.Now(), []byte("12345"), false)
	// id 1 is not read, so it never enters the hotlist and is the sole
	// eviction candidate when id 2 needs room.
	if err := c.Add(2, "/b", "text/plain", time.Now(), []byte("67890"), false); err != nil {
		t.Fatal(err)
	}

	if c.Exists(1) {
		t.Fatal("expected id 1 to be evicted to make room for id 2")
	}
	if !c.Exists(2) {
		t.Fatal("expected id 2 to be admitted")
	}
}
