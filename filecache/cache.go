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

package filecache

import (
	"sort"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru"

	libatm "github.com/bjornaugestad/highlander-go/atomic"
	liberr "github.com/bjornaugestad/highlander-go/errors"
)

// slot holds the current published Entry for one id plus the
// bookkeeping needed for eviction and invalidation, none of which is
// part of the published Entry itself.
type slot struct {
	cur        libatm.Value[*Entry]
	version    uint64
	lastAccess int64 // unix nano, guarded by cache.mu
	stale      bool  // guarded by cache.mu
}

// Cache is the file cache described by the file-cache component: a
// mapping from id to cached file, a bounded hotlist of recently
// accessed ids, and a maximum total byte budget for non-pinned
// entries.
type Cache struct {
	mu      sync.Mutex
	ids     libatm.MapTyped[uint64, *slot]
	hot     *lru.Cache
	budget  int64
	used    int64
	version uint64
}

// New returns an empty Cache with the given byte budget for non-pinned
// entries and the given hotlist capacity.
func New(budget int64, hotlistSize int) (*Cache, error) {
	if hotlistSize <= 0 {
		hotlistSize = 1
	}

	hot, err := lru.New(hotlistSize)
	if err != nil {
		return nil, liberr.New(ErrorParamsEmpty, "cannot create hotlist", err)
	}

	return &Cache{
		ids:    libatm.NewMapTyped[uint64, *slot](),
		hot:    hot,
		budget: budget,
	}, nil
}

// Add inserts or replaces the entry for id. Replacement swaps the
// id->Entry pointer atomically: readers that already loaded the prior
// pointer keep observing the prior bytes in their entirety.
func (c *Cache) Add(id uint64, path, mime string, modTime time.Time, data []byte, pinned bool) liberr.Error {
	if len(data) == 0 && path == "" {
		return liberr.New(ErrorParamsEmpty, "empty content and path")
	}

	size := int64(len(data))

	c.mu.Lock()
	defer c.mu.Unlock()

	existing, had := c.ids.Load(id)

	var deltaBudgetUse int64
	if had {
		if !existing.cur.Load().Pinned {
			deltaBudgetUse -= int64(existing.cur.Load().Size)
		}
	}
	if !pinned {
		deltaBudgetUse += size
	}

	if deltaBudgetUse > 0 && c.used+deltaBudgetUse > c.budget {
		if !c.evictLocked(id, c.used+deltaBudgetUse-c.budget) {
			return liberr.New(ErrorBudgetExceeded, "cannot admit id into cache")
		}
	}

	s := existing
	if !had {
		s = &slot{}
		c.ids.Store(id, s)
	}

	s.cur.Store(newEntry(id, path, mime, modTime, data, pinned))
	s.version++
	s.stale = false
	s.lastAccess = nowNano()

	c.used += deltaBudgetUse
	c.version++

	return nil
}

// Exists reports whether id has a published entry.
func (c *Cache) Exists(id uint64) bool {
	_, ok := c.ids.Load(id)
	return ok
}

// Get returns the bytes, size and version currently published for id.
// It marks id as recently accessed, which is enough to exempt it from
// byte-budget eviction while it stays in the hotlist.
func (c *Cache) Get(id uint64) (data []byte, length int, version uint64, ok bool) {
	s, found := c.ids.Load(id)
	if !found {
		return nil, 0, 0, false
	}

	e := s.cur.Load()

	c.mu.Lock()
	s.lastAccess = nowNano()
	ver := s.version
	c.mu.Unlock()

	c.hot.Add(id, struct{}{})

	return e.Bytes, e.Size, ver, true
}

// GetEntry returns the full published Entry for id, including its
// MIME type and modification time, marking id recently accessed the
// same way Get does.
func (c *Cache) GetEntry(id uint64) (*Entry, bool) {
	s, found := c.ids.Load(id)
	if !found {
		return nil, false
	}

	e := s.cur.Load()

	c.mu.Lock()
	s.lastAccess = nowNano()
	c.mu.Unlock()

	c.hot.Add(id, struct{}{})

	return e, true
}

// Remove deletes the entry for id, freeing its share of the byte
// budget.
func (c *Cache) Remove(id uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.ids.Load(id)
	if !ok {
		return
	}

	if e := s.cur.Load(); e != nil && !e.Pinned {
		c.used -= int64(e.Size)
	}

	c.ids.Delete(id)
	c.hot.Remove(id)
}

// Invalidate marks every non-pinned entry stale. Stale entries remain
// fully readable by Get until their next Add.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ids.Range(func(id uint64, s *slot) bool {
		if e := s.cur.Load(); e != nil && !e.Pinned {
			s.stale = true
		}
		return true
	})
}

// Stale reports whether id's current entry was marked by Invalidate
// and has not been replaced by Add since.
func (c *Cache) Stale(id uint64) bool {
	s, ok := c.ids.Load(id)
	if !ok {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return s.stale
}

// evictLocked frees at least need bytes by evicting non-pinned,
// non-hotlisted entries in ascending last-access order. Caller holds
// c.mu. keep is the id currently being admitted, never itself a
// candidate for eviction.
func (c *Cache) evictLocked(keep uint64, need int64) bool {
	type candidate struct {
		id   uint64
		last int64
		size int64
	}

	var cands []candidate

	c.ids.Range(func(id uint64, s *slot) bool {
		if id == keep {
			return true
		}
		e := s.cur.Load()
		if e == nil || e.Pinned {
			return true
		}
		if c.hot.Contains(id) {
			return true
		}
		cands = append(cands, candidate{id: id, last: s.lastAccess, size: int64(e.Size)})
		return true
	})

	sort.Slice(cands, func(i, j int) bool { return cands[i].last < cands[j].last })

	var freed int64
	for _, cd := range cands {
		if freed >= need {
			break
		}
		c.ids.Delete(cd.id)
		c.hot.Remove(cd.id)
		c.used -= cd.size
		freed += cd.size
	}

	return freed >= need
}

func nowNano() int64 {
	return time.Now().UnixNano()
}
