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

package page

import (
	"hash/fnv"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	liberr "github.com/bjornaugestad/highlander-go/errors"
	"github.com/bjornaugestad/highlander-go/filecache"
)

// Registry is built before the server starts and is read-only once
// serving begins: add_page/add_file calls happen during setup, and
// Dispatch runs concurrently from many request workers afterward,
// taking only a read lock on the descriptor set.
type Registry struct {
	cache   *filecache.Cache
	docRoot string

	canReadFiles bool
	maxPages     int

	mu      sync.RWMutex
	exact   map[string]*Descriptor
	prefix  []*Descriptor
	started atomic.Bool
}

// NewRegistry builds an empty Registry backed by cache for static
// pages and ad hoc document-root file lookups. docRoot is used only
// when canReadFiles is true.
func NewRegistry(cache *filecache.Cache, docRoot string, canReadFiles bool, maxPages int) *Registry {
	return &Registry{
		cache:        cache,
		docRoot:      docRoot,
		canReadFiles: canReadFiles,
		maxPages:     maxPages,
		exact:        make(map[string]*Descriptor),
	}
}

func cacheIDFor(uri string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(uri))
	return h.Sum64()
}

// AddPage registers a dynamic handler. A uri ending in "/" is a
// prefix handler matched by longest-prefix fallback; any other uri is
// matched exactly.
func (r *Registry) AddPage(uri string, handler HandlerFunc, attrs Attributes) liberr.Error {
	return r.register(&Descriptor{
		URI:     uri,
		Prefix:  strings.HasSuffix(uri, "/"),
		Kind:    Dynamic,
		Handler: handler,
		Attrs:   attrs,
	})
}

// AddFile registers a static asset served from diskPath. The content
// is not read until Start loads it into the file cache.
func (r *Registry) AddFile(uri, diskPath string, attrs Attributes) liberr.Error {
	return r.register(&Descriptor{
		URI:      uri,
		Prefix:   strings.HasSuffix(uri, "/"),
		Kind:     Static,
		DiskPath: diskPath,
		CacheID:  cacheIDFor(uri),
		Attrs:    attrs,
	})
}

func (r *Registry) register(d *Descriptor) liberr.Error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.maxPages > 0 && len(r.exact)+len(r.prefix) >= r.maxPages {
		return liberr.New(ErrorTooManyPages, "registry is full")
	}
	if _, found := r.exact[d.URI]; found {
		return liberr.New(ErrorDuplicateURI, "duplicate page URI: "+d.URI)
	}
	for _, existing := range r.prefix {
		if existing.URI == d.URI {
			return liberr.New(ErrorDuplicateURI, "duplicate page URI: "+d.URI)
		}
	}

	if d.Prefix {
		r.prefix = append(r.prefix, d)
	} else {
		r.exact[d.URI] = d
	}
	return nil
}

// Start eagerly loads every registered static page's disk file into
// the file cache, pinning it so the eviction policy never drops a
// page the registry still advertises.
func (r *Registry) Start() liberr.Error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, d := range allDescriptors(r.exact, r.prefix) {
		if d.Kind != Static {
			continue
		}
		data, err := os.ReadFile(d.DiskPath)
		if err != nil {
			return liberr.New(ErrorStaticLoadFailed, "reading "+d.DiskPath, err)
		}
		info, err := os.Stat(d.DiskPath)
		if err != nil {
			return liberr.New(ErrorStaticLoadFailed, "stat "+d.DiskPath, err)
		}
		ct := mime.TypeByExtension(filepath.Ext(d.DiskPath))
		if cerr := r.cache.Add(d.CacheID, d.DiskPath, ct, info.ModTime(), data, true); cerr != nil {
			return liberr.New(ErrorStaticLoadFailed, "caching "+d.DiskPath, cerr)
		}
	}

	r.started.Store(true)
	return nil
}

func allDescriptors(exact map[string]*Descriptor, prefix []*Descriptor) []*Descriptor {
	out := make([]*Descriptor, 0, len(exact)+len(prefix))
	for _, d := range exact {
		out = append(out, d)
	}
	out = append(out, prefix...)
	return out
}

// lookup resolves path to a descriptor and, for a document-root
// fallback file, the cache id it was (or should be) loaded under.
// It implements the four-step resolution order of the page registry:
// exact match, document-root file lookup, longest prefix, not found.
func (r *Registry) lookup(path string) (*Descriptor, uint64, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if d, found := r.exact[path]; found {
		return d, d.CacheID, true
	}

	if r.canReadFiles {
		id := cacheIDFor("docroot:" + path)
		if r.cache.Exists(id) {
			return &Descriptor{URI: path, Kind: Static, CacheID: id}, id, true
		}
		if full := filepath.Join(r.docRoot, filepath.Clean("/"+path)); r.loadDocRootFile(full, id) {
			return &Descriptor{URI: path, Kind: Static, CacheID: id}, id, true
		}
	}

	var best *Descriptor
	for _, d := range r.prefix {
		if strings.HasPrefix(path, d.URI) {
			if best == nil || len(d.URI) > len(best.URI) {
				best = d
			}
		}
	}
	if best != nil {
		return best, best.CacheID, true
	}

	return nil, 0, false
}

func (r *Registry) loadDocRootFile(full string, id uint64) bool {
	data, err := os.ReadFile(full)
	if err != nil {
		return false
	}
	info, err := os.Stat(full)
	if err != nil {
		return false
	}
	ct := mime.TypeByExtension(filepath.Ext(full))
	return r.cache.Add(id, full, ct, info.ModTime(), data, false) == nil
}
