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

// Package filecache is an in-memory, content-addressed cache of static
// assets. Each id maps to an immutable Entry; replacing the content for
// an id swaps the id->Entry pointer atomically rather than mutating the
// entry in place, so a reader that already loaded the pointer keeps
// observing the full bytes of the version it read, never a partial mix
// of old and new. A bounded hotlist of recently accessed ids is exempt
// from budget eviction.
package filecache

import "time"

// Entry is one immutable, published version of a cached file's content.
type Entry struct {
	Id       uint64
	Path     string
	ModTime  time.Time
	MimeType string
	Size     int
	Bytes    []byte
	Pinned   bool
}

func newEntry(id uint64, path, mime string, modTime time.Time, data []byte, pinned bool) *Entry {
	return &Entry{
		Id:       id,
		Path:     path,
		ModTime:  modTime,
		MimeType: mime,
		Size:     len(data),
		Bytes:    data,
		Pinned:   pinned,
	}
}
