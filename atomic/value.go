/*
 * MIT License
 *
 * Copyright (c) 2024 Nicolas JUHEL
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

// Package atomic provides generic, lock-free holders for hot-swappable
// state: a typed Value[T] over sync/atomic.Value and a typed map over
// sync.Map, for state whose access pattern is "replace wholesale, read
// often". The file cache uses them for its id→entry map and for the
// current entry of each id.
package atomic

import "sync/atomic"

// Value is a type-safe wrapper over atomic.Value. The zero value
// returned by Load before any Store is the T zero value.
type Value[T any] interface {
	Load() T
	Store(v T)
}

type box[T any] struct{ v T }

type val[T any] struct {
	av atomic.Value
}

// NewValue returns an empty Value[T].
func NewValue[T any]() Value[T] {
	return &val[T]{}
}

func (o *val[T]) Load() T {
	i := o.av.Load()
	if i == nil {
		var zero T
		return zero
	}
	return i.(*box[T]).v
}

func (o *val[T]) Store(v T) {
	o.av.Store(&box[T]{v: v})
}
