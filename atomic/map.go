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

package atomic

import "sync"

// MapTyped is a type-safe wrapper over sync.Map.
type MapTyped[K comparable, V any] interface {
	Load(key K) (value V, ok bool)
	Store(key K, value V)
	LoadOrStore(key K, value V) (actual V, loaded bool)
	LoadAndDelete(key K) (value V, loaded bool)
	Delete(key K)
	Range(f func(key K, value V) bool)
}

type syncMap[K comparable, V any] struct {
	m sync.Map
}

// NewMapTyped returns an empty MapTyped[K, V].
func NewMapTyped[K comparable, V any]() MapTyped[K, V] {
	return &syncMap[K, V]{}
}

func (o *syncMap[K, V]) Load(key K) (V, bool) {
	i, ok := o.m.Load(key)
	if !ok {
		var zero V
		return zero, false
	}
	return i.(V), true
}

func (o *syncMap[K, V]) Store(key K, value V) {
	o.m.Store(key, value)
}

func (o *syncMap[K, V]) LoadOrStore(key K, value V) (V, bool) {
	i, loaded := o.m.LoadOrStore(key, value)
	return i.(V), loaded
}

func (o *syncMap[K, V]) LoadAndDelete(key K) (V, bool) {
	i, loaded := o.m.LoadAndDelete(key)
	if !loaded {
		var zero V
		return zero, false
	}
	return i.(V), true
}

func (o *syncMap[K, V]) Delete(key K) {
	o.m.Delete(key)
}

func (o *syncMap[K, V]) Range(f func(key K, value V) bool) {
	o.m.Range(func(k, v any) bool {
		return f(k.(K), v.(V))
	})
}
