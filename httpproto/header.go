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

package httpproto

import "strings"

// listValued names a header whose duplicate occurrences are joined
// with a comma rather than rejected as a protocol error.
var listValued = map[string]bool{
	"Accept":          true,
	"Accept-Charset":  true,
	"Accept-Encoding": true,
	"Accept-Language": true,
	"Cookie":          true,
}

func canonical(name string) string {
	parts := strings.Split(strings.ToLower(name), "-")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, "-")
}

// Header is a case-insensitive, insertion-order-preserving set of
// HTTP header fields.
type Header struct {
	order  []string
	values map[string]string
}

func newHeader() *Header {
	return &Header{values: make(map[string]string)}
}

// Set overwrites the value for name, adding it to the end of the
// iteration order if it is new.
func (h *Header) Set(name, value string) {
	name = canonical(name)
	if _, found := h.values[name]; !found {
		h.order = append(h.order, name)
	}
	h.values[name] = value
}

// add applies the parser's duplicate policy: list-valued headers are
// comma-joined, everything else rejects a second occurrence.
func (h *Header) add(name, value string) bool {
	name = canonical(name)
	if existing, found := h.values[name]; found {
		if !listValued[name] {
			return false
		}
		h.values[name] = existing + ", " + value
		return true
	}
	h.order = append(h.order, name)
	h.values[name] = value
	return true
}

// Get returns the canonicalized value for name, or "", false if
// absent.
func (h *Header) Get(name string) (string, bool) {
	v, found := h.values[canonical(name)]
	return v, found
}

// Names returns header names in the order they were first set.
func (h *Header) Names() []string {
	out := make([]string, len(h.order))
	copy(out, h.order)
	return out
}
