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

// Package page is the registry and dispatcher sitting between the
// HTTP server façade and application code: it maps a request path to
// either a dynamic handler or a static file-cache entry, and enforces
// any Basic-auth gate a page declares.
package page

import (
	"github.com/bjornaugestad/highlander-go/httpproto"
)

// Kind distinguishes a dynamic handler page from a static asset page.
type Kind int

const (
	Dynamic Kind = iota
	Static
)

// HandlerFunc serves one request for a dynamic page, returning the
// HTTP status it produced.
type HandlerFunc func(req *httpproto.Request, resp *httpproto.Response) int

// CredentialCheck validates Basic-auth credentials extracted from the
// Authorization header. It is only consulted when Attributes.AuthRequired
// is set.
type CredentialCheck func(user, password string) bool

// Attributes are the per-page policy flags the dispatcher enforces
// before invoking a dynamic handler.
type Attributes struct {
	AuthRequired bool
	AuthRealm    string
	CheckCreds   CredentialCheck
}

// Descriptor is one registered page.
type Descriptor struct {
	URI    string
	Prefix bool
	Kind   Kind

	Handler HandlerFunc

	DiskPath string
	CacheID  uint64

	Attrs Attributes
}
