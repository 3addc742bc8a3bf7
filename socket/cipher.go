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

package socket

import (
	"crypto/tls"

	liberr "github.com/bjornaugestad/highlander-go/errors"
)

// cipherByName maps the Go standard library's own cipher suite names
// (as returned by tls.CipherSuiteName) to their id. The endpoint
// configuration accepts a plain list of strings, narrowed to names
// this runtime itself recognizes rather than OpenSSL-style strings.
func cipherByName(name string) (uint16, bool) {
	for _, c := range tls.CipherSuites() {
		if c.Name == name {
			return c.ID, true
		}
	}
	for _, c := range tls.InsecureCipherSuites() {
		if c.Name == name {
			return c.ID, true
		}
	}
	return 0, false
}

// ResolveCipherSuites converts a list of cipher suite names into the
// ids crypto/tls.Config.CipherSuites expects. An unrecognized name is
// a configuration error.
func ResolveCipherSuites(names []string) ([]uint16, liberr.Error) {
	out := make([]uint16, 0, len(names))
	for _, n := range names {
		id, ok := cipherByName(n)
		if !ok {
			return nil, liberr.Newf(ErrorTLSConfig, "unknown cipher suite name %q", n)
		}
		out = append(out, id)
	}
	return out, nil
}
