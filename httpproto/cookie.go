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

import (
	"fmt"
	"strconv"
	"strings"
)

// Cookie is one Set-Cookie value, covering both the Netscape (version
// 0) and RFC 2109 (version 1) attribute sets. MaxAge of -1 means
// unset and is omitted from the formatted header.
type Cookie struct {
	Name    string
	Value   string
	Comment string
	Domain  string
	Path    string
	MaxAge  int
	Version int
	Secure  bool
}

// parseCookieHeader extracts Name=Value pairs from the request's
// (possibly comma-joined, since Cookie is list-valued) Cookie header,
// in the order they appear.
func parseCookieHeader(h *Header) []Cookie {
	raw, found := h.Get("Cookie")
	if !found {
		return nil
	}

	var out []Cookie
	for _, part := range strings.Split(raw, ";") {
		for _, piece := range strings.Split(part, ",") {
			piece = strings.TrimSpace(piece)
			if piece == "" {
				continue
			}
			name, value, ok := strings.Cut(piece, "=")
			if !ok {
				continue
			}
			out = append(out, Cookie{
				Name:  strings.TrimSpace(name),
				Value: strings.TrimSpace(value),
			})
		}
	}
	return out
}

// Format renders c as a Set-Cookie field value.
func (c Cookie) Format() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s=%s", c.Name, c.Value)

	if c.Comment != "" {
		fmt.Fprintf(&b, "; Comment=%s", c.Comment)
	}
	if c.Domain != "" {
		fmt.Fprintf(&b, "; Domain=%s", c.Domain)
	}
	if c.Path != "" {
		fmt.Fprintf(&b, "; Path=%s", c.Path)
	}
	if c.MaxAge != -1 {
		fmt.Fprintf(&b, "; Max-Age=%s", strconv.Itoa(c.MaxAge))
	}
	if c.Version != 0 {
		fmt.Fprintf(&b, "; Version=%d", c.Version)
	}
	if c.Secure {
		b.WriteString("; Secure")
	}

	return b.String()
}
