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

	liberr "github.com/bjornaugestad/highlander-go/errors"
)

// P appends a paragraph-wrapped line of text to the body.
func (r *Response) P(text string) liberr.Error {
	return r.Add([]byte("<p>" + text + "</p>\n"))
}

// Br appends a line break.
func (r *Response) Br() liberr.Error {
	return r.Add([]byte("<br>\n"))
}

// Href appends an anchor tag linking to url with the given text.
func (r *Response) Href(url, text string) liberr.Error {
	return r.Add([]byte(fmt.Sprintf(`<a href="%s">%s</a>`, url, text)))
}

// MinimalBody renders the small status-appropriate HTML body used
// when a handler or the dispatcher produces an error status without
// writing its own content.
func MinimalBody(status int) []byte {
	return []byte(fmt.Sprintf(
		"<html><head><title>%d %s</title></head><body><h1>%d %s</h1></body></html>",
		status, StatusText(status), status, StatusText(status),
	))
}
