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

import liberr "github.com/bjornaugestad/highlander-go/errors"

const (
	ErrorDuplicateURI liberr.CodeError = iota + liberr.MinPkgPage
	ErrorTooManyPages
	ErrorStaticLoadFailed
)

func init() {
	liberr.RegisterIdFctMessage(ErrorDuplicateURI, getMessage)
}

func getMessage(code liberr.CodeError) (message string) {
	switch code {
	case ErrorDuplicateURI:
		return "a page is already registered for this URI"
	case ErrorTooManyPages:
		return "registry is at its configured page limit"
	case ErrorStaticLoadFailed:
		return "could not load a static page's disk file into the cache at start"
	}

	return ""
}
