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

import liberr "github.com/bjornaugestad/highlander-go/errors"

const (
	ErrorBind liberr.CodeError = iota + liberr.MinPkgSocket
	ErrorListen
	ErrorAccept
	ErrorDial
	ErrorTLSHandshake
	ErrorTLSConfig
	ErrorClosed
)

func init() {
	liberr.RegisterIdFctMessage(ErrorBind, getMessage)
}

func getMessage(code liberr.CodeError) (message string) {
	switch code {
	case ErrorBind:
		return "cannot bind to the configured address"
	case ErrorListen:
		return "cannot listen on the bound address"
	case ErrorAccept:
		return "accept failed for a reason other than listener closure"
	case ErrorDial:
		return "cannot connect to the remote address"
	case ErrorTLSHandshake:
		return "TLS handshake failed"
	case ErrorTLSConfig:
		return "invalid TLS endpoint configuration"
	case ErrorClosed:
		return "socket is closed"
	}

	return ""
}
