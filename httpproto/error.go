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

import liberr "github.com/bjornaugestad/highlander-go/errors"

// These codes are package error codes, not HTTP statuses. StatusFor
// maps a parse error to the HTTP status to send back;
// ErrorConnectionLost means the connection should be abandoned
// without a response.
const (
	ErrorConnectionLost liberr.CodeError = iota + liberr.MinPkgHTTPProto
	ErrorMalformedRequestLine
	ErrorMalformedHeader
	ErrorDuplicateHeader
	ErrorUnknownMethod
	ErrorURITooLong
	ErrorPayloadTooLarge
	ErrorBadChunkedBody
	ErrorResponseAlreadySent
)

func init() {
	liberr.RegisterIdFctMessage(ErrorConnectionLost, getMessage)
}

func getMessage(code liberr.CodeError) (message string) {
	switch code {
	case ErrorConnectionLost:
		return "connection lost while reading the request"
	case ErrorMalformedRequestLine:
		return "malformed request line"
	case ErrorMalformedHeader:
		return "malformed header field"
	case ErrorDuplicateHeader:
		return "duplicate header not in the list-valued set"
	case ErrorUnknownMethod:
		return "unrecognized request method"
	case ErrorURITooLong:
		return "request-URI exceeds the configured limit"
	case ErrorPayloadTooLarge:
		return "request body exceeds post_limit"
	case ErrorBadChunkedBody:
		return "malformed chunked transfer encoding"
	case ErrorResponseAlreadySent:
		return "response already sent; it is now read-only"
	}

	return ""
}
