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

package errors

import (
	"math"
	"strconv"
)

// CodeError is a numeric error classification, HTTP-status-shaped.
// Codes below MinAvailable are reserved by a package; each package
// that raises domain errors claims a contiguous block starting at its
// own MinPkg* constant and registers a message function for it.
type CodeError uint16

const (
	// UnknownError is the zero value: no specific classification.
	UnknownError CodeError = 0

	UnknownMessage = "unknown error"
	NullMessage    = ""
)

// Package-reserved code ranges. There is no database range: this
// module has no database layer (Non-goal). There is no certificates
// range either: TLS endpoint errors are socket concerns and raise
// under MinPkgSocket (see socket/error.go's ErrorTLSConfig).
const (
	MinPkgSocket CodeError = 100 + iota*100
	MinPkgConn
	MinPkgThreadpool
	MinPkgRunner
	MinPkgTCPServer
	MinPkgHTTPProto
	MinPkgPage
	MinPkgFileCache
	MinPkgHTTPServer
	MinPkgWire
	MinPkgConfig

	MinAvailable = 2000
)

// ParseCodeError clamps an arbitrary integer into the CodeError range.
func ParseCodeError(i int64) CodeError {
	if i < 0 {
		return UnknownError
	} else if i >= int64(math.MaxUint16) {
		return math.MaxUint16
	}
	return CodeError(i)
}

func (c CodeError) Uint16() uint16 { return uint16(c) }
func (c CodeError) Int() int       { return int(c) }
func (c CodeError) String() string { return strconv.Itoa(c.Int()) }

// Message generates the human-readable text for a CodeError value.
// Packages register one via RegisterIdFctMessage.
type Message func(code CodeError) (message string)

var idMsgFct = make(map[CodeError]Message)

// RegisterIdFctMessage associates a Message function with the block
// starting at id. Later registrations for an id already registered
// are ignored, so import order cannot change a package's messages.
func RegisterIdFctMessage(id CodeError, fct Message) {
	if _, found := idMsgFct[id]; found {
		return
	}
	idMsgFct[id] = fct
}

// ExistInMapMessage reports whether a message function is already
// registered for the block starting at id.
func ExistInMapMessage(id CodeError) bool {
	_, found := idMsgFct[id]
	return found
}

func getMessage(code CodeError) string {
	if code == UnknownError {
		return UnknownMessage
	}

	var best CodeError
	var fct Message

	for id, f := range idMsgFct {
		if code >= id && id >= best {
			best = id
			fct = f
		}
	}

	if fct == nil {
		return NullMessage
	} else if msg := fct(code); msg != "" {
		return msg
	}

	return NullMessage
}
