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

// Package errors provides classified, traceable errors for the
// highlander-go server runtime: a numeric CodeError (HTTP-status
// shaped), an optional parent chain, and the call site that raised it.
//
// Example:
//
//	const ErrBind errors.CodeError = errors.MinPkgSocket + iota
//
//	err := errors.New(ErrBind, "bind failed", sysErr)
//	if errors.Has(err, ErrBind) { ... }
package errors

import (
	"errors"
	"fmt"
	"runtime"
)

// Error extends the standard error with a numeric code, a parent
// chain and a captured call site.
type Error interface {
	error

	// IsCode reports whether this error's own code equals code.
	IsCode(code CodeError) bool
	// HasCode reports whether this error or any parent has code.
	HasCode(code CodeError) bool
	// Code returns this error's own code.
	Code() CodeError

	// HasParent reports whether this error wraps at least one parent.
	HasParent() bool
	// Parents returns the direct parent errors in the order they were added.
	Parents() []error
	// Add appends non-nil parents to this error.
	Add(parent ...error)

	// File and Line return the call site that built this error.
	File() string
	Line() int

	// Unwrap supports errors.Is / errors.As over the parent chain.
	Unwrap() []error
}

type ers struct {
	code CodeError
	msg  string
	file string
	line int
	p    []error
}

func (e *ers) Error() string {
	m := e.msg
	if m == "" {
		m = getMessage(e.code)
	}
	if e.code == UnknownError {
		return m
	}
	return fmt.Sprintf("[%d] %s", e.code.Uint16(), m)
}

func (e *ers) IsCode(code CodeError) bool { return e.code == code }

func (e *ers) HasCode(code CodeError) bool {
	if e.code == code {
		return true
	}
	for _, p := range e.p {
		if Has(p, code) {
			return true
		}
	}
	return false
}

func (e *ers) Code() CodeError { return e.code }

func (e *ers) HasParent() bool { return len(e.p) > 0 }

func (e *ers) Parents() []error { return e.p }

func (e *ers) Add(parent ...error) {
	for _, p := range parent {
		if p != nil {
			e.p = append(e.p, p)
		}
	}
}

func (e *ers) File() string { return e.file }
func (e *ers) Line() int    { return e.line }

func (e *ers) Unwrap() []error { return e.p }

func frame() (file string, line int) {
	_, file, line, ok := runtime.Caller(2)
	if !ok {
		return "", 0
	}
	return file, line
}

// New builds an Error with code, msg, and any non-nil parents.
func New(code CodeError, msg string, parent ...error) Error {
	file, line := frame()
	e := &ers{code: code, msg: msg, file: file, line: line}
	e.Add(parent...)
	return e
}

// Newf builds an Error with a printf-formatted message.
func Newf(code CodeError, pattern string, args ...any) Error {
	file, line := frame()
	return &ers{code: code, msg: fmt.Sprintf(pattern, args...), file: file, line: line}
}

// Is reports whether e is (or wraps, via errors.As) an Error.
func Is(e error) bool {
	var err Error
	return errors.As(e, &err)
}

// Get returns e as an Error if it is one, or nil.
func Get(e error) Error {
	var err Error
	if errors.As(e, &err) {
		return err
	}
	return nil
}

// Has reports whether e or any of its parents carries code.
func Has(e error, code CodeError) bool {
	if err := Get(e); err != nil {
		return err.HasCode(code)
	}
	return false
}

// Make wraps a plain error into an Error with code UnknownError,
// or returns it unchanged if it already is one.
func Make(e error) Error {
	if e == nil {
		return nil
	}
	if err := Get(e); err != nil {
		return err
	}
	file, line := frame()
	return &ers{code: UnknownError, msg: e.Error(), file: file, line: line}
}

// MakeIfError folds a list of errors into a single Error, or nil if
// every element is nil.
func MakeIfError(errs ...error) Error {
	var out Error
	for _, e := range errs {
		if e == nil {
			continue
		}
		if out == nil {
			out = Make(e)
		} else {
			out.Add(e)
		}
	}
	return out
}
