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

// Package logger is a leveled logging façade over logrus, with
// colorable TTY output. Components never hold a *Logger directly;
// they are handed a FuncLog getter so the logger instance backing
// them can be swapped (verbosity raised, output redirected) without
// reconstructing the component.
package logger

import (
	"io"
	"os"
	"sync"

	"github.com/mattn/go-colorable"
	"github.com/sirupsen/logrus"
)

// Level mirrors logrus' level order without exposing logrus in
// component signatures.
type Level uint32

const (
	PanicLevel Level = iota
	FatalLevel
	ErrorLevel
	WarnLevel
	InfoLevel
	DebugLevel
	TraceLevel
)

func (l Level) logrus() logrus.Level { return logrus.Level(l) }

// Fields is a set of structured key/value pairs attached to one log
// entry, mirroring logrus.Fields.
type Fields map[string]any

// Logger wraps one logrus.Logger. The zero value is not usable; build
// one with New.
type Logger struct {
	mu  sync.RWMutex
	log *logrus.Logger
}

// New builds a Logger at the given level, writing to out. A nil out
// defaults to a colorable wrapper of os.Stderr so ANSI level colors
// survive on Windows consoles as well as real terminals.
func New(level Level, out io.Writer) *Logger {
	if out == nil {
		out = colorable.NewColorable(os.Stderr)
	}

	l := logrus.New()
	l.SetOutput(out)
	l.SetLevel(level.logrus())
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	return &Logger{log: l}
}

// Discard returns a Logger whose output is dropped entirely, for
// components under test that need a FuncLog but no output.
func Discard() *Logger {
	return New(PanicLevel, io.Discard)
}

// SetLevel changes the minimum level logged, taking effect on the
// next call from any goroutine holding this Logger.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.log.SetLevel(level.logrus())
}

// Entry returns a logrus entry carrying fields, ready for
// Debug/Info/Warn/Error/Fatal/Panic plus an f-suffixed variant.
func (l *Logger) Entry(fields Fields) *logrus.Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if len(fields) == 0 {
		return logrus.NewEntry(l.log)
	}
	return l.log.WithFields(logrus.Fields(fields))
}

func (l *Logger) Debug(args ...any) { l.Entry(nil).Debug(args...) }
func (l *Logger) Info(args ...any)  { l.Entry(nil).Info(args...) }
func (l *Logger) Warn(args ...any)  { l.Entry(nil).Warn(args...) }
func (l *Logger) Error(args ...any) { l.Entry(nil).Error(args...) }

func (l *Logger) Debugf(format string, args ...any) { l.Entry(nil).Debugf(format, args...) }
func (l *Logger) Infof(format string, args ...any)  { l.Entry(nil).Infof(format, args...) }
func (l *Logger) Warnf(format string, args ...any)  { l.Entry(nil).Warnf(format, args...) }
func (l *Logger) Errorf(format string, args ...any) { l.Entry(nil).Errorf(format, args...) }

// FuncLog is a getter for the Logger currently backing a component.
// Passing the getter instead of a *Logger lets the process swap
// loggers (e.g. raise verbosity after SIGHUP) without plumbing a new
// value through every already-constructed component.
type FuncLog func() *Logger

// Static adapts a fixed Logger into a FuncLog, for callers that never
// swap loggers at runtime (most tests, and the sample CLIs).
func Static(l *Logger) FuncLog {
	return func() *Logger { return l }
}
