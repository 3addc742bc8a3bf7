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

//go:build unix

package runner

import (
	"os"
	"syscall"

	liberr "github.com/bjornaugestad/highlander-go/errors"
)

// daemonizedEnv marks a re-executed child so it does not try to
// daemonize again.
const daemonizedEnv = "HIGHLANDER_DAEMONIZED"

// Daemonize detaches the process from its controlling terminal and
// returns control of the terminal to the shell immediately. The Go
// runtime cannot safely fork() a multi-threaded process, so instead
// of a literal fork+parent-exit this re-execs argv[0] in a new
// session (Setsid) and exits the original process; the visible effect
// for the caller's shell is the same.
func Daemonize() liberr.Error {
	if os.Getenv(daemonizedEnv) == "1" {
		return nil
	}

	devNull, err := os.OpenFile(os.DevNull, os.O_RDWR, 0)
	if err != nil {
		return liberr.New(ErrorDaemonize, "cannot open /dev/null", err)
	}
	defer devNull.Close()

	attr := &os.ProcAttr{
		Env:   append(os.Environ(), daemonizedEnv+"=1"),
		Files: []*os.File{devNull, devNull, devNull},
		Sys:   &syscall.SysProcAttr{Setsid: true},
	}

	proc, serr := os.StartProcess(os.Args[0], os.Args, attr)
	if serr != nil {
		return liberr.New(ErrorDaemonize, "re-exec failed", serr)
	}
	_ = proc.Release()
	os.Exit(0)
	return nil
}
