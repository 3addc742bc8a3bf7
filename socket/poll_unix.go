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

package socket

import (
	"net"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// pollReadable uses poll(2) on the raw file descriptor so readiness
// can be checked without consuming any bytes, unlike a deadline-bound
// Read probe.
func pollReadable(conn net.Conn, timeout time.Duration) (bool, error) {
	if conn == nil {
		return false, errClosed
	}

	sc, ok := conn.(syscall.Conn)
	if !ok {
		return false, errClosed
	}

	raw, err := sc.SyscallConn()
	if err != nil {
		return false, err
	}

	var ready bool
	var pollErr error

	ctlErr := raw.Control(func(fd uintptr) {
		fds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
		n, e := unix.Poll(fds, int(timeout.Milliseconds()))
		if e != nil {
			pollErr = e
			return
		}
		ready = n > 0 && fds[0].Revents&unix.POLLIN != 0
	})
	if ctlErr != nil {
		return false, ctlErr
	}

	return ready, pollErr
}
