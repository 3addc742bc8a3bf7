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
	"os/user"
	"strconv"

	"golang.org/x/sys/unix"

	liberr "github.com/bjornaugestad/highlander-go/errors"
)

// DropPrivileges chroots to root (when non-empty) and then switches
// to username's uid/gid. chroot must happen first, while the process
// still has the privilege to perform it; setuid is the last
// privileged syscall the process makes.
func DropPrivileges(root, username string) liberr.Error {
	if root != "" {
		if err := unix.Chroot(root); err != nil {
			return liberr.New(ErrorPrivilegeDrop, "chroot failed", err)
		}
		if err := unix.Chdir("/"); err != nil {
			return liberr.New(ErrorPrivilegeDrop, "chdir after chroot failed", err)
		}
	}

	if username == "" {
		return nil
	}

	u, lerr := user.Lookup(username)
	if lerr != nil {
		return liberr.New(ErrorPrivilegeDrop, "unknown user", lerr)
	}

	gid, gerr := strconv.Atoi(u.Gid)
	if gerr != nil {
		return liberr.New(ErrorPrivilegeDrop, "invalid gid", gerr)
	}
	uid, uerr := strconv.Atoi(u.Uid)
	if uerr != nil {
		return liberr.New(ErrorPrivilegeDrop, "invalid uid", uerr)
	}

	// Group must drop before user: once the uid is no longer root,
	// setgid would itself fail for lack of privilege.
	if err := unix.Setgid(gid); err != nil {
		return liberr.New(ErrorPrivilegeDrop, "setgid failed", err)
	}
	if err := unix.Setuid(uid); err != nil {
		return liberr.New(ErrorPrivilegeDrop, "setuid failed", err)
	}

	return nil
}
