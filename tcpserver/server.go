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

// Package tcpserver implements the process-host runnable contract for
// a generic TCP or TLS accept loop: bind on Do, spawn the accept
// goroutine on Run, and close the listener plus drain the threadpool
// on Shutdown. It has no notion of any wire protocol; httpserver
// layers HTTP on top of it by supplying the service function.
package tcpserver

import (
	"context"
	"errors"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bjornaugestad/highlander-go/conn"
	liberr "github.com/bjornaugestad/highlander-go/errors"
	"github.com/bjornaugestad/highlander-go/socket"
	"github.com/bjornaugestad/highlander-go/threadpool"
)

// ServiceFunc handles one accepted, buffered connection. It runs on a
// threadpool worker and owns c for the lifetime of the call; c is
// closed by the server once ServiceFunc returns.
type ServiceFunc func(c *conn.Conn)

// Config configures a Server's listening socket and worker pool.
type Config struct {
	Host string
	Port int

	Backlog     int
	WorkerCount int
	QueueSize   int
	QueuePolicy threadpool.Policy

	BufferSize int
	Timeout    time.Duration
	RetryCount int

	TLS *socket.TLSConfig
}

// Server is a TCP or TLS accept loop implementing runner.Runnable.
// The zero value is not usable; build one with New.
type Server struct {
	cfg     Config
	service atomic.Pointer[ServiceFunc]

	mu   sync.Mutex
	ln   socket.Socket
	pool *threadpool.Pool

	exitCode atomic.Int32
}

// New builds a Server. service may be nil and set later with
// SetService, which is how httpserver installs its request handler
// after the underlying tcpserver.Server is constructed.
func New(cfg Config, service ServiceFunc) *Server {
	s := &Server{cfg: cfg}
	if service != nil {
		s.SetService(service)
	}
	return s
}

// SetService installs or replaces the function called for each
// accepted connection.
func (s *Server) SetService(fn ServiceFunc) {
	s.service.Store(&fn)
}

// ExitCode is zero after a clean shutdown and non-zero if the accept
// loop ever failed for a reason other than the listener being closed.
func (s *Server) ExitCode() int { return int(s.exitCode.Load()) }

// Addr returns the listening socket's local address, or nil before Do
// has run successfully.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.LocalAddr()
}

// Do binds the listening socket (TLS if cfg.TLS is set) and allocates
// the worker pool. It satisfies runner.Runnable.
func (s *Server) Do(ctx context.Context) error {
	ep := socket.Endpoint{
		Host:       s.cfg.Host,
		Port:       s.cfg.Port,
		Backlog:    s.cfg.Backlog,
		Timeout:    s.cfg.Timeout,
		RetryCount: s.cfg.RetryCount,
		TLS:        s.cfg.TLS,
	}

	var (
		ln  socket.Socket
		err liberr.Error
	)
	if s.cfg.TLS != nil {
		ln, err = socket.ListenTLS(ep)
	} else {
		ln, err = socket.Listen(ep)
	}
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.ln = ln
	s.pool = threadpool.New(s.cfg.WorkerCount, s.cfg.QueueSize, s.cfg.QueuePolicy)
	s.mu.Unlock()

	return nil
}

// Undo closes the listening socket and discards the worker pool
// without waiting for queued work, undoing a successful Do after a
// later runnable's Do failed.
func (s *Server) Undo(ctx context.Context) error {
	s.mu.Lock()
	ln := s.ln
	pool := s.pool
	s.ln, s.pool = nil, nil
	s.mu.Unlock()

	if pool != nil {
		pool.Destroy(false)
	}
	if ln != nil {
		return ln.Close()
	}
	return nil
}

// Run spawns the accept loop goroutine and returns promptly.
func (s *Server) Run(ctx context.Context) error {
	s.mu.Lock()
	ln := s.ln
	s.mu.Unlock()

	if ln == nil {
		return liberr.New(ErrorNotBound, "Run called before a successful Do")
	}
	if s.service.Load() == nil {
		return liberr.New(ErrorNoService, "no service function installed")
	}

	go s.acceptLoop(ln)
	return nil
}

func (s *Server) acceptLoop(ln socket.Socket) {
	for {
		sock, outcome, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			if outcome == socket.Timeout {
				continue
			}
			s.exitCode.Store(1)
			return
		}

		s.mu.Lock()
		pool := s.pool
		s.mu.Unlock()
		if pool == nil {
			_ = sock.Close()
			return
		}

		c := conn.New(sock, s.cfg.BufferSize, s.cfg.Timeout)
		svc := *s.service.Load()

		werr := pool.AddWork(threadpool.WorkItem{
			Work:    func(arg any) { svc(arg.(*conn.Conn)) },
			WorkArg: c,
			Cleanup: func(arg any) { _ = arg.(*conn.Conn).Close() },
		})
		if werr != nil {
			_ = c.Close()
		}
	}
}

// Shutdown closes the listening socket, which unblocks the accept
// loop, then destroys the worker pool with finish=true so in-flight
// and already-queued connections complete.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	ln := s.ln
	pool := s.pool
	s.mu.Unlock()

	var closeErr error
	if ln != nil {
		closeErr = ln.Close()
	}
	if pool != nil {
		pool.Destroy(true)
	}
	return closeErr
}
