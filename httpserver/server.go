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

// Package httpserver is the HTTP server façade: it wires tcpserver,
// page and filecache together behind one runner.Runnable, building
// the per-connection service function that tcpserver drives from its
// worker pool.
package httpserver

import (
	"context"
	"net"

	liberr "github.com/bjornaugestad/highlander-go/errors"
	"github.com/bjornaugestad/highlander-go/filecache"
	"github.com/bjornaugestad/highlander-go/logger"
	"github.com/bjornaugestad/highlander-go/page"
	"github.com/bjornaugestad/highlander-go/tcpserver"
)

// Server is the HTTP server façade described by spec.md §4.10. The
// zero value is not usable; build one with New.
type Server struct {
	cfg Config

	cache    *filecache.Cache
	registry *page.Registry
	tcp      *tcpserver.Server
}

// New builds a Server from cfg. The page registry is empty; register
// pages and files with Pages() before calling Do.
func New(cfg Config) (*Server, liberr.Error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Log == nil {
		cfg.Log = logger.Static(logger.Discard())
	}

	cache, cerr := filecache.New(cfg.CacheBudgetBytes, cfg.CacheHotlistSize)
	if cerr != nil {
		return nil, liberr.New(ErrorCacheInit, "building file cache", cerr)
	}

	registry := page.NewRegistry(cache, cfg.DocRoot, cfg.CanReadFiles, cfg.MaxPages)

	s := &Server{cfg: cfg, cache: cache, registry: registry}
	s.tcp = tcpserver.New(tcpserver.Config{
		Host:        cfg.Host,
		Port:        cfg.Port,
		Backlog:     cfg.Backlog,
		WorkerCount: cfg.WorkerCount,
		QueueSize:   cfg.QueueSize,
		QueuePolicy: cfg.QueuePolicy,
		BufferSize:  cfg.BufferSize,
		Timeout:     cfg.Timeout,
		TLS:         cfg.TLS,
	}, s.serviceConnection)

	return s, nil
}

// Pages returns the page registry so the caller can add_page/add_file
// before Do starts the listener and loads static content.
func (s *Server) Pages() *page.Registry { return s.registry }

// Cache returns the underlying file cache, for callers that need to
// invalidate or inspect it directly (e.g. admin endpoints).
func (s *Server) Cache() *filecache.Cache { return s.cache }

// Addr returns the listening socket's local address, or nil before Do
// has run successfully.
func (s *Server) Addr() net.Addr { return s.tcp.Addr() }

// Do starts the underlying tcpserver listener and eagerly loads every
// registered static page into the file cache.
func (s *Server) Do(ctx context.Context) error {
	if err := s.tcp.Do(ctx); err != nil {
		return err
	}
	if err := s.registry.Start(); err != nil {
		_ = s.tcp.Undo(ctx)
		return liberr.New(ErrorPageStart, "loading static pages", err)
	}
	return nil
}

// Undo tears down the listener and pool without draining, undoing a
// successful Do after a later runnable's Do failed.
func (s *Server) Undo(ctx context.Context) error {
	return s.tcp.Undo(ctx)
}

// Run starts the accept loop.
func (s *Server) Run(ctx context.Context) error {
	return s.tcp.Run(ctx)
}

// Shutdown stops the listener and waits for in-flight requests to
// finish.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.tcp.Shutdown(ctx)
}

// ExitCode mirrors the underlying tcpserver's accept-loop exit code.
func (s *Server) ExitCode() int { return s.tcp.ExitCode() }
