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

// Command httpd is the normative static-file sample server: it serves
// a document root under "/" and exits non-zero if given a port out of
// range, per spec.md's CLI surface.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bjornaugestad/highlander-go/config"
	"github.com/bjornaugestad/highlander-go/httpproto"
	"github.com/bjornaugestad/highlander-go/httpserver"
	"github.com/bjornaugestad/highlander-go/logger"
	"github.com/bjornaugestad/highlander-go/page"
	"github.com/bjornaugestad/highlander-go/runner"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "httpd:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:           "httpd",
		Short:         "serve a document root over HTTP",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, cfgFile)
		},
	}

	def := httpserver.DefaultConfig()
	flags := cmd.Flags()
	flags.IntP("port", "p", def.Port, "listen port")
	flags.String("host", def.Host, "listen address")
	flags.String("doc-root", "", "directory served at \"/\"")
	flags.StringVar(&cfgFile, "config", "", "optional configuration file (yaml/json/toml)")

	return cmd
}

func run(cmd *cobra.Command, cfgFile string) error {
	def := httpserver.DefaultConfig()

	loader := config.NewLoader("httpd")
	loader.SetConfigFile(cfgFile)
	if err := loader.ReadConfigFile(); err != nil {
		return err
	}
	loader.SetDefaults(map[string]any{
		"host":                    def.Host,
		"port":                    def.Port,
		"backlog":                 def.Backlog,
		"worker_count":            def.WorkerCount,
		"queue_size":              def.QueueSize,
		"buffer_size":             def.BufferSize,
		"timeout":                 def.Timeout,
		"max_pages":               def.MaxPages,
		"post_limit":              def.PostLimit,
		"keep_alive_timeout":      def.KeepAliveTimeout,
		"max_keep_alive_requests": def.MaxKeepAliveRequests,
		"cache_budget_bytes":      def.CacheBudgetBytes,
		"cache_hotlist_size":      def.CacheHotlistSize,
		"server_name":             def.ServerName,
	})
	if err := loader.BindFlags(cmd.Flags()); err != nil {
		return err
	}

	cfg := def
	if err := loader.Unmarshal(&cfg); err != nil {
		return err
	}
	cfg.QueuePolicy = def.QueuePolicy
	cfg.Limits = def.Limits

	if docRoot, _ := cmd.Flags().GetString("doc-root"); docRoot != "" {
		cfg.DocRoot = docRoot
		cfg.CanReadFiles = true
	}

	log := logger.New(logger.InfoLevel, nil)
	cfg.Log = logger.Static(log)

	if err := cfg.Validate(); err != nil {
		return err
	}

	srv, err := httpserver.New(cfg)
	if err != nil {
		return err
	}

	_ = srv.Pages().AddPage("/", func(req *httpproto.Request, resp *httpproto.Response) int {
		_ = resp.SetHeader("Content-Type", "text/html; charset=utf-8")
		_ = resp.Add(httpproto.MinimalBody(200))
		return 200
	}, page.Attributes{})

	proc := runner.NewProcess(srv)

	ctx := context.Background()
	if serr := proc.Start(ctx, false); serr != nil {
		return serr
	}

	log.Infof("httpd: listening on %s", srv.Addr())

	if werr := proc.WaitForShutdown(ctx); werr != nil {
		return werr
	}
	return nil
}
