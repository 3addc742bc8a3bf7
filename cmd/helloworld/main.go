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

// Command helloworld is the minimal sample server: one page at "/"
// answering "Hello, World!". It exists to exercise the server runtime
// with the smallest possible page registry, and to demonstrate TLS
// being forced off with -t regardless of any configured certificate.
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
	"github.com/bjornaugestad/highlander-go/socket"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "helloworld:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:           "helloworld",
		Short:         "answer Hello, World! on every request",
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
	flags.BoolP("tcp", "t", false, "force plain TCP, ignoring any configured certificate")
	flags.String("cert", "", "TLS certificate chain PEM")
	flags.String("key", "", "TLS private key PEM")
	flags.StringVar(&cfgFile, "config", "", "optional configuration file (yaml/json/toml)")

	return cmd
}

func run(cmd *cobra.Command, cfgFile string) error {
	def := httpserver.DefaultConfig()

	loader := config.NewLoader("helloworld")
	loader.SetConfigFile(cfgFile)
	if err := loader.ReadConfigFile(); err != nil {
		return err
	}
	loader.SetDefaults(map[string]any{
		"host": def.Host,
		"port": def.Port,
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

	cert, _ := cmd.Flags().GetString("cert")
	key, _ := cmd.Flags().GetString("key")
	forceTCP, _ := cmd.Flags().GetBool("tcp")
	if cert != "" && key != "" && !forceTCP {
		cfg.TLS = &socket.TLSConfig{CertFile: cert, KeyFile: key}
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
		_ = resp.SetHeader("Content-Type", "text/plain; charset=utf-8")
		_ = resp.Add([]byte("Hello, World!"))
		return 200
	}, page.Attributes{})

	proc := runner.NewProcess(srv)

	ctx := context.Background()
	if serr := proc.Start(ctx, false); serr != nil {
		return serr
	}

	scheme := "http"
	if cfg.TLS != nil {
		scheme = "https"
	}
	log.Infof("helloworld: listening on %s://%s", scheme, srv.Addr())

	return proc.WaitForShutdown(ctx)
}
