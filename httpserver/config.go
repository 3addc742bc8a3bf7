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

package httpserver

import (
	"time"

	"github.com/go-playground/validator/v10"

	liberr "github.com/bjornaugestad/highlander-go/errors"
	"github.com/bjornaugestad/highlander-go/httpproto"
	"github.com/bjornaugestad/highlander-go/logger"
	"github.com/bjornaugestad/highlander-go/socket"
	"github.com/bjornaugestad/highlander-go/threadpool"
)

var validate = validator.New()

// Config wires every policy knob spec.md §4.10 assigns to the
// façade: the TCP server's bind/worker settings, the page registry's
// document root and page limit, and the keep-alive discipline.
type Config struct {
	Host string `mapstructure:"host" validate:"required"`
	Port int    `mapstructure:"port" validate:"min=0,max=65535"`

	Backlog     int               `mapstructure:"backlog" validate:"min=1"`
	WorkerCount int               `mapstructure:"worker_count" validate:"min=1"`
	QueueSize   int               `mapstructure:"queue_size" validate:"min=1"`
	QueuePolicy threadpool.Policy `mapstructure:"queue_policy"`

	BufferSize int           `mapstructure:"buffer_size" validate:"min=256"`
	Timeout    time.Duration `mapstructure:"timeout" validate:"min=1"`

	TLS *socket.TLSConfig `mapstructure:"tls"`

	DocRoot      string `mapstructure:"doc_root"`
	CanReadFiles bool   `mapstructure:"can_read_files"`
	MaxPages     int    `mapstructure:"max_pages"`

	PostLimit int `mapstructure:"post_limit" validate:"min=0"`

	KeepAliveTimeout      time.Duration `mapstructure:"keep_alive_timeout"`
	MaxKeepAliveRequests  int           `mapstructure:"max_keep_alive_requests"`
	CacheBudgetBytes      int64         `mapstructure:"cache_budget_bytes" validate:"min=0"`
	CacheHotlistSize      int           `mapstructure:"cache_hotlist_size" validate:"min=1"`
	ServerName            string        `mapstructure:"server_name"`
	Limits                httpproto.Limits

	Log logger.FuncLog `mapstructure:"-"`
}

// DefaultConfig is a reasonable starting point for the sample CLIs,
// overridden field by field from flags or a config file.
func DefaultConfig() Config {
	return Config{
		Host:                 "0.0.0.0",
		Port:                 8080,
		Backlog:              128,
		WorkerCount:          8,
		QueueSize:            64,
		QueuePolicy:          threadpool.Block,
		BufferSize:           8192,
		Timeout:              30 * time.Second,
		CanReadFiles:         false,
		MaxPages:             0,
		PostLimit:            1 << 20,
		KeepAliveTimeout:     5 * time.Second,
		MaxKeepAliveRequests: 100,
		CacheBudgetBytes:     64 << 20,
		CacheHotlistSize:     256,
		ServerName:           "highlander",
		Limits:               httpproto.DefaultLimits,
		Log:                  logger.Static(logger.Discard()),
	}
}

// Validate applies struct tag validation and the cross-field checks
// tags alone cannot express.
func (c Config) Validate() liberr.Error {
	if err := validate.Struct(c); err != nil {
		return liberr.New(ErrorInvalidConfig, err.Error(), err)
	}
	if c.CanReadFiles && c.DocRoot == "" {
		return liberr.New(ErrorInvalidConfig, "can_read_files requires a non-empty doc_root")
	}
	return nil
}
