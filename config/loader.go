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

// Package config layers configuration sources the way the sample CLIs
// need it: a config file and environment variables through viper,
// with command-line flags (bound via pflag, the flag type cobra
// commands use) taking precedence over both.
package config

import (
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	liberr "github.com/bjornaugestad/highlander-go/errors"
)

const (
	ErrorReadConfig liberr.CodeError = iota + liberr.MinPkgConfig
	ErrorBindFlags
	ErrorUnmarshal
)

func init() {
	liberr.RegisterIdFctMessage(ErrorReadConfig, getMessage)
}

func getMessage(code liberr.CodeError) (message string) {
	switch code {
	case ErrorReadConfig:
		return "cannot read the configuration file"
	case ErrorBindFlags:
		return "cannot bind command-line flags into the configuration"
	case ErrorUnmarshal:
		return "cannot decode configuration into the target struct"
	}

	return ""
}

// Loader layers a config file and environment variables (prefixed
// envPrefix, with "-" mapped to "_") under a set of bound
// command-line flags, in viper's standard precedence order.
type Loader struct {
	v *viper.Viper
}

// NewLoader returns a Loader reading environment variables prefixed
// by envPrefix, e.g. "HTTPD_PORT" for envPrefix "httpd" and flag "port".
func NewLoader(envPrefix string) *Loader {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return &Loader{v: v}
}

// SetConfigFile points the loader at an explicit config file path. An
// empty path is a no-op: the loader still works from flags and
// environment alone.
func (l *Loader) SetConfigFile(path string) {
	if path != "" {
		l.v.SetConfigFile(path)
	}
}

// ReadConfigFile reads the file set by SetConfigFile, if any. Missing
// file is not an error when no path was set.
func (l *Loader) ReadConfigFile() liberr.Error {
	if l.v.ConfigFileUsed() == "" {
		return nil
	}
	if err := l.v.ReadInConfig(); err != nil {
		return liberr.New(ErrorReadConfig, "reading config file", err)
	}
	return nil
}

// BindFlags merges fs into the loader so flag values take precedence
// over both the config file and the environment.
func (l *Loader) BindFlags(fs *pflag.FlagSet) liberr.Error {
	if err := l.v.BindPFlags(fs); err != nil {
		return liberr.New(ErrorBindFlags, "binding flag set", err)
	}
	return nil
}

// Unmarshal decodes the layered configuration into out, which must be
// a pointer to a mapstructure-tagged struct.
func (l *Loader) Unmarshal(out any) liberr.Error {
	if err := l.v.Unmarshal(out); err != nil {
		return liberr.New(ErrorUnmarshal, "decoding configuration", err)
	}
	return nil
}

// Get returns one raw configuration value, honoring the same
// flag/env/file precedence as Unmarshal.
func (l *Loader) Get(key string) any { return l.v.Get(key) }

// SetDefaults seeds the lowest layer of precedence, below the config
// file, the environment and bound flags. Callers typically flatten a
// DefaultConfig() value into defaults by mapstructure key.
func (l *Loader) SetDefaults(defaults map[string]any) {
	for key, value := range defaults {
		l.v.SetDefault(key, value)
	}
}
