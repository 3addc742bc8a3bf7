package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"

	"github.com/bjornaugestad/highlander-go/config"
)

type sample struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

func TestFlagsOverrideDefaults(t *testing.T) {
	l := config.NewLoader("test")
	l.SetDefaults(map[string]any{"host": "0.0.0.0", "port": 8080})

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Int("port", 9090, "")
	if err := fs.Parse([]string{"--port", "9999"}); err != nil {
		t.Fatal(err)
	}
	if err := l.BindFlags(fs); err != nil {
		t.Fatal(err)
	}

	var out sample
	if err := l.Unmarshal(&out); err != nil {
		t.Fatal(err)
	}
	if out.Port != 9999 {
		t.Fatalf("Port = %d, want 9999 (flag should win over default)", out.Port)
	}
	if out.Host != "0.0.0.0" {
		t.Fatalf("Host = %q, want default 0.0.0.0 (unset by flag)", out.Host)
	}
}

func TestConfigFileLayersUnderFlags(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.yaml")
	if err := os.WriteFile(path, []byte("host: 10.0.0.1\nport: 7000\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	l := config.NewLoader("test")
	l.SetConfigFile(path)
	if err := l.ReadConfigFile(); err != nil {
		t.Fatal(err)
	}

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Int("port", 8080, "")
	if err := fs.Parse(nil); err != nil {
		t.Fatal(err)
	}
	if err := l.BindFlags(fs); err != nil {
		t.Fatal(err)
	}

	var out sample
	if err := l.Unmarshal(&out); err != nil {
		t.Fatal(err)
	}
	if out.Host != "10.0.0.1" {
		t.Fatalf("Host = %q, want 10.0.0.1 from config file", out.Host)
	}
	if out.Port != 7000 {
		t.Fatalf("Port = %d, want 7000 from config file (flag left at its own default)", out.Port)
	}
}

func TestMissingConfigFileIsNotAnError(t *testing.T) {
	l := config.NewLoader("test")
	if err := l.ReadConfigFile(); err != nil {
		t.Fatalf("unexpected error with no config file set: %v", err)
	}
}
