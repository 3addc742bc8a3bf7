package logger_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/bjornaugestad/highlander-go/logger"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(logger.WarnLevel, &buf)

	l.Info("should not appear")
	l.Error("should appear")

	out := buf.String()
	if strings.Contains(out, "should not appear") {
		t.Fatalf("info line leaked through a warn-level logger: %q", out)
	}
	if !strings.Contains(out, "should appear") {
		t.Fatalf("error line missing: %q", out)
	}
}

func TestSetLevelTakesEffect(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(logger.ErrorLevel, &buf)

	l.Info("still filtered")
	l.SetLevel(logger.InfoLevel)
	l.Info("now visible")

	out := buf.String()
	if strings.Contains(out, "still filtered") {
		t.Fatalf("info logged before SetLevel raised the threshold: %q", out)
	}
	if !strings.Contains(out, "now visible") {
		t.Fatalf("info missing after SetLevel: %q", out)
	}
}

func TestStaticFuncLog(t *testing.T) {
	l := logger.Discard()
	get := logger.Static(l)

	if get() != l {
		t.Fatal("Static(l)() must return the same Logger instance")
	}
}

func TestFieldsAttached(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(logger.InfoLevel, &buf)

	l.Entry(logger.Fields{"request_id": "abc123"}).Info("handled")

	if !strings.Contains(buf.String(), "request_id=abc123") {
		t.Fatalf("expected field in output, got %q", buf.String())
	}
}
