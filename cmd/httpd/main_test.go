package main

import "testing"

func TestHelpExitsClean(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"--help"})
	cmd.SetOut(new(discardWriter))
	if err := cmd.Execute(); err != nil {
		t.Fatalf("--help returned %v, want nil", err)
	}
}

func TestPortOutOfRangeFails(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"--port", "99999"})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected an error for a port outside 0-65535")
	}
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }
