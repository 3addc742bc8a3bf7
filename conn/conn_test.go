package conn_test

import (
	"net"
	"testing"
	"time"

	"github.com/bjornaugestad/highlander-go/conn"
	"github.com/bjornaugestad/highlander-go/socket"
)

func pair(t *testing.T) (client, server socket.Socket) {
	t.Helper()

	ln, err := socket.Listen(socket.Endpoint{Host: "127.0.0.1", Port: 0, Timeout: time.Second})
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()

	accepted := make(chan socket.Socket, 1)
	go func() {
		s, _, _ := ln.Accept()
		accepted <- s
	}()

	port := ln.LocalAddr().(*net.TCPAddr).Port
	c, err := socket.Dial(socket.Endpoint{Host: "127.0.0.1", Port: port, Timeout: time.Second})
	if err != nil {
		t.Fatal(err)
	}

	return c, <-accepted
}

func TestPutsFlushGetsRoundTrip(t *testing.T) {
	client, server := pair(t)
	defer client.Close()
	defer server.Close()

	cw := conn.New(client, 64, time.Second)
	cr := conn.New(server, 64, time.Second)

	if err := cw.Puts("hello world\r\n"); err != nil {
		t.Fatal(err)
	}
	if err := cw.Flush(); err != nil {
		t.Fatal(err)
	}

	line, err := cr.Gets(128)
	if err != nil {
		t.Fatal(err)
	}
	if line != "hello world" {
		t.Fatalf("got %q, want %q", line, "hello world")
	}
}

func TestGetcUngetc(t *testing.T) {
	client, server := pair(t)
	defer client.Close()
	defer server.Close()

	cw := conn.New(client, 64, time.Second)
	cr := conn.New(server, 64, time.Second)

	if _, err := cw.Write([]byte("A")); err != nil {
		t.Fatal(err)
	}
	if err := cw.Flush(); err != nil {
		t.Fatal(err)
	}

	b, err := cr.Getc()
	if err != nil {
		t.Fatal(err)
	}
	if b != 'A' {
		t.Fatalf("got %q, want 'A'", b)
	}

	cr.Ungetc(b)

	b2, err := cr.Getc()
	if err != nil {
		t.Fatal(err)
	}
	if b2 != 'A' {
		t.Fatalf("ungetc/getc mismatch: got %q", b2)
	}
}

func TestWriteBypassesBufferForOversizedPayload(t *testing.T) {
	client, server := pair(t)
	defer client.Close()
	defer server.Close()

	cw := conn.New(client, 8, time.Second)
	cr := conn.New(server, 8, time.Second)

	payload := make([]byte, 1000)
	for i := range payload {
		payload[i] = byte(i % 251)
	}

	done := make(chan error, 1)
	go func() {
		_, werr := cw.Write(payload)
		if werr != nil {
			done <- werr
			return
		}
		done <- cw.Flush()
	}()

	got, err := cr.Read(len(payload))
	if err != nil {
		t.Fatal(err)
	}
	if werr := <-done; werr != nil {
		t.Fatal(werr)
	}

	if len(got) != len(payload) {
		t.Fatalf("got %d bytes, want %d", len(got), len(payload))
	}
	for i := range payload {
		if got[i] != payload[i] {
			t.Fatalf("byte %d mismatch: got %d want %d", i, got[i], payload[i])
		}
	}
}

func TestRecycleDropsStaleBufferedInput(t *testing.T) {
	client, server := pair(t)
	defer client.Close()
	defer server.Close()

	cw := conn.New(client, 64, time.Second)
	cr := conn.New(server, 64, time.Second)

	if _, err := cw.Write([]byte("stale")); err != nil {
		t.Fatal(err)
	}
	if err := cw.Flush(); err != nil {
		t.Fatal(err)
	}

	// Force a refill so "stale" sits in the read buffer, unread.
	b, err := cr.Getc()
	if err != nil || b != 's' {
		t.Fatalf("unexpected prefill: b=%q err=%v", b, err)
	}

	cr.Recycle()

	if _, err := cw.Write([]byte("fresh")); err != nil {
		t.Fatal(err)
	}
	if err := cw.Flush(); err != nil {
		t.Fatal(err)
	}

	got, err := cr.Read(5)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "fresh" {
		t.Fatalf("got %q, want %q (recycle should drop the stale buffered tail)", got, "fresh")
	}
}

func TestDetachReattachBuffers(t *testing.T) {
	client, server := pair(t)
	defer client.Close()
	defer server.Close()

	cw := conn.New(client, 64, time.Second)
	cr := conn.New(server, 64, time.Second)

	read, write := cr.DetachBuffers()
	if read == nil || write == nil {
		t.Fatal("expected non-nil detached buffers")
	}

	if err := cr.Putc('x'); err == nil {
		t.Fatal("expected error writing with no buffer attached")
	}

	cr.AttachBuffers(read, write)

	if err := cw.Puts("ok\r\n"); err != nil {
		t.Fatal(err)
	}
	if err := cw.Flush(); err != nil {
		t.Fatal(err)
	}

	line, err := cr.Gets(32)
	if err != nil {
		t.Fatal(err)
	}
	if line != "ok" {
		t.Fatalf("got %q, want %q", line, "ok")
	}
}
