package httpproto_test

import (
	"bufio"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/bjornaugestad/highlander-go/conn"
	"github.com/bjornaugestad/highlander-go/httpproto"
)

func serverPair(t *testing.T) (client net.Conn, server *conn.Conn) {
	t.Helper()
	return pair(t)
}

func TestSendWritesStatusHeadersAndBody(t *testing.T) {
	client, server := serverPair(t)

	resp := httpproto.NewResponse()
	if err := resp.Add([]byte("hello")); err != nil {
		t.Fatal(err)
	}
	if err := resp.SetHeader("Content-Type", "text/plain"); err != nil {
		t.Fatal(err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := resp.Send(server, "HTTP/1.1", "highlander", time.Unix(0, 0)); err != nil {
			t.Error(err)
		}
		_ = server.Flush()
	}()

	r := bufio.NewReader(client)
	statusLine, _ := r.ReadString('\n')
	if !strings.HasPrefix(statusLine, "HTTP/1.1 200 OK") {
		t.Fatalf("status line = %q", statusLine)
	}

	var contentLength string
	for {
		line, _ := r.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		if strings.HasPrefix(line, "Content-Length:") {
			contentLength = strings.TrimSpace(strings.TrimPrefix(line, "Content-Length:"))
		}
	}
	if contentLength != "5" {
		t.Fatalf("Content-Length = %q, want 5", contentLength)
	}

	body := make([]byte, 5)
	if _, err := r.Read(body); err != nil {
		t.Fatal(err)
	}
	if string(body) != "hello" {
		t.Fatalf("body = %q, want hello", body)
	}

	<-done
}

func TestSetStatusAfterSendFails(t *testing.T) {
	_, server := serverPair(t)

	resp := httpproto.NewResponse()
	go func() {
		_ = resp.Send(server, "HTTP/1.1", "highlander", time.Now())
		_ = server.Flush()
	}()
	time.Sleep(50 * time.Millisecond)

	if err := resp.SetStatus(404); err == nil {
		t.Fatal("expected ErrorResponseAlreadySent after Send")
	}
}

func TestCookieFormatOmitsUnsetMaxAge(t *testing.T) {
	c := httpproto.Cookie{Name: "session", Value: "abc123", Path: "/", MaxAge: -1, Secure: true}
	formatted := c.Format()
	if !strings.Contains(formatted, "session=abc123") || !strings.Contains(formatted, "Secure") {
		t.Fatalf("formatted cookie = %q", formatted)
	}
	if strings.Contains(formatted, "Max-Age") {
		t.Fatalf("Max-Age=-1 must be omitted, got %q", formatted)
	}
}
