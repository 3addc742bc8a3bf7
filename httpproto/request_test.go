package httpproto_test

import (
	"net"
	"strings"
	"testing"
	"time"

	"github.com/bjornaugestad/highlander-go/conn"
	"github.com/bjornaugestad/highlander-go/httpproto"
	"github.com/bjornaugestad/highlander-go/socket"
)

func pair(t *testing.T) (client net.Conn, server *conn.Conn) {
	t.Helper()

	ln, err := socket.Listen(socket.Endpoint{Host: "127.0.0.1", Port: 0, Backlog: 1, Timeout: 2 * time.Second})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = ln.Close() })

	accepted := make(chan socket.Socket, 1)
	go func() {
		s, _, _ := ln.Accept()
		accepted <- s
	}()

	addr := ln.LocalAddr().(*net.TCPAddr)
	c, err := net.Dial("tcp", addr.String())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = c.Close() })

	sock := <-accepted
	return c, conn.New(sock, 4096, 2*time.Second)
}

func TestParseRequestLineAndHeaders(t *testing.T) {
	client, server := pair(t)

	go func() {
		_, _ = client.Write([]byte("GET /hello?name=world HTTP/1.1\r\nHost: example.com\r\nAccept: text/html\r\nAccept: application/json\r\n\r\n"))
	}()

	req, err := httpproto.ParseRequest(server, httpproto.DefaultLimits)
	if err != nil {
		t.Fatalf("ParseRequest: %v", err)
	}

	if req.Method != httpproto.MethodGet {
		t.Fatalf("method = %v, want GET", req.Method)
	}
	if req.Path != "/hello" {
		t.Fatalf("path = %q, want /hello", req.Path)
	}
	if v, _ := req.GetParameter("name"); v != "world" {
		t.Fatalf("param name = %q, want world", v)
	}
	if host, ok := req.Header.Get("Host"); !ok || host != "example.com" {
		t.Fatalf("Host header = %q, %v", host, ok)
	}
	if accept, _ := req.Header.Get("Accept"); accept != "text/html, application/json" {
		t.Fatalf("list-valued Accept = %q", accept)
	}
}

func TestUnknownMethodRejected(t *testing.T) {
	client, server := pair(t)

	go func() {
		_, _ = client.Write([]byte("FROB / HTTP/1.1\r\n\r\n"))
	}()

	_, err := httpproto.ParseRequest(server, httpproto.DefaultLimits)
	if err == nil {
		t.Fatal("expected an error for an unknown method")
	}
	status, ok := httpproto.StatusFor(err)
	if !ok || status != 501 {
		t.Fatalf("status = %d, ok=%v, want 501", status, ok)
	}
}

func TestContentLengthOverPostLimit(t *testing.T) {
	client, server := pair(t)

	body := strings.Repeat("x", 20)
	go func() {
		_, _ = client.Write([]byte("POST /submit HTTP/1.1\r\nContent-Length: 20\r\n\r\n" + body))
	}()

	limits := httpproto.DefaultLimits
	limits.PostLimit = 10
	_, err := httpproto.ParseRequest(server, limits)
	if err == nil {
		t.Fatal("expected a payload-too-large error")
	}
	status, ok := httpproto.StatusFor(err)
	if !ok || status != 413 {
		t.Fatalf("status = %d, ok=%v, want 413", status, ok)
	}
}

func TestDuplicateHeaderRejected(t *testing.T) {
	client, server := pair(t)

	go func() {
		_, _ = client.Write([]byte("GET / HTTP/1.1\r\nX-Custom: one\r\nX-Custom: two\r\n\r\n"))
	}()

	_, err := httpproto.ParseRequest(server, httpproto.DefaultLimits)
	if err == nil {
		t.Fatal("expected a duplicate-header error")
	}
	status, ok := httpproto.StatusFor(err)
	if !ok || status != 400 {
		t.Fatalf("status = %d, ok=%v, want 400", status, ok)
	}
}
