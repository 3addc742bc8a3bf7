package httpserver_test

import (
	"bufio"
	"context"
	"io"
	"net"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/bjornaugestad/highlander-go/httpproto"
	"github.com/bjornaugestad/highlander-go/httpserver"
	"github.com/bjornaugestad/highlander-go/page"
	"github.com/bjornaugestad/highlander-go/threadpool"
)

func newTestServer(t *testing.T) *httpserver.Server {
	t.Helper()

	cfg := httpserver.DefaultConfig()
	cfg.Host = "127.0.0.1"
	cfg.Port = 0
	cfg.WorkerCount = 4
	cfg.QueueSize = 8
	cfg.QueuePolicy = threadpool.Reject
	cfg.KeepAliveTimeout = time.Second
	cfg.MaxKeepAliveRequests = 100

	srv, err := httpserver.New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	return srv
}

func startServer(t *testing.T, srv *httpserver.Server) string {
	t.Helper()

	ctx := context.Background()
	if err := srv.Do(ctx); err != nil {
		t.Fatal(err)
	}
	if err := srv.Run(ctx); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	})

	return srv.Addr().(*net.TCPAddr).String()
}

func getOnce(t *testing.T, addr, path string) (status int, body string, headers map[string]string) {
	t.Helper()

	c, err := net.DialTimeout("tcp", addr, 2*time.Second)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	if _, err := c.Write([]byte("GET " + path + " HTTP/1.1\r\nHost: test\r\nConnection: close\r\n\r\n")); err != nil {
		t.Fatal(err)
	}

	r := bufio.NewReader(c)
	statusLine, err := r.ReadString('\n')
	if err != nil {
		t.Fatal(err)
	}
	fields := strings.Fields(statusLine)
	if len(fields) < 2 {
		t.Fatalf("malformed status line %q", statusLine)
	}
	code, err := strconv.Atoi(fields[1])
	if err != nil {
		t.Fatalf("non-numeric status in %q", statusLine)
	}

	headers = make(map[string]string)
	for {
		line, _ := r.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		name, value, found := strings.Cut(line, ":")
		if found {
			headers[name] = strings.TrimSpace(value)
		}
	}

	rest, _ := io.ReadAll(r)
	return code, string(rest), headers
}

func TestScenarioRootPageReturnsHello(t *testing.T) {
	srv := newTestServer(t)
	_ = srv.Pages().AddPage("/", func(req *httpproto.Request, resp *httpproto.Response) int {
		_ = resp.Add([]byte("hello"))
		return 200
	}, page.Attributes{})

	addr := startServer(t, srv)

	status, body, headers := getOnce(t, addr, "/")
	if status != 200 {
		t.Fatalf("status = %d, want 200", status)
	}
	if body != "hello" {
		t.Fatalf("body = %q, want hello", body)
	}
	if headers["Content-Length"] != "5" {
		t.Fatalf("Content-Length = %q, want 5", headers["Content-Length"])
	}
}

func TestScenarioMissingPageReturns404(t *testing.T) {
	srv := newTestServer(t)
	addr := startServer(t, srv)

	status, body, _ := getOnce(t, addr, "/missing")
	if status != 404 {
		t.Fatalf("status = %d, want 404", status)
	}
	if len(body) == 0 {
		t.Fatal("expected a minimal HTML body")
	}
}
