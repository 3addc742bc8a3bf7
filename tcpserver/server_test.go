package tcpserver_test

import (
	"context"
	"net"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/bjornaugestad/highlander-go/conn"
	"github.com/bjornaugestad/highlander-go/tcpserver"
	"github.com/bjornaugestad/highlander-go/threadpool"
)

func TestAcceptLoopServicesConnections(t *testing.T) {
	var mu sync.Mutex
	var received []string

	srv := tcpserver.New(tcpserver.Config{
		Host:        "127.0.0.1",
		Port:        0,
		Backlog:     8,
		WorkerCount: 2,
		QueueSize:   4,
		QueuePolicy: threadpool.Reject,
		BufferSize:  256,
		Timeout:     2 * time.Second,
	}, func(c *conn.Conn) {
		line, err := c.Gets(256)
		if err == nil {
			mu.Lock()
			received = append(received, line)
			mu.Unlock()
		}
	})

	ctx := context.Background()
	if err := srv.Do(ctx); err != nil {
		t.Fatal(err)
	}
	if err := srv.Run(ctx); err != nil {
		t.Fatal(err)
	}

	port := srv.Addr().(*net.TCPAddr).Port

	c, err := net.Dial("tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(port)))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.Write([]byte("hello\r\n")); err != nil {
		t.Fatal(err)
	}
	c.Close()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		mu.Lock()
		n := len(received)
		mu.Unlock()
		if n > 0 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		t.Fatal(err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(received) != 1 || received[0] != "hello" {
		t.Fatalf("got %v, want [hello]", received)
	}
	if srv.ExitCode() != 0 {
		t.Fatalf("exit code = %d, want 0 after clean shutdown", srv.ExitCode())
	}
}

