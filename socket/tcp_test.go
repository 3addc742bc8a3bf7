package socket_test

import (
	"net"
	"testing"
	"time"

	"github.com/bjornaugestad/highlander-go/socket"
)

func TestListenAcceptDialRoundTrip(t *testing.T) {
	ln, err := socket.Listen(socket.Endpoint{Host: "127.0.0.1", Port: 0, Timeout: time.Second})
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()

	port := ln.LocalAddr().(*net.TCPAddr).Port

	accepted := make(chan socket.Socket, 1)
	go func() {
		conn, outcome, err := ln.Accept()
		if err != nil || outcome != socket.Success {
			t.Errorf("accept failed: outcome=%v err=%v", outcome, err)
			accepted <- nil
			return
		}
		accepted <- conn
	}()

	client, err := socket.Dial(socket.Endpoint{Host: "127.0.0.1", Port: port, Timeout: time.Second})
	if err != nil {
		t.Fatal(err)
	}
	defer client.Close()

	server := <-accepted
	if server == nil {
		t.Fatal("server-side accept failed")
	}
	defer server.Close()

	n, outcome, err := client.Write([]byte("hello"))
	if err != nil || outcome != socket.Success || n != 5 {
		t.Fatalf("write failed: n=%d outcome=%v err=%v", n, outcome, err)
	}

	buf := make([]byte, 5)
	n, outcome, err = server.Read(buf)
	if err != nil || outcome != socket.Success || string(buf[:n]) != "hello" {
		t.Fatalf("read failed: n=%d outcome=%v err=%v buf=%q", n, outcome, err, buf[:n])
	}
}

func TestReadTimeoutOutcome(t *testing.T) {
	ln, err := socket.Listen(socket.Endpoint{Host: "127.0.0.1", Port: 0, Timeout: 50 * time.Millisecond})
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()

	port := ln.LocalAddr().(*net.TCPAddr).Port

	accepted := make(chan socket.Socket, 1)
	go func() {
		conn, _, _ := ln.Accept()
		accepted <- conn
	}()

	client, err := socket.Dial(socket.Endpoint{Host: "127.0.0.1", Port: port, Timeout: time.Second})
	if err != nil {
		t.Fatal(err)
	}
	defer client.Close()

	server := <-accepted
	defer server.Close()

	buf := make([]byte, 16)
	_, outcome, _ := server.Read(buf)
	if outcome != socket.Timeout {
		t.Fatalf("expected Timeout outcome on idle connection, got %v", outcome)
	}
}
