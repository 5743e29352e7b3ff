package control

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/frudas24/deskpad/internal/metrics"
	"github.com/frudas24/deskpad/internal/viewport"
)

// controlServer accepts one control connection and forwards decoded commands.
func controlServer(t *testing.T, received chan<- Command, closeAfter int) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := r.Cookie("session"); err != nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for n := 0; closeAfter <= 0 || n < closeAfter; n++ {
			var msg Message
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			cmd, err := ToCommand(msg)
			if err != nil {
				continue
			}
			received <- cmd
		}
	}))
}

// wsURL converts a test server URL to its websocket form.
func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/control"
}

// sessionHeader carries the session cookie.
func sessionHeader() http.Header {
	h := http.Header{}
	h.Set("Cookie", "session=abc")
	return h
}

// TestClient_DropsWhenNotReady verifies sends before connecting are dropped and counted.
func TestClient_DropsWhenNotReady(t *testing.T) {
	m := metrics.New()
	c := NewClient(ClientOptions{Metrics: m})
	if err := c.Deliver(Click()); !errors.Is(err, ErrNotReady) {
		t.Fatalf("expected ErrNotReady, got %v", err)
	}
	c.Send(Click())
	expected := `
# HELP deskpad_commands_dropped_total Control commands dropped before reaching the control channel
# TYPE deskpad_commands_dropped_total counter
deskpad_commands_dropped_total{reason="not_ready"} 2
`
	if err := testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "deskpad_commands_dropped_total"); err != nil {
		t.Fatalf("unexpected drop metrics: %v", err)
	}
	if c.Ready() {
		t.Fatalf("expected client not ready")
	}
}

// TestClient_SendsInOrder verifies queued commands arrive at the server in order.
func TestClient_SendsInOrder(t *testing.T) {
	received := make(chan Command, 8)
	srv := controlServer(t, received, 0)
	defer srv.Close()

	c := NewClient(ClientOptions{Header: sessionHeader()})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := c.Connect(ctx, wsURL(srv)); err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	defer c.Close()

	want := []Command{
		Down(1, viewport.Point{X: 0.5, Y: 0.5}),
		Move(1, viewport.Point{X: 0.6, Y: 0.5}),
		Up(1, viewport.Point{X: 0.6, Y: 0.5}),
		Wheel(viewport.Point{X: 0.5, Y: 0.5}, 0, 120),
	}
	for _, cmd := range want {
		c.Send(cmd)
	}
	for i, w := range want {
		select {
		case got := <-received:
			if got != w {
				t.Fatalf("command %d: expected %+v, got %+v", i, w, got)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for command %d", i)
		}
	}
}

// TestClient_ServerCloseMarksNotReady verifies a closed channel stops accepting sends.
func TestClient_ServerCloseMarksNotReady(t *testing.T) {
	received := make(chan Command, 8)
	srv := controlServer(t, received, 1)
	defer srv.Close()

	c := NewClient(ClientOptions{Header: sessionHeader()})
	if err := c.Connect(context.Background(), wsURL(srv)); err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	c.Send(Click())
	select {
	case <-c.Done():
	case <-time.After(2 * time.Second):
		t.Fatalf("expected connection to end")
	}
	if c.Ready() {
		t.Fatalf("expected client not ready after close")
	}
	if err := c.Deliver(Click()); !errors.Is(err, ErrNotReady) {
		t.Fatalf("expected ErrNotReady, got %v", err)
	}
}

// TestClient_DialRejected verifies handshake failures are returned.
func TestClient_DialRejected(t *testing.T) {
	srv := controlServer(t, make(chan Command, 1), 0)
	defer srv.Close()

	c := NewClient(ClientOptions{})
	if err := c.Connect(context.Background(), wsURL(srv)); err == nil {
		t.Fatalf("expected unauthorized dial to fail")
	}
}

// TestClient_DrainWaitsForWrites verifies Drain returns once queued commands are written.
func TestClient_DrainWaitsForWrites(t *testing.T) {
	received := make(chan Command, 64)
	srv := controlServer(t, received, 0)
	defer srv.Close()

	c := NewClient(ClientOptions{Header: sessionHeader()})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := c.Connect(ctx, wsURL(srv)); err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	defer c.Close()

	for i := 0; i < 32; i++ {
		c.Send(RelMove(i, 0))
	}
	if err := c.Drain(ctx); err != nil {
		t.Fatalf("drain failed: %v", err)
	}
	if n := c.pending.Load(); n != 0 {
		t.Fatalf("expected nothing pending, got %d", n)
	}
}
