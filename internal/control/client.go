package control

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/frudas24/deskpad/internal/logging"
	"github.com/frudas24/deskpad/internal/metrics"
)

const (
	defaultQueueSize = 256
	writeTimeout     = 5 * time.Second
	drainPoll        = 10 * time.Millisecond
)

var (
	// ErrNotReady is returned when the control channel is not connected.
	ErrNotReady = errors.New("control channel not ready")
	// ErrQueueFull is returned when the outgoing buffer is full.
	ErrQueueFull = errors.New("control queue full")
)

// ClientOptions configures a Client.
type ClientOptions struct {
	// Header is sent with the websocket handshake, typically the session cookie.
	Header    http.Header
	QueueSize int
	Dialer    *websocket.Dialer
	Logger    *zap.Logger
	Metrics   *metrics.Metrics
}

// Client delivers commands over the control websocket. A Client connects once. Sends never
// block: commands are queued for a writer goroutine and dropped when the channel is not ready
// or the queue is full.
type Client struct {
	mu      sync.Mutex
	conn    *websocket.Conn
	ready   bool
	queue   chan Message
	pending atomic.Int64
	done    chan struct{}
	once    sync.Once
	header  http.Header
	dialer  *websocket.Dialer
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewClient returns an unconnected client.
func NewClient(opts ClientOptions) *Client {
	size := opts.QueueSize
	if size <= 0 {
		size = defaultQueueSize
	}
	dialer := opts.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}
	return &Client{
		queue:   make(chan Message, size),
		done:    make(chan struct{}),
		header:  opts.Header,
		dialer:  dialer,
		logger:  logging.OrNop(opts.Logger),
		metrics: opts.Metrics,
	}
}

// Connect dials url and starts the reader and writer goroutines.
func (c *Client) Connect(ctx context.Context, url string) error {
	conn, resp, err := c.dialer.DialContext(ctx, url, c.header)
	if err != nil {
		if resp != nil {
			return fmt.Errorf("dial control %s: %s: %w", url, resp.Status, err)
		}
		return fmt.Errorf("dial control %s: %w", url, err)
	}

	c.mu.Lock()
	if c.conn != nil {
		c.mu.Unlock()
		_ = conn.Close()
		return fmt.Errorf("control connection already active")
	}
	c.conn = conn
	c.ready = true
	c.mu.Unlock()
	c.metrics.SetConnected(true)
	c.logger.Info("control channel connected", zap.String("url", url))

	go c.readLoop(conn)
	go c.writeLoop(conn)
	return nil
}

// Ready reports whether commands are currently accepted.
func (c *Client) Ready() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ready
}

// Done is closed once the connection has ended.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Send queues cmd, dropping it silently when it cannot be delivered.
func (c *Client) Send(cmd Command) {
	if err := c.Deliver(cmd); err != nil {
		c.logger.Debug("control command dropped", zap.String("type", string(cmd.Type)), zap.Error(err))
	}
}

// Deliver queues cmd and reports why it was dropped, if it was.
func (c *Client) Deliver(cmd Command) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.ready {
		c.metrics.CommandDropped(metrics.ReasonNotReady)
		return ErrNotReady
	}
	c.pending.Add(1)
	select {
	case c.queue <- ToMessage(cmd):
		return nil
	default:
		c.pending.Add(-1)
		c.metrics.CommandDropped(metrics.ReasonQueueFull)
		return ErrQueueFull
	}
}

// Drain waits until every queued command has been written, the connection ends or ctx is done.
func (c *Client) Drain(ctx context.Context) error {
	t := time.NewTicker(drainPoll)
	defer t.Stop()
	for c.pending.Load() > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.done:
			return ErrNotReady
		case <-t.C:
		}
	}
	return nil
}

// Close shuts the connection down.
func (c *Client) Close() error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		c.markClosed(nil)
		return nil
	}
	deadline := time.Now().Add(time.Second)
	_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
	c.markClosed(conn)
	return conn.Close()
}

// readLoop drains server frames so close and ping handling work, and ends on error.
func (c *Client) readLoop(conn *websocket.Conn) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.Debug("control read ended", zap.Error(err))
			}
			c.markClosed(conn)
			_ = conn.Close()
			return
		}
	}
}

// writeLoop writes queued messages until the connection ends.
func (c *Client) writeLoop(conn *websocket.Conn) {
	for {
		select {
		case <-c.done:
			return
		case msg := <-c.queue:
			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			err := conn.WriteJSON(msg)
			c.pending.Add(-1)
			if err != nil {
				c.metrics.CommandDropped(metrics.ReasonWrite)
				c.logger.Warn("control write failed", zap.String("type", msg.T), zap.Error(err))
				c.markClosed(conn)
				_ = conn.Close()
				return
			}
			c.metrics.CommandSent(msg.T)
		}
	}
}

// markClosed flips the client to not ready and releases Done once.
func (c *Client) markClosed(conn *websocket.Conn) {
	c.mu.Lock()
	if conn == nil || c.conn == conn {
		c.ready = false
	}
	c.mu.Unlock()
	c.once.Do(func() {
		c.metrics.SetConnected(false)
		close(c.done)
	})
}
