// Package api bootstraps the overlay from the DeskSlice HTTP endpoints: login, session state
// and the monitor list.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/frudas24/deskpad/internal/logging"
	"github.com/frudas24/deskpad/internal/monitor"
)

// ErrUnauthorized is returned when the server rejects the password or the session cookie.
var ErrUnauthorized = errors.New("unauthorized")

const (
	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 1 << 20
)

// Options configures a Client.
type Options struct {
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Client talks to one DeskSlice server and keeps its session cookie.
type Client struct {
	base   *url.URL
	http   *http.Client
	logger *zap.Logger
}

// NewClient returns a client for the server at baseURL.
func NewClient(baseURL string, opts Options) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(strings.TrimSpace(baseURL), "/"))
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("server url %q must be http or https", baseURL)
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: defaultTimeout}
	}
	if hc.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("create cookie jar: %w", err)
		}
		hc.Jar = jar
	}
	return &Client{base: base, http: hc, logger: logging.OrNop(opts.Logger)}, nil
}

// Host returns the server host, used to key per-server preferences.
func (c *Client) Host() string {
	return c.base.Host
}

// ControlURL returns the websocket URL of the control channel.
func (c *Client) ControlURL() string {
	u := *c.base
	if u.Scheme == "https" {
		u.Scheme = "wss"
	} else {
		u.Scheme = "ws"
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/ws/control"
	return u.String()
}

// PreviewURL returns the MJPEG preview stream URL.
func (c *Client) PreviewURL() string {
	return c.resolve("/mjpeg/desktop")
}

// Cookies returns a header carrying the session cookie, for the websocket dial.
func (c *Client) Cookies() http.Header {
	h := http.Header{}
	for _, ck := range c.http.Jar.Cookies(c.base) {
		h.Add("Cookie", ck.String())
	}
	return h
}

// HTTPClient returns the underlying client, sharing the session cookie.
func (c *Client) HTTPClient() *http.Client {
	return c.http
}

// Login authenticates with the UI password.
func (c *Client) Login(ctx context.Context, password string) error {
	body, err := json.Marshal(map[string]string{"password": password})
	if err != nil {
		return err
	}
	_, err = c.do(ctx, http.MethodPost, "/login", body)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	c.logger.Debug("logged in", zap.String("host", c.base.Host))
	return nil
}

// State fetches and parses /api/state.
func (c *Client) State(ctx context.Context) (State, error) {
	data, err := c.do(ctx, http.MethodGet, "/api/state", nil)
	if err != nil {
		return State{}, fmt.Errorf("fetch state: %w", err)
	}
	return ParseState(data), nil
}

// Monitors fetches and parses /api/monitors.
func (c *Client) Monitors(ctx context.Context) ([]monitor.Monitor, error) {
	data, err := c.do(ctx, http.MethodGet, "/api/monitors", nil)
	if err != nil {
		return nil, fmt.Errorf("fetch monitors: %w", err)
	}
	return ParseMonitors(data), nil
}

// do performs one request and returns the body of a 2xx response.
func (c *Client) do(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.resolve(path), rd)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, ErrUnauthorized
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
	}
	return data, nil
}

// resolve joins path onto the base URL.
func (c *Client) resolve(path string) string {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + path
	return u.String()
}
