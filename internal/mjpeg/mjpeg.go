// Package mjpeg reads the MJPEG preview stream and reports the intrinsic size of the latest frame.
package mjpeg

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/frudas24/deskpad/internal/logging"
	"github.com/frudas24/deskpad/internal/viewport"
)

// Options configures a Probe.
type Options struct {
	// Client issues the stream request; it must carry the session cookie.
	Client *http.Client
	// OnChange is called from the reading goroutine when the frame size changes.
	OnChange func(viewport.Size)
	Logger   *zap.Logger
}

// Probe tracks the size of the frames on a multipart JPEG stream without decoding pixels.
type Probe struct {
	mu       sync.RWMutex
	size     viewport.Size
	frames   uint64
	client   *http.Client
	onChange func(viewport.Size)
	logger   *zap.Logger
}

// NewProbe returns a probe with no frame seen yet.
func NewProbe(opts Options) *Probe {
	client := opts.Client
	if client == nil {
		client = http.DefaultClient
	}
	return &Probe{
		client:   client,
		onChange: opts.OnChange,
		logger:   logging.OrNop(opts.Logger),
	}
}

// MediaSize returns the latest frame size, zero before the first frame.
func (p *Probe) MediaSize() viewport.Size {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.size
}

// Frames returns how many frames have been read.
func (p *Probe) Frames() uint64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.frames
}

// Run reads the stream at url until ctx is done or the server ends it.
func (p *Probe) Run(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("open preview stream: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("open preview stream: status %d", resp.StatusCode)
	}
	mediaType, params, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil || !strings.HasPrefix(mediaType, "multipart/") || params["boundary"] == "" {
		return fmt.Errorf("preview stream is not multipart: %q", resp.Header.Get("Content-Type"))
	}
	err = p.Read(resp.Body, params["boundary"])
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

// Read consumes multipart frames from r. A stream that simply ends is not an error.
func (p *Probe) Read(r io.Reader, boundary string) error {
	mr := multipart.NewReader(r, boundary)
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read preview part: %w", err)
		}
		cfg, _, err := image.DecodeConfig(part)
		_ = part.Close()
		if err != nil {
			p.logger.Debug("undecodable preview frame", zap.Error(err))
			continue
		}
		p.observe(viewport.Size{W: cfg.Width, H: cfg.Height})
	}
}

// observe records one frame size.
func (p *Probe) observe(size viewport.Size) {
	p.mu.Lock()
	p.frames++
	changed := size != p.size
	p.size = size
	p.mu.Unlock()
	if changed {
		p.logger.Debug("preview size changed", zap.Int("w", size.W), zap.Int("h", size.H))
		if p.onChange != nil {
			p.onChange(size)
		}
	}
}
