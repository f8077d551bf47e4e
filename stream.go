package antsi

import (
	"bytes"
	"fmt"
	"io"
	"sync"
)

// DefaultMaxInputSize caps how much markup Render reads.
const DefaultMaxInputSize = 16 << 20

var bufferPool = sync.Pool{
	New: func() any {
		return new(bytes.Buffer)
	},
}

// RenderRequest configures Render.
type RenderRequest struct {
	Reader io.Reader
	Writer io.Writer
	// Width wraps output at this many cells; zero disables wrapping.
	Width int
	// MaxInputSize overrides DefaultMaxInputSize.
	MaxInputSize int64
	Options      []RenderOption
}

// Render reads markup from Reader, validates and colorizes it and writes the
// result to Writer. Nothing is written when the markup is malformed; the
// returned error then wraps an Errors value.
func Render(req RenderRequest) error {
	if req.Reader == nil {
		return fmt.Errorf("render: reader is nil")
	}
	if req.Writer == nil {
		return fmt.Errorf("render: writer is nil")
	}
	limit := req.MaxInputSize
	if limit <= 0 {
		limit = DefaultMaxInputSize
	}
	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer bufferPool.Put(buf)
	n, err := buf.ReadFrom(io.LimitReader(req.Reader, limit+1))
	if err != nil {
		return fmt.Errorf("render: read: %w", err)
	}
	if n > limit {
		return fmt.Errorf("render: input exceeds %d bytes", limit)
	}
	if err := ValidateInput(buf.Bytes()); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	out, err := Colorize(buf.String(), req.Options...)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	out = Wrap(out, req.Width)
	if _, err := io.WriteString(req.Writer, out); err != nil {
		return fmt.Errorf("render: write: %w", err)
	}
	return nil
}
