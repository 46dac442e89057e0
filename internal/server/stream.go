package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/session"
)

// streamInterval paces MJPEG output at about 15 frames per second.
const streamInterval = 66 * time.Millisecond

// FrameBuffer keeps the latest annotated session frame as JPEG. Frames are
// only encoded while someone is watching the stream.
type FrameBuffer struct {
	logger  *slog.Logger
	viewers atomic.Int32

	mu   sync.RWMutex
	jpeg []byte
	seq  uint64
}

// NewFrameBuffer creates an empty FrameBuffer.
func NewFrameBuffer(logger *slog.Logger) *FrameBuffer {
	if logger == nil {
		logger = slog.Default()
	}
	return &FrameBuffer{logger: logger}
}

// OnCycle is a no-op; FrameBuffer only needs frames.
func (b *FrameBuffer) OnCycle(session.CycleResult) {}

// OnFrame encodes frame when there are viewers.
func (b *FrameBuffer) OnFrame(frame *gocv.Mat) {
	if b.viewers.Load() == 0 || frame == nil || frame.Empty() {
		return
	}

	buf, err := gocv.IMEncode(".jpg", *frame)
	if err != nil {
		b.logger.Debug("failed to encode stream frame", "error", err)
		return
	}
	defer buf.Close()

	b.Set(buf.GetBytes())
}

// Set stores a copy of data as the latest frame.
func (b *FrameBuffer) Set(data []byte) {
	cp := make([]byte, len(data))
	copy(cp, data)

	b.mu.Lock()
	b.jpeg = cp
	b.seq++
	b.mu.Unlock()
}

// Latest returns the latest JPEG and its sequence number.
func (b *FrameBuffer) Latest() ([]byte, uint64) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.jpeg, b.seq
}

// StreamHandler serves the frame buffer as MJPEG.
type StreamHandler struct {
	frames *FrameBuffer
}

// NewStreamHandler creates a new StreamHandler over frames.
func NewStreamHandler(frames *FrameBuffer) *StreamHandler {
	return &StreamHandler{frames: frames}
}

// ServeHTTP streams MJPEG frames to connected clients.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	h.frames.viewers.Add(1)
	defer h.frames.viewers.Add(-1)

	ticker := time.NewTicker(streamInterval)
	defer ticker.Stop()

	var sent uint64
	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}

		data, seq := h.frames.Latest()
		if seq == sent || len(data) == 0 {
			continue
		}
		sent = seq

		fmt.Fprintf(w, "--frame\r\n")
		fmt.Fprintf(w, "Content-Type: image/jpeg\r\n")
		fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", len(data))
		if _, err := w.Write(data); err != nil {
			return
		}
		fmt.Fprintf(w, "\r\n")

		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
	}
}
