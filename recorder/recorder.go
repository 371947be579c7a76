// Package recorder streams rendered frames to a video encoder.
package recorder

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/pthm-cable/drift/frame"
)

// ErrClosed is returned by Frame after Done was called.
var ErrClosed = errors.New("recorder: closed")

// Recorder writes raw frame bytes to an io.WriteCloser from a background
// goroutine. Frames are handed over through a bounded queue; Frame blocks
// while the queue is full.
type Recorder struct {
	w      io.WriteCloser
	frames chan *frame.Frame
	done   chan struct{}
	log    *slog.Logger

	mu     sync.Mutex
	closed bool

	written atomic.Int64

	// Owned by the writer goroutine until done is closed.
	bytes int64
	err   error

	finish    sync.Once
	finishErr error
}

// New starts a recorder writing to w with room for queue pending frames.
func New(w io.WriteCloser, queue int, logger *slog.Logger) *Recorder {
	if queue < 1 {
		queue = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	r := &Recorder{
		w:      w,
		frames: make(chan *frame.Frame, queue),
		done:   make(chan struct{}),
		log:    logger.With("component", "recorder"),
	}
	go r.run()
	return r
}

func (r *Recorder) run() {
	defer close(r.done)
	for f := range r.frames {
		if err := r.write(f); err != nil {
			r.err = fmt.Errorf("writing frame %d: %w", f.Index, err)
			r.log.Error("encoder write failed", "frame", f.Index, "error", err)
			return
		}
		r.written.Add(1)
		r.log.Debug("frame encoded", "frame", f.Index)
	}
}

// write sends the frame rows; rows are contiguous when Stride is 4*Width.
func (r *Recorder) write(f *frame.Frame) error {
	rowBytes := 4 * f.Width
	if f.Stride == rowBytes {
		n, err := r.w.Write(f.Pix[:rowBytes*f.Height])
		r.bytes += int64(n)
		return err
	}
	for y := 0; y < f.Height; y++ {
		n, err := r.w.Write(f.Pix[y*f.Stride : y*f.Stride+rowBytes])
		r.bytes += int64(n)
		if err != nil {
			return err
		}
	}
	return nil
}

// Frame queues f for encoding. The recorder owns f afterwards.
func (r *Recorder) Frame(f *frame.Frame) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}

	select {
	case r.frames <- f:
		return nil
	case <-r.done:
		return r.err
	}
}

// Done drains the queue, closes the writer and reports the first error.
// Later calls return the same result.
func (r *Recorder) Done() error {
	r.finish.Do(func() {
		r.mu.Lock()
		r.closed = true
		close(r.frames)
		r.mu.Unlock()

		<-r.done
		closeErr := r.w.Close()
		if closeErr != nil {
			closeErr = fmt.Errorf("closing encoder: %w", closeErr)
		}
		r.finishErr = errors.Join(r.err, closeErr)

		r.log.Info("recording finished",
			"frames", r.written.Load(),
			"bytes", r.bytes,
			"error", r.finishErr,
		)
	})
	return r.finishErr
}

// Written returns the number of frames written so far.
func (r *Recorder) Written() int {
	return int(r.written.Load())
}
