package renderer

import (
	"errors"

	"github.com/pthm-cable/drift/frame"
)

// Sink receives rendered frames. Frame takes ownership of f; the renderer
// never touches a frame after handing it over. Done is called every time
// Render is invoked after the last frame.
type Sink interface {
	Frame(f *frame.Frame) error
	Done() error
}

// SinkFunc adapts a function to a Sink with a no-op Done.
type SinkFunc func(f *frame.Frame) error

// Frame calls fn(f).
func (fn SinkFunc) Frame(f *frame.Frame) error { return fn(f) }

// Done does nothing.
func (fn SinkFunc) Done() error { return nil }

// MultiSink forwards to each sink in order. Frame stops at the first error;
// Done calls every sink and joins their errors.
type MultiSink []Sink

// Frame implements Sink.
func (m MultiSink) Frame(f *frame.Frame) error {
	for _, s := range m {
		if err := s.Frame(f); err != nil {
			return err
		}
	}
	return nil
}

// Done implements Sink.
func (m MultiSink) Done() error {
	var errs []error
	for _, s := range m {
		errs = append(errs, s.Done())
	}
	return errors.Join(errs...)
}

// Discard drops every frame.
var Discard Sink = SinkFunc(func(*frame.Frame) error { return nil })
