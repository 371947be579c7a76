package recorder

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"

	"github.com/pthm-cable/drift/frame"
)

// bufferCloser records writes and whether Close was called.
type bufferCloser struct {
	mu     sync.Mutex
	buf    bytes.Buffer
	closed int
}

func (b *bufferCloser) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *bufferCloser) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed++
	return nil
}

// failingWriter fails every write.
type failingWriter struct{ err error }

func (f failingWriter) Write([]byte) (int, error) { return 0, f.err }
func (f failingWriter) Close() error              { return nil }

func testFrame(index int, fill byte) *frame.Frame {
	f := frame.New(3, 2)
	f.Index = index
	f.Fill(fill, fill+1, fill+2, 255)
	return f
}

func TestRecorderWritesFramesInOrder(t *testing.T) {
	out := &bufferCloser{}
	r := New(out, 2, nil)

	var want []byte
	for i := 0; i < 5; i++ {
		f := testFrame(i, byte(10*i))
		want = append(want, f.Pix...)
		if err := r.Frame(f); err != nil {
			t.Fatalf("Frame(%d): %v", i, err)
		}
	}
	if err := r.Done(); err != nil {
		t.Fatalf("Done: %v", err)
	}

	if !bytes.Equal(out.buf.Bytes(), want) {
		t.Errorf("wrote %d bytes, want %d in frame order", out.buf.Len(), len(want))
	}
	if r.Written() != 5 {
		t.Errorf("Written = %d, want 5", r.Written())
	}
	if out.closed != 1 {
		t.Errorf("writer closed %d times, want 1", out.closed)
	}
}

func TestRecorderDoneIsIdempotent(t *testing.T) {
	out := &bufferCloser{}
	r := New(out, 1, nil)

	for i := 0; i < 3; i++ {
		if err := r.Done(); err != nil {
			t.Fatalf("Done call %d: %v", i, err)
		}
	}
	if out.closed != 1 {
		t.Errorf("writer closed %d times, want 1", out.closed)
	}
	if err := r.Frame(testFrame(0, 0)); !errors.Is(err, ErrClosed) {
		t.Errorf("Frame after Done = %v, want ErrClosed", err)
	}
}

func TestRecorderWriteError(t *testing.T) {
	boom := errors.New("disk full")
	r := New(failingWriter{boom}, 1, nil)

	// The first frame is accepted; the failure surfaces on a later call.
	var frameErr error
	for i := 0; i < 4 && frameErr == nil; i++ {
		frameErr = r.Frame(testFrame(i, 0))
	}
	doneErr := r.Done()

	if !errors.Is(doneErr, boom) {
		t.Errorf("Done = %v, want %v", doneErr, boom)
	}
	if frameErr != nil && !errors.Is(frameErr, boom) {
		t.Errorf("Frame = %v, want %v", frameErr, boom)
	}
}

func TestFFmpegArgs(t *testing.T) {
	args := FFmpegArgs(640, 360, "out.mp4")

	for _, pair := range [][2]string{
		{"-f", "rawvideo"},
		{"-s", "640x360"},
		{"-r", "60"},
		{"-i", "-"},
	} {
		i := slices.Index(args, pair[0])
		if i < 0 || i+1 >= len(args) || args[i+1] != pair[1] {
			t.Errorf("args missing %s %s: %v", pair[0], pair[1], args)
		}
	}
	if i := slices.Index(args, "-pix_fmt"); i < 0 || args[i+1] != "bgra" {
		t.Errorf("input pixel format is not bgra: %v", args)
	}
	if args[len(args)-1] != "out.mp4" {
		t.Errorf("last arg = %q, want output path", args[len(args)-1])
	}
}

func TestOpenRawFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out"+RawExt)
	w, err := Open(context.Background(), "ffmpeg", path, 3, 2)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	r := New(w, 1, nil)
	f := testFrame(0, 40)
	want := slices.Clone(f.Pix)
	if err := r.Frame(f); err != nil {
		t.Fatal(err)
	}
	if err := r.Done(); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("raw file = %v, want %v", got, want)
	}
}

func TestOpenMissingEncoder(t *testing.T) {
	_, err := Open(context.Background(), filepath.Join(t.TempDir(), "no-such-ffmpeg"), "out.mp4", 4, 4)
	if err == nil {
		t.Error("Open with missing encoder binary succeeded, want error")
	}
	if _, err := Open(context.Background(), "ffmpeg", "", 4, 4); err == nil {
		t.Error("Open with empty output succeeded, want error")
	}
}
