package recorder

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// RawExt marks outputs written as headerless BGRA frames instead of video.
const RawExt = ".bgra"

// FFmpegArgs returns arguments for an ffmpeg process that reads raw BGRA
// frames of the given size from stdin at 60 fps and encodes to output.
func FFmpegArgs(width, height int, output string) []string {
	return []string{
		"-y",
		"-loglevel", "error",
		"-f", "rawvideo",
		"-pix_fmt", "bgra",
		"-s", fmt.Sprintf("%dx%d", width, height),
		"-r", "60",
		"-i", "-",
		"-c:v", "libx264",
		"-pix_fmt", "yuv420p",
		output,
	}
}

// ffmpegPipe is the stdin of a running ffmpeg process. Close waits for
// the process to exit.
type ffmpegPipe struct {
	stdin  io.WriteCloser
	cmd    *exec.Cmd
	stderr *bytes.Buffer
}

func (p *ffmpegPipe) Write(b []byte) (int, error) {
	return p.stdin.Write(b)
}

func (p *ffmpegPipe) Close() error {
	closeErr := p.stdin.Close()
	if err := p.cmd.Wait(); err != nil {
		msg := strings.TrimSpace(p.stderr.String())
		if msg != "" {
			return fmt.Errorf("ffmpeg: %w: %s", err, msg)
		}
		return fmt.Errorf("ffmpeg: %w", err)
	}
	return closeErr
}

// StartFFmpeg launches bin with FFmpegArgs and returns its stdin.
func StartFFmpeg(ctx context.Context, bin string, width, height int, output string) (io.WriteCloser, error) {
	cmd := exec.CommandContext(ctx, bin, FFmpegArgs(width, height, output)...)
	stderr := &bytes.Buffer{}
	cmd.Stderr = stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg stdin: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting %s: %w", bin, err)
	}
	return &ffmpegPipe{stdin: stdin, cmd: cmd, stderr: stderr}, nil
}

// Open returns the destination for output: a plain file for RawExt,
// otherwise an ffmpeg process.
func Open(ctx context.Context, bin, output string, width, height int) (io.WriteCloser, error) {
	if output == "" {
		return nil, errors.New("recorder: no output path")
	}
	if strings.HasSuffix(output, RawExt) {
		f, err := os.Create(output)
		if err != nil {
			return nil, fmt.Errorf("creating %s: %w", output, err)
		}
		return f, nil
	}
	return StartFFmpeg(ctx, bin, width, height, output)
}
