package audionormalizer

import (
	"context"
	"errors"
	"io"
	"log"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

const (
	// SampleRate and Channels are the fixed output format expected by speech providers.
	SampleRate = 16000
	Channels   = 1

	// MaxStderr bounds the diagnostic text kept from a failed conversion.
	MaxStderr = 1000

	DefaultTimeout = 2 * time.Minute
)

// FFmpegNormalizer converts arbitrary uploaded media into mono 16 kHz WAV by
// running ffmpeg as a blocking subprocess.
type FFmpegNormalizer struct {
	Binary  string
	Timeout time.Duration
}

// NewFFmpegNormalizer returns a normalizer for the given ffmpeg binary.
func NewFFmpegNormalizer(binary string, timeout time.Duration) *FFmpegNormalizer {
	if binary == "" {
		binary = "ffmpeg"
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &FFmpegNormalizer{Binary: binary, Timeout: timeout}
}

// Available reports whether the ffmpeg binary can be found.
func (n *FFmpegNormalizer) Available() bool {
	_, err := exec.LookPath(n.Binary)
	return err == nil
}

// Normalize converts srcPath into dstPath, overwriting any existing output, and
// returns dstPath. Failures are *ConversionError or *TimeoutError.
func (n *FFmpegNormalizer) Normalize(ctx context.Context, srcPath, dstPath string) (string, error) {
	timeout := n.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, n.Binary,
		"-hide_banner",
		"-y",
		"-i", srcPath,
		"-ar", strconv.Itoa(SampleRate),
		"-ac", strconv.Itoa(Channels),
		dstPath,
	)
	stderr := &tailBuffer{limit: MaxStderr}
	cmd.Stdout = io.Discard
	cmd.Stderr = stderr
	cmd.WaitDelay = time.Second

	startTime := time.Now()
	err := cmd.Run()
	if err == nil {
		log.Printf("Normalizer: converted '%s' to '%s' in %v", srcPath, dstPath, time.Since(startTime))
		return dstPath, nil
	}

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		log.Printf("Normalizer: conversion of '%s' killed after %v", srcPath, timeout)
		return "", &TimeoutError{Timeout: timeout, Stderr: stderr.String()}
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		log.Printf("Normalizer: ffmpeg exited with code %d for '%s'", exitErr.ExitCode(), srcPath)
		return "", &ConversionError{ExitCode: exitErr.ExitCode(), Stderr: stderr.String()}
	}

	log.Printf("Normalizer: failed to run '%s': %v", n.Binary, err)
	return "", &ConversionError{ExitCode: -1, Stderr: truncate(err.Error(), MaxStderr)}
}

// tailBuffer keeps only the last limit bytes written to it; ffmpeg prints the
// actual failure reason at the end of its output.
type tailBuffer struct {
	limit int
	buf   []byte
}

func (b *tailBuffer) Write(p []byte) (int, error) {
	n := len(p)
	if len(p) >= b.limit {
		b.buf = append(b.buf[:0], p[len(p)-b.limit:]...)
		return n, nil
	}
	b.buf = append(b.buf, p...)
	if over := len(b.buf) - b.limit; over > 0 {
		b.buf = append(b.buf[:0], b.buf[over:]...)
	}
	return n, nil
}

func (b *tailBuffer) String() string {
	return strings.TrimSpace(strings.ToValidUTF8(string(b.buf), ""))
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
