package services

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// ---------------------------------------------------------------------------
// FFmpegService — thin wrapper around the ffmpeg/ffprobe binaries.
// Every external encode goes through Run so stderr is always captured and
// preserved in the returned error.
// ---------------------------------------------------------------------------

type FFmpegService struct {
	tempDir string
}

func NewFFmpegService(tempDir string) *FFmpegService {
	return &FFmpegService{tempDir: tempDir}
}

// Run invokes ffmpeg with the given arguments. On failure the process's
// diagnostic output is wrapped in an EncodeError so callers can surface it.
func (s *FFmpegService) Run(ctx context.Context, args ...string) error {
	cmd := exec.CommandContext(ctx, "ffmpeg", args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return &EncodeError{Output: stderr.String(), Err: err}
	}
	return nil
}

// ProbeDuration returns the duration of a media file in seconds, measured
// from the file itself with ffprobe. Header metadata and encoder playback
// speed can disagree with wall clock, so this is the only trusted source of
// clip length in the pipeline.
func (s *FFmpegService) ProbeDuration(ctx context.Context, path string) (float64, error) {
	args := []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	}

	cmd := exec.CommandContext(ctx, "ffprobe", args...)
	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe failed for %s: %w", path, err)
	}

	seconds, err := strconv.ParseFloat(strings.TrimSpace(string(output)), 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse duration for %s: %w", path, err)
	}

	return seconds, nil
}

// ConcatAudio joins the clips in order into a single audio file using the
// concat demuxer. All clips come from the same host in the same codec, so
// the streams are copied without re-encoding.
func (s *FFmpegService) ConcatAudio(ctx context.Context, clipPaths []string, outputPath string) error {
	if len(clipPaths) == 0 {
		return fmt.Errorf("no audio clips to concatenate")
	}

	listPath := filepath.Join(s.tempDir, fmt.Sprintf("concat_%s.txt", filepath.Base(outputPath)))
	f, err := os.Create(listPath)
	if err != nil {
		return fmt.Errorf("failed to create concat list: %w", err)
	}

	for _, path := range clipPaths {
		// FFmpeg concat format
		fmt.Fprintf(f, "file '%s'\n", path)
	}
	f.Close()
	defer os.Remove(listPath)

	args := []string{
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-c", "copy",
		"-y",
		outputPath,
	}

	if err := s.Run(ctx, args...); err != nil {
		return fmt.Errorf("ffmpeg audio concat failed: %w", err)
	}
	return nil
}

// CreateTempFile returns a path for a scratch file in the service's temp directory.
func (s *FFmpegService) CreateTempFile(filename string) string {
	return filepath.Join(s.tempDir, filename)
}

// Cleanup removes temporary files. Missing files are fine; cleanup runs on
// both success and failure paths.
func (s *FFmpegService) Cleanup(paths ...string) {
	for _, path := range paths {
		if path == "" {
			continue
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Printf("[FFmpeg] Cleanup failed for %s: %v", path, err)
		}
	}
}
