package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/hamzaoui/ayahreels/internal/models"
	"github.com/hamzaoui/ayahreels/internal/storage"
)

// Ken Burns parameters for still backgrounds: a slow oscillating zoom so a
// static photograph does not look frozen.
const (
	kenBurnsBaseZoom  = 1.35
	kenBurnsAmplitude = 0.2
	kenBurnsPeriod    = 35.0 // frames per radian

	// Oversized intermediate canvas gives the zoom headroom before the
	// final crop to target resolution.
	kenBurnsCanvasScale = 2

	// A 1-second pad absorbs rounding at the final trim; the compositor's
	// shortest-stream policy clamps the output back to the audio length.
	backgroundPadSeconds = 1.0
)

// BackgroundService resolves a background asset (custom file or remote
// ambient image) and normalizes it into a clip matching the reel's
// resolution and total duration.
type BackgroundService struct {
	sources []string
	client  *http.Client
	paths   *storage.Paths
	ffmpeg  *FFmpegService
	width   int
	height  int
	fps     int
}

func NewBackgroundService(sources []string, timeout time.Duration, paths *storage.Paths, ffmpeg *FFmpegService, width, height, fps int) *BackgroundService {
	return &BackgroundService{
		sources: sources,
		client: &http.Client{
			Timeout: timeout,
		},
		paths:  paths,
		ffmpeg: ffmpeg,
		width:  width,
		height: height,
		fps:    fps,
	}
}

// Resolve picks the background source for a job. A custom path that exists
// on disk wins; otherwise the remote sources are tried in priority order.
// When nothing resolves the job fails — shipping a silent black-screen reel
// would hide connectivity problems from the operator.
func (s *BackgroundService) Resolve(ctx context.Context, job models.RenderJob) (models.BackgroundSpec, error) {
	if job.BackgroundPath != "" {
		if _, err := os.Stat(job.BackgroundPath); err == nil {
			return models.BackgroundSpec{
				SourcePath: job.BackgroundPath,
				IsAnimated: models.IsVideoPath(job.BackgroundPath),
			}, nil
		}
		log.Printf("[Background] Custom background %s not found, falling back to remote sources", job.BackgroundPath)
	}

	for _, source := range s.sources {
		path, err := s.fetchImage(ctx, source, job.Stamp)
		if err != nil {
			log.Printf("[Background] Source %s failed: %v", source, err)
			continue
		}
		log.Printf("[Background] Resolved from %s", source)
		return models.BackgroundSpec{SourcePath: path, IsAnimated: false}, nil
	}

	return models.BackgroundSpec{}, ErrBackgroundUnavailable
}

func (s *BackgroundService) fetchImage(ctx context.Context, url string, stamp int64) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	path := s.paths.TempFile(fmt.Sprintf("%d_background.jpg", stamp))
	out, err := os.Create(path)
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		os.Remove(path)
		return "", err
	}
	return path, out.Close()
}

// Prepare normalizes the resolved background into a clip at target
// resolution, at least totalDuration+1 seconds long. Failure here is fatal:
// it means a corrupt or unsupported asset, not a recoverable network
// condition.
func (s *BackgroundService) Prepare(ctx context.Context, job models.RenderJob, spec models.BackgroundSpec, totalDuration float64) (string, error) {
	outputPath := s.paths.TempFile(fmt.Sprintf("%d_background.mp4", job.Stamp))
	padded := totalDuration + backgroundPadSeconds

	var args []string
	if spec.IsAnimated {
		args = s.animatedArgs(spec.SourcePath, outputPath, padded)
	} else {
		args = s.stillArgs(spec.SourcePath, outputPath, padded)
	}

	if err := s.ffmpeg.Run(ctx, args...); err != nil {
		return "", &BackgroundProcessingError{SourcePath: spec.SourcePath, Err: err}
	}
	return outputPath, nil
}

// animatedArgs loops a video source indefinitely, scales to fill and
// center-crops to target resolution, and trims to the padded duration.
func (s *BackgroundService) animatedArgs(sourcePath, outputPath string, duration float64) []string {
	vf := fmt.Sprintf(
		"scale=%d:%d:force_original_aspect_ratio=increase,crop=%d:%d,setsar=1",
		s.width, s.height, s.width, s.height,
	)

	return []string{
		"-stream_loop", "-1",
		"-i", sourcePath,
		"-t", fmt.Sprintf("%.3f", duration),
		"-vf", vf,
		"-r", fmt.Sprintf("%d", s.fps),
		"-an",
		"-c:v", "libx264",
		"-preset", "veryfast",
		"-crf", "23",
		"-pix_fmt", "yuv420p",
		"-y",
		outputPath,
	}
}

// stillArgs loops a single frame for the padded duration with an oscillating
// zoom. The image is scaled to fill an oversized canvas first so the zoom
// has room to move before the final crop to target resolution.
func (s *BackgroundService) stillArgs(sourcePath, outputPath string, duration float64) []string {
	canvasW := s.width * kenBurnsCanvasScale
	canvasH := s.height * kenBurnsCanvasScale
	frames := int(duration * float64(s.fps))

	vf := fmt.Sprintf(
		"scale=%d:%d:force_original_aspect_ratio=increase,crop=%d:%d,"+
			"zoompan=z='%.2f+%.2f*sin(on/%.0f)':x='iw/2-(iw/zoom/2)':y='ih/2-(ih/zoom/2)':d=%d:s=%dx%d:fps=%d",
		canvasW, canvasH, canvasW, canvasH,
		kenBurnsBaseZoom, kenBurnsAmplitude, kenBurnsPeriod,
		frames, s.width, s.height, s.fps,
	)

	return []string{
		"-loop", "1",
		"-i", sourcePath,
		"-vf", vf,
		"-frames:v", fmt.Sprintf("%d", frames),
		"-an",
		"-c:v", "libx264",
		"-preset", "veryfast",
		"-crf", "23",
		"-pix_fmt", "yuv420p",
		"-y",
		outputPath,
	}
}
