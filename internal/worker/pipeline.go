package worker

import (
	"context"
	"fmt"
	"log"

	"github.com/hamzaoui/ayahreels/internal/models"
	"github.com/hamzaoui/ayahreels/internal/services"
	"github.com/hamzaoui/ayahreels/internal/storage"
	"golang.org/x/sync/errgroup"
)

// Pipeline runs the reel composition stages in dependency order:
//
//	acquire audio (all durations known)
//	→ timeline
//	→ overlays ∥ background clip
//	→ combined audio
//	→ final encode
//
// Each stage is a plain call returning a typed result or error; nothing
// starts before its inputs exist. Overlay rendering and background
// preparation run concurrently since neither consumes the other's output.
type Pipeline struct {
	audio      *services.AudioService
	background *services.BackgroundService
	overlay    *services.OverlayRenderer
	compositor *services.Compositor
	ffmpeg     *services.FFmpegService
	paths      *storage.Paths
}

func NewPipeline(
	audio *services.AudioService,
	background *services.BackgroundService,
	overlay *services.OverlayRenderer,
	compositor *services.Compositor,
	ffmpeg *services.FFmpegService,
	paths *storage.Paths,
) *Pipeline {
	return &Pipeline{
		audio:      audio,
		background: background,
		overlay:    overlay,
		compositor: compositor,
		ffmpeg:     ffmpeg,
		paths:      paths,
	}
}

// Render produces the final reel file and returns its absolute path. Per-run
// scratch files are removed on both success and failure; cache copies and
// the finished artifact survive. No partial artifact is ever left in the
// output directory.
func (p *Pipeline) Render(ctx context.Context, job models.RenderJob) (string, error) {
	if len(job.Verses) == 0 {
		return "", fmt.Errorf("job has no verses")
	}

	var scratch []string
	defer func() { p.ffmpeg.Cleanup(scratch...) }()

	// ── Stage 1: acquire per-verse audio; every duration must be known
	// before the timeline or background can be built ───────────────────
	log.Printf("[Pipeline] Job %d: fetching %d verse recordings", job.Stamp, len(job.Verses))
	clips, err := p.audio.FetchAll(ctx, job)
	if err != nil {
		return "", err
	}

	clipPaths := make([]string, len(clips))
	durations := make([]float64, len(clips))
	for i, clip := range clips {
		clipPaths[i] = clip.FilePath
		durations[i] = clip.DurationSeconds
		scratch = append(scratch, clip.FilePath)
	}

	spec, err := p.background.Resolve(ctx, job)
	if err != nil {
		return "", err
	}
	if spec.SourcePath != job.BackgroundPath {
		// Downloaded ambient image, not the caller's file
		scratch = append(scratch, spec.SourcePath)
	}

	// ── Stage 2: timeline from measured durations ───────────────────────
	timeline, err := services.BuildTimeline(durations)
	if err != nil {
		return "", err
	}
	log.Printf("[Pipeline] Job %d: timeline %.3fs across %d verses", job.Stamp, timeline.TotalSeconds, len(timeline.Entries))

	// ── Stages 3+4: overlays and background clip, concurrently ─────────
	overlays := make([]models.OverlayImage, len(job.Verses))
	var backgroundClip string

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		shaper := services.NewShaper(p.overlay.MaxLineWidth(), p.overlay.Measure)
		for i, verse := range job.Verses {
			lines := shaper.Wrap(verse.Text)
			if len(lines) == 0 {
				return fmt.Errorf("verse %d:%d has no renderable text", verse.Surah, verse.Ayah)
			}

			path := p.paths.TempFile(fmt.Sprintf("%d_overlay_%03d.png", job.Stamp, i))
			if err := p.overlay.Render(lines, path); err != nil {
				return fmt.Errorf("failed to render overlay for verse %d:%d: %w", verse.Surah, verse.Ayah, err)
			}
			overlays[i] = models.OverlayImage{VerseIndex: i, FilePath: path}
		}
		return nil
	})

	g.Go(func() error {
		var err error
		backgroundClip, err = p.background.Prepare(gctx, job, spec, timeline.TotalSeconds)
		return err
	})

	if err := g.Wait(); err != nil {
		for _, ov := range overlays {
			scratch = append(scratch, ov.FilePath)
		}
		scratch = append(scratch, backgroundClip)
		return "", err
	}
	for _, ov := range overlays {
		scratch = append(scratch, ov.FilePath)
	}
	scratch = append(scratch, backgroundClip)

	// ── Stage 5: combined narration track ──────────────────────────────
	audioPath := p.paths.TempFile(fmt.Sprintf("%d_audio.mp3", job.Stamp))
	if err := p.ffmpeg.ConcatAudio(ctx, clipPaths, audioPath); err != nil {
		return "", err
	}
	scratch = append(scratch, audioPath)

	// ── Stage 6: final encode ───────────────────────────────────────────
	outputPath := p.paths.OutputFile(job.OutputName())
	if err := p.compositor.Compose(ctx, backgroundClip, audioPath, overlays, timeline, outputPath); err != nil {
		return "", err
	}

	log.Printf("[Pipeline] Job %d: reel ready at %s", job.Stamp, outputPath)
	return outputPath, nil
}
