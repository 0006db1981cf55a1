package services

import (
	"context"
	"fmt"
	"log"
	"math"

	"github.com/hamzaoui/ayahreels/internal/models"
)

// Longest allowed fade. Short verses get min(0.5, duration/3) instead so a
// fade can never outlast its verse.
const maxFadeSeconds = 0.5

// Compositor assembles the final reel: background base layer, per-verse
// overlay compositing gated by timeline windows, and the combined narration
// track, all encoded in one external ffmpeg run.
type Compositor struct {
	ffmpeg *FFmpegService
	width  int
	height int
	fps    int
}

func NewCompositor(ffmpeg *FFmpegService, width, height, fps int) *Compositor {
	return &Compositor{ffmpeg: ffmpeg, width: width, height: height, fps: fps}
}

// FadeDuration returns the fade length for one verse window.
func FadeDuration(entry models.TimelineEntry) float64 {
	return math.Min(maxFadeSeconds, entry.Duration()/3)
}

// BuildGraph wires the compositing graph. Input file order is fixed by
// Compose: index 0 is the background clip, indices 1..n are the overlay
// images in verse order, index n+1 is the audio track (not part of the
// graph). Returns the graph and the label of the final video stream.
//
// Each overlay is scaled once, alpha-faded in from its window start and out
// to exactly its window end, then composited onto the running base gated by
// the same window. Chaining the composites sequentially means a later
// overlay can never affect an earlier time window.
func (c *Compositor) BuildGraph(overlays []models.OverlayImage, timeline models.Timeline) (*FilterGraph, string) {
	g := NewFilterGraph()

	base := g.Chain("base", []string{InputVideo(0)}, ScaleFilter(c.width, c.height))

	for i, entry := range timeline.Entries {
		fade := FadeDuration(entry)

		overlay := g.Chain(
			fmt.Sprintf("ov%d", i),
			[]string{InputVideo(overlays[i].VerseIndex + 1)},
			ScaleFilter(c.width, c.height),
			FadeInFilter(entry.StartSeconds, fade),
			FadeOutFilter(entry.EndSeconds-fade, fade),
		)

		base = g.Chain(
			fmt.Sprintf("v%d", i),
			[]string{base, overlay},
			OverlayWindowFilter(entry.StartSeconds, entry.EndSeconds),
		)
	}

	return g, base
}

// Compose runs the final encode. The output duration is clamped to the
// shorter of the visual and audio streams, which trims the 1-second
// background pad instead of shipping trailing silence or black.
func (c *Compositor) Compose(ctx context.Context, backgroundPath, audioPath string, overlays []models.OverlayImage, timeline models.Timeline, outputPath string) error {
	if len(overlays) != len(timeline.Entries) {
		return fmt.Errorf("overlay count %d does not match timeline entries %d", len(overlays), len(timeline.Entries))
	}

	graph, final := c.BuildGraph(overlays, timeline)

	args := []string{"-i", backgroundPath}
	for _, overlay := range overlays {
		// Looped so the single frame persists through its fade window
		args = append(args, "-loop", "1", "-i", overlay.FilePath)
	}
	audioIndex := len(overlays) + 1
	args = append(args, "-i", audioPath)

	args = append(args,
		"-filter_complex", graph.Render(),
		"-map", "["+final+"]",
		"-map", InputAudio(audioIndex),
		// Constant-quality encode tuned for turnaround, not compression
		"-c:v", "libx264",
		"-preset", "veryfast",
		"-crf", "23",
		"-c:a", "aac",
		"-b:a", "192k",
		"-pix_fmt", "yuv420p",
		"-r", fmt.Sprintf("%d", c.fps),
		"-shortest",
		"-y",
		outputPath,
	)

	log.Printf("[Compositor] Encoding %d overlays over %.3fs timeline -> %s", len(overlays), timeline.TotalSeconds, outputPath)

	if err := c.ffmpeg.Run(ctx, args...); err != nil {
		return fmt.Errorf("final encode failed: %w", err)
	}
	return nil
}
