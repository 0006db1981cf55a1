package services

import (
	"math"
	"strings"
	"testing"

	"github.com/hamzaoui/ayahreels/internal/models"
)

func TestFadeDurationCapped(t *testing.T) {
	// All windows longer than 1.5s cap at the 0.5s maximum
	for _, e := range []models.TimelineEntry{
		{StartSeconds: 0, EndSeconds: 3.0},
		{StartSeconds: 3.0, EndSeconds: 7.5},
		{StartSeconds: 7.5, EndSeconds: 9.5},
	} {
		if got := FadeDuration(e); got != 0.5 {
			t.Errorf("window (%f,%f): fade %f, want 0.5", e.StartSeconds, e.EndSeconds, got)
		}
	}
}

func TestFadeDurationShortVerse(t *testing.T) {
	e := models.TimelineEntry{StartSeconds: 0, EndSeconds: 1.0}
	if got := FadeDuration(e); math.Abs(got-1.0/3) > 1e-9 {
		t.Errorf("1s verse: fade %f, want %f", got, 1.0/3)
	}
}

func TestBuildGraphWiring(t *testing.T) {
	c := NewCompositor(nil, 1080, 1920, 30)

	timeline := models.Timeline{
		Entries: []models.TimelineEntry{
			{VerseIndex: 0, StartSeconds: 0, EndSeconds: 3.0},
			{VerseIndex: 1, StartSeconds: 3.0, EndSeconds: 7.5},
		},
		TotalSeconds: 7.5,
	}
	overlays := []models.OverlayImage{
		{VerseIndex: 0, FilePath: "/tmp/ov0.png"},
		{VerseIndex: 1, FilePath: "/tmp/ov1.png"},
	}

	graph, final := c.BuildGraph(overlays, timeline)
	if final != "v1" {
		t.Errorf("final label %q, want v1", final)
	}

	rendered := graph.Render()

	// Base layer scaled once from input 0
	if !strings.Contains(rendered, "[0:v]scale=1080:1920[base]") {
		t.Errorf("missing base chain: %s", rendered)
	}

	// Overlay inputs are offset by one (background is input 0)
	if !strings.Contains(rendered, "[1:v]scale=1080:1920,fade=t=in:st=0.000:d=0.500:alpha=1,fade=t=out:st=2.500:d=0.500:alpha=1[ov0]") {
		t.Errorf("missing first overlay chain: %s", rendered)
	}
	if !strings.Contains(rendered, "[2:v]scale=1080:1920,fade=t=in:st=3.000:d=0.500:alpha=1,fade=t=out:st=7.000:d=0.500:alpha=1[ov1]") {
		t.Errorf("missing second overlay chain: %s", rendered)
	}

	// Sequential compositing gated by each verse window
	if !strings.Contains(rendered, "[base][ov0]overlay=x=0:y=0:enable='between(t,0.000,3.000)'[v0]") {
		t.Errorf("missing first composite: %s", rendered)
	}
	if !strings.Contains(rendered, "[v0][ov1]overlay=x=0:y=0:enable='between(t,3.000,7.500)'[v1]") {
		t.Errorf("missing second composite: %s", rendered)
	}
}

func TestBuildGraphFadeOutEndsAtWindowEnd(t *testing.T) {
	c := NewCompositor(nil, 1080, 1920, 30)

	// 1s verse: fade = 1/3, so fade-out starts at end - 1/3 and finishes
	// exactly at the window end
	timeline := models.Timeline{
		Entries:      []models.TimelineEntry{{VerseIndex: 0, StartSeconds: 2.0, EndSeconds: 3.0}},
		TotalSeconds: 3.0,
	}
	overlays := []models.OverlayImage{{VerseIndex: 0, FilePath: "/tmp/ov.png"}}

	graph, _ := c.BuildGraph(overlays, timeline)
	rendered := graph.Render()

	if !strings.Contains(rendered, "fade=t=out:st=2.667:d=0.333:alpha=1") {
		t.Errorf("fade-out must end at the window end: %s", rendered)
	}
}

func TestFilterGraphRenderOrder(t *testing.T) {
	g := NewFilterGraph()
	a := g.Chain("a", []string{InputVideo(0)}, ScaleFilter(10, 20))
	g.Chain("b", []string{a, InputVideo(1)}, OverlayWindowFilter(1, 2))

	want := "[0:v]scale=10:20[a];[a][1:v]overlay=x=0:y=0:enable='between(t,1.000,2.000)'[b]"
	if got := g.Render(); got != want {
		t.Errorf("rendered graph:\n got  %s\n want %s", got, want)
	}
}

func TestFilterRenderBareFilter(t *testing.T) {
	f := NewFilter("hflip")
	if f.render() != "hflip" {
		t.Errorf("argless filter rendered as %q", f.render())
	}
}
