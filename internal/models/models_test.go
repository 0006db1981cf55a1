package models

import "testing"

func TestClipKey(t *testing.T) {
	key := ClipKey("Alafasy_128kbps", 2, 255)
	if key != "Alafasy_128kbps/002/255" {
		t.Errorf("unexpected clip key: %s", key)
	}

	// Single-digit surah and ayah must be zero-padded to three digits
	key = ClipKey("Husary_128kbps", 1, 1)
	if key != "Husary_128kbps/001/001" {
		t.Errorf("unexpected clip key: %s", key)
	}
}

func TestIsVideoPath(t *testing.T) {
	cases := map[string]bool{
		"/data/bg.mp4":     true,
		"/data/bg.MOV":     true,
		"/data/bg.webm":    true,
		"/data/photo.jpg":  false,
		"/data/photo.png":  false,
		"/data/noext":      false,
		"/data/clip.mkv":   true,
		"/data/still.jpeg": false,
	}

	for path, want := range cases {
		if got := IsVideoPath(path); got != want {
			t.Errorf("IsVideoPath(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestTimelineEntryDuration(t *testing.T) {
	e := TimelineEntry{VerseIndex: 0, StartSeconds: 3.0, EndSeconds: 7.5}
	if e.Duration() != 4.5 {
		t.Errorf("expected duration 4.5, got %f", e.Duration())
	}
}

func TestReelStatus(t *testing.T) {
	statuses := []ReelStatus{
		ReelStatusQueued,
		ReelStatusDownloading,
		ReelStatusRendering,
		ReelStatusCompleted,
		ReelStatusFailed,
	}

	for _, status := range statuses {
		if status == "" {
			t.Errorf("empty status found")
		}
	}
}

func TestRenderJobOutputName(t *testing.T) {
	j := RenderJob{Stamp: 1700000000123}
	if j.OutputName() != "reel_1700000000123.mp4" {
		t.Errorf("unexpected output name: %s", j.OutputName())
	}
}
