package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hamzaoui/ayahreels/internal/models"
	"github.com/hamzaoui/ayahreels/internal/storage"
)

type fakeProber struct {
	duration float64
}

func (p *fakeProber) ProbeDuration(ctx context.Context, path string) (float64, error) {
	if _, err := os.Stat(path); err != nil {
		return 0, err
	}
	return p.duration, nil
}

func newTestPaths(t *testing.T) *storage.Paths {
	t.Helper()
	base := t.TempDir()
	paths, err := storage.Provision(
		filepath.Join(base, "out"),
		filepath.Join(base, "tmp"),
		filepath.Join(base, "cache"),
	)
	if err != nil {
		t.Fatalf("provision failed: %v", err)
	}
	return paths
}

func testJob(stamp int64) models.RenderJob {
	return models.RenderJob{
		ReciterID: "Alafasy_128kbps",
		Surah:     2,
		FromAyah:  255,
		ToAyah:    255,
		Verses:    []models.VerseRequest{{Surah: 2, Ayah: 255, Text: "x"}},
		Stamp:     stamp,
	}
}

func TestClipURLZeroPadding(t *testing.T) {
	s := NewAudioService("https://everyayah.com", time.Second, nil, nil, nil)

	url := s.ClipURL("Alafasy_128kbps", 2, 255)
	if url != "https://everyayah.com/data/Alafasy_128kbps/002255.mp3" {
		t.Errorf("unexpected URL: %s", url)
	}

	url = s.ClipURL("Husary_128kbps", 1, 7)
	if url != "https://everyayah.com/data/Husary_128kbps/001007.mp3" {
		t.Errorf("unexpected URL: %s", url)
	}
}

func TestFetchClipDownloadsOnceThenUsesCache(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		if r.Header.Get("User-Agent") == "" || r.Header.Get("User-Agent") == "Go-http-client/1.1" {
			t.Error("download did not send a browser-like User-Agent")
		}
		w.Write([]byte("mp3"))
	}))
	defer srv.Close()

	paths := newTestPaths(t)
	store := storage.NewStore(paths.CacheDir)
	svc := NewAudioService(srv.URL, 5*time.Second, store, paths, &fakeProber{duration: 3.5})

	clip, err := svc.FetchClip(context.Background(), testJob(1), models.VerseRequest{Surah: 2, Ayah: 255})
	if err != nil {
		t.Fatalf("first fetch failed: %v", err)
	}
	if clip.DurationSeconds != 3.5 {
		t.Errorf("expected probed duration 3.5, got %f", clip.DurationSeconds)
	}
	if clip.SourceKey != "Alafasy_128kbps/002/255" {
		t.Errorf("unexpected source key: %s", clip.SourceKey)
	}

	// Second run for the same verse must be served from the cache
	if _, err := svc.FetchClip(context.Background(), testJob(2), models.VerseRequest{Surah: 2, Ayah: 255}); err != nil {
		t.Fatalf("second fetch failed: %v", err)
	}

	if got := atomic.LoadInt32(&hits); got != 1 {
		t.Errorf("expected exactly one download, got %d", got)
	}
}

func TestFetchClipFailsWithAudioUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	paths := newTestPaths(t)
	store := storage.NewStore(paths.CacheDir)
	svc := NewAudioService(srv.URL, 5*time.Second, store, paths, &fakeProber{duration: 1})

	_, err := svc.FetchClip(context.Background(), testJob(1), models.VerseRequest{Surah: 2, Ayah: 255})
	if err == nil {
		t.Fatal("expected failure")
	}

	var unavailable *AudioUnavailableError
	if !errors.As(err, &unavailable) {
		t.Fatalf("expected AudioUnavailableError, got %T: %v", err, err)
	}
	if unavailable.Surah != 2 || unavailable.Ayah != 255 {
		t.Errorf("error does not name the verse: %v", unavailable)
	}
}

func TestFetchClipUsesLocalFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	paths := newTestPaths(t)
	store := storage.NewStore(paths.CacheDir)
	svc := NewAudioService(srv.URL, 5*time.Second, store, paths, &fakeProber{duration: 2})

	// A previous run left a file for the same verse number in the scratch dir
	leftover := paths.TempFile("99_002255.mp3")
	if err := os.WriteFile(leftover, []byte("old mp3"), 0644); err != nil {
		t.Fatal(err)
	}

	clip, err := svc.FetchClip(context.Background(), testJob(1), models.VerseRequest{Surah: 2, Ayah: 255})
	if err != nil {
		t.Fatalf("expected fallback to rescue the fetch: %v", err)
	}

	data, err := os.ReadFile(clip.FilePath)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "old mp3" {
		t.Errorf("fallback content not used: %q", data)
	}
}

func TestFetchAllPreservesVerseOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("mp3"))
	}))
	defer srv.Close()

	paths := newTestPaths(t)
	store := storage.NewStore(paths.CacheDir)
	svc := NewAudioService(srv.URL, 5*time.Second, store, paths, &fakeProber{duration: 1})

	job := models.RenderJob{
		ReciterID: "Alafasy_128kbps",
		Surah:     112,
		FromAyah:  1,
		ToAyah:    4,
		Stamp:     7,
		Verses: []models.VerseRequest{
			{Surah: 112, Ayah: 1},
			{Surah: 112, Ayah: 2},
			{Surah: 112, Ayah: 3},
			{Surah: 112, Ayah: 4},
		},
	}

	clips, err := svc.FetchAll(context.Background(), job)
	if err != nil {
		t.Fatalf("fetch all failed: %v", err)
	}

	if len(clips) != 4 {
		t.Fatalf("expected 4 clips, got %d", len(clips))
	}
	for i, clip := range clips {
		want := models.ClipKey("Alafasy_128kbps", 112, i+1)
		if clip.SourceKey != want {
			t.Errorf("clip %d out of order: %s != %s", i, clip.SourceKey, want)
		}
	}
}
