package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/hamzaoui/ayahreels/internal/models"
	"github.com/hamzaoui/ayahreels/internal/storage"
	"golang.org/x/sync/errgroup"
)

// Some recitation hosts reject default Go clients, so downloads identify as a
// browser.
const browserUserAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:122.0) Gecko/20100101 Firefox/122.0"

// DurationProber measures a media file's real duration in seconds.
// *FFmpegService is the production implementation.
type DurationProber interface {
	ProbeDuration(ctx context.Context, path string) (float64, error)
}

// AudioService resolves per-verse recitation audio: cache first, then the
// remote host, then any leftover file in the scratch directory as a last
// resort. Every resolved clip gets its duration probed from the file itself.
type AudioService struct {
	host   string
	client *http.Client
	store  *storage.Store
	paths  *storage.Paths
	prober DurationProber
}

func NewAudioService(host string, timeout time.Duration, store *storage.Store, paths *storage.Paths, prober DurationProber) *AudioService {
	return &AudioService{
		host: host,
		client: &http.Client{
			Timeout: timeout,
		},
		store:  store,
		paths:  paths,
		prober: prober,
	}
}

// ClipURL computes the deterministic remote location of one verse recording.
func (s *AudioService) ClipURL(reciterID string, surah, ayah int) string {
	return fmt.Sprintf("%s/data/%s/%03d%03d.mp3", s.host, reciterID, surah, ayah)
}

// FetchAll resolves audio for every verse of the job, in request order.
// Downloads run in parallel; the result slice is indexed by verse position,
// so order is preserved regardless of completion order.
func (s *AudioService) FetchAll(ctx context.Context, job models.RenderJob) ([]models.AudioClip, error) {
	clips := make([]models.AudioClip, len(job.Verses))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	for i, verse := range job.Verses {
		i, verse := i, verse
		g.Go(func() error {
			clip, err := s.FetchClip(gctx, job, verse)
			if err != nil {
				return err
			}
			clips[i] = clip
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return clips, nil
}

// FetchClip resolves one verse recording to a per-run file and measures its
// duration. Resolution order: cache copy, network download (populating the
// cache), scratch-directory fallback. If all three fail the job cannot
// produce a complete reel and the error is fatal.
func (s *AudioService) FetchClip(ctx context.Context, job models.RenderJob, verse models.VerseRequest) (models.AudioClip, error) {
	key := models.ClipKey(job.ReciterID, verse.Surah, verse.Ayah)
	runPath := s.paths.TempFile(fmt.Sprintf("%d_%03d%03d.mp3", job.Stamp, verse.Surah, verse.Ayah))

	if s.store.Has(key) {
		if err := s.store.CopyTo(key, runPath); err != nil {
			return models.AudioClip{}, fmt.Errorf("failed to copy cached audio %s: %w", key, err)
		}
		log.Printf("[Audio] Cache hit for %s", key)
	} else if err := s.download(ctx, key, job, verse, runPath); err != nil {
		log.Printf("[Audio] Download failed for %s: %v — trying local fallback", key, err)

		fallback, ok := s.findLocalFallback(verse.Ayah)
		if !ok {
			return models.AudioClip{}, &AudioUnavailableError{Surah: verse.Surah, Ayah: verse.Ayah, Err: err}
		}

		log.Printf("[Audio] Using local fallback %s for verse %d:%d", fallback, verse.Surah, verse.Ayah)
		if err := copyFile(fallback, runPath); err != nil {
			return models.AudioClip{}, &AudioUnavailableError{Surah: verse.Surah, Ayah: verse.Ayah, Err: err}
		}
	}

	duration, err := s.prober.ProbeDuration(ctx, runPath)
	if err != nil {
		return models.AudioClip{}, fmt.Errorf("failed to probe duration for %s: %w", runPath, err)
	}

	return models.AudioClip{
		SourceKey:       key,
		FilePath:        runPath,
		DurationSeconds: duration,
	}, nil
}

// download fetches the verse from the remote host, writes it into the cache
// (atomic rename, per-key lock), then copies the cache entry to the run path.
func (s *AudioService) download(ctx context.Context, key string, job models.RenderJob, verse models.VerseRequest, runPath string) error {
	url := s.ClipURL(job.ReciterID, verse.Surah, verse.Ayah)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d for %s", resp.StatusCode, url)
	}

	if err := s.store.Put(key, resp.Body); err != nil {
		return fmt.Errorf("failed to cache %s: %w", key, err)
	}

	return s.store.CopyTo(key, runPath)
}

// findLocalFallback searches the scratch directory for any previously
// retrieved file matching the verse number, regardless of which run fetched
// it.
func (s *AudioService) findLocalFallback(ayah int) (string, bool) {
	matches, err := filepath.Glob(filepath.Join(s.paths.TempDir, fmt.Sprintf("*%03d.mp3", ayah)))
	if err != nil || len(matches) == 0 {
		return "", false
	}
	return matches[0], true
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	return out.Close()
}
