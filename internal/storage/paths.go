package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths holds the three directories the pipeline works with. They are
// provisioned once at startup and passed into the pipeline as configuration,
// so no stage ever has to check-and-create directories on its own.
type Paths struct {
	// OutputDir receives final reel files, served publicly.
	OutputDir string

	// TempDir holds per-job scratch: downloaded backgrounds, per-run audio
	// copies, overlay rasters, intermediate clips. Filenames include the
	// job stamp, so independent jobs never collide here.
	TempDir string

	// CacheDir is the persistent verse audio cache. Never invalidated,
	// never size-bounded.
	CacheDir string
}

// Provision creates all directories, returning absolute paths.
func Provision(outputDir, tempDir, cacheDir string) (*Paths, error) {
	p := &Paths{}

	for _, d := range []struct {
		name string
		in   string
		out  *string
	}{
		{"output", outputDir, &p.OutputDir},
		{"temp", tempDir, &p.TempDir},
		{"cache", cacheDir, &p.CacheDir},
	} {
		abs, err := filepath.Abs(d.in)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s dir %s: %w", d.name, d.in, err)
		}
		if err := os.MkdirAll(abs, 0755); err != nil {
			return nil, fmt.Errorf("failed to create %s dir %s: %w", d.name, abs, err)
		}
		*d.out = abs
	}

	return p, nil
}

// TempFile returns a path inside the scratch directory.
func (p *Paths) TempFile(name string) string {
	return filepath.Join(p.TempDir, name)
}

// OutputFile returns a path inside the public output directory.
func (p *Paths) OutputFile(name string) string {
	return filepath.Join(p.OutputDir, name)
}
