package services

import (
	"errors"
	"fmt"
)

// Fatal pipeline errors. Anything that would produce an incorrect or
// incomplete artifact aborts the whole job; recoverable conditions (font
// fallback, cache misses) are absorbed inside their stage and never surface
// as one of these.

// ErrBackgroundUnavailable means no custom background was supplied and every
// remote image source failed. Deliberately fatal: a silent black-screen
// substitute would hide connectivity problems from the operator.
var ErrBackgroundUnavailable = errors.New("no background could be resolved from any source")

// AudioUnavailableError means a verse recording was neither cached,
// downloadable, nor recoverable from the run directory.
type AudioUnavailableError struct {
	Surah int
	Ayah  int
	Err   error
}

func (e *AudioUnavailableError) Error() string {
	return fmt.Sprintf("audio unavailable for verse %d:%d: %v", e.Surah, e.Ayah, e.Err)
}

func (e *AudioUnavailableError) Unwrap() error {
	return e.Err
}

// BackgroundProcessingError means the background asset exists but could not
// be normalized into a clip. No secondary fallback: failure here implies a
// corrupt or unsupported asset, not a recoverable network condition.
type BackgroundProcessingError struct {
	SourcePath string
	Err        error
}

func (e *BackgroundProcessingError) Error() string {
	return fmt.Sprintf("background processing failed for %s: %v", e.SourcePath, e.Err)
}

func (e *BackgroundProcessingError) Unwrap() error {
	return e.Err
}

// FontLoadError is non-fatal: the overlay renderer walks its fallback chain
// and logs the failure. Exposed as a type so callers can tell a degraded
// font apart from a real render failure.
type FontLoadError struct {
	Path string
	Err  error
}

func (e *FontLoadError) Error() string {
	return fmt.Sprintf("font load failed for %s: %v", e.Path, e.Err)
}

func (e *FontLoadError) Unwrap() error {
	return e.Err
}

// EncodeError carries the encoder's diagnostic output back to the caller.
// Not retried: a failing encode indicates a graph or asset defect, not a
// transient condition.
type EncodeError struct {
	Output string
	Err    error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("ffmpeg encode failed: %v", e.Err)
}

func (e *EncodeError) Unwrap() error {
	return e.Err
}
