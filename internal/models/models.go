package models

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Enums
type ReelStatus string

const (
	ReelStatusQueued      ReelStatus = "queued"
	ReelStatusDownloading ReelStatus = "downloading"
	ReelStatusRendering   ReelStatus = "rendering"
	ReelStatusCompleted   ReelStatus = "completed"
	ReelStatusFailed      ReelStatus = "failed"
)

// Reel is one render request as stored in the reels table.
type Reel struct {
	ID             uuid.UUID  `json:"id"`
	ReciterID      string     `json:"reciter_id"`
	Surah          int        `json:"surah"`
	FromAyah       int        `json:"from_ayah"`
	ToAyah         int        `json:"to_ayah"`
	BackgroundPath *string    `json:"background_path,omitempty"` // custom background supplied by the caller
	Status         ReelStatus `json:"status"`
	ErrorMessage   *string    `json:"error_message,omitempty"`
	OutputPath     *string    `json:"output_path,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// VerseRequest is one ayah of the requested range, in canonical verse order.
// Text is the logical (storage-order) Arabic string from the text provider.
type VerseRequest struct {
	Surah int    `json:"surah"`
	Ayah  int    `json:"ayah"`
	Text  string `json:"text"`
}

// AudioClip is a resolved per-verse recitation file with its measured duration.
// DurationSeconds is always probed from the file itself, never estimated.
type AudioClip struct {
	SourceKey       string  `json:"source_key"`
	FilePath        string  `json:"file_path"`
	DurationSeconds float64 `json:"duration_seconds"`
}

// ClipKey builds the cache key for a verse recording: reciter/surah/ayah,
// zero-padded the same way the remote host lays out its files.
func ClipKey(reciterID string, surah, ayah int) string {
	return fmt.Sprintf("%s/%03d/%03d", reciterID, surah, ayah)
}

// TimelineEntry is one [start, end) window of the reel, one per verse.
type TimelineEntry struct {
	VerseIndex   int     `json:"verse_index"`
	StartSeconds float64 `json:"start_seconds"`
	EndSeconds   float64 `json:"end_seconds"`
}

// Duration returns the length of the window in seconds.
func (e TimelineEntry) Duration() float64 {
	return e.EndSeconds - e.StartSeconds
}

// Timeline is the contiguous, non-overlapping sequence of verse windows
// covering the whole reel. Entries[0] starts at 0 and each entry's end is the
// next entry's start.
type Timeline struct {
	Entries      []TimelineEntry `json:"entries"`
	TotalSeconds float64         `json:"total_seconds"`
}

// OverlayImage is one transparent caption raster, one-to-one with a
// TimelineEntry. Transient: deleted when the job finishes.
type OverlayImage struct {
	VerseIndex int    `json:"verse_index"`
	FilePath   string `json:"file_path"`
}

// BackgroundSpec describes the resolved background asset. An empty SourcePath
// means nothing resolved yet; AssetAcquirer must substitute a remote image
// before the spec reaches background preparation.
type BackgroundSpec struct {
	SourcePath string `json:"source_path"`
	IsAnimated bool   `json:"is_animated"`
}

// videoExtensions classify a custom background as animated rather than still.
var videoExtensions = map[string]bool{
	".mp4":  true,
	".mov":  true,
	".mkv":  true,
	".webm": true,
	".avi":  true,
}

// IsVideoPath reports whether the file extension indicates a video container.
func IsVideoPath(path string) bool {
	return videoExtensions[strings.ToLower(filepath.Ext(path))]
}

// RenderJob is the single input value threaded through every pipeline stage.
// Owned exclusively by one pipeline invocation; Stamp (unix millis) makes all
// per-run scratch filenames unique across jobs.
type RenderJob struct {
	ReelID         uuid.UUID      `json:"reel_id"`
	ReciterID      string         `json:"reciter_id"`
	Surah          int            `json:"surah"`
	FromAyah       int            `json:"from_ayah"`
	ToAyah         int            `json:"to_ayah"`
	Verses         []VerseRequest `json:"verses"`
	BackgroundPath string         `json:"background_path,omitempty"`
	Stamp          int64          `json:"stamp"`
}

// OutputName is the deterministic final artifact name for this job.
func (j RenderJob) OutputName() string {
	return fmt.Sprintf("reel_%d.mp4", j.Stamp)
}

// API request/response types

type CreateReelRequest struct {
	ReciterID      string  `json:"reciter_id"`
	Surah          int     `json:"surah"`
	FromAyah       int     `json:"from_ayah"`
	ToAyah         int     `json:"to_ayah"`
	BackgroundPath *string `json:"background_path,omitempty"`
}

type CreateReelResponse struct {
	ReelID uuid.UUID  `json:"reel_id"`
	Status ReelStatus `json:"status"`
}
