package services

import (
	"fmt"

	"github.com/hamzaoui/ayahreels/internal/models"
)

// BuildTimeline converts measured per-verse audio durations into the ordered
// sequence of [start, end) windows covering the whole reel. Pure function:
// entry i starts where entry i-1 ends, the first entry starts at zero, and
// the last entry ends at the sum of all durations.
func BuildTimeline(durations []float64) (models.Timeline, error) {
	if len(durations) == 0 {
		return models.Timeline{}, fmt.Errorf("cannot build a timeline from zero verses")
	}

	entries := make([]models.TimelineEntry, len(durations))
	cursor := 0.0

	for i, d := range durations {
		if d <= 0 {
			return models.Timeline{}, fmt.Errorf("verse %d has non-positive duration %f", i, d)
		}
		entries[i] = models.TimelineEntry{
			VerseIndex:   i,
			StartSeconds: cursor,
			EndSeconds:   cursor + d,
		}
		cursor += d
	}

	return models.Timeline{Entries: entries, TotalSeconds: cursor}, nil
}
