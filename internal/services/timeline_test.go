package services

import (
	"math"
	"testing"
)

func TestBuildTimelineScenario(t *testing.T) {
	tl, err := BuildTimeline([]float64{3.0, 4.5, 2.0})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	want := [][2]float64{{0, 3.0}, {3.0, 7.5}, {7.5, 9.5}}
	if len(tl.Entries) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(tl.Entries))
	}

	for i, w := range want {
		e := tl.Entries[i]
		if e.VerseIndex != i {
			t.Errorf("entry %d: verse index %d", i, e.VerseIndex)
		}
		if e.StartSeconds != w[0] || e.EndSeconds != w[1] {
			t.Errorf("entry %d: got (%f,%f), want (%f,%f)", i, e.StartSeconds, e.EndSeconds, w[0], w[1])
		}
	}

	if tl.TotalSeconds != 9.5 {
		t.Errorf("expected total 9.5, got %f", tl.TotalSeconds)
	}
}

func TestBuildTimelineContiguity(t *testing.T) {
	sequences := [][]float64{
		{1.0},
		{0.4, 0.4, 0.4, 0.4},
		{12.75, 0.001, 7.2, 30.5, 2.25},
	}

	for _, durations := range sequences {
		tl, err := BuildTimeline(durations)
		if err != nil {
			t.Fatalf("build failed for %v: %v", durations, err)
		}

		if len(tl.Entries) != len(durations) {
			t.Fatalf("entry count %d != duration count %d", len(tl.Entries), len(durations))
		}

		if tl.Entries[0].StartSeconds != 0 {
			t.Errorf("first entry starts at %f, want 0", tl.Entries[0].StartSeconds)
		}

		for i := 0; i < len(tl.Entries)-1; i++ {
			if tl.Entries[i].EndSeconds != tl.Entries[i+1].StartSeconds {
				t.Errorf("gap between entry %d end (%f) and entry %d start (%f)",
					i, tl.Entries[i].EndSeconds, i+1, tl.Entries[i+1].StartSeconds)
			}
		}

		sum := 0.0
		for _, d := range durations {
			sum += d
		}
		last := tl.Entries[len(tl.Entries)-1]
		if math.Abs(last.EndSeconds-sum) > 1e-9 {
			t.Errorf("last entry ends at %f, want %f", last.EndSeconds, sum)
		}
		if math.Abs(tl.TotalSeconds-sum) > 1e-9 {
			t.Errorf("total %f, want %f", tl.TotalSeconds, sum)
		}
	}
}

func TestBuildTimelineRejectsEmptyInput(t *testing.T) {
	if _, err := BuildTimeline(nil); err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestBuildTimelineRejectsNonPositiveDuration(t *testing.T) {
	if _, err := BuildTimeline([]float64{3.0, 0, 2.0}); err == nil {
		t.Fatal("expected error for zero duration")
	}
	if _, err := BuildTimeline([]float64{-1.0}); err == nil {
		t.Fatal("expected error for negative duration")
	}
}
