package services

import (
	"strings"

	"github.com/01walid/goarabic"
	"golang.org/x/text/unicode/bidi"
)

// MeasureFunc returns the rendered pixel width of a display-ready string.
// The overlay renderer supplies one bound to its loaded font face.
type MeasureFunc func(s string) float64

// Shaper turns logical (storage-order) Arabic verse text into display-ready
// lines that fit a maximum pixel width.
type Shaper struct {
	maxWidth float64
	measure  MeasureFunc
}

func NewShaper(maxWidth float64, measure MeasureFunc) *Shaper {
	return &Shaper{maxWidth: maxWidth, measure: measure}
}

// ShapeLine converts one logical line into its visual form: contextual
// letter-joining first, then bidi reordering so the left-to-right rasterizer
// draws the characters in the correct right-to-left display order.
func ShapeLine(text string) string {
	shaped := goarabic.ToGlyph(text)

	var p bidi.Paragraph
	p.SetString(shaped, bidi.DefaultDirection(bidi.RightToLeft))
	order, err := p.Order()
	if err != nil {
		// Pure-RTL text still displays correctly with a plain reversal
		return bidi.ReverseString(shaped)
	}

	var sb strings.Builder
	for i := 0; i < order.NumRuns(); i++ {
		run := order.Run(i)
		if run.Direction() == bidi.RightToLeft {
			sb.WriteString(bidi.ReverseString(run.String()))
		} else {
			sb.WriteString(run.String())
		}
	}
	return sb.String()
}

// Wrap splits one verse into display-ready lines no wider than maxWidth.
//
// Greedy: each new word is appended to a candidate line which is reshaped and
// measured as a whole before the wrap decision. Reshaping changes glyph
// widths (joined forms are narrower than isolated ones), so measuring the
// shaped candidate — not the accumulated logical text — is what keeps the
// decision honest. A word that is wider than maxWidth on its own still gets
// its own line rather than being dropped.
func (s *Shaper) Wrap(text string) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	current := []string{words[0]}

	for _, word := range words[1:] {
		candidate := ShapeLine(strings.Join(append(append([]string{}, current...), word), " "))
		if s.measure(candidate) > s.maxWidth {
			lines = append(lines, ShapeLine(strings.Join(current, " ")))
			current = []string{word}
		} else {
			current = append(current, word)
		}
	}

	return append(lines, ShapeLine(strings.Join(current, " ")))
}

// WrapVerses wraps several verses as one block, separating consecutive
// verses with a blank line. The separator is dropped when it would trail
// the output.
func (s *Shaper) WrapVerses(texts []string) []string {
	var lines []string
	for _, text := range texts {
		wrapped := s.Wrap(text)
		if len(wrapped) == 0 {
			continue
		}
		if len(lines) > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, wrapped...)
	}
	return lines
}
