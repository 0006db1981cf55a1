package services

import (
	"fmt"
	"strings"
)

// ---------------------------------------------------------------------------
// Typed builder for ffmpeg -filter_complex graphs.
//
// The compositor's graph wiring is order-dependent: node labels, input
// indices, and time-window expressions all have to agree. Building the graph
// as values and rendering it to text in one step keeps that bookkeeping out
// of hand-assembled strings.
// ---------------------------------------------------------------------------

// FilterArg is one key=value argument of a filter. A blank key renders as a
// bare value (for positional arguments like overlay coordinates).
type FilterArg struct {
	Key   string
	Value string
}

func Arg(key, value string) FilterArg {
	return FilterArg{Key: key, Value: value}
}

// Filter is a single named filter with its ordered arguments.
type Filter struct {
	Name string
	Args []FilterArg
}

func NewFilter(name string, args ...FilterArg) Filter {
	return Filter{Name: name, Args: args}
}

func (f Filter) render() string {
	if len(f.Args) == 0 {
		return f.Name
	}

	parts := make([]string, len(f.Args))
	for i, a := range f.Args {
		if a.Key == "" {
			parts[i] = a.Value
		} else {
			parts[i] = a.Key + "=" + a.Value
		}
	}
	return f.Name + "=" + strings.Join(parts, ":")
}

type filterChain struct {
	inputs  []string
	filters []Filter
	output  string
}

// FilterGraph accumulates filter chains and renders them as one
// -filter_complex expression.
type FilterGraph struct {
	chains []filterChain
}

func NewFilterGraph() *FilterGraph {
	return &FilterGraph{}
}

// InputVideo labels the video stream of input file index i.
func InputVideo(i int) string {
	return fmt.Sprintf("%d:v", i)
}

// InputAudio labels the audio stream of input file index i.
func InputAudio(i int) string {
	return fmt.Sprintf("%d:a", i)
}

// Chain adds a filter chain from the given input labels to a new output
// label and returns that label for wiring into later chains.
func (g *FilterGraph) Chain(output string, inputs []string, filters ...Filter) string {
	g.chains = append(g.chains, filterChain{
		inputs:  inputs,
		filters: filters,
		output:  output,
	})
	return output
}

// Render produces the -filter_complex text: chains separated by semicolons,
// stream labels bracketed, filters within a chain separated by commas.
func (g *FilterGraph) Render() string {
	rendered := make([]string, len(g.chains))

	for i, c := range g.chains {
		var sb strings.Builder
		for _, in := range c.inputs {
			sb.WriteString("[" + in + "]")
		}

		filters := make([]string, len(c.filters))
		for j, f := range c.filters {
			filters[j] = f.render()
		}
		sb.WriteString(strings.Join(filters, ","))
		sb.WriteString("[" + c.output + "]")

		rendered[i] = sb.String()
	}

	return strings.Join(rendered, ";")
}

// Common filters used by the compositor.

func ScaleFilter(width, height int) Filter {
	return NewFilter("scale",
		Arg("", fmt.Sprintf("%d", width)),
		Arg("", fmt.Sprintf("%d", height)),
	)
}

// FadeInFilter fades the alpha channel in over dur seconds starting at start.
func FadeInFilter(start, dur float64) Filter {
	return NewFilter("fade",
		Arg("t", "in"),
		Arg("st", formatSeconds(start)),
		Arg("d", formatSeconds(dur)),
		Arg("alpha", "1"),
	)
}

// FadeOutFilter fades the alpha channel out over dur seconds starting at start.
func FadeOutFilter(start, dur float64) Filter {
	return NewFilter("fade",
		Arg("t", "out"),
		Arg("st", formatSeconds(start)),
		Arg("d", formatSeconds(dur)),
		Arg("alpha", "1"),
	)
}

// OverlayWindowFilter composites the second input over the first, visible
// only during [start, end).
func OverlayWindowFilter(start, end float64) Filter {
	return NewFilter("overlay",
		Arg("x", "0"),
		Arg("y", "0"),
		Arg("enable", fmt.Sprintf("'between(t,%s,%s)'", formatSeconds(start), formatSeconds(end))),
	)
}

// formatSeconds keeps time expressions at millisecond precision, matching
// the precision of probed clip durations.
func formatSeconds(s float64) string {
	return fmt.Sprintf("%.3f", s)
}
