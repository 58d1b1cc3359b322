package app

import (
	"fmt"
	"io"
	"strings"

	"github.com/gookit/color"

	"github.com/rgcore/rendergraph"
)

// printReport writes a human-readable dump of a profiler report, coloring
// each section's line yellow when its standard deviation exceeds its mean
// and green otherwise — a cheap visual cue for which sections are noisy.
func printReport(w io.Writer, report rendergraph.Report) {
	fmt.Fprintln(w, color.Bold.Sprint("profiler report"))
	printSections(w, "cpu", report.CPU)
	printSections(w, "gpu", report.GPU)
}

func printSections(w io.Writer, namespace string, sections []rendergraph.SectionStats) {
	if len(sections) == 0 {
		return
	}
	fmt.Fprintf(w, "  %s:\n", namespace)
	for _, s := range sections {
		indent := strings.Repeat("  ", s.Depth+2)
		line := fmt.Sprintf("%s%s  count=%d  mean=%.1fns  stddev=%.1fns", indent, s.Name, s.Count, s.MeanNanos, s.StdDevNanos)
		if s.StdDevNanos > s.MeanNanos {
			fmt.Fprintln(w, color.Yellow.Sprint(line))
		} else {
			fmt.Fprintln(w, color.Green.Sprint(line))
		}
	}
}
