package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/aleister1102/doccrawler/internal/crawler"
)

func printSummary(w io.Writer, s *crawler.Summary) {
	fmt.Fprintf(w, "Seeds: %d  Visited: %d  Errors: %d  Discovered: %d  Internal pages: %d  Duration: %s\n",
		s.Seeds, s.Visited, s.Errors, s.Discovered, s.InternalPages, s.Duration.Round(time.Millisecond))

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DOMAIN\tDISCOVERED\tENQUEUED\tFETCHED\tERRORS\tSKIPPED")
	for _, d := range s.Domains {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%s\n", d.Domain, d.Discovered, d.Enqueued, d.Fetched, d.Errors, formatSkipped(d.Skipped))
	}
	tw.Flush()

	for _, f := range s.Failures {
		fmt.Fprintf(w, "  failed: %v\n", f)
	}
}

func formatSkipped(skipped map[crawler.Reason]int) string {
	if len(skipped) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(skipped))
	for reason, n := range skipped {
		parts = append(parts, fmt.Sprintf("%s=%d", reason, n))
	}
	sort.Strings(parts)
	return strings.Join(parts, " ")
}
