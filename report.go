package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/yougroupteam/adaptergen/adapter"
)

// reporter prints run summaries for a terminal.
type reporter struct {
	out io.Writer

	ok    *color.Color
	fail  *color.Color
	warn  *color.Color
	faint *color.Color
}

func newReporter(out io.Writer, noColor bool) *reporter {
	r := &reporter{
		out:   out,
		ok:    color.New(color.FgGreen),
		fail:  color.New(color.FgRed),
		warn:  color.New(color.FgYellow),
		faint: color.New(color.FgHiBlack),
	}
	if noColor {
		for _, c := range []*color.Color{r.ok, r.fail, r.warn, r.faint} {
			c.DisableColor()
		}
	}
	return r
}

func (r *reporter) generated(job Job, stats *adapter.Stats, dir string) {
	fmt.Fprintf(r.out, "%s %s %s\n", r.ok.Sprint("✓"), job.Slug, r.faint.Sprint(dir))
	fmt.Fprintf(r.out, "  paths %d  actions %d  triggers %d  tools %d  categories %d\n",
		stats.Paths, stats.Actions, stats.Triggers, stats.Tools, len(stats.Categories))
	if stats.SkippedOperations > 0 || len(stats.UnresolvedRefs) > 0 {
		fmt.Fprintf(r.out, "  %s\n", r.warn.Sprintf("skipped operations %d  unresolved refs %d",
			stats.SkippedOperations, len(stats.UnresolvedRefs)))
	}
}

func (r *reporter) failed(job Job, err error) {
	fmt.Fprintf(r.out, "%s %s %s\n", r.fail.Sprint("✗"), job.Slug, err)
}

// batch prints one line per job and a closing tally. It returns the number
// of failed jobs.
func (r *reporter) batch(results []BatchResult) int {
	failed := 0
	for _, result := range results {
		if result.Err != nil {
			failed++
			r.failed(result.Job, result.Err)
			continue
		}
		r.generated(result.Job, result.Stats, result.Dir)
	}

	fmt.Fprintln(r.out, strings.Repeat("─", 60))
	tally := fmt.Sprintf("%d generated, %d failed", len(results)-failed, failed)
	if failed > 0 {
		fmt.Fprintln(r.out, r.fail.Sprint(tally))
	} else {
		fmt.Fprintln(r.out, r.ok.Sprint(tally))
	}
	return failed
}
