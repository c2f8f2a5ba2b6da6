package viz

import (
	"fmt"
	"iter"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/san-kum/bloomsim/internal/garden"
	"github.com/san-kum/bloomsim/internal/metrics"
)

// RenderGrid joins dump rows into a block. Without color the rows are returned
// verbatim.
func RenderGrid(rows iter.Seq[string], color bool) string {
	var b strings.Builder
	first := true
	for row := range rows {
		if !first {
			b.WriteByte('\n')
		}
		first = false
		if !color {
			b.WriteString(row)
			continue
		}
		for _, c := range row {
			b.WriteString(cellStyle(c).Render(string(c)))
		}
	}
	return b.String()
}

// RenderDay renders a day heading, its tally and the field.
func RenderDay(day int, res garden.DailyResult, rows iter.Seq[string], color bool) string {
	head := fmt.Sprintf("day %d:", day)
	tally := res.String()
	if color {
		head = HeaderStyle.Render(head)
		tally = Subtle.Render(tally)
	}
	return head + " " + tally + "\n" + RenderGrid(rows, color)
}

// RenderSummary renders the batch totals and per-flower rates.
func RenderSummary(s metrics.Summary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n", HeaderStyle.Render("Total:"))
	fmt.Fprintf(&b, "%-12s %12s %12s\n", "", "total", "avg/run")
	for _, o := range []metrics.Outcome{metrics.Hybrids, metrics.Duplicates, metrics.Fails} {
		total := int64(o.Of(s.Totals))
		fmt.Fprintf(&b, "%-12s %12s %12s\n",
			MetricLabel.Render(o.String()),
			MetricValue.Render(humanize.Comma(total)),
			MetricValue.Render(humanize.FormatFloat("#,###.##", s.PerRun.Of(o))))
	}
	b.WriteString(Separator(38))
	b.WriteByte('\n')

	fmt.Fprintf(&b, "%s\n", HeaderStyle.Render("Summary:"))
	labels := map[metrics.Outcome]string{
		metrics.Hybrids:    "Hybrids/day",
		metrics.Duplicates: "Duplicates/day",
		metrics.Fails:      "Fails/day",
	}
	for _, o := range []metrics.Outcome{metrics.Hybrids, metrics.Duplicates, metrics.Fails} {
		fmt.Fprintf(&b, "%s: %s\n",
			MetricLabel.Render(labels[o]),
			MetricValue.Render(fmt.Sprintf("%.2f", s.PerFlower.Of(o))))
	}
	fmt.Fprintf(&b, "%s\n", Subtle.Render(fmt.Sprintf("%s runs x %d days, %d flowers",
		humanize.Comma(int64(s.Runs)), s.Days, s.Flowers)))

	return b.String()
}
