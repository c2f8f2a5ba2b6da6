// Package metrics aggregates per-day breeding outcomes across the runs of a batch.
package metrics

import (
	"fmt"
	"strings"

	"github.com/san-kum/bloomsim/internal/garden"
	"github.com/san-kum/bloomsim/internal/sim"
)

type Outcome int

const (
	Hybrids Outcome = iota
	Duplicates
	Fails
)

var outcomeNames = [...]string{"hybrids", "duplicates", "fails"}

func (o Outcome) String() string {
	if o < 0 || int(o) >= len(outcomeNames) {
		return fmt.Sprintf("outcome(%d)", int(o))
	}
	return outcomeNames[o]
}

func ParseOutcome(s string) (Outcome, error) {
	for i, name := range outcomeNames {
		if strings.EqualFold(s, name) {
			return Outcome(i), nil
		}
	}
	return 0, fmt.Errorf("unknown outcome: %s (available: %s)", s, strings.Join(outcomeNames[:], ", "))
}

// Of extracts the outcome's count from a tally.
func (o Outcome) Of(r garden.DailyResult) int {
	switch o {
	case Hybrids:
		return r.Hybrids
	case Duplicates:
		return r.Duplicates
	default:
		return r.Fails
	}
}

// Rates holds one floating value per outcome.
type Rates struct {
	Hybrids    float64 `json:"hybrids"`
	Duplicates float64 `json:"duplicates"`
	Fails      float64 `json:"fails"`
}

func (r Rates) Of(o Outcome) float64 {
	switch o {
	case Hybrids:
		return r.Hybrids
	case Duplicates:
		return r.Duplicates
	default:
		return r.Fails
	}
}

func ratesOf(d garden.DailyResult, div float64) Rates {
	if div == 0 {
		return Rates{}
	}
	return Rates{
		Hybrids:    float64(d.Hybrids) / div,
		Duplicates: float64(d.Duplicates) / div,
		Fails:      float64(d.Fails) / div,
	}
}

// RunRow is one run's totals and those totals divided by the initial flower count.
type RunRow struct {
	Run       int                `json:"run"`
	Totals    garden.DailyResult `json:"totals"`
	PerFlower Rates              `json:"per_flower"`
}

type Summary struct {
	Runs    int `json:"runs"`
	Days    int `json:"days"`
	Flowers int `json:"flowers"`

	Rows   []RunRow           `json:"rows"`
	Totals garden.DailyResult `json:"totals"`
	// PerRun is Totals divided by Runs.
	PerRun Rates `json:"per_run"`
	// PerFlower is PerRun divided by Flowers.
	PerFlower Rates `json:"per_flower"`
	// DailyMean[d] is the mean tally of day d across runs.
	DailyMean []Rates `json:"daily_mean"`
}

// Summarize folds run results into batch statistics. flowers is the size of the
// initial layout.
func Summarize(results []*sim.RunResult, flowers int) Summary {
	s := Summary{
		Runs:    len(results),
		Flowers: flowers,
		Rows:    make([]RunRow, 0, len(results)),
	}
	if len(results) == 0 {
		return s
	}

	for _, r := range results {
		if len(r.Days) > s.Days {
			s.Days = len(r.Days)
		}
	}

	daySums := make([]garden.DailyResult, s.Days)
	for _, r := range results {
		var total garden.DailyResult
		for d, res := range r.Days {
			total = total.Add(res)
			daySums[d] = daySums[d].Add(res)
		}
		s.Totals = s.Totals.Add(total)
		s.Rows = append(s.Rows, RunRow{
			Run:       r.Run,
			Totals:    total,
			PerFlower: ratesOf(total, float64(flowers)),
		})
	}

	runs := float64(len(results))
	s.PerRun = ratesOf(s.Totals, runs)
	if flowers > 0 {
		s.PerFlower = Rates{
			Hybrids:    s.PerRun.Hybrids / float64(flowers),
			Duplicates: s.PerRun.Duplicates / float64(flowers),
			Fails:      s.PerRun.Fails / float64(flowers),
		}
	}

	s.DailyMean = make([]Rates, s.Days)
	for d, sum := range daySums {
		s.DailyMean[d] = ratesOf(sum, runs)
	}

	return s
}

// Series returns the daily mean of one outcome, suitable for plotting.
func Series(s Summary, o Outcome) []float64 {
	out := make([]float64, len(s.DailyMean))
	for i, r := range s.DailyMean {
		out[i] = r.Of(o)
	}
	return out
}
