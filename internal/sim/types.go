package sim

import (
	"fmt"

	"github.com/san-kum/bloomsim/internal/garden"
)

// Observer is notified after each day's breeding pass, before children are
// cleared, so the field still shows that day's offspring.
type Observer interface {
	OnDay(run, day int, res garden.DailyResult, f *garden.Field)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(run, day int, res garden.DailyResult, f *garden.Field)

func (fn ObserverFunc) OnDay(run, day int, res garden.DailyResult, f *garden.Field) {
	fn(run, day, res, f)
}

type Config struct {
	Days   int
	Width  int
	Height int
	Layout []garden.Pos
}

func (c Config) validate() error {
	if c.Days <= 0 {
		return fmt.Errorf("days must be positive, got %d", c.Days)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("field size must be positive, got %dx%d", c.Width, c.Height)
	}
	if len(c.Layout) == 0 {
		return fmt.Errorf("layout is empty")
	}
	return nil
}

// RunResult is the per-day history of one independent run.
type RunResult struct {
	Run          int                  `json:"run"`
	Days         []garden.DailyResult `json:"days"`
	Totals       garden.DailyResult   `json:"totals"`
	FinalFlowers int                  `json:"final_flowers"`
}

// RunError wraps a failure with the run and day it happened on.
type RunError struct {
	Run int
	Day int
	Err error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("run %d day %d: %v", e.Run, e.Day, e.Err)
}

func (e *RunError) Unwrap() error {
	return e.Err
}
