package sim

import (
	"context"

	"github.com/san-kum/bloomsim/internal/dice"
	"github.com/san-kum/bloomsim/internal/garden"
)

// Simulator drives single runs. It holds no per-run state, so one Simulator can
// serve many runs as long as its observers tolerate concurrent calls.
type Simulator struct {
	cfg       Config
	observers []Observer
}

func New(cfg Config) *Simulator {
	return &Simulator{
		cfg:       cfg,
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Config() Config { return s.cfg }

// Plant builds a fresh field holding the initial layout.
func (s *Simulator) Plant(src dice.Source) (*garden.Field, error) {
	f, err := garden.New(s.cfg.Width, s.cfg.Height, src)
	if err != nil {
		return nil, err
	}
	for _, p := range s.cfg.Layout {
		if err := f.SpawnParent(p); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// Run plays one run of cfg.Days days. Each day breeds, records the result,
// notifies observers, clears children and then ages the survivors, in that order,
// so a flower that bred starts the next day at counter 1.
func (s *Simulator) Run(ctx context.Context, run int, src dice.Source) (*RunResult, error) {
	if err := s.cfg.validate(); err != nil {
		return nil, err
	}

	f, err := s.Plant(src)
	if err != nil {
		return nil, &RunError{Run: run, Day: -1, Err: err}
	}

	result := &RunResult{
		Run:  run,
		Days: make([]garden.DailyResult, 0, s.cfg.Days),
	}

	for day := 0; day < s.cfg.Days; day++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		res, err := f.DailyBreed()
		if err != nil {
			return result, &RunError{Run: run, Day: day, Err: err}
		}

		result.Days = append(result.Days, res)
		result.Totals = result.Totals.Add(res)

		for _, obs := range s.observers {
			obs.OnDay(run, day, res, f)
		}

		f.RemoveChildren()
		f.IncrementCounters()
	}

	result.FinalFlowers = f.Count()
	return result, nil
}
