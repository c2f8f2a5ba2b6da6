package garden

import (
	"errors"
	"slices"
	"testing"

	"github.com/san-kum/bloomsim/internal/dice"
)

func mustField(t *testing.T, w, h int, src dice.Source, cells ...Pos) *Field {
	t.Helper()
	f, err := New(w, h, src)
	if err != nil {
		t.Fatalf("new field: %v", err)
	}
	for _, p := range cells {
		if err := f.SpawnParent(p); err != nil {
			t.Fatalf("spawn %v: %v", p, err)
		}
	}
	return f
}

func TestNewInvalidSize(t *testing.T) {
	tests := []struct {
		name string
		w, h int
	}{
		{"zero width", 0, 3},
		{"zero height", 3, 0},
		{"negative", -1, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.w, tt.h, dice.NewScripted()); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}

	if _, err := New(2, 2, nil); err == nil {
		t.Error("expected error for nil source")
	}
}

func TestAdjacent(t *testing.T) {
	f := mustField(t, 3, 3, dice.NewScripted())

	tests := []struct {
		p    Pos
		want int
	}{
		{Pos{1, 1}, 8},
		{Pos{0, 0}, 3},
		{Pos{2, 2}, 3},
		{Pos{1, 0}, 5},
		{Pos{0, 1}, 5},
	}

	for _, tt := range tests {
		got := f.Adjacent(tt.p)
		if len(got) != tt.want {
			t.Errorf("Adjacent(%v) has %d cells, want %d", tt.p, len(got), tt.want)
		}
		if slices.Contains(got, tt.p) {
			t.Errorf("Adjacent(%v) contains the cell itself", tt.p)
		}
	}

	single := mustField(t, 1, 1, dice.NewScripted())
	if n := len(single.Adjacent(Pos{0, 0})); n != 0 {
		t.Errorf("1x1 field has %d neighbours", n)
	}
}

func TestInvalidState(t *testing.T) {
	f := mustField(t, 2, 2, dice.NewScripted(), Pos{0, 0})

	tests := []struct {
		name string
		fn   func() error
	}{
		{"flower empty", func() error { _, err := f.Flower(Pos{1, 1}); return err }},
		{"flower out of bounds", func() error { _, err := f.Flower(Pos{2, 0}); return err }},
		{"flower negative", func() error { _, err := f.Flower(Pos{-1, 0}); return err }},
		{"free adjacent from empty", func() error { _, _, err := f.FreeAdjacent(Pos{1, 0}); return err }},
		{"partner adjacent from empty", func() error { _, _, err := f.PartnerAdjacent(Pos{0, 1}); return err }},
		{"free adjacent out of bounds", func() error { _, _, err := f.FreeAdjacent(Pos{5, 5}); return err }},
		{"spawn parent out of bounds", func() error { return f.SpawnParent(Pos{0, 2}) }},
		{"spawn child out of bounds", func() error { return f.SpawnChild(Pos{-1, -1}) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.fn()
			if !errors.Is(err, ErrInvalidState) {
				t.Fatalf("expected ErrInvalidState, got %v", err)
			}
			var ce *CellError
			if !errors.As(err, &ce) {
				t.Fatalf("expected *CellError, got %T", err)
			}
		})
	}
}

func TestSpawnAndRemove(t *testing.T) {
	f := mustField(t, 3, 1, dice.NewScripted(), Pos{0, 0})
	if err := f.SpawnChild(Pos{2, 0}); err != nil {
		t.Fatal(err)
	}

	if got := f.Census(); got.Parents != 1 || got.Children != 1 {
		t.Errorf("unexpected census %+v", got)
	}
	if f.String() != "P.c" {
		t.Errorf("dump = %q", f.String())
	}

	f.RemoveChildren()
	if f.Count() != 1 || f.Occupied(Pos{2, 0}) {
		t.Errorf("child not removed: %q", f.String())
	}
}

func TestIncrementCounters(t *testing.T) {
	f := mustField(t, 2, 1, dice.NewScripted(), Pos{0, 0})
	f.IncrementCounters()
	f.IncrementCounters()

	fl, err := f.Flower(Pos{0, 0})
	if err != nil {
		t.Fatal(err)
	}
	if fl.Counter != 2 {
		t.Errorf("expected counter 2, got %d", fl.Counter)
	}
}

func TestDumpRestartable(t *testing.T) {
	f := mustField(t, 3, 2, dice.NewScripted(), Pos{1, 0}, Pos{2, 1})
	_ = f.SpawnChild(Pos{0, 1})

	var first, second []string
	for row := range f.Dump() {
		first = append(first, row)
	}
	for row := range f.Dump() {
		second = append(second, row)
	}

	want := []string{".P.", "c.P"}
	if !slices.Equal(first, want) || !slices.Equal(second, want) {
		t.Errorf("dump passes = %v, %v; want %v", first, second, want)
	}

	for range f.Dump() {
		break
	}
}

func TestDailyBreedHybrid(t *testing.T) {
	// (0,0) rolls 0, picks free (1,1) out of [(0,1) (1,1)], partners with (1,0).
	src := dice.NewScripted(0, 1, 0)
	f := mustField(t, 2, 2, src, Pos{0, 0}, Pos{1, 0})

	res, err := f.DailyBreed()
	if err != nil {
		t.Fatal(err)
	}

	if res != (DailyResult{Hybrids: 1}) {
		t.Errorf("unexpected result %v", res)
	}
	if f.String() != "PP\n.c" {
		t.Errorf("dump = %q", f.String())
	}
	if src.Remaining() != 0 {
		t.Errorf("%d scripted draws left unused", src.Remaining())
	}
	for _, p := range []Pos{{0, 0}, {1, 0}} {
		fl, _ := f.Flower(p)
		if fl.Available || fl.Counter != 0 {
			t.Errorf("%v not marked bred: %+v", p, *fl)
		}
	}
}

func TestDailyBreedConsumedPartnerSkipped(t *testing.T) {
	// (1,0) acts first and takes (2,0) as partner; (0,0) misses its roll; (2,0) is
	// already consumed and must not draw at all.
	src := dice.NewScripted(0, 0, 1, 99).WithPerm(1, 0, 2)
	f := mustField(t, 3, 2, src, Pos{0, 0}, Pos{1, 0}, Pos{2, 0})
	for range 5 {
		f.IncrementCounters()
	}

	res, err := f.DailyBreed()
	if err != nil {
		t.Fatal(err)
	}

	if res != (DailyResult{Hybrids: 1}) {
		t.Errorf("unexpected result %v", res)
	}
	if src.Remaining() != 0 {
		t.Errorf("%d scripted draws left unused", src.Remaining())
	}
	if f.String() != "PPP\nc.." {
		t.Errorf("dump = %q", f.String())
	}

	want := map[Pos]int{{0, 0}: 5, {1, 0}: 0, {2, 0}: 0}
	for p, c := range want {
		fl, _ := f.Flower(p)
		if fl.Counter != c {
			t.Errorf("%v counter = %d, want %d", p, fl.Counter, c)
		}
	}
}

func TestDailyBreedChildIsNotPartner(t *testing.T) {
	// (0,0) duplicates into (1,0); (2,0) then sees the child as its only occupied
	// neighbour and must duplicate into (3,0) instead of hybridising.
	src := dice.NewScripted(0, 0, 0, 0)
	f := mustField(t, 4, 1, src, Pos{0, 0}, Pos{2, 0})

	res, err := f.DailyBreed()
	if err != nil {
		t.Fatal(err)
	}

	if res != (DailyResult{Duplicates: 2}) {
		t.Errorf("unexpected result %v", res)
	}
	if f.String() != "PcPc" {
		t.Errorf("dump = %q", f.String())
	}
}

func TestDailyBreedMissedRollLeavesState(t *testing.T) {
	src := dice.NewScripted(50)
	f := mustField(t, 3, 3, src, Pos{1, 1})

	res, err := f.DailyBreed()
	if err != nil {
		t.Fatal(err)
	}
	if res.Attempts() != 0 {
		t.Errorf("unexpected result %v", res)
	}

	fl, _ := f.Flower(Pos{1, 1})
	if !fl.Available || fl.Counter != 0 {
		t.Errorf("unexpected flower state %+v", *fl)
	}
	if f.Count() != 1 {
		t.Errorf("field changed: %q", f.String())
	}
}

// countingSource records how many breed rolls were drawn.
type countingSource struct {
	dice.Source
	rolls int
}

func (c *countingSource) IntN(n int) int {
	if n == 100 {
		c.rolls++
	}
	return c.Source.IntN(n)
}

func TestDailyBreedAccounting(t *testing.T) {
	src := &countingSource{Source: dice.New(11, 0)}
	f := mustField(t, 7, 5, src)
	for y := 0; y < 5; y += 2 {
		for x := 0; x < 7; x++ {
			if (x+y)%3 != 0 {
				_ = f.SpawnParent(Pos{x, y})
			}
		}
	}
	// Past the ramp every roll succeeds, so every available flower attempts.
	for range 30 {
		f.IncrementCounters()
	}

	for day := 0; day < 15; day++ {
		before := f.Count()
		src.rolls = 0

		res, err := f.DailyBreed()
		if err != nil {
			t.Fatalf("day %d: %v", day, err)
		}

		if res.Attempts() != src.rolls {
			t.Errorf("day %d: %d outcomes for %d successful rolls", day, res.Attempts(), src.rolls)
		}
		if got := f.Count() - before; got != res.Spawned() {
			t.Errorf("day %d: field grew by %d, expected %d", day, got, res.Spawned())
		}
		if c := f.Census(); c.Children != res.Spawned() {
			t.Errorf("day %d: %d children for %d spawns", day, c.Children, res.Spawned())
		}
		if res.Hybrids*2+res.Duplicates > before {
			t.Errorf("day %d: more breeders than flowers: %v", day, res)
		}

		f.RemoveChildren()
		if c := f.Census(); c.Children != 0 || c.Total() != before {
			t.Errorf("day %d: removal left %+v", day, c)
		}
		for range 30 {
			f.IncrementCounters()
		}
	}
}

func TestDailyBreedDeterministic(t *testing.T) {
	layout := []Pos{{0, 0}, {0, 1}, {2, 0}, {2, 1}, {4, 3}, {5, 3}}
	run := func() ([]DailyResult, string) {
		f := mustField(t, 6, 4, dice.New(99, 4), layout...)
		var out []DailyResult
		for range 20 {
			res, err := f.DailyBreed()
			if err != nil {
				t.Fatal(err)
			}
			out = append(out, res)
			f.RemoveChildren()
			f.IncrementCounters()
		}
		return out, f.String()
	}

	r1, d1 := run()
	r2, d2 := run()
	if !slices.Equal(r1, r2) || d1 != d2 {
		t.Error("identical seeds produced different histories")
	}
}

func TestDailyResultArithmetic(t *testing.T) {
	a := DailyResult{Hybrids: 1, Duplicates: 2, Fails: 3}
	b := DailyResult{Hybrids: 4, Duplicates: 0, Fails: 1}

	sum := a.Add(b)
	if sum != (DailyResult{Hybrids: 5, Duplicates: 2, Fails: 4}) {
		t.Errorf("Add = %v", sum)
	}
	if a.Attempts() != 6 || a.Spawned() != 3 {
		t.Errorf("Attempts = %d, Spawned = %d", a.Attempts(), a.Spawned())
	}
}
