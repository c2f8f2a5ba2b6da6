package garden

import (
	"fmt"
	"iter"
	"strings"

	"github.com/san-kum/bloomsim/internal/dice"
	"github.com/san-kum/bloomsim/internal/flora"
)

// Field is a fixed-size grid of flowers. It is not safe for concurrent use; every
// run owns its own Field.
type Field struct {
	width  int
	height int
	cells  []*flora.Flower
	src    dice.Source
}

func New(width, height int, src dice.Source) (*Field, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("garden: field size must be positive, got %dx%d", width, height)
	}
	if src == nil {
		return nil, fmt.Errorf("garden: nil random source")
	}
	return &Field{
		width:  width,
		height: height,
		cells:  make([]*flora.Flower, width*height),
		src:    src,
	}, nil
}

func (f *Field) Width() int  { return f.width }
func (f *Field) Height() int { return f.height }

func (f *Field) InBounds(p Pos) bool {
	return p.X >= 0 && p.X < f.width && p.Y >= 0 && p.Y < f.height
}

func (f *Field) index(p Pos) int {
	return p.Y*f.width + p.X
}

// Occupied reports whether p is in bounds and holds a flower.
func (f *Field) Occupied(p Pos) bool {
	return f.InBounds(p) && f.cells[f.index(p)] != nil
}

// Empty reports whether p is in bounds and holds nothing.
func (f *Field) Empty(p Pos) bool {
	return f.InBounds(p) && f.cells[f.index(p)] == nil
}

// Flower returns the occupant of p.
func (f *Field) Flower(p Pos) (*flora.Flower, error) {
	if !f.InBounds(p) {
		return nil, invalid("flower", p, "out of bounds")
	}
	fl := f.cells[f.index(p)]
	if fl == nil {
		return nil, invalid("flower", p, "empty cell")
	}
	return fl, nil
}

// SpawnParent places a fresh parent at p, replacing any occupant.
func (f *Field) SpawnParent(p Pos) error {
	return f.place("spawn parent", p, flora.NewParent())
}

// SpawnChild places a fresh child at p, replacing any occupant. Callers only spawn
// children into cells they have just found free.
func (f *Field) SpawnChild(p Pos) error {
	return f.place("spawn child", p, flora.NewChild())
}

func (f *Field) place(op string, p Pos, fl *flora.Flower) error {
	if !f.InBounds(p) {
		return invalid(op, p, "out of bounds")
	}
	f.cells[f.index(p)] = fl
	return nil
}

// Adjacent returns the in-bounds Moore neighbours of p.
func (f *Field) Adjacent(p Pos) []Pos {
	out := make([]Pos, 0, len(Neighbours))
	for _, d := range Neighbours {
		q := p.Add(d[0], d[1])
		if f.InBounds(q) {
			out = append(out, q)
		}
	}
	return out
}

// FreeAdjacent picks a uniformly random empty neighbour of the flower at p.
func (f *Field) FreeAdjacent(p Pos) (Pos, bool, error) {
	if !f.Occupied(p) {
		return Pos{}, false, invalid("free adjacent", p, "no flower at source")
	}
	var candidates []Pos
	for _, q := range f.Adjacent(p) {
		if f.cells[f.index(q)] == nil {
			candidates = append(candidates, q)
		}
	}
	q, ok := dice.Pick(f.src, candidates)
	return q, ok, nil
}

// PartnerAdjacent picks a uniformly random neighbour of the flower at p that is
// still available this day.
func (f *Field) PartnerAdjacent(p Pos) (Pos, bool, error) {
	if !f.Occupied(p) {
		return Pos{}, false, invalid("partner adjacent", p, "no flower at source")
	}
	var candidates []Pos
	for _, q := range f.Adjacent(p) {
		if fl := f.cells[f.index(q)]; fl != nil && fl.Available {
			candidates = append(candidates, q)
		}
	}
	q, ok := dice.Pick(f.src, candidates)
	return q, ok, nil
}

// Occupants lists occupied positions in row-major order.
func (f *Field) Occupants() []Pos {
	out := make([]Pos, 0, len(f.cells))
	for y := 0; y < f.height; y++ {
		for x := 0; x < f.width; x++ {
			if f.cells[y*f.width+x] != nil {
				out = append(out, Pos{X: x, Y: y})
			}
		}
	}
	return out
}

// DailyBreed runs one day's breeding pass and returns its tally.
//
// Every flower present at the start of the pass acts at most once, in a shuffled
// order. A flower already consumed as someone's partner earlier in the pass is
// skipped. A flower that wins its roll places a child into a random free neighbour;
// it breeds with a random available neighbour when there is one (hybrid) and alone
// otherwise (duplicate). Without a free neighbour the attempt is a fail and nothing
// changes. A free cell taken by an earlier child is no longer free for later actors.
func (f *Field) DailyBreed() (DailyResult, error) {
	var res DailyResult

	order := f.Occupants()
	f.src.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

	for _, p := range order {
		f.cells[f.index(p)].Available = true
	}

	for _, p := range order {
		parent, err := f.Flower(p)
		if err != nil {
			return res, err
		}
		if !parent.Available {
			continue
		}
		if !parent.RollForBreed(f.src) {
			continue
		}

		spawn, ok, err := f.FreeAdjacent(p)
		if err != nil {
			return res, err
		}
		if !ok {
			res.Fails++
			continue
		}

		mate, ok, err := f.PartnerAdjacent(p)
		if err != nil {
			return res, err
		}
		if ok {
			partner, err := f.Flower(mate)
			if err != nil {
				return res, err
			}
			parent.MarkBred()
			partner.MarkBred()
			res.Hybrids++
		} else {
			parent.MarkBred()
			res.Duplicates++
		}

		if err := f.SpawnChild(spawn); err != nil {
			return res, err
		}
	}

	return res, nil
}

// RemoveChildren clears every cell holding a child.
func (f *Field) RemoveChildren() {
	for i, fl := range f.cells {
		if fl != nil && fl.Child {
			f.cells[i] = nil
		}
	}
}

// IncrementCounters ages every flower by one day.
func (f *Field) IncrementCounters() {
	for _, fl := range f.cells {
		if fl != nil {
			fl.Counter++
		}
	}
}

func (f *Field) Count() int {
	n := 0
	for _, fl := range f.cells {
		if fl != nil {
			n++
		}
	}
	return n
}

func (f *Field) Census() Census {
	var c Census
	for _, fl := range f.cells {
		switch {
		case fl == nil:
		case fl.Child:
			c.Children++
		default:
			c.Parents++
		}
	}
	return c
}

// Dump yields one row per line: '.' empty, 'c' child, 'P' parent. Rows are rendered
// as they are pulled, so a sequence reflects the field at iteration time and can be
// ranged over again.
func (f *Field) Dump() iter.Seq[string] {
	return func(yield func(string) bool) {
		var b strings.Builder
		for y := 0; y < f.height; y++ {
			b.Reset()
			for x := 0; x < f.width; x++ {
				fl := f.cells[y*f.width+x]
				if fl == nil {
					b.WriteByte('.')
				} else {
					b.WriteRune(fl.Symbol())
				}
			}
			if !yield(b.String()) {
				return
			}
		}
	}
}

func (f *Field) String() string {
	rows := make([]string, 0, f.height)
	for row := range f.Dump() {
		rows = append(rows, row)
	}
	return strings.Join(rows, "\n")
}
