// Package flora models a single flower occupying a field cell.
package flora

const (
	// BaseChance is the breed chance, in percent, while the counter is still low.
	BaseChance = 5
	// RampStart is the first counter value that leaves the base chance.
	RampStart = 4
	// RampChance is the chance at RampStart.
	RampChance = 10
	// RampStep is added for every day past RampStart.
	RampStep = 5
	// MaxChance caps the schedule.
	MaxChance = 100
)

// Roller draws a uniform integer in [0, n).
type Roller interface {
	IntN(n int) int
}

// Flower is the occupant of one cell.
//
// Counter and Child persist across days. Available is scratch state owned by the
// daily breed pass: it is reset at the start of every pass and cleared when the
// flower breeds.
type Flower struct {
	Counter   int
	Child     bool
	Available bool
}

func NewParent() *Flower {
	return &Flower{}
}

func NewChild() *Flower {
	return &Flower{Child: true}
}

// BreedChance returns the breed probability in percent for a counter value.
func BreedChance(counter int) int {
	if counter < RampStart {
		return BaseChance
	}
	return min(MaxChance, RampChance+(counter-RampStart)*RampStep)
}

// RollForBreed consumes exactly one draw from r.
func (f *Flower) RollForBreed(r Roller) bool {
	return r.IntN(100) < BreedChance(f.Counter)
}

// MarkBred consumes the flower for the rest of the day and restarts its counter.
func (f *Flower) MarkBred() {
	f.Available = false
	f.Counter = 0
}

// Symbol is the dump glyph for the flower.
func (f *Flower) Symbol() rune {
	if f.Child {
		return 'c'
	}
	return 'P'
}
