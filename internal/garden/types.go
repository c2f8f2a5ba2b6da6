package garden

import "fmt"

// Pos names a cell by coordinate.
type Pos struct {
	X, Y int
}

func (p Pos) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

func (p Pos) Add(dx, dy int) Pos {
	return Pos{X: p.X + dx, Y: p.Y + dy}
}

// Neighbours lists the Moore neighbourhood offsets as (dx, dy).
var Neighbours = [8][2]int{
	{-1, -1},
	{-1, 0},
	{-1, 1},
	{0, -1},
	{0, 1},
	{1, -1},
	{1, 0},
	{1, 1},
}

// DailyResult tallies the outcomes of one breeding pass.
type DailyResult struct {
	Hybrids    int `json:"hybrids"`
	Duplicates int `json:"duplicates"`
	Fails      int `json:"fails"`
}

// Attempts counts flowers that were available and won their roll.
func (r DailyResult) Attempts() int {
	return r.Hybrids + r.Duplicates + r.Fails
}

// Spawned counts children placed during the pass.
func (r DailyResult) Spawned() int {
	return r.Hybrids + r.Duplicates
}

func (r DailyResult) Add(other DailyResult) DailyResult {
	return DailyResult{
		Hybrids:    r.Hybrids + other.Hybrids,
		Duplicates: r.Duplicates + other.Duplicates,
		Fails:      r.Fails + other.Fails,
	}
}

func (r DailyResult) String() string {
	return fmt.Sprintf("hybrids=%d duplicates=%d fails=%d", r.Hybrids, r.Duplicates, r.Fails)
}

// Census counts occupants by kind.
type Census struct {
	Parents  int
	Children int
}

func (c Census) Total() int {
	return c.Parents + c.Children
}
