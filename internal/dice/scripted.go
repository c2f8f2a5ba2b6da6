package dice

import "fmt"

// Scripted replays a fixed sequence of IntN answers. Shuffle applies Perm when set
// and leaves the order untouched otherwise; it never consumes answers.
type Scripted struct {
	Answers []int
	Perm    []int

	next int
}

func NewScripted(answers ...int) *Scripted {
	return &Scripted{Answers: answers}
}

// WithPerm sets the permutation applied by the next Shuffle call. Element i of the
// shuffled slice is the element that was at Perm[i].
func (s *Scripted) WithPerm(perm ...int) *Scripted {
	s.Perm = perm
	return s
}

func (s *Scripted) IntN(n int) int {
	if s.next >= len(s.Answers) {
		panic(fmt.Sprintf("dice: scripted source exhausted after %d draws", s.next))
	}
	v := s.Answers[s.next]
	if v < 0 || v >= n {
		panic(fmt.Sprintf("dice: scripted answer %d out of range [0,%d) at draw %d", v, n, s.next))
	}
	s.next++
	return v
}

func (s *Scripted) Shuffle(n int, swap func(i, j int)) {
	if s.Perm == nil {
		return
	}
	if len(s.Perm) != n {
		panic(fmt.Sprintf("dice: scripted permutation has %d entries, shuffle of %d", len(s.Perm), n))
	}
	// Apply the permutation as a series of swaps, tracking where each original
	// element currently sits.
	pos := make([]int, n) // pos[orig] = current index
	at := make([]int, n)  // at[idx] = orig element at idx
	for i := range n {
		pos[i] = i
		at[i] = i
	}
	for i := range n {
		want := s.Perm[i]
		j := pos[want]
		if i == j {
			continue
		}
		swap(i, j)
		pos[at[i]], pos[want] = j, i
		at[i], at[j] = want, at[i]
	}
}

// Used reports how many answers have been consumed.
func (s *Scripted) Used() int {
	return s.next
}

// Remaining reports how many answers are left.
func (s *Scripted) Remaining() int {
	return len(s.Answers) - s.next
}
