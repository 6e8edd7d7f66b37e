// Package interval decodes sequences of binary reference-versus-lottery
// choices into the probability interval a respondent's answers imply.
//
// Each elicitation asks the same question at 13 fixed probabilities. The
// answers are walked as a binary search starting at 50%, which lands in one
// of 14 disjoint intervals partitioning [0,1].
package interval

import (
	"surveycli/internal/table"
)

// Choice is one binary answer
type Choice int8

const (
	Unanswered Choice = iota
	Reference
	Alternative
)

// String returns the choice name
func (c Choice) String() string {
	switch c {
	case Reference:
		return "reference"
	case Alternative:
		return "alternative"
	}
	return "unanswered"
}

// Thresholds are the asked probabilities, in percent, in question order
var Thresholds = [13]int{50, 90, 10, 95, 70, 30, 5, 99, 80, 60, 40, 20, 1}

var thresholdPos = func() map[int]int {
	m := make(map[int]int, len(Thresholds))
	for i, p := range Thresholds {
		m[p] = i
	}
	return m
}()

// ChoiceMatrix holds one answer per threshold, indexed like Thresholds
type ChoiceMatrix [13]Choice

// At returns the answer at threshold p (percent)
func (m ChoiceMatrix) At(p int) Choice {
	i, ok := thresholdPos[p]
	if !ok {
		return Unanswered
	}
	return m[i]
}

// Set records the answer at threshold p (percent)
func (m *ChoiceMatrix) Set(p int, c Choice) {
	if i, ok := thresholdPos[p]; ok {
		m[i] = c
	}
}

// Unanswered reports whether no threshold was answered
func (m ChoiceMatrix) Unanswered() bool {
	for _, c := range m {
		if c != Unanswered {
			return false
		}
	}
	return true
}

// Outcome classifies a decoding result
type Outcome int8

const (
	// Absent means no comparison was answered
	Absent Outcome = iota
	// Decoded means the path reached a leaf
	Decoded
	// Degenerate means an answer on the traversed path was missing; the
	// interval is (0,0) and must not be read as a decoded bucket
	Degenerate
)

type node struct {
	threshold int
	ref, alt  *node
	// leaves used when the branch ends here
	refLeaf, altLeaf table.Interval
}

func leaf(lo, hi float64) table.Interval {
	return table.Interval{Lo: lo, Hi: hi, LoClosed: lo == 0}
}

// tree is the fixed comparison tree. "Reference" at p means the respondent
// judged the reference event more likely than p.
var tree = &node{
	threshold: 50,
	ref: &node{
		threshold: 90,
		ref: &node{
			threshold: 95,
			ref:       &node{threshold: 99, refLeaf: leaf(0.99, 1), altLeaf: leaf(0.95, 0.99)},
			altLeaf:   leaf(0.9, 0.95),
		},
		alt: &node{
			threshold: 70,
			ref:       &node{threshold: 80, refLeaf: leaf(0.8, 0.9), altLeaf: leaf(0.7, 0.8)},
			alt:       &node{threshold: 60, refLeaf: leaf(0.6, 0.7), altLeaf: leaf(0.5, 0.6)},
		},
	},
	alt: &node{
		threshold: 10,
		ref: &node{
			threshold: 30,
			ref:       &node{threshold: 40, refLeaf: leaf(0.4, 0.5), altLeaf: leaf(0.3, 0.4)},
			alt:       &node{threshold: 20, refLeaf: leaf(0.2, 0.3), altLeaf: leaf(0.1, 0.2)},
		},
		alt: &node{
			threshold: 5,
			refLeaf:   leaf(0.05, 0.1),
			alt:       &node{threshold: 1, refLeaf: leaf(0.01, 0.05), altLeaf: leaf(0, 0.01)},
		},
	},
}

// Decode walks the tree. All-unanswered input is Absent; a missing answer
// on the traversed path yields the degenerate (0,0) interval.
func Decode(m ChoiceMatrix) (table.Interval, Outcome) {
	if m.Unanswered() {
		return table.Interval{}, Absent
	}
	n := tree
	for {
		switch m.At(n.threshold) {
		case Reference:
			if n.ref == nil {
				return n.refLeaf, Decoded
			}
			n = n.ref
		case Alternative:
			if n.alt == nil {
				return n.altLeaf, Decoded
			}
			n = n.alt
		default:
			return table.Degenerate, Degenerate
		}
	}
}

// Buckets lists the 14 reachable intervals in ascending order
func Buckets() []table.Interval {
	var out []table.Interval
	var walk func(n *node)
	walk = func(n *node) {
		if n.alt != nil {
			walk(n.alt)
		} else {
			out = append(out, n.altLeaf)
		}
		if n.ref != nil {
			walk(n.ref)
		} else {
			out = append(out, n.refLeaf)
		}
	}
	walk(tree)
	return out
}
