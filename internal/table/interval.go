package table

import (
	"fmt"
	"strconv"
	"strings"
)

// Interval is a sub-interval of [0,1]. The upper bound is always closed;
// the lower bound is closed only for the bucket starting at zero.
type Interval struct {
	Lo       float64
	Hi       float64
	LoClosed bool
}

// Degenerate is the (0,0) value produced when a choice path is incomplete
var Degenerate = Interval{}

// IsDegenerate reports whether the interval is the (0,0) sentinel
func (iv Interval) IsDegenerate() bool {
	return iv.Lo == 0 && iv.Hi == 0
}

// Contains reports whether p falls inside the interval
func (iv Interval) Contains(p float64) bool {
	if iv.IsDegenerate() {
		return false
	}
	if p > iv.Hi {
		return false
	}
	if iv.LoClosed {
		return p >= iv.Lo
	}
	return p > iv.Lo
}

// Overlaps reports whether two intervals share any point
func (iv Interval) Overlaps(o Interval) bool {
	if iv.IsDegenerate() || o.IsDegenerate() {
		return false
	}
	lo, loClosed := iv.Lo, iv.LoClosed
	if o.Lo > lo || (o.Lo == lo && !o.LoClosed) {
		lo, loClosed = o.Lo, o.LoClosed
	}
	hi := iv.Hi
	if o.Hi < hi {
		hi = o.Hi
	}
	if loClosed {
		return lo <= hi
	}
	return lo < hi
}

// String renders the interval as "(0.7,0.8]", "[0,0.01]" or "(0,0)"
func (iv Interval) String() string {
	if iv.IsDegenerate() {
		return "(0,0)"
	}
	open := "("
	if iv.LoClosed {
		open = "["
	}
	return open + strconv.FormatFloat(iv.Lo, 'f', -1, 64) + "," +
		strconv.FormatFloat(iv.Hi, 'f', -1, 64) + "]"
}

// ParseInterval is the inverse of Interval.String
func ParseInterval(s string) (Interval, error) {
	s = strings.TrimSpace(s)
	if s == "(0,0)" {
		return Degenerate, nil
	}
	if len(s) < 5 || (s[0] != '(' && s[0] != '[') || s[len(s)-1] != ']' {
		return Interval{}, fmt.Errorf("malformed interval %q", s)
	}
	parts := strings.Split(s[1:len(s)-1], ",")
	if len(parts) != 2 {
		return Interval{}, fmt.Errorf("malformed interval %q", s)
	}
	lo, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return Interval{}, fmt.Errorf("malformed interval %q: %w", s, err)
	}
	hi, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return Interval{}, fmt.Errorf("malformed interval %q: %w", s, err)
	}
	return Interval{Lo: lo, Hi: hi, LoClosed: s[0] == '['}, nil
}
