package table

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Kind is the logical storage type of a column
type Kind int

const (
	KindInt Kind = iota
	KindFloat
	KindString
	KindCategory
	KindInterval
	KindTime
)

var kindNames = map[Kind]string{
	KindInt:      "int",
	KindFloat:    "float",
	KindString:   "string",
	KindCategory: "category",
	KindInterval: "interval",
	KindTime:     "time",
}

// String returns the lower-case kind name
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// MarshalText implements encoding.TextMarshaler
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseKind converts a kind name back to a Kind
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == strings.ToLower(strings.TrimSpace(s)) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown column kind %q", s)
}

// IsNumeric reports whether values of this kind can be read as float64
func (k Kind) IsNumeric() bool {
	return k == KindInt || k == KindFloat
}

// Column is a named, typed vector of values. A nil entry (or a float NaN)
// is the canonical absent marker.
//
// Value representation per kind:
//
//	KindInt      int64
//	KindFloat    float64
//	KindString   string
//	KindCategory string, a member of Categories
//	KindInterval Interval
//	KindTime     time.Time
type Column struct {
	Name       string
	Kind       Kind
	Categories []string
	Ordered    bool
	// Width is a storage hint: 8/16/32/64 for integers, 32/64 for floats.
	// Zero means the default 64-bit storage.
	Width    int
	Unsigned bool
	Values   []any
}

// NewColumn creates an all-absent column with n rows
func NewColumn(name string, kind Kind, n int) *Column {
	return &Column{Name: name, Kind: kind, Values: make([]any, n)}
}

// NewCategory creates a categorical column from values and a declared category set
func NewCategory(name string, categories []string, ordered bool, values []any) *Column {
	return &Column{
		Name:       name,
		Kind:       KindCategory,
		Categories: append([]string(nil), categories...),
		Ordered:    ordered,
		Values:     values,
	}
}

// Len returns the number of rows
func (c *Column) Len() int {
	return len(c.Values)
}

// IsAbsent reports whether row i holds the absent marker
func (c *Column) IsAbsent(i int) bool {
	return IsAbsent(c.Values[i])
}

// MissingCount returns the number of absent rows
func (c *Column) MissingCount() int {
	n := 0
	for _, v := range c.Values {
		if IsAbsent(v) {
			n++
		}
	}
	return n
}

// AllAbsent reports whether every row is absent
func (c *Column) AllAbsent() bool {
	return c.MissingCount() == len(c.Values)
}

// HasCategory reports whether label belongs to the category set
func (c *Column) HasCategory(label string) bool {
	for _, cat := range c.Categories {
		if cat == label {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the column metadata and value slice
func (c *Column) Clone() *Column {
	out := *c
	out.Categories = append([]string(nil), c.Categories...)
	out.Values = append([]any(nil), c.Values...)
	return &out
}

// Rename returns a shallow copy of the column carrying a new name
func (c *Column) Rename(name string) *Column {
	out := *c
	out.Name = name
	return &out
}

// Take returns a new column holding the rows at the given positions.
// A negative position yields an absent value.
func (c *Column) Take(rows []int) *Column {
	out := *c
	out.Categories = append([]string(nil), c.Categories...)
	out.Values = make([]any, len(rows))
	for i, r := range rows {
		if r >= 0 {
			out.Values[i] = c.Values[r]
		}
	}
	return &out
}

// IsAbsent reports whether v is the absent marker
func IsAbsent(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case float64:
		return math.IsNaN(x)
	case float32:
		return math.IsNaN(float64(x))
	}
	return false
}

// Float converts a numeric value to float64. ok is false for absent
// and non-numeric values.
func Float(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) {
			return 0, false
		}
		return x, true
	case float32:
		if math.IsNaN(float64(x)) {
			return 0, false
		}
		return float64(x), true
	case int64:
		return float64(x), true
	case int:
		return float64(x), true
	case int32:
		return float64(x), true
	case int16:
		return float64(x), true
	case int8:
		return float64(x), true
	case uint64:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint8:
		return float64(x), true
	}
	return 0, false
}

// Int converts an integer value to int64
func Int(v any) (int64, bool) {
	switch x := v.(type) {
	case int64:
		return x, true
	case int:
		return int64(x), true
	case int32:
		return int64(x), true
	case int16:
		return int64(x), true
	case int8:
		return int64(x), true
	case uint32:
		return int64(x), true
	case uint16:
		return int64(x), true
	case uint8:
		return int64(x), true
	case uint64:
		if x > math.MaxInt64 {
			return 0, false
		}
		return int64(x), true
	case float64:
		if math.IsNaN(x) || x != math.Trunc(x) {
			return 0, false
		}
		return int64(x), true
	}
	return 0, false
}

// Format renders a value the way it appears in delimited text output.
// Absent values render as the empty string.
func Format(v any) string {
	if IsAbsent(v) {
		return ""
	}
	switch x := v.(type) {
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case time.Time:
		return x.Format(TimeLayout)
	case Interval:
		return x.String()
	case fmt.Stringer:
		return x.String()
	}
	return fmt.Sprint(v)
}

// TimeLayout is the textual layout used for KindTime values
const TimeLayout = "2006-01-02 15:04:05"

// Parse converts a textual cell back into a value of the given kind
func Parse(kind Kind, s string) (any, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	switch kind {
	case KindInt:
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse int %q: %w", s, err)
		}
		return n, nil
	case KindFloat:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("parse float %q: %w", s, err)
		}
		return f, nil
	case KindString, KindCategory:
		return s, nil
	case KindInterval:
		return ParseInterval(s)
	case KindTime:
		t, err := time.Parse(TimeLayout, s)
		if err != nil {
			return nil, fmt.Errorf("parse time %q: %w", s, err)
		}
		return t, nil
	}
	return nil, fmt.Errorf("cannot parse kind %s", kind)
}
