package interval

import (
	"fmt"

	apperrors "surveycli/internal/errors"
	"surveycli/internal/findings"
	"surveycli/internal/table"
)

// Layout describes how choice answers are laid out in a table
type Layout struct {
	// ChoiceColumn formats the column name for an option and a threshold
	ChoiceColumn func(option string, threshold int) string
	// OutputColumn formats the decoded interval column name for an option
	OutputColumn func(option string) string
	Reference    string
	Alternative  string
}

// DefaultLayout matches the normalized ambiguous-beliefs table:
// "choice_aex_<option>_vs_<p>" answered "AEX" or "Lottery", decoded into
// "mp_<option>".
var DefaultLayout = Layout{
	ChoiceColumn: func(option string, threshold int) string {
		return fmt.Sprintf("choice_aex_%s_vs_%d", option, threshold)
	},
	OutputColumn: func(option string) string { return "mp_" + option },
	Reference:    "AEX",
	Alternative:  "Lottery",
}

func (l Layout) choice(v any) Choice {
	s, ok := v.(string)
	if !ok {
		return Unanswered
	}
	switch s {
	case l.Reference:
		return Reference
	case l.Alternative:
		return Alternative
	}
	return Unanswered
}

// Matrix reads the answers of one option in row i
func (l Layout) Matrix(cols [13]*table.Column, row int) ChoiceMatrix {
	var m ChoiceMatrix
	for i, c := range cols {
		m[i] = l.choice(c.Values[row])
	}
	return m
}

func (l Layout) optionColumns(t *table.Table, option string) ([13]*table.Column, error) {
	var cols [13]*table.Column
	for i, p := range Thresholds {
		name := l.ChoiceColumn(option, p)
		c, ok := t.Column(name)
		if !ok {
			return cols, apperrors.NewNotFoundError(fmt.Sprintf("choice column %s", name))
		}
		cols[i] = c
	}
	return cols, nil
}

// DecodeOptions decodes one interval column per option. Degenerate rows
// are reported to sink, one finding per option.
func (l Layout) DecodeOptions(t *table.Table, options []string, sink findings.Sink) ([]*table.Column, error) {
	out := make([]*table.Column, 0, len(options))
	for _, option := range options {
		cols, err := l.optionColumns(t, option)
		if err != nil {
			return nil, err
		}
		col := table.NewColumn(l.OutputColumn(option), table.KindInterval, t.NumRows())
		degenerate := 0
		for row := 0; row < t.NumRows(); row++ {
			iv, outcome := Decode(l.Matrix(cols, row))
			switch outcome {
			case Decoded:
				col.Values[row] = iv
			case Degenerate:
				col.Values[row] = iv
				degenerate++
			}
		}
		if degenerate > 0 && sink != nil {
			sink.Add(findings.Finding{
				Kind:    findings.DegenerateInterval,
				Column:  col.Name,
				Message: "choice path incomplete, interval set to (0,0)",
				Rows:    degenerate,
			})
		}
		out = append(out, col)
	}
	return out, nil
}
