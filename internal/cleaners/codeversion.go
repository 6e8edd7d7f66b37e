package cleaners

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	apperrors "surveycli/internal/errors"
)

// ResolveCode returns post when current >= switchPeriod and pre otherwise.
// current may be an integer, an integral float, a numeric string, or a
// slice/array holding a single repeated value of those.
func ResolveCode(pre, post string, switchPeriod int, current any) (string, error) {
	period, err := PeriodInt(current)
	if err != nil {
		return "", err
	}
	if period >= int64(switchPeriod) {
		return post, nil
	}
	return pre, nil
}

// PeriodInt converts a period identifier to an integer for comparison
func PeriodInt(current any) (int64, error) {
	rv := reflect.ValueOf(current)
	if current != nil && (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array) {
		if rv.Len() == 0 {
			return 0, apperrors.NewInvalidPeriodError(current, fmt.Errorf("empty period sequence"))
		}
		first, err := scalarPeriod(rv.Index(0).Interface())
		if err != nil {
			return 0, err
		}
		for i := 1; i < rv.Len(); i++ {
			next, err := scalarPeriod(rv.Index(i).Interface())
			if err != nil {
				return 0, err
			}
			if next != first {
				return 0, apperrors.NewInvalidPeriodError(current,
					fmt.Errorf("period sequence mixes %d and %d", first, next))
			}
		}
		return first, nil
	}
	return scalarPeriod(current)
}

func scalarPeriod(v any) (int64, error) {
	switch x := v.(type) {
	case int:
		return int64(x), nil
	case int8:
		return int64(x), nil
	case int16:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case int64:
		return x, nil
	case uint8:
		return int64(x), nil
	case uint16:
		return int64(x), nil
	case uint32:
		return int64(x), nil
	case uint64:
		if x > math.MaxInt64 {
			return 0, apperrors.NewInvalidPeriodError(v, fmt.Errorf("overflows int64"))
		}
		return int64(x), nil
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) || x != math.Trunc(x) {
			return 0, apperrors.NewInvalidPeriodError(v, fmt.Errorf("not an integer"))
		}
		return int64(x), nil
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		if err != nil {
			return 0, apperrors.NewInvalidPeriodError(v, err)
		}
		return n, nil
	}
	return 0, apperrors.NewInvalidPeriodError(v, fmt.Errorf("unsupported type %T", v))
}

// VariableCode is either a constant raw column code or a
// (pre, post, switch) triple for codes that changed between waves.
type VariableCode struct {
	Code   string `yaml:"code,omitempty"`
	Pre    string `yaml:"pre,omitempty"`
	Post   string `yaml:"post,omitempty"`
	Switch int    `yaml:"switch,omitempty"`
}

// Const declares a code that never changed
func Const(code string) VariableCode {
	return VariableCode{Code: code}
}

// Switched declares a code that changed from pre to post at switchPeriod
func Switched(pre, post string, switchPeriod int) VariableCode {
	return VariableCode{Pre: pre, Post: post, Switch: switchPeriod}
}

// IsSwitched reports whether the code depends on the period
func (v VariableCode) IsSwitched() bool {
	return v.Pre != "" || v.Post != ""
}

// Resolve returns the raw code valid in the given period
func (v VariableCode) Resolve(period any) (string, error) {
	if !v.IsSwitched() {
		return v.Code, nil
	}
	return ResolveCode(v.Pre, v.Post, v.Switch, period)
}

// CodeMap maps logical variable names to their raw codes
type CodeMap map[string]VariableCode

// Resolve returns the raw code of variable in the given period
func (m CodeMap) Resolve(variable string, period any) (string, error) {
	code, ok := m[variable]
	if !ok {
		return "", apperrors.NewNotFoundError(fmt.Sprintf("variable %s", variable))
	}
	return code.Resolve(period)
}

// Column resolves variable and prepends the wave prefix, e.g. "ci19l" + "298"
func (m CodeMap) Column(prefix, variable string, period any) (string, error) {
	code, err := m.Resolve(variable, period)
	if err != nil {
		return "", err
	}
	return prefix + code, nil
}
