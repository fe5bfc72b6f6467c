package dxf

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Group codes used by the reader.
const (
	CodeStructure = 0
	CodeText      = 1
	CodeName      = 2
	CodeHandle    = 5
	CodeLayer     = 8
	CodeVariable  = 9
	CodeX         = 10
	CodeY         = 20
	CodeZ         = 30
	CodeColor     = 62
	CodeSpace     = 67
	CodeFlags     = 70
	CodeComment   = 999
)

// Pair is one group code and its value.
type Pair struct {
	Code  int
	Value string
}

func (p Pair) String() string {
	return fmt.Sprintf("%d: %q", p.Code, p.Value)
}

// Is reports whether p is the given code/value combination.
func (p Pair) Is(code int, value string) bool {
	return p.Code == code && p.Value == value
}

func (p Pair) Float() (float64, error) {
	v, err := strconv.ParseFloat(p.Value, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("group %d: %q is not a finite number: %w", p.Code, p.Value, ErrMalformed)
	}
	return v, nil
}

// Int parses integer values. Some writers emit integer groups as reals, those are truncated.
func (p Pair) Int() (int, error) {
	v, err := strconv.Atoi(p.Value)
	if err == nil {
		return v, nil
	}
	f, ferr := strconv.ParseFloat(p.Value, 64)
	if ferr != nil || math.Abs(f) > math.MaxInt32 || math.IsNaN(f) {
		return 0, fmt.Errorf("group %d: %q is not an integer: %w", p.Code, p.Value, ErrMalformed)
	}
	return int(f), nil
}

func parseCode(s string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(s))
}
