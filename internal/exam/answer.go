package exam

import (
	"math"
	"strconv"
	"strings"
)

// Tolerances for numeric answer comparison. An answer counts as correct when
// it is within absTolerance of the stored answer, or within relTolerance of
// its magnitude.
const (
	absTolerance = 0.0005
	relTolerance = 0.001
)

// CompareAnswers decides whether a free-text student answer matches a stored
// answer. Exact case-insensitive string match short-circuits to correct;
// otherwise both sides are parsed as numbers ("a/b" fraction syntax is
// accepted) and compared with tolerance. Non-numeric near-misses are always
// incorrect.
//
// The unit-exam submission grader deliberately does NOT use this function:
// submissions are graded by exact trimmed match (see Service.Submit). Only
// the error-notebook recheck flow compares with tolerance.
func CompareAnswers(userInput, answer string) bool {
	u := strings.TrimSpace(userInput)
	a := strings.TrimSpace(answer)
	if u == "" || a == "" {
		return false
	}
	if strings.EqualFold(u, a) {
		return true
	}

	uv, uok := parseNumber(u)
	av, aok := parseNumber(a)
	if !uok || !aok {
		return false
	}

	diff := math.Abs(uv - av)
	if diff <= absTolerance {
		return true
	}
	if av != 0 && diff/math.Abs(av) <= relTolerance {
		return true
	}
	return false
}

// parseNumber parses a decimal or an "a/b" fraction.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if num, den, found := strings.Cut(s, "/"); found {
		n, err1 := strconv.ParseFloat(strings.TrimSpace(num), 64)
		d, err2 := strconv.ParseFloat(strings.TrimSpace(den), 64)
		if err1 != nil || err2 != nil || d == 0 {
			return 0, false
		}
		return n / d, true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
