package exam

import (
	"regexp"
	"strings"

	"github.com/dangwonlab/dangwon/internal/model"
)

// QuestionCheck is a unit-specific acceptance filter for generated questions.
type QuestionCheck func(q model.GeneratedQuestion) bool

// checksByUnitName maps a unit-name substring to a structural check. Units
// without a registered check pass through unchanged. This is a per-unit
// acceptance filter, not a general proof-checker.
var checksByUnitName = []struct {
	match string
	check QuestionCheck
}{
	{"일차방정식", checkLinearEquation},
}

var unknownRe = regexp.MustCompile(`[a-zA-Z]`)

// ValidQuestion reports whether a generated question is acceptable for the
// named unit. Every question must carry non-empty text and answer; beyond
// that, only units with a registered check are filtered structurally.
func ValidQuestion(q model.GeneratedQuestion, unitName string) bool {
	if strings.TrimSpace(q.Question) == "" || strings.TrimSpace(q.Answer) == "" {
		return false
	}
	for _, c := range checksByUnitName {
		if strings.Contains(unitName, c.match) {
			return c.check(q)
		}
	}
	return true
}

// checkLinearEquation accepts questions that look like a solvable linear
// equation: an equals sign, an unknown, and a numeric answer.
func checkLinearEquation(q model.GeneratedQuestion) bool {
	if !strings.Contains(q.Question, "=") {
		return false
	}
	if !unknownRe.MatchString(q.Question) {
		return false
	}
	_, ok := parseNumber(q.Answer)
	return ok
}
