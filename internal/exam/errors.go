package exam

import "errors"

// Validation errors, rejected before any persistence or AI call.
var (
	ErrNoUnits          = errors.New("no units selected")
	ErrBadQuestionCount = errors.New("question count must be at least 1")
	ErrCountBelowUnits  = errors.New("question count below selected unit count")
	ErrBadTimer         = errors.New("timer must be between 1 and 60 minutes")
	ErrBadCode          = errors.New("malformed exam code")
	ErrNoAnswers        = errors.New("no answers submitted")
)

// Configuration and upstream errors.
var (
	ErrNoAPIKey              = errors.New("LLM API key not configured")
	ErrGenerationFailed      = errors.New("question generation failed")
	ErrInsufficientQuestions = errors.New("could not cover every selected unit")
	ErrCodeExhausted         = errors.New("exam code generation attempts exhausted")
)

// Lookup errors.
var (
	ErrExamNotFound  = errors.New("exam not found")
	ErrSolveNotFound = errors.New("solve not found")
	ErrNotOwner      = errors.New("solve belongs to another student")
)
