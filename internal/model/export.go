package model

import "time"

// ExamExport is the top-level JSON structure for exam result export.
type ExamExport struct {
	Code      string           `json:"code"`
	TimeLimit int              `json:"time_limit"`
	CreatedAt time.Time        `json:"created_at"`
	Questions []QuestionExport `json:"questions"`
	Attempts  []AttemptExport  `json:"attempts"`
}

// QuestionExport holds one question and all graded answers to it.
type QuestionExport struct {
	ID       int64         `json:"id"`
	UnitID   int64         `json:"unit_id"`
	UnitName string        `json:"unit_name"`
	Question string        `json:"question"`
	Answer   string        `json:"answer"`
	Help     string        `json:"help,omitempty"`
	Solves   []SolveExport `json:"solves"`
}

// SolveExport is one student's graded answer in an export.
type SolveExport struct {
	StudentID   int64     `json:"student_id"`
	DisplayName string    `json:"display_name"`
	UserInput   string    `json:"user_input"`
	Correct     bool      `json:"correct"`
	CreatedAt   time.Time `json:"created_at"`
}

// AttemptExport is one attempt record in an export.
type AttemptExport struct {
	StudentID   int64     `json:"student_id"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}
