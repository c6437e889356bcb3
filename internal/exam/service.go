package exam

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dangwonlab/dangwon/internal/model"
	"github.com/dangwonlab/dangwon/internal/store"
)

// Generator produces candidate questions for the given units.
type Generator interface {
	GenerateQuestions(ctx context.Context, units []model.UnitRef, count int) ([]model.GeneratedQuestion, error)
}

// Store is the persistence surface the exam service needs.
// *store.Store satisfies it.
type Store interface {
	CreateExamWithQuestions(exam model.UnitExam, questions []model.UnitQuestion) (int64, error)
	GetExamByCode(code string) (*model.UnitExam, error)
	ListQuestionsByCode(code string) ([]model.UnitQuestion, error)
	CountQuestionsByCode(code string) (int, error)
	GetQuestion(id int64) (*model.UnitQuestion, error)
	HasAttempt(studentID, examID int64) (bool, error)
	CreateAttempt(a model.UnitExamAttempt) (int64, error)
	InsertSolves(solves []model.UnitSolve) error
	GetSolve(id int64) (*model.UnitSolve, error)
	UpdateSolve(id int64, userInput string, correct bool) error
}

// DefaultCodeAttempts bounds the mint-and-insert loop for exam codes.
const DefaultCodeAttempts = 5

// Service implements the unit-exam lifecycle: generation, verification,
// attempt gating, submission grading, and solve rechecks.
type Service struct {
	store        Store
	gen          Generator
	codeAttempts int
}

// NewService creates a Service. gen may be nil when no LLM API key is
// configured; generation then fails fast with ErrNoAPIKey.
func NewService(s Store, gen Generator, codeAttempts int) *Service {
	if codeAttempts <= 0 {
		codeAttempts = DefaultCodeAttempts
	}
	return &Service{store: s, gen: gen, codeAttempts: codeAttempts}
}

// GenerateRequest is a teacher's exam generation request.
type GenerateRequest struct {
	Units         []model.UnitRef `json:"units"`
	QuestionCount int             `json:"questionCount"`
	TimerMinutes  int             `json:"timerMinutes"` // 0 means no timer
}

// GenerateResult identifies a freshly persisted exam.
type GenerateResult struct {
	ExamID int64  `json:"examId"`
	Code   string `json:"code"`
}

// Generate creates a uniquely-coded exam whose questions cover every
// requested unit. Nothing is persisted unless the full question set could be
// assembled.
func (s *Service) Generate(ctx context.Context, teacherID int64, req GenerateRequest) (*GenerateResult, error) {
	if err := validateGenerateRequest(req); err != nil {
		return nil, err
	}
	if s.gen == nil {
		return nil, ErrNoAPIKey
	}

	nameByUnit := make(map[int64]string, len(req.Units))
	for _, u := range req.Units {
		nameByUnit[u.ID] = u.Name
	}

	pool, err := s.generateValid(ctx, req.Units, req.QuestionCount, nameByUnit)
	if err != nil {
		return nil, err
	}
	// One overall retry when the first round yields too few candidates.
	if len(pool) < req.QuestionCount {
		more, err := s.generateValid(ctx, req.Units, req.QuestionCount, nameByUnit)
		if err == nil {
			pool = append(pool, more...)
		}
	}

	regen := func(ctx context.Context, missing []model.UnitRef, count int) ([]model.GeneratedQuestion, error) {
		names := make(map[int64]string, len(missing))
		for _, u := range missing {
			names[u.ID] = u.Name
		}
		return s.generateValid(ctx, missing, count, names)
	}

	questions, err := Distribute(ctx, pool, req.Units, req.QuestionCount, regen)
	if err != nil {
		return nil, err
	}

	for range s.codeAttempts {
		code := NewCode(req.TimerMinutes)
		rows := make([]model.UnitQuestion, 0, len(questions))
		for _, q := range questions {
			rows = append(rows, model.UnitQuestion{
				ExamCode:  code,
				UnitID:    q.UnitID,
				Question:  q.Question,
				Answer:    q.Answer,
				Help:      q.Help,
				CreatedBy: teacherID,
			})
		}
		examID, err := s.store.CreateExamWithQuestions(model.UnitExam{
			Code:      code,
			TeacherID: teacherID,
			TimeLimit: req.TimerMinutes,
		}, rows)
		if errors.Is(err, store.ErrCodeExists) {
			slog.Info("exam code collision, regenerating", "code", code)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("persist exam: %w", err)
		}
		return &GenerateResult{ExamID: examID, Code: code}, nil
	}
	return nil, ErrCodeExhausted
}

// generateValid calls the generator and keeps only questions that pass the
// per-unit acceptance filter. Generation failures are wrapped in
// ErrGenerationFailed; parse failures inside the generator surface here as an
// empty slice, not an error.
func (s *Service) generateValid(ctx context.Context, units []model.UnitRef, count int, nameByUnit map[int64]string) ([]model.GeneratedQuestion, error) {
	candidates, err := s.gen.GenerateQuestions(ctx, units, count)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	valid := candidates[:0]
	for _, q := range candidates {
		if ValidQuestion(q, nameByUnit[q.UnitID]) {
			valid = append(valid, q)
		}
	}
	return valid, nil
}

func validateGenerateRequest(req GenerateRequest) error {
	if len(req.Units) == 0 {
		return ErrNoUnits
	}
	if req.QuestionCount < 1 {
		return ErrBadQuestionCount
	}
	if req.QuestionCount < len(req.Units) {
		return ErrCountBelowUnits
	}
	if req.TimerMinutes < 0 || req.TimerMinutes > 60 {
		return ErrBadTimer
	}
	return nil
}

// ExamData is the answer-free exam summary returned on verification.
type ExamData struct {
	ExamID        int64  `json:"examId"`
	Code          string `json:"code"`
	TimeLimit     int    `json:"timeLimit"`
	QuestionCount int    `json:"questionCount"`
}

// VerifyResult is the outcome of checking a student-supplied code.
type VerifyResult struct {
	Valid            bool      `json:"valid"`
	AlreadyAttempted bool      `json:"alreadyAttempted,omitempty"`
	Exam             *ExamData `json:"examData,omitempty"`
}

// Verify checks a student-supplied code. It never creates an attempt row:
// checking a code must not mark the student as having attempted the exam.
func (s *Service) Verify(studentID int64, code string) (*VerifyResult, error) {
	if !ValidCode(code) {
		return nil, ErrBadCode
	}
	exam, err := s.store.GetExamByCode(code)
	if err != nil {
		return nil, fmt.Errorf("lookup exam: %w", err)
	}
	if exam == nil {
		return &VerifyResult{Valid: false}, nil
	}
	attempted, err := s.store.HasAttempt(studentID, exam.ID)
	if err != nil {
		return nil, fmt.Errorf("check attempt: %w", err)
	}
	if attempted {
		return &VerifyResult{Valid: false, AlreadyAttempted: true}, nil
	}
	count, err := s.store.CountQuestionsByCode(code)
	if err != nil {
		return nil, fmt.Errorf("count questions: %w", err)
	}
	return &VerifyResult{
		Valid: true,
		Exam: &ExamData{
			ExamID:        exam.ID,
			Code:          exam.Code,
			TimeLimit:     exam.TimeLimit,
			QuestionCount: count,
		},
	}, nil
}

// StartResult is the outcome of starting an exam.
type StartResult struct {
	AlreadyAttempted bool  `json:"alreadyAttempted,omitempty"`
	AttemptID        int64 `json:"attemptId,omitempty"`
}

// Start records the student's attempt. The insert is conditional on the
// store's uniqueness guarantee, so two concurrent starts cannot both
// succeed; the loser gets the idempotent already-attempted outcome.
func (s *Service) Start(studentID int64, code string) (*StartResult, error) {
	if !ValidCode(code) {
		return nil, ErrBadCode
	}
	exam, err := s.store.GetExamByCode(code)
	if err != nil {
		return nil, fmt.Errorf("lookup exam: %w", err)
	}
	if exam == nil {
		return nil, ErrExamNotFound
	}
	id, err := s.store.CreateAttempt(model.UnitExamAttempt{
		ExamID:    exam.ID,
		ExamCode:  exam.Code,
		StudentID: studentID,
	})
	if errors.Is(err, store.ErrAlreadyAttempted) {
		return &StartResult{AlreadyAttempted: true}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("create attempt: %w", err)
	}
	return &StartResult{AttemptID: id}, nil
}

// QuestionView is a question with the answer stripped for the student-facing
// fetch path.
type QuestionView struct {
	ID       int64  `json:"id"`
	UnitID   int64  `json:"unitId"`
	Question string `json:"question"`
	Help     string `json:"help,omitempty"`
}

// Questions returns the exam's questions without answers.
func (s *Service) Questions(code string) ([]QuestionView, error) {
	if !ValidCode(code) {
		return nil, ErrBadCode
	}
	exam, err := s.store.GetExamByCode(code)
	if err != nil {
		return nil, fmt.Errorf("lookup exam: %w", err)
	}
	if exam == nil {
		return nil, ErrExamNotFound
	}
	questions, err := s.store.ListQuestionsByCode(code)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	views := make([]QuestionView, 0, len(questions))
	for _, q := range questions {
		views = append(views, QuestionView{
			ID:       q.ID,
			UnitID:   q.UnitID,
			Question: q.Question,
			Help:     q.Help,
		})
	}
	return views, nil
}

// SubmittedAnswer is one answer in a submission batch.
type SubmittedAnswer struct {
	QuestionID int64  `json:"questionId"`
	UserInput  string `json:"userInput"`
}

// AnswerResult is the graded outcome for one submitted answer.
type AnswerResult struct {
	QuestionID int64 `json:"questionId"`
	Correct    bool  `json:"correct"`
}

// SubmitResult summarizes a graded submission.
type SubmitResult struct {
	Results      []AnswerResult `json:"results"`
	CorrectCount int            `json:"correctCount"`
	Total        int            `json:"total"`
}

// Submit grades a batch of answers against the stored question answers and
// persists one solve row per answer in a single bulk insert.
//
// Correctness here is exact trimmed string equality, stricter than
// CompareAnswers. Unit exams demand exact formatting; the tolerant comparator
// is reserved for the error-notebook recheck flow.
func (s *Service) Submit(studentID int64, code string, answers []SubmittedAnswer) (*SubmitResult, error) {
	if !ValidCode(code) {
		return nil, ErrBadCode
	}
	if len(answers) == 0 {
		return nil, ErrNoAnswers
	}
	questions, err := s.store.ListQuestionsByCode(code)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	if len(questions) == 0 {
		return nil, ErrExamNotFound
	}

	answerByID := make(map[int64]string, len(questions))
	for _, q := range questions {
		answerByID[q.ID] = q.Answer
	}

	result := &SubmitResult{}
	solves := make([]model.UnitSolve, 0, len(answers))
	for _, a := range answers {
		stored, ok := answerByID[a.QuestionID]
		if !ok {
			slog.Warn("submitted answer for unknown question", "question_id", a.QuestionID, "code", code)
			continue
		}
		correct := strings.TrimSpace(a.UserInput) == strings.TrimSpace(stored)
		solves = append(solves, model.UnitSolve{
			QuestionID: a.QuestionID,
			StudentID:  studentID,
			UserInput:  a.UserInput,
			Correct:    correct,
		})
		result.Results = append(result.Results, AnswerResult{QuestionID: a.QuestionID, Correct: correct})
		if correct {
			result.CorrectCount++
		}
	}
	result.Total = len(result.Results)

	if err := s.store.InsertSolves(solves); err != nil {
		return nil, fmt.Errorf("insert solves: %w", err)
	}
	return result, nil
}

// RecheckResult is the outcome of re-grading a solve.
type RecheckResult struct {
	SolveID int64 `json:"solveId"`
	Correct bool  `json:"correct"`
}

// Recheck re-grades a stored solve with the student's updated input, using
// the tolerant numeric comparator, and updates the solve row.
func (s *Service) Recheck(studentID, solveID int64, userInput string) (*RecheckResult, error) {
	solve, err := s.store.GetSolve(solveID)
	if err != nil {
		return nil, fmt.Errorf("lookup solve: %w", err)
	}
	if solve == nil {
		return nil, ErrSolveNotFound
	}
	if solve.StudentID != studentID {
		return nil, ErrNotOwner
	}
	question, err := s.store.GetQuestion(solve.QuestionID)
	if err != nil {
		return nil, fmt.Errorf("lookup question: %w", err)
	}
	if question == nil {
		return nil, ErrSolveNotFound
	}
	correct := CompareAnswers(userInput, question.Answer)
	if err := s.store.UpdateSolve(solveID, userInput, correct); err != nil {
		return nil, fmt.Errorf("update solve: %w", err)
	}
	return &RecheckResult{SolveID: solveID, Correct: correct}, nil
}
