package store

import (
	"errors"
	"testing"

	"github.com/dangwonlab/dangwon/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(":memory:")
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func createTestExam(t *testing.T, s *Store, code string) int64 {
	t.Helper()
	examID, err := s.CreateExamWithQuestions(
		model.UnitExam{Code: code, TeacherID: 1, TimeLimit: 10},
		[]model.UnitQuestion{
			{ExamCode: code, UnitID: 1, Question: "2x + 1 = 7", Answer: "3", Help: "양변에서 1을 빼세요", CreatedBy: 1},
			{ExamCode: code, UnitID: 2, Question: "12를 소인수분해하면?", Answer: "2^2*3", CreatedBy: 1},
		},
	)
	if err != nil {
		t.Fatalf("create exam: %v", err)
	}
	return examID
}

func TestUnitCRUD(t *testing.T) {
	s := newTestStore(t)

	id, err := s.CreateUnit(model.Unit{Name: "소인수분해", VideoURL: "https://example.com/v1"})
	if err != nil {
		t.Fatalf("create unit: %v", err)
	}

	u, err := s.GetUnit(id)
	if err != nil {
		t.Fatalf("get unit: %v", err)
	}
	if u == nil || u.Name != "소인수분해" || u.VideoURL != "https://example.com/v1" {
		t.Errorf("got unit %+v", u)
	}

	missing, err := s.GetUnit(9999)
	if err != nil {
		t.Fatalf("get missing unit: %v", err)
	}
	if missing != nil {
		t.Errorf("got %+v for missing unit, want nil", missing)
	}

	if _, err := s.CreateUnit(model.Unit{Name: "일차방정식"}); err != nil {
		t.Fatalf("create second unit: %v", err)
	}
	units, err := s.ListUnits()
	if err != nil {
		t.Fatalf("list units: %v", err)
	}
	if len(units) != 2 {
		t.Errorf("got %d units, want 2", len(units))
	}
	count, err := s.UnitCount()
	if err != nil {
		t.Fatalf("unit count: %v", err)
	}
	if count != 2 {
		t.Errorf("unit count = %d, want 2", count)
	}
}

func TestCreateExamWithQuestions(t *testing.T) {
	s := newTestStore(t)
	examID := createTestExam(t, s, "ABCDEF-10")

	exam, err := s.GetExamByCode("ABCDEF-10")
	if err != nil {
		t.Fatalf("get exam: %v", err)
	}
	if exam == nil {
		t.Fatal("exam not found after insert")
	}
	if exam.ID != examID || exam.TimeLimit != 10 || exam.TeacherID != 1 {
		t.Errorf("got exam %+v", exam)
	}

	questions, err := s.ListQuestionsByCode("ABCDEF-10")
	if err != nil {
		t.Fatalf("list questions: %v", err)
	}
	if len(questions) != 2 {
		t.Fatalf("got %d questions, want 2", len(questions))
	}
	if questions[0].Answer != "3" || questions[0].Help == "" {
		t.Errorf("got first question %+v", questions[0])
	}

	count, err := s.CountQuestionsByCode("ABCDEF-10")
	if err != nil {
		t.Fatalf("count questions: %v", err)
	}
	if count != 2 {
		t.Errorf("question count = %d, want 2", count)
	}

	q, err := s.GetQuestion(questions[1].ID)
	if err != nil {
		t.Fatalf("get question: %v", err)
	}
	if q == nil || q.Question != "12를 소인수분해하면?" {
		t.Errorf("got question %+v", q)
	}
}

func TestCreateExamCodeConflict(t *testing.T) {
	s := newTestStore(t)
	createTestExam(t, s, "ABCDEF")

	_, err := s.CreateExamWithQuestions(model.UnitExam{Code: "ABCDEF", TeacherID: 2}, nil)
	if !errors.Is(err, ErrCodeExists) {
		t.Fatalf("err = %v, want ErrCodeExists", err)
	}

	// The conflicting transaction must leave the question count untouched.
	count, err := s.ExamCount()
	if err != nil {
		t.Fatalf("exam count: %v", err)
	}
	if count != 1 {
		t.Errorf("exam count = %d, want 1", count)
	}
}

func TestGetExamByCodeMissing(t *testing.T) {
	s := newTestStore(t)
	exam, err := s.GetExamByCode("ZZZZZZ")
	if err != nil {
		t.Fatalf("get exam: %v", err)
	}
	if exam != nil {
		t.Errorf("got %+v for unknown code, want nil", exam)
	}
}

func TestAttemptUniqueness(t *testing.T) {
	s := newTestStore(t)
	examID := createTestExam(t, s, "ABCDEF")

	attempt := model.UnitExamAttempt{ExamID: examID, ExamCode: "ABCDEF", StudentID: 42}
	if _, err := s.CreateAttempt(attempt); err != nil {
		t.Fatalf("first attempt: %v", err)
	}

	_, err := s.CreateAttempt(attempt)
	if !errors.Is(err, ErrAlreadyAttempted) {
		t.Fatalf("second attempt err = %v, want ErrAlreadyAttempted", err)
	}

	has, err := s.HasAttempt(42, examID)
	if err != nil {
		t.Fatalf("has attempt: %v", err)
	}
	if !has {
		t.Error("HasAttempt = false after insert")
	}

	has, err = s.HasAttempt(43, examID)
	if err != nil {
		t.Fatalf("has attempt: %v", err)
	}
	if has {
		t.Error("HasAttempt = true for a student who never attempted")
	}

	// A different student is unaffected by the constraint.
	if _, err := s.CreateAttempt(model.UnitExamAttempt{ExamID: examID, ExamCode: "ABCDEF", StudentID: 43}); err != nil {
		t.Fatalf("other student attempt: %v", err)
	}

	attempts, err := s.ListAttemptsByExam(examID)
	if err != nil {
		t.Fatalf("list attempts: %v", err)
	}
	if len(attempts) != 2 {
		t.Errorf("got %d attempts, want 2", len(attempts))
	}
}

func TestSolves(t *testing.T) {
	s := newTestStore(t)
	createTestExam(t, s, "ABCDEF")
	questions, err := s.ListQuestionsByCode("ABCDEF")
	if err != nil {
		t.Fatalf("list questions: %v", err)
	}

	err = s.InsertSolves([]model.UnitSolve{
		{QuestionID: questions[0].ID, StudentID: 42, UserInput: "3", Correct: true},
		{QuestionID: questions[1].ID, StudentID: 42, UserInput: "wrong", Correct: false},
	})
	if err != nil {
		t.Fatalf("insert solves: %v", err)
	}

	solves, err := s.ListSolvesByQuestion(questions[0].ID)
	if err != nil {
		t.Fatalf("list solves: %v", err)
	}
	if len(solves) != 1 {
		t.Fatalf("got %d solves, want 1", len(solves))
	}
	if !solves[0].Correct || solves[0].UserInput != "3" {
		t.Errorf("got solve %+v", solves[0])
	}

	sv, err := s.GetSolve(solves[0].ID)
	if err != nil {
		t.Fatalf("get solve: %v", err)
	}
	if sv == nil || sv.StudentID != 42 {
		t.Errorf("got solve %+v", sv)
	}

	if err := s.UpdateSolve(sv.ID, "3.5", false); err != nil {
		t.Fatalf("update solve: %v", err)
	}
	sv, err = s.GetSolve(sv.ID)
	if err != nil {
		t.Fatalf("get updated solve: %v", err)
	}
	if sv.UserInput != "3.5" || sv.Correct {
		t.Errorf("got updated solve %+v", sv)
	}

	if err := s.InsertSolves(nil); err != nil {
		t.Errorf("empty insert: %v", err)
	}
}

func TestExportExam(t *testing.T) {
	s := newTestStore(t)

	unit1, err := s.CreateUnit(model.Unit{Name: "일차방정식"})
	if err != nil {
		t.Fatalf("create unit: %v", err)
	}
	unit2, err := s.CreateUnit(model.Unit{Name: "소인수분해"})
	if err != nil {
		t.Fatalf("create unit: %v", err)
	}

	studentID, err := s.CreateUser(model.User{
		Username: "student1", DisplayName: "김학생", PasswordHash: "x", Role: model.UserRoleStudent, Active: true,
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	examID, err := s.CreateExamWithQuestions(
		model.UnitExam{Code: "ABCDEF", TeacherID: 1, TimeLimit: 5},
		[]model.UnitQuestion{
			{ExamCode: "ABCDEF", UnitID: unit1, Question: "2x = 6", Answer: "3", CreatedBy: 1},
			{ExamCode: "ABCDEF", UnitID: unit2, Question: "12를 소인수분해하면?", Answer: "2^2*3", CreatedBy: 1},
		},
	)
	if err != nil {
		t.Fatalf("create exam: %v", err)
	}

	if _, err := s.CreateAttempt(model.UnitExamAttempt{ExamID: examID, ExamCode: "ABCDEF", StudentID: studentID}); err != nil {
		t.Fatalf("create attempt: %v", err)
	}
	questions, err := s.ListQuestionsByCode("ABCDEF")
	if err != nil {
		t.Fatalf("list questions: %v", err)
	}
	err = s.InsertSolves([]model.UnitSolve{
		{QuestionID: questions[0].ID, StudentID: studentID, UserInput: "3", Correct: true},
	})
	if err != nil {
		t.Fatalf("insert solves: %v", err)
	}

	export, err := s.ExportExam("ABCDEF")
	if err != nil {
		t.Fatalf("export exam: %v", err)
	}
	if export.Code != "ABCDEF" || export.TimeLimit != 5 {
		t.Errorf("export header %+v", export)
	}
	if len(export.Questions) != 2 {
		t.Fatalf("exported %d questions, want 2", len(export.Questions))
	}
	if export.Questions[0].UnitName != "일차방정식" {
		t.Errorf("unit name = %q, want resolved name", export.Questions[0].UnitName)
	}
	if len(export.Questions[0].Solves) != 1 {
		t.Fatalf("exported %d solves for first question, want 1", len(export.Questions[0].Solves))
	}
	if export.Questions[0].Solves[0].DisplayName != "김학생" {
		t.Errorf("solve display name = %q", export.Questions[0].Solves[0].DisplayName)
	}
	if len(export.Attempts) != 1 || export.Attempts[0].StudentID != studentID {
		t.Errorf("exported attempts %+v", export.Attempts)
	}
}

func TestExportExamMissing(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.ExportExam("ZZZZZZ"); err == nil {
		t.Error("export of unknown code succeeded, want error")
	}
}
