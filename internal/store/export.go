package store

import (
	"fmt"

	"github.com/dangwonlab/dangwon/internal/model"
)

// ExportExam builds an export-ready view of one exam: its questions with all
// graded answers, plus the attempt roster.
func (s *Store) ExportExam(code string) (*model.ExamExport, error) {
	exam, err := s.GetExamByCode(code)
	if err != nil {
		return nil, fmt.Errorf("get exam: %w", err)
	}
	if exam == nil {
		return nil, fmt.Errorf("no exam with code %s", code)
	}

	questions, err := s.ListQuestionsByCode(code)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}

	unitNames := make(map[int64]string)
	units, err := s.ListUnits()
	if err != nil {
		return nil, fmt.Errorf("list units: %w", err)
	}
	for _, u := range units {
		unitNames[u.ID] = u.Name
	}

	displayNames := make(map[int64]string)
	displayName := func(userID int64) (string, error) {
		if name, ok := displayNames[userID]; ok {
			return name, nil
		}
		user, err := s.GetUserByID(userID)
		if err != nil {
			return "", err
		}
		name := ""
		if user != nil {
			name = user.DisplayName
		}
		displayNames[userID] = name
		return name, nil
	}

	export := &model.ExamExport{
		Code:      exam.Code,
		TimeLimit: exam.TimeLimit,
		CreatedAt: exam.CreatedAt,
	}

	for _, q := range questions {
		solves, err := s.ListSolvesByQuestion(q.ID)
		if err != nil {
			return nil, fmt.Errorf("list solves for question %d: %w", q.ID, err)
		}
		qe := model.QuestionExport{
			ID:       q.ID,
			UnitID:   q.UnitID,
			UnitName: unitNames[q.UnitID],
			Question: q.Question,
			Answer:   q.Answer,
			Help:     q.Help,
		}
		for _, sv := range solves {
			name, err := displayName(sv.StudentID)
			if err != nil {
				return nil, fmt.Errorf("get student %d: %w", sv.StudentID, err)
			}
			qe.Solves = append(qe.Solves, model.SolveExport{
				StudentID:   sv.StudentID,
				DisplayName: name,
				UserInput:   sv.UserInput,
				Correct:     sv.Correct,
				CreatedAt:   sv.CreatedAt,
			})
		}
		export.Questions = append(export.Questions, qe)
	}

	attempts, err := s.ListAttemptsByExam(exam.ID)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	for _, a := range attempts {
		name, err := displayName(a.StudentID)
		if err != nil {
			return nil, fmt.Errorf("get student %d: %w", a.StudentID, err)
		}
		export.Attempts = append(export.Attempts, model.AttemptExport{
			StudentID:   a.StudentID,
			DisplayName: name,
			CreatedAt:   a.CreatedAt,
		})
	}

	return export, nil
}
