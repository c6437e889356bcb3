package store

import (
	"database/sql"
	"time"

	"github.com/dangwonlab/dangwon/internal/model"
)

// InsertSolves persists a batch of graded answers in one transaction.
// All rows land or none do.
func (s *Store) InsertSolves(solves []model.UnitSolve) error {
	if len(solves) == 0 {
		return nil
	}
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now()
	for _, sv := range solves {
		_, err := tx.Exec(
			`INSERT INTO unit_solves (question_id, student_id, user_input, correct, created_at)
			 VALUES (?, ?, ?, ?, ?)`,
			sv.QuestionID, sv.StudentID, sv.UserInput, sv.Correct, now,
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// GetSolve returns a solve by ID, or nil if it does not exist.
func (s *Store) GetSolve(id int64) (*model.UnitSolve, error) {
	var sv model.UnitSolve
	err := s.db.QueryRow(
		`SELECT id, question_id, student_id, user_input, correct, created_at
		 FROM unit_solves WHERE id = ?`, id,
	).Scan(&sv.ID, &sv.QuestionID, &sv.StudentID, &sv.UserInput, &sv.Correct, &sv.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sv, nil
}

// UpdateSolve replaces a solve's input and correctness flag.
func (s *Store) UpdateSolve(id int64, userInput string, correct bool) error {
	_, err := s.db.Exec(
		`UPDATE unit_solves SET user_input = ?, correct = ? WHERE id = ?`,
		userInput, correct, id,
	)
	return err
}

// ListSolvesByQuestion returns all solves for a question ordered by creation.
func (s *Store) ListSolvesByQuestion(questionID int64) ([]model.UnitSolve, error) {
	rows, err := s.db.Query(
		`SELECT id, question_id, student_id, user_input, correct, created_at
		 FROM unit_solves WHERE question_id = ? ORDER BY id`, questionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var solves []model.UnitSolve
	for rows.Next() {
		var sv model.UnitSolve
		if err := rows.Scan(&sv.ID, &sv.QuestionID, &sv.StudentID, &sv.UserInput, &sv.Correct, &sv.CreatedAt); err != nil {
			return nil, err
		}
		solves = append(solves, sv)
	}
	return solves, rows.Err()
}
