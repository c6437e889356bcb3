package store

import (
	"database/sql"
	"time"

	"github.com/dangwonlab/dangwon/internal/model"
)

// CreateAttempt inserts an attempt row. The UNIQUE (student_id, exam_id)
// constraint makes the insert conditional: a second attempt for the same
// student and exam returns ErrAlreadyAttempted without writing anything,
// even under concurrent double-submission.
func (s *Store) CreateAttempt(a model.UnitExamAttempt) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO unit_exam_attempts (exam_id, exam_code, student_id, created_at) VALUES (?, ?, ?, ?)`,
		a.ExamID, a.ExamCode, a.StudentID, time.Now(),
	)
	if isUniqueViolation(err) {
		return 0, ErrAlreadyAttempted
	}
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// HasAttempt reports whether the student has an attempt for the exam.
func (s *Store) HasAttempt(studentID, examID int64) (bool, error) {
	var one int
	err := s.db.QueryRow(
		`SELECT 1 FROM unit_exam_attempts WHERE student_id = ? AND exam_id = ?`,
		studentID, examID,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ListAttemptsByExam returns all attempts for an exam ordered by creation.
func (s *Store) ListAttemptsByExam(examID int64) ([]model.UnitExamAttempt, error) {
	rows, err := s.db.Query(
		`SELECT id, exam_id, exam_code, student_id, created_at
		 FROM unit_exam_attempts WHERE exam_id = ? ORDER BY id`, examID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var attempts []model.UnitExamAttempt
	for rows.Next() {
		var a model.UnitExamAttempt
		if err := rows.Scan(&a.ID, &a.ExamID, &a.ExamCode, &a.StudentID, &a.CreatedAt); err != nil {
			return nil, err
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}
