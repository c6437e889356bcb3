package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dangwonlab/dangwon/internal/model"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Sentinel errors for conditional inserts. Both are backed by UNIQUE
// constraints so the check-then-insert race window stays closed.
var (
	ErrCodeExists       = errors.New("exam code already exists")
	ErrAlreadyAttempted = errors.New("attempt already recorded")
)

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS units (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		video_url TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS unit_exams (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		code TEXT NOT NULL UNIQUE,
		teacher_id INTEGER NOT NULL,
		time_limit INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS unit_questions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		exam_code TEXT NOT NULL,
		unit_id INTEGER NOT NULL,
		question TEXT NOT NULL,
		answer TEXT NOT NULL,
		help TEXT NOT NULL DEFAULT '',
		created_by INTEGER NOT NULL,
		created_at DATETIME NOT NULL,
		FOREIGN KEY (exam_code) REFERENCES unit_exams(code)
	);

	CREATE TABLE IF NOT EXISTS unit_exam_attempts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		exam_id INTEGER NOT NULL,
		exam_code TEXT NOT NULL,
		student_id INTEGER NOT NULL,
		created_at DATETIME NOT NULL,
		UNIQUE (student_id, exam_id),
		FOREIGN KEY (exam_id) REFERENCES unit_exams(id)
	);

	CREATE TABLE IF NOT EXISTS unit_solves (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		question_id INTEGER NOT NULL,
		student_id INTEGER NOT NULL,
		user_input TEXT NOT NULL,
		correct INTEGER NOT NULL,
		created_at DATETIME NOT NULL,
		FOREIGN KEY (question_id) REFERENCES unit_questions(id)
	);

	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		display_name TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL,
		active BOOLEAN NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS auth_sessions (
		id TEXT PRIMARY KEY,
		user_id INTEGER NOT NULL,
		created_at DATETIME NOT NULL,
		expires_at DATETIME NOT NULL,
		FOREIGN KEY (user_id) REFERENCES users(id)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// isUniqueViolation reports whether err is a sqlite UNIQUE constraint error.
func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		code := se.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return false
}

// CreateUnit stores a unit.
func (s *Store) CreateUnit(u model.Unit) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO units (name, video_url) VALUES (?, ?)`,
		u.Name, u.VideoURL,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListUnits returns all units ordered by id.
func (s *Store) ListUnits() ([]model.Unit, error) {
	rows, err := s.db.Query(`SELECT id, name, video_url FROM units ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var units []model.Unit
	for rows.Next() {
		var u model.Unit
		if err := rows.Scan(&u.ID, &u.Name, &u.VideoURL); err != nil {
			return nil, err
		}
		units = append(units, u)
	}
	return units, rows.Err()
}

// GetUnit returns a unit by ID, or nil if it does not exist.
func (s *Store) GetUnit(id int64) (*model.Unit, error) {
	var u model.Unit
	err := s.db.QueryRow(`SELECT id, name, video_url FROM units WHERE id = ?`, id).
		Scan(&u.ID, &u.Name, &u.VideoURL)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UnitCount returns the number of units.
func (s *Store) UnitCount() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM units`).Scan(&count)
	return count, err
}

// CreateExamWithQuestions persists an exam and its full question set in one
// transaction. It returns ErrCodeExists when the code is already taken, so
// the caller can mint a fresh one. Nothing is written on failure.
func (s *Store) CreateExamWithQuestions(exam model.UnitExam, questions []model.UnitQuestion) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	now := time.Now()
	res, err := tx.Exec(
		`INSERT INTO unit_exams (code, teacher_id, time_limit, created_at) VALUES (?, ?, ?, ?)`,
		exam.Code, exam.TeacherID, exam.TimeLimit, now,
	)
	if isUniqueViolation(err) {
		return 0, ErrCodeExists
	}
	if err != nil {
		return 0, err
	}
	examID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for _, q := range questions {
		_, err := tx.Exec(
			`INSERT INTO unit_questions (exam_code, unit_id, question, answer, help, created_by, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			q.ExamCode, q.UnitID, q.Question, q.Answer, q.Help, q.CreatedBy, now,
		)
		if err != nil {
			return 0, err
		}
	}

	return examID, tx.Commit()
}

// GetExamByCode returns the exam for a code, or nil if unknown.
func (s *Store) GetExamByCode(code string) (*model.UnitExam, error) {
	var e model.UnitExam
	err := s.db.QueryRow(
		`SELECT id, code, teacher_id, time_limit, created_at FROM unit_exams WHERE code = ?`, code,
	).Scan(&e.ID, &e.Code, &e.TeacherID, &e.TimeLimit, &e.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// ListQuestionsByCode returns all questions for an exam code ordered by id.
func (s *Store) ListQuestionsByCode(code string) ([]model.UnitQuestion, error) {
	rows, err := s.db.Query(
		`SELECT id, exam_code, unit_id, question, answer, help, created_by, created_at
		 FROM unit_questions WHERE exam_code = ? ORDER BY id`, code,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var questions []model.UnitQuestion
	for rows.Next() {
		var q model.UnitQuestion
		if err := rows.Scan(&q.ID, &q.ExamCode, &q.UnitID, &q.Question, &q.Answer, &q.Help, &q.CreatedBy, &q.CreatedAt); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// CountQuestionsByCode returns the number of questions for an exam code.
func (s *Store) CountQuestionsByCode(code string) (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM unit_questions WHERE exam_code = ?`, code).Scan(&count)
	return count, err
}

// GetQuestion returns a question by ID, or nil if it does not exist.
func (s *Store) GetQuestion(id int64) (*model.UnitQuestion, error) {
	var q model.UnitQuestion
	err := s.db.QueryRow(
		`SELECT id, exam_code, unit_id, question, answer, help, created_by, created_at
		 FROM unit_questions WHERE id = ?`, id,
	).Scan(&q.ID, &q.ExamCode, &q.UnitID, &q.Question, &q.Answer, &q.Help, &q.CreatedBy, &q.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// ExamCount returns the number of exams.
func (s *Store) ExamCount() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM unit_exams`).Scan(&count)
	return count, err
}
