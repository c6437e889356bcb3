package model

import (
	"context"
	"time"
)

// UserRole represents a user's access level.
type UserRole string

const (
	// UserRoleStudent is a student user role.
	UserRoleStudent UserRole = "student"
	// UserRoleTeacher is a teacher user role.
	UserRoleTeacher UserRole = "teacher"
	// UserRoleAdmin is an admin user role.
	UserRoleAdmin UserRole = "admin"
)

// User represents a system user.
type User struct {
	ID           int64
	Username     string
	DisplayName  string
	PasswordHash string
	Role         UserRole
	Active       bool
	CreatedAt    time.Time
}

// AuthSession represents an authentication session.
type AuthSession struct {
	ID        string
	UserID    int64
	CreatedAt time.Time
	ExpiresAt time.Time
}

type userCtxKey struct{}

// ContextWithUser stores a user in the request context.
func ContextWithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, userCtxKey{}, u)
}

// UserFromContext retrieves the authenticated user from context, or nil.
func UserFromContext(ctx context.Context) *User {
	u, _ := ctx.Value(userCtxKey{}).(*User)
	return u
}

// Unit is a math topic/category. Reference data created by admins.
type Unit struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	VideoURL string `json:"videoUrl"`
}

// UnitRef identifies a unit inside a generation request. The client sends
// both the id and the display name; the name is embedded in the LLM prompt.
type UnitRef struct {
	ID   int64  `json:"unitId"`
	Name string `json:"unitName"`
}

// UnitExam is one generated exam. The code is the natural key through which
// students address the exam; exam rows are never mutated after creation.
type UnitExam struct {
	ID        int64     `json:"id"`
	Code      string    `json:"code"`
	TeacherID int64     `json:"teacherId"`
	TimeLimit int       `json:"timeLimit"` // minutes, 0 means no timer
	CreatedAt time.Time `json:"createdAt"`
}

// UnitQuestion is one generated question belonging to an exam code.
// The answer must never reach the student-facing question-fetch path.
type UnitQuestion struct {
	ID        int64     `json:"id"`
	ExamCode  string    `json:"examCode"`
	UnitID    int64     `json:"unitId"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Help      string    `json:"help"`
	CreatedBy int64     `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
}

// UnitExamAttempt records that a student has started an exam.
// At most one attempt exists per (student, exam), enforced by the store.
type UnitExamAttempt struct {
	ID        int64     `json:"id"`
	ExamID    int64     `json:"examId"`
	ExamCode  string    `json:"examCode"`
	StudentID int64     `json:"studentId"`
	CreatedAt time.Time `json:"createdAt"`
}

// UnitSolve is one graded answer. Rows are created in bulk on submission and
// updated only by the error-notebook recheck flow.
type UnitSolve struct {
	ID         int64     `json:"id"`
	QuestionID int64     `json:"questionId"`
	StudentID  int64     `json:"studentId"`
	UserInput  string    `json:"userInput"`
	Correct    bool      `json:"correct"`
	CreatedAt  time.Time `json:"createdAt"`
}

// GeneratedQuestion is a candidate question produced by the LLM before it is
// validated, selected, and persisted.
type GeneratedQuestion struct {
	UnitID   int64  `json:"unitId"`
	UnitName string `json:"unitName"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Help     string `json:"help"`
}
