package store

import (
	"testing"

	"github.com/dangwonlab/dangwon/internal/model"
)

func createTestUser(t *testing.T, s *Store, username string, role model.UserRole) int64 {
	t.Helper()
	id, err := s.CreateUser(model.User{
		Username:     username,
		DisplayName:  "Test " + username,
		PasswordHash: "hash",
		Role:         role,
		Active:       true,
	})
	if err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return id
}

func TestUserLifecycle(t *testing.T) {
	s := newTestStore(t)

	id := createTestUser(t, s, "teacher1", model.UserRoleTeacher)

	u, err := s.GetUserByUsername("teacher1")
	if err != nil {
		t.Fatalf("get by username: %v", err)
	}
	if u == nil || u.ID != id || u.Role != model.UserRoleTeacher || !u.Active {
		t.Errorf("got user %+v", u)
	}

	u, err = s.GetUserByID(id)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if u == nil || u.Username != "teacher1" {
		t.Errorf("got user %+v", u)
	}

	missing, err := s.GetUserByUsername("nobody")
	if err != nil {
		t.Fatalf("get missing user: %v", err)
	}
	if missing != nil {
		t.Errorf("got %+v for missing user, want nil", missing)
	}

	if err := s.ToggleUserActive(id); err != nil {
		t.Fatalf("toggle active: %v", err)
	}
	u, err = s.GetUserByID(id)
	if err != nil {
		t.Fatalf("get toggled user: %v", err)
	}
	if u.Active {
		t.Error("user still active after toggle")
	}

	count, err := s.UserCount()
	if err != nil {
		t.Fatalf("user count: %v", err)
	}
	if count != 1 {
		t.Errorf("user count = %d, want 1", count)
	}
}

func TestUsernameUnique(t *testing.T) {
	s := newTestStore(t)
	createTestUser(t, s, "dup", model.UserRoleStudent)

	_, err := s.CreateUser(model.User{Username: "dup", DisplayName: "d", PasswordHash: "h", Role: model.UserRoleStudent})
	if err == nil {
		t.Error("duplicate username accepted")
	}
}

func TestAuthSessions(t *testing.T) {
	s := newTestStore(t)
	id := createTestUser(t, s, "student1", model.UserRoleStudent)

	token, err := s.CreateAuthSession(id)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if token == "" {
		t.Fatal("empty session token")
	}

	sess, err := s.GetAuthSession(token)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if sess == nil || sess.UserID != id {
		t.Errorf("got session %+v", sess)
	}

	if err := s.DeleteAuthSession(token); err != nil {
		t.Fatalf("delete session: %v", err)
	}
	sess, err = s.GetAuthSession(token)
	if err != nil {
		t.Fatalf("get deleted session: %v", err)
	}
	if sess != nil {
		t.Errorf("got %+v after delete, want nil", sess)
	}

	if _, err := s.GetAuthSession("no-such-token"); err != nil {
		t.Errorf("unknown token lookup: %v", err)
	}
}
