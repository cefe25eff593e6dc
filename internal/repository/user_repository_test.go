package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/iliyamo/todo-service/internal/utils"
)

const testBcryptCost = 4

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func userColumns() []string {
	return []string{"id", "username", "email", "first_name", "last_name", "password_hash", "is_active", "role", "created_at", "updated_at"}
}

func TestUserRepoCreate(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepo(db)

	mock.ExpectExec("INSERT INTO users").
		WithArgs("alice", "alice@example.com", "Alice", "Smith", sqlmock.AnyArg(), "user").
		WillReturnResult(sqlmock.NewResult(7, 1))

	id, err := repo.Create(context.Background(), " Alice ", "alice@example.com", "Alice", "Smith", "pw123456", "user", testBcryptCost)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if id != 7 {
		t.Errorf("id = %d, want 7", id)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestUserRepoCreateDuplicateUsername(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepo(db)

	mock.ExpectExec("INSERT INTO users").
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry 'alice' for key 'uq_users_username'"))

	_, err := repo.Create(context.Background(), "alice", "", "", "", "pw123456", "user", testBcryptCost)
	if !errors.Is(err, ErrUsernameExists) {
		t.Errorf("err = %v, want ErrUsernameExists", err)
	}
}

func TestUserRepoGetByUsername(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepo(db)

	hash, err := utils.HashPassword("pw123456", testBcryptCost)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	now := time.Now().UTC()
	mock.ExpectQuery("SELECT .+ FROM users WHERE username=").
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows(userColumns()).
			AddRow(7, "alice", "alice@example.com", "Alice", "Smith", hash, true, "user", now, now))

	u, err := repo.GetByUsername(context.Background(), " ALICE ")
	if err != nil {
		t.Fatalf("GetByUsername: %v", err)
	}
	if u.ID != 7 || u.Username != "alice" || u.Role != "user" || !u.IsActive {
		t.Errorf("unexpected user: %+v", u)
	}
	if !utils.VerifyPassword(u.PasswordHash, "pw123456") {
		t.Error("stored hash does not verify")
	}
}

func TestUserRepoGetByUsernameNotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepo(db)

	mock.ExpectQuery("SELECT .+ FROM users WHERE username=").
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	if _, err := repo.GetByUsername(context.Background(), "ghost"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("err = %v, want sql.ErrNoRows", err)
	}
}

func TestUserRepoUpdatePasswordHash(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepo(db)

	mock.ExpectExec("UPDATE users SET password_hash=").
		WithArgs("new-hash", uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdatePasswordHash(context.Background(), 7, "new-hash"); err != nil {
		t.Fatalf("UpdatePasswordHash: %v", err)
	}

	mock.ExpectExec("UPDATE users SET password_hash=").
		WithArgs("new-hash", uint64(8)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.UpdatePasswordHash(context.Background(), 8, "new-hash"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("missing user: err = %v, want sql.ErrNoRows", err)
	}
}
