// Package repository contains data access logic separated from HTTP handlers.
// This file defines the todo repository. All single-row reads and mutations
// for non-admin callers carry a `id = ? AND owner_id = ?` condition so that
// the ownership check and the operation itself happen in one atomic
// statement; there is no separate check-then-act step for a concurrent
// delete to race against.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/todo-service/internal/model"
)

// TodoPatch carries an explicit partial update. Nil fields were not
// supplied by the caller and must be left untouched.
type TodoPatch struct {
	Title       *string
	Description *string
	Priority    *int
	Completed   *bool
}

// TodoRepo encapsulates all database queries related to todos. It
// depends on a sql.DB connection which is configured at startup.
type TodoRepo struct{ DB *sql.DB }

func NewTodoRepo(db *sql.DB) *TodoRepo { return &TodoRepo{DB: db} }

// Create inserts a new todo. On success the ID, CreatedAt and UpdatedAt
// fields are populated so callers receive a fully populated record.
func (r *TodoRepo) Create(ctx context.Context, t *model.Todo) error {
	const qInsert = "INSERT INTO todos (title, description, priority, completed, owner_id) VALUES (?, ?, ?, ?, ?)"
	res, err := r.DB.ExecContext(ctx, qInsert, t.Title, t.Description, t.Priority, t.Completed, t.OwnerID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)

	// Follow-up SELECT to populate default timestamp fields.
	const qSelect = "SELECT created_at, updated_at FROM todos WHERE id = ?"
	return r.DB.QueryRowContext(ctx, qSelect, t.ID).Scan(&t.CreatedAt, &t.UpdatedAt)
}

// ListByOwner returns all todos for a specific owner ordered by id.
func (r *TodoRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]*model.Todo, error) {
	const q = `SELECT id, title, description, priority, completed, owner_id, created_at, updated_at
	           FROM todos WHERE owner_id = ? ORDER BY id`
	rows, err := r.DB.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTodos(rows)
}

// ListAll returns every todo regardless of owner. Role enforcement
// happens upstream; the repository itself is deliberately unscoped here.
func (r *TodoRepo) ListAll(ctx context.Context) ([]*model.Todo, error) {
	const q = `SELECT id, title, description, priority, completed, owner_id, created_at, updated_at
	           FROM todos ORDER BY id`
	rows, err := r.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTodos(rows)
}

// GetByIDAndOwner fetches a todo by id but only if it belongs to the
// specified owner. A missing row and a row owned by someone else both
// return ErrTodoNotFound.
func (r *TodoRepo) GetByIDAndOwner(ctx context.Context, id, ownerID uint64) (*model.Todo, error) {
	const q = "SELECT id, title, description, priority, completed, owner_id, created_at, updated_at FROM todos WHERE id = ? AND owner_id = ?"
	var t model.Todo
	if err := r.DB.QueryRowContext(ctx, q, id, ownerID).Scan(
		&t.ID, &t.Title, &t.Description, &t.Priority, &t.Completed, &t.OwnerID, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTodoNotFound
		}
		return nil, err
	}
	return &t, nil
}

// UpdatePartial applies only the fields present in the patch with a single
// conditioned UPDATE. updated_at is always touched, so RowsAffected reports
// matched rows even when the supplied values equal the stored ones.
// Zero affected rows means not found or not owned -> ErrTodoNotFound.
func (r *TodoRepo) UpdatePartial(ctx context.Context, id, ownerID uint64, p TodoPatch) error {
	set := make([]string, 0, 5)
	args := make([]interface{}, 0, 6)
	if p.Title != nil {
		set = append(set, "title = ?")
		args = append(args, *p.Title)
	}
	if p.Description != nil {
		set = append(set, "description = ?")
		args = append(args, *p.Description)
	}
	if p.Priority != nil {
		set = append(set, "priority = ?")
		args = append(args, *p.Priority)
	}
	if p.Completed != nil {
		set = append(set, "completed = ?")
		args = append(args, *p.Completed)
	}
	set = append(set, "updated_at = CURRENT_TIMESTAMP")
	args = append(args, id, ownerID)

	q := "UPDATE todos SET " + strings.Join(set, ", ") + " WHERE id = ? AND owner_id = ?"
	res, err := r.DB.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrTodoNotFound
	}
	return nil
}

// DeleteByIDAndOwner removes a todo provided it belongs to the specified
// owner. Missing and foreign rows are both ErrTodoNotFound.
func (r *TodoRepo) DeleteByIDAndOwner(ctx context.Context, id, ownerID uint64) error {
	const q = "DELETE FROM todos WHERE id = ? AND owner_id = ?"
	res, err := r.DB.ExecContext(ctx, q, id, ownerID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrTodoNotFound
	}
	return nil
}

// DeleteByID removes a todo regardless of owner. It is reserved for the
// admin surface, which gates the call with a role check. The previous
// owner id is returned so the caller can invalidate that user's cache.
// The read and the delete run inside one transaction so a concurrent
// delete cannot slip between them.
func (r *TodoRepo) DeleteByID(ctx context.Context, id uint64) (uint64, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			_ = tx.Commit()
		}
	}()
	var ownerID uint64
	if err = tx.QueryRowContext(ctx, "SELECT owner_id FROM todos WHERE id = ?", id).Scan(&ownerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrTodoNotFound
		}
		return 0, err
	}
	var res sql.Result
	if res, err = tx.ExecContext(ctx, "DELETE FROM todos WHERE id = ?", id); err != nil {
		return 0, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		err = ErrTodoNotFound
		return 0, err
	}
	return ownerID, nil
}

func scanTodos(rows *sql.Rows) ([]*model.Todo, error) {
	var out []*model.Todo
	for rows.Next() {
		t := new(model.Todo)
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Priority, &t.Completed, &t.OwnerID, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
