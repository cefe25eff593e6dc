package model

import "time"

// Priority bounds for a todo. Values outside this range are
// rejected at the boundary with a validation failure.
const (
	PriorityMin = 1
	PriorityMax = 5
)

// Todo represents a task record in the `todos` table. Every todo
// belongs to exactly one owner; owner_id is set at creation and
// never reassigned.
//
// Fields:
//  ID          – primary key identifier.
//  Title       – short task title.
//  Description – free-form task description.
//  Priority    – urgency between 1 and 5 inclusive.
//  Completed   – whether the task is done.
//  OwnerID     – user ID of the task owner (immutable).
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Todo struct {
	ID          uint64    // todos.id
	Title       string    // todos.title
	Description string    // todos.description
	Priority    int       // todos.priority
	Completed   bool      // todos.completed
	OwnerID     uint64    // todos.owner_id
	CreatedAt   time.Time // todos.created_at
	UpdatedAt   time.Time // todos.updated_at
}
