// Package queue defines message payloads exchanged over the message broker.
package queue

// Actions carried by TodoActivityEvent.
const (
	ActionCreated = "todo.created"
	ActionUpdated = "todo.updated"
	ActionDeleted = "todo.deleted"
)

// TodoActivityEvent is published after a todo is created, updated or
// deleted. It contains enough information for downstream consumers to
// log or trigger analytics without querying the primary database.
// ActorID differs from OwnerID when an admin deletes another user's todo.
type TodoActivityEvent struct {
	Action  string `json:"action"`
	TodoID  uint64 `json:"todo_id"`
	OwnerID uint64 `json:"owner_id"`
	ActorID uint64 `json:"actor_id"`
	Title   string `json:"title,omitempty"`
	At      string `json:"at"`
}
