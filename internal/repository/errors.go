// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios without
// inspecting error strings.
package repository

import "errors"

// ErrUsernameExists is returned when registration collides with an
// existing username. Handlers translate this into HTTP 409.
var ErrUsernameExists = errors.New("username already exists")

// ErrTodoNotFound is returned when a todo does not exist OR belongs to
// a different owner. The two cases are deliberately indistinguishable
// so a caller can never probe for another user's records. Handlers
// translate this into HTTP 404.
var ErrTodoNotFound = errors.New("todo not found")
