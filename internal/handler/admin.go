package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/todo-service/internal/cache"
	"github.com/iliyamo/todo-service/internal/queue"
	"github.com/iliyamo/todo-service/internal/repository"
)

// AdminHandler serves the admin surface: listing and deleting any todo
// regardless of owner. The role gate lives in the router (RequireRole),
// so these handlers assume an admin caller.
type AdminHandler struct {
	Todos   *repository.TodoRepo
	Lists   *cache.TodoListCache
	Publish func(ctx context.Context, ev queue.TodoActivityEvent) error
}

func NewAdminHandler(todos *repository.TodoRepo, lists *cache.TodoListCache) *AdminHandler {
	if todos == nil {
		panic("nil repository passed to NewAdminHandler")
	}
	return &AdminHandler{Todos: todos, Lists: lists, Publish: queue.PublishTodoActivity}
}

// ListAll returns every todo in the system.
func (h *AdminHandler) ListAll(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	todos, err := h.Todos.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, toTodoResps(todos))
}

// DeleteAny removes a todo without an ownership filter. A missing id is
// still a plain 404. The owner's cached list is invalidated so the owner
// does not keep seeing a row an admin already removed.
func (h *AdminHandler) DeleteAny(c echo.Context) error {
	actorID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ownerID, err := h.Todos.DeleteByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTodoNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "todo not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete todo failed"})
	}

	h.Lists.Invalidate(ctx, ownerID)
	if h.Publish != nil {
		_ = h.Publish(ctx, queue.TodoActivityEvent{
			Action:  queue.ActionDeleted,
			TodoID:  id,
			OwnerID: ownerID,
			ActorID: actorID,
			At:      time.Now().UTC().Format(time.RFC3339),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "todo deleted"})
}
