package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/todo-service/internal/cache"
	"github.com/iliyamo/todo-service/internal/model"
	"github.com/iliyamo/todo-service/internal/queue"
	"github.com/iliyamo/todo-service/internal/repository"
)

// TodoHandler serves the owner-scoped todo endpoints. The caller's id is
// taken from the verified token in the context; it is never accepted from
// the request body or query, so a user cannot act on another owner's rows.
type TodoHandler struct {
	Todos *repository.TodoRepo
	Lists *cache.TodoListCache
	// Publish emits an activity event after a successful mutation.
	// Failures are ignored: events are best-effort.
	Publish func(ctx context.Context, ev queue.TodoActivityEvent) error
}

func NewTodoHandler(todos *repository.TodoRepo, lists *cache.TodoListCache) *TodoHandler {
	if todos == nil {
		panic("nil repository passed to NewTodoHandler")
	}
	return &TodoHandler{Todos: todos, Lists: lists, Publish: queue.PublishTodoActivity}
}

// ----- DTOs -----

type createTodoReq struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    int    `json:"priority"`
	Completed   bool   `json:"completed"`
}

// updateTodoReq uses pointers so that absent fields can be told apart
// from zero values; only supplied fields are written.
type updateTodoReq struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Priority    *int    `json:"priority"`
	Completed   *bool   `json:"completed"`
}

type todoResp struct {
	ID          uint64 `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    int    `json:"priority"`
	Completed   bool   `json:"completed"`
	OwnerID     uint64 `json:"owner_id"`
}

func toTodoResp(t *model.Todo) todoResp {
	return todoResp{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Priority:    t.Priority,
		Completed:   t.Completed,
		OwnerID:     t.OwnerID,
	}
}

func toTodoResps(ts []*model.Todo) []todoResp {
	out := make([]todoResp, 0, len(ts))
	for _, t := range ts {
		out = append(out, toTodoResp(t))
	}
	return out
}

func validPriority(p int) bool {
	return p >= model.PriorityMin && p <= model.PriorityMax
}

func (h *TodoHandler) emit(ctx context.Context, action string, t todoRef, actorID uint64) {
	if h.Publish == nil {
		return
	}
	_ = h.Publish(ctx, queue.TodoActivityEvent{
		Action:  action,
		TodoID:  t.id,
		OwnerID: t.ownerID,
		ActorID: actorID,
		Title:   t.title,
		At:      time.Now().UTC().Format(time.RFC3339),
	})
}

// todoRef carries just enough of a todo to build an event.
type todoRef struct {
	id      uint64
	ownerID uint64
	title   string
}

// List returns all todos of the authenticated user. The serialized
// response body is cached per owner and reused until the next write.
func (h *TodoHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if body, ok := h.Lists.Get(ctx, uid); ok {
		return c.JSONBlob(http.StatusOK, body)
	}

	todos, err := h.Todos.ListByOwner(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	body, err := json.Marshal(toTodoResps(todos))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "encode failed"})
	}
	h.Lists.Set(ctx, uid, body)
	return c.JSONBlob(http.StatusOK, body)
}

// Get returns a single todo owned by the caller. A todo that does not
// exist and a todo owned by someone else are the same 404.
func (h *TodoHandler) Get(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t, err := h.Todos.GetByIDAndOwner(ctx, id, uid)
	if err != nil {
		if errors.Is(err, repository.ErrTodoNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "todo not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, toTodoResp(t))
}

// Create inserts a todo owned by the caller.
func (h *TodoHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createTodoReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if !validPriority(req.Priority) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "priority must be between 1 and 5"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t := &model.Todo{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Completed:   req.Completed,
		OwnerID:     uid,
	}
	if err := h.Todos.Create(ctx, t); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create todo failed"})
	}

	h.Lists.Invalidate(ctx, uid)
	h.emit(ctx, queue.ActionCreated, todoRef{id: t.ID, ownerID: uid, title: t.Title}, uid)
	return c.JSON(http.StatusCreated, toTodoResp(t))
}

// Update applies a partial update to a todo owned by the caller. Fields
// absent from the body are left untouched.
func (h *TodoHandler) Update(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req updateTodoReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Priority != nil && !validPriority(*req.Priority) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "priority must be between 1 and 5"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	patch := repository.TodoPatch{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Completed:   req.Completed,
	}
	if err := h.Todos.UpdatePartial(ctx, id, uid, patch); err != nil {
		if errors.Is(err, repository.ErrTodoNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "todo not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update todo failed"})
	}

	h.Lists.Invalidate(ctx, uid)
	h.emit(ctx, queue.ActionUpdated, todoRef{id: id, ownerID: uid}, uid)
	return c.NoContent(http.StatusNoContent)
}

// Delete removes a todo owned by the caller.
func (h *TodoHandler) Delete(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Todos.DeleteByIDAndOwner(ctx, id, uid); err != nil {
		if errors.Is(err, repository.ErrTodoNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "todo not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete todo failed"})
	}

	h.Lists.Invalidate(ctx, uid)
	h.emit(ctx, queue.ActionDeleted, todoRef{id: id, ownerID: uid}, uid)
	return c.JSON(http.StatusOK, echo.Map{"message": "todo deleted"})
}
