package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/todo-service/internal/queue"
	"github.com/iliyamo/todo-service/internal/repository"
)

const (
	aliceID uint64 = 10
	bobID   uint64 = 11
)

// newTodoHandler builds a TodoHandler over a sqlmock DB, no cache and a
// publisher that records events instead of dialing a broker.
func newTodoHandler(t *testing.T) (*TodoHandler, sqlmock.Sqlmock, *[]queue.TodoActivityEvent) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	var events []queue.TodoActivityEvent
	h := NewTodoHandler(repository.NewTodoRepo(db), nil)
	h.Publish = func(_ context.Context, ev queue.TodoActivityEvent) error {
		events = append(events, ev)
		return nil
	}
	return h, mock, &events
}

// asUser builds an echo context carrying the identity JWTAuth would inject.
func asUser(req *http.Request, userID uint64) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", userID)
	c.Set("username", "tester")
	c.Set("role", "user")
	return c, rec
}

func todoRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "title", "description", "priority", "completed", "owner_id", "created_at", "updated_at"})
}

func TestTodoCreateAndListScenario(t *testing.T) {
	h, mock, events := newTodoHandler(t)
	now := time.Now().UTC()

	// alice creates {title: "Buy milk", priority: 3, completed: false}
	mock.ExpectExec("INSERT INTO todos").
		WithArgs("Buy milk", "", 3, false, aliceID).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery("SELECT created_at, updated_at FROM todos").
		WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	c, rec := asUser(jsonRequest(http.MethodPost, "/todos/todo/",
		`{"title":"Buy milk","priority":3,"completed":false}`), aliceID)
	if err := h.Create(c); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	// alice's list contains exactly that task
	mock.ExpectQuery("SELECT .+ FROM todos WHERE owner_id = .+ ORDER BY id").
		WithArgs(aliceID).
		WillReturnRows(todoRows().AddRow(1, "Buy milk", "", 3, false, aliceID, now, now))

	c, rec = asUser(httptest.NewRequest(http.MethodGet, "/todos/", nil), aliceID)
	if err := h.List(c); err != nil {
		t.Fatalf("List: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d, want 200", rec.Code)
	}
	var list []todoResp
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(list) != 1 || list[0].Title != "Buy milk" || list[0].Priority != 3 || list[0].OwnerID != aliceID {
		t.Errorf("list = %+v", list)
	}

	// bob requests alice's todo id and gets a plain 404
	mock.ExpectQuery("SELECT .+ FROM todos WHERE id = .+ AND owner_id = .+").
		WithArgs(uint64(1), bobID).
		WillReturnRows(todoRows())

	c, rec = asUser(httptest.NewRequest(http.MethodGet, "/todos/todos/1", nil), bobID)
	c.SetParamNames("id")
	c.SetParamValues("1")
	if err := h.Get(c); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("foreign get status = %d, want 404", rec.Code)
	}

	if len(*events) != 1 || (*events)[0].Action != queue.ActionCreated || (*events)[0].OwnerID != aliceID {
		t.Errorf("events = %+v, want one todo.created for alice", *events)
	}
}

func TestTodoCreateRejectsBadPriority(t *testing.T) {
	h, _, _ := newTodoHandler(t)
	for _, body := range []string{
		`{"title":"x","priority":0}`,
		`{"title":"x","priority":6}`,
		`{"title":"x","priority":-3}`,
	} {
		c, rec := asUser(jsonRequest(http.MethodPost, "/todos/todo/", body), aliceID)
		if err := h.Create(c); err != nil {
			t.Fatalf("Create: %v", err)
		}
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %s: status = %d, want 400", body, rec.Code)
		}
	}
}

func TestTodoUpdatePartialOnlyCompleted(t *testing.T) {
	h, mock, events := newTodoHandler(t)

	// Only the supplied field appears in the SET clause; title,
	// description and priority stay untouched.
	mock.ExpectExec(regexp.QuoteMeta("UPDATE todos SET completed = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND owner_id = ?")).
		WithArgs(true, uint64(1), aliceID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	c, rec := asUser(jsonRequest(http.MethodPut, "/todos/todo/1", `{"completed":true}`), aliceID)
	c.SetParamNames("id")
	c.SetParamValues("1")
	if err := h.Update(c); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204: %s", rec.Code, rec.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
	if len(*events) != 1 || (*events)[0].Action != queue.ActionUpdated {
		t.Errorf("events = %+v, want one todo.updated", *events)
	}
}

func TestTodoUpdateForeignRowIs404(t *testing.T) {
	h, mock, _ := newTodoHandler(t)

	mock.ExpectExec("UPDATE todos SET").
		WillReturnResult(sqlmock.NewResult(0, 0))

	c, rec := asUser(jsonRequest(http.MethodPut, "/todos/todo/1", `{"completed":true}`), bobID)
	c.SetParamNames("id")
	c.SetParamValues("1")
	if err := h.Update(c); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestTodoUpdateRejectsBadPriority(t *testing.T) {
	h, _, _ := newTodoHandler(t)
	c, rec := asUser(jsonRequest(http.MethodPut, "/todos/todo/1", `{"priority":9}`), aliceID)
	c.SetParamNames("id")
	c.SetParamValues("1")
	if err := h.Update(c); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestTodoDelete(t *testing.T) {
	h, mock, events := newTodoHandler(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM todos WHERE id = ? AND owner_id = ?")).
		WithArgs(uint64(1), aliceID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	c, rec := asUser(httptest.NewRequest(http.MethodDelete, "/todos/todo/1", nil), aliceID)
	c.SetParamNames("id")
	c.SetParamValues("1")
	if err := h.Delete(c); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if len(*events) != 1 || (*events)[0].Action != queue.ActionDeleted {
		t.Errorf("events = %+v, want one todo.deleted", *events)
	}
}

func TestTodoDeleteForeignRowIs404(t *testing.T) {
	h, mock, _ := newTodoHandler(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM todos WHERE id = ? AND owner_id = ?")).
		WithArgs(uint64(1), bobID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	c, rec := asUser(httptest.NewRequest(http.MethodDelete, "/todos/todo/1", nil), bobID)
	c.SetParamNames("id")
	c.SetParamValues("1")
	if err := h.Delete(c); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
