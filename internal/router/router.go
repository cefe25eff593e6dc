package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/todo-service/internal/handler"
	"github.com/iliyamo/todo-service/internal/middleware"
	"github.com/iliyamo/todo-service/internal/model"
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance. Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the unauthenticated auth endpoints. Registration
// takes a JSON body; login is an OAuth2-style form post that returns
// {access_token, token_type}.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler) {
	g := e.Group("/auth")
	g.POST("/", a.Register)
	g.POST("/token", a.Login)
}

// RegisterTodos registers the owner-scoped todo endpoints. Every route in
// the group runs the JWT middleware; the repository layer then scopes each
// query by the authenticated owner id.
func RegisterTodos(e *echo.Echo, t *handler.TodoHandler, jwtSecret string) {
	g := e.Group("/todos")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.GET("/", t.List)
	g.GET("/todos/:id", t.Get)
	g.POST("/todo/", t.Create)
	g.PUT("/todo/:id", t.Update)
	g.DELETE("/todo/:id", t.Delete)
}

// RegisterAdmin registers the admin endpoints. They require a valid token
// AND the admin role; non-admin callers get 403 from RequireRole.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, jwtSecret string) {
	g := e.Group("/admin")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleAdmin))
	g.GET("/todo", a.ListAll)
	g.DELETE("/todo/:id", a.DeleteAny)
}

// RegisterUsers registers the current-user endpoints.
func RegisterUsers(e *echo.Echo, u *handler.UserHandler, jwtSecret string) {
	g := e.Group("/users")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.GET("/", u.Me)
	g.PUT("/password", u.ChangePassword)
}
