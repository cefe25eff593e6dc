package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health reports service liveness. Used by load balancers and monitoring.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
