package report

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	checkoutsvc "github.com/BaoHo205/Smart-Library-Platform-sub001/service/checkout"
	reportsvc "github.com/BaoHo205/Smart-Library-Platform-sub001/service/report"
)

type Controller struct {
	Svc        reportsvc.Service
	Reconciler checkoutsvc.Reconciler
	Log        *slog.Logger
}

func isAdmin(c echo.Context) bool {
	role, _ := c.Get("role").(string)
	return role == "admin"
}

// GET /v1/reports/most-borrowed?limit=10  (admin)
// @Summary      Most borrowed books
// @Tags         reports
// @Produce      json
// @Param        limit  query  int  false  "Row limit (default 10)"
// @Success      200  {object}  map[string]any
// @Router       /v1/reports/most-borrowed [get]
func (h *Controller) MostBorrowed(c echo.Context) error {
	if !isAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	rows, err := h.Svc.MostBorrowed(c.Request().Context(), limit)
	if err != nil {
		h.Log.Error("most borrowed report", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/reports/overdue  (admin)
// @Summary      Count of open overdue loans
// @Tags         reports
// @Produce      json
// @Success      200  {object}  map[string]any
// @Router       /v1/reports/overdue [get]
func (h *Controller) Overdue(c echo.Context) error {
	if !isAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	n, err := h.Svc.OverdueOpenCount(c.Request().Context())
	if err != nil {
		h.Log.Error("overdue report", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"overdue": n})
}

// GET /v1/reports/availability  (admin)
// @Summary      Per-book availability percentages
// @Tags         reports
// @Produce      json
// @Success      200  {object}  map[string]any
// @Router       /v1/reports/availability [get]
func (h *Controller) Availability(c echo.Context) error {
	if !isAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	rows, err := h.Svc.AvailabilitySnapshot(c.Request().Context())
	if err != nil {
		h.Log.Error("availability report", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/reports/integrity  (admin)
// @Summary      Ledger vs open-loan reconciliation
// @Tags         reports
// @Produce      json
// @Success      200  {object}  map[string]any
// @Router       /v1/reports/integrity [get]
func (h *Controller) Integrity(c echo.Context) error {
	if !isAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	mismatches, err := h.Reconciler.Reconcile(c.Request().Context())
	if err != nil {
		h.Log.Error("integrity report", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"in_sync":    len(mismatches) == 0,
		"mismatches": mismatches,
	})
}
