package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/VaibhavPatilDevOps/Remote-Attendence-App/internal/models"
	"github.com/VaibhavPatilDevOps/Remote-Attendence-App/internal/report"
	"github.com/VaibhavPatilDevOps/Remote-Attendence-App/internal/session"
)

type ReportHandler struct {
	Engine *report.Engine
	Store  *session.Store
}

func NewReportHandler(engine *report.Engine, store *session.Store) *ReportHandler {
	return &ReportHandler{Engine: engine, Store: store}
}

// reportUserID resolves which user a per-user report targets. Employees only
// get themselves; managers and admins may pass ?user_id=.
func (h *ReportHandler) reportUserID(c *gin.Context) (uint, bool) {
	self := c.GetUint("user_id")
	q := strings.TrimSpace(c.Query("user_id"))
	if q == "" {
		return self, true
	}
	id64, err := strconv.ParseUint(q, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
		return 0, false
	}
	if uint(id64) != self && c.GetString("role") == string(models.RoleEmployee) {
		c.JSON(http.StatusForbidden, gin.H{"error": "cannot view other users"})
		return 0, false
	}
	return uint(id64), true
}

// GET /api/v1/reports/daily?start=&end=&user_id=
func (h *ReportHandler) DailyTotals(c *gin.Context) {
	userID, ok := h.reportUserID(c)
	if !ok {
		return
	}
	r, ok := requireDateRange(c)
	if !ok {
		return
	}

	rows, err := h.Engine.DailyTotals(userID, r)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "report failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "data": rows})
}

// GET /api/v1/reports/total?start=&end=&employee_id=
func (h *ReportHandler) RangeTotal(c *gin.Context) {
	r, ok := requireDateRange(c)
	if !ok {
		return
	}

	var employeeID *int
	if q := strings.TrimSpace(c.Query("employee_id")); q != "" {
		id, err := strconv.Atoi(q)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid employee_id"})
			return
		}
		employeeID = &id
	}

	total, err := h.Engine.RangeTotal(r, employeeID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "report failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "total_seconds": total})
}

// GET /api/v1/reports/calendar?year=&month=&user_id=
func (h *ReportHandler) MonthlyCalendar(c *gin.Context) {
	userID, ok := h.reportUserID(c)
	if !ok {
		return
	}

	year, err := strconv.Atoi(strings.TrimSpace(c.Query("year")))
	if err != nil || year < 2000 || year > 2100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
		return
	}
	month, err := strconv.Atoi(strings.TrimSpace(c.Query("month")))
	if err != nil || month < 1 || month > 12 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid month"})
		return
	}

	days, err := h.Engine.MonthlyCalendar(userID, year, time.Month(month))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "report failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "data": days})
}

// GET /api/v1/reports/top-performers?start=&end=&limit=
func (h *ReportHandler) TopPerformers(c *gin.Context) {
	r, ok := requireDateRange(c)
	if !ok {
		return
	}

	limit := 10
	if q := strings.TrimSpace(c.Query("limit")); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = n
	}

	rows, err := h.Engine.TopPerformers(r, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "report failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "data": rows})
}

// GET /api/v1/reports/active — live view of everyone currently working.
func (h *ReportHandler) ActiveSessions(c *gin.Context) {
	rows, err := h.Store.ListActive()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "load failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "data": rows})
}

// GET /api/v1/reports/sessions?start=&end=&employee_id= — the raw sheet
// feeding table renderers and exporters.
func (h *ReportHandler) Sessions(c *gin.Context) {
	r, ok := parseDateRange(c)
	if !ok {
		return
	}

	var employeeID *int
	if q := strings.TrimSpace(c.Query("employee_id")); q != "" {
		id, err := strconv.Atoi(q)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid employee_id"})
			return
		}
		employeeID = &id
	}

	rows, err := h.Store.ListAll(r, employeeID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "load failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "data": rows})
}
