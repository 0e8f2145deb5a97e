package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/VaibhavPatilDevOps/Remote-Attendence-App/internal/session"
)

const dateLayout = "2006-01-02"

// parseDateRange reads optional ?start=YYYY-MM-DD&end=YYYY-MM-DD query
// params. Both or neither must be present. Returns nil for "no range". The
// bool is false when a response was already written.
func parseDateRange(c *gin.Context) (*session.DateRange, bool) {
	start := strings.TrimSpace(c.Query("start"))
	end := strings.TrimSpace(c.Query("end"))

	if start == "" && end == "" {
		return nil, true
	}
	if start == "" || end == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start and end must be given together"})
		return nil, false
	}

	from, err := time.Parse(dateLayout, start)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start date"})
		return nil, false
	}
	to, err := time.Parse(dateLayout, end)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end date"})
		return nil, false
	}
	if to.Before(from) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end date before start date"})
		return nil, false
	}

	return &session.DateRange{From: from, To: to}, true
}

// requireDateRange is parseDateRange for endpoints where the range is
// mandatory.
func requireDateRange(c *gin.Context) (session.DateRange, bool) {
	r, ok := parseDateRange(c)
	if !ok {
		return session.DateRange{}, false
	}
	if r == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start and end required"})
		return session.DateRange{}, false
	}
	return *r, true
}
