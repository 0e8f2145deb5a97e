package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/VaibhavPatilDevOps/Remote-Attendence-App/internal/models"
	"github.com/VaibhavPatilDevOps/Remote-Attendence-App/internal/session"
	"github.com/VaibhavPatilDevOps/Remote-Attendence-App/internal/utils"
)

const maxNoteLen = 500

type AttendanceHandler struct {
	Store    *session.Store
	PhotoDir string
}

func NewAttendanceHandler(store *session.Store, photoDir string) *AttendanceHandler {
	return &AttendanceHandler{Store: store, PhotoDir: photoDir}
}

// storeStatus maps session store failures onto HTTP statuses. Conflicts and
// not-found are expected outcomes surfaced to the caller, never retried here.
func storeStatus(err error) int {
	switch {
	case errors.Is(err, session.ErrActiveExists),
		errors.Is(err, session.ErrAlreadyClosed):
		return http.StatusConflict
	case errors.Is(err, session.ErrNotFound),
		errors.Is(err, session.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrEndBeforeStart),
		errors.Is(err, session.ErrMissingEvidence):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

type geoReq struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

// geo returns the coordinate pair, or nil when the device sent none.
func (g geoReq) geo() *session.Geo {
	if g.Lat == nil || g.Lng == nil {
		return nil
	}
	return &session.Geo{Lat: *g.Lat, Lng: *g.Lng}
}

// placeName is best-effort reverse geocoding; a miss just leaves the display
// name empty.
func placeName(g *session.Geo) string {
	if g == nil {
		return ""
	}
	return utils.ReverseGeocode(g.Lat, g.Lng)
}

// =========================
// START SESSION
// =========================
type StartReq struct {
	EvidenceRef  string `json:"evidence_ref" binding:"required"`
	ActivityNote string `json:"activity_note"`
	geoReq
}

func (h *AttendanceHandler) Start(c *gin.Context) {
	var req StartReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body", "detail": err.Error()})
		return
	}

	note := strings.TrimSpace(req.ActivityNote)
	if len(note) > maxNoteLen {
		c.JSON(http.StatusBadRequest, gin.H{"error": "activity_note too long (max 500)"})
		return
	}

	geo := req.geo()
	sess, err := h.Store.Start(session.StartInput{
		UserID:       c.GetUint("user_id"),
		StartTime:    time.Now(),
		Geo:          geo,
		EvidenceRef:  strings.TrimSpace(req.EvidenceRef),
		PlaceName:    placeName(geo),
		ActivityNote: note,
	})
	if err != nil {
		c.JSON(storeStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "ok", "data": sess})
}

// =========================
// STOP SESSION
// =========================
type StopReq struct {
	EvidenceRef string `json:"evidence_ref" binding:"required"`
	ReasonNote  string `json:"reason_note" binding:"required"`
	geoReq
}

func (h *AttendanceHandler) Stop(c *gin.Context) {
	id, ok := h.sessionParam(c)
	if !ok {
		return
	}

	var req StopReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body", "detail": err.Error()})
		return
	}

	note := strings.TrimSpace(req.ReasonNote)
	if note == "" || len(note) > maxNoteLen {
		c.JSON(http.StatusBadRequest, gin.H{"error": "reason_note required (max 500)"})
		return
	}

	if !h.ownsSession(c, id) {
		return
	}

	geo := req.geo()
	sess, err := h.Store.Stop(id, session.StopInput{
		EndTime:     time.Now(),
		Geo:         geo,
		EvidenceRef: strings.TrimSpace(req.EvidenceRef),
		PlaceName:   placeName(geo),
		ReasonNote:  note,
	})
	if err != nil {
		c.JSON(storeStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok", "data": sess})
}

// =========================
// MID-SESSION EVIDENCE
// =========================
type MidEvidenceReq struct {
	EvidenceRef string `json:"evidence_ref" binding:"required"`
	geoReq
}

func (h *AttendanceHandler) AddMidEvidence(c *gin.Context) {
	id, ok := h.sessionParam(c)
	if !ok {
		return
	}

	var req MidEvidenceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body", "detail": err.Error()})
		return
	}

	if !h.ownsSession(c, id) {
		return
	}

	if err := h.Store.AddMidEvidence(id, time.Now(), req.geo(), strings.TrimSpace(req.EvidenceRef)); err != nil {
		c.JSON(storeStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "ok"})
}

// =========================
// READS
// =========================

func (h *AttendanceHandler) Active(c *gin.Context) {
	sess, err := h.Store.GetActive(c.GetUint("user_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "load failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "data": sess})
}

func (h *AttendanceHandler) List(c *gin.Context) {
	r, ok := parseDateRange(c)
	if !ok {
		return
	}

	rows, err := h.Store.List(c.GetUint("user_id"), r)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "load failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "data": rows})
}

func (h *AttendanceHandler) ListEvidence(c *gin.Context) {
	id, ok := h.sessionParam(c)
	if !ok {
		return
	}

	sess, err := h.Store.Get(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "load failed"})
		return
	}
	if sess == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": session.ErrNotFound.Error()})
		return
	}
	if sess.UserID != c.GetUint("user_id") && c.GetString("role") == string(models.RoleEmployee) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your session"})
		return
	}

	rows, err := h.Store.ListEvidence(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "load failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "data": rows})
}

// =========================
// EVIDENCE UPLOAD
// =========================

// UploadEvidence stores a capture's bytes and hands back the opaque reference
// the lifecycle endpoints expect. No decoding or resizing happens here.
func (h *AttendanceHandler) UploadEvidence(c *gin.Context) {
	file, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo file required"})
		return
	}

	path, err := utils.EvidencePhotoPath(h.PhotoDir, c.GetInt("employee_id"), time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage failed"})
		return
	}
	if err := c.SaveUploadedFile(file, path); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "ok", "evidence_ref": path})
}

// =========================
// helpers
// =========================

func (h *AttendanceHandler) sessionParam(c *gin.Context) (uint, bool) {
	id64, err := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
		return 0, false
	}
	return uint(id64), true
}

// ownsSession lets employees touch only their own sessions; admins may act on
// any. Unknown ids fall through so the store reports NotFound itself.
func (h *AttendanceHandler) ownsSession(c *gin.Context, id uint) bool {
	if c.GetString("role") == string(models.RoleAdmin) {
		return true
	}
	sess, err := h.Store.Get(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "load failed"})
		return false
	}
	if sess != nil && sess.UserID != c.GetUint("user_id") {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your session"})
		return false
	}
	return true
}
