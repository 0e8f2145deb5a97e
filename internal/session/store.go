package session

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/VaibhavPatilDevOps/Remote-Attendence-App/internal/models"
)

// Geo is a latitude/longitude pair supplied by the capture device.
type Geo struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// DateRange is an inclusive range of civil dates. Only the year/month/day of
// From and To are used; the store resolves them to instants in its timezone.
type DateRange struct {
	From time.Time
	To   time.Time
}

// Bounds returns the half-open instant range [lo, hi) covering the civil
// dates in loc.
func (r DateRange) Bounds(loc *time.Location) (lo, hi time.Time) {
	fy, fm, fd := r.From.Date()
	ty, tm, td := r.To.Date()
	lo = time.Date(fy, fm, fd, 0, 0, 0, 0, loc)
	hi = time.Date(ty, tm, td, 0, 0, 0, 0, loc).AddDate(0, 0, 1)
	return lo, hi
}

// StartInput carries everything a start needs; handlers build it from the
// request instead of the store reading any ambient state.
type StartInput struct {
	UserID       uint
	StartTime    time.Time
	Geo          *Geo
	EvidenceRef  string
	PlaceName    string
	ActivityNote string
}

type StopInput struct {
	EndTime     time.Time
	Geo         *Geo
	EvidenceRef string
	PlaceName   string
	ReasonNote  string
}

// Store owns the attendance session lifecycle. All writes are transactional:
// a session row and its evidence row land together or not at all.
type Store struct {
	db  *gorm.DB
	loc *time.Location
}

func NewStore(db *gorm.DB, loc *time.Location) *Store {
	return &Store{db: db, loc: loc}
}

// Start opens a session for the user and records the start capture. The
// partial unique index on (user_id) WHERE end_time IS NULL rejects a second
// open session; that duplicate-key error comes back as ErrActiveExists, so
// two racing starts cannot both succeed.
func (s *Store) Start(in StartInput) (*models.AttendanceSession, error) {
	if in.EvidenceRef == "" {
		return nil, ErrMissingEvidence
	}

	var user models.User
	if err := s.db.First(&user, in.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	sess := models.AttendanceSession{
		UserID:           in.UserID,
		StartTime:        in.StartTime,
		StartEvidenceRef: in.EvidenceRef,
		StartLocation:    in.PlaceName,
		ActivityNote:     in.ActivityNote,
	}
	if in.Geo != nil {
		sess.StartLat = &in.Geo.Lat
		sess.StartLng = &in.Geo.Lng
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&sess).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrActiveExists
			}
			return err
		}
		return tx.Create(evidenceRow(sess.ID, models.TagStart, in.StartTime, in.Geo, in.EvidenceRef)).Error
	})
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

// Stop closes the session, computing the duration in whole seconds. The
// update is guarded on end_time IS NULL so a session is closed exactly once;
// closed sessions are immutable.
func (s *Store) Stop(sessionID uint, in StopInput) (*models.AttendanceSession, error) {
	if in.EvidenceRef == "" {
		return nil, ErrMissingEvidence
	}

	var sess models.AttendanceSession
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&sess, sessionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if !sess.Active() {
			return ErrAlreadyClosed
		}
		if in.EndTime.Before(sess.StartTime) {
			return ErrEndBeforeStart
		}

		duration := int64(in.EndTime.Sub(sess.StartTime) / time.Second)
		updates := map[string]any{
			"end_time":         in.EndTime,
			"end_evidence_ref": in.EvidenceRef,
			"end_location":     in.PlaceName,
			"reason_note":      in.ReasonNote,
			"duration_seconds": duration,
		}
		if in.Geo != nil {
			updates["end_lat"] = in.Geo.Lat
			updates["end_lng"] = in.Geo.Lng
		}

		res := tx.Model(&models.AttendanceSession{}).
			Where("id = ? AND end_time IS NULL", sessionID).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// lost a race with another stop
			return ErrAlreadyClosed
		}

		sess.EndTime = &in.EndTime
		sess.EndEvidenceRef = in.EvidenceRef
		sess.EndLocation = in.PlaceName
		sess.ReasonNote = in.ReasonNote
		sess.DurationSeconds = &duration
		if in.Geo != nil {
			sess.EndLat = &in.Geo.Lat
			sess.EndLng = &in.Geo.Lng
		}

		return tx.Create(evidenceRow(sessionID, models.TagStop, in.EndTime, in.Geo, in.EvidenceRef)).Error
	})
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

// AddMidEvidence appends an ad-hoc capture to an active session without
// touching the session row.
func (s *Store) AddMidEvidence(sessionID uint, capturedAt time.Time, geo *Geo, evidenceRef string) error {
	if evidenceRef == "" {
		return ErrMissingEvidence
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var sess models.AttendanceSession
		if err := tx.First(&sess, sessionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if !sess.Active() {
			return ErrAlreadyClosed
		}
		return tx.Create(evidenceRow(sessionID, models.TagMid, capturedAt, geo, evidenceRef)).Error
	})
}

// GetActive returns the user's open session, or nil when there is none.
func (s *Store) GetActive(userID uint) (*models.AttendanceSession, error) {
	var sess models.AttendanceSession
	err := s.db.
		Where("user_id = ? AND end_time IS NULL", userID).
		Order("start_time DESC").
		First(&sess).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

// Get returns one session with its user, or nil when the id is unknown.
func (s *Store) Get(sessionID uint) (*models.AttendanceSession, error) {
	var sess models.AttendanceSession
	err := s.db.Preload("User").First(&sess, sessionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

// List returns the user's sessions most-recent-first, optionally restricted
// to a civil date range on the start timestamp.
func (s *Store) List(userID uint, r *DateRange) ([]models.AttendanceSession, error) {
	tx := s.db.Where("user_id = ?", userID)
	if r != nil {
		lo, hi := r.Bounds(s.loc)
		tx = tx.Where("start_time >= ? AND start_time < ?", lo, hi)
	}

	var rows []models.AttendanceSession
	if err := tx.Order("start_time DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListAll returns sessions across users most-recent-first, with user rows
// preloaded; feeds the manager reports. employeeID filters by badge number.
func (s *Store) ListAll(r *DateRange, employeeID *int) ([]models.AttendanceSession, error) {
	tx := s.db.Model(&models.AttendanceSession{}).Preload("User")
	if r != nil {
		lo, hi := r.Bounds(s.loc)
		tx = tx.Where("attendance_sessions.start_time >= ? AND attendance_sessions.start_time < ?", lo, hi)
	}
	if employeeID != nil {
		tx = tx.Joins("JOIN users ON users.id = attendance_sessions.user_id").
			Where("users.employee_id = ?", *employeeID)
	}

	var rows []models.AttendanceSession
	if err := tx.Order("attendance_sessions.start_time DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListActive returns every open session across users, for the live
// dashboard.
func (s *Store) ListActive() ([]models.AttendanceSession, error) {
	var rows []models.AttendanceSession
	err := s.db.Preload("User").
		Where("end_time IS NULL").
		Order("start_time DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListEvidence returns a session's captures in capture order.
func (s *Store) ListEvidence(sessionID uint) ([]models.Evidence, error) {
	var rows []models.Evidence
	err := s.db.
		Where("session_id = ?", sessionID).
		Order("captured_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Location is the civil timezone the store resolves date ranges in.
func (s *Store) Location() *time.Location { return s.loc }

func evidenceRow(sessionID uint, tag models.EvidenceTag, at time.Time, geo *Geo, ref string) *models.Evidence {
	ev := &models.Evidence{
		SessionID:   sessionID,
		EvidenceRef: ref,
		Tag:         tag,
		CapturedAt:  at,
	}
	if geo != nil {
		ev.Lat = &geo.Lat
		ev.Lng = &geo.Lng
	}
	return ev
}
