package models

import "time"

type EvidenceTag string

const (
	TagStart EvidenceTag = "start"
	TagStop  EvidenceTag = "stop"
	TagMid   EvidenceTag = "mid"
)

// AttendanceSession is one continuous stretch of work. A session is "active"
// while EndTime is NULL; at most one active session may exist per user, which
// the storage layer enforces with a partial unique index on
// (user_id) WHERE end_time IS NULL.
//
// DurationSeconds is set exactly when EndTime is set and holds the whole
// seconds between start and end. A closed session is never mutated again.
type AttendanceSession struct {
	ID     uint  `gorm:"primaryKey" json:"id"`
	UserID uint  `gorm:"index;not null" json:"user_id"`
	User   *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`

	StartTime        time.Time `gorm:"not null" json:"start_time"`
	StartLat         *float64  `json:"start_lat,omitempty"`
	StartLng         *float64  `json:"start_lng,omitempty"`
	StartEvidenceRef string    `gorm:"not null" json:"start_evidence_ref"`
	StartLocation    string    `json:"start_location,omitempty"`
	ActivityNote     string    `json:"activity_note,omitempty"`

	EndTime        *time.Time `gorm:"index" json:"end_time,omitempty"`
	EndLat         *float64   `json:"end_lat,omitempty"`
	EndLng         *float64   `json:"end_lng,omitempty"`
	EndEvidenceRef string     `json:"end_evidence_ref,omitempty"`
	EndLocation    string     `json:"end_location,omitempty"`
	ReasonNote     string     `json:"reason_note,omitempty"`

	DurationSeconds *int64 `json:"duration_seconds,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func (s *AttendanceSession) Active() bool { return s.EndTime == nil }

// Evidence is a timestamped, geo-tagged capture reference attached to a
// session. Rows are append-only and live and die with their session.
type Evidence struct {
	ID          uint               `gorm:"primaryKey" json:"id"`
	SessionID   uint               `gorm:"index;not null" json:"session_id"`
	Session     *AttendanceSession `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE" json:"-"`
	EvidenceRef string             `gorm:"not null" json:"evidence_ref"`
	Tag         EvidenceTag        `gorm:"type:varchar(10);not null" json:"tag"`
	CapturedAt  time.Time          `gorm:"not null" json:"captured_at"`
	Lat         *float64           `json:"lat,omitempty"`
	Lng         *float64           `json:"lng,omitempty"`
}
