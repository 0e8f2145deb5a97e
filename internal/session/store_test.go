package session

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/VaibhavPatilDevOps/Remote-Attendence-App/internal/models"
	"github.com/VaibhavPatilDevOps/Remote-Attendence-App/internal/storage"
)

var testLoc = time.FixedZone("IST", 5*3600+1800)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// a single connection keeps the in-memory database alive and shared
	sqlDB.SetMaxOpenConns(1)

	if err := storage.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return NewStore(db, testLoc)
}

func seedUser(t *testing.T, s *Store, employeeID int, name string) uint {
	t.Helper()

	u := models.User{
		EmployeeID:   employeeID,
		Name:         name,
		Email:        name + "@example.com",
		Role:         models.RoleEmployee,
		Status:       models.StatusActive,
		PasswordHash: "x",
	}
	if err := s.db.Create(&u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u.ID
}

func at(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.ParseInLocation("2006-01-02T15:04:05", value, testLoc)
	if err != nil {
		t.Fatalf("parse time %q: %v", value, err)
	}
	return ts
}

func mustStart(t *testing.T, s *Store, userID uint, start time.Time) *models.AttendanceSession {
	t.Helper()
	sess, err := s.Start(StartInput{
		UserID:      userID,
		StartTime:   start,
		EvidenceRef: "photos/start.jpg",
	})
	if err != nil {
		t.Fatalf("start session: %v", err)
	}
	return sess
}

func mustStop(t *testing.T, s *Store, id uint, end time.Time) *models.AttendanceSession {
	t.Helper()
	sess, err := s.Stop(id, StopInput{
		EndTime:     end,
		EvidenceRef: "photos/stop.jpg",
		ReasonNote:  "done for the day",
	})
	if err != nil {
		t.Fatalf("stop session: %v", err)
	}
	return sess
}

func TestStartStopDuration(t *testing.T) {
	s := newTestStore(t)
	userID := seedUser(t, s, 25001, "asha")

	sess := mustStart(t, s, userID, at(t, "2024-01-01T09:00:00"))
	if !sess.Active() {
		t.Fatal("new session should be active")
	}
	if sess.DurationSeconds != nil {
		t.Fatal("open session must not have a duration")
	}

	stopped := mustStop(t, s, sess.ID, at(t, "2024-01-01T17:30:00"))
	if stopped.DurationSeconds == nil {
		t.Fatal("closed session must have a duration")
	}
	if *stopped.DurationSeconds != 30600 {
		t.Fatalf("expected duration 30600, got %d", *stopped.DurationSeconds)
	}
	if stopped.EndTime == nil {
		t.Fatal("closed session must have an end time")
	}
}

func TestDurationFloorsPartialSeconds(t *testing.T) {
	s := newTestStore(t)
	userID := seedUser(t, s, 25001, "asha")

	start := at(t, "2024-01-01T09:00:00")
	sess := mustStart(t, s, userID, start)

	stopped := mustStop(t, s, sess.ID, start.Add(90*time.Second+700*time.Millisecond))
	if *stopped.DurationSeconds != 90 {
		t.Fatalf("expected floored duration 90, got %d", *stopped.DurationSeconds)
	}
}

func TestStartConflictWhileActive(t *testing.T) {
	s := newTestStore(t)
	userID := seedUser(t, s, 25001, "asha")

	mustStart(t, s, userID, at(t, "2024-01-01T09:00:00"))

	_, err := s.Start(StartInput{
		UserID:      userID,
		StartTime:   at(t, "2024-01-01T09:05:00"),
		EvidenceRef: "photos/start2.jpg",
	})
	if !errors.Is(err, ErrActiveExists) {
		t.Fatalf("expected ErrActiveExists, got %v", err)
	}

	// a different user is not blocked
	otherID := seedUser(t, s, 25002, "bala")
	mustStart(t, s, otherID, at(t, "2024-01-01T09:05:00"))
}

func TestStartAgainAfterStop(t *testing.T) {
	s := newTestStore(t)
	userID := seedUser(t, s, 25001, "asha")

	sess := mustStart(t, s, userID, at(t, "2024-01-01T09:00:00"))
	mustStop(t, s, sess.ID, at(t, "2024-01-01T12:00:00"))
	mustStart(t, s, userID, at(t, "2024-01-01T13:00:00"))
}

func TestStopTwice(t *testing.T) {
	s := newTestStore(t)
	userID := seedUser(t, s, 25001, "asha")

	sess := mustStart(t, s, userID, at(t, "2024-01-01T09:00:00"))
	mustStop(t, s, sess.ID, at(t, "2024-01-01T10:00:00"))

	_, err := s.Stop(sess.ID, StopInput{
		EndTime:     at(t, "2024-01-01T11:00:00"),
		EvidenceRef: "photos/stop2.jpg",
	})
	if !errors.Is(err, ErrAlreadyClosed) {
		t.Fatalf("expected ErrAlreadyClosed, got %v", err)
	}

	// stored duration is untouched by the failed second stop
	got, err := s.Get(sess.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.DurationSeconds == nil || *got.DurationSeconds != 3600 {
		t.Fatalf("expected duration 3600 to survive, got %v", got.DurationSeconds)
	}
}

func TestStopUnknownSession(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Stop(9999, StopInput{
		EndTime:     at(t, "2024-01-01T10:00:00"),
		EvidenceRef: "photos/stop.jpg",
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStopEndBeforeStart(t *testing.T) {
	s := newTestStore(t)
	userID := seedUser(t, s, 25001, "asha")

	sess := mustStart(t, s, userID, at(t, "2024-01-01T09:00:00"))

	_, err := s.Stop(sess.ID, StopInput{
		EndTime:     at(t, "2024-01-01T08:59:00"),
		EvidenceRef: "photos/stop.jpg",
	})
	if !errors.Is(err, ErrEndBeforeStart) {
		t.Fatalf("expected ErrEndBeforeStart, got %v", err)
	}

	// rejected stop must leave the session open
	active, err := s.GetActive(userID)
	if err != nil {
		t.Fatalf("get active: %v", err)
	}
	if active == nil || active.ID != sess.ID {
		t.Fatal("session should still be active after rejected stop")
	}
}

func TestEvidenceRequired(t *testing.T) {
	s := newTestStore(t)
	userID := seedUser(t, s, 25001, "asha")

	if _, err := s.Start(StartInput{UserID: userID, StartTime: at(t, "2024-01-01T09:00:00")}); !errors.Is(err, ErrMissingEvidence) {
		t.Fatalf("start without evidence: expected ErrMissingEvidence, got %v", err)
	}

	sess := mustStart(t, s, userID, at(t, "2024-01-01T09:00:00"))

	if _, err := s.Stop(sess.ID, StopInput{EndTime: at(t, "2024-01-01T10:00:00")}); !errors.Is(err, ErrMissingEvidence) {
		t.Fatalf("stop without evidence: expected ErrMissingEvidence, got %v", err)
	}
	if err := s.AddMidEvidence(sess.ID, at(t, "2024-01-01T09:30:00"), nil, ""); !errors.Is(err, ErrMissingEvidence) {
		t.Fatalf("mid without evidence: expected ErrMissingEvidence, got %v", err)
	}
}

func TestStartUnknownUser(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Start(StartInput{
		UserID:      4242,
		StartTime:   at(t, "2024-01-01T09:00:00"),
		EvidenceRef: "photos/start.jpg",
	})
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestMidEvidence(t *testing.T) {
	s := newTestStore(t)
	userID := seedUser(t, s, 25001, "asha")

	sess := mustStart(t, s, userID, at(t, "2024-01-01T09:00:00"))

	geo := &Geo{Lat: 12.97, Lng: 77.59}
	if err := s.AddMidEvidence(sess.ID, at(t, "2024-01-01T11:00:00"), geo, "photos/mid.jpg"); err != nil {
		t.Fatalf("add mid evidence: %v", err)
	}

	rows, err := s.ListEvidence(sess.ID)
	if err != nil {
		t.Fatalf("list evidence: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected start + mid evidence, got %d rows", len(rows))
	}
	if rows[0].Tag != models.TagStart || rows[1].Tag != models.TagMid {
		t.Fatalf("unexpected tags %q, %q", rows[0].Tag, rows[1].Tag)
	}
	if rows[1].Lat == nil || *rows[1].Lat != 12.97 {
		t.Fatalf("mid evidence lost geo: %+v", rows[1])
	}

	mustStop(t, s, sess.ID, at(t, "2024-01-01T17:00:00"))

	if err := s.AddMidEvidence(sess.ID, at(t, "2024-01-01T18:00:00"), nil, "photos/late.jpg"); !errors.Is(err, ErrAlreadyClosed) {
		t.Fatalf("mid on closed session: expected ErrAlreadyClosed, got %v", err)
	}
	if err := s.AddMidEvidence(9999, at(t, "2024-01-01T18:00:00"), nil, "photos/late.jpg"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("mid on unknown session: expected ErrNotFound, got %v", err)
	}
}

func TestGetActive(t *testing.T) {
	s := newTestStore(t)
	userID := seedUser(t, s, 25001, "asha")

	active, err := s.GetActive(userID)
	if err != nil {
		t.Fatalf("get active: %v", err)
	}
	if active != nil {
		t.Fatal("expected no active session")
	}

	sess := mustStart(t, s, userID, at(t, "2024-01-01T09:00:00"))

	active, err = s.GetActive(userID)
	if err != nil {
		t.Fatalf("get active: %v", err)
	}
	if active == nil || active.ID != sess.ID {
		t.Fatal("expected the open session back")
	}

	mustStop(t, s, sess.ID, at(t, "2024-01-01T10:00:00"))

	active, err = s.GetActive(userID)
	if err != nil {
		t.Fatalf("get active: %v", err)
	}
	if active != nil {
		t.Fatal("expected no active session after stop")
	}
}

func TestListOrderAndRange(t *testing.T) {
	s := newTestStore(t)
	userID := seedUser(t, s, 25001, "asha")

	for _, day := range []string{"2024-01-01", "2024-01-02", "2024-01-03"} {
		sess := mustStart(t, s, userID, at(t, day+"T09:00:00"))
		mustStop(t, s, sess.ID, at(t, day+"T17:00:00"))
	}

	all, err := s.List(userID, nil)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 sessions, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].StartTime.After(all[i-1].StartTime) {
			t.Fatal("sessions not ordered most-recent-first")
		}
	}

	r := DateRange{From: at(t, "2024-01-02T00:00:00"), To: at(t, "2024-01-02T00:00:00")}
	one, err := s.List(userID, &r)
	if err != nil {
		t.Fatalf("list ranged: %v", err)
	}
	if len(one) != 1 {
		t.Fatalf("expected 1 session on 2024-01-02, got %d", len(one))
	}
}

func TestListActiveAcrossUsers(t *testing.T) {
	s := newTestStore(t)
	a := seedUser(t, s, 25001, "asha")
	b := seedUser(t, s, 25002, "bala")
	c := seedUser(t, s, 25003, "charu")

	mustStart(t, s, a, at(t, "2024-01-01T09:00:00"))
	mustStart(t, s, b, at(t, "2024-01-01T09:30:00"))
	sess := mustStart(t, s, c, at(t, "2024-01-01T10:00:00"))
	mustStop(t, s, sess.ID, at(t, "2024-01-01T11:00:00"))

	rows, err := s.ListActive()
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 active sessions, got %d", len(rows))
	}
	if rows[0].User == nil || rows[0].User.Name == "" {
		t.Fatal("active sessions should carry their user")
	}
}

func TestConcurrentStartExactlyOneWins(t *testing.T) {
	s := newTestStore(t)
	userID := seedUser(t, s, 25001, "asha")

	start := at(t, "2024-01-01T09:00:00")
	errs := make([]error, 2)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.Start(StartInput{
				UserID:      userID,
				StartTime:   start,
				EvidenceRef: "photos/start.jpg",
			})
		}(i)
	}
	wg.Wait()

	var okCount, conflictCount int
	for _, err := range errs {
		switch {
		case err == nil:
			okCount++
		case errors.Is(err, ErrActiveExists):
			conflictCount++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if okCount != 1 || conflictCount != 1 {
		t.Fatalf("expected exactly one winner, got ok=%d conflict=%d", okCount, conflictCount)
	}
}
