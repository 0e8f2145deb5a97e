package utils

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// EvidencePhotoPath builds the storage path for one capture:
// <root>/<employeeID>/<year>/<month>/<day>/<uuid>.jpg. The directory is
// created; the returned path is the opaque evidence reference stored with
// the session. Bytes are written as received, re-encoding is not this
// service's job.
func EvidencePhotoPath(root string, employeeID int, ts time.Time) (string, error) {
	dir := filepath.Join(
		root,
		strconv.Itoa(employeeID),
		ts.Format("2006"),
		ts.Format("01"),
		ts.Format("02"),
	)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(dir, uuid.NewString()+".jpg"), nil
}
