package install

import (
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/rigtools/rigup/pkg/errors"
	"github.com/rigtools/rigup/pkg/fsutil"
)

// recordFileName is the metadata file inside each recovery record
const recordFileName = "record.toml"

// Record is the metadata written into a recovery record directory.
// Captured lists the target paths that existed before the install and
// were backed up; a target absent from Captured did not exist, which
// is what tells rollback to delete rather than restore.
type Record struct {
	Timestamp time.Time `toml:"timestamp"`
	Version   string    `toml:"version"`
	Captured  []string  `toml:"captured"`
}

// writeRecord persists the metadata into the record directory
func writeRecord(dir string, rec *Record) error {
	data, err := toml.Marshal(rec)
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to marshal recovery record")
	}
	return fsutil.WriteFileAtomic(filepath.Join(dir, recordFileName), data, fsutil.FileMode)
}

// readRecord loads the metadata from a record directory. A missing or
// unreadable record file is not fatal to rollback, which keys off
// backup-file presence, so callers treat an error here as advisory.
func readRecord(dir string) (*Record, error) {
	data, err := os.ReadFile(filepath.Join(dir, recordFileName))
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to read record in %q", dir)
	}
	var rec Record
	if err := toml.Unmarshal(data, &rec); err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput, "failed to parse record in %q", dir)
	}
	return &rec, nil
}
