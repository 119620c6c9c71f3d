package storage

import (
	"errors"
	"fmt"
	"os"

	"github.com/erikh/saturn/pkg/record"
	"github.com/erikh/saturn/pkg/terrors"

	"gopkg.in/yaml.v3"
)

// Load reads the yaml snapshot at path. A missing file is an empty
// calendar, not an error.
func Load(path string) (*MemoryDB, error) {
	buf, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return New(), nil
	}
	if err != nil {
		return nil, err
	}
	db := New()
	if err := yaml.Unmarshal(buf, db); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", terrors.ErrParse, path, err)
	}
	if db.Records == nil {
		db.Records = map[string][]*record.Record{}
	}
	return db, nil
}

// Dump writes the snapshot with owner-only permissions.
func Dump(path string, db *MemoryDB) error {
	buf, err := yaml.Marshal(db)
	if err != nil {
		return err
	}
	return os.WriteFile(path, buf, 0o600)
}
