package store

import (
	"context"
	"embed"

	"github.com/pkg/errors"
)

// Schema files live at store/migration/{driver}/LATEST.sql. Every
// statement is idempotent (IF NOT EXISTS), so applying the latest
// schema on startup covers both fresh and existing databases.

//go:embed migration
var migrationFS embed.FS

// Migrate brings the database schema up to date.
func (s *Store) Migrate(ctx context.Context) error {
	path := "migration/" + s.profile.Driver + "/LATEST.sql"
	buf, err := migrationFS.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "failed to read schema file %s", path)
	}
	if _, err := s.driver.GetDB().ExecContext(ctx, string(buf)); err != nil {
		return errors.Wrap(err, "failed to apply schema")
	}
	return nil
}
