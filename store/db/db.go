package db

import (
	"github.com/pkg/errors"

	"github.com/notabase/notabase/internal/profile"
	"github.com/notabase/notabase/store"
	"github.com/notabase/notabase/store/db/postgres"
	"github.com/notabase/notabase/store/db/sqlite"
)

// ============================================================================
// DATABASE SUPPORT POLICY
// ============================================================================
// This project supports only PostgreSQL and SQLite databases.
//
// PostgreSQL: full support, including vector search (pgvector).
// SQLite: local/development use. Note CRUD works; vector storage and
// vector search are not available (no pgvector equivalent). The engine
// falls back to scanning pseudo-embeddings in process.
// ============================================================================

// NewDBDriver creates new db driver based on profile.
func NewDBDriver(profile *profile.Profile) (store.Driver, error) {
	var driver store.Driver
	var err error

	switch profile.Driver {
	case "sqlite":
		driver, err = sqlite.NewDB(profile)
	case "postgres":
		driver, err = postgres.NewDB(profile)
	default:
		return nil, errors.Errorf("unknown db driver %q: only 'postgres' and 'sqlite' are supported", profile.Driver)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to create db driver")
	}
	return driver, nil
}
