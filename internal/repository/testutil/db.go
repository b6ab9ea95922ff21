package testutil

import (
	"database/sql"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

// SetupMockDB creates a sqlmock backed *sql.DB using the regexp query matcher.
// The returned cleanup closes it and is also registered with t.Cleanup.
func SetupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)

	var once sync.Once
	cleanup := func() {
		once.Do(func() { _ = db.Close() })
	}
	t.Cleanup(cleanup)

	return db, mock, cleanup
}
