package testutil

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupMockDB(t *testing.T) {
	t.Run("matches queries by regexp", func(t *testing.T) {
		db, mock, cleanup := SetupMockDB(t)
		defer cleanup()

		mock.ExpectQuery(`SELECT id FROM workflows WHERE status = \$1`).
			WithArgs("active").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("wf-1"))

		var id string
		require.NoError(t, db.QueryRow("SELECT id FROM workflows WHERE status = $1", "active").Scan(&id))
		assert.Equal(t, "wf-1", id)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("cleanup closes the database once", func(t *testing.T) {
		db, _, cleanup := SetupMockDB(t)
		require.NoError(t, db.Ping())

		cleanup()
		cleanup()

		assert.Error(t, db.Ping())
	})
}
