package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumiere-academy/backend/internal/domain"
	"github.com/lumiere-academy/backend/internal/repository/testutil"
)

func TestEmailTemplateRepository(t *testing.T) {
	db, mock, cleanup := testutil.SetupMockDB(t)
	defer cleanup()

	repo := NewEmailTemplateRepository(db)
	now := time.Now().UTC().Truncate(time.Microsecond)

	t.Run("create", func(t *testing.T) {
		mock.ExpectExec(`INSERT INTO email_templates \(id,name,subject,html,created_at,updated_at\)`).
			WithArgs(sqlmock.AnyArg(), "Bienvenue", "Bonjour {first_name}", "<p>{contact_name}</p>", sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))

		template := &domain.EmailTemplate{Name: "Bienvenue", Subject: "Bonjour {first_name}", HTML: "<p>{contact_name}</p>"}
		require.NoError(t, repo.Create(context.Background(), template))
		assert.NotEmpty(t, template.ID)
	})

	t.Run("get", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM email_templates WHERE id = \$1`).
			WithArgs("tpl-1").
			WillReturnRows(sqlmock.NewRows(domain.EmailTemplateColumns).
				AddRow("tpl-1", "Bienvenue", "Bonjour", "<p>hi</p>", now, now))

		template, err := repo.GetByID(context.Background(), "tpl-1")
		require.NoError(t, err)
		assert.Equal(t, "Bonjour", template.Subject)

		mock.ExpectQuery(`SELECT (.+) FROM email_templates WHERE id = \$1`).
			WithArgs("tpl-x").
			WillReturnError(sql.ErrNoRows)

		_, err = repo.GetByID(context.Background(), "tpl-x")
		assert.True(t, domain.IsNotFound(err))
	})

	t.Run("list", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM email_templates ORDER BY name ASC`).
			WillReturnRows(sqlmock.NewRows(domain.EmailTemplateColumns).
				AddRow("tpl-1", "A", "s", "h", now, now).
				AddRow("tpl-2", "B", "s", "h", now, now))

		templates, err := repo.List(context.Background())
		require.NoError(t, err)
		assert.Len(t, templates, 2)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}
