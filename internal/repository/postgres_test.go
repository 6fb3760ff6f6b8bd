// internal/repository/postgres_test.go
package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careers-intake/internal/common/errors"
	"careers-intake/internal/common/logger"
	"careers-intake/internal/models"
)

func newTestApplicant() models.NewApplicant {
	return models.NewApplicant{
		GivenName:      "Ana",
		FamilyName:     "Silva",
		Email:          "ana@x.com",
		Phone:          "(11) 91234-5678",
		Country:        "Brazil",
		DesiredRole:    "Engineer",
		WantsAlerts:    true,
		ResumeFilename: "cv.pdf",
	}
}

func listColumns() []string {
	return []string{
		"id", "given_name", "family_name", "email", "phone", "country",
		"desired_role", "wants_alerts", "resume_filename", "submitted_at",
	}
}

func TestInsert_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO applicants`).
		WithArgs("Ana", "Silva", "ana@x.com", "(11) 91234-5678", "Brazil",
			sqlmock.AnyArg(), true, "cv.pdf").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))

	repo := NewPostgresRepository(db, logger.NewTestLogger(t))

	id, err := repo.Insert(context.Background(), newTestApplicant())

	assert.NoError(t, err)
	assert.Equal(t, int64(1), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsert_DatabaseFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO applicants`).
		WillReturnError(assert.AnError)

	repo := NewPostgresRepository(db, logger.NewTestLogger(t))

	id, err := repo.Insert(context.Background(), newTestApplicant())

	assert.Zero(t, id)
	require.Error(t, err)

	stdErr, ok := err.(*errors.StandardError)
	require.True(t, ok, "expected a StandardError")
	assert.Equal(t, errors.KindStorage, stdErr.Kind)
	assert.Equal(t, errors.ErrCodeDatabaseInsertFailed, stdErr.Code)
	assert.True(t, stdErr.Retryable)
}

func TestList_OrderedNewestFirst(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	rows := sqlmock.NewRows(listColumns()).
		AddRow(int64(3), "Bia", "Souza", "bia@x.com", "+55 11 98888-0000", "Brazil",
			nil, false, "cv3.pdf", now).
		AddRow(int64(2), "Ana", "Silva", "ana@x.com", "(11) 91234-5678", "Brazil",
			"Engineer", true, "cv2.docx", now.Add(-time.Hour)).
		AddRow(int64(1), "Joao", "Lima", "joao@x.com", "+55 21 97777-0000", "Brazil",
			"Analyst", false, "cv1.pdf", now.Add(-2*time.Hour))

	mock.ExpectQuery(`SELECT (.+) FROM applicants ORDER BY submitted_at DESC, id DESC`).
		WillReturnRows(rows)

	repo := NewPostgresRepository(db, logger.NewTestLogger(t))

	records, err := repo.List(context.Background())

	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, int64(3), records[0].ID)
	assert.Equal(t, int64(2), records[1].ID)
	assert.Equal(t, int64(1), records[2].ID)

	// Nullable desired_role scans as empty string.
	assert.Empty(t, records[0].DesiredRole)
	assert.Equal(t, "Engineer", records[1].DesiredRole)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestList_EmptyStore(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT (.+) FROM applicants`).
		WillReturnRows(sqlmock.NewRows(listColumns()))

	repo := NewPostgresRepository(db, logger.NewTestLogger(t))

	records, err := repo.List(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestList_QueryFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT (.+) FROM applicants`).
		WillReturnError(assert.AnError)

	repo := NewPostgresRepository(db, logger.NewTestLogger(t))

	records, err := repo.List(context.Background())

	assert.Nil(t, records)
	require.Error(t, err)

	stdErr, ok := err.(*errors.StandardError)
	require.True(t, ok)
	assert.Equal(t, errors.KindStorage, stdErr.Kind)
	assert.Equal(t, errors.ErrCodeQueryExecutionFailed, stdErr.Code)
}
