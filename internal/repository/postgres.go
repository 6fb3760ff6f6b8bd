// internal/repository/postgres.go
package repository

import (
	"context"
	"database/sql"
	"fmt"

	"careers-intake/internal/common/errors"
	"careers-intake/internal/common/logger"
	"careers-intake/internal/models"
)

// PostgresRepository stores applicant records in the applicants table.
// Identifier assignment relies on the BIGSERIAL primary key, submission
// timestamps on the database clock.
type PostgresRepository struct {
	db     *sql.DB
	logger logger.Logger
}

func NewPostgresRepository(db *sql.DB, log logger.Logger) *PostgresRepository {
	return &PostgresRepository{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"component": "applicant-repository"}),
	}
}

func (r *PostgresRepository) Insert(ctx context.Context, applicant models.NewApplicant) (int64, error) {
	desiredRole := sql.NullString{String: applicant.DesiredRole, Valid: applicant.DesiredRole != ""}

	var id int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO applicants (
			given_name, family_name, email, phone, country,
			desired_role, wants_alerts, resume_filename, submitted_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		RETURNING id`,
		applicant.GivenName,
		applicant.FamilyName,
		applicant.Email,
		applicant.Phone,
		applicant.Country,
		desiredRole,
		applicant.WantsAlerts,
		applicant.ResumeFilename,
	).Scan(&id)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return 0, errors.NewStorageError(errors.ErrCodeQueryTimeout, err)
		}
		return 0, errors.NewStorageError(errors.ErrCodeDatabaseInsertFailed, fmt.Errorf("insert applicant: %w", err))
	}

	r.logger.Info("applicant record created", map[string]interface{}{
		"applicantId":    id,
		"country":        applicant.Country,
		"resumeFilename": applicant.ResumeFilename,
	})

	return id, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]models.ApplicantRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, given_name, family_name, email, phone, country,
		       desired_role, wants_alerts, resume_filename, submitted_at
		FROM applicants
		ORDER BY submitted_at DESC, id DESC`)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, errors.NewStorageError(errors.ErrCodeQueryTimeout, err)
		}
		return nil, errors.NewStorageError(errors.ErrCodeQueryExecutionFailed, fmt.Errorf("list applicants: %w", err))
	}
	defer rows.Close()

	records := []models.ApplicantRecord{}
	for rows.Next() {
		var rec models.ApplicantRecord
		var desiredRole sql.NullString
		if err := rows.Scan(
			&rec.ID,
			&rec.GivenName,
			&rec.FamilyName,
			&rec.Email,
			&rec.Phone,
			&rec.Country,
			&desiredRole,
			&rec.WantsAlerts,
			&rec.ResumeFilename,
			&rec.SubmittedAt,
		); err != nil {
			return nil, errors.NewStorageError(errors.ErrCodeQueryExecutionFailed, fmt.Errorf("scan applicant row: %w", err))
		}
		rec.DesiredRole = desiredRole.String
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewStorageError(errors.ErrCodeQueryExecutionFailed, fmt.Errorf("iterate applicant rows: %w", err))
	}

	return records, nil
}
