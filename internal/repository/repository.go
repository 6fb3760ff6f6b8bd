// internal/repository/repository.go

// Package repository provides durable storage for applicant records behind a
// single abstract interface with swappable backing implementations.
package repository

import (
	"context"

	"careers-intake/internal/models"
)

// ApplicantRepository is the persistence capability consumed by the pipeline.
// Identifier and submission timestamp are assigned by the repository at
// insert time; concurrent inserts never collide. There is no update or
// delete: a record is created exactly once and kept.
type ApplicantRepository interface {
	// Insert stores a new applicant and returns its identifier. Failures are
	// storage-kind StandardErrors.
	Insert(ctx context.Context, applicant models.NewApplicant) (int64, error)

	// List returns all records ordered by submission time descending, ties
	// broken by identifier descending.
	List(ctx context.Context) ([]models.ApplicantRecord, error)
}
