package repository

import (
	"context"
	"time"

	"github.com/m-mizutani/tamarin/pkg/model"
)

// Repository defines the interface for patient memory persistence.
// Records are append-only: they are created, read, and eventually reaped by
// the store's own TTL mechanism, never updated or deleted by the app.
type Repository interface {
	// PutRecord saves a memory record for a patient
	PutRecord(ctx context.Context, record *model.MemoryRecord) error

	// ListRecords retrieves up to limit records for a patient created
	// strictly after since, ordered newest first
	ListRecords(ctx context.Context, patientID string, since time.Time, limit int) ([]*model.MemoryRecord, error)

	// Close releases the underlying client
	Close() error
}
