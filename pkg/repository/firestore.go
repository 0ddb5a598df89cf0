package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/tamarin/pkg/model"
	"google.golang.org/api/iterator"
)

const (
	collectionPatients = "patients"
	collectionRecords  = "records"
)

// Firestore implements Repository using Firestore. Records live in a
// sub-collection per patient, keyed by record ID.
type Firestore struct {
	client *firestore.Client
}

// New creates a new Firestore repository
func New(ctx context.Context, projectID, databaseID string) (*Firestore, error) {
	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("project", projectID), goerr.V("database", databaseID))
	}

	return &Firestore{client: client}, nil
}

// Close closes the underlying Firestore client
func (r *Firestore) Close() error {
	if err := r.client.Close(); err != nil {
		return goerr.Wrap(err, "failed to close firestore client")
	}
	return nil
}

func (r *Firestore) records(patientID string) *firestore.CollectionRef {
	return r.client.Collection(collectionPatients).Doc(patientID).Collection(collectionRecords)
}

// PutRecord saves a memory record. Record IDs are time-derived and assumed
// unique, so the write is unconditional: no overwrite check.
func (r *Firestore) PutRecord(ctx context.Context, record *model.MemoryRecord) error {
	if record.PatientID == "" {
		return goerr.Wrap(model.ErrValidation, "patient_id is empty")
	}
	if record.RecordID == "" {
		return goerr.Wrap(model.ErrValidation, "record_id is empty")
	}

	doc := r.records(record.PatientID).Doc(string(record.RecordID))
	if _, err := doc.Set(ctx, record); err != nil {
		return goerr.Wrap(model.ErrUpstreamUnavailable, "failed to put record",
			goerr.V("patient_id", record.PatientID),
			goerr.V("record_id", record.RecordID),
			goerr.V("cause", err.Error()))
	}

	return nil
}

// ListRecords retrieves the newest records created strictly after since
func (r *Firestore) ListRecords(ctx context.Context, patientID string, since time.Time, limit int) ([]*model.MemoryRecord, error) {
	query := r.records(patientID).
		Where("created_at", ">", since).
		OrderBy("created_at", firestore.Desc).
		Limit(limit)

	iter := query.Documents(ctx)
	defer iter.Stop()

	var records []*model.MemoryRecord
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(model.ErrUpstreamUnavailable, "failed to list records",
				goerr.V("patient_id", patientID), goerr.V("cause", err.Error()))
		}

		var record model.MemoryRecord
		if err := doc.DataTo(&record); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal record",
				goerr.V("doc", doc.Ref.ID))
		}
		records = append(records, &record)
	}

	return records, nil
}
