package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/m-mizutani/tamarin/pkg/model"
	"github.com/m-mizutani/tamarin/pkg/repository"
	"github.com/m-mizutani/tamarin/pkg/utils/logging"
)

const (
	defaultDaysBack = 90
	maxRecords      = 20
)

// Store is the append-only patient memory. Its operations never raise to
// the caller: failures are reported as an error status in the result so the
// calling pipeline can decide whether to continue.
type Store struct {
	repo repository.Repository
}

// New creates a new memory store on top of a repository
func New(repo repository.Repository) *Store {
	return &Store{repo: repo}
}

// SaveInput contains parameters for saving a record. RecordID and TTL are
// optional: a time-derived ID and the general 7-year retention are used
// when omitted.
type SaveInput struct {
	PatientID string
	EventType model.EventType
	Data      any
	RecordID  model.RecordID
	TTL       time.Duration
}

// Save appends a record to the patient's memory
func (x *Store) Save(ctx context.Context, input SaveInput) *model.SaveResult {
	if input.PatientID == "" {
		return &model.SaveResult{
			Status:  model.StatusError,
			Message: "patient_id is required",
		}
	}

	now := time.Now()
	recordID := input.RecordID
	if recordID == "" {
		recordID = model.NewRecordID(input.PatientID, now)
	}
	ttl := input.TTL
	if ttl <= 0 {
		ttl = model.MemoryTTL
	}

	record := &model.MemoryRecord{
		PatientID: input.PatientID,
		RecordID:  recordID,
		EventType: input.EventType,
		Data:      input.Data,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}

	if err := x.repo.PutRecord(ctx, record); err != nil {
		logging.From(ctx).Error("failed to save memory record",
			"patient_id", input.PatientID, "event_type", input.EventType, "error", err)
		return &model.SaveResult{
			Status:  model.StatusError,
			Message: fmt.Sprintf("Erro ao salvar na memória: %v", err),
		}
	}

	return &model.SaveResult{
		Status:   model.StatusSuccess,
		RecordID: record.RecordID,
		Message:  fmt.Sprintf("Dados salvos na memória para paciente %s", input.PatientID),
	}
}

// Query retrieves the organized history of a patient. An error status means
// the store was unreachable, which is not the same as an empty history.
func (x *Store) Query(ctx context.Context, patientID string, daysBack int) *model.QueryResult {
	if daysBack <= 0 {
		daysBack = defaultDaysBack
	}

	since := time.Now().AddDate(0, 0, -daysBack)
	records, err := x.repo.ListRecords(ctx, patientID, since, maxRecords)
	if err != nil {
		logging.From(ctx).Error("failed to query memory",
			"patient_id", patientID, "days_back", daysBack, "error", err)
		return &model.QueryResult{
			Status:    model.StatusError,
			PatientID: patientID,
			Message:   fmt.Sprintf("Erro ao acessar memória: %v", err),
		}
	}

	history := &model.History{
		PatientID: patientID,
		DateRange: fmt.Sprintf("Últimos %d dias", daysBack),
	}
	for _, record := range records {
		history.Add(record)
	}

	return &model.QueryResult{
		Status:    model.StatusSuccess,
		PatientID: patientID,
		Memory:    history,
	}
}
