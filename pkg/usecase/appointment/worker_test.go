package appointment_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/tamarin/pkg/adapter"
	"github.com/m-mizutani/tamarin/pkg/model"
	"github.com/m-mizutani/tamarin/pkg/service/memory"
	"github.com/m-mizutani/tamarin/pkg/usecase/appointment"
)

// fakeBus delivers a fixed set of entries once
type fakeBus struct {
	entries []*adapter.BusEntry
}

func (f *fakeBus) Publish(_ context.Context, entry *adapter.BusEntry) (string, error) {
	f.entries = append(f.entries, entry)
	return "evt", nil
}

func (f *fakeBus) Subscribe(ctx context.Context, handler adapter.BusHandler) error {
	for _, entry := range f.entries {
		if err := handler(ctx, entry); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeBus) Close() error { return nil }

func entryFor(t *testing.T, kind model.EventKind) *adapter.BusEntry {
	t.Helper()
	event := &model.MedicalEvent{
		PatientID:  "P3",
		EventType:  kind,
		Specialist: model.SpecialistNephrologist,
		Urgency:    model.UrgencyUrgent,
		Reasoning:  "Creatinina elevada",
		CreatedAt:  time.Now(),
		Source:     model.EventSource,
	}
	detail, err := json.Marshal(event)
	gt.NoError(t, err)

	return &adapter.BusEntry{
		ID:         "1-0",
		Source:     model.EventSource,
		DetailType: event.Urgency.DetailType(),
		Detail:     detail,
	}
}

func TestConsumeAppointmentEvent(t *testing.T) {
	repo := &mockRepository{}
	uc := appointment.New(memory.New(repo))
	bus := &fakeBus{entries: []*adapter.BusEntry{entryFor(t, model.EventKindAppointment)}}

	gt.NoError(t, uc.Consume(context.Background(), bus))

	gt.Equal(t, len(repo.records), 1)
	gt.Equal(t, repo.records[0].EventType, model.EventTypeAppointmentCreated)
}

func TestConsumeAlertEvent(t *testing.T) {
	repo := &mockRepository{}
	uc := appointment.New(memory.New(repo))
	bus := &fakeBus{entries: []*adapter.BusEntry{entryFor(t, model.EventKindAlert)}}

	gt.NoError(t, uc.Consume(context.Background(), bus))

	// An alert books an emergency slot
	gt.Equal(t, len(repo.records), 1)
	gt.Equal(t, repo.records[0].EventType, model.EventTypeAppointmentCreated)
}

func TestConsumeReviewEvent(t *testing.T) {
	repo := &mockRepository{}
	uc := appointment.New(memory.New(repo))
	bus := &fakeBus{entries: []*adapter.BusEntry{entryFor(t, model.EventKindReview)}}

	gt.NoError(t, uc.Consume(context.Background(), bus))

	gt.Equal(t, len(repo.records), 1)
	gt.Equal(t, repo.records[0].EventType, model.EventTypeDecision)
}

func TestConsumeMalformedEntry(t *testing.T) {
	repo := &mockRepository{}
	uc := appointment.New(memory.New(repo))
	bus := &fakeBus{entries: []*adapter.BusEntry{
		{ID: "1-0", Detail: []byte("not json")},
		entryFor(t, model.EventKindAppointment),
	}}

	// A malformed entry is dropped, the rest of the stream proceeds
	gt.NoError(t, uc.Consume(context.Background(), bus))
	gt.Equal(t, len(repo.records), 1)
}

func TestConsumeUnknownKind(t *testing.T) {
	repo := &mockRepository{}
	uc := appointment.New(memory.New(repo))

	event := map[string]any{"patient_id": "P3", "event_type": "telemetry"}
	detail, err := json.Marshal(event)
	gt.NoError(t, err)
	bus := &fakeBus{entries: []*adapter.BusEntry{{ID: "1-0", Detail: detail}}}

	gt.NoError(t, uc.Consume(context.Background(), bus))
	gt.Equal(t, len(repo.records), 0)
}
