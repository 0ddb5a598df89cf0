package emitter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/m-mizutani/tamarin/pkg/adapter"
	"github.com/m-mizutani/tamarin/pkg/model"
	"github.com/m-mizutani/tamarin/pkg/utils/logging"
)

// Emitter publishes typed, urgency-tagged medical events to the downstream
// bus. Publish failures degrade to an error result carrying the original
// parameters; they never propagate to the caller.
type Emitter struct {
	bus adapter.Bus
}

// New creates a new event emitter
func New(bus adapter.Bus) *Emitter {
	return &Emitter{bus: bus}
}

// PublishInput contains parameters for publishing a medical event
type PublishInput struct {
	EventType  model.EventKind
	PatientID  string
	Specialist model.Specialist
	Urgency    model.Urgency
	Reasoning  string
}

// Publish builds a MedicalEvent and sends it to the bus
func (x *Emitter) Publish(ctx context.Context, input PublishInput) *model.EmitResult {
	event := &model.MedicalEvent{
		PatientID:  input.PatientID,
		EventType:  input.EventType,
		Specialist: input.Specialist,
		Urgency:    input.Urgency,
		Reasoning:  input.Reasoning,
		CreatedAt:  time.Now(),
		Source:     model.EventSource,
	}

	detail, err := json.Marshal(event)
	if err != nil {
		return x.failure(ctx, input, err)
	}

	eventID, err := x.bus.Publish(ctx, &adapter.BusEntry{
		Source:     model.EventSource,
		DetailType: input.Urgency.DetailType(),
		Detail:     detail,
	})
	if err != nil {
		return x.failure(ctx, input, err)
	}

	logging.From(ctx).Info("published medical event",
		"event_type", input.EventType, "patient_id", input.PatientID,
		"urgency", input.Urgency, "event_id", eventID)

	return &model.EmitResult{
		Status:     model.StatusSuccess,
		EventID:    eventID,
		EventType:  input.EventType,
		PatientID:  input.PatientID,
		Specialist: input.Specialist,
		Urgency:    input.Urgency,
		Message:    fmt.Sprintf("Evento %s criado para paciente %s", input.EventType, input.PatientID),
	}
}

func (x *Emitter) failure(ctx context.Context, input PublishInput, err error) *model.EmitResult {
	logging.From(ctx).Error("failed to publish medical event",
		"event_type", input.EventType, "patient_id", input.PatientID, "error", err)

	return &model.EmitResult{
		Status:     model.StatusError,
		EventType:  input.EventType,
		PatientID:  input.PatientID,
		Specialist: input.Specialist,
		Urgency:    input.Urgency,
		Message:    fmt.Sprintf("Erro ao criar evento: %v", err),
	}
}
