package appointment

import (
	"context"
	"encoding/json"

	"github.com/m-mizutani/tamarin/pkg/adapter"
	"github.com/m-mizutani/tamarin/pkg/model"
	"github.com/m-mizutani/tamarin/pkg/service/memory"
	"github.com/m-mizutani/tamarin/pkg/utils/logging"
)

// Consume reads published medical events from the bus and dispatches them
// until ctx is cancelled
func (u *UseCase) Consume(ctx context.Context, bus adapter.Bus) error {
	return bus.Subscribe(ctx, u.handleEntry)
}

func (u *UseCase) handleEntry(ctx context.Context, entry *adapter.BusEntry) error {
	logger := logging.From(ctx)

	var event model.MedicalEvent
	if err := json.Unmarshal(entry.Detail, &event); err != nil {
		// Malformed entries are acked and dropped, not retried forever
		logger.Error("failed to decode bus entry", "id", entry.ID, "error", err)
		return nil
	}

	logger.Info("processing medical event",
		"id", entry.ID, "event_type", event.EventType,
		"patient_id", event.PatientID, "urgency", event.Urgency)

	detail := &model.EventDetail{
		PatientID:  event.PatientID,
		Specialist: event.Specialist,
		Urgency:    event.Urgency,
		Reasoning:  event.Reasoning,
	}

	switch event.EventType {
	case model.EventKindAlert:
		logger.Warn("medical alert: patient requires immediate attention",
			"patient_id", event.PatientID, "specialist", event.Specialist,
			"reasoning", event.Reasoning)
		if result := u.Schedule(ctx, detail); result.Status != model.StatusSuccess {
			logger.Error("failed to schedule emergency slot",
				"patient_id", event.PatientID, "message", result.Message)
		}

	case model.EventKindAppointment:
		if result := u.Schedule(ctx, detail); result.Status != model.StatusSuccess {
			logger.Error("failed to schedule appointment",
				"patient_id", event.PatientID, "message", result.Message)
		}

	case model.EventKindReview:
		if saved := u.memory.Save(ctx, memory.SaveInput{
			PatientID: event.PatientID,
			EventType: model.EventTypeDecision,
			Data:      &event,
		}); saved.Status != model.StatusSuccess {
			logger.Error("failed to record review request",
				"patient_id", event.PatientID, "message", saved.Message)
		}

	default:
		logger.Warn("unknown event type", "event_type", event.EventType, "id", entry.ID)
	}

	return nil
}
