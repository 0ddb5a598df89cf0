package appointment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/m-mizutani/tamarin/pkg/model"
	"github.com/m-mizutani/tamarin/pkg/service/memory"
	"github.com/m-mizutani/tamarin/pkg/utils/logging"
)

// UseCase schedules appointments from consumed medical events
type UseCase struct {
	memory *memory.Store
}

// New creates a new appointment UseCase instance
func New(mem *memory.Store) *UseCase {
	return &UseCase{memory: mem}
}

// Schedule books an appointment from an event detail. The appointment is
// considered scheduled even when the tracking record write fails: the
// persistence is a best-effort audit trail, not a transaction.
func (u *UseCase) Schedule(ctx context.Context, detail *model.EventDetail) *model.AppointmentResult {
	var missing []string
	if detail.PatientID == "" {
		missing = append(missing, "patient_id")
	}
	if detail.Specialist == "" {
		missing = append(missing, "specialist")
	}
	if detail.Urgency == "" {
		missing = append(missing, "urgency")
	}
	if len(missing) > 0 {
		return &model.AppointmentResult{
			Status:    model.StatusError,
			Message:   "Missing required fields: " + strings.Join(missing, ", "),
			PatientID: detail.PatientID,
		}
	}

	now := time.Now()
	appointment := &model.Appointment{
		AppointmentID: model.NewAppointmentID(detail.PatientID, now),
		PatientID:     detail.PatientID,
		Specialist:    detail.Specialist,
		Urgency:       detail.Urgency,
		ScheduledDate: now.Add(detail.Urgency.ScheduleOffset()),
		Reasoning:     detail.Reasoning,
		Status:        model.AppointmentStatusScheduled,
		CreatedAt:     now,
	}

	logger := logging.From(ctx)
	logger.Info("creating appointment",
		"appointment_id", appointment.AppointmentID,
		"patient_id", appointment.PatientID,
		"specialist", appointment.Specialist,
		"urgency", appointment.Urgency,
		"scheduled_date", appointment.ScheduledDate)

	if saved := u.memory.Save(ctx, memory.SaveInput{
		PatientID: appointment.PatientID,
		EventType: model.EventTypeAppointmentCreated,
		Data:      appointment,
		RecordID:  model.RecordID(fmt.Sprintf("appointment_%s", appointment.AppointmentID)),
		TTL:       model.AppointmentTTL,
	}); saved.Status != model.StatusSuccess {
		// Primary result is independent of the tracking write
		logger.Warn("failed to save appointment tracking record",
			"appointment_id", appointment.AppointmentID, "message", saved.Message)
	}

	return &model.AppointmentResult{
		Status:      model.StatusSuccess,
		Message:     "Appointment created successfully",
		Appointment: appointment,
	}
}
