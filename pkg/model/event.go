package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// EventSource is the fixed source tag attached to every published event
const EventSource = "medical.analysis"

type EventKind string

const (
	EventKindAppointment EventKind = "appointment"
	EventKindAlert       EventKind = "alert"
	EventKindReview      EventKind = "review"
)

// Validate checks if the event kind is valid
func (k EventKind) Validate() error {
	switch k {
	case EventKindAppointment, EventKindAlert, EventKindReview:
		return nil
	default:
		return goerr.Wrap(ErrValidation, "invalid event type", goerr.V("event_type", k))
	}
}

type Urgency string

const (
	UrgencyUrgent   Urgency = "urgent"
	UrgencyPriority Urgency = "priority"
	UrgencyRoutine  Urgency = "routine"
)

// DetailType maps the urgency to the bus-level detail type label
func (u Urgency) DetailType() string {
	switch u {
	case UrgencyUrgent:
		return "Medical Emergency Alert"
	case UrgencyPriority:
		return "Medical Priority Appointment"
	case UrgencyRoutine:
		return "Medical Routine Appointment"
	default:
		return "Medical General Event"
	}
}

// ScheduleOffset returns how far in the future an appointment for this
// urgency is booked. Unknown urgencies fall back to the routine window.
func (u Urgency) ScheduleOffset() time.Duration {
	switch u {
	case UrgencyUrgent:
		return 2 * time.Hour
	case UrgencyPriority:
		return 3 * 24 * time.Hour
	default:
		return 30 * 24 * time.Hour
	}
}

// MedicalEvent is published to the downstream bus, never stored by the core
type MedicalEvent struct {
	PatientID  string     `json:"patient_id"`
	EventType  EventKind  `json:"event_type"`
	Specialist Specialist `json:"specialist"`
	Urgency    Urgency    `json:"urgency"`
	Reasoning  string     `json:"reasoning"`
	CreatedAt  time.Time  `json:"created_at"`
	Source     string     `json:"source"`
}
