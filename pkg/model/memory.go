package model

import (
	"fmt"
	"time"
)

type RecordID string

// NewRecordID derives a record ID from the patient ID and the creation
// instant. Uniqueness is assumed at second granularity, matching the
// append-only write path that never checks for overwrites.
func NewRecordID(patientID string, now time.Time) RecordID {
	return RecordID(fmt.Sprintf("%s_%d", patientID, now.Unix()))
}

type EventType string

const (
	EventTypeLabResult          EventType = "lab_result"
	EventTypeAppointmentCreated EventType = "appointment_created"
	EventTypeCriticalDecision   EventType = "critical_decision"
	EventTypeDecision           EventType = "decision"
	EventTypeAlert              EventType = "alert"
)

// Retention periods applied as TTL on memory records. The store's own
// reaper deletes expired records; the application never does.
const (
	MemoryTTL      = 7 * 365 * 24 * time.Hour
	AppointmentTTL = 365 * 24 * time.Hour
)

// MemoryRecord is one entry of a patient's append-only history
type MemoryRecord struct {
	PatientID string    `json:"patient_id" firestore:"patient_id"`
	RecordID  RecordID  `json:"record_id" firestore:"record_id"`
	EventType EventType `json:"event_type" firestore:"event_type"`
	Data      any       `json:"data" firestore:"data"`
	CreatedAt time.Time `json:"created_at" firestore:"created_at"`
	ExpiresAt time.Time `json:"ttl" firestore:"expires_at"`
}

// History is the time-windowed, organized view of a patient's memory.
// Records are bucketed by event type; types outside the known set land in
// Other instead of being dropped.
type History struct {
	PatientID    string          `json:"patient_id"`
	LabResults   []*MemoryRecord `json:"lab_results"`
	Appointments []*MemoryRecord `json:"appointments"`
	Decisions    []*MemoryRecord `json:"decisions"`
	Alerts       []*MemoryRecord `json:"alerts"`
	Other        []*MemoryRecord `json:"other,omitempty"`
	TotalRecords int             `json:"total_records"`
	DateRange    string          `json:"date_range"`
}

// Add buckets a record into the organized view
func (h *History) Add(r *MemoryRecord) {
	switch r.EventType {
	case EventTypeLabResult:
		h.LabResults = append(h.LabResults, r)
	case EventTypeAppointmentCreated:
		h.Appointments = append(h.Appointments, r)
	case EventTypeCriticalDecision, EventTypeDecision:
		h.Decisions = append(h.Decisions, r)
	case EventTypeAlert:
		h.Alerts = append(h.Alerts, r)
	default:
		h.Other = append(h.Other, r)
	}
	h.TotalRecords++
}
