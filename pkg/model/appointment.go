package model

import (
	"fmt"
	"time"
)

type AppointmentID string

// NewAppointmentID derives a deterministic appointment ID from the patient
// ID and the creation instant
func NewAppointmentID(patientID string, now time.Time) AppointmentID {
	return AppointmentID(fmt.Sprintf("APT-%s-%d", patientID, now.Unix()))
}

type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
)

// Appointment is created once by the scheduler and never mutated afterward.
// Status transitions are future work.
type Appointment struct {
	AppointmentID AppointmentID     `json:"appointment_id"`
	PatientID     string            `json:"patient_id"`
	Specialist    Specialist        `json:"specialist"`
	Urgency       Urgency           `json:"urgency"`
	ScheduledDate time.Time         `json:"scheduled_date"`
	Reasoning     string            `json:"reasoning,omitempty"`
	Status        AppointmentStatus `json:"status"`
	CreatedAt     time.Time         `json:"created_at"`
}
