package model

import "github.com/m-mizutani/goerr/v2"

type Action string

const (
	ActionEmergencyAppointment Action = "emergency_appointment"
)

type Specialist string

const (
	SpecialistEndocrinologist Specialist = "endocrinologista"
	SpecialistCardiologist    Specialist = "cardiologista"
	SpecialistNephrologist    Specialist = "nefrologista"
	SpecialistGeneralist      Specialist = "clinico_geral"
)

// Validate checks if the specialist is valid
func (s Specialist) Validate() error {
	switch s {
	case SpecialistEndocrinologist, SpecialistCardiologist, SpecialistNephrologist, SpecialistGeneralist:
		return nil
	default:
		return goerr.Wrap(ErrValidation, "invalid specialist", goerr.V("specialist", s))
	}
}

// CriticalAssessment is the outcome of the deterministic critical-value
// check. Produced fresh per evaluation and never mutated.
type CriticalAssessment struct {
	IsCritical bool       `json:"is_critical"`
	Action     Action     `json:"action,omitempty"`
	Specialist Specialist `json:"specialist,omitempty"`
	Reasoning  string     `json:"reasoning,omitempty"`
}
