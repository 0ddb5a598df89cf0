package model

import "github.com/m-mizutani/goerr/v2"

// LabValue is a single measured value in a lab report. A missing analyte is
// indistinguishable from a zero reading once extracted; callers that care
// must check presence in LabResult.Results first.
type LabValue struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit,omitempty"`
}

// LabResult is the immutable input of one analysis invocation
type LabResult struct {
	PatientID   string              `json:"patient_id"`
	ExamDate    string              `json:"exam_date,omitempty"`
	Results     map[string]LabValue `json:"lab_results"`
	PatientInfo map[string]any      `json:"patient_info,omitempty"`
}

// Validate checks the invariants of a lab result payload
func (x *LabResult) Validate() error {
	if x.PatientID == "" {
		return goerr.Wrap(ErrValidation, "patient_id is empty")
	}
	return nil
}

// AnalysisEvent is the raw invocation payload. Lab data is either inlined or
// referenced through a bucket/object indirection that must be fetched.
type AnalysisEvent struct {
	LabData *LabResult   `json:"lab_data,omitempty"`
	Detail  *EventDetail `json:"detail,omitempty"`
}

// EventDetail carries either an object reference (lab file ingestion) or the
// fields of an already published medical event (appointment entry point).
type EventDetail struct {
	LabData *LabResult `json:"lab_data,omitempty"`
	Bucket  *BucketRef `json:"bucket,omitempty"`
	Object  *ObjectRef `json:"object,omitempty"`

	PatientID  string     `json:"patient_id,omitempty"`
	Specialist Specialist `json:"specialist,omitempty"`
	Urgency    Urgency    `json:"urgency,omitempty"`
	Reasoning  string     `json:"reasoning,omitempty"`
}

type BucketRef struct {
	Name string `json:"name"`
}

type ObjectRef struct {
	Key string `json:"key"`
}
