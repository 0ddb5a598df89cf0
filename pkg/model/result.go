package model

// Status is the outcome tag of every invocation result. Callers always
// receive a well-formed result; nothing in the pipeline terminates an
// invocation abnormally.
type Status string

const (
	StatusSuccess         Status = "success"
	StatusError           Status = "error"
	StatusCriticalHandled Status = "critical_handled"
)

// SaveResult reports the outcome of a memory write. The save path never
// raises to its caller; failures are carried here as a status.
type SaveResult struct {
	Status   Status   `json:"status"`
	RecordID RecordID `json:"record_id,omitempty"`
	Message  string   `json:"message,omitempty"`
}

// QueryResult wraps an organized history with the store's status. An error
// status means "no memory available", which callers must not confuse with a
// genuinely empty history.
type QueryResult struct {
	Status    Status   `json:"status"`
	PatientID string   `json:"patient_id"`
	Memory    *History `json:"memory,omitempty"`
	Message   string   `json:"message,omitempty"`
}

// EmitResult reports the outcome of a bus publish. On failure the original
// parameters are kept for diagnosis.
type EmitResult struct {
	Status     Status     `json:"status"`
	EventID    string     `json:"event_id,omitempty"`
	EventType  EventKind  `json:"event_type"`
	PatientID  string     `json:"patient_id"`
	Specialist Specialist `json:"specialist,omitempty"`
	Urgency    Urgency    `json:"urgency,omitempty"`
	Message    string     `json:"message,omitempty"`
}

// AnalysisResult is the top-level envelope of one analysis invocation
type AnalysisResult struct {
	Status            Status `json:"status"`
	PatientID         string `json:"patient_id,omitempty"`
	Action            Action `json:"action,omitempty"`
	Reasoning         string `json:"reasoning,omitempty"`
	AgentResponse     string `json:"agent_response,omitempty"`
	AnalysisTimestamp string `json:"analysis_timestamp,omitempty"`
	Message           string `json:"message,omitempty"`
}

// AppointmentResult is the envelope of the appointment entry point
type AppointmentResult struct {
	Status      Status       `json:"status"`
	Message     string       `json:"message,omitempty"`
	Appointment *Appointment `json:"appointment,omitempty"`
	PatientID   string       `json:"patient_id,omitempty"`
}
