package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/tamarin/pkg/adapter"
	"github.com/m-mizutani/tamarin/pkg/model"
	"github.com/m-mizutani/tamarin/pkg/service/emitter"
	"github.com/m-mizutani/tamarin/pkg/service/memory"
	"github.com/m-mizutani/tamarin/pkg/utils/logging"
)

// Reasoner is the external, non-deterministic collaborator invoked when no
// critical condition is found. The orchestrator does not adjudicate its
// free-text output.
type Reasoner interface {
	Analyze(ctx context.Context, lab *model.LabResult, history *model.QueryResult) (string, error)
}

// UseCase is the top-level analysis pipeline: critical-value gate first,
// reasoner delegation only on the non-critical path.
type UseCase struct {
	memory    *memory.Store
	emitter   *emitter.Emitter
	storage   adapter.Storage
	reasoner  Reasoner
	evaluator *Evaluator
}

// Option is a functional option for UseCase
type Option func(*UseCase)

// WithEvaluator replaces the built-in critical-value rules
func WithEvaluator(e *Evaluator) Option {
	return func(uc *UseCase) {
		uc.evaluator = e
	}
}

// New creates a new analysis UseCase instance
func New(
	mem *memory.Store,
	emit *emitter.Emitter,
	storage adapter.Storage,
	reasoner Reasoner,
	opts ...Option,
) *UseCase {
	uc := &UseCase{
		memory:    mem,
		emitter:   emit,
		storage:   storage,
		reasoner:  reasoner,
		evaluator: NewEvaluator(),
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}

// Analyze runs one lab-result event through the pipeline. It always returns
// a well-formed result: failures anywhere are converted into an error
// result carrying the best-known patient ID.
func (u *UseCase) Analyze(ctx context.Context, event *model.AnalysisEvent) (result *model.AnalysisResult) {
	patientID := "unknown"

	defer func() {
		if r := recover(); r != nil {
			logging.From(ctx).Error("panic in analysis pipeline", "recovered", r)
			result = &model.AnalysisResult{
				Status:    model.StatusError,
				PatientID: patientID,
				Message:   fmt.Sprintf("Erro na análise médica: %v", r),
			}
		}
	}()

	lab, err := u.resolveLabData(ctx, event)
	if err != nil {
		return &model.AnalysisResult{
			Status:    model.StatusError,
			PatientID: patientID,
			Message:   fmt.Sprintf("Erro na análise médica: %v", err),
		}
	}
	if lab == nil {
		return &model.AnalysisResult{
			Status:    model.StatusError,
			PatientID: patientID,
			Message:   "Dados laboratoriais não encontrados no evento",
		}
	}

	if lab.PatientID == "" {
		return &model.AnalysisResult{
			Status:    model.StatusError,
			PatientID: patientID,
			Message:   "ID do paciente não encontrado",
		}
	}
	patientID = lab.PatientID

	assessment := u.evaluator.Evaluate(lab.Results)
	if assessment.IsCritical {
		return u.handleCritical(ctx, lab, assessment)
	}

	return u.delegate(ctx, lab)
}

// resolveLabData extracts the lab data from the payload, fetching the
// referenced object when the payload is an indirection
func (u *UseCase) resolveLabData(ctx context.Context, event *model.AnalysisEvent) (*model.LabResult, error) {
	if event == nil {
		return nil, nil
	}
	if event.LabData != nil {
		return event.LabData, nil
	}
	if event.Detail == nil {
		return nil, nil
	}
	if event.Detail.LabData != nil {
		return event.Detail.LabData, nil
	}
	if event.Detail.Bucket == nil || event.Detail.Object == nil {
		return nil, nil
	}

	logging.From(ctx).Info("retrieving lab result object",
		"bucket", event.Detail.Bucket.Name, "key", event.Detail.Object.Key)

	reader, err := u.storage.Get(ctx, event.Detail.Bucket.Name, event.Detail.Object.Key)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	raw, err := io.ReadAll(reader)
	if err != nil {
		return nil, goerr.Wrap(model.ErrUpstreamUnavailable, "failed to read lab result object",
			goerr.V("key", event.Detail.Object.Key), goerr.V("cause", err.Error()))
	}

	var lab model.LabResult
	if err := json.Unmarshal(raw, &lab); err != nil {
		return nil, goerr.Wrap(model.ErrNoLabData, "failed to parse lab result object",
			goerr.V("key", event.Detail.Object.Key), goerr.V("cause", err.Error()))
	}

	return &lab, nil
}

// handleCritical is the fast deterministic path: persist the decision,
// publish an urgent alert, return immediately. The reasoner is never called
// here.
func (u *UseCase) handleCritical(ctx context.Context, lab *model.LabResult, assessment *model.CriticalAssessment) *model.AnalysisResult {
	logger := logging.From(ctx)
	logger.Warn("critical values detected",
		"patient_id", lab.PatientID, "specialist", assessment.Specialist)

	if saved := u.memory.Save(ctx, memory.SaveInput{
		PatientID: lab.PatientID,
		EventType: model.EventTypeCriticalDecision,
		Data:      assessment,
	}); saved.Status != model.StatusSuccess {
		logger.Error("failed to record critical decision",
			"patient_id", lab.PatientID, "message", saved.Message)
	}

	if emitted := u.emitter.Publish(ctx, emitter.PublishInput{
		EventType:  model.EventKindAlert,
		PatientID:  lab.PatientID,
		Specialist: assessment.Specialist,
		Urgency:    model.UrgencyUrgent,
		Reasoning:  assessment.Reasoning,
	}); emitted.Status != model.StatusSuccess {
		// A dropped emergency alert must be visible to the caller
		return &model.AnalysisResult{
			Status:    model.StatusError,
			PatientID: lab.PatientID,
			Action:    assessment.Action,
			Reasoning: assessment.Reasoning,
			Message:   emitted.Message,
		}
	}

	return &model.AnalysisResult{
		Status:    model.StatusCriticalHandled,
		PatientID: lab.PatientID,
		Action:    assessment.Action,
		Reasoning: assessment.Reasoning,
	}
}

// delegate fetches recent memory and hands control to the reasoner
func (u *UseCase) delegate(ctx context.Context, lab *model.LabResult) *model.AnalysisResult {
	history := u.memory.Query(ctx, lab.PatientID, 0)
	if history.Status != model.StatusSuccess {
		// No memory available differs from empty history; the reasoner is
		// told so through the query result
		logging.From(ctx).Warn("patient memory unavailable", "patient_id", lab.PatientID)
	}

	response, err := u.reasoner.Analyze(ctx, lab, history)
	if err != nil {
		return &model.AnalysisResult{
			Status:    model.StatusError,
			PatientID: lab.PatientID,
			Message:   fmt.Sprintf("Erro na análise médica: %v", goerr.Wrap(model.ErrDelegateFailure, err.Error())),
		}
	}

	return &model.AnalysisResult{
		Status:            model.StatusSuccess,
		PatientID:         lab.PatientID,
		AgentResponse:     response,
		AnalysisTimestamp: lab.ExamDate,
	}
}
