package events_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/tamarin/pkg/adapter"
	"github.com/m-mizutani/tamarin/pkg/model"
	"github.com/m-mizutani/tamarin/pkg/service/emitter"
	eventstool "github.com/m-mizutani/tamarin/pkg/tool/events"
	"google.golang.org/genai"
)

type mockBus struct {
	entries    []*adapter.BusEntry
	publishErr error
}

func (m *mockBus) Publish(_ context.Context, entry *adapter.BusEntry) (string, error) {
	if m.publishErr != nil {
		return "", m.publishErr
	}
	m.entries = append(m.entries, entry)
	return "evt-1", nil
}

func (m *mockBus) Subscribe(_ context.Context, _ adapter.BusHandler) error { return nil }
func (m *mockBus) Close() error                                            { return nil }

func TestSpec(t *testing.T) {
	tool := eventstool.New(emitter.New(&mockBus{}))

	spec := tool.Spec()
	gt.Equal(t, len(spec.FunctionDeclarations), 1)
	gt.Equal(t, spec.FunctionDeclarations[0].Name, "create_event")

	params := spec.FunctionDeclarations[0].Parameters
	gt.Equal(t, len(params.Required), 5)
	gt.Equal(t, len(params.Properties["event_type"].Enum), 3)
	gt.Equal(t, len(params.Properties["specialist"].Enum), 4)
	gt.Equal(t, len(params.Properties["urgency"].Enum), 3)
}

func TestCreateEvent(t *testing.T) {
	bus := &mockBus{}
	tool := eventstool.New(emitter.New(bus))

	resp, err := tool.Execute(context.Background(), genai.FunctionCall{
		Name: "create_event",
		Args: map[string]any{
			"event_type": "appointment",
			"patient_id": "P1",
			"specialist": "cardiologista",
			"urgency":    "priority",
			"reasoning":  "elevated troponin on last panel",
		},
	})
	gt.NoError(t, err)
	gt.Equal(t, resp.Name, "create_event")
	gt.Equal(t, resp.Response["status"], "success")
	gt.Equal(t, resp.Response["event_id"], "evt-1")

	gt.Equal(t, len(bus.entries), 1)
	gt.Equal(t, bus.entries[0].DetailType, "Medical Priority Appointment")

	var event model.MedicalEvent
	gt.NoError(t, json.Unmarshal(bus.entries[0].Detail, &event))
	gt.Equal(t, event.PatientID, "P1")
	gt.Equal(t, event.Specialist, model.SpecialistCardiologist)
	gt.Equal(t, event.Reasoning, "elevated troponin on last panel")
}

func TestCreateEventBusFailure(t *testing.T) {
	tool := eventstool.New(emitter.New(&mockBus{publishErr: goerr.New("stream gone")}))

	// The publish failure comes back to the reasoner as a result, not an error
	resp, err := tool.Execute(context.Background(), genai.FunctionCall{
		Name: "create_event",
		Args: map[string]any{
			"event_type": "alert",
			"patient_id": "P1",
			"specialist": "endocrinologista",
			"urgency":    "urgent",
			"reasoning":  "critical glucose",
		},
	})
	gt.NoError(t, err)
	gt.Equal(t, resp.Response["status"], "error")
	gt.Equal(t, resp.Response["patient_id"], "P1")
}

func TestUnknownFunction(t *testing.T) {
	tool := eventstool.New(emitter.New(&mockBus{}))

	_, err := tool.Execute(context.Background(), genai.FunctionCall{Name: "delete_event"})
	gt.Error(t, err)
}
