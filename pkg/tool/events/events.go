package events

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/tamarin/pkg/model"
	"github.com/m-mizutani/tamarin/pkg/service/emitter"
	"github.com/m-mizutani/tamarin/pkg/tool"
	"google.golang.org/genai"
)

// Events exposes the event emitter to the reasoner
type Events struct {
	emitter *emitter.Emitter
}

// New creates the create_event tool
func New(e *emitter.Emitter) *Events {
	return &Events{emitter: e}
}

type createInput struct {
	EventType  string `json:"event_type"`
	PatientID  string `json:"patient_id"`
	Specialist string `json:"specialist"`
	Urgency    string `json:"urgency"`
	Reasoning  string `json:"reasoning"`
}

func (x *Events) Spec() *genai.Tool {
	return &genai.Tool{
		FunctionDeclarations: []*genai.FunctionDeclaration{
			{
				Name:        "create_event",
				Description: "Create a medical event for hospital workflows: appointments, urgent alerts, and protocol reviews.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"event_type": {
							Type:        genai.TypeString,
							Description: "Type of medical event to create",
							Enum:        []string{"appointment", "alert", "review"},
						},
						"patient_id": {
							Type:        genai.TypeString,
							Description: "Patient identifier",
						},
						"specialist": {
							Type:        genai.TypeString,
							Description: "Recommended specialist for the patient",
							Enum:        []string{"endocrinologista", "cardiologista", "nefrologista", "clinico_geral"},
						},
						"urgency": {
							Type:        genai.TypeString,
							Description: "Urgency level of the event",
							Enum:        []string{"routine", "priority", "urgent"},
						},
						"reasoning": {
							Type:        genai.TypeString,
							Description: "Justification for the decision and recommendation",
						},
					},
					Required: []string{"event_type", "patient_id", "specialist", "urgency", "reasoning"},
				},
			},
		},
	}
}

func (x *Events) Execute(ctx context.Context, fc genai.FunctionCall) (*genai.FunctionResponse, error) {
	if fc.Name != "create_event" {
		return nil, goerr.New("unknown function", goerr.V("name", fc.Name))
	}

	var input createInput
	if err := tool.ParseArgs(fc, &input); err != nil {
		return nil, err
	}

	result := x.emitter.Publish(ctx, emitter.PublishInput{
		EventType:  model.EventKind(input.EventType),
		PatientID:  input.PatientID,
		Specialist: model.Specialist(input.Specialist),
		Urgency:    model.Urgency(input.Urgency),
		Reasoning:  input.Reasoning,
	})

	return tool.NewResponse(fc.Name, result)
}

func (x *Events) Prompt(ctx context.Context) string {
	return "- create_event: creates medical events (appointments, alerts, reviews)"
}
