package memory

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/tamarin/pkg/model"
	"github.com/m-mizutani/tamarin/pkg/service/memory"
	"github.com/m-mizutani/tamarin/pkg/tool"
	"google.golang.org/genai"
)

// Memory exposes the patient memory store to the reasoner: one read
// operation and one append operation, nothing else.
type Memory struct {
	store *memory.Store
}

// New creates the memory tool
func New(store *memory.Store) *Memory {
	return &Memory{store: store}
}

type getInput struct {
	PatientID string `json:"patient_id"`
	DaysBack  int    `json:"days_back"`
}

type saveInput struct {
	PatientID string         `json:"patient_id"`
	EventType string         `json:"event_type"`
	Data      map[string]any `json:"data"`
}

func (x *Memory) Spec() *genai.Tool {
	return &genai.Tool{
		FunctionDeclarations: []*genai.FunctionDeclaration{
			{
				Name:        "get_patient_memory",
				Description: "Retrieve the patient's recent history: past lab results, appointments, decisions and alerts, organized by type.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"patient_id": {
							Type:        genai.TypeString,
							Description: "The patient identifier",
						},
						"days_back": {
							Type:        genai.TypeInteger,
							Description: "How many days of history to retrieve (default: 90)",
						},
					},
					Required: []string{"patient_id"},
				},
			},
			{
				Name:        "save_to_memory",
				Description: "Append an analysis, decision or observation to the patient's memory for future reference.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"patient_id": {
							Type:        genai.TypeString,
							Description: "The patient identifier",
						},
						"event_type": {
							Type:        genai.TypeString,
							Description: "Type of the record (lab_result, decision, appointment_created, alert)",
						},
						"data": {
							Type:        genai.TypeObject,
							Description: "The data to save",
						},
					},
					Required: []string{"patient_id", "event_type", "data"},
				},
			},
		},
	}
}

func (x *Memory) Execute(ctx context.Context, fc genai.FunctionCall) (*genai.FunctionResponse, error) {
	switch fc.Name {
	case "get_patient_memory":
		var input getInput
		if err := tool.ParseArgs(fc, &input); err != nil {
			return nil, err
		}
		result := x.store.Query(ctx, input.PatientID, input.DaysBack)
		return tool.NewResponse(fc.Name, result)

	case "save_to_memory":
		var input saveInput
		if err := tool.ParseArgs(fc, &input); err != nil {
			return nil, err
		}
		result := x.store.Save(ctx, memory.SaveInput{
			PatientID: input.PatientID,
			EventType: model.EventType(input.EventType),
			Data:      input.Data,
		})
		return tool.NewResponse(fc.Name, result)

	default:
		return nil, goerr.New("unknown function", goerr.V("name", fc.Name))
	}
}

func (x *Memory) Prompt(ctx context.Context) string {
	return "" +
		"- get_patient_memory: retrieves the patient's history and memory\n" +
		"- save_to_memory: saves important decisions and observations"
}
