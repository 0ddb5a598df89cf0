package medical

import (
	"bytes"
	"context"
	_ "embed"
	"strings"
	"text/template"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/tamarin/pkg/adapter"
	"github.com/m-mizutani/tamarin/pkg/model"
	"github.com/m-mizutani/tamarin/pkg/tool"
	"github.com/m-mizutani/tamarin/pkg/utils/logging"
	"google.golang.org/genai"
)

//go:embed prompt/system.md
var systemPromptRaw string

const maxIterations = 16

// Agent is the reasoner: it analyzes a non-critical lab result against the
// patient's history through a Gemini function-call loop with capability-
// scoped tools.
type Agent struct {
	gemini adapter.Gemini
	tools  *tool.Registry
}

// New creates a new medical agent with the given tools
func New(gemini adapter.Gemini, tools *tool.Registry) *Agent {
	return &Agent{
		gemini: gemini,
		tools:  tools,
	}
}

// Analyze hands a lab result and the retrieved history to the model and
// runs the tool loop until it produces a final text response
func (a *Agent) Analyze(ctx context.Context, lab *model.LabResult, history *model.QueryResult) (string, error) {
	systemPrompt := a.buildSystemPrompt(ctx)
	userPrompt, err := buildUserPrompt(lab, history)
	if err != nil {
		return "", err
	}

	contents := []*genai.Content{
		genai.NewContentFromText(userPrompt, genai.RoleUser),
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, ""),
		Tools:             a.tools.Specs(),
	}

	logger := logging.From(ctx)

	for i := 0; i < maxIterations; i++ {
		resp, err := a.gemini.GenerateContent(ctx, contents, config)
		if err != nil {
			return "", goerr.Wrap(err, "failed to generate content")
		}

		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
			return "", goerr.Wrap(model.ErrDelegateFailure, "empty response from model")
		}

		candidate := resp.Candidates[0]
		contents = append(contents, candidate.Content)

		var functionResponses []*genai.Part
		for _, part := range candidate.Content.Parts {
			if part.FunctionCall == nil {
				continue
			}

			logger.Debug("reasoner tool call",
				"name", part.FunctionCall.Name, "args", part.FunctionCall.Args)

			funcResp, err := a.tools.Execute(ctx, *part.FunctionCall)
			if err != nil {
				// Feed the failure back to the model instead of aborting
				funcResp = &genai.FunctionResponse{
					Name:     part.FunctionCall.Name,
					Response: map[string]any{"status": "error", "message": err.Error()},
				}
			}
			functionResponses = append(functionResponses, &genai.Part{FunctionResponse: funcResp})
		}

		if len(functionResponses) > 0 {
			contents = append(contents, &genai.Content{
				Role:  genai.RoleUser,
				Parts: functionResponses,
			})
			continue
		}

		var textParts []string
		for _, part := range candidate.Content.Parts {
			if part.Text != "" {
				textParts = append(textParts, part.Text)
			}
		}

		logger.Info("reasoner finished",
			"patient_id", lab.PatientID, "iterations", i+1,
			"tool_calls", len(a.tools.Audit()))
		return strings.Join(textParts, "\n"), nil
	}

	return "", goerr.Wrap(model.ErrDelegateFailure, "tool loop did not converge",
		goerr.V("max_iterations", maxIterations))
}

type systemPromptData struct {
	ToolPrompts string
}

func (a *Agent) buildSystemPrompt(ctx context.Context) string {
	tmpl, err := template.New("system").Parse(systemPromptRaw)
	if err != nil {
		return systemPromptRaw
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, systemPromptData{ToolPrompts: a.tools.Prompts(ctx)}); err != nil {
		return systemPromptRaw
	}

	return buf.String()
}
