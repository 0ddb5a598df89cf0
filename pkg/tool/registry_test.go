package tool_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/tamarin/pkg/tool"
	"google.golang.org/genai"
)

type stubTool struct {
	name     string
	prompt   string
	executed []genai.FunctionCall
}

func (x *stubTool) Spec() *genai.Tool {
	return &genai.Tool{
		FunctionDeclarations: []*genai.FunctionDeclaration{
			{Name: x.name},
		},
	}
}

func (x *stubTool) Execute(_ context.Context, fc genai.FunctionCall) (*genai.FunctionResponse, error) {
	x.executed = append(x.executed, fc)
	return &genai.FunctionResponse{
		Name:     fc.Name,
		Response: map[string]any{"status": "success"},
	}, nil
}

func (x *stubTool) Prompt(_ context.Context) string { return x.prompt }

func TestRegistryDispatch(t *testing.T) {
	first := &stubTool{name: "first_op", prompt: "- first_op: does the first thing"}
	second := &stubTool{name: "second_op", prompt: "- second_op: does the second thing"}
	registry := tool.New(first, second)
	ctx := context.Background()

	gt.Equal(t, len(registry.Specs()), 2)

	resp, err := registry.Execute(ctx, genai.FunctionCall{
		Name: "second_op",
		Args: map[string]any{"key": "value"},
	})
	gt.NoError(t, err)
	gt.Equal(t, resp.Name, "second_op")
	gt.Equal(t, len(first.executed), 0)
	gt.Equal(t, len(second.executed), 1)
}

func TestRegistryUnknownTool(t *testing.T) {
	registry := tool.New(&stubTool{name: "first_op"})

	_, err := registry.Execute(context.Background(), genai.FunctionCall{Name: "missing_op"})
	gt.Error(t, err)

	// An unresolved call must not appear in the audit trail
	gt.Equal(t, len(registry.Audit()), 0)
}

func TestRegistryAudit(t *testing.T) {
	registry := tool.New(&stubTool{name: "first_op"})
	ctx := context.Background()

	_, err := registry.Execute(ctx, genai.FunctionCall{
		Name: "first_op",
		Args: map[string]any{"patient_id": "P1"},
	})
	gt.NoError(t, err)
	_, err = registry.Execute(ctx, genai.FunctionCall{Name: "first_op"})
	gt.NoError(t, err)

	audit := registry.Audit()
	gt.Equal(t, len(audit), 2)
	gt.Equal(t, audit[0].Name, "first_op")
	gt.Equal(t, audit[0].Args["patient_id"], "P1")
}

func TestRegistryPrompts(t *testing.T) {
	registry := tool.New(
		&stubTool{name: "first_op", prompt: "- first_op: does the first thing"},
		&stubTool{name: "second_op"},
	)

	prompts := registry.Prompts(context.Background())
	gt.S(t, prompts).Contains("first_op")
	// Tools without a prompt contribute nothing
	gt.True(t, prompts == "- first_op: does the first thing")
}
