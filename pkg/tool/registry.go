package tool

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/genai"
)

var errToolNotFound = goerr.New("tool not found")

// Registry manages the tools available to the reasoner. It also records
// every executed call as an audit trail.
type Registry struct {
	tools     map[string]Tool
	allTools  []Tool
	toolSpecs map[*genai.Tool]bool

	calls []*AuditEntry
}

// AuditEntry records one tool invocation made by the reasoner
type AuditEntry struct {
	Name string
	Args map[string]any
}

// New creates a new tool registry with the given tools
func New(tools ...Tool) *Registry {
	r := &Registry{
		tools:     make(map[string]Tool),
		allTools:  tools,
		toolSpecs: make(map[*genai.Tool]bool),
	}

	for _, t := range tools {
		spec := t.Spec()
		if spec != nil && len(spec.FunctionDeclarations) > 0 {
			r.toolSpecs[spec] = true
			for _, fd := range spec.FunctionDeclarations {
				r.tools[fd.Name] = t
			}
		}
	}

	return r
}

// Specs returns all tool specifications for Gemini function calling
func (r *Registry) Specs() []*genai.Tool {
	specs := make([]*genai.Tool, 0, len(r.toolSpecs))
	for spec := range r.toolSpecs {
		specs = append(specs, spec)
	}
	return specs
}

// Prompts returns all tool prompts concatenated
func (r *Registry) Prompts(ctx context.Context) string {
	var prompts []string
	for _, t := range r.allTools {
		if prompt := t.Prompt(ctx); prompt != "" {
			prompts = append(prompts, prompt)
		}
	}
	return strings.Join(prompts, "\n\n")
}

// Execute runs the tool with the given function call
func (r *Registry) Execute(ctx context.Context, fc genai.FunctionCall) (*genai.FunctionResponse, error) {
	tool, ok := r.tools[fc.Name]
	if !ok {
		return nil, goerr.Wrap(errToolNotFound, "tool not found", goerr.V("name", fc.Name))
	}

	r.calls = append(r.calls, &AuditEntry{Name: fc.Name, Args: fc.Args})

	return tool.Execute(ctx, fc)
}

// Audit returns the recorded tool calls of this session
func (r *Registry) Audit() []*AuditEntry {
	return r.calls
}
