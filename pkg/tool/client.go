package tool

import (
	"encoding/json"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/tamarin/pkg/service/emitter"
	"github.com/m-mizutani/tamarin/pkg/service/memory"
	"google.golang.org/genai"
)

// Client contains shared resources that tools can use
type Client struct {
	Memory  *memory.Store
	Emitter *emitter.Emitter
}

// ParseArgs decodes the function call arguments into dst
func ParseArgs(fc genai.FunctionCall, dst any) error {
	raw, err := json.Marshal(fc.Args)
	if err != nil {
		return goerr.Wrap(err, "failed to marshal function call args", goerr.V("name", fc.Name))
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return goerr.Wrap(err, "failed to parse function call args", goerr.V("name", fc.Name))
	}
	return nil
}

// NewResponse converts a result value into a function response
func NewResponse(name string, result any) (*genai.FunctionResponse, error) {
	raw, err := json.Marshal(result)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to marshal tool result", goerr.V("name", name))
	}

	var response map[string]any
	if err := json.Unmarshal(raw, &response); err != nil {
		return nil, goerr.Wrap(err, "failed to convert tool result", goerr.V("name", name))
	}

	return &genai.FunctionResponse{
		Name:     name,
		Response: response,
	}, nil
}
