// Package tools wraps the data access layer (pkg/store) as agent-invocable
// tools with struct-validated arguments (each tool's JSON schema is what
// the LLM is shown) and structured, non-throwing error returns.
package tools

import (
	"context"
	"encoding/json"
)

// ErrorKind classifies a tool-level failure surfaced as a value to the
// agent loop, never as an exception.
type ErrorKind string

const (
	ErrorKindNotFound    ErrorKind = "not_found"
	ErrorKindQueryFailed ErrorKind = "query_failed"
	ErrorKindInvalidArgs ErrorKind = "invalid_args"
)

// ToolError is the structured value a tool returns on failure. It is
// always JSON-serialized into the Content of a ToolResult with IsError
// set — the agent LLM reads and reasons about it, it is never thrown.
type ToolError struct {
	ErrorKind  ErrorKind      `json:"error_kind"`
	Message    string         `json:"message"`
	Parameters map[string]any `json:"parameters,omitempty"`
	Suggestion string         `json:"suggestion,omitempty"`
}

func (e *ToolError) Error() string { return e.Message }

// Definition is the contract surface (name, description, schema) visible
// to the LLM for a single tool.
type Definition struct {
	Name             string
	Description      string
	ParametersSchema string // JSON Schema
}

// Call is a single tool invocation requested by the LLM.
type Call struct {
	ID        string
	Name      string
	Arguments json.RawMessage
}

// Result is the outcome of executing a Call. Content is always a
// JSON-encoded string: either the tool's successful output or a
// marshaled ToolError.
type Result struct {
	CallID  string
	Name    string
	Content string
	IsError bool
}

// Handler implements one tool's behavior. It returns either a
// JSON-serializable success value or a *ToolError — it must never panic
// or otherwise escape as an exception into the agent loop.
type Handler func(ctx context.Context, args json.RawMessage) (any, *ToolError)
