package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/flightops/skymarshal/pkg/store"
)

var argsValidator = validator.New()

type registeredTool struct {
	definition Definition
	handler    Handler
}

// Registry holds the full set of tools, thread-safe for concurrent reads
// from the per-agent goroutines. Register is the only mutation point;
// NewBuiltinRegistry registers every tool before returning, and the
// agents only read from the registry.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]registeredTool
}

// NewRegistry builds an empty registry. Use Register to populate it, or
// NewBuiltinRegistry for the full operational tool set.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]registeredTool)}
}

// Register adds a tool. Re-registering an existing name overwrites it.
func (r *Registry) Register(def Definition, handler Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[def.Name] = registeredTool{definition: def, handler: handler}
}

// Has reports whether a tool is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.tools[name]
	return ok
}

// DefinitionsFor returns the tool definitions for exactly the names
// listed (order preserved), enforcing the access-rights rule: an agent
// only ever sees the tools its AgentConfig.AuthorizedTools names.
func (r *Registry) DefinitionsFor(authorizedNames []string) []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Definition, 0, len(authorizedNames))
	for _, name := range authorizedNames {
		if t, ok := r.tools[name]; ok {
			out = append(out, t.definition)
		}
	}
	return out
}

// Execute runs a tool call. It never returns a non-nil error for
// tool-level failures (unknown tool, bad args, store failure) — those are
// all encoded into Result.Content with IsError=true, per the "tools never
// throw into the agent loop" contract.
func (r *Registry) Execute(ctx context.Context, call Call) *Result {
	r.mu.RLock()
	t, ok := r.tools[call.Name]
	r.mu.RUnlock()

	if !ok {
		return errorResult(call, &ToolError{
			ErrorKind: ErrorKindNotFound,
			Message:   fmt.Sprintf("tool %q is not registered", call.Name),
		})
	}

	out, toolErr := t.handler(ctx, call.Arguments)
	if toolErr != nil {
		return errorResult(call, toolErr)
	}

	encoded, err := json.Marshal(out)
	if err != nil {
		return errorResult(call, &ToolError{
			ErrorKind: ErrorKindQueryFailed,
			Message:   fmt.Sprintf("failed to encode result: %v", err),
		})
	}
	return &Result{CallID: call.ID, Name: call.Name, Content: string(encoded), IsError: false}
}

func errorResult(call Call, toolErr *ToolError) *Result {
	encoded, err := json.Marshal(toolErr)
	if err != nil {
		encoded = []byte(`{"error_kind":"query_failed","message":"failed to encode tool error"}`)
	}
	return &Result{CallID: call.ID, Name: call.Name, Content: string(encoded), IsError: true}
}

// decodeArgs unmarshals and validates a tool's typed argument struct.
// Shared by every builtin handler (pkg/tools/builtin.go) so argument
// validation failures surface uniformly as ErrorKindInvalidArgs.
func decodeArgs[T any](raw json.RawMessage) (T, *ToolError) {
	var args T
	if len(raw) == 0 {
		raw = []byte("{}")
	}
	if err := json.Unmarshal(raw, &args); err != nil {
		return args, &ToolError{ErrorKind: ErrorKindInvalidArgs, Message: fmt.Sprintf("invalid arguments: %v", err)}
	}
	if err := argsValidator.Struct(args); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return args, &ToolError{ErrorKind: ErrorKindInvalidArgs, Message: fmt.Sprintf("argument validation failed: %s", verrs.Error())}
		}
		return args, &ToolError{ErrorKind: ErrorKindInvalidArgs, Message: err.Error()}
	}
	return args, nil
}

// storeErrorToToolError converts a *store.StoreError to a *ToolError,
// preserving the error_kind/message/parameters/suggestion shape end to end
// from the store through the tool layer. Any other error (should not happen; store accessors
// never raise) is treated as query_failed.
func storeErrorToToolError(err error) *ToolError {
	var se *store.StoreError
	if errors.As(err, &se) {
		kind := ErrorKindQueryFailed
		if se.Kind == store.ErrorKindNotFound {
			kind = ErrorKindNotFound
		}
		return &ToolError{ErrorKind: kind, Message: se.Message, Parameters: se.Parameters, Suggestion: se.Suggestion}
	}
	return &ToolError{ErrorKind: ErrorKindQueryFailed, Message: err.Error()}
}
