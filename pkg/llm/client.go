// Package llm provides the Go-side client for structured-output and
// tool-using calls to the LLM provider. The call shape is channel-based
// streaming; the transport underneath is the Anthropic Claude Messages
// API.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/flightops/skymarshal/pkg/config"
)

// Conversation message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// ConversationMessage is the Go-side message type passed to Generate.
type ConversationMessage struct {
	Role       string
	Content    string
	ToolCalls  []ToolCall // for assistant messages
	ToolCallID string     // for tool-result messages
	ToolName   string     // for tool-result messages
	IsError    bool       // for tool-result messages carrying a structured error
}

// ToolDefinition describes a tool available to the LLM.
type ToolDefinition struct {
	Name             string
	Description      string
	ParametersSchema string // JSON Schema
}

// ToolCall represents an LLM's request to call a tool.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string // JSON
}

// GenerateInput is a single call to the LLM, either structured-output
// (ResponseSchema set, used by the extractor and by agents' final
// response) or a tool-using reasoning step (Tools set).
type GenerateInput struct {
	SessionID      string
	ExecutionID    string
	Messages       []ConversationMessage
	Provider       *config.LLMProviderConfig
	Tools          []ToolDefinition // nil = no tools
	ResponseSchema string           // JSON schema; non-empty forces structured output via a synthetic tool
}

// ChunkKind discriminates the variants of Chunk.
type ChunkKind string

const (
	ChunkText     ChunkKind = "text"
	ChunkToolCall ChunkKind = "tool_call"
	ChunkDone     ChunkKind = "done"
	ChunkError    ChunkKind = "error"
)

// Chunk is one element of the streamed Generate response.
type Chunk struct {
	Kind     ChunkKind
	Text     string
	ToolCall *ToolCall
	Err      error
}

// Client is the Go-side interface for calling the LLM provider. It wraps
// the Anthropic SDK connection and exposes a channel-based streaming API,
// matching the shape the rest of the system (extractor, agents) is
// written against.
type Client interface {
	// Generate sends a conversation to the LLM and returns a stream of
	// chunks. The returned channel is closed when the stream completes.
	// Provider-level errors are delivered as Chunk{Kind: ChunkError}
	// values, never as a panic.
	Generate(ctx context.Context, input *GenerateInput) (<-chan Chunk, error)

	// Close releases the underlying HTTP client resources.
	Close() error
}

// structuredOutputToolName is the synthetic tool name used to force a
// schema-constrained JSON response (Anthropic has no native structured
// output mode; forcing a single-tool call is the standard workaround).
const structuredOutputToolName = "emit_structured_response"

// AnthropicClient implements Client via the Anthropic Messages API.
type AnthropicClient struct {
	msg *sdk.MessageService
}

// NewAnthropicClient constructs a client. apiKeyEnv names the
// environment variable holding the API key; the key itself is never
// logged.
func NewAnthropicClient(apiKeyEnv string) (*AnthropicClient, error) {
	key := os.Getenv(apiKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("environment variable %s is not set", apiKeyEnv)
	}
	c := sdk.NewClient(option.WithAPIKey(key))
	return &AnthropicClient{msg: &c.Messages}, nil
}

// Generate issues one Anthropic Messages streaming call and translates the
// response into chunks. Transient provider failures are retried once by
// the SDK's default retry policy.
func (c *AnthropicClient) Generate(ctx context.Context, input *GenerateInput) (<-chan Chunk, error) {
	if input.Provider == nil {
		return nil, errors.New("llm: GenerateInput.Provider must not be nil")
	}

	params, err := buildParams(input)
	if err != nil {
		return nil, err
	}

	out := make(chan Chunk, 16)
	go func() {
		defer close(out)

		stream := c.msg.NewStreaming(ctx, *params)
		toolNames := make(map[int]string)
		toolIDs := make(map[int]string)
		toolArgs := make(map[int]string)

		for stream.Next() {
			event := stream.Current()
			switch ev := event.AsAny().(type) {
			case sdk.ContentBlockStartEvent:
				if tu, ok := ev.ContentBlock.AsAny().(sdk.ToolUseBlock); ok {
					idx := int(ev.Index)
					toolNames[idx] = tu.Name
					toolIDs[idx] = tu.ID
				}
			case sdk.ContentBlockDeltaEvent:
				idx := int(ev.Index)
				switch delta := ev.Delta.AsAny().(type) {
				case sdk.TextDelta:
					if delta.Text != "" {
						out <- Chunk{Kind: ChunkText, Text: delta.Text}
					}
				case sdk.InputJSONDelta:
					toolArgs[idx] += delta.PartialJSON
				}
			case sdk.ContentBlockStopEvent:
				idx := int(ev.Index)
				if name, ok := toolNames[idx]; ok {
					args := toolArgs[idx]
					if args == "" {
						args = "{}"
					}
					out <- Chunk{Kind: ChunkToolCall, ToolCall: &ToolCall{
						ID:        toolIDs[idx],
						Name:      name,
						Arguments: args,
					}}
				}
			}
		}
		if err := stream.Err(); err != nil {
			out <- Chunk{Kind: ChunkError, Err: err}
			return
		}
		out <- Chunk{Kind: ChunkDone}
	}()

	return out, nil
}

func buildParams(input *GenerateInput) (*sdk.MessageNewParams, error) {
	params := &sdk.MessageNewParams{
		Model:     sdk.Model(input.Provider.Model),
		MaxTokens: int64(input.Provider.MaxOutputTokens),
	}

	var system []sdk.TextBlockParam
	messages := make([]sdk.MessageParam, 0, len(input.Messages))
	for _, m := range input.Messages {
		switch m.Role {
		case RoleSystem:
			system = append(system, sdk.TextBlockParam{Text: m.Content})
		case RoleUser:
			messages = append(messages, sdk.NewUserMessage(sdk.NewTextBlock(m.Content)))
		case RoleAssistant:
			blocks := []sdk.ContentBlockParamUnion{sdk.NewTextBlock(m.Content)}
			for _, tc := range m.ToolCalls {
				var args any
				_ = json.Unmarshal([]byte(tc.Arguments), &args)
				blocks = append(blocks, sdk.NewToolUseBlock(tc.ID, args, tc.Name))
			}
			messages = append(messages, sdk.NewAssistantMessage(blocks...))
		case RoleTool:
			messages = append(messages, sdk.NewUserMessage(sdk.NewToolResultBlock(m.ToolCallID, m.Content, m.IsError)))
		default:
			return nil, fmt.Errorf("llm: unsupported message role %q", m.Role)
		}
	}
	if len(system) > 0 {
		params.System = system
	}
	if len(messages) == 0 {
		return nil, errors.New("llm: at least one user/assistant message is required")
	}
	params.Messages = messages

	tools := input.Tools
	if input.ResponseSchema != "" {
		tools = append(tools, ToolDefinition{
			Name:             structuredOutputToolName,
			Description:      "Emit the final structured response matching the required schema.",
			ParametersSchema: input.ResponseSchema,
		})
	}
	for _, t := range tools {
		schema, err := toolInputSchema(t.ParametersSchema)
		if err != nil {
			return nil, fmt.Errorf("llm: tool %q schema: %w", t.Name, err)
		}
		u := sdk.ToolUnionParamOfTool(schema, t.Name)
		if u.OfTool != nil {
			u.OfTool.Description = sdk.String(t.Description)
		}
		params.Tools = append(params.Tools, u)
	}
	if input.ResponseSchema != "" {
		params.ToolChoice = sdk.ToolChoiceParamOfTool(structuredOutputToolName)
	}

	return params, nil
}

func toolInputSchema(raw string) (sdk.ToolInputSchemaParam, error) {
	if raw == "" {
		return sdk.ToolInputSchemaParam{}, nil
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return sdk.ToolInputSchemaParam{}, err
	}
	return sdk.ToolInputSchemaParam{ExtraFields: m}, nil
}

// Close releases underlying resources. The Anthropic SDK's HTTP client
// needs no explicit teardown; this exists to satisfy Client and mirror the
// single-init/single-close lifecycle of the store client.
func (c *AnthropicClient) Close() error {
	return nil
}

// CollectText drains a chunk stream, concatenating text chunks and
// returning the first tool call's arguments if one was emitted (used by
// structured-output call sites: flight-info extraction and agents' final
// response, which force a single synthetic tool call). Returns the first
// error chunk, if any, as a Go error.
func CollectText(ch <-chan Chunk, timeout time.Duration) (text string, toolArgs string, err error) {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	for {
		select {
		case chunk, ok := <-ch:
			if !ok {
				return text, toolArgs, nil
			}
			switch chunk.Kind {
			case ChunkText:
				text += chunk.Text
			case ChunkToolCall:
				if toolArgs == "" {
					toolArgs = chunk.ToolCall.Arguments
				}
			case ChunkError:
				return text, toolArgs, chunk.Err
			case ChunkDone:
				return text, toolArgs, nil
			}
		case <-deadline.C:
			return text, toolArgs, context.DeadlineExceeded
		}
	}
}
