// Package extractor implements the LLM-driven structured extraction of
// flight identity from free text.
package extractor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/flightops/skymarshal/pkg/config"
	"github.com/flightops/skymarshal/pkg/llm"
	"github.com/flightops/skymarshal/pkg/model"
)

// ErrorKind classifies an extraction failure.
type ErrorKind string

const (
	ErrorKindValidation  ErrorKind = "validation"
	ErrorKindTimeout     ErrorKind = "timeout"
	ErrorKindProvider    ErrorKind = "provider"
	ErrorKindEmptyPrompt ErrorKind = "empty_prompt"
)

// ExtractionError is returned when extraction fails; it is never a panic.
type ExtractionError struct {
	Kind ErrorKind
	Hint string
	Err  error
}

func (e *ExtractionError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("extraction failed (%s): %s", e.Kind, e.Hint)
	}
	return fmt.Sprintf("extraction failed (%s)", e.Kind)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

const flightInfoSchema = `{
	"type": "object",
	"properties": {
		"flight_number": {"type": "string", "description": "carrier prefix plus 3-4 digits, upper-cased, e.g. EY123"},
		"date": {"type": "string", "description": "ISO 8601 YYYY-MM-DD, resolved from any relative date terms"},
		"disruption_event": {"type": "string", "description": "short free-text description of what went wrong"}
	},
	"required": ["flight_number", "date", "disruption_event"]
}`

// Clock abstracts the orchestrator's UTC wall clock so relative-date
// resolution ("yesterday", "today", "tomorrow") is deterministic in tests.
type Clock func() time.Time

// Extractor turns a free-text prompt into a validated model.FlightInfo.
type Extractor struct {
	client   llm.Client
	provider *config.LLMProviderConfig
	timeout  time.Duration
	now      Clock
}

// New constructs an Extractor. timeout bounds the structured-output
// call; the safety-agent bound (60s) is a reasonable default when no
// dedicated value is configured.
func New(client llm.Client, provider *config.LLMProviderConfig, timeout time.Duration, now Clock) *Extractor {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Extractor{client: client, provider: provider, timeout: timeout, now: now}
}

// Extract runs the structured-output call and validates the result.
// Empty prompts fail fast before any LLM invocation.
func (e *Extractor) Extract(ctx context.Context, prompt string) (*model.FlightInfo, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, &ExtractionError{Kind: ErrorKindEmptyPrompt, Hint: "prompt must not be empty"}
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	systemPrompt := fmt.Sprintf(
		"You extract structured flight-disruption identity from free text. "+
			"The current UTC date is %s; resolve any relative date terms (yesterday, today, tomorrow) against it. "+
			"Respond only via the emit_structured_response tool.",
		e.now().Format("2006-01-02"),
	)

	ch, err := e.client.Generate(ctx, &llm.GenerateInput{
		Provider: e.provider,
		Messages: []llm.ConversationMessage{
			{Role: llm.RoleSystem, Content: systemPrompt},
			{Role: llm.RoleUser, Content: prompt},
		},
		ResponseSchema: flightInfoSchema,
	})
	if err != nil {
		return nil, &ExtractionError{Kind: ErrorKindProvider, Err: err}
	}

	_, toolArgs, err := llm.CollectText(ch, e.timeout)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &ExtractionError{Kind: ErrorKindTimeout}
		}
		return nil, &ExtractionError{Kind: ErrorKindProvider, Err: err}
	}
	if toolArgs == "" {
		return nil, &ExtractionError{
			Kind: ErrorKindValidation,
			Hint: "expected flight number format and ISO date",
		}
	}

	var info model.FlightInfo
	if err := json.Unmarshal([]byte(toolArgs), &info); err != nil {
		return nil, &ExtractionError{
			Kind: ErrorKindValidation,
			Hint: "expected flight number format and ISO date",
			Err:  err,
		}
	}

	if err := info.Validate(); err != nil {
		return nil, &ExtractionError{
			Kind: ErrorKindValidation,
			Hint: "expected flight number format and ISO date",
			Err:  err,
		}
	}
	return &info, nil
}
