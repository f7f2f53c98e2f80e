package compliance

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonathan/sitevision/internal/llm"
	"github.com/jonathan/sitevision/internal/prompts"
	"github.com/jonathan/sitevision/internal/types"
)

// ComplianceError indicates a compliance model call failed.
type ComplianceError struct {
	Query string
	Cause error
}

func (e *ComplianceError) Error() string {
	return fmt.Sprintf("compliance check failed for %q: %v", e.Query, e.Cause)
}

func (e *ComplianceError) Unwrap() error {
	return e.Cause
}

// CheckDefect asks whether a defect breaches the standards applicable to
// its inspection area and returns the model's compliance note.
func CheckDefect(ctx context.Context, client llm.Client, defect types.Defect) (string, error) {
	prompt, err := prompts.Render("compliance.json", "check-defect", map[string]string{
		"Defect":    defect.Title,
		"Area":      defect.Area,
		"Standards": strings.Join(StandardsFor(defect.Area), ", "),
	})
	if err != nil {
		return "", err
	}

	text, err := client.GenerateContent(ctx, systemPrompt()+"\n\n"+prompt, llm.TierStandard)
	if err != nil {
		return "", &ComplianceError{Query: defect.Title, Cause: err}
	}
	return strings.TrimSpace(text), nil
}

// Ask answers a free-form compliance question, e.g. from the report editor
// or the CLI.
func Ask(ctx context.Context, client llm.Client, query string) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", fmt.Errorf("compliance query is empty")
	}

	prompt, err := prompts.Render("compliance.json", "compliance-query", map[string]string{
		"Query": query,
	})
	if err != nil {
		return "", err
	}

	text, err := client.GenerateContent(ctx, systemPrompt()+"\n\n"+prompt, llm.TierStandard)
	if err != nil {
		return "", &ComplianceError{Query: query, Cause: err}
	}
	return strings.TrimSpace(text), nil
}

func systemPrompt() string {
	return prompts.MustGet("compliance.json", "compliance-system")
}
