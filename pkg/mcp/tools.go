package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Sumatoshi-tech/aliasguard/pkg/jsast"
	"github.com/Sumatoshi-tech/aliasguard/pkg/lint"
)

// Tool name constants.
const (
	ToolNameCheck = "aliasguard_check"
	ToolNameRules = "aliasguard_rules"
)

// Input size limits.
const (
	// MaxCodeInputBytes is the maximum allowed size for inline code input (1 MB).
	MaxCodeInputBytes = 1 << 20

	// defaultFilename is used when the caller gives no filename.
	defaultFilename = "input.tsx"
)

// Sentinel errors for tool input validation.
var (
	// ErrEmptyCode indicates the code parameter is empty.
	ErrEmptyCode = errors.New("code parameter is required and must not be empty")
	// ErrCodeTooLarge indicates the code input exceeds the size limit.
	ErrCodeTooLarge = errors.New("code input exceeds maximum size")
	// ErrUnsupportedLanguage indicates the filename does not map to a supported grammar.
	ErrUnsupportedLanguage = errors.New("unsupported language")
)

// Input types (auto-generate JSON schemas via struct tags).

// CheckInput is the input schema for the aliasguard_check tool.
type CheckInput struct {
	Code     string `json:"code"               jsonschema:"JavaScript or TypeScript source code to check"`
	Filename string `json:"filename,omitempty" jsonschema:"file name used for language detection (default: input.tsx)"`
}

// RulesInput is the input schema for the aliasguard_rules tool.
type RulesInput struct{}

// Output types.

// ToolOutput is a generic wrapper for tool results.
type ToolOutput struct {
	Data any `json:"data"`
}

// CheckReport is the payload of a successful aliasguard_check call.
type CheckReport struct {
	Filename    string            `json:"filename"`
	Language    string            `json:"language"`
	Clean       bool              `json:"clean"`
	Diagnostics []lint.Diagnostic `json:"diagnostics"`
}

// RuleInfo describes one rule in the aliasguard_rules listing.
type RuleInfo struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
}

func (s *Server) handleCheck(
	ctx context.Context, _ *mcpsdk.CallToolRequest, input CheckInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	filename := input.Filename
	if filename == "" {
		filename = defaultFilename
	}

	err := validateCodeInput(input.Code)
	if err != nil {
		return errorResult(err)
	}

	lang, ok := jsast.DetectLanguage(filename, []byte(input.Code))
	if !ok {
		return errorResult(fmt.Errorf("%w: %s", ErrUnsupportedLanguage, filename))
	}

	diagnostics, err := s.linter.LintSource(ctx, filename, []byte(input.Code))
	if err != nil {
		return errorResult(fmt.Errorf("check %s: %w", filename, err))
	}

	if diagnostics == nil {
		diagnostics = []lint.Diagnostic{}
	}

	return jsonResult(CheckReport{
		Filename:    filename,
		Language:    string(lang),
		Clean:       len(diagnostics) == 0,
		Diagnostics: diagnostics,
	})
}

func (s *Server) handleRules(
	_ context.Context, _ *mcpsdk.CallToolRequest, _ RulesInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	all := s.linter.Rules()
	infos := make([]RuleInfo, 0, len(all))

	for _, rule := range all {
		meta := rule.Meta()
		infos = append(infos, RuleInfo{
			Name:        rule.Name(),
			Type:        string(meta.Type),
			Description: meta.Description,
			Severity:    s.linter.SeverityOf(rule.Name()).String(),
		})
	}

	return jsonResult(infos)
}

// Result helpers.

// errorResult builds a CallToolResult with isError set.
func errorResult(err error) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: err.Error()},
		},
		IsError: true,
	}, ToolOutput{}, nil
}

// jsonResult builds a CallToolResult with JSON-encoded content.
func jsonResult(value any) (*mcpsdk.CallToolResult, ToolOutput, error) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return errorResult(fmt.Errorf("encode result: %w", err))
	}

	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: string(data)},
		},
	}, ToolOutput{Data: value}, nil
}

// validateCodeInput checks common code input constraints.
func validateCodeInput(code string) error {
	if code == "" {
		return ErrEmptyCode
	}

	if len(code) > MaxCodeInputBytes {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrCodeTooLarge, len(code), MaxCodeInputBytes)
	}

	return nil
}
