package lint

import (
	"encoding/json"
	"fmt"
	"path/filepath"
)

const (
	sarifSchema  = "https://json.schemastore.org/sarif-2.1.0.json"
	sarifVersion = "2.1.0"
	columnKind   = "utf16CodeUnits"
	toolName     = "aliasguard"
	toolURI      = "https://github.com/Sumatoshi-tech/aliasguard"
)

type sarifLog struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool       sarifTool     `json:"tool"`
	ColumnKind string        `json:"columnKind"`
	Results    []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	InformationURI string      `json:"informationUri"`
	Version        string      `json:"version,omitempty"`
	Rules          []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string       `json:"id"`
	ShortDescription sarifMessage `json:"shortDescription"`
	DefaultConfig    sarifConfig  `json:"defaultConfiguration"`
}

type sarifConfig struct {
	Level string `json:"level"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	RuleIndex int             `json:"ruleIndex"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysical `json:"physicalLocation"`
}

type sarifPhysical struct {
	ArtifactLocation sarifArtifact `json:"artifactLocation"`
	Region           sarifRegion   `json:"region"`
}

type sarifArtifact struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   int `json:"startLine"`
	StartColumn int `json:"startColumn"`
	EndLine     int `json:"endLine"`
	EndColumn   int `json:"endColumn"`
}

func sarifLevel(severity Severity) string {
	switch severity {
	case SeverityError:
		return "error"
	case SeverityWarn:
		return "warning"
	default:
		return "none"
	}
}

// reportSARIF writes a SARIF 2.1.0 log with a single run.
func (r *Reporter) reportSARIF(result *Result) error {
	driver := sarifDriver{
		Name:           toolName,
		InformationURI: toolURI,
		Version:        r.toolVersion,
		Rules:          []sarifRule{},
	}

	ruleIndex := make(map[string]int, len(r.rules))

	for _, rule := range r.rules {
		meta := rule.Meta()
		ruleIndex[rule.Name()] = len(driver.Rules)
		driver.Rules = append(driver.Rules, sarifRule{
			ID:               rule.Name(),
			ShortDescription: sarifMessage{Text: meta.Description},
			DefaultConfig:    sarifConfig{Level: sarifLevel(meta.Default)},
		})
	}

	results := make([]sarifResult, 0, len(result.Diagnostics))

	for _, d := range result.Diagnostics {
		idx, ok := ruleIndex[d.Rule]
		if !ok {
			idx = len(driver.Rules)
			ruleIndex[d.Rule] = idx
			driver.Rules = append(driver.Rules, sarifRule{
				ID:            d.Rule,
				DefaultConfig: sarifConfig{Level: sarifLevel(d.Severity)},
			})
		}

		results = append(results, sarifResult{
			RuleID:    d.Rule,
			RuleIndex: idx,
			Level:     sarifLevel(d.Severity),
			Message:   sarifMessage{Text: d.Message},
			Locations: []sarifLocation{{
				PhysicalLocation: sarifPhysical{
					ArtifactLocation: sarifArtifact{URI: filepath.ToSlash(d.File)},
					Region: sarifRegion{
						StartLine:   d.Span.Start.Line,
						StartColumn: d.Span.Start.Column,
						EndLine:     d.Span.End.Line,
						EndColumn:   d.Span.End.Column,
					},
				},
			}},
		})
	}

	log := sarifLog{
		Schema:  sarifSchema,
		Version: sarifVersion,
		Runs:    []sarifRun{{Tool: sarifTool{Driver: driver}, ColumnKind: columnKind, Results: results}},
	}

	encoder := json.NewEncoder(r.writer)
	encoder.SetIndent("", "  ")

	err := encoder.Encode(log)
	if err != nil {
		return fmt.Errorf("encode sarif report: %w", err)
	}

	return nil
}
