// Package lint is the rule host: it parses source files, dispatches import
// declarations and call expressions to the enabled rules, and collects the
// diagnostics they report.
package lint

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidSeverity is returned when a severity string is not recognized.
var ErrInvalidSeverity = errors.New("invalid severity")

// Severity is the configured level of a rule and of the diagnostics it reports.
type Severity int

const (
	// SeverityOff disables a rule.
	SeverityOff Severity = iota
	// SeverityWarn reports without failing the run.
	SeverityWarn
	// SeverityError reports and fails the run.
	SeverityError
)

// String returns the configuration spelling of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityOff:
		return "off"
	case SeverityWarn:
		return "warn"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(text []byte) error {
	parsed, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}

	*s = parsed

	return nil
}

// ParseSeverity accepts the ESLint spellings: off/warn/error, warning, and 0/1/2.
func ParseSeverity(value string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "off", "0":
		return SeverityOff, nil
	case "warn", "warning", "1":
		return SeverityWarn, nil
	case "error", "2":
		return SeverityError, nil
	default:
		return SeverityOff, fmt.Errorf("%w: %q", ErrInvalidSeverity, value)
	}
}
