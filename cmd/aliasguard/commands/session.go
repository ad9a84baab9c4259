package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/aliasguard/pkg/config"
	"github.com/Sumatoshi-tech/aliasguard/pkg/jsast"
	"github.com/Sumatoshi-tech/aliasguard/pkg/lint"
	"github.com/Sumatoshi-tech/aliasguard/pkg/observability"
	"github.com/Sumatoshi-tech/aliasguard/pkg/rules"
	"github.com/Sumatoshi-tech/aliasguard/pkg/version"
	"github.com/Sumatoshi-tech/aliasguard/pkg/workspace"
)

// ErrInvalidRuleFlag indicates a --rule value that is not name=severity.
var ErrInvalidRuleFlag = errors.New("rule override must be name=severity")

// session is the configured state a subcommand runs with.
type session struct {
	cfg       *config.Config
	linter    *lint.Linter
	providers observability.Providers
}

// scope returns the working directory and the configured ignore matcher,
// used to scope single documents the way discovery scopes a tree.
func (s *session) scope() (string, *workspace.Matcher, error) {
	root, err := os.Getwd()
	if err != nil {
		return "", nil, fmt.Errorf("working directory: %w", err)
	}

	ignores, err := workspace.NewMatcher(s.cfg.Ignores)
	if err != nil {
		return "", nil, err
	}

	return root, ignores, nil
}

// loadLinter loads the configuration and builds the rule set, applying
// name=severity overrides on top of the configured severities.
func (o *rootOptions) loadLinter(overrides []string) (*config.Config, *lint.Linter, error) {
	cfg, err := config.LoadConfig(o.configPath)
	if err != nil {
		return nil, nil, err
	}

	severities, err := cfg.Severities()
	if err != nil {
		return nil, nil, err
	}

	for _, override := range overrides {
		name, level, ok := strings.Cut(override, "=")
		if !ok || name == "" {
			return nil, nil, fmt.Errorf("%w: %q", ErrInvalidRuleFlag, override)
		}

		severity, parseErr := lint.ParseSeverity(level)
		if parseErr != nil {
			return nil, nil, fmt.Errorf("rule %s: %w", name, parseErr)
		}

		severities[strings.TrimSpace(name)] = severity
	}

	linter, err := lint.NewLinter(jsast.NewParser(), rules.All(), severities)
	if err != nil {
		return nil, nil, fmt.Errorf("configure rules: %w", err)
	}

	return cfg, linter, nil
}

// open loads configuration and starts observability for mode.
func (o *rootOptions) open(cmd *cobra.Command, mode observability.AppMode, overrides []string) (*session, error) {
	cfg, linter, err := o.loadLinter(overrides)
	if err != nil {
		return nil, err
	}

	obsCfg, err := o.observabilityConfig(cmd, cfg, mode)
	if err != nil {
		return nil, err
	}

	providers, err := observability.Init(obsCfg)
	if err != nil {
		return nil, fmt.Errorf("init observability: %w", err)
	}

	providers.Logger.Debug("session opened",
		"mode", string(mode), "config", o.configPath, "rules", len(linter.Rules()))

	return &session{cfg: cfg, linter: linter, providers: providers}, nil
}

// close flushes telemetry; failures are logged, not returned.
func (s *session) close(ctx context.Context) {
	err := s.providers.Shutdown(context.WithoutCancel(ctx))
	if err != nil {
		s.providers.Logger.Warn("observability shutdown failed", "error", err)
	}
}

func (o *rootOptions) observabilityConfig(
	cmd *cobra.Command, cfg *config.Config, mode observability.AppMode,
) (observability.Config, error) {
	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceVersion = version.Version
	obsCfg.Mode = mode
	obsCfg.LogWriter = cmd.ErrOrStderr()
	obsCfg.MetricsFile = cfg.Telemetry.MetricsFile
	obsCfg.OTLPEndpoint = cfg.Telemetry.OTLPEndpoint
	obsCfg.OTLPInsecure = cfg.Telemetry.OTLPInsecure

	if obsCfg.OTLPEndpoint == "" {
		obsCfg.OTLPEndpoint = os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
		obsCfg.OTLPInsecure = obsCfg.OTLPInsecure || os.Getenv("OTEL_EXPORTER_OTLP_INSECURE") == "true"
	}

	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}

	level, err := cfg.LogLevel()
	if err != nil {
		return obsCfg, err
	}

	switch {
	case o.verbose:
		level = slog.LevelDebug
	case o.quiet:
		level = slog.LevelError
	}

	obsCfg.LogLevel = level
	// Protocol modes are usually read by tooling, so they always log JSON.
	obsCfg.LogJSON = o.logJSON || cfg.Logging.JSON || mode != observability.ModeCLI

	return obsCfg, nil
}
