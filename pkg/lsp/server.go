// Package lsp provides a Language Server Protocol server that lints
// open JavaScript and TypeScript documents and publishes the findings as
// editor diagnostics.
package lsp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"path"
	"sync"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Sumatoshi-tech/aliasguard/pkg/jsast"
	"github.com/Sumatoshi-tech/aliasguard/pkg/lint"
	"github.com/Sumatoshi-tech/aliasguard/pkg/workspace"
)

const (
	serverName = "aliasguard"

	methodPublishDiagnostics = "textDocument/publishDiagnostics"
)

// Server implements the aliasguard LSP server.
type Server struct {
	store   *DocumentStore
	linter  *lint.Linter
	handler protocol.Handler
	version string
	logger  *slog.Logger
	tracer  trace.Tracer
	ignores *workspace.Matcher

	mu   sync.RWMutex
	root string
}

// Option configures a Server.
type Option func(*Server)

// WithVersion sets the version reported in the initialize response.
func WithVersion(version string) Option {
	return func(srv *Server) { srv.version = version }
}

// WithLogger sets the logger. Logs must not go to stdout, which carries the protocol.
func WithLogger(logger *slog.Logger) Option {
	return func(srv *Server) { srv.logger = logger }
}

// WithTracer sets the tracer used for per-document lint spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(srv *Server) { srv.tracer = tracer }
}

// WithIgnores scopes the server like the check command: documents whose path
// relative to root matches ignores get no diagnostics. The client's rootUri
// replaces root once the session is initialized.
func WithIgnores(root string, ignores *workspace.Matcher) Option {
	return func(srv *Server) {
		srv.root = root
		srv.ignores = ignores
	}
}

// NewServer creates a server that lints documents with linter.
func NewServer(linter *lint.Linter, opts ...Option) *Server {
	srv := &Server{
		store:   NewDocumentStore(),
		linter:  linter,
		version: "dev",
		logger:  slog.New(slog.DiscardHandler),
		tracer:  nooptrace.NewTracerProvider().Tracer(""),
	}

	for _, opt := range opts {
		opt(srv)
	}

	srv.handler = protocol.Handler{
		Initialize:            srv.initialize,
		Initialized:           srv.initialized,
		Shutdown:              srv.shutdown,
		SetTrace:              srv.setTrace,
		TextDocumentDidOpen:   srv.didOpen,
		TextDocumentDidChange: srv.didChange,
		TextDocumentDidSave:   srv.didSave,
		TextDocumentDidClose:  srv.didClose,
	}

	return srv
}

// Run serves the protocol on stdio until the client disconnects.
func (srv *Server) Run() error {
	lspServer := server.NewServer(&srv.handler, serverName, false)

	err := lspServer.RunStdio()
	if err != nil {
		return fmt.Errorf("lsp server: %w", err)
	}

	return nil
}

func (srv *Server) initialize(_ *glsp.Context, params *protocol.InitializeParams) (any, error) {
	if root := workspaceRoot(params); root != "" {
		srv.mu.Lock()
		srv.root = root
		srv.mu.Unlock()
	}

	capabilities := srv.handler.CreateServerCapabilities()

	// Whole-document sync keeps the store trivially consistent.
	if sync, ok := capabilities.TextDocumentSync.(*protocol.TextDocumentSyncOptions); ok {
		full := protocol.TextDocumentSyncKindFull
		sync.Change = &full
		sync.Save = &protocol.SaveOptions{}
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    serverName,
			Version: &srv.version,
		},
	}, nil
}

// workspaceRoot picks the client's root directory: rootUri, then the first
// workspace folder, then the deprecated rootPath.
func workspaceRoot(params *protocol.InitializeParams) string {
	switch {
	case params.RootURI != nil && *params.RootURI != "":
		return filenameFromURI(*params.RootURI)
	case len(params.WorkspaceFolders) > 0:
		return filenameFromURI(params.WorkspaceFolders[0].URI)
	case params.RootPath != nil:
		return *params.RootPath
	default:
		return ""
	}
}

func (srv *Server) initialized(_ *glsp.Context, _ *protocol.InitializedParams) error {
	return nil
}

func (srv *Server) shutdown(_ *glsp.Context) error {
	protocol.SetTraceValue(protocol.TraceValueOff)

	return nil
}

func (srv *Server) setTrace(_ *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)

	return nil
}

func (srv *Server) didOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	uri := params.TextDocument.URI

	srv.store.Set(uri, params.TextDocument.Text)
	srv.publishDiagnostics(ctx, uri)

	return nil
}

func (srv *Server) didChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	uri := params.TextDocument.URI

	if len(params.ContentChanges) == 0 {
		return nil
	}

	text, _ := srv.store.Get(uri)

	for _, change := range params.ContentChanges {
		switch change := change.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			text = change.Text
		case protocol.TextDocumentContentChangeEvent:
			if change.Range == nil {
				text = change.Text
			} else {
				text = applyChange(text, *change.Range, change.Text)
			}
		}
	}

	srv.store.Set(uri, text)
	srv.publishDiagnostics(ctx, uri)

	return nil
}

func (srv *Server) didSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	uri := params.TextDocument.URI

	if params.Text != nil {
		srv.store.Set(uri, *params.Text)
	}

	if _, ok := srv.store.Get(uri); ok {
		srv.publishDiagnostics(ctx, uri)
	}

	return nil
}

func (srv *Server) didClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	uri := params.TextDocument.URI
	srv.store.Delete(uri)

	ctx.Notify(methodPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: []protocol.Diagnostic{},
	})

	return nil
}

func (srv *Server) publishDiagnostics(ctx *glsp.Context, uri string) {
	text, ok := srv.store.Get(uri)
	if !ok {
		return
	}

	ctx.Notify(methodPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: srv.diagnose(uri, text),
	})
}

// diagnose lints text and converts the findings. Documents that cannot be
// parsed yield no diagnostics rather than an error, so stale findings clear.
func (srv *Server) diagnose(uri, text string) []protocol.Diagnostic {
	filename := filenameFromURI(uri)

	if srv.ignored(filename) {
		srv.logger.Debug("document ignored", "uri", uri)

		return []protocol.Diagnostic{}
	}

	ctx, span := srv.tracer.Start(context.Background(), "aliasguard.lsp.lint",
		trace.WithAttributes(attribute.String("file.path", filename)))
	defer span.End()

	found, err := srv.linter.LintSource(ctx, filename, []byte(text))
	if err != nil {
		level := slog.LevelWarn
		if errors.Is(err, jsast.ErrUnsupportedLanguage) {
			level = slog.LevelDebug
		}

		srv.logger.Log(ctx, level, "document not linted", "uri", uri, "error", err)

		return []protocol.Diagnostic{}
	}

	span.SetAttributes(attribute.Int("lint.diagnostics", len(found)))

	diagnostics := make([]protocol.Diagnostic, 0, len(found))
	for _, d := range found {
		diagnostics = append(diagnostics, toProtocol(text, d))
	}

	return diagnostics
}

func (srv *Server) ignored(filename string) bool {
	if srv.ignores == nil {
		return false
	}

	srv.mu.RLock()
	root := srv.root
	srv.mu.RUnlock()

	return root != "" && srv.ignores.MatchPath(root, filename)
}

func toProtocol(text string, d lint.Diagnostic) protocol.Diagnostic {
	severity := protocol.DiagnosticSeverityWarning
	if d.Severity == lint.SeverityError {
		severity = protocol.DiagnosticSeverityError
	}

	source := serverName

	return protocol.Diagnostic{
		Range: protocol.Range{
			Start: positionAt(text, d.Span.Start.Offset),
			End:   positionAt(text, d.Span.End.Offset),
		},
		Severity: &severity,
		Code:     &protocol.IntegerOrString{Value: d.Rule},
		Source:   &source,
		Message:  d.Message,
	}
}

// filenameFromURI returns the path of a file URI, or the raw URI for other
// schemes. Only the extension matters for language detection.
func filenameFromURI(uri string) string {
	parsed, err := url.Parse(uri)
	if err != nil || parsed.Path == "" {
		return uri
	}

	if parsed.Scheme == "file" {
		return parsed.Path
	}

	return path.Base(parsed.Path)
}
