// Package server exposes a dalipp Host over the Model Context Protocol, so
// an assistant attached to a debugging session can resolve type names and
// render captured values.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/randalmurphal/dalipp/pkg/dalipp"
	"github.com/randalmurphal/dalipp/pkg/dalipp/capture"
	"github.com/randalmurphal/dalipp/pkg/dalipp/snapshot"
)

// Version is reported in the MCP implementation info.
const Version = "0.1.0"

// Server wraps the MCP server and connects it to a Host.
type Server struct {
	mcp      *mcp.Server
	host     *dalipp.Host
	recorder *capture.Recorder
	logger   *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithRecorder enables the capture tools.
func WithRecorder(r *capture.Recorder) Option {
	return func(s *Server) {
		s.recorder = r
	}
}

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates an MCP server backed by host.
func New(host *dalipp.Host, opts ...Option) *Server {
	s := &Server{
		host:   host,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.mcp = mcp.NewServer(&mcp.Implementation{
		Name:    "dalipp",
		Version: Version,
	}, nil)
	s.registerTools()
	return s
}

// MCP returns the underlying MCP server.
func (s *Server) MCP() *mcp.Server { return s.mcp }

// Run serves on the stdio transport until ctx is done or the client
// disconnects.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("starting MCP server", slog.String("transport", "stdio"))
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

type resolveTypeArgs struct {
	TypeName string `json:"type_name" jsonschema:"Fully qualified type name, e.g. Dali::Vector<int>"`
	Registry string `json:"registry,omitempty" jsonschema:"Only consult this registry"`
}

type listPrintersArgs struct {
	Registry string `json:"registry,omitempty" jsonschema:"Only list this registry"`
}

type formatSnapshotArgs struct {
	Snapshot string `json:"snapshot" jsonschema:"Snapshot document text"`
	Format   string `json:"format,omitempty" jsonschema:"yaml or json (default yaml)"`
	Name     string `json:"name,omitempty" jsonschema:"Only render the value with this name"`
	Session  string `json:"session,omitempty" jsonschema:"Also record the values under this capture session"`
}

type replaySessionArgs struct {
	Session string `json:"session" jsonschema:"Capture session ID"`
}

type deleteSessionArgs struct {
	Session string   `json:"session" jsonschema:"Capture session ID"`
	Names   []string `json:"names,omitempty" jsonschema:"Values to delete; the whole session when empty"`
}

// resolution is one registry's answer in resolve_type.
type resolution struct {
	Registry string `json:"registry"`
	Match    string `json:"match"`
	Printer  string `json:"printer,omitempty"`
	Enabled  bool   `json:"enabled"`
}

// registryListing is one registry in list_printers.
type registryListing struct {
	Name     string           `json:"name"`
	Enabled  bool             `json:"enabled"`
	Printers []printerListing `json:"printers"`
}

type printerListing struct {
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "resolve_type",
		Description: "Report which pretty-printer each installed registry selects for a type name, and by which rule (exact, template or generic).",
	}, s.resolveType)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "list_printers",
		Description: "List installed registries and their printers with enabled state.",
	}, s.listPrinters)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "format_snapshot",
		Description: "Render every value of a snapshot document with the installed pretty-printers.",
	}, s.formatSnapshot)

	if s.recorder != nil {
		mcp.AddTool(s.mcp, &mcp.Tool{
			Name:        "replay_session",
			Description: "Re-render every value captured in a session with the current printers.",
		}, s.replaySession)

		mcp.AddTool(s.mcp, &mcp.Tool{
			Name:        "delete_session",
			Description: "Delete captured values from a session, or the whole session when no names are given.",
		}, s.deleteSession)
	}
}

func (s *Server) resolveType(ctx context.Context, req *mcp.CallToolRequest, args resolveTypeArgs) (*mcp.CallToolResult, any, error) {
	if args.TypeName == "" {
		return errorResult("type_name is required"), nil, nil
	}
	regs, err := s.registries(args.Registry)
	if err != nil {
		return errorResult(err.Error()), nil, nil
	}

	results := make([]resolution, 0, len(regs))
	for _, r := range regs {
		entry, match := r.Resolve(args.TypeName)
		res := resolution{Registry: r.Name(), Match: match.String()}
		if entry != nil {
			res.Printer = entry.Name()
			res.Enabled = entry.Enabled()
		}
		results = append(results, res)
	}
	return jsonResult(results)
}

func (s *Server) listPrinters(ctx context.Context, req *mcp.CallToolRequest, args listPrintersArgs) (*mcp.CallToolResult, any, error) {
	regs, err := s.registries(args.Registry)
	if err != nil {
		return errorResult(err.Error()), nil, nil
	}

	out := make([]registryListing, 0, len(regs))
	for _, r := range regs {
		listing := registryListing{Name: r.Name(), Enabled: r.Enabled()}
		for e := range r.Entries() {
			listing.Printers = append(listing.Printers, printerListing{Name: e.Name(), Enabled: e.Enabled()})
		}
		out = append(out, listing)
	}
	return jsonResult(out)
}

func (s *Server) formatSnapshot(ctx context.Context, req *mcp.CallToolRequest, args formatSnapshotArgs) (*mcp.CallToolResult, any, error) {
	format := snapshot.FormatYAML
	if args.Format != "" {
		format = snapshot.Format(strings.ToLower(args.Format))
	}
	snap, err := snapshot.Decode([]byte(args.Snapshot), format)
	if err != nil {
		return errorResult(fmt.Sprintf("decode snapshot: %v", err)), nil, nil
	}
	if args.Name != "" {
		v, ok := snap.Value(args.Name)
		if !ok {
			return errorResult(fmt.Sprintf("no value named %q", args.Name)), nil, nil
		}
		snap.Values = []snapshot.NamedValue{{Name: args.Name, Value: v}}
	}

	if args.Session != "" {
		if s.recorder == nil {
			return errorResult("capture is not configured"), nil, nil
		}
		if _, err := s.recorder.Record(ctx, args.Session, snap); err != nil {
			return errorResult(fmt.Sprintf("record: %v", err)), nil, nil
		}
	}

	var b strings.Builder
	for _, nv := range snap.Values {
		fmt.Fprintf(&b, "%s = %s\n", nv.Name, s.host.Render(ctx, nv.Value))
	}
	return textResult(b.String()), nil, nil
}

func (s *Server) replaySession(ctx context.Context, req *mcp.CallToolRequest, args replaySessionArgs) (*mcp.CallToolResult, any, error) {
	if args.Session == "" {
		return errorResult("session is required"), nil, nil
	}
	replayed, err := s.recorder.Replay(ctx, args.Session)
	if err != nil {
		return errorResult(fmt.Sprintf("replay: %v", err)), nil, nil
	}
	if len(replayed) == 0 {
		return errorResult(fmt.Sprintf("no captures in session %q", args.Session)), nil, nil
	}

	var b strings.Builder
	for _, rep := range replayed {
		fmt.Fprintf(&b, "%s = %s\n", rep.Info.Name, rep.Rendered)
	}
	return textResult(b.String()), nil, nil
}

func (s *Server) deleteSession(ctx context.Context, req *mcp.CallToolRequest, args deleteSessionArgs) (*mcp.CallToolResult, any, error) {
	if args.Session == "" {
		return errorResult("session is required"), nil, nil
	}
	n, err := s.recorder.Delete(ctx, args.Session, args.Names...)
	if err != nil {
		return errorResult(fmt.Sprintf("delete: %v", err)), nil, nil
	}
	if n == 0 {
		return errorResult(fmt.Sprintf("no captures deleted from session %q", args.Session)), nil, nil
	}
	return textResult(fmt.Sprintf("deleted %d captures from %s", n, args.Session)), nil, nil
}

// registries returns the named registry, or every installed one when name
// is empty.
func (s *Server) registries(name string) ([]*dalipp.Registry, error) {
	if name == "" {
		return s.host.Registries(), nil
	}
	r, ok := s.host.Registry(name)
	if !ok {
		return nil, fmt.Errorf("no registry named %q", name)
	}
	return []*dalipp.Registry{r}, nil
}

func jsonResult(v any) (*mcp.CallToolResult, any, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult(fmt.Sprintf("failed to marshal results: %v", err)), nil, nil
	}
	return textResult(string(data)), nil, nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: msg},
		},
		IsError: true,
	}
}
