// Package mcpserver exposes Session operations as MCP tools over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/VantageDataChat/slidesmith"
	"github.com/VantageDataChat/slidesmith/internal/logging"
	"github.com/VantageDataChat/slidesmith/internal/session"
)

const serverName = "slidesmith"

type Server struct {
	mcp      *server.MCPServer
	registry *Registry
	logger   *slog.Logger
	handlers map[string]server.ToolHandlerFunc
	tools    []mcp.Tool
}

type Option func(*Server)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// toolFunc runs one tool against the caller's Session. A returned
// *mcp.CallToolResult is passed through; anything else is sent as JSON.
type toolFunc func(ctx context.Context, sess *session.Session, req mcp.CallToolRequest) (any, error)

func New(registry *Registry, opts ...Option) *Server {
	s := &Server{
		registry: registry,
		logger:   logging.Nop(),
		handlers: make(map[string]server.ToolHandlerFunc),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.registry == nil {
		s.registry = NewRegistry(nil)
	}

	hooks := &server.Hooks{}
	hooks.AddOnUnregisterSession(func(ctx context.Context, cs server.ClientSession) {
		s.registry.Drop(cs.SessionID())
		s.logger.Info("mcp.session_closed", "connection", cs.SessionID())
	})
	s.mcp = server.NewMCPServer(serverName, slidesmith.Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithHooks(hooks),
	)
	s.registerTools()
	return s
}

// MCP returns the underlying server for alternative transports.
func (s *Server) MCP() *server.MCPServer { return s.mcp }

func (s *Server) ServeStdio() error {
	s.logger.Info("mcp.serve", "transport", "stdio", "tools", len(s.handlers))
	return server.ServeStdio(s.mcp)
}

// ToolNames lists the registered tools in registration order.
func (s *Server) ToolNames() []string {
	names := make([]string, len(s.tools))
	for i, t := range s.tools {
		names[i] = t.Name
	}
	return names
}

// Describe returns one line per tool with its description.
func (s *Server) Describe() string { return describeTools(s.tools) }

func (s *Server) addTool(tool mcp.Tool, fn toolFunc) {
	h := s.wrap(tool.Name, fn)
	s.handlers[tool.Name] = h
	s.tools = append(s.tools, tool)
	s.mcp.AddTool(tool, h)
}

func (s *Server) wrap(name string, fn toolFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (result *mcp.CallToolResult, err error) {
		conn := connectionID(ctx)
		log := s.logger.With("tool", name, "connection", conn)
		start := time.Now()
		defer func() {
			if r := recover(); r != nil {
				log.Error("tool.panic", "panic", fmt.Sprint(r))
				result = errorResult(&session.Error{Kind: session.KindInternal, Msg: fmt.Sprintf("Internal error: %v", r)})
				err = nil
			}
		}()
		log.Debug("tool.call", "args", logging.SummarizeArgs(req.GetArguments()))

		var (
			out     any
			callErr error
		)
		s.registry.Get(conn).Do(func(sess *session.Session) {
			out, callErr = fn(ctx, sess, req)
		})
		if callErr != nil {
			log.Info("tool.failed", "error_kind", session.KindOf(callErr), "error", callErr.Error(), "elapsed", time.Since(start))
			return errorResult(callErr), nil
		}
		log.Info("tool.done", "elapsed", time.Since(start))
		if r, ok := out.(*mcp.CallToolResult); ok {
			return r, nil
		}
		return jsonResult(out), nil
	}
}

// bind decodes the tool arguments into target.
func bind(req mcp.CallToolRequest, target any) error {
	if err := req.BindArguments(target); err != nil {
		return &session.Error{Kind: session.KindInvalidArgument, Msg: "Invalid arguments: " + err.Error(), Err: err}
	}
	return nil
}

func jsonResult(v any) *mcp.CallToolResult {
	data, err := json.Marshal(v)
	if err != nil {
		return errorResult(&session.Error{Kind: session.KindInternal, Msg: "encode result: " + err.Error()})
	}
	return mcp.NewToolResultText(string(data))
}

type errorBody struct {
	Error     string       `json:"error"`
	ErrorKind session.Kind `json:"error_kind"`
}

func errorResult(err error) *mcp.CallToolResult {
	body := errorBody{Error: err.Error(), ErrorKind: session.KindOf(err)}
	data, _ := json.Marshal(body)
	return mcp.NewToolResultError(string(data))
}
