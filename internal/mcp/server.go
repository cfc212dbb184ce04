package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/iafnetworkspa/elsevier-mcp/internal/tools"
	"github.com/rs/zerolog/log"
)

// Server dispatches MCP requests against a sealed tool registry
type Server struct {
	registry *tools.Registry
	info     ServerInfo
}

// NewServer creates a new MCP server instance
func NewServer(registry *tools.Registry, info ServerInfo) *Server {
	return &Server{
		registry: registry,
		info:     info,
	}
}

// Handle processes a decoded JSON-RPC request. It returns nil for
// notifications, which are dispatched but never answered.
func (s *Server) Handle(ctx context.Context, request *JSONRPCRequest) *JSONRPCResponse {
	response := s.handleRequest(ctx, request)
	if request.IsNotification() {
		return nil
	}
	return response
}

// handleRequest processes a JSON-RPC request and logs its outcome
func (s *Server) handleRequest(ctx context.Context, request *JSONRPCRequest) *JSONRPCResponse {
	startedAt := time.Now()
	response := s.dispatch(ctx, request)

	event := log.Info().Str("outcome", "ok")
	if response.Error != nil {
		event = log.Warn().Str("outcome", "protocol_error").Int("error_code", response.Error.Code)
	}
	event.Str("component", "dispatcher").
		Str("method", request.Method).
		Bool("notification", request.IsNotification()).
		Dur("elapsed", time.Since(startedAt)).
		Msg("Request handled")

	return response
}

func (s *Server) dispatch(ctx context.Context, request *JSONRPCRequest) *JSONRPCResponse {
	if request.Method == "" {
		return errorResponse(request.ID, CodeInvalidRequest, "Invalid Request", "method is required")
	}

	switch request.Method {
	case "initialize":
		return s.handleInitialize(request)
	case "tools/list":
		return s.handleToolsList(request)
	case "tools/call":
		return s.handleToolCall(ctx, request)
	case "notifications/initialized", "initialized", "ping":
		return resultResponse(request.ID, emptyResult{})
	default:
		return errorResponse(request.ID, CodeMethodNotFound, "Method not found: "+request.Method, "")
	}
}

// handleInitialize handles the initialize request
func (s *Server) handleInitialize(request *JSONRPCRequest) *JSONRPCResponse {
	return resultResponse(request.ID, InitializeResult{
		ProtocolVersion: ProtocolVersion,
		Capabilities: ServerCapabilities{
			Tools: ToolCapabilities{
				ListChanged: false,
			},
		},
		ServerInfo: s.info,
	})
}

// handleToolsList returns the registered tools in registration order
func (s *Server) handleToolsList(request *JSONRPCRequest) *JSONRPCResponse {
	return resultResponse(request.ID, ToolsListResult{
		Tools: s.registry.List(),
	})
}

// handleToolCall executes a tool call
func (s *Server) handleToolCall(ctx context.Context, request *JSONRPCRequest) *JSONRPCResponse {
	var params ToolCallParams
	if len(request.Params) > 0 {
		if err := json.Unmarshal(request.Params, &params); err != nil {
			return errorResponse(request.ID, CodeInvalidParams, "Invalid params", err.Error())
		}
	}
	if params.Name == "" {
		return errorResponse(request.ID, CodeInvalidParams, "Invalid params: name is required", "")
	}

	handler, ok := s.registry.Lookup(params.Name)
	if !ok {
		return errorResponse(request.ID, CodeMethodNotFound, "Tool not found: "+params.Name, "")
	}

	args := tools.Arguments{}
	if len(params.Arguments) > 0 && !bytes.Equal(bytes.TrimSpace(params.Arguments), []byte("null")) {
		if err := json.Unmarshal(params.Arguments, &args); err != nil {
			return errorResponse(request.ID, CodeInvalidParams, "Invalid params: arguments must be an object", err.Error())
		}
	}

	callID := uuid.NewString()
	logger := log.With().
		Str("component", "dispatcher").
		Str("tool", params.Name).
		Str("call_id", callID).
		Logger()

	startedAt := time.Now()
	logger.Debug().Int("arguments", len(args)).Msg("Calling tool")

	outcome := invoke(ctx, handler, args)

	event := logger.Info()
	if !outcome.OK() {
		event = logger.Warn().Str("error", outcome.Message())
	}
	event.Bool("success", outcome.OK()).Dur("elapsed", time.Since(startedAt)).Msg("Tool call finished")

	text, err := marshalIndent(outcome)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to encode tool result")
		return errorResponse(request.ID, CodeInternalError, "Internal error", err.Error())
	}

	return resultResponse(request.ID, ToolCallResult{
		Content: []Content{
			{
				Type: "text",
				Text: text,
			},
		},
	})
}

// invoke runs a handler, turning a panic into a domain failure
func invoke(ctx context.Context, handler tools.Handler, args tools.Arguments) (outcome tools.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("Tool handler panicked")
			outcome = tools.Failuref("internal error: %v", r)
		}
	}()
	return handler.Call(ctx, args)
}

func marshalIndent(v interface{}) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("failed to encode result: %w", err)
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}
