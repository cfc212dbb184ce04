package mcp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
)

// Serve reads one JSON-RPC request per line from in and writes each response
// as one line to out. A request is answered before the next line is read.
// It returns nil at end of input and an error only when out cannot be
// written or in fails.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	reader := bufio.NewReader(in)

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		line, readErr := reader.ReadBytes('\n')
		if len(bytes.TrimSpace(line)) > 0 {
			if response := s.HandleMessage(ctx, line); response != nil {
				if _, err := out.Write(encodeResponse(response)); err != nil {
					return fmt.Errorf("failed to write response: %w", err)
				}
			}
		}

		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				log.Debug().Msg("Input closed, stopping server")
				return nil
			}
			return fmt.Errorf("failed to read request: %w", readErr)
		}
	}
}

// HandleMessage decodes one raw message and dispatches it. Undecodable input
// yields an internal error reply with a null id; a panic while dispatching
// yields one with the request's id.
func (s *Server) HandleMessage(ctx context.Context, data []byte) (response *JSONRPCResponse) {
	data = bytes.TrimSpace(data)

	var request JSONRPCRequest
	if len(data) == 0 || data[0] != '{' {
		log.Warn().Int("bytes", len(data)).Msg("Request is not a JSON object")
		return errorResponse(nil, CodeInternalError, "Parse error", "request must be a JSON object")
	}
	if err := json.Unmarshal(data, &request); err != nil {
		log.Warn().Err(err).Msg("Failed to parse request")
		// A well-formed object with a mistyped member still has a usable id
		var envelope struct {
			ID json.RawMessage `json:"id"`
		}
		if json.Unmarshal(data, &envelope) != nil {
			envelope.ID = nil
		}
		return errorResponse(envelope.ID, CodeInternalError, "Parse error", err.Error())
	}

	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("method", request.Method).Msg("Failed to handle request")
			response = nil
			if !request.IsNotification() {
				response = errorResponse(request.ID, CodeInternalError, "Internal error", fmt.Sprint(r))
			}
		}
	}()

	return s.Handle(ctx, &request)
}

// encodeResponse renders a response as a single line. If the response cannot
// be encoded an internal error with the same id is rendered instead.
func encodeResponse(response *JSONRPCResponse) []byte {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(response); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
		buf.Reset()
		fallback := errorResponse(response.ID, CodeInternalError, "Internal error", err.Error())
		if err := enc.Encode(fallback); err != nil {
			buf.Reset()
			enc.Encode(errorResponse(nil, CodeInternalError, "Internal error", ""))
		}
	}
	return buf.Bytes()
}
