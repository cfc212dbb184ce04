package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/iafnetworkspa/elsevier-mcp/internal/tools"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	r := tools.NewRegistry()
	r.MustRegister(tools.Descriptor{Name: "echo", Description: "echo"}, tools.HandlerFunc(
		func(ctx context.Context, args tools.Arguments) tools.Outcome {
			return tools.Success(map[string]interface{}{"success": true, "args": args})
		}))
	r.MustRegister(tools.Descriptor{Name: "fail", Description: "fail"}, tools.HandlerFunc(
		func(ctx context.Context, args tools.Arguments) tools.Outcome {
			return tools.Failuref("API Error: %d", 500)
		}))
	r.MustRegister(tools.Descriptor{Name: "boom", Description: "boom"}, tools.HandlerFunc(
		func(ctx context.Context, args tools.Arguments) tools.Outcome {
			panic("kaboom")
		}))
	r.Seal()

	return NewServer(r, ServerInfo{Name: "elsevier-mcp", Version: "test"})
}

func call(t *testing.T, s *Server, raw string) *JSONRPCResponse {
	t.Helper()
	return s.HandleMessage(context.Background(), []byte(raw))
}

// toolPayload decodes the text content of a tools/call result
func toolPayload(t *testing.T, resp *JSONRPCResponse) map[string]interface{} {
	t.Helper()
	if resp == nil {
		t.Fatal("response is nil")
	}
	if resp.Error != nil {
		t.Fatalf("unexpected protocol error: %+v", resp.Error)
	}
	result, ok := resp.Result.(ToolCallResult)
	if !ok {
		t.Fatalf("Result = %T, want ToolCallResult", resp.Result)
	}
	if len(result.Content) != 1 || result.Content[0].Type != "text" {
		t.Fatalf("Content = %+v", result.Content)
	}
	var payload map[string]interface{}
	if err := json.Unmarshal([]byte(result.Content[0].Text), &payload); err != nil {
		t.Fatalf("text content is not JSON: %v", err)
	}
	return payload
}

func TestServer_Initialize(t *testing.T) {
	s := newTestServer(t)
	resp := call(t, s, `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`)

	if resp.Error != nil {
		t.Fatalf("initialize error = %+v", resp.Error)
	}
	if string(resp.ID) != "1" {
		t.Errorf("ID = %s, want 1", resp.ID)
	}
	result, ok := resp.Result.(InitializeResult)
	if !ok {
		t.Fatalf("Result = %T, want InitializeResult", resp.Result)
	}
	if result.ProtocolVersion != "2024-11-05" {
		t.Errorf("ProtocolVersion = %v, want 2024-11-05", result.ProtocolVersion)
	}
	if result.Capabilities.Tools.ListChanged {
		t.Error("ListChanged = true, want false")
	}
	if result.ServerInfo.Name != "elsevier-mcp" {
		t.Errorf("ServerInfo.Name = %v", result.ServerInfo.Name)
	}
}

func TestServer_ToolsList(t *testing.T) {
	s := newTestServer(t)
	want := []string{"echo", "fail", "boom"}

	// interleave other traffic to check that listing has no state
	for i := 0; i < 3; i++ {
		call(t, s, `{"jsonrpc":"2.0","id":9,"method":"tools/call","params":{"name":"boom"}}`)

		resp := call(t, s, `{"jsonrpc":"2.0","id":2,"method":"tools/list"}`)
		result, ok := resp.Result.(ToolsListResult)
		if !ok {
			t.Fatalf("Result = %T, want ToolsListResult", resp.Result)
		}
		if len(result.Tools) != len(want) {
			t.Fatalf("tools = %d, want %d", len(result.Tools), len(want))
		}
		for j, d := range result.Tools {
			if d.Name != want[j] {
				t.Errorf("tool %d = %s, want %s", j, d.Name, want[j])
			}
		}
	}
}

func TestServer_ToolCall_Success(t *testing.T) {
	s := newTestServer(t)
	resp := call(t, s, `{"jsonrpc":"2.0","id":"a","method":"tools/call","params":{"name":"echo","arguments":{"q":"x"}}}`)

	payload := toolPayload(t, resp)
	if payload["success"] != true {
		t.Errorf("success = %v, want true", payload["success"])
	}
	args := payload["args"].(map[string]interface{})
	if args["q"] != "x" {
		t.Errorf("args = %v", args)
	}
	if text := resp.Result.(ToolCallResult).Content[0].Text; !strings.Contains(text, "\n  \"") {
		t.Errorf("text content is not indented: %q", text)
	}
}

func TestServer_ToolCall_MissingArguments(t *testing.T) {
	s := newTestServer(t)
	for _, raw := range []string{
		`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"echo"}}`,
		`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"echo","arguments":null}}`,
	} {
		payload := toolPayload(t, call(t, s, raw))
		if args, ok := payload["args"].(map[string]interface{}); !ok || len(args) != 0 {
			t.Errorf("args = %v, want empty object", payload["args"])
		}
	}
}

func TestServer_ToolCall_DomainFailure(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		tool string
		want string
	}{
		{"failing upstream", "fail", "API Error: 500"},
		{"panicking handler", "boom", "internal error: kaboom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := call(t, s, `{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"`+tt.tool+`"}}`)
			payload := toolPayload(t, resp)
			if payload["success"] != false {
				t.Errorf("success = %v, want false", payload["success"])
			}
			if payload["error"] != tt.want {
				t.Errorf("error = %v, want %s", payload["error"], tt.want)
			}
		})
	}
}

func TestServer_ProtocolErrors(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name     string
		raw      string
		wantCode int
		wantMsg  string
	}{
		{"unknown tool", `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"nope"}}`, CodeMethodNotFound, "nope"},
		{"unknown method", `{"jsonrpc":"2.0","id":1,"method":"resources/list"}`, CodeMethodNotFound, "resources/list"},
		{"unknown tool with bad arguments", `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"no_such_tool","arguments":"x"}}`, CodeMethodNotFound, "no_such_tool"},
		{"missing name", `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{}}`, CodeInvalidParams, "name is required"},
		{"missing params", `{"jsonrpc":"2.0","id":1,"method":"tools/call"}`, CodeInvalidParams, "name is required"},
		{"params not an object", `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":[1]}`, CodeInvalidParams, "Invalid params"},
		{"arguments not an object", `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"echo","arguments":"x"}}`, CodeInvalidParams, "arguments must be an object"},
		{"missing method", `{"jsonrpc":"2.0","id":1}`, CodeInvalidRequest, "Invalid Request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := call(t, s, tt.raw)
			if resp == nil || resp.Error == nil {
				t.Fatalf("response = %+v, want protocol error", resp)
			}
			if resp.Result != nil {
				t.Error("error response must not carry a result")
			}
			if resp.Error.Code != tt.wantCode {
				t.Errorf("Code = %d, want %d", resp.Error.Code, tt.wantCode)
			}
			if !strings.Contains(resp.Error.Message, tt.wantMsg) {
				t.Errorf("Message = %q, want it to contain %q", resp.Error.Message, tt.wantMsg)
			}
			if string(resp.ID) != "1" {
				t.Errorf("ID = %s, want 1", resp.ID)
			}
		})
	}
}

func TestServer_ParseErrors(t *testing.T) {
	s := newTestServer(t)

	for _, raw := range []string{`{not json`, `[1,2]`, `null`, `42`} {
		resp := call(t, s, raw)
		if resp == nil || resp.Error == nil {
			t.Fatalf("%s: response = %+v, want parse error", raw, resp)
		}
		if resp.Error.Code != CodeInternalError {
			t.Errorf("%s: Code = %d, want %d", raw, resp.Error.Code, CodeInternalError)
		}
		if resp.ID != nil {
			t.Errorf("%s: ID = %s, want null", raw, resp.ID)
		}
	}

	// mistyped member, id still recoverable
	resp := call(t, s, `{"jsonrpc":"2.0","id":7,"method":5}`)
	if resp.Error == nil || string(resp.ID) != "7" {
		t.Errorf("response = %+v, want parse error with id 7", resp)
	}
}

func TestServer_Notifications(t *testing.T) {
	s := newTestServer(t)

	for _, raw := range []string{
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		`{"jsonrpc":"2.0","method":"unknown/notification"}`,
		`{"jsonrpc":"2.0","method":"tools/call","params":{"name":"boom"}}`,
	} {
		if resp := call(t, s, raw); resp != nil {
			t.Errorf("%s: got response %+v, want none", raw, resp)
		}
	}

	resp := call(t, s, `{"jsonrpc":"2.0","id":null,"method":"tools/list"}`)
	if resp == nil {
		t.Fatal("request with explicit null id must be answered")
	}
	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	if !bytes.Contains(data, []byte(`"id":null`)) {
		t.Errorf("response = %s, want id null", data)
	}
}

func TestServer_LogsEveryRequest(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	defer func() { log.Logger = prev }()

	s := newTestServer(t)
	call(t, s, `{"jsonrpc":"2.0","id":1,"method":"initialize"}`)
	call(t, s, `{"jsonrpc":"2.0","id":2,"method":"resources/list"}`)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	var handled []map[string]interface{}
	for _, line := range lines {
		var entry map[string]interface{}
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("log line is not JSON: %q", line)
		}
		if entry["message"] == "Request handled" {
			handled = append(handled, entry)
		}
	}

	if len(handled) != 2 {
		t.Fatalf("request log entries = %d, want 2", len(handled))
	}
	if handled[0]["method"] != "initialize" || handled[0]["outcome"] != "ok" {
		t.Errorf("initialize entry = %v", handled[0])
	}
	if _, ok := handled[0]["elapsed"]; !ok {
		t.Error("initialize entry has no elapsed duration")
	}
	if handled[1]["method"] != "resources/list" || handled[1]["error_code"] != float64(CodeMethodNotFound) {
		t.Errorf("unknown method entry = %v", handled[1])
	}
}

func TestJSONRPCRequest_Unmarshal(t *testing.T) {
	tests := []struct {
		raw    string
		wantID string
		notify bool
	}{
		{`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`, "1", false},
		{`{"jsonrpc":"2.0","id":"abc","method":"tools/list"}`, `"abc"`, false},
		{`{"jsonrpc":"2.0","id":null,"method":"tools/list"}`, "null", false},
		{`{"jsonrpc":"2.0","method":"tools/list"}`, "", true},
	}

	for _, tt := range tests {
		var request JSONRPCRequest
		if err := json.Unmarshal([]byte(tt.raw), &request); err != nil {
			t.Fatalf("json.Unmarshal() error = %v", err)
		}
		if string(request.ID) != tt.wantID {
			t.Errorf("ID = %s, want %s", request.ID, tt.wantID)
		}
		if request.IsNotification() != tt.notify {
			t.Errorf("IsNotification() = %v, want %v", request.IsNotification(), tt.notify)
		}
		if request.Method != "tools/list" {
			t.Errorf("Method = %v, want tools/list", request.Method)
		}
	}
}

func TestJSONRPCResponse_Marshal(t *testing.T) {
	data, err := json.Marshal(errorResponse(nil, CodeMethodNotFound, "Tool not found: x", ""))
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	want := `{"jsonrpc":"2.0","id":null,"error":{"code":-32601,"message":"Tool not found: x"}}`
	if string(data) != want {
		t.Errorf("Marshal() = %s, want %s", data, want)
	}

	data, err = json.Marshal(resultResponse(json.RawMessage(`"r1"`), emptyResult{}))
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	if string(data) != `{"jsonrpc":"2.0","id":"r1","result":{}}` {
		t.Errorf("Marshal() = %s", data)
	}
}
