// Package tools holds the tool registry, the handler contract and the
// bibliographic tool handlers.
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Arguments is the caller-supplied argument bag of a tools/call request
type Arguments map[string]interface{}

// Handler implements one tool. Call never returns a Go error: every failure
// is reported through the Outcome.
type Handler interface {
	Call(ctx context.Context, args Arguments) Outcome
}

// HandlerFunc adapts a function to Handler
type HandlerFunc func(ctx context.Context, args Arguments) Outcome

func (f HandlerFunc) Call(ctx context.Context, args Arguments) Outcome {
	return f(ctx, args)
}

// Outcome is the result of a tool call: a success payload or a failure.
// Success payloads carry their own `success: true` field.
type Outcome struct {
	Payload interface{}
	Err     error
}

type failurePayload struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// Success wraps a domain payload
func Success(payload interface{}) Outcome {
	return Outcome{Payload: payload}
}

// Failure wraps a domain error
func Failure(err error) Outcome {
	if err == nil {
		err = errors.New("unknown error")
	}
	return Outcome{Err: err}
}

// Failuref builds a domain failure from a format string
func Failuref(format string, args ...interface{}) Outcome {
	return Failure(fmt.Errorf(format, args...))
}

// OK reports whether the outcome is a success
func (o Outcome) OK() bool {
	return o.Err == nil
}

// Message returns the failure message, never empty for a failure
func (o Outcome) Message() string {
	if o.Err == nil {
		return ""
	}
	if msg := o.Err.Error(); msg != "" {
		return msg
	}
	return "unknown error"
}

func (o Outcome) MarshalJSON() ([]byte, error) {
	if o.Err != nil {
		return json.Marshal(failurePayload{Success: false, Error: o.Message()})
	}
	return json.Marshal(o.Payload)
}

// DecodeArguments decodes args into the typed struct pointed to by out.
// Fields already set on out act as defaults for absent or null arguments.
// Input is weakly typed, so "3" decodes into an int and 2024 into a string.
func DecodeArguments(args Arguments, out interface{}) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       saturateIntHookFunc(),
		Result:           out,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return err
	}
	if args == nil {
		return nil
	}
	if err := dec.Decode(map[string]interface{}(args)); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// saturateIntHookFunc pins numbers beyond the int range to math.MaxInt or
// math.MinInt, so clamp can cap them instead of seeing a wrapped value.
// Numeric strings such as "1e3" or "2.0" are accepted as well.
func saturateIntHookFunc() mapstructure.DecodeHookFuncKind {
	return func(f reflect.Kind, t reflect.Kind, data interface{}) (interface{}, error) {
		if t != reflect.Int {
			return data, nil
		}
		var n float64
		switch v := data.(type) {
		case float64:
			n = v
		case float32:
			n = float64(v)
		case string:
			s := strings.TrimSpace(v)
			if _, err := strconv.Atoi(s); err == nil {
				return s, nil
			}
			parsed, err := strconv.ParseFloat(s, 64)
			if err != nil && !math.IsInf(parsed, 0) {
				return data, nil
			}
			n = parsed
		default:
			return data, nil
		}
		switch {
		case math.IsNaN(n):
			return data, nil
		case n >= float64(math.MaxInt):
			return math.MaxInt, nil
		case n <= float64(math.MinInt):
			return math.MinInt, nil
		}
		return int(n), nil
	}
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
