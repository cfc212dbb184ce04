package tools

// InputSchema is the JSON schema of a tool's arguments, surfaced verbatim by tools/list
type InputSchema struct {
	Type       string              `json:"type"`
	Properties map[string]Property `json:"properties"`
	Required   []string            `json:"required,omitempty"`
}

// Property describes one argument
type Property struct {
	Type        string      `json:"type"`
	Description string      `json:"description,omitempty"`
	Minimum     *int        `json:"minimum,omitempty"`
	Maximum     *int        `json:"maximum,omitempty"`
	MaxItems    *int        `json:"maxItems,omitempty"`
	Default     interface{} `json:"default,omitempty"`
	Items       *Property   `json:"items,omitempty"`
}

func objectSchema(props map[string]Property, required ...string) InputSchema {
	return InputSchema{
		Type:       "object",
		Properties: props,
		Required:   required,
	}
}

func stringProp(description string) Property {
	return Property{Type: "string", Description: description}
}

func boolProp(description string) Property {
	return Property{Type: "boolean", Description: description, Default: false}
}

func intProp(description string, def int) Property {
	return Property{Type: "integer", Description: description, Default: def}
}

func boundedIntProp(description string, lo, hi, def int) Property {
	return Property{
		Type:        "integer",
		Description: description,
		Minimum:     &lo,
		Maximum:     &hi,
		Default:     def,
	}
}
