package sync

import (
	"encoding/json"
	"fmt"
	"strings"

	"catalogsync/catalog"
)

// Stub is the minimal general entry written for a model that exists in
// pricing only. Field order here is the serialization order.
type Stub struct {
	Params       []StubParam `json:"params"`
	Type         StubType    `json:"type"`
	RemoveParams []string    `json:"removeParams"`
}

type StubParam struct {
	Key      string `json:"key"`
	MaxValue int    `json:"maxValue"`
}

type StubType struct {
	Primary   string   `json:"primary"`
	Supported []string `json:"supported"`
}

// StubFromConfig builds the stub entry from manifest settings. Only
// max_tokens is bounded; top_k, top_p, log_p and friends stay out of the
// minimal stub.
func StubFromConfig(cfg catalog.StubConfig) Stub {
	return Stub{
		Params:       []StubParam{{Key: "max_tokens", MaxValue: cfg.MaxTokens}},
		Type:         StubType{Primary: cfg.Primary, Supported: cfg.Supported},
		RemoveParams: cfg.RemoveParams,
	}
}

// RenderEntries renders `"<id>": {...}` blocks for each model ID, indented
// with the target file's indent unit and joined with ",\n". The root closing
// brace of the target document is not part of the rendered text.
func RenderEntries(ids []string, stub Stub, indent string) (string, error) {
	body, err := json.MarshalIndent(stub, indent, indent)
	if err != nil {
		return "", fmt.Errorf("render stub: %w", err)
	}

	entries := make([]string, 0, len(ids))
	for _, id := range ids {
		key, err := json.Marshal(id)
		if err != nil {
			return "", fmt.Errorf("render key %q: %w", id, err)
		}
		entries = append(entries, fmt.Sprintf("%s%s: %s", indent, key, body))
	}
	return strings.Join(entries, ",\n"), nil
}
