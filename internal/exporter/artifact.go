package exporter

import (
	"encoding/json"
	"fmt"

	"github.com/specialistvlad/flowexport/internal/provider"
	"github.com/specialistvlad/flowexport/internal/resolver"
)

// WelcomeEvent is the event attached to intents owned by the welcome node.
const WelcomeEvent = "WELCOME"

// Event triggers an intent without user input.
type Event struct {
	Name string `json:"name"`
}

// IntentResponse is the single response block of an intent definition.
type IntentResponse struct {
	ResetContexts            bool                `json:"resetContexts"`
	Action                   string              `json:"action"`
	AffectedContexts         []resolver.Context  `json:"affectedContexts"`
	Parameters               []any               `json:"parameters"`
	Messages                 []provider.Response `json:"messages"`
	DefaultResponsePlatforms map[string]bool     `json:"defaultResponsePlatforms"`
	Speech                   []string            `json:"speech"`
}

// IntentArtifact is the content of intents/<name>.json. Fields not modelled
// here come from the intent template and are carried in Defaults.
type IntentArtifact struct {
	ID         string
	Name       string
	Contexts   []string
	Events     []Event
	LastUpdate int64
	Responses  []IntentResponse
	Defaults   map[string]json.RawMessage
}

// MarshalJSON writes the template defaults overlaid with the artifact fields.
func (a IntentArtifact) MarshalJSON() ([]byte, error) {
	doc := overlay(a.Defaults)
	doc["id"] = a.ID
	doc["name"] = a.Name
	doc["contexts"] = nonNil(a.Contexts)
	doc["events"] = nonNil(a.Events)
	doc["lastUpdate"] = a.LastUpdate
	doc["responses"] = nonNil(a.Responses)
	return json.Marshal(doc)
}

// EntityArtifact is the content of entities/<name>.json.
type EntityArtifact struct {
	ID       string
	Name     string
	Defaults map[string]json.RawMessage
}

// MarshalJSON writes the template defaults overlaid with the entity identity.
func (a EntityArtifact) MarshalJSON() ([]byte, error) {
	doc := overlay(a.Defaults)
	doc["id"] = a.ID
	doc["name"] = a.Name
	return json.Marshal(doc)
}

func overlay(defaults map[string]json.RawMessage) map[string]any {
	doc := make(map[string]any, len(defaults)+6)
	for k, v := range defaults {
		doc[k] = v
	}
	return doc
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// parseDefaults decodes a template document into its top-level fields.
func parseDefaults(name string, doc []byte) (map[string]json.RawMessage, error) {
	var out map[string]json.RawMessage
	if err := json.Unmarshal(doc, &out); err != nil {
		return nil, fmt.Errorf("decode %s template: %w", name, err)
	}
	if out == nil {
		out = map[string]json.RawMessage{}
	}
	return out, nil
}
