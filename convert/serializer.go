package convert

import (
	"encoding/json"
	"sync/atomic"

	"gopkg.in/yaml.v3"
)

// Serializer is the opaque round-trip used as the last conversion resort
// when a value must become a type it is not related to.
type Serializer interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

type jsonSerializer struct{}

func (jsonSerializer) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (jsonSerializer) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

type yamlSerializer struct{}

func (yamlSerializer) Marshal(v any) ([]byte, error)      { return yaml.Marshal(v) }
func (yamlSerializer) Unmarshal(data []byte, v any) error { return yaml.Unmarshal(data, v) }

var (
	// JSON round-trips through encoding/json. It is the default.
	JSON Serializer = jsonSerializer{}
	// YAML round-trips through gopkg.in/yaml.v3.
	YAML Serializer = yamlSerializer{}
)

type serializerHolder struct{ s Serializer }

var current atomic.Pointer[serializerHolder]

func init() {
	current.Store(&serializerHolder{s: JSON})
}

// SetDefault replaces the process-wide fallback serializer. A nil s restores JSON.
func SetDefault(s Serializer) {
	if s == nil {
		s = JSON
	}
	current.Store(&serializerHolder{s: s})
}

// Default returns the process-wide fallback serializer.
func Default() Serializer {
	return current.Load().s
}

// ByName resolves "json" or "yaml" to a serializer.
func ByName(name string) (Serializer, bool) {
	switch name {
	case "json", "":
		return JSON, true
	case "yaml", "yml":
		return YAML, true
	}
	return nil, false
}
