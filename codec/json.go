package codec

import (
	"encoding/json"
)

// JSON is the standard-library JSON codec.
//
// It is the most portable option for the manifest structures this
// package encodes: stdlib only, stable field ordering for structs.
// GoJSON decodes the same bytes faster and is the default; JSON remains
// registered so manifests written by either decode everywhere.
//
// Strigo's default codec may change over time; persisted manifests
// always record the codec name so it can be validated on load.
type JSON struct{}

// Marshal encodes the value to JSON.
func (JSON) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

// Unmarshal decodes the JSON data into v.
func (JSON) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// Name returns the unique name of the codec ("json").
func (JSON) Name() string { return "json" }

// Default is the default codec used by the library.
//
// NOTE: This affects newly-written manifests. Existing persisted manifests are
// self-describing (they store the codec name) and are validated by selecting
// the codec by name on load.
var Default Codec = GoJSON{}
