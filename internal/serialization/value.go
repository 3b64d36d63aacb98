package serialization

import (
	"encoding/json"

	"github.com/ritamzico/decisiongraph/internal/dgraph"
	"github.com/ritamzico/decisiongraph/internal/tagvalue"
)

// valueToJSON renders a tagvalue.Value as a plain JSON-able shape:
// an atomic value is its name, an aggregate value is its sorted member
// list, and a compound value is a field-name-keyed map — there is no
// ambiguity to preserve on the way out, unlike the AST/tag-space wire
// formats, since this direction never needs to round-trip back into a
// typed value.
func valueToJSON(v tagvalue.Value) any {
	switch t := v.(type) {
	case tagvalue.AtomicValue:
		return t.Name
	case tagvalue.AggregateValue:
		return t.Members()
	case tagvalue.CompoundValue:
		out := make(map[string]any)
		for _, f := range t.Type.Fields() {
			if val, ok := t.Get(f.Name); ok {
				out[f.Name] = valueToJSON(val)
			}
		}
		return out
	default:
		return nil
	}
}

// MarshalValue renders acc as indented JSON for display/output.
func MarshalValue(acc tagvalue.CompoundValue) ([]byte, error) {
	return json.MarshalIndent(valueToJSON(acc), "", "  ")
}

// MarshalTrace renders a trace as a plain JSON array of node ids.
func MarshalTrace(trace []dgraph.NodeID) ([]byte, error) {
	ids := make([]string, len(trace))
	for i, id := range trace {
		ids[i] = string(id)
	}
	return json.MarshalIndent(ids, "", "  ")
}
