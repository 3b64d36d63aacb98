// Package serialization implements the JSON wire format the CLI and
// server load tag spaces and programs from, and report accumulated
// values and traces through (compiled graphs have no wire format) —
// following the teacher's
// serializedX/marshalValue/unmarshalValue shape
// (internal/serialization/serialization.go), adapted from a
// probabilistic graph's nodes/edges to this module's type/value/AST
// trees.
package serialization

import (
	"encoding/json"
	"fmt"

	"github.com/ritamzico/decisiongraph/internal/tagspace"
)

type serializedType struct {
	Kind   string           `json:"kind"`
	Name   string           `json:"name"`
	Values []string         `json:"values,omitempty"`
	Item   *serializedType  `json:"item,omitempty"`
	Fields []serializedField `json:"fields,omitempty"`
}

type serializedField struct {
	Name string         `json:"name"`
	Type serializedType `json:"type"`
}

func marshalType(t tagspace.Type) serializedType {
	switch v := t.(type) {
	case *tagspace.AtomicType:
		return serializedType{Kind: "atomic", Name: v.Name(), Values: v.Values()}
	case *tagspace.AggregateType:
		item := marshalType(v.Item())
		return serializedType{Kind: "aggregate", Name: v.Name(), Item: &item}
	case *tagspace.PlaceholderType:
		return serializedType{Kind: "placeholder", Name: v.Name()}
	case *tagspace.CompoundType:
		fields := make([]serializedField, 0, len(v.Fields()))
		for _, f := range v.Fields() {
			fields = append(fields, serializedField{Name: f.Name, Type: marshalType(f.Type)})
		}
		return serializedType{Kind: "compound", Name: v.Name(), Fields: fields}
	default:
		return serializedType{Kind: "unknown", Name: t.Name()}
	}
}

func unmarshalType(st serializedType) (tagspace.Type, error) {
	switch st.Kind {
	case "atomic":
		return tagspace.NewAtomicType(st.Name, st.Values...)
	case "aggregate":
		if st.Item == nil {
			return nil, fmt.Errorf("aggregate type %q missing item type", st.Name)
		}
		item, err := unmarshalType(*st.Item)
		if err != nil {
			return nil, err
		}
		at, ok := item.(*tagspace.AtomicType)
		if !ok {
			return nil, fmt.Errorf("aggregate type %q item must be atomic", st.Name)
		}
		return tagspace.NewAggregateType(st.Name, at)
	case "placeholder":
		return tagspace.NewPlaceholderType(st.Name)
	case "compound":
		fields := make([]tagspace.Field, 0, len(st.Fields))
		for _, sf := range st.Fields {
			ft, err := unmarshalType(sf.Type)
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", sf.Name, err)
			}
			fields = append(fields, tagspace.Field{Name: sf.Name, Type: ft})
		}
		return tagspace.NewCompoundType(st.Name, fields...)
	default:
		return nil, fmt.Errorf("unknown serialized type kind %q", st.Kind)
	}
}

// MarshalTagSpace encodes root's type tree to indented JSON.
func MarshalTagSpace(root *tagspace.CompoundType) ([]byte, error) {
	return json.MarshalIndent(marshalType(root), "", "  ")
}

// UnmarshalTagSpace decodes a tag-space type tree from JSON. The
// top-level type must be compound, per §3's invariant.
func UnmarshalTagSpace(data []byte) (*tagspace.CompoundType, error) {
	var st serializedType
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("decoding tag space JSON: %w", err)
	}
	t, err := unmarshalType(st)
	if err != nil {
		return nil, err
	}
	ct, ok := t.(*tagspace.CompoundType)
	if !ok {
		return nil, fmt.Errorf("top-level tag space type must be compound, got %v", t.Kind())
	}
	return ct, nil
}
