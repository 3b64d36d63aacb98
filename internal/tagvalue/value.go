// Package tagvalue implements runtype values that conform to a
// tagspace.Type tree (C2 of the decision-graph core): atomic values,
// aggregate (set) values, and compound values with field maps, plus
// the merge semantics the interpreter uses to accumulate results.
package tagvalue

import (
	"maps"
	"slices"

	"github.com/ritamzico/decisiongraph/internal/tagspace"
)

// Value is the common interface every tag-value variant satisfies.
// Concrete variants are AtomicValue, AggregateValue and CompoundValue;
// callers dispatch with a type switch rather than a visitor, per the
// redesign-flag guidance against polymorphic visitor dispatch.
type Value interface {
	Kind() tagspace.Kind
	// Equal reports structural equality: atomic values compare by
	// (type, name); aggregate values compare by set equality of their
	// members; compound values compare recursively field by field.
	Equal(other Value) bool
}

// AtomicValue is bound to its atomic type; equality is by (type, name).
type AtomicValue struct {
	Type *tagspace.AtomicType
	Name string
}

func (v AtomicValue) Kind() tagspace.Kind { return tagspace.AtomicKind }

func (v AtomicValue) Equal(other Value) bool {
	o, ok := other.(AtomicValue)
	return ok && o.Type == v.Type && o.Name == v.Name
}

// AggregateValue is bound to its aggregate type; it carries a set of
// atomic values, all of the aggregate's item type.
type AggregateValue struct {
	Type  *tagspace.AggregateType
	items map[string]struct{}
}

// NewAggregateValue builds an empty aggregate value of typ.
func NewAggregateValue(typ *tagspace.AggregateType) AggregateValue {
	return AggregateValue{Type: typ, items: make(map[string]struct{})}
}

func (v AggregateValue) Kind() tagspace.Kind { return tagspace.AggregateKind }

// Add returns a copy of v with name inserted into its set.
func (v AggregateValue) Add(name string) AggregateValue {
	out := AggregateValue{Type: v.Type, items: maps.Clone(v.items)}
	if out.items == nil {
		out.items = make(map[string]struct{})
	}
	out.items[name] = struct{}{}
	return out
}

// Has reports whether name is a member of this aggregate value.
func (v AggregateValue) Has(name string) bool {
	_, ok := v.items[name]
	return ok
}

// Members returns the set members in sorted order (for deterministic
// display/serialization; set membership itself is unordered).
func (v AggregateValue) Members() []string {
	out := slices.Collect(maps.Keys(v.items))
	slices.Sort(out)
	return out
}

func (v AggregateValue) Equal(other Value) bool {
	o, ok := other.(AggregateValue)
	if !ok || o.Type != v.Type || len(o.items) != len(v.items) {
		return false
	}
	for k := range v.items {
		if _, ok := o.items[k]; !ok {
			return false
		}
	}
	return true
}

// union returns a new AggregateValue holding the union of v and o's
// members. Both must share the same type.
func (v AggregateValue) union(o AggregateValue) AggregateValue {
	out := NewAggregateValue(v.Type)
	maps.Copy(out.items, v.items)
	maps.Copy(out.items, o.items)
	return out
}

// CompoundValue is bound to a compound type; it carries a mapping from
// field name to value. A missing field entry means "unset".
type CompoundValue struct {
	Type   *tagspace.CompoundType
	fields map[string]Value
}

// NewCompoundValue builds an empty compound value of typ (every field
// unset).
func NewCompoundValue(typ *tagspace.CompoundType) CompoundValue {
	return CompoundValue{Type: typ, fields: make(map[string]Value)}
}

func (v CompoundValue) Kind() tagspace.Kind { return tagspace.CompoundKind }

// Get returns the value at fieldName, or ok=false if unset.
func (v CompoundValue) Get(fieldName string) (Value, bool) {
	val, ok := v.fields[fieldName]
	return val, ok
}

// With returns a copy of v with fieldName set to val.
func (v CompoundValue) With(fieldName string, val Value) CompoundValue {
	out := CompoundValue{Type: v.Type, fields: maps.Clone(v.fields)}
	if out.fields == nil {
		out.fields = make(map[string]Value)
	}
	out.fields[fieldName] = val
	return out
}

func (v CompoundValue) Equal(other Value) bool {
	o, ok := other.(CompoundValue)
	if !ok || o.Type != v.Type {
		return false
	}

	names := make(map[string]struct{}, len(v.fields)+len(o.fields))
	for n := range v.fields {
		names[n] = struct{}{}
	}
	for n := range o.fields {
		names[n] = struct{}{}
	}

	for n := range names {
		a, aok := v.fields[n]
		b, bok := o.fields[n]
		switch {
		case !aok && !bok:
			continue
		case aok != bok:
			return false
		default:
			if !a.Equal(b) {
				return false
			}
		}
	}
	return true
}

// Merge combines two values of the same type. Atomic-atomic merge
// requires equality (otherwise a MergeConflict error). Aggregate
// merge unions the two sets. Compound merge recurses field by field.
// Unset ⊔ v = v in either position (represented by a nil Value).
func Merge(a, b Value) (Value, error) {
	if a == nil {
		return b, nil
	}
	if b == nil {
		return a, nil
	}

	switch av := a.(type) {
	case AtomicValue:
		bv, ok := b.(AtomicValue)
		if !ok || av.Type != bv.Type {
			return nil, typeMismatch("atomic merge")
		}
		if !av.Equal(bv) {
			return nil, atomicMergeConflict(av.Type.Name(), av.Name, bv.Name)
		}
		return av, nil

	case AggregateValue:
		bv, ok := b.(AggregateValue)
		if !ok || av.Type != bv.Type {
			return nil, typeMismatch("aggregate merge")
		}
		return av.union(bv), nil

	case CompoundValue:
		bv, ok := b.(CompoundValue)
		if !ok || av.Type != bv.Type {
			return nil, typeMismatch("compound merge")
		}
		return mergeCompound(av, bv)

	default:
		return nil, typeMismatch("merge")
	}
}

func mergeCompound(a, b CompoundValue) (CompoundValue, error) {
	out := NewCompoundValue(a.Type)

	names := make(map[string]struct{}, len(a.fields)+len(b.fields))
	for n := range a.fields {
		names[n] = struct{}{}
	}
	for n := range b.fields {
		names[n] = struct{}{}
	}

	for n := range names {
		merged, err := Merge(a.fields[n], b.fields[n])
		if err != nil {
			return CompoundValue{}, err
		}
		out.fields[n] = merged
	}

	return out, nil
}
