// Package valuebuilder implements the Value Builder (C4): atomic and
// aggregate assignment against a root compound value, resolving slot
// references via a slotindex.Index and descending/creating
// intermediate compounds as needed.
package valuebuilder

import (
	"strings"

	"github.com/ritamzico/decisiongraph/internal/slotindex"
	"github.com/ritamzico/decisiongraph/internal/tagspace"
	"github.com/ritamzico/decisiongraph/internal/tagvalue"
)

// Builder applies assignments against a tag space's Slot Index.
type Builder struct {
	index *slotindex.Index
}

// New builds a Builder over idx.
func New(idx *slotindex.Index) *Builder {
	return &Builder{index: idx}
}

// AssignAtomic resolves ref and sets it to value on root, creating any
// missing intermediate compounds. offending is attached to any error
// for diagnostics (it is typically the originating AST node).
func (b *Builder) AssignAtomic(root tagvalue.CompoundValue, ref []string, value string, offending any) (tagvalue.CompoundValue, error) {
	path, err := b.index.Resolve(ref)
	if err != nil {
		return root, AssignError{Kind: "SlotNotFound", Message: err.Error(), Offending: offending}
	}

	build := func(fieldType tagspace.Type, _ tagvalue.Value) (tagvalue.Value, error) {
		at, ok := fieldType.(*tagspace.AtomicType)
		if !ok {
			return nil, kindMismatch(strings.Join(path, "."), "atomic", fieldType.Kind().String(), offending)
		}
		if !at.HasValue(value) {
			return nil, noSuchAtomicValue(at.Name(), value, offending)
		}
		return tagvalue.AtomicValue{Type: at, Name: value}, nil
	}

	return assignAt(root, root.Type, path, offending, build)
}

// AssignAggregate resolves ref and unions values into its existing
// aggregate (creating it if unset), creating any missing intermediate
// compounds.
func (b *Builder) AssignAggregate(root tagvalue.CompoundValue, ref []string, values []string, offending any) (tagvalue.CompoundValue, error) {
	path, err := b.index.Resolve(ref)
	if err != nil {
		return root, AssignError{Kind: "SlotNotFound", Message: err.Error(), Offending: offending}
	}

	build := func(fieldType tagspace.Type, existing tagvalue.Value) (tagvalue.Value, error) {
		agt, ok := fieldType.(*tagspace.AggregateType)
		if !ok {
			return nil, kindMismatch(strings.Join(path, "."), "aggregate", fieldType.Kind().String(), offending)
		}

		agg, ok := existing.(tagvalue.AggregateValue)
		if !ok {
			agg = tagvalue.NewAggregateValue(agt)
		}

		for _, v := range values {
			if !agt.Item().HasValue(v) {
				return nil, noSuchAtomicValue(agt.Item().Name(), v, offending)
			}
			agg = agg.Add(v)
		}
		return agg, nil
	}

	return assignAt(root, root.Type, path, offending, build)
}

// assignAt walks curType/curVal along path, creating intermediate
// compound values as needed, and calls build at the final segment
// with the field's declared type and its current value (nil if
// unset). build returns the new leaf value to install.
func assignAt(
	curVal tagvalue.CompoundValue,
	curType *tagspace.CompoundType,
	path []string,
	offending any,
	build func(fieldType tagspace.Type, existing tagvalue.Value) (tagvalue.Value, error),
) (tagvalue.CompoundValue, error) {
	name := path[0]

	fieldType, ok := curType.Field(name)
	if !ok {
		return curVal, slotNotFound(name, offending)
	}

	if len(path) == 1 {
		existing, _ := curVal.Get(name)
		newVal, err := build(fieldType, existing)
		if err != nil {
			return curVal, err
		}
		return curVal.With(name, newVal), nil
	}

	fieldCompound, ok := fieldType.(*tagspace.CompoundType)
	if !ok {
		return curVal, slotNotCompound(name, offending)
	}

	childVal, ok := curVal.Get(name)
	childCompound, wasCompound := childVal.(tagvalue.CompoundValue)
	if !ok || !wasCompound {
		childCompound = tagvalue.NewCompoundValue(fieldCompound)
	}

	newChild, err := assignAt(childCompound, fieldCompound, path[1:], offending, build)
	if err != nil {
		return curVal, err
	}
	return curVal.With(name, newChild), nil
}
