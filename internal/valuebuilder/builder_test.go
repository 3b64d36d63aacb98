package valuebuilder_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ritamzico/decisiongraph/internal/slotindex"
	"github.com/ritamzico/decisiongraph/internal/tagspace"
	"github.com/ritamzico/decisiongraph/internal/tagvalue"
	"github.com/ritamzico/decisiongraph/internal/valuebuilder"
)

// buildSchema constructs Root{ severity: Severity, tags: Tags, customer{ name: Name } }.
func buildSchema(t *testing.T) *tagspace.CompoundType {
	t.Helper()

	severity, err := tagspace.NewAtomicType("Severity", "low", "high")
	require.NoError(t, err)

	tagItem, err := tagspace.NewAtomicType("Tag", "urgent", "billing")
	require.NoError(t, err)
	tags, err := tagspace.NewAggregateType("Tags", tagItem)
	require.NoError(t, err)

	name, err := tagspace.NewAtomicType("Name", "alice", "bob")
	require.NoError(t, err)
	customer, err := tagspace.NewCompoundType("Customer", tagspace.Field{Name: "name", Type: name})
	require.NoError(t, err)

	root, err := tagspace.NewCompoundType("Root",
		tagspace.Field{Name: "severity", Type: severity},
		tagspace.Field{Name: "tags", Type: tags},
		tagspace.Field{Name: "customer", Type: customer},
	)
	require.NoError(t, err)
	return root
}

func TestBuilder_AssignAtomic(t *testing.T) {
	root := buildSchema(t)
	b := valuebuilder.New(slotindex.Build(root))

	val, err := b.AssignAtomic(tagvalue.NewCompoundValue(root), []string{"severity"}, "high", nil)
	require.NoError(t, err)

	got, ok := val.Get("severity")
	require.True(t, ok)
	require.Equal(t, "high", got.(tagvalue.AtomicValue).Name)
}

func TestBuilder_AssignAtomic_NoSuchValue(t *testing.T) {
	root := buildSchema(t)
	b := valuebuilder.New(slotindex.Build(root))

	_, err := b.AssignAtomic(tagvalue.NewCompoundValue(root), []string{"severity"}, "critical", nil)
	require.Error(t, err)

	var assignErr valuebuilder.AssignError
	require.ErrorAs(t, err, &assignErr)
	require.Equal(t, "NoSuchAtomicValue", assignErr.Kind)
}

func TestBuilder_AssignAggregate_Unions(t *testing.T) {
	root := buildSchema(t)
	b := valuebuilder.New(slotindex.Build(root))

	val, err := b.AssignAggregate(tagvalue.NewCompoundValue(root), []string{"tags"}, []string{"urgent"}, nil)
	require.NoError(t, err)
	val, err = b.AssignAggregate(val, []string{"tags"}, []string{"billing"}, nil)
	require.NoError(t, err)

	got, ok := val.Get("tags")
	require.True(t, ok)
	agg := got.(tagvalue.AggregateValue)
	require.True(t, agg.Has("urgent"))
	require.True(t, agg.Has("billing"))
}

func TestBuilder_AssignAtomic_CreatesIntermediateCompounds(t *testing.T) {
	root := buildSchema(t)
	b := valuebuilder.New(slotindex.Build(root))

	val, err := b.AssignAtomic(tagvalue.NewCompoundValue(root), []string{"customer", "name"}, "alice", nil)
	require.NoError(t, err)

	customer, ok := val.Get("customer")
	require.True(t, ok)
	name, ok := customer.(tagvalue.CompoundValue).Get("name")
	require.True(t, ok)
	require.Equal(t, "alice", name.(tagvalue.AtomicValue).Name)
}

func TestBuilder_AssignAtomic_UnresolvableSlot(t *testing.T) {
	root := buildSchema(t)
	b := valuebuilder.New(slotindex.Build(root))

	_, err := b.AssignAtomic(tagvalue.NewCompoundValue(root), []string{"nonexistent"}, "x", nil)
	require.Error(t, err)

	var assignErr valuebuilder.AssignError
	require.ErrorAs(t, err, &assignErr)
	require.Equal(t, "SlotNotFound", assignErr.Kind)
}

func TestBuilder_AssignAtomic_KindMismatch(t *testing.T) {
	root := buildSchema(t)
	b := valuebuilder.New(slotindex.Build(root))

	_, err := b.AssignAtomic(tagvalue.NewCompoundValue(root), []string{"tags"}, "urgent", nil)
	require.Error(t, err)

	var assignErr valuebuilder.AssignError
	require.ErrorAs(t, err, &assignErr)
	require.Equal(t, "KindMismatch", assignErr.Kind)
}
