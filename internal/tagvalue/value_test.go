package tagvalue_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ritamzico/decisiongraph/internal/tagspace"
	"github.com/ritamzico/decisiongraph/internal/tagvalue"
)

func mustSeverity(t *testing.T) *tagspace.AtomicType {
	t.Helper()
	at, err := tagspace.NewAtomicType("Severity", "low", "medium", "high")
	require.NoError(t, err)
	return at
}

func mustTags(t *testing.T) *tagspace.AggregateType {
	t.Helper()
	item, err := tagspace.NewAtomicType("Tag", "urgent", "billing", "security")
	require.NoError(t, err)
	agg, err := tagspace.NewAggregateType("Tags", item)
	require.NoError(t, err)
	return agg
}

func TestAtomicValue_Equal(t *testing.T) {
	severity := mustSeverity(t)
	a := tagvalue.AtomicValue{Type: severity, Name: "low"}
	b := tagvalue.AtomicValue{Type: severity, Name: "low"}
	c := tagvalue.AtomicValue{Type: severity, Name: "high"}

	require.True(t, a.Equal(b))
	require.False(t, a.Equal(c))
}

func TestAggregateValue_AddHasMembers(t *testing.T) {
	tags := mustTags(t)
	v := tagvalue.NewAggregateValue(tags).Add("urgent").Add("billing")

	require.True(t, v.Has("urgent"))
	require.False(t, v.Has("security"))
	require.Equal(t, []string{"billing", "urgent"}, v.Members())
}

func TestAggregateValue_AddIsCopyOnWrite(t *testing.T) {
	tags := mustTags(t)
	base := tagvalue.NewAggregateValue(tags).Add("urgent")
	derived := base.Add("billing")

	require.False(t, base.Has("billing"))
	require.True(t, derived.Has("urgent"))
	require.True(t, derived.Has("billing"))
}

func TestMerge_AtomicConflict(t *testing.T) {
	severity := mustSeverity(t)
	a := tagvalue.AtomicValue{Type: severity, Name: "low"}
	b := tagvalue.AtomicValue{Type: severity, Name: "high"}

	_, err := tagvalue.Merge(a, b)
	require.Error(t, err)
}

func TestMerge_AtomicAgreement(t *testing.T) {
	severity := mustSeverity(t)
	a := tagvalue.AtomicValue{Type: severity, Name: "low"}
	b := tagvalue.AtomicValue{Type: severity, Name: "low"}

	merged, err := tagvalue.Merge(a, b)
	require.NoError(t, err)
	require.True(t, merged.Equal(a))
}

func TestMerge_AggregateUnion(t *testing.T) {
	tags := mustTags(t)
	a := tagvalue.NewAggregateValue(tags).Add("urgent")
	b := tagvalue.NewAggregateValue(tags).Add("billing")

	merged, err := tagvalue.Merge(a, b)
	require.NoError(t, err)

	agg := merged.(tagvalue.AggregateValue)
	require.True(t, agg.Has("urgent"))
	require.True(t, agg.Has("billing"))
}

func TestMerge_UnsetIdentity(t *testing.T) {
	severity := mustSeverity(t)
	a := tagvalue.AtomicValue{Type: severity, Name: "low"}

	mergedLeft, err := tagvalue.Merge(nil, a)
	require.NoError(t, err)
	require.True(t, mergedLeft.Equal(a))

	mergedRight, err := tagvalue.Merge(a, nil)
	require.NoError(t, err)
	require.True(t, mergedRight.Equal(a))
}

func TestMerge_CompoundRecursesPerField(t *testing.T) {
	severity := mustSeverity(t)
	tags := mustTags(t)
	root, err := tagspace.NewCompoundType("Root",
		tagspace.Field{Name: "severity", Type: severity},
		tagspace.Field{Name: "tags", Type: tags},
	)
	require.NoError(t, err)

	a := tagvalue.NewCompoundValue(root).With("severity", tagvalue.AtomicValue{Type: severity, Name: "low"})
	b := tagvalue.NewCompoundValue(root).With("tags", tagvalue.NewAggregateValue(tags).Add("urgent"))

	merged, err := tagvalue.Merge(a, b)
	require.NoError(t, err)

	cv := merged.(tagvalue.CompoundValue)
	sev, ok := cv.Get("severity")
	require.True(t, ok)
	require.True(t, sev.Equal(tagvalue.AtomicValue{Type: severity, Name: "low"}))

	tagsVal, ok := cv.Get("tags")
	require.True(t, ok)
	require.True(t, tagsVal.(tagvalue.AggregateValue).Has("urgent"))
}

func TestCompoundValue_Equal(t *testing.T) {
	severity := mustSeverity(t)
	root, err := tagspace.NewCompoundType("Root", tagspace.Field{Name: "severity", Type: severity})
	require.NoError(t, err)

	a := tagvalue.NewCompoundValue(root).With("severity", tagvalue.AtomicValue{Type: severity, Name: "low"})
	b := tagvalue.NewCompoundValue(root).With("severity", tagvalue.AtomicValue{Type: severity, Name: "low"})
	c := tagvalue.NewCompoundValue(root)

	require.True(t, a.Equal(b))
	require.False(t, a.Equal(c))
}
