package tagspace

import "fmt"

// SchemaError reports a problem with a tag-space type definition itself
// (as opposed to a problem resolving or assigning a value against one).
type SchemaError struct {
	Kind    string
	Message string
}

func (e SchemaError) Error() string {
	return fmt.Sprintf("schema error (%v): %v", e.Kind, e.Message)
}

func emptyName(kind string) error {
	return SchemaError{
		Kind:    "EmptyName",
		Message: fmt.Sprintf("%s type must have a non-empty name", kind),
	}
}

func duplicateFieldName(typeName, field string) error {
	return SchemaError{
		Kind:    "DuplicateFieldName",
		Message: fmt.Sprintf("compound type %q declares field %q more than once", typeName, field),
	}
}

func fieldCycle(typeName string) error {
	return SchemaError{
		Kind:    "FieldCycle",
		Message: fmt.Sprintf("compound type %q participates in a field cycle", typeName),
	}
}

func duplicateAtomicValue(typeName, value string) error {
	return SchemaError{
		Kind:    "DuplicateAtomicValue",
		Message: fmt.Sprintf("atomic type %q declares value %q more than once", typeName, value),
	}
}

func rootNotCompound() error {
	return SchemaError{
		Kind:    "RootNotCompound",
		Message: "the top-level tag-space type must be compound",
	}
}
