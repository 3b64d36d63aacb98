package valuebuilder

import "fmt"

// AssignError reports a failed atomic or aggregate assignment (§4.2).
// Offending carries whatever the caller passed in to identify the
// originating AST node for diagnostics (§6/§7); it is opaque here.
type AssignError struct {
	Kind      string
	Message   string
	Offending any
}

func (e AssignError) Error() string {
	return fmt.Sprintf("assignment error (%v): %v", e.Kind, e.Message)
}

func slotNotFound(slot string, offending any) error {
	return AssignError{Kind: "SlotNotFound", Message: fmt.Sprintf("slot %q not found", slot), Offending: offending}
}

func slotNotCompound(slot string, offending any) error {
	return AssignError{Kind: "SlotNotCompound", Message: fmt.Sprintf("slot %q is not compound during descent", slot), Offending: offending}
}

func kindMismatch(slot, want, got string, offending any) error {
	return AssignError{
		Kind:      "KindMismatch",
		Message:   fmt.Sprintf("slot %q is %s, expected %s", slot, got, want),
		Offending: offending,
	}
}

func noSuchAtomicValue(typeName, value string, offending any) error {
	return AssignError{
		Kind:      "NoSuchAtomicValue",
		Message:   fmt.Sprintf("type %q has no value %q", typeName, value),
		Offending: offending,
	}
}
