package slotindex

import "fmt"

// IndexError reports a problem resolving a slot reference.
type IndexError struct {
	Kind    string
	Message string
}

func (e IndexError) Error() string {
	return fmt.Sprintf("slot index error (%v): %v", e.Kind, e.Message)
}

func notFound(ref string) error {
	return IndexError{
		Kind:    "SlotNotFound",
		Message: fmt.Sprintf("no slot resolves to %q", ref),
	}
}
