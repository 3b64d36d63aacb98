package tagvalue

import "fmt"

// ValueError reports a problem building or merging a tag value.
type ValueError struct {
	Kind    string
	Message string
}

func (e ValueError) Error() string {
	return fmt.Sprintf("value error (%v): %v", e.Kind, e.Message)
}

func typeMismatch(op string) error {
	return ValueError{
		Kind:    "TypeMismatch",
		Message: fmt.Sprintf("%s requires both values to share the same type", op),
	}
}

func atomicMergeConflict(typeName, a, b string) error {
	return ValueError{
		Kind:    "MergeConflict",
		Message: fmt.Sprintf("cannot merge atomic values %q and %q of type %q: not equal", a, b, typeName),
	}
}
