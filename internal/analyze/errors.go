package analyze

import "fmt"

// AnalyzeError reports a problem running a structural analysis over a
// compiled graph (an unknown target node, or a k that is not positive).
type AnalyzeError struct {
	Kind    string
	Message string
}

func (e AnalyzeError) Error() string {
	return fmt.Sprintf("analyze error (%v): %v", e.Kind, e.Message)
}

func unknownNode(id string) error {
	return AnalyzeError{Kind: "UnknownNode", Message: fmt.Sprintf("node %v does not exist", id)}
}

func invalidK(k int) error {
	return AnalyzeError{Kind: "InvalidK", Message: fmt.Sprintf("k must be greater than 0, got %d", k)}
}
