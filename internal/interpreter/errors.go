package interpreter

import (
	"fmt"

	"github.com/ritamzico/decisiongraph/internal/dgraph"
)

// RuntimeError reports a failure encountered while traversing a
// compiled graph: an unresolvable call target, a failed merge, or an
// answer that matches no outgoing edge. Offending carries whatever
// value identifies the failure site (a node id, a call node).
type RuntimeError struct {
	Kind      string
	Message   string
	Offending any
}

func (e RuntimeError) Error() string {
	return fmt.Sprintf("runtime error (%v): %v", e.Kind, e.Message)
}

func calleeNotFound(callee dgraph.NodeID) error {
	return RuntimeError{Kind: "CalleeNotFound", Message: fmt.Sprintf("call target %v does not exist", callee), Offending: callee}
}

func mergeFailed(cause error) error {
	return RuntimeError{Kind: "MergeFailure", Message: cause.Error(), Offending: cause}
}

func noMatchingEdge(answer string) error {
	return RuntimeError{Kind: "NoMatchingEdge", Message: fmt.Sprintf("answer %q matches no edge and no else branch exists", answer), Offending: answer}
}

func notAwaitingInput(pc dgraph.NodeID) error {
	return RuntimeError{Kind: "NotAwaitingInput", Message: fmt.Sprintf("node %v is not an ask or consider node", pc), Offending: pc}
}

func alreadyTerminated() error {
	return RuntimeError{Kind: "AlreadyTerminated", Message: "interpreter has already halted"}
}

func malformedGraph(cause error) error {
	return RuntimeError{Kind: "MalformedGraph", Message: cause.Error(), Offending: cause}
}
