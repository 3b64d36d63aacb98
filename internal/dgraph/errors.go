package dgraph

import "fmt"

// GraphError reports a problem building or querying a DecisionGraph.
type GraphError struct {
	Kind    string
	Message string
}

func (e GraphError) Error() string {
	return fmt.Sprintf("graph error (%v): %v", e.Kind, e.Message)
}

func nodeAlreadyExists(id NodeID) error {
	return GraphError{Kind: "NodeAlreadyExists", Message: fmt.Sprintf("node %v already exists", id)}
}

func nodeDoesNotExist(id NodeID) error {
	return GraphError{Kind: "NodeDoesNotExist", Message: fmt.Sprintf("node %v does not exist", id)}
}

func noStartNode() error {
	return GraphError{Kind: "NoStartNode", Message: "graph has no start node set"}
}
