// Package dgraph implements the Graph Model (C5): the compiled
// decision graph the Compiler produces and the Interpreter walks.
// Unlike a general probabilistic graph, control flow here is carried
// directly on each node variant (its answer targets, its else target,
// its return continuation) rather than through separate edge objects
// — the graph is a control-flow graph, not an adjacency structure with
// independently weighted edges. Node kinds form a closed set,
// dispatched by type switch rather than visitor (Node's marker method
// is unexported to seal it to this package's variants).
package dgraph

import "github.com/ritamzico/decisiongraph/internal/tagvalue"

// NodeID identifies a node within a single DecisionGraph. Ids come
// from the authored AST where present and are synthesized by the
// compiler otherwise.
type NodeID string

// Node is the common interface every compiled node variant satisfies.
type Node interface {
	ID() NodeID
	sealed()
}

// AskBranch is one answer of an AskNode and the node it leads to.
type AskBranch struct {
	Text   string
	Target NodeID
}

// AskNode presents a prompt and branches on the chosen answer's text.
type AskNode struct {
	Id      NodeID
	Text    string
	Terms   map[string]string
	Answers []AskBranch
}

func (n *AskNode) ID() NodeID { return n.Id }
func (n *AskNode) sealed()    {}

// ConsiderBranch matches a slot's value against Value and, on match,
// branches to Target. Value equality follows tagvalue.Value.Equal:
// atomic values compare by type and name, aggregate values by set
// membership, compound values recursively by field.
type ConsiderBranch struct {
	Value  tagvalue.Value
	Target NodeID
}

// ConsiderNode inspects the accumulator at Slot and branches to the
// first matching branch's target, or to Else if none match and Else
// is set.
type ConsiderNode struct {
	Id      NodeID
	Slot    []string
	Answers []ConsiderBranch
	Else    NodeID // "" if no else branch was compiled
}

func (n *ConsiderNode) ID() NodeID { return n.Id }
func (n *ConsiderNode) sealed()    {}

// SetNode merges Delta — a compound value already built by the
// compiler from the node's assignments via the Value Builder — into
// the accumulator, then falls through to Next.
type SetNode struct {
	Id    NodeID
	Delta tagvalue.CompoundValue
	Next  NodeID
}

func (n *SetNode) ID() NodeID { return n.Id }
func (n *SetNode) sealed()    {}

// CallNode pushes Return as a continuation and transfers control to
// Callee (§4.5).
type CallNode struct {
	Id     NodeID
	Callee NodeID
	Return NodeID
}

func (n *CallNode) ID() NodeID { return n.Id }
func (n *CallNode) sealed()    {}

// TodoNode marks an intentionally unfinished branch with free text and
// falls through to Next.
type TodoNode struct {
	Id   NodeID
	Text string
	Next NodeID
}

func (n *TodoNode) ID() NodeID { return n.Id }
func (n *TodoNode) sealed()    {}

// RejectNode is a terminal rejection with a reason.
type RejectNode struct {
	Id     NodeID
	Reason string
}

func (n *RejectNode) ID() NodeID { return n.Id }
func (n *RejectNode) sealed()    {}

// EndNode is terminal only when the call stack is empty at interpret
// time; otherwise it behaves as an implicit return (§4.5).
type EndNode struct {
	Id NodeID
}

func (n *EndNode) ID() NodeID { return n.Id }
func (n *EndNode) sealed()    {}

// Successors returns the statically-known out-edges of n: the node
// ids it can transfer control to ignoring call-stack effects (a
// CallNode's successor is its callee, not its return continuation,
// since the return is only reachable via whatever the callee itself
// terminates into). Used by the reachability and path analyses.
func Successors(n Node) []NodeID {
	switch t := n.(type) {
	case *AskNode:
		out := make([]NodeID, 0, len(t.Answers))
		for _, a := range t.Answers {
			out = append(out, a.Target)
		}
		return out
	case *ConsiderNode:
		out := make([]NodeID, 0, len(t.Answers)+1)
		for _, a := range t.Answers {
			out = append(out, a.Target)
		}
		if t.Else != "" {
			out = append(out, t.Else)
		}
		return out
	case *SetNode:
		return []NodeID{t.Next}
	case *CallNode:
		return []NodeID{t.Callee}
	case *TodoNode:
		return []NodeID{t.Next}
	case *RejectNode, *EndNode:
		return nil
	default:
		return nil
	}
}
