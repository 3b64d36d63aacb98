// Package interpreter implements the Interpreter (C8): a call-stack
// traversal of a compiled dgraph.DecisionGraph against a stream of
// externally-supplied answers, producing a deterministic node-visit
// trace and an accumulated tag value.
package interpreter

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ritamzico/decisiongraph/internal/dgraph"
	"github.com/ritamzico/decisiongraph/internal/tagvalue"
)

var foldCase = cases.Lower(language.Und)

// canonicalizeAnswerText trims surrounding whitespace and case-folds,
// so "Yes", " yes ", "YES" and "yes" are all the same answer (§4.5).
// Unicode-aware folding is delegated to golang.org/x/text/cases rather
// than strings.ToLower, since the latter is only correct for ASCII.
func canonicalizeAnswerText(s string) string {
	return foldCase.String(strings.TrimSpace(s))
}

// Interpreter holds the state of one run over one DecisionGraph: a
// program counter, a call stack of return continuations, an
// accumulated compound value, and the trace recorded so far.
type Interpreter struct {
	graph *dgraph.DecisionGraph

	pc       dgraph.NodeID
	stack    []dgraph.NodeID
	acc      tagvalue.CompoundValue
	trace    []dgraph.NodeID
	halted   bool
	rejected bool
}

// Start begins a run over graph: pc is set to the start node, the
// accumulator is an empty value of the graph's root type, and the
// trace begins with the start node's id. If the start node is
// non-interactive, Start advances through it before returning, per
// §4.5.
func Start(graph *dgraph.DecisionGraph) (*Interpreter, error) {
	start, err := graph.Start()
	if err != nil {
		return nil, malformedGraph(err)
	}

	it := &Interpreter{
		graph: graph,
		pc:    start,
		acc:   tagvalue.NewCompoundValue(graph.Root),
		trace: []dgraph.NodeID{start},
	}
	if err := it.advance(); err != nil {
		return it, err
	}
	return it, nil
}

// Answer supplies a to the ask or consider node the interpreter is
// currently paused at, transitions along the matching edge, and
// advances through any following non-interactive nodes.
func (it *Interpreter) Answer(a string) error {
	if it.halted {
		return alreadyTerminated()
	}

	node, err := it.graph.Get(it.pc)
	if err != nil {
		return malformedGraph(err)
	}

	var target dgraph.NodeID
	switch n := node.(type) {
	case *dgraph.AskNode:
		target, err = matchAskAnswer(n, a)
	case *dgraph.ConsiderNode:
		target, err = matchConsiderAnswer(n, it.acc, a)
	default:
		return notAwaitingInput(it.pc)
	}
	if err != nil {
		return err
	}

	it.pc = target
	it.trace = append(it.trace, it.pc)
	return it.advance()
}

func matchAskAnswer(n *dgraph.AskNode, a string) (dgraph.NodeID, error) {
	canon := canonicalizeAnswerText(a)
	for _, br := range n.Answers {
		if canonicalizeAnswerText(br.Text) == canon {
			return br.Target, nil
		}
	}
	return "", noMatchingEdge(a)
}

func matchConsiderAnswer(n *dgraph.ConsiderNode, acc tagvalue.CompoundValue, a string) (dgraph.NodeID, error) {
	projected := projectSlot(acc, n.Slot)
	if projected != nil {
		for _, br := range n.Answers {
			if br.Value.Equal(projected) {
				return br.Target, nil
			}
		}
	}
	if n.Else != "" {
		return n.Else, nil
	}
	return "", noMatchingEdge(a)
}

// projectSlot returns the value at path within acc, or nil if any
// segment along the way is unset or not compound. An empty path
// projects acc itself.
func projectSlot(acc tagvalue.CompoundValue, path []string) tagvalue.Value {
	var cur tagvalue.Value = acc
	for _, seg := range path {
		cv, ok := cur.(tagvalue.CompoundValue)
		if !ok {
			return nil
		}
		next, ok := cv.Get(seg)
		if !ok {
			return nil
		}
		cur = next
	}
	return cur
}

// advance repeatedly moves the pc through non-interactive nodes —
// Set, Call, Todo, and End-as-return — stopping at an Ask/Consider
// (awaiting input) or a true halt (End with an empty stack, or
// Reject). Every node landed on is appended to the trace, including
// every popped return-continuation id (§4.5/§6).
func (it *Interpreter) advance() error {
	for {
		node, err := it.graph.Get(it.pc)
		if err != nil {
			return malformedGraph(err)
		}

		switch n := node.(type) {
		case *dgraph.AskNode, *dgraph.ConsiderNode:
			return nil

		case *dgraph.SetNode:
			merged, err := tagvalue.Merge(it.acc, n.Delta)
			if err != nil {
				return mergeFailed(err)
			}
			it.acc = merged.(tagvalue.CompoundValue)
			it.pc = n.Next

		case *dgraph.TodoNode:
			it.pc = n.Next

		case *dgraph.CallNode:
			if !it.graph.Contains(n.Callee) {
				return calleeNotFound(n.Callee)
			}
			it.stack = append(it.stack, n.Return)
			it.pc = n.Callee

		case *dgraph.EndNode:
			if len(it.stack) > 0 {
				ret := it.stack[len(it.stack)-1]
				it.stack = it.stack[:len(it.stack)-1]
				it.pc = ret
			} else {
				it.halted = true
				return nil
			}

		case *dgraph.RejectNode:
			it.halted = true
			it.rejected = true
			return nil
		}

		it.trace = append(it.trace, it.pc)
	}
}

// CurrentNode returns the node the interpreter is paused or halted at.
func (it *Interpreter) CurrentNode() (dgraph.Node, error) {
	return it.graph.Get(it.pc)
}

// Terminated reports whether the run has halted (End with an empty
// call stack, or Reject) and will accept no further answers.
func (it *Interpreter) Terminated() bool {
	return it.halted
}

// Rejected reports whether the run halted at a Reject node.
func (it *Interpreter) Rejected() bool {
	return it.rejected
}

// Trace returns the ordered list of node ids visited so far.
func (it *Interpreter) Trace() []dgraph.NodeID {
	return append([]dgraph.NodeID(nil), it.trace...)
}

// Accumulator returns the compound value accumulated so far.
func (it *Interpreter) Accumulator() tagvalue.CompoundValue {
	return it.acc
}
