// Package compiler implements the Graph Compiler (C6): lowering an
// ordered AST program against a tag space into an executable
// dgraph.DecisionGraph, via the Slot Index (C3) and Value Builder
// (C4).
package compiler

import (
	"fmt"
	"strings"

	"github.com/ritamzico/decisiongraph/internal/ast"
	"github.com/ritamzico/decisiongraph/internal/dgraph"
	"github.com/ritamzico/decisiongraph/internal/slotindex"
	"github.com/ritamzico/decisiongraph/internal/tagspace"
	"github.com/ritamzico/decisiongraph/internal/tagvalue"
	"github.com/ritamzico/decisiongraph/internal/valuebuilder"
)

// synEndID is the synthesized terminal every top-level segment and
// empty answer list ultimately falls through to.
const synEndID = dgraph.NodeID("[SYN-END]")

// compiler carries the state threaded through the recursive lowering
// of a single program: the graph under construction, the slot index
// and value builder for the top-level tag space, and a counter for
// ids synthesized during Stage 1.
type compiler struct {
	root    *tagspace.CompoundType
	idx     *slotindex.Index
	builder *valuebuilder.Builder
	graph   *dgraph.DecisionGraph
	genSeq  int
}

// Compile lowers program (with source identifying where it came from,
// for the graph's title metadata) against root into a DecisionGraph.
// It fails fast: the first schema or structural error encountered
// during lowering is returned as a CompileError with the offending AST
// node attached. A node whose id is already in the graph is reported
// by the dgraph.GraphError from adding it, with no AST node attached.
func Compile(program []ast.Node, root *tagspace.CompoundType, source string) (*dgraph.DecisionGraph, error) {
	c := &compiler{
		root:  root,
		idx:   slotindex.Build(root),
		graph: dgraph.New(root, source),
	}
	c.builder = valuebuilder.New(c.idx)

	assignIDs(program, &c.genSeq)

	if err := c.graph.Add(&dgraph.EndNode{Id: synEndID}); err != nil {
		return nil, structuralError(err.Error(), nil)
	}

	for _, seg := range segment(program) {
		if _, err := c.compile(seg, synEndID); err != nil {
			return nil, err
		}
	}

	start := synEndID
	if len(program) > 0 {
		start = dgraph.NodeID(program[0].NodeID())
	}
	if err := c.graph.SetStart(start); err != nil {
		return nil, structuralError(fmt.Sprintf("start node %v was never compiled", start), program)
	}

	return c.graph, nil
}

// assignIDs is Stage 1: every node lacking an id (author omitted it)
// is given a generated one, unique within this compile pass. Recurses
// into ask/consider subgraphs so nested nodes get ids too.
func assignIDs(nodes []ast.Node, seq *int) {
	for _, n := range nodes {
		if n.NodeID() == "" {
			*seq++
			ast.SetNodeID(n, fmt.Sprintf("__gen_%d", *seq))
		}
		switch t := n.(type) {
		case *ast.AskNode:
			for _, a := range t.Answers {
				assignIDs(a.Subgraph, seq)
			}
		case *ast.ConsiderNode:
			for _, a := range t.Answers {
				assignIDs(a.Subgraph, seq)
			}
			assignIDs(t.Else, seq)
		}
	}
}

// segment is Stage 2: split the top-level program at every terminator
// (end/reject), the terminator included as the last element of its
// own segment, plus a trailing segment for anything after the last
// terminator. Nested subgraphs are not segmented — their AST
// structure already lexically scopes them.
func segment(nodes []ast.Node) [][]ast.Node {
	var segments [][]ast.Node
	start := 0
	for i, n := range nodes {
		switch n.(type) {
		case *ast.EndNode, *ast.RejectNode:
			segments = append(segments, nodes[start:i+1])
			start = i + 1
		}
	}
	if start < len(nodes) {
		segments = append(segments, nodes[start:])
	}
	return segments
}

// compile is Stage 3: lowers the head of nodes, threading def as the
// "syntactically next" target for the tail, and returns the id of the
// node representing this whole list (def itself if nodes is empty).
func (c *compiler) compile(nodes []ast.Node, def dgraph.NodeID) (dgraph.NodeID, error) {
	if len(nodes) == 0 {
		return def, nil
	}
	head, tail := nodes[0], nodes[1:]
	id := dgraph.NodeID(head.NodeID())

	switch n := head.(type) {
	case *ast.AskNode:
		return id, c.compileAsk(n, id, tail, def)
	case *ast.ConsiderNode:
		return id, c.compileConsider(n, id, tail, def)
	case *ast.SetNode:
		return id, c.compileSet(n, id, tail, def)
	case *ast.CallNode:
		next, err := c.compile(tail, def)
		if err != nil {
			return "", err
		}
		return id, c.graph.Add(&dgraph.CallNode{Id: id, Callee: dgraph.NodeID(n.CalleeID), Return: next})
	case *ast.TodoNode:
		next, err := c.compile(tail, def)
		if err != nil {
			return "", err
		}
		return id, c.graph.Add(&dgraph.TodoNode{Id: id, Text: n.Text, Next: next})
	case *ast.RejectNode:
		return id, c.graph.Add(&dgraph.RejectNode{Id: id, Reason: n.Reason})
	case *ast.EndNode:
		return id, c.graph.Add(&dgraph.EndNode{Id: id})
	default:
		return "", structuralError(fmt.Sprintf("unknown AST node type %T", head), head)
	}
}

func (c *compiler) compileAsk(n *ast.AskNode, id dgraph.NodeID, tail []ast.Node, def dgraph.NodeID) error {
	syntacticallyNext, err := c.compile(tail, def)
	if err != nil {
		return err
	}

	branches := make([]dgraph.AskBranch, 0, len(n.Answers)+2)
	for _, a := range n.Answers {
		target, err := c.compile(a.Subgraph, syntacticallyNext)
		if err != nil {
			return err
		}
		branches = append(branches, dgraph.AskBranch{Text: a.Text, Target: target})
	}

	switch {
	case len(n.Answers) == 0:
		branches = append(branches,
			dgraph.AskBranch{Text: "yes", Target: syntacticallyNext},
			dgraph.AskBranch{Text: "no", Target: syntacticallyNext},
		)
	case len(n.Answers) == 1 && isYesNo(n.Answers[0].Text, "yes"):
		branches = append(branches, dgraph.AskBranch{Text: "no", Target: syntacticallyNext})
	case len(n.Answers) == 1 && isYesNo(n.Answers[0].Text, "no"):
		branches = append(branches, dgraph.AskBranch{Text: "yes", Target: syntacticallyNext})
	}

	return c.graph.Add(&dgraph.AskNode{Id: id, Text: n.Text, Terms: n.Terms, Answers: branches})
}

func isYesNo(text, want string) bool {
	return strings.EqualFold(strings.TrimSpace(text), want)
}

func (c *compiler) compileConsider(n *ast.ConsiderNode, id dgraph.NodeID, tail []ast.Node, def dgraph.NodeID) error {
	syntacticallyNext, err := c.compile(tail, def)
	if err != nil {
		return err
	}

	elseTarget := syntacticallyNext
	if n.Else != nil {
		elseTarget, err = c.compile(n.Else, syntacticallyNext)
		if err != nil {
			return err
		}
	}

	path, err := c.idx.Resolve(n.Slot)
	if err != nil {
		return schemaError(err.Error(), n)
	}
	slotType, err := fieldTypeAt(c.root, path)
	if err != nil {
		return schemaError(err.Error(), n)
	}

	var branches []dgraph.ConsiderBranch
	for _, a := range n.Answers {
		key, err := buildConsiderKey(slotType, a, n)
		if err != nil {
			return err
		}

		if duplicateKey(branches, key) {
			continue
		}

		target, err := c.compile(a.Subgraph, syntacticallyNext)
		if err != nil {
			return err
		}
		branches = append(branches, dgraph.ConsiderBranch{Value: key, Target: target})
	}

	return c.graph.Add(&dgraph.ConsiderNode{Id: id, Slot: path, Answers: branches, Else: elseTarget})
}

func duplicateKey(branches []dgraph.ConsiderBranch, key tagvalue.Value) bool {
	for _, b := range branches {
		if b.Value.Equal(key) {
			return true
		}
	}
	return false
}

// buildConsiderKey materializes a consider answer's value-list or
// assignment-list into the tagvalue.Value it is compared against at
// runtime, per slotType's kind (§4.3).
func buildConsiderKey(slotType tagspace.Type, a ast.ConsiderAnswer, offending any) (tagvalue.Value, error) {
	switch t := slotType.(type) {
	case *tagspace.AtomicType:
		if len(a.Values) != 1 {
			return nil, schemaError(fmt.Sprintf("atomic slot %q answer must have exactly one value", t.Name()), offending)
		}
		if !t.HasValue(a.Values[0]) {
			return nil, schemaError(fmt.Sprintf("type %q has no value %q", t.Name(), a.Values[0]), offending)
		}
		return tagvalue.AtomicValue{Type: t, Name: a.Values[0]}, nil

	case *tagspace.AggregateType:
		agg := tagvalue.NewAggregateValue(t)
		for _, v := range a.Values {
			if !t.Item().HasValue(v) {
				return nil, schemaError(fmt.Sprintf("type %q has no value %q", t.Item().Name(), v), offending)
			}
			agg = agg.Add(v)
		}
		return agg, nil

	case *tagspace.CompoundType:
		subIdx := slotindex.Build(t)
		subBuilder := valuebuilder.New(subIdx)
		val := tagvalue.NewCompoundValue(t)
		var err error
		for _, asg := range a.Assignments {
			switch asg.Kind {
			case ast.AtomicAssign:
				val, err = subBuilder.AssignAtomic(val, asg.Slot, asg.Value, offending)
			case ast.AggregateAssign:
				val, err = subBuilder.AssignAggregate(val, asg.Slot, asg.Values, offending)
			}
			if err != nil {
				return nil, badSetInstruction(err.Error(), offending)
			}
		}
		return val, nil

	default:
		return nil, schemaError(fmt.Sprintf("slot kind %v cannot be considered", slotType.Kind()), offending)
	}
}

func (c *compiler) compileSet(n *ast.SetNode, id dgraph.NodeID, tail []ast.Node, def dgraph.NodeID) error {
	next, err := c.compile(tail, def)
	if err != nil {
		return err
	}

	delta := tagvalue.NewCompoundValue(c.root)
	for _, asg := range n.Assignments {
		switch asg.Kind {
		case ast.AtomicAssign:
			delta, err = c.builder.AssignAtomic(delta, asg.Slot, asg.Value, n)
		case ast.AggregateAssign:
			delta, err = c.builder.AssignAggregate(delta, asg.Slot, asg.Values, n)
		}
		if err != nil {
			return badSetInstruction(err.Error(), n)
		}
	}

	return c.graph.Add(&dgraph.SetNode{Id: id, Delta: delta, Next: next})
}

// fieldTypeAt descends root along path, returning root itself when
// path is empty.
func fieldTypeAt(root *tagspace.CompoundType, path []string) (tagspace.Type, error) {
	var cur tagspace.Type = root
	for _, seg := range path {
		ct, ok := cur.(*tagspace.CompoundType)
		if !ok {
			return nil, fmt.Errorf("slot %q descends through a non-compound field", seg)
		}
		field, ok := ct.Field(seg)
		if !ok {
			return nil, fmt.Errorf("no field %q on type %q", seg, ct.Name())
		}
		cur = field
	}
	return cur, nil
}
