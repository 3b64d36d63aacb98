package serialization

import (
	"encoding/json"
	"fmt"

	"github.com/ritamzico/decisiongraph/internal/ast"
)

type serializedAssignment struct {
	Slot   []string `json:"slot"`
	Kind   string   `json:"kind"` // "atomic" | "aggregate"
	Value  string   `json:"value,omitempty"`
	Values []string `json:"values,omitempty"`
}

type serializedAskAnswer struct {
	Text     string           `json:"text"`
	Subgraph []serializedNode `json:"subgraph,omitempty"`
}

type serializedConsiderAnswer struct {
	Values      []string               `json:"values,omitempty"`
	Assignments []serializedAssignment `json:"assignments,omitempty"`
	Subgraph    []serializedNode       `json:"subgraph,omitempty"`
}

// serializedNode is the wire shape of one AST node: a Kind
// discriminator plus whichever fields its variant uses. This is the
// format a caller hands the CLI/server as the AST contract input
// (§6) — the actual surface-syntax parsing remains out of scope.
type serializedNode struct {
	Kind string `json:"kind"`
	Id   string `json:"id,omitempty"`

	// ask
	Text    string                 `json:"text,omitempty"`
	Terms   map[string]string      `json:"terms,omitempty"`
	Answers []serializedAskAnswer  `json:"answers,omitempty"`

	// consider
	Slot            []string                   `json:"slot,omitempty"`
	ConsiderAnswers []serializedConsiderAnswer `json:"considerAnswers,omitempty"`
	Else            []serializedNode           `json:"else,omitempty"`

	// set
	Assignments []serializedAssignment `json:"assignments,omitempty"`

	// call
	CalleeID string `json:"calleeId,omitempty"`

	// reject
	Reason string `json:"reason,omitempty"`
}

func marshalAssignment(a ast.Assignment) serializedAssignment {
	sa := serializedAssignment{Slot: a.Slot}
	if a.Kind == ast.AggregateAssign {
		sa.Kind = "aggregate"
		sa.Values = a.Values
	} else {
		sa.Kind = "atomic"
		sa.Value = a.Value
	}
	return sa
}

func unmarshalAssignment(sa serializedAssignment) (ast.Assignment, error) {
	switch sa.Kind {
	case "atomic":
		return ast.Assignment{Slot: sa.Slot, Kind: ast.AtomicAssign, Value: sa.Value}, nil
	case "aggregate":
		return ast.Assignment{Slot: sa.Slot, Kind: ast.AggregateAssign, Values: sa.Values}, nil
	default:
		return ast.Assignment{}, fmt.Errorf("unknown assignment kind %q", sa.Kind)
	}
}

func marshalNodes(nodes []ast.Node) []serializedNode {
	out := make([]serializedNode, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, marshalNode(n))
	}
	return out
}

func marshalNode(n ast.Node) serializedNode {
	switch t := n.(type) {
	case *ast.AskNode:
		answers := make([]serializedAskAnswer, 0, len(t.Answers))
		for _, a := range t.Answers {
			answers = append(answers, serializedAskAnswer{Text: a.Text, Subgraph: marshalNodes(a.Subgraph)})
		}
		return serializedNode{Kind: "ask", Id: t.Id, Text: t.Text, Terms: t.Terms, Answers: answers}

	case *ast.ConsiderNode:
		answers := make([]serializedConsiderAnswer, 0, len(t.Answers))
		for _, a := range t.Answers {
			assignments := make([]serializedAssignment, 0, len(a.Assignments))
			for _, asg := range a.Assignments {
				assignments = append(assignments, marshalAssignment(asg))
			}
			answers = append(answers, serializedConsiderAnswer{
				Values:      a.Values,
				Assignments: assignments,
				Subgraph:    marshalNodes(a.Subgraph),
			})
		}
		return serializedNode{Kind: "consider", Id: t.Id, Slot: t.Slot, ConsiderAnswers: answers, Else: marshalNodes(t.Else)}

	case *ast.SetNode:
		assignments := make([]serializedAssignment, 0, len(t.Assignments))
		for _, asg := range t.Assignments {
			assignments = append(assignments, marshalAssignment(asg))
		}
		return serializedNode{Kind: "set", Id: t.Id, Assignments: assignments}

	case *ast.CallNode:
		return serializedNode{Kind: "call", Id: t.Id, CalleeID: t.CalleeID}

	case *ast.TodoNode:
		return serializedNode{Kind: "todo", Id: t.Id, Text: t.Text}

	case *ast.RejectNode:
		return serializedNode{Kind: "reject", Id: t.Id, Reason: t.Reason}

	case *ast.EndNode:
		return serializedNode{Kind: "end", Id: t.Id}

	default:
		return serializedNode{Kind: "unknown"}
	}
}

func unmarshalNodes(nodes []serializedNode) ([]ast.Node, error) {
	out := make([]ast.Node, 0, len(nodes))
	for _, sn := range nodes {
		n, err := unmarshalNode(sn)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func unmarshalNode(sn serializedNode) (ast.Node, error) {
	switch sn.Kind {
	case "ask":
		answers := make([]ast.AskAnswer, 0, len(sn.Answers))
		for _, a := range sn.Answers {
			sub, err := unmarshalNodes(a.Subgraph)
			if err != nil {
				return nil, err
			}
			answers = append(answers, ast.AskAnswer{Text: a.Text, Subgraph: sub})
		}
		return &ast.AskNode{Id: sn.Id, Text: sn.Text, Terms: sn.Terms, Answers: answers}, nil

	case "consider":
		answers := make([]ast.ConsiderAnswer, 0, len(sn.ConsiderAnswers))
		for _, a := range sn.ConsiderAnswers {
			assignments := make([]ast.Assignment, 0, len(a.Assignments))
			for _, sa := range a.Assignments {
				asg, err := unmarshalAssignment(sa)
				if err != nil {
					return nil, err
				}
				assignments = append(assignments, asg)
			}
			sub, err := unmarshalNodes(a.Subgraph)
			if err != nil {
				return nil, err
			}
			answers = append(answers, ast.ConsiderAnswer{Values: a.Values, Assignments: assignments, Subgraph: sub})
		}
		elseNodes, err := unmarshalNodes(sn.Else)
		if err != nil {
			return nil, err
		}
		return &ast.ConsiderNode{Id: sn.Id, Slot: sn.Slot, Answers: answers, Else: elseNodes}, nil

	case "set":
		assignments := make([]ast.Assignment, 0, len(sn.Assignments))
		for _, sa := range sn.Assignments {
			asg, err := unmarshalAssignment(sa)
			if err != nil {
				return nil, err
			}
			assignments = append(assignments, asg)
		}
		return &ast.SetNode{Id: sn.Id, Assignments: assignments}, nil

	case "call":
		return &ast.CallNode{Id: sn.Id, CalleeID: sn.CalleeID}, nil

	case "todo":
		return &ast.TodoNode{Id: sn.Id, Text: sn.Text}, nil

	case "reject":
		return &ast.RejectNode{Id: sn.Id, Reason: sn.Reason}, nil

	case "end":
		return &ast.EndNode{Id: sn.Id}, nil

	default:
		return nil, fmt.Errorf("unknown serialized AST node kind %q", sn.Kind)
	}
}

// MarshalProgram encodes an AST program to indented JSON.
func MarshalProgram(program []ast.Node) ([]byte, error) {
	return json.MarshalIndent(marshalNodes(program), "", "  ")
}

// UnmarshalProgram decodes an AST program from JSON, per the AST
// contract of §6.
func UnmarshalProgram(data []byte) ([]ast.Node, error) {
	var nodes []serializedNode
	if err := json.Unmarshal(data, &nodes); err != nil {
		return nil, fmt.Errorf("decoding program JSON: %w", err)
	}
	return unmarshalNodes(nodes)
}
