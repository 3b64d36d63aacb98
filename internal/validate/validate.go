// Package validate implements the Validators (C7): two pre-compile
// passes over the AST that accumulate diagnostic messages rather than
// failing fast, unlike the compiler.
package validate

import (
	"fmt"
	"strings"

	"github.com/ritamzico/decisiongraph/internal/ast"
)

// Severity discriminates a diagnostic's urgency.
type Severity int

const (
	Warning Severity = iota
	Error
)

func (s Severity) String() string {
	if s == Error {
		return "ERROR"
	}
	return "WARNING"
}

// Message is one diagnostic produced by a validator pass. Offending
// carries the AST node the message is about, per §6's diagnostics
// contract.
type Message struct {
	Severity  Severity
	Text      string
	Offending any
}

// All runs every validator pass over program, in a fixed order, and
// returns their messages concatenated — each pass is independently
// order-stable, and the passes themselves always run in the same
// order, so the result is a deterministic function of program.
func All(program []ast.Node) []Message {
	var messages []Message
	messages = append(messages, RepeatId(program)...)
	messages = append(messages, DuplicateAnswer(program)...)
	return messages
}

// RepeatId walks every node, including nested ask/consider subgraphs,
// and reports an ERROR for every id seen more than once. Nodes with no
// authored id (empty string — ids are only synthesized later, by the
// compiler) are not considered.
func RepeatId(program []ast.Node) []Message {
	seen := make(map[string]bool)
	var messages []Message

	var walk func(nodes []ast.Node)
	walk = func(nodes []ast.Node) {
		for _, n := range nodes {
			if id := n.NodeID(); id != "" {
				if seen[id] {
					messages = append(messages, Message{
						Severity:  Error,
						Text:      fmt.Sprintf("Duplicate node id: %s", id),
						Offending: n,
					})
				}
				seen[id] = true
			}

			switch t := n.(type) {
			case *ast.AskNode:
				for _, a := range t.Answers {
					walk(a.Subgraph)
				}
			case *ast.ConsiderNode:
				for _, a := range t.Answers {
					walk(a.Subgraph)
				}
				walk(t.Else)
			}
		}
	}
	walk(program)

	return messages
}

// DuplicateAnswer walks every ask and consider node, including nested
// subgraphs, and reports a WARNING for every answer that repeats an
// earlier answer on the same node: by text for ask nodes, by value
// list and assignment list for consider nodes.
func DuplicateAnswer(program []ast.Node) []Message {
	var messages []Message

	var walk func(nodes []ast.Node)
	walk = func(nodes []ast.Node) {
		for _, n := range nodes {
			switch t := n.(type) {
			case *ast.AskNode:
				seenText := make(map[string]bool, len(t.Answers))
				for _, a := range t.Answers {
					if seenText[a.Text] {
						messages = append(messages, Message{
							Severity:  Warning,
							Text:      fmt.Sprintf("Duplicate answer for node %s: %q", t.Id, a.Text),
							Offending: t,
						})
					}
					seenText[a.Text] = true
					walk(a.Subgraph)
				}
			case *ast.ConsiderNode:
				seenValues := make(map[string]bool, len(t.Answers))
				for _, a := range t.Answers {
					key := considerAnswerKey(a)
					if seenValues[key] {
						messages = append(messages, Message{
							Severity:  Warning,
							Text:      fmt.Sprintf("Duplicate answer for node %s: %v", t.Id, a.Values),
							Offending: t,
						})
					}
					seenValues[key] = true
					walk(a.Subgraph)
				}
				walk(t.Else)
			}
		}
	}
	walk(program)

	return messages
}

// considerAnswerKey builds a comparison key for a consider answer,
// covering both the value-list form (atomic/aggregate slots) and the
// assignment-list form (compound slots) so duplicate detection applies
// to either.
func considerAnswerKey(a ast.ConsiderAnswer) string {
	var b strings.Builder
	b.WriteString(strings.Join(a.Values, "\x00"))
	for _, asg := range a.Assignments {
		b.WriteString("\x01")
		b.WriteString(strings.Join(asg.Slot, "."))
		b.WriteString("=")
		b.WriteString(asg.Value)
		b.WriteString(strings.Join(asg.Values, ","))
	}
	return b.String()
}

// HasErrors reports whether any message in messages is an ERROR.
func HasErrors(messages []Message) bool {
	for _, m := range messages {
		if m.Severity == Error {
			return true
		}
	}
	return false
}
