package interpreter_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ritamzico/decisiongraph/internal/ast"
	"github.com/ritamzico/decisiongraph/internal/compiler"
	"github.com/ritamzico/decisiongraph/internal/interpreter"
	"github.com/ritamzico/decisiongraph/internal/tagspace"
)

func severityRoot(t *testing.T) *tagspace.CompoundType {
	t.Helper()
	severity, err := tagspace.NewAtomicType("Severity", "low", "high")
	require.NoError(t, err)
	root, err := tagspace.NewCompoundType("Root", tagspace.Field{Name: "severity", Type: severity})
	require.NoError(t, err)
	return root
}

func TestInterpreter_ConsiderBranchesOnAccumulatedValue(t *testing.T) {
	program := []ast.Node{
		&ast.SetNode{Id: "set1", Assignments: []ast.Assignment{
			{Slot: []string{"severity"}, Kind: ast.AtomicAssign, Value: "high"},
		}},
		&ast.ConsiderNode{Id: "c1", Slot: []string{"severity"}, Answers: []ast.ConsiderAnswer{
			{Values: []string{"high"}, Subgraph: []ast.Node{&ast.TodoNode{Id: "escalate", Text: "escalate"}}},
			{Values: []string{"low"}, Subgraph: []ast.Node{&ast.TodoNode{Id: "ignore", Text: "ignore"}}},
		}},
		&ast.EndNode{Id: "END"},
	}

	g, err := compiler.Compile(program, severityRoot(t), "")
	require.NoError(t, err)

	it, err := interpreter.Start(g)
	require.NoError(t, err)

	// Set merges automatically, so we land paused at the consider node.
	n, err := it.CurrentNode()
	require.NoError(t, err)
	require.Equal(t, "c1", string(n.ID()))

	require.NoError(t, it.Answer("anything"))
	require.True(t, it.Terminated())

	trace := it.Trace()
	var ids []string
	for _, id := range trace {
		ids = append(ids, string(id))
	}
	require.Equal(t, []string{"set1", "c1", "escalate", "END"}, ids)
}

func TestInterpreter_ConsiderFallsBackToElse(t *testing.T) {
	program := []ast.Node{
		&ast.ConsiderNode{Id: "c1", Slot: []string{"severity"}, Answers: []ast.ConsiderAnswer{
			{Values: []string{"high"}, Subgraph: []ast.Node{&ast.TodoNode{Id: "escalate", Text: "escalate"}}},
		}},
		&ast.EndNode{Id: "END"},
	}

	g, err := compiler.Compile(program, severityRoot(t), "")
	require.NoError(t, err)

	it, err := interpreter.Start(g)
	require.NoError(t, err)

	// severity is unset, so no branch matches and else (-> END) is taken.
	require.NoError(t, it.Answer("anything"))
	require.True(t, it.Terminated())
	require.False(t, it.Rejected())
}

func TestInterpreter_CallToMissingCalleeFails(t *testing.T) {
	program := []ast.Node{
		&ast.CallNode{Id: "c1", CalleeID: "ghost"},
		&ast.EndNode{Id: "END"},
	}

	g, err := compiler.Compile(program, severityRoot(t), "")
	require.NoError(t, err)

	_, err = interpreter.Start(g)
	require.Error(t, err)

	var rtErr interpreter.RuntimeError
	require.ErrorAs(t, err, &rtErr)
	require.Equal(t, "CalleeNotFound", rtErr.Kind)
}

func TestInterpreter_RejectHalts(t *testing.T) {
	program := []ast.Node{
		&ast.RejectNode{Id: "r1", Reason: "not eligible"},
	}

	g, err := compiler.Compile(program, severityRoot(t), "")
	require.NoError(t, err)

	it, err := interpreter.Start(g)
	require.NoError(t, err)

	require.True(t, it.Terminated())
	require.True(t, it.Rejected())
}

func TestInterpreter_AnswerAfterTerminationFails(t *testing.T) {
	program := []ast.Node{&ast.EndNode{Id: "END"}}

	g, err := compiler.Compile(program, severityRoot(t), "")
	require.NoError(t, err)

	it, err := interpreter.Start(g)
	require.NoError(t, err)
	require.True(t, it.Terminated())

	err = it.Answer("yes")
	require.Error(t, err)

	var rtErr interpreter.RuntimeError
	require.ErrorAs(t, err, &rtErr)
	require.Equal(t, "AlreadyTerminated", rtErr.Kind)
}

func TestInterpreter_AnswerTextIsCaseAndWhitespaceInsensitive(t *testing.T) {
	program := []ast.Node{
		&ast.AskNode{Id: "q1", Text: "proceed?", Answers: []ast.AskAnswer{
			{Text: "Yes", Subgraph: []ast.Node{&ast.TodoNode{Id: "t1", Text: "proceeding"}}},
		}},
		&ast.EndNode{Id: "END"},
	}

	g, err := compiler.Compile(program, severityRoot(t), "")
	require.NoError(t, err)

	it, err := interpreter.Start(g)
	require.NoError(t, err)

	require.NoError(t, it.Answer("  YES  "))
	require.True(t, it.Terminated())
}
