package compiler_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ritamzico/decisiongraph/internal/ast"
	"github.com/ritamzico/decisiongraph/internal/compiler"
	"github.com/ritamzico/decisiongraph/internal/dgraph"
	"github.com/ritamzico/decisiongraph/internal/interpreter"
	"github.com/ritamzico/decisiongraph/internal/tagspace"
)

// emptyRoot builds a root compound type with no fields, sufficient for
// every seed scenario below since none of them touch tag values.
func emptyRoot(t *testing.T) *tagspace.CompoundType {
	t.Helper()
	root, err := tagspace.NewCompoundType("Root")
	require.NoError(t, err)
	return root
}

func traceIDs(trace []dgraph.NodeID) []string {
	out := make([]string, len(trace))
	for i, id := range trace {
		out[i] = string(id)
	}
	return out
}

// Scenario 1 (§8): a linear yes-chart of four asks followed by an end;
// answering every ask visits every node in authored order.
func TestScenario_LinearChart(t *testing.T) {
	program := []ast.Node{
		&ast.AskNode{Id: "1", Text: "q1"},
		&ast.AskNode{Id: "2", Text: "q2"},
		&ast.AskNode{Id: "3", Text: "q3"},
		&ast.AskNode{Id: "4", Text: "q4"},
		&ast.EndNode{Id: "END"},
	}

	g, err := compiler.Compile(program, emptyRoot(t), "")
	require.NoError(t, err)

	it, err := interpreter.Start(g)
	require.NoError(t, err)

	for _, q := range []string{"1", "2", "3", "4"} {
		require.Equal(t, q, string(mustCurrent(t, it)))
		require.NoError(t, it.Answer("yes"))
	}

	require.True(t, it.Terminated())
	require.False(t, it.Rejected())
	require.Equal(t, []string{"1", "2", "3", "4", "END"}, traceIDs(it.Trace()))
}

func mustCurrent(t *testing.T, it *interpreter.Interpreter) dgraph.NodeID {
	t.Helper()
	n, err := it.CurrentNode()
	require.NoError(t, err)
	return n.ID()
}

// Scenario 2 (§8): branches — node "1" explicitly branches YES into a
// nested linear chain and NO into a todo; the nested chain itself
// branches explicit/implicit at each level.
func TestScenario_Branches(t *testing.T) {
	program := []ast.Node{
		&ast.AskNode{Id: "1", Text: "q1", Answers: []ast.AskAnswer{
			{Text: "YES", Subgraph: []ast.Node{
				&ast.AskNode{Id: "2", Text: "q2", Answers: []ast.AskAnswer{
					{Text: "NO", Subgraph: []ast.Node{
						&ast.AskNode{Id: "3", Text: "q3", Answers: []ast.AskAnswer{
							{Text: "YES", Subgraph: []ast.Node{
								&ast.AskNode{Id: "4", Text: "q4", Answers: []ast.AskAnswer{
									{Text: "NO", Subgraph: []ast.Node{
										&ast.EndNode{Id: "END"},
									}},
								}},
							}},
						}},
					}},
				}},
			}},
			{Text: "NO", Subgraph: []ast.Node{
				&ast.TodoNode{Id: "x", Text: "handle rejection path"},
			}},
		}},
	}

	g, err := compiler.Compile(program, emptyRoot(t), "")
	require.NoError(t, err)

	it, err := interpreter.Start(g)
	require.NoError(t, err)

	require.NoError(t, it.Answer("YES"))
	require.NoError(t, it.Answer("NO"))
	require.NoError(t, it.Answer("YES"))
	require.NoError(t, it.Answer("NO"))

	require.True(t, it.Terminated())
	require.Equal(t, []string{"1", "2", "3", "4", "END"}, traceIDs(it.Trace()))
}

// Scenario 3 (§8): a call with a tail return — the callee is an
// independently-addressable top-level segment, reached only via Call,
// whose own End pops back into the caller's continuation.
func TestScenario_CallWithTailReturn(t *testing.T) {
	program := []ast.Node{
		&ast.TodoNode{Id: "a", Text: "a"},
		&ast.TodoNode{Id: "b", Text: "a"},
		&ast.CallNode{Id: "c", CalleeID: "n"},
		&ast.EndNode{Id: "e"},
		&ast.EndNode{Id: "n"},
	}

	g, err := compiler.Compile(program, emptyRoot(t), "")
	require.NoError(t, err)

	it, err := interpreter.Start(g)
	require.NoError(t, err)

	require.True(t, it.Terminated())
	require.False(t, it.Rejected())
	require.Equal(t, []string{"a", "b", "c", "n", "e"}, traceIDs(it.Trace()))
}

// Scenario 4 (§8): recursion — a linear yes-chart where the second ask
// node's NO answer calls back to the first node, unwinding through a
// dedicated end reached only via the call's return continuation.
func TestScenario_Recursion(t *testing.T) {
	program := []ast.Node{
		&ast.AskNode{Id: "rec_1", Text: "q1"},
		&ast.AskNode{Id: "rec_2", Text: "q2", Answers: []ast.AskAnswer{
			{Text: "NO", Subgraph: []ast.Node{
				&ast.CallNode{Id: "Caller", CalleeID: "rec_1"},
				&ast.EndNode{Id: "CallerEnd"},
			}},
		}},
		&ast.AskNode{Id: "rec_3", Text: "q3"},
		&ast.EndNode{Id: "rec_END"},
	}

	g, err := compiler.Compile(program, emptyRoot(t), "")
	require.NoError(t, err)

	it, err := interpreter.Start(g)
	require.NoError(t, err)

	answers := []string{"YES", "NO", "YES", "NO", "YES", "YES", "YES"}
	for _, a := range answers {
		require.NoError(t, it.Answer(a))
	}

	require.True(t, it.Terminated())
	require.Equal(t, []string{
		"rec_1", "rec_2", "Caller", "rec_1", "rec_2", "Caller", "rec_1",
		"rec_2", "rec_3", "rec_END", "CallerEnd", "CallerEnd",
	}, traceIDs(it.Trace()))
}

// Scenario 6 (§8): threaded calls — a main chain of three calls into
// independent linear sub-chains, each returning to the next call in
// sequence before the main chain ends.
func TestScenario_ThreadedCalls(t *testing.T) {
	program := []ast.Node{
		&ast.CallNode{Id: "1", CalleeID: "sub_a_1"},
		&ast.CallNode{Id: "2", CalleeID: "sub_b_1"},
		&ast.CallNode{Id: "3", CalleeID: "sub_c_1"},
		&ast.EndNode{Id: "END"},

		&ast.AskNode{Id: "sub_a_1", Text: "a1"},
		&ast.AskNode{Id: "sub_a_2", Text: "a2"},
		&ast.AskNode{Id: "sub_a_3", Text: "a3"},
		&ast.EndNode{Id: "sub_a_END"},

		&ast.AskNode{Id: "sub_b_1", Text: "b1"},
		&ast.AskNode{Id: "sub_b_2", Text: "b2"},
		&ast.AskNode{Id: "sub_b_3", Text: "b3"},
		&ast.EndNode{Id: "sub_b_END"},

		&ast.AskNode{Id: "sub_c_1", Text: "c1"},
		&ast.AskNode{Id: "sub_c_2", Text: "c2"},
		&ast.AskNode{Id: "sub_c_3", Text: "c3"},
		&ast.EndNode{Id: "sub_c_END"},
	}

	g, err := compiler.Compile(program, emptyRoot(t), "")
	require.NoError(t, err)

	it, err := interpreter.Start(g)
	require.NoError(t, err)

	for i := 0; i < 9; i++ {
		require.NoError(t, it.Answer("yes"))
	}

	require.True(t, it.Terminated())
	require.Equal(t, []string{
		"1", "sub_a_1", "sub_a_2", "sub_a_3", "sub_a_END",
		"2", "sub_b_1", "sub_b_2", "sub_b_3", "sub_b_END",
		"3", "sub_c_1", "sub_c_2", "sub_c_3", "sub_c_END",
		"END",
	}, traceIDs(it.Trace()))
}
