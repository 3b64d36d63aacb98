// Package decisiongraph is the root facade over the decision-graph
// core: compile an AST program against a tag space into a
// DecisionGraph, then run it. It plays the role ritamzico-pgraph's
// root-level PGraph type played for its probabilistic graph — a thin
// entry point cmd/cli and cmd/server load against — adapted from
// "parse a DSL line and execute a query" to "compile a program and
// run an interpreter over it".
package decisiongraph

import (
	"os"

	"github.com/ritamzico/decisiongraph/internal/analyze"
	"github.com/ritamzico/decisiongraph/internal/ast"
	"github.com/ritamzico/decisiongraph/internal/compiler"
	"github.com/ritamzico/decisiongraph/internal/dgraph"
	"github.com/ritamzico/decisiongraph/internal/interpreter"
	"github.com/ritamzico/decisiongraph/internal/serialization"
	"github.com/ritamzico/decisiongraph/internal/tagspace"
	"github.com/ritamzico/decisiongraph/internal/validate"
)

type (
	// Interpreter re-exports internal/interpreter's run type so callers
	// of this package never need to import an internal package.
	Interpreter = interpreter.Interpreter
	// Message re-exports a validator diagnostic.
	Message = validate.Message
	// NodeID re-exports a compiled node id.
	NodeID = dgraph.NodeID
)

// Questionnaire wraps a compiled DecisionGraph: the read-only artifact
// an arbitrary number of independent Interpreter runs can share (§5).
type Questionnaire struct {
	Graph *dgraph.DecisionGraph
}

// Compile validates program, then lowers it against root into a
// Questionnaire. Validator messages are always returned alongside the
// result — even on a successful compile — since warnings (duplicate
// answers) don't block compilation but are still worth surfacing.
func Compile(program []ast.Node, root *tagspace.CompoundType, source string) (*Questionnaire, []Message, error) {
	messages := validate.All(program)

	g, err := compiler.Compile(program, root, source)
	if err != nil {
		return nil, messages, err
	}
	return &Questionnaire{Graph: g}, messages, nil
}

// Load decodes a tag space and a program from JSON and compiles them.
func Load(tagSpaceJSON, programJSON []byte, source string) (*Questionnaire, []Message, error) {
	root, err := serialization.UnmarshalTagSpace(tagSpaceJSON)
	if err != nil {
		return nil, nil, err
	}
	program, err := serialization.UnmarshalProgram(programJSON)
	if err != nil {
		return nil, nil, err
	}
	return Compile(program, root, source)
}

// LoadFiles reads a tag-space JSON file and a program JSON file from
// disk and compiles them.
func LoadFiles(tagSpacePath, programPath string) (*Questionnaire, []Message, error) {
	tagSpaceJSON, err := os.ReadFile(tagSpacePath)
	if err != nil {
		return nil, nil, err
	}
	programJSON, err := os.ReadFile(programPath)
	if err != nil {
		return nil, nil, err
	}
	return Load(tagSpaceJSON, programJSON, programPath)
}

// NewRun starts a fresh Interpreter over q's graph. Multiple runs may
// be started from the same Questionnaire concurrently; each owns its
// own interpreter state.
func (q *Questionnaire) NewRun() (*Interpreter, error) {
	return interpreter.Start(q.Graph)
}

// ShortestQuestionPath reports the fewest node-visits from the start
// node to target.
func (q *Questionnaire) ShortestQuestionPath(target NodeID) ([]NodeID, error) {
	return analyze.ShortestQuestionPath(q.Graph, target)
}

// TopKShortestQuestionPaths reports up to k distinct shortest paths to
// target.
func (q *Questionnaire) TopKShortestQuestionPaths(target NodeID, k int) ([][]NodeID, error) {
	return analyze.TopKShortestQuestionPaths(q.Graph, target, k)
}

// Unreachable lists every node in q's graph that the start node cannot
// reach — a lint over an authored questionnaire.
func (q *Questionnaire) Unreachable() ([]NodeID, error) {
	return analyze.Unreachable(q.Graph)
}

// MarshalTrace renders an interpreter's trace as JSON.
func MarshalTrace(it *Interpreter) ([]byte, error) {
	return serialization.MarshalTrace(it.Trace())
}

// MarshalAccumulator renders an interpreter's accumulated value as JSON.
func MarshalAccumulator(it *Interpreter) ([]byte, error) {
	return serialization.MarshalValue(it.Accumulator())
}
