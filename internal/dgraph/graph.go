package dgraph

import (
	"path"

	"github.com/ritamzico/decisiongraph/internal/tagspace"
)

// DecisionGraph is the compiled form of an authored decision program:
// a table of nodes addressed by NodeID, plus the id execution starts
// from and the top-level tag-space type its accumulator values conform
// to. It also retains the source it was compiled from, for error
// reporting and for re-running analyses without re-threading strings
// through callers.
type DecisionGraph struct {
	nodes  map[NodeID]Node
	start  NodeID
	Root   *tagspace.CompoundType
	Source string
	Title  string
}

// New returns an empty graph over root with no start node. If source
// is a URI, Title is set to its last path segment (§4.3's
// source-metadata rule); an empty source leaves Title empty.
func New(root *tagspace.CompoundType, source string) *DecisionGraph {
	g := &DecisionGraph{nodes: make(map[NodeID]Node), Root: root, Source: source}
	if source != "" {
		g.Title = path.Base(source)
	}
	return g
}

// Add installs n under its own id. It is an error to add the same id
// twice; the compiler is expected to have already made ids unique.
func (g *DecisionGraph) Add(n Node) error {
	if _, exists := g.nodes[n.ID()]; exists {
		return nodeAlreadyExists(n.ID())
	}
	g.nodes[n.ID()] = n
	return nil
}

// Get looks up a node by id.
func (g *DecisionGraph) Get(id NodeID) (Node, error) {
	n, ok := g.nodes[id]
	if !ok {
		return nil, nodeDoesNotExist(id)
	}
	return n, nil
}

// Contains reports whether id names a node in the graph.
func (g *DecisionGraph) Contains(id NodeID) bool {
	_, ok := g.nodes[id]
	return ok
}

// SetStart designates id as the entry point. It is an error to
// designate a node that has not been added.
func (g *DecisionGraph) SetStart(id NodeID) error {
	if !g.Contains(id) {
		return nodeDoesNotExist(id)
	}
	g.start = id
	return nil
}

// Start returns the entry point node id.
func (g *DecisionGraph) Start() (NodeID, error) {
	if g.start == "" {
		return "", noStartNode()
	}
	return g.start, nil
}

// Nodes returns every node in the graph, in no particular order.
func (g *DecisionGraph) Nodes() []Node {
	out := make([]Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		out = append(out, n)
	}
	return out
}

// Len reports the number of nodes in the graph.
func (g *DecisionGraph) Len() int {
	return len(g.nodes)
}

// Clone returns a deep-enough copy of g: a new node table referencing
// the same (immutable, by construction) node values, so callers may
// hand the clone to analyses that only read the graph without risking
// mutation of the compiled original.
func (g *DecisionGraph) Clone() *DecisionGraph {
	clone := &DecisionGraph{
		nodes:  make(map[NodeID]Node, len(g.nodes)),
		start:  g.start,
		Root:   g.Root,
		Source: g.Source,
		Title:  g.Title,
	}
	for id, n := range g.nodes {
		clone.nodes[id] = n
	}
	return clone
}
