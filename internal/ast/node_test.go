package ast_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ritamzico/decisiongraph/internal/ast"
)

func TestSetNodeID_AssignsAcrossVariants(t *testing.T) {
	nodes := []ast.Node{
		&ast.AskNode{},
		&ast.ConsiderNode{},
		&ast.SetNode{},
		&ast.CallNode{},
		&ast.TodoNode{},
		&ast.RejectNode{},
		&ast.EndNode{},
	}

	for i, n := range nodes {
		require.Empty(t, n.NodeID())
		ast.SetNodeID(n, "gen")
		require.Equal(t, "gen", n.NodeID(), "variant %d", i)
	}
}
