package graphstore

import (
	"path/filepath"
	"testing"

	"github.com/augmentorium/augmentorium/internal/model"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	s, err := Open(filepath.Join(dir, "code_graph.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestUpsertNodeAndLookup(t *testing.T) {
	s := openTestStore(t)
	node := model.GraphNode{ID: "n1", Type: "function", Name: "greet", FilePath: "a.py", StartLine: 1, EndLine: 3}
	require.NoError(t, s.UpsertNode(node))

	got, err := s.NodeByID("n1")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "greet", got.Name)

	missing, err := s.NodeByID("nope")
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestDeleteNodeCascadesIncidentEdges(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.UpsertNode(model.GraphNode{ID: "a", Type: "function", FilePath: "a.py"}))
	require.NoError(t, s.UpsertNode(model.GraphNode{ID: "b", Type: "function", FilePath: "b.py"}))
	require.NoError(t, s.InsertEdge(model.GraphEdge{SourceID: "a", TargetID: "b", RelationType: "calls"}))
	require.NoError(t, s.InsertEdge(model.GraphEdge{SourceID: "b", TargetID: "a", RelationType: "calls"}))

	require.NoError(t, s.DeleteNode("a"))

	edgesFromA, err := s.EdgesFor("a", "")
	require.NoError(t, err)
	require.Empty(t, edgesFromA)

	edgesFromB, err := s.EdgesFor("b", "")
	require.NoError(t, err)
	require.Empty(t, edgesFromB, "edge targeting the deleted node must also be removed")
}

func TestReindexFileReplacesNodesAndEdges(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.ReindexFile("a.py", []model.GraphNode{
		{ID: "mod", Type: "module", FilePath: "a.py"},
		{ID: "fn", Type: "function", FilePath: "a.py"},
	}, []model.GraphEdge{
		{SourceID: "mod", TargetID: "import os", RelationType: "import"},
	}))

	nodes, err := s.NodesByFilePath("a.py")
	require.NoError(t, err)
	require.Len(t, nodes, 2)

	require.NoError(t, s.ReindexFile("a.py", []model.GraphNode{
		{ID: "mod2", Type: "module", FilePath: "a.py"},
	}, nil))

	nodes, err = s.NodesByFilePath("a.py")
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	require.Equal(t, "mod2", nodes[0].ID)

	edges, err := s.EdgesFor("mod", "")
	require.NoError(t, err)
	require.Empty(t, edges, "edges owned by the replaced file must be gone too")
}

func TestEdgesForFiltersByRelationType(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.UpsertNode(model.GraphNode{ID: "a", Type: "class", FilePath: "a.py"}))
	require.NoError(t, s.InsertEdge(model.GraphEdge{SourceID: "a", TargetID: "Base", RelationType: "inherits"}))
	require.NoError(t, s.InsertEdge(model.GraphEdge{SourceID: "a", TargetID: "os", RelationType: "import"}))

	inherits, err := s.EdgesFor("a", "inherits")
	require.NoError(t, err)
	require.Len(t, inherits, 1)
	require.Equal(t, "Base", inherits[0].TargetID)
}

func TestEdgesToFiltersByTarget(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.UpsertNode(model.GraphNode{ID: "a", Type: "function", FilePath: "a.py"}))
	require.NoError(t, s.UpsertNode(model.GraphNode{ID: "b", Type: "function", FilePath: "b.py"}))
	require.NoError(t, s.InsertEdge(model.GraphEdge{SourceID: "a", TargetID: "b", RelationType: "calls"}))

	incoming, err := s.EdgesTo("b", "")
	require.NoError(t, err)
	require.Len(t, incoming, 1)
	require.Equal(t, "a", incoming[0].SourceID)

	require.Empty(t, mustEdgesTo(t, s, "a"))
}

func mustEdgesTo(t *testing.T, s *Store, id string) []model.GraphEdge {
	t.Helper()
	edges, err := s.EdgesTo(id, "")
	require.NoError(t, err)
	return edges
}

func TestNeighborsFollowsBothDirectionsWithinDepth(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.UpsertNode(model.GraphNode{ID: "fn_a", Type: "function", Name: "a", FilePath: "a.py"}))
	require.NoError(t, s.UpsertNode(model.GraphNode{ID: "fn_b", Type: "function", Name: "b", FilePath: "a.py"}))
	require.NoError(t, s.UpsertNode(model.GraphNode{ID: "fn_c", Type: "function", Name: "c", FilePath: "a.py"}))
	require.NoError(t, s.InsertEdge(model.GraphEdge{SourceID: "fn_a", TargetID: "fn_b", RelationType: "calls"}))
	require.NoError(t, s.InsertEdge(model.GraphEdge{SourceID: "fn_c", TargetID: "fn_a", RelationType: "calls"}))
	require.NoError(t, s.InsertEdge(model.GraphEdge{SourceID: "fn_b", TargetID: "fn_unresolved", RelationType: "calls"}))

	depth1, err := s.Neighbors("fn_a", 1)
	require.NoError(t, err)
	require.Len(t, depth1, 2, "one outbound hop to fn_b and one inbound hop from fn_c")

	var sawOutbound, sawInbound bool
	for _, n := range depth1 {
		if n.Direction == "outbound" {
			sawOutbound = true
			require.Equal(t, "fn_b", n.NeighborID)
		}
		if n.Direction == "inbound" {
			sawInbound = true
			require.Equal(t, "fn_c", n.NeighborID)
		}
	}
	require.True(t, sawOutbound)
	require.True(t, sawInbound)

	depth2, err := s.Neighbors("fn_a", 2)
	require.NoError(t, err)
	var foundExternal bool
	for _, n := range depth2 {
		if n.NeighborID == "fn_unresolved" {
			foundExternal = true
			require.Equal(t, "external", n.NeighborNode.Metadata["group"])
		}
	}
	require.True(t, foundExternal, "depth 2 must reach the unresolved external node")
}

func TestNeighborsUnknownNodeReturnsEmpty(t *testing.T) {
	s := openTestStore(t)
	neighbors, err := s.Neighbors("does-not-exist", 2)
	require.NoError(t, err)
	require.Empty(t, neighbors)
}

func TestGraphMaterializesExternalTargets(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.UpsertNode(model.GraphNode{ID: "a", Type: "function", FilePath: "a.py"}))
	require.NoError(t, s.InsertEdge(model.GraphEdge{SourceID: "a", TargetID: "unresolved", RelationType: "calls"}))

	nodes, edges, err := s.Graph()
	require.NoError(t, err)
	require.Len(t, edges, 1)

	var foundExternal bool
	for _, n := range nodes {
		if n.ID == "unresolved" {
			foundExternal = true
			require.Equal(t, "external", n.Metadata["group"])
		}
	}
	require.True(t, foundExternal)
}
