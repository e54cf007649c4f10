// Package graph provides the residual network representation used by the
// crew scheduling max-flow solver.
package graph

import (
	"sort"
	"sync"

	"crewsched/pkg/domain"
)

// =============================================================================
// Constants
// =============================================================================

// Infinity represents an unreachable distance or unlimited capacity.
const Infinity = domain.Infinity

// =============================================================================
// Residual Edge
// =============================================================================

// ResidualEdge represents an edge in the residual graph.
//
// Each original edge (u, v) with capacity c is represented by two edges:
//   - Forward edge (u, v) with capacity c
//   - Backward edge (v, u) with capacity 0
//
// When flow f is pushed along (u, v):
//   - Forward edge capacity becomes c - f
//   - Backward edge capacity becomes f
//
// This allows the algorithm to "undo" flow decisions.
//
// All capacities and flows are integral. Crew scheduling networks only
// carry unit flight requirements and crew counts, so int64 arithmetic is
// exact and no epsilon comparisons are needed.
type ResidualEdge struct {
	// To is the destination node ID.
	To int64

	// Capacity is the current residual capacity.
	// For forward edges: OriginalCapacity - Flow
	// For backward edges: equals the flow on the corresponding forward edge
	Capacity int64

	// Flow is the net flow currently on this edge. An edge and its paired
	// opposite edge always carry negated values, so canceling flow through
	// the reverse edge decreases the forward edge's Flow accordingly.
	// Reverse edges hold non-positive values.
	Flow int64

	// OriginalCapacity is the initial capacity of the edge.
	// Used for reset operations.
	OriginalCapacity int64

	// IsReverse indicates whether this is a backward (reverse) edge.
	// Reverse edges are created automatically and should not be counted
	// when computing statistics.
	IsReverse bool

	// Index is the position of this edge in the EdgesList slice.
	// Used for the current-arc optimization in blocking flow search.
	Index int
}

// ResidualCapacity returns the remaining capacity on this edge.
func (e *ResidualEdge) ResidualCapacity() int64 {
	return e.Capacity
}

// HasCapacity returns true if the edge has positive residual capacity.
func (e *ResidualEdge) HasCapacity() bool {
	return e.Capacity > 0
}

// =============================================================================
// Residual Graph
// =============================================================================

// ResidualGraph is the core data structure for the max-flow computation.
//
// Edges are stored in two complementary structures:
//   - Edges: map for O(1) lookup by (from, to)
//   - EdgesList: slice for deterministic iteration order
//
// Both structures point to the same ResidualEdge objects.
//
// # Determinism
//
// Max-flow can route flow differently depending on the order of edge
// traversal. To ensure reproducible crew counts:
//   - Use GetNeighborsList() for iteration (not GetNeighbors())
//   - Use GetSortedNodes() for node iteration
//
// # Thread Safety
//
// ResidualGraph is NOT thread-safe for concurrent writes. However,
// GetSortedNodes() is safe for concurrent reads due to internal locking.
// For concurrent solves, clone the graph per goroutine.
type ResidualGraph struct {
	// Nodes contains all node IDs in the graph.
	// The bool value is always true (used as a set).
	Nodes map[int64]bool

	// Edges provides O(1) edge lookup by (from, to) pair.
	Edges map[int64]map[int64]*ResidualEdge

	// EdgesList provides deterministic edge iteration.
	// EdgesList[from] is a slice of edges in insertion order.
	EdgesList map[int64][]*ResidualEdge

	// sortedNodesMu protects the sortedNodes cache for concurrent access.
	sortedNodesMu sync.Mutex

	// sortedNodes caches the sorted list of node IDs.
	// Invalidated when nodes are added.
	sortedNodes      []int64
	sortedNodesDirty bool
}

// NewResidualGraph creates a new empty residual graph.
func NewResidualGraph() *ResidualGraph {
	return &ResidualGraph{
		Nodes:            make(map[int64]bool),
		Edges:            make(map[int64]map[int64]*ResidualEdge),
		EdgesList:        make(map[int64][]*ResidualEdge),
		sortedNodesDirty: true,
	}
}

// =============================================================================
// Graph Modification
// =============================================================================

// Clear removes all nodes and edges from the graph.
//
// The graph can be reused after clearing. This is more efficient than
// creating a new graph when using pooling.
func (rg *ResidualGraph) Clear() {
	clear(rg.Nodes)
	for k := range rg.Edges {
		clear(rg.Edges[k])
		delete(rg.Edges, k)
	}
	for k := range rg.EdgesList {
		rg.EdgesList[k] = rg.EdgesList[k][:0]
		delete(rg.EdgesList, k)
	}

	rg.sortedNodesMu.Lock()
	rg.sortedNodes = rg.sortedNodes[:0]
	rg.sortedNodesDirty = true
	rg.sortedNodesMu.Unlock()
}

// AddNode adds a node to the graph.
//
// If the node already exists, this is a no-op. Nodes are added implicitly
// when adding edges, but explicit addition is useful for isolated nodes.
func (rg *ResidualGraph) AddNode(id int64) {
	if !rg.Nodes[id] {
		rg.Nodes[id] = true
		rg.markSortedNodesDirty()
	}
}

// ensureNode adds a node if it doesn't exist (internal helper).
func (rg *ResidualGraph) ensureNode(id int64) {
	if !rg.Nodes[id] {
		rg.Nodes[id] = true
		rg.markSortedNodesDirty()
	}
}

func (rg *ResidualGraph) markSortedNodesDirty() {
	rg.sortedNodesMu.Lock()
	rg.sortedNodesDirty = true
	rg.sortedNodesMu.Unlock()
}

// AddEdge adds a forward edge to the graph.
//
// If an edge already exists between the same nodes:
//   - If the existing edge is a reverse edge, it's converted to a forward edge
//   - Otherwise, the capacity is accumulated
//
// Accumulation matters for crew networks: duplicate flights between the
// same pair of events simply add up their unit requirements.
func (rg *ResidualGraph) AddEdge(from, to int64, capacity int64) {
	rg.ensureNode(from)
	rg.ensureNode(to)

	if rg.Edges[from] == nil {
		rg.Edges[from] = make(map[int64]*ResidualEdge)
	}

	if existing := rg.Edges[from][to]; existing != nil {
		if existing.IsReverse {
			// Convert reverse edge to forward edge
			// This happens when the reverse edge was created first
			existing.OriginalCapacity = capacity
			existing.Capacity = capacity
			existing.IsReverse = false
			return
		}
		// Accumulate capacity for parallel edges
		existing.Capacity += capacity
		existing.OriginalCapacity += capacity
		return
	}

	edge := &ResidualEdge{
		To:               to,
		Capacity:         capacity,
		Flow:             0,
		OriginalCapacity: capacity,
		IsReverse:        false,
		Index:            len(rg.EdgesList[from]),
	}

	rg.Edges[from][to] = edge
	rg.EdgesList[from] = append(rg.EdgesList[from], edge)
}

// AddReverseEdge adds a backward edge for flow cancellation.
//
// Reverse edges have initial capacity 0, which increases as flow is
// pushed on the corresponding forward edge.
func (rg *ResidualGraph) AddReverseEdge(from, to int64) {
	rg.ensureNode(from)
	rg.ensureNode(to)

	if rg.Edges[from] == nil {
		rg.Edges[from] = make(map[int64]*ResidualEdge)
	}

	// Don't overwrite existing edge
	if existing := rg.Edges[from][to]; existing != nil {
		return
	}

	edge := &ResidualEdge{
		To:               to,
		Capacity:         0,
		Flow:             0,
		OriginalCapacity: 0,
		IsReverse:        true,
		Index:            len(rg.EdgesList[from]),
	}

	rg.Edges[from][to] = edge
	rg.EdgesList[from] = append(rg.EdgesList[from], edge)
}

// AddEdgeWithReverse adds both forward and backward edges.
//
// This is the recommended method for adding edges to a flow network.
//
// Example:
//
//	g.AddEdgeWithReverse(1, 2, 10)
//	// Creates edge 1→2 with capacity=10
//	// Creates edge 2→1 with capacity=0
func (rg *ResidualGraph) AddEdgeWithReverse(from, to int64, capacity int64) {
	rg.AddEdge(from, to, capacity)
	rg.AddReverseEdge(to, from)
}

// =============================================================================
// Edge Access
// =============================================================================

// GetEdge returns the edge from 'from' to 'to', or nil if not found.
//
// Time complexity: O(1)
func (rg *ResidualGraph) GetEdge(from, to int64) *ResidualEdge {
	if rg.Edges[from] == nil {
		return nil
	}
	return rg.Edges[from][to]
}

// GetNeighbors returns all outgoing edges from a node as a map.
//
// WARNING: Iterating over the returned map is non-deterministic.
// Use GetNeighborsList() for deterministic iteration.
func (rg *ResidualGraph) GetNeighbors(node int64) map[int64]*ResidualEdge {
	return rg.Edges[node]
}

// GetNeighborsList returns all outgoing edges from a node as a slice.
//
// The slice is in insertion order, providing deterministic iteration.
// This should be used in algorithms to ensure reproducible results.
func (rg *ResidualGraph) GetNeighborsList(node int64) []*ResidualEdge {
	return rg.EdgesList[node]
}

// =============================================================================
// Node Access
// =============================================================================

// GetNodes returns all node IDs in deterministic (sorted) order.
func (rg *ResidualGraph) GetNodes() []int64 {
	return rg.GetSortedNodes()
}

// GetSortedNodes returns node IDs sorted in ascending order.
//
// The result is cached for efficiency. The cache is invalidated when
// nodes are added. This method is safe for concurrent use.
//
// Time complexity: O(1) if cached, O(n log n) otherwise
func (rg *ResidualGraph) GetSortedNodes() []int64 {
	rg.sortedNodesMu.Lock()
	defer rg.sortedNodesMu.Unlock()

	if rg.sortedNodesDirty || len(rg.sortedNodes) != len(rg.Nodes) {
		rg.sortedNodes = make([]int64, 0, len(rg.Nodes))
		for node := range rg.Nodes {
			rg.sortedNodes = append(rg.sortedNodes, node)
		}
		sort.Slice(rg.sortedNodes, func(i, j int) bool {
			return rg.sortedNodes[i] < rg.sortedNodes[j]
		})
		rg.sortedNodesDirty = false
	}

	return rg.sortedNodes
}

// NodeCount returns the number of nodes in the graph.
func (rg *ResidualGraph) NodeCount() int {
	return len(rg.Nodes)
}

// EdgeCount returns the total number of edges (including reverse edges).
func (rg *ResidualGraph) EdgeCount() int {
	count := 0
	for _, edges := range rg.EdgesList {
		count += len(edges)
	}
	return count
}

// =============================================================================
// Flow Operations
// =============================================================================

// UpdateFlow pushes flow along an edge and updates the residual graph.
//
// All four fields of the edge pair change together:
//   - The pushed edge's flow increases and its capacity decreases by 'flow'
//   - The opposite edge's flow decreases and its capacity increases by 'flow'
//
// Decrementing the opposite flow keeps Flow a net value: when a later phase
// pushes through a reverse edge, the forward edge's Flow drops by the
// canceled amount instead of over-reporting it.
//
// The backward edge is created if it doesn't exist.
func (rg *ResidualGraph) UpdateFlow(from, to int64, flow int64) {
	// Update the pushed edge
	if edge := rg.GetEdge(from, to); edge != nil {
		edge.Flow += flow
		edge.Capacity -= flow
	}

	// Update or create the opposite edge
	if backEdge := rg.GetEdge(to, from); backEdge != nil {
		backEdge.Flow -= flow
		backEdge.Capacity += flow
	} else {
		if rg.Edges[to] == nil {
			rg.Edges[to] = make(map[int64]*ResidualEdge)
		}
		newEdge := &ResidualEdge{
			To:               from,
			Capacity:         flow,
			Flow:             -flow,
			OriginalCapacity: 0,
			IsReverse:        true,
			Index:            len(rg.EdgesList[to]),
		}
		rg.Edges[to][from] = newEdge
		rg.EdgesList[to] = append(rg.EdgesList[to], newEdge)
	}
}

// GetFlowOnEdge returns the current flow on an edge.
//
// Returns 0 if the edge doesn't exist.
func (rg *ResidualGraph) GetFlowOnEdge(from, to int64) int64 {
	if edge := rg.GetEdge(from, to); edge != nil {
		return edge.Flow
	}
	return 0
}

// GetTotalFlow computes the total flow leaving the source node.
//
// This is the standard way to determine the flow value after running
// the max-flow algorithm.
func (rg *ResidualGraph) GetTotalFlow(source int64) int64 {
	var totalFlow int64
	for _, edge := range rg.EdgesList[source] {
		if !edge.IsReverse && edge.Flow > 0 {
			totalFlow += edge.Flow
		}
	}
	return totalFlow
}

// =============================================================================
// Graph Operations
// =============================================================================

// Clone creates a deep copy of the graph.
//
// The cloned graph is completely independent and can be modified
// without affecting the original.
//
// Use CloneToPooled() for better performance when using pooling.
func (rg *ResidualGraph) Clone() *ResidualGraph {
	clone := NewResidualGraph()

	for node := range rg.Nodes {
		clone.Nodes[node] = true
	}

	for from, edges := range rg.EdgesList {
		clone.Edges[from] = make(map[int64]*ResidualEdge, len(edges))
		clone.EdgesList[from] = make([]*ResidualEdge, len(edges))

		for i, edge := range edges {
			clonedEdge := &ResidualEdge{
				To:               edge.To,
				Capacity:         edge.Capacity,
				Flow:             edge.Flow,
				OriginalCapacity: edge.OriginalCapacity,
				IsReverse:        edge.IsReverse,
				Index:            edge.Index,
			}
			clone.Edges[from][edge.To] = clonedEdge
			clone.EdgesList[from][i] = clonedEdge
		}
	}

	clone.sortedNodesDirty = true
	return clone
}

// CloneToPooled creates a deep copy using a graph from the pool.
//
// This is more efficient than Clone() when the pool has available graphs.
// The caller is responsible for returning the cloned graph to the pool
// when done.
//
// Example:
//
//	pool := graph.GetPool()
//	cloned := g.CloneToPooled(pool)
//	defer pool.ReleaseGraph(cloned)
func (rg *ResidualGraph) CloneToPooled(pool *GraphPool) *ResidualGraph {
	clone := pool.AcquireGraph()

	for node := range rg.Nodes {
		clone.Nodes[node] = true
	}

	for from, edges := range rg.EdgesList {
		clone.Edges[from] = make(map[int64]*ResidualEdge, len(edges))
		clone.EdgesList[from] = make([]*ResidualEdge, 0, len(edges))

		for _, edge := range edges {
			clonedEdge := &ResidualEdge{
				To:               edge.To,
				Capacity:         edge.Capacity,
				Flow:             edge.Flow,
				OriginalCapacity: edge.OriginalCapacity,
				IsReverse:        edge.IsReverse,
				Index:            len(clone.EdgesList[from]),
			}
			clone.Edges[from][edge.To] = clonedEdge
			clone.EdgesList[from] = append(clone.EdgesList[from], clonedEdge)
		}
	}

	clone.sortedNodesDirty = true
	return clone
}

// Reset clears all flow and restores original capacities.
//
// This allows rerunning the algorithm on the same graph structure
// without recreating it.
func (rg *ResidualGraph) Reset() {
	for _, edges := range rg.EdgesList {
		for _, edge := range edges {
			if edge.IsReverse {
				edge.Capacity = 0
			} else {
				edge.Capacity = edge.OriginalCapacity
			}
			edge.Flow = 0
		}
	}
}

// GetAllEdges returns all forward (non-reverse) edges in deterministic order.
//
// Useful for exporting graph structure or computing statistics.
func (rg *ResidualGraph) GetAllEdges() []*ResidualEdge {
	var result []*ResidualEdge
	nodes := rg.GetSortedNodes()
	for _, from := range nodes {
		for _, edge := range rg.EdgesList[from] {
			if !edge.IsReverse {
				result = append(result, edge)
			}
		}
	}
	return result
}
