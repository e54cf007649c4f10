// This file implements the level BFS that builds the layered network for
// Dinitz's algorithm. Node ordering is deterministic (EdgesList order) so
// repeated solves of the same instance produce identical results.

package graph

// =============================================================================
// Queue Implementation
// =============================================================================

// Queue provides an efficient FIFO queue for BFS traversal.
// It uses a slice with a head pointer to avoid repeated allocations.
//
// The queue grows as needed but reuses underlying storage between operations.
// For optimal performance with large graphs, pre-allocate with NewQueue(expectedSize).
type Queue struct {
	data []int64 // Underlying storage
	head int     // Index of next element to dequeue
}

// NewQueue creates a new Queue with the specified initial capacity.
// The capacity should be set to the expected maximum queue size
// (typically the number of nodes in the graph for BFS).
func NewQueue(capacity int) *Queue {
	return &Queue{
		data: make([]int64, 0, capacity),
		head: 0,
	}
}

// Push adds an element to the end of the queue.
// Amortized O(1) time complexity.
func (q *Queue) Push(v int64) {
	q.data = append(q.data, v)
}

// Pop removes and returns the element at the front of the queue.
// O(1) time complexity.
//
// Panics if the queue is empty. Always check Empty() before calling Pop().
func (q *Queue) Pop() int64 {
	v := q.data[q.head]
	q.head++
	return v
}

// Empty returns true if the queue contains no elements.
func (q *Queue) Empty() bool {
	return q.head >= len(q.data)
}

// Len returns the number of elements currently in the queue.
func (q *Queue) Len() int {
	return len(q.data) - q.head
}

// Reset clears the queue for reuse, keeping the underlying capacity.
func (q *Queue) Reset() {
	q.data = q.data[:0]
	q.head = 0
}

// =============================================================================
// Level BFS (for Dinitz's Algorithm)
// =============================================================================

// BFSLevel builds a level graph by computing BFS distances from the source.
// This is used by Dinitz's algorithm to construct the layered network.
//
// A level graph partitions vertices into layers where:
//   - level[source] = 0
//   - level[v] = level[u] + 1 for edge (u,v) in the BFS tree
//   - Only edges going from level i to level i+1 are considered valid
//
// Unreachable nodes are not included in the returned map.
//
// Example:
//
//	level := BFSLevel(g, sourceID)
//	if _, exists := level[sinkID]; exists {
//	    // Sink is reachable, proceed with blocking flow
//	}
func BFSLevel(g *ResidualGraph, source int64) map[int64]int {
	level := make(map[int64]int, len(g.Nodes))
	BFSLevelInto(g, source, level)
	return level
}

// BFSLevelInto computes BFS levels into a caller-provided map, clearing it
// first. The solve path calls this once per phase with a pooled map so the
// per-phase level maps never hit the allocator.
func BFSLevelInto(g *ResidualGraph, source int64, level map[int64]int) {
	clear(level)
	level[source] = 0

	queue := NewQueue(len(g.Nodes))
	queue.Push(source)

	for !queue.Empty() {
		u := queue.Pop()

		// Deterministic neighbor ordering via EdgesList
		neighbors := g.GetNeighborsList(u)
		for _, edge := range neighbors {
			v := edge.To

			// Only consider edges with positive capacity
			if _, exists := level[v]; !exists && edge.Capacity > 0 {
				level[v] = level[u] + 1
				queue.Push(v)
			}
		}
	}
}
