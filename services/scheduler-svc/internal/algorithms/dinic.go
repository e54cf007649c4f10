// Dinitz's max-flow algorithm over the time-expanded crew network.
//
// The implementation builds a level graph with BFS, then saturates it with
// blocking flows found by an iterative DFS with the current-arc optimization.
// All capacities are integral, so every augmentation pushes at least one
// unit and the algorithm terminates without tolerance comparisons.

package algorithms

import (
	"context"

	"crewsched/pkg/domain"
	"crewsched/services/scheduler-svc/internal/graph"
)

// checkInterval controls how often the context is polled inside the
// blocking-flow loop. Polling on every augmentation is measurable on
// large instances.
const checkInterval = 100

// DinicResult holds the outcome of a max-flow computation.
type DinicResult struct {
	// MaxFlow is the total flow pushed from source to sink.
	MaxFlow int64

	// Iterations is the number of completed BFS phases.
	Iterations int

	// Canceled is true when the computation was interrupted via context
	// or by the progress callback.
	Canceled bool
}

// =============================================================================
// Public API
// =============================================================================

// Dinic computes the maximum flow from source to sink using Dinitz's algorithm.
//
// The graph is modified in place: edge capacities are decreased and flows
// recorded as augmenting paths are found. Callers that need the original
// graph afterwards should Clone() it first.
func Dinic(g *graph.ResidualGraph, source, sink int64, options *SolverOptions) *DinicResult {
	return DinicWithContext(context.Background(), g, source, sink, options)
}

// DinicWithContext computes the maximum flow with cancellation support.
//
// The context is checked between BFS phases and periodically inside the
// blocking-flow loop. When the context is canceled the partial result is
// returned with Canceled set; the flow found so far is still valid
// (it is a feasible flow, just not necessarily maximal).
func DinicWithContext(ctx context.Context, g *graph.ResidualGraph, source, sink int64, options *SolverOptions) *DinicResult {
	if options == nil {
		options = DefaultSolverOptions()
	}
	return run(ctx, g, source, sink, options)
}

// =============================================================================
// Phase Loop
// =============================================================================

// run is the phase loop shared by every entry point: level BFS, blocking
// flow, context check, progress report, repeat until the sink becomes
// unreachable.
func run(ctx context.Context, g *graph.ResidualGraph, source, sink int64, options *SolverOptions) *DinicResult {
	result := &DinicResult{}

	if source == sink {
		return result
	}
	if !g.Nodes[source] || !g.Nodes[sink] {
		return result
	}

	// Phase-local maps come from the pool: the batch runner performs
	// thousands of phases and these maps are its hottest allocations.
	pool := graph.GetPool()
	level := pool.AcquireIntMap()
	defer pool.ReleaseIntMap(level)
	currentArc := pool.AcquireIntMap()
	defer pool.ReleaseIntMap(currentArc)

	for {
		if ctx.Err() != nil {
			result.Canceled = true
			return result
		}
		if options.MaxIterations > 0 && result.Iterations >= options.MaxIterations {
			return result
		}

		// Phase: build the level graph from the current residual graph.
		graph.BFSLevelInto(g, source, level)
		if _, reachable := level[sink]; !reachable {
			// Sink unreachable: the current flow is maximal.
			return result
		}

		clear(currentArc)
		blockingFlow, canceled := findBlockingFlow(ctx, g, source, sink, level, currentArc)
		result.MaxFlow += blockingFlow
		result.Iterations++

		if canceled {
			result.Canceled = true
			return result
		}
		if options.Progress != nil && !options.Progress(result.Iterations, result.MaxFlow) {
			result.Canceled = true
			return result
		}
		if blockingFlow <= 0 {
			return result
		}
	}
}

// =============================================================================
// Blocking Flow
// =============================================================================

// findBlockingFlow saturates the level graph: it repeatedly finds augmenting
// paths that strictly increase in level and pushes the bottleneck flow along
// each, until no such path remains.
//
// The current-arc optimization ensures each edge is scanned at most once per
// phase across all DFS calls, giving O(V*E) per phase.
func findBlockingFlow(ctx context.Context, g *graph.ResidualGraph, source, sink int64, level map[int64]int, currentArc map[int64]int) (int64, bool) {
	var total int64

	for augmentations := 0; ; augmentations++ {
		if augmentations%checkInterval == 0 && ctx.Err() != nil {
			return total, true
		}

		pathFlow := dfsBlockingPath(g, source, sink, level, currentArc)
		if pathFlow <= 0 {
			return total, false
		}
		total += pathFlow
	}
}

// dfsBlockingPath finds a single augmenting path in the level graph and
// pushes the bottleneck flow along it.
//
// The DFS is iterative to avoid stack overflow on deep networks (a
// time-expanded graph with many events produces long waiting chains).
// Dead ends are removed from the level map so later DFS calls skip them.
//
// Returns the pushed flow, or 0 when no augmenting path exists.
func dfsBlockingPath(g *graph.ResidualGraph, source, sink int64, level map[int64]int, currentArc map[int64]int) int64 {
	path := make([]int64, 0, 64)
	minCap := make([]int64, 0, 64)

	path = append(path, source)
	minCap = append(minCap, graph.Infinity)

	for len(path) > 0 {
		u := path[len(path)-1]

		if u == sink {
			// Found a path: push the bottleneck along it.
			bottleneck := minCap[len(minCap)-1]
			for i := 0; i < len(path)-1; i++ {
				g.UpdateFlow(path[i], path[i+1], bottleneck)
			}
			return bottleneck
		}

		edges := g.GetNeighborsList(u)
		advanced := false

		// Resume from the current arc: edges before it are known dead.
		for i := currentArc[u]; i < len(edges); i++ {
			edge := edges[i]
			v := edge.To

			if edge.Capacity <= 0 {
				currentArc[u] = i + 1
				continue
			}

			lv, inLevel := level[v]
			if !inLevel || lv != level[u]+1 {
				currentArc[u] = i + 1
				continue
			}

			// Advance along this edge.
			currentArc[u] = i
			path = append(path, v)
			minCap = append(minCap, domain.MinInt64(minCap[len(minCap)-1], edge.Capacity))
			advanced = true
			break
		}

		if !advanced {
			// Dead end: remove the node from the level graph and backtrack.
			currentArc[u] = len(edges)
			delete(level, u)
			path = path[:len(path)-1]
			minCap = minCap[:len(minCap)-1]

			// The edge into u is exhausted; let the parent try its next arc.
			if len(path) > 0 {
				p := path[len(path)-1]
				currentArc[p]++
			}
		}
	}

	return 0
}
