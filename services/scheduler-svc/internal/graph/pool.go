// Memory pooling for residual graphs and the per-phase maps used during
// max-flow computation.
//
// The batch simulation solves the same instances repeatedly: network.Build
// acquires each solve's graph here and the solver draws its level and
// current-arc maps from the same pool, so repeated solves stop dominating
// the GC profile.

package graph

import (
	"sync"
)

// GraphPool provides memory pooling for ResidualGraph and the map[int64]int
// scratch maps of the solver.
//
// The pool is safe for concurrent use from multiple goroutines.
//
// # Usage
//
//	pool := graph.GetPool()
//	g := pool.AcquireGraph()
//	defer pool.ReleaseGraph(g)
//
// # Implementation Notes
//
// The pool uses sync.Pool internally, which means:
//   - Objects may be garbage collected if not in use
//   - Objects are not pre-allocated
//   - The pool grows and shrinks based on demand
type GraphPool struct {
	graphs  sync.Pool
	intMaps sync.Pool
}

// globalPool is the singleton pool instance.
// Initialized at package load time.
var globalPool = &GraphPool{
	graphs: sync.Pool{
		New: func() any {
			return &ResidualGraph{
				Nodes:     make(map[int64]bool, 64),
				Edges:     make(map[int64]map[int64]*ResidualEdge, 64),
				EdgesList: make(map[int64][]*ResidualEdge, 64),
			}
		},
	},
	intMaps: sync.Pool{
		New: func() any {
			return make(map[int64]int, 64)
		},
	},
}

// GetPool returns the global graph pool.
//
// The global pool is thread-safe and should be used for most operations.
// Creating custom pools is rarely necessary.
func GetPool() *GraphPool {
	return globalPool
}

// AcquireGraph obtains a ResidualGraph from the pool.
//
// The returned graph is cleared and ready for use.
// Call ReleaseGraph() when done to return it to the pool.
func (p *GraphPool) AcquireGraph() *ResidualGraph {
	return p.graphs.Get().(*ResidualGraph)
}

// ReleaseGraph returns a ResidualGraph to the pool.
//
// The graph is cleared before being pooled.
// After calling this method, the graph must not be used.
//
// It is safe to pass nil to this method.
func (p *GraphPool) ReleaseGraph(g *ResidualGraph) {
	if g == nil {
		return
	}
	g.Clear()
	p.graphs.Put(g)
}

// AcquireIntMap obtains a map[int64]int from the pool.
//
// The returned map is cleared and ready for use.
// Call ReleaseIntMap() when done.
func (p *GraphPool) AcquireIntMap() map[int64]int {
	return p.intMaps.Get().(map[int64]int)
}

// ReleaseIntMap returns a map[int64]int to the pool.
//
// The map is cleared before pooling.
// It is safe to pass nil.
func (p *GraphPool) ReleaseIntMap(m map[int64]int) {
	if m == nil {
		return
	}
	clear(m)
	p.intMaps.Put(m)
}
