// Package algorithms implements the max-flow computation behind the crew
// scheduling solver.
package algorithms

// SolverOptions controls the max-flow computation.
type SolverOptions struct {
	// MaxIterations limits the number of BFS phases (0 = unlimited).
	// Dinitz's algorithm needs at most O(V) phases, so the limit only
	// matters as a safety valve for very large networks.
	MaxIterations int

	// Progress, when set, is invoked after each completed phase with the
	// phase number and the total flow found so far. Returning false aborts
	// the computation and the partial result is returned with Canceled set.
	//
	// The simulation binary wires this to debug logging so long solves
	// stay observable.
	Progress func(iteration int, flow int64) bool
}

// DefaultSolverOptions returns the standard options.
func DefaultSolverOptions() *SolverOptions {
	return &SolverOptions{}
}
