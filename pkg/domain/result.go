package domain

// CrewSchedulingResult is the outcome of one solve call.
// It is fully formed on return and never mutated afterwards.
type CrewSchedulingResult struct {
	// InitialCrewCount maps airport -> crew that must be pre-stationed
	// there. Populated only when Feasible is true.
	InitialCrewCount map[string]int64

	// TotalCrewRequired is the sum over InitialCrewCount.
	TotalCrewRequired int64

	// Feasible reports whether every flight's unit crew requirement can
	// be satisfied. Infeasibility is a first-class outcome, not an error;
	// callers must branch on this flag before reading crew counts.
	Feasible bool

	// MaxFlowValue is the raw maximum flow achieved on the reduced
	// network. Feasible == (MaxFlowValue == total demand).
	MaxFlowValue int64

	// Iterations is the number of Dinic phases executed.
	Iterations int
}

// NewCrewSchedulingResult returns an empty, infeasible result.
func NewCrewSchedulingResult() *CrewSchedulingResult {
	return &CrewSchedulingResult{
		InitialCrewCount: make(map[string]int64),
	}
}

// CrewAt returns the crew required at an airport, 0 when the airport has
// no injection requirement (or the result is infeasible).
func (r *CrewSchedulingResult) CrewAt(airport string) int64 {
	return r.InitialCrewCount[airport]
}
