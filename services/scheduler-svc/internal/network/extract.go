package network

import (
	"crewsched/pkg/domain"
)

// Feasible reports whether the achieved max flow covers every flight's
// unit crew requirement.
func (n *CrewNetwork) Feasible(maxFlow int64) bool {
	return maxFlow == n.TotalDemand
}

// ExtractResult reads the crew assignment out of the solved network.
//
// Each airport's required initial crew is the flow carried on its injection
// edge. Airports without an injection edge (no flight events) and airports
// whose demand was covered entirely by arriving crew report zero.
//
// When the instance is infeasible no crew counts are reported: the result
// carries only the feasibility flag and the raw flow value. Callers must
// branch on Feasible rather than trust the counts.
func (n *CrewNetwork) ExtractResult(inst *domain.Instance, maxFlow int64, iterations int) *domain.CrewSchedulingResult {
	result := &domain.CrewSchedulingResult{
		Feasible:     n.Feasible(maxFlow),
		MaxFlowValue: maxFlow,
		Iterations:   iterations,
	}

	if !result.Feasible {
		return result
	}

	result.InitialCrewCount = make(map[string]int64, len(inst.Airports))
	for _, airport := range inst.SortedAirports() {
		var crew int64
		if inj, ok := n.Injections[airport]; ok {
			// Flow on the forward injection edge, not its residual capacity.
			crew = n.Graph.GetFlowOnEdge(inj.NodeID, inj.FirstEventID)
		}
		result.InitialCrewCount[airport] = crew
		result.TotalCrewRequired += crew
	}

	return result
}
