// Package network builds the time-expanded flow network for a crew
// scheduling instance.
//
// Each flight requires exactly one crew (lower bound = upper bound = 1).
// Flight edges are never materialized: the lower-bound reduction turns each
// flight into a pair of demand deltas — the departure event must emit one
// unit, the arrival event must absorb one. Crew movement between events of
// the same airport happens over waiting edges; fresh crew enters through a
// per-airport injection node fed by the super-source.
//
// The instance is feasible iff the max flow from super-source to super-sink
// saturates every demand edge, i.e. equals the total positive demand.
package network

import (
	"sort"

	"crewsched/pkg/domain"
	"crewsched/services/scheduler-svc/internal/graph"
)

// =============================================================================
// Crew Network
// =============================================================================

// CrewNetwork is the built time-expanded network, ready for max-flow.
//
// Node ID layout:
//   - event nodes:     0 .. NumEventNodes-1, assigned per sorted (airport, time)
//   - injection nodes: NumEventNodes .. NumEventNodes+NumAirports-1
//   - super-source:    domain.SuperSourceID (-1)
//   - super-sink:      domain.SuperSinkID  (-2)
//
// The layout is fully determined by the instance, so two builds of the same
// instance produce identical graphs.
type CrewNetwork struct {
	// Graph is the residual graph; owned by the solve call that built it.
	Graph *graph.ResidualGraph

	// SourceID and SinkID are the virtual endpoints of the flow computation.
	SourceID int64
	SinkID   int64

	// TotalDemand is the sum of positive demands. The instance is feasible
	// iff the achieved max flow equals this value.
	TotalDemand int64

	// Injections maps each airport to its injection edge endpoints. Airports
	// with no flight events have no injection edge and are absent here.
	Injections map[string]InjectionEdge

	// NumEventNodes is the number of distinct (airport, time) event nodes.
	NumEventNodes int

	// NumAirports is the size of the declared airport set.
	NumAirports int
}

// InjectionEdge identifies the edge whose flow equals the crew that must be
// pre-stationed at an airport.
type InjectionEdge struct {
	// NodeID is the airport's injection node.
	NodeID int64

	// FirstEventID is the airport's earliest event node, the edge target.
	FirstEventID int64
}

// EdgeCount returns the number of forward edges in the built graph.
func (n *CrewNetwork) EdgeCount() int {
	return n.Graph.EdgeCount()
}

// NodeCount returns the number of nodes including the virtual endpoints.
func (n *CrewNetwork) NodeCount() int {
	return n.Graph.NodeCount()
}

// Release returns the network's graph to the pool.
//
// Call it once the solve result has been extracted; the network must not be
// used afterwards. Safe to call on an already released network.
func (n *CrewNetwork) Release() {
	if n == nil || n.Graph == nil {
		return
	}
	graph.GetPool().ReleaseGraph(n.Graph)
	n.Graph = nil
}

// =============================================================================
// Builder
// =============================================================================

// Build constructs the time-expanded network for a validated instance.
//
// The caller owns the returned network and releases it with Release() after
// extracting the result; the underlying graph comes from the shared pool.
// Build assumes the parser has already verified that every flight endpoint
// is in the declared airport set and that departure precedes arrival.
func Build(inst *domain.Instance) *CrewNetwork {
	g := graph.GetPool().AcquireGraph()

	net := &CrewNetwork{
		Graph:       g,
		SourceID:    domain.SuperSourceID,
		SinkID:      domain.SuperSinkID,
		Injections:  make(map[string]InjectionEdge, len(inst.Airports)),
		NumAirports: len(inst.Airports),
	}

	g.AddNode(net.SourceID)
	g.AddNode(net.SinkID)

	// Event times per airport, from flight endpoints only. Airports the
	// schedule never touches get no events.
	eventTimes := collectEventTimes(inst)

	// Assign event node IDs in sorted (airport, time) order so the layout
	// is independent of map iteration.
	airports := inst.SortedAirports()
	eventID := make(map[string]map[int64]int64, len(eventTimes))

	var nextID int64
	for _, airport := range airports {
		times := eventTimes[airport]
		if len(times) == 0 {
			continue
		}
		ids := make(map[int64]int64, len(times))
		for _, t := range times {
			g.AddNode(nextID)
			ids[t] = nextID
			nextID++
		}
		eventID[airport] = ids
	}
	net.NumEventNodes = int(nextID)

	// Waiting edges: a crew that lands can sit idle until any later event
	// at the same airport. Capacity is the flight count, which bounds any
	// feasible flow and is therefore effectively unbounded.
	waitingCap := int64(len(inst.Flights))
	for _, airport := range airports {
		times := eventTimes[airport]
		for i := 0; i+1 < len(times); i++ {
			from := eventID[airport][times[i]]
			to := eventID[airport][times[i+1]]
			g.AddEdgeWithReverse(from, to, waitingCap)
		}
	}

	// Injection nodes: one per airport, fed by the super-source with the
	// same generous capacity. Fresh crew enters at the airport's earliest
	// event; an airport with no events needs no crew.
	for i, airport := range airports {
		injID := nextID + int64(i)
		g.AddNode(injID)
		g.AddEdgeWithReverse(net.SourceID, injID, waitingCap)

		times := eventTimes[airport]
		if len(times) == 0 {
			continue
		}
		first := eventID[airport][times[0]]
		g.AddEdgeWithReverse(injID, first, waitingCap)
		net.Injections[airport] = InjectionEdge{
			NodeID:       injID,
			FirstEventID: first,
		}
	}

	// Lower-bound reduction: each flight's unit requirement becomes a -1
	// delta at the departure event and a +1 delta at the arrival event.
	// The deltas always sum to zero over the whole network.
	demand := make(map[int64]int64, net.NumEventNodes)
	for _, f := range inst.Flights {
		demand[eventID[f.DepartureAirport][f.DepartureTime]]--
		demand[eventID[f.ArrivalAirport][f.ArrivalTime]]++
	}

	// Demand edges: net consumers pull from the super-source, net suppliers
	// push into the super-sink. Iterate event nodes in ID order for a
	// deterministic edge list.
	for node := int64(0); node < nextID; node++ {
		d := demand[node]
		switch {
		case d > 0:
			g.AddEdgeWithReverse(net.SourceID, node, d)
			net.TotalDemand += d
		case d < 0:
			g.AddEdgeWithReverse(node, net.SinkID, -d)
		}
	}

	return net
}

// collectEventTimes returns the sorted distinct event times per airport.
func collectEventTimes(inst *domain.Instance) map[string][]int64 {
	seen := make(map[string]map[int64]bool, len(inst.Airports))
	add := func(airport string, t int64) {
		if seen[airport] == nil {
			seen[airport] = make(map[int64]bool)
		}
		seen[airport][t] = true
	}

	for _, f := range inst.Flights {
		add(f.DepartureAirport, f.DepartureTime)
		add(f.ArrivalAirport, f.ArrivalTime)
	}

	times := make(map[string][]int64, len(seen))
	for airport, set := range seen {
		list := make([]int64, 0, len(set))
		for t := range set {
			list = append(list, t)
		}
		sort.Slice(list, func(i, j int) bool { return list[i] < list[j] })
		times[airport] = list
	}
	return times
}
