package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crewsched/pkg/domain"
	"crewsched/services/scheduler-svc/internal/algorithms"
)

func makeInstance(airports []string, flights []domain.Flight) *domain.Instance {
	set := make(map[string]bool, len(airports))
	for _, a := range airports {
		set[a] = true
	}
	return &domain.Instance{
		Name:     "test",
		Airports: set,
		Flights:  flights,
	}
}

// solve builds the network, runs max flow and extracts the result.
func solve(t *testing.T, inst *domain.Instance) (*CrewNetwork, *domain.CrewSchedulingResult) {
	t.Helper()

	net := Build(inst)
	flow := algorithms.Dinic(net.Graph, net.SourceID, net.SinkID, algorithms.DefaultSolverOptions())
	result := net.ExtractResult(inst, flow.MaxFlow, flow.Iterations)
	return net, result
}

func TestBuild_NodeLayout(t *testing.T) {
	inst := makeInstance(
		[]string{"JFK", "LAX"},
		[]domain.Flight{
			{DepartureAirport: "JFK", ArrivalAirport: "LAX", DepartureTime: 100, ArrivalTime: 400},
		},
	)

	net := Build(inst)

	// Два событийных узла (JFK@100, LAX@400) плюс два узла инъекции
	assert.Equal(t, 2, net.NumEventNodes)
	assert.Equal(t, 2, net.NumAirports)
	assert.Equal(t, domain.SuperSourceID, net.SourceID)
	assert.Equal(t, domain.SuperSinkID, net.SinkID)

	// Event + injection + source + sink
	assert.Equal(t, 2+2+2, net.NodeCount())

	// Оба аэропорта имеют ребро инъекции
	require.Contains(t, net.Injections, "JFK")
	require.Contains(t, net.Injections, "LAX")
}

func TestBuild_DemandBalance(t *testing.T) {
	// Сумма всех demand-дельт равна нулю для любого набора рейсов,
	// поэтому ёмкость рёбер стока равна TotalDemand.
	inst := makeInstance(
		[]string{"A", "B", "C"},
		[]domain.Flight{
			{DepartureAirport: "A", ArrivalAirport: "B", DepartureTime: 0, ArrivalTime: 100},
			{DepartureAirport: "B", ArrivalAirport: "C", DepartureTime: 200, ArrivalTime: 300},
			{DepartureAirport: "A", ArrivalAirport: "C", DepartureTime: 50, ArrivalTime: 400},
			{DepartureAirport: "C", ArrivalAirport: "A", DepartureTime: 500, ArrivalTime: 600},
		},
	)

	net := Build(inst)

	var sourceDemandCap, sinkCap int64
	for _, edge := range net.Graph.GetNeighborsList(net.SourceID) {
		if edge.To < int64(net.NumEventNodes) {
			// Demand edge to an event node (injection feeds excluded)
			sourceDemandCap += edge.OriginalCapacity
		}
	}
	for node := range net.Graph.Nodes {
		if e := net.Graph.GetEdge(node, net.SinkID); e != nil && !e.IsReverse {
			sinkCap += e.OriginalCapacity
		}
	}

	assert.Equal(t, net.TotalDemand, sourceDemandCap)
	assert.Equal(t, net.TotalDemand, sinkCap)
}

func TestBuild_Deterministic(t *testing.T) {
	inst := makeInstance(
		[]string{"ORD", "JFK", "LAX"},
		[]domain.Flight{
			{DepartureAirport: "JFK", ArrivalAirport: "LAX", DepartureTime: 100, ArrivalTime: 400},
			{DepartureAirport: "LAX", ArrivalAirport: "ORD", DepartureTime: 500, ArrivalTime: 700},
		},
	)

	first := Build(inst)
	for i := 0; i < 5; i++ {
		net := Build(inst)
		assert.Equal(t, first.NumEventNodes, net.NumEventNodes)
		assert.Equal(t, first.TotalDemand, net.TotalDemand)
		assert.Equal(t, first.Injections, net.Injections)
		assert.Equal(t, first.EdgeCount(), net.EdgeCount())
	}
}

func TestSolve_ThreeAirportCycle(t *testing.T) {
	// Кольцо из трёх аэропортов. JFK отправляет два рейса до своего
	// первого прилёта и требует два экипажа; отправления LAX и ORD
	// покрываются прилетевшими экипажами.
	inst := makeInstance(
		[]string{"JFK", "LAX", "ORD"},
		[]domain.Flight{
			{DepartureAirport: "JFK", ArrivalAirport: "LAX", DepartureTime: 100, ArrivalTime: 400},
			{DepartureAirport: "LAX", ArrivalAirport: "ORD", DepartureTime: 500, ArrivalTime: 700},
			{DepartureAirport: "JFK", ArrivalAirport: "ORD", DepartureTime: 200, ArrivalTime: 500},
			{DepartureAirport: "ORD", ArrivalAirport: "JFK", DepartureTime: 800, ArrivalTime: 1000},
		},
	)

	net, result := solve(t, inst)

	require.True(t, result.Feasible)
	assert.Equal(t, net.TotalDemand, result.MaxFlowValue)
	assert.Equal(t, int64(2), result.CrewAt("JFK"))
	assert.Equal(t, int64(0), result.CrewAt("LAX"))
	assert.Equal(t, int64(0), result.CrewAt("ORD"))
	assert.Equal(t, int64(2), result.TotalCrewRequired)
}

func TestSolve_SingleFlight(t *testing.T) {
	// Один рейс без обратного: ровно один экипаж в аэропорту вылета.
	inst := makeInstance(
		[]string{"A", "B"},
		[]domain.Flight{
			{DepartureAirport: "A", ArrivalAirport: "B", DepartureTime: 100, ArrivalTime: 200},
		},
	)

	_, result := solve(t, inst)

	require.True(t, result.Feasible)
	assert.Equal(t, int64(1), result.CrewAt("A"))
	assert.Equal(t, int64(0), result.CrewAt("B"))
	assert.Equal(t, int64(1), result.TotalCrewRequired)
}

func TestSolve_TerminalAirport(t *testing.T) {
	// Аэропорт C никогда не является пунктом вылета: экипаж просто
	// накапливается там, инъекция не требуется.
	inst := makeInstance(
		[]string{"A", "B", "C"},
		[]domain.Flight{
			{DepartureAirport: "A", ArrivalAirport: "B", DepartureTime: 0, ArrivalTime: 100},
			{DepartureAirport: "B", ArrivalAirport: "C", DepartureTime: 200, ArrivalTime: 300},
		},
	)

	_, result := solve(t, inst)

	require.True(t, result.Feasible)
	assert.Equal(t, int64(1), result.CrewAt("A"))
	assert.Equal(t, int64(0), result.CrewAt("B"))
	assert.Equal(t, int64(0), result.CrewAt("C"))
	assert.Equal(t, int64(1), result.TotalCrewRequired)
}

func TestSolve_DuplicateFlights(t *testing.T) {
	// Дублирующиеся рейсы требуют по экипажу каждый.
	inst := makeInstance(
		[]string{"A", "B"},
		[]domain.Flight{
			{DepartureAirport: "A", ArrivalAirport: "B", DepartureTime: 100, ArrivalTime: 200},
			{DepartureAirport: "A", ArrivalAirport: "B", DepartureTime: 100, ArrivalTime: 200},
		},
	)

	_, result := solve(t, inst)

	require.True(t, result.Feasible)
	assert.Equal(t, int64(2), result.CrewAt("A"))
	assert.Equal(t, int64(2), result.TotalCrewRequired)
}

func TestSolve_EmptySchedule(t *testing.T) {
	// Аэропорты без рейсов: нулевой спрос, нулевой экипаж.
	inst := makeInstance([]string{"A", "B"}, nil)

	net, result := solve(t, inst)

	require.True(t, result.Feasible)
	assert.Equal(t, int64(0), net.TotalDemand)
	assert.Equal(t, int64(0), result.MaxFlowValue)
	assert.Equal(t, int64(0), result.TotalCrewRequired)
	assert.Empty(t, net.Injections)
}

func TestSolve_Idempotent(t *testing.T) {
	inst := makeInstance(
		[]string{"JFK", "LAX", "ORD"},
		[]domain.Flight{
			{DepartureAirport: "JFK", ArrivalAirport: "LAX", DepartureTime: 100, ArrivalTime: 400},
			{DepartureAirport: "LAX", ArrivalAirport: "ORD", DepartureTime: 500, ArrivalTime: 700},
			{DepartureAirport: "JFK", ArrivalAirport: "ORD", DepartureTime: 200, ArrivalTime: 500},
			{DepartureAirport: "ORD", ArrivalAirport: "JFK", DepartureTime: 800, ArrivalTime: 1000},
		},
	)

	_, first := solve(t, inst)
	for i := 0; i < 5; i++ {
		_, result := solve(t, inst)
		assert.Equal(t, first.Feasible, result.Feasible)
		assert.Equal(t, first.MaxFlowValue, result.MaxFlowValue)
		assert.Equal(t, first.TotalCrewRequired, result.TotalCrewRequired)
		assert.Equal(t, first.InitialCrewCount, result.InitialCrewCount)
	}
}

func TestSolve_FlowConservation(t *testing.T) {
	// Для каждого узла кроме истока и стока входящий поток равен исходящему.
	inst := makeInstance(
		[]string{"JFK", "LAX", "ORD"},
		[]domain.Flight{
			{DepartureAirport: "JFK", ArrivalAirport: "LAX", DepartureTime: 100, ArrivalTime: 400},
			{DepartureAirport: "LAX", ArrivalAirport: "ORD", DepartureTime: 500, ArrivalTime: 700},
			{DepartureAirport: "JFK", ArrivalAirport: "ORD", DepartureTime: 200, ArrivalTime: 500},
			{DepartureAirport: "ORD", ArrivalAirport: "JFK", DepartureTime: 800, ArrivalTime: 1000},
		},
	)

	net, result := solve(t, inst)
	require.True(t, result.Feasible)

	inflow := make(map[int64]int64)
	outflow := make(map[int64]int64)
	for from := range net.Graph.Edges {
		for _, edge := range net.Graph.GetNeighborsList(from) {
			if edge.IsReverse || edge.Flow <= 0 {
				continue
			}
			outflow[from] += edge.Flow
			inflow[edge.To] += edge.Flow
		}
	}

	for node := range net.Graph.Nodes {
		if node == net.SourceID || node == net.SinkID {
			continue
		}
		assert.Equal(t, inflow[node], outflow[node], "node %d", node)
	}
}

func TestExtractResult_Infeasible(t *testing.T) {
	inst := makeInstance(
		[]string{"A", "B"},
		[]domain.Flight{
			{DepartureAirport: "A", ArrivalAirport: "B", DepartureTime: 100, ArrivalTime: 200},
		},
	)

	net := Build(inst)

	// Поток меньше спроса: результат помечается как невыполнимый,
	// количество экипажей не сообщается.
	result := net.ExtractResult(inst, net.TotalDemand-1, 0)

	assert.False(t, result.Feasible)
	assert.Empty(t, result.InitialCrewCount)
	assert.Equal(t, int64(0), result.TotalCrewRequired)
}

func TestBuild_WaitingEdgeCapacity(t *testing.T) {
	inst := makeInstance(
		[]string{"A", "B"},
		[]domain.Flight{
			{DepartureAirport: "A", ArrivalAirport: "B", DepartureTime: 0, ArrivalTime: 100},
			{DepartureAirport: "A", ArrivalAirport: "B", DepartureTime: 50, ArrivalTime: 150},
			{DepartureAirport: "A", ArrivalAirport: "B", DepartureTime: 75, ArrivalTime: 200},
		},
	)

	net := Build(inst)

	// Рёбра ожидания имеют ёмкость, равную числу рейсов
	var found bool
	for _, edge := range net.Graph.GetAllEdges() {
		if edge.IsReverse {
			continue
		}
		if edge.OriginalCapacity == int64(len(inst.Flights)) {
			found = true
		}
	}
	assert.True(t, found)
}

func TestBuild_PooledReuse(t *testing.T) {
	// Граф сети возвращается в пул и при повторной сборке даёт тот же результат.
	inst := makeInstance(
		[]string{"JFK", "LAX", "ORD"},
		[]domain.Flight{
			{DepartureAirport: "JFK", ArrivalAirport: "LAX", DepartureTime: 100, ArrivalTime: 400},
			{DepartureAirport: "LAX", ArrivalAirport: "ORD", DepartureTime: 500, ArrivalTime: 700},
			{DepartureAirport: "ORD", ArrivalAirport: "JFK", DepartureTime: 800, ArrivalTime: 1000},
		},
	)

	net, first := solve(t, inst)
	require.True(t, first.Feasible)
	net.Release()
	assert.Nil(t, net.Graph)

	// Повторный Release безопасен
	net.Release()

	_, second := solve(t, inst)
	assert.Equal(t, first.MaxFlowValue, second.MaxFlowValue)
	assert.Equal(t, first.TotalCrewRequired, second.TotalCrewRequired)
	assert.Equal(t, first.InitialCrewCount, second.InitialCrewCount)
}

func TestBuild_AllNodesRegistered(t *testing.T) {
	inst := makeInstance(
		[]string{"A", "B"},
		[]domain.Flight{
			{DepartureAirport: "A", ArrivalAirport: "B", DepartureTime: 100, ArrivalTime: 200},
		},
	)

	net := Build(inst)

	assert.True(t, net.Graph.Nodes[net.SourceID])
	assert.True(t, net.Graph.Nodes[net.SinkID])
	for _, inj := range net.Injections {
		assert.True(t, net.Graph.Nodes[inj.NodeID])
		assert.True(t, net.Graph.Nodes[inj.FirstEventID])
	}
}
