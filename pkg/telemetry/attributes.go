package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Стандартные ключи атрибутов
const (
	// Граф
	AttrGraphNodes    = "graph.nodes"
	AttrGraphEdges    = "graph.edges"
	AttrGraphSourceID = "graph.source_id"
	AttrGraphSinkID   = "graph.sink_id"

	// Алгоритм
	AttrAlgorithm  = "algorithm.name"
	AttrIterations = "algorithm.iterations"
	AttrMaxFlow    = "algorithm.max_flow"

	// Экземпляр
	AttrInstanceName     = "instance.name"
	AttrInstanceAirports = "instance.airports"
	AttrInstanceFlights  = "instance.flights"

	// Расписание
	AttrScheduleFeasible  = "schedule.feasible"
	AttrScheduleTotalCrew = "schedule.total_crew"
	AttrScheduleDemand    = "schedule.total_demand"
)

// GraphAttributes возвращает атрибуты графа
func GraphAttributes(nodes, edges int, sourceID, sinkID int64) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int(AttrGraphNodes, nodes),
		attribute.Int(AttrGraphEdges, edges),
		attribute.Int64(AttrGraphSourceID, sourceID),
		attribute.Int64(AttrGraphSinkID, sinkID),
	}
}

// AlgorithmAttributes возвращает атрибуты алгоритма
func AlgorithmAttributes(name string, iterations int, maxFlow int64) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrAlgorithm, name),
		attribute.Int(AttrIterations, iterations),
		attribute.Int64(AttrMaxFlow, maxFlow),
	}
}

// InstanceAttributes возвращает атрибуты экземпляра задачи
func InstanceAttributes(name string, airports, flights int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrInstanceName, name),
		attribute.Int(AttrInstanceAirports, airports),
		attribute.Int(AttrInstanceFlights, flights),
	}
}

// ScheduleAttributes возвращает атрибуты результата планирования
func ScheduleAttributes(feasible bool, totalCrew, totalDemand int64) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Bool(AttrScheduleFeasible, feasible),
		attribute.Int64(AttrScheduleTotalCrew, totalCrew),
		attribute.Int64(AttrScheduleDemand, totalDemand),
	}
}
