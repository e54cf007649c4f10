// Package domain contains the shared value types of the crew scheduling
// system: flights, scheduling instances, solve results and the integer
// flow constants used by the graph layer.
package domain

import (
	"fmt"
	"sort"
)

// Flight is a single scheduled flight between two airports.
// Times are integers on a shared global clock; all fields are immutable
// once parsed.
type Flight struct {
	DepartureAirport string
	ArrivalAirport   string
	DepartureTime    int64
	ArrivalTime      int64
}

// String returns a compact human-readable representation,
// e.g. "JFK@100 -> LAX@400".
func (f Flight) String() string {
	return fmt.Sprintf("%s@%d -> %s@%d",
		f.DepartureAirport, f.DepartureTime, f.ArrivalAirport, f.ArrivalTime)
}

// Duration returns the scheduled flight time.
func (f Flight) Duration() int64 {
	return f.ArrivalTime - f.DepartureTime
}

// Instance is a validated crew scheduling problem: a declared airport set
// and the flights between them. The parser guarantees that every flight
// endpoint is in Airports and that departure precedes arrival.
type Instance struct {
	// Name identifies the instance (usually the source filename).
	Name string

	// Airports is the declared airport token set.
	Airports map[string]bool

	// Flights is the schedule. Duplicate flights are allowed; each
	// occurrence requires its own crew.
	Flights []Flight
}

// SortedAirports returns the airport tokens in lexicographic order.
// Всегда используется для детерминированного обхода.
func (in *Instance) SortedAirports() []string {
	airports := make([]string, 0, len(in.Airports))
	for a := range in.Airports {
		airports = append(airports, a)
	}
	sort.Strings(airports)
	return airports
}

// NumAirports returns the size of the declared airport set.
func (in *Instance) NumAirports() int {
	return len(in.Airports)
}

// NumFlights returns the number of scheduled flights.
func (in *Instance) NumFlights() int {
	return len(in.Flights)
}
