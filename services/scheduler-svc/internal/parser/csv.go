// Package parser reads crew scheduling instances from their CSV form.
//
// Format:
//
//	#AIRPORTS,JFK;LAX;ORD
//	JFK,LAX,100,400
//	LAX,ORD,500,700
//
// The header declares the airport set; every following non-comment line is
// one flight. The parser is the validation boundary: the network builder
// assumes well-formed instances, so everything suspicious is rejected here
// with a coded error rather than passed through.
package parser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"crewsched/pkg/apperror"
	"crewsched/pkg/domain"
)

const airportsPrefix = "#AIRPORTS,"

// ParseFile reads an instance from a CSV file. The instance name is the
// file's base name.
func ParseFile(path string) (*domain.Instance, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperror.Wrap(apperror.CodeIO, fmt.Sprintf("open instance file %s", path), err)
	}
	defer f.Close()

	return ParseInstance(f, filepath.Base(path))
}

// ParseInstance reads an instance from r.
//
// The #AIRPORTS header must appear before any flight line. Blank lines and
// other #-comments are skipped. Any malformed flight line aborts the parse.
func ParseInstance(r io.Reader, name string) (*domain.Instance, error) {
	inst := &domain.Instance{Name: name}

	scanner := bufio.NewScanner(r)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" {
			continue
		}

		if strings.HasPrefix(line, airportsPrefix) {
			airports, err := ParseAirports(line)
			if err != nil {
				return nil, err
			}
			inst.Airports = airports
			continue
		}
		if strings.HasPrefix(line, "#") {
			// Comment line
			continue
		}

		if inst.Airports == nil {
			return nil, apperror.New(apperror.CodeInvalidAirportsHeader,
				"flight line before #AIRPORTS header").
				WithDetail("line", lineNum)
		}

		flight, err := ParseFlight(line, inst.Airports)
		if err != nil {
			var appErr *apperror.Error
			if errors.As(err, &appErr) {
				return nil, appErr.WithDetail("line", lineNum)
			}
			return nil, apperror.Wrap(apperror.CodeInvalidFlight, "parse flight", err)
		}
		inst.Flights = append(inst.Flights, flight)
	}
	if err := scanner.Err(); err != nil {
		return nil, apperror.Wrap(apperror.CodeIO, "read instance", err)
	}

	if inst.Airports == nil {
		return nil, apperror.New(apperror.CodeInvalidAirportsHeader, "missing #AIRPORTS header")
	}
	if len(inst.Airports) == 0 {
		return nil, apperror.New(apperror.CodeEmptyInstance, "airport set is empty")
	}

	return inst, nil
}

// ParseAirports parses the "#AIRPORTS,a;b;c" header line into the airport set.
func ParseAirports(line string) (map[string]bool, error) {
	if !strings.HasPrefix(line, airportsPrefix) {
		return nil, apperror.Newf(apperror.CodeInvalidAirportsHeader,
			"invalid airports line: %s", line)
	}

	airports := make(map[string]bool)
	for _, token := range strings.Split(line[len(airportsPrefix):], ";") {
		token = strings.TrimSpace(token)
		if token != "" {
			airports[token] = true
		}
	}
	return airports, nil
}

// ParseFlight parses one "dep,arr,depTime,arrTime" line and validates it
// against the declared airport set.
//
// Flights whose arrival does not come strictly after departure are rejected:
// a backwards flight would produce negative waiting and an undefined network,
// so the policy is to fail the whole instance rather than clamp or skip.
func ParseFlight(line string, airports map[string]bool) (domain.Flight, error) {
	parts := strings.Split(line, ",")
	if len(parts) < 4 {
		return domain.Flight{}, apperror.Newf(apperror.CodeInvalidFlight,
			"invalid flight line: %s", line)
	}

	dep := strings.TrimSpace(parts[0])
	arr := strings.TrimSpace(parts[1])

	if !airports[dep] {
		return domain.Flight{}, apperror.Newf(apperror.CodeUnknownAirport,
			"departure airport %q is not in the declared set", dep).
			WithField("departure_airport")
	}
	if !airports[arr] {
		return domain.Flight{}, apperror.Newf(apperror.CodeUnknownAirport,
			"arrival airport %q is not in the declared set", arr).
			WithField("arrival_airport")
	}

	depTime, err := strconv.ParseInt(strings.TrimSpace(parts[2]), 10, 64)
	if err != nil {
		return domain.Flight{}, apperror.Wrap(apperror.CodeInvalidTime,
			fmt.Sprintf("invalid departure time %q", parts[2]), err).
			WithField("departure_time")
	}
	arrTime, err := strconv.ParseInt(strings.TrimSpace(parts[3]), 10, 64)
	if err != nil {
		return domain.Flight{}, apperror.Wrap(apperror.CodeInvalidTime,
			fmt.Sprintf("invalid arrival time %q", parts[3]), err).
			WithField("arrival_time")
	}

	if arrTime <= depTime {
		return domain.Flight{}, apperror.Newf(apperror.CodeInvalidFlight,
			"arrival time %d is not after departure time %d", arrTime, depTime)
	}

	return domain.Flight{
		DepartureAirport: dep,
		ArrivalAirport:   arr,
		DepartureTime:    depTime,
		ArrivalTime:      arrTime,
	}, nil
}
