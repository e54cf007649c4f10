package parser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crewsched/pkg/apperror"
	"crewsched/pkg/domain"
)

func TestParseInstance(t *testing.T) {
	input := `#AIRPORTS,JFK;LAX;ORD
JFK,LAX,100,400
LAX,ORD,500,700

# комментарий игнорируется
JFK,ORD,200,500
`

	inst, err := ParseInstance(strings.NewReader(input), "test.csv")
	require.NoError(t, err)

	assert.Equal(t, "test.csv", inst.Name)
	assert.Equal(t, 3, inst.NumAirports())
	assert.Equal(t, 3, inst.NumFlights())
	assert.True(t, inst.Airports["JFK"])
	assert.Equal(t, domain.Flight{
		DepartureAirport: "JFK",
		ArrivalAirport:   "LAX",
		DepartureTime:    100,
		ArrivalTime:      400,
	}, inst.Flights[0])
}

func TestParseInstance_Errors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantCode apperror.ErrorCode
	}{
		{
			name:     "missing_header",
			input:    "",
			wantCode: apperror.CodeInvalidAirportsHeader,
		},
		{
			name:     "flight_before_header",
			input:    "JFK,LAX,100,400\n#AIRPORTS,JFK;LAX\n",
			wantCode: apperror.CodeInvalidAirportsHeader,
		},
		{
			name:     "empty_airport_set",
			input:    "#AIRPORTS,;;\n",
			wantCode: apperror.CodeEmptyInstance,
		},
		{
			name:     "unknown_departure_airport",
			input:    "#AIRPORTS,JFK;LAX\nSFO,LAX,100,400\n",
			wantCode: apperror.CodeUnknownAirport,
		},
		{
			name:     "unknown_arrival_airport",
			input:    "#AIRPORTS,JFK;LAX\nJFK,SFO,100,400\n",
			wantCode: apperror.CodeUnknownAirport,
		},
		{
			name:     "too_few_fields",
			input:    "#AIRPORTS,JFK;LAX\nJFK,LAX,100\n",
			wantCode: apperror.CodeInvalidFlight,
		},
		{
			name:     "non_numeric_departure_time",
			input:    "#AIRPORTS,JFK;LAX\nJFK,LAX,abc,400\n",
			wantCode: apperror.CodeInvalidTime,
		},
		{
			name:     "non_numeric_arrival_time",
			input:    "#AIRPORTS,JFK;LAX\nJFK,LAX,100,abc\n",
			wantCode: apperror.CodeInvalidTime,
		},
		{
			name:     "arrival_before_departure",
			input:    "#AIRPORTS,JFK;LAX\nJFK,LAX,400,100\n",
			wantCode: apperror.CodeInvalidFlight,
		},
		{
			name:     "arrival_equals_departure",
			input:    "#AIRPORTS,JFK;LAX\nJFK,LAX,100,100\n",
			wantCode: apperror.CodeInvalidFlight,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseInstance(strings.NewReader(tt.input), "bad.csv")
			require.Error(t, err)
			assert.True(t, apperror.IsCode(err, tt.wantCode),
				"want code %s, got %s", tt.wantCode, apperror.CodeOf(err))
		})
	}
}

func TestParseInstance_WhitespaceTolerant(t *testing.T) {
	input := "#AIRPORTS, JFK ; LAX \n JFK , LAX , 100 , 400 \n"

	inst, err := ParseInstance(strings.NewReader(input), "ws.csv")
	require.NoError(t, err)

	assert.True(t, inst.Airports["JFK"])
	assert.True(t, inst.Airports["LAX"])
	require.Len(t, inst.Flights, 1)
	assert.Equal(t, "JFK", inst.Flights[0].DepartureAirport)
}

func TestParseInstance_NoFlights(t *testing.T) {
	// Пустое расписание допустимо: нулевой спрос, нулевой экипаж
	inst, err := ParseInstance(strings.NewReader("#AIRPORTS,JFK;LAX\n"), "empty.csv")
	require.NoError(t, err)

	assert.Equal(t, 2, inst.NumAirports())
	assert.Equal(t, 0, inst.NumFlights())
}

func TestParseAirports(t *testing.T) {
	airports, err := ParseAirports("#AIRPORTS,JFK;LAX;ORD")
	require.NoError(t, err)
	assert.Len(t, airports, 3)

	_, err = ParseAirports("AIRPORTS,JFK")
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeInvalidAirportsHeader))
}

func TestParseFlight_LineNumberInDetails(t *testing.T) {
	input := "#AIRPORTS,JFK;LAX\nJFK,LAX,100,400\nJFK,SFO,500,600\n"

	_, err := ParseInstance(strings.NewReader(input), "details.csv")
	require.Error(t, err)

	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 3, appErr.Details["line"])
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "crewscheduling_small.csv")
	content := "#AIRPORTS,A;B\nA,B,0,100\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	inst, err := ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, "crewscheduling_small.csv", inst.Name)
	assert.Equal(t, 1, inst.NumFlights())
}

func TestParseFile_NotFound(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeIO))
}
