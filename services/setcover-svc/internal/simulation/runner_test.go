package simulation

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crewsched/pkg/apperror"
	"crewsched/pkg/config"
)

func writeTestFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func setupDataDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	writeTestFile(t, dir, "setcover_b.csv",
		"#UNIVERSE,a;b;c\n#MAX_CALORIES,1000\nx,100,a;b\ny,100,c\n")
	writeTestFile(t, dir, "setcover_a.csv",
		"#UNIVERSE,p;q\n#MAX_CALORIES,300\nfull,200,p;q\n")
	// Битый файл пропускается с warning
	writeTestFile(t, dir, "setcover_broken.csv",
		"x,100,a\n")
	// Не подходит под шаблон имени
	writeTestFile(t, dir, "other.csv",
		"#UNIVERSE,a\n#MAX_CALORIES,100\nx,50,a\n")

	return dir
}

func TestRunner_Run(t *testing.T) {
	dir := setupDataDir(t)

	runner := NewRunner(config.SimulationConfig{
		DataDir:    dir,
		Iterations: 2,
	})

	rows, err := runner.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, rows, 2)
	assert.Equal(t, "setcover_a.csv", rows[0].Filename)
	assert.Equal(t, "setcover_b.csv", rows[1].Filename)

	assert.Equal(t, 1, rows[0].NumFoods)
	assert.Equal(t, 2, rows[0].NumNutrients)
	assert.Equal(t, 1, rows[0].SetsSelected)
	assert.Equal(t, 200.0, rows[0].TotalCalories)
	assert.True(t, rows[0].CoverageComplete)

	assert.Equal(t, 2, rows[1].SetsSelected)
	assert.Equal(t, 200.0, rows[1].TotalCalories)
	assert.True(t, rows[1].CoverageComplete)
}

func TestRunner_Run_NoFiles(t *testing.T) {
	runner := NewRunner(config.SimulationConfig{DataDir: t.TempDir()})

	_, err := runner.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperror.CodeNotFound, apperror.CodeOf(err))
}

func TestRunner_Run_Canceled(t *testing.T) {
	dir := setupDataDir(t)
	runner := NewRunner(config.SimulationConfig{DataDir: dir})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runner.Run(ctx)
	require.Error(t, err)
	assert.Equal(t, apperror.CodeTimeout, apperror.CodeOf(err))
}

func TestRunner_RunAndWrite(t *testing.T) {
	dataDir := setupDataDir(t)
	resultsDir := filepath.Join(t.TempDir(), "results")

	runner := NewRunner(config.SimulationConfig{
		DataDir:    dataDir,
		ResultsDir: resultsDir,
		Iterations: 1,
	})

	path, err := runner.RunAndWrite(context.Background())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(resultsDir, "setcover_results.csv"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	wantHeader := "filename,num_foods,num_nutrients,avg_runtime_ms,sets_selected,total_calories,coverage_complete"
	assert.Equal(t, wantHeader, strings.Join(records[0], ","))

	first := records[1]
	assert.Equal(t, "setcover_a.csv", first[0])
	assert.Equal(t, "200.00", first[5])
	assert.Equal(t, "true", first[6])
}

func TestRunner_WriteResults_Formatting(t *testing.T) {
	runner := NewRunner(config.SimulationConfig{ResultsDir: t.TempDir()})

	path, err := runner.WriteResults([]InstanceRow{
		{
			Filename:         "setcover_x.csv",
			NumFoods:         10,
			NumNutrients:     5,
			AvgRuntimeMs:     0.125,
			SetsSelected:     3,
			TotalCalories:    512.5,
			CoverageComplete: false,
		},
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Contains(t, string(data), "setcover_x.csv,10,5,0.1250,3,512.50,false")
}
