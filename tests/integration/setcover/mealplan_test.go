package setcover_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crewsched/pkg/apperror"
	setcoversvc "crewsched/services/setcover-svc"
	"crewsched/tests/integration/testutil"
)

// TestMealPlan_FileToSolution: полный путь CSV-файл -> парсер -> жадный выбор.
func TestMealPlan_FileToSolution(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, "setcover_basic.csv", strings.Join([]string{
		"#UNIVERSE,protein;fiber;iron;calcium",
		"#MAX_CALORIES,500",
		"oats,150,fiber;iron",
		"milk,120,protein;calcium",
		"steak,400,protein;iron",
	}, "\n"))

	inst, err := setcoversvc.ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, "setcover_basic.csv", inst.Name)
	assert.Len(t, inst.Universe, 4)
	assert.Len(t, inst.Foods, 3)

	result, err := setcoversvc.SolveMealPlan(inst)
	require.NoError(t, err)

	// oats и milk покрывают всё за 270 калорий
	require.True(t, result.FullCoverage)
	assert.Len(t, result.SelectedFoods, 2)
	assert.InDelta(t, 270.0, result.TotalCalories, 1e-9)
	assert.Len(t, result.CoveredNutrients, 4)
}

// TestMealPlan_PartialCoverage: при жёстком лимите калорий частичное
// покрытие — валидный результат, а не ошибка.
func TestMealPlan_PartialCoverage(t *testing.T) {
	input := strings.Join([]string{
		"#UNIVERSE,protein;fiber;iron",
		"#MAX_CALORIES,100",
		"oats,80,fiber",
		"steak,400,protein;iron",
	}, "\n")

	inst, err := setcoversvc.ParseInstance(strings.NewReader(input), "partial")
	require.NoError(t, err)

	result, err := setcoversvc.SolveMealPlan(inst)
	require.NoError(t, err)

	assert.False(t, result.FullCoverage)
	assert.Len(t, result.SelectedFoods, 1)
	assert.Equal(t, "oats", result.SelectedFoods[0].Name)
	assert.InDelta(t, 80.0, result.TotalCalories, 1e-9)
}

// TestMealPlan_BudgetRespected: суммарные калории никогда не превышают лимит.
func TestMealPlan_BudgetRespected(t *testing.T) {
	input := strings.Join([]string{
		"#UNIVERSE,a;b;c;d;e",
		"#MAX_CALORIES,300",
		"x,100,a;b",
		"y,150,c",
		"z,120,d;e",
	}, "\n")

	inst, err := setcoversvc.ParseInstance(strings.NewReader(input), "budget")
	require.NoError(t, err)

	result, err := setcoversvc.SolveMealPlan(inst)
	require.NoError(t, err)

	assert.LessOrEqual(t, result.TotalCalories, inst.MaxCalories)
}

// TestMealPlan_MalformedFiles: битые файлы дают кодированные ошибки.
func TestMealPlan_MalformedFiles(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantCode apperror.ErrorCode
	}{
		{
			name:     "missing universe",
			content:  "#MAX_CALORIES,500\noats,150,fiber",
			wantCode: apperror.CodeInvalidUniverse,
		},
		{
			name:     "missing calorie limit",
			content:  "#UNIVERSE,fiber\noats,150,fiber",
			wantCode: apperror.CodeInvalidCalorieLimit,
		},
		{
			name:     "unknown nutrient",
			content:  "#UNIVERSE,fiber\n#MAX_CALORIES,500\noats,150,zinc",
			wantCode: apperror.CodeUnknownNutrient,
		},
		{
			name:     "negative calories",
			content:  "#UNIVERSE,fiber\n#MAX_CALORIES,500\noats,-10,fiber",
			wantCode: apperror.CodeInvalidFoodItem,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := setcoversvc.ParseInstance(strings.NewReader(tt.content), tt.name)
			require.Error(t, err)
			assert.True(t, apperror.IsCode(err, tt.wantCode),
				"got %v, want code %s", err, tt.wantCode)
		})
	}
}
