// services/setcover-svc/internal/greedy/greedy.go

// Package greedy реализует жадный набор покрытия для задачи подбора
// продуктов: покрыть вселенную нутриентов, не превышая лимит калорий.
package greedy

import (
	"crewsched/pkg/apperror"
	"crewsched/pkg/domain"
)

// Solve выбирает продукты жадно по отношению (новые нутриенты / калории).
//
// На каждом шаге кандидаты - ещё не выбранные продукты, которые влезают в
// лимит калорий и покрывают хотя бы один непокрытый нутриент. Из них берётся
// продукт с максимальным отношением; при равенстве побеждает более ранний в
// списке, поэтому результат детерминирован. Частичное покрытие - нормальный
// исход, а не ошибка: флаг FullCoverage различает случаи.
func Solve(inst *domain.SetCoverInstance) (*domain.SetCoverResult, error) {
	if inst == nil {
		return nil, apperror.New(apperror.CodeNilInput, "instance is nil")
	}
	if inst.MaxCalories < 0 {
		return nil, apperror.Newf(apperror.CodeInvalidCalorieLimit,
			"max calories must be non-negative, got %v", inst.MaxCalories)
	}

	result := domain.NewSetCoverResult()

	remaining := make(map[string]bool, len(inst.Universe))
	for n := range inst.Universe {
		remaining[n] = true
	}

	selected := make(map[int]bool)

	for len(remaining) > 0 {
		bestIndex := -1
		bestRatio := -1.0

		for i, food := range inst.Foods {
			if selected[i] {
				continue
			}
			if result.TotalCalories+food.Calories > inst.MaxCalories {
				continue
			}

			covered := food.CoversNew(remaining)
			if covered == 0 {
				continue
			}

			ratio := float64(covered) / food.Calories
			if ratio > bestRatio {
				bestRatio = ratio
				bestIndex = i
			}
		}

		// Кандидатов нет: либо лимит исчерпан, либо остаток непокрываем
		if bestIndex == -1 {
			break
		}

		food := inst.Foods[bestIndex]
		selected[bestIndex] = true
		result.SelectedFoods = append(result.SelectedFoods, food)
		result.TotalCalories += food.Calories

		for n := range food.Nutrients {
			delete(remaining, n)
			result.CoveredNutrients[n] = true
		}
	}

	result.FullCoverage = len(remaining) == 0
	return result, nil
}
