// Package parser reads set cover instances from their CSV form.
//
// Format:
//
//	#UNIVERSE,protein;fiber;iron
//	#MAX_CALORIES,2000
//	oats,150,fiber;iron
//	eggs,140,protein
//
// Both headers must appear before any food line. Like the scheduler parser,
// this is the validation boundary: foods referencing nutrients outside the
// declared universe are rejected here instead of silently inflating coverage.
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

const (
	universePrefix    = "#UNIVERSE,"
	maxCaloriesPrefix = "#MAX_CALORIES,"
)

// ParseFile reads an instance from a CSV file. The instance name is the
// file's base name.
func ParseFile(path string) (*domain.SetCoverInstance, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperror.Wrap(apperror.CodeIO, fmt.Sprintf("open instance file %s", path), err)
	}
	defer f.Close()

	return ParseInstance(f, filepath.Base(path))
}

// ParseInstance reads an instance from r.
func ParseInstance(r io.Reader, name string) (*domain.SetCoverInstance, error) {
	inst := &domain.SetCoverInstance{Name: name}
	haveCalories := false

	scanner := bufio.NewScanner(r)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" {
			continue
		}

		switch {
		case strings.HasPrefix(line, universePrefix):
			universe, err := ParseUniverse(line)
			if err != nil {
				return nil, err
			}
			inst.Universe = universe
			continue
		case strings.HasPrefix(line, maxCaloriesPrefix):
			maxCal, err := ParseMaxCalories(line)
			if err != nil {
				return nil, err
			}
			inst.MaxCalories = maxCal
			haveCalories = true
			continue
		case strings.HasPrefix(line, "#"):
			// Comment line
			continue
		}

		if inst.Universe == nil || !haveCalories {
			return nil, apperror.New(apperror.CodeInvalidUniverse,
				"food line before #UNIVERSE and #MAX_CALORIES headers").
				WithDetail("line", lineNum)
		}

		food, err := ParseFoodItem(line, inst.Universe)
		if err != nil {
			var appErr *apperror.Error
			if errors.As(err, &appErr) {
				return nil, appErr.WithDetail("line", lineNum)
			}
			return nil, apperror.Wrap(apperror.CodeInvalidFoodItem, "parse food item", err)
		}
		inst.Foods = append(inst.Foods, food)
	}
	if err := scanner.Err(); err != nil {
		return nil, apperror.Wrap(apperror.CodeIO, "read instance", err)
	}

	if inst.Universe == nil {
		return nil, apperror.New(apperror.CodeInvalidUniverse, "missing #UNIVERSE header")
	}
	if len(inst.Universe) == 0 {
		return nil, apperror.New(apperror.CodeInvalidUniverse, "nutrient universe is empty")
	}
	if !haveCalories {
		return nil, apperror.New(apperror.CodeInvalidCalorieLimit, "missing #MAX_CALORIES header")
	}

	return inst, nil
}

// ParseUniverse parses the "#UNIVERSE,n1;n2;n3" header line.
func ParseUniverse(line string) (map[string]bool, error) {
	if !strings.HasPrefix(line, universePrefix) {
		return nil, apperror.Newf(apperror.CodeInvalidUniverse,
			"invalid universe line: %s", line)
	}

	universe := make(map[string]bool)
	for _, token := range strings.Split(line[len(universePrefix):], ";") {
		token = strings.TrimSpace(token)
		if token != "" {
			universe[token] = true
		}
	}
	return universe, nil
}

// ParseMaxCalories parses the "#MAX_CALORIES,value" header line.
func ParseMaxCalories(line string) (float64, error) {
	if !strings.HasPrefix(line, maxCaloriesPrefix) {
		return 0, apperror.Newf(apperror.CodeInvalidCalorieLimit,
			"invalid max calories line: %s", line)
	}

	value := strings.TrimSpace(line[len(maxCaloriesPrefix):])
	maxCal, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, apperror.Wrap(apperror.CodeInvalidCalorieLimit,
			fmt.Sprintf("invalid max calories %q", value), err)
	}
	if maxCal < 0 {
		return 0, apperror.Newf(apperror.CodeInvalidCalorieLimit,
			"max calories must be non-negative, got %v", maxCal)
	}

	return maxCal, nil
}

// ParseFoodItem parses one "name,calories,n1;n2;n3" line and validates its
// nutrients against the declared universe.
func ParseFoodItem(line string, universe map[string]bool) (domain.FoodItem, error) {
	parts := strings.Split(line, ",")
	if len(parts) < 3 {
		return domain.FoodItem{}, apperror.Newf(apperror.CodeInvalidFoodItem,
			"invalid food item line: %s", line)
	}

	name := strings.TrimSpace(parts[0])
	if name == "" {
		return domain.FoodItem{}, apperror.Newf(apperror.CodeInvalidFoodItem,
			"food item has no name: %s", line)
	}

	calories, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return domain.FoodItem{}, apperror.Wrap(apperror.CodeInvalidFoodItem,
			fmt.Sprintf("invalid calories %q", parts[1]), err).
			WithField("calories")
	}
	if calories < 0 {
		return domain.FoodItem{}, apperror.Newf(apperror.CodeInvalidFoodItem,
			"calories must be non-negative, got %v", calories).
			WithField("calories")
	}

	food := domain.FoodItem{
		Name:      name,
		Calories:  calories,
		Nutrients: make(map[string]bool),
	}
	for _, token := range strings.Split(parts[2], ";") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		if !universe[token] {
			return domain.FoodItem{}, apperror.Newf(apperror.CodeUnknownNutrient,
				"nutrient %q is not in the declared universe", token).
				WithField("nutrients")
		}
		food.Nutrients[token] = true
	}

	return food, nil
}
