package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mcoot/colormatch/internal/model"
)

// Rules holds the tunable game rules.
// Zero values are replaced by the defaults when loaded from a file.
type Rules struct {
	GridSize         int                          `yaml:"grid_size"`
	ColorCount       int                          `yaml:"color_count"`
	MinMatchSize     int                          `yaml:"min_match_size"`
	MoveLimit        int                          `yaml:"move_limit"`
	GoalPercentage   int                          `yaml:"goal_percentage"`
	LevelScoreStep   int                          `yaml:"level_score_step"`
	BasePoints       int                          `yaml:"base_points"`
	StarBonusMin     int                          `yaml:"star_bonus_min"`
	StarBonusRange   int                          `yaml:"star_bonus_range"`
	MaxResolvePasses int                          `yaml:"max_resolve_passes"`
	InitialBoosters  map[model.BoosterKind]int    `yaml:"initial_boosters"`
	ContinueMoves    map[model.ContinueReason]int `yaml:"continue_moves"`
}

// DefaultRules returns the standard rule set
func DefaultRules() Rules {
	return Rules{
		GridSize:         8,
		ColorCount:       5,
		MinMatchSize:     3,
		MoveLimit:        15,
		GoalPercentage:   66,
		LevelScoreStep:   1000,
		BasePoints:       100,
		StarBonusMin:     500,
		StarBonusRange:   1000,
		MaxResolvePasses: 1000,
		InitialBoosters: map[model.BoosterKind]int{
			model.BoosterLightning: 2,
			model.BoosterHammer:    1,
			model.BoosterTarget:    3,
			model.BoosterStar:      0,
			model.BoosterBomb:      1,
		},
		ContinueMoves: map[model.ContinueReason]int{
			model.ContinueAd:    5,
			model.ContinueShare: 3,
		},
	}
}

// Boosters returns a fresh inventory holding the initial charges
func (r Rules) Boosters() model.BoosterInventory {
	inv := make(model.BoosterInventory, len(model.AllBoosterKinds()))
	for _, kind := range model.AllBoosterKinds() {
		inv[kind] = r.InitialBoosters[kind]
	}
	return inv
}

// LoadRules reads and validates a rules file
func LoadRules(path string) (*Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file %s: %w", path, err)
	}
	return ParseRules(data)
}

// ParseRules decodes YAML rules, fills defaults and validates the result
func ParseRules(data []byte) (*Rules, error) {
	var rules Rules
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("failed to parse rules YAML: %w", err)
	}

	applyDefaults(&rules)

	if err := validate(&rules); err != nil {
		return nil, fmt.Errorf("invalid rules: %w", err)
	}
	return &rules, nil
}

func applyDefaults(rules *Rules) {
	defaults := DefaultRules()

	setDefault(&rules.GridSize, defaults.GridSize)
	setDefault(&rules.ColorCount, defaults.ColorCount)
	setDefault(&rules.MinMatchSize, defaults.MinMatchSize)
	setDefault(&rules.MoveLimit, defaults.MoveLimit)
	setDefault(&rules.GoalPercentage, defaults.GoalPercentage)
	setDefault(&rules.LevelScoreStep, defaults.LevelScoreStep)
	setDefault(&rules.BasePoints, defaults.BasePoints)
	setDefault(&rules.StarBonusMin, defaults.StarBonusMin)
	setDefault(&rules.StarBonusRange, defaults.StarBonusRange)
	setDefault(&rules.MaxResolvePasses, defaults.MaxResolvePasses)

	// An explicit map keeps its zeroes; a missing one takes every default
	if rules.InitialBoosters == nil {
		rules.InitialBoosters = defaults.InitialBoosters
	}
	if rules.ContinueMoves == nil {
		rules.ContinueMoves = defaults.ContinueMoves
	}
}

func setDefault(field *int, value int) {
	if *field == 0 {
		*field = value
	}
}

func validate(rules *Rules) error {
	if rules.MinMatchSize < 2 {
		return fmt.Errorf("min_match_size must be at least 2, got %d", rules.MinMatchSize)
	}
	if rules.GridSize < rules.MinMatchSize {
		return fmt.Errorf("grid_size must be at least min_match_size (%d), got %d", rules.MinMatchSize, rules.GridSize)
	}
	// Two colors cannot fill a grid without runs of three in most layouts
	if rules.ColorCount < 3 {
		return fmt.Errorf("color_count must be at least 3, got %d", rules.ColorCount)
	}
	if rules.MoveLimit < 1 {
		return fmt.Errorf("move_limit must be positive, got %d", rules.MoveLimit)
	}
	if rules.GoalPercentage < 1 || rules.GoalPercentage > 100 {
		return fmt.Errorf("goal_percentage must be between 1 and 100, got %d", rules.GoalPercentage)
	}
	if rules.LevelScoreStep < 1 || rules.BasePoints < 1 {
		return fmt.Errorf("level_score_step and base_points must be positive")
	}
	if rules.StarBonusMin < 0 || rules.StarBonusRange < 1 {
		return fmt.Errorf("star bonus range must be non-empty, got min %d range %d", rules.StarBonusMin, rules.StarBonusRange)
	}
	for kind, count := range rules.InitialBoosters {
		if _, err := model.ParseBoosterKind(string(kind)); err != nil {
			return fmt.Errorf("initial_boosters: %q: %w", kind, err)
		}
		if count < 0 {
			return fmt.Errorf("initial_boosters: %s cannot be negative, got %d", kind, count)
		}
	}
	for reason, moves := range rules.ContinueMoves {
		if reason != model.ContinueAd && reason != model.ContinueShare {
			return fmt.Errorf("continue_moves: %q: %w", reason, model.ErrInvalidContinue)
		}
		if moves < 1 {
			return fmt.Errorf("continue_moves: %s must be positive, got %d", reason, moves)
		}
	}
	return nil
}
