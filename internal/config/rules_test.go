package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/colormatch/internal/model"
)

type RulesSuite struct {
	suite.Suite
}

func TestRulesSuite(t *testing.T) {
	suite.Run(t, new(RulesSuite))
}

func (s *RulesSuite) TestDefaultRulesMatchStandardGame() {
	rules := DefaultRules()

	s.Equal(8, rules.GridSize)
	s.Equal(5, rules.ColorCount)
	s.Equal(15, rules.MoveLimit)
	s.Equal(66, rules.GoalPercentage)
	s.Equal(2, rules.InitialBoosters[model.BoosterLightning])
	s.Equal(3, rules.InitialBoosters[model.BoosterTarget])
	s.Equal(0, rules.InitialBoosters[model.BoosterStar])
	s.Equal(5, rules.ContinueMoves[model.ContinueAd])
	s.Equal(3, rules.ContinueMoves[model.ContinueShare])
}

func (s *RulesSuite) TestBoostersReturnsIndependentInventory() {
	rules := DefaultRules()

	inv := rules.Boosters()
	inv[model.BoosterHammer] = 0

	s.Equal(1, rules.Boosters()[model.BoosterHammer])
	s.Len(inv, len(model.AllBoosterKinds()))
}

func (s *RulesSuite) TestParseRulesAppliesDefaults() {
	rules, err := ParseRules([]byte("grid_size: 10\nmove_limit: 20\n"))
	s.Require().NoError(err)

	s.Equal(10, rules.GridSize)
	s.Equal(20, rules.MoveLimit)
	s.Equal(5, rules.ColorCount)
	s.Equal(66, rules.GoalPercentage)
	s.Equal(DefaultRules().InitialBoosters, rules.InitialBoosters)
}

func (s *RulesSuite) TestParseRulesKeepsExplicitBoosterZeroes() {
	rules, err := ParseRules([]byte("initial_boosters:\n  hammer: 0\n  star: 4\n"))
	s.Require().NoError(err)

	inv := rules.Boosters()
	s.Equal(0, inv[model.BoosterHammer])
	s.Equal(4, inv[model.BoosterStar])
	s.Equal(0, inv[model.BoosterLightning])
}

func (s *RulesSuite) TestParseRulesRejectsInvalidValues() {
	cases := map[string]string{
		"grid smaller than match": "grid_size: 2\n",
		"too few colors":          "color_count: 2\n",
		"goal above 100":          "goal_percentage: 150\n",
		"unknown booster":         "initial_boosters:\n  rocket: 1\n",
		"negative booster":        "initial_boosters:\n  bomb: -1\n",
		"unknown continue":        "continue_moves:\n  bribe: 3\n",
		"malformed yaml":          "grid_size: [\n",
	}
	for name, doc := range cases {
		_, err := ParseRules([]byte(doc))
		s.Error(err, name)
	}
}

func (s *RulesSuite) TestLoadRulesReadsFile() {
	path := filepath.Join(s.T().TempDir(), "rules.yaml")
	s.Require().NoError(os.WriteFile(path, []byte("color_count: 6\n"), 0o600))

	rules, err := LoadRules(path)
	s.Require().NoError(err)
	s.Equal(6, rules.ColorCount)
}

func (s *RulesSuite) TestLoadRulesMissingFile() {
	_, err := LoadRules(filepath.Join(s.T().TempDir(), "missing.yaml"))
	s.Error(err)
}
