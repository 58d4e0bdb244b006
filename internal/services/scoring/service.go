package scoring

import (
	"github.com/mcoot/colormatch/internal/config"
	"github.com/mcoot/colormatch/internal/model"
)

// Config holds the constants of the scoring formula
type Config struct {
	BasePoints     int // Points for a group of exactly MinMatchSize tiles
	MinMatchSize   int
	LevelScoreStep int // Level N goal is N * LevelScoreStep points
	GoalPercentage int // Progress needed to complete a level
}

// DefaultConfig returns the standard scoring constants
func DefaultConfig() Config {
	return ConfigFromRules(config.DefaultRules())
}

// ConfigFromRules extracts the scoring constants from a rule set
func ConfigFromRules(rules config.Rules) Config {
	return Config{
		BasePoints:     rules.BasePoints,
		MinMatchSize:   rules.MinMatchSize,
		LevelScoreStep: rules.LevelScoreStep,
		GoalPercentage: rules.GoalPercentage,
	}
}

// Service provides scoring and goal-progress calculations
type Service struct {
	cfg Config
}

// New creates a new ScoringService
func New(cfg Config) *Service {
	return &Service{
		cfg: cfg,
	}
}

// ScoreGroup returns BasePoints * 2^(size - MinMatchSize), doubled if any tile is special.
// Groups below the minimum size (booster clears) halve per missing tile.
func (s *Service) ScoreGroup(group model.MatchGroup) int {
	size := group.Size()
	if size == 0 {
		return 0
	}

	points := s.cfg.BasePoints
	if size >= s.cfg.MinMatchSize {
		points <<= size - s.cfg.MinMatchSize
	} else {
		points >>= s.cfg.MinMatchSize - size
	}

	if group.HasSpecial() {
		points *= 2
	}
	return points
}

// ScorePass sums the scores of every group cleared in one pass
func (s *Service) ScorePass(matches []model.MatchGroup) int {
	total := 0
	for _, m := range matches {
		total += s.ScoreGroup(m)
	}
	return total
}

// GoalProgress returns min(100, floor(score * 100 / (level * LevelScoreStep)))
func (s *Service) GoalProgress(score, level int) int {
	if level < 1 || score <= 0 {
		return 0
	}
	progress := score * 100 / (level * s.cfg.LevelScoreStep)
	if progress > 100 {
		return 100
	}
	return progress
}

// GoalReached returns true once progress meets the level threshold
func (s *Service) GoalReached(progress int) bool {
	return progress >= s.cfg.GoalPercentage
}

// RestartScore is the score a restarted level begins with: the previous level's threshold
func (s *Service) RestartScore(level int) int {
	score := (level - 1) * s.cfg.LevelScoreStep * s.cfg.GoalPercentage / 100
	if score < 0 {
		return 0
	}
	return score
}

// Interface for dependency injection
type ServiceInterface interface {
	ScoreGroup(group model.MatchGroup) int
	ScorePass(matches []model.MatchGroup) int
	GoalProgress(score, level int) int
	GoalReached(progress int) bool
	RestartScore(level int) int
}

var _ ServiceInterface = (*Service)(nil)
