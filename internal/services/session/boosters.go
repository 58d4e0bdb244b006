package session

import (
	"log/slog"

	"github.com/mcoot/colormatch/internal/model"
)

// ArmBooster arms a booster so the next activation applies it. Arming the
// already armed kind disarms it; arming a different kind replaces it.
// Returns whether a booster is armed afterwards.
func (s *Session) ArmBooster(kind model.BoosterKind) (bool, error) {
	if _, err := model.ParseBoosterKind(string(kind)); err != nil {
		return false, err
	}

	var armed bool
	err := s.do(func() error {
		if s.status != model.StatusPlaying {
			return model.ErrInvalidStateForAction
		}

		if s.activeBooster == kind {
			s.activeBooster = ""
			s.selection = nil
			s.publish(model.SessionUpdatedPayload{Cause: model.CauseArmed})
			return nil
		}
		if !s.boosters.Has(kind) {
			return model.ErrInsufficientBoosterCharges
		}

		// Any pending selection would otherwise become a target coordinate
		s.selection = nil
		s.activeBooster = kind
		armed = true
		s.publish(model.SessionUpdatedPayload{Cause: model.CauseArmed, Booster: kind})
		return nil
	})
	return armed, err
}

// DisarmBooster clears any armed booster and its pending target selection
func (s *Session) DisarmBooster() error {
	return s.do(func() error {
		if s.activeBooster == "" {
			return nil
		}
		s.activeBooster = ""
		s.selection = nil
		s.publish(model.SessionUpdatedPayload{Cause: model.CauseArmed})
		return nil
	})
}

// applyBooster spends one charge of the armed booster at pos
func (s *Session) applyBooster(pos model.Position) (*model.Outcome, error) {
	kind := s.activeBooster
	if !s.boosters.Has(kind) {
		s.activeBooster = ""
		return nil, model.ErrInsufficientBoosterCharges
	}

	outcome := &model.Outcome{Kind: model.ActivationBooster, Booster: kind}

	switch kind {
	case model.BoosterTarget:
		if s.selection == nil {
			s.selection = &pos
			s.publish(model.SessionUpdatedPayload{Cause: model.CauseSelection, Changed: []model.Position{pos}, Booster: kind})
			return &model.Outcome{Kind: model.ActivationTargetPicked, Booster: kind, Changed: []model.Position{pos}}, nil
		}

		first := *s.selection
		if first == pos {
			s.selection = nil
			s.publish(model.SessionUpdatedPayload{Cause: model.CauseSelection, Changed: []model.Position{pos}, Booster: kind})
			return &model.Outcome{Kind: model.ActivationTargetReset, Booster: kind, Changed: []model.Position{pos}}, nil
		}

		s.consume(kind)
		s.grid = s.engine.Swap(s.grid, first, pos)
		s.activeBooster = ""
		s.selection = nil

		passes, points, err := s.cascade()
		if err != nil {
			return nil, err
		}
		outcome.Passes = passes
		outcome.PointsGained = points
		outcome.Changed = mergeChanged([]model.Position{first, pos}, passes)

	case model.BoosterStar:
		s.consume(kind)
		s.activeBooster = ""
		s.selection = nil

		bonus := s.rules.StarBonusMin + s.random.Intn(s.rules.StarBonusRange)
		s.addScore(bonus)
		outcome.PointsGained = bonus

	default:
		area := s.boosterArea(kind, pos)
		s.consume(kind)

		cleared, group := s.engine.ClearCells(s.grid, area)
		points := s.scoring.ScoreGroup(group)
		forced := model.CascadePass{
			Matches: []model.MatchGroup{group},
			Cleared: group.Size(),
			Points:  points,
			Changed: s.engine.AffectedCells(s.grid, []model.MatchGroup{group}),
			Grid:    cleared,
		}
		s.grid = cleared
		s.activeBooster = ""
		s.selection = nil
		s.addScore(points)

		passes, cascadePoints, err := s.cascade()
		if err != nil {
			return nil, err
		}
		outcome.Passes = append([]model.CascadePass{forced}, passes...)
		outcome.PointsGained = points + cascadePoints
		outcome.Changed = mergeChanged(nil, outcome.Passes)
	}

	s.logger.Info("booster used",
		slog.String("booster", string(kind)),
		slog.Int("remaining", s.boosters.Count(kind)),
		slog.Int("points", outcome.PointsGained),
	)

	s.publish(model.SessionUpdatedPayload{
		Cause:   model.CauseBooster,
		Changed: outcome.Changed,
		Passes:  outcome.Passes,
		Booster: kind,
	})
	return outcome, nil
}

func (s *Session) consume(kind model.BoosterKind) {
	s.boosters[kind]--
}

// boosterArea lists the cells a clearing booster removes, clipped to the grid
func (s *Session) boosterArea(kind model.BoosterKind, pos model.Position) []model.Position {
	var area []model.Position
	switch kind {
	case model.BoosterLightning:
		for col := 0; col < s.grid.Size; col++ {
			area = append(area, model.Position{Row: pos.Row, Col: col})
		}
	case model.BoosterHammer:
		area = append(area, pos)
	case model.BoosterBomb:
		for row := pos.Row - 1; row <= pos.Row+1; row++ {
			for col := pos.Col - 1; col <= pos.Col+1; col++ {
				p := model.Position{Row: row, Col: col}
				if s.grid.InBounds(p) {
					area = append(area, p)
				}
			}
		}
	}
	return area
}
