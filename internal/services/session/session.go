package session

import (
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/mcoot/colormatch/internal/config"
	"github.com/mcoot/colormatch/internal/dependencies/clock"
	"github.com/mcoot/colormatch/internal/dependencies/random"
	"github.com/mcoot/colormatch/internal/model"
	"github.com/mcoot/colormatch/internal/services/grid"
	"github.com/mcoot/colormatch/internal/services/scoring"
)

// Dependencies are the collaborators shared by every session
type Dependencies struct {
	Engine  *grid.Engine
	Scoring *scoring.Service
	Rules   config.Rules
	Random  random.Random
	Clock   clock.Clock
	Logger  *slog.Logger
}

// Listener receives session events after the mutation that caused them has committed
type Listener func(event model.Event)

// Session is one player's game: the grid, score, moves and boosters, driven
// through a small state machine. All methods are safe for concurrent use;
// calls are serialized and each runs its cascades to completion.
type Session struct {
	mu sync.Mutex

	id       model.SessionID
	playerID model.PlayerID

	engine  *grid.Engine
	scoring *scoring.Service
	rules   config.Rules
	random  random.Random
	clock   clock.Clock
	logger  *slog.Logger

	level         int
	score         int
	movesMade     int
	movesLeft     int
	goalProgress  int
	status        model.SessionStatus
	boosters      model.BoosterInventory
	activeBooster model.BoosterKind
	selection     *model.Position
	grid          *model.Grid

	createdAt time.Time
	updatedAt time.Time

	listeners []Listener
	pending   []model.Event // Events queued by the current call
	terminal  []model.Event // level_complete / game_over, emitted after the update
}

// New creates a session at level 1 in the ready state with a freshly generated grid
func New(id model.SessionID, playerID model.PlayerID, deps Dependencies) (*Session, error) {
	g, err := deps.Engine.Create(deps.Rules.GridSize, deps.Rules.ColorCount)
	if err != nil {
		return nil, err
	}

	now := deps.Clock.Now()
	s := &Session{
		id:        id,
		playerID:  playerID,
		engine:    deps.Engine,
		scoring:   deps.Scoring,
		rules:     deps.Rules,
		random:    deps.Random,
		clock:     deps.Clock,
		logger:    deps.Logger.With(slog.String("component", "session"), slog.String("session_id", string(id))),
		level:     1,
		movesLeft: deps.Rules.MoveLimit,
		status:    model.StatusReady,
		boosters:  deps.Rules.Boosters(),
		grid:      g,
		createdAt: now,
		updatedAt: now,
	}
	return s, nil
}

// ID returns the session's identifier
func (s *Session) ID() model.SessionID {
	return s.id
}

// PlayerID returns the owning player
func (s *Session) PlayerID() model.PlayerID {
	return s.playerID
}

// Subscribe registers a listener for every future event
func (s *Session) Subscribe(listener Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, listener)
}

// do runs fn under the session lock, then delivers the events it queued
func (s *Session) do(fn func() error) error {
	s.mu.Lock()
	err := fn()
	events := s.pending
	s.pending = nil
	s.terminal = nil
	listeners := slices.Clone(s.listeners)
	s.mu.Unlock()

	for _, event := range events {
		for _, listener := range listeners {
			listener(event)
		}
	}
	return err
}

// StartLevel moves a ready or paused session into play
func (s *Session) StartLevel() error {
	return s.do(func() error {
		if s.status != model.StatusReady && s.status != model.StatusPaused {
			return model.ErrInvalidStateForAction
		}
		s.status = model.StatusPlaying
		s.logger.Info("level started", slog.Int("level", s.level))
		s.publish(model.SessionUpdatedPayload{Cause: model.CauseStarted})
		return nil
	})
}

// Pause suspends play
func (s *Session) Pause() error {
	return s.do(func() error {
		if s.status != model.StatusPlaying {
			return model.ErrInvalidStateForAction
		}
		s.status = model.StatusPaused
		s.publish(model.SessionUpdatedPayload{Cause: model.CausePaused})
		return nil
	})
}

// Resume returns a paused session to play
func (s *Session) Resume() error {
	return s.do(func() error {
		if s.status != model.StatusPaused {
			return model.ErrInvalidStateForAction
		}
		s.status = model.StatusPlaying
		s.publish(model.SessionUpdatedPayload{Cause: model.CauseResumed})
		return nil
	})
}

// ActivateCell is the single interaction entry point. It applies an armed
// booster, or otherwise selects a cell and swaps it with an adjacent selection.
func (s *Session) ActivateCell(pos model.Position) (*model.Outcome, error) {
	var outcome *model.Outcome
	err := s.do(func() error {
		if s.status != model.StatusPlaying {
			return model.ErrInvalidStateForAction
		}
		if !s.grid.InBounds(pos) {
			return model.ErrInvalidCoordinate
		}

		var err error
		if s.activeBooster != "" {
			outcome, err = s.applyBooster(pos)
		} else {
			outcome, err = s.selectCell(pos)
		}
		return err
	})
	return outcome, err
}

// ClearSelection drops a pending swap selection
func (s *Session) ClearSelection() error {
	return s.do(func() error {
		if s.selection == nil {
			return nil
		}
		previous := *s.selection
		s.selection = nil
		s.publish(model.SessionUpdatedPayload{Cause: model.CauseSelection, Changed: []model.Position{previous}})
		return nil
	})
}

func (s *Session) selectCell(pos model.Position) (*model.Outcome, error) {
	switch {
	case s.selection == nil:
		s.selection = &pos
		s.publish(model.SessionUpdatedPayload{Cause: model.CauseSelection, Changed: []model.Position{pos}})
		return &model.Outcome{Kind: model.ActivationSelected, Changed: []model.Position{pos}}, nil

	case model.Adjacent(*s.selection, pos):
		return s.trySwap(*s.selection, pos)

	default:
		previous := *s.selection
		s.selection = &pos
		changed := []model.Position{previous, pos}
		s.publish(model.SessionUpdatedPayload{Cause: model.CauseSelection, Changed: changed})
		return &model.Outcome{Kind: model.ActivationReselected, Changed: changed}, nil
	}
}

// trySwap commits a swap only if it creates a match. A committed swap costs
// one move and resolves every cascade before returning.
func (s *Session) trySwap(a, b model.Position) (*model.Outcome, error) {
	s.selection = nil

	swapped := s.engine.Swap(s.grid, a, b)
	if len(s.engine.FindAllMatches(swapped)) == 0 {
		s.publish(model.SessionUpdatedPayload{Cause: model.CauseSwap})
		return &model.Outcome{Kind: model.ActivationSwapRejected}, nil
	}

	s.grid = swapped
	s.movesMade++
	s.movesLeft = max(0, s.movesLeft-1)

	passes, points, err := s.cascade()
	if err != nil {
		return nil, err
	}

	if s.status == model.StatusPlaying && s.movesLeft <= 0 && !s.scoring.GoalReached(s.goalProgress) {
		s.status = model.StatusGameOver
		s.logger.Info("game over",
			slog.Int("level", s.level),
			slog.Int("score", s.score),
			slog.Int("goal_progress", s.goalProgress),
		)
		s.terminal = append(s.terminal, s.event(model.EventGameOver, model.GameOverPayload{
			Level:        s.level,
			Score:        s.score,
			GoalProgress: s.goalProgress,
		}))
	}

	changed := mergeChanged([]model.Position{a, b}, passes)
	s.publish(model.SessionUpdatedPayload{Cause: model.CauseSwap, Changed: changed, Passes: passes})

	s.logger.Debug("swap committed",
		slog.Int("passes", len(passes)),
		slog.Int("points", points),
		slog.Int("moves_left", s.movesLeft),
	)

	return &model.Outcome{
		Kind:         model.ActivationSwapped,
		PointsGained: points,
		Passes:       passes,
		Changed:      changed,
	}, nil
}

// cascade resolves the current grid until stable, scoring every pass in order
func (s *Session) cascade() ([]model.CascadePass, int, error) {
	next, passes, err := s.engine.ResolveUntilStable(s.grid)
	if err != nil {
		s.logger.Error("cascade failed", slog.String("error", err.Error()))
		return nil, 0, err
	}

	total := 0
	for i := range passes {
		passes[i].Points = s.scoring.ScorePass(passes[i].Matches)
		total += passes[i].Points
		s.addScore(passes[i].Points)
	}
	s.grid = next
	return passes, total, nil
}

// addScore raises the score and completes the level the moment the goal is met
func (s *Session) addScore(points int) {
	s.score += points
	s.goalProgress = s.scoring.GoalProgress(s.score, s.level)

	if s.status == model.StatusPlaying && s.scoring.GoalReached(s.goalProgress) {
		s.status = model.StatusLevelComplete
		s.logger.Info("level complete",
			slog.Int("level", s.level),
			slog.Int("score", s.score),
		)
		s.terminal = append(s.terminal, s.event(model.EventLevelComplete, model.LevelCompletePayload{
			Level:        s.level,
			Score:        s.score,
			GoalProgress: s.goalProgress,
		}))
	}
}

// NextLevel advances a completed level: level+1, fresh moves and grid
func (s *Session) NextLevel() error {
	return s.do(func() error {
		if s.status != model.StatusLevelComplete {
			return model.ErrInvalidStateForAction
		}
		g, err := s.engine.Create(s.rules.GridSize, s.rules.ColorCount)
		if err != nil {
			return err
		}

		s.level++
		s.resetLevel(g)
		s.logger.Info("next level", slog.Int("level", s.level))
		s.publish(model.SessionUpdatedPayload{Cause: model.CauseNextLevel})
		return nil
	})
}

// RestartLevel replays the current level from the previous level's threshold score
func (s *Session) RestartLevel() error {
	return s.do(func() error {
		switch s.status {
		case model.StatusPlaying, model.StatusPaused, model.StatusGameOver:
		default:
			return model.ErrInvalidStateForAction
		}
		g, err := s.engine.Create(s.rules.GridSize, s.rules.ColorCount)
		if err != nil {
			return err
		}

		s.score = s.scoring.RestartScore(s.level)
		s.resetLevel(g)
		s.logger.Info("level restarted", slog.Int("level", s.level), slog.Int("score", s.score))
		s.publish(model.SessionUpdatedPayload{Cause: model.CauseRestart})
		return nil
	})
}

func (s *Session) resetLevel(g *model.Grid) {
	s.grid = g
	s.movesMade = 0
	s.movesLeft = s.rules.MoveLimit
	s.goalProgress = s.scoring.GoalProgress(s.score, s.level)
	s.selection = nil
	s.activeBooster = ""
	s.status = model.StatusPlaying
}

// Continue grants extra moves after a game over and resumes play
func (s *Session) Continue(reason model.ContinueReason) error {
	return s.do(func() error {
		moves, ok := s.rules.ContinueMoves[reason]
		if !ok {
			return model.ErrInvalidContinue
		}
		if s.status != model.StatusGameOver {
			return model.ErrInvalidStateForAction
		}

		s.movesLeft += moves
		s.status = model.StatusPlaying
		s.logger.Info("continued",
			slog.String("reason", string(reason)),
			slog.Int("moves_left", s.movesLeft),
		)
		s.publish(model.SessionUpdatedPayload{Cause: model.CauseContinue})
		return nil
	})
}

// Snapshot returns a copy of the session state
func (s *Session) Snapshot() model.SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *Session) snapshot() model.SessionSnapshot {
	snap := model.SessionSnapshot{
		ID:            s.id,
		PlayerID:      s.playerID,
		Level:         s.level,
		Score:         s.score,
		MovesMade:     s.movesMade,
		MovesLeft:     s.movesLeft,
		GoalProgress:  s.goalProgress,
		Status:        s.status,
		Boosters:      s.boosters.Clone(),
		ActiveBooster: s.activeBooster,
		Grid:          s.grid.Rows(),
	}
	if s.selection != nil {
		sel := *s.selection
		snap.Selection = &sel
	}
	return snap
}

// Grid returns a copy of the current grid
func (s *Session) Grid() *model.Grid {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grid.Clone()
}

// Status returns the current state
func (s *Session) Status() model.SessionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Level returns the current level
func (s *Session) Level() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.level
}

// Score returns the cumulative score
func (s *Session) Score() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.score
}

// MovesLeft returns the remaining move budget
func (s *Session) MovesLeft() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.movesLeft
}

// GoalProgress returns the percentage towards the level goal
func (s *Session) GoalProgress() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.goalProgress
}

// Boosters returns a copy of the booster inventory
func (s *Session) Boosters() model.BoosterInventory {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.boosters.Clone()
}

// UpdatedAt returns the time of the last committed mutation
func (s *Session) UpdatedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updatedAt
}

// publish queues a session_updated event carrying a fresh snapshot, followed by
// any terminal events raised during the call
func (s *Session) publish(payload model.SessionUpdatedPayload) {
	s.updatedAt = s.clock.Now()
	payload.Snapshot = s.snapshot()
	s.pending = append(s.pending, s.event(model.EventSessionUpdated, payload))
	s.pending = append(s.pending, s.terminal...)
	s.terminal = nil
}

func (s *Session) event(eventType model.EventType, payload any) model.Event {
	return model.Event{
		Type:      eventType,
		Timestamp: s.clock.Now(),
		SessionID: s.id,
		PlayerID:  s.playerID,
		Payload:   payload,
	}
}

// mergeChanged unions the given cells with every pass's changed cells, keeping first-seen order
func mergeChanged(initial []model.Position, passes []model.CascadePass) []model.Position {
	seen := make(map[model.Position]bool)
	var changed []model.Position
	add := func(p model.Position) {
		if !seen[p] {
			seen[p] = true
			changed = append(changed, p)
		}
	}
	for _, p := range initial {
		add(p)
	}
	for _, pass := range passes {
		for _, p := range pass.Changed {
			add(p)
		}
	}
	return changed
}
