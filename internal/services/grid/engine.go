package grid

import (
	"log/slog"

	"github.com/mcoot/colormatch/internal/config"
	"github.com/mcoot/colormatch/internal/dependencies/random"
	"github.com/mcoot/colormatch/internal/model"
)

// Config holds the engine's matching rules
type Config struct {
	MinMatchSize     int
	MaxResolvePasses int // Safety limit for ResolveUntilStable
}

// DefaultConfig returns the standard engine configuration
func DefaultConfig() Config {
	return ConfigFromRules(config.DefaultRules())
}

// ConfigFromRules extracts the engine settings from a rule set
func ConfigFromRules(rules config.Rules) Config {
	return Config{
		MinMatchSize:     rules.MinMatchSize,
		MaxResolvePasses: rules.MaxResolvePasses,
	}
}

// Engine implements the pure grid operations. Every method returns a new grid
// and leaves its input untouched.
type Engine struct {
	cfg    Config
	random random.Random
	logger *slog.Logger
}

// New creates a new grid Engine drawing tile colors from rnd
func New(rnd random.Random, cfg Config, logger *slog.Logger) *Engine {
	return &Engine{
		cfg:    cfg,
		random: rnd,
		logger: logger.With(slog.String("component", "grid-engine")),
	}
}

// Create fills a size x size grid at random and resolves it until no match remains.
// Points from the settling passes are discarded.
func (e *Engine) Create(size, colorCount int) (*model.Grid, error) {
	if size < 1 {
		return nil, model.ErrInvalidGridSize
	}
	if colorCount < 2 {
		return nil, model.ErrInvalidColors
	}

	g := model.NewGrid(size, colorCount)
	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			g.Set(model.Position{Row: row, Col: col}, e.newTile(colorCount))
		}
	}

	stable, _, err := e.ResolveUntilStable(g)
	if err != nil {
		return nil, err
	}
	return stable, nil
}

// FindAllMatches scans rows left to right, then columns top to bottom.
// Each maximal run of at least MinMatchSize equal colors becomes one group;
// scanning resumes after the run. A tile on both a horizontal and a vertical
// run appears in two groups.
func (e *Engine) FindAllMatches(g *model.Grid) []model.MatchGroup {
	var matches []model.MatchGroup

	for row := 0; row < g.Size; row++ {
		matches = e.scanLine(g, matches, func(i int) model.Position {
			return model.Position{Row: row, Col: i}
		})
	}
	for col := 0; col < g.Size; col++ {
		matches = e.scanLine(g, matches, func(i int) model.Position {
			return model.Position{Row: i, Col: col}
		})
	}

	return matches
}

// scanLine finds greedy runs along one row or column; at maps a line index to a cell
func (e *Engine) scanLine(g *model.Grid, matches []model.MatchGroup, at func(i int) model.Position) []model.MatchGroup {
	minMatch := e.cfg.MinMatchSize
	i := 0
	for i+minMatch <= g.Size {
		color := g.ColorAt(at(i))
		end := i + 1
		for end < g.Size && g.ColorAt(at(end)) == color {
			end++
		}

		if end-i < minMatch {
			i++
			continue
		}

		tiles := make([]model.Tile, 0, end-i)
		for j := i; j < end; j++ {
			tiles = append(tiles, g.Get(at(j)))
		}
		matches = append(matches, model.MatchGroup{Tiles: tiles})
		i = end
	}
	return matches
}

// ResolveMatches removes every matched cell, lets survivors fall and refills the
// vacated top cells with fresh random tiles. Refill draws go column by column,
// left to right, top cell first. The count is the sum of group sizes, so a tile
// shared by two groups counts twice.
func (e *Engine) ResolveMatches(g *model.Grid, matches []model.MatchGroup) (*model.Grid, int) {
	out := g.Clone()
	marked := markCells(g, matches)

	cleared := 0
	for _, m := range matches {
		cleared += m.Size()
	}

	for col := 0; col < g.Size; col++ {
		// Single walk from the bottom: each survivor drops by the number of
		// marked cells beneath it
		write := g.Size - 1
		for row := g.Size - 1; row >= 0; row-- {
			if marked[row][col] {
				continue
			}
			out.Set(model.Position{Row: write, Col: col}, g.Get(model.Position{Row: row, Col: col}))
			write--
		}

		for row := 0; row <= write; row++ {
			out.Set(model.Position{Row: row, Col: col}, e.newTile(g.ColorCount))
		}
	}

	return out, cleared
}

// AffectedCells lists, in row-major order, the cells whose content changes when
// the matches are resolved: every cell from the top of a column down to its
// lowest matched cell.
func (e *Engine) AffectedCells(g *model.Grid, matches []model.MatchGroup) []model.Position {
	marked := markCells(g, matches)

	lowest := make([]int, g.Size)
	for col := range lowest {
		lowest[col] = -1
		for row := g.Size - 1; row >= 0; row-- {
			if marked[row][col] {
				lowest[col] = row
				break
			}
		}
	}

	var changed []model.Position
	for row := 0; row < g.Size; row++ {
		for col := 0; col < g.Size; col++ {
			if row <= lowest[col] {
				changed = append(changed, model.Position{Row: row, Col: col})
			}
		}
	}
	return changed
}

// ResolveUntilStable repeats find and resolve until no match remains, returning
// every intermediate pass in order
func (e *Engine) ResolveUntilStable(g *model.Grid) (*model.Grid, []model.CascadePass, error) {
	current := g
	var passes []model.CascadePass

	for range e.cfg.MaxResolvePasses {
		matches := e.FindAllMatches(current)
		if len(matches) == 0 {
			return current, passes, nil
		}

		next, cleared := e.ResolveMatches(current, matches)
		passes = append(passes, model.CascadePass{
			Matches: matches,
			Cleared: cleared,
			Changed: e.AffectedCells(current, matches),
			Grid:    next,
		})
		current = next
	}

	e.logger.Error("grid did not stabilise",
		slog.Int("passes", len(passes)),
		slog.Int("grid_size", g.Size),
		slog.Int("color_count", g.ColorCount),
	)
	return nil, passes, model.ErrGridUnstable
}

// Swap exchanges two cells. It does not check adjacency or whether a match results.
func (e *Engine) Swap(g *model.Grid, a, b model.Position) *model.Grid {
	out := g.Clone()
	if !g.InBounds(a) || !g.InBounds(b) {
		return out
	}
	out.Set(a, g.Get(b))
	out.Set(b, g.Get(a))
	return out
}

// ClearCells removes the given cells as one forced group and resolves it exactly
// like a match. Out-of-bounds and duplicate positions are ignored.
func (e *Engine) ClearCells(g *model.Grid, positions []model.Position) (*model.Grid, model.MatchGroup) {
	group := model.MatchGroup{Forced: true}
	seen := make(map[model.Position]bool, len(positions))
	for _, pos := range positions {
		if !g.InBounds(pos) || seen[pos] {
			continue
		}
		seen[pos] = true
		group.Tiles = append(group.Tiles, g.Get(pos))
	}

	if group.Size() == 0 {
		return g.Clone(), group
	}

	out, _ := e.ResolveMatches(g, []model.MatchGroup{group})
	return out, group
}

func (e *Engine) newTile(colorCount int) model.Tile {
	return model.Tile{Color: model.Color(e.random.Intn(colorCount))}
}

func markCells(g *model.Grid, matches []model.MatchGroup) [][]bool {
	marked := make([][]bool, g.Size)
	for row := range marked {
		marked[row] = make([]bool, g.Size)
	}
	for _, m := range matches {
		for _, t := range m.Tiles {
			if g.InBounds(t.Position()) {
				marked[t.Row][t.Col] = true
			}
		}
	}
	return marked
}

// Interface for dependency injection
type EngineInterface interface {
	Create(size, colorCount int) (*model.Grid, error)
	FindAllMatches(g *model.Grid) []model.MatchGroup
	ResolveMatches(g *model.Grid, matches []model.MatchGroup) (*model.Grid, int)
	AffectedCells(g *model.Grid, matches []model.MatchGroup) []model.Position
	ResolveUntilStable(g *model.Grid) (*model.Grid, []model.CascadePass, error)
	Swap(g *model.Grid, a, b model.Position) *model.Grid
	ClearCells(g *model.Grid, positions []model.Position) (*model.Grid, model.MatchGroup)
}

var _ EngineInterface = (*Engine)(nil)
