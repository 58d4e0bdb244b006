package model

import "fmt"

// Color is an index into the palette, in [0, ColorCount)
type Color int

// DefaultColorNames is the palette used by the default rules, in index order
var DefaultColorNames = []string{"red", "yellow", "green", "blue", "purple"}

// Name returns the palette name of the color, or "color-N" past the default palette
func (c Color) Name() string {
	if c >= 0 && int(c) < len(DefaultColorNames) {
		return DefaultColorNames[c]
	}
	return fmt.Sprintf("color-%d", int(c))
}

// Position identifies a cell on the grid
type Position struct {
	Row int `json:"row"` // 0-indexed from top
	Col int `json:"col"` // 0-indexed from left
}

// Adjacent reports whether two positions are orthogonal neighbours
func Adjacent(a, b Position) bool {
	dr := a.Row - b.Row
	dc := a.Col - b.Col
	if dr < 0 {
		dr = -dr
	}
	if dc < 0 {
		dc = -dc
	}
	return dr+dc == 1
}

// Tile is the value held by one grid cell.
// Row and Col always match the cell holding the tile.
type Tile struct {
	Color   Color `json:"color"`
	Special bool  `json:"special"`
	Row     int   `json:"row"`
	Col     int   `json:"col"`
}

// Position returns the cell the tile sits in
func (t Tile) Position() Position {
	return Position{Row: t.Row, Col: t.Col}
}

// At returns a copy of the tile re-tagged for the given cell
func (t Tile) At(pos Position) Tile {
	t.Row = pos.Row
	t.Col = pos.Col
	return t
}

// Grid is the square playing field. Cells[row][col], row 0 is the top.
type Grid struct {
	Size       int
	ColorCount int
	Cells      [][]Tile
}

// NewGrid creates a grid with zero-valued tiles tagged with their coordinates
func NewGrid(size, colorCount int) *Grid {
	cells := make([][]Tile, size)
	for row := range cells {
		cells[row] = make([]Tile, size)
		for col := range cells[row] {
			cells[row][col] = Tile{Row: row, Col: col}
		}
	}
	return &Grid{
		Size:       size,
		ColorCount: colorCount,
		Cells:      cells,
	}
}

// InBounds returns true if the position is on the grid
func (g *Grid) InBounds(pos Position) bool {
	return pos.Row >= 0 && pos.Row < g.Size && pos.Col >= 0 && pos.Col < g.Size
}

// Get returns the tile at the given position; the zero tile if out of bounds
func (g *Grid) Get(pos Position) Tile {
	if !g.InBounds(pos) {
		return Tile{}
	}
	return g.Cells[pos.Row][pos.Col]
}

// Set stores the tile at the given position, re-tagging its coordinates
func (g *Grid) Set(pos Position, tile Tile) {
	if g.InBounds(pos) {
		g.Cells[pos.Row][pos.Col] = tile.At(pos)
	}
}

// Clone returns a deep copy of the grid
func (g *Grid) Clone() *Grid {
	clone := &Grid{
		Size:       g.Size,
		ColorCount: g.ColorCount,
		Cells:      make([][]Tile, g.Size),
	}
	for row := range g.Cells {
		clone.Cells[row] = make([]Tile, len(g.Cells[row]))
		copy(clone.Cells[row], g.Cells[row])
	}
	return clone
}

// Equal compares dimensions and every tile
func (g *Grid) Equal(other *Grid) bool {
	if other == nil || g.Size != other.Size || g.ColorCount != other.ColorCount {
		return false
	}
	for row := 0; row < g.Size; row++ {
		for col := 0; col < g.Size; col++ {
			if g.Cells[row][col] != other.Cells[row][col] {
				return false
			}
		}
	}
	return true
}

// Rows returns a deep copy of the cells, suitable for snapshots
func (g *Grid) Rows() [][]Tile {
	return g.Clone().Cells
}

// ColorAt returns the color at the given position
func (g *Grid) ColorAt(pos Position) Color {
	return g.Get(pos).Color
}

// MatchGroup is a set of tiles cleared together.
// Forced groups come from boosters and need not be same-colored or contiguous.
type MatchGroup struct {
	Tiles  []Tile `json:"tiles"`
	Forced bool   `json:"forced"`
}

// Size returns the number of tiles in the group
func (m MatchGroup) Size() int {
	return len(m.Tiles)
}

// HasSpecial returns true if any tile in the group is special
func (m MatchGroup) HasSpecial() bool {
	for _, t := range m.Tiles {
		if t.Special {
			return true
		}
	}
	return false
}

// Positions returns the cells covered by the group
func (m MatchGroup) Positions() []Position {
	positions := make([]Position, len(m.Tiles))
	for i, t := range m.Tiles {
		positions[i] = t.Position()
	}
	return positions
}

// Color returns the color of the first tile; meaningless for forced groups
func (m MatchGroup) Color() Color {
	if len(m.Tiles) == 0 {
		return 0
	}
	return m.Tiles[0].Color
}

// CascadePass is one clear, gravity and refill step
type CascadePass struct {
	Matches []MatchGroup `json:"matches"`
	Cleared int          `json:"cleared"`
	Points  int          `json:"points"`
	Changed []Position   `json:"changed"`
	Grid    *Grid        `json:"-"`
}
