package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mcoot/colormatch/internal/model"
)

// GridFromRows builds a grid from one string per row.
// Digits are plain colors; letters 'A'.. are special tiles of color 0...
func GridFromRows(colorCount int, rows ...string) *model.Grid {
	g := model.NewGrid(len(rows), colorCount)
	for row, line := range rows {
		for col, ch := range line {
			tile := model.Tile{}
			switch {
			case ch >= '0' && ch <= '9':
				tile.Color = model.Color(ch - '0')
			case ch >= 'A' && ch <= 'J':
				tile.Color = model.Color(ch - 'A')
				tile.Special = true
			}
			g.Set(model.Position{Row: row, Col: col}, tile)
		}
	}
	return g
}

// RowColors flattens digit rows into the row-major color sequence a random
// source must produce to generate that grid
func RowColors(rows ...string) []int {
	var colors []int
	for _, line := range rows {
		for _, ch := range line {
			colors = append(colors, int(ch-'0'))
		}
	}
	return colors
}

// GridString renders a grid back into digit rows
func GridString(g *model.Grid) []string {
	rows := make([]string, g.Size)
	for row := 0; row < g.Size; row++ {
		line := make([]byte, g.Size)
		for col := 0; col < g.Size; col++ {
			line[col] = byte('0' + g.Cells[row][col].Color)
		}
		rows[row] = string(line)
	}
	return rows
}

// AssertGridInvariants checks that every cell holds a tile tagged with its own
// coordinates and a color inside the palette
func AssertGridInvariants(t *testing.T, g *model.Grid) {
	t.Helper()
	if !assert.NotNil(t, g) {
		return
	}
	assert.Len(t, g.Cells, g.Size)
	for row := 0; row < g.Size; row++ {
		assert.Len(t, g.Cells[row], g.Size)
		for col := 0; col < g.Size && col < len(g.Cells[row]); col++ {
			tile := g.Cells[row][col]
			assert.Equal(t, row, tile.Row, "tile row at (%d,%d)", row, col)
			assert.Equal(t, col, tile.Col, "tile col at (%d,%d)", row, col)
			assert.GreaterOrEqual(t, int(tile.Color), 0)
			assert.Less(t, int(tile.Color), g.ColorCount)
		}
	}
}
