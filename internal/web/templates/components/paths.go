//go:generate go run github.com/a-h/templ/cmd/templ@v0.3.977 generate -path ..

package components

import (
	"fmt"

	"github.com/mcoot/colormatch/internal/model"
)

func sessionAction(id model.SessionID, action string) string {
	return fmt.Sprintf("/sessions/%s/%s", id, action)
}

func cellAction(id model.SessionID, row, col int) string {
	return fmt.Sprintf("/sessions/%s/cells/%d/%d", id, row, col)
}

func boosterAction(id model.SessionID, kind model.BoosterKind) string {
	return fmt.Sprintf("/sessions/%s/boosters/%s", id, kind)
}

func isSelected(snap model.SessionSnapshot, tile model.Tile) bool {
	return snap.Selection != nil && *snap.Selection == tile.Position()
}
