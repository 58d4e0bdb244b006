package components

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/colormatch/internal/model"
)

func renderDoc(t *testing.T, c templ.Component) (*goquery.Document, string) {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	html := buf.String()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc, html
}

func snapshot(status model.SessionStatus) model.SessionSnapshot {
	return model.SessionSnapshot{
		ID:           "S1",
		Level:        2,
		Score:        1500,
		MovesLeft:    7,
		GoalProgress: 75,
		Status:       status,
		Boosters: model.BoosterInventory{
			model.BoosterHammer: 1,
			model.BoosterStar:   0,
		},
		Grid: [][]model.Tile{
			{{Color: 0, Row: 0, Col: 0}, {Color: 1, Special: true, Row: 0, Col: 1}},
			{{Color: 2, Row: 1, Col: 0}, {Color: 3, Row: 1, Col: 1}},
		},
	}
}

func TestBoardRendersRowsOfTiles(t *testing.T) {
	snap := snapshot(model.StatusPlaying)
	snap.Selection = &model.Position{Row: 1, Col: 0}

	doc, html := renderDoc(t, Board(snap))

	assert.Equal(t, 2, doc.Find("#board .board-row").Length())
	assert.Equal(t, 4, doc.Find("#board button.tile").Length())
	assert.NotContains(t, html, "style=")

	selected := doc.Find("button.tile.selected")
	require.Equal(t, 1, selected.Length())
	assert.True(t, selected.HasClass("green"))
	assert.Equal(t, "1", selected.AttrOr("data-row", ""))
	assert.Equal(t, "0", selected.AttrOr("data-col", ""))
	assert.Equal(t, "/sessions/S1/cells/1/0", selected.AttrOr("hx-post", ""))

	special := doc.Find("button.tile.special")
	require.Equal(t, 1, special.Length())
	assert.True(t, special.HasClass("yellow"))

	_, disabled := selected.Attr("disabled")
	assert.False(t, disabled)
}

func TestBoardDisabledOutsidePlay(t *testing.T) {
	doc, _ := renderDoc(t, Board(snapshot(model.StatusPaused)))

	doc.Find("button.tile").Each(func(_ int, tile *goquery.Selection) {
		_, disabled := tile.Attr("disabled")
		assert.True(t, disabled)
	})
}

func TestBoostersShowArmedAndCharges(t *testing.T) {
	snap := snapshot(model.StatusPlaying)
	snap.ActiveBooster = model.BoosterHammer

	doc, _ := renderDoc(t, Boosters(snap))

	assert.Equal(t, len(model.AllBoosterKinds()), doc.Find("button.booster").Length())
	armed := doc.Find("button.booster.armed")
	require.Equal(t, 1, armed.Length())
	assert.Equal(t, "hammer", armed.AttrOr("data-booster", ""))
	assert.Equal(t, "/sessions/S1/boosters/hammer", armed.AttrOr("hx-post", ""))
	assert.Equal(t, "1", armed.Find(".charges").Text())

	_, disabled := doc.Find(`button.booster[data-booster="star"]`).Attr("disabled")
	assert.True(t, disabled)
}

func TestHUD(t *testing.T) {
	doc, _ := renderDoc(t, HUD(snapshot(model.StatusPlaying)))

	assert.Equal(t, "Level 2", doc.Find("#hud .level").Text())
	assert.Equal(t, "1500", doc.Find("#hud .score").Text())
	assert.Equal(t, "7 moves left", doc.Find("#hud .moves").Text())
	assert.Equal(t, "75", doc.Find("progress.goal").AttrOr("value", ""))
}

func TestControlsFollowStatus(t *testing.T) {
	cases := []struct {
		status  model.SessionStatus
		actions []string
		banner  string
	}{
		{model.StatusReady, []string{"start"}, ""},
		{model.StatusPlaying, []string{"pause"}, ""},
		{model.StatusPaused, []string{"resume", "restart"}, ""},
		{model.StatusLevelComplete, []string{"next"}, "Level 2 complete!"},
		{model.StatusGameOver, []string{"continue/ad", "continue/share", "restart"}, "Out of moves"},
	}

	for _, tc := range cases {
		t.Run(string(tc.status), func(t *testing.T) {
			doc, _ := renderDoc(t, Controls(snapshot(tc.status)))

			var got []string
			doc.Find("button.control").Each(func(_ int, b *goquery.Selection) {
				got = append(got, strings.TrimPrefix(b.AttrOr("hx-post", ""), "/sessions/S1/"))
			})
			assert.Equal(t, tc.actions, got)
			assert.Equal(t, tc.banner, doc.Find(".banner").Text())
		})
	}
}

func TestGameWrapsRegionsForSwap(t *testing.T) {
	doc, _ := renderDoc(t, Game(snapshot(model.StatusPlaying)))

	game := doc.Find("#game")
	require.Equal(t, 1, game.Length())
	assert.Equal(t, "game", game.AttrOr("sse-swap", ""))
	assert.Equal(t, "playing", game.AttrOr("data-status", ""))
	for _, id := range []string{"#hud", "#boosters", "#board", "#controls"} {
		assert.Equal(t, 1, game.Find(id).Length(), id)
	}
}

func TestErrorMessageIsEscaped(t *testing.T) {
	doc, html := renderDoc(t, ErrorMessage(`<script>alert("x")</script>`))

	assert.Equal(t, 0, doc.Find("script").Length())
	assert.Contains(t, html, "&lt;script&gt;")
	assert.Equal(t, `<script>alert("x")</script>`, doc.Find(".error-message").Text())
}

func TestLeaderboardEmptyAndRows(t *testing.T) {
	doc, _ := renderDoc(t, Leaderboard("Top scores", nil))
	assert.Equal(t, "No scores yet", doc.Find("p.empty").Text())

	doc, _ = renderDoc(t, Leaderboard("Top scores", []model.LeaderboardEntry{
		{Rank: 1, DisplayName: "<b>Alice</b>", Score: 4200, Level: 5},
	}))
	row := doc.Find("tr.leaderboard-row")
	require.Equal(t, 1, row.Length())
	assert.Equal(t, 0, row.Find("b").Length())
	assert.Contains(t, row.Text(), "<b>Alice</b>")
	assert.Contains(t, row.Text(), "4200")
}
