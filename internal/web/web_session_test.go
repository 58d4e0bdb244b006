package web_test

import (
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/colormatch/internal/model"
)

func TestProtectedRouteRedirectsHome(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.get("/sessions/ABC123")

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/?next=%2Fsessions%2FABC123", rr.Header().Get("Location"))
}

func TestProtectedHTMXRequestGetsHXRedirect(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.postHTMX("/sessions/ABC123/pause", nil)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Header().Get("HX-Redirect"), "/?next=")
}

func TestCreateSessionRendersBoard(t *testing.T) {
	ts := newWebTestServer(t)
	ts.createGuestPlayer("Alice")

	id := ts.createSession()
	rr := ts.get("/sessions/" + id)
	require.Equal(t, http.StatusOK, rr.Code)

	doc := parseHTML(rr.Body)
	size := ts.app.Rules.GridSize
	assert.Equal(t, size*size, doc.Find("#board button.tile").Length())
	assert.Equal(t, len(model.AllBoosterKinds()), doc.Find("#boosters button.booster").Length())
	assertContainsText(t, doc, "#hud .level", "Level 1")
	assertContainsText(t, doc, "#hud .moves", fmt.Sprintf("%d moves left", ts.app.Rules.MoveLimit))

	status, _ := doc.Find("#game").Attr("data-status")
	assert.Equal(t, string(model.StatusPlaying), status)

	connect, _ := doc.Find("[sse-connect]").Attr("sse-connect")
	assert.Equal(t, "/sessions/"+id+"/events", connect)

	// Home lists the session
	doc = parseHTML(ts.get("/").Body)
	assert.Equal(t, 1, doc.Find("li.session-link").Length())
}

func TestSessionsArePrivate(t *testing.T) {
	ts := newWebTestServer(t)
	ts.createGuestPlayer("Alice")
	id := ts.createSession()

	other := newWebTestServerForApp(t, ts.app)
	other.createGuestPlayer("Bob")

	rr := other.get("/sessions/" + id)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assertContainsText(t, parseHTML(rr.Body), ".error-message", "session not found")

	rr = other.postHTMX("/sessions/"+id+"/pause", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, model.StatusPlaying, ts.session(id).Status())
}

func TestCellActivationSwaps(t *testing.T) {
	ts := newWebTestServer(t)
	ts.createGuestPlayer("Alice")
	id := ts.createSession()

	move, err := ts.app.BotService.Hint(ts.session(id), model.BotStrategyGreedy)
	require.NoError(t, err)

	rr := ts.postHTMX(fmt.Sprintf("/sessions/%s/cells/%d/%d", id, move.From.Row, move.From.Col), nil)
	require.Equal(t, http.StatusOK, rr.Code)
	doc := parseHTML(rr.Body)
	selected := doc.Find("#board button.tile.selected")
	require.Equal(t, 1, selected.Length())
	row, _ := selected.Attr("data-row")
	col, _ := selected.Attr("data-col")
	assert.Equal(t, fmt.Sprint(move.From.Row), row)
	assert.Equal(t, fmt.Sprint(move.From.Col), col)

	rr = ts.postHTMX(fmt.Sprintf("/sessions/%s/cells/%d/%d", id, move.To.Row, move.To.Col), nil)
	require.Equal(t, http.StatusOK, rr.Code)
	doc = parseHTML(rr.Body)
	assertNotContainsElement(t, doc, "#board button.tile.selected")

	snap := ts.session(id).Snapshot()
	assert.Equal(t, 1, snap.MovesMade)
	assert.Positive(t, snap.Score)
	assertContainsText(t, doc, "#hud .score", fmt.Sprint(snap.Score))
}

func TestCellOutsideGrid(t *testing.T) {
	ts := newWebTestServer(t)
	ts.createGuestPlayer("Alice")
	id := ts.createSession()

	rr := ts.postHTMX(fmt.Sprintf("/sessions/%s/cells/0/%d", id, ts.app.Rules.GridSize), nil)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assertContainsElement(t, parseHTML(rr.Body), ".error-message")
}

func TestArmBooster(t *testing.T) {
	ts := newWebTestServer(t)
	ts.createGuestPlayer("Alice")
	id := ts.createSession()

	rr := ts.postHTMX("/sessions/"+id+"/boosters/bomb", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	doc := parseHTML(rr.Body)
	assertContainsElement(t, doc, `#boosters button.booster.armed[data-booster="bomb"]`)
	assert.Equal(t, model.BoosterBomb, ts.session(id).Snapshot().ActiveBooster)

	// Arming again disarms
	rr = ts.postHTMX("/sessions/"+id+"/boosters/bomb", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assertNotContainsElement(t, parseHTML(rr.Body), "#boosters button.armed")

	rr = ts.postHTMX("/sessions/"+id+"/boosters/rocket", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = ts.postHTMX("/sessions/"+id+"/boosters/star", nil)
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestPauseAndResumeControls(t *testing.T) {
	ts := newWebTestServer(t)
	ts.createGuestPlayer("Alice")
	id := ts.createSession()

	rr := ts.postHTMX("/sessions/"+id+"/pause", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	doc := parseHTML(rr.Body)
	status, _ := doc.Find("#game").Attr("data-status")
	assert.Equal(t, string(model.StatusPaused), status)
	assertContainsText(t, doc, "#controls", "Resume")
	assert.Equal(t, doc.Find("#board button.tile").Length(), doc.Find("#board button.tile[disabled]").Length())

	rr = ts.postHTMX("/sessions/"+id+"/resume", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assertContainsText(t, parseHTML(rr.Body), "#controls", "Pause")
}

func TestControlWithoutHTMXRedirectsToBoard(t *testing.T) {
	ts := newWebTestServer(t)
	ts.createGuestPlayer("Alice")
	id := ts.createSession()

	rr := ts.post("/sessions/"+id+"/pause", url.Values{})

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/sessions/"+id, rr.Header().Get("Location"))
	assert.Equal(t, model.StatusPaused, ts.session(id).Status())
}

func TestInvalidTransitionsAreRejected(t *testing.T) {
	ts := newWebTestServer(t)
	ts.createGuestPlayer("Alice")
	id := ts.createSession()

	rr := ts.postHTMX("/sessions/"+id+"/next", nil)
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = ts.postHTMX("/sessions/"+id+"/continue/ad", nil)
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = ts.postHTMX("/sessions/"+id+"/continue/bribe", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = ts.postHTMX("/sessions/"+id+"/explode", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestLeaderboardPages(t *testing.T) {
	ts := newWebTestServer(t)
	ts.createGuestPlayer("Alice")
	alice, err := ts.app.AuthService.GetPlayer(ts.cookies.loginToken())
	require.NoError(t, err)
	require.NoError(t, ts.app.Social.ShareScore(t.Context(), alice.ID, 4200, 3))

	// Public
	anon := newWebTestServerForApp(t, ts.app)
	rr := anon.get("/leaderboard")
	require.Equal(t, http.StatusOK, rr.Code)
	doc := parseHTML(rr.Body)
	require.Equal(t, 1, doc.Find("tr.leaderboard-row").Length())
	assertContainsText(t, doc, "tr.leaderboard-row", "Alice")
	assertContainsText(t, doc, "tr.leaderboard-row", "4200")

	rr = anon.get("/leaderboard/friends")
	assert.Equal(t, http.StatusSeeOther, rr.Code)

	rr = ts.get("/leaderboard/friends")
	require.Equal(t, http.StatusOK, rr.Code)
	assertContainsText(t, parseHTML(rr.Body), "tr.leaderboard-row", "Alice")
}
