package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/colormatch/internal/api"
	"github.com/mcoot/colormatch/internal/api/apierr"
	"github.com/mcoot/colormatch/internal/api/handler"
	"github.com/mcoot/colormatch/internal/api/response"
	"github.com/mcoot/colormatch/internal/factory"
	"github.com/mcoot/colormatch/internal/model"
	"github.com/mcoot/colormatch/internal/testutil"
)

// testServer creates a test server with all dependencies
type testServer struct {
	handler http.Handler
	app     *factory.TestApp
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	app := factory.NewTestApp()
	router := api.NewRouter(api.RouterConfig{
		Logger:      testutil.NopLogger(),
		AuthService: app.AuthService,
		Sessions:    app.Sessions,
		BotService:  app.BotService,
		Social:      app.Social,
		HubManager:  app.HubManager,
	})

	return &testServer{
		handler: router,
		app:     app,
	}
}

func (ts *testServer) request(method, path string, body any, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func errorCode(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[apierr.ErrorResponse](t, rr).Error.Code
}

// createGuest creates a guest and returns its auth response
func createGuest(t *testing.T, ts *testServer, name string) response.AuthResponse {
	t.Helper()
	rr := ts.request(http.MethodPost, "/api/v1/players/guest", map[string]string{"display_name": name}, "")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	return decode[response.AuthResponse](t, rr)
}

// startSession creates and starts a session, returning its id
func startSession(t *testing.T, ts *testServer, token string) string {
	t.Helper()
	rr := ts.request(http.MethodPost, "/api/v1/sessions", nil, token)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	id := decode[response.Session](t, rr).ID

	rr = ts.request(http.MethodPost, "/api/v1/sessions/"+string(id)+"/start", nil, token)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	return string(id)
}

func activate(ts *testServer, id string, pos model.Position, token string) *httptest.ResponseRecorder {
	body := map[string]int{"row": pos.Row, "col": pos.Col}
	return ts.request(http.MethodPost, "/api/v1/sessions/"+id+"/activate", body, token)
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	health := decode[response.Health](t, rr)
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, 0, health.Sessions)
}

func TestCreateGuestPlayer(t *testing.T) {
	ts := newTestServer(t)

	resp := createGuest(t, ts, "Alice")

	assert.Equal(t, "Alice", resp.Player.DisplayName)
	assert.True(t, resp.Player.IsGuest)
	assert.NotEmpty(t, resp.SessionToken)
	assert.True(t, resp.ExpiresAt.After(ts.app.MockClock.Now()))
}

func TestCreateGuestRequiresDisplayName(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/players/guest", map[string]string{"display_name": "  "}, "")

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeInvalidRequest, errorCode(t, rr))
}

func TestRegisterAndLogin(t *testing.T) {
	ts := newTestServer(t)

	// Register
	registerBody := map[string]string{
		"username":     "alice",
		"password":     "secret123",
		"display_name": "Alice",
	}
	rr := ts.request(http.MethodPost, "/api/v1/players/register", registerBody, "")
	require.Equal(t, http.StatusCreated, rr.Code)
	registerResp := decode[response.AuthResponse](t, rr)
	assert.False(t, registerResp.Player.IsGuest)

	// Duplicate
	rr = ts.request(http.MethodPost, "/api/v1/players/register", registerBody, "")
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, apierr.CodeUsernameExists, errorCode(t, rr))

	// Login
	loginBody := map[string]string{
		"username": "alice",
		"password": "secret123",
	}
	rr = ts.request(http.MethodPost, "/api/v1/players/login", loginBody, "")
	require.Equal(t, http.StatusOK, rr.Code)
	loginResp := decode[response.AuthResponse](t, rr)
	assert.Equal(t, registerResp.Player.ID, loginResp.Player.ID)

	// Wrong password
	loginBody["password"] = "wrong-password"
	rr = ts.request(http.MethodPost, "/api/v1/players/login", loginBody, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, apierr.CodeInvalidCredentials, errorCode(t, rr))
}

func TestGetAndUpdateMe(t *testing.T) {
	ts := newTestServer(t)
	auth := createGuest(t, ts, "Bob")

	rr := ts.request(http.MethodGet, "/api/v1/players/me", nil, auth.SessionToken)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Bob", decode[response.Player](t, rr).DisplayName)

	rr = ts.request(http.MethodPatch, "/api/v1/players/me", map[string]string{"display_name": "Robert"}, auth.SessionToken)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Robert", decode[response.Player](t, rr).DisplayName)

	rr = ts.request(http.MethodGet, "/api/v1/players/me", nil, auth.SessionToken)
	assert.Equal(t, "Robert", decode[response.Player](t, rr).DisplayName)
}

func TestLogoutInvalidatesToken(t *testing.T) {
	ts := newTestServer(t)
	auth := createGuest(t, ts, "Carol")

	rr := ts.request(http.MethodPost, "/api/v1/players/logout", nil, auth.SessionToken)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/players/me", nil, auth.SessionToken)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestUnauthorizedWithoutToken(t *testing.T) {
	ts := newTestServer(t)

	for _, path := range []string{
		"/api/v1/players/me",
		"/api/v1/sessions",
		"/api/v1/social/friends",
		"/api/v1/leaderboard",
	} {
		rr := ts.request(http.MethodGet, path, nil, "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code, path)
	}
}

func TestTokenQueryParameter(t *testing.T) {
	ts := newTestServer(t)
	auth := createGuest(t, ts, "Dana")

	rr := ts.request(http.MethodGet, "/api/v1/players/me?token="+auth.SessionToken, nil, "")

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestSessionLifecycle(t *testing.T) {
	ts := newTestServer(t)
	token := createGuest(t, ts, "Alice").SessionToken

	rr := ts.request(http.MethodPost, "/api/v1/sessions", nil, token)
	require.Equal(t, http.StatusCreated, rr.Code)
	created := decode[response.Session](t, rr)
	assert.Equal(t, model.StatusReady, created.Status)
	assert.Equal(t, 1, created.Level)
	assert.Equal(t, ts.app.Rules.MoveLimit, created.MovesLeft)
	assert.Len(t, created.Grid, ts.app.Rules.GridSize)
	base := "/api/v1/sessions/" + string(created.ID)

	// Cannot play before starting
	rr = activate(ts, string(created.ID), model.Position{Row: 0, Col: 0}, token)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, apierr.CodeInvalidState, errorCode(t, rr))

	rr = ts.request(http.MethodPost, base+"/start", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, model.StatusPlaying, decode[response.Session](t, rr).Status)

	rr = ts.request(http.MethodPost, base+"/pause", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, model.StatusPaused, decode[response.Session](t, rr).Status)

	rr = ts.request(http.MethodPost, base+"/pause", nil, token)
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = ts.request(http.MethodPost, base+"/resume", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, model.StatusPlaying, decode[response.Session](t, rr).Status)

	rr = ts.request(http.MethodGet, "/api/v1/sessions", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[response.SessionList](t, rr).Sessions, 1)

	rr = ts.request(http.MethodGet, "/api/v1/health", nil, "")
	assert.Equal(t, 1, decode[response.Health](t, rr).Sessions)

	rr = ts.request(http.MethodDelete, base, nil, token)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.request(http.MethodGet, base, nil, token)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, apierr.CodeSessionNotFound, errorCode(t, rr))
}

func TestSessionsArePrivate(t *testing.T) {
	ts := newTestServer(t)
	alice := createGuest(t, ts, "Alice").SessionToken
	bob := createGuest(t, ts, "Bob").SessionToken
	id := startSession(t, ts, alice)

	rr := ts.request(http.MethodGet, "/api/v1/sessions/"+id, nil, bob)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/sessions", nil, bob)
	assert.Empty(t, decode[response.SessionList](t, rr).Sessions)
}

func TestActivateValidation(t *testing.T) {
	ts := newTestServer(t)
	token := createGuest(t, ts, "Alice").SessionToken
	id := startSession(t, ts, token)

	rr := ts.request(http.MethodPost, "/api/v1/sessions/"+id+"/activate", map[string]int{"row": 1}, token)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeInvalidRequest, errorCode(t, rr))

	rr = activate(ts, id, model.Position{Row: 0, Col: ts.app.Rules.GridSize}, token)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeInvalidCoordinate, errorCode(t, rr))

	rr = activate(ts, id, model.Position{Row: -1, Col: 0}, token)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHintedSwap(t *testing.T) {
	ts := newTestServer(t)
	token := createGuest(t, ts, "Alice").SessionToken
	id := startSession(t, ts, token)

	rr := ts.request(http.MethodPost, "/api/v1/sessions/"+id+"/hint", nil, token)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	hint := decode[response.HintResponse](t, rr)
	assert.Equal(t, model.BotStrategyGreedy, hint.Strategy)

	rr = activate(ts, id, hint.Move.From, token)
	require.Equal(t, http.StatusOK, rr.Code)
	first := decode[response.ActivateResponse](t, rr)
	assert.Equal(t, model.ActivationSelected, first.Outcome.Kind)
	require.NotNil(t, first.Session.Selection)
	assert.Equal(t, hint.Move.From, *first.Session.Selection)

	rr = activate(ts, id, hint.Move.To, token)
	require.Equal(t, http.StatusOK, rr.Code)
	second := decode[response.ActivateResponse](t, rr)
	assert.Equal(t, model.ActivationSwapped, second.Outcome.Kind)
	assert.Positive(t, second.Outcome.PointsGained)
	assert.NotEmpty(t, second.Outcome.Passes)
	assert.Nil(t, second.Session.Selection)
	assert.Equal(t, 1, second.Session.MovesMade)
	assert.Equal(t, second.Outcome.PointsGained, second.Session.Score)
}

func TestHintUnknownStrategy(t *testing.T) {
	ts := newTestServer(t)
	token := createGuest(t, ts, "Alice").SessionToken
	id := startSession(t, ts, token)

	rr := ts.request(http.MethodPost, "/api/v1/sessions/"+id+"/hint", map[string]string{"strategy": "psychic"}, token)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeUnknownStrategy, errorCode(t, rr))
}

func TestAutoplay(t *testing.T) {
	ts := newTestServer(t)
	token := createGuest(t, ts, "Alice").SessionToken
	id := startSession(t, ts, token)

	body := map[string]any{"strategy": model.BotStrategyRandom, "max_moves": 3}
	rr := ts.request(http.MethodPost, "/api/v1/sessions/"+id+"/autoplay", body, token)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	resp := decode[response.AutoplayResponse](t, rr)
	assert.Equal(t, model.BotStrategyRandom, resp.Strategy)
	assert.NotEmpty(t, resp.Actions)
	assert.LessOrEqual(t, len(resp.Actions), 3)
	assert.Equal(t, len(resp.Actions), resp.Session.MovesMade)
	for _, action := range resp.Actions {
		assert.Equal(t, model.ActivationSwapped, action.Kind)
	}
}

func TestAutoplayDefaultsMoveCount(t *testing.T) {
	ts := newTestServer(t)
	token := createGuest(t, ts, "Alice").SessionToken
	id := startSession(t, ts, token)

	rr := ts.request(http.MethodPost, "/api/v1/sessions/"+id+"/autoplay", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)

	assert.LessOrEqual(t, len(decode[response.AutoplayResponse](t, rr).Actions), handler.DefaultAutoplayMoves)
}

func TestBoosters(t *testing.T) {
	ts := newTestServer(t)
	token := createGuest(t, ts, "Alice").SessionToken
	id := startSession(t, ts, token)
	base := "/api/v1/sessions/" + id

	rr := ts.request(http.MethodPost, base+"/booster", map[string]string{"booster": "hammer"}, token)
	require.Equal(t, http.StatusOK, rr.Code)
	armed := decode[response.ArmBoosterResponse](t, rr)
	assert.True(t, armed.Armed)
	assert.Equal(t, model.BoosterHammer, armed.Session.ActiveBooster)

	rr = ts.request(http.MethodDelete, base+"/booster", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, decode[response.Session](t, rr).ActiveBooster)

	// Star starts with no charges
	rr = ts.request(http.MethodPost, base+"/booster", map[string]string{"booster": "star"}, token)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, apierr.CodeNoBoosterCharges, errorCode(t, rr))

	rr = ts.request(http.MethodPost, base+"/booster", map[string]string{"booster": "rocket"}, token)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeUnknownBooster, errorCode(t, rr))

	// Hammer clears one cell and spends a charge
	rr = ts.request(http.MethodPost, base+"/booster", map[string]string{"booster": "hammer"}, token)
	require.Equal(t, http.StatusOK, rr.Code)
	rr = activate(ts, id, model.Position{Row: 4, Col: 4}, token)
	require.Equal(t, http.StatusOK, rr.Code)
	used := decode[response.ActivateResponse](t, rr)
	assert.Equal(t, model.ActivationBooster, used.Outcome.Kind)
	assert.Equal(t, model.BoosterHammer, used.Outcome.Booster)
	assert.Equal(t, 0, used.Session.Boosters.Count(model.BoosterHammer))
	assert.Empty(t, used.Session.ActiveBooster)
	assert.Equal(t, 0, used.Session.MovesMade)
}

func TestContinueValidation(t *testing.T) {
	ts := newTestServer(t)
	token := createGuest(t, ts, "Alice").SessionToken
	id := startSession(t, ts, token)
	base := "/api/v1/sessions/" + id

	rr := ts.request(http.MethodPost, base+"/continue", map[string]string{"reason": "bribe"}, token)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeInvalidContinue, errorCode(t, rr))

	rr = ts.request(http.MethodPost, base+"/continue", map[string]string{"reason": "ad"}, token)
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = ts.request(http.MethodPost, base+"/next-level", nil, token)
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestRestartKeepsLevel(t *testing.T) {
	ts := newTestServer(t)
	token := createGuest(t, ts, "Alice").SessionToken
	id := startSession(t, ts, token)

	rr := ts.request(http.MethodPost, "/api/v1/sessions/"+id+"/restart", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)

	snap := decode[response.Session](t, rr)
	assert.Equal(t, 1, snap.Level)
	assert.Equal(t, 0, snap.Score)
	assert.Equal(t, ts.app.Rules.MoveLimit, snap.MovesLeft)
	assert.Equal(t, model.StatusPlaying, snap.Status)
}

func TestFriendsAndLeaderboards(t *testing.T) {
	ts := newTestServer(t)
	alice := createGuest(t, ts, "Alice")
	bob := createGuest(t, ts, "Bob")
	carol := createGuest(t, ts, "Carol")

	rr := ts.request(http.MethodPost, "/api/v1/social/friends", map[string]string{"friend_id": bob.Player.ID}, alice.SessionToken)
	require.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/social/friends", map[string]string{"friend_id": alice.Player.ID}, alice.SessionToken)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeSelfFriend, errorCode(t, rr))

	// Friendship is symmetric
	rr = ts.request(http.MethodGet, "/api/v1/social/friends", nil, bob.SessionToken)
	require.Equal(t, http.StatusOK, rr.Code)
	friends := decode[response.PlayerList](t, rr).Players
	require.Len(t, friends, 1)
	assert.Equal(t, "Alice", friends[0].DisplayName)

	for _, share := range []struct {
		token string
		score int
	}{
		{alice.SessionToken, 1200},
		{bob.SessionToken, 3400},
		{carol.SessionToken, 9000},
	} {
		rr = ts.request(http.MethodPost, "/api/v1/social/share", map[string]int{"score": share.score, "level": 2}, share.token)
		require.Equal(t, http.StatusNoContent, rr.Code)
	}

	rr = ts.request(http.MethodGet, "/api/v1/leaderboard?limit=2", nil, alice.SessionToken)
	require.Equal(t, http.StatusOK, rr.Code)
	global := decode[response.Leaderboard](t, rr).Entries
	require.Len(t, global, 2)
	assert.Equal(t, "Carol", global[0].DisplayName)
	assert.Equal(t, 1, global[0].Rank)
	assert.Equal(t, "Bob", global[1].DisplayName)
	assert.Equal(t, 2, global[1].Level)

	rr = ts.request(http.MethodGet, "/api/v1/leaderboard/friends", nil, alice.SessionToken)
	require.Equal(t, http.StatusOK, rr.Code)
	friendsBoard := decode[response.Leaderboard](t, rr).Entries
	require.Len(t, friendsBoard, 2)
	assert.Equal(t, "Bob", friendsBoard[0].DisplayName)
	assert.Equal(t, "Alice", friendsBoard[1].DisplayName)

	rr = ts.request(http.MethodGet, "/api/v1/social/stats", nil, carol.SessionToken)
	require.Equal(t, http.StatusOK, rr.Code)
	stats := decode[model.PlayerStats](t, rr)
	assert.Equal(t, 9000, stats.HighScore)
	assert.Equal(t, 2, stats.MaxLevel)
}

func TestShareSessionScore(t *testing.T) {
	ts := newTestServer(t)
	alice := createGuest(t, ts, "Alice")
	id := startSession(t, ts, alice.SessionToken)

	rr := ts.request(http.MethodPost, "/api/v1/social/share", map[string]string{"session_id": id}, alice.SessionToken)
	require.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/social/share", map[string]string{"session_id": "MISSING"}, alice.SessionToken)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/social/share", map[string]int{"score": -5}, alice.SessionToken)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestInviteAndChallenge(t *testing.T) {
	ts := newTestServer(t)
	alice := createGuest(t, ts, "Alice")
	bob := createGuest(t, ts, "Bob")

	rr := ts.request(http.MethodPost, "/api/v1/social/invite", nil, alice.SessionToken)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 0, decode[response.CountResponse](t, rr).Count)

	rr = ts.request(http.MethodPost, "/api/v1/social/friends", map[string]string{"friend_id": bob.Player.ID}, alice.SessionToken)
	require.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/social/invite", nil, alice.SessionToken)
	assert.Equal(t, 1, decode[response.CountResponse](t, rr).Count)

	rr = ts.request(http.MethodPost, "/api/v1/social/challenge", map[string]int{"score": 0}, alice.SessionToken)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/social/challenge", map[string]int{"score": 4200}, alice.SessionToken)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 1, decode[response.CountResponse](t, rr).Count)

	rr = ts.request(http.MethodGet, "/api/v1/social/challenges", nil, bob.SessionToken)
	require.Equal(t, http.StatusOK, rr.Code)
	challenges := decode[response.ChallengeList](t, rr).Challenges
	require.Len(t, challenges, 1)
	assert.Equal(t, 4200, challenges[0].Score)
	assert.Equal(t, "Alice", challenges[0].FromName)
}

func TestAchievements(t *testing.T) {
	ts := newTestServer(t)
	token := createGuest(t, ts, "Alice").SessionToken

	rr := ts.request(http.MethodGet, "/api/v1/social/achievements", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)
	achievements := decode[response.AchievementList](t, rr).Achievements
	assert.Len(t, achievements, len(model.AchievementCatalogue()))
	for _, a := range achievements {
		assert.False(t, a.Unlocked, a.ID)
	}

	rr = ts.request(http.MethodPost, "/api/v1/social/achievements/first_match", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, decode[response.UnlockResponse](t, rr).Unlocked)

	rr = ts.request(http.MethodPost, "/api/v1/social/achievements/first_match", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.False(t, decode[response.UnlockResponse](t, rr).Unlocked)

	rr = ts.request(http.MethodPost, "/api/v1/social/achievements/speedrun", nil, token)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, apierr.CodeUnknownAchievement, errorCode(t, rr))
}

func TestSwapUnlocksFirstMatch(t *testing.T) {
	ts := newTestServer(t)
	token := createGuest(t, ts, "Alice").SessionToken
	id := startSession(t, ts, token)

	rr := ts.request(http.MethodPost, "/api/v1/sessions/"+id+"/autoplay", map[string]int{"max_moves": 1}, token)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/social/achievements", nil, token)
	for _, a := range decode[response.AchievementList](t, rr).Achievements {
		if a.ID == model.AchievementFirstMatch {
			assert.True(t, a.Unlocked)
		}
	}
}

func TestWebsocketStream(t *testing.T) {
	ts := newTestServer(t)
	server := httptest.NewServer(ts.handler)
	defer server.Close()

	auth := createGuest(t, ts, "Alice")
	rr := ts.request(http.MethodPost, "/api/v1/sessions", nil, auth.SessionToken)
	require.Equal(t, http.StatusCreated, rr.Code)
	id := string(decode[response.Session](t, rr).ID)

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/v1/sessions/" + id + "/stream?token=" + auth.SessionToken
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var snapshot handler.SnapshotMessage
	require.NoError(t, conn.ReadJSON(&snapshot))
	assert.Equal(t, "snapshot", snapshot.Type)
	assert.Equal(t, model.StatusReady, snapshot.Payload.Status)

	rr = ts.request(http.MethodPost, "/api/v1/sessions/"+id+"/start", nil, auth.SessionToken)
	require.Equal(t, http.StatusOK, rr.Code)

	var event struct {
		Type    model.EventType `json:"type"`
		Payload struct {
			Cause    model.UpdateCause     `json:"cause"`
			Snapshot model.SessionSnapshot `json:"snapshot"`
		} `json:"payload"`
	}
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, model.EventSessionUpdated, event.Type)
	assert.Equal(t, model.CauseStarted, event.Payload.Cause)
	assert.Equal(t, model.StatusPlaying, event.Payload.Snapshot.Status)
}

func TestWebsocketStreamRejectsOtherPlayers(t *testing.T) {
	ts := newTestServer(t)
	alice := createGuest(t, ts, "Alice").SessionToken
	bob := createGuest(t, ts, "Bob").SessionToken
	id := startSession(t, ts, alice)

	rr := ts.request(http.MethodGet, "/api/v1/sessions/"+id+"/stream", nil, bob)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}
