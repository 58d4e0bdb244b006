package sse

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/colormatch/internal/model"
	"github.com/mcoot/colormatch/internal/testutil"
)

func TestFormatSSEMessage(t *testing.T) {
	tests := []struct {
		name     string
		event    string
		data     string
		expected string
	}{
		{"single line", "game", "<p>hi</p>", "event: game\ndata: <p>hi</p>\n\n"},
		{"multi line", "game", "a\r\nb", "event: game\ndata: a\ndata: b\n\n"},
		{"empty", "ping", "", "event: ping\ndata: \n\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(FormatSSEMessage(tt.event, tt.data)))
		})
	}
}

func TestWrapForOOBSwap(t *testing.T) {
	assert.Equal(t, `<div id="game" hx-swap-oob="true"><p>x</p></div>`, WrapForOOBSwap("game", "<p>x</p>"))
}

type HubSuite struct {
	suite.Suite
	manager     *HubManager
	broadcaster *Broadcaster
}

func TestHubSuite(t *testing.T) {
	suite.Run(t, new(HubSuite))
}

func (s *HubSuite) SetupTest() {
	s.manager = NewHubManager(testutil.NopLogger())
	s.broadcaster = NewBroadcaster(s.manager, testutil.NopLogger())
}

func (s *HubSuite) receive(client *Client) Message {
	select {
	case msg, ok := <-client.Messages():
		s.Require().True(ok, "client channel closed")
		return msg
	case <-time.After(time.Second):
		s.FailNow("client did not receive message")
	}
	return Message{}
}

func (s *HubSuite) connect(id model.SessionID) (*Hub, *Client) {
	hub := s.manager.GetOrCreateHub(id)
	client := NewClient(hub, "player-1")
	hub.Register(client)
	s.Require().Eventually(func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)
	return hub, client
}

func (s *HubSuite) TestGetOrCreateHubReusesHub() {
	first := s.manager.GetOrCreateHub("S1")
	second := s.manager.GetOrCreateHub("S1")

	s.Same(first, second)
	s.Equal(1, s.manager.HubCount())
	s.Nil(s.manager.GetHub("S2"))
}

func (s *HubSuite) TestPublishSendsJSONThenGameHTML() {
	_, client := s.connect("S1")

	s.broadcaster.Publish(model.Event{
		Type:      model.EventSessionUpdated,
		SessionID: "S1",
		Payload: model.SessionUpdatedPayload{
			Cause: model.CauseStarted,
			Snapshot: model.SessionSnapshot{
				ID:     "S1",
				Level:  1,
				Status: model.StatusPlaying,
				Grid:   [][]model.Tile{{{Color: 0, Row: 0, Col: 0}}},
			},
		},
	})

	first := s.receive(client)
	s.Equal(string(model.EventSessionUpdated), first.Event)
	s.False(first.HTML)
	s.Contains(first.Data, `"cause":"started"`)

	second := s.receive(client)
	s.Equal(GameEvent, second.Event)
	s.True(second.HTML)
	s.True(strings.HasPrefix(second.Data, `<div id="game"`))
}

func (s *HubSuite) TestPublishTerminalEventIsJSONOnly() {
	_, client := s.connect("S1")

	s.broadcaster.Publish(model.Event{
		Type:      model.EventGameOver,
		SessionID: "S1",
		Payload:   model.GameOverPayload{Level: 2, Score: 900, GoalProgress: 45},
	})

	msg := s.receive(client)
	s.Equal(string(model.EventGameOver), msg.Event)
	s.Contains(msg.Data, `"score":900`)

	select {
	case extra := <-client.Messages():
		s.Failf("unexpected message", "%+v", extra)
	case <-time.After(50 * time.Millisecond):
	}
}

func (s *HubSuite) TestPublishWithoutWatchersIsNoop() {
	s.broadcaster.Publish(model.Event{Type: model.EventGameOver, SessionID: "nobody"})
	s.Equal(0, s.manager.HubCount())
}

func (s *HubSuite) TestUnregisterClosesClient() {
	hub, client := s.connect("S1")

	hub.Unregister(client)

	_, ok := <-client.Messages()
	s.False(ok)
	s.Equal(0, hub.ClientCount())
}

func (s *HubSuite) TestCleanupEmptyHubs() {
	hub, client := s.connect("S1")
	s.manager.GetOrCreateHub("S2")

	s.Equal(1, s.manager.CleanupEmptyHubs())
	s.Equal(1, s.manager.HubCount())

	hub.Unregister(client)
	s.Require().Eventually(func() bool { return hub.ClientCount() == 0 }, time.Second, 5*time.Millisecond)
	s.Equal(1, s.manager.CleanupEmptyHubs())
}

func TestRemoveHubClosesClients(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())
	hub := manager.GetOrCreateHub("S1")
	client := NewClient(hub, "player-1")
	hub.Register(client)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	manager.RemoveHub("S1")

	select {
	case _, ok := <-client.Messages():
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("client channel not closed")
	}
}
