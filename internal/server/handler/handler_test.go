package handler

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/usef/internal/config"
	"github.com/palemoky/usef/internal/game/lobby"
	"github.com/palemoky/usef/internal/protocol"
	"github.com/palemoky/usef/internal/server/storage"
	"github.com/palemoky/usef/internal/testutil"
)

type fixture struct {
	handler   *Handler
	server    *testutil.SimpleServer
	directory *lobby.Directory
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	srv := testutil.NewSimpleServer()
	rng := rand.New(rand.NewPCG(3, 4))
	dir := lobby.NewDirectory(rng)

	h := NewHandler(HandlerDeps{
		Server:      srv,
		Directory:   dir,
		Leaderboard: storage.NewLeaderboardManager(rdb),
		GameConfig: config.GameConfig{
			TurnTime:        30,
			InitialHandSize: 5,
			ScoreLimit:      100,
		},
		Rng: rng,
	})
	return &fixture{handler: h, server: srv, directory: dir}
}

// createLobby drives the create flow and returns the created lobby info
func (f *fixture) createLobby(t *testing.T, c *testutil.SimpleClient, name string) protocol.LobbyInfo {
	t.Helper()
	f.handler.HandleMessage(c, protocol.MustNewMessage(protocol.MsgCreateLobby, protocol.CreateLobbyPayload{
		DisplayName: name,
	}))

	msgs := c.MessagesOfType(protocol.MsgLobbyCreated)
	require.Len(t, msgs, 1)
	payload, err := protocol.ParsePayload[protocol.LobbyCreatedPayload](msgs[0])
	require.NoError(t, err)
	return payload.Lobby
}

// joinLobby drives the join flow
func (f *fixture) joinLobby(t *testing.T, c *testutil.SimpleClient, name, code string) {
	t.Helper()
	f.handler.HandleMessage(c, protocol.MustNewMessage(protocol.MsgJoinLobby, protocol.JoinLobbyPayload{
		DisplayName: name,
		InviteCode:  code,
	}))
	require.Len(t, c.MessagesOfType(protocol.MsgLobbyJoined), 1)
}

func (f *fixture) startGame(t *testing.T, host *testutil.SimpleClient) {
	t.Helper()
	f.handler.HandleMessage(host, protocol.MustNewMessage(protocol.MsgStartGame, protocol.StartGamePayload{
		HostUserID: host.UserID,
		Settings:   protocol.GameSettings{DeckType: "STANDARD"},
	}))
	require.Len(t, host.MessagesOfType(protocol.MsgGameStarted), 1)
}

func lastErrorCode(t *testing.T, c *testutil.SimpleClient) string {
	t.Helper()
	msgs := c.MessagesOfType(protocol.MsgError)
	require.NotEmpty(t, msgs)
	payload, err := protocol.ParsePayload[protocol.ErrorPayload](msgs[len(msgs)-1])
	require.NoError(t, err)
	return payload.Code
}

func TestHandleCreateLobby(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	c := &testutil.SimpleClient{ID: "conn1"}

	info := f.createLobby(t, c, "Alice")

	assert.Len(t, info.InviteCode, 10)
	assert.Equal(t, c.UserID, info.HostID)
	require.Len(t, info.Members, 1)
	assert.Equal(t, "Alice", info.Members[0].Name)
	assert.Equal(t, info.ID, c.LobbyID)

	// The connection is now resolvable by user ID
	assert.NotNil(t, f.server.GetClientByUserID(c.UserID))
}

func TestHandleCreateLobby_Validation(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	c := &testutil.SimpleClient{ID: "conn1"}

	f.handler.HandleMessage(c, protocol.MustNewMessage(protocol.MsgCreateLobby, protocol.CreateLobbyPayload{
		DisplayName: "   ",
	}))
	assert.Equal(t, "ValidationError", lastErrorCode(t, c))
	assert.Equal(t, 0, f.directory.LobbyCount())
}

func TestHandleCreateLobby_AlreadyInLobby(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	c := &testutil.SimpleClient{ID: "conn1"}
	f.createLobby(t, c, "Alice")

	f.handler.HandleMessage(c, protocol.MustNewMessage(protocol.MsgCreateLobby, protocol.CreateLobbyPayload{
		DisplayName: "Alice",
	}))
	assert.Equal(t, "StateError", lastErrorCode(t, c))
	assert.Equal(t, 1, f.directory.LobbyCount())
}

func TestHandleJoinLobby(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	host := &testutil.SimpleClient{ID: "conn1"}
	guest := &testutil.SimpleClient{ID: "conn2"}

	info := f.createLobby(t, host, "Alice")
	f.joinLobby(t, guest, "Bob", info.InviteCode)

	// Existing members are notified
	joined := host.MessagesOfType(protocol.MsgMemberJoined)
	require.Len(t, joined, 1)
	payload, err := protocol.ParsePayload[protocol.MemberJoinedPayload](joined[0])
	require.NoError(t, err)
	assert.Equal(t, "Bob", payload.User.Name)

	// The joiner does not get a member-joined for itself
	assert.Empty(t, guest.MessagesOfType(protocol.MsgMemberJoined))
}

func TestHandleJoinLobby_UnknownCode(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	c := &testutil.SimpleClient{ID: "conn1"}

	f.handler.HandleMessage(c, protocol.MustNewMessage(protocol.MsgJoinLobby, protocol.JoinLobbyPayload{
		DisplayName: "Bob",
		InviteCode:  "NOSUCHCODE",
	}))
	assert.Equal(t, "NotFoundError", lastErrorCode(t, c))
}

func TestHandleStartGame(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	host := &testutil.SimpleClient{ID: "conn1"}
	guest := &testutil.SimpleClient{ID: "conn2"}
	info := f.createLobby(t, host, "Alice")
	f.joinLobby(t, guest, "Bob", info.InviteCode)

	f.startGame(t, host)

	// Every member gets a snapshot from its own point of view
	for _, c := range []*testutil.SimpleClient{host, guest} {
		msgs := c.MessagesOfType(protocol.MsgGameStarted)
		require.Len(t, msgs, 1)
		payload, err := protocol.ParsePayload[protocol.GameStartedPayload](msgs[0])
		require.NoError(t, err)

		snap := payload.SessionSnapshot
		assert.Equal(t, 1, snap.Round)
		assert.Equal(t, "awaiting-action", snap.State)
		assert.Len(t, snap.Hand, 5)
		assert.Equal(t, host.UserID, snap.CurrentTurn)
		require.Len(t, snap.Players, 2)
		for _, seat := range snap.Players {
			assert.Equal(t, 5, seat.CardsCount)
		}
	}
}

func TestHandleStartGame_NotHost(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	host := &testutil.SimpleClient{ID: "conn1"}
	guest := &testutil.SimpleClient{ID: "conn2"}
	info := f.createLobby(t, host, "Alice")
	f.joinLobby(t, guest, "Bob", info.InviteCode)

	f.handler.HandleMessage(guest, protocol.MustNewMessage(protocol.MsgStartGame, protocol.StartGamePayload{
		HostUserID: guest.UserID,
		Settings:   protocol.GameSettings{DeckType: "STANDARD"},
	}))
	assert.Equal(t, "StateError", lastErrorCode(t, guest))
	assert.Empty(t, host.MessagesOfType(protocol.MsgGameStarted))
}

func TestHandleStartGame_TooManyPlayersForDeck(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	host := &testutil.SimpleClient{ID: "conn-host"}
	info := f.createLobby(t, host, "Alice")

	// 11 seats x 5 cards + 1 flip exceeds the 52-card standard deck
	for i := 0; i < 10; i++ {
		guest := &testutil.SimpleClient{ID: fmt.Sprintf("conn%d", i)}
		f.joinLobby(t, guest, fmt.Sprintf("Guest%d", i), info.InviteCode)
	}

	f.handler.HandleMessage(host, protocol.MustNewMessage(protocol.MsgStartGame, protocol.StartGamePayload{
		HostUserID: host.UserID,
		Settings:   protocol.GameSettings{DeckType: "STANDARD"},
	}))

	assert.Equal(t, "StateError", lastErrorCode(t, host))
	assert.Empty(t, host.MessagesOfType(protocol.MsgGameStarted))

	// The lobby is still intact and startable once someone leaves
	l := f.directory.GetLobby(host.LobbyID)
	require.NotNil(t, l)
	assert.False(t, l.Started)
}

func TestHandleStartGame_BadDeckType(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	host := &testutil.SimpleClient{ID: "conn1"}
	guest := &testutil.SimpleClient{ID: "conn2"}
	info := f.createLobby(t, host, "Alice")
	f.joinLobby(t, guest, "Bob", info.InviteCode)

	f.handler.HandleMessage(host, protocol.MustNewMessage(protocol.MsgStartGame, protocol.StartGamePayload{
		HostUserID: host.UserID,
		Settings:   protocol.GameSettings{DeckType: "TAROT"},
	}))
	assert.Equal(t, "ValidationError", lastErrorCode(t, host))
}

func TestHandleTurnAction(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	host := &testutil.SimpleClient{ID: "conn1"}
	guest := &testutil.SimpleClient{ID: "conn2"}
	info := f.createLobby(t, host, "Alice")
	f.joinLobby(t, guest, "Bob", info.InviteCode)
	f.startGame(t, host)

	// Read the host's own hand from the start snapshot
	started, err := protocol.ParsePayload[protocol.GameStartedPayload](host.MessagesOfType(protocol.MsgGameStarted)[0])
	require.NoError(t, err)
	chosen := started.SessionSnapshot.Hand[0]

	f.handler.HandleMessage(host, protocol.MustNewMessage(protocol.MsgTurnAction, protocol.TurnActionPayload{
		Source:    "DECK",
		Discarded: []protocol.CardRef{{Suit: chosen.Suit, Rank: chosen.Rank}},
	}))

	for _, c := range []*testutil.SimpleClient{host, guest} {
		msgs := c.MessagesOfType(protocol.MsgTurnAdvanced)
		require.Len(t, msgs, 1)
		payload, err := protocol.ParsePayload[protocol.TurnAdvancedPayload](msgs[0])
		require.NoError(t, err)
		assert.Equal(t, host.UserID, payload.ActorID)
		assert.Equal(t, "DECK", payload.Source)
		assert.Equal(t, chosen.Suit, payload.Discarded.Suit)
		assert.Equal(t, guest.UserID, payload.SessionSnapshot.CurrentTurn)
	}
}

func TestHandleTurnAction_OutOfTurn(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	host := &testutil.SimpleClient{ID: "conn1"}
	guest := &testutil.SimpleClient{ID: "conn2"}
	info := f.createLobby(t, host, "Alice")
	f.joinLobby(t, guest, "Bob", info.InviteCode)
	f.startGame(t, host)

	joined, err := protocol.ParsePayload[protocol.GameStartedPayload](guest.MessagesOfType(protocol.MsgGameStarted)[0])
	require.NoError(t, err)
	chosen := joined.SessionSnapshot.Hand[0]

	f.handler.HandleMessage(guest, protocol.MustNewMessage(protocol.MsgTurnAction, protocol.TurnActionPayload{
		Source:    "DECK",
		Discarded: []protocol.CardRef{{Suit: chosen.Suit, Rank: chosen.Rank}},
	}))
	assert.Equal(t, "StateError", lastErrorCode(t, guest))
	assert.Empty(t, guest.MessagesOfType(protocol.MsgTurnAdvanced))
}

func TestHandleCallShowdown(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	host := &testutil.SimpleClient{ID: "conn1"}
	guest := &testutil.SimpleClient{ID: "conn2"}
	info := f.createLobby(t, host, "Alice")
	f.joinLobby(t, guest, "Bob", info.InviteCode)
	f.startGame(t, host)

	f.handler.HandleMessage(host, protocol.MustNewMessage(protocol.MsgCallShowdown, nil))

	for _, c := range []*testutil.SimpleClient{host, guest} {
		msgs := c.MessagesOfType(protocol.MsgRoundResolved)
		require.Len(t, msgs, 1)
		payload, err := protocol.ParsePayload[protocol.RoundResolvedPayload](msgs[0])
		require.NoError(t, err)
		assert.Equal(t, host.UserID, payload.CallerID)
		require.Len(t, payload.Scores, 2)
		assert.False(t, payload.GameOver)
		// A fresh round is dealt right away
		assert.Equal(t, 2, payload.SessionSnapshot.Round)
		assert.Len(t, payload.SessionSnapshot.Hand, 5)
	}
}

func TestHandleLeaveLobby_HostHandover(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	host := &testutil.SimpleClient{ID: "conn1"}
	guest := &testutil.SimpleClient{ID: "conn2"}
	info := f.createLobby(t, host, "Alice")
	f.joinLobby(t, guest, "Bob", info.InviteCode)
	hostUserID := host.UserID

	f.handler.HandleMessage(host, protocol.MustNewMessage(protocol.MsgLeaveLobby, nil))

	assert.Equal(t, int64(0), host.LobbyID)
	assert.Nil(t, f.server.GetClientByUserID(hostUserID))

	msgs := guest.MessagesOfType(protocol.MsgMemberLeft)
	require.Len(t, msgs, 1)
	payload, err := protocol.ParsePayload[protocol.MemberLeftPayload](msgs[0])
	require.NoError(t, err)
	assert.Equal(t, hostUserID, payload.Lobby.LeftUserID)
	assert.Equal(t, guest.UserID, payload.Lobby.HostID)
}

func TestHandleLeaveLobby_NotInLobby(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	c := &testutil.SimpleClient{ID: "conn1"}
	f.handler.HandleMessage(c, protocol.MustNewMessage(protocol.MsgLeaveLobby, nil))
	assert.Equal(t, "StateError", lastErrorCode(t, c))
}

func TestHandleDisconnect_TearsDownLobby(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	c := &testutil.SimpleClient{ID: "conn1"}
	info := f.createLobby(t, c, "Alice")

	f.handler.HandleDisconnect(c)

	assert.Equal(t, 0, f.directory.LobbyCount())
	assert.Nil(t, f.directory.GetLobbyByCode(info.InviteCode))
}

func TestHandlePing(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	c := &testutil.SimpleClient{ID: "conn1"}

	f.handler.HandleMessage(c, protocol.MustNewMessage(protocol.MsgPing, protocol.PingPayload{Timestamp: 12345}))

	msgs := c.MessagesOfType(protocol.MsgPong)
	require.Len(t, msgs, 1)
	payload, err := protocol.ParsePayload[protocol.PongPayload](msgs[0])
	require.NoError(t, err)
	assert.Equal(t, int64(12345), payload.ClientTimestamp)
	assert.NotZero(t, payload.ServerTimestamp)
}

func TestHandleUnknownMessage(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	c := &testutil.SimpleClient{ID: "conn1"}
	f.handler.HandleMessage(c, &protocol.Message{Type: "no-such-type"})
	assert.Equal(t, "ValidationError", lastErrorCode(t, c))
}
