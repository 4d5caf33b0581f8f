package usef

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/usef/internal/apperrors"
	"github.com/palemoky/usef/internal/game/card"
)

func testConfig() Config {
	return Config{
		DeckType:        card.DeckStandard,
		TurnTimeSeconds: 30,
		InitialHandSize: 5,
		ScoreLimit:      100,
	}
}

func newStartedGame(t *testing.T, cfg Config, names ...string) *Game {
	t.Helper()
	seats := make([]Seat, len(names))
	for i, n := range names {
		seats[i] = Seat{ID: n, Name: n}
	}
	g := NewGame(cfg, rand.New(rand.NewPCG(1, 2)))
	require.NoError(t, g.Start(seats, names[0]))
	return g
}

// totalCards counts deck + discard + every hand
func totalCards(g *Game) int {
	total := g.DeckCount() + g.DiscardCount()
	for _, p := range g.Players() {
		total += len(p.Hand)
	}
	return total
}

func TestStart_Deals(t *testing.T) {
	t.Parallel()

	g := newStartedGame(t, testConfig(), "host", "p2", "p3")

	assert.Equal(t, StateAwaitingAction, g.State())
	assert.Equal(t, 1, g.Round())
	for _, p := range g.Players() {
		assert.Len(t, p.Hand, 5)
	}
	assert.Equal(t, 1, g.DiscardCount())
	assert.Equal(t, 52-3*5-1, g.DeckCount())
	assert.Equal(t, 52, totalCards(g))

	// Host acts first
	require.NotNil(t, g.CurrentPlayer())
	assert.Equal(t, "host", g.CurrentPlayer().ID)
}

func TestStart_NotEnoughPlayers(t *testing.T) {
	t.Parallel()

	g := NewGame(testConfig(), rand.New(rand.NewPCG(1, 2)))
	err := g.Start([]Seat{{ID: "solo", Name: "solo"}}, "solo")
	assert.ErrorIs(t, err, apperrors.ErrNotEnoughPlayer)
}

func TestStart_DeckCannotCoverDeal(t *testing.T) {
	t.Parallel()

	// 11 players x 5 cards + 1 flip needs 56 cards, a standard deck has 52
	seats := make([]Seat, 11)
	for i := range seats {
		seats[i] = Seat{ID: string(rune('a' + i)), Name: "p"}
	}

	g := NewGame(testConfig(), rand.New(rand.NewPCG(1, 2)))
	err := g.Start(seats, seats[0].ID)
	assert.ErrorIs(t, err, apperrors.ErrNotEnoughCards)

	// Rejected deal leaves the game untouched and startable
	assert.Equal(t, StateDealing, g.State())
	assert.Empty(t, g.Players())
	assert.Zero(t, g.DeckCount())

	require.NoError(t, g.Start(seats[:10], seats[0].ID))
	assert.Equal(t, StateAwaitingAction, g.State())
}

func TestStart_JokersDeckCoversOneMore(t *testing.T) {
	t.Parallel()

	// The two jokers do not stretch to an 11th player (56 > 54)
	seats := make([]Seat, 11)
	for i := range seats {
		seats[i] = Seat{ID: string(rune('a' + i)), Name: "p"}
	}

	cfg := testConfig()
	cfg.DeckType = card.DeckJokers
	g := NewGame(cfg, rand.New(rand.NewPCG(1, 2)))
	err := g.Start(seats, seats[0].ID)
	assert.ErrorIs(t, err, apperrors.ErrNotEnoughCards)

	require.NoError(t, g.Start(seats[:10], seats[0].ID))
	assert.Equal(t, 54-10*5-1, g.DeckCount())
}

func TestStart_AlreadyStarted(t *testing.T) {
	t.Parallel()

	g := newStartedGame(t, testConfig(), "host", "p2")
	err := g.Start([]Seat{{ID: "host"}, {ID: "p2"}}, "host")
	assert.ErrorIs(t, err, apperrors.ErrGameStarted)
}

func TestApplyTurnAction_DrawFromDeck(t *testing.T) {
	t.Parallel()

	g := newStartedGame(t, testConfig(), "host", "p2")
	actor := g.CurrentPlayer()
	toDiscard := actor.Hand[0]

	result, err := g.ApplyTurnAction(actor.ID, SourceDeck, []CardRef{{Suit: toDiscard.Suit, Rank: toDiscard.Rank}})
	require.NoError(t, err)

	assert.Equal(t, toDiscard, result.Discarded)
	assert.Equal(t, "p2", result.NextTurn)
	assert.Len(t, actor.Hand, 5)
	assert.Equal(t, 52, totalCards(g))

	top, ok := g.DiscardTop()
	require.True(t, ok)
	assert.Equal(t, toDiscard, top)
}

func TestApplyTurnAction_DrawFromDiscard(t *testing.T) {
	t.Parallel()

	g := newStartedGame(t, testConfig(), "host", "p2")
	actor := g.CurrentPlayer()
	top, ok := g.DiscardTop()
	require.True(t, ok)
	toDiscard := actor.Hand[2]

	result, err := g.ApplyTurnAction(actor.ID, SourceDiscard, []CardRef{{Suit: toDiscard.Suit, Rank: toDiscard.Rank}})
	require.NoError(t, err)

	assert.Equal(t, top, result.Drawn)
	assert.True(t, actor.HoldsCard(top.Suit, top.Rank))
	assert.Equal(t, 1, g.DiscardCount())
	assert.Equal(t, 52, totalCards(g))
}

func TestApplyTurnAction_DiscardDrawnCard(t *testing.T) {
	t.Parallel()

	g := newStartedGame(t, testConfig(), "host", "p2")
	actor := g.CurrentPlayer()
	top, ok := g.DiscardTop()
	require.True(t, ok)

	// Discarding the very card being drawn is allowed
	handBefore := append([]card.Card{}, actor.Hand...)
	result, err := g.ApplyTurnAction(actor.ID, SourceDiscard, []CardRef{{Suit: top.Suit, Rank: top.Rank}})
	require.NoError(t, err)
	assert.Equal(t, top, result.Discarded)
	assert.Equal(t, handBefore, actor.Hand)
}

func TestApplyTurnAction_NotYourTurn(t *testing.T) {
	t.Parallel()

	g := newStartedGame(t, testConfig(), "host", "p2")
	waiting := g.PlayerByID("p2")
	toDiscard := waiting.Hand[0]
	deckBefore := g.DeckCount()

	_, err := g.ApplyTurnAction("p2", SourceDeck, []CardRef{{Suit: toDiscard.Suit, Rank: toDiscard.Rank}})
	assert.ErrorIs(t, err, apperrors.ErrNotYourTurn)

	// Rejected action leaves the state untouched
	assert.Equal(t, deckBefore, g.DeckCount())
	assert.Len(t, waiting.Hand, 5)
	assert.Equal(t, "host", g.CurrentPlayer().ID)
}

func TestApplyTurnAction_BadDiscard(t *testing.T) {
	t.Parallel()

	g := newStartedGame(t, testConfig(), "host", "p2")
	actor := g.CurrentPlayer()

	// A card the actor does not hold and is not drawing
	top, _ := g.DiscardTop()
	var missing CardRef
	for _, s := range []card.Suit{card.Clubs, card.Diamonds, card.Hearts, card.Spades} {
		for r := card.RankAce; r <= card.RankKing; r++ {
			if !actor.HoldsCard(s, r) && !(s == top.Suit && r == top.Rank) {
				missing = CardRef{Suit: s, Rank: r}
			}
		}
	}

	deckBefore := g.DeckCount()
	_, err := g.ApplyTurnAction(actor.ID, SourceDiscard, []CardRef{missing})
	assert.ErrorIs(t, err, apperrors.ErrBadDiscard)
	assert.Equal(t, deckBefore, g.DeckCount())
	assert.Len(t, actor.Hand, 5)

	// Zero or multiple discards are rejected as well
	_, err = g.ApplyTurnAction(actor.ID, SourceDeck, nil)
	assert.ErrorIs(t, err, apperrors.ErrBadDiscard)
}

func TestApplyTurnAction_EmptyDeck(t *testing.T) {
	t.Parallel()

	g := newStartedGame(t, testConfig(), "host", "p2")
	g.deck = g.deck[:0]

	actor := g.CurrentPlayer()
	toDiscard := actor.Hand[0]
	_, err := g.ApplyTurnAction(actor.ID, SourceDeck, []CardRef{{Suit: toDiscard.Suit, Rank: toDiscard.Rank}})
	assert.ErrorIs(t, err, apperrors.ErrPileEmpty)
	assert.Equal(t, StateAwaitingAction, g.State())
}

func TestTurnRotation(t *testing.T) {
	t.Parallel()

	g := newStartedGame(t, testConfig(), "host", "p2", "p3")
	order := []string{"host", "p2", "p3", "host"}

	for i := 0; i < 3; i++ {
		actor := g.CurrentPlayer()
		require.Equal(t, order[i], actor.ID)
		toDiscard := actor.Hand[0]
		result, err := g.ApplyTurnAction(actor.ID, SourceDeck, []CardRef{{Suit: toDiscard.Suit, Rank: toDiscard.Rank}})
		require.NoError(t, err)
		assert.Equal(t, order[i+1], result.NextTurn)
	}
}

// setHands replaces every hand with fixed cards so scoring is predictable
func setHands(g *Game, hands map[string][]card.Card) {
	for _, p := range g.players {
		p.Hand = hands[p.ID]
	}
}

func TestCallShowdown_CallerWins(t *testing.T) {
	t.Parallel()

	g := newStartedGame(t, testConfig(), "host", "p2", "p3")
	setHands(g, map[string][]card.Card{
		"host": {card.New(card.Hearts, 3), card.New(card.Clubs, 5)},                // 8
		"p2":   {card.New(card.Spades, 5), card.New(card.Diamonds, card.RankKing)}, // 15
		"p3":   {card.New(card.Clubs, card.RankQueen), card.New(card.Hearts, 10)},  // 20
	})

	result, err := g.CallShowdown("host")
	require.NoError(t, err)

	assert.True(t, result.CallerWon)
	assert.Equal(t, 1, result.Round)
	assert.False(t, result.GameOver)

	scores := map[string]PlayerScore{}
	for _, s := range result.Scores {
		scores[s.ID] = s
	}
	assert.Equal(t, 0, scores["host"].RoundPoints)
	assert.Equal(t, 15, scores["p2"].RoundPoints)
	assert.Equal(t, 20, scores["p3"].RoundPoints)

	// Next round dealt in place, caller keeps the turn
	assert.Equal(t, 2, g.Round())
	assert.Equal(t, StateAwaitingAction, g.State())
	assert.Equal(t, "host", g.CurrentPlayer().ID)
	assert.Equal(t, 52, totalCards(g))
}

func TestCallShowdown_CallerLoses(t *testing.T) {
	t.Parallel()

	g := newStartedGame(t, testConfig(), "host", "p2")
	setHands(g, map[string][]card.Card{
		"host": {card.New(card.Hearts, card.RankKing), card.New(card.Clubs, 10)}, // 20
		"p2":   {card.New(card.Spades, 2), card.New(card.Diamonds, 3)},           // 5
	})

	result, err := g.CallShowdown("host")
	require.NoError(t, err)

	assert.False(t, result.CallerWon)
	scores := map[string]PlayerScore{}
	for _, s := range result.Scores {
		scores[s.ID] = s
	}
	assert.Equal(t, 20, scores["host"].RoundPoints)
	assert.Equal(t, 0, scores["p2"].RoundPoints)
}

func TestCallShowdown_TieIsALoss(t *testing.T) {
	t.Parallel()

	g := newStartedGame(t, testConfig(), "host", "p2")
	setHands(g, map[string][]card.Card{
		"host": {card.New(card.Hearts, 5), card.New(card.Clubs, 7)},    // 12
		"p2":   {card.New(card.Spades, 5), card.New(card.Diamonds, 7)}, // 12
	})

	// Equal to the table maximum is not strictly below it
	result, err := g.CallShowdown("host")
	require.NoError(t, err)
	assert.False(t, result.CallerWon)
}

func TestCallShowdown_NotYourTurn(t *testing.T) {
	t.Parallel()

	g := newStartedGame(t, testConfig(), "host", "p2")
	_, err := g.CallShowdown("p2")
	assert.ErrorIs(t, err, apperrors.ErrNotYourTurn)
	assert.Equal(t, 1, g.Round())
}

func TestCallShowdown_ScoreLimitEndsGame(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.ScoreLimit = 10
	g := newStartedGame(t, cfg, "host", "p2", "p3")
	setHands(g, map[string][]card.Card{
		"host": {card.New(card.Hearts, card.RankKing), card.New(card.Clubs, 2)}, // 12, caller loses
		"p2":   {card.New(card.Spades, 2)},                                      // 2
		"p3":   {card.New(card.Diamonds, 4)},                                    // 4
	})

	result, err := g.CallShowdown("host")
	require.NoError(t, err)

	assert.True(t, result.GameOver)
	assert.Equal(t, StateEnded, g.State())
	// Lowest cumulative score wins the match; p2 and p3 are tied at 0,
	// the earlier seat takes it
	assert.Equal(t, "p2", result.WinnerID)

	_, err = g.CallShowdown("host")
	assert.ErrorIs(t, err, apperrors.ErrGameEnded)
}

func TestRemovePlayer(t *testing.T) {
	t.Parallel()

	g := newStartedGame(t, testConfig(), "host", "p2", "p3")

	require.True(t, g.RemovePlayer("p2"))
	assert.Len(t, g.Players(), 2)
	// Departing hand goes back to the deck, nothing is lost
	assert.Equal(t, 52, totalCards(g))
	assert.Equal(t, StateAwaitingAction, g.State())

	assert.False(t, g.RemovePlayer("ghost"))

	// Dropping below two players ends the match
	require.True(t, g.RemovePlayer("p3"))
	assert.Equal(t, StateEnded, g.State())
}

func TestRemovePlayer_AdvancesHeldTurn(t *testing.T) {
	t.Parallel()

	g := newStartedGame(t, testConfig(), "host", "p2", "p3")
	require.Equal(t, "host", g.CurrentPlayer().ID)

	require.True(t, g.RemovePlayer("host"))
	assert.Equal(t, "p2", g.CurrentPlayer().ID)
}

func TestRemovePlayer_TurnIndexRepair(t *testing.T) {
	t.Parallel()

	g := newStartedGame(t, testConfig(), "host", "p2", "p3")

	// Advance the turn to p2, then remove the earlier seat
	actor := g.CurrentPlayer()
	toDiscard := actor.Hand[0]
	_, err := g.ApplyTurnAction(actor.ID, SourceDeck, []CardRef{{Suit: toDiscard.Suit, Rank: toDiscard.Rank}})
	require.NoError(t, err)
	require.Equal(t, "p2", g.CurrentPlayer().ID)

	require.True(t, g.RemovePlayer("host"))
	assert.Equal(t, "p2", g.CurrentPlayer().ID)
}
