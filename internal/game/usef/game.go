package usef

import (
	"fmt"
	"math/rand/v2"

	"github.com/palemoky/usef/internal/apperrors"
	"github.com/palemoky/usef/internal/game/card"
)

// State 对局状态
type State int

const (
	StateDealing        State = iota // 尚未开局
	StateAwaitingAction              // 等待当前玩家行动
	StateEnded                       // 整局结束
)

func (s State) String() string {
	switch s {
	case StateDealing:
		return "dealing"
	case StateAwaitingAction:
		return "awaiting-action"
	case StateEnded:
		return "ended"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// DrawSource 摸牌来源
type DrawSource int

const (
	SourceDeck    DrawSource = iota + 1 // 从牌堆摸
	SourceDiscard                       // 从弃牌堆顶摸
)

// DrawSourceFromString 解析摸牌来源
func DrawSourceFromString(name string) (DrawSource, error) {
	switch name {
	case "DECK":
		return SourceDeck, nil
	case "DISCARD":
		return SourceDiscard, nil
	}
	return 0, fmt.Errorf("unknown draw source: %q", name)
}

func (s DrawSource) String() string {
	if s == SourceDiscard {
		return "DISCARD"
	}
	return "DECK"
}

// Config 对局配置
type Config struct {
	DeckType        card.DeckType
	TurnTimeSeconds int // 回合时限，仅透传给展示层，状态机不强制执行
	InitialHandSize int
	ScoreLimit      int // 任一玩家罚分达到此值后整局结束
}

// CardRef 指代一张手牌（按花色+点数匹配）
type CardRef struct {
	Suit card.Suit
	Rank card.Rank
}

// Seat 开局时的一个座位
type Seat struct {
	ID   string
	Name string
}

// Game 回合制摸弃牌状态机。
// 不变式：deck ∪ discard ∪ 所有手牌恒等于 NewDeck(cfg.DeckType) 生成的多重集。
// 所有修改由外层事件循环串行调度，本身不加锁。
type Game struct {
	cfg     Config
	rng     *rand.Rand
	players []*Player // 按加入顺序
	deck    card.Deck // 末位为堆顶
	discard card.Deck // 末位为堆顶
	turnIdx int
	round   int
	state   State
}

// NewGame 创建对局，随机源由调用方注入
func NewGame(cfg Config, rng *rand.Rand) *Game {
	return &Game{cfg: cfg, rng: rng}
}

// Start 开局：建牌洗牌、按座位顺序发牌、翻一张到弃牌堆，
// 回合指针落在房主座位上。少于 2 人、已开局或牌不够发则失败。
func (g *Game) Start(seats []Seat, hostID string) error {
	if g.state != StateDealing {
		return apperrors.ErrGameStarted
	}
	if len(seats) < 2 {
		return apperrors.ErrNotEnoughPlayer
	}

	deck, err := g.buildDeck(len(seats))
	if err != nil {
		return err
	}
	g.deck = deck
	g.deck.Shuffle(g.rng)

	g.players = make([]*Player, len(seats))
	g.turnIdx = 0
	for i, seat := range seats {
		p := NewPlayer(seat.ID, seat.Name)
		for range g.cfg.InitialHandSize {
			p.AddToHand(g.popDeck())
		}
		g.players[i] = p
		if seat.ID == hostID {
			g.turnIdx = i
		}
	}

	// 翻一张作为弃牌堆的起始牌
	g.discard = append(g.discard, g.popDeck())

	g.round = 1
	g.state = StateAwaitingAction
	return nil
}

// TurnResult 一次摸弃牌的结果
type TurnResult struct {
	Drawn     card.Card
	Discarded card.Card
	Source    DrawSource
	NextTurn  string // 下一个行动玩家的 ID
}

// ApplyTurnAction 当前玩家从指定牌堆摸一张并弃一张。
// 全部校验通过前不做任何修改（check-then-act），失败时状态原样保留。
func (g *Game) ApplyTurnAction(playerID string, source DrawSource, discards []CardRef) (*TurnResult, error) {
	if g.state != StateAwaitingAction {
		if g.state == StateEnded {
			return nil, apperrors.ErrGameEnded
		}
		return nil, apperrors.ErrGameNotStarted
	}
	actor := g.players[g.turnIdx]
	if actor.ID != playerID {
		return nil, apperrors.ErrNotYourTurn
	}

	pile := &g.deck
	if source == SourceDiscard {
		pile = &g.discard
	}
	if len(*pile) == 0 {
		return nil, apperrors.ErrPileEmpty
	}
	drawn := (*pile)[len(*pile)-1]

	// 弃牌必须恰好指向行动后手中的一张牌；摸起来的那张也允许直接弃回
	if len(discards) != 1 {
		return nil, apperrors.ErrBadDiscard
	}
	ref := discards[0]
	fromHand := actor.HoldsCard(ref.Suit, ref.Rank)
	if !fromHand && !(drawn.Suit == ref.Suit && drawn.Rank == ref.Rank) {
		return nil, apperrors.ErrBadDiscard
	}

	// 校验完毕，开始变更
	*pile = (*pile)[:len(*pile)-1]
	actor.AddToHand(drawn)
	discarded, err := actor.RemoveFromHand(ref.Suit, ref.Rank)
	if err != nil {
		// 上面已确认持有，这里不可能失败
		panic(err)
	}
	g.discard = append(g.discard, discarded)

	g.turnIdx = (g.turnIdx + 1) % len(g.players)
	return &TurnResult{
		Drawn:     drawn,
		Discarded: discarded,
		Source:    source,
		NextTurn:  g.players[g.turnIdx].ID,
	}, nil
}

// PlayerScore 单个玩家的本轮结算
type PlayerScore struct {
	ID          string
	Name        string
	HandTotal   int
	RoundPoints int // 本轮加上的罚分
	Total       int // 结算后的累计罚分
}

// ShowdownResult 喊 Usef 的结算结果
type ShowdownResult struct {
	CallerID  string
	CallerWon bool
	Scores    []PlayerScore
	Round     int // 结算的是第几轮
	GameOver  bool
	WinnerID  string // 终局时累计罚分最低者
}

// CallShowdown 当前玩家喊 Usef 结算本轮。
// 喊牌者点数严格低于全场最高时获胜，其余每人把自己的手牌点数
// 计入罚分；否则（并列最高也算）喊牌者独自承担自己的手牌点数。
// 之后或者终局，或者原地重新洗牌发牌进入下一轮，累计罚分保留。
func (g *Game) CallShowdown(playerID string) (*ShowdownResult, error) {
	if g.state != StateAwaitingAction {
		if g.state == StateEnded {
			return nil, apperrors.ErrGameEnded
		}
		return nil, apperrors.ErrGameNotStarted
	}
	caller := g.players[g.turnIdx]
	if caller.ID != playerID {
		return nil, apperrors.ErrNotYourTurn
	}

	callerTotal := caller.HandTotal()
	maxTotal := 0
	for _, p := range g.players {
		if t := p.HandTotal(); t > maxTotal {
			maxTotal = t
		}
	}
	callerWon := callerTotal < maxTotal

	result := &ShowdownResult{
		CallerID:  caller.ID,
		CallerWon: callerWon,
		Round:     g.round,
		Scores:    make([]PlayerScore, len(g.players)),
	}
	for i, p := range g.players {
		handTotal := p.HandTotal()
		roundPoints := 0
		if callerWon {
			// 喊牌者获胜：其余玩家为手里的大牌买单
			if p != caller {
				roundPoints = handTotal
			}
		} else if p == caller {
			// 喊牌失败：自己承担手牌点数
			roundPoints = handTotal
		}
		p.AddPoints(roundPoints)
		result.Scores[i] = PlayerScore{
			ID:          p.ID,
			Name:        p.Name,
			HandTotal:   handTotal,
			RoundPoints: roundPoints,
			Total:       p.Points,
		}
	}

	g.round++
	if g.scoreLimitReached() {
		g.state = StateEnded
		result.GameOver = true
		result.WinnerID = g.lowestScoreID()
		return result, nil
	}

	// 下一轮：同一个对局对象原地重发，喊牌者先手。
	// 开局时已校验过牌数且玩家只减不增，重发不会失败
	if err := g.redeal(); err != nil {
		g.state = StateEnded
		return nil, err
	}
	return result, nil
}

// buildDeck 建一副新牌并校验够发：每人 InitialHandSize 张，再翻一张弃牌
func (g *Game) buildDeck(numPlayers int) (card.Deck, error) {
	deck := card.NewDeck(g.cfg.DeckType)
	if numPlayers*g.cfg.InitialHandSize+1 > len(deck) {
		return nil, apperrors.ErrNotEnoughCards
	}
	return deck, nil
}

// scoreLimitReached 检查是否有玩家达到罚分上限
func (g *Game) scoreLimitReached() bool {
	for _, p := range g.players {
		if p.Points >= g.cfg.ScoreLimit {
			return true
		}
	}
	return false
}

// lowestScoreID 累计罚分最低的玩家 ID，并列取座位靠前者
func (g *Game) lowestScoreID() string {
	best := g.players[0]
	for _, p := range g.players[1:] {
		if p.Points < best.Points {
			best = p
		}
	}
	return best.ID
}

// redeal 重新洗牌发牌进入下一轮，玩家和累计罚分保留。
// 校验通过前不改动任何状态
func (g *Game) redeal() error {
	deck, err := g.buildDeck(len(g.players))
	if err != nil {
		return err
	}
	g.deck = deck
	g.deck.Shuffle(g.rng)
	g.discard = g.discard[:0]

	for _, p := range g.players {
		p.Hand = p.Hand[:0]
		for range g.cfg.InitialHandSize {
			p.AddToHand(g.popDeck())
		}
	}
	g.discard = append(g.discard, g.popDeck())
	return nil
}

// RemovePlayer 将断线玩家移出对局。
// 其手牌压回牌堆底部以维持牌数守恒；若其正持有回合，
// 回合立刻推进到下一位仍在局中的玩家。剩余不足 2 人时整局结束。
func (g *Game) RemovePlayer(playerID string) bool {
	idx := -1
	for i, p := range g.players {
		if p.ID == playerID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return false
	}

	leaving := g.players[idx]
	g.deck = append(card.Deck(append([]card.Card{}, leaving.Hand...)), g.deck...)
	g.players = append(g.players[:idx], g.players[idx+1:]...)

	if len(g.players) < 2 {
		g.state = StateEnded
		g.turnIdx = 0
		return true
	}
	if idx < g.turnIdx {
		g.turnIdx--
	}
	// idx == turnIdx 时指针已经落在下一位玩家上，只需处理回绕
	g.turnIdx %= len(g.players)
	return true
}

// popDeck 摸走牌堆顶的一张
func (g *Game) popDeck() card.Card {
	c := g.deck[len(g.deck)-1]
	g.deck = g.deck[:len(g.deck)-1]
	return c
}

// --- 只读访问 ---

// State 当前状态
func (g *Game) State() State { return g.state }

// Round 当前轮数
func (g *Game) Round() int { return g.round }

// Config 对局配置
func (g *Game) Config() Config { return g.cfg }

// Players 按座位顺序返回玩家
func (g *Game) Players() []*Player { return g.players }

// CurrentPlayer 当前持有回合的玩家，未开局返回 nil
func (g *Game) CurrentPlayer() *Player {
	if g.state != StateAwaitingAction {
		return nil
	}
	return g.players[g.turnIdx]
}

// PlayerByID 按 ID 查找玩家
func (g *Game) PlayerByID(id string) *Player {
	for _, p := range g.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// DeckCount 牌堆剩余张数
func (g *Game) DeckCount() int { return len(g.deck) }

// DiscardCount 弃牌堆张数
func (g *Game) DiscardCount() int { return len(g.discard) }

// DiscardTop 弃牌堆顶的牌
func (g *Game) DiscardTop() (card.Card, bool) {
	if len(g.discard) == 0 {
		return card.Card{}, false
	}
	return g.discard[len(g.discard)-1], true
}
