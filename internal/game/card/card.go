package card

import (
	"fmt"
	"math/rand/v2"
)

// Suit 定义花色
type Suit int

// Rank 定义点数，0 为王牌，1-13 为 A 到 K
type Rank int

const (
	Clubs    Suit = iota + 1 // 梅花
	Diamonds                 // 方块
	Hearts                   // 红心
	Spades                   // 黑桃
	Joker                    // 王牌
)

const (
	RankJoker Rank = 0
	RankAce   Rank = 1
	RankJack  Rank = 11
	RankQueen Rank = 12
	RankKing  Rank = 13
)

// 王牌之外的四种花色，按建牌顺序
var standardSuits = [...]Suit{Clubs, Diamonds, Hearts, Spades}

// suitNames 花色名称映射表（与协议层的取值一致）
var suitNames = map[Suit]string{
	Clubs:    "CLUBS",
	Diamonds: "DIAMONDS",
	Hearts:   "HEARTS",
	Spades:   "SPADES",
	Joker:    "JOKER",
}

func (s Suit) String() string {
	if name, ok := suitNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Suit(%d)", int(s))
}

// SuitFromString 解析花色名称
func SuitFromString(name string) (Suit, error) {
	for s, n := range suitNames {
		if n == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown suit: %q", name)
}

// suitSymbols 花色符号映射表
var suitSymbols = map[Suit]string{
	Clubs:    "♣",
	Diamonds: "♦",
	Hearts:   "♥",
	Spades:   "♠",
	Joker:    "★",
}

// Symbol 返回花色符号
func (s Suit) Symbol() string {
	return suitSymbols[s]
}

// rankNames 点数字符串映射表
var rankNames = map[Rank]string{
	RankJoker: "JK",
	RankAce:   "A",
	RankJack:  "J",
	RankQueen: "Q",
	RankKing:  "K",
}

func (r Rank) String() string {
	if name, ok := rankNames[r]; ok {
		return name
	}
	return fmt.Sprintf("%d", int(r))
}

// Card 定义一张牌，构造后不可变
type Card struct {
	Suit  Suit
	Rank  Rank
	Value int // 计分点数：花牌记 10，王牌记 0
}

func (c Card) String() string {
	if c.Suit == Joker {
		return "★JK"
	}
	return c.Suit.Symbol() + c.Rank.String()
}

// New 创建一张牌，点数由牌面推导
func New(suit Suit, rank Rank) Card {
	return Card{Suit: suit, Rank: rank, Value: pointValue(suit, rank)}
}

// pointValue 计算牌的点数：J/Q/K 封顶记 10，王牌记 0
func pointValue(suit Suit, rank Rank) int {
	if suit == Joker {
		return 0
	}
	if rank > 10 {
		return 10
	}
	return int(rank)
}

// DeckType 牌组类型
type DeckType int

const (
	DeckStandard DeckType = iota + 1 // 标准 52 张
	DeckJokers                       // 标准 52 张外加两张王牌
)

// deckTypeNames 牌组类型名称映射表
var deckTypeNames = map[DeckType]string{
	DeckStandard: "STANDARD",
	DeckJokers:   "JOKERS",
}

func (dt DeckType) String() string {
	if name, ok := deckTypeNames[dt]; ok {
		return name
	}
	return fmt.Sprintf("DeckType(%d)", int(dt))
}

// DeckTypeFromString 解析牌组类型名称
func DeckTypeFromString(name string) (DeckType, error) {
	for dt, n := range deckTypeNames {
		if n == name {
			return dt, nil
		}
	}
	return 0, fmt.Errorf("unknown deck type: %q", name)
}

// Deck 定义一副牌，末位是牌堆顶
type Deck []Card

// NewDeck 构建指定类型的牌组。
// STANDARD 为 13 点数 × 4 花色共 52 张；
// JOKERS 在其上恰好追加两张王牌，共 54 张。
func NewDeck(deckType DeckType) Deck {
	deck := make(Deck, 0, 54)
	for _, s := range standardSuits {
		for r := RankAce; r <= RankKing; r++ {
			deck = append(deck, New(s, r))
		}
	}
	if deckType == DeckJokers {
		deck = append(deck, New(Joker, RankJoker), New(Joker, RankJoker))
	}
	return deck
}

// Shuffle 原地 Fisher–Yates 洗牌。
// 随机源由调用方注入，测试中使用固定种子即可得到确定结果。
func (d Deck) Shuffle(rng *rand.Rand) {
	for i := len(d) - 1; i >= 1; i-- {
		j := rng.IntN(i + 1)
		d[i], d[j] = d[j], d[i]
	}
}
