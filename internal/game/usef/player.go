package usef

import (
	"github.com/palemoky/usef/internal/apperrors"
	"github.com/palemoky/usef/internal/game/card"
)

// Player 对局中的玩家，由所属 Game 独占持有
type Player struct {
	ID   string
	Name string
	Hand []card.Card // 手牌，按拿牌顺序
	// 累计罚分。罚分只增不减，先到 score_limit 者输掉整局
	Points int
}

// NewPlayer 创建玩家
func NewPlayer(id, name string) *Player {
	return &Player{ID: id, Name: name}
}

// AddToHand 将一张牌加入手牌
func (p *Player) AddToHand(c card.Card) {
	p.Hand = append(p.Hand, c)
}

// RemoveFromHand 按花色+点数移除手中第一张匹配的牌并返回。
// 匹配与牌对象身份无关，同点同花的多张牌（如两张王）移除最先拿到的那张。
func (p *Player) RemoveFromHand(suit card.Suit, rank card.Rank) (card.Card, error) {
	for i, c := range p.Hand {
		if c.Suit == suit && c.Rank == rank {
			p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
			return c, nil
		}
	}
	return card.Card{}, apperrors.ErrCardNotFound
}

// HoldsCard 检查手中是否有指定花色+点数的牌
func (p *Player) HoldsCard(suit card.Suit, rank card.Rank) bool {
	for _, c := range p.Hand {
		if c.Suit == suit && c.Rank == rank {
			return true
		}
	}
	return false
}

// HandTotal 手牌点数合计
func (p *Player) HandTotal() int {
	total := 0
	for _, c := range p.Hand {
		total += c.Value
	}
	return total
}

// AddPoints 追加罚分
func (p *Player) AddPoints(points int) {
	p.Points += points
}
