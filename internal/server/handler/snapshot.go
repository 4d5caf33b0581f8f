package handler

import (
	"github.com/palemoky/usef/internal/game/card"
	"github.com/palemoky/usef/internal/game/lobby"
	"github.com/palemoky/usef/internal/game/usef"
	"github.com/palemoky/usef/internal/protocol"
)

// cardInfo 将一张牌转为协议层表示
func cardInfo(c card.Card) protocol.CardInfo {
	return protocol.CardInfo{
		Suit:  c.Suit.String(),
		Rank:  int(c.Rank),
		Value: c.Value,
	}
}

// buildSnapshot 按接收者视角构建对局快照。
// 只有接收者自己的手牌会出现在快照里，其他玩家只暴露手牌数量。
func (h *Handler) buildSnapshot(g *usef.Game, viewerID string) protocol.SessionSnapshot {
	cfg := g.Config()

	players := g.Players()
	seats := make([]protocol.SeatInfo, len(players))
	var hand []protocol.CardInfo
	for i, p := range players {
		seats[i] = protocol.SeatInfo{
			ID:         p.ID,
			Name:       p.Name,
			CardsCount: len(p.Hand),
			Score:      p.Points,
			Online:     h.isOnline(p.ID),
		}
		if p.ID == viewerID {
			hand = make([]protocol.CardInfo, len(p.Hand))
			for j, c := range p.Hand {
				hand[j] = cardInfo(c)
			}
		}
	}

	currentTurn := ""
	if cur := g.CurrentPlayer(); cur != nil {
		currentTurn = cur.ID
	}

	var discardTop *protocol.CardInfo
	if top, ok := g.DiscardTop(); ok {
		info := cardInfo(top)
		discardTop = &info
	}

	return protocol.SessionSnapshot{
		Round:        g.Round(),
		State:        g.State().String(),
		Players:      seats,
		Hand:         hand,
		CurrentTurn:  currentTurn,
		DeckCount:    g.DeckCount(),
		DiscardCount: g.DiscardCount(),
		DiscardTop:   discardTop,
		TurnTime:     cfg.TurnTimeSeconds,
		ScoreLimit:   cfg.ScoreLimit,
		InitHandSize: cfg.InitialHandSize,
		DeckType:     cfg.DeckType.String(),
	}
}

// lobbyInfo 将大厅转为协议层表示
func lobbyInfo(l *lobby.Lobby) protocol.LobbyInfo {
	members := make([]protocol.UserInfo, len(l.Members))
	for i, m := range l.Members {
		members[i] = protocol.UserInfo{ID: m.ID, Name: m.Name}
	}
	return protocol.LobbyInfo{
		ID:         l.ID,
		InviteCode: l.Code,
		HostID:     l.HostID,
		Members:    members,
		Started:    l.Started,
	}
}
