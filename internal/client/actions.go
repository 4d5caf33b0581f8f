package client

import (
	"time"

	"github.com/palemoky/usef/internal/protocol"
)

// CreateLobby 创建大厅
func (c *Client) CreateLobby(displayName string) error {
	return c.Send(protocol.MsgCreateLobby, protocol.CreateLobbyPayload{
		DisplayName: displayName,
	})
}

// JoinLobby 凭邀请码加入大厅
func (c *Client) JoinLobby(displayName, inviteCode string) error {
	return c.Send(protocol.MsgJoinLobby, protocol.JoinLobbyPayload{
		DisplayName: displayName,
		InviteCode:  inviteCode,
	})
}

// LeaveLobby 离开大厅
func (c *Client) LeaveLobby() error {
	return c.Send(protocol.MsgLeaveLobby, nil)
}

// StartGame 房主开局
func (c *Client) StartGame(deckType string, turnTimeSeconds int) error {
	return c.Send(protocol.MsgStartGame, protocol.StartGamePayload{
		HostUserID: c.UserID,
		Settings: protocol.GameSettings{
			DeckType:        deckType,
			TurnTimeSeconds: turnTimeSeconds,
		},
	})
}

// TurnAction 从指定牌堆摸一张并弃一张
func (c *Client) TurnAction(source string, discard protocol.CardRef) error {
	return c.Send(protocol.MsgTurnAction, protocol.TurnActionPayload{
		Source:    source,
		Discarded: []protocol.CardRef{discard},
	})
}

// CallShowdown 喊 Usef 结算本轮
func (c *Client) CallShowdown() error {
	return c.Send(protocol.MsgCallShowdown, nil)
}

// GetStats 查询个人统计
func (c *Client) GetStats() error {
	return c.Send(protocol.MsgGetStats, nil)
}

// GetLeaderboard 查询排行榜
func (c *Client) GetLeaderboard(limit int) error {
	return c.Send(protocol.MsgGetLeaderboard, protocol.GetLeaderboardPayload{Limit: limit})
}

// Ping 测量延迟
func (c *Client) Ping() error {
	return c.Send(protocol.MsgPing, protocol.PingPayload{
		Timestamp: time.Now().UnixMilli(),
	})
}
