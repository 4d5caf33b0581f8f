package handler

import (
	"context"
	"log"
	"time"

	"github.com/palemoky/usef/internal/apperrors"
	"github.com/palemoky/usef/internal/game/card"
	"github.com/palemoky/usef/internal/game/lobby"
	"github.com/palemoky/usef/internal/game/usef"
	"github.com/palemoky/usef/internal/protocol"
	"github.com/palemoky/usef/internal/server/storage"
	"github.com/palemoky/usef/internal/types"
)

// memberLobby 取出连接所在的大厅，未进大厅或大厅已消失时报错
func (h *Handler) memberLobby(client types.ClientInterface) (*lobby.Lobby, error) {
	lobbyID := client.GetLobby()
	if lobbyID == 0 {
		return nil, apperrors.ErrNotInLobby
	}
	l := h.directory.GetLobby(lobbyID)
	if l == nil {
		return nil, apperrors.ErrLobbyNotFound
	}
	return l, nil
}

// handleStartGame 房主开局，所有在场成员各收到一份自己视角的快照
func (h *Handler) handleStartGame(client types.ClientInterface, msg *protocol.Message) {
	payload, err := protocol.ParsePayload[protocol.StartGamePayload](msg)
	if err != nil {
		h.sendError(client, apperrors.New(apperrors.KindValidation, "invalid payload"))
		return
	}

	l, err := h.memberLobby(client)
	if err != nil {
		h.sendError(client, err)
		return
	}
	userID := client.GetUserID()
	if userID != l.HostID || (payload.HostUserID != "" && payload.HostUserID != l.HostID) {
		h.sendError(client, apperrors.ErrNotHost)
		return
	}

	deckType := card.DeckStandard
	if payload.Settings.DeckType != "" {
		deckType, err = card.DeckTypeFromString(payload.Settings.DeckType)
		if err != nil {
			h.sendError(client, apperrors.New(apperrors.KindValidation, "unknown deckType"))
			return
		}
	}
	turnTime := payload.Settings.TurnTimeSeconds
	if turnTime <= 0 {
		turnTime = h.gameCfg.TurnTime
	}

	cfg := usef.Config{
		DeckType:        deckType,
		TurnTimeSeconds: turnTime,
		InitialHandSize: h.gameCfg.InitialHandSize,
		ScoreLimit:      h.gameCfg.ScoreLimit,
	}
	if err := l.StartGame(cfg, h.rng); err != nil {
		h.sendError(client, err)
		return
	}

	log.Printf("🎮 大厅 %d 开局，%d 名玩家，牌组 %s", l.ID, len(l.Members), deckType)
	h.broadcastToLobby(l, func(memberID string) *protocol.Message {
		return protocol.MustNewMessage(protocol.MsgGameStarted, protocol.GameStartedPayload{
			SessionSnapshot: h.buildSnapshot(l.Game, memberID),
		})
	})
}

// handleTurnAction 当前玩家摸一张弃一张
func (h *Handler) handleTurnAction(client types.ClientInterface, msg *protocol.Message) {
	payload, err := protocol.ParsePayload[protocol.TurnActionPayload](msg)
	if err != nil {
		h.sendError(client, apperrors.New(apperrors.KindValidation, "invalid payload"))
		return
	}

	l, err := h.memberLobby(client)
	if err != nil {
		h.sendError(client, err)
		return
	}
	if l.Game == nil {
		h.sendError(client, apperrors.ErrGameNotStarted)
		return
	}

	source, err := usef.DrawSourceFromString(payload.Source)
	if err != nil {
		h.sendError(client, apperrors.New(apperrors.KindValidation, "source must be DECK or DISCARD"))
		return
	}
	refs := make([]usef.CardRef, len(payload.Discarded))
	for i, ref := range payload.Discarded {
		suit, err := card.SuitFromString(ref.Suit)
		if err != nil {
			h.sendError(client, apperrors.New(apperrors.KindValidation, "unknown suit"))
			return
		}
		refs[i] = usef.CardRef{Suit: suit, Rank: card.Rank(ref.Rank)}
	}

	result, err := l.Game.ApplyTurnAction(client.GetUserID(), source, refs)
	if err != nil {
		h.sendError(client, err)
		return
	}

	h.broadcastToLobby(l, func(memberID string) *protocol.Message {
		return protocol.MustNewMessage(protocol.MsgTurnAdvanced, protocol.TurnAdvancedPayload{
			SessionSnapshot: h.buildSnapshot(l.Game, memberID),
			ActorID:         client.GetUserID(),
			Source:          result.Source.String(),
			Discarded:       cardInfo(result.Discarded),
		})
	})
}

// handleCallShowdown 当前玩家喊 Usef 结算本轮
func (h *Handler) handleCallShowdown(client types.ClientInterface, msg *protocol.Message) {
	l, err := h.memberLobby(client)
	if err != nil {
		h.sendError(client, err)
		return
	}
	if l.Game == nil {
		h.sendError(client, apperrors.ErrGameNotStarted)
		return
	}

	result, err := l.Game.CallShowdown(client.GetUserID())
	if err != nil {
		h.sendError(client, err)
		return
	}

	log.Printf("🃏 大厅 %d 第 %d 轮结算，喊牌者 %s 获胜=%v", l.ID, result.Round, result.CallerID, result.CallerWon)

	scores := make([]protocol.RoundScore, len(result.Scores))
	for i, s := range result.Scores {
		scores[i] = protocol.RoundScore{
			PlayerID:    s.ID,
			PlayerName:  s.Name,
			HandTotal:   s.HandTotal,
			RoundPoints: s.RoundPoints,
			TotalScore:  s.Total,
		}
	}

	h.broadcastToLobby(l, func(memberID string) *protocol.Message {
		return protocol.MustNewMessage(protocol.MsgRoundResolved, protocol.RoundResolvedPayload{
			CallerID:        result.CallerID,
			CallerWon:       result.CallerWon,
			Scores:          scores,
			GameOver:        result.GameOver,
			WinnerID:        result.WinnerID,
			SessionSnapshot: h.buildSnapshot(l.Game, memberID),
		})
	})

	h.recordRound(result)
}

// recordRound 把一轮结算异步写入 Redis 统计。
// 统计是尽力而为的旁路，失败只打日志，绝不影响对局流程。
func (h *Handler) recordRound(result *usef.ShowdownResult) {
	records := make([]storage.RoundRecord, len(result.Scores))
	for i, s := range result.Scores {
		isCaller := s.ID == result.CallerID
		records[i] = storage.RoundRecord{
			PlayerID:       s.ID,
			PlayerName:     s.Name,
			Won:            result.CallerWon && isCaller,
			Lost:           (result.CallerWon && !isCaller) || (!result.CallerWon && isCaller),
			CalledShowdown: isCaller,
			PointsConceded: s.RoundPoints,
		}
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := h.leaderboard.RecordRound(ctx, records); err != nil {
			log.Printf("⚠️ 统计写入失败: %v", err)
		}
	}()
}
