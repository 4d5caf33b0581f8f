package handler

import (
	"context"
	"log"
	"time"

	"github.com/palemoky/usef/internal/apperrors"
	"github.com/palemoky/usef/internal/protocol"
	"github.com/palemoky/usef/internal/types"
)

const queryTimeout = 5 * time.Second

// handleGetStats 查询自己的生涯统计。
// Redis 查询放在独立 goroutine，事件循环不等待
func (h *Handler) handleGetStats(client types.ClientInterface, msg *protocol.Message) {
	userID := client.GetUserID()
	if userID == "" {
		h.sendError(client, apperrors.New(apperrors.KindState, "join a lobby first"))
		return
	}
	name := client.GetName()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
		defer cancel()

		stats, err := h.leaderboard.GetPlayerStats(ctx, userID)
		if err != nil {
			log.Printf("⚠️ 统计查询失败: %v", err)
			h.sendError(client, apperrors.New(apperrors.KindState, "stats unavailable"))
			return
		}
		if stats.PlayerName == "" {
			stats.PlayerName = name
		}

		client.SendMessage(protocol.MustNewMessage(protocol.MsgStatsResult, protocol.StatsResultPayload{
			PlayerID:        stats.PlayerID,
			PlayerName:      stats.PlayerName,
			RoundsPlayed:    stats.RoundsPlayed,
			RoundsWon:       stats.RoundsWon,
			RoundsLost:      stats.RoundsLost,
			WinRate:         stats.WinRate(),
			ShowdownsCalled: stats.ShowdownsCalled,
			PointsConceded:  stats.PointsConceded,
		}))
	}()
}

// handleGetLeaderboard 查询排行榜
func (h *Handler) handleGetLeaderboard(client types.ClientInterface, msg *protocol.Message) {
	payload, err := protocol.ParsePayload[protocol.GetLeaderboardPayload](msg)
	if err != nil {
		h.sendError(client, apperrors.New(apperrors.KindValidation, "invalid payload"))
		return
	}
	limit := payload.Limit

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
		defer cancel()

		entries, err := h.leaderboard.GetLeaderboard(ctx, limit)
		if err != nil {
			log.Printf("⚠️ 排行榜查询失败: %v", err)
			h.sendError(client, apperrors.New(apperrors.KindState, "leaderboard unavailable"))
			return
		}

		result := make([]protocol.LeaderboardEntry, len(entries))
		for i, e := range entries {
			result[i] = protocol.LeaderboardEntry{
				Rank:       e.Rank,
				PlayerID:   e.Stats.PlayerID,
				PlayerName: e.Stats.PlayerName,
				RoundsWon:  e.Stats.RoundsWon,
				WinRate:    e.Stats.WinRate(),
			}
		}
		client.SendMessage(protocol.MustNewMessage(protocol.MsgLeaderboardResult, protocol.LeaderboardResultPayload{
			Entries: result,
		}))
	}()
}
