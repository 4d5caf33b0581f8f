package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const (
	statsKeyPrefix = "usef:stats:"      // 每个玩家一个 JSON
	leaderboardKey = "usef:leaderboard" // ZSet，按赢下的轮数排序
)

// PlayerStats 玩家的生涯统计。
// 只记录跨局的累计数据，对局过程本身从不落盘。
type PlayerStats struct {
	PlayerID        string `json:"playerId"`
	PlayerName      string `json:"playerName"`
	RoundsPlayed    int    `json:"roundsPlayed"`
	RoundsWon       int    `json:"roundsWon"`
	RoundsLost      int    `json:"roundsLost"`
	ShowdownsCalled int    `json:"showdownsCalled"`
	PointsConceded  int    `json:"pointsConceded"`
}

// WinRate 胜率
func (s *PlayerStats) WinRate() float64 {
	if s.RoundsPlayed == 0 {
		return 0
	}
	return float64(s.RoundsWon) / float64(s.RoundsPlayed)
}

// RoundRecord 一名玩家在一轮结算中的结果
type RoundRecord struct {
	PlayerID       string
	PlayerName     string
	Won            bool // 本轮是否获胜（喊牌成功者赢，其余人输；喊牌失败只有喊牌者输）
	Lost           bool
	CalledShowdown bool
	PointsConceded int // 本轮被加上的罚分
}

// LeaderboardManager 基于 Redis 的统计与排行榜
type LeaderboardManager struct {
	client *redis.Client
}

// NewLeaderboardManager 创建排行榜管理器
func NewLeaderboardManager(client *redis.Client) *LeaderboardManager {
	return &LeaderboardManager{client: client}
}

// RecordRound 记录一轮结算，逐个玩家累加统计并刷新排行榜
func (m *LeaderboardManager) RecordRound(ctx context.Context, records []RoundRecord) error {
	for _, r := range records {
		stats, err := m.getStats(ctx, r.PlayerID)
		if err != nil {
			return err
		}
		if stats == nil {
			stats = &PlayerStats{PlayerID: r.PlayerID}
		}
		stats.PlayerName = r.PlayerName
		stats.RoundsPlayed++
		if r.Won {
			stats.RoundsWon++
		}
		if r.Lost {
			stats.RoundsLost++
		}
		if r.CalledShowdown {
			stats.ShowdownsCalled++
		}
		stats.PointsConceded += r.PointsConceded

		if err := m.saveStats(ctx, stats); err != nil {
			return err
		}
	}
	return nil
}

// GetPlayerStats 获取玩家统计，从未上榜的玩家返回全零的统计
func (m *LeaderboardManager) GetPlayerStats(ctx context.Context, playerID string) (*PlayerStats, error) {
	stats, err := m.getStats(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if stats == nil {
		return &PlayerStats{PlayerID: playerID}, nil
	}
	return stats, nil
}

// Entry 排行榜条目
type Entry struct {
	Rank  int
	Stats *PlayerStats
}

// GetLeaderboard 按赢下的轮数取前 limit 名
func (m *LeaderboardManager) GetLeaderboard(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 10
	}

	ids, err := m.client.ZRevRange(ctx, leaderboardKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("读取排行榜失败: %w", err)
	}

	entries := make([]Entry, 0, len(ids))
	for i, id := range ids {
		stats, err := m.getStats(ctx, id)
		if err != nil {
			return nil, err
		}
		if stats == nil {
			// 榜上有名但统计丢失，跳过而不是整体失败
			continue
		}
		entries = append(entries, Entry{Rank: i + 1, Stats: stats})
	}
	return entries, nil
}

// GetPlayerRank 玩家在排行榜上的名次（从 1 开始），未上榜返回 0
func (m *LeaderboardManager) GetPlayerRank(ctx context.Context, playerID string) (int, error) {
	rank, err := m.client.ZRevRank(ctx, leaderboardKey, playerID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("读取排名失败: %w", err)
	}
	return int(rank) + 1, nil
}

// getStats 读取统计 JSON，不存在时返回 (nil, nil)
func (m *LeaderboardManager) getStats(ctx context.Context, playerID string) (*PlayerStats, error) {
	data, err := m.client.Get(ctx, statsKeyPrefix+playerID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("读取统计失败: %w", err)
	}

	var stats PlayerStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, fmt.Errorf("解析统计失败: %w", err)
	}
	return &stats, nil
}

// saveStats 写回统计并同步排行榜分数
func (m *LeaderboardManager) saveStats(ctx context.Context, stats *PlayerStats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("序列化统计失败: %w", err)
	}

	pipe := m.client.TxPipeline()
	pipe.Set(ctx, statsKeyPrefix+stats.PlayerID, data, 0)
	pipe.ZAdd(ctx, leaderboardKey, redis.Z{
		Score:  float64(stats.RoundsWon),
		Member: stats.PlayerID,
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("写入统计失败: %w", err)
	}
	return nil
}
