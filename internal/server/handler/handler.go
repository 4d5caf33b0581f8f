package handler

import (
	"errors"
	"log"
	"math/rand/v2"

	"github.com/palemoky/usef/internal/apperrors"
	"github.com/palemoky/usef/internal/config"
	"github.com/palemoky/usef/internal/game/lobby"
	"github.com/palemoky/usef/internal/protocol"
	"github.com/palemoky/usef/internal/server/storage"
	"github.com/palemoky/usef/internal/types"
)

// HandlerDeps 处理器的依赖
type HandlerDeps struct {
	Server      types.ServerInterface
	Directory   *lobby.Directory
	Leaderboard *storage.LeaderboardManager
	GameConfig  config.GameConfig
	Rng         *rand.Rand
}

// Handler 消息处理器。
// 所有方法都在事件循环里被串行调用，大厅和对局状态不需要加锁；
// 只有 Redis 查询被放到独立 goroutine，避免阻塞循环。
type Handler struct {
	server      types.ServerInterface
	directory   *lobby.Directory
	leaderboard *storage.LeaderboardManager
	gameCfg     config.GameConfig
	rng         *rand.Rand

	routes map[protocol.MessageType]func(types.ClientInterface, *protocol.Message)
}

// NewHandler 创建消息处理器
func NewHandler(deps HandlerDeps) *Handler {
	h := &Handler{
		server:      deps.Server,
		directory:   deps.Directory,
		leaderboard: deps.Leaderboard,
		gameCfg:     deps.GameConfig,
		rng:         deps.Rng,
	}
	h.routes = map[protocol.MessageType]func(types.ClientInterface, *protocol.Message){
		protocol.MsgPing:           h.handlePing,
		protocol.MsgCreateLobby:    h.handleCreateLobby,
		protocol.MsgJoinLobby:      h.handleJoinLobby,
		protocol.MsgLeaveLobby:     h.handleLeaveLobby,
		protocol.MsgStartGame:      h.handleStartGame,
		protocol.MsgTurnAction:     h.handleTurnAction,
		protocol.MsgCallShowdown:   h.handleCallShowdown,
		protocol.MsgGetStats:       h.handleGetStats,
		protocol.MsgGetLeaderboard: h.handleGetLeaderboard,
	}
	return h
}

// HandleMessage 按消息类型分发
func (h *Handler) HandleMessage(client types.ClientInterface, msg *protocol.Message) {
	route, ok := h.routes[msg.Type]
	if !ok {
		log.Printf("⚠️ 未知消息类型: %s", msg.Type)
		h.sendError(client, apperrors.New(apperrors.KindValidation, "unknown message type: "+string(msg.Type)))
		return
	}
	route(client, msg)
}

// sendError 将错误映射为协议层 error 事件。
// 未分类的错误一律按 StateError 下发，细节只进日志不出网。
func (h *Handler) sendError(client types.ClientInterface, err error) {
	var gameErr *apperrors.GameError
	if errors.As(err, &gameErr) {
		client.SendMessage(protocol.NewErrorMessage(string(gameErr.Kind), gameErr.Message))
		return
	}
	log.Printf("⚠️ 未分类错误: %v", err)
	client.SendMessage(protocol.NewErrorMessage(string(apperrors.KindState), "internal error"))
}

// broadcastToLobby 按成员视角逐个构建并发送消息。
// build 返回 nil 时跳过该成员（比如不需要通知发起者自己）。
func (h *Handler) broadcastToLobby(l *lobby.Lobby, build func(memberID string) *protocol.Message) {
	for _, m := range l.Members {
		msg := build(m.ID)
		if msg == nil {
			continue
		}
		if c := h.server.GetClientByUserID(m.ID); c != nil {
			c.SendMessage(msg)
		}
	}
}

// isOnline 成员当前是否有活跃连接
func (h *Handler) isOnline(userID string) bool {
	return h.server.GetClientByUserID(userID) != nil
}
