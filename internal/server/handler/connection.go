package handler

import (
	"time"

	"github.com/palemoky/usef/internal/apperrors"
	"github.com/palemoky/usef/internal/protocol"
	"github.com/palemoky/usef/internal/types"
)

// handlePing 心跳，带回客户端时间戳便于测延迟
func (h *Handler) handlePing(client types.ClientInterface, msg *protocol.Message) {
	payload, err := protocol.ParsePayload[protocol.PingPayload](msg)
	if err != nil {
		h.sendError(client, apperrors.New(apperrors.KindValidation, "invalid payload"))
		return
	}

	client.SendMessage(protocol.MustNewMessage(protocol.MsgPong, protocol.PongPayload{
		ClientTimestamp: payload.Timestamp,
		ServerTimestamp: time.Now().UnixMilli(),
	}))
}

// HandleDisconnect 连接断开。断线视同离开：立刻移出大厅，
// 不保留座位，重连后需要重新加入。
func (h *Handler) HandleDisconnect(client types.ClientInterface) {
	if client.GetLobby() != 0 {
		h.removeFromLobby(client)
	}
	if userID := client.GetUserID(); userID != "" {
		h.server.UnbindUser(userID)
	}
}
