package handler

import (
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/palemoky/usef/internal/apperrors"
	"github.com/palemoky/usef/internal/game/lobby"
	"github.com/palemoky/usef/internal/protocol"
	"github.com/palemoky/usef/internal/types"
)

// handleCreateLobby 创建大厅。成功时连接绑定新分配的用户 ID，
// 发起者成为房主兼唯一成员。
func (h *Handler) handleCreateLobby(client types.ClientInterface, msg *protocol.Message) {
	payload, err := protocol.ParsePayload[protocol.CreateLobbyPayload](msg)
	if err != nil {
		h.sendError(client, apperrors.New(apperrors.KindValidation, "invalid payload"))
		return
	}

	name := strings.TrimSpace(payload.DisplayName)
	if name == "" {
		h.sendError(client, apperrors.New(apperrors.KindValidation, "displayName is required"))
		return
	}
	if client.GetLobby() != 0 {
		h.sendError(client, apperrors.New(apperrors.KindState, "already in a lobby"))
		return
	}

	host := lobby.Member{ID: uuid.New().String(), Name: name}
	l, err := h.directory.CreateLobby(host)
	if err != nil {
		h.sendError(client, err)
		return
	}

	client.SetUser(host.ID, host.Name)
	client.SetLobby(l.ID)
	h.server.BindUser(host.ID, client)

	client.SendMessage(protocol.MustNewMessage(protocol.MsgLobbyCreated, protocol.LobbyCreatedPayload{
		Lobby: lobbyInfo(l),
	}))
}

// handleJoinLobby 凭邀请码加入大厅，其余成员收到 member-joined 通知
func (h *Handler) handleJoinLobby(client types.ClientInterface, msg *protocol.Message) {
	payload, err := protocol.ParsePayload[protocol.JoinLobbyPayload](msg)
	if err != nil {
		h.sendError(client, apperrors.New(apperrors.KindValidation, "invalid payload"))
		return
	}

	name := strings.TrimSpace(payload.DisplayName)
	if name == "" {
		h.sendError(client, apperrors.New(apperrors.KindValidation, "displayName is required"))
		return
	}
	if payload.InviteCode == "" {
		h.sendError(client, apperrors.New(apperrors.KindValidation, "inviteCode is required"))
		return
	}
	if client.GetLobby() != 0 {
		h.sendError(client, apperrors.New(apperrors.KindState, "already in a lobby"))
		return
	}

	user := lobby.Member{ID: uuid.New().String(), Name: name}
	l, err := h.directory.JoinLobby(payload.InviteCode, user)
	if err != nil {
		h.sendError(client, err)
		return
	}

	client.SetUser(user.ID, user.Name)
	client.SetLobby(l.ID)
	h.server.BindUser(user.ID, client)

	client.SendMessage(protocol.MustNewMessage(protocol.MsgLobbyJoined, protocol.LobbyJoinedPayload{
		Lobby: lobbyInfo(l),
		User:  protocol.UserInfo{ID: user.ID, Name: user.Name},
	}))

	// 通知其他成员
	joined := protocol.MustNewMessage(protocol.MsgMemberJoined, protocol.MemberJoinedPayload{
		User: protocol.UserInfo{ID: user.ID, Name: user.Name},
	})
	h.broadcastToLobby(l, func(memberID string) *protocol.Message {
		if memberID == user.ID {
			return nil
		}
		return joined
	})

	log.Printf("👤 %s 加入大厅 %d，当前 %d 人", user.Name, l.ID, len(l.Members))
}

// handleLeaveLobby 主动离开大厅
func (h *Handler) handleLeaveLobby(client types.ClientInterface, msg *protocol.Message) {
	if client.GetLobby() == 0 {
		h.sendError(client, apperrors.ErrNotInLobby)
		return
	}
	h.removeFromLobby(client)
}

// removeFromLobby 把连接对应的用户移出大厅并广播。
// 主动离开和断线走同一条路径，房主移交与对局推进都在这里发生。
func (h *Handler) removeFromLobby(client types.ClientInterface) {
	lobbyID := client.GetLobby()
	userID := client.GetUserID()
	if lobbyID == 0 || userID == "" {
		return
	}

	result, err := h.directory.RemoveMember(lobbyID, userID)
	if err != nil {
		h.sendError(client, err)
		return
	}

	h.server.UnbindUser(userID)
	client.SetLobby(0)

	if result.LobbyDeleted {
		return
	}

	l := result.Lobby
	h.broadcastToLobby(l, func(memberID string) *protocol.Message {
		return protocol.MustNewMessage(protocol.MsgMemberLeft, protocol.MemberLeftPayload{
			Lobby: protocol.MemberLeftLobby{
				LobbyInfo:  lobbyInfo(l),
				LeftUserID: userID,
			},
		})
	})

	// 对局被移除操作改动过（回合推进或提前终局），补发各自视角的快照
	if l.Game != nil && result.GameChanged {
		h.broadcastToLobby(l, func(memberID string) *protocol.Message {
			return protocol.MustNewMessage(protocol.MsgTurnAdvanced, protocol.TurnAdvancedPayload{
				SessionSnapshot: h.buildSnapshot(l.Game, memberID),
				ActorID:         userID,
			})
		})
	}
}
