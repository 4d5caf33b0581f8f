package server

import (
	"log"
	"net/http"

	"github.com/palemoky/usef/internal/protocol"
)

// handleWebSocket 处理新的 WebSocket 连接
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket 升级失败: %v", err)
		return
	}

	client := NewClient(s, conn)
	s.registerClient(client)
	log.Printf("✅ 新连接 %s，当前在线 %d", client.ID, s.GetOnlineCount())

	// 告知客户端其连接 ID
	client.SendMessage(protocol.MustNewMessage(protocol.MsgConnected, protocol.ConnectedPayload{
		ConnectionID: client.ID,
	}))

	go client.WritePump()
	go client.ReadPump()
}
