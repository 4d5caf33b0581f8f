package types

import (
	"github.com/palemoky/usef/internal/protocol"
)

// ServerInterface 定义服务器接口（用于打破循环依赖）
type ServerInterface interface {
	GetOnlineCount() int
	GetClientByUserID(userID string) ClientInterface
	BindUser(userID string, client ClientInterface)
	UnbindUser(userID string)
}

// ClientInterface 定义客户端连接接口。
// 连接建立时只有连接 ID，create-lobby / join-lobby 成功后才绑定用户身份。
type ClientInterface interface {
	GetID() string // 连接 ID
	GetUserID() string
	GetName() string
	SetUser(userID, name string)
	GetLobby() int64 // 所在大厅 ID，0 表示不在大厅
	SetLobby(id int64)
	SendMessage(msg *protocol.Message)
	Close()
}
