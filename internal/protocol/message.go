package protocol

import "encoding/json"

// Message 基础消息结构
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// MessageType 消息类型
type MessageType string

// 客户端 → 服务端 消息类型
const (
	// 连接操作
	MsgPing MessageType = "ping" // 心跳 ping

	// 大厅操作
	MsgCreateLobby MessageType = "create-lobby" // 创建大厅
	MsgJoinLobby   MessageType = "join-lobby"   // 凭邀请码加入大厅
	MsgLeaveLobby  MessageType = "leave-lobby"  // 主动离开大厅

	// 游戏操作
	MsgStartGame    MessageType = "start-game"    // 房主开始游戏
	MsgTurnAction   MessageType = "turn-action"   // 摸一张、弃一张
	MsgCallShowdown MessageType = "call-showdown" // 喊 Usef 结算本轮

	// 信息查询
	MsgGetStats       MessageType = "get-stats"       // 获取个人统计
	MsgGetLeaderboard MessageType = "get-leaderboard" // 获取排行榜
)

// 服务端 → 客户端 消息类型
const (
	// 连接相关
	MsgConnected MessageType = "connected" // 连接成功
	MsgPong      MessageType = "pong"      // 心跳 pong

	// 大厅相关
	MsgLobbyCreated MessageType = "lobby-created" // 大厅创建成功
	MsgLobbyJoined  MessageType = "lobby-joined"  // 加入大厅成功
	MsgMemberJoined MessageType = "member-joined" // 其他成员加入
	MsgMemberLeft   MessageType = "member-left"   // 成员离开（含房主移交）

	// 游戏流程
	MsgGameStarted   MessageType = "game-started"   // 游戏开始
	MsgTurnAdvanced  MessageType = "turn-advanced"  // 回合推进
	MsgRoundResolved MessageType = "round-resolved" // 本轮结算

	// 信息查询
	MsgStatsResult       MessageType = "stats-result"       // 个人统计结果
	MsgLeaderboardResult MessageType = "leaderboard-result" // 排行榜结果

	// 错误
	MsgError MessageType = "error" // 错误消息
)
