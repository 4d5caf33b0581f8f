package protocol

// --- 客户端请求 Payloads ---

// PingPayload 心跳请求
type PingPayload struct {
	Timestamp int64 `json:"timestamp"` // 客户端时间戳（毫秒）
}

// CreateLobbyPayload 创建大厅请求
type CreateLobbyPayload struct {
	DisplayName string `json:"displayName"`
}

// JoinLobbyPayload 加入大厅请求
type JoinLobbyPayload struct {
	DisplayName string `json:"displayName"`
	InviteCode  string `json:"inviteCode"`
}

// GameSettings 开局设置（turnTimeSeconds 仅作为展示层的提示，核心不强制执行）
type GameSettings struct {
	DeckType        string `json:"deckType"`        // STANDARD / JOKERS
	TurnTimeSeconds int    `json:"turnTimeSeconds"` // 回合时限（秒）
}

// StartGamePayload 开始游戏请求
type StartGamePayload struct {
	HostUserID string       `json:"hostUserId"`
	Settings   GameSettings `json:"settings"`
}

// CardRef 指代玩家手中的一张牌（按花色+点数匹配，与牌对象身份无关）
type CardRef struct {
	Suit string `json:"suit"`
	Rank int    `json:"rank"`
}

// TurnActionPayload 摸弃牌请求
type TurnActionPayload struct {
	Source    string    `json:"source"`    // DECK / DISCARD
	Discarded []CardRef `json:"discarded"` // 必须恰好指向手中的一张牌
}

// GetLeaderboardPayload 获取排行榜请求
type GetLeaderboardPayload struct {
	Limit int `json:"limit"` // 数量，默认 10
}

// --- 服务端响应 Payloads ---

// ConnectedPayload 连接成功响应
type ConnectedPayload struct {
	ConnectionID string `json:"connectionId"`
}

// PongPayload 心跳响应
type PongPayload struct {
	ClientTimestamp int64 `json:"clientTimestamp"`
	ServerTimestamp int64 `json:"serverTimestamp"`
}

// UserInfo 用户信息
type UserInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// LobbyInfo 大厅信息
type LobbyInfo struct {
	ID         int64      `json:"id"`
	InviteCode string     `json:"inviteCode"`
	HostID     string     `json:"hostId"`
	Members    []UserInfo `json:"members"` // 按加入顺序
	Started    bool       `json:"started"`
}

// LobbyCreatedPayload 大厅创建成功响应
type LobbyCreatedPayload struct {
	Lobby LobbyInfo `json:"lobby"`
}

// LobbyJoinedPayload 加入大厅成功响应
type LobbyJoinedPayload struct {
	Lobby LobbyInfo `json:"lobby"`
	User  UserInfo  `json:"user"`
}

// MemberJoinedPayload 其他成员加入通知
type MemberJoinedPayload struct {
	User UserInfo `json:"user"`
}

// MemberLeftPayload 成员离开通知（携带更新后的大厅，房主可能已移交）
type MemberLeftPayload struct {
	Lobby MemberLeftLobby `json:"lobby"`
}

// MemberLeftLobby 成员离开后的大厅信息
type MemberLeftLobby struct {
	LobbyInfo
	LeftUserID string `json:"leftUserId"`
}

// CardInfo 牌信息
type CardInfo struct {
	Suit  string `json:"suit"`  // CLUBS / DIAMONDS / HEARTS / SPADES / JOKER
	Rank  int    `json:"rank"`  // 0-13，0 为王牌
	Value int    `json:"value"` // 点数，花牌记 10，王牌记 0
}

// SeatInfo 对局中的玩家信息（对其他人只暴露手牌数量）
type SeatInfo struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	CardsCount int    `json:"cardsCount"`
	Score      int    `json:"score"`
	Online     bool   `json:"online"`
}

// SessionSnapshot 对局快照（按接收者视角构建，只含自己的手牌）
type SessionSnapshot struct {
	Round        int        `json:"round"`
	State        string     `json:"state"` // dealing / awaiting-action / ended
	Players      []SeatInfo `json:"players"`
	Hand         []CardInfo `json:"hand"`
	CurrentTurn  string     `json:"currentTurn"` // 当前回合玩家 ID
	DeckCount    int        `json:"deckCount"`
	DiscardCount int        `json:"discardCount"`
	DiscardTop   *CardInfo  `json:"discardTop,omitempty"`
	TurnTime     int        `json:"turnTimeSeconds"`
	ScoreLimit   int        `json:"scoreLimit"`
	InitHandSize int        `json:"initialHandSize"`
	DeckType     string     `json:"deckType"`
}

// GameStartedPayload 游戏开始通知
type GameStartedPayload struct {
	SessionSnapshot SessionSnapshot `json:"sessionSnapshot"`
}

// TurnAdvancedPayload 回合推进通知
type TurnAdvancedPayload struct {
	SessionSnapshot SessionSnapshot `json:"sessionSnapshot"`
	ActorID         string          `json:"actorId"`
	Source          string          `json:"source"`
	Discarded       CardInfo        `json:"discarded"`
}

// RoundScore 单个玩家的本轮结算
type RoundScore struct {
	PlayerID    string `json:"playerId"`
	PlayerName  string `json:"playerName"`
	HandTotal   int    `json:"handTotal"`
	RoundPoints int    `json:"roundPoints"` // 本轮加到总分上的罚分
	TotalScore  int    `json:"totalScore"`
}

// RoundResolvedPayload 本轮结算通知
type RoundResolvedPayload struct {
	CallerID        string          `json:"callerId"`
	CallerWon       bool            `json:"callerWon"`
	Scores          []RoundScore    `json:"scores"`
	GameOver        bool            `json:"gameOver"`
	WinnerID        string          `json:"winnerId,omitempty"` // 终局时总分最低者
	SessionSnapshot SessionSnapshot `json:"sessionSnapshot"`
}

// ErrorPayload 错误响应
type ErrorPayload struct {
	Code    string `json:"code"` // ValidationError / NotFoundError / StateError / ConflictError
	Message string `json:"message"`
}

// StatsResultPayload 个人统计结果
type StatsResultPayload struct {
	PlayerID        string  `json:"playerId"`
	PlayerName      string  `json:"playerName"`
	RoundsPlayed    int     `json:"roundsPlayed"`
	RoundsWon       int     `json:"roundsWon"`
	RoundsLost      int     `json:"roundsLost"`
	WinRate         float64 `json:"winRate"`
	ShowdownsCalled int     `json:"showdownsCalled"`
	PointsConceded  int     `json:"pointsConceded"` // 累计被加上的罚分
}

// LeaderboardResultPayload 排行榜结果
type LeaderboardResultPayload struct {
	Entries []LeaderboardEntry `json:"entries"`
}

// LeaderboardEntry 排行榜条目
type LeaderboardEntry struct {
	Rank       int     `json:"rank"`
	PlayerID   string  `json:"playerId"`
	PlayerName string  `json:"playerName"`
	RoundsWon  int     `json:"roundsWon"`
	WinRate    float64 `json:"winRate"`
}
