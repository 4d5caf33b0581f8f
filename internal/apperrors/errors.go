package apperrors

// Kind 错误分类，直接作为协议层 error 事件的 code 字段下发
type Kind string

const (
	KindValidation Kind = "ValidationError" // 载荷格式或语义非法
	KindNotFound   Kind = "NotFoundError"   // 邀请码、玩家或卡牌不存在
	KindState      Kind = "StateError"      // 动作发生在错误的状态下
	KindConflict   Kind = "ConflictError"   // 唯一邀请码分配耗尽
)

// GameError 游戏错误（大厅和对局共享）
type GameError struct {
	Kind    Kind
	Message string
}

func (e *GameError) Error() string {
	return e.Message
}

// New 创建指定分类的错误
func New(kind Kind, message string) *GameError {
	return &GameError{Kind: kind, Message: message}
}

// 预定义错误
var (
	ErrLobbyNotFound   = &GameError{Kind: KindNotFound, Message: "lobby not found"}
	ErrMemberNotFound  = &GameError{Kind: KindNotFound, Message: "member not found"}
	ErrPlayerNotFound  = &GameError{Kind: KindNotFound, Message: "player not found"}
	ErrCardNotFound    = &GameError{Kind: KindNotFound, Message: "card not in hand"}
	ErrNotInLobby      = &GameError{Kind: KindState, Message: "you are not in a lobby"}
	ErrNotHost         = &GameError{Kind: KindState, Message: "only the host can do that"}
	ErrGameStarted     = &GameError{Kind: KindState, Message: "game already started"}
	ErrGameNotStarted  = &GameError{Kind: KindState, Message: "game has not started"}
	ErrGameEnded       = &GameError{Kind: KindState, Message: "game has ended"}
	ErrNotYourTurn     = &GameError{Kind: KindState, Message: "it is not your turn"}
	ErrNotEnoughPlayer = &GameError{Kind: KindState, Message: "at least 2 players required"}
	ErrNotEnoughCards  = &GameError{Kind: KindState, Message: "not enough cards to deal every player"}
	ErrPileEmpty       = &GameError{Kind: KindState, Message: "selected pile is empty"}
	ErrBadDiscard      = &GameError{Kind: KindValidation, Message: "must discard exactly one card you hold"}
	ErrCodeExhausted   = &GameError{Kind: KindConflict, Message: "invite code space exhausted"}
)
