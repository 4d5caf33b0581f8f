package lobby

import (
	"math/rand/v2"

	"github.com/palemoky/usef/internal/apperrors"
	"github.com/palemoky/usef/internal/game/usef"
)

// Member 大厅成员
type Member struct {
	ID   string
	Name string
}

// Lobby 游戏大厅：成员、房主和至多一个对局。
// 对局一经创建便伴随大厅整个生命周期，新一轮在对局内部重发，
// 不会替换对局对象。
type Lobby struct {
	ID      int64
	Code    string // 邀请码
	HostID  string
	Members []Member // 按加入顺序
	Game    *usef.Game
	Started bool
}

// AddMember 追加成员。开局后加入的成员只旁观，不进对局。
func (l *Lobby) AddMember(m Member) {
	l.Members = append(l.Members, m)
}

// HasMember 检查成员是否在大厅中
func (l *Lobby) HasMember(userID string) bool {
	return l.memberIndex(userID) != -1
}

// memberIndex 成员在加入顺序中的下标，不存在返回 -1
func (l *Lobby) memberIndex(userID string) int {
	for i, m := range l.Members {
		if m.ID == userID {
			return i
		}
	}
	return -1
}

// MemberIDs 按加入顺序返回成员 ID
func (l *Lobby) MemberIDs() []string {
	ids := make([]string, len(l.Members))
	for i, m := range l.Members {
		ids[i] = m.ID
	}
	return ids
}

// StartGame 由房主开局。大厅已开局则失败；成员人数校验在对局内完成。
func (l *Lobby) StartGame(cfg usef.Config, rng *rand.Rand) error {
	if l.Started {
		return apperrors.ErrGameStarted
	}

	seats := make([]usef.Seat, len(l.Members))
	for i, m := range l.Members {
		seats[i] = usef.Seat{ID: m.ID, Name: m.Name}
	}

	g := usef.NewGame(cfg, rng)
	if err := g.Start(seats, l.HostID); err != nil {
		return err
	}

	l.Game = g
	l.Started = true
	return nil
}
