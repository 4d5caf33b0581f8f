package lobby

import (
	"log"
	"math/rand/v2"

	"github.com/palemoky/usef/internal/apperrors"
	"github.com/palemoky/usef/internal/game/usef"
)

const (
	defaultCodeLength   = 10
	defaultCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

	// 邀请码重试上限。码空间远大于同时存在的大厅数，正常情况下
	// 一两次就能命中；达到上限说明码空间被挤满，返回 ConflictError
	maxCodeAttempts = 100
)

// Directory 进程级大厅注册表。
// 显式构造后注入各处理器，生命周期与进程一致，没有隐藏全局量。
// 所有变更由事件循环串行调度，不加锁。
type Directory struct {
	byID   map[int64]*Lobby
	byCode map[string]*Lobby
	nextID int64
	rng    *rand.Rand

	codeLength   int
	codeAlphabet string
}

// NewDirectory 创建大厅注册表，随机源由调用方注入
func NewDirectory(rng *rand.Rand) *Directory {
	return &Directory{
		byID:         make(map[int64]*Lobby),
		byCode:       make(map[string]*Lobby),
		rng:          rng,
		codeLength:   defaultCodeLength,
		codeAlphabet: defaultCodeAlphabet,
	}
}

// CreateLobby 为房主创建大厅：分配严格递增的大厅 ID 和唯一邀请码，
// 房主成为唯一成员。
func (d *Directory) CreateLobby(host Member) (*Lobby, error) {
	code, err := d.generateUniqueCode()
	if err != nil {
		return nil, err
	}

	d.nextID++
	l := &Lobby{
		ID:      d.nextID,
		Code:    code,
		HostID:  host.ID,
		Members: []Member{host},
	}
	d.byID[l.ID] = l
	d.byCode[l.Code] = l

	log.Printf("🏠 大厅 %d 已创建，邀请码 %s，房主 %s", l.ID, l.Code, host.Name)
	return l, nil
}

// generateUniqueCode 抽取一个未被占用的定长邀请码
func (d *Directory) generateUniqueCode() (string, error) {
	for range maxCodeAttempts {
		buf := make([]byte, d.codeLength)
		for i := range buf {
			buf[i] = d.codeAlphabet[d.rng.IntN(len(d.codeAlphabet))]
		}
		code := string(buf)
		if _, taken := d.byCode[code]; !taken {
			return code, nil
		}
	}
	return "", apperrors.ErrCodeExhausted
}

// JoinLobby 凭邀请码加入大厅。注册表不阻止加入已开局的大厅，
// 能否上桌由对局自己决定。
func (d *Directory) JoinLobby(code string, user Member) (*Lobby, error) {
	l, ok := d.byCode[code]
	if !ok {
		return nil, apperrors.ErrLobbyNotFound
	}
	l.AddMember(user)
	return l, nil
}

// GetLobby 按 ID 获取大厅
func (d *Directory) GetLobby(id int64) *Lobby {
	return d.byID[id]
}

// GetLobbyByCode 按邀请码获取大厅
func (d *Directory) GetLobbyByCode(code string) *Lobby {
	return d.byCode[code]
}

// LobbyCount 当前大厅数量
func (d *Directory) LobbyCount() int {
	return len(d.byID)
}

// RemoveResult 移除成员的结果
type RemoveResult struct {
	Lobby        *Lobby
	LobbyDeleted bool // 最后一名成员离开，大厅已销毁
	HostChanged  bool // 房主已按加入顺序移交
	NewHostID    string
	GameChanged  bool // 离开者在对局中，对局状态已改动
	TurnAdvanced bool // 离开者正持有回合，对局已推进
}

// RemoveMember 将成员移出大厅。
// 房主离开时按加入顺序移交房主；最后一人离开时大厅从两个索引中删除。
// 若对局进行中且离开者持有回合，回合在移除过程中一并推进，
// 对局绝不会停在一个无法行动的玩家身上。
func (d *Directory) RemoveMember(lobbyID int64, userID string) (*RemoveResult, error) {
	l, ok := d.byID[lobbyID]
	if !ok {
		return nil, apperrors.ErrLobbyNotFound
	}
	idx := l.memberIndex(userID)
	if idx == -1 {
		return nil, apperrors.ErrMemberNotFound
	}

	l.Members = append(l.Members[:idx], l.Members[idx+1:]...)
	result := &RemoveResult{Lobby: l}

	if len(l.Members) == 0 {
		delete(d.byID, l.ID)
		delete(d.byCode, l.Code)
		result.LobbyDeleted = true
		log.Printf("🏠 大厅 %d 已解散", l.ID)
		return result, nil
	}

	if l.HostID == userID {
		l.HostID = l.Members[0].ID
		result.HostChanged = true
		result.NewHostID = l.HostID
		log.Printf("👑 大厅 %d 房主移交给 %s", l.ID, l.HostID)
	}

	if l.Game != nil && l.Game.State() == usef.StateAwaitingAction {
		current := l.Game.CurrentPlayer()
		heldTurn := current != nil && current.ID == userID
		if l.Game.RemovePlayer(userID) {
			result.GameChanged = true
			result.TurnAdvanced = heldTurn
		}
	}

	return result, nil
}
