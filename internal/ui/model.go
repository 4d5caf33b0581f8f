package ui

import (
	"log"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/palemoky/usef/internal/client"
	"github.com/palemoky/usef/internal/protocol"
)

// GamePhase 客户端所处阶段
type GamePhase int

const (
	PhaseConnecting GamePhase = iota
	PhaseName                 // 输入昵称
	PhaseMenu                 // 选择创建或加入
	PhaseJoinCode             // 输入邀请码
	PhaseLobby                // 等待开局
	PhasePlaying
	PhaseRoundEnd    // 展示本轮结算
	PhaseGameOver    // 整局结束
	PhaseLeaderboard // 展示排行榜
)

// ServerMessage 服务器消息（用于 tea.Msg）
type ServerMessage struct {
	Msg *protocol.Message
}

// ConnectedMsg 连接成功消息
type ConnectedMsg struct{}

// ConnectionErrorMsg 连接错误消息
type ConnectionErrorMsg struct {
	Err error
}

// DisconnectedMsg 连接断开消息
type DisconnectedMsg struct{}

// Model 客户端主 model
type Model struct {
	client *client.Client
	phase  GamePhase
	error  string

	playerName string
	deckType   string // 开局时请求的牌组类型，仅房主生效

	lobby    *protocol.LobbyInfo
	snapshot *protocol.SessionSnapshot

	lastRound   *protocol.RoundResolvedPayload
	leaderboard []protocol.LeaderboardEntry

	selected int // 选中的手牌下标

	input  textinput.Model
	width  int
	height int
}

// NewModel 创建客户端 model
func NewModel(serverURL, deckType string) *Model {
	ti := textinput.New()
	ti.Placeholder = "输入昵称..."
	ti.CharLimit = 20
	ti.Width = 24
	ti.Focus()

	return &Model{
		client:   client.NewClient(serverURL),
		phase:    PhaseConnecting,
		deckType: deckType,
		input:    ti,
	}
}

func (m *Model) Init() tea.Cmd {
	return m.connectToServer()
}

// connectToServer 建立 WebSocket 连接
func (m *Model) connectToServer() tea.Cmd {
	return func() tea.Msg {
		if err := m.client.Connect(); err != nil {
			return ConnectionErrorMsg{Err: err}
		}
		return ConnectedMsg{}
	}
}

// listenForMessages 等待下一条服务器消息
func (m *Model) listenForMessages() tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-m.client.Receive()
		if !ok {
			return DisconnectedMsg{}
		}
		return ServerMessage{Msg: msg}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case ConnectedMsg:
		m.phase = PhaseName
		return m, m.listenForMessages()

	case ConnectionErrorMsg:
		m.error = "无法连接服务器: " + msg.Err.Error()
		return m, tea.Quit

	case DisconnectedMsg:
		m.error = "与服务器的连接已断开"
		return m, tea.Quit

	case ServerMessage:
		cmd := m.handleServerMessage(msg.Msg)
		return m, tea.Batch(cmd, m.listenForMessages())

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// handleServerMessage 处理服务器下发的事件
func (m *Model) handleServerMessage(msg *protocol.Message) tea.Cmd {
	switch msg.Type {
	case protocol.MsgLobbyCreated:
		if p, err := protocol.ParsePayload[protocol.LobbyCreatedPayload](msg); err == nil {
			m.lobby = &p.Lobby
			m.phase = PhaseLobby
			m.error = ""
		}

	case protocol.MsgLobbyJoined:
		if p, err := protocol.ParsePayload[protocol.LobbyJoinedPayload](msg); err == nil {
			m.lobby = &p.Lobby
			m.phase = PhaseLobby
			m.error = ""
		}

	case protocol.MsgMemberJoined:
		if p, err := protocol.ParsePayload[protocol.MemberJoinedPayload](msg); err == nil && m.lobby != nil {
			m.lobby.Members = append(m.lobby.Members, p.User)
		}

	case protocol.MsgMemberLeft:
		if p, err := protocol.ParsePayload[protocol.MemberLeftPayload](msg); err == nil {
			m.lobby = &p.Lobby.LobbyInfo
		}

	case protocol.MsgGameStarted:
		if p, err := protocol.ParsePayload[protocol.GameStartedPayload](msg); err == nil {
			m.snapshot = &p.SessionSnapshot
			m.selected = 0
			m.phase = PhasePlaying
			m.error = ""
		}

	case protocol.MsgTurnAdvanced:
		if p, err := protocol.ParsePayload[protocol.TurnAdvancedPayload](msg); err == nil {
			m.snapshot = &p.SessionSnapshot
			m.clampSelection()
		}

	case protocol.MsgRoundResolved:
		if p, err := protocol.ParsePayload[protocol.RoundResolvedPayload](msg); err == nil {
			m.snapshot = &p.SessionSnapshot
			m.lastRound = p
			m.clampSelection()
			if p.GameOver {
				m.phase = PhaseGameOver
			} else {
				m.phase = PhaseRoundEnd
			}
		}

	case protocol.MsgLeaderboardResult:
		if p, err := protocol.ParsePayload[protocol.LeaderboardResultPayload](msg); err == nil {
			m.leaderboard = p.Entries
			m.phase = PhaseLeaderboard
		}

	case protocol.MsgError:
		if p, err := protocol.ParsePayload[protocol.ErrorPayload](msg); err == nil {
			m.error = p.Message
		}

	default:
		log.Printf("未处理的消息类型: %s", msg.Type)
	}
	return nil
}

// clampSelection 手牌数量变化后收拢选中下标
func (m *Model) clampSelection() {
	if m.snapshot == nil || len(m.snapshot.Hand) == 0 {
		m.selected = 0
		return
	}
	if m.selected >= len(m.snapshot.Hand) {
		m.selected = len(m.snapshot.Hand) - 1
	}
}

// handleKey 处理按键
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.client.Close()
		return m, tea.Quit
	}

	switch m.phase {
	case PhaseName:
		if msg.Type == tea.KeyEnter {
			if name := m.input.Value(); name != "" {
				m.playerName = name
				m.input.Reset()
				m.phase = PhaseMenu
			}
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd

	case PhaseMenu:
		switch msg.String() {
		case "c":
			m.client.CreateLobby(m.playerName)
		case "j":
			m.input.Placeholder = "输入邀请码..."
			m.input.Reset()
			m.phase = PhaseJoinCode
		case "q":
			m.client.Close()
			return m, tea.Quit
		}
		return m, nil

	case PhaseJoinCode:
		if msg.Type == tea.KeyEnter {
			if code := m.input.Value(); code != "" {
				m.client.JoinLobby(m.playerName, code)
			}
			return m, nil
		}
		if msg.Type == tea.KeyEsc {
			m.phase = PhaseMenu
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd

	case PhaseLobby:
		switch msg.String() {
		case "s":
			// 只有房主能开局，非房主会收到 error 事件
			m.client.StartGame(m.deckType, 0)
		case "q":
			m.client.LeaveLobby()
			m.lobby = nil
			m.phase = PhaseMenu
		}
		return m, nil

	case PhasePlaying:
		return m.handleGameKey(msg)

	case PhaseRoundEnd:
		if msg.String() == "enter" || msg.Type == tea.KeyEnter {
			m.lastRound = nil
			m.phase = PhasePlaying
		}
		return m, nil

	case PhaseGameOver:
		switch msg.String() {
		case "l":
			m.client.GetLeaderboard(10)
		case "q":
			m.client.Close()
			return m, tea.Quit
		}
		return m, nil

	case PhaseLeaderboard:
		if msg.Type == tea.KeyEsc || msg.String() == "q" {
			m.phase = PhaseGameOver
		}
		return m, nil
	}

	return m, nil
}

// handleGameKey 对局中的按键
func (m *Model) handleGameKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.snapshot == nil {
		return m, nil
	}

	switch msg.String() {
	case "left", "h":
		if m.selected > 0 {
			m.selected--
		}
	case "right", "l":
		if m.selected < len(m.snapshot.Hand)-1 {
			m.selected++
		}
	case "d":
		m.sendTurnAction("DECK")
	case "f":
		m.sendTurnAction("DISCARD")
	case "u":
		m.client.CallShowdown()
	case "q":
		m.client.LeaveLobby()
		m.lobby = nil
		m.snapshot = nil
		m.phase = PhaseMenu
	}
	return m, nil
}

// sendTurnAction 摸一张并弃掉选中的手牌
func (m *Model) sendTurnAction(source string) {
	if len(m.snapshot.Hand) == 0 {
		return
	}
	chosen := m.snapshot.Hand[m.selected]
	m.client.TurnAction(source, protocol.CardRef{
		Suit: chosen.Suit,
		Rank: chosen.Rank,
	})
}
