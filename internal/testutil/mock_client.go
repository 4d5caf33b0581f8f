//go:build !production

package testutil

import (
	"github.com/stretchr/testify/mock"

	"github.com/palemoky/usef/internal/protocol"
)

// MockClient 实现 types.ClientInterface 的 mock
type MockClient struct {
	mock.Mock
}

func (m *MockClient) GetID() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockClient) GetUserID() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockClient) GetName() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockClient) SetUser(userID, name string) {
	m.Called(userID, name)
}

func (m *MockClient) GetLobby() int64 {
	args := m.Called()
	return args.Get(0).(int64)
}

func (m *MockClient) SetLobby(id int64) {
	m.Called(id)
}

func (m *MockClient) SendMessage(msg *protocol.Message) {
	m.Called(msg)
}

func (m *MockClient) Close() {
	m.Called()
}

// SimpleClient 简单的 mock 客户端，不使用 testify（用于不需要断言的测试）
type SimpleClient struct {
	ID       string
	UserID   string
	Name     string
	LobbyID  int64
	Messages []*protocol.Message
	Closed   bool
}

func (m *SimpleClient) GetID() string     { return m.ID }
func (m *SimpleClient) GetUserID() string { return m.UserID }
func (m *SimpleClient) GetName() string   { return m.Name }
func (m *SimpleClient) SetUser(userID, name string) {
	m.UserID = userID
	m.Name = name
}
func (m *SimpleClient) GetLobby() int64                   { return m.LobbyID }
func (m *SimpleClient) SetLobby(id int64)                 { m.LobbyID = id }
func (m *SimpleClient) SendMessage(msg *protocol.Message) { m.Messages = append(m.Messages, msg) }
func (m *SimpleClient) Close()                            { m.Closed = true }

// MessagesOfType 取出已收到的指定类型消息
func (m *SimpleClient) MessagesOfType(msgType protocol.MessageType) []*protocol.Message {
	var out []*protocol.Message
	for _, msg := range m.Messages {
		if msg.Type == msgType {
			out = append(out, msg)
		}
	}
	return out
}

// LastMessage 最后一条收到的消息，没有时返回 nil
func (m *SimpleClient) LastMessage() *protocol.Message {
	if len(m.Messages) == 0 {
		return nil
	}
	return m.Messages[len(m.Messages)-1]
}
