//go:build !production

package testutil

import (
	"github.com/stretchr/testify/mock"

	"github.com/palemoky/usef/internal/types"
)

// MockServer 实现 types.ServerInterface 的 mock
type MockServer struct {
	mock.Mock
}

func (m *MockServer) GetOnlineCount() int {
	args := m.Called()
	return args.Int(0)
}

func (m *MockServer) GetClientByUserID(userID string) types.ClientInterface {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(types.ClientInterface)
}

func (m *MockServer) BindUser(userID string, client types.ClientInterface) {
	m.Called(userID, client)
}

func (m *MockServer) UnbindUser(userID string) {
	m.Called(userID)
}

// SimpleServer 简单的 mock 服务器，按用户 ID 维护一张连接表
type SimpleServer struct {
	Clients map[string]types.ClientInterface
}

// NewSimpleServer 创建空连接表的 mock 服务器
func NewSimpleServer() *SimpleServer {
	return &SimpleServer{Clients: make(map[string]types.ClientInterface)}
}

func (s *SimpleServer) GetOnlineCount() int { return len(s.Clients) }

func (s *SimpleServer) GetClientByUserID(userID string) types.ClientInterface {
	c, ok := s.Clients[userID]
	if !ok {
		return nil
	}
	return c
}

func (s *SimpleServer) BindUser(userID string, client types.ClientInterface) {
	s.Clients[userID] = client
}

func (s *SimpleServer) UnbindUser(userID string) {
	delete(s.Clients, userID)
}
