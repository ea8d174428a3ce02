//go:build !production

package testutil

import (
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/palemoky/great-escape/internal/protocol"
	"github.com/palemoky/great-escape/internal/types"
)

// MockServer 实现 types.ServerInterface 的 mock
type MockServer struct {
	mock.Mock
}

func (m *MockServer) IsMaintenanceMode() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockServer) GetClientByID(id string) types.ClientInterface {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(types.ClientInterface)
}

func (m *MockServer) BroadcastToRoom(room string, msg *protocol.Message) {
	m.Called(room, msg)
}

// SimpleServer 内存中的服务器，按房间把广播投递给已注册的客户端
type SimpleServer struct {
	mu          sync.Mutex
	clients     map[string]types.ClientInterface
	maintenance bool
}

// NewSimpleServer 创建服务器
func NewSimpleServer() *SimpleServer {
	return &SimpleServer{clients: make(map[string]types.ClientInterface)}
}

// Register 注册客户端
func (s *SimpleServer) Register(c types.ClientInterface) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[c.GetID()] = c
}

// Unregister 注销客户端
func (s *SimpleServer) Unregister(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.clients, id)
}

// SetMaintenance 设置维护模式
func (s *SimpleServer) SetMaintenance(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.maintenance = on
}

func (s *SimpleServer) IsMaintenanceMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.maintenance
}

func (s *SimpleServer) GetClientByID(id string) types.ClientInterface {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.clients[id]; ok {
		return c
	}
	return nil
}

func (s *SimpleServer) BroadcastToRoom(room string, msg *protocol.Message) {
	s.mu.Lock()
	targets := make([]types.ClientInterface, 0, len(s.clients))
	for _, c := range s.clients {
		if c.GetRoom() == room {
			targets = append(targets, c)
		}
	}
	s.mu.Unlock()

	for _, c := range targets {
		c.SendMessage(msg)
	}
}
