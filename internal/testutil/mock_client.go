//go:build !production

package testutil

import (
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/palemoky/great-escape/internal/protocol"
)

// MockClient 实现 types.ClientInterface 的 mock
type MockClient struct {
	mock.Mock
}

func (m *MockClient) GetID() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockClient) GetRoom() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockClient) SetRoom(room string) {
	m.Called(room)
}

func (m *MockClient) SendMessage(msg *protocol.Message) {
	m.Called(msg)
}

func (m *MockClient) Close() {
	m.Called()
}

// SimpleClient 简单的 mock 客户端，不使用 testify（用于不需要断言调用的测试）
type SimpleClient struct {
	ID string

	mu       sync.Mutex
	room     string
	messages []*protocol.Message
	closed   bool
}

// NewSimpleClient 创建客户端
func NewSimpleClient(id string) *SimpleClient {
	return &SimpleClient{ID: id}
}

func (c *SimpleClient) GetID() string { return c.ID }

func (c *SimpleClient) GetRoom() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.room
}

func (c *SimpleClient) SetRoom(room string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.room = room
}

func (c *SimpleClient) SendMessage(msg *protocol.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, msg)
}

func (c *SimpleClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

// Closed 是否已被关闭
func (c *SimpleClient) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Messages 返回收到的消息副本
func (c *SimpleClient) Messages() []*protocol.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*protocol.Message(nil), c.messages...)
}

// MessagesOfType 返回指定类型的消息
func (c *SimpleClient) MessagesOfType(t protocol.MessageType) []*protocol.Message {
	var out []*protocol.Message
	for _, msg := range c.Messages() {
		if msg.Type == t {
			out = append(out, msg)
		}
	}
	return out
}

// LastOfType 返回指定类型的最后一条消息，没有时返回 nil
func (c *SimpleClient) LastOfType(t protocol.MessageType) *protocol.Message {
	msgs := c.MessagesOfType(t)
	if len(msgs) == 0 {
		return nil
	}
	return msgs[len(msgs)-1]
}

// Reset 清空已收到的消息
func (c *SimpleClient) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = nil
}
