//go:build !production

package testutil

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/palemoky/great-escape/internal/game"
)

// MockCredentialStore credential.Store 的 mock
type MockCredentialStore struct {
	mock.Mock
}

func (m *MockCredentialStore) Verify(role game.Role, password string) bool {
	args := m.Called(role, password)
	return args.Bool(0)
}

func (m *MockCredentialStore) SetPassword(role game.Role, newPassword string) bool {
	args := m.Called(role, newPassword)
	return args.Bool(0)
}

// MemoryCredentials 明文保存密码的内存凭证存储
type MemoryCredentials struct {
	mu        sync.Mutex
	passwords map[game.Role]string
}

// NewMemoryCredentials 创建内存凭证存储
func NewMemoryCredentials(passwords map[game.Role]string) *MemoryCredentials {
	cp := make(map[game.Role]string, len(passwords))
	for r, p := range passwords {
		cp[r] = p
	}
	return &MemoryCredentials{passwords: cp}
}

func (m *MemoryCredentials) Verify(role game.Role, password string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.passwords[role]
	return ok && p == password
}

func (m *MemoryCredentials) SetPassword(role game.Role, newPassword string) bool {
	if !role.Valid() || newPassword == "" {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.passwords[role] = newPassword
	return true
}

// MockStateStore storage.StateStore 的 mock
type MockStateStore struct {
	mock.Mock
}

func (m *MockStateStore) SaveState(ctx context.Context, st *game.State) error {
	args := m.Called(ctx, st)
	return args.Error(0)
}

func (m *MockStateStore) LoadState(ctx context.Context) (*game.State, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*game.State), args.Error(1)
}

// MemoryStateStore 保存最近一次快照的内存存储
type MemoryStateStore struct {
	mu    sync.Mutex
	state *game.State
	saves int
}

func (m *MemoryStateStore) SaveState(_ context.Context, st *game.State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = st.Clone()
	m.saves++
	return nil
}

func (m *MemoryStateStore) LoadState(context.Context) (*game.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == nil {
		return nil, nil
	}
	return m.state.Clone(), nil
}

// Saves 保存次数
func (m *MemoryStateStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// MemoryAudit 记录审计日志的内存实现
type MemoryAudit struct {
	mu    sync.Mutex
	lines []string
}

func (m *MemoryAudit) AppendAudit(_ context.Context, action string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lines = append(m.lines, action)
	return nil
}

// Lines 已记录的审计条目
func (m *MemoryAudit) Lines() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.lines...)
}
