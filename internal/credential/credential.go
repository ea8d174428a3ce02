// Package credential 角色密码存储：bcrypt 哈希保存在 JSON 文件中
package credential

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/palemoky/great-escape/internal/game"
	"github.com/palemoky/great-escape/internal/server/storage"
)

// DefaultMainAdminPassword 主管理员默认密码
const DefaultMainAdminPassword = "TheGEAdmin"

// Store 凭证校验与修改
type Store interface {
	// Verify 校验密码，未知角色或任何错误都返回 false
	Verify(role game.Role, password string) bool
	// SetPassword 修改密码，先持久化成功再更新内存
	SetPassword(role game.Role, newPassword string) bool
}

// DefaultPasswords 首次初始化时写入的默认密码
func DefaultPasswords(mainAdmin string) map[game.Role]string {
	if mainAdmin == "" {
		mainAdmin = DefaultMainAdminPassword
	}
	return map[game.Role]string{
		game.RoleMainAdmin: mainAdmin,
		game.RoleAdmin:     "Admin",
		game.RolePlayer:    "Player",
		game.RoleSpectator: "Watch",
	}
}

// FileStore 基于文件的凭证存储
type FileStore struct {
	mu     sync.RWMutex
	hashes map[game.Role]string

	writeMu   sync.Mutex // 串行化文件写入
	path      string
	cost      int
	writeFile func(path string, data []byte, perm os.FileMode) error
}

var _ Store = (*FileStore)(nil)

// NewFileStore 加载 roles 文件；文件不存在时用 defaults 生成
func NewFileStore(path string, cost int, defaults map[game.Role]string) (*FileStore, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	s := &FileStore{
		hashes:    make(map[game.Role]string),
		path:      path,
		cost:      cost,
		writeFile: storage.WriteFileAtomic,
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &s.hashes); err != nil {
			return nil, fmt.Errorf("解析 roles 文件失败: %w", err)
		}
		log.WithField("path", path).Info("🔐 已加载角色密码")
		return s, nil
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("读取 roles 文件失败: %w", err)
	}

	seeded := make(map[game.Role]string, len(defaults))
	for role, plain := range defaults {
		hash, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
		if err != nil {
			return nil, fmt.Errorf("生成 %s 密码哈希失败: %w", role, err)
		}
		seeded[role] = string(hash)
	}
	if err := s.persist(seeded); err != nil {
		return nil, err
	}
	s.hashes = seeded
	log.WithField("path", path).Info("🔐 已生成默认角色密码")
	return s, nil
}

// Verify 校验角色密码
func (s *FileStore) Verify(role game.Role, password string) bool {
	s.mu.RLock()
	hash, ok := s.hashes[role]
	s.mu.RUnlock()
	if !ok || hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// SetPassword 修改角色密码
func (s *FileStore) SetPassword(role game.Role, newPassword string) bool {
	if !role.Valid() || newPassword == "" {
		return false
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.cost)
	if err != nil {
		log.WithError(err).WithField("role", role).Error("生成密码哈希失败")
		return false
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.RLock()
	next := make(map[game.Role]string, len(s.hashes)+1)
	for r, h := range s.hashes {
		next[r] = h
	}
	s.mu.RUnlock()
	next[role] = string(hash)

	if err := s.persist(next); err != nil {
		log.WithError(err).WithField("role", role).Error("保存 roles 文件失败")
		return false
	}

	s.mu.Lock()
	s.hashes = next
	s.mu.Unlock()
	return true
}

func (s *FileStore) persist(hashes map[game.Role]string) error {
	data, err := json.MarshalIndent(hashes, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化 roles 失败: %w", err)
	}
	if err := s.writeFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("写入 roles 文件失败: %w", err)
	}
	return nil
}
