package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"github.com/palemoky/great-escape/internal/game"
)

// FileStore 磁盘快照：主文件加一份上次快照的备份
type FileStore struct {
	path       string
	backupPath string
	validate   func(*game.State) error
}

// FileOption FileStore 选项
type FileOption func(*FileStore)

// WithValidator 读取快照时额外校验，不通过的快照视为不可用
func WithValidator(fn func(*game.State) error) FileOption {
	return func(s *FileStore) {
		s.validate = fn
	}
}

// NewFileStore 创建磁盘快照存储
func NewFileStore(path, backupPath string, opts ...FileOption) *FileStore {
	s := &FileStore{path: path, backupPath: backupPath}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SaveState 写入新快照，旧快照轮换为备份
func (s *FileStore) SaveState(_ context.Context, st *game.State) error {
	if st == nil {
		return nil
	}

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化游戏状态失败: %w", err)
	}

	if err := s.rotate(); err != nil {
		return fmt.Errorf("备份旧快照失败: %w", err)
	}
	return WriteFileAtomic(s.path, data, 0o644)
}

// LoadState 读取主快照，不可用时回退到备份；两者都不存在时返回 nil, nil
func (s *FileStore) LoadState(_ context.Context) (*game.State, error) {
	st, _, err := s.read(s.path)
	if err == nil {
		return st, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		log.WithError(err).WithField("path", s.path).Warn("⚠️ 主快照不可用，尝试备份")
	}

	st, _, err = s.read(s.backupPath)
	if err == nil {
		log.WithField("path", s.backupPath).Info("♻️ 已从备份恢复游戏状态")
		return st, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	return nil, fmt.Errorf("读取备份快照失败: %w", err)
}

// read 读取、解析并校验快照，同时返回原始字节
func (s *FileStore) read(path string) (*game.State, []byte, error) {
	if path == "" {
		return nil, nil, os.ErrNotExist
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	var st game.State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, nil, fmt.Errorf("解析 %s 失败: %w", path, err)
	}
	if s.validate != nil {
		if err := s.validate(&st); err != nil {
			return nil, nil, fmt.Errorf("校验 %s 失败: %w", path, err)
		}
	}
	return &st, data, nil
}

// rotate 把当前快照复制为备份，主文件不存在、损坏或校验失败时保留原备份
func (s *FileStore) rotate() error {
	if s.backupPath == "" {
		return nil
	}
	_, data, err := s.read(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		log.WithError(err).WithField("path", s.path).Warn("⚠️ 旧快照不可用，保留现有备份")
		return nil
	}
	return WriteFileAtomic(s.backupPath, data, 0o644)
}

// WriteFileAtomic 先写临时文件并 fsync，再 rename 到目标路径
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		// rename 成功后临时文件已不存在
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
