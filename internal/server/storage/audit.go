package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const auditTimeLayout = "2006-01-02T15:04:05.000Z"

// FileAuditLog 追加写入的审计日志文件，每行 "[时间] 操作"
type FileAuditLog struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

// NewFileAuditLog 创建审计日志
func NewFileAuditLog(path string) *FileAuditLog {
	return &FileAuditLog{path: path, now: time.Now}
}

// AppendAudit 追加一行审计记录
func (a *FileAuditLog) AppendAudit(_ context.Context, action string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(a.path), 0o755); err != nil {
		return fmt.Errorf("创建审计日志目录失败: %w", err)
	}

	f, err := os.OpenFile(a.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("打开审计日志失败: %w", err)
	}
	defer func() { _ = f.Close() }()

	line := FormatAuditLine(a.now(), action)
	if _, err := f.WriteString(line + "\n"); err != nil {
		return fmt.Errorf("写入审计日志失败: %w", err)
	}
	return nil
}

// FormatAuditLine 格式化一条审计记录（UTC）
func FormatAuditLine(ts time.Time, action string) string {
	return "[" + ts.UTC().Format(auditTimeLayout) + "] " + action
}
