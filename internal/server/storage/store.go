package storage

import (
	"context"
	"errors"

	"github.com/palemoky/great-escape/internal/game"
)

// StateStore 游戏状态快照存储
type StateStore interface {
	// SaveState 保存快照
	SaveState(ctx context.Context, st *game.State) error
	// LoadState 加载快照，不存在时返回 nil, nil
	LoadState(ctx context.Context) (*game.State, error)
}

// AuditSink 管理操作审计日志
type AuditSink interface {
	AppendAudit(ctx context.Context, action string) error
}

// MultiStore 依次写入多个存储，读取时使用第一个返回快照的存储
type MultiStore []StateStore

// SaveState 写入全部存储，返回合并后的错误
func (m MultiStore) SaveState(ctx context.Context, st *game.State) error {
	var errs []error
	for _, s := range m {
		if err := s.SaveState(ctx, st); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LoadState 按顺序读取，跳过出错或为空的存储
func (m MultiStore) LoadState(ctx context.Context) (*game.State, error) {
	var errs []error
	for _, s := range m {
		st, err := s.LoadState(ctx)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if st != nil {
			return st, nil
		}
	}
	return nil, errors.Join(errs...)
}

// MultiAudit 审计日志写入多个目标
type MultiAudit []AuditSink

// AppendAudit 写入全部目标
func (m MultiAudit) AppendAudit(ctx context.Context, action string) error {
	var errs []error
	for _, s := range m {
		if err := s.AppendAudit(ctx, action); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
