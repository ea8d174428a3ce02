package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/palemoky/great-escape/internal/game"
)

const (
	// Redis key 后缀
	stateKeySuffix = ":state"
	auditKeySuffix = ":audit"

	defaultKeyPrefix = "great-escape"
)

// RedisStore Redis 镜像：保存最新快照和审计日志列表
type RedisStore struct {
	client      redis.UniversalClient
	prefix      string
	auditMaxLen int64
	now         func() time.Time
}

// NewRedisStore 创建 Redis 存储，auditMaxLen <= 0 时不裁剪审计列表
func NewRedisStore(client redis.UniversalClient, prefix string, auditMaxLen int) *RedisStore {
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &RedisStore{
		client:      client,
		prefix:      prefix,
		auditMaxLen: int64(auditMaxLen),
		now:         time.Now,
	}
}

func (rs *RedisStore) stateKey() string { return rs.prefix + stateKeySuffix }
func (rs *RedisStore) auditKey() string { return rs.prefix + auditKeySuffix }

// --- 快照 ---

// SaveState 保存快照到 Redis
func (rs *RedisStore) SaveState(ctx context.Context, st *game.State) error {
	if st == nil {
		return nil
	}

	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("序列化游戏状态失败: %w", err)
	}
	return rs.client.Set(ctx, rs.stateKey(), data, 0).Err()
}

// LoadState 从 Redis 加载快照
func (rs *RedisStore) LoadState(ctx context.Context) (*game.State, error) {
	data, err := rs.client.Get(ctx, rs.stateKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // 没有快照
		}
		return nil, err
	}

	var st game.State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("反序列化游戏状态失败: %w", err)
	}
	return &st, nil
}

// --- 审计日志 ---

// AppendAudit 追加审计记录并裁剪到 auditMaxLen 条
func (rs *RedisStore) AppendAudit(ctx context.Context, action string) error {
	pipe := rs.client.TxPipeline()
	pipe.RPush(ctx, rs.auditKey(), FormatAuditLine(rs.now(), action))
	if rs.auditMaxLen > 0 {
		pipe.LTrim(ctx, rs.auditKey(), -rs.auditMaxLen, -1)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// Ping 检查连接，启动时用于决定是否启用镜像
func (rs *RedisStore) Ping(ctx context.Context) error {
	return rs.client.Ping(ctx).Err()
}

// Close 关闭底层连接
func (rs *RedisStore) Close() error {
	return rs.client.Close()
}
