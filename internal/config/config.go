package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	defaultHost           = "0.0.0.0"
	defaultPort           = 3000
	defaultMaxConnections = 1000

	defaultDataDir    = "data"
	defaultStateFile  = "save-state.json"
	defaultBackupFile = "save-backup.json"
	defaultAuditFile  = "logs/admin-actions.log"
	defaultRolesFile  = "roles.json"

	defaultRedisKeyPrefix   = "great-escape"
	defaultRedisAuditMaxLen = 10000

	defaultRoomName        = "THE-GREAT-ESCAPE"
	defaultBoardSize       = 8
	defaultMaxEvents       = 1000
	defaultShutdownTimeout = 30

	defaultBcryptCost        = 10
	defaultMainAdminPassword = "TheGEAdmin"

	defaultLogLevel = "info"
)

// Config 服务端配置
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Redis   RedisConfig   `yaml:"redis"`
	Game    GameConfig    `yaml:"game"`
	Auth    AuthConfig    `yaml:"auth"`
	Log     LogConfig     `yaml:"log"`
}

// ServerConfig WebSocket 服务器配置
type ServerConfig struct {
	Host           string   `yaml:"host" env:"SERVER_HOST"`
	Port           int      `yaml:"port" env:"SERVER_PORT"`
	MaxConnections int      `yaml:"max_connections" env:"SERVER_MAX_CONNECTIONS"`
	AllowedOrigins []string `yaml:"allowed_origins" env:"SERVER_ALLOWED_ORIGINS"`
}

// StorageConfig 本地持久化配置，相对路径以 DataDir 为根
type StorageConfig struct {
	DataDir    string `yaml:"data_dir" env:"DATA_DIR"`
	StateFile  string `yaml:"state_file"`
	BackupFile string `yaml:"backup_file"`
	AuditFile  string `yaml:"audit_file"`
	RolesFile  string `yaml:"roles_file"`
}

// RedisConfig Redis 镜像配置，Addr 为空时不启用
type RedisConfig struct {
	Addr        string `yaml:"addr" env:"REDIS_ADDR"`
	Password    string `yaml:"password" env:"REDIS_PASSWORD"`
	DB          int    `yaml:"db" env:"REDIS_DB"`
	KeyPrefix   string `yaml:"key_prefix"`
	AuditMaxLen int    `yaml:"audit_max_len"`
}

// GameConfig 游戏配置
type GameConfig struct {
	RoomName        string `yaml:"room_name"`
	BoardSize       int    `yaml:"board_size"`
	MaxEvents       int    `yaml:"max_events" env:"GAME_MAX_EVENTS"` // 负数表示不限制
	ShutdownTimeout int    `yaml:"shutdown_timeout"`                 // 优雅关闭超时（秒）
}

// AuthConfig 角色密码配置
type AuthConfig struct {
	BcryptCost        int    `yaml:"bcrypt_cost"`
	MainAdminPassword string `yaml:"main_admin_password" env:"MAIN_ADMIN_PASSWORD"` // 仅首次生成 roles 文件时使用
}

// LogConfig 日志配置
type LogConfig struct {
	Level string `yaml:"level" env:"LOG_LEVEL"`
	File  string `yaml:"file" env:"LOG_FILE"`
}

// ShutdownTimeoutDuration 返回优雅关闭超时时长
func (c *GameConfig) ShutdownTimeoutDuration() time.Duration {
	return time.Duration(c.ShutdownTimeout) * time.Second
}

// StatePath 状态快照路径
func (c *StorageConfig) StatePath() string { return c.resolve(c.StateFile) }

// BackupPath 上一份快照的备份路径
func (c *StorageConfig) BackupPath() string { return c.resolve(c.BackupFile) }

// AuditPath 管理操作审计日志路径
func (c *StorageConfig) AuditPath() string { return c.resolve(c.AuditFile) }

// RolesPath 角色密码哈希文件路径
func (c *StorageConfig) RolesPath() string { return c.resolve(c.RolesFile) }

func (c *StorageConfig) resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.DataDir, name)
}

// Load 加载配置文件，环境变量优先于文件
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if err := ParseEnv(&cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

// FromEnv 没有配置文件时使用：先读环境变量再补默认值，零值同样回落到默认值
func FromEnv() (*Config, error) {
	cfg := &Config{}
	if err := ParseEnv(cfg); err != nil {
		return nil, err
	}
	applyDefaults(cfg)
	return cfg, nil
}

// Default 返回默认配置
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// ParseEnv 用环境变量覆盖配置
func ParseEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// applyDefaults 设置默认值
func applyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = defaultHost
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = defaultPort
	}
	if cfg.Server.MaxConnections == 0 {
		cfg.Server.MaxConnections = defaultMaxConnections
	}
	if len(cfg.Server.AllowedOrigins) == 0 {
		cfg.Server.AllowedOrigins = []string{"*"}
	}

	if cfg.Storage.DataDir == "" {
		cfg.Storage.DataDir = defaultDataDir
	}
	if cfg.Storage.StateFile == "" {
		cfg.Storage.StateFile = defaultStateFile
	}
	if cfg.Storage.BackupFile == "" {
		cfg.Storage.BackupFile = defaultBackupFile
	}
	if cfg.Storage.AuditFile == "" {
		cfg.Storage.AuditFile = defaultAuditFile
	}
	if cfg.Storage.RolesFile == "" {
		cfg.Storage.RolesFile = defaultRolesFile
	}

	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = defaultRedisKeyPrefix
	}
	if cfg.Redis.AuditMaxLen == 0 {
		cfg.Redis.AuditMaxLen = defaultRedisAuditMaxLen
	}

	if cfg.Game.RoomName == "" {
		cfg.Game.RoomName = defaultRoomName
	}
	if cfg.Game.BoardSize == 0 {
		cfg.Game.BoardSize = defaultBoardSize
	}
	if cfg.Game.MaxEvents == 0 {
		cfg.Game.MaxEvents = defaultMaxEvents
	}
	if cfg.Game.ShutdownTimeout == 0 {
		cfg.Game.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.Auth.BcryptCost == 0 {
		cfg.Auth.BcryptCost = defaultBcryptCost
	}
	if cfg.Auth.MainAdminPassword == "" {
		cfg.Auth.MainAdminPassword = defaultMainAdminPassword
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = defaultLogLevel
	}
}
