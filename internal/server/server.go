package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/matryer/way"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/palemoky/great-escape/internal/config"
	"github.com/palemoky/great-escape/internal/credential"
	"github.com/palemoky/great-escape/internal/game"
	"github.com/palemoky/great-escape/internal/game/room"
	"github.com/palemoky/great-escape/internal/server/handler"
	"github.com/palemoky/great-escape/internal/server/storage"
)

// Server WebSocket 服务器
type Server struct {
	config    *config.Config
	mirror    *storage.RedisStore // 未配置或连接失败时为 nil
	room      *room.Room
	handler   *handler.Handler
	clients   map[string]*Client
	clientsMu sync.RWMutex

	upgrader      websocket.Upgrader
	originChecker *OriginChecker
	router        *way.Router
	httpServer    *http.Server

	// 连接控制
	maxConnections int
	semaphore      chan struct{} // 信号量控制并发连接数

	// 维护模式
	maintenanceMode bool
	maintenanceMu   sync.RWMutex
}

// NewServer 创建服务器实例：加载凭证和快照，组装处理器
func NewServer(cfg *config.Config) (*Server, error) {
	creds, err := credential.NewFileStore(
		cfg.Storage.RolesPath(),
		cfg.Auth.BcryptCost,
		credential.DefaultPasswords(cfg.Auth.MainAdminPassword),
	)
	if err != nil {
		return nil, fmt.Errorf("初始化凭证存储失败: %w", err)
	}

	boardSize := cfg.Game.BoardSize
	stores := storage.MultiStore{storage.NewFileStore(
		cfg.Storage.StatePath(),
		cfg.Storage.BackupPath(),
		storage.WithValidator(func(st *game.State) error { return st.Validate(boardSize) }),
	)}
	audits := storage.MultiAudit{storage.NewFileAuditLog(cfg.Storage.AuditPath())}

	var mirror *storage.RedisStore
	if cfg.Redis.Addr != "" {
		mirror = connectMirror(cfg.Redis)
		if mirror != nil {
			stores = append(stores, mirror)
			audits = append(audits, mirror)
		}
	}

	rules := game.NewRules(cfg.Game.BoardSize, cfg.Game.MaxEvents)
	rm := room.New(cfg.Game.RoomName, rules, nil)
	restored := restoreState(rm, stores)

	maxConns := cfg.Server.MaxConnections
	if maxConns <= 0 {
		maxConns = 1
	}

	s := &Server{
		config:         cfg,
		mirror:         mirror,
		room:           rm,
		clients:        make(map[string]*Client),
		originChecker:  NewOriginChecker(cfg.Server),
		maxConnections: maxConns,
		semaphore:      make(chan struct{}, maxConns),
	}
	if s.originChecker.AllowsAll() {
		log.Info("🌐 未配置来源白名单，允许所有来源的 WebSocket 连接")
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.originChecker.Check,
	}

	// 初始化消息处理器
	s.handler = handler.NewHandler(handler.HandlerDeps{
		Server:      s,
		Room:        rm,
		Credentials: creds,
		Store:       stores,
		Audit:       audits,
	})

	// 旧进程的连接已全部失效，清空玩家后写回快照
	if restored {
		if n := rm.ClearPlayers(); n > 0 {
			log.Printf("🧹 清除了 %d 个失效的玩家记录", n)
			s.handler.Persist()
		}
	}

	s.routes()
	return s, nil
}

// connectMirror 连接 Redis 镜像，连接失败时只使用本地文件
func connectMirror(rc config.RedisConfig) *storage.RedisStore {
	mirror := storage.NewRedisStore(redis.NewClient(&redis.Options{
		Addr:     rc.Addr,
		Password: rc.Password,
		DB:       rc.DB,
	}), rc.KeyPrefix, rc.AuditMaxLen)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := mirror.Ping(ctx); err != nil {
		log.WithError(err).Warn("⚠️ Redis 连接失败，仅使用本地快照")
		_ = mirror.Close()
		return nil
	}

	log.WithField("addr", rc.Addr).Info("🗄️ 已启用 Redis 镜像")
	return mirror
}

// restoreState 从存储恢复状态，返回是否恢复成功
func restoreState(rm *room.Room, store storage.StateStore) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	st, err := store.LoadState(ctx)
	if err != nil {
		log.WithError(err).Warn("⚠️ 读取快照失败，使用初始状态")
		return false
	}
	if st == nil {
		log.Info("🆕 没有已保存的快照，使用初始状态")
		return false
	}
	if err := rm.Restore(st); err != nil {
		log.WithError(err).Warn("⚠️ 快照与当前棋盘配置不一致，使用初始状态")
		return false
	}

	log.WithField("events", len(st.Events)).Info("♻️ 已恢复游戏状态")
	return true
}

// routes 注册 HTTP 路由
func (s *Server) routes() {
	s.router = way.NewRouter()
	s.router.HandleFunc(http.MethodGet, "/ws", s.handleWebSocket)
	s.router.HandleFunc(http.MethodGet, "/health", s.handleHealth)
}

// Handler 返回 HTTP 路由
func (s *Server) Handler() http.Handler {
	return s.router
}

// Room 返回服务器唯一的房间
func (s *Server) Room() *room.Room {
	return s.room
}

// Start 启动服务器，阻塞直到服务器关闭
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)

	// 启动监控 goroutine
	go s.monitorStats()

	log.Printf("🚀 服务器启动在 ws://%s/ws (CPU核心数: %d)", addr, runtime.NumCPU())
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second, // 防止 Slowloris 攻击
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
