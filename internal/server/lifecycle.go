package server

import (
	"context"
	"runtime"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/palemoky/great-escape/internal/protocol"
	"github.com/palemoky/great-escape/internal/protocol/codec"
)

// monitorStats 定期监控服务器状态
func (s *Server) monitorStats() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		if s.IsMaintenanceMode() {
			return
		}

		var m runtime.MemStats
		runtime.ReadMemStats(&m)

		log.Printf("📊 [监控] 在线: %d | 玩家: %d | Goroutines: %d | 活跃连接: %d/%d | 内存: %.2f MB",
			s.GetOnlineCount(),
			s.handler.PlayerCount(),
			runtime.NumGoroutine(),
			len(s.semaphore),
			s.maxConnections,
			float64(m.Alloc)/1024/1024)
	}
}

// EnterMaintenanceMode 进入维护模式
func (s *Server) EnterMaintenanceMode() {
	s.maintenanceMu.Lock()
	s.maintenanceMode = true
	s.maintenanceMu.Unlock()

	// 通知所有连接服务器即将关闭
	s.Broadcast(codec.MustNewMessage(protocol.MsgError, protocol.ErrorPayload{
		Code:    protocol.ErrCodeServerMaintenance,
		Message: "server is shutting down",
	}))

	log.Println("🔧 进入维护模式：停止新连接和加入")
}

// IsMaintenanceMode 检查是否在维护模式
func (s *Server) IsMaintenanceMode() bool {
	s.maintenanceMu.RLock()
	defer s.maintenanceMu.RUnlock()
	return s.maintenanceMode
}

// GracefulShutdown 优雅关闭服务器：维护模式、写最终快照、关闭连接
func (s *Server) GracefulShutdown(timeout time.Duration) {
	// 1. 进入维护模式
	s.EnterMaintenanceMode()

	// 2. 保存最终快照
	s.handler.Persist()
	log.Println("💾 已保存最终快照")

	// 3. 停止接受 HTTP 请求
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.WithError(err).Warn("⚠️ HTTP 服务关闭超时")
		}
	}

	// 4. 关闭连接
	s.Shutdown()
}

// Shutdown 关闭所有连接和外部资源
func (s *Server) Shutdown() {
	// 关闭所有客户端连接
	s.clientsMu.RLock()
	for _, client := range s.clients {
		client.Close()
	}
	s.clientsMu.RUnlock()

	// 关闭 Redis
	if s.mirror != nil {
		_ = s.mirror.Close()
	}

	log.Println("服务器已关闭")
}
