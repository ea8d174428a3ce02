package server

import (
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/palemoky/great-escape/internal/types"
)

// handleWebSocket 处理 WebSocket 连接
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	ip := clientIP(r)

	// 维护模式检查（最优先）
	if s.IsMaintenanceMode() {
		log.Printf("🔧 维护模式，拒绝新连接: %s", ip)
		http.Error(w, "Server is under maintenance, please try again later",
			http.StatusServiceUnavailable)
		return
	}

	// 连接数限制检查
	select {
	case s.semaphore <- struct{}{}:
	default:
		log.Printf("🚫 达到最大连接数限制 (%d), IP: %s", s.maxConnections, ip)
		http.Error(w, "Server Full", http.StatusServiceUnavailable)
		return
	}

	// 来源验证
	if !s.originChecker.Check(r) {
		<-s.semaphore
		log.Printf("🚫 来源验证失败: %s (IP: %s)", r.Header.Get("Origin"), ip)
		http.Error(w, "Origin not allowed", http.StatusForbidden)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		<-s.semaphore
		log.WithError(err).Warn("WebSocket 升级失败")
		return
	}

	// 创建客户端
	client := NewClient(s, conn)
	client.IP = ip
	s.registerClient(client)

	log.Printf("✅ 连接 %s 已建立 (IP: %s)", client.ID, ip)

	// 启动客户端读写协程
	go client.ReadPump()
	go client.WritePump()
}

// handleHealth 健康检查接口
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	if s.IsMaintenanceMode() {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("MAINTENANCE"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// registerClient 注册客户端
func (s *Server) registerClient(client *Client) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	s.clients[client.ID] = client
}

// unregisterClient 注销客户端并释放连接名额
func (s *Server) unregisterClient(client *Client) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()

	if _, ok := s.clients[client.ID]; ok {
		delete(s.clients, client.ID)
		<-s.semaphore
		log.Printf("❌ 连接 %s 已断开", client.ID)
	}
}

// GetClientByID 按 ID 查找在线连接
func (s *Server) GetClientByID(id string) types.ClientInterface {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	if c, ok := s.clients[id]; ok {
		return c
	}
	return nil
}
