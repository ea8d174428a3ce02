package server

import (
	"net"
	"net/http"
	"net/url"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/palemoky/great-escape/internal/config"
)

// OriginChecker 校验 WebSocket 握手的 Origin，按 scheme://host[:port] 比较
type OriginChecker struct {
	allowed  map[string]struct{}
	allowAll bool
}

// NewOriginChecker 按服务器配置创建来源白名单。
// 没有配置任何来源或包含 "*"（默认值）时放行所有来源；无法解析的条目被忽略。
func NewOriginChecker(cfg config.ServerConfig) *OriginChecker {
	oc := &OriginChecker{allowed: make(map[string]struct{})}

	configured := 0
	for _, raw := range cfg.AllowedOrigins {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		configured++
		if raw == "*" {
			oc.allowAll = true
			continue
		}
		key, ok := normalizeOrigin(raw)
		if !ok {
			log.WithField("origin", raw).Warn("⚠️ 忽略无法解析的来源配置")
			continue
		}
		oc.allowed[key] = struct{}{}
	}
	if configured == 0 {
		oc.allowAll = true
	}
	return oc
}

// AllowsAll 是否放行所有来源
func (oc *OriginChecker) AllowsAll() bool {
	return oc.allowAll
}

// Check 用作 Upgrader.CheckOrigin；没有 Origin 头的非浏览器客户端放行
func (oc *OriginChecker) Check(r *http.Request) bool {
	if oc.allowAll {
		return true
	}

	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	key, ok := normalizeOrigin(origin)
	if !ok {
		return false
	}
	_, allowed := oc.allowed[key]
	return allowed
}

// normalizeOrigin 统一为小写 scheme://host[:port]，去掉默认端口、路径和末尾斜杠
func normalizeOrigin(raw string) (string, bool) {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", false
	}

	scheme := strings.ToLower(u.Scheme)
	host := strings.ToLower(u.Hostname())
	port := u.Port()
	if (scheme == "http" && port == "80") || (scheme == "https" && port == "443") {
		port = ""
	}

	switch {
	case port != "":
		host = net.JoinHostPort(host, port)
	case strings.Contains(host, ":"):
		host = "[" + host + "]"
	}
	return scheme + "://" + host, true
}

// clientIP 获取客户端 IP：依次取 X-Forwarded-For 中第一个合法地址、X-Real-IP、连接地址
func clientIP(r *http.Request) string {
	for _, part := range strings.Split(r.Header.Get("X-Forwarded-For"), ",") {
		if ip := net.ParseIP(strings.TrimSpace(part)); ip != nil {
			return ip.String()
		}
	}

	if ip := net.ParseIP(strings.TrimSpace(r.Header.Get("X-Real-IP"))); ip != nil {
		return ip.String()
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
