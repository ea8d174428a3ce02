package server

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/palemoky/great-escape/internal/config"
)

func originRequest(origin string) *http.Request {
	req, _ := http.NewRequest(http.MethodGet, "/ws", http.NoBody)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	return req
}

func TestClientIP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{name: "Direct connection", remoteAddr: "192.168.1.1:12345", want: "192.168.1.1"},
		{name: "IPv6 direct connection", remoteAddr: "[::1]:12345", want: "::1"},
		{
			name:       "X-Forwarded-For chain uses first hop",
			remoteAddr: "10.0.0.1:12345",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.1, 10.0.0.2, 10.0.0.3"},
			want:       "203.0.113.1",
		},
		{
			name:       "X-Forwarded-For skips garbage entries",
			remoteAddr: "10.0.0.1:12345",
			headers:    map[string]string{"X-Forwarded-For": "unknown, 203.0.113.9"},
			want:       "203.0.113.9",
		},
		{
			name:       "X-Real-IP",
			remoteAddr: "10.0.0.1:12345",
			headers:    map[string]string{"X-Real-IP": "203.0.113.2"},
			want:       "203.0.113.2",
		},
		{
			name:       "Invalid X-Real-IP falls back to connection",
			remoteAddr: "10.0.0.1:12345",
			headers:    map[string]string{"X-Real-IP": "<script>"},
			want:       "10.0.0.1",
		},
		{
			name:       "X-Forwarded-For takes precedence over X-Real-IP",
			remoteAddr: "10.0.0.1:12345",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.3", "X-Real-IP": "203.0.113.4"},
			want:       "203.0.113.3",
		},
		{name: "RemoteAddr without port", remoteAddr: "bogus", want: "bogus"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req, _ := http.NewRequest(http.MethodGet, "/", http.NoBody)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, clientIP(req))
		})
	}
}

func TestOriginChecker_AllowAll(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		origins []string
	}{
		{name: "Default wildcard", origins: config.Default().Server.AllowedOrigins},
		{name: "Nil list", origins: nil},
		{name: "Only blank entries", origins: []string{"", "  "}},
		{name: "Wildcard among others", origins: []string{"https://example.com", "*"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			oc := NewOriginChecker(config.ServerConfig{AllowedOrigins: tt.origins})
			assert.True(t, oc.AllowsAll())
			assert.True(t, oc.Check(originRequest("https://evil.com")))
		})
	}
}

func TestOriginChecker_AllowList(t *testing.T) {
	t.Parallel()

	oc := NewOriginChecker(config.ServerConfig{AllowedOrigins: []string{
		"https://example.com/",
		" https://App.Example.com ",
		"http://localhost:3000",
		"not a url",
	}})
	assert.False(t, oc.AllowsAll())

	tests := []struct {
		origin  string
		allowed bool
	}{
		{"https://example.com", true},
		{"https://example.com:443", true}, // 默认端口
		{"HTTPS://EXAMPLE.COM", true},
		{"https://app.example.com", true},
		{"http://localhost:3000", true},
		{"http://localhost:3001", false},
		{"http://example.com", false}, // 协议不同
		{"https://evil.com", false},
		{"null", false},
		{"", true}, // 非浏览器客户端不带 Origin
	}
	for _, tt := range tests {
		assert.Equal(t, tt.allowed, oc.Check(originRequest(tt.origin)), "Origin: %q", tt.origin)
	}
}

func TestOriginChecker_OnlyInvalidEntriesDeniesBrowsers(t *testing.T) {
	t.Parallel()

	oc := NewOriginChecker(config.ServerConfig{AllowedOrigins: []string{"example.com"}})
	assert.False(t, oc.AllowsAll())
	assert.False(t, oc.Check(originRequest("https://example.com")))
	assert.True(t, oc.Check(originRequest("")))
}

func TestNormalizeOrigin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"https://Example.com/path/", "https://example.com", true},
		{"http://example.com:80", "http://example.com", true},
		{"https://example.com:8443", "https://example.com:8443", true},
		{"http://[::1]:3000", "http://[::1]:3000", true},
		{"http://[::1]", "http://[::1]", true},
		{"example.com", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := normalizeOrigin(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
