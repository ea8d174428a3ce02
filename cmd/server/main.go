package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/palemoky/great-escape/internal/config"
	"github.com/palemoky/great-escape/internal/logger"
	"github.com/palemoky/great-escape/internal/server"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "配置文件路径")
	flag.Parse()

	// 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Printf("加载配置文件失败，使用环境变量和默认配置: %v", err)
		cfg, err = config.FromEnv()
		if err != nil {
			log.Fatalf("解析环境变量失败: %v", err)
		}
	}

	if err := logger.Init(logger.Options{Level: cfg.Log.Level, File: cfg.Log.File}); err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer logger.Close()

	// 创建服务器
	srv, err := server.NewServer(cfg)
	if err != nil {
		log.Fatalf("创建服务器失败: %v", err)
	}

	errCh := make(chan error, 1)
	go func() {
		log.Println("🎮 THE-GREAT-ESCAPE 服务器启动中...")
		errCh <- srv.Start()
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.WithField("signal", sig.String()).Info("正在关闭服务器...")
		srv.GracefulShutdown(cfg.Game.ShutdownTimeoutDuration())
	case err := <-errCh:
		if err != nil {
			log.Fatalf("服务器启动失败: %v", err)
		}
	}
}
