package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/lsta/pai/internal/app/bootstrap"
	cfgpkg "github.com/lsta/pai/internal/config"
	"github.com/lsta/pai/internal/logging"
)

func main() {
	// 1) 加载配置：PAI_CONFIG 或 configs/pai.yaml
	cfg, err := cfgpkg.Load("")
	if err != nil {
		panic(err)
	}

	// 2) 初始化日志
	logger, err := logging.InitLogger(cfg.Logging)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	// 3) 信号取消，优雅关闭由各组件在 ctx 结束时完成
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := bootstrap.Run(ctx, cfg, logger); err != nil {
		logger.Error("gateway stopped with error", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}
