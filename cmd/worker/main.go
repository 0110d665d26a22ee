package main

import (
	"go.uber.org/zap"

	"github.com/kamorahul/workforce-ai-sub001/internal/app"
	"github.com/kamorahul/workforce-ai-sub001/internal/config"
	"github.com/kamorahul/workforce-ai-sub001/internal/shared/apperror"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config failed", zap.Error(err))
	}

	apperror.Init()

	if err := app.RunWorker(cfg); err != nil {
		logger.Fatal("run worker failed", zap.Error(err))
	}
}
