package app

import (
	"github.com/gin-gonic/gin"

	"github.com/kamorahul/workforce-ai-sub001/internal/config"
	"github.com/kamorahul/workforce-ai-sub001/internal/shared/connection"
)

// BuildApp connects infrastructure, migrates the tables this service owns
// and mounts every module's routes on the router. cmd/api calls it once at
// startup.
func BuildApp(router *gin.Engine, cfg *config.Config) error {
	gormDB, err := connection.ConnectGORMWithRetry(
		cfg.DBHost,
		cfg.DBUser,
		cfg.DBPassword,
		cfg.DBName,
		cfg.DBPort,
		cfg.DBSSLMode,
		5,
	)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}

	if err := migrate(gormDB); err != nil {
		return err
	}

	redisClient, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, 5)
	if err != nil {
		return err
	}

	return registerModules(router, sqlDB, gormDB, redisClient, cfg)
}
