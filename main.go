package main

import (
	"log"

	"disasterprep/config"
	"disasterprep/connection"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := connection.NewLogger(cfg.Log.Level, cfg.Log.Format, "disasterprep")
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	gin.SetMode(cfg.Server.GinMode)
	if err := connection.StartServer(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
