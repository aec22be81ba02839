// @title 竞答活动后端 API
// @version 1.0
// @description 多人实时竞答活动的进行控制与榜单服务。

// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"log"
	"quiz_event_backend/internal/app"
	"quiz_event_backend/internal/config"
	"quiz_event_backend/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	application.Run()
}
