package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Holocron-Auth/holocron-core/internal/config"
	httpserver "github.com/Holocron-Auth/holocron-core/internal/http"
)

// Run loads configuration, wires the container and serves HTTP until the
// listener fails.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	gin.SetMode(cfg.GinMode)

	container, err := BuildContainer(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := container.Redis.Ping(ctx); err != nil {
		return fmt.Errorf("failed to reach redis: %w", err)
	}

	router := httpserver.NewRouter(*container.Router())

	log.Printf("listening on :%s", cfg.Port)
	return router.Run(":" + cfg.Port)
}
