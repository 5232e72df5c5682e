package main

import (
	"log"

	_ "destiny_billing/internal/domain/notify"
	_ "destiny_billing/internal/domain/payment"
	_ "destiny_billing/internal/domain/subscription"
	_ "destiny_billing/internal/domain/webhook"
	"destiny_billing/internal/gateway/toss"
	"destiny_billing/internal/pkg/config"
	"destiny_billing/internal/pkg/middleware"
	"destiny_billing/internal/pkg/registry"
	"destiny_billing/pkg/database"
	"destiny_billing/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Init(cfg.App.Env)
	defer logger.Sync()

	db, err := database.InitDatabase(cfg.Database)
	if err != nil {
		logger.Log.Fatal("failed to connect to database: " + err.Error())
	}

	rdb, err := database.InitRedis(cfg.Redis)
	if err != nil {
		logger.Log.Fatal("failed to connect to redis: " + err.Error())
	}

	gateway := toss.NewClient(nil, cfg.Toss.SecretKey, cfg.Toss.BaseURL)

	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.LoggerMiddleware(),
		middleware.RateLimitMiddleware(),
		cors.New(cors.Config{
			AllowAllOrigins: true,
			AllowMethods:    []string{"POST", "OPTIONS"},
			AllowHeaders:    []string{"Authorization", "Content-Type", "X-Client-Info", "Apikey", "Toss-Signature"},
		}),
	)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if err := registry.InitModules(&registry.ModuleContext{
		Cfg:     cfg,
		DB:      db,
		Redis:   rdb,
		Router:  router,
		Gateway: gateway,
	}); err != nil {
		logger.Log.Fatal("failed to initialize modules: " + err.Error())
	}

	logger.Log.Info("server starting on port " + cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		logger.Log.Fatal("server exited: " + err.Error())
	}
}
