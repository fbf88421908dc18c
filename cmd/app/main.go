package main

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/hospadmin/authz"
	"github.com/hospadmin/authz/internal/config"
	"github.com/hospadmin/authz/internal/db"
	"github.com/hospadmin/authz/internal/routes"
	"github.com/hospadmin/authz/zapLogger"
)

func main() {
	logFile := zapLogger.Init()

	cfg, err := config.LoadConfig()
	if err != nil {
		zapLogger.Log.Fatalf("Failed to load config: %v", err)
	}

	pgDB, err := db.NewPostgresDB(cfg)
	if err != nil {
		zapLogger.Log.Fatalf("Failed to initialize PostgreSQL: %v", err)
	}
	zapLogger.Log.Info("Successfully connected to PostgreSQL database")
	defer pgDB.Close()

	redisDB, err := db.NewRedisClient(cfg)
	if err != nil {
		zapLogger.Log.Fatalf("Failed to initialize Redis: %v", err)
	}
	zapLogger.Log.Info("Successfully connected to Redis")
	defer redisDB.Close()

	svc, err := authz.NewService(authz.Config{
		DB:                 pgDB.GormDB,
		RedisClient:        redisDB,
		Logger:             zapLogger.Log,
		CacheTTL:           cfg.CacheTTL,
		CachePrefix:        "authz:",
		AutoMigrate:        true,
		SeedCatalog:        true,
		SeedDefaultGrants:  cfg.SeedDefaultGrants,
		EnableAuditLogging: cfg.EnableAuditLogging,
		InsecureAllowAll:   cfg.InsecureAllowAll,
	})
	if err != nil {
		zapLogger.Log.Fatalf("Failed to initialize authorization service: %v", err)
	}

	issuer := authz.NewTokenIssuer(cfg.JWTSecret, cfg.TokenIssuer, cfg.TokenTTL)

	app := fiber.New()
	app.Use(zapLogger.FiberLoggingMiddleware(logFile))

	routes.Setup(app, svc, issuer)

	addr := fmt.Sprintf(":%d", cfg.AppPort)
	zapLogger.Log.Infof("Server started on port %d", cfg.AppPort)
	log.Fatal(app.Listen(addr))
}
