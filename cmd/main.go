package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"taskflow-app/taskflow/broker"
	"taskflow-app/taskflow/config"
	"taskflow-app/taskflow/database"
	"taskflow-app/taskflow/middleware"
	"taskflow-app/taskflow/routes"
	"taskflow-app/taskflow/services"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()

	db, err := database.Setup(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// The broker is optional: lifecycle events stay pending in the
	// outbox until it becomes reachable.
	if err := broker.InitProducer(cfg); err != nil {
		log.Printf("Warning: Failed to connect to NATS broker: %v", err)
		log.Println("The application will continue; events will be dispatched once the broker is available")
	} else {
		defer broker.CloseProducer()
	}

	eventDispatcher := services.NewEventDispatcherService(db)
	services.EventDispatcherInstance = eventDispatcher
	eventDispatcher.Start()
	defer eventDispatcher.Stop()

	authService := services.NewAuthService(cfg.JWTSecret)
	services.AuthServiceInstance = authService

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPM, cfg.RateLimitBurst)
	defer rateLimiter.Stop()

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	router.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))
	router.Use(middleware.MetricsMiddleware())

	routes.RegisterSystemRoutes(router)

	apiGroup := router.Group("/api/v1")
	apiGroup.Use(middleware.AuthMiddleware(authService))
	apiGroup.Use(rateLimiter.Middleware())

	routes.RegisterTaskRoutes(apiGroup, db, services.IdentityServiceInstance, services.TaskServiceInstance)
	routes.RegisterProfileRoutes(apiGroup, db, services.IdentityServiceInstance)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-quit
		log.Println("Shutting down server...")
		eventDispatcher.Stop()
		broker.CloseProducer()
		db.Close()
		os.Exit(0)
	}()

	log.Printf("API server is running on port %s", cfg.AppPort)
	if err := http.ListenAndServe(":"+cfg.AppPort, router); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
