package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"chat-relay/internal/db"
	"chat-relay/internal/handlers"
	"chat-relay/internal/middleware"
	"chat-relay/internal/observability"
	"chat-relay/internal/rabbitmq"
	"chat-relay/internal/relay"
	"chat-relay/internal/repositories"
	"chat-relay/internal/telemetry"
	"chat-relay/internal/ws"
)

func main() {
	database, err := db.Connect()
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}

	ctx := context.Background()
	shutdownTracing, err := observability.InitTracing(ctx, "chat-relay", getEnv("OTLP_ENDPOINT", ""))
	if err != nil {
		log.Fatalf("failed to init tracing: %v", err)
	}
	defer func() {
		if err := shutdownTracing(ctx); err != nil {
			log.Printf("tracing shutdown: %v", err)
		}
	}()

	amqpURL := getEnv("AMQP_URL", "")
	publisher := rabbitmq.NewPublisher(amqpURL, getEnv("AUDIT_EXCHANGE", "chat.events"))
	defer publisher.Close()
	log.Printf("audit publisher mode=%s", rabbitmq.PublisherMode(publisher))
	auditor := telemetry.NewAuditEmitter(publisher, "audit_logs.chat_relay", "chat-relay", getEnv("ENVIRONMENT", "dev"))

	if eventsPub, err := observability.NewAMQPPublisher(amqpURL, getEnv("WS_EVENTS_EXCHANGE", "chat.events")); err != nil {
		log.Printf("ws event publisher disabled: %v", err)
	} else {
		observability.SetPublisher(eventsPub)
		defer eventsPub.Close()
	}

	users := repositories.NewUserRepo(database)
	messageLog := relay.NewLog()
	registry := relay.NewRegistry(users)
	broadcaster := relay.NewBroadcaster(registry)
	relayRouter := relay.NewRouter(registry, messageLog, broadcaster)
	relayWS := ws.NewRelayHandler(relayRouter, registry)

	port := getEnv("PORT", "5000")
	uploadDir := getEnv("UPLOAD_DIR", "uploads")
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		log.Fatalf("failed to create upload dir: %v", err)
	}

	authHandler := handlers.NewAuthHandler(users, auditor)
	historyHandler := handlers.NewHistoryHandler(messageLog)
	uploadHandler := handlers.NewUploadHandler(uploadDir, getEnv("PUBLIC_BASE_URL", "http://localhost:"+port))

	router := gin.Default()

	// middlewares
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("chat-relay"))
	router.Use(observability.HTTPMetricsMiddleware())

	authMiddleware := middleware.AuthMiddleware(users)

	router.POST("/api/sign_up", authHandler.SignUp)
	router.POST("/api/login", authHandler.Login)
	router.POST("/api/logout", authHandler.Logout)
	router.GET("/api/messages/:room", authMiddleware, historyHandler.GetRoomMessages)
	router.POST("/api/upload", uploadHandler.Handle)
	router.Static("/uploads", uploadDir)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/ws", relayWS.Handle)

	handlers.RegisterDebugRoutes(router, auditor, getEnv("DEBUG_ROUTES", "") == "true")

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}
