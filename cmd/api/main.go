package main

import (
	"context"
	"log"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"google.golang.org/api/option"

	fbapp "firebase.google.com/go/v4"

	"tripmate/internal/adapter/api"
	"tripmate/internal/adapter/api/handler"
	apimiddleware "tripmate/internal/adapter/api/middleware"
	"tripmate/internal/adapter/api/router"
	"tripmate/internal/adapter/repository"
	"tripmate/internal/infrastructure/firebase"
	"tripmate/internal/usecase"
	"tripmate/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	var opts []option.ClientOption

	// Service account from env var in production, from file locally.
	if serviceAccountJSON := os.Getenv("FIREBASE_SERVICE_ACCOUNT_JSON"); serviceAccountJSON != "" {
		log.Printf("Using Firebase service account from environment variable")
		opts = append(opts, option.WithCredentialsJSON([]byte(serviceAccountJSON)))
	} else if serviceAccountPath := os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH"); serviceAccountPath != "" {
		if _, err := os.Stat(serviceAccountPath); os.IsNotExist(err) {
			log.Fatalf("Service account file does not exist: %s", serviceAccountPath)
		}
		log.Printf("Using Firebase service account from file: %s", serviceAccountPath)
		opts = append(opts, option.WithCredentialsFile(serviceAccountPath))
	}

	firebaseApp, err := fbapp.NewApp(ctx, &fbapp.Config{
		ProjectID:   cfg.FirebaseProject,
		DatabaseURL: cfg.DatabaseURL,
	}, opts...)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase Auth: %v", err)
	}

	dbClient, err := firebaseApp.Database(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize Realtime Database: %v", err)
	}

	store := firebase.NewRTDBStore(dbClient)

	userRepo := repository.NewRTDBUserRepository(store)
	chatRepo := repository.NewRTDBChatRepository(store)
	friendRepo := repository.NewRTDBFriendRepository(store)
	notificationRepo := repository.NewRTDBNotificationRepository(store)

	chatUseCase := usecase.NewChatUseCase(chatRepo, userRepo, notificationRepo)
	friendUseCase := usecase.NewFriendUseCase(friendRepo, userRepo, notificationRepo, cfg.ShadowCleanupWait)
	notificationUseCase := usecase.NewNotificationUseCase(notificationRepo)

	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.Validator = api.NewValidator()

	authMiddleware := apimiddleware.NewAuthMiddleware(authClient)

	chatHandler := handler.NewChatHandler(chatUseCase)
	friendHandler := handler.NewFriendHandler(friendUseCase)
	notificationHandler := handler.NewNotificationHandler(notificationUseCase)

	// Background removal of resolved friend request shadow copies
	go friendUseCase.StartShadowCleanupJob(ctx, cfg.ReconcileInterval)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	router.Setup(e, authMiddleware, chatHandler, friendHandler, notificationHandler)

	log.Printf("Starting server on port %s...", cfg.ServerPort)
	if err := e.Start(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
