package main

import (
	"context"
	"log"

	"cloud.google.com/go/firestore"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"google.golang.org/api/option"

	"bartertrade/internal/adapter/api"
	"bartertrade/internal/adapter/api/handler"
	"bartertrade/internal/adapter/api/router"
	"bartertrade/internal/adapter/repository"
	"bartertrade/internal/infrastructure/classifier"
	"bartertrade/internal/infrastructure/notification"
	"bartertrade/internal/infrastructure/observability"
	"bartertrade/internal/infrastructure/storage"
	"bartertrade/internal/infrastructure/vector"
	"bartertrade/internal/usecase"
	"bartertrade/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	var opts []option.ClientOption
	if cfg.CredentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsPath))
	}

	firestoreClient, err := firestore.NewClient(ctx, cfg.GoogleProject, opts...)
	if err != nil {
		log.Fatalf("Failed to create Firestore client: %v", err)
	}
	defer firestoreClient.Close()

	storageClient, err := storage.NewCloudStorageClient(ctx, cfg.StorageBucket, cfg.CredentialsPath)
	if err != nil {
		log.Fatalf("Failed to initialize Cloud Storage: %v", err)
	}
	defer storageClient.Close()

	vectorIndex := vector.NewPineconeClient(cfg.PineconeApiKey, cfg.PineconeIndexHost)
	inferenceClient := classifier.NewHuggingFaceClient(cfg.HfApiKey, cfg.HfClassifierURL, cfg.HfEmbeddingURL)

	userRepo := repository.NewFirestoreUserRepository(firestoreClient)
	productRepo := repository.NewFirestoreProductRepository(firestoreClient)
	donationRepo := repository.NewFirestoreDonationRepository(firestoreClient)
	chatRepo := repository.NewFirestoreChatRepository(firestoreClient)

	hub := notification.NewHub()

	userUseCase := usecase.NewUserUseCase(userRepo)
	productUseCase := usecase.NewProductUseCase(productRepo, userRepo, storageClient, vectorIndex, inferenceClient)
	donationUseCase := usecase.NewDonationUseCase(donationRepo, storageClient)
	chatUseCase := usecase.NewChatUseCase(chatRepo, userRepo, productRepo, hub)

	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(observability.HTTPMetricsMiddleware())

	e.Validator = api.NewValidator()

	router.Setup(e, router.Handlers{
		Chat:      handler.NewChatHandler(chatUseCase, hub, cfg.HeartbeatInterval),
		WebSocket: handler.NewWebSocketHandler(hub, cfg.HeartbeatInterval),
		Product:   handler.NewProductHandler(productUseCase),
		Donation:  handler.NewDonationHandler(donationUseCase),
		User:      handler.NewUserHandler(userUseCase),
		Health:    handler.NewHealthHandler(firestoreClient),
	})

	log.Printf("Starting server on port %s...", cfg.ServerPort)
	if err := e.Start(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
