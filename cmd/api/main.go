package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"designmarket/internal/config"
	"designmarket/internal/database"
	"designmarket/internal/middleware"
	"designmarket/internal/modules/auth"
	"designmarket/internal/modules/chat"
	"designmarket/internal/modules/notification"
	"designmarket/internal/modules/proposal"
	"designmarket/internal/modules/request"
	"designmarket/internal/modules/wallet"
	jwtsvc "designmarket/internal/pkg/jwt"
	"designmarket/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is empty")
	}

	db, err := database.Connect(cfg.DatabaseDSN)
	if err != nil {
		log.Fatal(err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal(err)
	}

	userRepo := repository.NewUserRepository(db)
	requestRepo := repository.NewRequestRepository(db)
	proposalRepo := repository.NewProposalRepository(db)
	chatRepo := repository.NewChatRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	notifService := notification.NewService(notification.NewRepository(db))
	notifHandler := notification.NewHandler(notifService)

	authService := auth.NewService(userRepo, j)
	authHandler := auth.NewHandler(authService)

	requestService := request.NewService(requestRepo)
	requestHandler := request.NewHandler(requestService)

	proposalService := proposal.NewService(requestRepo, proposalRepo, notifService)
	proposalHandler := proposal.NewHandler(proposalService)

	walletService := wallet.NewService(db)
	walletHandler := wallet.NewHandler(walletService)

	hub := chat.NewHub()
	defer hub.Close()
	chatService := chat.NewService(chatRepo, userRepo, requestRepo, notifService, hub)
	chatHandler := chat.NewHandler(chatService, hub)

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterRoutes(v1)

		// protected
		protected := v1.Group("/")
		protected.Use(middleware.JWTAuth(j))
		{
			authHandler.RegisterProtectedRoutes(protected)
			requestHandler.RegisterRoutes(protected)
			proposalHandler.RegisterRoutes(protected)
			walletHandler.RegisterRoutes(protected)
			chatHandler.RegisterRoutes(protected)
			notifHandler.RegisterRoutes(protected)
		}
	}

	log.Printf("listening addr=%s", cfg.Addr)
	if err := r.Run(cfg.Addr); err != nil {
		log.Fatal(err)
	}
}
