package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"backoffice/internal/config"
	"backoffice/internal/database"
	"backoffice/internal/middleware"
	"backoffice/internal/modules/auth"
	"backoffice/internal/modules/catalog"
	"backoffice/internal/modules/chat"
	"backoffice/internal/modules/contract"
	"backoffice/internal/modules/mail"
	"backoffice/internal/modules/quotation"
	jwtsvc "backoffice/internal/pkg/jwt"
	"backoffice/internal/pkg/mailer"
	"backoffice/internal/pkg/paylink"
	"backoffice/internal/pkg/storage"
	"backoffice/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal(err)
	}

	userRepo := repository.NewUserRepository(db)
	quotationRepo := repository.NewQuotationRepository(db)
	conceptRepo := repository.NewConceptRepository(db)
	contractRepo := repository.NewContractRepository(db)
	chatRepo := repository.NewChatRepository(db)
	mailRepo := repository.NewMailRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)
	links := paylink.NewFromEnv(log.Printf)
	smtp := mailer.NewFromEnv(log.Printf)

	uploadsDir := cfg.UploadsDir
	if uploadsDir == "" {
		uploadsDir = "./uploads"
	}
	staticBase := cfg.StaticURLBase
	if staticBase == "" {
		staticBase = cfg.PublicBaseURL + "/static"
	}
	store := storage.New(uploadsDir, staticBase)

	authService := auth.NewService(userRepo, j)
	authHandler := auth.NewHandler(authService)

	quotationService := quotation.NewService(quotationRepo, links, cfg.PublicBaseURL, log.Printf)
	quotationHandler := quotation.NewHandler(quotationService)

	catalogService := catalog.NewService(conceptRepo)
	catalogHandler := catalog.NewHandler(catalogService)

	contractService := contract.NewService(contractRepo, userRepo, store, log.Printf)
	contractHandler := contract.NewHandler(contractService)

	hub := chat.NewHub()
	defer hub.Close()
	chatService := chat.NewService(chatRepo, userRepo, hub)
	chatHandler := chat.NewHandler(chatService, hub)

	mailService := mail.NewService(mailRepo, smtp)
	mailHandler := mail.NewHandler(mailService)

	r := gin.New()
	r.Use(middleware.ErrorLogger())
	r.Use(middleware.CORS())

	r.Static("/static", store.BaseDir())

	// Token-addressed public pages, no auth.
	quotationHandler.RegisterPublicRoutes(r)
	contractHandler.RegisterPublicRoutes(r)

	v1 := r.Group("/api/v1")
	{
		authHandler.RegisterPublicRoutes(v1)

		protected := v1.Group("/")
		protected.Use(middleware.JWTAuth(j))
		{
			authHandler.RegisterRoutes(protected)
			quotationHandler.RegisterRoutes(protected)
			catalogHandler.RegisterRoutes(protected)
			chatHandler.RegisterRoutes(protected)
			mailHandler.RegisterRoutes(protected)

			adminOnly := protected.Group("/")
			adminOnly.Use(middleware.AdminOnly())
			{
				authHandler.RegisterAdminRoutes(adminOnly)
				contractHandler.RegisterRoutes(adminOnly)
			}
		}
	}

	log.Printf("level=info msg=listening addr=%s", cfg.ListenAddr)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatal(err)
	}
}
