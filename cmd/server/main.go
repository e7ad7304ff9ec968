package main

import (
	"fmt"
	"log"
	"net/http"

	"flower-shop-platform/internal/config"
	"flower-shop-platform/internal/database"
	"flower-shop-platform/internal/handlers"
	"flower-shop-platform/internal/middleware"
	"flower-shop-platform/internal/repositories"
	"flower-shop-platform/internal/services"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Initialize database connection
	dbConfig := database.Config{
		URL:      cfg.Database.URL,
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	}

	db, err := database.NewConnection(dbConfig)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()
	log.Println("Database connection established successfully")

	// Run pending migrations
	if err := db.RunMigrations(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	// Create session store
	sessionStore := middleware.NewSessionStore(cfg.Session.Secret, cfg.IsProduction())

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db.DB)
	catalogRepo := repositories.NewCatalogRepository(db.DB)
	arrangementRepo := repositories.NewArrangementRepository(db.DB)

	// Initialize storage service (R2 or local fallback)
	var storageService services.StorageService
	if cfg.R2.AccessKeyID != "" && cfg.R2.SecretAccessKey != "" {
		r2Service, err := services.NewR2Service(cfg.R2)
		if err != nil {
			log.Printf("Failed to initialize R2 service: %v, using fallback storage", err)
			storageService = services.NewFallbackStorageService("./uploads", fmt.Sprintf("http://%s:%s/uploads", cfg.Server.Host, cfg.Server.Port))
		} else {
			storageService = r2Service
			log.Println("R2 storage service initialized successfully")
		}
	} else {
		storageService = services.NewFallbackStorageService("./uploads", fmt.Sprintf("http://%s:%s/uploads", cfg.Server.Host, cfg.Server.Port))
		log.Println("Using fallback storage service (R2 credentials not configured)")
	}

	// Initialize services
	arrangementService := services.NewArrangementService(arrangementRepo, catalogRepo, userRepo)
	imageService := services.NewImageService(storageService)
	imageSearchService := services.NewImageSearchService(services.ImageSearchConfig{
		BaseURL: cfg.ImageSearch.BaseURL,
	})

	// Initialize handlers
	arrangementHandler := handlers.NewArrangementHandler(arrangementService, imageService, sessionStore)
	cartHandler := handlers.NewCartHandler(sessionStore)
	imageSearchHandler := handlers.NewImageSearchHandler(imageSearchService)

	// Initialize router
	r := chi.NewRouter()

	// Basic middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.LoggingMiddleware)
	r.Use(middleware.ErrorHandlingMiddleware)
	r.Use(middleware.SecureHeaders)

	r.NotFound(middleware.NotFoundHandler().ServeHTTP)
	r.MethodNotAllowed(middleware.MethodNotAllowedHandler().ServeHTTP)

	// Locally stored preview images
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir("uploads/"))))

	// Custom arrangement designer routes
	r.Route("/api/arrangements", func(r chi.Router) {
		r.Get("/designer-data", arrangementHandler.DesignerData)
		r.Post("/", arrangementHandler.CreateArrangement)
		r.Get("/saved", arrangementHandler.SavedArrangements)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", arrangementHandler.GetArrangement)
			r.Delete("/", arrangementHandler.DeleteArrangement)
			r.Post("/flowers", arrangementHandler.AddFlower)
			r.Put("/flowers/{flowerID}", arrangementHandler.UpdateFlower)
			r.Delete("/flowers/{flowerID}", arrangementHandler.RemoveFlower)
			r.Post("/save", arrangementHandler.SaveArrangement)
			r.Post("/unsave", arrangementHandler.UnsaveArrangement)
			r.Get("/price", arrangementHandler.CalculatePrice)
			r.Post("/preview", arrangementHandler.UploadPreview)
			r.Post("/add-to-cart", arrangementHandler.AddToCart)
		})
	})

	r.Get("/api/flowers/{flowerTypeID}/availability", arrangementHandler.CheckAvailability)

	// Image-based flower search
	r.Post("/api/image-search", imageSearchHandler.SearchByImage)

	// Shopping cart routes
	r.Route("/api/cart", func(r chi.Router) {
		r.Get("/", cartHandler.ViewCart)
		r.Delete("/arrangements/{id}", cartHandler.RemoveArrangement)
		r.Delete("/items/{id}", cartHandler.RemoveItem)
		r.Post("/clear", cartHandler.ClearCart)
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","service":"flower-shop-platform"}`))
	})

	serverAddr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Server starting on %s (Environment: %s)", serverAddr, cfg.Server.Env)
	log.Fatal(http.ListenAndServe(serverAddr, r))
}
