package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/progresspro/client-registration/pkg/api"
	"github.com/progresspro/client-registration/pkg/clients/supabase"
	"github.com/progresspro/client-registration/pkg/config"
	"github.com/progresspro/client-registration/pkg/middleware"
	"github.com/progresspro/client-registration/pkg/models"
	"github.com/progresspro/client-registration/pkg/services"
	"github.com/progresspro/client-registration/pkg/validation"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file")
	}

	// Initialize configuration
	cfg := config.LoadConfig()
	if cfg.SupabaseURL == "" || cfg.SupabaseAnonKey == "" {
		log.Println("SUPABASE_URL or SUPABASE_ANON_KEY is not set; registrations will fail")
	}

	// Initialize API clients
	supabaseClient := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseAnonKey, cfg.SupabaseTable, nil)

	// Initialize services
	schemaOpts := []validation.Option{validation.WithCountryCode(cfg.DefaultCountryCode)}
	var cities []string
	if cfg.RestrictCities {
		cities = models.Cities
		schemaOpts = append(schemaOpts, validation.WithCities(cities))
	}
	registrationService := services.NewRegistrationService(
		validation.NewSchema(schemaOpts...),
		supabaseClient,
		cfg.DefaultCountryCode,
	)
	sessions := services.NewFormSessionStore(registrationService, cfg.FormSessionTTL)

	gin.SetMode(cfg.GinMode)

	// Create a new Gin router with default middleware
	router := gin.Default()
	router.Use(middleware.CORS(cfg.AllowedOrigins...))

	// Register routes
	handlers := api.NewHandlers(registrationService, sessions, cities, cfg.DefaultCountryCode)
	api.RegisterRoutes(router, handlers)

	// Start the server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Error starting server: %v", err)
	}
}
