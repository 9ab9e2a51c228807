package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/docapi/patient-name-service/api"
	"github.com/docapi/patient-name-service/internal/auth"
	"github.com/docapi/patient-name-service/internal/db"
	"github.com/docapi/patient-name-service/internal/models"
	"github.com/docapi/patient-name-service/internal/storage"
)

func main() {
	// Initialize JWT
	if err := auth.Init(); err != nil {
		log.Fatalf("Failed to initialize auth: %v", err)
	}
	log.Println("JWT authentication initialized")

	// Initialize database connection pool
	if err := db.Init(); err != nil {
		log.Printf("Warning: Database not available: %v", err)
		log.Println("Serving the in-memory fixture store (no persistence)")
	} else {
		defer db.Close()
		log.Println("Database connection pool initialized")
	}

	// Initialize MinIO storage
	if err := storage.Init(); err != nil {
		log.Printf("Warning: MinIO storage not available: %v", err)
		log.Println("Scans will not be stored")
	} else {
		log.Println("MinIO storage initialized")
	}

	// Load configuration
	config, err := loadConfig("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Create API handler
	handler := api.NewHandler(config)
	router := handler.SetupRoutes()

	// Add login endpoint
	router.HandleFunc("/api/login", auth.LoginHandler).Methods("POST")

	// Wrap router with JWT middleware (skips /health and /api/login)
	protectedRouter := auth.JWTMiddleware(router)

	// Start server
	addr := fmt.Sprintf("%s:%d", config.Host, config.Port)
	log.Printf("Starting Patient Name Service v%s on %s", api.Version, addr)
	log.Printf("OCR Engine: %s (language: %s)", config.OCR.Engine, config.OCR.Language)
	log.Printf("Line clustering threshold: %g", config.Extraction.YThreshold)
	log.Printf("Feminine titles: %v", config.Extraction.FeminineTitles)
	log.Printf("Database: %v", db.Pool != nil)
	log.Printf("Storage: %v", storage.Client != nil)
	log.Printf("Endpoints:")
	log.Printf("  POST http://%s/api/login                            - Authenticate", addr)
	log.Printf("  GET  http://%s/api/documents                        - List documents (requires JWT)", addr)
	log.Printf("  POST http://%s/api/documents                        - Ingest OCR document (requires JWT)", addr)
	log.Printf("  POST http://%s/api/documents/scan                   - Upload scan for OCR (requires JWT)", addr)
	log.Printf("  GET  http://%s/api/documents/{id}                   - Get document (requires JWT)", addr)
	log.Printf("  GET  http://%s/api/documents/{id}/patient-name      - Extract patient name (requires JWT)", addr)
	log.Printf("  GET  http://%s/api/documents/{id}/scan              - Download stored scan (requires JWT)", addr)
	log.Printf("  DELETE http://%s/api/documents/{id}                 - Delete document (requires JWT)", addr)
	log.Printf("  GET  http://%s/api/stats                            - Monthly stats (requires JWT)", addr)
	log.Printf("  GET  http://%s/health                               - Health check", addr)

	if err := http.ListenAndServe(addr, protectedRouter); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func loadConfig(path string) (*models.Config, error) {
	config := models.DefaultConfig()

	// Read config file
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("No %s found - using defaults", path)
		} else {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Override with environment variables if present
	if port := os.Getenv("PORT"); port != "" {
		fmt.Sscanf(port, "%d", &config.Port)
	}
	if host := os.Getenv("HOST"); host != "" {
		config.Host = host
	}
	if language := os.Getenv("OCR_LANGUAGE"); language != "" {
		config.OCR.Language = language
	}
	if threshold := os.Getenv("EXTRACTION_Y_THRESHOLD"); threshold != "" {
		if t, err := strconv.ParseFloat(threshold, 64); err == nil && t > 0 && t <= 1 {
			config.Extraction.YThreshold = t
		}
	}
	if feminine := os.Getenv("ENABLE_FEMININE_TITLES"); feminine != "" {
		if b, err := strconv.ParseBool(feminine); err == nil {
			config.Extraction.FeminineTitles = b
		}
	}

	return &config, nil
}
