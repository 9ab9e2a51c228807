package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/docapi/patient-name-service/internal/db"
	"github.com/docapi/patient-name-service/internal/docstore"
	"github.com/docapi/patient-name-service/internal/extract"
	"github.com/docapi/patient-name-service/internal/models"
	"github.com/docapi/patient-name-service/internal/ocr"
	"github.com/docapi/patient-name-service/internal/services"
	"github.com/docapi/patient-name-service/internal/storage"
)

const (
	MaxUploadSize = 10 * 1024 * 1024 // 10MB
	Version       = "1.0.0"
)

// Handler handles HTTP requests for document storage and patient name
// extraction
type Handler struct {
	config    *models.Config
	memory    *docstore.Store
	validator *services.DocumentValidator
}

// NewHandler creates a new API handler. The in-memory fixture store serves
// documents whenever no database is configured.
func NewHandler(config *models.Config) *Handler {
	return &Handler{
		config:    config,
		memory:    docstore.NewWithFixtures(),
		validator: services.NewDocumentValidator(),
	}
}

// SetupRoutes configures the HTTP routes
func (h *Handler) SetupRoutes() *mux.Router {
	router := mux.NewRouter()

	// Document CRUD
	router.HandleFunc("/api/documents", h.GetDocuments).Methods("GET")
	router.HandleFunc("/api/documents", h.IngestDocument).Methods("POST")
	router.HandleFunc("/api/documents/scan", h.IngestScan).Methods("POST")
	router.HandleFunc("/api/documents/{id}", h.GetDocument).Methods("GET")
	router.HandleFunc("/api/documents/{id}", h.DeleteDocument).Methods("DELETE")

	// Extraction
	router.HandleFunc("/api/documents/{id}/patient-name", h.GetPatientName).Methods("GET")

	// Stored scan access
	router.HandleFunc("/api/documents/{id}/scan", h.GetDocumentScan).Methods("GET")

	// Statistics
	router.HandleFunc("/api/stats", h.GetStats).Methods("GET")

	// Health check
	router.HandleFunc("/health", h.Health).Methods("GET")

	return router
}

// HealthResponse represents the health check response structure
type HealthResponse struct {
	Status      string        `json:"status"`
	Version     string        `json:"version"`
	Timestamp   string        `json:"timestamp"`
	Uptime      string        `json:"uptime"`
	Memory      MemoryStats   `json:"memory"`
	Tesseract   ServiceStatus `json:"tesseract"`
	ImageMagick ServiceStatus `json:"imageMagick"`
	Database    ServiceStatus `json:"database"`
	Storage     ServiceStatus `json:"storage"`
}

// MemoryStats represents memory usage statistics
type MemoryStats struct {
	Allocated string `json:"allocated"`
	Total     string `json:"total"`
	System    string `json:"system"`
}

// ServiceStatus represents the status of a service dependency
type ServiceStatus struct {
	Available bool   `json:"available"`
	Version   string `json:"version,omitempty"`
	Error     string `json:"error,omitempty"`
}

var startTime = time.Now()

// Health endpoint - enhanced for monitoring. OCR and storage dependencies
// are optional: JSON-ingested documents are served without them, so their
// absence only degrades the status instead of failing it.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	// Memory statistics
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	response := HealthResponse{
		Status:    "healthy",
		Version:   Version,
		Timestamp: time.Now().Format(time.RFC3339),
		Uptime:    time.Since(startTime).String(),
		Memory: MemoryStats{
			Allocated: fmt.Sprintf("%.2f MB", float64(m.Alloc)/1024/1024),
			Total:     fmt.Sprintf("%.2f MB", float64(m.TotalAlloc)/1024/1024),
			System:    fmt.Sprintf("%.2f MB", float64(m.Sys)/1024/1024),
		},
		Tesseract:   h.checkTesseract(),
		ImageMagick: h.checkImageMagick(),
		Database:    h.checkDatabase(),
		Storage:     h.checkStorage(),
	}

	if !response.Tesseract.Available || !response.ImageMagick.Available {
		response.Status = "degraded"
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// checkTesseract verifies Tesseract OCR is available
func (h *Handler) checkTesseract() ServiceStatus {
	cmd := exec.Command("tesseract", "--version")
	output, err := cmd.CombinedOutput()

	if err != nil {
		return ServiceStatus{
			Available: false,
			Error:     "tesseract not found or not executable",
		}
	}

	version := "unknown"
	lines := strings.Split(string(output), "\n")
	if len(lines) > 0 {
		version = strings.TrimSpace(lines[0])
	}

	return ServiceStatus{
		Available: true,
		Version:   version,
	}
}

// checkImageMagick verifies ImageMagick is available
func (h *Handler) checkImageMagick() ServiceStatus {
	cmd := exec.Command("convert", "-version")
	output, err := cmd.CombinedOutput()

	if err != nil {
		return ServiceStatus{
			Available: false,
			Error:     "imagemagick not found or not executable",
		}
	}

	version := "unknown"
	lines := strings.Split(string(output), "\n")
	if len(lines) > 0 {
		version = strings.TrimSpace(lines[0])
	}

	return ServiceStatus{
		Available: true,
		Version:   version,
	}
}

// checkDatabase verifies PostgreSQL connection
func (h *Handler) checkDatabase() ServiceStatus {
	if db.Pool == nil {
		return ServiceStatus{
			Available: false,
			Error:     "database pool not initialized - using in-memory store",
		}
	}

	return ServiceStatus{
		Available: true,
		Version:   "PostgreSQL via PgBouncer",
	}
}

// checkStorage verifies MinIO connection
func (h *Handler) checkStorage() ServiceStatus {
	if storage.Client == nil {
		return ServiceStatus{
			Available: false,
			Error:     "storage client not initialized",
		}
	}

	return ServiceStatus{
		Available: true,
		Version:   "MinIO S3",
	}
}

// GetDocuments returns all stored documents
func (h *Handler) GetDocuments(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var (
		docs []*models.Document
		err  error
	)
	if db.Pool != nil {
		docs, err = db.GetDocuments(r.Context(), 100)
		if err != nil {
			h.sendError(w, http.StatusInternalServerError, fmt.Sprintf("failed to get documents: %v", err))
			return
		}
	} else {
		docs = h.memory.List()
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"success":   true,
		"documents": docs,
		"count":     len(docs),
	})
}

// GetDocument returns a single document
func (h *Handler) GetDocument(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	doc, err := h.lookupDocument(r, mux.Vars(r)["id"])
	if err != nil {
		h.sendDocumentError(w, err)
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"success":  true,
		"document": doc,
	})
}

// GetPatientName runs the extraction pipeline over a stored document.
// An extraction that finds no candidate is a successful response with
// found=false, not an error.
func (h *Handler) GetPatientName(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	documentID := mux.Vars(r)["id"]
	doc, err := h.lookupDocument(r, documentID)
	if err != nil {
		h.sendDocumentError(w, err)
		return
	}

	opts, err := h.extractionOptions(r)
	if err != nil {
		h.sendError(w, http.StatusBadRequest, err.Error())
		return
	}

	words, err := extract.DocumentReadingOrder(doc, opts.YThreshold)
	if err != nil {
		// Stored words with broken boxes: reject, never guess
		h.sendError(w, http.StatusUnprocessableEntity, fmt.Sprintf("document is malformed: %v", err))
		return
	}

	name, found := extract.PatientName(words, opts)

	json.NewEncoder(w).Encode(models.PatientNameResponse{
		DocumentID:    documentID,
		ExtractedName: name,
		Found:         found,
	})
}

// extractionOptions builds the extraction options from configuration,
// allowing per-request overrides via query parameters.
func (h *Handler) extractionOptions(r *http.Request) (extract.Options, error) {
	opts := extract.Options{
		YThreshold:     h.config.Extraction.YThreshold,
		FeminineTitles: h.config.Extraction.FeminineTitles,
	}

	if v := r.URL.Query().Get("y_threshold"); v != "" {
		t, err := strconv.ParseFloat(v, 64)
		if err != nil || t <= 0 || t > 1 {
			return opts, fmt.Errorf("invalid y_threshold %q", v)
		}
		opts.YThreshold = t
	}
	if v := r.URL.Query().Get("feminine_titles"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, fmt.Errorf("invalid feminine_titles %q", v)
		}
		opts.FeminineTitles = b
	}

	return opts, nil
}

// IngestDocument stores a document supplied as JSON (pages of words with
// bounding boxes, as produced by an upstream OCR process)
func (h *Handler) IngestDocument(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var doc models.Document
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	if doc.OCRCase == "" {
		doc.OCRCase = models.OCRCaseNone
	}
	if doc.OriginalPageCount == 0 {
		doc.OriginalPageCount = len(doc.Pages)
	}

	result := h.validator.Validate(&doc)
	if !result.Valid {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success":    false,
			"error":      "document failed validation",
			"validation": result,
		})
		return
	}

	if err := h.saveDocument(r, &doc); err != nil {
		h.sendError(w, http.StatusInternalServerError, fmt.Sprintf("failed to save document: %v", err))
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success":    true,
		"document":   doc,
		"validation": result,
	})
}

// IngestScan accepts a multipart scan upload (image or PDF), runs OCR for
// images, inspects PDFs for a text layer, and stores the original in MinIO
func (h *Handler) IngestScan(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	ingestStart := time.Now()

	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize)
	if err := r.ParseMultipartForm(MaxUploadSize); err != nil {
		h.sendError(w, http.StatusBadRequest, "File too large or invalid form data")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		file, header, err = r.FormFile("scan")
		if err != nil {
			h.sendError(w, http.StatusBadRequest, "No file provided (use 'file' or 'scan' field)")
			return
		}
	}
	defer file.Close()

	scanData, err := io.ReadAll(file)
	if err != nil {
		h.sendError(w, http.StatusInternalServerError, "Failed to read file")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}

	title := r.FormValue("title")
	if title == "" {
		title = header.Filename
	}

	language := r.FormValue("language")
	if language == "" {
		language = h.config.OCR.Language
	}

	doc := &models.Document{
		ID:    uuid.New().String(),
		Title: title,
	}

	var ocrDuration float64
	if contentType == "application/pdf" {
		info, err := ocr.InspectPDF(scanData)
		if err != nil {
			h.sendError(w, http.StatusBadRequest, fmt.Sprintf("PDF inspection failed: %v", err))
			return
		}
		// Word extraction from PDFs happens in a later OCR pass
		doc.OriginalPageCount = info.PageCount
		doc.OCRCase = models.OCRCaseNeeded
		if !info.NeedsOCR {
			doc.OCRCase = models.OCRCaseNone
		}
	} else {
		preprocessor := ocr.NewPreprocessor()
		processed, err := preprocessor.PreprocessScan(scanData)
		if err != nil {
			h.sendError(w, http.StatusInternalServerError, fmt.Sprintf("image preprocessing failed: %v", err))
			return
		}

		engine := ocr.NewTesseractOCR(language)
		page, duration, err := engine.RecognizePage(processed)
		if err != nil {
			h.sendError(w, http.StatusInternalServerError, fmt.Sprintf("OCR failed: %v", err))
			return
		}
		ocrDuration = duration
		doc.Pages = []models.Page{page}
		doc.OriginalPageCount = 1
		doc.OCRCase = models.OCRCaseNone
	}

	// Store the original scan (optional - ingestion proceeds without it)
	if storage.Client != nil {
		filename := fmt.Sprintf("%s_%s%s",
			time.Now().Format("20060102_150405"),
			uuid.New().String()[:8],
			storage.GetFileExtension(contentType),
		)
		scanURL, err := storage.UploadScan(
			r.Context(), filename, bytes.NewReader(scanData), int64(len(scanData)), contentType,
		)
		if err != nil {
			fmt.Printf("Warning: failed to upload scan to MinIO: %v\n", err)
		} else {
			doc.ScanURL = scanURL
		}
	}

	if result := h.validator.Validate(doc); !result.Valid {
		h.sendError(w, http.StatusUnprocessableEntity, "OCR produced a malformed document")
		return
	}

	if err := h.saveDocument(r, doc); err != nil {
		h.sendError(w, http.StatusInternalServerError, fmt.Sprintf("failed to save document: %v", err))
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success":       true,
		"document":      doc,
		"ocrDuration":   ocrDuration,
		"totalDuration": time.Since(ingestStart).Seconds(),
	})
}

// GetDocumentScan redirects to a presigned URL for the stored scan
func (h *Handler) GetDocumentScan(w http.ResponseWriter, r *http.Request) {
	doc, err := h.lookupDocument(r, mux.Vars(r)["id"])
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		h.sendDocumentError(w, err)
		return
	}

	if doc.ScanURL == "" || storage.Client == nil {
		w.Header().Set("Content-Type", "application/json")
		h.sendError(w, http.StatusNotFound, "document has no stored scan")
		return
	}

	presignedURL, err := storage.GetPresignedURL(r.Context(), doc.ScanURL)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		h.sendError(w, http.StatusInternalServerError, "failed to generate scan URL")
		return
	}

	http.Redirect(w, r, presignedURL, http.StatusFound)
}

// DeleteDocument removes a document and its stored scan
func (h *Handler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	documentID := mux.Vars(r)["id"]

	// Delete the stored scan first (ignore errors)
	if storage.Client != nil {
		if doc, err := h.lookupDocument(r, documentID); err == nil && doc.ScanURL != "" {
			_ = storage.DeleteScan(r.Context(), doc.ScanURL)
		}
	}

	var err error
	if db.Pool != nil {
		err = db.DeleteDocument(r.Context(), documentID)
	} else {
		err = h.memory.Delete(documentID)
	}
	if err != nil {
		h.sendDocumentError(w, err)
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"message": "document deleted",
	})
}

// GetStats returns monthly ingest statistics
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if db.Pool == nil {
		h.sendError(w, http.StatusServiceUnavailable, "database not available")
		return
	}

	stats, err := db.GetMonthlyStats(r.Context())
	if err != nil {
		h.sendError(w, http.StatusInternalServerError, "failed to get stats")
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"stats":   stats,
	})
}

// lookupDocument fetches a document from the database or, without one,
// from the in-memory fixture store
func (h *Handler) lookupDocument(r *http.Request, id string) (*models.Document, error) {
	if db.Pool != nil {
		return db.GetDocumentByID(r.Context(), id)
	}
	return h.memory.Get(id)
}

// saveDocument stores a document in the database or the in-memory store
func (h *Handler) saveDocument(r *http.Request, doc *models.Document) error {
	if db.Pool != nil {
		return db.SaveDocument(r.Context(), doc)
	}
	doc.CreatedAt = time.Now()
	h.memory.Put(doc)
	return nil
}

// sendDocumentError maps store errors to HTTP status codes
func (h *Handler) sendDocumentError(w http.ResponseWriter, err error) {
	if errors.Is(err, docstore.ErrNotFound) || errors.Is(err, db.ErrNotFound) {
		h.sendError(w, http.StatusNotFound, err.Error())
		return
	}
	h.sendError(w, http.StatusInternalServerError, err.Error())
}

// sendError sends an error response
func (h *Handler) sendError(w http.ResponseWriter, statusCode int, message string) {
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}
