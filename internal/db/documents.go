package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/docapi/patient-name-service/internal/models"
)

// ErrNotFound is returned when a document id does not exist in the table.
var ErrNotFound = errors.New("document not found")

// SaveDocument inserts a document, serializing its pages as JSONB. The
// document's CreatedAt is populated from the database.
func SaveDocument(ctx context.Context, doc *models.Document) error {
	pagesJSON, err := json.Marshal(doc.Pages)
	if err != nil {
		return fmt.Errorf("failed to serialize pages: %w", err)
	}

	query := `
		INSERT INTO documents (
			id, title, pages, original_page_count, needs_ocr_case, scan_url
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`

	err = Pool.QueryRow(ctx, query,
		doc.ID, doc.Title, pagesJSON, doc.OriginalPageCount, string(doc.OCRCase), doc.ScanURL,
	).Scan(&doc.CreatedAt)

	return err
}

// GetDocuments returns the most recently ingested documents.
func GetDocuments(ctx context.Context, limit int) ([]*models.Document, error) {
	query := `
		SELECT id, COALESCE(title, ''), COALESCE(pages::text, '[]'),
		       COALESCE(original_page_count, 0), COALESCE(needs_ocr_case, 'no_ocr'),
		       COALESCE(scan_url, ''), created_at, updated_at
		FROM documents
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := Pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*models.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	return docs, rows.Err()
}

// GetDocumentByID retrieves a single document by id.
func GetDocumentByID(ctx context.Context, id string) (*models.Document, error) {
	query := `
		SELECT id, COALESCE(title, ''), COALESCE(pages::text, '[]'),
		       COALESCE(original_page_count, 0), COALESCE(needs_ocr_case, 'no_ocr'),
		       COALESCE(scan_url, ''), created_at, updated_at
		FROM documents
		WHERE id = $1
	`

	doc, err := scanDocument(Pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("document %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// DeleteDocument removes a document by id.
func DeleteDocument(ctx context.Context, id string) error {
	tag, err := Pool.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("document %q: %w", id, ErrNotFound)
	}
	return nil
}

// MonthlyStats summarizes documents ingested in the current month.
type MonthlyStats struct {
	Month          string `json:"month"`
	DocumentCount  int    `json:"document_count"`
	NeedsOCRCount  int    `json:"needs_ocr_count"`
	TotalPageCount int    `json:"total_page_count"`
}

// GetMonthlyStats returns ingest statistics for the current month.
func GetMonthlyStats(ctx context.Context) (*MonthlyStats, error) {
	query := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE needs_ocr_case = 'needs_ocr'),
		       COALESCE(SUM(original_page_count), 0)
		FROM documents
		WHERE date_trunc('month', created_at) = date_trunc('month', NOW())
	`

	stats := &MonthlyStats{Month: time.Now().Format("2006-01")}
	err := Pool.QueryRow(ctx, query).Scan(
		&stats.DocumentCount, &stats.NeedsOCRCount, &stats.TotalPageCount,
	)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func scanDocument(row pgx.Row) (*models.Document, error) {
	var (
		doc       models.Document
		pagesJSON string
		ocrCase   string
	)
	err := row.Scan(
		&doc.ID, &doc.Title, &pagesJSON, &doc.OriginalPageCount,
		&ocrCase, &doc.ScanURL, &doc.CreatedAt, &doc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(pagesJSON), &doc.Pages); err != nil {
		return nil, fmt.Errorf("failed to decode pages for document %s: %w", doc.ID, err)
	}
	doc.OCRCase = models.OCRCase(ocrCase)
	return &doc, nil
}
