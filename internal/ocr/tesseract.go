package ocr

import (
	"bytes"
	"fmt"
	"image"
	"time"

	_ "image/jpeg"
	_ "image/png"

	"github.com/otiai10/gosseract/v2"

	"github.com/docapi/patient-name-service/internal/models"
)

// TesseractOCR recognizes words and their positions on a scanned page via
// the Tesseract engine.
type TesseractOCR struct {
	language string
}

// NewTesseractOCR creates a new Tesseract OCR instance
func NewTesseractOCR(language string) *TesseractOCR {
	if language == "" {
		language = "fra" // the title lexicon targets French documents
	}
	return &TesseractOCR{
		language: language,
	}
}

// RecognizePage performs word-level OCR on image bytes and returns a page
// of words with bounding boxes normalized to the page dimensions, plus the
// OCR duration in seconds.
func (t *TesseractOCR) RecognizePage(imageBytes []byte) (models.Page, float64, error) {
	start := time.Now()

	cfg, _, err := image.DecodeConfig(bytes.NewReader(imageBytes))
	if err != nil {
		return models.Page{}, 0, fmt.Errorf("failed to decode image dimensions: %w", err)
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return models.Page{}, 0, fmt.Errorf("image has zero dimensions")
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(t.language); err != nil {
		return models.Page{}, 0, fmt.Errorf("failed to set language %q: %w", t.language, err)
	}
	if err := client.SetImageFromBytes(imageBytes); err != nil {
		return models.Page{}, 0, fmt.Errorf("failed to set image: %w", err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return models.Page{}, 0, fmt.Errorf("OCR failed: %w", err)
	}

	width := float64(cfg.Width)
	height := float64(cfg.Height)

	page := models.Page{Words: make([]models.Word, 0, len(boxes))}
	for _, b := range boxes {
		if b.Word == "" {
			continue
		}
		page.Words = append(page.Words, models.Word{
			Text: b.Word,
			BBox: models.BoundingBox{
				XMin: clamp01(float64(b.Box.Min.X) / width),
				XMax: clamp01(float64(b.Box.Max.X) / width),
				YMin: clamp01(float64(b.Box.Min.Y) / height),
				YMax: clamp01(float64(b.Box.Max.Y) / height),
			},
		})
	}

	return page, time.Since(start).Seconds(), nil
}

// Tesseract occasionally reports boxes a pixel past the image edge; the
// normalized coordinate space is closed over [0,1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
