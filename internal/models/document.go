package models

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidBoundingBox is wrapped by all bounding box validation failures.
var ErrInvalidBoundingBox = errors.New("invalid bounding box")

// OCRCase indicates whether a document still needs an OCR pass before its
// words are usable.
type OCRCase string

const (
	OCRCaseNone   OCRCase = "no_ocr"
	OCRCaseNeeded OCRCase = "needs_ocr"
)

// BoundingBox locates a word on a page. Coordinates are normalized to the
// page dimensions, so every value lies in [0, 1].
type BoundingBox struct {
	XMin float64 `json:"xMin"`
	XMax float64 `json:"xMax"`
	YMin float64 `json:"yMin"`
	YMax float64 `json:"yMax"`
}

// Validate checks the box invariants: all coordinates in [0, 1],
// XMin <= XMax and YMin <= YMax.
func (b BoundingBox) Validate() error {
	coords := [...]struct {
		name  string
		value float64
	}{
		{"xMin", b.XMin},
		{"xMax", b.XMax},
		{"yMin", b.YMin},
		{"yMax", b.YMax},
	}
	for _, c := range coords {
		if c.value < 0 || c.value > 1 {
			return fmt.Errorf("%w: %s=%v out of [0,1]", ErrInvalidBoundingBox, c.name, c.value)
		}
	}
	if b.XMin > b.XMax {
		return fmt.Errorf("%w: xMin %v > xMax %v", ErrInvalidBoundingBox, b.XMin, b.XMax)
	}
	if b.YMin > b.YMax {
		return fmt.Errorf("%w: yMin %v > yMax %v", ErrInvalidBoundingBox, b.YMin, b.YMax)
	}
	return nil
}

// CenterY returns the vertical centre of the box, the reference coordinate
// used for line clustering.
func (b BoundingBox) CenterY() float64 {
	return (b.YMin + b.YMax) / 2
}

// Word is a single OCR token with its position on the page. Words are
// read-only once produced by the OCR engine.
type Word struct {
	Text string      `json:"text"`
	BBox BoundingBox `json:"bbox"`
}

// Page holds the words recognized on one page, in whatever order the OCR
// engine emitted them.
type Page struct {
	Words []Word `json:"words"`
}

// Document is a stored medical document with its OCR words.
type Document struct {
	ID                string     `json:"id"`
	Title             string     `json:"title"`
	Pages             []Page     `json:"pages"`
	OriginalPageCount int        `json:"originalPageCount"`
	OCRCase           OCRCase    `json:"needsOcrCase"`
	ScanURL           string     `json:"scanUrl,omitempty"`
	CreatedAt         time.Time  `json:"createdAt,omitempty"`
	UpdatedAt         *time.Time `json:"updatedAt,omitempty"`
}

// AllWords returns the document's words as a single pool, concatenated in page
// order. Pages are never reordered relative to each other.
func (d *Document) AllWords() []Word {
	var n int
	for _, p := range d.Pages {
		n += len(p.Words)
	}
	words := make([]Word, 0, n)
	for _, p := range d.Pages {
		words = append(words, p.Words...)
	}
	return words
}

// PatientNameResponse is the payload of the patient-name endpoint. Found is
// false when the scan exhausted the document without a candidate; that is a
// normal outcome, not an error.
type PatientNameResponse struct {
	DocumentID    string `json:"document_id"`
	ExtractedName string `json:"extracted_name"`
	Found         bool   `json:"found"`
}
