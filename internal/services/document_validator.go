package services

import (
	"fmt"

	"github.com/docapi/patient-name-service/internal/models"
)

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
}

// ValidationWarning represents a non-critical issue
type ValidationWarning struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationResult is the response from validation
type ValidationResult struct {
	Valid       bool                `json:"valid"`
	NeedsReview bool                `json:"needs_review"`
	Errors      []ValidationError   `json:"errors"`
	Warnings    []ValidationWarning `json:"warnings"`
}

// DocumentValidator checks ingested documents before they reach the
// extraction pipeline. Extraction is only defined over well-formed
// bounding boxes, so a document failing validation is rejected outright
// rather than partially processed.
type DocumentValidator struct{}

// NewDocumentValidator creates a new validator
func NewDocumentValidator() *DocumentValidator {
	return &DocumentValidator{}
}

// Validate performs all structural validations on a document
func (v *DocumentValidator) Validate(doc *models.Document) *ValidationResult {
	result := &ValidationResult{
		Valid:       true,
		NeedsReview: false,
		Errors:      []ValidationError{},
		Warnings:    []ValidationWarning{},
	}

	v.validateIdentity(doc, result)
	v.validateBoundingBoxes(doc, result)
	v.validatePageCounts(doc, result)

	result.Valid = len(result.Errors) == 0
	result.NeedsReview = len(result.Warnings) > 0

	return result
}

// validateIdentity checks the document carries an id and a title
func (v *DocumentValidator) validateIdentity(doc *models.Document, result *ValidationResult) {
	if doc.ID == "" {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "id",
			Code:    "missing_id",
			Message: "document id is required",
		})
	}
	if doc.Title == "" {
		result.Warnings = append(result.Warnings, ValidationWarning{
			Field:   "title",
			Code:    "missing_title",
			Message: "document has no title",
		})
	}
}

// validateBoundingBoxes checks every word's box against the coordinate
// invariants (values in [0,1], min <= max on both axes)
func (v *DocumentValidator) validateBoundingBoxes(doc *models.Document, result *ValidationResult) {
	for p, page := range doc.Pages {
		for w, word := range page.Words {
			if word.Text == "" {
				result.Warnings = append(result.Warnings, ValidationWarning{
					Field:   fmt.Sprintf("pages[%d].words[%d].text", p, w),
					Code:    "empty_word",
					Message: "word has empty text",
				})
			}
			if err := word.BBox.Validate(); err != nil {
				result.Errors = append(result.Errors, ValidationError{
					Field:   fmt.Sprintf("pages[%d].words[%d].bbox", p, w),
					Code:    "invalid_bbox",
					Message: err.Error(),
				})
			}
		}
	}
}

// validatePageCounts checks the declared page count against the pages
// actually present
func (v *DocumentValidator) validatePageCounts(doc *models.Document, result *ValidationResult) {
	if doc.OriginalPageCount < 0 {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "original_page_count",
			Code:    "negative_page_count",
			Message: "original page count cannot be negative",
		})
		return
	}

	if doc.OCRCase == models.OCRCaseNone && doc.OriginalPageCount > 0 &&
		doc.OriginalPageCount != len(doc.Pages) {
		result.Warnings = append(result.Warnings, ValidationWarning{
			Field: "original_page_count",
			Code:  "page_count_mismatch",
			Message: fmt.Sprintf("declared %d pages but %d present",
				doc.OriginalPageCount, len(doc.Pages)),
		})
	}
}
