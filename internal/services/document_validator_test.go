package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docapi/patient-name-service/internal/models"
)

func validDocument() *models.Document {
	return &models.Document{
		ID:    "doc-1",
		Title: "Compte rendu",
		Pages: []models.Page{
			{
				Words: []models.Word{
					{Text: "Bonjour", BBox: models.BoundingBox{XMin: 0.1, XMax: 0.2, YMin: 0.1, YMax: 0.11}},
				},
			},
		},
		OriginalPageCount: 1,
		OCRCase:           models.OCRCaseNone,
	}
}

func TestValidate_ValidDocument(t *testing.T) {
	result := NewDocumentValidator().Validate(validDocument())

	assert.True(t, result.Valid)
	assert.False(t, result.NeedsReview)
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Warnings)
}

func TestValidate_MissingID(t *testing.T) {
	doc := validDocument()
	doc.ID = ""

	result := NewDocumentValidator().Validate(doc)
	require.False(t, result.Valid)
	assert.Equal(t, "missing_id", result.Errors[0].Code)
}

func TestValidate_InvertedBox(t *testing.T) {
	doc := validDocument()
	doc.Pages[0].Words[0].BBox = models.BoundingBox{XMin: 0.5, XMax: 0.4, YMin: 0.1, YMax: 0.2}

	result := NewDocumentValidator().Validate(doc)
	require.False(t, result.Valid)
	assert.Equal(t, "invalid_bbox", result.Errors[0].Code)
	assert.Equal(t, "pages[0].words[0].bbox", result.Errors[0].Field)
}

func TestValidate_OutOfRangeBox(t *testing.T) {
	doc := validDocument()
	doc.Pages[0].Words[0].BBox = models.BoundingBox{XMin: 0.1, XMax: 1.2, YMin: 0.1, YMax: 0.2}

	result := NewDocumentValidator().Validate(doc)
	assert.False(t, result.Valid)
}

func TestValidate_NegativePageCount(t *testing.T) {
	doc := validDocument()
	doc.OriginalPageCount = -1

	result := NewDocumentValidator().Validate(doc)
	require.False(t, result.Valid)
	assert.Equal(t, "negative_page_count", result.Errors[0].Code)
}

func TestValidate_WarningsOnly(t *testing.T) {
	doc := validDocument()
	doc.Title = ""
	doc.Pages[0].Words = append(doc.Pages[0].Words, models.Word{
		Text: "",
		BBox: models.BoundingBox{XMin: 0.3, XMax: 0.4, YMin: 0.1, YMax: 0.11},
	})

	result := NewDocumentValidator().Validate(doc)
	assert.True(t, result.Valid)
	assert.True(t, result.NeedsReview)
	assert.Len(t, result.Warnings, 2)
}

func TestValidate_PageCountMismatchIsWarning(t *testing.T) {
	doc := validDocument()
	doc.OriginalPageCount = 3

	result := NewDocumentValidator().Validate(doc)
	assert.True(t, result.Valid)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, "page_count_mismatch", result.Warnings[0].Code)
}

func TestValidate_NeedsOCRWithoutPages(t *testing.T) {
	doc := &models.Document{
		ID:                "scan-1",
		Title:             "Scan en attente",
		OriginalPageCount: 4,
		OCRCase:           models.OCRCaseNeeded,
	}

	result := NewDocumentValidator().Validate(doc)
	assert.True(t, result.Valid)
	assert.Empty(t, result.Warnings)
}
