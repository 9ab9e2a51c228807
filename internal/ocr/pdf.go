package ocr

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PDFInfo describes an uploaded PDF before any OCR has run.
type PDFInfo struct {
	PageCount int
	// NeedsOCR is true when the PDF embeds no fonts, i.e. it is a pure
	// image scan with no text layer.
	NeedsOCR bool
}

// InspectPDF parses a PDF upload with pdfcpu and reports its page count
// and whether an OCR pass is required to obtain words.
func InspectPDF(data []byte) (*PDFInfo, error) {
	conf := model.NewDefaultConfiguration()

	ctx, err := api.ReadContext(bytes.NewReader(data), conf)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF: %w", err)
	}
	if err := api.ValidateContext(ctx); err != nil {
		return nil, fmt.Errorf("invalid PDF: %w", err)
	}
	if err := api.OptimizeContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to analyze PDF: %w", err)
	}

	return &PDFInfo{
		PageCount: ctx.PageCount,
		NeedsOCR:  len(ctx.Optimize.FontObjects) == 0,
	}, nil
}
