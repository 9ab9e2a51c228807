// Package extract implements the patient name pipeline: reconstruction of
// reading-order text from spatially positioned OCR words, and the
// rule-based scan that locates a probable patient name in that text.
//
// Both stages are pure functions over their inputs. They hold no state
// between calls and are safe to invoke concurrently.
package extract

import (
	"fmt"
	"sort"

	"github.com/docapi/patient-name-service/internal/models"
)

// DefaultYThreshold is the vertical clustering tolerance applied when the
// caller passes a non-positive threshold, in normalized page units.
const DefaultYThreshold = 0.01

// ReadingOrder orders words the way a human would read them: grouped into
// lines top-to-bottom, then left-to-right within each line.
//
// Two words share a line when the vertical distance between their centres
// is within yThreshold. Clustering is transitive along the vertical axis:
// words are sorted by centre first, and a sweep opens a new line whenever
// the gap to the last word assigned to the current line exceeds the
// threshold. A single sweep over sorted words avoids the order-dependent
// artifacts of pairwise comparison against unsorted input.
//
// The output always contains exactly the input words; an empty input yields
// an empty output. The only failure mode is a word carrying an invalid
// bounding box, which is rejected before any grouping happens.
func ReadingOrder(words []models.Word, yThreshold float64) ([]models.Word, error) {
	if yThreshold <= 0 {
		yThreshold = DefaultYThreshold
	}

	for i, w := range words {
		if err := w.BBox.Validate(); err != nil {
			return nil, fmt.Errorf("word %d (%q): %w", i, w.Text, err)
		}
	}

	if len(words) == 0 {
		return []models.Word{}, nil
	}

	sorted := make([]models.Word, len(words))
	copy(sorted, words)
	sort.SliceStable(sorted, func(i, j int) bool {
		yi, yj := sorted[i].BBox.CenterY(), sorted[j].BBox.CenterY()
		if yi != yj {
			return yi < yj
		}
		return sorted[i].BBox.XMin < sorted[j].BBox.XMin
	})

	var lines [][]models.Word
	current := []models.Word{sorted[0]}
	for _, w := range sorted[1:] {
		last := current[len(current)-1]
		if w.BBox.CenterY()-last.BBox.CenterY() <= yThreshold {
			current = append(current, w)
		} else {
			lines = append(lines, current)
			current = []models.Word{w}
		}
	}
	lines = append(lines, current)

	ordered := make([]models.Word, 0, len(sorted))
	for _, line := range lines {
		sort.SliceStable(line, func(i, j int) bool {
			return line[i].BBox.XMin < line[j].BBox.XMin
		})
		ordered = append(ordered, line...)
	}

	return ordered, nil
}

// DocumentReadingOrder flattens a document into one reading-order word
// sequence. Pages are processed independently and concatenated in page
// order; words never move across pages.
func DocumentReadingOrder(doc *models.Document, yThreshold float64) ([]models.Word, error) {
	var ordered []models.Word
	for i, page := range doc.Pages {
		pageWords, err := ReadingOrder(page.Words, yThreshold)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
		ordered = append(ordered, pageWords...)
	}
	return ordered, nil
}
