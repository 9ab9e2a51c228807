// Package docstore provides the in-memory document store used when no
// database is configured, seeded with development fixtures.
package docstore

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/docapi/patient-name-service/internal/models"
)

// ErrNotFound is returned when a document id is unknown to the store.
var ErrNotFound = errors.New("document not found")

// Store is a concurrency-safe in-memory document store.
type Store struct {
	mu   sync.RWMutex
	docs map[string]*models.Document
}

// New returns an empty store.
func New() *Store {
	return &Store{docs: make(map[string]*models.Document)}
}

// NewWithFixtures returns a store seeded with the development fixtures: a
// one-page consultation report ("foo") plus two empty documents.
func NewWithFixtures() *Store {
	s := New()
	for _, doc := range fixtures() {
		s.docs[doc.ID] = doc
	}
	return s
}

// List returns all documents ordered by id.
func (s *Store) List() []*models.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make([]*models.Document, 0, len(s.docs))
	for _, doc := range s.docs {
		docs = append(docs, doc)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs
}

// Get returns the document with the given id.
func (s *Store) Get(id string) (*models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[id]
	if !ok {
		return nil, fmt.Errorf("document %q: %w", id, ErrNotFound)
	}
	return doc, nil
}

// Put stores or replaces a document.
func (s *Store) Put(doc *models.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[doc.ID] = doc
}

// Delete removes a document.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[id]; !ok {
		return fmt.Errorf("document %q: %w", id, ErrNotFound)
	}
	delete(s.docs, id)
	return nil
}

func box(xMin, xMax, yMin, yMax float64) models.BoundingBox {
	return models.BoundingBox{XMin: xMin, XMax: xMax, YMin: yMin, YMax: yMax}
}

// fixtures builds the seed documents. The consultation report's words are
// deliberately shuffled; reading order is the extractor's job.
func fixtures() []*models.Document {
	return []*models.Document{
		{
			ID:    "foo",
			Title: "Consultation report",
			Pages: []models.Page{
				{
					Words: []models.Word{
						{Text: "hanche", BBox: box(0.75, 0.81, 0.09, 0.1)},
						{Text: "JACQUES", BBox: box(0.74, 0.83, 0.16, 0.17)},
						{Text: "pour", BBox: box(0.57, 0.61, 0.09, 0.1)},
						{Text: "la", BBox: box(0.73, 0.75, 0.09, 0.1)},
						{Text: "en", BBox: box(0.23, 0.26, 0.09, 0.1)},
						{Text: "bien", BBox: box(0.15, 0.19, 0.09, 0.1)},
						{Text: "consultation", BBox: box(0.26, 0.36, 0.09, 0.1)},
						{Text: "Monsieur", BBox: box(0.36, 0.44, 0.09, 0.1)},
						{Text: "Jean", BBox: box(0.44, 0.48, 0.09, 0.1)},
						{Text: "à", BBox: box(0.72, 0.73, 0.09, 0.1)},
						{Text: "droite.", BBox: box(0.82, 0.87, 0.09, 0.1)},
						{Text: "revu", BBox: box(0.19, 0.23, 0.09, 0.1)},
						{Text: "DUPONT", BBox: box(0.49, 0.57, 0.09, 0.1)},
						{Text: "douleur", BBox: box(0.65, 0.71, 0.09, 0.1)},
						{Text: "J'ai", BBox: box(0.12, 0.15, 0.09, 0.1)},
						{Text: "une", BBox: box(0.61, 0.65, 0.09, 0.1)},
						{Text: "Nicolas", BBox: box(0.67, 0.73, 0.16, 0.17)},
						{Text: "Docteur", BBox: box(0.6, 0.67, 0.16, 0.17)},
					},
				},
			},
			OriginalPageCount: 1,
			OCRCase:           models.OCRCaseNone,
		},
		{ID: "bar", Title: "Bar", OCRCase: models.OCRCaseNone},
		{ID: "baz", Title: "Baz", OCRCase: models.OCRCaseNone},
	}
}
