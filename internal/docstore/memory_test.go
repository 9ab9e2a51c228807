package docstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docapi/patient-name-service/internal/models"
)

func TestNewWithFixtures(t *testing.T) {
	s := NewWithFixtures()

	docs := s.List()
	require.Len(t, docs, 3)
	assert.Equal(t, []string{"bar", "baz", "foo"},
		[]string{docs[0].ID, docs[1].ID, docs[2].ID})

	foo, err := s.Get("foo")
	require.NoError(t, err)
	assert.Equal(t, "Consultation report", foo.Title)
	require.Len(t, foo.Pages, 1)
	assert.Len(t, foo.Pages[0].Words, 18)
	assert.Equal(t, models.OCRCaseNone, foo.OCRCase)
}

func TestFixtureBoundingBoxesAreValid(t *testing.T) {
	for _, doc := range NewWithFixtures().List() {
		for _, w := range doc.AllWords() {
			assert.NoError(t, w.BBox.Validate(), "word %q in %s", w.Text, doc.ID)
		}
	}
}

func TestGet_Unknown(t *testing.T) {
	s := New()
	_, err := s.Get("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPutGetDelete(t *testing.T) {
	s := New()

	doc := &models.Document{ID: "doc-1", Title: "Lettre de sortie"}
	s.Put(doc)

	got, err := s.Get("doc-1")
	require.NoError(t, err)
	assert.Equal(t, doc, got)

	require.NoError(t, s.Delete("doc-1"))
	_, err = s.Get("doc-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete_Unknown(t *testing.T) {
	s := New()
	assert.ErrorIs(t, s.Delete("nope"), ErrNotFound)
}
