package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsTitle(t *testing.T) {
	tests := []struct {
		token    string
		feminine bool
		want     bool
	}{
		{"docteur", false, true},
		{"Docteur", false, true},
		{"DOCTEUR", false, true},
		{"Docteur.", false, true},
		{"(Docteur)", false, true},
		{"gastro-entérologue", false, true},
		{"dr", false, true},
		{"docteure", false, false},
		{"docteure", true, true},
		{"doctoresse", true, true},
		{"cheffe", true, true},
		{"docteur", true, true}, // base lexicon still applies
		{"Dupont", false, false},
		{"", false, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, isTitle(tt.token, tt.feminine),
			"isTitle(%q, feminine=%v)", tt.token, tt.feminine)
	}
}

func TestIsHonorific(t *testing.T) {
	assert.True(t, isHonorific("Monsieur"))
	assert.True(t, isHonorific("madame"))
	assert.True(t, isHonorific("Mme"))
	assert.True(t, isHonorific("M."))
	assert.False(t, isHonorific("Jean"))
	assert.False(t, isHonorific(""))
}

func TestNormalizeToken_DecomposedAccents(t *testing.T) {
	// "pédiatre": the accent arrives as a combining mark, as some
	// OCR engines emit it. NFC folds it back onto the e.
	decomposed := "pe\u0301diatre"
	assert.Equal(t, "pédiatre", normalizeToken(decomposed))
	assert.True(t, isTitle(decomposed, false))
}

func TestNormalizeToken_InternalPunctuationKept(t *testing.T) {
	assert.Equal(t, "gastro-entérologue", normalizeToken("gastro-entérologue,"))
	assert.Equal(t, "j'ai", normalizeToken("J'ai"))
}
