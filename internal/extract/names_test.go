package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docapi/patient-name-service/internal/models"
)

func tokens(sentence string) []string {
	return strings.Fields(sentence)
}

func TestPatientNameFromTokens_ConsultationReport(t *testing.T) {
	words := tokens("J'ai bien revu en consultation Monsieur Jean DUPONT pour une douleur à la hanche droite. Docteur Nicolas JACQUES")

	name, found := PatientNameFromTokens(words, Options{})
	require.True(t, found)
	assert.Equal(t, "Jean DUPONT", name)
}

func TestPatientNameFromTokens_DoctorSignatureAlone(t *testing.T) {
	// The title excludes itself and consumes the doctor's first and last
	// name, so nothing qualifies.
	name, found := PatientNameFromTokens(tokens("Docteur Nicolas JACQUES"), Options{})
	assert.False(t, found)
	assert.Empty(t, name)
}

func TestPatientNameFromTokens_HonorificDoesNotConsumeName(t *testing.T) {
	name, found := PatientNameFromTokens(tokens("Madame Clara Martin"), Options{})
	require.True(t, found)
	assert.Equal(t, "Clara Martin", name)
}

func TestPatientNameFromTokens_EmptyInput(t *testing.T) {
	name, found := PatientNameFromTokens(nil, Options{})
	assert.False(t, found)
	assert.Empty(t, name)
}

func TestPatientNameFromTokens_FirstWordNeverCandidate(t *testing.T) {
	name, found := PatientNameFromTokens(tokens("Durand est sorti"), Options{})
	assert.False(t, found)
	assert.Empty(t, name)

	// Even as the second half of a two-word name.
	name, found = PatientNameFromTokens(tokens("Claire"), Options{})
	assert.False(t, found)
	assert.Empty(t, name)
}

func TestPatientNameFromTokens_SingleTokenName(t *testing.T) {
	name, found := PatientNameFromTokens(tokens("patient Durand hospitalisé hier"), Options{})
	require.True(t, found)
	assert.Equal(t, "Durand", name)
}

func TestPatientNameFromTokens_TitleSkipsFollowingWords(t *testing.T) {
	// "Professeur" excludes itself, "Anne" and "LEROY".
	name, found := PatientNameFromTokens(tokens("vu avec Professeur Anne LEROY aujourd'hui"), Options{})
	assert.False(t, found)
	assert.Empty(t, name)
}

func TestPatientNameFromTokens_TitleMatchIsCaseInsensitive(t *testing.T) {
	name, found := PatientNameFromTokens(tokens("adressé par DOCTEUR Nicolas JACQUES"), Options{})
	assert.False(t, found)
	assert.Empty(t, name)
}

func TestPatientNameFromTokens_TitleWithTrailingPunctuation(t *testing.T) {
	// Boundary punctuation does not defeat the lexicon match.
	name, found := PatientNameFromTokens(tokens("adressé par Docteur, Nicolas JACQUES"), Options{})
	assert.False(t, found)
	assert.Empty(t, name)
}

func TestPatientNameFromTokens_SentenceBoundaryExcludes(t *testing.T) {
	for _, terminator := range []string{".", "!", "?"} {
		words := tokens("le patient va mieux" + terminator + " Retour à domicile prévu")
		name, found := PatientNameFromTokens(words, Options{})
		assert.False(t, found, "terminator %q", terminator)
		assert.Empty(t, name)
	}
}

func TestPatientNameFromTokens_CandidateAfterOrdinaryComma(t *testing.T) {
	// A comma is not a sentence terminator.
	name, found := PatientNameFromTokens(tokens("ce jour, Paul Bernard consulte"), Options{})
	require.True(t, found)
	assert.Equal(t, "Paul Bernard", name)
}

func TestPatientNameFromTokens_LookaheadTitleNotAbsorbed(t *testing.T) {
	// The capitalized word after the candidate is a title: it cannot be
	// absorbed as a surname.
	name, found := PatientNameFromTokens(tokens("consultation de Bernard Docteur"), Options{})
	require.True(t, found)
	assert.Equal(t, "Bernard", name)
}

func TestPatientNameFromTokens_LookaheadHonorificNotAbsorbed(t *testing.T) {
	name, found := PatientNameFromTokens(tokens("consultation de Bernard Madame"), Options{})
	require.True(t, found)
	assert.Equal(t, "Bernard", name)
}

func TestPatientNameFromTokens_LowercaseOnly(t *testing.T) {
	name, found := PatientNameFromTokens(tokens("le patient se porte bien"), Options{})
	assert.False(t, found)
	assert.Empty(t, name)
}

func TestPatientNameFromTokens_FeminineTitleDisabled(t *testing.T) {
	// Without feminine titles, "Docteure" is an ordinary capitalized word;
	// it is the first word so the candidate starts right after it.
	name, found := PatientNameFromTokens(tokens("Docteure Alice Petit"), Options{})
	require.True(t, found)
	assert.Equal(t, "Alice Petit", name)
}

func TestPatientNameFromTokens_FeminineTitleEnabled(t *testing.T) {
	name, found := PatientNameFromTokens(tokens("Docteure Alice Petit"), Options{FeminineTitles: true})
	assert.False(t, found)
	assert.Empty(t, name)
}

func TestPatientNameFromTokens_FeminineFormsExtendNotReplace(t *testing.T) {
	// Masculine forms keep matching when the feminine lexicon is enabled.
	name, found := PatientNameFromTokens(tokens("Docteur Nicolas JACQUES"), Options{FeminineTitles: true})
	assert.False(t, found)
	assert.Empty(t, name)
}

func TestPatientNameFromTokens_AccentedTitle(t *testing.T) {
	name, found := PatientNameFromTokens(tokens("suivi par Pédiatre Sophie MARTIN depuis"), Options{})
	assert.False(t, found)
	assert.Empty(t, name)
}

func TestPatientName_UsesWordText(t *testing.T) {
	words := []models.Word{
		word("revu", 0.1, 0.1),
		word("Monsieur", 0.2, 0.1),
		word("Jean", 0.3, 0.1),
		word("DUPONT", 0.4, 0.1),
	}

	name, found := PatientName(words, Options{})
	require.True(t, found)
	assert.Equal(t, "Jean DUPONT", name)
}
