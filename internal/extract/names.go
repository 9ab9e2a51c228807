package extract

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/docapi/patient-name-service/internal/models"
)

// Options configures a name extraction call. The zero value uses the
// default clustering threshold and the masculine-only title lexicon.
type Options struct {
	// YThreshold is the vertical clustering tolerance for line
	// reconstruction, in normalized page units. Non-positive means
	// DefaultYThreshold.
	YThreshold float64

	// FeminineTitles extends the medical title lexicon with feminine
	// grammatical forms.
	FeminineTitles bool
}

// PatientName scans a reading-order word sequence for a probable patient
// name and returns it as one or two space-joined tokens. The second return
// is false when no token qualifies; that is the normal outcome for
// documents that simply mention no patient.
//
// The heuristic: a candidate is a capitalized token that does not start the
// document or a sentence, is not a medical title or an honorific, and is
// not within two tokens of a preceding medical title (title plus the
// doctor's own name are consumed together). When the candidate's successor
// is also capitalized and is itself neither title nor honorific, both
// tokens form the name.
func PatientName(words []models.Word, opts Options) (string, bool) {
	tokens := make([]string, len(words))
	for i, w := range words {
		tokens[i] = w.Text
	}
	return PatientNameFromTokens(tokens, opts)
}

// PatientNameFromTokens is PatientName over bare tokens, for callers that
// already discarded positions. Bounding boxes play no role in the scan.
func PatientNameFromTokens(tokens []string, opts Options) (string, bool) {
	skipNext := false

	for i, token := range tokens {
		// The first word of a document can never be a name.
		if i == 0 {
			continue
		}

		// Consumed as the word following a title.
		if skipNext {
			skipNext = false
			continue
		}

		prev := tokens[i-1]

		// A title excludes the word after it and the one after that:
		// "Docteur Nicolas JACQUES" contributes no candidate at all.
		if isTitle(prev, opts.FeminineTitles) {
			skipNext = true
			continue
		}

		// A name cannot start a sentence.
		if endsSentence(prev) {
			continue
		}

		if !startsUpper(token) || isTitle(token, opts.FeminineTitles) || isHonorific(token) {
			continue
		}

		// Candidate found. Absorb the next token as a surname when it is
		// capitalized, unless it is itself a title or honorific.
		if i+1 < len(tokens) {
			next := tokens[i+1]
			if startsUpper(next) && !isTitle(next, opts.FeminineTitles) && !isHonorific(next) {
				return token + " " + next, true
			}
		}
		return token, true
	}

	return "", false
}

// startsUpper reports whether the token's first character is an uppercase
// letter.
func startsUpper(token string) bool {
	r, _ := utf8.DecodeRuneInString(token)
	return r != utf8.RuneError && unicode.IsUpper(r)
}

// endsSentence reports whether the token's trailing character terminates a
// sentence.
func endsSentence(token string) bool {
	return token != "" && strings.ContainsRune(".!?", rune(token[len(token)-1]))
}
