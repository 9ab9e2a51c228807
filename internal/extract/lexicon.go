package extract

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// The lexicons are static set-membership tables built once at process
// start. Matching is whole-token, case-insensitive, and tolerant of
// punctuation glued to the token boundary ("Docteur," matches "docteur").

// medicalTitles are professional designations that precede a non-patient
// name. A title and the words following it are never part of the patient
// name.
var medicalTitles = newLexicon(
	// General titles
	"dr", "docteur", "pr", "professeur", "m",
	// Medical roles
	"interne", "externe", "chef", "service", "clinique",
	// Mental health
	"pédopsychiatre", "psychiatre",
	// General practice
	"pédiatre", "généraliste", "spécialiste",
	// Surgery and anesthesia
	"chirurgien", "anesthésiste", "réanimateur",
	// Women's health
	"gynécologue", "obstétricien",
	// Internal organs
	"cardiologue", "pneumologue", "dermatologue", "vénérologue",
	"ophtalmologue", "stomatologue", "urologue", "néphrologue",
	// Nervous system
	"neurologue", "neurochirurgien",
	// Cancer
	"cancérologue", "oncologue",
	// Imaging
	"radiologue", "radiothérapeute",
	// Digestive
	"gastro-entérologue", "hépatologue",
	// Bones and metabolism
	"rhumatologue", "endocrinologue", "diabétologue", "nutritionniste",
	// Other
	"gériatre", "urgentiste", "légiste", "biologiste",
)

// feminineTitles are the feminine grammatical forms, used in addition to
// medicalTitles when feminine title support is enabled. Gender-neutral
// forms are repeated so the set stands on its own.
var feminineTitles = newLexicon(
	"doctoresse", "docteure", "professeure",
	"interne", "externe", "cheffe",
	"pédopsychiatre", "psychiatre", "pédiatre", "généraliste", "spécialiste",
	"chirurgienne", "anesthésiste", "réanimatrice",
	"gynécologue", "obstétricienne",
	"cardiologue", "pneumologue", "dermatologue", "vénérologue",
	"ophtalmologue", "stomatologue", "urologue", "néphrologue",
	"neurologue", "neurochirurgienne",
	"cancérologue", "oncologue",
	"radiologue", "radiothérapeute",
	"gastro-entérologue", "hépatologue",
	"rhumatologue", "endocrinologue", "diabétologue", "nutritionniste",
	"gériatre", "urgentiste", "légiste", "biologiste",
)

// honorifics are polite forms of address. They are excluded as candidates
// themselves but, unlike titles, the word following an honorific stays
// eligible.
var honorifics = newLexicon(
	"monsieur", "madame", "mademoiselle",
	"mr", "mme", "mlle", "m", "mde",
)

type lexicon map[string]struct{}

func newLexicon(entries ...string) lexicon {
	l := make(lexicon, len(entries))
	for _, e := range entries {
		l[e] = struct{}{}
	}
	return l
}

func (l lexicon) contains(token string) bool {
	_, ok := l[normalizeToken(token)]
	return ok
}

// normalizeToken prepares a raw OCR token for lexicon lookup: NFC so that
// decomposed accents from the OCR engine compare equal to the composed
// lexicon entries, boundary punctuation stripped, lowercased.
func normalizeToken(token string) string {
	token = norm.NFC.String(token)
	token = strings.TrimFunc(token, unicode.IsPunct)
	return strings.ToLower(token)
}

// isTitle reports whether token is a medical title under the given options.
func isTitle(token string, feminine bool) bool {
	if medicalTitles.contains(token) {
		return true
	}
	return feminine && feminineTitles.contains(token)
}

// isHonorific reports whether token is an honorific.
func isHonorific(token string) bool {
	return honorifics.contains(token)
}
