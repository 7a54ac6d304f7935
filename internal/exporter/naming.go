package exporter

import (
	"strings"
	"unicode"

	"github.com/specialistvlad/flowexport/internal/provider"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const usersaysSuffix = "_usersays_" + provider.Lang

// ArtifactName derives the intent definition name from the intent name and
// the node name of the message that owns it.
func ArtifactName(intentName, nodeName string) string {
	return SafeName(intentName) + "_" + CamelCase(nodeName)
}

// CamelCase joins the words of s into lowerCamelCase. Characters other than
// letters and digits separate words, except apostrophes, which are dropped.
// Case changes inside a word also separate words, and a run of capitals ends
// before a capital that starts a lower-case word, so "XMLHttpRequest" becomes
// "xmlHttpRequest".
func CamelCase(s string) string {
	s = strings.NewReplacer("'", "", "\u2019", "").Replace(s)
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	lower := cases.Lower(language.Und)
	title := cases.Title(language.Und)

	var b strings.Builder
	n := 0
	for _, f := range fields {
		for _, w := range splitCase(f) {
			w = lower.String(w)
			if n == 0 {
				b.WriteString(w)
			} else {
				b.WriteString(title.String(w))
			}
			n++
		}
	}
	return b.String()
}

// splitCase breaks a word at lower-to-upper transitions and before the last
// capital of an upper-case run that is followed by a lower-case letter.
func splitCase(w string) []string {
	r := []rune(w)
	var words []string
	from := 0
	for i := 1; i < len(r); i++ {
		if !unicode.IsUpper(r[i]) {
			continue
		}
		prev := r[i-1]
		if unicode.IsLower(prev) ||
			(unicode.IsUpper(prev) && i+1 < len(r) && unicode.IsLower(r[i+1])) {
			words = append(words, string(r[from:i]))
			from = i
		}
	}
	return append(words, string(r[from:]))
}

// SafeName replaces characters that are not allowed in file names.
func SafeName(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		if unicode.IsControl(r) {
			return '_'
		}
		return r
	}, s)
}
