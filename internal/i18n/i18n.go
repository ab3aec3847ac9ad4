// Package i18n selects between the English and Hindi variants of a reply
// and recognizes the language names users type when switching language.
package i18n

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
	"golang.org/x/text/unicode/norm"
)

// Lang is a supported reply language, stored in the "language" slot as its code.
type Lang string

// Supported languages.
const (
	English Lang = "en"
	Hindi   Lang = "hi"
)

// Default is used when the conversation has no language preference yet.
const Default = English

// supported pairs each Lang with its BCP 47 tag. Accepted user spellings are
// the tag itself and its English display name.
var supported = []struct {
	lang Lang
	tag  language.Tag
}{
	{English, language.English},
	{Hindi, language.Hindi},
}

// FromSlot maps a "language" slot value to a Lang. Only the Hindi code
// selects Hindi; a missing or unrecognized value falls back to English.
func FromSlot(value any) Lang {
	if s, ok := value.(string); ok && Lang(s) == Hindi {
		return Hindi
	}
	return Default
}

// ParseLanguage recognizes a language entity typed by the user: the codes
// "en"/"hi" or the names "English"/"Hindi", in any letter case.
func ParseLanguage(entity string) (Lang, bool) {
	fold := cases.Fold() // Casers are stateful; one per call
	s := fold.String(Normalize(entity))
	if s == "" {
		return "", false
	}

	names := display.English.Languages()
	for _, l := range supported {
		if s == l.tag.String() || s == fold.String(names.Name(l.tag)) {
			return l.lang, true
		}
	}
	return "", false
}

// Normalize trims surrounding space and composes the string to NFC.
// Devanagari input from some keyboards arrives decomposed, which would
// otherwise defeat exact matching in the backend search.
func Normalize(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// Text is one reply in both languages.
type Text struct {
	EN string
	HI string
}

// Pick returns the variant for lang.
func (t Text) Pick(lang Lang) string {
	if lang == Hindi {
		return t.HI
	}
	return t.EN
}
