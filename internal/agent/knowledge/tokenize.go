package knowledge

import (
	"strings"
	"unicode"
)

var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "is": {}, "are": {}, "was": {}, "be": {}, "do": {},
	"does": {}, "did": {}, "what": {}, "whats": {}, "which": {}, "who": {}, "how": {},
	"s": {}, "your": {}, "you": {}, "i": {}, "me": {}, "my": {}, "we": {}, "our": {},
	"us": {}, "it": {}, "its": {}, "of": {}, "to": {}, "for": {}, "in": {}, "on": {},
	"at": {}, "and": {}, "or": {}, "can": {}, "could": {}, "would": {}, "will": {},
	"tell": {}, "about": {}, "please": {}, "there": {}, "this": {}, "that": {},
	"with": {}, "any": {}, "have": {}, "has": {}, "get": {}, "give": {}, "know": {},
	"want": {}, "like": {}, "hi": {}, "hello": {}, "hey": {}, "only": {}, "per": {},
	"if": {}, "am": {},
}

// terms lowercases s, splits it on anything that is not a letter or digit,
// drops stop words and folds simple plurals.
func terms(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	out := fields[:0]
	for _, f := range fields {
		if _, stop := stopWords[f]; stop {
			continue
		}
		out = append(out, stem(f))
	}
	return out
}

func stem(w string) string {
	if len(w) > 3 && strings.HasSuffix(w, "s") && !strings.HasSuffix(w, "ss") {
		return w[:len(w)-1]
	}
	return w
}

func uniqueTerms(s string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, t := range terms(s) {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
