package lead

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/autostream-assistant/server/internal/agent/model"
)

const maxNameWords = 3

var (
	emailRe    = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	platformRe = regexp.MustCompile(`(?i)\b(youtube|instagram|tik ?tok|facebook|twitter|linkedin|twitch|vimeo|snapchat)\b`)

	// Group 1 holds markers that are reliable on their own; group 2 holds
	// markers that also open ordinary sentences ("I'm interested").
	nameMarkerRe = regexp.MustCompile(`(?i)\b(?:(my name is|name is|name\s*:|call me)|(i[’']m|i am|this is))\s*`)
)

// Words that end a name or can never be one.
var nameStopWords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "and": {}, "or": {}, "but": {}, "my": {}, "is": {},
	"email": {}, "from": {}, "on": {}, "in": {}, "at": {}, "with": {}, "for": {}, "here": {},
	"i": {}, "im": {}, "me": {}, "not": {}, "just": {}, "also": {}, "so": {}, "very": {},
	"really": {}, "interested": {}, "looking": {}, "ready": {}, "trying": {}, "new": {},
	"glad": {}, "happy": {}, "good": {}, "fine": {}, "great": {}, "sure": {}, "yes": {},
	"no": {}, "ok": {}, "okay": {}, "thanks": {}, "thank": {}, "hi": {}, "hello": {},
	"hey": {}, "pro": {}, "basic": {}, "plan": {}, "youtube": {}, "instagram": {},
	"tiktok": {}, "facebook": {}, "twitter": {}, "linkedin": {}, "twitch": {},
	"vimeo": {}, "snapchat": {}, "channel": {}, "want": {}, "would": {}, "like": {},
	"how": {}, "much": {}, "many": {}, "what": {}, "whats": {}, "why": {}, "when": {},
	"where": {}, "which": {}, "who": {}, "does": {}, "do": {}, "can": {}, "could": {},
	"tell": {}, "about": {}, "price": {}, "prices": {}, "pricing": {}, "cost": {},
	"costs": {}, "plans": {}, "refund": {}, "support": {}, "features": {}, "help": {},
	"maybe": {}, "later": {}, "soon": {}, "sounds": {}, "nice": {}, "cool": {},
	"awesome": {}, "perfect": {}, "nope": {}, "nah": {}, "bye": {}, "goodbye": {},
	"please": {}, "sorry": {}, "wait": {}, "hmm": {}, "idk": {}, "lol": {},
	"nothing": {}, "none": {}, "more": {}, "info": {}, "again": {},
}

// Extractor pulls lead fields out of free text. The zero value is ready to use.
type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns whatever fields the message carries. Absence is not an error.
func (e *Extractor) Extract(message string) model.LeadFields {
	return model.LeadFields{
		Name:     extractName(message),
		Email:    extractEmail(message),
		Platform: extractPlatform(message),
	}
}

// ExtractExpecting behaves like Extract but, when the caller is waiting for a
// name and the message carries nothing else, accepts a bare short name.
func (e *Extractor) ExtractExpecting(message string, expecting model.Field) model.LeadFields {
	out := e.Extract(message)
	if expecting == model.FieldName && !out.Any() {
		out.Name = bareName(message)
	}
	return out
}

func extractEmail(message string) string {
	for _, m := range emailRe.FindAllString(message, -1) {
		if ValidEmail(m) {
			return m
		}
	}
	return ""
}

func extractPlatform(message string) string {
	m := platformRe.FindString(message)
	if m == "" {
		return ""
	}
	p, _ := CanonicalPlatform(m)
	return p
}

func extractName(message string) string {
	for _, loc := range nameMarkerRe.FindAllStringSubmatchIndex(message, -1) {
		strictCase := loc[4] >= 0
		if name := nameAfter(message[loc[1]:], strictCase); name != "" {
			return name
		}
	}
	return ""
}

// nameAfter collects up to maxNameWords name-like words from the start of s.
func nameAfter(s string, strictCase bool) string {
	var words []string
	for _, tok := range strings.Fields(s) {
		word := strings.TrimRight(tok, ".,!?;:")
		trailingPunct := word != tok
		if !nameWord(word) {
			break
		}
		if strictCase && !startsUpper(word) {
			break
		}
		words = append(words, word)
		if trailingPunct || len(words) == maxNameWords {
			break
		}
	}
	if len(words) == 0 {
		return ""
	}
	name := titleCase(strings.Join(words, " "))
	if !ValidName(name) {
		return ""
	}
	return name
}

func bareName(message string) string {
	if strings.Contains(message, "?") {
		return ""
	}
	s := strings.TrimSpace(strings.TrimRight(strings.TrimSpace(message), ".!"))
	words := strings.Fields(s)
	if len(words) == 0 || len(words) > maxNameWords {
		return ""
	}
	for _, w := range words {
		if !nameWord(w) {
			return ""
		}
	}
	name := titleCase(strings.Join(words, " "))
	if !ValidName(name) {
		return ""
	}
	return name
}

func nameWord(w string) bool {
	if w == "" {
		return false
	}
	if _, stop := nameStopWords[strings.ToLower(w)]; stop {
		return false
	}
	for i, r := range w {
		if unicode.IsLetter(r) {
			continue
		}
		if (r == '-' || r == '\'') && i > 0 {
			continue
		}
		return false
	}
	return true
}

func startsUpper(w string) bool {
	for _, r := range w {
		return unicode.IsUpper(r)
	}
	return false
}

// titleCase upper-cases the first letter of each all-lowercase word.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		if strings.ToLower(w) != w {
			continue
		}
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
