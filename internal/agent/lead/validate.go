package lead

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/autostream-assistant/server/internal/agent/model"
)

const maxNameLen = 50

var validEmailRe = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

// Platforms is the known platform vocabulary in canonical casing.
var Platforms = []string{
	"YouTube",
	"Instagram",
	"TikTok",
	"Facebook",
	"Twitter",
	"LinkedIn",
	"Twitch",
	"Vimeo",
	"Snapchat",
}

var canonicalPlatform = func() map[string]string {
	m := make(map[string]string, len(Platforms)+1)
	for _, p := range Platforms {
		m[strings.ToLower(p)] = p
	}
	m["tik tok"] = "TikTok"
	return m
}()

// CanonicalPlatform returns the canonical spelling of a known platform.
func CanonicalPlatform(s string) (string, bool) {
	p, ok := canonicalPlatform[strings.ToLower(strings.TrimSpace(s))]
	return p, ok
}

func ValidEmail(s string) bool {
	return validEmailRe.MatchString(strings.TrimSpace(s))
}

// ValidName accepts short, letter-bearing names with no digits or '@'.
func ValidName(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || utf8.RuneCountInString(s) >= maxNameLen {
		return false
	}
	hasLetter := false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case r == ' ' || r == '-' || r == '\'' || r == '.':
		default:
			return false
		}
	}
	return hasLetter
}

func ValidPlatform(s string) bool {
	_, ok := CanonicalPlatform(s)
	return ok
}

// Valid validates a single field value.
func Valid(field model.Field, value string) bool {
	switch field {
	case model.FieldName:
		return ValidName(value)
	case model.FieldEmail:
		return ValidEmail(value)
	case model.FieldPlatform:
		return ValidPlatform(value)
	}
	return false
}

// Missing lists absent or invalid fields in request order.
func Missing(f model.LeadFields) []model.Field {
	var out []model.Field
	for _, field := range model.FieldOrder {
		if !Valid(field, f.Get(field)) {
			out = append(out, field)
		}
	}
	return out
}

// Complete reports whether all three fields are present and valid.
func Complete(f model.LeadFields) bool {
	return len(Missing(f)) == 0
}

// Merge copies valid extracted values into dst for fields that are absent or
// invalid there, and returns the fields it wrote.
func Merge(dst *model.LeadFields, extracted model.LeadFields) []model.Field {
	var written []model.Field
	for _, field := range model.FieldOrder {
		v := strings.TrimSpace(extracted.Get(field))
		if v == "" || !Valid(field, v) {
			continue
		}
		if cur := dst.Get(field); cur != "" && Valid(field, cur) {
			continue
		}
		dst.Set(field, v)
		written = append(written, field)
	}
	return written
}
