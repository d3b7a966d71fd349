package lead

import (
	"testing"

	"github.com/autostream-assistant/server/internal/agent/model"
	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	e := NewExtractor()

	tests := []struct {
		name    string
		message string
		want    model.LeadFields
	}{
		{"name marker", "My name is John Doe", model.LeadFields{Name: "John Doe"}},
		{"lowercase name is title cased", "my name is john doe", model.LeadFields{Name: "John Doe"}},
		{"name colon", "name:Priya", model.LeadFields{Name: "Priya"}},
		{"call me", "you can call me sam", model.LeadFields{Name: "Sam"}},
		{"i am", "Hi, I am Maria Lopez, nice to meet you", model.LeadFields{Name: "Maria Lopez"}},
		{"i'm interested is not a name", "I'm interested in the Pro plan", model.LeadFields{}},
		{"this is lowercase word", "this is great", model.LeadFields{}},
		{"email only", "john@example.com", model.LeadFields{Email: "john@example.com"}},
		{"first email wins", "use a.b@x.io or c@d.com", model.LeadFields{Email: "a.b@x.io"}},
		{"malformed email", "johnexample.com", model.LeadFields{}},
		{"platform normalized", "I post on youtube mostly", model.LeadFields{Platform: "YouTube"}},
		{"earliest platform", "Instagram and TikTok", model.LeadFields{Platform: "Instagram"}},
		{"tik tok spaced", "mostly tik tok", model.LeadFields{Platform: "TikTok"}},
		{"platform must be a whole word", "myyoutubechannel", model.LeadFields{}},
		{
			"all fields",
			"I'm Alex Kim, alex@kim.dev, and I stream on Twitch",
			model.LeadFields{Name: "Alex Kim", Email: "alex@kim.dev", Platform: "Twitch"},
		},
		{"empty", "", model.LeadFields{}},
		{"name stops at conjunction", "My name is John and my email is j@x.co", model.LeadFields{Name: "John", Email: "j@x.co"}},
		{"scenario pro plan youtube", "I want the Pro plan for my YouTube channel", model.LeadFields{Platform: "YouTube"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Extract(tt.message))
		})
	}
}

func TestExtractExpectingName(t *testing.T) {
	e := NewExtractor()

	assert.Equal(t, "John Doe", e.ExtractExpecting("john doe", model.FieldName).Name)
	assert.Equal(t, "Cher", e.ExtractExpecting("Cher.", model.FieldName).Name)
	for _, msg := range []string{
		"yes",
		"what does the pro plan cost",
		"How much",
		"how much?",
		"Maybe later",
		"Sounds good",
		"Pricing",
		"Tell me more",
		"John?",
		"nope",
	} {
		assert.Empty(t, e.ExtractExpecting(msg, model.FieldName).Name, msg)
	}
	assert.Empty(t, e.ExtractExpecting("john doe", model.FieldEmail).Name, "bare names only when a name is expected")

	got := e.ExtractExpecting("YouTube", model.FieldName)
	assert.Equal(t, model.LeadFields{Platform: "YouTube"}, got, "a platform is not taken as a name")
}

func TestValidators(t *testing.T) {
	assert.True(t, ValidEmail("john@example.com"))
	assert.False(t, ValidEmail("johnexample.com"))
	assert.False(t, ValidEmail("john@example"))
	assert.False(t, ValidEmail(""))

	assert.True(t, ValidName("John Doe"))
	assert.True(t, ValidName("Anne-Marie O'Neil"))
	assert.False(t, ValidName("   "))
	assert.False(t, ValidName("john@example.com"))
	assert.False(t, ValidName("R2D2"))
	assert.False(t, ValidName("Averyveryveryveryveryveryveryveryveryverylongnamehere"))

	assert.True(t, ValidPlatform("youtube"))
	assert.True(t, ValidPlatform(" LinkedIn "))
	assert.False(t, ValidPlatform("myspace"))
}

func TestMissingAndComplete(t *testing.T) {
	f := model.LeadFields{}
	assert.Equal(t, []model.Field{model.FieldName, model.FieldEmail, model.FieldPlatform}, Missing(f))
	assert.False(t, Complete(f))

	f = model.LeadFields{Name: "John", Email: "bad", Platform: "YouTube"}
	assert.Equal(t, []model.Field{model.FieldEmail}, Missing(f))

	f.Email = "john@example.com"
	assert.Empty(t, Missing(f))
	assert.True(t, Complete(f))
}

func TestMerge(t *testing.T) {
	t.Run("fills absent fields only", func(t *testing.T) {
		dst := model.LeadFields{Name: "John Doe"}
		written := Merge(&dst, model.LeadFields{Name: "Jane", Email: "jane@x.io"})
		assert.Equal(t, []model.Field{model.FieldEmail}, written)
		assert.Equal(t, model.LeadFields{Name: "John Doe", Email: "jane@x.io"}, dst)
	})

	t.Run("replaces invalid existing value", func(t *testing.T) {
		dst := model.LeadFields{Email: "not-an-email"}
		written := Merge(&dst, model.LeadFields{Email: "ok@x.io"})
		assert.Equal(t, []model.Field{model.FieldEmail}, written)
		assert.Equal(t, "ok@x.io", dst.Email)
	})

	t.Run("ignores invalid extracted value", func(t *testing.T) {
		dst := model.LeadFields{}
		assert.Empty(t, Merge(&dst, model.LeadFields{Email: "nope", Platform: "myspace"}))
		assert.Equal(t, model.LeadFields{}, dst)
	})

	t.Run("idempotent", func(t *testing.T) {
		dst := model.LeadFields{}
		in := model.LeadFields{Name: "John Doe", Email: "john@example.com", Platform: "YouTube"}
		Merge(&dst, in)
		before := dst
		assert.Empty(t, Merge(&dst, in))
		assert.Equal(t, before, dst)
	})
}
