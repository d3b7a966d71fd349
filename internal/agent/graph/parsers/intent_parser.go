package parsers

import (
	"regexp"
	"strings"

	"github.com/autostream-assistant/server/internal/agent/model"
	logx "github.com/autostream-assistant/server/pkg/logger"
)

// maxContentLen bounds how much model output is inspected.
const maxContentLen = 4 * 1024

var labelRe = regexp.MustCompile(`(?i)\b(greeting|product_inquiry|high_intent_lead|unknown)\b`)

// ParseIntentLabel maps raw model output onto the closed label set. An exact
// label wins; otherwise the output must mention exactly one distinct label.
// Anything else is unknown.
func ParseIntentLabel(content string) model.Intent {
	if len(content) > maxContentLen {
		logx.Warn().
			Str("component", "intent_parser").
			Int("max_len", maxContentLen).
			Int("orig_len", len(content)).
			Msg("content truncated due to size limit")
		content = content[:maxContentLen]
	}

	cleaned := strings.Trim(strings.TrimSpace(content), "`\"'.*")
	if intent, ok := model.ParseIntent(cleaned); ok {
		return intent
	}

	found := map[model.Intent]struct{}{}
	for _, m := range labelRe.FindAllString(content, -1) {
		found[model.Intent(strings.ToLower(m))] = struct{}{}
	}
	if len(found) == 1 {
		for intent := range found {
			return intent
		}
	}

	logx.Debug().Str("component", "intent_parser").Str("content", content).Msg("unparseable intent label")
	return model.IntentUnknown
}
