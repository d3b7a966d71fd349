package intent

import (
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"

	"github.com/autostream-assistant/server/internal/agent/model"
)

// New selects a classifier by strategy name. chatModel is only required for
// the model strategy.
func New(cfg *model.ClassifierConfig, chatModel einomodel.BaseChatModel) (model.IntentClassifier, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Strategy)) {
	case "", StrategyRule:
		return NewRuleClassifier(), nil
	case StrategyModel:
		if chatModel == nil {
			return nil, fmt.Errorf("classifier strategy %q needs a chat model", StrategyModel)
		}
		return NewModelClassifier(chatModel, cfg), nil
	default:
		return nil, fmt.Errorf("unknown classifier strategy %q", cfg.Strategy)
	}
}

// StrategyOf returns the strategy name of a classifier, or "custom".
func StrategyOf(c model.IntentClassifier) string {
	if n, ok := c.(interface{ Name() string }); ok {
		return n.Name()
	}
	return "custom"
}
