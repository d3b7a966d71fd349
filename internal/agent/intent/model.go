package intent

import (
	"context"
	"errors"
	"strings"
	"time"

	einocb "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components"
	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/autostream-assistant/server/internal/agent/graph/conversations"
	"github.com/autostream-assistant/server/internal/agent/graph/parsers"
	"github.com/autostream-assistant/server/internal/agent/graph/prompts"
	"github.com/autostream-assistant/server/internal/agent/model"
	errx "github.com/autostream-assistant/server/internal/core/error"
	logx "github.com/autostream-assistant/server/pkg/logger"
)

const (
	StrategyModel = "model"

	classifierRunName = "intent_classifier"
)

// ModelClassifier asks a chat model for the label and maps its free-text
// answer onto the closed label set.
type ModelClassifier struct {
	chatModel einomodel.BaseChatModel
	template  prompt.ChatTemplate
	modelName string
	pricing   model.Pricing
	timeout   time.Duration
}

func NewModelClassifier(chatModel einomodel.BaseChatModel, cfg *model.ClassifierConfig) *ModelClassifier {
	return &ModelClassifier{
		chatModel: chatModel,
		template:  prompts.NewIntentTemplate(),
		modelName: cfg.Model,
		pricing:   model.ResolvePricing(cfg.Model),
		timeout:   cfg.Timeout,
	}
}

func (c *ModelClassifier) Name() string {
	return StrategyModel
}

// Classify never reports a collaborator failure as a label: errors wrap
// errx.ErrClassificationUnavailable and the caller decides how to degrade.
func (c *ModelClassifier) Classify(ctx context.Context, message string, recent []model.Message) (model.Intent, error) {
	if strings.TrimSpace(message) == "" {
		return model.IntentUnknown, nil
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	promptCtx := einocb.ReuseHandlers(ctx, &einocb.RunInfo{
		Name:      classifierRunName,
		Type:      "IntentTemplate",
		Component: components.ComponentOfPrompt,
	})
	msgs, err := prompts.RenderIntentMessages(promptCtx, c.template, conversations.BuildClassifierContext(recent), message)
	if err != nil {
		return model.IntentUnknown, err
	}

	modelCtx := einocb.ReuseHandlers(ctx, &einocb.RunInfo{
		Name:      classifierRunName,
		Type:      c.modelName,
		Component: components.ComponentOfChatModel,
	})
	out, err := c.chatModel.Generate(modelCtx, msgs)
	if err != nil {
		logx.Warn().Err(err).Str("model", c.modelName).Msg("intent classification call failed")
		return model.IntentUnknown, errx.ClassificationUnavailable(err)
	}
	if out == nil || strings.TrimSpace(out.Content) == "" {
		return model.IntentUnknown, errx.ClassificationUnavailable(errors.New("empty model output"))
	}

	c.logUsage(out)
	return parsers.ParseIntentLabel(out.Content), nil
}

func (c *ModelClassifier) logUsage(out *schema.Message) {
	if out.ResponseMeta == nil || out.ResponseMeta.Usage == nil {
		return
	}
	usage := out.ResponseMeta.Usage
	inC, outC, totalC := c.pricing.Cost(usage)
	logx.Debug().
		Str("model", c.modelName).
		Int("prompt_tokens", usage.PromptTokens).
		Int("completion_tokens", usage.CompletionTokens).
		Int("total_tokens", usage.TotalTokens).
		Float64("input_cost_usd", inC).
		Float64("output_cost_usd", outC).
		Float64("total_cost_usd", totalC).
		Msg("intent classification usage")
}

var _ model.IntentClassifier = (*ModelClassifier)(nil)
