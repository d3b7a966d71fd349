package nodes

import (
	"context"
	"time"

	"github.com/cloudwego/eino/compose"

	"github.com/autostream-assistant/server/internal/agent/graph/conversations"
	"github.com/autostream-assistant/server/internal/agent/intent"
	"github.com/autostream-assistant/server/internal/agent/lead"
	"github.com/autostream-assistant/server/internal/agent/model"
	errx "github.com/autostream-assistant/server/internal/core/error"
	"github.com/autostream-assistant/server/internal/metrics"
	logx "github.com/autostream-assistant/server/pkg/logger"
)

const (
	NodeClassify    = "Classify"
	NodeGreet       = "Greet"
	NodeAnswer      = "Answer"
	NodeAcknowledge = "Acknowledge"
	NodeCollect     = "Collect"
	NodeSubmit      = "Submit"
)

// NewClassifyNode sets the turn's effective intent. While a lead is being
// collected the classifier is not consulted and the intent is forced to
// high_intent_lead. A classifier failure degrades the intent to unknown.
func NewClassifyNode(classifier model.IntentClassifier, mm *conversations.MessagesManager) *compose.Lambda {
	strategy := intent.StrategyOf(classifier)
	return compose.InvokableLambda(func(ctx context.Context, t *model.Turn) (*model.Turn, error) {
		if t.State.Collecting() {
			t.Intent = model.IntentHighIntentLead
			logx.Debug().Str("session_id", t.State.SessionID).Msg("collection in progress, classifier skipped")
			return t, nil
		}

		start := time.Now()
		label, err := classifier.Classify(ctx, t.Message, mm.Recent(t.State))
		metrics.ObserveClassifier(strategy, time.Since(start))
		if err != nil {
			logx.Warn().Err(err).
				Str("session_id", t.State.SessionID).
				Str("code", errx.Code(err)).
				Msg("intent classification unavailable, continuing as unknown")
			t.Degrade(model.DegradedClassification)
			label = model.IntentUnknown
		}
		if !label.Valid() {
			label = model.IntentUnknown
		}

		t.Intent = label
		logx.Debug().Str("session_id", t.State.SessionID).Str("intent", label.String()).Str("strategy", strategy).Msg("intent classified")
		return t, nil
	})
}

// NewRouteCondition picks the handler for the classified turn.
func NewRouteCondition() func(context.Context, *model.Turn) (string, error) {
	return func(ctx context.Context, t *model.Turn) (string, error) {
		var next string
		switch {
		case t.State.LeadSubmitted && t.Intent == model.IntentHighIntentLead:
			next = NodeAcknowledge
		case !t.State.LeadSubmitted && (t.State.Collecting() || t.Intent == model.IntentHighIntentLead):
			next = NodeCollect
		case t.Intent == model.IntentGreeting:
			next = NodeGreet
		default:
			next = NodeAnswer
		}
		logx.Debug().Str("session_id", t.State.SessionID).Str("next", next).Msg("routing turn")
		return next, nil
	}
}

func NewGreetNode() *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, t *model.Turn) (*model.Turn, error) {
		t.Reply = GreetingReply
		t.Phase = phaseFor(t.State, model.PhaseGreet)
		return t, nil
	})
}

// NewAnswerNode answers from the knowledge base, falling back to a fixed
// reply when nothing is relevant or the lookup fails.
func NewAnswerNode(kb model.KnowledgeBase) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, t *model.Turn) (*model.Turn, error) {
		t.Phase = phaseFor(t.State, model.PhaseAnswer)

		rec, err := kb.Lookup(ctx, t.Message)
		switch {
		case err != nil:
			logx.Warn().Err(err).Str("session_id", t.State.SessionID).Msg("knowledge retrieval unavailable, using fallback")
			t.Degrade(model.DegradedRetrieval)
			t.Reply = FallbackReply
		case rec == nil:
			t.Reply = FallbackReply
		default:
			logx.Debug().Str("session_id", t.State.SessionID).Str("topic", rec.Topic).Msg("answered from knowledge base")
			t.Reply = Answer(rec)
		}
		return t, nil
	})
}

func NewAcknowledgeNode() *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, t *model.Turn) (*model.Turn, error) {
		t.Reply = AlreadyRegisteredReply
		t.Phase = model.PhaseDone
		return t, nil
	})
}

// NewCollectNode extracts lead fields from the message, merges them and
// either asks for the next missing field or hands over to Submit.
func NewCollectNode(extractor *lead.Extractor) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, t *model.Turn) (*model.Turn, error) {
		state := t.State
		t.Intent = model.IntentHighIntentLead

		if state.CollectionStarted {
			t.Expecting = firstMissing(lead.Missing(state.Lead))
		}
		state.CollectionStarted = true

		extracted := extractor.ExtractExpecting(t.Message, t.Expecting)
		t.Merged = lead.Merge(&state.Lead, extracted)

		missing := lead.Missing(state.Lead)
		if len(missing) == 0 {
			t.Phase = model.PhaseComplete
			return t, nil
		}

		next := missing[0]
		t.Phase = model.PhaseCollecting
		if next == model.FieldEmail && t.Expecting == model.FieldEmail && !contains(t.Merged, model.FieldEmail) {
			t.Reply = InvalidEmailReply
		} else {
			t.Reply = AskFor(next, state.Lead)
		}

		logx.Debug().
			Str("session_id", state.SessionID).
			Int("merged", len(t.Merged)).
			Str("next_field", string(next)).
			Msg("lead collection in progress")
		return t, nil
	})
}

// NewCollectCondition routes a complete lead to submission.
func NewCollectCondition() func(context.Context, *model.Turn) (string, error) {
	return func(ctx context.Context, t *model.Turn) (string, error) {
		if t.Phase == model.PhaseComplete {
			return NodeSubmit, nil
		}
		return compose.END, nil
	}
}

// NewSubmitNode hands the completed lead to the sink. The submitted flag is
// only set once the sink acknowledges.
func NewSubmitNode(sink model.LeadSink, now func() time.Time) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, t *model.Turn) (*model.Turn, error) {
		state := t.State
		if state.LeadSubmitted {
			return t, nil
		}

		l := model.Lead{
			SessionID:  state.SessionID,
			Name:       state.Lead.Name,
			Email:      state.Lead.Email,
			Platform:   state.Lead.Platform,
			CapturedAt: now().UTC(),
		}
		ack, err := sink.Submit(ctx, l)
		if err != nil {
			logx.Error().Err(err).Str("session_id", state.SessionID).Msg("lead submission failed")
			t.SinkErr = errx.LeadSinkFailure(err)
			t.Degrade(model.DegradedLeadSink)
			t.Reply = SinkFailureReply
			return t, nil
		}

		submittedAt := l.CapturedAt
		if ack != nil {
			state.LeadReference = ack.Reference
			if !ack.SubmittedAt.IsZero() {
				submittedAt = ack.SubmittedAt
			}
		}
		state.LeadSubmitted = true
		state.SubmittedAt = &submittedAt
		t.Reply = Confirmation(state.Lead)

		logx.Info().Str("session_id", state.SessionID).Str("reference", state.LeadReference).Msg("lead submitted")
		return t, nil
	})
}
