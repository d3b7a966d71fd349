package graph

import (
	"context"
	"fmt"
	"time"

	einocb "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/compose"

	"github.com/autostream-assistant/server/internal/agent/graph/conversations"
	"github.com/autostream-assistant/server/internal/agent/graph/nodes"
	"github.com/autostream-assistant/server/internal/agent/graph/observers"
	"github.com/autostream-assistant/server/internal/agent/lead"
	"github.com/autostream-assistant/server/internal/agent/model"
	"github.com/autostream-assistant/server/internal/metrics"
	logx "github.com/autostream-assistant/server/pkg/logger"
)

const maxRunSteps = 10

// GraphConfig holds all collaborators needed to build the dialogue graph.
type GraphConfig struct {
	Classifier      model.IntentClassifier
	Knowledge       model.KnowledgeBase
	Sink            model.LeadSink
	Extractor       *lead.Extractor
	MessagesManager *conversations.MessagesManager
	// Now defaults to time.Now.
	Now func() time.Time
	// Callbacks are attached to every invocation; nil means observers.DefaultHandlers().
	Callbacks []einocb.Handler
}

// GraphBuilder handles the construction of the dialogue graph.
type GraphBuilder struct {
	config *GraphConfig
	graph  *compose.Graph[*model.Turn, *model.Turn]
}

// Controller runs one inbound message through the dialogue graph.
type Controller struct {
	runnable  compose.Runnable[*model.Turn, *model.Turn]
	now       func() time.Time
	callbacks []einocb.Handler
}

// BuildDialogueGraph validates the config, compiles the graph and returns a
// Controller around it.
func BuildDialogueGraph(ctx context.Context, config *GraphConfig) (*Controller, error) {
	if config == nil {
		return nil, fmt.Errorf("graph config is nil")
	}
	if config.Classifier == nil {
		return nil, fmt.Errorf("intent classifier is nil")
	}
	if config.Knowledge == nil {
		return nil, fmt.Errorf("knowledge base is nil")
	}
	if config.Sink == nil {
		return nil, fmt.Errorf("lead sink is nil")
	}

	cfg := *config
	if cfg.Extractor == nil {
		cfg.Extractor = lead.NewExtractor()
	}
	if cfg.MessagesManager == nil {
		cfg.MessagesManager = conversations.NewMessagesManager(model.ConversationConfig{})
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Callbacks == nil {
		cfg.Callbacks = observers.DefaultHandlers()
	}

	builder := &GraphBuilder{
		config: &cfg,
		graph:  compose.NewGraph[*model.Turn, *model.Turn](),
	}

	if err := builder.addNodes(); err != nil {
		return nil, err
	}
	if err := builder.addEdges(); err != nil {
		return nil, err
	}
	if err := builder.addBranches(); err != nil {
		return nil, err
	}

	runnable, err := builder.compile(ctx)
	if err != nil {
		return nil, err
	}

	return &Controller{runnable: runnable, now: cfg.Now, callbacks: cfg.Callbacks}, nil
}

// addNodes adds all processing nodes to the graph
func (b *GraphBuilder) addNodes() error {
	lambdas := []struct {
		key    string
		lambda *compose.Lambda
	}{
		{nodes.NodeClassify, nodes.NewClassifyNode(b.config.Classifier, b.config.MessagesManager)},
		{nodes.NodeGreet, nodes.NewGreetNode()},
		{nodes.NodeAnswer, nodes.NewAnswerNode(b.config.Knowledge)},
		{nodes.NodeAcknowledge, nodes.NewAcknowledgeNode()},
		{nodes.NodeCollect, nodes.NewCollectNode(b.config.Extractor)},
		{nodes.NodeSubmit, nodes.NewSubmitNode(b.config.Sink, b.config.Now)},
	}

	for _, l := range lambdas {
		if err := b.graph.AddLambdaNode(l.key, l.lambda, compose.WithNodeName(l.key)); err != nil {
			logx.Error().Err(err).Str("node", l.key).Msg("Error adding node")
			return fmt.Errorf("error adding node %s: %w", l.key, err)
		}
	}
	return nil
}

// addEdges creates the fixed connections between nodes
func (b *GraphBuilder) addEdges() error {
	edges := [][2]string{
		{compose.START, nodes.NodeClassify},
		{nodes.NodeGreet, compose.END},
		{nodes.NodeAnswer, compose.END},
		{nodes.NodeAcknowledge, compose.END},
		{nodes.NodeSubmit, compose.END},
	}

	for _, edge := range edges {
		if err := b.graph.AddEdge(edge[0], edge[1]); err != nil {
			logx.Error().Err(err).Str("from", edge[0]).Str("to", edge[1]).Msg("Error adding edge")
			return fmt.Errorf("error adding edge %s -> %s: %w", edge[0], edge[1], err)
		}
	}
	return nil
}

// addBranches creates conditional routing branches
func (b *GraphBuilder) addBranches() error {
	routeBranch := compose.NewGraphBranch(
		nodes.NewRouteCondition(),
		map[string]bool{
			nodes.NodeGreet:       true,
			nodes.NodeAnswer:      true,
			nodes.NodeAcknowledge: true,
			nodes.NodeCollect:     true,
		},
	)
	if err := b.graph.AddBranch(nodes.NodeClassify, routeBranch); err != nil {
		logx.Error().Err(err).Msg("Error adding route branch")
		return fmt.Errorf("error adding route branch: %w", err)
	}

	collectBranch := compose.NewGraphBranch(
		nodes.NewCollectCondition(),
		map[string]bool{
			nodes.NodeSubmit: true,
			compose.END:      true,
		},
	)
	if err := b.graph.AddBranch(nodes.NodeCollect, collectBranch); err != nil {
		logx.Error().Err(err).Msg("Error adding collect branch")
		return fmt.Errorf("error adding collect branch: %w", err)
	}

	return nil
}

// compile finalizes and compiles the graph
func (b *GraphBuilder) compile(ctx context.Context) (compose.Runnable[*model.Turn, *model.Turn], error) {
	runnable, err := b.graph.Compile(ctx,
		compose.WithGraphName("dialogue"),
		compose.WithMaxRunSteps(maxRunSteps),
	)
	if err != nil {
		logx.Error().Err(err).Msg("Error compiling graph")
		return nil, fmt.Errorf("error compiling graph: %w", err)
	}

	logx.Debug().Msg("Dialogue graph compiled successfully")
	return runnable, nil
}

// Process handles one inbound message for state. The graph works on a copy;
// state is only updated once the graph has finished. When the lead sink
// fails, the result is returned together with an error wrapping
// errx.ErrLeadSinkFailure and the merged fields are kept for a retry on the
// next turn.
func (c *Controller) Process(ctx context.Context, state *model.ConversationState, message string) (*model.TurnResult, error) {
	if state == nil {
		return nil, fmt.Errorf("conversation state is nil")
	}

	work := state.Clone()
	work.TurnCount++
	turn := &model.Turn{State: work, Message: message}

	out, err := c.runnable.Invoke(ctx, turn, compose.WithCallbacks(c.callbacks...))
	if err != nil {
		logx.Error().Err(err).Str("session_id", state.SessionID).Msg("dialogue turn failed")
		return nil, fmt.Errorf("dialogue turn: %w", err)
	}

	now := c.now()
	work.Intent = out.Intent
	work.Append(model.RoleUser, message, now)
	work.Append(model.RoleAssistant, out.Reply, now)
	work.UpdatedAt = now
	*state = *work

	c.record(out)

	result := &model.TurnResult{
		Reply:         out.Reply,
		Intent:        out.Intent,
		Phase:         out.Phase,
		Lead:          state.Lead,
		LeadSubmitted: state.LeadSubmitted,
		TurnCount:     state.TurnCount,
		Degraded:      out.Degraded,
	}

	logx.Info().
		Str("session_id", state.SessionID).
		Int("turn", state.TurnCount).
		Str("intent", out.Intent.String()).
		Str("phase", string(out.Phase)).
		Bool("lead_submitted", state.LeadSubmitted).
		Msg("turn processed")

	if out.SinkErr != nil {
		return result, out.SinkErr
	}
	return result, nil
}

func (c *Controller) record(out *model.Turn) {
	metrics.ObserveTurn(out.Intent.String(), string(out.Phase))
	for _, kind := range out.Degraded {
		metrics.Degraded(kind)
	}
	switch {
	case out.SinkErr != nil:
		metrics.LeadSinkFailed()
	case out.Phase == model.PhaseComplete && out.State.LeadSubmitted:
		metrics.LeadSubmitted()
	}
}
