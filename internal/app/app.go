package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/nats-io/nats.go"
	"google.golang.org/genai"

	"github.com/autostream-assistant/server/internal/agent/graph"
	"github.com/autostream-assistant/server/internal/agent/graph/conversations"
	"github.com/autostream-assistant/server/internal/agent/intent"
	"github.com/autostream-assistant/server/internal/agent/knowledge"
	"github.com/autostream-assistant/server/internal/agent/lead"
	"github.com/autostream-assistant/server/internal/agent/llm"
	"github.com/autostream-assistant/server/internal/agent/model"
	"github.com/autostream-assistant/server/internal/agent/repo"
	"github.com/autostream-assistant/server/internal/agent/session"
	"github.com/autostream-assistant/server/internal/transport"
	logx "github.com/autostream-assistant/server/pkg/logger"
)

const (
	serviceName = "autostream-assistant"

	SinkLog    = "log"
	SinkNATS   = "nats"
	SinkSQLite = "sqlite"

	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// App holds the wired assistant and the connections it owns.
type App struct {
	Config    *Config
	Service   *session.Service
	Knowledge *knowledge.Store

	nats    *nats.Conn
	closers []func() error
}

// New builds every collaborator described by cfg.
func New(ctx context.Context, cfg *Config) (*App, error) {
	a := &App{Config: cfg}
	if err := a.build(ctx); err != nil {
		_ = a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) build(ctx context.Context) error {
	cfg := a.Config

	var client *genai.Client
	if strings.EqualFold(cfg.Classifier.Strategy, intent.StrategyModel) || cfg.Knowledge.EmbeddingModel != "" {
		c, err := llm.NewClient(ctx, llm.ClientConfig{APIKey: cfg.APIKey, BaseURL: cfg.BaseURL})
		if err != nil {
			return err
		}
		client = c
	}

	store, err := a.buildKnowledge(ctx, client)
	if err != nil {
		return err
	}
	a.Knowledge = store

	var chatModel einomodel.BaseChatModel
	if strings.EqualFold(cfg.Classifier.Strategy, intent.StrategyModel) {
		cm, err := llm.NewClassifierChatModel(ctx, client, &cfg.Classifier)
		if err != nil {
			return err
		}
		chatModel = cm
	}
	classifier, err := intent.New(&cfg.Classifier, chatModel)
	if err != nil {
		return err
	}

	sink, err := a.buildSink(ctx)
	if err != nil {
		return err
	}

	sessions, err := a.buildSessionStore(ctx)
	if err != nil {
		return err
	}

	controller, err := graph.BuildDialogueGraph(ctx, &graph.GraphConfig{
		Classifier:      classifier,
		Knowledge:       store,
		Sink:            sink,
		Extractor:       lead.NewExtractor(),
		MessagesManager: conversations.NewMessagesManager(cfg.Conversation),
	})
	if err != nil {
		return err
	}

	a.Service = session.NewService(sessions, controller)
	logx.Info().
		Str("classifier", intent.StrategyOf(classifier)).
		Str("session_store", cfg.Conversation.Store).
		Str("lead_sink", cfg.Leads.Sinks).
		Int("knowledge_records", len(store.Records())).
		Msg("assistant ready")
	return nil
}

func (a *App) buildKnowledge(ctx context.Context, client *genai.Client) (*knowledge.Store, error) {
	cfg := a.Config.Knowledge
	records, err := knowledge.LoadCorpus(cfg.Path)
	if err != nil {
		return nil, err
	}

	opts := []knowledge.Option{knowledge.WithMinScore(cfg.MinScore)}
	if cfg.EmbeddingModel != "" {
		opts = append(opts, knowledge.WithEmbedder(llm.NewEmbedder(client, cfg.EmbeddingModel)))
	}
	return knowledge.NewStore(ctx, records, opts...)
}

// buildSink parses the comma-separated LEAD_SINK list.
func (a *App) buildSink(ctx context.Context) (model.LeadSink, error) {
	var sinks []model.LeadSink
	for _, name := range strings.Split(a.Config.Leads.Sinks, ",") {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "":
			continue
		case SinkLog:
			sinks = append(sinks, lead.NewLogSink())
		case SinkNATS:
			conn, err := a.NATS()
			if err != nil {
				return nil, err
			}
			sinks = append(sinks, lead.NewNATSSink(conn, a.Config.Leads.NATSSubject))
		case SinkSQLite:
			r, err := repo.OpenSQLiteLeadRepository(ctx, a.Config.Leads.SQLitePath)
			if err != nil {
				return nil, fmt.Errorf("open lead database: %w", err)
			}
			a.closers = append(a.closers, r.Close)
			sinks = append(sinks, r)
		default:
			return nil, fmt.Errorf("unknown lead sink %q", name)
		}
	}

	switch len(sinks) {
	case 0:
		return lead.NewLogSink(), nil
	case 1:
		return sinks[0], nil
	default:
		return lead.NewMultiSink(sinks...), nil
	}
}

func (a *App) buildSessionStore(ctx context.Context) (model.SessionStore, error) {
	cfg := a.Config.Conversation
	switch strings.ToLower(strings.TrimSpace(cfg.Store)) {
	case "", StoreMemory:
		return repo.NewMemorySessionRepository(cfg.TTL), nil
	case StoreRedis:
		rdb, err := a.Config.Redis.New(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to initialise Redis client: %w", err)
		}
		a.closers = append(a.closers, rdb.Close)
		logx.Info().Msg("Connected to Redis successfully")
		return repo.NewRedisSessionRepository(rdb, cfg.TTL), nil
	default:
		return nil, fmt.Errorf("unknown session store %q", cfg.Store)
	}
}

// NATS returns the shared connection, dialing it on first use.
func (a *App) NATS() (*nats.Conn, error) {
	if a.nats != nil {
		return a.nats, nil
	}
	conn, err := transport.Connect(&a.Config.NATS, serviceName)
	if err != nil {
		return nil, err
	}
	a.nats = conn
	return conn, nil
}

// Close releases every connection in reverse order of creation.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	if a.nats != nil {
		a.nats.Close()
		a.nats = nil
	}
	return errors.Join(errs...)
}
