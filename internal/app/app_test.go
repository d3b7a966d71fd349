package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autostream-assistant/server/internal/agent/model"
	"github.com/autostream-assistant/server/internal/agent/repo"
	"github.com/autostream-assistant/server/internal/core"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "rule", cfg.Classifier.Strategy)
	assert.Equal(t, 30*time.Minute, cfg.Conversation.TTL)
	assert.Equal(t, 6, cfg.Conversation.HistoryWindow)
	assert.Equal(t, "memory", cfg.Conversation.Store)
	assert.Equal(t, "log", cfg.Leads.Sinks)
	assert.Equal(t, "assistant.turn", cfg.NATS.RequestSubject)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
	assert.InDelta(t, 0.25, cfg.Knowledge.MinScore, 1e-9)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("CLASSIFIER", "model")
	t.Setenv("CONVERSATION_TTL", "5m")
	t.Setenv("SESSION_STORE", "redis")
	t.Setenv("REDIS_URL", "redis://cache:6379/1")
	t.Setenv("LEAD_SINK", "log,sqlite")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, core.Production, cfg.Environment())
	assert.Equal(t, "model", cfg.Classifier.Strategy)
	assert.Equal(t, 5*time.Minute, cfg.Conversation.TTL)
	assert.Equal(t, "redis", cfg.Conversation.Store)
	assert.Equal(t, "redis://cache:6379/1", cfg.Redis.URL)
	assert.Equal(t, "log,sqlite", cfg.Leads.Sinks)
}

func baseConfig(t *testing.T) *Config {
	t.Helper()
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	return cfg
}

func TestNew_DefaultStack(t *testing.T) {
	cfg := baseConfig(t)
	a, err := New(context.Background(), cfg)
	require.NoError(t, err)
	defer a.Close()

	res, err := a.Service.HandleMessage(context.Background(), "s1", "Hi")
	require.NoError(t, err)
	assert.Equal(t, model.IntentGreeting, res.Intent)
	assert.NotEmpty(t, a.Knowledge.Records())
}

func TestNew_SQLiteSinkAndRedisStore(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	dbPath := filepath.Join(t.TempDir(), "leads.db")

	cfg := baseConfig(t)
	cfg.Conversation.Store = StoreRedis
	cfg.Redis.URL = "redis://" + mr.Addr() + "/0"
	cfg.Leads.Sinks = "log, sqlite"
	cfg.Leads.SQLitePath = dbPath

	a, err := New(ctx, cfg)
	require.NoError(t, err)

	for _, m := range []string{"My name is John Doe", "john@example.com", "YouTube"} {
		_, err := a.Service.HandleMessage(ctx, "s1", m)
		require.NoError(t, err)
	}
	assert.True(t, mr.Exists("session:s1:state"))
	require.NoError(t, a.Close())

	r, err := repo.OpenSQLiteLeadRepository(ctx, dbPath)
	require.NoError(t, err)
	defer r.Close()
	leads, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "john@example.com", leads[0].Email)
}

func TestNew_Rejects(t *testing.T) {
	ctx := context.Background()

	cfg := baseConfig(t)
	cfg.Leads.Sinks = "fax"
	_, err := New(ctx, cfg)
	assert.Error(t, err)

	cfg = baseConfig(t)
	cfg.Conversation.Store = "etcd"
	_, err = New(ctx, cfg)
	assert.Error(t, err)

	cfg = baseConfig(t)
	cfg.Classifier.Strategy = "model"
	cfg.APIKey = ""
	_, err = New(ctx, cfg)
	assert.Error(t, err)
}
