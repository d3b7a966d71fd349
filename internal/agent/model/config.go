package model

import "time"

// ================ Config ================
type ClassifierConfig struct {
	Strategy    string        `envconfig:"CLASSIFIER" default:"rule"`
	Model       string        `envconfig:"CLASSIFIER_MODEL" default:"gemini-2.5-flash-lite"`
	MaxTokens   int           `envconfig:"CLASSIFIER_MAX_TOKENS" default:"16"`
	Temperature float32       `envconfig:"CLASSIFIER_TEMPERATURE" default:"0"`
	Timeout     time.Duration `envconfig:"CLASSIFIER_TIMEOUT" default:"15s"`
}

type ConversationConfig struct {
	TTL           time.Duration `envconfig:"CONVERSATION_TTL" default:"30m"`
	HistoryWindow int           `envconfig:"CONVERSATION_HISTORY_WINDOW" default:"6"`
	Store         string        `envconfig:"SESSION_STORE" default:"memory"`
}

type KnowledgeConfig struct {
	Path           string  `envconfig:"KNOWLEDGE_PATH"`
	MinScore       float64 `envconfig:"KNOWLEDGE_MIN_SCORE" default:"0.25"`
	EmbeddingModel string  `envconfig:"KNOWLEDGE_EMBEDDING_MODEL"`
}

type LeadSinkConfig struct {
	Sinks       string `envconfig:"LEAD_SINK" default:"log"`
	NATSSubject string `envconfig:"LEAD_NATS_SUBJECT" default:"assistant.leads"`
	SQLitePath  string `envconfig:"LEAD_SQLITE_PATH" default:"data/leads.db"`
}

type NATSConfig struct {
	URL            string        `envconfig:"NATS_URL" default:"nats://localhost:4222"`
	RequestSubject string        `envconfig:"NATS_REQUEST_SUBJECT" default:"assistant.turn"`
	QueueGroup     string        `envconfig:"NATS_QUEUE_GROUP" default:"assistant"`
	Timeout        time.Duration `envconfig:"NATS_TIMEOUT" default:"30s"`
}

type MetricsConfig struct {
	Addr string `envconfig:"METRICS_ADDR"`
}
