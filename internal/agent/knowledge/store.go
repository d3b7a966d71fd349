package knowledge

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/autostream-assistant/server/internal/agent/model"
	errx "github.com/autostream-assistant/server/internal/core/error"
	logx "github.com/autostream-assistant/server/pkg/logger"
	einocb "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components"
	"github.com/cloudwego/eino/components/embedding"
	"github.com/cloudwego/eino/components/retriever"
	"github.com/cloudwego/eino/schema"
)

const (
	DefaultMinScore = 0.25
	DefaultTopK     = 3

	// A query term found only in a record's body counts for less than one
	// found in its topic or keywords.
	contentOnlyWeight = 0.5

	MetaTopic = "topic"

	retrieverRunName = "knowledge_store"
)

type Option func(*Store)

// WithMinScore sets the relevance threshold used when a call passes none.
func WithMinScore(score float64) Option {
	return func(s *Store) {
		s.minScore = score
	}
}

// WithEmbedder switches scoring to cosine similarity over embeddings.
func WithEmbedder(e embedding.Embedder) Option {
	return func(s *Store) {
		s.embedder = e
	}
}

func WithTopK(k int) Option {
	return func(s *Store) {
		if k > 0 {
			s.topK = k
		}
	}
}

type indexedRecord struct {
	record   model.KnowledgeRecord
	keyTerms map[string]struct{}
	allTerms map[string]struct{}
	vector   []float64
}

// Store is a read-only index over the knowledge corpus.
type Store struct {
	records  []indexedRecord
	idf      map[string]float64
	embedder embedding.Embedder
	minScore float64
	topK     int
}

// NewStore indexes records once. With an embedder configured the record
// embeddings are computed here, and a failure is fatal.
func NewStore(ctx context.Context, records []model.KnowledgeRecord, opts ...Option) (*Store, error) {
	if err := validateCorpus(records); err != nil {
		return nil, errx.CorpusInvalid(err)
	}

	s := &Store{
		minScore: DefaultMinScore,
		topK:     DefaultTopK,
		idf:      make(map[string]float64),
	}
	for _, opt := range opts {
		opt(s)
	}

	df := make(map[string]int)
	for _, rec := range records {
		ir := indexedRecord{
			record:   rec,
			keyTerms: make(map[string]struct{}),
			allTerms: make(map[string]struct{}),
		}
		keyText := strings.ReplaceAll(rec.Topic, "_", " ") + " " + strings.Join(rec.Keywords, " ")
		for _, t := range terms(keyText) {
			ir.keyTerms[t] = struct{}{}
			ir.allTerms[t] = struct{}{}
		}
		for _, t := range terms(rec.Content) {
			ir.allTerms[t] = struct{}{}
		}
		for t := range ir.allTerms {
			df[t]++
		}
		s.records = append(s.records, ir)
	}

	n := float64(len(records))
	for t, d := range df {
		s.idf[t] = math.Log(1 + n/float64(d))
	}

	if s.embedder != nil {
		texts := make([]string, len(s.records))
		for i, ir := range s.records {
			texts[i] = ir.record.Topic + ": " + ir.record.Content
		}
		vectors, err := s.embedder.EmbedStrings(ctx, texts)
		if err != nil {
			return nil, errx.CorpusInvalid(fmt.Errorf("embed corpus: %w", err))
		}
		if len(vectors) != len(texts) {
			return nil, errx.CorpusInvalid(fmt.Errorf("embed corpus: got %d vectors for %d records", len(vectors), len(texts)))
		}
		for i := range s.records {
			s.records[i].vector = vectors[i]
		}
	}

	logx.Debug().Int("records", len(s.records)).Bool("embeddings", s.embedder != nil).Msg("knowledge store indexed")
	return s, nil
}

// Records returns the indexed corpus in load order.
func (s *Store) Records() []model.KnowledgeRecord {
	out := make([]model.KnowledgeRecord, len(s.records))
	for i, ir := range s.records {
		out[i] = ir.record
	}
	return out
}

// Retrieve returns records scoring at least the threshold, best first, as
// documents whose ID is the topic.
func (s *Store) Retrieve(ctx context.Context, query string, opts ...retriever.Option) ([]*schema.Document, error) {
	topK, threshold := s.topK, s.minScore
	o := retriever.GetCommonOptions(&retriever.Options{TopK: &topK, ScoreThreshold: &threshold}, opts...)
	if o.TopK != nil {
		topK = *o.TopK
	}
	if o.ScoreThreshold != nil {
		threshold = *o.ScoreThreshold
	}

	ctx = einocb.ReuseHandlers(ctx, &einocb.RunInfo{
		Name:      retrieverRunName,
		Type:      "KnowledgeStore",
		Component: components.ComponentOfRetriever,
	})
	ctx = einocb.OnStart(ctx, &retriever.CallbackInput{
		Query:          query,
		TopK:           topK,
		ScoreThreshold: &threshold,
	})

	scores, err := s.score(ctx, query)
	if err != nil {
		einocb.OnError(ctx, err)
		return nil, err
	}

	type hit struct {
		idx   int
		score float64
	}
	var hits []hit
	for i, sc := range scores {
		if sc > 0 && sc >= threshold {
			hits = append(hits, hit{idx: i, score: sc})
		}
	}
	sort.SliceStable(hits, func(a, b int) bool { return hits[a].score > hits[b].score })
	if topK > 0 && len(hits) > topK {
		hits = hits[:topK]
	}

	docs := make([]*schema.Document, 0, len(hits))
	for _, h := range hits {
		rec := s.records[h.idx].record
		doc := &schema.Document{
			ID:       rec.Topic,
			Content:  rec.Content,
			MetaData: map[string]any{MetaTopic: rec.Topic},
		}
		docs = append(docs, doc.WithScore(h.score))
	}
	einocb.OnEnd(ctx, &retriever.CallbackOutput{Docs: docs})
	return docs, nil
}

// Lookup returns the single best record above the threshold, or nil.
func (s *Store) Lookup(ctx context.Context, query string) (*model.KnowledgeRecord, error) {
	docs, err := s.Retrieve(ctx, query, retriever.WithTopK(1))
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		logx.Debug().Str("query", query).Msg("no knowledge record above threshold")
		return nil, nil
	}
	for _, ir := range s.records {
		if ir.record.Topic == docs[0].ID {
			rec := ir.record
			logx.Debug().Str("topic", rec.Topic).Float64("score", docs[0].Score()).Msg("knowledge record matched")
			return &rec, nil
		}
	}
	return nil, nil
}

func (s *Store) score(ctx context.Context, query string) ([]float64, error) {
	if strings.TrimSpace(query) == "" {
		return make([]float64, len(s.records)), nil
	}
	if s.embedder != nil {
		return s.semanticScores(ctx, query)
	}
	return s.lexicalScores(query), nil
}

// lexicalScores is the idf-weighted share of query terms each record covers.
func (s *Store) lexicalScores(query string) []float64 {
	scores := make([]float64, len(s.records))
	qTerms := uniqueTerms(query)
	if len(qTerms) == 0 {
		return scores
	}

	maxIDF := math.Log(1 + float64(len(s.records)))
	var total float64
	weights := make([]float64, len(qTerms))
	for i, t := range qTerms {
		w, ok := s.idf[t]
		if !ok {
			w = maxIDF
		}
		weights[i] = w
		total += w
	}

	for r, ir := range s.records {
		var covered float64
		for i, t := range qTerms {
			if _, ok := ir.keyTerms[t]; ok {
				covered += weights[i]
			} else if _, ok := ir.allTerms[t]; ok {
				covered += weights[i] * contentOnlyWeight
			}
		}
		scores[r] = covered / total
	}
	return scores
}

func (s *Store) semanticScores(ctx context.Context, query string) ([]float64, error) {
	vectors, err := s.embedder.EmbedStrings(ctx, []string{query})
	if err != nil {
		return nil, errx.RetrievalUnavailable(err)
	}
	if len(vectors) != 1 {
		return nil, errx.RetrievalUnavailable(fmt.Errorf("embedder returned %d vectors", len(vectors)))
	}
	scores := make([]float64, len(s.records))
	for i, ir := range s.records {
		scores[i] = cosine(vectors[0], ir.vector)
	}
	return scores, nil
}

func cosine(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

var (
	_ retriever.Retriever = (*Store)(nil)
	_ model.KnowledgeBase = (*Store)(nil)
)
