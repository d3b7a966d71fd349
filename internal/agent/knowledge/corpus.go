package knowledge

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/autostream-assistant/server/internal/agent/model"
	errx "github.com/autostream-assistant/server/internal/core/error"
)

//go:embed corpus/autostream.json
var defaultCorpus []byte

// DefaultCorpus returns the built-in AutoStream product corpus.
func DefaultCorpus() ([]model.KnowledgeRecord, error) {
	return ParseCorpus(strings.NewReader(string(defaultCorpus)))
}

// LoadCorpus reads a corpus file, or the built-in corpus when path is empty.
func LoadCorpus(path string) ([]model.KnowledgeRecord, error) {
	if path == "" {
		return DefaultCorpus()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errx.CorpusInvalid(fmt.Errorf("open %s: %w", path, err))
	}
	defer f.Close()
	return ParseCorpus(f)
}

// ParseCorpus decodes a JSON array of {topic, content, keywords} records and
// rejects empty corpora, blank records and duplicate topics.
func ParseCorpus(r io.Reader) ([]model.KnowledgeRecord, error) {
	var records []model.KnowledgeRecord
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&records); err != nil {
		return nil, errx.CorpusInvalid(fmt.Errorf("decode: %w", err))
	}
	if err := validateCorpus(records); err != nil {
		return nil, errx.CorpusInvalid(err)
	}
	return records, nil
}

func validateCorpus(records []model.KnowledgeRecord) error {
	if len(records) == 0 {
		return fmt.Errorf("corpus is empty")
	}
	seen := make(map[string]struct{}, len(records))
	for i, rec := range records {
		topic := strings.TrimSpace(rec.Topic)
		if topic == "" {
			return fmt.Errorf("record %d: topic is empty", i)
		}
		if strings.TrimSpace(rec.Content) == "" {
			return fmt.Errorf("record %q: content is empty", topic)
		}
		if _, dup := seen[topic]; dup {
			return fmt.Errorf("record %q: duplicate topic", topic)
		}
		seen[topic] = struct{}{}
	}
	return nil
}
