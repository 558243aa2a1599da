package search

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/punchlinehq/punchline/internal/logging"
)

// DefaultTopK is how many matches Search returns when the caller passes no
// positive k.
const DefaultTopK = 5

const embedBatchSize = 100

// Document is one searchable text with the id it maps back to.
type Document struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
}

// Match is one search hit with its cosine similarity score.
type Match struct {
	ID    int     `json:"id"`
	Text  string  `json:"text"`
	Score float64 `json:"score"`
}

type entry struct {
	ID     int       `json:"id"`
	Text   string    `json:"text"`
	Vector []float32 `json:"vector"`
}

// Index holds embedded documents and answers nearest-neighbour queries by
// cosine similarity. Embedding happens outside the lock; only the swap of
// the entry slice is guarded.
type Index struct {
	mu       sync.RWMutex
	embedder Embedder
	entries  []entry
	logger   logging.Logger
}

// NewIndex builds an empty index over embedder.
func NewIndex(embedder Embedder, logger logging.Logger) *Index {
	return &Index{
		embedder: embedder,
		logger:   logger.With(zap.String("component", "search_index")),
	}
}

// Len returns the number of indexed documents.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.entries)
}

// Build embeds all documents in batches and replaces the index contents.
func (ix *Index) Build(ctx context.Context, docs []Document) error {
	entries := make([]entry, 0, len(docs))
	for start := 0; start < len(docs); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(docs) {
			end = len(docs)
		}
		batch := docs[start:end]
		texts := make([]string, len(batch))
		for i, d := range batch {
			texts[i] = d.Text
		}
		vectors, err := ix.embedder.Embed(ctx, texts)
		if err != nil {
			return fmt.Errorf("embed documents %d-%d: %w", start, end-1, err)
		}
		for i, d := range batch {
			entries = append(entries, entry{ID: d.ID, Text: d.Text, Vector: vectors[i]})
		}
	}

	ix.mu.Lock()
	ix.entries = entries
	ix.mu.Unlock()
	ix.logger.Info("search index built", zap.Int("documents", len(entries)))
	return nil
}

// Covers reports whether the index already holds exactly these documents,
// by id and text. It decides whether a rebuild is needed after a dataset
// refresh or a snapshot load.
func (ix *Index) Covers(docs []Document) bool {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	if len(ix.entries) != len(docs) {
		return false
	}
	for i, d := range docs {
		if ix.entries[i].ID != d.ID || ix.entries[i].Text != d.Text {
			return false
		}
	}
	return true
}

// EnsureBuilt rebuilds the index only when it does not cover docs.
func (ix *Index) EnsureBuilt(ctx context.Context, docs []Document) error {
	if ix.Covers(docs) {
		return nil
	}
	return ix.Build(ctx, docs)
}

// Search embeds the query and returns the top k matches by cosine
// similarity, highest first. Ties keep index order. An empty index returns
// no matches.
func (ix *Index) Search(ctx context.Context, query string, k int) ([]Match, error) {
	if k <= 0 {
		k = DefaultTopK
	}
	if ix.Len() == 0 {
		return []Match{}, nil
	}

	vectors, err := ix.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	queryVec := vectors[0]

	ix.mu.RLock()
	matches := make([]Match, 0, len(ix.entries))
	for _, e := range ix.entries {
		matches = append(matches, Match{ID: e.ID, Text: e.Text, Score: cosine(queryVec, e.Vector)})
	}
	ix.mu.RUnlock()

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if len(matches) > k {
		matches = matches[:k]
	}
	return matches, nil
}

// Save writes the index contents to a JSON snapshot.
func (ix *Index) Save(path string) error {
	ix.mu.RLock()
	raw, err := json.Marshal(ix.entries)
	ix.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("encode index snapshot: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create snapshot dir: %w", err)
		}
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write index snapshot: %w", err)
	}
	return nil
}

// Load replaces the index contents from a snapshot. A missing snapshot
// leaves the index empty so the caller falls back to a fresh build.
func (ix *Index) Load(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			ix.logger.Warn("index snapshot not found", zap.String("path", path))
			return nil
		}
		return fmt.Errorf("read index snapshot: %w", err)
	}
	var entries []entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return fmt.Errorf("parse index snapshot: %w", err)
	}

	ix.mu.Lock()
	ix.entries = entries
	ix.mu.Unlock()
	ix.logger.Info("search index loaded from snapshot", zap.Int("documents", len(entries)))
	return nil
}

func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
