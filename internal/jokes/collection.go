package jokes

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/punchlinehq/punchline/internal/logging"
)

// Collection holds the in-memory joke dataset backed by a JSON file. Reads
// vastly outnumber writes; a refresh swaps the whole slice at once.
type Collection struct {
	mu     sync.RWMutex
	jokes  []Joke
	path   string
	logger logging.Logger
}

// NewCollection builds an empty collection backed by path. Call Load to
// populate it.
func NewCollection(path string, logger logging.Logger) *Collection {
	return &Collection{
		path:   path,
		logger: logger.With(zap.String("component", "joke_collection")),
	}
}

// Load reads and validates the dataset file. A missing file leaves the
// collection empty so a fresh deployment can start before the first fetch.
func (c *Collection) Load() error {
	raw, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			c.logger.Warn("joke dataset not found, starting empty", zap.String("path", c.path))
			return nil
		}
		return fmt.Errorf("read joke dataset: %w", err)
	}

	if err := ValidateDataset(raw); err != nil {
		return err
	}

	var jokes []Joke
	if err := json.Unmarshal(raw, &jokes); err != nil {
		return fmt.Errorf("parse joke dataset: %w", err)
	}

	c.mu.Lock()
	c.jokes = jokes
	c.mu.Unlock()
	c.logger.Info("joke dataset loaded", zap.Int("jokes", len(jokes)))
	return nil
}

// Replace swaps the dataset and persists it to the backing file.
func (c *Collection) Replace(jokes []Joke) error {
	raw, err := json.MarshalIndent(jokes, "", "  ")
	if err != nil {
		return fmt.Errorf("encode joke dataset: %w", err)
	}
	if dir := filepath.Dir(c.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create dataset dir: %w", err)
		}
	}
	if err := os.WriteFile(c.path, raw, 0o644); err != nil {
		return fmt.Errorf("write joke dataset: %w", err)
	}

	c.mu.Lock()
	c.jokes = jokes
	c.mu.Unlock()
	c.logger.Info("joke dataset replaced", zap.Int("jokes", len(jokes)))
	return nil
}

// All returns a copy of the dataset in stored order.
func (c *Collection) All() []Joke {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Joke, len(c.jokes))
	copy(out, c.jokes)
	return out
}

// Count returns the number of jokes in the dataset.
func (c *Collection) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.jokes)
}

// Random returns a uniformly random joke, or false when the dataset is
// empty.
func (c *Collection) Random() (Joke, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.jokes) == 0 {
		return Joke{}, false
	}
	return c.jokes[rand.IntN(len(c.jokes))], true
}

// FilterByTopic returns jokes whose text or category contains the topic.
// The topic is matched case-insensitively and a trailing "s" is dropped so
// "cats" also matches "cat".
func (c *Collection) FilterByTopic(topic string) []Joke {
	needle := strings.ToLower(strings.TrimSpace(topic))
	needle = strings.TrimSuffix(needle, "s")
	if needle == "" {
		return c.All()
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	matched := []Joke{}
	for _, j := range c.jokes {
		if strings.Contains(strings.ToLower(j.Text()), needle) ||
			strings.Contains(strings.ToLower(j.Category), needle) {
			matched = append(matched, j)
		}
	}
	return matched
}
