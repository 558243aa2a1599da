package jokes

import (
	"fmt"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"
)

// JokeType distinguishes one-liner jokes from setup/delivery pairs.
type JokeType string

const (
	JokeSingle  JokeType = "single"
	JokeTwoPart JokeType = "twopart"
)

// Flags carries the content flags reported by the upstream joke API.
type Flags struct {
	NSFW      bool `json:"nsfw"`
	Religious bool `json:"religious"`
	Political bool `json:"political"`
	Racist    bool `json:"racist"`
	Sexist    bool `json:"sexist"`
	Explicit  bool `json:"explicit"`
}

// Joke is one entry of the local joke dataset, in the upstream API's shape
// plus a fetched_at stamp added at download time.
type Joke struct {
	ID        int       `json:"id"`
	Category  string    `json:"category"`
	Type      JokeType  `json:"type"`
	Joke      string    `json:"joke,omitempty"`
	Setup     string    `json:"setup,omitempty"`
	Delivery  string    `json:"delivery,omitempty"`
	Flags     Flags     `json:"flags"`
	Safe      bool      `json:"safe"`
	Lang      string    `json:"lang"`
	FetchedAt time.Time `json:"fetched_at,omitempty"`
}

// Text renders the joke as one line of displayable text. Two-part jokes
// join setup and delivery with a space; search documents and responses both
// use this rendering.
func (j Joke) Text() string {
	if j.Type == JokeTwoPart {
		return j.Setup + " " + j.Delivery
	}
	return j.Joke
}

// Validate checks that the joke carries the text fields its type requires.
func (j Joke) Validate() error {
	switch j.Type {
	case JokeSingle:
		if strings.TrimSpace(j.Joke) == "" {
			return fmt.Errorf("single joke %d has no text", j.ID)
		}
	case JokeTwoPart:
		if strings.TrimSpace(j.Setup) == "" || strings.TrimSpace(j.Delivery) == "" {
			return fmt.Errorf("twopart joke %d is missing setup or delivery", j.ID)
		}
	default:
		return fmt.Errorf("joke %d has unknown type %q", j.ID, j.Type)
	}
	return nil
}

const datasetSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "array",
	"items": {
		"type": "object",
		"required": ["id", "category", "type"],
		"properties": {
			"id": {"type": "integer", "minimum": 0},
			"category": {"type": "string", "minLength": 1},
			"type": {"type": "string", "enum": ["single", "twopart"]},
			"joke": {"type": "string"},
			"setup": {"type": "string"},
			"delivery": {"type": "string"},
			"safe": {"type": "boolean"},
			"lang": {"type": "string"}
		}
	}
}`

// ValidateDataset checks a raw jokes file against the dataset schema before
// it is trusted. Schema violations are reported together, one per line.
func ValidateDataset(raw []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(datasetSchema),
		gojsonschema.NewBytesLoader(raw),
	)
	if err != nil {
		return fmt.Errorf("validate joke dataset: %w", err)
	}
	if result.Valid() {
		return nil
	}
	details := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		details = append(details, desc.String())
	}
	return fmt.Errorf("joke dataset failed schema validation: %s", strings.Join(details, "; "))
}
