package ai

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// ErrMalformed is returned when a response holds no usable update object.
var ErrMalformed = errors.New("malformed response")

//go:embed update.schema.json
var updateSchemaJSON string

var updateSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewStringLoader(updateSchemaJSON))
})

// ParseUpdate decodes a provider response. The whole response is tried first,
// then the span from the first '{' to the last '}'.
func ParseUpdate(raw string) (TailorUpdate, error) {
	raw = strings.TrimSpace(raw)

	update, err := decodeUpdate(raw)
	if err == nil {
		return update, nil
	}

	span, ok := extractObject(raw)
	if !ok {
		return TailorUpdate{}, fmt.Errorf("%w: no JSON object found", ErrMalformed)
	}

	update, err = decodeUpdate(span)
	if err != nil {
		return TailorUpdate{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	return update, nil
}

func extractObject(raw string) (string, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end <= start {
		return "", false
	}
	return raw[start : end+1], true
}

func decodeUpdate(candidate string) (TailorUpdate, error) {
	schema, err := updateSchema()
	if err != nil {
		return TailorUpdate{}, fmt.Errorf("load update schema: %w", err)
	}

	result, err := schema.Validate(gojsonschema.NewStringLoader(candidate))
	if err != nil {
		return TailorUpdate{}, fmt.Errorf("parse json: %w", err)
	}

	if !result.Valid() {
		problems := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			problems = append(problems, e.String())
		}
		return TailorUpdate{}, fmt.Errorf("schema: %s", strings.Join(problems, "; "))
	}

	var update TailorUpdate
	if err := json.Unmarshal([]byte(candidate), &update); err != nil {
		return TailorUpdate{}, fmt.Errorf("decode update: %w", err)
	}

	return normalize(update), nil
}

func normalize(update TailorUpdate) TailorUpdate {
	return TailorUpdate{
		Summary:           strings.TrimSpace(update.Summary),
		Skills:            cleanEntries(update.Skills),
		ExperienceUpdates: cleanEntries(update.ExperienceUpdates),
	}
}

var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

func cleanEntries(entries []string) []string {
	cleaned := make([]string, 0, min(len(entries), MaxEntries))
	for _, entry := range entries {
		// Each entry becomes one paragraph.
		entry = strings.TrimSpace(lineBreaks.Replace(entry))
		if entry == "" {
			continue
		}
		cleaned = append(cleaned, entry)
		if len(cleaned) == MaxEntries {
			break
		}
	}
	return cleaned
}
