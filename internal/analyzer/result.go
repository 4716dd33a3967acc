package analyzer

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// DefaultDescription stands in when the model omits the description field.
const DefaultDescription = "No description."

// NotAvailable is rendered for any array index the model did not fill.
const NotAvailable = "N/A"

// Result is the normalized analysis outcome. The three lists are parallel by
// intent but their lengths are not enforced: the model sometimes returns more
// crops than scores, and rendering guards every index instead. A nil score is
// an entry the model filled with something non-numeric; it keeps its slot so
// later scores stay aligned with their crops.
type Result struct {
	Crops       []string   `json:"crops"`
	Scores      []*float64 `json:"scores"`
	Stages      []string   `json:"stages"`
	Description string     `json:"description"`
}

// Card is one crop's slice of the result for display.
type Card struct {
	Crop  string `json:"crop"`
	Score string `json:"score"`
	Stage string `json:"stage"`
}

// StripFences removes markdown code fences the model wraps JSON in. Both the
// opening "```json" and bare "```" markers are stripped wherever they appear.
func StripFences(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	return strings.TrimSpace(text)
}

// Normalize parses a raw model reply into a Result.
//
// The reply is treated as hostile input: fences are stripped, missing keys
// default to empty lists, bare scalars are promoted to single-element lists,
// and a missing or blank description becomes DefaultDescription. When the
// reply is not JSON at all the returned Result is still usable (empty lists,
// default description) and the parse error is returned alongside it.
func Normalize(raw string) (*Result, error) {
	res := &Result{
		Crops:       []string{},
		Scores:      []*float64{},
		Stages:      []string{},
		Description: DefaultDescription,
	}

	cleaned := StripFences(raw)

	var payload map[string]any
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return res, fmt.Errorf("model reply is not valid JSON: %w", err)
	}

	res.Crops = toStringList(payload["crop_name"])
	res.Scores = toFloatList(payload["confidence_score"])
	res.Stages = toStringList(payload["stage_of_plant_growth"])

	if d, ok := payload["description"].(string); ok && strings.TrimSpace(d) != "" {
		res.Description = d
	}

	return res, nil
}

// Score returns the i-th confidence score formatted for display, or
// NotAvailable when the model returned fewer scores than crops or filled the
// slot with something non-numeric.
func (r *Result) Score(i int) string {
	if i < 0 || i >= len(r.Scores) || r.Scores[i] == nil {
		return NotAvailable
	}
	return strconv.FormatFloat(*r.Scores[i], 'g', -1, 64)
}

// Stage returns the i-th growth stage, or NotAvailable when missing.
func (r *Result) Stage(i int) string {
	if i < 0 || i >= len(r.Stages) {
		return NotAvailable
	}
	return r.Stages[i]
}

// Cards builds one display card per detected crop. Crops drive the count;
// scores and stages fall back to NotAvailable where the lists run short.
func (r *Result) Cards() []Card {
	cards := make([]Card, 0, len(r.Crops))
	for i, crop := range r.Crops {
		cards = append(cards, Card{Crop: crop, Score: r.Score(i), Stage: r.Stage(i)})
	}
	return cards
}

// toStringList coerces a decoded JSON value into a list of strings.
// Scalars become single-element lists; absent or null values become empty.
func toStringList(v any) []string {
	switch val := v.(type) {
	case nil:
		return []string{}
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			out = append(out, stringify(item))
		}
		return out
	default:
		return []string{stringify(val)}
	}
}

// toFloatList coerces a decoded JSON value into a list of scores. Numeric
// strings are accepted. An unparseable entry stays in place as nil so every
// later score keeps its crop alignment; rendering shows the slot as "N/A".
func toFloatList(v any) []*float64 {
	switch val := v.(type) {
	case nil:
		return []*float64{}
	case []any:
		out := make([]*float64, 0, len(val))
		for _, item := range val {
			out = append(out, toFloat(item))
		}
		return out
	default:
		return []*float64{toFloat(val)}
	}
}

func stringify(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

func toFloat(v any) *float64 {
	switch val := v.(type) {
	case float64:
		return &val
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(val), 64); err == nil {
			return &f
		}
	}
	return nil
}
