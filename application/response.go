package application

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"hr-portal/domain"
)

const analysisSchemaJSON = `{
  "type": "object",
  "required": ["score", "matchScore", "feedback", "suggestedQuestions", "experience", "education"],
  "properties": {
    "score": {"type": "number"},
    "matchScore": {"type": "number"},
    "feedback": {
      "type": "object",
      "required": ["strengths", "weaknesses", "skillsIdentified"],
      "properties": {
        "strengths": {"type": "array", "items": {"type": "string"}},
        "weaknesses": {"type": "array", "items": {"type": "string"}},
        "skillsIdentified": {"type": "array", "items": {"type": "string"}},
        "recommendation": {"type": ["string", "null"]}
      }
    },
    "suggestedQuestions": {"type": "array", "items": {"type": "string"}},
    "experience": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "title": {"type": ["string", "null"]},
          "company": {"type": ["string", "null"]},
          "years": {"type": ["number", "null"]}
        }
      }
    },
    "education": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "degree": {"type": ["string", "null"]},
          "institution": {"type": ["string", "null"]},
          "year": {"type": ["number", "null"]}
        }
      }
    }
  }
}`

var analysisSchema = mustSchema(analysisSchemaJSON)

func mustSchema(src string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("invalid embedded schema: %v", err))
	}
	return schema
}

// analysisWire mirrors the model output before normalization.
type analysisWire struct {
	Score      float64 `json:"score"`
	MatchScore float64 `json:"matchScore"`
	Feedback   struct {
		Strengths        []string `json:"strengths"`
		Weaknesses       []string `json:"weaknesses"`
		SkillsIdentified []string `json:"skillsIdentified"`
		Recommendation   *string  `json:"recommendation"`
	} `json:"feedback"`
	SuggestedQuestions []string `json:"suggestedQuestions"`
	Experience         []struct {
		Title   *string  `json:"title"`
		Company *string  `json:"company"`
		Years   *float64 `json:"years"`
	} `json:"experience"`
	Education []struct {
		Degree      *string  `json:"degree"`
		Institution *string  `json:"institution"`
		Year        *float64 `json:"year"`
	} `json:"education"`
}

// ParseAnalysis turns raw generator output into a normalized result.
// It fails with *domain.MalformedResponseError when the text is not JSON and
// with *domain.InvalidResponseShapeError when the JSON misses required fields.
func ParseAnalysis(raw string) (*domain.AnalysisResult, error) {
	cleaned := stripCodeFences(raw)

	var doc interface{}
	if err := json.Unmarshal([]byte(cleaned), &doc); err != nil {
		return nil, &domain.MalformedResponseError{Excerpt: excerpt(raw, 200), Cause: err}
	}

	if err := validateDocument(analysisSchema, doc); err != nil {
		return nil, err
	}

	var wire analysisWire
	if err := json.Unmarshal([]byte(cleaned), &wire); err != nil {
		// Unreachable once the schema passes; kept as a shape failure.
		return nil, &domain.InvalidResponseShapeError{Fields: []domain.FieldError{{Field: "(root)", Message: err.Error()}}}
	}

	return normalize(wire), nil
}

func validateDocument(schema *gojsonschema.Schema, doc interface{}) error {
	result, err := schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return &domain.InvalidResponseShapeError{Fields: []domain.FieldError{{Field: "(root)", Message: err.Error()}}}
	}
	if result.Valid() {
		return nil
	}

	shapeErr := &domain.InvalidResponseShapeError{
		Fields: make([]domain.FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		shapeErr.Fields = append(shapeErr.Fields, domain.FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return shapeErr
}

func normalize(w analysisWire) *domain.AnalysisResult {
	result := &domain.AnalysisResult{
		Score:      ClampScore(w.Score),
		MatchScore: ClampScore(w.MatchScore),
		Feedback: domain.AIFeedback{
			Strengths:        nonNil(w.Feedback.Strengths),
			Weaknesses:       nonNil(w.Feedback.Weaknesses),
			SkillsIdentified: nonNil(w.Feedback.SkillsIdentified),
			Recommendation:   deref(w.Feedback.Recommendation),
		},
		SuggestedQuestions: nonNil(w.SuggestedQuestions),
		Experience:         make([]domain.ExperienceEntry, 0, len(w.Experience)),
		Education:          make([]domain.EducationEntry, 0, len(w.Education)),
	}

	for _, e := range w.Experience {
		result.Experience = append(result.Experience, domain.ExperienceEntry{
			Title:   deref(e.Title),
			Company: deref(e.Company),
			Years:   e.Years,
		})
	}
	for _, e := range w.Education {
		entry := domain.EducationEntry{
			Degree:      deref(e.Degree),
			Institution: deref(e.Institution),
		}
		if e.Year != nil {
			year := int(math.Round(*e.Year))
			entry.Year = &year
		}
		result.Education = append(result.Education, entry)
	}
	return result
}

// ClampScore rounds to the nearest integer and pulls it into [MinScore, MaxScore].
func ClampScore(v float64) int {
	r := math.Round(v)
	switch {
	case math.IsNaN(r) || r < domain.MinScore:
		return domain.MinScore
	case r > domain.MaxScore:
		return domain.MaxScore
	default:
		return int(r)
	}
}

// stripCodeFences removes a surrounding markdown code fence, if any.
func stripCodeFences(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}

	content = strings.TrimPrefix(content, "```")
	if i := strings.IndexByte(content, '\n'); i >= 0 {
		// drop the info string, e.g. ```json
		content = content[i+1:]
	} else {
		content = strings.TrimPrefix(content, "json")
	}
	content = strings.TrimSpace(content)
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}

func excerpt(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
