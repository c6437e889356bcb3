package llm

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/dangwonlab/dangwon/internal/model"
)

// The model is an untrusted, schema-less text source: responses arrive as
// bare JSON, inside code fences, or preceded by commentary. Extraction is an
// ordered list of strategies; the first that yields a parseable array wins.

var (
	fencedArrayRe  = regexp.MustCompile("(?s)```(?:json)?\\s*(\\[.*?\\])\\s*```")
	answerPrefixRe = regexp.MustCompile(`(?i)^x\s*=\s*`)
)

// flexID tolerates unit ids arriving as JSON numbers or quoted strings.
type flexID int64

func (f *flexID) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = flexID(v)
	return nil
}

type rawQuestion struct {
	UnitID    flexID `json:"unitId"`
	UnitName  string `json:"unitName"`
	Question  string `json:"question"`
	Question1 string `json:"question1"`
	Question2 string `json:"question2"`
	Answer    string `json:"answer"`
	Help      string `json:"help"`
}

// DecodeQuestions extracts and normalizes a question array from raw model
// output. It fails soft: any parse failure returns an empty slice.
func DecodeQuestions(raw string) []model.GeneratedQuestion {
	body, ok := extractArray(raw)
	if !ok {
		return nil
	}

	var parsed []rawQuestion
	if err := json.Unmarshal([]byte(body), &parsed); err != nil {
		return nil
	}

	questions := make([]model.GeneratedQuestion, 0, len(parsed))
	for _, rq := range parsed {
		q := normalize(rq)
		if q.Question == "" {
			continue
		}
		questions = append(questions, q)
	}
	return questions
}

// extractArray tries each extraction strategy in order: fenced code block,
// then the outermost bare bracket pair.
func extractArray(raw string) (string, bool) {
	if m := fencedArrayRe.FindStringSubmatch(raw); m != nil {
		return m[1], true
	}
	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start >= 0 && end > start {
		return raw[start : end+1], true
	}
	return "", false
}

func normalize(rq rawQuestion) model.GeneratedQuestion {
	question := strings.TrimSpace(rq.Question)
	// Two-part questions come back split; rejoin them.
	if question == "" {
		parts := make([]string, 0, 2)
		for _, p := range []string{rq.Question1, rq.Question2} {
			if t := strings.TrimSpace(p); t != "" {
				parts = append(parts, t)
			}
		}
		question = strings.Join(parts, "\n")
	}

	answer := strings.TrimSpace(rq.Answer)
	answer = answerPrefixRe.ReplaceAllString(answer, "")
	answer = strings.TrimSpace(answer)

	return model.GeneratedQuestion{
		UnitID:   int64(rq.UnitID),
		UnitName: strings.TrimSpace(rq.UnitName),
		Question: question,
		Answer:   answer,
		Help:     strings.TrimSpace(rq.Help),
	}
}
