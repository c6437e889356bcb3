package prompts

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"

	"github.com/dangwonlab/dangwon/internal/model"
)

//go:embed generate.txt
var promptFS embed.FS

var generateTmpl = template.Must(
	template.New("generate.txt").ParseFS(promptFS, "generate.txt"),
)

// GenerateData holds template data for the question generation prompt.
type GenerateData struct {
	Count int
	Units []model.UnitRef
}

// BuildGeneratePrompt renders the generation prompt for the given units and
// question count.
func BuildGeneratePrompt(units []model.UnitRef, count int) (string, error) {
	var buf bytes.Buffer
	err := generateTmpl.ExecuteTemplate(&buf, "generate.txt", GenerateData{
		Count: count,
		Units: units,
	})
	if err != nil {
		return "", fmt.Errorf("render generate prompt: %w", err)
	}
	return buf.String(), nil
}
