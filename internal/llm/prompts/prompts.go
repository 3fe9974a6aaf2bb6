package prompts

import (
	_ "embed"
	"strings"
	"text/template"
)

//go:embed system.md
var systemPrompt string

//go:embed situation.md
var situationPrompt string

// PriceLine is one future hour shown to the model.
type PriceLine struct {
	Hour  string
	Price float64
}

// SituationData fills the situation template.
type SituationData struct {
	SoC          float64
	CurrentPrice float64
	Prices       []PriceLine
	Solar        []float64
}

func SystemPrompt() string {
	return strings.TrimSpace(systemPrompt)
}

// RenderSituation renders the user-facing situational summary.
func RenderSituation(data SituationData) (string, error) {
	tmpl, err := template.New("situation").Parse(situationPrompt)
	if err != nil {
		return "", err
	}
	var builder strings.Builder
	if err := tmpl.Execute(&builder, data); err != nil {
		return "", err
	}
	return builder.String(), nil
}
