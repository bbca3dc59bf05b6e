// Package prompt renders skill prompts from embedded templates.
package prompt

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/felixgeelhaar/checklist-go/domain/skill"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Renderer renders named skill templates with their input data.
// Missing keys are errors: a template referencing data a skill does not
// provide fails at render time, not silently at the model.
type Renderer struct {
	templates *template.Template
}

// NewRenderer parses all embedded templates.
func NewRenderer() (*Renderer, error) {
	tmpl := template.New("skills").
		Option("missingkey=error").
		Funcs(template.FuncMap{
			"json": func(v any) (string, error) {
				b, err := json.MarshalIndent(v, "", "  ")
				if err != nil {
					return "", err
				}
				return string(b), nil
			},
			"join": strings.Join,
		})

	tmpl, err := tmpl.ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{templates: tmpl}, nil
}

// Render executes the named template against the skill inputs.
func (r *Renderer) Render(name string, in skill.Inputs) (string, error) {
	var b strings.Builder
	if err := r.templates.ExecuteTemplate(&b, name+".tmpl", map[string]any(in)); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return b.String(), nil
}

// Names returns the base names of all parsed templates.
func (r *Renderer) Names() []string {
	var names []string
	for _, t := range r.templates.Templates() {
		name := t.Name()
		if strings.HasSuffix(name, ".tmpl") {
			names = append(names, strings.TrimSuffix(name, ".tmpl"))
		}
	}
	return names
}
