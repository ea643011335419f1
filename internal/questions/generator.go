// Package questions produces the interviewer's next prompt after an answer.
package questions

import (
	"context"
	"embed"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// embeds all .yaml files in the templates folder into Go program at compile time
//
//go:embed templates/*.yaml
var templateFS embed.FS

const fallbackLanguage = "tr"

// Context is what a generator knows about the turn being produced.
type Context struct {
	Index      int
	Language   string
	Title      string
	Role       string
	Company    string
	Level      string
	CVFileName string
	LastAnswer string
}

// Generator returns the next question for a session.
type Generator interface {
	NextQuestion(ctx context.Context, qc Context) (string, error)
}

type languageTemplates struct {
	Generic string `yaml:"generic"`
	WithCV  string `yaml:"with_cv"`
}

// TemplateGenerator renders deterministic questions from embedded templates.
type TemplateGenerator struct {
	templates map[string]languageTemplates
}

func NewTemplateGenerator() (*TemplateGenerator, error) {
	g := &TemplateGenerator{templates: make(map[string]languageTemplates)}
	if err := g.load(); err != nil {
		return nil, fmt.Errorf("failed to load question templates: %w", err)
	}
	if _, ok := g.templates[fallbackLanguage]; !ok {
		return nil, fmt.Errorf("missing templates for fallback language %q", fallbackLanguage)
	}
	return g, nil
}

func (g *TemplateGenerator) NextQuestion(_ context.Context, qc Context) (string, error) {
	if qc.Index < 1 {
		return "", fmt.Errorf("question index must be positive, got %d", qc.Index)
	}
	tpl, ok := g.templates[strings.ToLower(strings.TrimSpace(qc.Language))]
	if !ok {
		tpl = g.templates[fallbackLanguage]
	}

	text := tpl.Generic
	if qc.CVFileName != "" && tpl.WithCV != "" {
		text = tpl.WithCV
	}
	r := strings.NewReplacer(
		"{{.Index}}", strconv.Itoa(qc.Index),
		"{{.CVFileName}}", qc.CVFileName,
	)
	return r.Replace(text), nil
}

func (g *TemplateGenerator) load() error {
	entries, err := templateFS.ReadDir("templates")
	if err != nil {
		return fmt.Errorf("failed to read templates directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		data, err := templateFS.ReadFile("templates/" + entry.Name())
		if err != nil {
			return fmt.Errorf("failed to read template file %s: %w", entry.Name(), err)
		}

		var tpl languageTemplates
		if err := yaml.Unmarshal(data, &tpl); err != nil {
			return fmt.Errorf("failed to parse template file %s: %w", entry.Name(), err)
		}
		if tpl.Generic == "" {
			return fmt.Errorf("template file %s has no generic question", entry.Name())
		}
		g.templates[strings.TrimSuffix(entry.Name(), ".yaml")] = tpl
	}
	return nil
}
