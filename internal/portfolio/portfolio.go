// Package portfolio holds the personal page content: the portfolio grid and the
// project cards whose modal shows a small bar chart.
package portfolio

import (
	_ "embed"
	"fmt"

	"chartfolio/internal/render"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

//go:embed portfolio.yaml
var defaultContent []byte

// Item is one tile of the portfolio grid.
type Item struct {
	Title       string `yaml:"title" validate:"required"`
	Description string `yaml:"description"`
	Image       string `yaml:"image"`
	Link        string `yaml:"link" validate:"required"`
}

// Project is one project card.
type Project struct {
	ID      string    `yaml:"id" validate:"required,alphanum"`
	Title   string    `yaml:"title" validate:"required"`
	Summary string    `yaml:"summary"`
	GitHub  string    `yaml:"github" validate:"omitempty,url"`
	Graph   []float64 `yaml:"graph" validate:"required,min=1,dive,gte=0"`
}

// Portfolio is the whole personal page.
type Portfolio struct {
	Items    []Item     `yaml:"items" validate:"dive"`
	Projects []*Project `yaml:"projects" validate:"dive"`

	byID map[string]*Project
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load parses the embedded content.
func Load() (*Portfolio, error) {
	return Parse(defaultContent)
}

// Parse decodes and validates portfolio YAML. Project ids must be unique.
func Parse(b []byte) (*Portfolio, error) {
	var p Portfolio
	if err := yaml.Unmarshal(b, &p); err != nil {
		return nil, fmt.Errorf("portfolio: %w", err)
	}
	if err := validate.Struct(&p); err != nil {
		return nil, fmt.Errorf("portfolio: %w", err)
	}
	p.byID = make(map[string]*Project, len(p.Projects))
	for _, pr := range p.Projects {
		if _, dup := p.byID[pr.ID]; dup {
			return nil, fmt.Errorf("portfolio: duplicate project %q", pr.ID)
		}
		p.byID[pr.ID] = pr
	}
	return &p, nil
}

// Project looks a card up by id.
func (p *Portfolio) Project(id string) (*Project, bool) {
	pr, ok := p.byID[id]
	return pr, ok
}

// Chart draws the project's graph data as bars.
func (pr *Project) Chart(th render.Theme) (*render.Drawing, error) {
	return render.Bar(pr.Graph, render.BarLayout(), th)
}
