// Package blog loads the markdown posts and renders them to HTML.
package blog

import (
	"bufio"
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"sort"
	"strings"
	"time"

	"chartfolio/internal/widget"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"gopkg.in/yaml.v3"
)

//go:embed posts/*.md
var postFiles embed.FS

// chartDirective marks where a chart container goes in a post body.
const chartDirective = "::chart "

// Post is one rendered article.
type Post struct {
	Title   string
	Slug    string
	Date    time.Time
	Summary string
	Charts  []widget.Kind
	HTML    template.HTML

	placed []widget.Kind
}

// Page returns the chart containers the post body actually places. A chart listed in
// the front matter without a directive has no container.
func (p *Post) Page() widget.Containers {
	return widget.ContainersFor(p.placed...)
}

type frontMatter struct {
	Title   string   `yaml:"title"`
	Slug    string   `yaml:"slug"`
	Date    string   `yaml:"date"`
	Summary string   `yaml:"summary"`
	Charts  []string `yaml:"charts"`
}

// Blog is the set of posts, newest first.
type Blog struct {
	posts  []*Post
	bySlug map[string]*Post
}

// Load reads the embedded posts.
func Load() (*Blog, error) {
	sub, err := fs.Sub(postFiles, "posts")
	if err != nil {
		return nil, err
	}
	return LoadFS(sub)
}

// LoadFS reads every .md file at the root of fsys.
func LoadFS(fsys fs.FS) (*Blog, error) {
	names, err := fs.Glob(fsys, "*.md")
	if err != nil {
		return nil, err
	}
	b := &Blog{bySlug: make(map[string]*Post, len(names))}
	for _, name := range names {
		raw, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, err
		}
		p, err := Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		if p.Slug == "" {
			p.Slug = strings.TrimSuffix(name, ".md")
		}
		if _, dup := b.bySlug[p.Slug]; dup {
			return nil, fmt.Errorf("%s: duplicate slug %q", name, p.Slug)
		}
		b.posts = append(b.posts, p)
		b.bySlug[p.Slug] = p
	}
	sort.SliceStable(b.posts, func(i, j int) bool { return b.posts[i].Date.After(b.posts[j].Date) })
	return b, nil
}

// Posts returns the posts newest first.
func (b *Blog) Posts() []*Post { return b.posts }

// Page returns every chart container placed by any post.
func (b *Blog) Page() widget.Containers {
	var kinds []widget.Kind
	for _, p := range b.posts {
		kinds = append(kinds, p.placed...)
	}
	return widget.ContainersFor(kinds...)
}

// Get finds a post by slug.
func (b *Blog) Get(slug string) (*Post, bool) {
	p, ok := b.bySlug[slug]
	return p, ok
}

// Parse splits front matter from the body and renders the body.
func Parse(raw []byte) (*Post, error) {
	meta, body, err := splitFrontMatter(raw)
	if err != nil {
		return nil, err
	}
	var fm frontMatter
	if err := yaml.Unmarshal(meta, &fm); err != nil {
		return nil, fmt.Errorf("front matter: %w", err)
	}
	if fm.Title == "" {
		return nil, fmt.Errorf("front matter: missing title")
	}

	p := &Post{Title: fm.Title, Slug: fm.Slug, Summary: fm.Summary}
	if fm.Date != "" {
		if p.Date, err = time.Parse("2006-01-02", fm.Date); err != nil {
			return nil, fmt.Errorf("front matter: date: %w", err)
		}
	}
	for _, c := range fm.Charts {
		k, err := widget.ParseKind(c)
		if err != nil {
			return nil, fmt.Errorf("front matter: %w", err)
		}
		p.Charts = append(p.Charts, k)
	}

	body, p.placed, err = expandCharts(body, p.Charts)
	if err != nil {
		return nil, err
	}
	p.HTML = template.HTML(toHTML(body))
	return p, nil
}

func splitFrontMatter(raw []byte) ([]byte, []byte, error) {
	raw = bytes.TrimPrefix(raw, []byte("\ufeff"))
	if !bytes.HasPrefix(raw, []byte("---\n")) {
		return nil, raw, nil
	}
	rest := raw[4:]
	end := bytes.Index(rest, []byte("\n---\n"))
	if end < 0 {
		return nil, nil, fmt.Errorf("unterminated front matter")
	}
	return rest[:end], rest[end+5:], nil
}

// expandCharts replaces chart directives with their container elements and returns the
// kinds it placed. Every directive must name a chart listed in the front matter. The
// features chart gets its selector element next to the container.
func expandCharts(body []byte, charts []widget.Kind) ([]byte, []widget.Kind, error) {
	listed := make(map[widget.Kind]bool, len(charts))
	for _, k := range charts {
		listed[k] = true
	}

	var (
		out    bytes.Buffer
		placed []widget.Kind
	)
	sc := bufio.NewScanner(bytes.NewReader(body))
	for sc.Scan() {
		line := sc.Text()
		if name, ok := strings.CutPrefix(strings.TrimSpace(line), chartDirective); ok {
			k, err := widget.ParseKind(strings.TrimSpace(name))
			if err != nil {
				return nil, nil, err
			}
			if !listed[k] {
				return nil, nil, fmt.Errorf("chart %q used but not listed in front matter", k)
			}
			if k == widget.Features {
				fmt.Fprintf(&out, "<div class=\"feature-picker\"><select class=\"feature-select\" data-for=\"%s\" aria-label=\"Feature\"></select></div>\n\n", k.ContainerID())
			}
			fmt.Fprintf(&out, "<div id=\"%s\" class=\"chart-container\" data-kind=\"%s\"></div>\n", k.ContainerID(), k)
			placed = append(placed, k)
			continue
		}
		out.WriteString(line)
		out.WriteByte('\n')
	}
	return out.Bytes(), placed, sc.Err()
}

func toHTML(md []byte) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	r := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.HrefTargetBlank})
	return markdown.ToHTML(md, p, r)
}
