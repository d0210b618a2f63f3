package listing

import (
	"errors"
	"fmt"
	"html/template"
	"strings"

	"github.com/Zachkp/scholar-site/internal/csvdata"
)

// ErrUnknownDataset is returned when rendering a dataset the Renderer was not
// built with.
var ErrUnknownDataset = errors.New("listing: unknown dataset")

var funcs = template.FuncMap{
	"lower": strings.ToLower,
}

var (
	categoryTmpl = template.Must(template.New("category").Parse(
		`<div class="{{.Layout.Category}}"><h2 class="{{.Layout.Title}}">{{.Heading}}</h2><div class="{{.Layout.Inner}}">{{.Items}}</div></div>`))
	itemTmpl = template.Must(template.New("item").Parse(
		`<article class="{{.Class}}">{{.Body}}</article>`))
)

// Renderer holds the compiled fragment templates of a set of datasets.
// It is safe for concurrent use once built.
type Renderer struct {
	compiled map[string]*template.Template
}

// NewRenderer compiles every fragment of every dataset up front so a bad
// template fails at startup rather than on a page request.
func NewRenderer(datasets []Dataset) (*Renderer, error) {
	r := &Renderer{compiled: make(map[string]*template.Template, len(datasets))}
	for _, ds := range datasets {
		root := template.New(ds.Name).Option("missingkey=zero").Funcs(funcs)
		for bi, b := range ds.Buckets {
			for fi, frag := range b.Item {
				if _, err := root.New(fragmentName(bi, fi)).Parse(frag.Markup); err != nil {
					return nil, fmt.Errorf("dataset %s bucket %q fragment %d: %w", ds.Name, b.Key, fi, err)
				}
			}
		}
		r.compiled[ds.Name] = root
	}
	return r, nil
}

// Render groups records and renders them. Zero kept records yield "".
func (r *Renderer) Render(ds Dataset, records []csvdata.Record) (string, error) {
	return r.RenderGrouped(ds, Group(ds, records))
}

// RenderGrouped renders an already grouped dataset. Buckets are emitted in
// declared order and empty buckets produce no output at all.
func (r *Renderer) RenderGrouped(ds Dataset, g Grouped) (string, error) {
	root, ok := r.compiled[ds.Name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownDataset, ds.Name)
	}

	var out strings.Builder
	for bi, b := range ds.Buckets {
		recs := g.Records(b.Key)
		if len(recs) == 0 {
			continue
		}

		var items strings.Builder
		for _, rec := range recs {
			if err := r.renderItem(&items, root, ds, bi, rec); err != nil {
				return "", err
			}
		}

		if !ds.Grouped() {
			out.WriteString(items.String())
			continue
		}
		err := categoryTmpl.Execute(&out, struct {
			Layout  Layout
			Heading string
			Items   template.HTML
		}{ds.Layout, b.Heading, template.HTML(items.String())})
		if err != nil {
			return "", fmt.Errorf("render %s heading %q: %w", ds.Name, b.Heading, err)
		}
		out.WriteByte('\n')
	}
	return out.String(), nil
}

func (r *Renderer) renderItem(w *strings.Builder, root *template.Template, ds Dataset, bucket int, rec csvdata.Record) error {
	var body strings.Builder
	for fi, frag := range ds.Buckets[bucket].Item {
		if frag.Field != "" && rec.Get(frag.Field) == "" {
			continue
		}
		if err := root.ExecuteTemplate(&body, fragmentName(bucket, fi), rec); err != nil {
			return fmt.Errorf("render %s fragment %d: %w", ds.Name, fi, err)
		}
	}

	err := itemTmpl.Execute(w, struct {
		Class string
		Body  template.HTML
	}{ds.Layout.Item, template.HTML(body.String())})
	if err != nil {
		return fmt.Errorf("render %s item: %w", ds.Name, err)
	}
	w.WriteByte('\n')
	return nil
}

func fragmentName(bucket, fragment int) string {
	return fmt.Sprintf("b%d.f%d", bucket, fragment)
}
