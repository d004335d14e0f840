package server

import (
	"fmt"
	"net/http"
	"net/url"

	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"github.com/harmonyedit/assetcat/pkg/assets"
	"github.com/harmonyedit/assetcat/pkg/catalog"
	"github.com/harmonyedit/assetcat/pkg/filter"
)

// handleIndex renders the browse page: breadcrumb trail, facet panels and
// the filtered asset table. Every control is a plain link carrying the
// full filter state in its query string, so the page needs no scripting.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	s.mu.Lock()
	v := s.view
	if v == nil {
		s.mu.Unlock()
		http.Error(w, "snapshot not loaded", http.StatusServiceUnavailable)
		return
	}
	applyQuery(v, q)

	list := v.Assets()
	crumbs := v.Breadcrumbs()
	series := v.SeriesOptions()
	sizes := v.SizeOptions()
	tags := v.TagOptions()
	selectedSeries := v.SelectedSeriesValue()
	selectedSizes := v.SelectedSizeValues()
	selectedTags := v.SelectedTagValues()
	s.mu.Unlock()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	browsePage(q, list, crumbs, series, sizes, tags,
		selectedSeries, selectedSizes, selectedTags).Render(w)
}

// linkWith rebuilds the page URL with one parameter changed. Multi-valued
// parameters (size, tag) toggle the value in and out of the set.
func linkWith(q url.Values, key, value string, multi bool) string {
	next := url.Values{}
	for k, vals := range q {
		next[k] = append([]string(nil), vals...)
	}
	if multi {
		vals := next[key]
		kept := vals[:0]
		removed := false
		for _, existing := range vals {
			if existing == value {
				removed = true
				continue
			}
			kept = append(kept, existing)
		}
		if !removed {
			kept = append(kept, value)
		}
		next[key] = kept
	} else if next.Get(key) == value {
		next.Del(key)
	} else {
		next.Set(key, value)
	}
	if enc := next.Encode(); enc != "" {
		return "/?" + enc
	}
	return "/"
}

func facetPanel(title string, q url.Values, param string, opts []filter.Option, selected []string, multi bool) g.Node {
	items := make([]g.Node, 0, len(opts))
	for _, o := range opts {
		active := false
		for _, sel := range selected {
			if sel == o.Value {
				active = true
				break
			}
		}
		class := "block px-2 py-1 rounded text-sm hover:bg-zinc-800"
		if active {
			class += " bg-cyan-900/50 text-cyan-300"
		} else {
			class += " text-zinc-400"
		}
		items = append(items, Li(
			A(Href(linkWith(q, param, o.Value, multi)), Class(class), g.Text(o.Label)),
		))
	}
	return Div(Class("bg-zinc-900 border border-zinc-800 rounded-lg p-3"),
		H2(Class("text-xs uppercase tracking-wider text-zinc-500 mb-2"), g.Text(title)),
		g.If(len(items) == 0, P(Class("text-sm text-zinc-600"), g.Text("none"))),
		Ul(items...),
	)
}

func breadcrumbBar(q url.Values, crumbs []catalog.Category) g.Node {
	nodes := []g.Node{
		A(Href(linkWith(q, "category", "", false)), Class("text-cyan-400 hover:underline"), g.Text("All")),
	}
	for i, c := range crumbs {
		nodes = append(nodes, Span(Class("text-zinc-600 mx-1"), g.Text("/")))
		if i == len(crumbs)-1 {
			nodes = append(nodes, Span(Class("text-zinc-200"), g.Text(c.Name)))
		} else {
			nodes = append(nodes, A(Href(linkWith(q, "category", c.ID, false)),
				Class("text-cyan-400 hover:underline"), g.Text(c.Name)))
		}
	}
	return Div(append([]g.Node{Class("text-sm mb-4")}, nodes...)...)
}

func assetRow(a assets.Asset) g.Node {
	name := g.Node(g.Text(a.Name))
	if a.DownloadURL != "" {
		name = A(Href(a.DownloadURL), Class("text-cyan-400 hover:underline"), g.Text(a.Name))
	}
	return Tr(Class("border-b border-zinc-800"),
		Td(Class("px-3 py-2"), name),
		Td(Class("px-3 py-2 text-zinc-400"), g.Text(a.Type)),
		Td(Class("px-3 py-2 text-zinc-400"), g.Text(a.SeriesName)),
		Td(Class("px-3 py-2 text-zinc-400"), g.Text(a.SizeCategory)),
		Td(Class("px-3 py-2 text-zinc-500"), g.Text(a.Source)),
	)
}

func browsePage(q url.Values, list []assets.Asset, crumbs []catalog.Category,
	series, sizes, tags []filter.Option,
	selectedSeries string, selectedSizes, selectedTags []string) g.Node {

	rows := make([]g.Node, 0, len(list))
	for _, a := range list {
		rows = append(rows, assetRow(a))
	}

	var seriesSelected []string
	if selectedSeries != "" {
		seriesSelected = []string{selectedSeries}
	}

	return g.Group([]g.Node{
		g.Raw("<!DOCTYPE html>"),
		HTML(
			Head(
				Meta(Charset("UTF-8")),
				Meta(Name("viewport"), Content("width=device-width, initial-scale=1.0")),
				TitleEl(g.Text("assetcat")),
				Script(Src("https://cdn.tailwindcss.com")),
			),
			Body(Class("bg-zinc-950 text-zinc-300 font-sans antialiased"),
				Div(Class("max-w-6xl mx-auto px-4 py-6"),
					H1(Class("text-xl font-bold text-white mb-4"), g.Text("assetcat")),
					Form(Action("/"), Method("get"), Class("mb-4"),
						Input(Type("text"), Name("search"), Value(q.Get("search")),
							Placeholder("Search assets..."),
							Class("bg-zinc-900 border border-zinc-700 rounded px-3 py-1.5 text-sm w-64")),
					),
					breadcrumbBar(q, crumbs),
					Div(Class("grid grid-cols-4 gap-4"),
						Div(Class("col-span-1 space-y-4"),
							facetPanel("Series", q, "series", series, seriesSelected, false),
							facetPanel("Size", q, "size", sizes, selectedSizes, true),
							facetPanel("Tags", q, "tag", tags, selectedTags, true),
						),
						Div(Class("col-span-3"),
							P(Class("text-xs text-zinc-500 mb-2"), g.Text(fmt.Sprintf("%d assets", len(list)))),
							Table(Class("w-full text-sm text-left"),
								THead(
									Tr(Class("text-xs uppercase tracking-wider text-zinc-500 border-b border-zinc-700"),
										Th(Class("px-3 py-2"), g.Text("Name")),
										Th(Class("px-3 py-2"), g.Text("Type")),
										Th(Class("px-3 py-2"), g.Text("Series")),
										Th(Class("px-3 py-2"), g.Text("Size")),
										Th(Class("px-3 py-2"), g.Text("Source")),
									),
								),
								TBody(rows...),
							),
						),
					),
				),
			),
		),
	})
}
