package filter

import (
	"strings"

	"github.com/harmonyedit/assetcat/pkg/assets"
	"github.com/harmonyedit/assetcat/pkg/catalog"
)

// View owns the filter state for one catalog snapshot and derives the
// displayed asset set and facet options from it on demand.
//
// Derivation is a pull-based memoization chain: every input mutation bumps
// a generation counter, and the first read after that recomputes the whole
// chain once, in dependency order (base set → category → series → sizes →
// tags). Each stage's output feeds both the next stage's filter and the
// next dimension's option derivation, so the options offered for a
// dimension always reflect every upstream filter. Self-pruning of stale
// selections happens inside the same pass, top-down, so a prune never
// re-triggers an upstream stage.
//
// A View is not safe for concurrent use; it is meant to be exclusively
// owned, with any cross-goroutine access serialized by the caller.
type View struct {
	graph *catalog.Graph
	all   []assets.Asset

	path        []catalog.Category
	series      *OptionKey
	sizes       []OptionKey
	tags        []OptionKey
	query       string
	optionQuery string
	dir         string

	gen     uint64
	memoGen uint64
	memo    derived
}

type derived struct {
	base          []assets.Asset
	seriesOptions []Option
	afterSeries   []assets.Asset
	sizeOptions   []Option
	afterSizes    []assets.Asset
	tagOptions    []Option
	displayed     []assets.Asset
}

// NewView returns an empty View with no catalog and no assets.
func NewView() *View {
	g, _ := catalog.BuildGraph(nil)
	return &View{graph: g, gen: 1}
}

func (v *View) touch() { v.gen++ }

// ReplaceCatalog swaps in a new category snapshot. The graph is rebuilt
// from scratch and the active breadcrumb path is reconciled against it:
// collapsed when its leaf disappeared, rebuilt when the leaf moved.
// On error (duplicate ids) the previous snapshot stays in place.
func (v *View) ReplaceCatalog(roots []catalog.Category) error {
	g, err := catalog.BuildGraph(roots)
	if err != nil {
		return err
	}
	v.graph = g
	if next, changed := catalog.ReconcilePath(v.path, g); changed {
		v.path = next
	}
	v.touch()
	return nil
}

// ReplaceAssets swaps in a new asset snapshot. The slice is treated as
// immutable from here on. Stale selections are pruned on the next read.
func (v *View) ReplaceAssets(list []assets.Asset) {
	v.all = list
	v.touch()
}

// Graph exposes the current category graph (for tree rendering).
func (v *View) Graph() *catalog.Graph { return v.graph }

// SelectCategory makes id the active category, resolving its full
// breadcrumb path. An empty id resets to "all categories".
func (v *View) SelectCategory(id string) {
	if id == "" {
		v.path = nil
	} else {
		leaf := catalog.Category{ID: id}
		if c := v.graph.Lookup(id); c != nil {
			leaf = *c
		}
		v.path = catalog.ResolvePath(leaf, v.graph)
	}
	v.touch()
}

// BreadcrumbClick truncates the active path at the clicked entry. A
// negative index resets to "all categories".
func (v *View) BreadcrumbClick(index int) {
	switch {
	case index < 0:
		v.path = nil
	case index < len(v.path)-1:
		v.path = v.path[:index+1]
	default:
		return // clicking the leaf changes nothing
	}
	v.touch()
}

// BreadcrumbChildSelect descends from the breadcrumb at index into one of
// its children. Unknown children are ignored.
func (v *View) BreadcrumbChildSelect(index int, childID string) {
	if index < 0 || index >= len(v.path) {
		return
	}
	child := v.graph.Lookup(childID)
	if child == nil {
		return
	}
	if p := v.graph.Parent(childID); p == nil || p.ID != v.path[index].ID {
		return
	}
	v.path = append(v.path[:index+1:index+1], *child)
	v.touch()
}

// SelectSeries selects a series filter value; selecting the current value
// again toggles the filter off. Bare values (no series: prefix) are
// resolved against the offered options so both ids and labels work.
func (v *View) SelectSeries(value string) {
	key := v.resolveSeries(value)
	if v.series != nil && v.series.Is(key) {
		v.series = nil
	} else {
		v.series = &key
	}
	v.touch()
}

// resolveSeries maps a boundary string to an option key, preferring an
// option currently on offer (matched by canonical value, id, or label).
func (v *View) resolveSeries(value string) OptionKey {
	v.recompute()
	for _, o := range v.memo.seriesOptions {
		if o.Value == value || (o.Key.Kind == KindID && o.Key.ID == value) ||
			strings.EqualFold(o.Label, value) {
			return o.Key
		}
	}
	return ParseSeriesValue(value)
}

// ToggleSize adds or removes a size-category filter value (multi-select).
func (v *View) ToggleSize(value string) {
	v.sizes = toggleKey(v.sizes, ParseSizeValue(value))
	v.touch()
}

// ToggleTag adds or removes a tag filter value (multi-select). Values are
// resolved against the rendered tag options first so a bare id or label
// selects the full option key.
func (v *View) ToggleTag(value string) {
	key := v.resolveTag(value)
	v.tags = toggleKey(v.tags, key)
	v.touch()
}

func (v *View) resolveTag(value string) OptionKey {
	v.recompute()
	for _, o := range v.memo.tagOptions {
		if o.Value == value || (o.Key.Kind == KindID && o.Key.ID == value) ||
			strings.EqualFold(o.Label, value) {
			return o.Key
		}
	}
	return ParseTagValue(value)
}

func toggleKey(selected []OptionKey, key OptionKey) []OptionKey {
	for i, k := range selected {
		if k.Is(key) {
			return append(selected[:i:i], selected[i+1:]...)
		}
	}
	return append(selected, key)
}

// SetQuery sets the free-text asset search. A non-empty query overrides
// directory scoping with a recursive match over the whole snapshot.
func (v *View) SetQuery(q string) {
	v.query = q
	v.touch()
}

// SetOptionQuery sets the facet search term narrowing the tag option list.
func (v *View) SetOptionQuery(q string) {
	v.optionQuery = q
	v.touch()
}

// SetDir scopes the base listing to a directory subtree.
func (v *View) SetDir(dir string) {
	v.dir = dir
	v.touch()
}

// ClearFilters resets series, sizes, tags and both search terms. The
// active category and directory survive; they are navigation, not filters.
func (v *View) ClearFilters() {
	v.series = nil
	v.sizes = nil
	v.tags = nil
	v.query = ""
	v.optionQuery = ""
	v.touch()
}

// Assets returns the displayed asset set after all filter stages.
func (v *View) Assets() []assets.Asset {
	v.recompute()
	return v.memo.displayed
}

// Breadcrumbs returns the active root-to-leaf category path.
func (v *View) Breadcrumbs() []catalog.Category {
	return v.path
}

// ActiveCategoryID returns the id of the breadcrumb leaf, or "".
func (v *View) ActiveCategoryID() string {
	if len(v.path) == 0 {
		return ""
	}
	return v.path[len(v.path)-1].ID
}

// SeriesOptions returns the series facet options for the current state.
func (v *View) SeriesOptions() []Option {
	v.recompute()
	return v.memo.seriesOptions
}

// SizeOptions returns the size-category facet options.
func (v *View) SizeOptions() []Option {
	v.recompute()
	return v.memo.sizeOptions
}

// TagOptions returns the rendered tag facet options: those derivable from
// the pre-tag-filtered set plus any already-selected tags, narrowed by the
// facet search term.
func (v *View) TagOptions() []Option {
	v.recompute()
	return v.memo.tagOptions
}

// SelectedSeriesValue returns the canonical value of the selected series,
// or "" when none is selected. Recomputes first so pruning has settled.
func (v *View) SelectedSeriesValue() string {
	v.recompute()
	if v.series == nil {
		return ""
	}
	return SeriesValue(*v.series)
}

// SelectedSizeValues returns the canonical values of the selected size
// categories.
func (v *View) SelectedSizeValues() []string {
	v.recompute()
	out := make([]string, 0, len(v.sizes))
	for _, k := range v.sizes {
		out = append(out, SizeValue(k))
	}
	return out
}

// SelectedTagValues returns the canonical values of the selected tags.
func (v *View) SelectedTagValues() []string {
	v.recompute()
	out := make([]string, 0, len(v.tags))
	for _, k := range v.tags {
		out = append(out, TagValue(k))
	}
	return out
}

// Query returns the active free-text search term.
func (v *View) Query() string { return v.query }

// Dir returns the active directory scope.
func (v *View) Dir() string { return v.dir }

// recompute runs the whole derivation chain once if any input changed
// since the last read. Stage order is load-bearing: each dimension's
// options come from the set filtered by everything upstream of it.
func (v *View) recompute() {
	if v.memoGen == v.gen {
		return
	}

	var d derived

	// Stage 1: base set. An active search flattens the whole snapshot;
	// otherwise the listing is scoped to the current directory.
	if strings.TrimSpace(v.query) != "" {
		for _, a := range v.all {
			if a.MatchesSearch(v.query) {
				d.base = append(d.base, a)
			}
		}
	} else {
		for _, a := range v.all {
			if a.InDir(v.dir) {
				d.base = append(d.base, a)
			}
		}
	}

	// Stage 2: category descendant filter.
	if active := v.ActiveCategoryID(); active != "" {
		closure := v.graph.Descendants(active)
		if closure == nil {
			// Stale leaf the graph no longer knows: match its id directly.
			closure = map[string]bool{active: true}
		}
		var in []assets.Asset
		for _, a := range d.base {
			if a.InCategorySet(closure) {
				in = append(in, a)
			}
		}
		d.base = in
	}

	// Stage 3: series. Options derive from the category-filtered set;
	// a selection the options no longer offer is dropped before filtering.
	d.seriesOptions = SeriesOptions(d.base)
	if v.series != nil && !offered(d.seriesOptions, *v.series) {
		v.series = nil
	}
	if v.series == nil {
		d.afterSeries = d.base
	} else {
		for _, a := range d.base {
			if seriesMatches(a, *v.series) {
				d.afterSeries = append(d.afterSeries, a)
			}
		}
	}

	// Stage 4: size categories (multi-select, OR).
	d.sizeOptions = SizeOptions(d.afterSeries)
	v.sizes = pruneKeys(v.sizes, d.sizeOptions)
	if len(v.sizes) == 0 {
		d.afterSizes = d.afterSeries
	} else {
		for _, a := range d.afterSeries {
			if sizeMatches(a, v.sizes) {
				d.afterSizes = append(d.afterSizes, a)
			}
		}
	}

	// Stage 5: tags (multi-select, AND). Pruning runs against the options
	// derivable from the pre-tag-filtered set; the rendered list then adds
	// the surviving selections back so a selected tag is never hidden from
	// its own control, and finally applies the facet search term.
	derivable := TagOptions(d.afterSizes)
	v.tags = pruneKeys(v.tags, derivable)
	rendered := derivable
	for _, k := range v.tags {
		if !offered(rendered, k) {
			rendered = append(rendered, Option{Key: k, Value: TagValue(k), Label: tagLabel(k)})
		}
	}
	d.tagOptions = narrowOptions(rendered, v.optionQuery)
	if len(v.tags) == 0 {
		d.displayed = d.afterSizes
	} else {
		for _, a := range d.afterSizes {
			if tagsMatch(a, v.tags) {
				d.displayed = append(d.displayed, a)
			}
		}
	}

	v.memo = d
	v.memoGen = v.gen
}

func tagLabel(k OptionKey) string {
	if k.Name != "" {
		return k.Name
	}
	return k.ID
}

// seriesMatches implements the single-select series stage: id keys match
// SeriesID, name keys match SeriesName, the sentinel matches assets with
// neither.
func seriesMatches(a assets.Asset, k OptionKey) bool {
	switch k.Kind {
	case KindID:
		return a.SeriesID == k.ID
	case KindName:
		return a.SeriesID == "" && strings.EqualFold(a.SeriesName, k.Name)
	}
	return !a.HasSeries()
}

// sizeMatches implements the OR-semantics size stage: an empty size
// category matches only through the sentinel.
func sizeMatches(a assets.Asset, selected []OptionKey) bool {
	for _, k := range selected {
		if k.Kind == KindUnassigned {
			if a.SizeCategory == "" {
				return true
			}
			continue
		}
		if a.SizeCategory == k.Name {
			return true
		}
	}
	return false
}

// tagsMatch implements the AND-semantics tag stage: the asset must match
// every selected key.
func tagsMatch(a assets.Asset, selected []OptionKey) bool {
	for _, k := range selected {
		if !tagMatches(a, k) {
			return false
		}
	}
	return true
}

// tagMatches checks one key against one asset: by tag id, then by name
// against the asset's tag names, then the raw value against either list
// as a fallback for hand-typed selections.
func tagMatches(a assets.Asset, k OptionKey) bool {
	if k.ID != "" {
		for _, id := range a.TagIDs {
			if id == k.ID {
				return true
			}
		}
	}
	if k.Name != "" {
		for _, name := range a.Tags {
			if strings.EqualFold(name, k.Name) {
				return true
			}
		}
		for _, id := range a.TagIDs {
			if strings.EqualFold(id, k.Name) {
				return true
			}
		}
	}
	return false
}
