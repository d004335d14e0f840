package filter

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/harmonyedit/assetcat/pkg/assets"
)

// Labels for the unassigned sentinels.
const (
	UnassignedSeriesLabel = "Unassigned series"
	UnassignedSizeLabel   = "Unassigned"
)

// language.Und keeps ordering deterministic across machines instead of
// following the process locale.
var labelCollator = collate.New(language.Und)

func sortByLabel(opts []Option) {
	sort.SliceStable(opts, func(i, j int) bool {
		return labelCollator.CompareString(opts[i].Label, opts[j].Label) < 0
	})
}

// SeriesOptions derives the selectable series values from an asset set:
// one option per distinct series id (label from the first-seen series
// name, falling back to the id), name-keyed options for assets that carry
// only a name, and a single unassigned sentinel when any asset has
// neither. Sorted by label.
func SeriesOptions(list []assets.Asset) []Option {
	var opts []Option
	seenID := make(map[string]bool)
	seenName := make(map[string]bool)
	unassigned := false

	for _, a := range list {
		switch {
		case a.SeriesID != "":
			if seenID[a.SeriesID] {
				continue
			}
			seenID[a.SeriesID] = true
			label := a.SeriesName
			if label == "" {
				label = a.SeriesID
			}
			key := OptionKey{Kind: KindID, ID: a.SeriesID, Name: a.SeriesName}
			opts = append(opts, Option{Key: key, Value: SeriesValue(key), Label: label})
		case a.SeriesName != "":
			lower := strings.ToLower(a.SeriesName)
			if seenName[lower] {
				continue
			}
			seenName[lower] = true
			key := OptionKey{Kind: KindName, Name: a.SeriesName}
			opts = append(opts, Option{Key: key, Value: SeriesValue(key), Label: a.SeriesName})
		default:
			unassigned = true
		}
	}

	if unassigned {
		opts = append(opts, Option{
			Key:        Unassigned,
			Value:      SeriesUnassignedValue,
			Label:      UnassignedSeriesLabel,
			Unassigned: true,
		})
	}
	sortByLabel(opts)
	return opts
}

// SizeOptions derives the selectable size-category values: one option per
// distinct non-empty size category, sorted by label, with the unassigned
// sentinel prepended (not sorted into position) when any asset lacks one.
func SizeOptions(list []assets.Asset) []Option {
	var opts []Option
	seen := make(map[string]bool)
	unassigned := false

	for _, a := range list {
		if a.SizeCategory == "" {
			unassigned = true
			continue
		}
		if seen[a.SizeCategory] {
			continue
		}
		seen[a.SizeCategory] = true
		key := OptionKey{Kind: KindName, Name: a.SizeCategory}
		opts = append(opts, Option{Key: key, Value: SizeValue(key), Label: a.SizeCategory})
	}
	sortByLabel(opts)

	if unassigned {
		sentinel := Option{
			Key:        Unassigned,
			Value:      SizeUnassignedValue,
			Label:      UnassignedSizeLabel,
			Unassigned: true,
		}
		opts = append([]Option{sentinel}, opts...)
	}
	return opts
}

// TagOptions derives the selectable tag values. Assets with parallel
// TagIDs/Tags of equal length pair them positionally into id+name
// options; mismatched records fall back to name-only or id-only entries.
// Deduplicated by tag id when present, else case-insensitively by name.
// Sorted by label.
func TagOptions(list []assets.Asset) []Option {
	var opts []Option
	seenID := make(map[string]bool)
	seenName := make(map[string]bool)

	add := func(id, name string) {
		if id == "" && name == "" {
			return
		}
		if id != "" {
			if seenID[id] {
				return
			}
			seenID[id] = true
		} else {
			lower := strings.ToLower(name)
			if seenName[lower] {
				return
			}
			seenName[lower] = true
		}
		key := OptionKey{Kind: KindName, Name: name}
		label := name
		if id != "" {
			key = OptionKey{Kind: KindID, ID: id, Name: name}
			if label == "" {
				label = id
			}
		}
		opts = append(opts, Option{Key: key, Value: TagValue(key), Label: label})
	}

	for _, a := range list {
		if len(a.TagIDs) > 0 && len(a.TagIDs) == len(a.Tags) {
			for i := range a.TagIDs {
				add(a.TagIDs[i], a.Tags[i])
			}
			continue
		}
		for _, name := range a.Tags {
			add("", name)
		}
		if len(a.Tags) == 0 {
			for _, id := range a.TagIDs {
				add(id, "")
			}
		}
	}
	sortByLabel(opts)
	return opts
}

// narrowOptions applies the facet search box: a case-insensitive substring
// match across label, canonical value and underlying name.
func narrowOptions(opts []Option, query string) []Option {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return opts
	}
	var out []Option
	for _, o := range opts {
		if strings.Contains(strings.ToLower(o.Label), q) ||
			strings.Contains(strings.ToLower(o.Value), q) ||
			strings.Contains(strings.ToLower(o.Key.Name), q) {
			out = append(out, o)
		}
	}
	return out
}
