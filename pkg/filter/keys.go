// Package filter implements the multi-dimensional asset filtering engine:
// category scoping, series / size-category / tag filters, contextual
// facet-option derivation and self-pruning filter state, exposed through a
// pull-based View.
package filter

import "strings"

// Kind discriminates how an OptionKey identifies its value.
type Kind int

const (
	// KindUnassigned is the sentinel for assets carrying no value in a
	// dimension (no series, no size category).
	KindUnassigned Kind = iota
	// KindID keys a value by its stable id.
	KindID
	// KindName keys a value by its display name, for records that carry
	// a name but no id.
	KindName
)

// Canonical sentinel strings used at CLI/HTTP boundaries.
const (
	SeriesUnassignedValue = "series:unassigned"
	SizeUnassignedValue   = "size:unassigned"

	seriesIDPrefix   = "series:id:"
	seriesNamePrefix = "series:name:"
	tagIDPrefix      = "tag:id:"
	tagNamePrefix    = "tag:name:"
)

// OptionKey identifies one selectable filter value. Using a tagged struct
// instead of prefix-encoded strings keeps id-keyed and name-keyed values
// from ever colliding; the canonical string form exists only for the CLI
// and HTTP boundaries.
type OptionKey struct {
	Kind Kind
	ID   string
	Name string
}

// Unassigned is the sentinel key shared by all dimensions.
var Unassigned = OptionKey{Kind: KindUnassigned}

// Is reports whether two keys identify the same selection: same kind,
// same id for id-keyed values, case-insensitively same name for
// name-keyed ones. Display names attached to id-keyed keys are ignored.
func (k OptionKey) Is(o OptionKey) bool {
	if k.Kind != o.Kind {
		return false
	}
	switch k.Kind {
	case KindID:
		return k.ID == o.ID
	case KindName:
		return strings.EqualFold(k.Name, o.Name)
	}
	return true
}

// SeriesValue renders the canonical string form of a series key.
func SeriesValue(k OptionKey) string {
	switch k.Kind {
	case KindID:
		return seriesIDPrefix + k.ID
	case KindName:
		return seriesNamePrefix + k.Name
	}
	return SeriesUnassignedValue
}

// ParseSeriesValue parses a canonical series value. Bare strings (no
// recognized prefix) are returned name-keyed; SelectSeries resolves them
// against the offered options before use so ids still work.
func ParseSeriesValue(s string) OptionKey {
	switch {
	case s == SeriesUnassignedValue:
		return Unassigned
	case strings.HasPrefix(s, seriesIDPrefix):
		return OptionKey{Kind: KindID, ID: strings.TrimPrefix(s, seriesIDPrefix)}
	case strings.HasPrefix(s, seriesNamePrefix):
		return OptionKey{Kind: KindName, Name: strings.TrimPrefix(s, seriesNamePrefix)}
	}
	return OptionKey{Kind: KindName, Name: s}
}

// SizeValue renders the canonical string form of a size-category key.
// Size categories are plain labels, so only the sentinel needs encoding.
func SizeValue(k OptionKey) string {
	if k.Kind == KindUnassigned {
		return SizeUnassignedValue
	}
	return k.Name
}

// ParseSizeValue parses a canonical size-category value.
func ParseSizeValue(s string) OptionKey {
	if s == SizeUnassignedValue {
		return Unassigned
	}
	return OptionKey{Kind: KindName, Name: s}
}

// TagValue renders the canonical string form of a tag key.
func TagValue(k OptionKey) string {
	if k.Kind == KindID {
		return tagIDPrefix + k.ID
	}
	return tagNamePrefix + k.Name
}

// ParseTagValue parses a canonical tag value. Bare strings become
// name-keyed; tag matching falls back to comparing names against tag ids,
// so a bare id still selects its tag.
func ParseTagValue(s string) OptionKey {
	switch {
	case strings.HasPrefix(s, tagIDPrefix):
		return OptionKey{Kind: KindID, ID: strings.TrimPrefix(s, tagIDPrefix)}
	case strings.HasPrefix(s, tagNamePrefix):
		return OptionKey{Kind: KindName, Name: strings.TrimPrefix(s, tagNamePrefix)}
	}
	return OptionKey{Kind: KindName, Name: s}
}

// Option is one selectable facet value offered to the user.
type Option struct {
	Key        OptionKey `json:"-"`
	Value      string    `json:"value"`
	Label      string    `json:"label"`
	Unassigned bool      `json:"unassigned,omitempty"`
}

func offered(opts []Option, k OptionKey) bool {
	for _, o := range opts {
		if o.Key.Is(k) {
			return true
		}
	}
	return false
}

// pruneKeys drops selected keys that the current option set no longer
// offers. This is the self-pruning consistency rule, not a user action.
func pruneKeys(selected []OptionKey, opts []Option) []OptionKey {
	kept := selected[:0]
	for _, k := range selected {
		if offered(opts, k) {
			kept = append(kept, k)
		}
	}
	return kept
}
