package filter

// Session is the portable form of a View's filter state, used to persist
// the working filters between CLI invocations and to mirror them over
// HTTP. All values are canonical strings.
type Session struct {
	CategoryID string   `json:"category_id,omitempty"`
	Series     string   `json:"series,omitempty"`
	Sizes      []string `json:"sizes,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	Dir        string   `json:"dir,omitempty"`
	Query      string   `json:"query,omitempty"`
}

// IsZero reports whether the session carries no filter state at all.
func (s Session) IsZero() bool {
	return s.CategoryID == "" && s.Series == "" && len(s.Sizes) == 0 &&
		len(s.Tags) == 0 && s.Dir == "" && s.Query == ""
}

// Session snapshots the current filter state. Pruning settles first, so a
// persisted session never carries values the catalog no longer offers.
func (v *View) Session() Session {
	v.recompute()
	return Session{
		CategoryID: v.ActiveCategoryID(),
		Series:     v.SelectedSeriesValue(),
		Sizes:      v.SelectedSizeValues(),
		Tags:       v.SelectedTagValues(),
		Dir:        v.dir,
		Query:      v.query,
	}
}

// ApplySession restores a previously saved session onto the View. Values
// the current snapshot cannot satisfy are pruned on the next read rather
// than rejected.
func (v *View) ApplySession(s Session) {
	v.path = nil
	if s.CategoryID != "" {
		v.SelectCategory(s.CategoryID)
	}
	v.dir = s.Dir
	v.query = s.Query
	v.series = nil
	if s.Series != "" {
		k := ParseSeriesValue(s.Series)
		v.series = &k
	}
	v.sizes = nil
	for _, val := range s.Sizes {
		v.sizes = append(v.sizes, ParseSizeValue(val))
	}
	v.tags = nil
	for _, val := range s.Tags {
		v.tags = append(v.tags, ParseTagValue(val))
	}
	v.touch()
}
