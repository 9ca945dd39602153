package model

// FilterSection is one configured reviewer rule: a filter expression and the
// reviewer specifiers to add when it matches. An empty or "*" filter matches
// every change. Sections are immutable once loaded and kept in configuration
// order; evaluation order never affects the resolved reviewer set, since
// reviewers from all matched sections are unioned.
type FilterSection struct {
	Filter    string
	Reviewers []string
}

// MatchesAll reports whether the section matches unconditionally, without
// any predicate evaluation.
func (s FilterSection) MatchesAll() bool {
	return s.Filter == "" || s.Filter == "*"
}
