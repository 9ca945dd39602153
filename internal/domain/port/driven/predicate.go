package driven

import "github.com/ericfisherdev/autoreviewer/internal/domain/model"

// Predicate is a compiled filter expression.
type Predicate interface {
	// Match evaluates the predicate against a loaded change.
	Match(change *model.Change) (bool, error)
}

// PredicateEngine parses filter expressions into predicates. asUser is the
// identity user-relative terms (such as "owner:self") bind to.
type PredicateEngine interface {
	Parse(filter string, asUser string) (Predicate, error)
}
