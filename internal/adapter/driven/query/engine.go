// Package query implements the predicate-engine port with a small change
// query language: whitespace-separated operator:value terms joined by AND,
// with "-" negation. Bare words match the subject.
package query

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ericfisherdev/autoreviewer/internal/domain/model"
	"github.com/ericfisherdev/autoreviewer/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.PredicateEngine = (*Engine)(nil)

// Engine parses filter expressions into predicates. Parsing is cheap enough
// that predicates are not cached; each match call reparses its section.
type Engine struct{}

// NewEngine creates a query Engine.
func NewEngine() *Engine {
	return &Engine{}
}

type term struct {
	negated bool
	eval    func(change *model.Change) bool
}

type predicate struct {
	terms []term
}

// Match reports whether every term of the expression holds for the change.
func (p *predicate) Match(change *model.Change) (bool, error) {
	for _, t := range p.terms {
		if t.eval(change) == t.negated {
			return false, nil
		}
	}
	return true, nil
}

// Parse compiles a filter expression. asUser is the username "self" binds
// to; an expression using "self" without a user fails to parse. All errors
// are detected here so evaluation cannot fail on a loaded change.
func (e *Engine) Parse(filter string, asUser string) (driven.Predicate, error) {
	fields := strings.Fields(filter)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty filter expression")
	}

	p := &predicate{}
	for _, field := range fields {
		negated := false
		if strings.HasPrefix(field, "-") {
			negated = true
			field = field[1:]
			if field == "" {
				return nil, fmt.Errorf("dangling negation in filter")
			}
		}

		eval, err := parseTerm(field, asUser)
		if err != nil {
			return nil, err
		}
		p.terms = append(p.terms, term{negated: negated, eval: eval})
	}

	return p, nil
}

func parseTerm(field, asUser string) (func(*model.Change) bool, error) {
	op, value, ok := strings.Cut(field, ":")
	if !ok {
		// Bare word: case-insensitive subject substring, as in the hosted
		// query language's default field.
		word := strings.ToLower(field)
		return func(c *model.Change) bool {
			return strings.Contains(strings.ToLower(c.Subject), word)
		}, nil
	}
	if value == "" {
		return nil, fmt.Errorf("operator %q has empty value", op)
	}

	switch op {
	case "project":
		return func(c *model.Change) bool { return c.Project == value }, nil

	case "branch":
		return func(c *model.Change) bool { return c.Branch == value }, nil

	case "topic":
		return func(c *model.Change) bool { return c.Topic == value }, nil

	case "owner":
		username := value
		if value == "self" {
			if asUser == "" {
				return nil, fmt.Errorf("owner:self used with no user to bind to")
			}
			username = asUser
		}
		return func(c *model.Change) bool { return c.Owner.Username == username }, nil

	case "subject":
		sub := strings.ToLower(value)
		return func(c *model.Change) bool {
			return strings.Contains(strings.ToLower(c.Subject), sub)
		}, nil

	case "file":
		re, err := regexp.Compile(value)
		if err != nil {
			return nil, fmt.Errorf("bad file pattern %q: %w", value, err)
		}
		return func(c *model.Change) bool {
			for _, f := range c.Files {
				if re.MatchString(f) {
					return true
				}
			}
			return false
		}, nil

	case "is":
		switch value {
		case "wip":
			return func(c *model.Change) bool { return c.WIP }, nil
		case "private":
			return func(c *model.Change) bool { return c.Private }, nil
		}
		return nil, fmt.Errorf("unknown is:%s", value)

	default:
		return nil, fmt.Errorf("unknown operator %q", op)
	}
}
