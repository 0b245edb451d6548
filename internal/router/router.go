// Package router resolves raw request paths into typed route values.
//
// Rules are evaluated in registration order. A rule whose pattern
// matches but whose converter rejects the captured parameters does
// not stop the search: later rules still get a chance. This lets a
// narrow numeric-id pattern defer to a broader pattern when the
// captured text is not a valid id.
package router

import "regexp"

// Converter turns the captured groups of a matched pattern into a
// route, or reports that the match should be skipped.
type Converter func(params []string) (Route, bool)

type rule struct {
	re      *regexp.Regexp
	convert Converter
}

// Parser holds the ordered rule list. Build it once at startup; it is
// read-only afterwards and safe for concurrent use.
type Parser struct {
	rules []rule
}

func NewParser() *Parser {
	return &Parser{}
}

// Add registers a parameter-less route. The pattern must compile; a
// malformed pattern is a configuration error and panics at startup.
func (p *Parser) Add(pattern string, build func() Route) {
	p.AddWithParams(pattern, func([]string) (Route, bool) {
		return build(), true
	})
}

// AddWithParams registers a route whose converter validates and types
// the captured groups.
func (p *Parser) AddWithParams(pattern string, convert Converter) {
	p.rules = append(p.rules, rule{
		re:      regexp.MustCompile(pattern),
		convert: convert,
	})
}

// Resolve returns the route for path, or false when no rule yields
// one. Not finding a route is a caller-visible "not found", not an
// error.
func (p *Parser) Resolve(path string) (Route, bool) {
	for _, r := range p.rules {
		m := r.re.FindStringSubmatch(path)
		if m == nil {
			continue
		}
		if route, ok := r.convert(m[1:]); ok {
			return route, true
		}
	}
	return nil, false
}
