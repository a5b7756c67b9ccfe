// Package tint decorates freshly parsed representations with affordances
// derived from their shape: links found in the body, defaults for the API
// root, child links for lists and typed actions for single drops.
package tint

import (
	"regexp"

	"github.com/ka2n/cloudapp/api/collectionjson"
	"github.com/ka2n/cloudapp/log"
	"github.com/samber/lo"
)

// Matcher is a pure predicate over a parsed representation.
type Matcher func(rep *collectionjson.Representation) bool

// Tint is a predicate-guarded decorator.
type Tint struct {
	Name     string
	Match    Matcher
	Decorate func(rep *collectionjson.Representation) collectionjson.Decoration
}

// Pipeline is an ordered list of tints.
type Pipeline []Tint

// Apply builds the representation of doc and runs every matching tint in
// order. Each tint sees the decorations of the tints before it.
func (p Pipeline) Apply(doc collectionjson.Document) *collectionjson.Representation {
	var decorations []collectionjson.Decoration
	rep := collectionjson.New(doc)
	for _, t := range p {
		if t.Match != nil && !t.Match(rep) {
			continue
		}
		log.Debug("Applying tint", "tint", t.Name, "path", rep.Path())
		decorations = append(decorations, t.Decorate(rep))
		rep = collectionjson.New(doc, decorations...)
	}
	return rep
}

// Names returns the tint names in evaluation order.
func (p Pipeline) Names() []string {
	return lo.Map(p, func(t Tint, _ int) string { return t.Name })
}

// All matches when every matcher matches.
func All(matchers ...Matcher) Matcher {
	return func(rep *collectionjson.Representation) bool {
		return lo.EveryBy(matchers, func(m Matcher) bool { return m(rep) })
	}
}

// MatchPath matches an exact request path.
func MatchPath(path string) Matcher {
	return func(rep *collectionjson.Representation) bool {
		return rep.Path() == path
	}
}

// MatchPattern matches the request path against re.
func MatchPattern(re *regexp.Regexp) Matcher {
	return func(rep *collectionjson.Representation) bool {
		return re.MatchString(rep.Path())
	}
}

// MatchContentType matches the response media type.
func MatchContentType(mediaType string) Matcher {
	return func(rep *collectionjson.Representation) bool {
		return rep.ContentType() == mediaType
	}
}

// HasKey matches bodies with a top-level key.
func HasKey(key string) Matcher {
	return func(rep *collectionjson.Representation) bool {
		_, ok := rep.Body()[key]
		return ok
	}
}
