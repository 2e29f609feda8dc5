// Package classifier maps raw, source-specific tags onto the canonical
// category vocabulary and its economic sector.
//
// Each source path has its own lookup chain and its own default, so the
// classifier is total: every input yields a category and a sector.
//
//	Map API:  shop table, amenity table, vocabulary, then (Épicerie, Informel)
//	Feed:     brand table, vocabulary, then (Supermarché, Formel)
//	Legacy:   vocabulary, otherwise the raw string with Non classifié
package classifier

import (
	"cmp"
	"slices"
	"strings"

	"github.com/agentstation/souqmap/pkg/errors"
	"github.com/agentstation/souqmap/pkg/records"
	"github.com/agentstation/souqmap/pkg/rules"
)

// Classifier resolves raw tags using an immutable rule set.
type Classifier struct {
	rules    *rules.Rules
	shop     map[string]rules.CategoryRule
	amenity  map[string]rules.CategoryRule
	brands   map[string]rules.CategoryRule
	prefixes []brandPrefix
	vocab    map[string]rules.VocabularyEntry
}

type brandPrefix struct {
	folded string
	rule   rules.CategoryRule
}

// New builds a classifier over the given rules.
func New(r *rules.Rules) (*Classifier, error) {
	if r == nil {
		return nil, &errors.ValidationError{Field: "rules", Message: "rules cannot be nil"}
	}
	c := &Classifier{
		rules:   r,
		shop:    foldKeys(r.Shop),
		amenity: foldKeys(r.Amenity),
		brands:  make(map[string]rules.CategoryRule, len(r.Brands)),
		vocab:   make(map[string]rules.VocabularyEntry, len(r.Vocabulary)),
	}
	for _, b := range r.Brands {
		key := Fold(b.Brand)
		if _, dup := c.brands[key]; !dup {
			c.brands[key] = b.Rule()
			c.prefixes = append(c.prefixes, brandPrefix{folded: key, rule: b.Rule()})
		}
	}
	// Longest brand first so "Pizza Hut Anfa" never matches a shorter brand.
	slices.SortStableFunc(c.prefixes, func(a, b brandPrefix) int {
		return cmp.Compare(len(b.folded), len(a.folded))
	})
	for _, v := range r.Vocabulary {
		c.vocab[Fold(v.Category)] = v
	}
	return c, nil
}

func foldKeys(m map[string]rules.CategoryRule) map[string]rules.CategoryRule {
	out := make(map[string]rules.CategoryRule, len(m))
	for k, v := range m {
		out[Fold(k)] = v
	}
	return out
}

// Classify returns the canonical category and sector for a raw tag seen on
// the given source path. Unknown paths are treated like legacy files.
func (c *Classifier) Classify(rawTag string, path records.SourceTag) (string, records.Sector) {
	switch path {
	case records.SourceMapAPI:
		return c.mapAPI(rawTag)
	case records.SourceSimulatedFeed:
		return c.feed(rawTag)
	default:
		return c.legacy(rawTag)
	}
}

func (c *Classifier) mapAPI(tag string) (string, records.Sector) {
	key, value, hasKey := strings.Cut(tag, "=")
	if hasKey {
		key, value = Fold(key), Fold(value)
	} else {
		value = Fold(tag)
	}

	var rule rules.CategoryRule
	var ok bool
	switch {
	case hasKey && key == "shop":
		rule, ok = c.shop[value]
	case hasKey && key == "amenity":
		rule, ok = c.amenity[value]
	default:
		if rule, ok = c.shop[value]; !ok {
			rule, ok = c.amenity[value]
		}
	}
	if ok {
		return rule.Category, rule.Sector
	}
	// Exports that were already processed carry canonical names.
	if v, ok := c.vocab[Fold(tag)]; ok {
		return v.Category, v.Sector
	}
	d := c.rules.Defaults.MapAPI
	return d.Category, d.Sector
}

func (c *Classifier) feed(label string) (string, records.Sector) {
	folded := Fold(label)
	if rule, ok := c.brands[folded]; ok {
		return rule.Category, rule.Sector
	}
	for _, p := range c.prefixes {
		if strings.HasPrefix(folded, p.folded+" ") {
			return p.rule.Category, p.rule.Sector
		}
	}
	if v, ok := c.vocab[folded]; ok {
		return v.Category, v.Sector
	}
	d := c.rules.Defaults.Feed
	return d.Category, d.Sector
}

func (c *Classifier) legacy(category string) (string, records.Sector) {
	if v, ok := c.vocab[Fold(category)]; ok {
		return v.Category, v.Sector
	}
	if strings.TrimSpace(category) == "" {
		return c.rules.Defaults.Missing, records.SectorUnclassified
	}
	return category, records.SectorUnclassified
}

// Sector returns the vocabulary sector of a category, or Non classifié when
// the category is not in the vocabulary.
func (c *Classifier) Sector(category string) records.Sector {
	if v, ok := c.vocab[Fold(category)]; ok {
		return v.Sector
	}
	return records.SectorUnclassified
}

// Known reports whether the category belongs to the vocabulary.
func (c *Classifier) Known(category string) bool {
	_, ok := c.vocab[Fold(category)]
	return ok
}

// Rules returns the rule set the classifier was built with.
func (c *Classifier) Rules() *rules.Rules {
	return c.rules
}
