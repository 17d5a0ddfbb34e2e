package usecase

import (
	"regexp"
	"strings"

	"github.com/scansafe/backend/internal/domain"
)

// Package-level compiled regex pattern for performance
var multipleSpacesRegex = regexp.MustCompile(`\s+`)

// indexEntry is one matchable restriction: an enabled rule's stems or a
// single custom term
type indexEntry struct {
	restriction string
	category    domain.RuleCategory
	custom      bool
	stems       []string
}

// KeywordHit is one stem found in a piece of product text
type KeywordHit struct {
	Term        string
	Restriction string
	Category    domain.RuleCategory
	Custom      bool
}

// RestrictionIndex is the compiled, matchable form of one profile's
// restriction set. Built fresh per analysis from a profile snapshot; holds no
// shared mutable state.
type RestrictionIndex struct {
	entries []indexEntry
}

// BuildRestrictionIndex compiles a profile's enabled rules and custom terms.
// Stems are case-folded and whitespace-normalized. An enabled rule with no
// keywords is a no-op, not an error; rules referencing a builtin id with no
// keywords of their own inherit the builtin stems. An index built from a
// profile with no effective restrictions matches nothing.
func BuildRestrictionIndex(profile *domain.Profile) *RestrictionIndex {
	idx := &RestrictionIndex{}
	if profile == nil {
		return idx
	}

	for _, rule := range profile.Rules {
		if !rule.Enabled {
			continue
		}
		keywords := rule.Keywords
		name := rule.Name
		category := rule.Category
		if len(keywords) == 0 || category == "" {
			if builtin, ok := domain.BuiltinRule(rule.ID); ok {
				if len(keywords) == 0 {
					keywords = builtin.Keywords
				}
				if category == "" {
					category = builtin.Category
				}
				if name == "" {
					name = builtin.Name
				}
			}
		}

		stems := normalizeTerms(keywords)
		if len(stems) == 0 {
			continue
		}
		idx.entries = append(idx.entries, indexEntry{
			restriction: name,
			category:    category,
			stems:       stems,
		})
	}

	for _, term := range normalizeTerms(profile.CustomTerms) {
		idx.entries = append(idx.entries, indexEntry{
			restriction: term,
			custom:      true,
			stems:       []string{term},
		})
	}

	return idx
}

// Empty reports whether the index holds no restrictions at all
func (idx *RestrictionIndex) Empty() bool {
	return len(idx.entries) == 0
}

// Match scans text for every entry's stems and reports all hits; no early
// exit, ties unbroken. Ingredient lists are a few hundred characters, so a
// linear substring scan per stem is fine.
func (idx *RestrictionIndex) Match(text string) []KeywordHit {
	if text == "" || len(idx.entries) == 0 {
		return nil
	}
	folded := normalizeText(text)

	var hits []KeywordHit
	for _, entry := range idx.entries {
		for _, stem := range entry.stems {
			if strings.Contains(folded, stem) {
				hits = append(hits, KeywordHit{
					Term:        stem,
					Restriction: entry.restriction,
					Category:    entry.category,
					Custom:      entry.custom,
				})
			}
		}
	}
	return hits
}

// normalizeText case-folds and collapses whitespace so matching is
// insensitive to label formatting
func normalizeText(s string) string {
	s = strings.ToLower(s)
	s = multipleSpacesRegex.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// normalizeTerms normalizes a term list, dropping empties
func normalizeTerms(terms []string) []string {
	var out []string
	for _, t := range terms {
		n := normalizeText(t)
		if n != "" {
			out = append(out, n)
		}
	}
	return out
}
