// Package synonym expands query text with marketplace-domain synonyms.
// Shoppers mostly type French terms while the catalog is indexed with a mix
// of French, English, and brand vocabulary, so expansion unions the original
// tokens with their known equivalents before the query hits the index.
package synonym

import (
	"strings"
	"unicode/utf8"
)

// MinQueryLen is the minimum query length (in runes) that gets expanded.
// Shorter queries pass through untouched.
const MinQueryLen = 2

// substringKeyMinLen is the minimum key length for the partial-match rule:
// keys longer than this also expand tokens that merely contain them, which
// handles compounds like "telephones" or "smartphone".
const substringKeyMinLen = 3

// Table maps a lowercase source term to its expansion terms. It is loaded
// once at startup and never mutated afterwards.
type Table map[string][]string

// DefaultTable returns the built-in marketplace synonym table.
func DefaultTable() Table {
	return Table{
		"tel":         {"telephone", "phone", "smartphone", "mobile"},
		"telephone":   {"phone", "smartphone", "mobile", "iphone", "samsung", "tecno", "infinix"},
		"portable":    {"telephone", "phone", "smartphone", "laptop"},
		"ordinateur":  {"computer", "laptop", "pc", "notebook", "macbook"},
		"ordi":        {"ordinateur", "computer", "laptop", "pc"},
		"tele":        {"television", "tv", "ecran"},
		"television":  {"tv", "smart tv", "ecran"},
		"frigo":       {"refrigerateur", "fridge", "refrigerator", "congelateur"},
		"habit":       {"vetement", "clothing", "chemise", "pantalon"},
		"vetement":    {"clothing", "chemise", "robe", "pantalon", "tshirt"},
		"chaussure":   {"shoes", "sneakers", "baskets", "sandales"},
		"montre":      {"watch", "smartwatch", "bracelet"},
		"casque":      {"headphone", "ecouteur", "earbuds", "airpods"},
		"ecouteur":    {"earbuds", "headphone", "casque"},
		"sac":         {"bag", "sacoche", "valise"},
		"moto":        {"motorcycle", "scooter", "mobylette"},
		"climatiseur": {"clim", "air conditioner", "ventilateur"},
	}
}

// Expander expands query text against an immutable synonym table.
type Expander struct {
	table Table
}

// NewExpander creates an expander over the given table. A nil table falls
// back to the default one.
func NewExpander(table Table) *Expander {
	if table == nil {
		table = DefaultTable()
	}
	return &Expander{table: table}
}

// Expand returns the query text with synonym expansions unioned in.
// Expansions are appended, never substituted, so the expanded token set is
// always a superset of the original. Queries shorter than MinQueryLen runes
// are returned unchanged.
func (e *Expander) Expand(text string) string {
	trimmed := strings.TrimSpace(text)
	if utf8.RuneCountInString(trimmed) < MinQueryLen {
		return trimmed
	}

	tokens := strings.Fields(strings.ToLower(trimmed))

	seen := make(map[string]struct{}, len(tokens))
	expanded := make([]string, 0, len(tokens))
	add := func(term string) {
		if _, ok := seen[term]; ok {
			return
		}
		seen[term] = struct{}{}
		expanded = append(expanded, term)
	}

	for _, token := range tokens {
		add(token)
	}

	for _, token := range tokens {
		if terms, ok := e.table[token]; ok {
			for _, t := range terms {
				add(t)
			}
		}
		for key, terms := range e.table {
			if utf8.RuneCountInString(key) <= substringKeyMinLen {
				continue
			}
			if key == token || !strings.Contains(token, key) {
				continue
			}
			for _, t := range terms {
				add(t)
			}
		}
	}

	return strings.Join(expanded, " ")
}

// KeywordHints returns curated suggestion terms for query shapes that map to
// high-traffic categories. The hints are appended after backend-derived
// suggestions in the autocomplete path.
func KeywordHints(queryText string) []string {
	q := strings.ToLower(strings.TrimSpace(queryText))
	switch {
	case q == "":
		return nil
	case strings.Contains(q, "tel") || strings.Contains(q, "phone") || strings.Contains(q, "portable"):
		return []string{"telephone portable", "smartphone android", "iphone", "samsung galaxy", "tecno spark"}
	case strings.Contains(q, "habit") || strings.Contains(q, "vetement") || strings.Contains(q, "chemise") || strings.Contains(q, "robe"):
		return []string{"vetement homme", "vetement femme", "chemise", "robe de soiree", "pagne"}
	}
	return nil
}
