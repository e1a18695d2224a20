package synonym

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpand_ShortQueryPassesThrough(t *testing.T) {
	e := NewExpander(nil)

	assert.Equal(t, "t", e.Expand("t"))
	assert.Equal(t, "", e.Expand("   "))
}

func TestExpand_ExactKeyUnion(t *testing.T) {
	e := NewExpander(Table{
		"tel": {"telephone", "phone", "smartphone"},
	})

	expanded := e.Expand("tel")
	tokens := strings.Fields(expanded)

	assert.Equal(t, []string{"tel", "telephone", "phone", "smartphone"}, tokens)
}

func TestExpand_SupersetOfOriginalTokens(t *testing.T) {
	e := NewExpander(nil)

	queries := []string{
		"tel pas cher",
		"ordinateur portable",
		"chaussure homme",
		"quelque chose d'inconnu",
	}

	for _, q := range queries {
		t.Run(q, func(t *testing.T) {
			expanded := strings.Fields(e.Expand(q))
			set := make(map[string]struct{}, len(expanded))
			for _, tok := range expanded {
				set[tok] = struct{}{}
			}
			for _, orig := range strings.Fields(strings.ToLower(q)) {
				_, ok := set[orig]
				assert.True(t, ok, "original token %q missing from expansion", orig)
			}
		})
	}
}

func TestExpand_SubstringRuleForLongKeys(t *testing.T) {
	e := NewExpander(Table{
		"telephone": {"phone", "smartphone"},
		"tel":       {"mobile"},
	})

	// "telephones" contains the key "telephone" (longer than 3 runes), so
	// its expansions are unioned in. The 3-rune key "tel" must not fire on
	// containment, only on exact match.
	expanded := strings.Fields(e.Expand("telephones"))

	assert.Contains(t, expanded, "telephones")
	assert.Contains(t, expanded, "phone")
	assert.Contains(t, expanded, "smartphone")
	assert.NotContains(t, expanded, "mobile")
}

func TestExpand_Deduplicates(t *testing.T) {
	e := NewExpander(Table{
		"tel":       {"phone"},
		"telephone": {"phone"},
	})

	expanded := strings.Fields(e.Expand("tel telephone"))

	count := 0
	for _, tok := range expanded {
		if tok == "phone" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestExpand_DefaultTablePhoneQuery(t *testing.T) {
	e := NewExpander(nil)

	expanded := strings.Fields(e.Expand("tel"))

	assert.Contains(t, expanded, "phone")
	assert.Contains(t, expanded, "smartphone")
}

func TestKeywordHints(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"phone shaped", "tel pas cher", "iphone"},
		{"clothing shaped", "vetement femme", "chemise"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hints := KeywordHints(tt.query)
			assert.NotEmpty(t, hints)
			assert.Contains(t, hints, tt.want)
		})
	}

	t.Run("no hints for unrelated queries", func(t *testing.T) {
		assert.Empty(t, KeywordHints("marmite en fonte"))
		assert.Empty(t, KeywordHints(""))
	})
}
