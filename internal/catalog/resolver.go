package catalog

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/nikolayk812/voiceshop/internal/domain"
)

// reference is a lowercased, trimmed utterance plus its name-matching tokens.
type reference struct {
	text   string
	fields []string
	tokens []string
}

func newReference(raw string) reference {
	text := strings.ToLower(strings.TrimSpace(raw))
	fields := strings.Fields(text)

	// short words are mostly articles and prepositions
	var tokens []string
	for _, f := range fields {
		if utf8.RuneCountInString(f) > 2 {
			tokens = append(tokens, f)
		}
	}

	return reference{text: text, fields: fields, tokens: tokens}
}

// rule returns the index of the matched candidate, or -1.
type rule func(ref reference, candidates []domain.Product) int

// rules run in order; the first match wins and later rules are only fallbacks.
var rules = []rule{
	byOrdinal,
	byID,
	byColorAndCategory,
	byCategory,
	byNumericIndex,
	byAllTokensInName,
	byAnyTokenInName,
}

var ordinals = []struct {
	word  string
	index int
}{
	{"first", 0},
	{"second", 1},
	{"third", 2},
	{"fourth", 3},
}

// Resolve maps a spoken reference such as "the second shawl", "glove-001" or
// "gloves" to at most one candidate.
func Resolve(raw string, candidates []domain.Product) (domain.Product, bool) {
	ref := newReference(raw)
	if ref.text == "" {
		return domain.Product{}, false
	}

	for _, r := range rules {
		if i := r(ref, candidates); i >= 0 {
			return candidates[i], true
		}
	}

	return domain.Product{}, false
}

// Resolve resolves against the whole catalog.
func (s *Store) Resolve(raw string) (domain.Product, bool) {
	return Resolve(raw, s.Products())
}

func byOrdinal(ref reference, candidates []domain.Product) int {
	for _, o := range ordinals {
		if strings.Contains(ref.text, o.word) && o.index < len(candidates) {
			return o.index
		}
	}
	return -1
}

func byID(ref reference, candidates []domain.Product) int {
	for i, p := range candidates {
		if strings.ToLower(p.ID) == ref.text {
			return i
		}
	}
	return -1
}

func byColorAndCategory(ref reference, candidates []domain.Product) int {
	for i, p := range candidates {
		if p.Color == "" || p.Category == "" {
			continue
		}
		if strings.Contains(ref.text, strings.ToLower(p.Color)) &&
			strings.Contains(ref.text, strings.ToLower(p.Category)) {
			return i
		}
	}
	return -1
}

// byCategory takes the first category found in the text, not the most specific one.
func byCategory(ref reference, candidates []domain.Product) int {
	for i, p := range candidates {
		if p.Category != "" && strings.Contains(ref.text, strings.ToLower(p.Category)) {
			return i
		}
	}
	return -1
}

func byNumericIndex(ref reference, candidates []domain.Product) int {
	for _, f := range ref.fields {
		if !isDigits(f) {
			continue
		}
		n, err := strconv.Atoi(f)
		if err != nil {
			continue
		}
		if idx := n - 1; idx >= 0 && idx < len(candidates) {
			return idx
		}
	}
	return -1
}

func byAllTokensInName(ref reference, candidates []domain.Product) int {
	if len(ref.tokens) == 0 {
		return -1
	}

	for i, p := range candidates {
		name := strings.ToLower(p.Name)
		matched := true
		for _, tok := range ref.tokens {
			if !strings.Contains(name, tok) {
				matched = false
				break
			}
		}
		if matched {
			return i
		}
	}
	return -1
}

func byAnyTokenInName(ref reference, candidates []domain.Product) int {
	for i, p := range candidates {
		name := strings.ToLower(p.Name)
		for _, tok := range ref.tokens {
			if strings.Contains(name, tok) {
				return i
			}
		}
	}
	return -1
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
