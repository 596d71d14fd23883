package sources

import "strings"

// aliasTable maps well-known brand and subsidiary names to the legal names
// their registry entries are typically filed under. One table serves every
// provider so the variants cannot drift between registries. Data, not logic:
// providers query all variant terms and dedupe the merged results.
var aliasTable = map[string][]string{
	"amazon web services": {"amazon.com", "amazon"},
	"aws":                 {"amazon.com", "amazon"},
	"microsoft azure":     {"microsoft", "microsoft corporation"},
	"google cloud":        {"google", "alphabet"},
	"alphabet":            {"google"},
	"meta":                {"facebook", "meta platforms"},
	"facebook":            {"meta platforms", "meta"},
}

// brandTokens are globally recognized company name tokens. A filer title and
// a claim that share one of these gets a high-confidence match boost.
var brandTokens = []string{"amazon", "microsoft", "google", "apple", "meta", "tesla", "netflix"}

// QueryTerms returns the claim name followed by its alias variants.
func QueryTerms(name string) []string {
	terms := []string{name}
	if aliases, ok := aliasTable[strings.ToLower(name)]; ok {
		terms = append(terms, aliases...)
	}
	return terms
}

// CanonicalName returns the primary alias for a claim name, or the name
// itself when no alias applies. Used by the in-memory SEC match, which runs
// one comparison per filer rather than one query per variant.
func CanonicalName(name string) string {
	if aliases, ok := aliasTable[strings.ToLower(name)]; ok && len(aliases) > 0 {
		return aliases[0]
	}
	return name
}

// SharesBrandToken reports whether a and b contain the same globally
// recognized brand token, case-insensitively.
func SharesBrandToken(a, b string) bool {
	lowA, lowB := strings.ToLower(a), strings.ToLower(b)
	for _, tok := range brandTokens {
		if strings.Contains(lowA, tok) && strings.Contains(lowB, tok) {
			return true
		}
	}
	return false
}
