package usecase

import (
	"log/slog"
	"regexp"
	"strings"
	"unicode/utf8"
)

// maxQueryLength caps the search term sent to a storefront
const maxQueryLength = 100

// querySynonyms rewrites British grocery terms to the wording the storefront search indexes best
var querySynonyms = []struct {
	pattern *regexp.Regexp
	with    string
}{
	{regexp.MustCompile(`\bcourgettes?\b`), "zucchini"},
	{regexp.MustCompile(`\baubergines?\b`), "eggplant"},
	{regexp.MustCompile(`\bmince\b`), "ground beef"},
	{regexp.MustCompile(`\bbiscuits?\b`), "cookies"},
}

// multiSpacePattern collapses runs of whitespace
var multiSpacePattern = regexp.MustCompile(`\s+`)

// QueryPreprocessor prepares shopping-list names for storefront search and
// filters the products that come back
type QueryPreprocessor struct {
	enableDebugLogging bool
}

// NewQueryPreprocessor creates a new query preprocessor
func NewQueryPreprocessor(enableDebugLogging bool) *QueryPreprocessor {
	return &QueryPreprocessor{
		enableDebugLogging: enableDebugLogging,
	}
}

// PreprocessQuery lower-cases an item name, applies the synonym table and
// normalises whitespace
func (p *QueryPreprocessor) PreprocessQuery(itemName string) string {
	if itemName == "" {
		return ""
	}

	cleaned := strings.ToLower(itemName)
	for _, s := range querySynonyms {
		cleaned = s.pattern.ReplaceAllString(cleaned, s.with)
	}

	cleaned = multiSpacePattern.ReplaceAllString(cleaned, " ")
	cleaned = strings.TrimSpace(cleaned)

	if len(cleaned) > maxQueryLength {
		cut := maxQueryLength
		for cut > 0 && !utf8.RuneStart(cleaned[cut]) {
			cut--
		}
		cleaned = cleaned[:cut]
		// cut at a word boundary when one is reasonably close
		if lastSpace := strings.LastIndex(cleaned, " "); lastSpace > maxQueryLength/2 {
			cleaned = cleaned[:lastSpace]
		}
	}

	if p.enableDebugLogging {
		slog.Debug("preprocessed query", "op", "QueryPreprocessor.PreprocessQuery",
			"input", itemName, "output", cleaned)
	}

	return cleaned
}

// MatchesFilters reports whether a product name contains every include tag and
// none of the exclude brands, case-insensitively. Blank tags and brands are ignored.
func MatchesFilters(productName string, includeTags, excludeBrands []string) bool {
	nameLower := strings.ToLower(productName)

	for _, tag := range includeTags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag != "" && !strings.Contains(nameLower, tag) {
			return false
		}
	}

	for _, brand := range excludeBrands {
		brand = strings.ToLower(strings.TrimSpace(brand))
		if brand != "" && strings.Contains(nameLower, brand) {
			return false
		}
	}

	return true
}
