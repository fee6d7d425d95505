package news

import (
	"regexp"
	"strings"
)

// aliasTable maps a lowercased query to the name variants searched and
// matched for it. The first alias is the primary form.
var aliasTable = map[string][]string{
	"open ai":   {"openai", "open ai", "open-ai"},
	"openai":    {"openai", "open ai", "open-ai"},
	"google":    {"google", "alphabet"},
	"anthropic": {"anthropic"},
	"gemini":    {"gemini", "google gemini"},
	"claude":    {"claude", "anthropic claude"},
	"xai":       {"xai"},
	"meta":      {"meta", "facebook"},
	"nvidia":    {"nvidia"},
	"microsoft": {"microsoft"},
}

var separatorPattern = regexp.MustCompile(`\s+|-+`)

type brand struct {
	primary string
	aliases []string
	strict  *regexp.Regexp
}

// normalizeBrand expands a query into its known name variants and a
// strict matcher used to post-filter articles. The matcher tolerates
// space and hyphen variation within an alias but requires word
// boundaries around it.
func normalizeBrand(q string) brand {
	s := strings.ToLower(strings.TrimSpace(q))

	aliases, ok := aliasTable[s]
	if !ok {
		aliases = []string{s}
	}

	alts := make([]string, 0, len(aliases))
	for _, a := range aliases {
		quoted := separatorPattern.ReplaceAllString(regexp.QuoteMeta(a), `\s*-?\s*`)
		alts = append(alts, `\b`+quoted+`\b`)
	}

	return brand{
		primary: aliases[0],
		aliases: aliases,
		strict:  regexp.MustCompile(`(?i)` + strings.Join(alts, "|")),
	}
}

var categoryRules = []struct {
	pattern  *regexp.Regexp
	category string
}{
	{regexp.MustCompile(`openai|claude|gemini|llama|artificial intelligence|\bai\b`), "ai"},
	{regexp.MustCompile(`quantum|physics|research|study`), "science"},
	{regexp.MustCompile(`startup|funding|acquire|merger|revenue|ipo`), "business"},
	{regexp.MustCompile(`health|medical|vaccine|diagnosis`), "health"},
	{regexp.MustCompile(`tech|software|hardware|chip|semiconductor`), "technology"},
}

// inferCategoryFromTitle tags an article from keywords in its title.
// The first matching rule wins; anything else is "all".
func inferCategoryFromTitle(title string) string {
	t := strings.ToLower(title)
	for _, r := range categoryRules {
		if r.pattern.MatchString(t) {
			return r.category
		}
	}
	return "all"
}
