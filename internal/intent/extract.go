// Package intent derives live-data tasks from free-form user text.
//
// Detection is an ordered list of independent rules, each of which may
// append zero or more tasks. Rule order is load-bearing: it fixes the
// order in which context snippets are later assembled, which is what
// the model reads first. Duplicate task types are allowed.
package intent

import (
	"regexp"
	"strings"
)

var (
	timePattern     = regexp.MustCompile(`(?i)current time|time now`)
	datePattern     = regexp.MustCompile(`(?i)today|date\b`)
	questionPattern = regexp.MustCompile(`(?i)^\s*(who|what|where|when|how)\b`)

	typoPattern        = regexp.MustCompile(`(?i)\b(ablout|abput|abotu)\b`)
	newsTopicPattern   = regexp.MustCompile(`(?i)latest news(?: about| on)?\s+([^?.!,\n]+)`)
	newsPronounPattern = regexp.MustCompile(`(?i)latest news about (him|her|them)`)
	whoIsPattern       = regexp.MustCompile(`(?i)who is ([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)`)
	latestNewsPattern  = regexp.MustCompile(`(?i)latest news\b`)

	slashNewsPrefix = regexp.MustCompile(`(?i)^/news\s*`)
	slashSearchLine = regexp.MustCompile(`(?i)^/search\s+`)
	slashNewsLine   = regexp.MustCompile(`(?i)^/news\b`)
	slashFinance    = regexp.MustCompile(`(?i)^/finance\s+`)

	sharePattern = regexp.MustCompile(`(?i)\b([A-Za-z]{3,10}|nifty)\b.*\b(price|share|stock)`)
)

// rule inspects the raw user text and returns any tasks it detects.
type rule func(text string) []Task

// rules are evaluated in order; each appends independently.
var rules = []rule{
	timeRule,
	dateRule,
	shortQuestionRule,
	newsRule,
	slashCommandRule,
	sharePriceRule,
}

// Extract scans user text for live-data needs and returns the ordered
// task list. It is a pure function: no I/O, deterministic for a given
// input. An empty result means no augmentation is needed.
func Extract(text string) []Task {
	var tasks []Task
	for _, r := range rules {
		tasks = append(tasks, r(text)...)
	}
	return tasks
}

func timeRule(text string) []Task {
	if timePattern.MatchString(text) {
		return []Task{{Type: TaskTime}}
	}
	return nil
}

func dateRule(text string) []Task {
	if datePattern.MatchString(text) {
		return []Task{{Type: TaskDate}}
	}
	return nil
}

// shortQuestionRule turns short interrogative messages into a web
// search. It sees the raw text: typo normalization is scoped to news
// extraction only, so misspellings survive into the search query.
func shortQuestionRule(text string) []Task {
	if questionPattern.MatchString(text) && len(text) < 60 {
		return []Task{{Type: TaskSearch, Query: strings.TrimSpace(text)}}
	}
	return nil
}

func newsRule(text string) []Task {
	query, found := extractNewsQuery(text)
	if found {
		return []Task{{Type: TaskNews, Query: query}}
	}
	if latestNewsPattern.MatchString(text) {
		// "latest news" with no extractable topic: generic headlines.
		return []Task{{Type: TaskNews, Query: ""}}
	}
	return nil
}

// extractNewsQuery pulls a news topic out of the text. Common
// misspellings of "about" are corrected first, but only here.
func extractNewsQuery(text string) (string, bool) {
	fixed := typoPattern.ReplaceAllString(text, "about")
	if m := newsTopicPattern.FindStringSubmatch(fixed); m != nil {
		return strings.TrimSpace(m[1]), true
	}
	if newsPronounPattern.MatchString(fixed) {
		// "latest news about him": resolve the pronoun against an
		// earlier "who is <Name>" mention in the same message.
		if m := whoIsPattern.FindStringSubmatch(fixed); m != nil {
			return m[1], true
		}
	}
	return "", false
}

func slashCommandRule(text string) []Task {
	var tasks []Task
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		switch {
		case slashSearchLine.MatchString(line):
			tasks = append(tasks, Task{Type: TaskSearch, Query: strings.TrimSpace(line[len("/search "):])})
		case slashNewsLine.MatchString(line):
			tasks = append(tasks, Task{Type: TaskNews, Query: strings.TrimSpace(slashNewsPrefix.ReplaceAllString(line, ""))})
		case slashFinance.MatchString(line):
			tasks = append(tasks, Task{Type: TaskFinance, Symbol: strings.ToUpper(strings.TrimSpace(line[len("/finance "):]))})
		}
	}
	return tasks
}

func sharePriceRule(text string) []Task {
	if m := sharePattern.FindStringSubmatch(text); m != nil {
		return []Task{{Type: TaskFinance, Symbol: strings.ToUpper(m[1])}}
	}
	return nil
}
