package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_NoSignal(t *testing.T) {
	assert.Empty(t, Extract("Tell me a joke"))
}

func TestExtract_TimeAndDate(t *testing.T) {
	tasks := Extract("what is the current time and today's agenda")
	require.Len(t, tasks, 3)
	assert.Equal(t, TaskTime, tasks[0].Type)
	assert.Equal(t, TaskDate, tasks[1].Type)
	// "what ..." is also a short question
	assert.Equal(t, TaskSearch, tasks[2].Type)
}

func TestExtract_ShortQuestion(t *testing.T) {
	tasks := Extract("who invented the telephone?")
	require.Len(t, tasks, 1)
	assert.Equal(t, TaskSearch, tasks[0].Type)
	assert.Equal(t, "who invented the telephone?", tasks[0].Query)
}

func TestExtract_LongQuestionNotSearched(t *testing.T) {
	long := "what would happen if every person on the planet jumped at the exact same moment in time"
	require.Greater(t, len(long), 60)
	assert.Empty(t, Extract(long))
}

func TestExtract_NewsTopic(t *testing.T) {
	tasks := Extract("give me the latest news about quantum computing please")
	require.Len(t, tasks, 1)
	assert.Equal(t, TaskNews, tasks[0].Type)
	assert.Equal(t, "quantum computing please", tasks[0].Query)
}

func TestExtract_NewsTopicStopsAtPunctuation(t *testing.T) {
	tasks := Extract("any latest news on Mars rovers? I am curious")
	require.Len(t, tasks, 1)
	assert.Equal(t, "Mars rovers", tasks[0].Query)
}

func TestExtract_BareLatestNews_SingleGenericTask(t *testing.T) {
	tasks := Extract("tell me the latest news")
	require.Len(t, tasks, 1)
	assert.Equal(t, TaskNews, tasks[0].Type)
	assert.Equal(t, "", tasks[0].Query)
}

func TestExtract_NewsPronounCapturedAsTopic(t *testing.T) {
	// The topic pattern matches "about him" before the pronoun rule can
	// resolve it against "who is <Name>", so the query is the literal
	// pronoun. Keeping that behavior exact.
	tasks := Extract("who is Elon Musk and what is the latest news about him")
	var news []Task
	for _, task := range tasks {
		if task.Type == TaskNews {
			news = append(news, task)
		}
	}
	require.Len(t, news, 1)
	assert.Equal(t, "him", news[0].Query)
}

func TestExtractNewsQuery_PronounFallbackResolvesWhoIs(t *testing.T) {
	// The pronoun fallback is only reachable when the topic pattern
	// cannot match; drive the extractor directly to pin its behavior.
	query, found := extractNewsQuery("who is Ada Lovelace")
	require.False(t, found)
	assert.Equal(t, "", query)

	query, found = extractNewsQuery("latest news about them. who is Grace Hopper")
	require.True(t, found)
	// Topic pattern still wins on this shape.
	assert.Equal(t, "them", query)
}

func TestExtract_TypoNormalizedForNewsOnly(t *testing.T) {
	tasks := Extract("what is ablout to happen, latest news ablout Acme Corp")
	require.Len(t, tasks, 2)

	// Search query keeps the raw misspelling.
	assert.Equal(t, TaskSearch, tasks[0].Type)
	assert.Equal(t, "what is ablout to happen, latest news ablout Acme Corp", tasks[0].Query)

	// News query sees the normalized text.
	assert.Equal(t, TaskNews, tasks[1].Type)
	assert.Equal(t, "Acme Corp", tasks[1].Query)
}

func TestExtract_SlashCommands(t *testing.T) {
	text := "/search golang generics\n/news space launches\n/finance tsla"
	tasks := Extract(text)
	require.Len(t, tasks, 3)
	assert.Equal(t, Task{Type: TaskSearch, Query: "golang generics"}, tasks[0])
	assert.Equal(t, Task{Type: TaskNews, Query: "space launches"}, tasks[1])
	assert.Equal(t, Task{Type: TaskFinance, Symbol: "TSLA"}, tasks[2])
}

func TestExtract_SlashNewsBare(t *testing.T) {
	tasks := Extract("/news")
	require.Len(t, tasks, 1)
	assert.Equal(t, Task{Type: TaskNews, Query: ""}, tasks[0])
}

func TestExtract_SharePrice(t *testing.T) {
	tasks := Extract("AAPL hit a new high, what is the stock price")
	require.Len(t, tasks, 1)
	assert.Equal(t, Task{Type: TaskFinance, Symbol: "AAPL"}, tasks[0])
}

func TestExtract_SharePriceNifty(t *testing.T) {
	tasks := Extract("nifty share value?")
	require.Len(t, tasks, 1)
	assert.Equal(t, Task{Type: TaskFinance, Symbol: "NIFTY"}, tasks[0])
}

func TestExtract_OrderingNewsBeforeSlashFinance(t *testing.T) {
	tasks := Extract("What's the latest news about Acme and also\n/finance ACME")
	require.GreaterOrEqual(t, len(tasks), 2)

	newsIdx, financeIdx := -1, -1
	for i, task := range tasks {
		switch task.Type {
		case TaskNews:
			newsIdx = i
		case TaskFinance:
			if financeIdx == -1 {
				financeIdx = i
			}
		}
	}
	require.NotEqual(t, -1, newsIdx)
	require.NotEqual(t, -1, financeIdx)
	assert.Less(t, newsIdx, financeIdx, "pattern-detected news must come before slash-command finance")
}

func TestExtract_DuplicateFinanceSymbolsBothKept(t *testing.T) {
	tasks := Extract("/finance tsla\n/finance nvda")
	require.Len(t, tasks, 2)
	assert.Equal(t, "TSLA", tasks[0].Symbol)
	assert.Equal(t, "NVDA", tasks[1].Symbol)
}

func TestExtract_Idempotent(t *testing.T) {
	text := "current time, latest news about Go,\n/finance msft"
	assert.Equal(t, Extract(text), Extract(text))
}
