package intent

// TaskType identifies one kind of live-data lookup.
type TaskType string

const (
	TaskTime    TaskType = "time"
	TaskDate    TaskType = "date"
	TaskSearch  TaskType = "search"
	TaskNews    TaskType = "news"
	TaskFinance TaskType = "finance"
)

// Task is one unit of live-data retrieval work derived from user text.
// Query is set for search and news tasks, Symbol for finance tasks.
type Task struct {
	Type   TaskType
	Query  string
	Symbol string
}
